package status

import (
	"log/slog"

	"github.com/optimosight/vto-go/service/lgr"
)

type loggerService struct {
}

// NewLogger returns a status sink that forwards every notice to the
// process logger.
func NewLogger() IService {
	return &loggerService{}
}

func (svc *loggerService) Notify(kind string, message string) {
	if kind == KindError {
		lgr.Logger.Error(
			"widget status",
			slog.String("kind", kind),
			slog.String("message", message),
		)
		return
	}

	lgr.Logger.Info(
		"widget status",
		slog.String("kind", kind),
		slog.String("message", message),
	)
}
