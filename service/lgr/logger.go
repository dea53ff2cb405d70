package lgr

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/natefinch/lumberjack"
	"go.opentelemetry.io/otel/trace"
)

// Logger is the process-wide logger. In dev mode it writes colored text to
// stdout; otherwise JSON to stdout plus a rotating file.
var Logger *slog.Logger

func init() {
	env := os.Getenv("RUN_TIME_ENV")
	if env == "dev" || env == "" {
		Logger = slog.New(newDevHandler(os.Stdout))
		return
	}

	rotator := &lumberjack.Logger{
		Filename:   "vto.log",
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     7,    // days
		Compress:   true, // compress old logs
	}

	Logger = slog.New(slog.NewJSONHandler(
		io.MultiWriter(os.Stdout, rotator),
		&slog.HandlerOptions{Level: slog.LevelInfo},
	))
}

// FromContext returns the package logger enriched with the OTEL trace and
// span IDs when the context carries a valid span context.
func FromContext(canxCtx context.Context) *slog.Logger {
	sc := trace.SpanContextFromContext(canxCtx)
	if !sc.IsValid() {
		return Logger
	}

	return Logger.With(
		slog.String("traceID", sc.TraceID().String()),
		slog.String("spanID", sc.SpanID().String()),
	)
}

func newDevHandler(w io.Writer) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key != slog.LevelKey {
				return a
			}

			lvl, ok := a.Value.Any().(slog.Level)
			if !ok {
				return a
			}

			switch {
			case lvl >= slog.LevelError:
				a.Value = slog.StringValue(color.RedString(lvl.String()))
			case lvl >= slog.LevelWarn:
				a.Value = slog.StringValue(color.YellowString(lvl.String()))
			case lvl >= slog.LevelInfo:
				a.Value = slog.StringValue(color.GreenString(lvl.String()))
			default:
				a.Value = slog.StringValue(color.CyanString(lvl.String()))
			}

			return a
		},
	})
}
