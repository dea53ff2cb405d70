package mode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/optimosight/vto-go/handlers"
	"github.com/optimosight/vto-go/pipeline"
	"github.com/optimosight/vto-go/service/lgr"
)

// Server runs the widget API: migrations and shade seeding first, then the
// gin router until the context is cancelled.
func Server(canxCtx context.Context, svcs pipeline.ServicesFactory) error {
	if err := svcs.DataSvc.Migrate(); err != nil {
		return err
	}
	if err := svcs.DataSvc.SeedShades(); err != nil {
		return err
	}

	if svcs.CfgSvc.GetRunTimeEnv() != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handlers.Register(router, svcs)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", svcs.CfgSvc.GetAPIPort()),
		Handler: router,
	}

	serverResult := make(chan error, 1)
	go func() {
		lgr.Logger.Info(
			"widget API listening",
			slog.String("addr", server.Addr),
		)
		serverResult <- server.ListenAndServe()
	}()

	select {
	case <-canxCtx.Done():
		lgr.Logger.Info(
			"server mode context cancelled",
		)

	case err := <-serverResult:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, canxFn := context.WithTimeout(context.Background(),
		time.Duration(svcs.CfgSvc.GetModeMaxShutdownTime())*time.Second)
	defer canxFn()

	return server.Shutdown(shutdownCtx)
}
