package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/xerrors"

	"github.com/optimosight/vto-go/mode"
	"github.com/optimosight/vto-go/palette"
	"github.com/optimosight/vto-go/pipeline"
	"github.com/optimosight/vto-go/service/config"
	"github.com/optimosight/vto-go/service/data"
	"github.com/optimosight/vto-go/service/landmark"
	"github.com/optimosight/vto-go/service/lgr"
	"github.com/optimosight/vto-go/service/status"
	"github.com/optimosight/vto-go/service/storage"
	"github.com/optimosight/vto-go/service/webhook"
)

const (
	// WARNING: this has to be bigger than the mode processor shutdown time
	waitOnShutdown = 8 * time.Second

	fakeModelWarmup = 2 * time.Second
)

var modeProcessors = map[string]mode.Processor{
	"widget": mode.Widget,
	"server": mode.Server,
}

func main() {
	rootCtx := context.Background()
	canxCtx, canxFn := context.WithCancel(rootCtx)

	// Hook up a signal handler to cancel the context
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		lgr.Logger.Info(
			"received kill signal",
			slog.Any("signal", sig),
		)
		canxFn()
	}()

	// Load env vars if we are in DEV mode
	if os.Getenv("RUN_TIME_ENV") == "dev" || os.Getenv("RUN_TIME_ENV") == "" {
		lgr.Logger.Info("loading env vars from .env file")
		err := godotenv.Load()
		if err != nil {
			lgr.Logger.Warn("error loading .env file", slog.Any("error", xerrors.New(err.Error())))
		}
	}

	modeType := "widget"
	args := os.Args[1:]
	if len(args) > 0 {
		modeType = args[0]
	}

	modeProc, ok := modeProcessors[modeType]
	if !ok {
		lgr.Logger.Error("invalid mode", slog.String("mode", modeType))
		panic("invalid mode")
	}

	// Create the services needed for the mode processor
	// Config service
	cfgSvc := config.NewEnvVars()
	// Data service
	dataSvc, err := data.NewSqlite(cfgSvc)
	if err != nil {
		lgr.Logger.Error("error opening database", slog.Any("error", err))
		panic("error opening database")
	}
	defer dataSvc.Finalize()
	// Landmark service; fall back to the fake detector so the widget can run
	// without the model file on disk
	landmarkSvc, err := landmark.NewFaceMesh(cfgSvc)
	if err != nil {
		lgr.Logger.Warn(
			"face mesh model unavailable, using fake landmark detector",
			slog.String("path", cfgSvc.GetFaceMeshModelPath()),
			slog.Any("error", err),
		)
		landmarkSvc = landmark.NewFake(fakeModelWarmup)
	}
	defer landmarkSvc.Close()
	// Status service
	statusSvc := status.NewLogger()
	// Storage service
	storageSvc := storage.NewLocal(cfgSvc)
	// Webhook service
	webhookSvc := webhook.NewHTTP(cfgSvc)

	svcs := pipeline.ServicesFactory{
		CfgSvc:      cfgSvc,
		DataSvc:     dataSvc,
		LandmarkSvc: landmarkSvc,
		StatusSvc:   statusSvc,
		StorageSvc:  storageSvc,
		WebhookSvc:  webhookSvc,
		Palette:     palette.NewState(),
	}

	// Create mode processor result
	modeProcResult := make(chan error)
	defer close(modeProcResult)

	// Start the mode processor
	go func() {
		modeProcResult <- modeProc(canxCtx, svcs)
	}()

	// Wait for cancellation, mode proc exit or error
	for {
		select {
		case <-canxCtx.Done():
			lgr.Logger.Info(
				"try-on pod context cancelled",
			)
			goto resume

		case err := <-modeProcResult:
			if err != nil {
				lgr.Logger.Info(
					"try-on pod mode processor exited",
					slog.Any("error", xerrors.New(err.Error())),
				)
			}
			goto resume
		}
	}

	// Wait in a non-blocking way for `waitOnShutdown` for all the go routines to exit
	// This is needed because the go routines may need to report errors as they are exiting
resume:
	// Cancel the context if not already cancelled
	if canxCtx.Err() == nil {
		// Force cancel the context
		canxFn()
	}

	lgr.Logger.Info(
		"try-on pod is waiting for all go routines to exit",
	)

	// The only way to exit the main function is to wait for the shutdown
	// duration
	timer := time.NewTimer(waitOnShutdown)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			// Timer expired, proceed with shutdown
			lgr.Logger.Info(
				"try-on pod shutdown waiting period expired. Exiting now",
				slog.Duration("period", waitOnShutdown),
			)

			return

		case err := <-modeProcResult:
			if err != nil {
				lgr.Logger.Info(
					"try-on pod mode processor exited",
					slog.Any("error", xerrors.New(err.Error())),
				)
			}
		}
	}
}
