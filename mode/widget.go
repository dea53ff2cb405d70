package mode

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/optimosight/vto-go/model"
	"github.com/optimosight/vto-go/palette"
	"github.com/optimosight/vto-go/pipeline"
	"github.com/optimosight/vto-go/region"
	"github.com/optimosight/vto-go/service/lgr"
	"gocv.io/x/gocv"
)

// Widget runs the live try-on: camera frames in, landmark detection and
// color compositing per tick, result shown in a window. Keys 1-9 select a
// preset shade, c clears the selection, s snapshots the current frame.
func Widget(canxCtx context.Context, svcs pipeline.ServicesFactory) error {
	reg, err := region.Lookup(svcs.CfgSvc.GetWidgetRegion())
	if err != nil {
		return err
	}

	// The framer and the loop flush into these on their way out, possibly
	// after the shutdown drain below gives up waiting; never close them.
	errorStream := make(chan interface{}, 256)
	statsStream := make(chan interface{}, 16)

	frames, err := pipeline.Framer(canxCtx, svcs, errorStream, statsStream)
	if err != nil {
		return err
	}

	// Preset shades drive the number keys. Missing catalog is not fatal;
	// the widget still runs with clear-only controls.
	var presets []model.Shade
	if svcs.DataSvc != nil {
		presets, err = svcs.DataSvc.RetrieveShades("lipstick")
		if err != nil {
			lgr.Logger.Warn(
				"error retrieving preset shades",
				slog.Any("error", err),
			)
		}
	}

	cmds := svcs.Palette.Consume(canxCtx)

	window := gocv.NewWindow("virtual try-on")
	defer window.Close()

	var snapshotSeq int
	present := func(frame gocv.Mat) error {
		window.IMShow(frame)
		key := window.WaitKey(1)
		switch {
		case key >= '1' && key <= '9':
			idx := key - '1'
			if idx < len(presets) {
				cmds <- palette.ApplyColor{Hex: presets[idx].Hex}
				lgr.Logger.Info(
					"shade selected",
					slog.String("name", presets[idx].Name),
					slog.String("hex", presets[idx].Hex),
				)
			}

		case key == 'c':
			cmds <- palette.ClearColor{}

		case key == 's':
			if svcs.StorageSvc != nil {
				snapshotSeq++
				path, err := svcs.StorageSvc.StoreImage(fmt.Sprintf("snapshot_%03d", snapshotSeq), frame)
				if err != nil {
					return err
				}
				lgr.Logger.Info(
					"snapshot stored",
					slog.String("path", path),
				)
			}
		}
		return nil
	}

	// Run the frame loop
	loopResult := make(chan error, 1)
	go func() {
		loopResult <- pipeline.RunLoop(canxCtx, svcs, frames, reg, present, errorStream, statsStream)
	}()

	// Wait for cancellation, loop exit, stats or errors
	for {
		select {
		case <-canxCtx.Done():
			lgr.Logger.Info(
				"widget mode context cancelled",
			)
			goto resume

		case err := <-loopResult:
			if err != nil {
				procError(model.GenError("widget_mode",
					err,
					map[string]interface{}{},
					"frame loop exited with an error"))
			}
			goto resume

		case s := <-statsStream:
			procStats(s)

		case e := <-errorStream:
			procError(e)
		}
	}

	// Wait in a non-blocking way for the shutdown duration so the framer and
	// the loop go routines can flush their stats and errors as they exit
resume:
	lgr.Logger.Info(
		"widget mode is waiting for all go routines to exit",
	)

	timer := time.NewTimer(time.Duration(svcs.CfgSvc.GetModeMaxShutdownTime()) * time.Second)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			lgr.Logger.Info(
				"widget mode shutdown waiting period expired. Exiting now",
				slog.Duration("period", time.Duration(svcs.CfgSvc.GetModeMaxShutdownTime())*time.Second),
			)
			return nil

		case s := <-statsStream:
			procStats(s)

		case e := <-errorStream:
			procError(e)
		}
	}
}
