package pipeline

import (
	"context"
	"time"

	"github.com/optimosight/vto-go/compositor"
	"github.com/optimosight/vto-go/model"
	"github.com/optimosight/vto-go/region"
	"github.com/optimosight/vto-go/service/lgr"
	"github.com/optimosight/vto-go/service/status"
	"gocv.io/x/gocv"
)

type loopState int

const (
	waitingForModel loopState = iota
	running
)

// RunLoop drives the per-tick acquire -> detect -> composite -> present
// cycle until the context is cancelled. Ticks are strictly sequential: a
// new detection never starts before the previous tick's composite and
// present complete, so nothing else ever writes the target surface
// mid-tick. Every failure inside a tick is reported and the loop carries
// on; a single frame is never fatal.
func RunLoop(canxCtx context.Context, svcs ServicesFactory, frames <-chan FrameData, reg region.Region, present PresentFunc, errorStream chan interface{}, statsStream chan interface{}) error {
	fps := svcs.CfgSvc.GetDisplayFPS()
	if fps <= 0 {
		fps = 30
	}
	detectTimeout := time.Duration(svcs.CfgSvc.GetDetectionTimeout()) * time.Millisecond

	current := gocv.NewMat()
	target := gocv.NewMat()
	defer current.Close()
	defer target.Close()

	state := waitingForModel
	loadingReported := false

	var startTime = time.Now().Unix()
	var processed = 0
	var skipped = 0
	var noFaceTicks = 0
	var errors = 0
	var totalTickTime time.Duration

	defer func() {
		uptime := time.Now().Unix() - startTime
		loopFPS := 0
		if uptime > 0 {
			loopFPS = int(float64(processed) / float64(uptime))
		}
		var avgTickTime float64
		if processed > 0 {
			avgTickTime = totalTickTime.Seconds() / float64(processed)
		}
		statsStream <- model.LoopStats{
			Name:        "frameLoop",
			Frames:      processed,
			Skipped:     skipped,
			NoFaceTicks: noFaceTicks,
			Errors:      errors,
			Uptime:      uptime,
			FPS:         loopFPS,
			AvgTickTime: avgTickTime,
		}
	}()

	tick := func() {
		tickStart := time.Now()
		defer func() {
			totalTickTime += time.Since(tickStart)
		}()

		if state == waitingForModel {
			if !svcs.LandmarkSvc.Ready() {
				// Model still loading: skip this tick entirely. The ticker
				// already schedules the next check, so waiting never spins.
				if !loadingReported {
					svcs.StatusSvc.Notify(status.KindLoading, "waiting for landmark model")
					loadingReported = true
				}
				return
			}
			state = running
			svcs.StatusSvc.Notify(status.KindModelReady, "landmark model ready")
		}

		if current.Empty() {
			skipped++
			return
		}

		// Clean base every tick so stale overlays never persist.
		current.CopyTo(&target)

		// One palette snapshot per tick; a selection change mid-tick takes
		// effect on the next one.
		rgb, applied := svcs.Palette.Snapshot()

		detectCtx, canxFn := context.WithTimeout(canxCtx, detectTimeout)
		faces, err := svcs.LandmarkSvc.Detect(detectCtx, current)
		canxFn()

		switch {
		case err != nil:
			errors++
			svcs.StatusSvc.Notify(status.KindError, err.Error())
			errorStream <- model.GenError("frame_loop",
				err,
				map[string]interface{}{},
				"error detecting landmarks")

		case len(faces) == 0:
			noFaceTicks++
			// The absence of a face is only noteworthy when an overlay
			// would have been drawn.
			if applied {
				svcs.StatusSvc.Notify(status.KindNoFace, "no face detected")
			}

		case applied:
			// Multi-face results are accepted but only the first renders.
			if err := compositor.Composite(&faces[0], &rgb, reg, &target); err != nil {
				errors++
				svcs.StatusSvc.Notify(status.KindError, err.Error())
				errorStream <- model.GenError("frame_loop",
					err,
					map[string]interface{}{},
					"error compositing %s overlay", reg.Name)
			}
		}

		if present != nil {
			if err := present(target); err != nil {
				errors++
				errorStream <- model.GenError("frame_loop",
					err,
					map[string]interface{}{},
					"error presenting frame")
			}
		}

		processed++
	}

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-canxCtx.Done():
			lgr.FromContext(canxCtx).Info(
				"frame loop context cancelled",
			)
			return nil

		case f := <-frames:
			current.Close()
			current = f.Mat

		case <-ticker.C:
			tick()
		}
	}
}
