package pipeline

import (
	"context"
	"time"

	"github.com/optimosight/vto-go/model"
	"github.com/optimosight/vto-go/service/lgr"
	"gocv.io/x/gocv"
)

// Framer starts frame acquisition and returns the channel the loop reads
// from. Acquisition failure is fatal to startup and returned synchronously;
// per-frame read errors are counted and retried. The channel carries at
// most one pending frame: when the loop is mid-tick, newer frames are
// dropped so the loop always sees the most recent one.
func Framer(canxCtx context.Context, svcs ServicesFactory, errorStream chan interface{}, statsStream chan interface{}) (<-chan FrameData, error) {
	if svcs.CfgSvc.GetFramerType() == "synthetic" {
		frames := make(chan FrameData, 1)
		go syntheticFramer(canxCtx, svcs, statsStream, frames)
		return frames, nil
	}

	var webcam *gocv.VideoCapture
	var err error
	if url := svcs.CfgSvc.GetCameraURL(); url != "" {
		webcam, err = gocv.OpenVideoCapture(url)
	} else {
		webcam, err = gocv.OpenVideoCapture(svcs.CfgSvc.GetCameraDeviceID())
	}
	if err != nil {
		// AcquisitionFailure: reported once, no retry here.
		return nil, err
	}

	frames := make(chan FrameData, 1)
	go webcamFramer(canxCtx, svcs, webcam, errorStream, statsStream, frames)
	return frames, nil
}

func webcamFramer(canxCtx context.Context, svcs ServicesFactory, webcam *gocv.VideoCapture, errorStream chan interface{}, statsStream chan interface{}, frames chan FrameData) {
	defer webcam.Close()

	var startTime = time.Now().Unix()
	var captured = 0
	var dropped = 0
	var errors = 0

	defer func() {
		uptime := time.Now().Unix() - startTime
		fps := 0
		if uptime > 0 {
			fps = int(float64(captured) / float64(uptime))
		}
		statsStream <- model.FramerStats{
			Name:    "webcamFramer",
			Source:  "webcam",
			Frames:  captured,
			Dropped: dropped,
			Errors:  errors,
			Uptime:  uptime,
			FPS:     fps,
		}
	}()

	for {
		select {
		case <-canxCtx.Done():
			lgr.Logger.Info(
				"webcam framer context cancelled",
			)
			return

		default:
			img := gocv.NewMat()
			if ok := webcam.Read(&img); !ok || img.Empty() {
				errors++
				img.Close() // Crucial to close the image to avoid memory leaks
				continue
			}

			captured++
			select {
			case frames <- FrameData{Mat: img, Timestamp: time.Now()}:
				// Loop takes ownership of the Mat.
			default:
				// Loop is mid-tick; drop the stale frame.
				dropped++
				img.Close() // Crucial to close the image to avoid memory leaks
			}
		}
	}
}

// syntheticFramer emits generated frames so the pipeline can run without a
// camera (tests, headless development).
func syntheticFramer(canxCtx context.Context, svcs ServicesFactory, statsStream chan interface{}, frames chan FrameData) {
	var startTime = time.Now().Unix()
	var captured = 0
	var dropped = 0

	defer func() {
		uptime := time.Now().Unix() - startTime
		fps := 0
		if uptime > 0 {
			fps = int(float64(captured) / float64(uptime))
		}
		statsStream <- model.FramerStats{
			Name:    "syntheticFramer",
			Source:  "synthetic",
			Frames:  captured,
			Dropped: dropped,
			Uptime:  uptime,
			FPS:     fps,
		}
	}()

	interval := time.Second / time.Duration(svcs.CfgSvc.GetDisplayFPS())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-canxCtx.Done():
			lgr.Logger.Info(
				"synthetic framer context cancelled",
			)
			return

		case <-ticker.C:
			img := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
			captured++
			select {
			case frames <- FrameData{Mat: img, Timestamp: time.Now()}:
			default:
				dropped++
				img.Close() // Crucial to close the image to avoid memory leaks
			}
		}
	}
}
