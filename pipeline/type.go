package pipeline

import (
	"time"

	"github.com/optimosight/vto-go/palette"
	"github.com/optimosight/vto-go/service/config"
	"github.com/optimosight/vto-go/service/data"
	"github.com/optimosight/vto-go/service/landmark"
	"github.com/optimosight/vto-go/service/status"
	"github.com/optimosight/vto-go/service/storage"
	"github.com/optimosight/vto-go/service/webhook"
	"gocv.io/x/gocv"
)

type FrameData struct {
	Mat       gocv.Mat
	Timestamp time.Time
}

type ServicesFactory struct {
	CfgSvc      config.IService
	DataSvc     data.IService
	LandmarkSvc landmark.IService
	StatusSvc   status.IService
	StorageSvc  storage.IService
	WebhookSvc  webhook.IService
	Palette     *palette.State
}

// PresentFunc delivers a composited frame to whatever surface the mode
// drives (a window, an encoder). The frame is owned by the loop and only
// valid for the duration of the call.
type PresentFunc func(frame gocv.Mat) error
