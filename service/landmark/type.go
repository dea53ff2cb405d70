package landmark

import (
	"context"

	"github.com/optimosight/vto-go/model"
	"gocv.io/x/gocv"
)

// IService is the landmark source capability: given a frame, it returns
// zero or one face, each with an ordered, index-addressable keypoint set.
// Detect must be treated as fallible per frame; the frame loop converts
// failures into reported, non-fatal statuses.
type IService interface {
	// Ready reports whether the underlying model can serve detections.
	Ready() bool
	// Detect runs landmark detection on one frame. The context bounds the
	// call; implementations must not mutate the frame.
	Detect(canxCtx context.Context, frame gocv.Mat) ([]model.Face, error)
	Close() error
}
