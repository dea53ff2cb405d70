package landmark

import (
	"context"
	"math"
	"time"

	"github.com/optimosight/vto-go/model"
	"github.com/optimosight/vto-go/region"
	"gocv.io/x/gocv"
)

type fakeService struct {
	readyAt time.Time
}

// NewFake returns a deterministic landmark source for development and
// tests: one synthetic face centered on the frame, with the known regions'
// contours laid out on concentric ellipses. The warmup delay lets callers
// exercise the model-loading path.
func NewFake(warmup time.Duration) IService {
	return &fakeService{
		readyAt: time.Now().Add(warmup),
	}
}

func (svc *fakeService) Ready() bool {
	return time.Now().After(svc.readyAt)
}

func (svc *fakeService) Detect(canxCtx context.Context, frame gocv.Mat) ([]model.Face, error) {
	if err := canxCtx.Err(); err != nil {
		return nil, err
	}

	cols, rows := frame.Cols(), frame.Rows()
	cx, cy := float32(cols)/2, float32(rows)*0.7

	keypoints := make([]model.Keypoint, region.TopologyKeypoints)
	for i := range keypoints {
		keypoints[i] = model.Keypoint{X: cx, Y: cy}
	}

	for _, name := range region.Names() {
		reg, err := region.Lookup(name)
		if err != nil {
			return nil, err
		}
		placeRing(keypoints, reg.Outer, cx, cy, float32(cols)/8, float32(rows)/14)
		placeRing(keypoints, reg.Inner, cx, cy, float32(cols)/16, float32(rows)/28)
	}

	return []model.Face{{Keypoints: keypoints, Score: 1}}, nil
}

func (svc *fakeService) Close() error {
	return nil
}

func placeRing(keypoints []model.Keypoint, contour []int, cx, cy, rx, ry float32) {
	for i, idx := range contour {
		angle := 2 * math.Pi * float64(i) / float64(len(contour))
		keypoints[idx] = model.Keypoint{
			X: cx + rx*float32(math.Cos(angle)),
			Y: cy + ry*float32(math.Sin(angle)),
		}
	}
}
