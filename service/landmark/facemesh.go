package landmark

import (
	"context"
	"image"
	"log/slog"
	"math"
	"os"
	"sync"

	"golang.org/x/xerrors"

	"github.com/optimosight/vto-go/model"
	"github.com/optimosight/vto-go/region"
	"github.com/optimosight/vto-go/service/config"
	"github.com/optimosight/vto-go/service/lgr"
	"gocv.io/x/gocv"
)

const (
	// Face-mesh ONNX input side and output layer names.
	facemeshInputSize = 192
	meshOutputLayer   = "conv2d_21"
	scoreOutputLayer  = "conv2d_31"
)

type facemeshService struct {
	CfgSvc config.IService

	// WARNING: the net is not thread-safe, all forward passes serialize on
	// the mutex.
	mu  sync.Mutex
	net gocv.Net
}

// NewFaceMesh loads the face-mesh ONNX model through the OpenCV DNN module.
func NewFaceMesh(cfgSvc config.IService) (IService, error) {
	modelPath := cfgSvc.GetFaceMeshModelPath()
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return nil, xerrors.Errorf("no face mesh model at %s: %w", modelPath, err)
	}

	net := gocv.ReadNet(modelPath, "")
	if net.Empty() {
		return nil, xerrors.New("error reading face mesh model")
	}

	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		net.Close()
		return nil, xerrors.Errorf("error setting backend: %w", err)
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		net.Close()
		return nil, xerrors.Errorf("error setting target: %w", err)
	}

	lgr.Logger.Info(
		"face mesh model loaded",
		slog.String("model", modelPath),
		slog.String("openCV", gocv.Version()),
	)

	return &facemeshService{
		CfgSvc: cfgSvc,
		net:    net,
	}, nil
}

func (svc *facemeshService) Ready() bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return !svc.net.Empty()
}

func (svc *facemeshService) Detect(canxCtx context.Context, frame gocv.Mat) ([]model.Face, error) {
	if err := canxCtx.Err(); err != nil {
		return nil, err
	}
	if frame.Empty() {
		return nil, xerrors.New("empty frame")
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	blob := gocv.BlobFromImage(frame, 1.0/255.0,
		image.Pt(facemeshInputSize, facemeshInputSize),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	svc.net.SetInput(blob, "")
	outputs := svc.net.ForwardLayers([]string{meshOutputLayer, scoreOutputLayer})
	defer func() {
		for _, out := range outputs {
			out.Close()
		}
	}()
	if len(outputs) != 2 {
		return nil, xerrors.Errorf("unexpected face mesh outputs: %d", len(outputs))
	}

	// The detection may have completed after the caller gave up; honor the
	// deadline before handing back a stale result.
	if err := canxCtx.Err(); err != nil {
		return nil, err
	}

	scores, err := outputs[1].DataPtrFloat32()
	if err != nil || len(scores) == 0 {
		return nil, xerrors.New("error reading face presence score")
	}
	score := sigmoid(scores[0])
	if score < svc.CfgSvc.GetFaceMeshScoreThreshold() {
		return nil, nil
	}

	coords, err := outputs[0].DataPtrFloat32()
	if err != nil {
		return nil, xerrors.Errorf("error reading landmark tensor: %w", err)
	}
	count := len(coords) / 3
	if count < region.TopologyKeypoints {
		// Fewer keypoints than the topology requires: treat the face as
		// undetected rather than handing out a set contours cannot resolve.
		lgr.FromContext(canxCtx).Debug(
			"landmark tensor below topology minimum",
			slog.Int("keypoints", count),
		)
		return nil, nil
	}

	// Landmarks come out in input-square pixel coordinates.
	sx := float32(frame.Cols()) / float32(facemeshInputSize)
	sy := float32(frame.Rows()) / float32(facemeshInputSize)

	keypoints := make([]model.Keypoint, count)
	for i := 0; i < count; i++ {
		keypoints[i] = model.Keypoint{
			X: coords[i*3] * sx,
			Y: coords[i*3+1] * sy,
		}
	}

	return []model.Face{{Keypoints: keypoints, Score: score}}, nil
}

func (svc *facemeshService) Close() error {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.net.Close()
}

func sigmoid(x float32) float32 {
	return float32(1.0 / (1.0 + math.Exp(-float64(x))))
}
