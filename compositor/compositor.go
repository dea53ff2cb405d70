// Package compositor renders a colored cosmetic overlay over a camera
// frame. The region's outer and inner contours are resolved against a
// face's keypoints and filled as one polygon set under the even-odd rule,
// so the inner contour cuts the mouth cavity out of the outer fill.
package compositor

import (
	"github.com/mdobak/go-xerrors"

	"github.com/optimosight/vto-go/model"
	"github.com/optimosight/vto-go/palette"
	"github.com/optimosight/vto-go/region"
	"gocv.io/x/gocv"
)

// ErrOutOfRangeIndex means a region contour references a keypoint index
// beyond the detected face's keypoint count. The compositor checks this
// defensively; callers treat it like a per-frame detection failure.
var ErrOutOfRangeIndex = xerrors.New("contour keypoint index exceeds face keypoint count")

// Composite draws the region filled with rgb at the fixed overlay alpha
// onto target, which must be an 8-bit 3-channel (BGR) frame. A nil face or
// nil rgb leaves the target untouched and is not an error. Side effects are
// confined to target.
func Composite(face *model.Face, rgb *palette.RGB, reg region.Region, target *gocv.Mat) error {
	if face == nil || rgb == nil {
		return nil
	}

	if len(face.Keypoints) < reg.MinKeypoints {
		return ErrOutOfRangeIndex
	}

	// Both contours go into a single polygon set before filling; filling
	// them separately would lose the cavity cutout.
	subpaths := make([][]model.Keypoint, 0, 2)
	subpaths = append(subpaths, resolve(face, reg.Outer))
	if len(reg.Inner) > 0 {
		subpaths = append(subpaths, resolve(face, reg.Inner))
	}

	mask := rasterizeEvenOdd(subpaths, target.Cols(), target.Rows())
	return blend(mask, *rgb, target)
}

func resolve(face *model.Face, contour []int) []model.Keypoint {
	points := make([]model.Keypoint, len(contour))
	for i, idx := range contour {
		points[i] = face.Keypoints[idx]
	}
	return points
}

// blend applies rgb at OverlayAlpha over target, source-over, only where
// the mask is set.
func blend(mask []byte, rgb palette.RGB, target *gocv.Mat) error {
	maskMat, err := gocv.NewMatFromBytes(target.Rows(), target.Cols(), gocv.MatTypeCV8U, mask)
	if err != nil {
		return err
	}
	defer maskMat.Close()

	// OpenCV frames are BGR.
	overlay := gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(float64(rgb.B), float64(rgb.G), float64(rgb.R), 0),
		target.Rows(), target.Cols(), gocv.MatTypeCV8UC3)
	defer overlay.Close()

	blended := gocv.NewMat()
	defer blended.Close()
	gocv.AddWeighted(*target, 1.0-palette.OverlayAlpha, overlay, palette.OverlayAlpha, 0, &blended)

	blended.CopyToWithMask(target, maskMat)
	return nil
}
