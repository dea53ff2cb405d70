package compositor

import (
	"errors"
	"testing"

	"github.com/optimosight/vto-go/model"
	"github.com/optimosight/vto-go/palette"
	"github.com/optimosight/vto-go/region"
	"gocv.io/x/gocv"
)

// testRegion maps a tiny 8-keypoint topology: indices 0-3 are the outer
// rectangle corners, 4-7 the inner rectangle corners.
func testRegion() region.Region {
	return region.Region{
		Name:         "test",
		Outer:        []int{0, 1, 2, 3},
		Inner:        []int{4, 5, 6, 7},
		MinKeypoints: 8,
	}
}

func testFace() *model.Face {
	return &model.Face{
		Keypoints: []model.Keypoint{
			{X: 10, Y: 10}, {X: 50, Y: 10}, {X: 50, Y: 50}, {X: 10, Y: 50},
			{X: 20, Y: 20}, {X: 40, Y: 20}, {X: 40, Y: 40}, {X: 20, Y: 40},
		},
		Score: 1,
	}
}

func blackFrame(rows, cols int) gocv.Mat {
	return gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC3)
}

func TestCompositeNoFaceOrColorIsNoOp(t *testing.T) {
	rgb := palette.RGB{R: 233, G: 30, B: 99}

	tests := []struct {
		name string
		face *model.Face
		rgb  *palette.RGB
	}{
		{"nil face", nil, &rgb},
		{"nil color", testFace(), nil},
		{"both nil", nil, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			target := blackFrame(64, 64)
			defer target.Close()

			if err := Composite(tc.face, tc.rgb, testRegion(), &target); err != nil {
				t.Fatalf("Composite returned %v", err)
			}

			px := target.GetVecbAt(30, 30)
			if px[0] != 0 || px[1] != 0 || px[2] != 0 {
				t.Errorf("surface modified on no-op composite: %v", px)
			}
		})
	}
}

func TestCompositeEvenOddOverBlack(t *testing.T) {
	target := blackFrame(64, 64)
	defer target.Close()

	rgb := palette.RGB{R: 233, G: 30, B: 99} // #E91E63
	if err := Composite(testFace(), &rgb, testRegion(), &target); err != nil {
		t.Fatalf("Composite failed: %v", err)
	}

	// 0.7 * color over black, rounded by AddWeighted.
	wantB, wantG, wantR := uint8(69), uint8(21), uint8(163)

	between := target.GetVecbAt(30, 15) // row 30, col 15: between the rings
	if between[0] != wantB || between[1] != wantG || between[2] != wantR {
		t.Errorf("between-ring pixel = %v; want [%d %d %d]", between, wantB, wantG, wantR)
	}

	cavity := target.GetVecbAt(30, 30) // inside the inner cutout
	if cavity[0] != 0 || cavity[1] != 0 || cavity[2] != 0 {
		t.Errorf("cavity pixel modified: %v; even-odd cutout regressed", cavity)
	}

	outside := target.GetVecbAt(5, 5)
	if outside[0] != 0 || outside[1] != 0 || outside[2] != 0 {
		t.Errorf("outside pixel modified: %v", outside)
	}
}

func TestCompositeRegionWithoutCutout(t *testing.T) {
	target := blackFrame(64, 64)
	defer target.Close()

	reg := region.Region{Name: "solid", Outer: []int{0, 1, 2, 3}, MinKeypoints: 4}
	face := &model.Face{Keypoints: testFace().Keypoints[:4]}
	rgb := palette.RGB{R: 255, G: 255, B: 255}

	if err := Composite(face, &rgb, reg, &target); err != nil {
		t.Fatalf("Composite failed: %v", err)
	}

	center := target.GetVecbAt(30, 30)
	if center[0] == 0 && center[1] == 0 && center[2] == 0 {
		t.Error("region without an inner contour must fill its whole interior")
	}
}

func TestCompositeOutOfRangeIndex(t *testing.T) {
	target := blackFrame(64, 64)
	defer target.Close()

	face := testFace()
	face.Keypoints = face.Keypoints[:6] // below the region's MinKeypoints
	rgb := palette.RGB{R: 233, G: 30, B: 99}

	err := Composite(face, &rgb, testRegion(), &target)
	if !errors.Is(err, ErrOutOfRangeIndex) {
		t.Fatalf("Composite error = %v; want ErrOutOfRangeIndex", err)
	}

	px := target.GetVecbAt(30, 15)
	if px[0] != 0 || px[1] != 0 || px[2] != 0 {
		t.Errorf("surface modified despite out-of-range index: %v", px)
	}
}
