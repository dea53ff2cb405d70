package compositor

import (
	"testing"

	"github.com/optimosight/vto-go/model"
)

func rect(x0, y0, x1, y1 float32) []model.Keypoint {
	return []model.Keypoint{
		{X: x0, Y: y0},
		{X: x1, Y: y0},
		{X: x1, Y: y1},
		{X: x0, Y: y1},
	}
}

// The core regression guard: an inner rectangle fully contained in an outer
// rectangle must stay unfilled, while the band between the two boundaries
// fills. A nonzero-winding fill would fill the inner rectangle too.
func TestRasterizeEvenOddCutout(t *testing.T) {
	const w, h = 64, 64
	subpaths := [][]model.Keypoint{
		rect(10, 10, 50, 50),
		rect(20, 20, 40, 40),
	}

	mask := rasterizeEvenOdd(subpaths, w, h)

	tests := []struct {
		name     string
		x, y     int
		expected byte
	}{
		{"inside inner cutout", 30, 30, 0},
		{"between inner and outer (left)", 15, 30, 255},
		{"between inner and outer (top)", 30, 15, 255},
		{"between inner and outer (right)", 45, 30, 255},
		{"between inner and outer (bottom)", 30, 45, 255},
		{"outside outer", 5, 5, 0},
		{"outside outer (far corner)", 60, 60, 0},
		{"just inside outer", 11, 11, 255},
		{"just inside inner", 21, 21, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := mask[tc.y*w+tc.x]
			if got != tc.expected {
				t.Errorf("mask[%d,%d] = %d; want %d", tc.x, tc.y, got, tc.expected)
			}
		})
	}
}

func TestRasterizeSingleSubpath(t *testing.T) {
	const w, h = 32, 32
	mask := rasterizeEvenOdd([][]model.Keypoint{rect(4, 4, 28, 28)}, w, h)

	if mask[16*w+16] != 255 {
		t.Error("center of a single rectangle must be filled")
	}
	if mask[1*w+1] != 0 {
		t.Error("outside of a single rectangle must stay empty")
	}
}

func TestRasterizeTriangle(t *testing.T) {
	const w, h = 32, 32
	tri := []model.Keypoint{{X: 16, Y: 2}, {X: 30, Y: 30}, {X: 2, Y: 30}}
	mask := rasterizeEvenOdd([][]model.Keypoint{tri}, w, h)

	if mask[20*w+16] != 255 {
		t.Error("point inside the triangle must be filled")
	}
	if mask[5*w+2] != 0 {
		t.Error("point outside the triangle must stay empty")
	}
}

func TestRasterizeDegenerateSubpaths(t *testing.T) {
	const w, h = 16, 16

	tests := []struct {
		name     string
		subpaths [][]model.Keypoint
	}{
		{"nil", nil},
		{"empty subpath", [][]model.Keypoint{{}}},
		{"two points", [][]model.Keypoint{{{X: 1, Y: 1}, {X: 10, Y: 10}}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mask := rasterizeEvenOdd(tc.subpaths, w, h)
			for i, v := range mask {
				if v != 0 {
					t.Fatalf("degenerate input filled pixel %d", i)
				}
			}
		})
	}
}

func TestRasterizeClampsToSurface(t *testing.T) {
	const w, h = 16, 16
	// Polygon partially off-surface must not panic and must fill only
	// on-surface pixels.
	mask := rasterizeEvenOdd([][]model.Keypoint{rect(-10, -10, 8, 8)}, w, h)

	if mask[4*w+4] != 255 {
		t.Error("on-surface part of an off-surface polygon must fill")
	}
	if mask[12*w+12] != 0 {
		t.Error("pixel outside the polygon must stay empty")
	}
}
