// Package region is the static topology index mapping named cosmetic
// regions to ordered landmark-index contours. Indices follow the MediaPipe
// face-mesh convention (468 keypoints).
package region

import (
	"fmt"
	"sort"
)

// TopologyKeypoints is the keypoint count of the face-mesh topology this
// index is built against.
const TopologyKeypoints = 468

// Region is a closed polygon boundary (Outer) with an optional cutout
// boundary (Inner). Contour order is geometrically significant: it defines
// the traversal direction for path construction. The even-odd fill rule
// makes the absolute winding direction unimportant.
type Region struct {
	Name  string
	Outer []int
	Inner []int
	// MinKeypoints is the smallest keypoint count a face must have for this
	// region to resolve: the maximum referenced index + 1. A face below this
	// is treated as undetected, not as a region error.
	MinKeypoints int
}

// Face-mesh contour rings. The lips rings are the canonical outer/inner
// lip loops; the eye rings are the left/right eye loops used for eyeshadow.
var (
	lipsOuter = []int{
		61, 146, 91, 181, 84, 17, 314, 405, 321, 375,
		291, 409, 270, 269, 267, 0, 37, 39, 40, 185,
	}
	lipsInner = []int{
		78, 95, 88, 178, 87, 14, 317, 402, 318, 324,
		308, 415, 310, 311, 312, 13, 82, 81, 80, 191,
	}
	leftEyeRing = []int{
		263, 249, 390, 373, 374, 380, 381, 382, 362,
		398, 384, 385, 386, 387, 388, 466,
	}
	rightEyeRing = []int{
		33, 7, 163, 144, 145, 153, 154, 155, 133,
		173, 157, 158, 159, 160, 161, 246,
	}
)

var regions = map[string]Region{
	"lips": {
		Name:  "lips",
		Outer: lipsOuter,
		Inner: lipsInner,
	},
	"left_eye": {
		Name:  "left_eye",
		Outer: leftEyeRing,
	},
	"right_eye": {
		Name:  "right_eye",
		Outer: rightEyeRing,
	},
}

func init() {
	// The tables are compile-time data: a bad entry is a build defect, so
	// corruption panics at startup rather than surfacing at render time.
	for name, reg := range regions {
		if err := validate(reg); err != nil {
			panic(fmt.Sprintf("region index %q: %v", name, err))
		}

		reg.MinKeypoints = minKeypoints(reg)
		regions[name] = reg
	}
}

// Lookup returns the contours of a named cosmetic region.
func Lookup(name string) (Region, error) {
	reg, ok := regions[name]
	if !ok {
		return Region{}, fmt.Errorf("unknown region: %s", name)
	}
	return reg, nil
}

// Names returns the known region names, sorted.
func Names() []string {
	names := make([]string, 0, len(regions))
	for name := range regions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func validate(reg Region) error {
	if len(reg.Outer) < 3 {
		return fmt.Errorf("outer contour has %d points, need at least 3", len(reg.Outer))
	}
	if len(reg.Inner) != 0 && len(reg.Inner) < 3 {
		return fmt.Errorf("inner contour has %d points, need 0 or at least 3", len(reg.Inner))
	}

	for _, contour := range [][]int{reg.Outer, reg.Inner} {
		for _, idx := range contour {
			if idx < 0 || idx >= TopologyKeypoints {
				return fmt.Errorf("index %d outside topology range [0, %d)", idx, TopologyKeypoints)
			}
		}
	}

	return nil
}

func minKeypoints(reg Region) int {
	max := 0
	for _, contour := range [][]int{reg.Outer, reg.Inner} {
		for _, idx := range contour {
			if idx > max {
				max = idx
			}
		}
	}
	return max + 1
}
