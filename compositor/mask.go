package compositor

import (
	"math"
	"sort"

	"github.com/optimosight/vto-go/model"
)

// rasterizeEvenOdd fills the polygon set defined by subpaths into a w*h
// mask (255 inside, 0 outside) using the even-odd rule: a pixel center is
// inside when a horizontal ray from it crosses an odd number of edges,
// counting edges from every subpath. This is what makes an inner contour a
// subtractive cutout of the outer fill instead of a second filled area; a
// nonzero-winding rule would fill the cavity too.
func rasterizeEvenOdd(subpaths [][]model.Keypoint, w, h int) []byte {
	mask := make([]byte, w*h)
	if w <= 0 || h <= 0 {
		return mask
	}

	// Gather closed edges from all subpaths. Subpaths that cannot form an
	// area are ignored.
	type edge struct {
		x0, y0, x1, y1 float64
	}
	var edges []edge
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, path := range subpaths {
		if len(path) < 3 {
			continue
		}
		for i := range path {
			a := path[i]
			b := path[(i+1)%len(path)]
			edges = append(edges, edge{
				x0: float64(a.X), y0: float64(a.Y),
				x1: float64(b.X), y1: float64(b.Y),
			})
			minY = math.Min(minY, math.Min(float64(a.Y), float64(b.Y)))
			maxY = math.Max(maxY, math.Max(float64(a.Y), float64(b.Y)))
		}
	}
	if len(edges) == 0 {
		return mask
	}

	yStart := int(math.Max(0, math.Floor(minY)))
	yEnd := int(math.Min(float64(h-1), math.Ceil(maxY)))

	crossings := make([]float64, 0, 16)
	for y := yStart; y <= yEnd; y++ {
		ys := float64(y) + 0.5
		crossings = crossings[:0]

		for _, e := range edges {
			// Half-open interval keeps shared vertices from double counting;
			// horizontal edges never cross the sample line.
			if (e.y0 <= ys && ys < e.y1) || (e.y1 <= ys && ys < e.y0) {
				t := (ys - e.y0) / (e.y1 - e.y0)
				crossings = append(crossings, e.x0+t*(e.x1-e.x0))
			}
		}
		if len(crossings) < 2 {
			continue
		}

		sort.Float64s(crossings)

		// Consecutive crossing pairs bound interior spans (odd parity).
		row := mask[y*w:]
		for i := 0; i+1 < len(crossings); i += 2 {
			x0, x1 := crossings[i], crossings[i+1]
			for x := int(math.Ceil(x0 - 0.5)); x < w && float64(x)+0.5 < x1; x++ {
				if x < 0 {
					continue
				}
				row[x] = 255
			}
		}
	}

	return mask
}
