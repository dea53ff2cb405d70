// Package palette holds the applied-color selection state of the try-on
// widget. The color is optional: no selection means no overlay is drawn.
package palette

import (
	"strconv"
	"strings"
)

// OverlayAlpha is the fixed opacity of the cosmetic overlay.
const OverlayAlpha = 0.7

type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// ParseHex parses a 6-hex-digit color string with an optional leading '#',
// case-insensitive. An unparseable value is "no color" (ok=false), never an
// error.
func ParseHex(s string) (RGB, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return RGB{}, false
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, false
	}

	return RGB{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}, true
}

// Hex renders the color back to a '#'-prefixed lowercase hex string.
func (c RGB) Hex() string {
	const digits = "0123456789abcdef"
	b := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []uint8{c.R, c.G, c.B} {
		b[1+i*2] = digits[v>>4]
		b[2+i*2] = digits[v&0xf]
	}
	return string(b)
}
