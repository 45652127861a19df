// Package card renders the social preview cards: a diagonal gradient
// background, decorative outline shapes, and horizontally centered text.
package card

import (
	"fmt"
	"image/color"
	"strconv"
)

// Color is an opaque 8-bit RGB triple.
type Color struct {
	R, G, B uint8
}

// Brand palette.
var (
	DarkBG       = MustHex("#0f0f23")
	AccentPurple = MustHex("#8b5cf6")
	AccentCyan   = MustHex("#06b6d4")
	White        = MustHex("#ffffff")
	LightGray    = MustHex("#e5e7eb")
)

// ParseHex parses a color in the exact form "#rrggbb". Upper and lower case
// hex digits are both accepted.
func ParseHex(s string) (Color, error) {
	if len(s) != 7 || s[0] != '#' {
		return Color{}, fmt.Errorf("card: invalid hex color %q: want #rrggbb", s)
	}
	var ch [3]uint8
	for i := range ch {
		v, err := strconv.ParseUint(s[1+2*i:3+2*i], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("card: invalid hex color %q: %w", s, err)
		}
		ch[i] = uint8(v)
	}
	return Color{R: ch[0], G: ch[1], B: ch[2]}, nil
}

// MustHex is like ParseHex but panics on malformed input. It is meant for
// package-level palette values.
func MustHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// RGBA returns c as a fully opaque color.RGBA.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
}

// Hex formats c as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
