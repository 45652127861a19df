package card

import (
	"image"
)

// Gradient returns a new w×h canvas filled with a diagonal gradient from c1
// at the top-left corner towards c2 at the bottom-right. The pixel at (x, y)
// uses the ratio (x+y)/(w+h), so the far corner approaches but never quite
// reaches c2.
func Gradient(w, h int, c1, c2 Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	denom := float64(w + h)

	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			ratio := float64(x+y) / denom
			i := x * 4
			row[i+0] = lerp(c1.R, c2.R, ratio)
			row[i+1] = lerp(c1.G, c2.G, ratio)
			row[i+2] = lerp(c1.B, c2.B, ratio)
			row[i+3] = 0xFF
		}
	}
	return img
}

// lerp interpolates between a and b, truncating toward zero and clamping the
// result to the 8-bit range.
func lerp(a, b uint8, ratio float64) uint8 {
	v := int(float64(a) + (float64(b)-float64(a))*ratio)
	switch {
	case v < 0:
		return 0
	case v > 0xFF:
		return 0xFF
	}
	return uint8(v)
}
