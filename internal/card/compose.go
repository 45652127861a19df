package card

import (
	"image"

	"github.com/fogleman/gg"
)

// CenterX returns the x offset that centers a run of textWidth pixels on a
// canvas canvasWidth pixels wide. Text wider than the canvas yields a
// negative offset; overflow is not corrected.
func CenterX(canvasWidth int, textWidth float64) float64 {
	return (float64(canvasWidth) - textWidth) / 2
}

// Compose draws the shapes and text lines of spec onto canvas and returns
// it. The canvas is modified in place.
func Compose(canvas *image.RGBA, spec Spec, faces FaceSource) *image.RGBA {
	dc := gg.NewContextForRGBA(canvas)
	for _, s := range spec.Shapes {
		strokeShape(dc, s)
	}

	w := canvas.Bounds().Dx()
	for _, line := range spec.Lines {
		tf := faces.Face(line.Weight, line.Size)
		x := CenterX(w, tf.Measure(line.Text))
		tf.Draw(canvas, line.Text, x, line.Y, line.Color.RGBA())
	}
	return canvas
}

// Render produces the finished canvas for spec: the gradient background
// with shapes and text composed on top.
func Render(spec Spec, faces FaceSource) *image.RGBA {
	canvas := Gradient(spec.Width, spec.Height, spec.From, spec.To)
	return Compose(canvas, spec, faces)
}

// strokeShape outlines s. The path is inset by half the stroke width so the
// full stroke lands inside s.Bounds.
func strokeShape(dc *gg.Context, s Shape) {
	half := s.Stroke / 2
	x0 := float64(s.Bounds.Min.X) + half
	y0 := float64(s.Bounds.Min.Y) + half
	x1 := float64(s.Bounds.Max.X) - half
	y1 := float64(s.Bounds.Max.Y) - half

	switch s.Kind {
	case Ellipse:
		dc.DrawEllipse((x0+x1)/2, (y0+y1)/2, (x1-x0)/2, (y1-y0)/2)
	case Rectangle:
		dc.DrawRectangle(x0, y0, x1-x0, y1-y0)
	default:
		return
	}
	dc.SetColor(s.Outline.RGBA())
	dc.SetLineWidth(s.Stroke)
	dc.Stroke()
}
