package card

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"sort"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Default font locations. Both are optional; see FontLoader.
const (
	DefaultBoldFont    = "/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf"
	DefaultRegularFont = "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf"
)

// Typeface measures and draws single lines of text. Widths and x positions
// refer to the ink box, the union of the glyph bounds, so a centered line is
// centered on what is actually painted. y is the top of the line box, not
// the baseline.
type Typeface interface {
	// Measure returns the width of text's ink box in pixels.
	Measure(text string) float64
	// Draw renders text onto dst with the left edge of its ink box at x and
	// the top of its line at y.
	Draw(dst *image.RGBA, text string, x, y float64, c color.Color)
	// Kind names the implementation: "truetype" or "bitmap".
	Kind() string
}

// FaceSource hands out a Typeface for a weight and pixel size.
type FaceSource interface {
	Face(w Weight, size float64) Typeface
}

// FaceFunc adapts a plain function to FaceSource.
type FaceFunc func(w Weight, size float64) Typeface

// Face calls f(w, size).
func (f FaceFunc) Face(w Weight, size float64) Typeface { return f(w, size) }

// vectorFace draws anti-aliased TrueType glyphs through a gg context.
type vectorFace struct {
	face font.Face
}

func (v *vectorFace) Measure(text string) float64 {
	_, width := inkExtent(v.face, text)
	return width
}

func (v *vectorFace) Draw(dst *image.RGBA, text string, x, y float64, c color.Color) {
	left, _ := inkExtent(v.face, text)
	dc := gg.NewContextForRGBA(dst)
	dc.SetFontFace(v.face)
	dc.SetColor(c)
	dc.DrawString(text, x-left, y+toFloat(v.face.Metrics().Ascent))
}

func (v *vectorFace) Kind() string { return "truetype" }

// bitmapFace is the built-in fixed-size fallback. It ignores the requested
// size.
type bitmapFace struct {
	face font.Face
}

// Bitmap returns the built-in bitmap Typeface. It never fails.
func Bitmap() Typeface {
	return &bitmapFace{face: basicfont.Face7x13}
}

func (b *bitmapFace) Measure(text string) float64 {
	_, width := inkExtent(b.face, text)
	return width
}

func (b *bitmapFace) Draw(dst *image.RGBA, text string, x, y float64, c color.Color) {
	left, _ := inkExtent(b.face, text)
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: b.face,
		Dot:  toFixedPoint(x-left, y+toFloat(b.face.Metrics().Ascent)),
	}
	d.DrawString(text)
}

func (b *bitmapFace) Kind() string { return "bitmap" }

// FontLoader resolves TrueType fonts from disk and falls back to the bitmap
// face when a file is missing or unparsable. Parsed fonts and faces are
// cached for the lifetime of the loader. A FontLoader is not safe for
// concurrent use.
type FontLoader struct {
	paths  map[Weight]string
	fonts  map[string]*loadedFont
	faces  map[faceKey]Typeface
	failed map[string]error
}

type loadedFont struct {
	font *truetype.Font
	sum  string // hex SHA-256 of the font file
}

type faceKey struct {
	path string
	size float64
}

// NewFontLoader returns a loader that uses boldPath for Bold lines and
// regularPath for everything else. Empty paths fall back to the defaults.
func NewFontLoader(boldPath, regularPath string) *FontLoader {
	if boldPath == "" {
		boldPath = DefaultBoldFont
	}
	if regularPath == "" {
		regularPath = DefaultRegularFont
	}
	return &FontLoader{
		paths:  map[Weight]string{Bold: boldPath, Regular: regularPath},
		fonts:  make(map[string]*loadedFont),
		faces:  make(map[faceKey]Typeface),
		failed: make(map[string]error),
	}
}

// Face returns a TrueType face for w at size pixels, or the bitmap face if
// the font for w cannot be loaded.
func (l *FontLoader) Face(w Weight, size float64) Typeface {
	path := l.path(w)
	key := faceKey{path: path, size: size}
	if tf, ok := l.faces[key]; ok {
		return tf
	}

	var tf Typeface
	if lf, err := l.load(path); err == nil {
		tf = &vectorFace{face: truetype.NewFace(lf.font, &truetype.Options{
			Size:    size,
			Hinting: font.HintingFull,
		})}
	} else {
		tf = Bitmap()
	}
	l.faces[key] = tf
	return tf
}

// Identity describes the font that backs weight w, suitable for use in a
// cache key. It forces the font to be loaded.
func (l *FontLoader) Identity(w Weight) string {
	path := l.path(w)
	lf, err := l.load(path)
	if err != nil {
		return "bitmap"
	}
	return "truetype:" + lf.sum
}

// Fallbacks returns the font paths that could not be loaded, sorted, with
// the reason for each.
func (l *FontLoader) Fallbacks() []string {
	out := make([]string, 0, len(l.failed))
	for path, err := range l.failed {
		out = append(out, fmt.Sprintf("%s: %v", path, err))
	}
	sort.Strings(out)
	return out
}

func (l *FontLoader) path(w Weight) string {
	if p, ok := l.paths[w]; ok {
		return p
	}
	return l.paths[Regular]
}

func (l *FontLoader) load(path string) (*loadedFont, error) {
	if lf, ok := l.fonts[path]; ok {
		return lf, nil
	}
	if err, ok := l.failed[path]; ok {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		l.failed[path] = err
		return nil, err
	}
	f, err := truetype.Parse(data)
	if err != nil {
		err = fmt.Errorf("parsing font: %w", err)
		l.failed[path] = err
		return nil, err
	}
	sum := sha256.Sum256(data)
	lf := &loadedFont{font: f, sum: hex.EncodeToString(sum[:])}
	l.fonts[path] = lf
	return lf, nil
}

// inkExtent returns the offset of text's ink box from the pen origin and
// the box's width.
func inkExtent(face font.Face, text string) (left, width float64) {
	bounds, _ := font.BoundString(face, text)
	return toFloat(bounds.Min.X), toFloat(bounds.Max.X - bounds.Min.X)
}

func toFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func toFixedPoint(x, y float64) fixed.Point26_6 {
	return fixed.Point26_6{
		X: fixed.Int26_6(math.Round(x * 64)),
		Y: fixed.Int26_6(math.Round(y * 64)),
	}
}
