package card

import (
	"image"
)

// Canvas dimensions shared by every card.
const (
	Width  = 1200
	Height = 630
)

// ShapeKind selects the outline drawn for a Shape.
type ShapeKind int

const (
	Ellipse ShapeKind = iota
	Rectangle
)

// String returns the lowercase shape name.
func (k ShapeKind) String() string {
	switch k {
	case Ellipse:
		return "ellipse"
	case Rectangle:
		return "rectangle"
	}
	return "unknown"
}

// Weight selects the font used for a TextLine.
type Weight int

const (
	Regular Weight = iota
	Bold
)

// String returns the lowercase weight name.
func (w Weight) String() string {
	if w == Bold {
		return "bold"
	}
	return "regular"
}

// Shape is an unfilled decorative outline. The stroke is kept inside Bounds,
// whose Max point is exclusive.
type Shape struct {
	Kind    ShapeKind       `json:"kind"`
	Bounds  image.Rectangle `json:"bounds"`
	Outline Color           `json:"outline"`
	Stroke  float64         `json:"stroke"`
}

// TextLine is a single line of horizontally centered text. Y is the top of
// the line box, Size the font size in pixels.
type TextLine struct {
	Text   string  `json:"text"`
	Y      float64 `json:"y"`
	Size   float64 `json:"size"`
	Weight Weight  `json:"weight"`
	Color  Color   `json:"color"`
}

// Spec is the declarative description of one output image.
type Spec struct {
	Name   string     `json:"name"`
	File   string     `json:"file"`
	Width  int        `json:"width"`
	Height int        `json:"height"`
	From   Color      `json:"from"`
	To     Color      `json:"to"`
	Shapes []Shape    `json:"shapes"`
	Lines  []TextLine `json:"lines"`
}

const (
	title    = "JustLayMe"
	subtitle = "Unfiltered AI Conversations"
	tagline  = "Chat Without Restrictions"
)

// OpenGraph returns the Open Graph preview card: a dark-to-cyan gradient
// with a circle outline in the bottom-right corner.
func OpenGraph() Spec {
	const radius = 120
	return Spec{
		Name:   "Open Graph",
		File:   "og-image.jpg",
		Width:  Width,
		Height: Height,
		From:   DarkBG,
		To:     AccentCyan,
		Shapes: []Shape{{
			Kind:    Ellipse,
			Bounds:  inclusiveRect(Width-radius*2-50, Height-radius*2-30, Width-50, Height-30),
			Outline: AccentPurple,
			Stroke:  3,
		}},
		Lines: []TextLine{
			{Text: title, Y: 150, Size: 90, Weight: Bold, Color: White},
			{Text: subtitle, Y: 280, Size: 48, Weight: Regular, Color: AccentCyan},
			{Text: tagline, Y: 370, Size: 36, Weight: Regular, Color: LightGray},
		},
	}
}

// TwitterCard returns the Twitter Card image: a dark-to-purple gradient with
// a small square outline in the top-left corner.
func TwitterCard() Spec {
	return Spec{
		Name:   "Twitter Card",
		File:   "twitter-image.jpg",
		Width:  Width,
		Height: Height,
		From:   DarkBG,
		To:     AccentPurple,
		Shapes: []Shape{{
			Kind:    Rectangle,
			Bounds:  inclusiveRect(50, 50, 100, 100),
			Outline: AccentPurple,
			Stroke:  3,
		}},
		Lines: []TextLine{
			{Text: title, Y: 120, Size: 85, Weight: Bold, Color: White},
			{Text: subtitle, Y: 250, Size: 42, Weight: Regular, Color: AccentPurple},
			{Text: tagline, Y: 340, Size: 32, Weight: Regular, Color: White},
		},
	}
}

// Cards returns every card the generator produces, in render order.
func Cards() []Spec {
	return []Spec{OpenGraph(), TwitterCard()}
}

// inclusiveRect converts a box whose corners are both inside the shape into
// an image.Rectangle.
func inclusiveRect(x0, y0, x1, y1 int) image.Rectangle {
	return image.Rect(x0, y0, x1+1, y1+1)
}
