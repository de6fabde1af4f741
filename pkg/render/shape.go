package render

import "github.com/matzehuels/chartpack/pkg/color"

// Kind is the primitive used to draw a shape.
type Kind string

const (
	KindArc    Kind = "arc"
	KindRect   Kind = "rect"
	KindCircle Kind = "circle"
	KindLine   Kind = "line"
	KindText   Kind = "text"
)

// Attrs are the drawable attributes of a shape. Numeric fields and colors
// interpolate; Text and Anchor switch at the end of a transition.
type Attrs struct {
	// Arc geometry, relative to (X, Y).
	StartAngle  float64 `json:"startAngle,omitempty"`
	EndAngle    float64 `json:"endAngle,omitempty"`
	InnerRadius float64 `json:"innerRadius,omitempty"`
	OuterRadius float64 `json:"outerRadius,omitempty"`

	// X, Y is the rect origin, the circle/arc center, the line start or the
	// text anchor. X2, Y2 is the line end.
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	X2     float64 `json:"x2,omitempty"`
	Y2     float64 `json:"y2,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Radius float64 `json:"radius,omitempty"`

	Opacity     float64 `json:"opacity"`
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`

	Text     string  `json:"text,omitempty"`
	FontSize float64 `json:"fontSize,omitempty"`
	// Anchor is the SVG text-anchor value.
	Anchor string `json:"anchor,omitempty"`
}

// Shape is one keyed drawable.
type Shape struct {
	Key   string `json:"key"`
	Kind  Kind   `json:"kind"`
	Class string `json:"class,omitempty"`
	Attrs Attrs  `json:"attrs"`
}

// Lerp interpolates between two attribute sets at t in [0,1].
func Lerp(a, b Attrs, t float64) Attrs {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	f := func(x, y float64) float64 { return x + (y-x)*t }
	out := b
	out.StartAngle = f(a.StartAngle, b.StartAngle)
	out.EndAngle = f(a.EndAngle, b.EndAngle)
	out.InnerRadius = f(a.InnerRadius, b.InnerRadius)
	out.OuterRadius = f(a.OuterRadius, b.OuterRadius)
	out.X = f(a.X, b.X)
	out.Y = f(a.Y, b.Y)
	out.X2 = f(a.X2, b.X2)
	out.Y2 = f(a.Y2, b.Y2)
	out.Width = f(a.Width, b.Width)
	out.Height = f(a.Height, b.Height)
	out.Radius = f(a.Radius, b.Radius)
	out.Opacity = f(a.Opacity, b.Opacity)
	out.StrokeWidth = f(a.StrokeWidth, b.StrokeWidth)
	out.FontSize = f(a.FontSize, b.FontSize)
	if a.Fill != "" && b.Fill != "" && a.Fill != b.Fill {
		out.Fill = color.Blend(a.Fill, b.Fill, t)
	}
	if a.Stroke != "" && b.Stroke != "" && a.Stroke != b.Stroke {
		out.Stroke = color.Blend(a.Stroke, b.Stroke, t)
	}
	return out
}

// collapsed returns the attributes a shape enters from or exits to.
func collapsed(a Attrs, kind Kind) Attrs {
	a.Opacity = 0
	if kind == KindArc {
		a.EndAngle = a.StartAngle
	}
	return a
}
