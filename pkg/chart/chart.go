// Package chart defines the render-ready model shared by every visual:
// data points, legend entries, aggregates and simple geometry.
package chart

import "github.com/matzehuels/chartpack/pkg/dataview"

// Point is a 2D coordinate.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned box with its origin at the top-left corner.
type Rect struct {
	X, Y, Width, Height float64
}

// Right returns the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the center point.
func (r Rect) Center() Point { return Point{r.X + r.Width/2, r.Y + r.Height/2} }

// Intersects reports whether the two boxes overlap with positive area.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Viewport is the drawable area supplied by the host.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Empty reports whether nothing can be drawn.
func (v Viewport) Empty() bool { return v.Width <= 0 || v.Height <= 0 }

// Bounds returns the viewport as a rect at the origin.
func (v Viewport) Bounds() Rect { return Rect{Width: v.Width, Height: v.Height} }

// TooltipItem is one line of a tooltip.
type TooltipItem struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Geometry is filled in by the layout engine. Angular visuals use the angle
// and radius fields, cartesian visuals use Rect.
type Geometry struct {
	StartAngle  float64 `json:"startAngle,omitempty"`
	EndAngle    float64 `json:"endAngle,omitempty"`
	InnerRadius float64 `json:"innerRadius,omitempty"`
	OuterRadius float64 `json:"outerRadius,omitempty"`
	Rect        Rect    `json:"rect"`
	Center      Point   `json:"center"`
}

// MidAngle returns the bisector of the arc.
func (g Geometry) MidAngle() float64 { return (g.StartAngle + g.EndAngle) / 2 }

// DataPoint is one renderable unit: a slice, bar, bin or map point.
type DataPoint struct {
	Identity dataview.Identity `json:"identity"`
	Category string            `json:"category,omitempty"`
	Series   string            `json:"series,omitempty"`

	Value     float64 `json:"value"`
	Secondary float64 `json:"secondary,omitempty"`
	// HasHighlight is set when the data view carries highlights for the point.
	HasHighlight        bool    `json:"hasHighlight,omitempty"`
	HighlightValue      float64 `json:"highlightValue,omitempty"`
	Percentage          float64 `json:"percentage"`
	HighlightPercentage float64 `json:"highlightPercentage,omitempty"`
	HighlightRatio      float64 `json:"highlightRatio,omitempty"`

	Color   string        `json:"color"`
	Label   string        `json:"label,omitempty"`
	Tooltip []TooltipItem `json:"tooltip,omitempty"`

	Selected    bool    `json:"selected,omitempty"`
	Highlighted bool    `json:"highlighted,omitempty"`
	Opacity     float64 `json:"opacity"`

	Geometry Geometry `json:"geometry"`
}

// Magnitude returns the value used for proportional geometry: the highlight
// value when the point renders highlights only, else the base value.
func (p *DataPoint) Magnitude(highlightsOnly bool) float64 {
	if highlightsOnly {
		return abs(p.HighlightValue)
	}
	return abs(p.Value)
}

// LegendIcon is the marker drawn next to a legend entry.
type LegendIcon string

const (
	IconCircle LegendIcon = "circle"
	IconBox    LegendIcon = "box"
	IconLine   LegendIcon = "line"
)

// LegendDataPoint is one legend entry.
type LegendDataPoint struct {
	Label    string            `json:"label"`
	Color    string            `json:"color"`
	Icon     LegendIcon        `json:"icon"`
	Identity dataview.Identity `json:"identity"`
	Selected bool              `json:"selected,omitempty"`
}

// Aggregates summarizes a conversion.
type Aggregates struct {
	Total          float64 `json:"total"`
	HighlightTotal float64 `json:"highlightTotal,omitempty"`
	Max            float64 `json:"max"`
	Min            float64 `json:"min"`
	HasHighlights  bool    `json:"hasHighlights,omitempty"`
	// HighlightsOverflow is set when any highlight exceeds its base value;
	// every point then renders from highlight values.
	HighlightsOverflow bool `json:"highlightsOverflow,omitempty"`
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
