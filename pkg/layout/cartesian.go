package layout

import (
	"math"

	"github.com/matzehuels/chartpack/pkg/chart"
)

// Side selects which way a horizontal bar grows.
type Side int

const (
	// SideRight grows from the area's left edge to the right.
	SideRight Side = iota
	// SideLeft grows from the area's center to the left.
	SideLeft
	// SideCenterRight grows from the area's center to the right.
	SideCenterRight
)

// Band returns the start and width of slot i out of n across length,
// leaving padding between slots. The width never drops below minSize.
func Band(length float64, i, n int, padding, minSize float64) (start, width float64) {
	if n <= 0 {
		return 0, 0
	}
	slot := length / float64(n)
	width = math.Max(slot-padding, minSize)
	start = float64(i)*slot + (slot-width)/2
	return start, width
}

// Columns lays out one vertical column per point across area. s maps values
// onto column heights within [0, area.Height]. Heights are floored at minSize.
func Columns(points []chart.DataPoint, area chart.Rect, s *LinearScale, padding, minSize float64) {
	for i := range points {
		p := &points[i]
		x, w := Band(area.Width, i, len(points), padding, minSize)
		h := math.Max(s.Length(p.Value), minSize)
		h = math.Min(h, area.Height)
		p.Geometry.Rect = chart.Rect{X: area.X + x, Y: area.Bottom() - h, Width: w, Height: h}
	}
}

// BarRect returns the rect of a horizontal bar in row i of rows. length is
// the scaled bar length, floored at minSize.
func BarRect(area chart.Rect, i, rows int, length, padding, minSize float64, side Side) chart.Rect {
	y, h := Band(area.Height, i, rows, padding, minSize)
	length = math.Max(length, minSize)
	mid := area.X + area.Width/2
	switch side {
	case SideLeft:
		length = math.Min(length, area.Width/2)
		return chart.Rect{X: mid - length, Y: area.Y + y, Width: length, Height: h}
	case SideCenterRight:
		length = math.Min(length, area.Width/2)
		return chart.Rect{X: mid, Y: area.Y + y, Width: length, Height: h}
	default:
		length = math.Min(length, area.Width)
		return chart.Rect{X: area.X, Y: area.Y + y, Width: length, Height: h}
	}
}

// Inset shrinks r by the given margins.
func Inset(r chart.Rect, top, right, bottom, left float64) chart.Rect {
	out := chart.Rect{
		X:      r.X + left,
		Y:      r.Y + top,
		Width:  math.Max(0, r.Width-left-right),
		Height: math.Max(0, r.Height-top-bottom),
	}
	return out
}
