package interactivity

import "github.com/matzehuels/chartpack/pkg/chart"

// Opacity levels for data shapes.
const (
	FullOpacity   = 1.0
	DimmedOpacity = 0.4
)

// FillOpacity returns the opacity of a shape. A shape is dimmed when partial
// highlights are active and it is not highlighted, or when something is
// selected and it is not.
func FillOpacity(selected, highlight, hasSelection, hasPartialHighlights bool) float64 {
	if (hasPartialHighlights && !highlight) || (hasSelection && !selected) {
		return DimmedOpacity
	}
	return FullOpacity
}

// Apply recomputes the selected flag and opacity of every point.
// hasPartialHighlights should be false when the points render from highlight
// values only.
func Apply(points []chart.DataPoint, sel *Selection, hasPartialHighlights bool) {
	hasSelection := !sel.Empty()
	for i := range points {
		p := &points[i]
		p.Selected = sel.Contains(p.Identity)
		p.Opacity = FillOpacity(p.Selected, p.Highlighted, hasSelection, hasPartialHighlights)
	}
}

// ApplyLegend marks selected legend entries.
func ApplyLegend(legend []chart.LegendDataPoint, sel *Selection) {
	for i := range legend {
		legend[i].Selected = sel.Contains(legend[i].Identity)
	}
}
