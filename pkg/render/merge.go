package render

import (
	"github.com/matzehuels/chartpack/pkg/chart"
	"github.com/matzehuels/chartpack/pkg/dataview"
)

// MergeExiting returns next with a zero-valued placeholder for every point
// of prev that is gone. A placeholder sits right after its nearest previous
// neighbor that survives, so its arc collapses where it used to be.
func MergeExiting(prev, next []chart.DataPoint) []chart.DataPoint {
	present := make(map[dataview.Identity]bool, len(next))
	for _, p := range next {
		present[p.Identity] = true
	}
	out := make([]chart.DataPoint, len(next))
	copy(out, next)

	var anchor dataview.Identity
	for _, p := range prev {
		if present[p.Identity] {
			anchor = p.Identity
			continue
		}
		ph := placeholder(p)
		at := 0
		if anchor != "" {
			at = indexOf(out, anchor) + 1
		}
		out = append(out, chart.DataPoint{})
		copy(out[at+1:], out[at:])
		out[at] = ph
		anchor = p.Identity
	}
	return out
}

func placeholder(p chart.DataPoint) chart.DataPoint {
	return chart.DataPoint{
		Identity: p.Identity,
		Category: p.Category,
		Series:   p.Series,
		Color:    p.Color,
	}
}

func indexOf(points []chart.DataPoint, id dataview.Identity) int {
	for i := range points {
		if points[i].Identity == id {
			return i
		}
	}
	return -1
}
