// Package labels places data labels without overlaps.
//
// Place works in three passes. Labels whose box would leave the viewport are
// pulled toward their shape's center by [DefaultInwardRatio] and, if still
// too wide, truncated to the longest prefix that fits. A greedy pass then
// keeps labels in priority order and hides any label whose box intersects
// one already kept. Kept labels that asked for a leader line, or were moved
// off their natural anchor, get one starting just outside the shape edge.
package labels

import (
	"math"
	"sort"

	"github.com/matzehuels/chartpack/pkg/chart"
	"github.com/matzehuels/chartpack/pkg/format"
)

// Default placement constants.
const (
	DefaultInwardRatio = 0.9
	DefaultLeaderRatio = 1.02
	DefaultPadding     = 2.0
)

// Align controls how a label box hangs off its anchor.
type Align int

const (
	// AlignAuto puts the box on the side of the anchor away from the center.
	AlignAuto Align = iota
	// AlignCenter centers the box on the anchor.
	AlignCenter
)

// Candidate is a label to place.
type Candidate struct {
	ID   string
	Text string
	// Anchor is the natural position of the label.
	Anchor chart.Point
	// ShapeEdge is where a leader line attaches to the shape.
	ShapeEdge chart.Point
	// Center is the center of the shape group; conflicts pull toward it.
	Center   chart.Point
	FontSize float64
	// Width and Height override measurement when non-zero.
	Width, Height float64
	// Higher priority labels are kept first.
	Priority float64
	Align    Align
	// Leader requests a leader line even when the label is not displaced.
	Leader bool
}

// Line is a leader line segment.
type Line struct {
	From, To chart.Point
}

// Placed is a placement decision.
type Placed struct {
	ID        string
	Text      string
	Box       chart.Rect
	Anchor    chart.Point
	Visible   bool
	Truncated bool
	Displaced bool
	Leader    *Line
}

// Options configures placement.
type Options struct {
	Measurer    format.Measurer
	InwardRatio float64
	LeaderRatio float64
	// Padding is the minimum gap kept between visible boxes.
	Padding float64
}

func (o Options) withDefaults() Options {
	if o.Measurer == nil {
		o.Measurer = format.ApproxMeasurer{}
	}
	if o.InwardRatio <= 0 {
		o.InwardRatio = DefaultInwardRatio
	}
	if o.LeaderRatio <= 0 {
		o.LeaderRatio = DefaultLeaderRatio
	}
	if o.Padding < 0 {
		o.Padding = 0
	}
	return o
}

// Place decides the position and visibility of every candidate. The result
// is in candidate order. No two visible boxes overlap.
func Place(cands []Candidate, vp chart.Viewport, opts Options) []Placed {
	opts = opts.withDefaults()
	bounds := vp.Bounds()
	out := make([]Placed, len(cands))
	for i, c := range cands {
		out[i] = fit(c, bounds, opts)
	}

	order := make([]int, len(cands))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return cands[order[a]].Priority > cands[order[b]].Priority
	})

	var kept []chart.Rect
	for _, i := range order {
		p := &out[i]
		if !p.Visible {
			continue
		}
		padded := pad(p.Box, opts.Padding/2)
		for _, k := range kept {
			if padded.Intersects(k) {
				p.Visible = false
				break
			}
		}
		if !p.Visible {
			p.Leader = nil
			continue
		}
		kept = append(kept, padded)
	}
	return out
}

// fit sizes, pulls in and truncates one label against the viewport.
func fit(c Candidate, bounds chart.Rect, opts Options) Placed {
	p := Placed{ID: c.ID, Text: c.Text, Anchor: c.Anchor}
	if c.Text == "" || bounds.Width <= 0 || bounds.Height <= 0 {
		return p
	}
	w, h := c.Width, c.Height
	if w == 0 || h == 0 {
		mw, mh := opts.Measurer.Measure(c.Text, c.FontSize)
		if w == 0 {
			w = mw
		}
		if h == 0 {
			h = mh
		}
	}

	box := boxAt(c, p.Anchor, w, h)
	if !bounds.Contains(box) {
		p.Anchor = chart.Point{
			X: c.Center.X + (c.Anchor.X-c.Center.X)*opts.InwardRatio,
			Y: c.Center.Y + (c.Anchor.Y-c.Center.Y)*opts.InwardRatio,
		}
		p.Displaced = true
		box = boxAt(c, p.Anchor, w, h)
	}

	if box.Y < bounds.Y || box.Bottom() > bounds.Bottom() {
		return p
	}
	if avail := available(c, p.Anchor, bounds); w > avail {
		text := format.Truncate(c.Text, avail, c.FontSize, opts.Measurer)
		if text == "" {
			return p
		}
		tw, _ := opts.Measurer.Measure(text, c.FontSize)
		p.Text, p.Truncated = text, true
		box = boxAt(c, p.Anchor, tw, h)
	}

	p.Box = box
	p.Visible = bounds.Contains(box)
	if p.Visible && (c.Leader || p.Displaced) {
		from := chart.Point{
			X: c.Center.X + (c.ShapeEdge.X-c.Center.X)*opts.LeaderRatio,
			Y: c.Center.Y + (c.ShapeEdge.Y-c.Center.Y)*opts.LeaderRatio,
		}
		p.Leader = &Line{From: from, To: p.Anchor}
	}
	return p
}

func rightOf(c Candidate, anchor chart.Point) bool {
	return anchor.X >= c.Center.X
}

func boxAt(c Candidate, anchor chart.Point, w, h float64) chart.Rect {
	y := anchor.Y - h/2
	if c.Align == AlignCenter {
		return chart.Rect{X: anchor.X - w/2, Y: y, Width: w, Height: h}
	}
	if rightOf(c, anchor) {
		return chart.Rect{X: anchor.X, Y: y, Width: w, Height: h}
	}
	return chart.Rect{X: anchor.X - w, Y: y, Width: w, Height: h}
}

// available returns the horizontal room for the label at anchor.
func available(c Candidate, anchor chart.Point, bounds chart.Rect) float64 {
	if c.Align == AlignCenter {
		return 2 * math.Max(0, math.Min(anchor.X-bounds.X, bounds.Right()-anchor.X))
	}
	if rightOf(c, anchor) {
		return math.Max(0, bounds.Right()-anchor.X)
	}
	return math.Max(0, anchor.X-bounds.X)
}

func pad(r chart.Rect, d float64) chart.Rect {
	return chart.Rect{X: r.X - d, Y: r.Y - d, Width: r.Width + 2*d, Height: r.Height + 2*d}
}

// VisibleCount returns how many labels are visible.
func VisibleCount(placed []Placed) int {
	n := 0
	for _, p := range placed {
		if p.Visible {
			n++
		}
	}
	return n
}
