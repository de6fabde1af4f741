// Package donut implements the donut chart: one slice per category (or
// category and series), outside labels with leader lines, highlight
// overlays and an optional rotating interactive legend.
package donut

import (
	"time"

	"github.com/matzehuels/chartpack/pkg/chart"
	"github.com/matzehuels/chartpack/pkg/convert"
	"github.com/matzehuels/chartpack/pkg/dataview"
	"github.com/matzehuels/chartpack/pkg/interactivity"
	"github.com/matzehuels/chartpack/pkg/labels"
	"github.com/matzehuels/chartpack/pkg/layout"
	"github.com/matzehuels/chartpack/pkg/render"
	"github.com/matzehuels/chartpack/pkg/settings"
	"github.com/matzehuels/chartpack/pkg/visual"
)

// Name is the registry tag.
const Name = "donut"

// Donut settings.
const (
	ObjectDonut     = "donut"
	PropInnerRadius = "innerRadius"
)

// labelMargin is the share of the radius kept free for outside labels.
const labelMargin = 0.25

// Schema is the donut's settings schema.
var Schema = settings.NewSchema(
	settings.Legend(),
	settings.Labels(settings.LabelStyleCategory),
	settings.Object{Name: ObjectDonut, Properties: []settings.Property{
		{Name: PropInnerRadius, Kind: settings.KindNumber, Default: 0.6, Min: 0, Max: 0.95},
	}},
)

func init() {
	visual.Register(visual.Info{
		Name:        Name,
		Description: "Donut chart with outside labels and an interactive legend mode",
		Schema:      Schema,
		Factory:     New,
	})
}

// Donut is a donut chart instance.
type Donut struct {
	visual.Base

	rotator *interactivity.Rotator
	sched   *render.Scheduler[float64]
	swipe   interactivity.Swipe

	points []chart.DataPoint
	legend []chart.LegendDataPoint
	agg    chart.Aggregates
}

// New returns an uninitialized donut.
func New() visual.Visual {
	return &Donut{Base: visual.NewBase(Name, Schema)}
}

// Init implements visual.Visual.
func (d *Donut) Init(opts visual.InitOptions) {
	if !d.Setup(opts) {
		return
	}
	d.SetRedraw(func(suppress bool) { d.draw(nil, suppress) })
	if d.Interactive() {
		d.sched = render.NewScheduler(d.Clock(), render.LerpFloat)
		d.rotator = interactivity.NewRotator(d.sched, d.Service())
	}
}

// Update implements visual.Visual.
func (d *Donut) Update(opts visual.UpdateOptions) {
	dv, ok := d.Begin(opts)
	if !ok {
		d.points, d.legend = nil, nil
		return
	}
	res, ok := d.Convert(dv, convert.Options{})
	if !ok {
		return
	}
	prev := d.points
	d.points, d.legend, d.agg = res.Points, res.Legend, res.Aggregates
	d.Bind(d.points, d.legend, d.partial())
	d.draw(prev, opts.SuppressAnimations)
}

func (d *Donut) partial() bool {
	return d.agg.HasHighlights && !d.agg.HighlightsOverflow
}

// draw lays out the current points and reconciles the surface. Points of
// prev that are gone collapse in place.
func (d *Donut) draw(prev []chart.DataPoint, suppress bool) {
	vp := d.Viewport()
	s := d.Settings()
	showLabels := s.Bool(settings.ObjectLabels, settings.PropShow) && d.rotator == nil

	margin := 0.0
	if showLabels {
		margin = labelMargin
	}
	inner, outer := layout.Radii(vp, margin, s.Number(ObjectDonut, PropInnerRadius))
	center := vp.Bounds().Center()
	arc := layout.Arc{Center: center, InnerRadius: inner, OuterRadius: outer}

	merged := render.MergeExiting(prev, d.points)
	layout.Pie(merged, arc, nil)
	for i, j := 0, 0; i < len(merged) && j < len(d.points); i++ {
		if merged[i].Identity == d.points[j].Identity {
			d.points[j].Geometry = merged[i].Geometry
			j++
		}
	}
	current := make(map[dataview.Identity]int, len(d.points))
	for i, p := range d.points {
		current[p.Identity] = i
	}

	if d.rotator != nil {
		d.rotator.Bind(center, d.points)
		d.rotator.Apply(d.points)
	}

	shapes := make([]render.Shape, 0, 2*len(merged))
	for _, p := range merged {
		if i, ok := current[p.Identity]; ok {
			p = d.points[i]
		}
		if d.rotator != nil {
			p.Geometry = d.rotator.Rotate(p.Geometry)
		}
		base := p
		if d.partial() {
			base.Opacity = interactivity.DimmedOpacity
		}
		shapes = append(shapes, visual.ArcShape(&base))
	}
	if d.partial() {
		shapes = append(shapes, d.highlightArcs(inner, outer)...)
	}

	visible := 0
	fontSize := s.Number(settings.ObjectLabels, settings.PropFontSize)
	labelColor := s.String(settings.ObjectLabels, settings.PropColor)
	if showLabels {
		placed := labels.Place(d.candidates(center, outer, fontSize), vp, labels.Options{Measurer: d.Measurer()})
		visible = labels.VisibleCount(placed)
		shapes = append(shapes, visual.LabelShapes(placed, fontSize, labelColor)...)
	}
	if d.rotator != nil && len(d.points) > 0 {
		shapes = append(shapes, d.centerLabel(center, fontSize, labelColor)...)
	}

	d.Record(d.points, d.legend, d.agg, visible)
	d.Draw(shapes, suppress)
}

// highlightArcs overlays the highlighted share of every slice, growing
// outward from the inner radius.
func (d *Donut) highlightArcs(inner, outer float64) []render.Shape {
	out := make([]render.Shape, 0, len(d.points))
	for _, p := range d.points {
		hp := p
		if d.rotator != nil {
			hp.Geometry = d.rotator.Rotate(hp.Geometry)
		}
		hp.Geometry.OuterRadius = inner + (outer-inner)*p.HighlightRatio
		sh := visual.ArcShape(&hp)
		sh.Key += "#highlight"
		sh.Class = visual.ClassHighlight
		out = append(out, sh)
	}
	return out
}

func (d *Donut) candidates(center chart.Point, outer, fontSize float64) []labels.Candidate {
	cands := make([]labels.Candidate, 0, len(d.points))
	for _, p := range d.points {
		g := p.Geometry
		if g.EndAngle <= g.StartAngle || p.Label == "" {
			continue
		}
		mid := g.MidAngle()
		cands = append(cands, labels.Candidate{
			ID:        string(p.Identity),
			Text:      p.Label,
			Anchor:    layout.Polar(center, mid, outer*1.12),
			ShapeEdge: layout.Polar(center, mid, outer),
			Center:    center,
			FontSize:  fontSize,
			Priority:  p.Percentage,
			Leader:    true,
		})
	}
	return cands
}

// centerLabel shows the focused slice inside the hole.
func (d *Donut) centerLabel(center chart.Point, fontSize float64, fill string) []render.Shape {
	p := d.points[min(d.rotator.Focused(), len(d.points)-1)]
	value := p.Label
	if len(p.Tooltip) > 0 {
		value = p.Tooltip[len(p.Tooltip)-1].Value
		for _, t := range p.Tooltip {
			if t.Value != p.Category {
				value = t.Value
				break
			}
		}
	}
	return []render.Shape{
		visual.TextShape("center:category", visual.ClassTitle, chart.Point{X: center.X, Y: center.Y - fontSize}, p.Category, fontSize*1.4, fill, "middle"),
		visual.TextShape("center:value", visual.ClassTitle, chart.Point{X: center.X, Y: center.Y + fontSize}, value, fontSize*1.2, fill, "middle"),
	}
}

// Click implements visual.Pointer. In interactive mode a click brings the
// slice to the focus angle; the click that ends a rotation drag is ignored.
func (d *Donut) Click(id dataview.Identity, multi bool) {
	if d.rotator == nil {
		d.Base.Click(id, multi)
		return
	}
	if d.rotator.Click() {
		return
	}
	for i, p := range d.points {
		if p.Identity == id {
			d.SelectIndex(i)
			return
		}
	}
}

// Focused returns the focused slice index of the interactive legend.
func (d *Donut) Focused() int {
	if d.rotator == nil {
		return -1
	}
	return d.rotator.Focused()
}

// Rotation returns the interactive legend rotation in radians.
func (d *Donut) Rotation() float64 {
	if d.rotator == nil {
		return 0
	}
	return d.rotator.Offset()
}

// SelectIndex rotates slice n to the focus angle.
func (d *Donut) SelectIndex(n int) {
	if d.rotator == nil || d.Destroyed() {
		return
	}
	d.rotator.SelectIndex(n)
	d.draw(nil, true)
}

// DragStart begins rotating the chart with the pointer at pt.
func (d *Donut) DragStart(pt chart.Point) {
	if d.rotator == nil || d.Destroyed() {
		return
	}
	d.sched.Stop()
	d.rotator.DragStart(pt)
}

// DragMove rotates the chart with the pointer.
func (d *Donut) DragMove(pt chart.Point) {
	if d.rotator == nil || !d.rotator.Dragging() {
		return
	}
	d.rotator.DragMove(pt)
	d.draw(nil, true)
}

// DragEnd releases the pointer and snaps the focused slice into place.
func (d *Donut) DragEnd() {
	if d.rotator == nil || !d.rotator.Dragging() {
		return
	}
	d.rotator.DragEnd()
	d.draw(nil, true)
}

// Swipe moves the focus by a horizontal legend swipe of dx pixels.
func (d *Donut) Swipe(dx float64) {
	if d.rotator == nil || d.Destroyed() {
		return
	}
	d.rotator.Swipe(dx, d.swipe)
	d.draw(nil, true)
}

// Frame implements visual.Animator, advancing the rotation as well.
func (d *Donut) Frame() (int, error) {
	if d.sched != nil && d.sched.Len() > 0 && !d.Destroyed() {
		d.sched.Tick(d.Clock().Now())
		d.draw(nil, true)
	}
	return d.Base.Frame()
}

// Animating implements visual.Animator.
func (d *Donut) Animating() bool {
	return d.Base.Animating() || (d.sched != nil && !d.Destroyed() && d.sched.Len() > 0)
}

// Advance moves the rotation animation forward by dt, for hosts without a
// frame loop.
func (d *Donut) Advance(dt time.Duration) {
	if d.sched == nil {
		return
	}
	if c, ok := d.Clock().(*render.ManualClock); ok {
		c.Advance(dt)
	}
	_, _ = d.Frame()
}

// Destroy implements visual.Visual.
func (d *Donut) Destroy() {
	if d.sched != nil {
		d.sched.Stop()
	}
	d.Base.Destroy()
}
