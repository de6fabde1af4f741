// Package tornado implements the tornado chart: two value series drawn as
// horizontal bars growing left and right from a shared center axis, one row
// per category.
package tornado

import (
	"math"

	"github.com/matzehuels/chartpack/pkg/chart"
	"github.com/matzehuels/chartpack/pkg/convert"
	"github.com/matzehuels/chartpack/pkg/labels"
	"github.com/matzehuels/chartpack/pkg/layout"
	"github.com/matzehuels/chartpack/pkg/render"
	"github.com/matzehuels/chartpack/pkg/settings"
	"github.com/matzehuels/chartpack/pkg/visual"
)

// Name is the registry tag.
const Name = "tornado"

// MaxSeries is the number of value series a tornado can draw.
const MaxSeries = 2

// Tornado settings.
const (
	ObjectValueAxis  = "valueAxis"
	ObjectCategories = "categories"

	PropForceStart = "forceStart"
	PropStart      = "start"
	PropForceEnd   = "forceEnd"
	PropEnd        = "end"
)

// KeyAxis is the key of the center axis line.
const KeyAxis = "axis:center"

const (
	barPadding    = 4.0
	minBarSize    = 1.0
	maxLabelShare = 0.3
	gutter        = 6.0
)

// Schema is the tornado's settings schema.
var Schema = settings.NewSchema(
	settings.Legend(),
	settings.Labels(settings.LabelStyleData),
	settings.Object{Name: ObjectValueAxis, Properties: []settings.Property{
		{Name: PropForceStart, Kind: settings.KindBool, Default: false},
		{Name: PropStart, Kind: settings.KindNumber, Default: 0.0},
		{Name: PropForceEnd, Kind: settings.KindBool, Default: false},
		{Name: PropEnd, Kind: settings.KindNumber, Default: 0.0},
	}},
	settings.Object{Name: ObjectCategories, Properties: []settings.Property{
		{Name: settings.PropShow, Kind: settings.KindBool, Default: true},
		{Name: settings.PropColor, Kind: settings.KindColor, Default: "#777777"},
		{Name: settings.PropFontSize, Kind: settings.KindNumber, Default: 9.0, Min: 8, Max: 40},
	}},
)

func init() {
	visual.Register(visual.Info{
		Name:        Name,
		Description: "Tornado chart comparing two value series per category",
		Schema:      Schema,
		Factory:     New,
	})
}

// Tornado is a tornado chart instance.
type Tornado struct {
	visual.Base

	points []chart.DataPoint
	legend []chart.LegendDataPoint
	agg    chart.Aggregates
	series int
}

// New returns an uninitialized tornado chart.
func New() visual.Visual {
	return &Tornado{Base: visual.NewBase(Name, Schema)}
}

// Init implements visual.Visual.
func (t *Tornado) Init(opts visual.InitOptions) {
	if !t.Setup(opts) {
		return
	}
	t.SetRedraw(t.draw)
}

// Update implements visual.Visual. More than two value series discard the
// update with a warning and keep the last render.
func (t *Tornado) Update(opts visual.UpdateOptions) {
	dv, ok := t.Begin(opts)
	if !ok {
		t.points, t.legend = nil, nil
		return
	}
	res, ok := t.Convert(dv, convert.Options{
		MaxSeries:     MaxSeries,
		SplitMeasures: true,
		ColorBySeries: true,
	})
	if !ok {
		return
	}
	t.points, t.legend, t.agg = res.Points, res.Legend, res.Aggregates
	t.series = max(1, min(MaxSeries, len(res.Series)))
	t.Bind(t.points, t.legend, t.agg.HasHighlights && !t.agg.HighlightsOverflow)
	t.draw(opts.SuppressAnimations)
}

// rows returns the number of category rows.
func (t *Tornado) rows() int {
	return (len(t.points) + t.series - 1) / t.series
}

// Scale returns the value scale for half the plot width.
func (t *Tornado) Scale(half float64) *layout.LinearScale {
	hi := 0.0
	for _, p := range t.points {
		hi = math.Max(hi, math.Abs(p.Value))
	}
	s := t.Settings()
	sc := layout.NewLinearScale(0, hi, 0, half)
	start, end := math.NaN(), math.NaN()
	if s.Bool(ObjectValueAxis, PropForceStart) {
		start = s.Number(ObjectValueAxis, PropStart)
	}
	if s.Bool(ObjectValueAxis, PropForceEnd) {
		end = s.Number(ObjectValueAxis, PropEnd)
	}
	return sc.Force(start, end)
}

func (t *Tornado) draw(suppress bool) {
	vp := t.Viewport()
	s := t.Settings()
	rows := t.rows()

	showCats := s.Bool(ObjectCategories, settings.PropShow)
	catSize := s.Number(ObjectCategories, settings.PropFontSize)
	catWidth := 0.0
	if showCats {
		for r := 0; r < rows; r++ {
			w, _ := t.Measurer().Measure(t.points[r*t.series].Category, catSize)
			catWidth = math.Max(catWidth, w)
		}
		catWidth = math.Min(catWidth+gutter, vp.Width*maxLabelShare)
	}
	area := layout.Inset(vp.Bounds(), 0, 0, 0, catWidth)
	sc := t.Scale(area.Width / 2)
	partial := t.agg.HasHighlights && !t.agg.HighlightsOverflow

	shapes := make([]render.Shape, 0, 2*len(t.points)+rows+1)
	var cands []labels.Candidate
	fontSize := s.Number(settings.ObjectLabels, settings.PropFontSize)
	for i := range t.points {
		p := &t.points[i]
		row, side := i/t.series, sideOf(i%t.series, t.series)
		p.Geometry.Rect = layout.BarRect(area, row, rows, sc.Length(p.Value), barPadding, minBarSize, side)
		opacity := p.Opacity
		if partial {
			opacity = min(opacity, 0.4)
		}
		shapes = append(shapes, visual.RectShape(string(p.Identity), visual.ClassBar, p.Geometry.Rect, p.Color, opacity))
		if partial {
			hr := layout.BarRect(area, row, rows, sc.Length(p.HighlightValue), barPadding, 0, side)
			shapes = append(shapes, visual.RectShape(string(p.Identity)+"#highlight", visual.ClassHighlight, hr, p.Color, p.Opacity))
		}
		if p.Label == "" {
			continue
		}
		r := p.Geometry.Rect
		edge := chart.Point{X: r.Right(), Y: r.Y + r.Height/2}
		if side == layout.SideLeft {
			edge.X = r.X
		}
		cands = append(cands, labels.Candidate{
			ID:        string(p.Identity),
			Text:      p.Label,
			Anchor:    edge,
			ShapeEdge: edge,
			Center:    chart.Point{X: area.X + area.Width/2, Y: edge.Y},
			FontSize:  fontSize,
			Priority:  math.Abs(p.Value),
		})
	}

	if showCats {
		for r := 0; r < rows; r++ {
			p := t.points[r*t.series]
			y, h := layout.Band(area.Height, r, rows, barPadding, minBarSize)
			pt := chart.Point{X: catWidth - gutter, Y: area.Y + y + h/2}
			shapes = append(shapes, visual.TextShape("category:"+string(p.Identity), visual.ClassLabel, pt, p.Category, catSize, s.String(ObjectCategories, settings.PropColor), "end"))
		}
	}
	if len(t.points) > 0 {
		mid := area.X + area.Width/2
		shapes = append(shapes, visual.LineShape(KeyAxis, visual.ClassAxis, chart.Point{X: mid, Y: area.Y}, chart.Point{X: mid, Y: area.Bottom()}, "#c8c8c8", 1))
	}

	visible := 0
	if s.Bool(settings.ObjectLabels, settings.PropShow) {
		placed := labels.Place(cands, vp, labels.Options{Measurer: t.Measurer()})
		visible = labels.VisibleCount(placed)
		shapes = append(shapes, visual.LabelShapes(placed, fontSize, s.String(settings.ObjectLabels, settings.PropColor))...)
	}

	t.Record(t.points, t.legend, t.agg, visible)
	t.Draw(shapes, suppress)
}

// sideOf returns the growth direction of series i. A single series grows
// to the right.
func sideOf(i, n int) layout.Side {
	if n > 1 && i == 0 {
		return layout.SideLeft
	}
	return layout.SideCenterRight
}
