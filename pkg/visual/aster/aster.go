// Package aster implements the aster plot: slices whose depth follows the
// first measure and whose width follows the second, with the formatted
// total in the middle.
package aster

import (
	"github.com/matzehuels/chartpack/pkg/chart"
	"github.com/matzehuels/chartpack/pkg/convert"
	"github.com/matzehuels/chartpack/pkg/format"
	"github.com/matzehuels/chartpack/pkg/labels"
	"github.com/matzehuels/chartpack/pkg/layout"
	"github.com/matzehuels/chartpack/pkg/render"
	"github.com/matzehuels/chartpack/pkg/settings"
	"github.com/matzehuels/chartpack/pkg/visual"
)

// Name is the registry tag.
const Name = "aster"

// Aster settings.
const (
	ObjectCenterLabel = "centerLabel"
	ObjectOuterLine   = "outerLine"
	ObjectAster       = "aster"

	PropThickness   = "thickness"
	PropInnerRadius = "innerRadius"
)

// Keys of the decoration shapes.
const (
	KeyCenterLabel = "center:total"
	KeyOuterLine   = "outer:line"
)

const labelMargin = 0.2

// Schema is the aster plot's settings schema.
var Schema = settings.NewSchema(
	settings.Legend(),
	settings.Labels(settings.LabelStyleData),
	settings.Object{Name: ObjectCenterLabel, Properties: []settings.Property{
		{Name: settings.PropShow, Kind: settings.KindBool, Default: true},
		{Name: settings.PropColor, Kind: settings.KindColor, Default: "#333333"},
		{Name: settings.PropFontSize, Kind: settings.KindNumber, Default: 14.0, Min: 8, Max: 60},
	}},
	settings.Object{Name: ObjectOuterLine, Properties: []settings.Property{
		{Name: settings.PropShow, Kind: settings.KindBool, Default: false},
		{Name: settings.PropColor, Kind: settings.KindColor, Default: "#666666"},
		{Name: PropThickness, Kind: settings.KindNumber, Default: 1.0, Min: 0.5, Max: 10},
	}},
	settings.Object{Name: ObjectAster, Properties: []settings.Property{
		{Name: PropInnerRadius, Kind: settings.KindNumber, Default: 0.1, Min: 0, Max: 0.9},
	}},
)

func init() {
	visual.Register(visual.Info{
		Name:        Name,
		Description: "Aster plot: slice depth from the first measure, width from the second",
		Schema:      Schema,
		Factory:     New,
	})
}

// Aster is an aster plot instance.
type Aster struct {
	visual.Base

	points []chart.DataPoint
	legend []chart.LegendDataPoint
	agg    chart.Aggregates
}

// New returns an uninitialized aster plot.
func New() visual.Visual {
	return &Aster{Base: visual.NewBase(Name, Schema)}
}

// Init implements visual.Visual.
func (a *Aster) Init(opts visual.InitOptions) {
	if !a.Setup(opts) {
		return
	}
	a.SetRedraw(a.draw)
}

// Update implements visual.Visual.
func (a *Aster) Update(opts visual.UpdateOptions) {
	dv, ok := a.Begin(opts)
	if !ok {
		a.points, a.legend = nil, nil
		return
	}
	res, ok := a.Convert(dv, convert.Options{})
	if !ok {
		return
	}
	a.points, a.legend, a.agg = res.Points, res.Legend, res.Aggregates
	a.Bind(a.points, a.legend, a.agg.HasHighlights && !a.agg.HighlightsOverflow)
	a.draw(opts.SuppressAnimations)
}

func (a *Aster) draw(suppress bool) {
	vp := a.Viewport()
	s := a.Settings()
	showLabels := s.Bool(settings.ObjectLabels, settings.PropShow)

	margin := 0.0
	if showLabels {
		margin = labelMargin
	}
	inner, outer := layout.Radii(vp, margin, s.Number(ObjectAster, PropInnerRadius))
	center := vp.Bounds().Center()
	layout.Aster(a.points, layout.Arc{Center: center, InnerRadius: inner, OuterRadius: outer}, nil)

	shapes := make([]render.Shape, 0, len(a.points)+4)
	for i := range a.points {
		shapes = append(shapes, visual.ArcShape(&a.points[i]))
	}

	if len(a.points) > 0 && s.Bool(ObjectOuterLine, settings.PropShow) {
		shapes = append(shapes, render.Shape{
			Key:   KeyOuterLine,
			Kind:  render.KindCircle,
			Class: visual.ClassAxis,
			Attrs: render.Attrs{
				X:           center.X,
				Y:           center.Y,
				Radius:      outer,
				Stroke:      s.String(ObjectOuterLine, settings.PropColor),
				StrokeWidth: s.Number(ObjectOuterLine, PropThickness),
				Opacity:     1,
			},
		})
	}
	if len(a.points) > 0 && s.Bool(ObjectCenterLabel, settings.PropShow) {
		shapes = append(shapes, visual.TextShape(KeyCenterLabel, visual.ClassTitle, center,
			a.centerText(), s.Number(ObjectCenterLabel, settings.PropFontSize),
			s.String(ObjectCenterLabel, settings.PropColor), "middle"))
	}

	visible := 0
	if showLabels {
		fontSize := s.Number(settings.ObjectLabels, settings.PropFontSize)
		var cands []labels.Candidate
		for _, p := range a.points {
			g := p.Geometry
			if g.EndAngle <= g.StartAngle || p.Label == "" {
				continue
			}
			mid := g.MidAngle()
			cands = append(cands, labels.Candidate{
				ID:        string(p.Identity),
				Text:      p.Label,
				Anchor:    layout.Polar(center, mid, outer*1.1),
				ShapeEdge: layout.Polar(center, mid, g.OuterRadius),
				Center:    center,
				FontSize:  fontSize,
				Priority:  p.Percentage,
				Leader:    true,
			})
		}
		placed := labels.Place(cands, vp, labels.Options{Measurer: a.Measurer()})
		visible = labels.VisibleCount(placed)
		shapes = append(shapes, visual.LabelShapes(placed, fontSize, s.String(settings.ObjectLabels, settings.PropColor))...)
	}

	a.Record(a.points, a.legend, a.agg, visible)
	a.Draw(shapes, suppress)
}

// centerText formats the total of the first measure with the label units.
func (a *Aster) centerText() string {
	total := 0.0
	for _, p := range a.points {
		total += p.Value
	}
	o := a.Settings().LabelFormat(total)
	o.Locale = a.Locale()
	return format.New(o).Format(total)
}
