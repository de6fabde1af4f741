// Package histogram implements the histogram: numeric category values
// bucketed into equally wide bins, optionally weighted by a frequency
// measure, drawn as columns over a value axis.
package histogram

import (
	"fmt"
	"math"
	"time"

	"github.com/matzehuels/chartpack/pkg/chart"
	"github.com/matzehuels/chartpack/pkg/dataview"
	"github.com/matzehuels/chartpack/pkg/errors"
	"github.com/matzehuels/chartpack/pkg/format"
	"github.com/matzehuels/chartpack/pkg/labels"
	"github.com/matzehuels/chartpack/pkg/layout"
	"github.com/matzehuels/chartpack/pkg/observability"
	"github.com/matzehuels/chartpack/pkg/render"
	"github.com/matzehuels/chartpack/pkg/settings"
	"github.com/matzehuels/chartpack/pkg/visual"
)

// Name is the registry tag.
const Name = "histogram"

// Histogram settings.
const (
	ObjectGeneral = "general"
	ObjectXAxis   = "xAxis"

	PropBins = "bins"
)

// KeyAxis is the key of the x axis baseline.
const KeyAxis = "axis:x"

// DefaultFill is the column color.
const DefaultFill = "#01B8AA"

const (
	columnPadding = 2.0
	minColumn     = 1.0
	margin        = 4.0
	tickCount     = 5
)

// Schema is the histogram's settings schema.
var Schema = settings.NewSchema(
	settings.Labels(settings.LabelStyleData),
	settings.DataPoint(DefaultFill),
	settings.Object{Name: ObjectGeneral, Properties: []settings.Property{
		{Name: PropBins, Kind: settings.KindInt, Default: 0, Min: 0, Max: 100},
	}},
	settings.Object{Name: ObjectXAxis, Properties: []settings.Property{
		{Name: settings.PropShow, Kind: settings.KindBool, Default: true},
		{Name: settings.PropColor, Kind: settings.KindColor, Default: "#777777"},
		{Name: settings.PropFontSize, Kind: settings.KindNumber, Default: 9.0, Min: 8, Max: 40},
	}},
)

func init() {
	visual.Register(visual.Info{
		Name:        Name,
		Description: "Histogram of numeric category values weighted by a frequency measure",
		Schema:      Schema,
		Factory:     New,
	})
}

// Histogram is a histogram instance.
type Histogram struct {
	visual.Base

	bins   []layout.Bin
	points []chart.DataPoint
	agg    chart.Aggregates
}

// New returns an uninitialized histogram.
func New() visual.Visual {
	return &Histogram{Base: visual.NewBase(Name, Schema)}
}

// Init implements visual.Visual.
func (h *Histogram) Init(opts visual.InitOptions) {
	if !h.Setup(opts) {
		return
	}
	h.SetRedraw(h.draw)
}

// Samples extracts the values and weights of a data view. Category views
// bin the numeric category values weighted by the first measure; measure
// views bin the rows of the first measure. skipped counts values that are
// not finite numbers.
func Samples(dv *dataview.DataView) (values, weights []float64, skipped int) {
	c := dv.Categorical
	switch dv.Shape() {
	case dataview.ShapeCategory:
		cat := c.Categories[0]
		measure := &c.Values[0]
		for i, raw := range cat.Values {
			v, ok := dataview.Number(raw)
			w := measure.Value(i)
			if !ok || !finite(v, w) {
				skipped++
				continue
			}
			values = append(values, v)
			weights = append(weights, w)
		}
	case dataview.ShapeMeasures, dataview.ShapeSeries:
		col := &c.Values[0]
		for i, raw := range col.Values {
			v, ok := dataview.Number(raw)
			if !ok || !finite(v) {
				skipped++
				continue
			}
			values = append(values, col.Value(i))
		}
	}
	return values, weights, skipped
}

// Update implements visual.Visual.
func (h *Histogram) Update(opts visual.UpdateOptions) {
	dv, ok := h.Begin(opts)
	if !ok {
		h.bins, h.points = nil, nil
		return
	}
	h.Commit()
	hooks := observability.Visual()
	hooks.OnConvertStart(h.Context(), Name, dv.Categorical.Rows())
	start := time.Now()

	values, weights, skipped := Samples(dv)
	if skipped > 0 {
		h.Warn(errors.InvalidValuesWarning(fmt.Sprintf("%d non-numeric values skipped", skipped)))
	}
	h.bins = layout.Histogram(values, weights, h.Settings().Int(ObjectGeneral, PropBins))
	h.points, h.agg = h.binPoints()
	hooks.OnConvertComplete(h.Context(), Name, len(h.points), time.Since(start))

	h.Bind(h.points, nil, false)
	h.draw(opts.SuppressAnimations)
}

// Bins returns the bins of the last update.
func (h *Histogram) Bins() []layout.Bin { return h.bins }

func (h *Histogram) binPoints() ([]chart.DataPoint, chart.Aggregates) {
	var agg chart.Aggregates
	if len(h.bins) == 0 {
		return nil, agg
	}
	agg.Min = math.Inf(1)
	agg.Max = math.Inf(-1)
	lo, hi := h.bins[0].Lo, h.bins[len(h.bins)-1].Hi
	for _, b := range h.bins {
		agg.Total += b.Frequency
		agg.Max = math.Max(agg.Max, b.Frequency)
		agg.Min = math.Min(agg.Min, b.Frequency)
	}

	s := h.Settings()
	lf := s.LabelFormat(agg.Max)
	lf.Locale = h.Locale()
	freq := format.New(lf)
	edges := format.New(format.Options{Unit: format.ChooseUnit(math.Max(math.Abs(lo), math.Abs(hi))), Precision: format.DefaultPrecision, Locale: h.Locale()})
	fill := s.String(settings.ObjectDataPoint, settings.PropFill)
	sel := h.Service().Selection()

	points := make([]chart.DataPoint, len(h.bins))
	for i, b := range h.bins {
		id := dataview.Identity(fmt.Sprintf("bin:%d", i))
		rng := edges.Format(b.Lo) + " - " + edges.Format(b.Hi)
		p := chart.DataPoint{
			Identity: id,
			Category: rng,
			Value:    b.Frequency,
			Color:    fill,
			Label:    freq.Format(b.Frequency),
			Tooltip: []chart.TooltipItem{
				{Name: "Range", Value: rng},
				{Name: "Frequency", Value: freq.Format(b.Frequency)},
			},
			Selected: sel.Contains(id),
		}
		if agg.Total != 0 {
			p.Percentage = b.Frequency / agg.Total
		}
		points[i] = p
	}
	return points, agg
}

func (h *Histogram) draw(suppress bool) {
	vp := h.Viewport()
	s := h.Settings()
	showAxis := s.Bool(ObjectXAxis, settings.PropShow)
	axisSize := s.Number(ObjectXAxis, settings.PropFontSize)
	axisColor := s.String(ObjectXAxis, settings.PropColor)

	bottom := margin
	if showAxis {
		bottom += axisSize + 2*margin
	}
	area := layout.Inset(vp.Bounds(), margin, margin, bottom, margin)
	ys := layout.NewLinearScale(0, h.agg.Max, 0, area.Height)
	layout.Columns(h.points, area, ys, columnPadding, minColumn)

	shapes := make([]render.Shape, 0, 2*len(h.points)+tickCount+1)
	for i := range h.points {
		p := &h.points[i]
		shapes = append(shapes, visual.RectShape(string(p.Identity), visual.ClassColumn, p.Geometry.Rect, p.Color, p.Opacity))
	}

	if showAxis && len(h.bins) > 0 {
		lo, hi := h.bins[0].Lo, h.bins[len(h.bins)-1].Hi
		xs := layout.NewLinearScale(lo, hi, area.X, area.Right())
		y := area.Bottom()
		shapes = append(shapes, visual.LineShape(KeyAxis, visual.ClassAxis, chart.Point{X: area.X, Y: y}, chart.Point{X: area.Right(), Y: y}, axisColor, 1))
		f := format.New(format.Options{Unit: format.ChooseUnit(math.Max(math.Abs(lo), math.Abs(hi))), Precision: 0, Locale: h.Locale()})
		for _, v := range xs.Ticks(tickCount) {
			x := xs.Scale(v)
			key := fmt.Sprintf("tick:%g", v)
			shapes = append(shapes,
				visual.LineShape(key, visual.ClassTick, chart.Point{X: x, Y: y}, chart.Point{X: x, Y: y + margin}, axisColor, 1),
				visual.TextShape(key+":text", visual.ClassTick, chart.Point{X: x, Y: y + margin + axisSize}, f.Format(v), axisSize, axisColor, "middle"),
			)
		}
	}

	visible := 0
	if s.Bool(settings.ObjectLabels, settings.PropShow) {
		fontSize := s.Number(settings.ObjectLabels, settings.PropFontSize)
		cands := make([]labels.Candidate, 0, len(h.points))
		for _, p := range h.points {
			r := p.Geometry.Rect
			top := chart.Point{X: r.X + r.Width/2, Y: r.Y - fontSize/2 - 1}
			cands = append(cands, labels.Candidate{
				ID:        string(p.Identity),
				Text:      p.Label,
				Anchor:    top,
				ShapeEdge: top,
				Center:    chart.Point{X: top.X, Y: area.Bottom()},
				FontSize:  fontSize,
				Priority:  p.Value,
				Align:     labels.AlignCenter,
			})
		}
		placed := labels.Place(cands, vp, labels.Options{Measurer: h.Measurer()})
		visible = labels.VisibleCount(placed)
		shapes = append(shapes, visual.LabelShapes(placed, fontSize, s.String(settings.ObjectLabels, settings.PropColor))...)
	}

	h.Record(h.points, nil, h.agg, visible)
	h.Draw(shapes, suppress)
}

func finite(fs ...float64) bool {
	for _, f := range fs {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
