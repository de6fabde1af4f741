package convert

import (
	"fmt"
	"math"

	"golang.org/x/text/language"

	"github.com/matzehuels/chartpack/pkg/chart"
	"github.com/matzehuels/chartpack/pkg/color"
	"github.com/matzehuels/chartpack/pkg/dataview"
	"github.com/matzehuels/chartpack/pkg/errors"
	"github.com/matzehuels/chartpack/pkg/format"
	"github.com/matzehuels/chartpack/pkg/interactivity"
	"github.com/matzehuels/chartpack/pkg/settings"
)

// HighlightEpsilon is the smallest highlight ratio a point carries when
// highlights are present.
const HighlightEpsilon = 1e-3

// Options configures a conversion.
type Options struct {
	// Visual names the visual in warnings.
	Visual string
	// Colors assigns colors. A fresh resolver over the default palette is
	// used when nil, which makes colors stable only within one call.
	Colors *color.Resolver
	// Formatter formats labels. When nil one is built from the labels
	// settings object.
	Formatter *format.Formatter
	Locale    language.Tag
	// Selection is the current selection; nil means nothing is selected.
	Selection *interactivity.Selection
	// Schema describes the visual's settings.
	Schema *settings.Schema
	// MaxSeries discards the update when more value series are present.
	// Zero means unlimited.
	MaxSeries int
	// ColorBySeries colors category points by their series instead of
	// their category.
	ColorBySeries bool
	// SplitMeasures treats each value column as its own series instead of
	// using the second column of a group as the secondary value.
	SplitMeasures bool
}

// Result is the output of a conversion.
type Result struct {
	Points     []chart.DataPoint
	Legend     []chart.LegendDataPoint
	Aggregates chart.Aggregates
	Settings   settings.Values
	Warnings   []errors.Warning
	Shape      dataview.Shape
	// Discard is set when the update must be dropped and the last good
	// render kept on screen.
	Discard bool
	// Series lists the value series names in order, for visuals that lay
	// out per series.
	Series []string
}

// Empty reports whether there is nothing to draw.
func (r *Result) Empty() bool { return len(r.Points) == 0 }

// HighlightsOnly reports whether points render from highlight values.
func (r *Result) HighlightsOnly() bool { return r.Aggregates.HighlightsOverflow }

// series is one value series within a conversion.
type series struct {
	name      string
	identity  dataview.Identity
	primary   *dataview.ValueColumn
	secondary *dataview.ValueColumn
	objects   dataview.Objects
}

// Convert turns dv into data points.
func Convert(dv *dataview.DataView, opts Options) *Result {
	res := &Result{
		Settings: settings.Parse(opts.Schema, dv.Objects()),
		Shape:    dv.Shape(),
	}
	if res.Shape == dataview.ShapeEmpty {
		return res
	}
	if opts.Colors == nil {
		opts.Colors = color.NewResolver(nil)
	}

	c := dv.Categorical
	ss := buildSeries(c, opts.SplitMeasures)
	n := len(ss)
	if res.Shape == dataview.ShapeMeasures {
		n = len(c.Values)
	}
	if opts.MaxSeries > 0 && n > opts.MaxSeries {
		res.Warnings = append(res.Warnings, errors.TooManySeriesWarning(opts.Visual, n, opts.MaxSeries))
		res.Discard = true
		return res
	}
	for _, s := range ss {
		res.Series = append(res.Series, s.name)
	}

	var raw []rawPoint
	switch res.Shape {
	case dataview.ShapeCategory:
		raw = fromCategories(c, ss, opts)
	case dataview.ShapeSeries:
		raw = fromSeries(ss, opts)
	case dataview.ShapeMeasures:
		raw = fromMeasures(c, opts)
	}

	agg := aggregate(raw, c.HasHighlights())
	if !finite(agg.Total, agg.HighlightTotal, agg.Max, agg.Min) {
		res.Warnings = append(res.Warnings, errors.InvalidValuesWarning(
			fmt.Sprintf("total=%v highlightTotal=%v", agg.Total, agg.HighlightTotal)))
		return res
	}
	res.Aggregates = agg
	if agg.Total == 0 {
		return res
	}

	f := opts.Formatter
	if f == nil {
		fo := res.Settings.LabelFormat(math.Max(math.Abs(agg.Max), math.Abs(agg.Min)))
		fo.Locale = opts.Locale
		f = format.New(fo)
	}
	tf := format.New(format.Options{Unit: format.DisplayNone, Precision: format.DefaultPrecision, Locale: opts.Locale})
	style := res.Settings.String(settings.ObjectLabels, settings.PropLabelStyle)

	res.Points = make([]chart.DataPoint, len(raw))
	for i, r := range raw {
		p := r.point
		computeShares(&p, agg)
		p.Label = labelText(style, &p, f)
		p.Tooltip = tooltip(r, &p, tf, agg.HasHighlights)
		res.Points[i] = p
	}
	interactivity.Apply(res.Points, opts.Selection, agg.HasHighlights && !agg.HighlightsOverflow)

	res.Legend = legend(res.Points, raw, (len(ss) > 1 || opts.ColorBySeries) && res.Shape == dataview.ShapeCategory)
	interactivity.ApplyLegend(res.Legend, opts.Selection)
	return res
}

// rawPoint is a point before shares, labels and tooltips are computed.
type rawPoint struct {
	point         chart.DataPoint
	categoryName  string
	valueName     string
	secondaryName string
	legendID      dataview.Identity
	legendLabel   string
}

func buildSeries(c *dataview.Categorical, split bool) []series {
	var out []series
	for _, g := range c.Groups() {
		if split {
			for _, col := range g.Columns {
				objects := col.Objects
				if objects == nil {
					objects = g.Objects
				}
				out = append(out, series{
					name:     seriesName(g, col),
					identity: dataview.CombineIdentities(g.Identity, dataview.MeasureIdentity(col.Source)),
					primary:  col,
					objects:  objects,
				})
			}
			continue
		}
		s := series{
			name:     seriesName(g, g.Columns[0]),
			identity: g.Identity,
			primary:  g.Columns[0],
			objects:  g.Objects,
		}
		if len(g.Columns) > 1 {
			s.secondary = g.Columns[1]
		}
		out = append(out, s)
	}
	return out
}

func seriesName(g dataview.Group, col *dataview.ValueColumn) string {
	if g.Name != nil {
		return dataview.DisplayText(g.Name)
	}
	return col.Source.DisplayName
}

func fromCategories(c *dataview.Categorical, ss []series, opts Options) []rawPoint {
	cat := &c.Categories[0]
	multi := len(ss) > 1
	bySeries := multi || opts.ColorBySeries
	ids := cat.RowIdentities()
	var out []rawPoint
	for row := 0; row < c.Rows(); row++ {
		catID := ids[row]
		catLabel := dataview.DisplayText(cat.Values[row])
		for _, s := range ss {
			id := dataview.CombineIdentities(catID, s.identity)
			var col string
			legendID, legendLabel := id, catLabel
			if bySeries {
				col = opts.Colors.Color(string(s.identity), fill(s.objects))
				legendID, legendLabel = s.identity, s.name
			} else {
				col = opts.Colors.Color(string(catID), fill(cat.RowObjects(row)))
			}
			r := rawPoint{
				point: chart.DataPoint{
					Identity: id,
					Category: catLabel,
					Series:   s.name,
					Color:    col,
				},
				categoryName: cat.Source.DisplayName,
				legendID:     legendID,
				legendLabel:  legendLabel,
			}
			r.fillValues(s, row)
			out = append(out, r)
		}
	}
	return out
}

func fromSeries(ss []series, opts Options) []rawPoint {
	out := make([]rawPoint, 0, len(ss))
	for _, s := range ss {
		r := rawPoint{
			point: chart.DataPoint{
				Identity: s.identity,
				Category: s.name,
				Series:   s.name,
				Color:    opts.Colors.Color(string(s.identity), fill(s.objects)),
			},
			legendID:    s.identity,
			legendLabel: s.name,
		}
		r.fillValues(s, 0)
		out = append(out, r)
	}
	return out
}

func fromMeasures(c *dataview.Categorical, opts Options) []rawPoint {
	out := make([]rawPoint, 0, len(c.Values))
	for i := range c.Values {
		col := &c.Values[i]
		id := dataview.MeasureIdentity(col.Source)
		r := rawPoint{
			point: chart.DataPoint{
				Identity: id,
				Category: col.Source.DisplayName,
				Color:    opts.Colors.Color(string(id), fill(col.Objects)),
			},
			legendID:    id,
			legendLabel: col.Source.DisplayName,
		}
		r.fillValues(series{primary: col}, 0)
		out = append(out, r)
	}
	return out
}

// fillValues copies the row's values out of the series columns.
func (r *rawPoint) fillValues(s series, row int) {
	p := &r.point
	p.Value = s.primary.Value(row)
	r.valueName = s.primary.Source.DisplayName
	if s.primary.HasHighlights() {
		p.HasHighlight = true
		p.HighlightValue = s.primary.Highlight(row)
		p.Highlighted = p.HighlightValue != 0
	}
	if s.secondary != nil {
		p.Secondary = s.secondary.Value(row)
		r.secondaryName = s.secondary.Source.DisplayName
	}
}

func fill(objects dataview.Objects) string {
	v, ok := objects.Property(settings.ObjectDataPoint, settings.PropFill)
	if !ok {
		return ""
	}
	return settings.ColorValue(v)
}

func aggregate(raw []rawPoint, hasHighlights bool) chart.Aggregates {
	agg := chart.Aggregates{HasHighlights: hasHighlights}
	if len(raw) == 0 {
		return agg
	}
	agg.Max, agg.Min = math.Inf(-1), math.Inf(1)
	for _, r := range raw {
		p := r.point
		agg.Total += math.Abs(p.Value)
		agg.HighlightTotal += math.Abs(p.HighlightValue)
		agg.Max = math.Max(agg.Max, p.Value)
		agg.Min = math.Min(agg.Min, p.Value)
		if p.HasHighlight && math.Abs(p.HighlightValue) > math.Abs(p.Value) {
			agg.HighlightsOverflow = true
		}
	}
	return agg
}

func computeShares(p *chart.DataPoint, agg chart.Aggregates) {
	if agg.HighlightsOverflow {
		share := math.Abs(p.HighlightValue) / agg.HighlightTotal
		p.Percentage = share
		p.HighlightPercentage = share
		p.HighlightRatio = 1
		return
	}
	p.Percentage = math.Abs(p.Value) / agg.Total
	if !agg.HasHighlights {
		return
	}
	if agg.HighlightTotal > 0 {
		p.HighlightPercentage = math.Abs(p.HighlightValue) / agg.HighlightTotal
	}
	ratio := 0.0
	if p.Value != 0 {
		ratio = math.Abs(p.HighlightValue) / math.Abs(p.Value)
	}
	p.HighlightRatio = math.Max(ratio, HighlightEpsilon)
}

func labelText(style string, p *chart.DataPoint, f *format.Formatter) string {
	switch style {
	case settings.LabelStyleData:
		return f.Format(p.Value)
	case settings.LabelStylePercent:
		return f.FormatPercent(p.Percentage)
	case settings.LabelStyleBoth:
		return f.Format(p.Value) + " (" + f.FormatPercent(p.Percentage) + ")"
	default:
		return p.Category
	}
}

func tooltip(r rawPoint, p *chart.DataPoint, f *format.Formatter, hasHighlights bool) []chart.TooltipItem {
	var items []chart.TooltipItem
	if r.categoryName != "" {
		items = append(items, chart.TooltipItem{Name: r.categoryName, Value: p.Category})
	}
	items = append(items, chart.TooltipItem{Name: r.valueName, Value: f.Format(p.Value)})
	if r.secondaryName != "" {
		items = append(items, chart.TooltipItem{Name: r.secondaryName, Value: f.Format(p.Secondary)})
	}
	if hasHighlights && p.HasHighlight {
		items = append(items, chart.TooltipItem{Name: "Highlighted", Value: f.Format(p.HighlightValue)})
	}
	return items
}

// legend returns one entry per point, or one per series when points are
// colored by series.
func legend(points []chart.DataPoint, raw []rawPoint, perSeries bool) []chart.LegendDataPoint {
	var out []chart.LegendDataPoint
	seen := make(map[dataview.Identity]bool)
	for i, r := range raw {
		if perSeries && seen[r.legendID] {
			continue
		}
		seen[r.legendID] = true
		out = append(out, chart.LegendDataPoint{
			Label:    r.legendLabel,
			Color:    points[i].Color,
			Icon:     chart.IconCircle,
			Identity: r.legendID,
		})
	}
	return out
}

func finite(fs ...float64) bool {
	for _, f := range fs {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
