package settings

import "github.com/matzehuels/chartpack/pkg/format"

// Shared object and property names.
const (
	ObjectLegend    = "legend"
	ObjectLabels    = "labels"
	ObjectDataPoint = "dataPoint"

	PropShow         = "show"
	PropColor        = "color"
	PropFill         = "fill"
	PropDisplayUnits = "displayUnits"
	PropPrecision    = "precision"
	PropFontSize     = "fontSize"
	PropPosition     = "position"
	PropShowTitle    = "showTitle"
	PropTitleText    = "titleText"
	PropLabelStyle   = "labelStyle"
)

// Label styles.
const (
	LabelStyleCategory = "category"
	LabelStyleData     = "data"
	LabelStylePercent  = "percent"
	LabelStyleBoth     = "both"
)

var displayUnitOptions = []string{
	format.DisplayAuto.String(),
	format.DisplayNone.String(),
	format.DisplayThousands.String(),
	format.DisplayMillions.String(),
	format.DisplayBillions.String(),
	format.DisplayTrillions.String(),
}

// Legend is the shared legend object.
func Legend() Object {
	return Object{Name: ObjectLegend, Properties: []Property{
		{Name: PropShow, Kind: KindBool, Default: true},
		{Name: PropPosition, Kind: KindEnum, Default: "top", Options: []string{"top", "bottom", "left", "right"}},
		{Name: PropShowTitle, Kind: KindBool, Default: true},
		{Name: PropTitleText, Kind: KindText, Default: ""},
		{Name: PropColor, Kind: KindColor, Default: "#666666"},
		{Name: PropFontSize, Kind: KindNumber, Default: 8.0, Min: 8, Max: 40},
	}}
}

// Labels is the shared data label object.
func Labels(defaultStyle string) Object {
	return Object{Name: ObjectLabels, Properties: []Property{
		{Name: PropShow, Kind: KindBool, Default: true},
		{Name: PropColor, Kind: KindColor, Default: "#777777"},
		{Name: PropDisplayUnits, Kind: KindEnum, Default: format.DisplayAuto.String(), Options: displayUnitOptions},
		{Name: PropPrecision, Kind: KindInt, Default: format.DefaultPrecision, Min: format.MinPrecision, Max: format.MaxPrecision},
		{Name: PropFontSize, Kind: KindNumber, Default: 9.0, Min: 8, Max: 40},
		{Name: PropLabelStyle, Kind: KindEnum, Default: defaultStyle, Options: []string{LabelStyleCategory, LabelStyleData, LabelStylePercent, LabelStyleBoth}},
	}}
}

// DataPoint is the shared data point object. Per-category fills live on the
// category rows themselves; this object carries the default fill.
func DataPoint(defaultFill string) Object {
	return Object{Name: ObjectDataPoint, Properties: []Property{
		{Name: PropFill, Kind: KindColor, Default: defaultFill},
	}}
}

// LabelFormat returns the formatter options configured by the labels object.
func (v Values) LabelFormat(max float64) format.Options {
	return format.Options{
		Unit:      format.ParseDisplayUnit(v.String(ObjectLabels, PropDisplayUnits)),
		Precision: v.Int(ObjectLabels, PropPrecision),
		Max:       max,
	}
}
