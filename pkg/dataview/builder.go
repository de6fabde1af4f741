package dataview

// Builder assembles data views in code, mostly for tests, examples and the
// headless pipeline.
//
//	dv := dataview.NewBuilder().
//	    Category("Region", "North", "South").
//	    Measure("Sales", 10.0, 20.0).
//	    Build()
type Builder struct {
	dv DataView
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{dv: DataView{Categorical: &Categorical{}}}
}

// Category appends a category column. Identities are derived from the name
// and row values.
func (b *Builder) Category(name string, values ...any) *Builder {
	col := CategoryColumn{
		Source: Column{DisplayName: name, QueryName: name, Roles: map[string]bool{"Category": true}},
		Values: values,
	}
	col.Identities = make([]Identity, len(values))
	for i, v := range values {
		col.Identities[i] = Identity(name + "=" + DisplayText(v))
	}
	b.dv.Categorical.Categories = append(b.dv.Categorical.Categories, col)
	b.dv.Metadata.Columns = append(b.dv.Metadata.Columns, col.Source)
	return b
}

// Measure appends a measure column that belongs to no series.
func (b *Builder) Measure(name string, values ...any) *Builder {
	return b.addValue(ValueColumn{
		Source: Column{DisplayName: name, QueryName: name, IsMeasure: true, Roles: map[string]bool{"Values": true}},
		Values: values,
	})
}

// SeriesMeasure appends a measure column grouped under the series value
// seriesName of the series column series.
func (b *Builder) SeriesMeasure(series string, seriesName any, name string, values ...any) *Builder {
	if b.dv.Categorical.Series == nil {
		b.dv.Categorical.Series = &Column{DisplayName: series, QueryName: series, Roles: map[string]bool{"Series": true}}
	}
	return b.addValue(ValueColumn{
		Source:         Column{DisplayName: name, QueryName: name, IsMeasure: true, Roles: map[string]bool{"Values": true}},
		Values:         values,
		SeriesName:     seriesName,
		SeriesIdentity: Identity(series + "=" + DisplayText(seriesName)),
	})
}

// Role adds a data role to the last measure column.
func (b *Builder) Role(role string) *Builder {
	if last := b.lastValue(); last != nil {
		last.Source.Roles[role] = true
	}
	return b
}

// Highlights sets the highlights of the last measure column.
func (b *Builder) Highlights(values ...any) *Builder {
	if last := b.lastValue(); last != nil {
		last.Highlights = values
	}
	return b
}

// Format sets the format string of the last measure column.
func (b *Builder) Format(format string) *Builder {
	if last := b.lastValue(); last != nil {
		last.Source.Format = format
	}
	return b
}

// Object sets a metadata object property.
func (b *Builder) Object(object, property string, value any) *Builder {
	if b.dv.Metadata.Objects == nil {
		b.dv.Metadata.Objects = Objects{}
	}
	if b.dv.Metadata.Objects[object] == nil {
		b.dv.Metadata.Objects[object] = map[string]any{}
	}
	b.dv.Metadata.Objects[object][property] = value
	return b
}

// CategoryObject sets a per-row override on the first category column.
func (b *Builder) CategoryObject(row int, object, property string, value any) *Builder {
	if len(b.dv.Categorical.Categories) == 0 {
		return b
	}
	col := &b.dv.Categorical.Categories[0]
	for len(col.Objects) <= row {
		col.Objects = append(col.Objects, nil)
	}
	if col.Objects[row] == nil {
		col.Objects[row] = Objects{}
	}
	if col.Objects[row][object] == nil {
		col.Objects[row][object] = map[string]any{}
	}
	col.Objects[row][object][property] = value
	return b
}

// Build returns the assembled data view.
func (b *Builder) Build() *DataView {
	dv := b.dv
	return &dv
}

func (b *Builder) addValue(col ValueColumn) *Builder {
	b.dv.Categorical.Values = append(b.dv.Categorical.Values, col)
	b.dv.Metadata.Columns = append(b.dv.Metadata.Columns, col.Source)
	return b
}

func (b *Builder) lastValue() *ValueColumn {
	vs := b.dv.Categorical.Values
	if len(vs) == 0 {
		return nil
	}
	return &vs[len(vs)-1]
}
