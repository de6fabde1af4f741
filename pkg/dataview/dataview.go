package dataview

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/chartpack/pkg/errors"
)

// Identity is an opaque, stable key for a category row, a series, or a
// measure column.
type Identity string

// Objects is the user-configured property bag: object name → property → value.
type Objects map[string]map[string]any

// Property returns the raw value stored for object/property.
func (o Objects) Property(object, property string) (any, bool) {
	props, ok := o[object]
	if !ok {
		return nil, false
	}
	v, ok := props[property]
	return v, ok
}

// Column describes a source column of the query.
type Column struct {
	DisplayName string          `json:"displayName"`
	QueryName   string          `json:"queryName,omitempty"`
	Roles       map[string]bool `json:"roles,omitempty"`
	Format      string          `json:"format,omitempty"`
	IsMeasure   bool            `json:"isMeasure,omitempty"`
}

// HasRole reports whether the column is bound to the named data role.
func (c Column) HasRole(role string) bool { return c.Roles[role] }

// CategoryColumn is a grouping column with one identity per row.
type CategoryColumn struct {
	Source     Column     `json:"source"`
	Values     []any      `json:"values"`
	Identities []Identity `json:"identity,omitempty"`
	// Objects holds per-row overrides (e.g. a category's fill color).
	Objects []Objects `json:"objects,omitempty"`
}

// Identity returns the identity of row i, deriving one from the row value
// when the host did not supply identities. See [CategoryColumn.RowIdentities].
func (c *CategoryColumn) Identity(i int) Identity {
	if c.supplied(i) {
		return c.Identities[i]
	}
	return c.derive(i, nil)
}

// RowIdentities returns the identity of every row. Derived identities are
// unique per row: a value repeated in the column gets its occurrence
// ordinal appended ("Region=North", "Region=North#2").
func (c *CategoryColumn) RowIdentities() []Identity {
	ids := make([]Identity, len(c.Values))
	seen := make(map[string]int, len(c.Values))
	for i := range c.Values {
		if c.supplied(i) {
			ids[i] = c.Identities[i]
			continue
		}
		ids[i] = c.derive(i, seen)
	}
	return ids
}

func (c *CategoryColumn) supplied(i int) bool {
	return i < len(c.Identities) && c.Identities[i] != ""
}

// derive builds the identity of row i from its value. seen counts the
// occurrences of each value in earlier rows; nil scans them.
func (c *CategoryColumn) derive(i int, seen map[string]int) Identity {
	text := DisplayText(valueAt(c.Values, i))
	var n int
	if seen != nil {
		seen[text]++
		n = seen[text]
	} else {
		n = 1
		for j := 0; j < i && j < len(c.Values); j++ {
			if !c.supplied(j) && DisplayText(c.Values[j]) == text {
				n++
			}
		}
	}
	id := c.Source.QueryName + "=" + text
	if n > 1 {
		id += "#" + strconv.Itoa(n)
	}
	return Identity(id)
}

// RowObjects returns the override objects of row i, or nil.
func (c *CategoryColumn) RowObjects(i int) Objects {
	if i < len(c.Objects) {
		return c.Objects[i]
	}
	return nil
}

// ValueColumn is a measure column, optionally belonging to a series group.
type ValueColumn struct {
	Source         Column   `json:"source"`
	Values         []any    `json:"values"`
	Highlights     []any    `json:"highlights,omitempty"`
	SeriesName     any      `json:"seriesName,omitempty"`
	SeriesIdentity Identity `json:"seriesIdentity,omitempty"`
	// Objects holds per-series overrides (e.g. a series' fill color).
	Objects Objects `json:"objects,omitempty"`
}

// HasHighlights reports whether the column carries a highlights slice.
func (c *ValueColumn) HasHighlights() bool { return c.Highlights != nil }

// Value returns the normalized numeric value of row i.
func (c *ValueColumn) Value(i int) float64 {
	v, _ := Number(valueAt(c.Values, i))
	return v
}

// Highlight returns the normalized highlight of row i.
func (c *ValueColumn) Highlight(i int) float64 {
	v, _ := Number(valueAt(c.Highlights, i))
	return v
}

// Group is a set of value columns sharing one series identity.
type Group struct {
	Name     any
	Identity Identity
	Columns  []*ValueColumn
	Objects  Objects
}

// Categorical is the table part of a data view.
type Categorical struct {
	Categories []CategoryColumn `json:"categories,omitempty"`
	Values     []ValueColumn    `json:"values,omitempty"`
	// Series is set when the values are grouped by a dynamic series column.
	Series *Column `json:"series,omitempty"`
}

// Groups returns the value columns grouped by series identity, in first-seen
// order. Without a series column every value column belongs to one group.
func (c *Categorical) Groups() []Group {
	if c == nil || len(c.Values) == 0 {
		return nil
	}
	if c.Series == nil {
		g := Group{}
		for i := range c.Values {
			g.Columns = append(g.Columns, &c.Values[i])
		}
		return []Group{g}
	}

	var groups []Group
	index := make(map[Identity]int)
	for i := range c.Values {
		col := &c.Values[i]
		id := col.SeriesIdentity
		if id == "" {
			id = Identity(c.Series.QueryName + "=" + DisplayText(col.SeriesName))
		}
		gi, ok := index[id]
		if !ok {
			gi = len(groups)
			index[id] = gi
			groups = append(groups, Group{Name: col.SeriesName, Identity: id, Objects: col.Objects})
		}
		groups[gi].Columns = append(groups[gi].Columns, col)
	}
	return groups
}

// Rows returns the number of category rows (0 without categories).
func (c *Categorical) Rows() int {
	if c == nil || len(c.Categories) == 0 {
		return 0
	}
	return len(c.Categories[0].Values)
}

// HasHighlights reports whether any value column carries highlights.
func (c *Categorical) HasHighlights() bool {
	if c == nil {
		return false
	}
	for i := range c.Values {
		if c.Values[i].HasHighlights() {
			return true
		}
	}
	return false
}

// Metadata holds column descriptions and user-configured objects.
type Metadata struct {
	Columns []Column `json:"columns,omitempty"`
	Objects Objects  `json:"objects,omitempty"`
}

// DataView is the immutable input of one visual update.
type DataView struct {
	Metadata    Metadata     `json:"metadata"`
	Categorical *Categorical `json:"categorical,omitempty"`
}

// Objects returns the metadata objects, tolerating a nil view.
func (dv *DataView) Objects() Objects {
	if dv == nil {
		return nil
	}
	return dv.Metadata.Objects
}

// Shape classifies which conversion strategy a data view supports.
type Shape int

const (
	// ShapeEmpty means the view has no usable categorical data.
	ShapeEmpty Shape = iota
	// ShapeCategory means at least one category column with rows is present.
	ShapeCategory
	// ShapeSeries means values are grouped by a series column without categories.
	ShapeSeries
	// ShapeMeasures means only bare measure columns are present.
	ShapeMeasures
)

// String returns the strategy name.
func (s Shape) String() string {
	switch s {
	case ShapeCategory:
		return "category"
	case ShapeSeries:
		return "series"
	case ShapeMeasures:
		return "measures"
	default:
		return "empty"
	}
}

// Shape validates the view structure and picks the conversion strategy by
// priority: category, then series, then measures.
func (dv *DataView) Shape() Shape {
	if dv == nil || dv.Categorical == nil {
		return ShapeEmpty
	}
	c := dv.Categorical
	if len(c.Values) == 0 {
		return ShapeEmpty
	}
	if len(c.Categories) > 0 {
		if c.Rows() == 0 {
			return ShapeEmpty
		}
		return ShapeCategory
	}
	if c.Series != nil {
		return ShapeSeries
	}
	return ShapeMeasures
}

// Decode reads a JSON data view.
func Decode(r io.Reader) (*DataView, error) {
	var dv DataView
	if err := json.NewDecoder(r).Decode(&dv); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataView, err, "decode data view")
	}
	return &dv, nil
}

// Load reads a JSON data view from path.
func Load(path string) (*DataView, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "data view not found: %s", path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Number converts a raw cell to a float. Nil, non-numeric and non-finite
// values normalize to 0 and report ok=false.
func Number(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		var err error
		if f, err = x.Float64(); err != nil {
			return 0, false
		}
	case string:
		var err error
		if f, err = strconv.ParseFloat(strings.TrimSpace(x), 64); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// DisplayText renders a raw cell for labels. Nil renders as "(Blank)".
func DisplayText(v any) string {
	switch x := v.(type) {
	case nil:
		return "(Blank)"
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// CombineIdentities keys a (category × series) pair. Empty parts are skipped,
// so a single-series point keeps its category identity.
func CombineIdentities(ids ...Identity) Identity {
	var parts []string
	for _, id := range ids {
		if id != "" {
			parts = append(parts, string(id))
		}
	}
	return Identity(strings.Join(parts, "|"))
}

// MeasureIdentity keys a measure column in measures-only views.
func MeasureIdentity(c Column) Identity {
	if c.QueryName != "" {
		return Identity("measure:" + c.QueryName)
	}
	return Identity("measure:" + c.DisplayName)
}

func valueAt(vs []any, i int) any {
	if i < 0 || i >= len(vs) {
		return nil
	}
	return vs[i]
}
