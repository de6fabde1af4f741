package settings

import (
	"maps"
	"math"

	"github.com/matzehuels/chartpack/pkg/color"
	"github.com/matzehuels/chartpack/pkg/dataview"
)

// Values holds the effective settings of one update.
type Values struct {
	schema *Schema
	values map[string]map[string]any
}

// Parse builds the effective settings from defaults and the user objects.
// Numbers are clamped to their bounds; values of the wrong type, invalid
// colors and unknown enum options fall back to the default.
func Parse(schema *Schema, objects dataview.Objects) Values {
	v := Values{schema: schema, values: make(map[string]map[string]any)}
	if schema == nil {
		return v
	}
	for _, o := range schema.objects {
		props := make(map[string]any, len(o.Properties))
		for _, p := range o.Properties {
			val, _ := normalize(p, p.Default)
			if raw, ok := objects.Property(o.Name, p.Name); ok {
				if n, ok := normalize(p, raw); ok {
					val = n
				}
			}
			props[p.Name] = val
		}
		v.values[o.Name] = props
	}
	return v
}

// Defaults returns the settings with no user objects applied.
func Defaults(schema *Schema) Values { return Parse(schema, nil) }

// Schema returns the schema the values were parsed against.
func (v Values) Schema() *Schema { return v.schema }

// Enumerate returns a copy of the effective values of object, or nil when
// the schema has no such object.
func (v Values) Enumerate(object string) map[string]any {
	props, ok := v.values[object]
	if !ok {
		return nil
	}
	return maps.Clone(props)
}

// Objects returns every object's effective values as a data view bag.
func (v Values) Objects() dataview.Objects {
	out := make(dataview.Objects, len(v.values))
	for name, props := range v.values {
		out[name] = maps.Clone(props)
	}
	return out
}

// Equal reports whether both value sets hold the same effective settings.
func (v Values) Equal(o Values) bool {
	if len(v.values) != len(o.values) {
		return false
	}
	for name, props := range v.values {
		other, ok := o.values[name]
		if !ok || !maps.Equal(props, other) {
			return false
		}
	}
	return true
}

func (v Values) get(object, property string) any {
	return v.values[object][property]
}

// Bool returns a bool property (false when absent).
func (v Values) Bool(object, property string) bool {
	b, _ := v.get(object, property).(bool)
	return b
}

// Number returns a numeric property (0 when absent).
func (v Values) Number(object, property string) float64 {
	switch x := v.get(object, property).(type) {
	case float64:
		return x
	case int:
		return float64(x)
	}
	return 0
}

// Int returns an integer property (0 when absent).
func (v Values) Int(object, property string) int {
	switch x := v.get(object, property).(type) {
	case int:
		return x
	case float64:
		return int(x)
	}
	return 0
}

// String returns a text, color or enum property ("" when absent).
func (v Values) String(object, property string) string {
	s, _ := v.get(object, property).(string)
	return s
}

func normalize(p Property, raw any) (any, bool) {
	switch p.Kind {
	case KindBool:
		b, ok := raw.(bool)
		return b, ok
	case KindNumber:
		f, ok := dataview.Number(raw)
		if !ok {
			return nil, false
		}
		return clamp(p, f), true
	case KindInt:
		f, ok := dataview.Number(raw)
		if !ok {
			return nil, false
		}
		return int(clamp(p, math.Round(f))), true
	case KindColor:
		c, ok := color.Normalize(ColorValue(raw))
		return c, ok
	case KindText:
		s, ok := raw.(string)
		return s, ok
	case KindEnum:
		s, ok := raw.(string)
		if !ok {
			return nil, false
		}
		for _, opt := range p.Options {
			if opt == s {
				return s, true
			}
		}
		return nil, false
	}
	return nil, false
}

func clamp(p Property, f float64) float64 {
	if !p.Bounded() {
		return f
	}
	return max(p.Min, min(p.Max, f))
}

// ColorValue accepts both a plain hex string and the host's fill shape
// {"solid": {"color": "#rrggbb"}}.
func ColorValue(raw any) string {
	switch x := raw.(type) {
	case string:
		return x
	case map[string]any:
		if solid, ok := x["solid"].(map[string]any); ok {
			s, _ := solid["color"].(string)
			return s
		}
	}
	return ""
}
