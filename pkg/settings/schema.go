// Package settings parses per-visual configuration from data view objects.
//
// Each visual declares an immutable [Schema]: a table of objects, each a
// table of typed properties with named defaults and numeric bounds. [Parse]
// always rebuilds a full [Values] set from the defaults, so there is never a
// stale field left over from a previous update. [Values.Enumerate] returns the
// effective values of one object for the host's property pane; feeding that
// bag back through Parse reproduces the same values.
package settings

import "fmt"

// Kind is the type of a property.
type Kind int

const (
	KindBool Kind = iota
	KindNumber
	KindInt
	KindColor
	KindText
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindInt:
		return "int"
	case KindColor:
		return "color"
	case KindText:
		return "text"
	case KindEnum:
		return "enum"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Property describes one configurable value.
type Property struct {
	Name    string
	Kind    Kind
	Default any
	// Min and Max bound numeric properties when Min < Max.
	Min, Max float64
	// Options lists the accepted values of an enum property.
	Options []string
}

// Bounded reports whether the property carries a numeric range.
func (p Property) Bounded() bool { return p.Min < p.Max }

// Object is a named group of properties, e.g. "labels" or "legend".
type Object struct {
	Name       string
	Properties []Property
}

// Property looks up a property by name.
func (o Object) Property(name string) (Property, bool) {
	for _, p := range o.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// Schema is an immutable set of objects. Build it once at package init.
type Schema struct {
	objects []Object
	index   map[string]int
}

// NewSchema builds a schema. It panics on duplicate object names or on a
// default that does not match its property kind, since schemas are static.
func NewSchema(objects ...Object) *Schema {
	s := &Schema{index: make(map[string]int, len(objects))}
	for _, o := range objects {
		if _, dup := s.index[o.Name]; dup {
			panic("settings: duplicate object " + o.Name)
		}
		for _, p := range o.Properties {
			if _, ok := normalize(p, p.Default); !ok {
				panic(fmt.Sprintf("settings: invalid default for %s.%s", o.Name, p.Name))
			}
		}
		s.index[o.Name] = len(s.objects)
		s.objects = append(s.objects, o)
	}
	return s
}

// Object looks up an object by name.
func (s *Schema) Object(name string) (Object, bool) {
	if s == nil {
		return Object{}, false
	}
	i, ok := s.index[name]
	if !ok {
		return Object{}, false
	}
	return s.objects[i], true
}

// Names returns the object names in declaration order.
func (s *Schema) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.objects))
	for i, o := range s.objects {
		names[i] = o.Name
	}
	return names
}
