// Package color assigns stable display colors to categories and series.
//
// A [Resolver] hands out palette entries in first-use order, so the same key
// always maps to the same color for the lifetime of a visual instance.
// User overrides from data view objects take precedence over the palette.
package color

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette is an ordered list of hex colors.
type Palette []string

// DefaultPalette is used when the host does not supply one.
var DefaultPalette = Palette{
	"#01B8AA", "#374649", "#FD625E", "#F2C80F", "#5F6B6D",
	"#8AD4EB", "#FE9666", "#A66999", "#3599B8", "#DFBFBF",
}

// At returns the color at index i, wrapping around the palette.
func (p Palette) At(i int) string {
	if len(p) == 0 {
		return DefaultPalette.At(i)
	}
	if i < 0 {
		i = -i
	}
	return p[i%len(p)]
}

// Resolver maps keys to colors. It is owned by a single visual instance and
// is not safe for concurrent use.
type Resolver struct {
	palette  Palette
	assigned map[string]string
	next     int
}

// NewResolver returns a resolver over palette (DefaultPalette when empty).
func NewResolver(palette Palette) *Resolver {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	return &Resolver{palette: palette, assigned: make(map[string]string)}
}

// Palette returns the resolver's palette.
func (r *Resolver) Palette() Palette { return r.palette }

// Color returns the color for key. A valid override wins and is remembered;
// an invalid override is ignored.
func (r *Resolver) Color(key, override string) string {
	if c, ok := Normalize(override); ok {
		r.assigned[key] = c
		return c
	}
	if c, ok := r.assigned[key]; ok {
		return c
	}
	c := r.palette.At(r.next)
	r.next++
	r.assigned[key] = c
	return c
}

// Reset forgets every assignment.
func (r *Resolver) Reset() {
	clear(r.assigned)
	r.next = 0
}

// Normalize validates a hex color and returns it lowercased with a leading '#'.
func Normalize(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return "", false
	}
	return c.Hex(), true
}

// Blend interpolates between two hex colors in Lab space. Invalid inputs
// fall back to the other endpoint.
func Blend(a, b string, t float64) string {
	ca, errA := colorful.Hex(a)
	cb, errB := colorful.Hex(b)
	switch {
	case errA != nil && errB != nil:
		return b
	case errA != nil:
		return cb.Hex()
	case errB != nil:
		return ca.Hex()
	}
	t = max(0, min(1, t))
	return ca.BlendLab(cb, t).Clamped().Hex()
}

// Dim lightens a color toward white by amount in [0,1].
func Dim(c string, amount float64) string {
	return Blend(c, "#ffffff", amount)
}
