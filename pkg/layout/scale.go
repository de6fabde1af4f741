package layout

import (
	"math"

	"github.com/aclements/go-moremath/scale"
)

// LinearScale maps a value domain onto a pixel range.
type LinearScale struct {
	lin      scale.Linear
	r0, r1   float64
	clip     bool
	hasForce bool
}

// NewLinearScale returns a scale from [min, max] onto [r0, r1].
// Non-finite bounds are treated as 0.
func NewLinearScale(min, max, r0, r1 float64) *LinearScale {
	min, max = finiteOr(min, 0), finiteOr(max, 0)
	if min > max {
		min, max = max, min
	}
	return &LinearScale{
		lin: scale.Linear{Min: min, Max: max},
		r0:  r0,
		r1:  r1,
	}
}

// Force overrides the domain start and/or end; pass NaN to keep a bound.
// Values outside a forced domain are clipped to the range.
func (s *LinearScale) Force(start, end float64) *LinearScale {
	if !math.IsNaN(start) && !math.IsInf(start, 0) {
		s.lin.Min = start
		s.hasForce = true
	}
	if !math.IsNaN(end) && !math.IsInf(end, 0) {
		s.lin.Max = end
		s.hasForce = true
	}
	if s.lin.Min > s.lin.Max {
		s.lin.Min, s.lin.Max = s.lin.Max, s.lin.Min
	}
	s.clip = s.hasForce
	return s
}

// Domain returns the effective domain.
func (s *LinearScale) Domain() (min, max float64) { return s.lin.Min, s.lin.Max }

// Range returns the pixel range.
func (s *LinearScale) Range() (r0, r1 float64) { return s.r0, s.r1 }

// Degenerate reports whether the domain is a single value.
func (s *LinearScale) Degenerate() bool { return s.lin.Min == s.lin.Max }

// Scale maps v into the range. A degenerate domain maps every value to the
// end of the range.
func (s *LinearScale) Scale(v float64) float64 {
	if s.Degenerate() {
		return s.r1
	}
	out := s.r0 + s.lin.Map(finiteOr(v, 0))*(s.r1-s.r0)
	if s.clip {
		lo, hi := math.Min(s.r0, s.r1), math.Max(s.r0, s.r1)
		out = math.Max(lo, math.Min(hi, out))
	}
	return out
}

// Length maps v to a distance from the range start, for bars growing out of
// the domain origin.
func (s *LinearScale) Length(v float64) float64 {
	return math.Abs(s.Scale(v) - s.r0)
}

// Clipped reports whether v lies outside a forced domain.
func (s *LinearScale) Clipped(v float64) bool {
	return s.clip && (v < s.lin.Min || v > s.lin.Max)
}

// Ticks returns at most n nicely spaced tick values within the domain.
func (s *LinearScale) Ticks(n int) []float64 {
	if s.Degenerate() || n < 1 {
		return []float64{s.lin.Min}
	}
	major, _ := s.lin.Ticks(scale.TickOptions{Max: n})
	return major
}

func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}
