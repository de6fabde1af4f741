package interactivity

import "math"

// DefaultSwipeThreshold is the swipe distance in pixels of one index step.
const DefaultSwipeThreshold = 50.0

// Swipe converts horizontal drags on the interactive legend into index
// steps. Positive dx advances to the next index.
type Swipe struct {
	Threshold float64
}

func (s Swipe) threshold() float64 {
	if s.Threshold <= 0 {
		return DefaultSwipeThreshold
	}
	return s.Threshold
}

// Steps returns the whole number of threshold units covered by dx, signed
// by direction. Drags shorter than one unit produce no step.
func (s Swipe) Steps(dx float64) int {
	if math.IsNaN(dx) || math.IsInf(dx, 0) {
		return 0
	}
	n := int(math.Abs(dx) / s.threshold())
	if dx < 0 {
		return -n
	}
	return n
}

// Next returns the index reached from current after dx, clamped to
// [0, count-1].
func (s Swipe) Next(current, count int, dx float64) int {
	if count <= 0 {
		return 0
	}
	return max(0, min(count-1, current+s.Steps(dx)))
}
