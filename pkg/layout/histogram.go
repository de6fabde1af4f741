package layout

import (
	"math"

	"github.com/aclements/go-moremath/stats"
	"github.com/aclements/go-moremath/vec"
)

// Bin is one histogram bucket covering [Lo, Hi). The last bin includes Hi.
type Bin struct {
	Lo, Hi    float64
	Frequency float64
}

// Sturges returns the default bin count for n samples.
func Sturges(n int) int {
	if n <= 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(n)))) + 1
}

// Histogram buckets values into equally wide bins between their bounds.
// weights gives each value's frequency (1 when nil or shorter than values).
// bins <= 0 selects Sturges' rule. Non-finite values and weights are skipped.
func Histogram(values, weights []float64, bins int) []Bin {
	var xs, ws []float64
	for i, v := range values {
		w := 1.0
		if i < len(weights) {
			w = weights[i]
		}
		if math.IsNaN(v) || math.IsInf(v, 0) || math.IsNaN(w) || math.IsInf(w, 0) {
			continue
		}
		xs = append(xs, v)
		ws = append(ws, w)
	}
	if len(xs) == 0 {
		return nil
	}
	if bins <= 0 {
		bins = Sturges(len(xs))
	}

	lo, hi := stats.Bounds(xs)
	if lo == hi {
		total := 0.0
		for _, w := range ws {
			total += w
		}
		return []Bin{{Lo: lo, Hi: hi, Frequency: total}}
	}

	edges := vec.Linspace(lo, hi, bins+1)
	out := make([]Bin, bins)
	for i := range out {
		out[i] = Bin{Lo: edges[i], Hi: edges[i+1]}
	}
	width := (hi - lo) / float64(bins)
	for i, x := range xs {
		b := int((x - lo) / width)
		b = max(0, min(bins-1, b))
		out[b].Frequency += ws[i]
	}
	return out
}
