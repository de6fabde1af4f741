package layout

import (
	"math"
	"testing"
)

func TestSturges(t *testing.T) {
	tests := []struct{ n, want int }{{0, 1}, {1, 1}, {2, 2}, {6, 4}, {100, 8}}
	for _, tt := range tests {
		if got := Sturges(tt.n); got != tt.want {
			t.Errorf("Sturges(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestHistogramDefaultBins(t *testing.T) {
	bins := Histogram([]float64{1, 2, 2, 3, 3, 3}, nil, 0)
	if len(bins) != 4 {
		t.Fatalf("got %d bins, want 4", len(bins))
	}
	total := 0.0
	for _, b := range bins {
		if b.Frequency < 0 {
			t.Errorf("negative frequency in %+v", b)
		}
		total += b.Frequency
	}
	if total != 6 {
		t.Errorf("total frequency = %v, want 6", total)
	}
	if bins[0].Lo != 1 || bins[3].Hi != 3 {
		t.Errorf("bounds = [%v, %v], want [1, 3]", bins[0].Lo, bins[3].Hi)
	}
	want := []float64{1, 0, 2, 3}
	for i, b := range bins {
		if b.Frequency != want[i] {
			t.Errorf("bin %d frequency = %v, want %v", i, b.Frequency, want[i])
		}
	}
}

func TestHistogramWeights(t *testing.T) {
	bins := Histogram([]float64{0, 10}, []float64{3, 5}, 2)
	if len(bins) != 2 || bins[0].Frequency != 3 || bins[1].Frequency != 5 {
		t.Errorf("bins = %+v", bins)
	}
}

func TestHistogramDegenerate(t *testing.T) {
	bins := Histogram([]float64{4, 4, 4}, nil, 5)
	if len(bins) != 1 || bins[0].Frequency != 3 {
		t.Errorf("bins = %+v, want one bin of 3", bins)
	}
}

func TestHistogramSkipsNonFinite(t *testing.T) {
	bins := Histogram([]float64{math.NaN(), 1, math.Inf(1), 2}, nil, 1)
	if len(bins) != 1 || bins[0].Frequency != 2 {
		t.Errorf("bins = %+v", bins)
	}
	if Histogram(nil, nil, 0) != nil {
		t.Error("empty input should return nil")
	}
}
