package format

import (
	"math"
	"testing"
)

func TestApproxMeasurer(t *testing.T) {
	tests := []struct {
		text     string
		fontSize float64
		w, h     float64
	}{
		{"abcd", 10, 22, 12},
		{"", 12, 0, 14.4},
		{"Süd", 20, 33, 24},
	}
	for _, tt := range tests {
		w, h := ApproxMeasurer{}.Measure(tt.text, tt.fontSize)
		if math.Abs(w-tt.w) > 1e-9 || math.Abs(h-tt.h) > 1e-9 {
			t.Errorf("Measure(%q, %v) = %v, %v; want %v, %v", tt.text, tt.fontSize, w, h, tt.w, tt.h)
		}
	}
}

func TestTruncate(t *testing.T) {
	m := ApproxMeasurer{}
	tests := []struct {
		name     string
		text     string
		maxWidth float64
		want     string
	}{
		{"fits", "hello", 100, "hello"},
		// 10pt font: 5.5 per rune. 4 runes (3 + ellipsis) = 22.
		{"truncated", "hello world", 22, "hel…"},
		{"nothing fits", "hello", 5, ""},
		{"exact fit", "abc", 16.5, "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.text, tt.maxWidth, 10, m)
			if got != tt.want {
				t.Errorf("Truncate(%q, %v) = %q, want %q", tt.text, tt.maxWidth, got, tt.want)
			}
			if w, _ := m.Measure(got, 10); w > tt.maxWidth {
				t.Errorf("result %q is %v wide, exceeds %v", got, w, tt.maxWidth)
			}
		})
	}
}
