package histogram

import (
	"testing"

	"github.com/matzehuels/chartpack/pkg/dataview"
	"github.com/matzehuels/chartpack/pkg/errors"
	"github.com/matzehuels/chartpack/pkg/visual"
	"github.com/matzehuels/chartpack/pkg/visual/visualtest"
)

func samples() *dataview.DataView {
	return dataview.NewBuilder().
		Category("Score", 1.0, 2.0, 2.0, 3.0, 3.0, 3.0).
		Measure("Count", 1.0, 1.0, 1.0, 1.0, 1.0, 1.0).
		Build()
}

func TestHistogramFrequencies(t *testing.T) {
	tests := []struct {
		name string
		dv   *dataview.DataView
	}{
		{"category values", samples()},
		{"measure rows", dataview.NewBuilder().Measure("Score", 1.0, 2.0, 2.0, 3.0, 3.0, 3.0).Build()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := visualtest.New(t, New(), visual.InitOptions{})
			h.Update(tt.dv, true)

			hist := h.Visual.(*Histogram)
			total := 0.0
			for _, b := range hist.Bins() {
				total += b.Frequency
			}
			if total != 6 {
				t.Errorf("total frequency = %v, want 6", total)
			}
			cols := h.Shapes(visual.ClassColumn)
			if len(cols) != len(hist.Bins()) {
				t.Fatalf("columns = %d, bins = %d", len(cols), len(hist.Bins()))
			}
			for _, c := range cols {
				if c.Attrs.Height < 0 || c.Attrs.Y+c.Attrs.Height > visualtest.Viewport.Height {
					t.Errorf("%s: y=%v height=%v", c.Key, c.Attrs.Y, c.Attrs.Height)
				}
			}
		})
	}
}

func TestHistogramWeightedTallest(t *testing.T) {
	h := visualtest.New(t, New(), visual.InitOptions{})
	dv := dataview.NewBuilder().
		Category("Score", 1.0, 2.0).
		Measure("Count", 1.0, 3.0).
		Object(ObjectGeneral, PropBins, 2.0).
		Build()
	h.Update(dv, true)

	low, _ := h.Shape("bin:0")
	high, _ := h.Shape("bin:1")
	if high.Attrs.Height <= low.Attrs.Height {
		t.Errorf("weighted bin should be taller: %v vs %v", high.Attrs.Height, low.Attrs.Height)
	}
	if len(h.Visual.(*Histogram).Bins()) != 2 {
		t.Errorf("bins = %d, want 2", len(h.Visual.(*Histogram).Bins()))
	}
}

func TestHistogramEmptyBinSliver(t *testing.T) {
	h := visualtest.New(t, New(), visual.InitOptions{})
	dv := dataview.NewBuilder().
		Category("Score", 0.0, 10.0).
		Measure("Count", 1.0, 1.0).
		Object(ObjectGeneral, PropBins, 5.0).
		Build()
	h.Update(dv, true)

	mid, ok := h.Shape("bin:2")
	if !ok {
		t.Fatal("missing empty bin")
	}
	if mid.Attrs.Height != minColumn {
		t.Errorf("empty bin height = %v, want sliver %v", mid.Attrs.Height, minColumn)
	}
}

func TestHistogramSkipsNonNumeric(t *testing.T) {
	h := visualtest.New(t, New(), visual.InitOptions{})
	dv := dataview.NewBuilder().
		Category("Score", 1.0, "n/a", 3.0).
		Measure("Count", 1.0, 1.0, 1.0).
		Build()
	h.Update(dv, true)

	if !h.HasWarning(errors.ErrCodeInvalidData) {
		t.Error("expected an invalid data warning")
	}
	total := h.Report(t).Aggregates.Total
	if total != 2 {
		t.Errorf("total = %v, want 2", total)
	}
}

func TestHistogramAxis(t *testing.T) {
	h := visualtest.New(t, New(), visual.InitOptions{})
	h.Update(samples(), true)
	if _, ok := h.Shape(KeyAxis); !ok {
		t.Error("missing x axis")
	}
	if len(h.Shapes(visual.ClassTick)) == 0 {
		t.Error("missing ticks")
	}

	dv := samples()
	dv.Metadata.Objects = dataview.Objects{ObjectXAxis: {"show": false}}
	h.Update(dv, true)
	if _, ok := h.Shape(KeyAxis); ok {
		t.Error("axis should be hidden")
	}
}

func TestHistogramSelection(t *testing.T) {
	h := visualtest.New(t, New(), visual.InitOptions{})
	h.Update(samples(), true)
	hist := h.Visual.(*Histogram)
	hist.Click("bin:0", false)
	h.Settle()

	first, _ := h.Shape("bin:0")
	last, _ := h.Shape("bin:3")
	if first.Attrs.Opacity != 1 || last.Attrs.Opacity >= 1 {
		t.Errorf("opacities selected=%v other=%v", first.Attrs.Opacity, last.Attrs.Opacity)
	}
}
