// Package visualtest provides helpers for testing visual plugins.
package visualtest

import (
	"testing"
	"time"

	"github.com/matzehuels/chartpack/pkg/chart"
	"github.com/matzehuels/chartpack/pkg/dataview"
	"github.com/matzehuels/chartpack/pkg/errors"
	"github.com/matzehuels/chartpack/pkg/render"
	"github.com/matzehuels/chartpack/pkg/visual"
)

// Epoch is the start time of the manual clock.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Viewport is the default test viewport.
var Viewport = chart.Viewport{Width: 400, Height: 300}

// Harness wires a visual to a recording host, an SVG surface and a manual
// clock.
type Harness struct {
	Visual  visual.Visual
	Host    *visual.Recorder
	Surface *render.SVGSurface
	Clock   *render.ManualClock
}

// New initializes v. Options in opts override the defaults.
func New(t *testing.T, v visual.Visual, opts visual.InitOptions) *Harness {
	t.Helper()
	h := &Harness{Visual: v, Host: &visual.Recorder{}, Surface: render.NewSVGSurface(), Clock: render.NewManualClock(Epoch)}
	if opts.Host == nil {
		opts.Host = h.Host
	} else if r, ok := opts.Host.(*visual.Recorder); ok {
		h.Host = r
	}
	opts.Surface = h.Surface
	opts.Clock = h.Clock
	if opts.Viewport.Empty() {
		opts.Viewport = Viewport
	}
	v.Init(opts)
	t.Cleanup(v.Destroy)
	return h
}

// Update runs an update with dv in the default viewport.
func (h *Harness) Update(dv *dataview.DataView, suppress bool) {
	opts := visual.UpdateOptions{Viewport: Viewport, SuppressAnimations: suppress}
	if dv != nil {
		opts.DataViews = []*dataview.DataView{dv}
	}
	h.Visual.Update(opts)
}

// Settle advances the clock past every transition and renders the final
// frame.
func (h *Harness) Settle() {
	h.Clock.Advance(time.Second)
	if a, ok := h.Visual.(visual.Animator); ok {
		_, _ = a.Frame()
	}
}

// Report returns the visual's last report.
func (h *Harness) Report(t *testing.T) visual.Report {
	t.Helper()
	r, ok := h.Visual.(visual.Reporter)
	if !ok {
		t.Fatalf("%T does not report", h.Visual)
	}
	return r.Report()
}

// Shapes returns the shapes on screen with the given class.
func (h *Harness) Shapes(class string) []render.Shape {
	s, ok := h.Visual.(interface{ Shapes() []render.Shape })
	if !ok {
		return nil
	}
	var out []render.Shape
	for _, sh := range s.Shapes() {
		if sh.Class == class {
			out = append(out, sh)
		}
	}
	return out
}

// Shape returns the shape with key.
func (h *Harness) Shape(key string) (render.Shape, bool) {
	s, ok := h.Visual.(interface{ Shapes() []render.Shape })
	if !ok {
		return render.Shape{}, false
	}
	for _, sh := range s.Shapes() {
		if sh.Key == key {
			return sh, true
		}
	}
	return render.Shape{}, false
}

// SVG returns the last frame drawn to the surface.
func (h *Harness) SVG() string { return string(h.Surface.Bytes()) }

// HasWarning reports whether the host received a warning with code.
func (h *Harness) HasWarning(code errors.Code) bool {
	for _, w := range h.Host.Warnings() {
		if w.Code == code {
			return true
		}
	}
	return false
}
