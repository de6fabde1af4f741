package donut

import (
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/chartpack/pkg/chart"
	"github.com/matzehuels/chartpack/pkg/dataview"
	"github.com/matzehuels/chartpack/pkg/settings"
	"github.com/matzehuels/chartpack/pkg/visual"
	"github.com/matzehuels/chartpack/pkg/visual/visualtest"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func sales(regions ...string) *dataview.DataView {
	cats := make([]any, len(regions))
	vals := make([]any, len(regions))
	for i, r := range regions {
		cats[i] = r
		vals[i] = float64(10 * (i + 1))
	}
	return dataview.NewBuilder().Category("Region", cats...).Measure("Sales", vals...).Build()
}

func TestDonutRendersSlices(t *testing.T) {
	h := visualtest.New(t, New(), visual.InitOptions{})
	h.Update(sales("North", "South", "East"), true)

	rep := h.Report(t)
	if len(rep.Points) != 3 {
		t.Fatalf("points = %d, want 3", len(rep.Points))
	}
	sum := 0.0
	for _, p := range rep.Points {
		sum += p.Percentage
	}
	if !approx(sum, 1) {
		t.Errorf("percentages sum to %v", sum)
	}

	slices := h.Shapes(visual.ClassSlice)
	if len(slices) != 3 {
		t.Fatalf("slices = %d, want 3", len(slices))
	}
	span := 0.0
	for _, s := range slices {
		span += s.Attrs.EndAngle - s.Attrs.StartAngle
		if !approx(s.Attrs.InnerRadius, s.Attrs.OuterRadius*0.6) {
			t.Errorf("%s: inner %v outer %v", s.Key, s.Attrs.InnerRadius, s.Attrs.OuterRadius)
		}
	}
	if !approx(span, 2*math.Pi) {
		t.Errorf("total span = %v, want 2π", span)
	}
	if rep.Labels == 0 || len(h.Shapes(visual.ClassLabel)) != rep.Labels {
		t.Errorf("labels = %d, label shapes = %d", rep.Labels, len(h.Shapes(visual.ClassLabel)))
	}
	if !strings.Contains(h.SVG(), "<path") {
		t.Error("svg has no arcs")
	}
}

func TestDonutDuplicateCategories(t *testing.T) {
	h := visualtest.New(t, New(), visual.InitOptions{})
	h.Update(sales("North", "North", "South"), true)

	slices := h.Shapes(visual.ClassSlice)
	if len(slices) != 3 {
		t.Fatalf("slices = %d, want 3", len(slices))
	}
	span := 0.0
	for _, s := range slices {
		span += s.Attrs.EndAngle - s.Attrs.StartAngle
	}
	if !approx(span, 2*math.Pi) {
		t.Errorf("total span = %v, want 2π", span)
	}
}

func TestDonutInnerRadiusSetting(t *testing.T) {
	h := visualtest.New(t, New(), visual.InitOptions{})
	dv := sales("North", "South")
	dv.Metadata.Objects = dataview.Objects{ObjectDonut: {PropInnerRadius: 0.3}}
	h.Update(dv, true)
	for _, s := range h.Shapes(visual.ClassSlice) {
		if !approx(s.Attrs.InnerRadius, s.Attrs.OuterRadius*0.3) {
			t.Errorf("%s: inner %v outer %v", s.Key, s.Attrs.InnerRadius, s.Attrs.OuterRadius)
		}
	}
	inst := h.Visual.EnumerateObjectInstances(ObjectDonut)
	if len(inst) != 1 || inst[0].Properties[PropInnerRadius] != 0.3 {
		t.Errorf("EnumerateObjectInstances = %+v", inst)
	}
}

func TestDonutHiddenLabels(t *testing.T) {
	h := visualtest.New(t, New(), visual.InitOptions{})
	dv := sales("North", "South")
	dv.Metadata.Objects = dataview.Objects{settings.ObjectLabels: {settings.PropShow: false}}
	h.Update(dv, true)
	if n := len(h.Shapes(visual.ClassLabel)); n != 0 {
		t.Errorf("label shapes = %d, want 0", n)
	}
}

func TestDonutRemovedSliceCollapses(t *testing.T) {
	h := visualtest.New(t, New(), visual.InitOptions{})
	h.Update(sales("North", "South", "East"), true)
	h.Update(sales("North", "South"), false)
	h.Settle()

	gone, ok := h.Shape("Region=East")
	if !ok {
		t.Fatal("removed slice should collapse in place")
	}
	if !approx(gone.Attrs.StartAngle, gone.Attrs.EndAngle) {
		t.Errorf("collapsed span = %v", gone.Attrs.EndAngle-gone.Attrs.StartAngle)
	}
	if len(h.Report(t).Points) != 2 {
		t.Errorf("points = %d, want 2", len(h.Report(t).Points))
	}

	h.Update(sales("North", "South"), true)
	if _, ok := h.Shape("Region=East"); ok {
		t.Error("placeholder should exit on the next update")
	}
}

func TestDonutEmptyDataClears(t *testing.T) {
	h := visualtest.New(t, New(), visual.InitOptions{})
	h.Update(sales("North", "South"), true)
	h.Update(nil, true)
	if n := len(h.Shapes(visual.ClassSlice)); n != 0 {
		t.Errorf("slices after empty update = %d", n)
	}
	if len(h.Report(t).Points) != 0 {
		t.Error("report should be reset")
	}
}

func TestDonutHighlights(t *testing.T) {
	h := visualtest.New(t, New(), visual.InitOptions{})
	dv := dataview.NewBuilder().
		Category("Region", "North", "South").
		Measure("Sales", 10.0, 30.0).Highlights(5.0, 0.0).
		Build()
	h.Update(dv, true)

	hl := h.Shapes(visual.ClassHighlight)
	if len(hl) != 2 {
		t.Fatalf("highlight arcs = %d, want 2", len(hl))
	}
	for _, s := range h.Shapes(visual.ClassSlice) {
		if s.Attrs.Opacity >= 1 {
			t.Errorf("%s: base arc should be dimmed, opacity %v", s.Key, s.Attrs.Opacity)
		}
	}
	north, _ := h.Shape("Region=North#highlight")
	base, _ := h.Shape("Region=North")
	half := base.Attrs.InnerRadius + (base.Attrs.OuterRadius-base.Attrs.InnerRadius)*0.5
	if !approx(north.Attrs.OuterRadius, half) {
		t.Errorf("highlight outer radius = %v, want %v", north.Attrs.OuterRadius, half)
	}
}

func TestDonutSelection(t *testing.T) {
	h := visualtest.New(t, New(), visual.InitOptions{})
	h.Update(sales("North", "South"), true)

	d := h.Visual.(*Donut)
	d.Click("Region=North", false)
	h.Settle()
	north, _ := h.Shape("Region=North")
	south, _ := h.Shape("Region=South")
	if north.Attrs.Opacity != 1 || south.Attrs.Opacity >= 1 {
		t.Errorf("opacities north=%v south=%v", north.Attrs.Opacity, south.Attrs.Opacity)
	}

	d.OnClearSelection()
	h.Settle()
	south, _ = h.Shape("Region=South")
	if south.Attrs.Opacity != 1 {
		t.Errorf("south opacity after clear = %v", south.Attrs.Opacity)
	}
}

func TestDonutInteractiveLegend(t *testing.T) {
	h := visualtest.New(t, New(), visual.InitOptions{Interactive: true})
	h.Update(sales("North", "South", "East", "West"), true)
	d := h.Visual.(*Donut)

	if len(h.Shapes(visual.ClassLabel)) != 0 {
		t.Error("interactive mode draws no outside labels")
	}
	if _, ok := h.Shape("center:category"); !ok {
		t.Error("missing center label")
	}

	d.SelectIndex(2)
	if !d.Animating() {
		t.Error("rotation should animate")
	}
	h.Settle()
	if d.Focused() != 2 {
		t.Errorf("focused = %d, want 2", d.Focused())
	}
	east, _ := h.Shape("Region=East")
	if mid := (east.Attrs.StartAngle + east.Attrs.EndAngle) / 2; !approx(math.Mod(mid+2*math.Pi, 2*math.Pi), math.Pi) {
		t.Errorf("focused slice mid angle = %v, want π", mid)
	}
	center, _ := h.Shape("center:category")
	if center.Attrs.Text != "East" {
		t.Errorf("center text = %q", center.Attrs.Text)
	}

	d.Click("Region=North", false)
	h.Settle()
	if d.Focused() != 0 {
		t.Errorf("focused after click = %d, want 0", d.Focused())
	}
	if svc := d.Service(); !svc.Selection().Empty() {
		t.Error("interactive clicks rotate instead of selecting")
	}
}

func TestDonutDragSuppressesClick(t *testing.T) {
	h := visualtest.New(t, New(), visual.InitOptions{Interactive: true})
	h.Update(sales("North", "South"), true)
	d := h.Visual.(*Donut)

	c := visualtest.Viewport.Bounds().Center()
	d.DragStart(chart.Point{X: c.X, Y: c.Y - 50})
	d.DragMove(chart.Point{X: c.X + 50, Y: c.Y})
	if d.Rotation() == 0 {
		t.Error("drag should rotate")
	}
	d.DragEnd()
	before := d.Focused()
	d.Click("Region=South", false)
	h.Settle()
	if d.Focused() != before {
		t.Error("the click ending a drag must be ignored")
	}
}

func TestDonutLifecycle(t *testing.T) {
	d := New()
	h := visualtest.New(t, d, visual.InitOptions{})
	d.Init(visual.InitOptions{Interactive: true})
	if d.(*Donut).Interactive() {
		t.Error("second Init must be ignored")
	}
	d.Destroy()
	h.Update(sales("North"), true)
	if len(h.Report(t).Points) != 0 {
		t.Error("update after Destroy must do nothing")
	}
	d.Destroy()
}

func TestRegistered(t *testing.T) {
	info, ok := visual.Default.Lookup(Name)
	if !ok {
		t.Fatal("donut not registered")
	}
	if _, ok := info.Factory().(*Donut); !ok {
		t.Errorf("factory returned %T", info.Factory())
	}
}
