package interactivity

import (
	"testing"

	"github.com/matzehuels/chartpack/pkg/chart"
	"github.com/matzehuels/chartpack/pkg/dataview"
)

type fakeHost struct {
	selected []dataview.Identity
	clears   int
}

func (h *fakeHost) Select(ids []dataview.Identity, multi bool) { h.selected = ids }
func (h *fakeHost) Clear()                                     { h.selected = nil; h.clears++ }

func newTestService(t *testing.T) (*Service, *fakeHost, []chart.DataPoint) {
	t.Helper()
	host := &fakeHost{}
	svc, err := NewService(host, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	points := []chart.DataPoint{{Identity: "a"}, {Identity: "b"}, {Identity: "c"}}
	legend := []chart.LegendDataPoint{{Identity: "a"}, {Identity: "b"}, {Identity: "c"}}
	svc.Bind(points, legend, false)
	return svc, host, points
}

func TestServiceClickTwiceClears(t *testing.T) {
	svc, host, points := newTestService(t)

	svc.Click("b", false)
	if svc.State() != StateSelected {
		t.Errorf("state = %v, want selected", svc.State())
	}
	if len(host.selected) != 1 || host.selected[0] != "b" {
		t.Errorf("host selection = %v", host.selected)
	}
	if points[0].Opacity != DimmedOpacity || points[1].Opacity != FullOpacity {
		t.Errorf("opacity after select = %v, %v", points[0].Opacity, points[1].Opacity)
	}

	svc.Click("b", false)
	if !svc.Selection().Empty() {
		t.Errorf("selection = %v, want empty", svc.Selection().IDs())
	}
	if host.clears != 1 {
		t.Errorf("host clears = %d, want 1", host.clears)
	}
	for _, p := range points {
		if p.Opacity != FullOpacity || p.Selected {
			t.Errorf("%s = %+v, want full opacity", p.Identity, p)
		}
	}
	if svc.State() != StateIdle {
		t.Errorf("state = %v, want idle", svc.State())
	}
}

func TestServiceMultiAndBackground(t *testing.T) {
	svc, host, _ := newTestService(t)
	svc.Click("a", true)
	svc.Click("c", true)
	if svc.Selection().Len() != 2 {
		t.Fatalf("selection = %v", svc.Selection().IDs())
	}
	svc.ClearBackground()
	if !svc.Selection().Empty() || host.clears != 1 {
		t.Errorf("background click should clear: %v, clears=%d", svc.Selection().IDs(), host.clears)
	}
	svc.ClearBackground()
	if host.clears != 1 {
		t.Error("clearing an empty selection should not notify the host")
	}
}

func TestServiceHover(t *testing.T) {
	svc, _, _ := newTestService(t)
	svc.Hover("a")
	if svc.State() != StateHovering || svc.Hovered() != "a" {
		t.Errorf("state = %v hovered = %v", svc.State(), svc.Hovered())
	}
	svc.Click("a", false)
	if svc.State() != StateSelected {
		t.Errorf("state = %v, want selected", svc.State())
	}
	svc.Leave()
	svc.Reset()
	if svc.State() != StateIdle {
		t.Errorf("state = %v, want idle", svc.State())
	}
}

func TestServiceBindDropsStaleIdentities(t *testing.T) {
	svc, _, _ := newTestService(t)
	svc.Click("c", false)
	svc.Bind([]chart.DataPoint{{Identity: "a"}}, nil, false)
	if !svc.Selection().Empty() {
		t.Errorf("stale identity kept: %v", svc.Selection().IDs())
	}
}

func TestNilService(t *testing.T) {
	var svc *Service
	svc.Click("a", false)
	svc.ClearBackground()
	svc.Hover("a")
	svc.Leave()
	svc.Bind(nil, nil, false)
	svc.Close()
	if svc.State() != StateIdle || svc.Selection() != nil {
		t.Error("nil service should report idle and no selection")
	}
	points := []chart.DataPoint{{Identity: "a"}}
	svc.Apply(points, false)
	if points[0].Opacity != FullOpacity {
		t.Errorf("opacity = %v", points[0].Opacity)
	}
}
