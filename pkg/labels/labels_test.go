package labels

import (
	"fmt"
	"math"
	"testing"

	"github.com/matzehuels/chartpack/pkg/chart"
)

var vp = chart.Viewport{Width: 100, Height: 100}

func TestPlaceFits(t *testing.T) {
	placed := Place([]Candidate{{
		ID: "a", Text: "abc", FontSize: 10,
		Anchor: chart.Point{X: 60, Y: 50}, Center: chart.Point{X: 50, Y: 50},
	}}, vp, Options{})
	p := placed[0]
	if !p.Visible || p.Displaced || p.Truncated {
		t.Fatalf("placed = %+v", p)
	}
	if p.Box.X != 60 {
		t.Errorf("right-side label should start at the anchor, box = %+v", p.Box)
	}
	if p.Leader != nil {
		t.Error("undisplaced label without leader request got a leader")
	}
}

func TestPlaceLeftSide(t *testing.T) {
	placed := Place([]Candidate{{
		ID: "a", Text: "abc", FontSize: 10,
		Anchor: chart.Point{X: 40, Y: 50}, Center: chart.Point{X: 50, Y: 50},
	}}, vp, Options{})
	if got := placed[0].Box.Right(); got != 40 {
		t.Errorf("left-side label should end at the anchor, right = %v", got)
	}
}

func TestPlacePullsInwardAndTruncates(t *testing.T) {
	c := Candidate{
		ID: "a", Text: "abcd", FontSize: 10,
		Anchor:    chart.Point{X: 85, Y: 50},
		ShapeEdge: chart.Point{X: 80, Y: 50},
		Center:    chart.Point{X: 50, Y: 50},
	}
	p := Place([]Candidate{c}, vp, Options{})[0]
	if !p.Displaced {
		t.Error("expected label to be pulled inward")
	}
	if math.Abs(p.Anchor.X-81.5) > 1e-9 {
		t.Errorf("anchor x = %v, want 81.5", p.Anchor.X)
	}
	if !p.Truncated || p.Text != "ab…" {
		t.Errorf("text = %q truncated=%v, want ab…", p.Text, p.Truncated)
	}
	if !p.Visible || !vp.Bounds().Contains(p.Box) {
		t.Errorf("label should be visible inside the viewport: %+v", p)
	}
	if p.Leader == nil {
		t.Fatal("displaced label should get a leader")
	}
	if math.Abs(p.Leader.From.X-80.6) > 1e-9 {
		t.Errorf("leader starts at %v, want just outside the edge (80.6)", p.Leader.From.X)
	}
}

func TestPlaceHidesWhenNothingFits(t *testing.T) {
	p := Place([]Candidate{{
		ID: "a", Text: "abcdefgh", FontSize: 10,
		Anchor: chart.Point{X: 99, Y: 50}, Center: chart.Point{X: 98, Y: 50},
	}}, vp, Options{})[0]
	if p.Visible {
		t.Errorf("label with no room should be hidden: %+v", p)
	}
}

func TestPlaceCollisionPriority(t *testing.T) {
	cands := []Candidate{
		{ID: "low", Text: "xx", FontSize: 10, Anchor: chart.Point{X: 20, Y: 20}, Center: chart.Point{X: 20, Y: 20}, Align: AlignCenter, Priority: 1},
		{ID: "high", Text: "yy", FontSize: 10, Anchor: chart.Point{X: 22, Y: 22}, Center: chart.Point{X: 22, Y: 22}, Align: AlignCenter, Priority: 5},
	}
	placed := Place(cands, vp, Options{})
	if placed[0].Visible || !placed[1].Visible {
		t.Errorf("expected only the high priority label: low=%v high=%v", placed[0].Visible, placed[1].Visible)
	}
	if placed[0].ID != "low" {
		t.Error("result should keep candidate order")
	}
}

func TestPlaceNeverOverlaps(t *testing.T) {
	var cands []Candidate
	for i := 0; i < 40; i++ {
		angle := float64(i) / 40 * 2 * math.Pi
		anchor := chart.Point{X: 50 + 45*math.Sin(angle), Y: 50 - 45*math.Cos(angle)}
		cands = append(cands, Candidate{
			ID:        fmt.Sprint(i),
			Text:      fmt.Sprintf("label %d", i),
			FontSize:  9,
			Anchor:    anchor,
			ShapeEdge: anchor,
			Center:    chart.Point{X: 50, Y: 50},
			Priority:  float64(i % 7),
			Leader:    true,
		})
	}
	placed := Place(cands, vp, Options{})
	if VisibleCount(placed) == 0 {
		t.Fatal("expected some visible labels")
	}
	for i := range placed {
		if !placed[i].Visible {
			if placed[i].Leader != nil {
				t.Errorf("hidden label %s has a leader", placed[i].ID)
			}
			continue
		}
		for j := i + 1; j < len(placed); j++ {
			if placed[j].Visible && placed[i].Box.Intersects(placed[j].Box) {
				t.Errorf("labels %s and %s overlap", placed[i].ID, placed[j].ID)
			}
		}
	}
}

func TestPlaceEmptyText(t *testing.T) {
	p := Place([]Candidate{{ID: "a", FontSize: 10, Anchor: chart.Point{X: 10, Y: 10}}}, vp, Options{})[0]
	if p.Visible {
		t.Error("empty label should not be visible")
	}
}
