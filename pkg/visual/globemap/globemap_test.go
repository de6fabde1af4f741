package globemap

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/chartpack/pkg/dataview"
	"github.com/matzehuels/chartpack/pkg/errors"
	"github.com/matzehuels/chartpack/pkg/geo"
	"github.com/matzehuels/chartpack/pkg/layout"
	"github.com/matzehuels/chartpack/pkg/visual"
	"github.com/matzehuels/chartpack/pkg/visual/visualtest"
)

type fakeGeocoder struct {
	calls atomic.Int32
	known map[string]geo.Location
}

func (f *fakeGeocoder) Geocode(_ context.Context, place string, _ geo.PlaceType) (geo.Location, error) {
	f.calls.Add(1)
	if l, ok := f.known[place]; ok {
		return l, nil
	}
	return geo.Unknown, fmt.Errorf("no match for %q", place)
}

func withGeocoder(t *testing.T, gc geo.Geocoder) *visualtest.Harness {
	t.Helper()
	return visualtest.New(t, New(), visual.InitOptions{Host: &visual.Recorder{Geo: gc}})
}

func TestCoordinateColumnsSkipGeocoding(t *testing.T) {
	h := visualtest.New(t, New(), visual.InitOptions{})
	dv := dataview.NewBuilder().
		Category("Site", "Alpha", "Beta").
		Measure("Visitors", 10.0, 40.0).
		Measure("Latitude", 48.85, -33.86).Role(RoleLatitude).
		Measure("Longitude", 2.35, 151.2).Role(RoleLongitude).
		Build()
	h.Update(dv, true)

	m := h.Visual.(*GlobeMap)
	if m.Located() != 2 {
		t.Fatalf("located = %d, want 2", m.Located())
	}
	rep := h.Report(t)
	if len(rep.Points) != 2 || rep.Points[1].Value != 40 {
		t.Errorf("points = %+v", rep.Points)
	}
	alpha, ok := h.Shape("Site=Alpha")
	if !ok {
		t.Fatal("missing bubble")
	}
	want := layout.Mercator(48.85, 2.35, visualtest.Viewport)
	if alpha.Attrs.X != want.X || alpha.Attrs.Y != want.Y {
		t.Errorf("bubble at (%v,%v), want (%v,%v)", alpha.Attrs.X, alpha.Attrs.Y, want.X, want.Y)
	}
	beta, _ := h.Shape("Site=Beta")
	if beta.Attrs.Radius <= alpha.Attrs.Radius {
		t.Errorf("larger value should draw a larger bubble: %v vs %v", beta.Attrs.Radius, alpha.Attrs.Radius)
	}
}

func TestCoordinatesOnly(t *testing.T) {
	dv := dataview.NewBuilder().
		Category("Site", "Gamma", "Delta").
		Measure("lat", 10.0, 20.0).
		Measure("lon", 30.0, 40.0).
		Build()
	stripped, coords := SplitCoordinates(dv)
	if len(coords) != 2 {
		t.Fatalf("coords = %v", coords)
	}
	if vs := stripped.Categorical.Values; len(vs) != 1 || vs[0].Source.DisplayName != "Count" {
		t.Errorf("values = %+v", vs)
	}
	if len(dv.Categorical.Values) != 2 {
		t.Error("input view must not be modified")
	}
}

func TestPrefetchResolvesAndWarns(t *testing.T) {
	gc := &fakeGeocoder{known: map[string]geo.Location{
		"Prefetchville": {Latitude: 40, Longitude: -74, Known: true},
	}}
	h := withGeocoder(t, gc)
	dv := dataview.NewBuilder().
		Category("City", "Prefetchville", "Nowhere Prefetch").
		Measure("Sales", 1.0, 2.0).
		Build()

	m := h.Visual.(*GlobeMap)
	if err := m.Prefetch(context.Background(), dv); err != nil {
		t.Fatalf("Prefetch: %v", err)
	}
	if n := gc.calls.Load(); n != 2 {
		t.Errorf("geocoder calls = %d, want 2", n)
	}
	h.Update(dv, true)

	if m.Located() != 1 {
		t.Errorf("located = %d, want 1", m.Located())
	}
	if m.Pending() != 0 {
		t.Errorf("pending = %d after prefetch", m.Pending())
	}
	if !h.HasWarning(errors.ErrCodeLocationNotFound) {
		t.Error("expected an unknown locations warning")
	}
}

func TestAsyncResolutionRedraws(t *testing.T) {
	old := DebounceWindow
	DebounceWindow = 10 * time.Millisecond
	t.Cleanup(func() { DebounceWindow = old })

	gc := &fakeGeocoder{known: map[string]geo.Location{
		"Asyncburg": {Latitude: 1, Longitude: 2, Known: true},
		"Awaitown":  {Latitude: 3, Longitude: 4, Known: true},
	}}
	h := withGeocoder(t, gc)
	m := h.Visual.(*GlobeMap)
	h.Update(dataview.NewBuilder().Category("City", "Asyncburg", "Awaitown").Measure("Sales", 1.0, 2.0).Build(), true)

	deadline := time.Now().Add(2 * time.Second)
	for m.Located() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("located = %d after waiting", m.Located())
		}
		time.Sleep(5 * time.Millisecond)
	}
	h.Settle()
	if n := len(h.Shapes(visual.ClassBubble)); n != 2 {
		t.Errorf("bubbles = %d, want 2", n)
	}
}

func TestBarsStyle(t *testing.T) {
	h := visualtest.New(t, New(), visual.InitOptions{})
	dv := dataview.NewBuilder().
		Category("Site", "Epsilon").
		Measure("Visitors", 5.0).
		Measure("Latitude", 0.0).Role(RoleLatitude).
		Measure("Longitude", 0.0).Role(RoleLongitude).
		Object(ObjectMap, PropStyle, StyleBars).
		Build()
	h.Update(dv, true)
	bars := h.Shapes(visual.ClassBar)
	if len(bars) != 1 {
		t.Fatalf("bars = %d, want 1", len(bars))
	}
	want := layout.Mercator(0, 0, visualtest.Viewport)
	if b := bars[0].Attrs; b.Y+b.Height != want.Y {
		t.Errorf("bar should stand on its location: bottom %v, want %v", b.Y+b.Height, want.Y)
	}
}

func TestDestroyReleasesStore(t *testing.T) {
	locations := geo.NewSharedStore()
	m := New()
	visualtest.New(t, m, visual.InitOptions{Host: &visual.Recorder{Locations: locations}})
	if locations.References() != 1 {
		t.Errorf("references = %d, want 1", locations.References())
	}
	m.Destroy()
	m.Destroy()
	if locations.References() != 0 {
		t.Errorf("references after destroy = %d, want 0", locations.References())
	}
}

func TestHostSharesLocations(t *testing.T) {
	locations := geo.NewSharedStore()
	host := &visual.Recorder{Locations: locations}
	a, b := New(), New()
	visualtest.New(t, a, visual.InitOptions{Host: host})
	visualtest.New(t, b, visual.InitOptions{Host: host})

	if a.(*GlobeMap).store != b.(*GlobeMap).store {
		t.Error("instances of one host should share a store")
	}
	if locations.References() != 2 {
		t.Errorf("references = %d, want 2", locations.References())
	}

	other := New()
	visualtest.New(t, other, visual.InitOptions{Host: &visual.Recorder{Locations: geo.NewSharedStore()}})
	if other.(*GlobeMap).store == a.(*GlobeMap).store {
		t.Error("instances of another host should not share the store")
	}
}

func TestNoGeocoderDrawsNothing(t *testing.T) {
	h := visualtest.New(t, New(), visual.InitOptions{})
	h.Update(dataview.NewBuilder().Category("City", "Offline City").Measure("Sales", 1.0).Build(), true)
	m := h.Visual.(*GlobeMap)
	if m.Located() != 0 || m.Pending() != 0 {
		t.Errorf("located=%d pending=%d", m.Located(), m.Pending())
	}
	if len(h.Report(t).Points) != 1 {
		t.Error("points are still reported")
	}
}
