package layout

import (
	"testing"

	"github.com/matzehuels/chartpack/pkg/chart"
)

func TestMercator(t *testing.T) {
	vp := chart.Viewport{Width: 360, Height: 360}
	c := Mercator(0, 0, vp)
	if !approx(c.X, 180) || !approx(c.Y, 180) {
		t.Errorf("origin = %+v, want center", c)
	}
	east := Mercator(0, 90, vp)
	if !approx(east.X, 270) {
		t.Errorf("lon 90 x = %v, want 270", east.X)
	}
	north := Mercator(60, 0, vp)
	if north.Y >= c.Y {
		t.Errorf("northern point should be above the equator: %+v", north)
	}
	pole := Mercator(90, 0, vp)
	if pole.Y < -1e-6 {
		t.Errorf("pole should clamp to the top edge, got %v", pole.Y)
	}
}
