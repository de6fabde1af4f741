package layout

import (
	"math"

	"github.com/matzehuels/chartpack/pkg/chart"
)

// MaxLatitude is the latitude limit of the square Web Mercator world.
const MaxLatitude = 85.05112878

// Mercator projects a latitude/longitude in degrees onto the viewport.
// Latitudes beyond ±MaxLatitude are clamped.
func Mercator(lat, lon float64, vp chart.Viewport) chart.Point {
	lat = math.Max(-MaxLatitude, math.Min(MaxLatitude, lat))
	phi := lat * math.Pi / 180
	x := (lon + 180) / 360
	y := (1 - math.Log(math.Tan(math.Pi/4+phi/2))/math.Pi) / 2
	return chart.Point{X: x * vp.Width, Y: y * vp.Height}
}
