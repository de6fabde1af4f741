package layout

import (
	"math"

	"github.com/matzehuels/chartpack/pkg/chart"
)

// FullCircle is one turn in radians.
const FullCircle = 2 * math.Pi

// Arc describes the ring the slices are laid out on.
type Arc struct {
	Center      chart.Point
	InnerRadius float64
	OuterRadius float64
	// StartAngle is the angle of the first slice edge in radians,
	// clockwise from 12 o'clock.
	StartAngle float64
}

// Weight returns the angular weight of a point.
type Weight func(p *chart.DataPoint) float64

// ByPercentage weights slices by their share of the total.
func ByPercentage(p *chart.DataPoint) float64 { return p.Percentage }

// BySecondary weights slices by the magnitude of their secondary value.
func BySecondary(p *chart.DataPoint) float64 { return math.Abs(p.Secondary) }

// Radii derives inner and outer radius from the viewport. labelMargin is the
// fraction of the radius reserved for outside labels; innerRatio is the
// inner radius as a fraction of the outer one.
func Radii(vp chart.Viewport, labelMargin, innerRatio float64) (inner, outer float64) {
	if vp.Empty() {
		return 0, 0
	}
	outer = math.Min(vp.Width, vp.Height) / 2
	outer *= 1 - clamp01(labelMargin)
	inner = outer * clamp01(innerRatio)
	return inner, outer
}

// Pie assigns cumulative angles to points in order. Each span is
// proportional to the point's weight; a zero total gives zero spans.
func Pie(points []chart.DataPoint, arc Arc, weight Weight) {
	if weight == nil {
		weight = ByPercentage
	}
	total := 0.0
	for i := range points {
		total += weight(&points[i])
	}
	angle := arc.StartAngle
	for i := range points {
		p := &points[i]
		span := 0.0
		if total > 0 {
			span = FullCircle * weight(p) / total
		}
		p.Geometry.StartAngle = angle
		p.Geometry.EndAngle = angle + span
		p.Geometry.InnerRadius = arc.InnerRadius
		p.Geometry.OuterRadius = arc.OuterRadius
		p.Geometry.Center = arc.Center
		angle += span
	}
}

// Aster lays out slices whose angular span comes from weight and whose
// radial extent from the inner radius is proportional to |Value| against
// the largest magnitude. Points without any angular weight share the circle
// equally.
func Aster(points []chart.DataPoint, arc Arc, weight Weight) {
	if weight == nil {
		weight = BySecondary
	}
	total := 0.0
	for i := range points {
		total += weight(&points[i])
	}
	if total == 0 {
		weight = func(*chart.DataPoint) float64 { return 1 }
	}
	Pie(points, arc, weight)

	maxValue := 0.0
	for i := range points {
		maxValue = math.Max(maxValue, math.Abs(points[i].Value))
	}
	depth := arc.OuterRadius - arc.InnerRadius
	for i := range points {
		p := &points[i]
		r := 0.0
		if maxValue > 0 {
			r = depth * math.Abs(p.Value) / maxValue
		}
		p.Geometry.OuterRadius = arc.InnerRadius + r
	}
}

// Polar converts an angle (clockwise from 12 o'clock) and radius around
// center into a point.
func Polar(center chart.Point, angle, radius float64) chart.Point {
	return chart.Point{
		X: center.X + radius*math.Sin(angle),
		Y: center.Y - radius*math.Cos(angle),
	}
}

// Angle returns the angle of pt around center, clockwise from 12 o'clock,
// in [0, 2π).
func Angle(center, pt chart.Point) float64 {
	a := math.Atan2(pt.X-center.X, center.Y-pt.Y)
	if a < 0 {
		a += FullCircle
	}
	return a
}

// NormalizeAngle maps a into [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, FullCircle)
	if a < 0 {
		a += FullCircle
	}
	return a
}

func clamp01(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}
