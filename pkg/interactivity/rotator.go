package interactivity

import (
	"math"
	"time"

	"github.com/matzehuels/chartpack/pkg/chart"
	"github.com/matzehuels/chartpack/pkg/layout"
	"github.com/matzehuels/chartpack/pkg/render"
)

// Rotation defaults.
const (
	// DefaultFocusAngle puts the focused slice at 6 o'clock.
	DefaultFocusAngle = math.Pi
	// DefaultRotationThreshold is the rotation between focus checks.
	DefaultRotationThreshold = math.Pi / 36
	// MaxSelectDuration bounds the SelectIndex animation.
	MaxSelectDuration = 750 * time.Millisecond

	rotationKey = "rotation"
)

type arcSpan struct {
	start, end float64
}

// Rotator drives the rotating interactive legend of an angular visual.
type Rotator struct {
	FocusAngle float64
	Threshold  float64
	// Duration of SelectIndex animations, capped at MaxSelectDuration.
	Duration time.Duration
	// OnFocus is called when the focused index changes.
	OnFocus func(index int)

	center chart.Point
	arcs   []arcSpan
	sched  *render.Scheduler[float64]
	svc    *Service

	offset        float64
	focused       int
	dragging      bool
	lastAngle     float64
	moved         float64
	sinceCheck    float64
	suppressClick bool
}

// NewRotator returns a rotator animating through sched. svc may be nil.
func NewRotator(sched *render.Scheduler[float64], svc *Service) *Rotator {
	return &Rotator{
		FocusAngle: DefaultFocusAngle,
		Threshold:  DefaultRotationThreshold,
		Duration:   MaxSelectDuration,
		sched:      sched,
		svc:        svc,
	}
}

// Bind attaches the laid-out slices of the current render. The rotation
// offset is kept; the focused index is clamped to the new slice count.
func (r *Rotator) Bind(center chart.Point, points []chart.DataPoint) {
	r.center = center
	r.arcs = r.arcs[:0]
	for _, p := range points {
		r.arcs = append(r.arcs, arcSpan{p.Geometry.StartAngle, p.Geometry.EndAngle})
	}
	if r.focused >= len(r.arcs) {
		r.focused = max(0, len(r.arcs)-1)
	}
}

// Offset returns the current rotation in radians.
func (r *Rotator) Offset() float64 { return r.offset }

// Focused returns the focused slice index.
func (r *Rotator) Focused() int { return r.focused }

// Dragging reports whether a drag is in progress.
func (r *Rotator) Dragging() bool { return r.dragging }

// DragStart begins a rotation drag at pt.
func (r *Rotator) DragStart(pt chart.Point) {
	r.dragging = true
	r.lastAngle = layout.Angle(r.center, pt)
	r.moved, r.sinceCheck = 0, 0
	r.svc.beginDrag()
}

// DragMove rotates by the angle swept since the last pointer position and
// re-focuses once the rotation crosses the threshold.
func (r *Rotator) DragMove(pt chart.Point) {
	if !r.dragging {
		return
	}
	a := layout.Angle(r.center, pt)
	delta := shortest(a - r.lastAngle)
	r.lastAngle = a
	r.offset += delta
	r.moved += math.Abs(delta)
	r.sinceCheck += math.Abs(delta)
	if r.sinceCheck >= r.Threshold {
		r.sinceCheck = 0
		r.refocus()
	}
}

// DragEnd finishes the drag and snaps the focused slice to the focus angle.
// A drag that rotated at all suppresses the click that follows it.
func (r *Rotator) DragEnd() {
	if !r.dragging {
		return
	}
	r.dragging = false
	if r.moved != 0 {
		r.suppressClick = true
		r.refocus()
		r.SelectIndex(r.focused)
	}
	r.svc.endDrag()
}

// Click reports whether a click should be ignored because it ends a drag.
func (r *Rotator) Click() (suppressed bool) {
	if r.suppressClick {
		r.suppressClick = false
		return true
	}
	return false
}

// SelectIndex animates the rotation so slice n sits at the focus angle.
func (r *Rotator) SelectIndex(n int) {
	if len(r.arcs) == 0 {
		return
	}
	n = max(0, min(len(r.arcs)-1, n))
	a := r.arcs[n]
	target := r.offset + shortest(r.FocusAngle-(a.start+a.end)/2-r.offset)
	r.setFocus(n)

	d := min(r.Duration, MaxSelectDuration)
	if r.sched == nil || d <= 0 {
		r.offset = target
		return
	}
	r.sched.Start(rotationKey, render.Tween[float64]{
		From:     r.offset,
		To:       target,
		Duration: d,
		OnFrame:  func(v float64) { r.offset = v },
	})
}

// Swipe moves the focus by the steps of a legend swipe.
func (r *Rotator) Swipe(dx float64, s Swipe) {
	next := s.Next(r.focused, len(r.arcs), dx)
	if next != r.focused {
		r.SelectIndex(next)
	}
}

// Apply highlights the focused slice and dims the rest.
func (r *Rotator) Apply(points []chart.DataPoint) {
	for i := range points {
		if i == r.focused {
			points[i].Opacity = FullOpacity
		} else {
			points[i].Opacity = DimmedOpacity
		}
	}
}

// Rotate returns the point's geometry turned by the current offset.
func (r *Rotator) Rotate(g chart.Geometry) chart.Geometry {
	g.StartAngle += r.offset
	g.EndAngle += r.offset
	return g
}

func (r *Rotator) refocus() {
	if i := r.indexAt(r.FocusAngle); i >= 0 {
		r.setFocus(i)
	}
}

func (r *Rotator) setFocus(i int) {
	if i == r.focused {
		return
	}
	r.focused = i
	if r.OnFocus != nil {
		r.OnFocus(i)
	}
}

// indexAt returns the slice under angle at the current rotation.
func (r *Rotator) indexAt(angle float64) int {
	best, bestDist := -1, math.Inf(1)
	for i, a := range r.arcs {
		rel := layout.NormalizeAngle(angle - r.offset - a.start)
		if rel < a.end-a.start {
			return i
		}
		mid := (a.start + a.end) / 2
		if d := math.Abs(shortest(angle - r.offset - mid)); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// shortest maps an angle difference into (-π, π].
func shortest(d float64) float64 {
	d = math.Mod(d, layout.FullCircle)
	if d > math.Pi {
		d -= layout.FullCircle
	} else if d <= -math.Pi {
		d += layout.FullCircle
	}
	return d
}
