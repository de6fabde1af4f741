package render

import (
	"slices"
	"time"

	"github.com/matzehuels/chartpack/pkg/chart"
)

// Surface draws one frame of shapes. Begin starts a frame, Draw is called
// once per displayed shape in draw order, and End completes the frame.
type Surface interface {
	Begin(vp chart.Viewport) error
	Draw(s Shape) error
	End() error
}

// Reconciler keeps the displayed shapes of one visual in step with the
// shapes it is asked to show.
type Reconciler struct {
	surface  Surface
	clock    Clock
	sched    *Scheduler[Attrs]
	duration time.Duration
	viewport chart.Viewport

	targets []Shape
	shown   map[string]*Shape
	order   []string
}

// NewReconciler returns a reconciler that animates changes over duration.
func NewReconciler(surface Surface, clock Clock, duration time.Duration) *Reconciler {
	if clock == nil {
		clock = RealClock{}
	}
	return &Reconciler{
		surface:  surface,
		clock:    clock,
		sched:    NewScheduler(clock, Lerp),
		duration: duration,
		shown:    make(map[string]*Shape),
	}
}

// Resize sets the viewport passed to the surface.
func (r *Reconciler) Resize(vp chart.Viewport) { r.viewport = vp }

// Update sets the shapes of the next frame and starts the transitions toward
// them. With suppressAnimations every change applies immediately.
func (r *Reconciler) Update(next []Shape, suppressAnimations bool) Changes {
	changes := Diff(r.targets, next)
	d := r.duration
	if suppressAnimations {
		d = 0
	}

	order := make([]string, 0, len(next)+len(changes.Exit))
	seen := make(map[string]bool, len(next))
	for _, s := range next {
		if seen[s.Key] {
			continue
		}
		seen[s.Key] = true
		order = append(order, s.Key)

		cur, ok := r.shown[s.Key]
		if !ok {
			cur = &Shape{Key: s.Key, Kind: s.Kind, Class: s.Class, Attrs: collapsed(s.Attrs, s.Kind)}
			r.shown[s.Key] = cur
		}
		cur.Kind, cur.Class = s.Kind, s.Class
		if cur.Attrs == s.Attrs && !r.sched.Active(s.Key) {
			continue
		}
		r.sched.Start(s.Key, Tween[Attrs]{
			From:     cur.Attrs,
			To:       s.Attrs,
			Duration: d,
			OnFrame:  func(a Attrs) { cur.Attrs = a },
		})
	}

	for _, key := range changes.Exit {
		cur, ok := r.shown[key]
		if !ok {
			continue
		}
		order = append(order, key)
		r.sched.Start(key, Tween[Attrs]{
			From:     cur.Attrs,
			To:       collapsed(cur.Attrs, cur.Kind),
			Duration: d,
			OnFrame:  func(a Attrs) { cur.Attrs = a },
			OnDone:   func() { r.drop(key) },
		})
	}
	// Shapes still exiting from an earlier update keep their slot.
	for _, key := range r.order {
		if !seen[key] && !slices.Contains(order, key) && r.shown[key] != nil {
			order = append(order, key)
		}
	}

	r.order = slices.DeleteFunc(order, func(key string) bool { return r.shown[key] == nil })
	r.targets = slices.Clone(next)
	return changes
}

// Frame advances transitions to the clock's current time and draws. It
// returns the number of transitions still running.
func (r *Reconciler) Frame() (int, error) {
	n := r.sched.Tick(r.clock.Now())
	return n, r.draw()
}

// Flush completes every transition and draws the final frame.
func (r *Reconciler) Flush() error {
	r.sched.Flush()
	return r.draw()
}

// Clear removes every shape.
func (r *Reconciler) Clear(suppressAnimations bool) Changes {
	return r.Update(nil, suppressAnimations)
}

// Shapes returns the displayed shapes in draw order.
func (r *Reconciler) Shapes() []Shape {
	out := make([]Shape, 0, len(r.order))
	for _, key := range r.order {
		if s, ok := r.shown[key]; ok {
			out = append(out, *s)
		}
	}
	return out
}

// Animating reports whether any transition is running.
func (r *Reconciler) Animating() bool { return r.sched.Len() > 0 }

// Destroy stops all transitions and forgets every shape. No callbacks fire
// afterwards.
func (r *Reconciler) Destroy() {
	r.sched.Stop()
	clear(r.shown)
	r.order = nil
	r.targets = nil
}

func (r *Reconciler) drop(key string) {
	delete(r.shown, key)
	if i := slices.Index(r.order, key); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
}

func (r *Reconciler) draw() error {
	if r.surface == nil {
		return nil
	}
	if err := r.surface.Begin(r.viewport); err != nil {
		return err
	}
	for _, s := range r.Shapes() {
		if err := r.surface.Draw(s); err != nil {
			return err
		}
	}
	return r.surface.End()
}
