package render

import (
	"math"
	"slices"
	"time"
)

// Easing maps linear progress in [0,1] to eased progress.
type Easing func(t float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 { return t }

// EaseCubicInOut accelerates then decelerates.
func EaseCubicInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// Tween describes one animation.
type Tween[T any] struct {
	From, To T
	Duration time.Duration
	Ease     Easing
	// OnFrame receives every interpolated value, including the final one.
	OnFrame func(T)
	// OnDone runs once the tween reaches To. It does not run when the
	// tween is re-targeted or stopped.
	OnDone func()
}

type activeTween[T any] struct {
	Tween[T]
	start   time.Time
	current T
}

// Scheduler is an arena of tweens indexed by key. It is driven by Tick and
// is not safe for concurrent use.
type Scheduler[T any] struct {
	clock Clock
	lerp  func(a, b T, t float64) T
	tw    map[string]*activeTween[T]
	order []string
}

// NewScheduler returns a scheduler interpolating values with lerp.
func NewScheduler[T any](clock Clock, lerp func(a, b T, t float64) T) *Scheduler[T] {
	if clock == nil {
		clock = RealClock{}
	}
	return &Scheduler[T]{clock: clock, lerp: lerp, tw: make(map[string]*activeTween[T])}
}

// Start animates key. If key is already animating, the tween is re-targeted:
// it restarts from the current interpolated value toward tw.To and tw.From
// is ignored. A non-positive duration applies tw.To immediately.
func (s *Scheduler[T]) Start(key string, tw Tween[T]) {
	if cur, ok := s.tw[key]; ok {
		tw.From = cur.current
		s.remove(key)
	}
	if tw.Ease == nil {
		tw.Ease = EaseCubicInOut
	}
	if tw.Duration <= 0 {
		s.finish(&activeTween[T]{Tween: tw, current: tw.To})
		return
	}
	s.tw[key] = &activeTween[T]{Tween: tw, start: s.clock.Now(), current: tw.From}
	s.order = append(s.order, key)
	if tw.OnFrame != nil {
		tw.OnFrame(tw.From)
	}
}

// Tick advances every tween to now and returns how many are still running.
func (s *Scheduler[T]) Tick(now time.Time) int {
	for _, key := range slices.Clone(s.order) {
		a, ok := s.tw[key]
		if !ok {
			continue
		}
		p := float64(now.Sub(a.start)) / float64(a.Duration)
		if p >= 1 {
			s.remove(key)
			s.finish(a)
			continue
		}
		a.current = s.lerp(a.From, a.To, a.Ease(math.Max(0, p)))
		if a.OnFrame != nil {
			a.OnFrame(a.current)
		}
	}
	return len(s.tw)
}

// Flush completes every tween immediately.
func (s *Scheduler[T]) Flush() {
	for len(s.order) > 0 {
		key := s.order[0]
		a := s.tw[key]
		s.remove(key)
		s.finish(a)
	}
}

// Stop drops every tween without further callbacks.
func (s *Scheduler[T]) Stop() {
	clear(s.tw)
	s.order = nil
}

// Active reports whether key is animating.
func (s *Scheduler[T]) Active(key string) bool {
	_, ok := s.tw[key]
	return ok
}

// Current returns the current interpolated value of key.
func (s *Scheduler[T]) Current(key string) (T, bool) {
	a, ok := s.tw[key]
	if !ok {
		var zero T
		return zero, false
	}
	return a.current, true
}

// Len returns the number of running tweens.
func (s *Scheduler[T]) Len() int { return len(s.tw) }

func (s *Scheduler[T]) finish(a *activeTween[T]) {
	a.current = a.To
	if a.OnFrame != nil {
		a.OnFrame(a.To)
	}
	if a.OnDone != nil {
		a.OnDone()
	}
}

func (s *Scheduler[T]) remove(key string) {
	delete(s.tw, key)
	if i := slices.Index(s.order, key); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
}

// LerpFloat interpolates scalars.
func LerpFloat(a, b, t float64) float64 { return a + (b-a)*t }
