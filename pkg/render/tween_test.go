package render

import (
	"testing"
	"time"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestSchedulerInterpolates(t *testing.T) {
	clock := NewManualClock(epoch)
	s := NewScheduler(clock, LerpFloat)
	var got float64
	done := false
	s.Start("x", Tween[float64]{
		From: 0, To: 100, Duration: 100 * time.Millisecond, Ease: Linear,
		OnFrame: func(v float64) { got = v },
		OnDone:  func() { done = true },
	})
	if n := s.Tick(clock.Advance(25 * time.Millisecond)); n != 1 || got != 25 {
		t.Fatalf("after 25ms: running=%d value=%v", n, got)
	}
	if n := s.Tick(clock.Advance(100 * time.Millisecond)); n != 0 || got != 100 || !done {
		t.Errorf("after end: running=%d value=%v done=%v", n, got, done)
	}
}

func TestSchedulerRetargetsFromCurrent(t *testing.T) {
	clock := NewManualClock(epoch)
	s := NewScheduler(clock, LerpFloat)
	var got float64
	firstDone := false
	s.Start("x", Tween[float64]{
		From: 0, To: 100, Duration: 100 * time.Millisecond, Ease: Linear,
		OnFrame: func(v float64) { got = v },
		OnDone:  func() { firstDone = true },
	})
	s.Tick(clock.Advance(50 * time.Millisecond))

	s.Start("x", Tween[float64]{
		From: 999, To: 0, Duration: 100 * time.Millisecond, Ease: Linear,
		OnFrame: func(v float64) { got = v },
	})
	if s.Len() != 1 {
		t.Fatalf("re-targeting should not queue, %d tweens running", s.Len())
	}
	if cur, _ := s.Current("x"); cur != 50 {
		t.Errorf("re-targeted tween starts at %v, want 50", cur)
	}
	s.Tick(clock.Advance(50 * time.Millisecond))
	if got != 25 {
		t.Errorf("value = %v, want 25", got)
	}
	s.Tick(clock.Advance(time.Second))
	if got != 0 {
		t.Errorf("final value = %v, want 0", got)
	}
	if firstDone {
		t.Error("replaced tween should not report completion")
	}
}

func TestSchedulerZeroDuration(t *testing.T) {
	s := NewScheduler(NewManualClock(epoch), LerpFloat)
	var got float64
	s.Start("x", Tween[float64]{From: 1, To: 7, OnFrame: func(v float64) { got = v }})
	if got != 7 || s.Active("x") {
		t.Errorf("zero duration should apply immediately: value=%v active=%v", got, s.Active("x"))
	}
}

func TestSchedulerFlushAndStop(t *testing.T) {
	s := NewScheduler(NewManualClock(epoch), LerpFloat)
	var a, b float64
	s.Start("a", Tween[float64]{To: 1, Duration: time.Second, OnFrame: func(v float64) { a = v }})
	s.Flush()
	if a != 1 || s.Len() != 0 {
		t.Errorf("Flush: a=%v running=%d", a, s.Len())
	}

	calls := 0
	s.Start("b", Tween[float64]{To: 1, Duration: time.Second, OnFrame: func(v float64) { b = v; calls++ }})
	s.Stop()
	s.Tick(epoch.Add(time.Hour))
	if calls != 1 || b != 0 {
		t.Errorf("stopped tween kept running: calls=%d b=%v", calls, b)
	}
}

func TestEaseCubicInOut(t *testing.T) {
	if EaseCubicInOut(0) != 0 || EaseCubicInOut(1) != 1 || EaseCubicInOut(0.5) != 0.5 {
		t.Error("easing endpoints wrong")
	}
}
