package geo

import (
	"sync"
	"time"
)

// DefaultDebounceWindow is the delay between the last resolution and the
// re-render it triggers.
const DefaultDebounceWindow = 100 * time.Millisecond

// Debouncer runs fn once a fixed window after the latest Trigger. Each
// Trigger replaces the pending timer; after Stop nothing fires.
type Debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	fn      func()
	timer   *time.Timer
	gen     uint64
	stopped bool
}

// NewDebouncer returns a debouncer calling fn. A window of 0 uses
// DefaultDebounceWindow.
func NewDebouncer(window time.Duration, fn func()) *Debouncer {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &Debouncer{window: window, fn: fn}
}

// Trigger (re)starts the window.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.window, func() { d.fire(gen) })
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels the pending call. Later Triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()
	d.fn()
}
