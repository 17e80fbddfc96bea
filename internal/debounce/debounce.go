package debounce

import (
	"sync"
	"time"
)

// DefaultWindow is the quiescence window applied to search text.
const DefaultWindow = 500 * time.Millisecond

// Debouncer coalesces bursts of Trigger calls into a single call to fire,
// made once no Trigger has happened for the window.
type Debouncer[V any] struct {
	window time.Duration
	fire   func(V)

	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64
	stopped bool
}

// New returns a Debouncer that calls fire with the latest value after window.
func New[V any](window time.Duration, fire func(V)) *Debouncer[V] {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Debouncer[V]{window: window, fire: fire}
}

// Trigger schedules fire(v), cancelling and replacing any pending call.
func (d *Debouncer[V]) Trigger(v V) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		// A timer that already fired cannot be stopped; seq tells us it lost.
		current := seq == d.seq && !d.stopped
		if current {
			d.timer = nil
		}
		d.mu.Unlock()
		if current {
			d.fire(v)
		}
	})
}

// Pending reports whether a call is scheduled.
func (d *Debouncer[V]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Cancel drops the pending call, if any. Later triggers still work.
func (d *Debouncer[V]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Stop cancels the pending call and ignores all further triggers.
func (d *Debouncer[V]) Stop() {
	d.Cancel()
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
}
