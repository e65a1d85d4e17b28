// Package debounce provides a trailing-edge debouncer, used to hold back
// search requests until the user stops typing.
package debounce

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of calls into a single invocation that fires
// after the configured quiet period. Each call resets the timer; only the
// most recent function runs.
type Debouncer struct {
	after time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// New creates a Debouncer with the given quiet period.
func New(after time.Duration) *Debouncer {
	return &Debouncer{after: after}
}

// Do schedules fn to run once the quiet period elapses without further
// calls. A pending invocation is replaced, not queued.
func (d *Debouncer) Do(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.after, fn)
}

// Stop cancels any pending invocation.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
