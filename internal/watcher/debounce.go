// internal/watcher/debounce.go
package watcher

import (
	"sync"
	"time"
)

type stopper interface{ Stop() bool }

// debouncer coalesces bursts of raw filesystem events into single emissions:
// Idle -> Collecting on the first raw event, then every further event resets
// the window, and the emission fires once the window elapses quietly.
// The clock hooks exist so tests drive the state machine without real time.
type debouncer struct {
	mu         sync.Mutex
	window     time.Duration
	timer      stopper
	quietUntil time.Time
	emit       func()

	now   func() time.Time
	start func(d time.Duration, fn func()) stopper
}

func newDebouncer(window time.Duration, emit func()) *debouncer {
	return &debouncer{
		window: window,
		emit:   emit,
		now:    time.Now,
		start: func(d time.Duration, fn func()) stopper {
			return time.AfterFunc(d, fn)
		},
	}
}

// observe feeds one raw event in. Events inside the quiet window are
// attributed to our own just-finished mutation and dropped.
func (d *debouncer) observe() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.now().Before(d.quietUntil) {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.start(d.window, d.fire)
}

func (d *debouncer) fire() {
	d.mu.Lock()
	d.timer = nil
	suppressed := d.now().Before(d.quietUntil)
	d.mu.Unlock()

	if !suppressed {
		d.emit()
	}
}

// quiet opens a suppression window. A pending emission is discarded with it:
// anything collected so far is assumed self-inflicted.
func (d *debouncer) quiet(dur time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.quietUntil = d.now().Add(dur)
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
