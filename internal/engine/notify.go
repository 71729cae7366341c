// internal/engine/notify.go
package engine

import (
	"sync"

	"github.com/quartzind/lit/internal/repo"
)

// Notification is a tagged event delivered from workers and the watcher to
// the single UI consumer. A given producer's notifications arrive in the
// order it emitted them; ordering across producers is not guaranteed.
type Notification interface{ notification() }

// Updated signals that a fresh result for Kind is in the cache.
type Updated struct{ Kind JobKind }

// FilesystemChanged signals a debounced external change; every
// version-sensitive cache entry is stale once this is observed.
type FilesystemChanged struct{}

// Progress reports remote transfer progress as a fraction in [0,1].
type Progress struct {
	Kind     JobKind
	Fraction float64
}

// JobError carries a classified failure of one job. The engine keeps running.
type JobError struct {
	Kind  JobKind
	Class repo.ErrorKind
	Err   error
}

// WatcherDegraded is emitted once when filesystem watching fails and the
// engine falls back to polling. Non-fatal.
type WatcherDegraded struct{ Err error }

func (Updated) notification()           {}
func (FilesystemChanged) notification() {}
func (Progress) notification()          {}
func (JobError) notification()          {}
func (WatcherDegraded) notification()   {}

// hub fans notifications from any goroutine into one buffered channel.
// Sends block rather than drop; the buffer covers bursts between UI ticks.
type hub struct {
	ch        chan Notification
	done      chan struct{}
	closeOnce sync.Once
}

func newHub() *hub {
	return &hub{
		ch:   make(chan Notification, 256),
		done: make(chan struct{}),
	}
}

func (h *hub) emit(n Notification) {
	select {
	case h.ch <- n:
	case <-h.done:
	}
}

func (h *hub) close() {
	h.closeOnce.Do(func() { close(h.done) })
}
