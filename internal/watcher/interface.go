// internal/watcher/interface.go
package watcher

import (
	"context"
	"time"
)

// Event is one debounced "repository possibly changed" signal. Consumers
// must tolerate duplicates; delivery is best-effort.
type Event struct {
	Time time.Time
	// Degraded is set on the single warning event emitted when native
	// filesystem watching failed and polling took over.
	Degraded error
}

type RepoWatcher interface {
	Events() <-chan Event
	// Quiet suppresses events for d, to swallow changes the process just
	// made itself (a completed mutating operation).
	Quiet(d time.Duration)
	Run(ctx context.Context)
	Close() error
}
