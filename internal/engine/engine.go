// internal/engine/engine.go

// Package engine executes repository operations off the UI loop. It owns the
// worker pool, the version-stamped result cache, and the notification path
// from workers and the filesystem watcher to the single UI consumer. The UI
// never calls the repository handle directly.
package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/quartzind/lit/internal/repo"
	"github.com/quartzind/lit/internal/watcher"
)

const (
	lockAttempts   = 3 // total native calls, initial one included
	lockRetryDelay = 50 * time.Millisecond
	evictPassLimit = 64
)

// JobFunc is the native call a job performs. It runs on a worker goroutine
// and must honor ctx at its safe points.
type JobFunc func(ctx context.Context) (any, error)

// Options configures an Engine at startup. Nothing else is runtime-tunable.
type Options struct {
	Workers int
	// OnMutation runs after every successful mutating job, before the
	// Updated notification. Wired to the watcher's quiet window.
	OnMutation func()
}

// Engine ties the pool, cache and notification hub to one repository handle.
type Engine struct {
	handle  *repo.Handle
	pool    *Pool
	cache   *Cache
	hub     *hub
	version atomic.Uint64 // state version; bumped on mutation success and external change
	onMut   func()
}

func New(handle *repo.Handle, opts Options) *Engine {
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}
	return &Engine{
		handle: handle,
		pool:   NewPool(workers),
		cache:  NewCache(),
		hub:    newHub(),
		onMut:  opts.OnMutation,
	}
}

// Notifications is the single delivery channel the UI drains each tick.
func (e *Engine) Notifications() <-chan Notification { return e.hub.ch }

// Version returns the current state version.
func (e *Engine) Version() uint64 { return e.version.Load() }

// BumpVersion advances the state version, marking every existing cache stamp
// stale. Called on mutating-job success and on external filesystem change.
func (e *Engine) BumpVersion() uint64 { return e.version.Add(1) }

// Get returns the last computed result for key. stale is true when the
// entry was stamped against an older state version; stale entries are still
// useful as last-known content while a refresh is pending.
func (e *Engine) Get(key JobKey) (value any, stale, ok bool) {
	value, stamped, ok := e.cache.Get(key)
	if !ok {
		return nil, false, false
	}
	return value, stamped != e.version.Load(), true
}

// InFlight reports whether key has a running execution.
func (e *Engine) InFlight(key JobKey) bool { return e.pool.InFlight(key) }

// Cancel cancels the in-flight job for key, if any. A job cancelled before
// its native call starts never produces a notification.
func (e *Engine) Cancel(key JobKey) { e.pool.Cancel(key) }

// Submit schedules fn under key. Duplicate submits of an in-flight key
// attach to the existing execution.
func (e *Engine) Submit(key JobKey, fn JobFunc) Ticket {
	mutating := key.Kind.Mutating()
	rerun := new(atomic.Bool)
	ticket := e.pool.Submit(key, mutating, func(ctx context.Context) {
		// Stamp with the version read just before the native call; a
		// mutating job restamps with the post-increment version below.
		stamp := e.version.Load()

		value, err := e.callWithRetry(ctx, key, mutating, fn)

		// Cancellation suppresses delivery entirely.
		if ctx.Err() != nil || repo.Classify(err) == repo.ErrorCancelled {
			return
		}

		if err != nil {
			e.hub.emit(JobError{Kind: key.Kind, Class: repo.Classify(err), Err: err})
			return
		}

		if mutating {
			// The bump must be visible before the dependent cache write
			// and notification; atomic Add provides that ordering.
			stamp = e.BumpVersion()
			if e.onMut != nil {
				e.onMut()
			}
		}

		e.cache.Put(key, value, stamp)
		e.hub.emit(Updated{Kind: key.Kind})

		// A read that raced a version bump landed stale, and a resubmit
		// during the race would only have attached to this execution.
		// Flag it for one fresh run once this one has fully unwound.
		if !mutating && stamp != e.version.Load() {
			rerun.Store(true)
		}
	})
	go func() {
		<-ticket.Done
		if rerun.Load() {
			e.Submit(key, fn)
		}
	}()
	return ticket
}

// callWithRetry runs fn, retrying read-only jobs that hit lock contention,
// bounded at lockAttempts calls in total. Mutating jobs are never
// blind-retried: repository operations are not generally idempotent.
func (e *Engine) callWithRetry(ctx context.Context, key JobKey, mutating bool, fn JobFunc) (any, error) {
	value, err := fn(ctx)
	if mutating {
		return value, err
	}
	for attempt := 1; attempt < lockAttempts; attempt++ {
		if err == nil || repo.Classify(err) != repo.ErrorLockContention {
			return value, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryDelay * time.Duration(attempt)):
		}
		value, err = fn(ctx)
	}
	return value, err
}

// Run consumes debounced watcher events until ctx is done. Each event bumps
// the state version before the notification is emitted, so every older cache
// stamp is already reported stale by the time the UI reacts.
func (e *Engine) Run(ctx context.Context, events <-chan watcher.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Degraded != nil {
				e.hub.emit(WatcherDegraded{Err: ev.Degraded})
				continue
			}
			e.BumpVersion()
			e.evictUnreachable()
			e.hub.emit(FilesystemChanged{})
		}
	}
}

// evictUnreachable drops per-file cache entries whose file no longer exists,
// in one bounded pass. Staleness handles correctness; this only bounds memory.
func (e *Engine) evictUnreachable() {
	root := e.handle.Path()
	e.cache.Evict(func(key JobKey) bool {
		if key.Kind != KindBlame && key.Kind != KindDiff {
			return false
		}
		path := key.Arg
		if i := strings.IndexByte(path, '\x00'); i >= 0 {
			path = path[:i]
		}
		_, err := os.Stat(filepath.Join(root, path))
		return os.IsNotExist(err)
	}, evictPassLimit)
}

// Close cancels in-flight jobs and waits for them to unwind. The hub is
// released first so a worker blocked on a full notification buffer can
// escape; cancelling the records kills any hung subprocess via its context.
func (e *Engine) Close() {
	e.hub.close()
	e.pool.CancelAll()
	e.pool.Wait()
}
