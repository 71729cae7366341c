// internal/engine/pool.go
package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Ticket identifies one caller's interest in a submitted job. Done is closed
// when the execution the caller attached to finishes or is cancelled.
type Ticket struct {
	ID   uuid.UUID
	Done <-chan struct{}
}

// record is the in-flight bookkeeping for one job key. Owned by the pool;
// removed on completion or cancellation.
type record struct {
	id        uuid.UUID
	key       JobKey
	ctx       context.Context
	cancel    context.CancelFunc
	cancelled atomic.Bool
	started   time.Time
	waiters   int
	done      chan struct{}
}

// Pool runs jobs on a bounded set of goroutines. It deduplicates in-flight
// keys and serializes mutating jobs against all other jobs on the same
// repository; read-only jobs run concurrently with each other.
type Pool struct {
	sem      chan struct{}
	repoMu   sync.RWMutex // reads share, mutations exclusive
	mu       sync.Mutex
	inflight map[JobKey]*record
	wg       sync.WaitGroup
}

func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		sem:      make(chan struct{}, workers),
		inflight: make(map[JobKey]*record),
	}
}

// Submit schedules run under key. Non-blocking: if key is already in flight
// the caller attaches to the existing execution and no new one starts.
func (p *Pool) Submit(key JobKey, mutating bool, run func(ctx context.Context)) Ticket {
	p.mu.Lock()
	if rec, ok := p.inflight[key]; ok {
		rec.waiters++
		p.mu.Unlock()
		return Ticket{ID: rec.id, Done: rec.done}
	}

	ctx, cancel := context.WithCancel(context.Background())
	rec := &record{
		id:      uuid.New(),
		key:     key,
		ctx:     ctx,
		cancel:  cancel,
		started: time.Now(),
		waiters: 1,
		done:    make(chan struct{}),
	}
	p.inflight[key] = rec
	p.mu.Unlock()

	p.wg.Add(1)
	go p.execute(rec, mutating, run)

	return Ticket{ID: rec.id, Done: rec.done}
}

func (p *Pool) execute(rec *record, mutating bool, run func(ctx context.Context)) {
	defer p.wg.Done()
	defer p.finish(rec)

	select {
	case p.sem <- struct{}{}:
	case <-rec.ctx.Done():
		return
	}
	defer func() { <-p.sem }()

	if mutating {
		p.repoMu.Lock()
		defer p.repoMu.Unlock()
	} else {
		p.repoMu.RLock()
		defer p.repoMu.RUnlock()
	}

	// Last cancellation check before any native call can start.
	if rec.cancelled.Load() || rec.ctx.Err() != nil {
		return
	}
	run(rec.ctx)
}

func (p *Pool) finish(rec *record) {
	p.mu.Lock()
	if cur, ok := p.inflight[rec.key]; ok && cur == rec {
		delete(p.inflight, rec.key)
	}
	p.mu.Unlock()
	rec.cancel()
	close(rec.done)
}

// Cancel flags the in-flight job for key, if any. Cooperative: a job already
// inside a native call runs that call to completion, but its result delivery
// is suppressed.
func (p *Pool) Cancel(key JobKey) bool {
	p.mu.Lock()
	rec, ok := p.inflight[key]
	p.mu.Unlock()
	if !ok {
		return false
	}
	rec.cancelled.Store(true)
	rec.cancel()
	return true
}

// CancelAll cancels every in-flight job. For shutdown: a remote transfer
// carries no internal timeout, so process exit depends on this.
func (p *Pool) CancelAll() {
	p.mu.Lock()
	recs := make([]*record, 0, len(p.inflight))
	for _, rec := range p.inflight {
		recs = append(recs, rec)
	}
	p.mu.Unlock()

	for _, rec := range recs {
		rec.cancelled.Store(true)
		rec.cancel()
	}
}

// InFlight reports whether key currently has an execution.
func (p *Pool) InFlight(key JobKey) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.inflight[key]
	return ok
}

// Running returns how long the in-flight job for key has been executing.
func (p *Pool) Running(key JobKey) (time.Duration, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	rec, ok := p.inflight[key]
	if !ok {
		return 0, false
	}
	return time.Since(rec.started), true
}

// Wait blocks until all in-flight jobs have finished. For shutdown.
func (p *Pool) Wait() { p.wg.Wait() }
