// internal/engine/pool_test.go
package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPool_DeduplicatesInFlightKeys(t *testing.T) {
	p := NewPool(4)
	key := JobKey{Kind: KindStatus}

	var executions atomic.Int32
	release := make(chan struct{})
	started := make(chan struct{})

	run := func(ctx context.Context) {
		executions.Add(1)
		close(started)
		<-release
	}

	t1 := p.Submit(key, false, run)
	<-started

	// These attach to the running execution instead of starting new ones.
	t2 := p.Submit(key, false, func(ctx context.Context) { executions.Add(1) })
	t3 := p.Submit(key, false, func(ctx context.Context) { executions.Add(1) })

	if t1.ID != t2.ID || t1.ID != t3.ID {
		t.Error("duplicate submits should share the execution's ticket ID")
	}

	close(release)
	<-t1.Done
	<-t2.Done
	<-t3.Done

	if got := executions.Load(); got != 1 {
		t.Errorf("executions = %d, want 1", got)
	}

	// After completion the key is free again.
	done := p.Submit(key, false, func(ctx context.Context) {})
	<-done.Done
	if got := executions.Load(); got != 1 {
		t.Errorf("executions = %d, want 1 (second run has its own fn)", got)
	}
}

func TestPool_CancelBeforeStart(t *testing.T) {
	p := NewPool(1)

	blockRelease := make(chan struct{})
	blockStarted := make(chan struct{})
	p.Submit(JobKey{Kind: KindLog}, false, func(ctx context.Context) {
		close(blockStarted)
		<-blockRelease
	})
	<-blockStarted

	// The single worker slot is held, so this job is queued on the semaphore.
	var ran atomic.Bool
	key := JobKey{Kind: KindDiff, Arg: "x"}
	ticket := p.Submit(key, false, func(ctx context.Context) { ran.Store(true) })

	if !p.Cancel(key) {
		t.Fatal("Cancel should find the queued job")
	}
	<-ticket.Done

	close(blockRelease)
	p.Wait()

	if ran.Load() {
		t.Error("cancelled job must not run its native call")
	}
	if p.InFlight(key) {
		t.Error("cancelled job should be removed from in-flight")
	}
}

func TestPool_CancelAllStopsQueuedAndRunning(t *testing.T) {
	p := NewPool(1)

	started := make(chan struct{})
	p.Submit(JobKey{Kind: KindFetch}, false, func(ctx context.Context) {
		close(started)
		<-ctx.Done()
	})
	<-started

	var ran atomic.Bool
	p.Submit(JobKey{Kind: KindStatus}, false, func(ctx context.Context) { ran.Store(true) })

	p.CancelAll()
	p.Wait()

	if ran.Load() {
		t.Error("queued job must not run after CancelAll")
	}
}

func TestPool_CancelUnknownKey(t *testing.T) {
	p := NewPool(1)
	if p.Cancel(JobKey{Kind: KindFetch}) {
		t.Error("Cancel of an idle key should report false")
	}
}

func TestPool_MutationExclusive(t *testing.T) {
	p := NewPool(4)

	// Two reads and one mutation. The mutation must never overlap the reads.
	var mutActive atomic.Bool
	var overlapped atomic.Bool

	read := func(ctx context.Context) {
		for i := 0; i < 10; i++ {
			if mutActive.Load() {
				overlapped.Store(true)
			}
			time.Sleep(2 * time.Millisecond)
		}
	}
	mutate := func(ctx context.Context) {
		mutActive.Store(true)
		time.Sleep(20 * time.Millisecond)
		mutActive.Store(false)
	}

	p.Submit(JobKey{Kind: KindStatus}, false, read)
	p.Submit(JobKey{Kind: KindLog}, false, read)
	p.Submit(JobKey{Kind: KindCommit}, true, mutate)
	p.Submit(JobKey{Kind: KindBranches}, false, read)
	p.Wait()

	if overlapped.Load() {
		t.Error("a read observed a mutation in progress")
	}
}

func TestPool_ReadsRunConcurrently(t *testing.T) {
	p := NewPool(4)

	var wg sync.WaitGroup
	wg.Add(2)
	barrier := make(chan struct{})

	// Both reads block until both have started; deadlocks if serialized.
	meet := func(ctx context.Context) {
		wg.Done()
		select {
		case <-barrier:
		case <-time.After(2 * time.Second):
			t.Error("reads did not overlap")
		}
	}
	p.Submit(JobKey{Kind: KindStatus}, false, meet)
	p.Submit(JobKey{Kind: KindLog}, false, meet)

	wg.Wait()
	close(barrier)
	p.Wait()
}

func TestPool_RunningDuration(t *testing.T) {
	p := NewPool(1)
	key := JobKey{Kind: KindStatus}

	release := make(chan struct{})
	started := make(chan struct{})
	p.Submit(key, false, func(ctx context.Context) {
		close(started)
		<-release
	})
	<-started

	if _, ok := p.Running(key); !ok {
		t.Error("Running should report the in-flight job")
	}
	close(release)
	p.Wait()

	if _, ok := p.Running(key); ok {
		t.Error("Running should report nothing after completion")
	}
}
