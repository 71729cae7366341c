// internal/engine/engine_test.go
package engine

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quartzind/lit/internal/repo"
	"github.com/quartzind/lit/internal/watcher"
)

// nextNotification pulls one notification or fails the test after a timeout.
func nextNotification(t *testing.T, e *Engine) Notification {
	t.Helper()
	select {
	case n := <-e.Notifications():
		return n
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification")
		return nil
	}
}

func TestEngine_ReadCachesAndNotifies(t *testing.T) {
	e := New(nil, Options{Workers: 2})
	key := JobKey{Kind: KindStatus}

	ticket := e.Submit(key, func(ctx context.Context) (any, error) {
		return "snapshot", nil
	})
	<-ticket.Done

	n := nextNotification(t, e)
	upd, ok := n.(Updated)
	require.True(t, ok, "want Updated, got %T", n)
	assert.Equal(t, KindStatus, upd.Kind)

	value, stale, ok := e.Get(key)
	require.True(t, ok)
	assert.Equal(t, "snapshot", value)
	assert.False(t, stale, "fresh read must not be stale")
}

func TestEngine_MutationBumpsVersionAndStalesReads(t *testing.T) {
	e := New(nil, Options{Workers: 2})
	readKey := JobKey{Kind: KindLog}

	<-e.Submit(readKey, func(ctx context.Context) (any, error) {
		return "history", nil
	}).Done
	nextNotification(t, e)

	before := e.Version()
	<-e.Submit(JobKey{Kind: KindCommit}, func(ctx context.Context) (any, error) {
		return nil, nil
	}).Done
	nextNotification(t, e)

	assert.Equal(t, before+1, e.Version(), "mutation success bumps the version")

	_, stale, ok := e.Get(readKey)
	require.True(t, ok, "stale entries stay readable as last-known content")
	assert.True(t, stale, "pre-mutation read must now report stale")

	// The mutation's own entry is stamped with the new version.
	_, stale, ok = e.Get(JobKey{Kind: KindCommit})
	require.True(t, ok)
	assert.False(t, stale)
}

func TestEngine_ReRunsReadThatRacedVersionBump(t *testing.T) {
	e := New(nil, Options{Workers: 2})
	key := JobKey{Kind: KindStatus}

	var runs atomic.Int32
	release := make(chan struct{})
	started := make(chan struct{})
	fn := func(ctx context.Context) (any, error) {
		if runs.Add(1) == 1 {
			close(started)
			<-release
		}
		return "snapshot", nil
	}

	first := e.Submit(key, fn)
	<-started

	// External change while the job is mid-flight. A resubmit now can only
	// attach to the execution that will land with the pre-bump stamp.
	e.BumpVersion()
	second := e.Submit(key, fn)
	require.Equal(t, first.ID, second.ID, "resubmit during the race attaches")

	close(release)
	nextNotification(t, e) // the stale landing
	nextNotification(t, e) // the fresh re-run

	_, stale, ok := e.Get(key)
	require.True(t, ok)
	assert.False(t, stale, "the cache must converge without another external event")
	assert.Equal(t, int32(2), runs.Load(), "exactly one re-run")
}

func TestEngine_OnMutationHook(t *testing.T) {
	var called atomic.Int32
	e := New(nil, Options{Workers: 1, OnMutation: func() { called.Add(1) }})

	<-e.Submit(JobKey{Kind: KindStage, Arg: "f"}, func(ctx context.Context) (any, error) {
		return nil, nil
	}).Done
	nextNotification(t, e)
	assert.Equal(t, int32(1), called.Load())

	// Reads never trigger the hook.
	<-e.Submit(JobKey{Kind: KindStatus}, func(ctx context.Context) (any, error) {
		return nil, nil
	}).Done
	nextNotification(t, e)
	assert.Equal(t, int32(1), called.Load())
}

func TestEngine_FailedMutationLeavesVersionAlone(t *testing.T) {
	e := New(nil, Options{Workers: 1})

	before := e.Version()
	<-e.Submit(JobKey{Kind: KindCommit}, func(ctx context.Context) (any, error) {
		return nil, errors.New("error: pathspec 'x' did not match")
	}).Done

	n := nextNotification(t, e)
	je, ok := n.(JobError)
	require.True(t, ok, "want JobError, got %T", n)
	assert.Equal(t, KindCommit, je.Kind)
	assert.Equal(t, repo.ErrorNativeCallFailed, je.Class)
	assert.Equal(t, before, e.Version(), "failed mutation must not bump the version")

	_, _, ok = e.Get(JobKey{Kind: KindCommit})
	assert.False(t, ok, "failed job must not write the cache")
}

func TestEngine_JobErrorClassification(t *testing.T) {
	e := New(nil, Options{Workers: 1})

	<-e.Submit(JobKey{Kind: KindFetch}, func(ctx context.Context) (any, error) {
		return nil, errors.New("fatal: Could not resolve host: github.com")
	}).Done

	n := nextNotification(t, e)
	je, ok := n.(JobError)
	require.True(t, ok)
	assert.Equal(t, repo.ErrorNetworkUnavailable, je.Class)
}

func TestEngine_RetryOnLockContention(t *testing.T) {
	e := New(nil, Options{Workers: 1})

	var attempts atomic.Int32
	<-e.Submit(JobKey{Kind: KindStatus}, func(ctx context.Context) (any, error) {
		if attempts.Add(1) < 3 {
			return nil, repo.ErrLockContention
		}
		return "ok", nil
	}).Done

	n := nextNotification(t, e)
	_, ok := n.(Updated)
	require.True(t, ok, "retried read should succeed, got %T", n)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestEngine_RetryBoundIsThreeCalls(t *testing.T) {
	e := New(nil, Options{Workers: 1})

	var attempts atomic.Int32
	<-e.Submit(JobKey{Kind: KindLog}, func(ctx context.Context) (any, error) {
		attempts.Add(1)
		return nil, repo.ErrLockContention
	}).Done

	n := nextNotification(t, e)
	je, ok := n.(JobError)
	require.True(t, ok)
	assert.Equal(t, repo.ErrorLockContention, je.Class)
	assert.Equal(t, int32(3), attempts.Load(), "initial call plus two retries")
}

func TestEngine_MutationNeverRetried(t *testing.T) {
	e := New(nil, Options{Workers: 1})

	var attempts atomic.Int32
	<-e.Submit(JobKey{Kind: KindCommit}, func(ctx context.Context) (any, error) {
		attempts.Add(1)
		return nil, repo.ErrLockContention
	}).Done

	n := nextNotification(t, e)
	je, ok := n.(JobError)
	require.True(t, ok)
	assert.Equal(t, repo.ErrorLockContention, je.Class)
	assert.Equal(t, int32(1), attempts.Load(), "mutations are not blind-retried")
}

func TestEngine_CancelSuppressesDelivery(t *testing.T) {
	e := New(nil, Options{Workers: 1})

	// Hold the only worker so the second job cannot start.
	release := make(chan struct{})
	started := make(chan struct{})
	holdKey := JobKey{Kind: KindLog}
	e.Submit(holdKey, func(ctx context.Context) (any, error) {
		close(started)
		<-release
		return nil, nil
	})
	<-started

	cancelKey := JobKey{Kind: KindBlame, Arg: "f.go"}
	ticket := e.Submit(cancelKey, func(ctx context.Context) (any, error) {
		return "never delivered", nil
	})
	e.Cancel(cancelKey)
	<-ticket.Done

	close(release)
	e.pool.Wait()

	// Exactly one notification: the held job's Updated. Nothing for the
	// cancelled key.
	n := nextNotification(t, e)
	upd, ok := n.(Updated)
	require.True(t, ok)
	assert.Equal(t, KindLog, upd.Kind)

	select {
	case n := <-e.Notifications():
		t.Fatalf("unexpected notification %T for cancelled job", n)
	case <-time.After(50 * time.Millisecond):
	}

	_, _, ok = e.Get(cancelKey)
	assert.False(t, ok, "cancelled job must not write the cache")
}

func TestEngine_CloseCancelsInFlightJobs(t *testing.T) {
	e := New(nil, Options{Workers: 1})

	started := make(chan struct{})
	e.Submit(JobKey{Kind: KindFetch}, func(ctx context.Context) (any, error) {
		close(started)
		<-ctx.Done() // a stalled transfer: no internal timeout
		return nil, ctx.Err()
	})
	<-started

	done := make(chan struct{})
	go func() {
		e.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close must cancel the in-flight job instead of waiting it out")
	}
}

func TestEngine_RunHandlesWatcherEvents(t *testing.T) {
	dir := initGitRepo(t)
	h, err := repo.Open(dir)
	require.NoError(t, err)

	e := New(h, Options{Workers: 1})

	// A cached diff for a file that no longer exists on disk is evicted by
	// the change event; one for an existing file survives.
	writeFile(t, dir, "kept.go", "package kept")
	e.cache.Put(DiffKey("kept.go", false), "diff", e.Version())
	e.cache.Put(DiffKey("gone.go", false), "diff", e.Version())

	events := make(chan watcher.Event, 2)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go e.Run(ctx, events)

	before := e.Version()
	events <- watcher.Event{Time: time.Now()}

	n := nextNotification(t, e)
	_, ok := n.(FilesystemChanged)
	require.True(t, ok, "want FilesystemChanged, got %T", n)
	assert.Equal(t, before+1, e.Version(), "external change bumps the version")

	_, _, ok = e.cache.Get(DiffKey("gone.go", false))
	assert.False(t, ok, "entry for the missing file should be evicted")
	_, _, ok = e.cache.Get(DiffKey("kept.go", false))
	assert.True(t, ok, "entry for the existing file stays")

	events <- watcher.Event{Time: time.Now(), Degraded: errors.New("inotify watch limit reached")}
	n = nextNotification(t, e)
	wd, ok := n.(WatcherDegraded)
	require.True(t, ok, "want WatcherDegraded, got %T", n)
	assert.Error(t, wd.Err)
	assert.Equal(t, before+1, e.Version(), "degradation does not bump the version")
}

func initGitRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH")
	}
	dir := t.TempDir()
	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.email", "test@test.com")
	runGit(t, dir, "config", "user.name", "Test")
	return dir
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
