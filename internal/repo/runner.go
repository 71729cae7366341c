// internal/repo/runner.go
package repo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const gitTimeout = 5 * time.Second

// runner shells out to the git binary for the operations where the CLI is
// the stable surface (stage/commit/checkout/stash and remote transfer).
type runner struct {
	dir  string
	lock *flock.Flock // guards mutating calls against other lit processes
}

func newRunner(dir, gitDir string) *runner {
	return &runner{
		dir:  dir,
		lock: flock.New(filepath.Join(gitDir, "lit.lock")),
	}
}

// run executes a read-only git command with a bounded timeout.
func (r *runner) run(ctx context.Context, args ...string) (string, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, gitTimeout)
	defer cancel()
	return r.exec(cmdCtx, args...)
}

// runExclusive executes a mutating git command under the cross-process lock.
// git holds its own index.lock, but the flock keeps two lit instances from
// interleaving multi-command operations.
func (r *runner) runExclusive(ctx context.Context, args ...string) (string, error) {
	if err := r.acquireLock(ctx); err != nil {
		return "", err
	}
	defer func() { _ = r.lock.Unlock() }()

	return r.exec(ctx, args...)
}

// acquireLock takes the cross-process flock with a bounded wait. A holder
// that does not yield within the timeout is reported as lock contention.
func (r *runner) acquireLock(ctx context.Context) error {
	lockCtx, cancel := context.WithTimeout(ctx, gitTimeout)
	defer cancel()

	locked, err := r.lock.TryLockContext(lockCtx, 100*time.Millisecond)
	if locked {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) || err == nil {
		return ErrLockContention
	}
	return fmt.Errorf("acquire repo lock: %w", err)
}

// runDiff executes a diff invocation with a bounded timeout. Unlike run, an
// exit status of 1 is success: for --no-index it only means the files differ.
func (r *runner) runDiff(ctx context.Context, args ...string) (string, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, gitTimeout)
	defer cancel()

	out, err := r.exec(cmdCtx, args...)
	var xe *exitStatusError
	if errors.As(err, &xe) && xe.code == 1 {
		return xe.stdout, nil
	}
	return out, err
}

// exitStatusError preserves exit code and stdout for callers that treat some
// non-zero statuses as success.
type exitStatusError struct {
	code   int
	stdout string
	msg    string
}

func (e *exitStatusError) Error() string { return e.msg }

func (r *runner) exec(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		msg := fmt.Sprintf("git %s: %v", args[0], err)
		if s := bytes.TrimSpace(stderr.Bytes()); len(s) > 0 {
			msg = fmt.Sprintf("git %s: %s", args[0], s)
		}
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			return "", &exitStatusError{code: ee.ExitCode(), stdout: stdout.String(), msg: msg}
		}
		return "", errors.New(msg)
	}

	return stdout.String(), nil
}
