// internal/repo/remote.go
package repo

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ProgressFunc receives transfer progress as a fraction in [0,1].
type ProgressFunc func(fraction float64)

func (h *Handle) Fetch(ctx context.Context, progress ProgressFunc) error {
	return h.runRemote(ctx, progress, "fetch", "--prune", "--progress")
}

func (h *Handle) Push(ctx context.Context, progress ProgressFunc) error {
	return h.runRemote(ctx, progress, "push", "--progress")
}

func (h *Handle) Pull(ctx context.Context, progress ProgressFunc) error {
	return h.runRemote(ctx, progress, "pull", "--progress")
}

// runRemote executes a network git command, streaming its sideband progress
// lines into the callback. No timeout: remote transfer is cancelled only by
// the user via ctx.
func (h *Handle) runRemote(ctx context.Context, progress ProgressFunc, args ...string) error {
	if err := h.run.acquireLock(ctx); err != nil {
		return err
	}
	defer func() { _ = h.run.lock.Unlock() }()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = h.path

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}

	var tail []string
	scanner := bufio.NewScanner(stderr)
	scanner.Split(scanProgressLines)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if f, ok := parseProgressLine(line); ok && progress != nil {
			progress(f)
			continue
		}
		tail = append(tail, line)
		if len(tail) > 10 {
			tail = tail[1:]
		}
	}

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if len(tail) > 0 {
			return fmt.Errorf("git %s: %s", args[0], strings.Join(tail, "; "))
		}
		return fmt.Errorf("git %s: %w", args[0], err)
	}
	if progress != nil {
		progress(1)
	}
	return nil
}

// scanProgressLines splits on both \n and \r, since git rewrites progress
// lines in place with carriage returns.
func scanProgressLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// parseProgressLine extracts the percentage from lines like
// "Receiving objects:  42% (10/24)" or "Compressing objects: 100% (5/5), done."
func parseProgressLine(line string) (float64, bool) {
	i := strings.IndexByte(line, '%')
	if i <= 0 {
		return 0, false
	}
	j := i - 1
	for j >= 0 && line[j] >= '0' && line[j] <= '9' {
		j--
	}
	if j == i-1 {
		return 0, false
	}
	n, err := strconv.Atoi(line[j+1 : i])
	if err != nil || n < 0 || n > 100 {
		return 0, false
	}
	return float64(n) / 100, true
}
