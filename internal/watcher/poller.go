// internal/watcher/poller.go
package watcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os/exec"
	"time"
)

// poller is the degraded fallback when fsnotify setup fails: it hashes
// `git status` output at a coarse interval and reports on any change.
type poller struct {
	dir      string
	interval time.Duration
	last     string
}

func newPoller(dir string, interval time.Duration) *poller {
	if interval < time.Second {
		interval = time.Second
	}
	return &poller{dir: dir, interval: interval}
}

func (p *poller) run(ctx context.Context, onChange func()) {
	// Baseline so the first tick doesn't report a phantom change.
	p.last = p.statusHash(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			current := p.statusHash(ctx)
			if current == "" {
				continue // git failed, skip to avoid phantom changes
			}
			if current != p.last {
				p.last = current
				onChange()
			}
		}
	}
}

// statusHash hashes porcelain status plus the stash tip so stash operations
// are detected too. Empty string means git itself failed.
func (p *poller) statusHash(ctx context.Context) string {
	statusCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(statusCtx, "git", "-C", p.dir, "status", "--porcelain=v2", "--branch")
	output, err := cmd.Output()
	if err != nil {
		return ""
	}

	stashCtx, stashCancel := context.WithTimeout(ctx, 3*time.Second)
	defer stashCancel()

	stashCmd := exec.CommandContext(stashCtx, "git", "-C", p.dir, "rev-parse", "refs/stash")
	stashOutput, _ := stashCmd.Output()

	h := sha256.New()
	h.Write(output)
	h.Write(stashOutput)
	return hex.EncodeToString(h.Sum(nil))
}
