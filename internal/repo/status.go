// internal/repo/status.go
package repo

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	git "github.com/go-git/go-git/v5"

	"github.com/quartzind/lit/internal/model"
)

// Status reads the full working tree and index state. Supplementary
// lookups (stash count, ahead/behind) are independent and run in parallel.
func (h *Handle) Status(ctx context.Context) (*model.StatusSnapshot, error) {
	snap := &model.StatusSnapshot{TakenAt: time.Now()}

	if err := h.readHead(snap); err != nil {
		return nil, err
	}

	wt, err := h.repo.Worktree()
	if err != nil {
		return nil, err
	}
	st, err := wt.Status()
	if err != nil {
		return nil, err
	}
	fillFileStatus(st, snap)

	if err := checkCancel(ctx); err != nil {
		return nil, err
	}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		out, err := h.run.run(ctx, "stash", "list")
		if err == nil {
			snap.Stashes = countLines(out)
		}
	}()

	go func() {
		defer wg.Done()
		snap.Upstream, snap.Ahead, snap.Behind = h.tracking(ctx)
	}()

	// Special-state probes are filesystem-only, no goroutine needed.
	h.checkSpecialStates(snap)

	wg.Wait()
	return snap, nil
}

func (h *Handle) readHead(snap *model.StatusSnapshot) error {
	head, err := h.repo.Head()
	if err != nil {
		// Unborn branch (fresh init): no HEAD yet, status is still valid.
		snap.Branch = ""
		return nil
	}
	if head.Name().IsBranch() {
		snap.Branch = head.Name().Short()
	} else {
		snap.DetachedHead = true
	}
	hash := head.Hash().String()
	if len(hash) >= 7 {
		snap.CommitHash = hash[:7]
	}
	return nil
}

func fillFileStatus(st git.Status, snap *model.StatusSnapshot) {
	paths := make([]string, 0, len(st))
	for p := range st {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		fs := st[p]
		if fs.Staging == git.Untracked && fs.Worktree == git.Untracked {
			snap.Unstaged = append(snap.Unstaged, model.FileStatus{
				Path: p, Code: '?', Stage: model.StageWorktree,
			})
			continue
		}
		if fs.Staging != git.Unmodified {
			snap.Staged = append(snap.Staged, model.FileStatus{
				Path:     p,
				OrigPath: fs.Extra,
				Code:     byte(fs.Staging),
				Stage:    model.StageIndex,
			})
		}
		if fs.Worktree != git.Unmodified {
			snap.Unstaged = append(snap.Unstaged, model.FileStatus{
				Path:  p,
				Code:  byte(fs.Worktree),
				Stage: model.StageWorktree,
			})
		}
	}
}

// tracking reads the upstream name and ahead/behind counts. go-git has no
// direct ahead/behind query, so this uses rev-list the way git itself does.
func (h *Handle) tracking(ctx context.Context) (string, int, int) {
	upstream, err := h.run.run(ctx, "rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{upstream}")
	if err != nil {
		return "", 0, 0
	}
	upstream = strings.TrimSpace(upstream)

	out, err := h.run.run(ctx, "rev-list", "--left-right", "--count", "HEAD...@{upstream}")
	if err != nil {
		return upstream, 0, 0
	}
	fields := strings.Fields(strings.TrimSpace(out))
	if len(fields) != 2 {
		return upstream, 0, 0
	}
	ahead, _ := strconv.Atoi(fields[0])
	behind, _ := strconv.Atoi(fields[1])
	return upstream, ahead, behind
}

func (h *Handle) checkSpecialStates(snap *model.StatusSnapshot) {
	checks := []struct {
		path string
		flag *bool
	}{
		{filepath.Join(h.gitDir, "MERGE_HEAD"), &snap.MergeHead},
		{filepath.Join(h.gitDir, "CHERRY_PICK_HEAD"), &snap.CherryPick},
		{filepath.Join(h.gitDir, "REVERT_HEAD"), &snap.Reverting},
		{filepath.Join(h.gitDir, "BISECT_LOG"), &snap.Bisecting},
	}
	for _, c := range checks {
		if _, err := os.Stat(c.path); err == nil {
			*c.flag = true
		}
	}

	// Rebase state can live in either directory.
	for _, p := range []string{
		filepath.Join(h.gitDir, "rebase-merge"),
		filepath.Join(h.gitDir, "rebase-apply"),
	} {
		if _, err := os.Stat(p); err == nil {
			snap.RebaseHead = true
			break
		}
	}
}

func countLines(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
