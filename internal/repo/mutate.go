// internal/repo/mutate.go
package repo

import (
	"context"
	"fmt"
	"strings"
)

// Mutating operations. The engine serializes these per repository; the
// cross-process flock inside runExclusive covers other processes.

func (h *Handle) Stage(ctx context.Context, path string) error {
	_, err := h.run.runExclusive(ctx, "add", "--", path)
	return err
}

func (h *Handle) StageAll(ctx context.Context) error {
	_, err := h.run.runExclusive(ctx, "add", "--all")
	return err
}

func (h *Handle) Unstage(ctx context.Context, path string) error {
	_, err := h.run.runExclusive(ctx, "restore", "--staged", "--", path)
	return err
}

// DiscardWorktree throws away unstaged changes to path.
func (h *Handle) DiscardWorktree(ctx context.Context, path string) error {
	_, err := h.run.runExclusive(ctx, "checkout", "--", path)
	return err
}

func (h *Handle) Commit(ctx context.Context, message string) error {
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("empty commit message")
	}
	_, err := h.run.runExclusive(ctx, "commit", "-m", message)
	return err
}

func (h *Handle) Checkout(ctx context.Context, ref string) error {
	_, err := h.run.runExclusive(ctx, "checkout", ref)
	return err
}

func (h *Handle) CreateBranch(ctx context.Context, name string) error {
	_, err := h.run.runExclusive(ctx, "checkout", "-b", name)
	return err
}

func (h *Handle) CreateTag(ctx context.Context, name, message string) error {
	args := []string{"tag"}
	if message != "" {
		args = append(args, "-a", "-m", message)
	}
	args = append(args, name)
	_, err := h.run.runExclusive(ctx, args...)
	return err
}

func (h *Handle) StashSave(ctx context.Context, message string) error {
	args := []string{"stash", "push", "--include-untracked"}
	if message != "" {
		args = append(args, "-m", message)
	}
	_, err := h.run.runExclusive(ctx, args...)
	return err
}

func (h *Handle) StashPop(ctx context.Context, index int) error {
	_, err := h.run.runExclusive(ctx, "stash", "pop", fmt.Sprintf("stash@{%d}", index))
	return err
}

func (h *Handle) StashDrop(ctx context.Context, index int) error {
	_, err := h.run.runExclusive(ctx, "stash", "drop", fmt.Sprintf("stash@{%d}", index))
	return err
}
