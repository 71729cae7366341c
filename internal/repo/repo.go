// internal/repo/repo.go

// Package repo wraps the native repository libraries behind a single-owner
// Handle. Every method is synchronous and potentially slow; callers run them
// on worker goroutines, never on the UI loop. Read methods are safe to call
// concurrently; mutating methods must be serialized by the caller.
package repo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
)

// Handle is the owned connection to one repository. Reads go through go-git;
// mutations and remote transfer shell out to the git binary.
type Handle struct {
	path   string // worktree root, absolute
	gitDir string // resolved .git directory (worktree-aware)
	repo   *git.Repository
	run    *runner
}

// Open validates path and opens the repository.
func Open(path string) (*Handle, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	r, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%s: %w", abs, ErrNotARepository)
		}
		return nil, err
	}

	root, err := worktreeRoot(abs)
	if err != nil {
		return nil, err
	}

	gitDir, err := resolveGitDir(root)
	if err != nil {
		return nil, err
	}

	return &Handle{
		path:   root,
		gitDir: gitDir,
		repo:   r,
		run:    newRunner(root, gitDir),
	}, nil
}

// Path returns the worktree root.
func (h *Handle) Path() string { return h.path }

// GitDir returns the resolved metadata directory, for the watcher.
func (h *Handle) GitDir() string { return h.gitDir }

func worktreeRoot(start string) (string, error) {
	cur := start
	if fi, err := os.Stat(cur); err == nil && !fi.IsDir() {
		cur = filepath.Dir(cur)
	}
	for {
		if _, err := os.Stat(filepath.Join(cur, ".git")); err == nil {
			return cur, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", fmt.Errorf("%s: %w", start, ErrNotARepository)
		}
		cur = parent
	}
}

// resolveGitDir handles linked worktrees where .git is a file containing
// "gitdir: <path>".
func resolveGitDir(root string) (string, error) {
	gitPath := filepath.Join(root, ".git")

	info, err := os.Stat(gitPath)
	if err != nil {
		return "", fmt.Errorf("%s: %w", root, ErrNotARepository)
	}
	if info.IsDir() {
		return gitPath, nil
	}

	content, err := os.ReadFile(gitPath)
	if err != nil {
		return "", err
	}
	line := strings.TrimSpace(string(content))
	if !strings.HasPrefix(line, "gitdir:") {
		return "", fmt.Errorf("%s: malformed .git file", root)
	}
	dir := strings.TrimSpace(strings.TrimPrefix(line, "gitdir:"))
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}
	return dir, nil
}

// checkCancel is the cooperative cancellation point used between native
// sub-calls in multi-step reads.
func checkCancel(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
