// internal/watcher/notifier.go
package watcher

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"context"

	"github.com/fsnotify/fsnotify"
)

// Notifier watches a repository's working tree and metadata directory with
// fsnotify and emits debounced change events. If watch setup fails (missing
// inotify budget, unsupported filesystem) it degrades to polling and reports
// that once as a non-fatal warning event.
type Notifier struct {
	root     string
	gitDir   string
	interval time.Duration // poll fallback interval

	events chan Event
	deb    *debouncer
	fs     *fsnotify.Watcher
	fallbk *poller
}

// New builds a Notifier for the worktree at root with metadata at gitDir.
func New(root, gitDir string, debounce, pollInterval time.Duration) *Notifier {
	n := &Notifier{
		root:     root,
		gitDir:   gitDir,
		interval: pollInterval,
		events:   make(chan Event, 16),
	}
	n.deb = newDebouncer(debounce, n.emit)
	return n
}

func (n *Notifier) Events() <-chan Event { return n.events }

func (n *Notifier) Quiet(d time.Duration) { n.deb.quiet(d) }

func (n *Notifier) emit() {
	select {
	case n.events <- Event{Time: time.Now()}:
	default:
		// Consumer is behind; it will still see the earlier queued event.
	}
}

// Run watches until ctx is done. Blocking; callers run it on its own
// goroutine (the one dedicated watcher thread).
func (n *Notifier) Run(ctx context.Context) {
	defer n.deb.stop()

	if err := n.setup(); err != nil {
		n.degrade(ctx, err)
		return
	}
	defer func() { _ = n.fs.Close() }()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-n.fs.Events:
			if !ok {
				return
			}
			if ignoreEvent(ev.Name) {
				continue
			}
			// New directories must be added while watching, since
			// fsnotify watches are not recursive.
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = addRecursive(n.fs, ev.Name)
				}
			}
			n.deb.observe()
		case _, ok := <-n.fs.Errors:
			if !ok {
				return
			}
			// Transient; the poll fallback exists for setup failure,
			// not for individual event errors.
		}
	}
}

func (n *Notifier) setup() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := addRecursive(w, n.root); err != nil {
		_ = w.Close()
		return err
	}

	// Metadata targets. Individual misses are fine: not every repo has
	// every ref directory yet.
	for _, t := range []string{
		n.gitDir, // HEAD, index, MERGE_HEAD, FETCH_HEAD, packed-refs
		filepath.Join(n.gitDir, "refs"),
		filepath.Join(n.gitDir, "refs", "heads"),
		filepath.Join(n.gitDir, "refs", "tags"),
		filepath.Join(n.gitDir, "refs", "remotes"),
	} {
		if info, err := os.Stat(t); err == nil && info.IsDir() {
			_ = w.Add(t)
		}
	}

	n.fs = w
	return nil
}

// degrade emits the one-time warning and polls until ctx is done.
func (n *Notifier) degrade(ctx context.Context, cause error) {
	select {
	case n.events <- Event{Time: time.Now(), Degraded: cause}:
	case <-ctx.Done():
		return
	}

	n.fallbk = newPoller(n.root, n.interval)
	n.fallbk.run(ctx, n.deb.observe)
}

// Close stops pending emissions. The events channel stays open: a late timer
// callback must never race a close, and consumers exit via their context.
func (n *Notifier) Close() error {
	n.deb.stop()
	return nil
}

// addRecursive walks root and watches every directory except git internals,
// which are covered separately by the curated metadata targets.
func addRecursive(w *fsnotify.Watcher, root string) error {
	rootErr := w.Add(root)
	if rootErr != nil {
		return rootErr
	}
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" {
			return filepath.SkipDir
		}
		if path == root {
			return nil
		}
		// Watch-limit exhaustion on a subdirectory is not worth failing
		// setup over; the debounced signal is best-effort anyway.
		_ = w.Add(path)
		return nil
	})
}

// ignoreEvent filters noise that must never trigger a refresh, above all
// git's own transient lock files: re-running git while it holds a lock is
// exactly the feedback loop the quiet window exists to prevent.
func ignoreEvent(path string) bool {
	base := filepath.Base(path)
	if strings.HasSuffix(base, ".lock") {
		return true
	}
	if strings.HasSuffix(base, ".swp") || strings.HasSuffix(base, ".swo") ||
		strings.HasSuffix(base, "~") || strings.HasPrefix(base, ".#") {
		return true
	}
	if base == "COMMIT_EDITMSG" || base == "gc.log" {
		return true
	}
	return false
}
