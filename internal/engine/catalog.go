// internal/engine/catalog.go
package engine

import (
	"context"

	"github.com/quartzind/lit/internal/model"
)

// Typed submit helpers, one per job kind, so callers never build closures or
// keys by hand and the pool handles an exhaustive, closed catalogue.

func (e *Engine) RefreshStatus() Ticket {
	return e.Submit(JobKey{Kind: KindStatus}, func(ctx context.Context) (any, error) {
		return e.handle.Status(ctx)
	})
}

func (e *Engine) Diff(path string, staged bool) Ticket {
	return e.Submit(DiffKey(path, staged), func(ctx context.Context) (any, error) {
		return e.handle.DiffFile(ctx, path, staged)
	})
}

func (e *Engine) DiffStats(staged bool) Ticket {
	arg := "unstaged"
	if staged {
		arg = "staged"
	}
	return e.Submit(JobKey{Kind: KindDiffStats, Arg: arg}, func(ctx context.Context) (any, error) {
		return e.handle.DiffStats(ctx, staged)
	})
}

func (e *Engine) Blame(path string) Ticket {
	return e.Submit(JobKey{Kind: KindBlame, Arg: path}, func(ctx context.Context) (any, error) {
		return e.handle.Blame(ctx, path)
	})
}

// Log walks history from ref (empty for HEAD).
func (e *Engine) Log(ref string, limit int) Ticket {
	return e.Submit(JobKey{Kind: KindLog, Arg: ref}, func(ctx context.Context) (any, error) {
		return e.handle.Log(ctx, ref, limit)
	})
}

func (e *Engine) Branches() Ticket {
	return e.Submit(JobKey{Kind: KindBranches}, func(ctx context.Context) (any, error) {
		return e.handle.Branches(ctx)
	})
}

func (e *Engine) Tags() Ticket {
	return e.Submit(JobKey{Kind: KindTags}, func(ctx context.Context) (any, error) {
		return e.handle.Tags(ctx)
	})
}

func (e *Engine) Stashes() Ticket {
	return e.Submit(JobKey{Kind: KindStashes}, func(ctx context.Context) (any, error) {
		return e.handle.Stashes(ctx)
	})
}

func (e *Engine) Fetch() Ticket {
	return e.Submit(JobKey{Kind: KindFetch}, func(ctx context.Context) (any, error) {
		return nil, e.handle.Fetch(ctx, e.progress(KindFetch))
	})
}

func (e *Engine) Push() Ticket {
	return e.Submit(JobKey{Kind: KindPush}, func(ctx context.Context) (any, error) {
		return nil, e.handle.Push(ctx, e.progress(KindPush))
	})
}

func (e *Engine) Pull() Ticket {
	return e.Submit(JobKey{Kind: KindPull}, func(ctx context.Context) (any, error) {
		return nil, e.handle.Pull(ctx, e.progress(KindPull))
	})
}

func (e *Engine) Commit(message string) Ticket {
	return e.Submit(JobKey{Kind: KindCommit}, func(ctx context.Context) (any, error) {
		return nil, e.handle.Commit(ctx, message)
	})
}

func (e *Engine) Stage(path string) Ticket {
	return e.Submit(JobKey{Kind: KindStage, Arg: path}, func(ctx context.Context) (any, error) {
		return nil, e.handle.Stage(ctx, path)
	})
}

func (e *Engine) StageAll() Ticket {
	return e.Submit(JobKey{Kind: KindStageAll}, func(ctx context.Context) (any, error) {
		return nil, e.handle.StageAll(ctx)
	})
}

func (e *Engine) Unstage(path string) Ticket {
	return e.Submit(JobKey{Kind: KindUnstage, Arg: path}, func(ctx context.Context) (any, error) {
		return nil, e.handle.Unstage(ctx, path)
	})
}

func (e *Engine) Discard(path string) Ticket {
	return e.Submit(JobKey{Kind: KindDiscard, Arg: path}, func(ctx context.Context) (any, error) {
		return nil, e.handle.DiscardWorktree(ctx, path)
	})
}

func (e *Engine) Checkout(ref string) Ticket {
	return e.Submit(JobKey{Kind: KindCheckout, Arg: ref}, func(ctx context.Context) (any, error) {
		return nil, e.handle.Checkout(ctx, ref)
	})
}

func (e *Engine) CreateBranch(name string) Ticket {
	return e.Submit(JobKey{Kind: KindCreateBranch, Arg: name}, func(ctx context.Context) (any, error) {
		return nil, e.handle.CreateBranch(ctx, name)
	})
}

func (e *Engine) CreateTag(name, message string) Ticket {
	return e.Submit(JobKey{Kind: KindCreateTag, Arg: name}, func(ctx context.Context) (any, error) {
		return nil, e.handle.CreateTag(ctx, name, message)
	})
}

func (e *Engine) StashSave(message string) Ticket {
	return e.Submit(JobKey{Kind: KindStashSave}, func(ctx context.Context) (any, error) {
		return nil, e.handle.StashSave(ctx, message)
	})
}

func (e *Engine) StashPop(index int) Ticket {
	return e.Submit(JobKey{Kind: KindStashPop}, func(ctx context.Context) (any, error) {
		return nil, e.handle.StashPop(ctx, index)
	})
}

func (e *Engine) StashDrop(index int) Ticket {
	return e.Submit(JobKey{Kind: KindStashDrop}, func(ctx context.Context) (any, error) {
		return nil, e.handle.StashDrop(ctx, index)
	})
}

func (e *Engine) progress(kind JobKind) func(float64) {
	return func(fraction float64) {
		e.hub.emit(Progress{Kind: kind, Fraction: fraction})
	}
}

// CachedStatus is a typed convenience over Get for the most common read.
func (e *Engine) CachedStatus() (*model.StatusSnapshot, bool, bool) {
	v, stale, ok := e.Get(JobKey{Kind: KindStatus})
	if !ok {
		return nil, false, false
	}
	snap, _ := v.(*model.StatusSnapshot)
	return snap, stale, snap != nil
}
