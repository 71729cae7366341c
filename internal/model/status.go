// internal/model/status.go
package model

import "time"

// StageKind identifies which side of the index a file entry describes.
type StageKind int

const (
	StageWorktree StageKind = iota // unstaged change (worktree vs index)
	StageIndex                     // staged change (index vs HEAD)
)

// FileStatus is one entry of the working tree / index status.
type FileStatus struct {
	Path     string
	OrigPath string // set for renames
	Code     byte   // porcelain letter: M, A, D, R, C, U, ?
	Stage    StageKind
}

func (f FileStatus) Untracked() bool { return f.Code == '?' }
func (f FileStatus) Conflicted() bool { return f.Code == 'U' }

// StatusSnapshot is the full repository status at one point in time.
type StatusSnapshot struct {
	Branch       string // current branch name (empty if detached)
	DetachedHead bool
	CommitHash   string // short hash of HEAD
	Upstream     string // tracking remote branch (e.g. "origin/main")
	Ahead        int
	Behind       int

	Staged   []FileStatus
	Unstaged []FileStatus

	// Special states
	Stashes    int
	MergeHead  bool // merge in progress
	RebaseHead bool // rebase in progress
	CherryPick bool
	Reverting  bool
	Bisecting  bool

	TakenAt time.Time
}

func (s *StatusSnapshot) IsDirty() bool {
	return len(s.Staged) > 0 || len(s.Unstaged) > 0
}

func (s *StatusSnapshot) HasSpecialState() bool {
	return s.MergeHead || s.RebaseHead || s.CherryPick || s.Reverting || s.Bisecting
}

// Conflicted reports whether any entry is in an unmerged state.
func (s *StatusSnapshot) Conflicted() bool {
	for _, f := range s.Unstaged {
		if f.Conflicted() {
			return true
		}
	}
	return false
}
