// internal/model/diff.go
package model

// DiffLineKind classifies one line of a unified diff.
type DiffLineKind int

const (
	DiffContext DiffLineKind = iota
	DiffAdded
	DiffDeleted
	DiffHeader // hunk header ("@@ ... @@")
)

type DiffLine struct {
	Kind    DiffLineKind
	Content string
	OldNo   int // 0 when not present on that side
	NewNo   int
}

// DiffHunk is one "@@" section of a file diff.
type DiffHunk struct {
	Header string
	Lines  []DiffLine
}

// FileDiff is the unified diff of a single file against the index or HEAD.
type FileDiff struct {
	Path    string
	Staged  bool // index vs HEAD when true, worktree vs index when false
	Binary  bool
	Added   int
	Deleted int
	Hunks   []DiffHunk
}

// FileDiffStat is a numstat summary line for one file.
type FileDiffStat struct {
	Path    string
	Added   int
	Deleted int
	Binary  bool
}
