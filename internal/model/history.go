// internal/model/history.go
package model

import "time"

// CommitInfo is one entry of a log walk.
type CommitInfo struct {
	Hash      string
	ShortHash string
	Summary   string // first line of the message
	Author    string
	Email     string
	When      time.Time
	Parents   []string
}

// BranchInfo describes a local or remote branch head.
type BranchInfo struct {
	Name     string
	Hash     string
	IsRemote bool
	IsHead   bool // branch currently checked out
	Upstream string
	Ahead    int
	Behind   int
}

// TagInfo describes a tag and the commit it points at.
type TagInfo struct {
	Name       string
	Hash       string
	Annotation string // empty for lightweight tags
	Tagger     string
	When       time.Time
}

// StashEntry is one entry of the stash reflog.
type StashEntry struct {
	Index   int    // stash@{Index}
	Message string
	Hash    string
}

// BlameLine is one annotated line of a blamed file.
type BlameLine struct {
	LineNo  int // 1-based
	Hash    string
	Author  string
	When    time.Time
	Content string
}

// FileBlame is the blame result for a whole file at HEAD.
type FileBlame struct {
	Path  string
	Lines []BlameLine
}
