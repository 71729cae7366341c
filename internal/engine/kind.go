// internal/engine/kind.go
package engine

// JobKind is the closed set of repository operations the engine schedules.
type JobKind int

const (
	KindStatus JobKind = iota
	KindDiff
	KindDiffStats
	KindBlame
	KindLog
	KindBranches
	KindTags
	KindStashes
	KindFetch
	KindPush
	KindPull
	KindCommit
	KindStage
	KindStageAll
	KindUnstage
	KindDiscard
	KindCheckout
	KindCreateBranch
	KindCreateTag
	KindStashSave
	KindStashPop
	KindStashDrop
)

var kindNames = map[JobKind]string{
	KindStatus:       "status",
	KindDiff:         "diff",
	KindDiffStats:    "diff-stats",
	KindBlame:        "blame",
	KindLog:          "log",
	KindBranches:     "branches",
	KindTags:         "tags",
	KindStashes:      "stashes",
	KindFetch:        "fetch",
	KindPush:         "push",
	KindPull:         "pull",
	KindCommit:       "commit",
	KindStage:        "stage",
	KindStageAll:     "stage-all",
	KindUnstage:      "unstage",
	KindDiscard:      "discard",
	KindCheckout:     "checkout",
	KindCreateBranch: "create-branch",
	KindCreateTag:    "create-tag",
	KindStashSave:    "stash-save",
	KindStashPop:     "stash-pop",
	KindStashDrop:    "stash-drop",
}

func (k JobKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// Mutating reports whether the job alters on-disk repository state. Mutating
// jobs run exclusively per repository and bump the state version on success.
func (k JobKind) Mutating() bool {
	switch k {
	case KindFetch, KindPush, KindPull, KindCommit, KindStage, KindStageAll,
		KindUnstage, KindDiscard, KindCheckout, KindCreateBranch,
		KindCreateTag, KindStashSave, KindStashPop, KindStashDrop:
		return true
	default:
		return false
	}
}

// Remote reports whether the job transfers over the network. Remote jobs
// carry progress reporting and no internal timeout.
func (k JobKind) Remote() bool {
	switch k {
	case KindFetch, KindPush, KindPull:
		return true
	default:
		return false
	}
}

// JobKey identifies a unit of requestable work. Two submits with equal keys
// while one is in flight share a single execution.
type JobKey struct {
	Kind JobKind
	Arg  string // kind-specific: file path, ref name, "staged"/"unstaged" suffix
}

func (k JobKey) String() string {
	if k.Arg == "" {
		return k.Kind.String()
	}
	return k.Kind.String() + ":" + k.Arg
}

// DiffKey builds the key for a single-file diff.
func DiffKey(path string, staged bool) JobKey {
	side := "unstaged"
	if staged {
		side = "staged"
	}
	return JobKey{Kind: KindDiff, Arg: path + "\x00" + side}
}
