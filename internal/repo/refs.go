// internal/repo/refs.go
package repo

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/quartzind/lit/internal/model"
)

// Branches lists local branches, the checked-out one first.
func (h *Handle) Branches(ctx context.Context) ([]model.BranchInfo, error) {
	head, _ := h.repo.Head()
	var headName string
	if head != nil && head.Name().IsBranch() {
		headName = head.Name().Short()
	}

	iter, err := h.repo.Branches()
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var branches []model.BranchInfo
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if err := checkCancel(ctx); err != nil {
			return err
		}
		branches = append(branches, model.BranchInfo{
			Name:   ref.Name().Short(),
			Hash:   ref.Hash().String()[:7],
			IsHead: ref.Name().Short() == headName,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Tracking info comes from for-each-ref in one call rather than one
	// rev-list per branch.
	h.fillTracking(ctx, branches)

	sort.SliceStable(branches, func(i, j int) bool {
		if branches[i].IsHead != branches[j].IsHead {
			return branches[i].IsHead
		}
		return branches[i].Name < branches[j].Name
	})
	return branches, nil
}

func (h *Handle) fillTracking(ctx context.Context, branches []model.BranchInfo) {
	out, err := h.run.run(ctx, "for-each-ref", "refs/heads",
		"--format=%(refname:short)\t%(upstream:short)\t%(upstream:track,nobracket)")
	if err != nil {
		return
	}

	type track struct {
		upstream string
		ahead    int
		behind   int
	}
	byName := make(map[string]track)
	for _, line := range strings.Split(out, "\n") {
		parts := strings.Split(line, "\t")
		if len(parts) < 2 || parts[1] == "" {
			continue
		}
		t := track{upstream: parts[1]}
		if len(parts) == 3 {
			for _, f := range strings.Split(parts[2], ",") {
				f = strings.TrimSpace(f)
				if n, ok := strings.CutPrefix(f, "ahead "); ok {
					t.ahead, _ = strconv.Atoi(n)
				}
				if n, ok := strings.CutPrefix(f, "behind "); ok {
					t.behind, _ = strconv.Atoi(n)
				}
			}
		}
		byName[parts[0]] = t
	}

	for i := range branches {
		if t, ok := byName[branches[i].Name]; ok {
			branches[i].Upstream = t.upstream
			branches[i].Ahead = t.ahead
			branches[i].Behind = t.behind
		}
	}
}

// Tags lists tags newest-annotation first, lightweight tags after.
func (h *Handle) Tags(ctx context.Context) ([]model.TagInfo, error) {
	iter, err := h.repo.Tags()
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var tags []model.TagInfo
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if err := checkCancel(ctx); err != nil {
			return err
		}
		info := model.TagInfo{
			Name: ref.Name().Short(),
			Hash: ref.Hash().String()[:7],
		}
		if obj, err := h.repo.TagObject(ref.Hash()); err == nil {
			info.Annotation = firstLine(obj.Message)
			info.Tagger = obj.Tagger.Name
			info.When = obj.Tagger.When
			info.Hash = obj.Target.String()[:7]
		}
		tags = append(tags, info)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(tags, func(i, j int) bool {
		if !tags[i].When.Equal(tags[j].When) {
			return tags[i].When.After(tags[j].When)
		}
		return tags[i].Name < tags[j].Name
	})
	return tags, nil
}

// Stashes lists stash entries. go-git has no stash support, so this is the
// one read that shells out.
func (h *Handle) Stashes(ctx context.Context) ([]model.StashEntry, error) {
	out, err := h.run.run(ctx, "stash", "list", "--format=%H\x1f%gs")
	if err != nil {
		return nil, err
	}

	var stashes []model.StashEntry
	for i, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\x1f", 2)
		entry := model.StashEntry{Index: i, Hash: parts[0]}
		if len(parts) == 2 {
			entry.Message = parts[1]
		}
		stashes = append(stashes, entry)
	}
	return stashes, nil
}
