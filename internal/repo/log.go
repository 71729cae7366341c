// internal/repo/log.go
package repo

import (
	"context"
	"errors"
	"io"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/quartzind/lit/internal/model"
)

// logBatch bounds one walk so a huge history cannot pin a worker; the UI
// pages by asking again from the last returned hash.
const logBatch = 300

// Log walks history from the named ref (empty means HEAD), newest first.
// Cancellation is checked between commits, not inside go-git calls.
func (h *Handle) Log(ctx context.Context, ref string, limit int) ([]model.CommitInfo, error) {
	if limit <= 0 || limit > logBatch {
		limit = logBatch
	}

	opts := &git.LogOptions{Order: git.LogOrderCommitterTime}
	if ref != "" {
		hash, err := h.repo.ResolveRevision(plumbing.Revision(ref))
		if err != nil {
			return nil, err
		}
		opts.From = *hash
	}

	iter, err := h.repo.Log(opts)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	commits := make([]model.CommitInfo, 0, limit)
	for len(commits) < limit {
		if err := checkCancel(ctx); err != nil {
			return nil, err
		}
		c, err := iter.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}

		info := model.CommitInfo{
			Hash:      c.Hash.String(),
			ShortHash: c.Hash.String()[:7],
			Summary:   firstLine(c.Message),
			Author:    c.Author.Name,
			Email:     c.Author.Email,
			When:      c.Author.When,
		}
		for _, p := range c.ParentHashes {
			info.Parents = append(info.Parents, p.String())
		}
		commits = append(commits, info)
	}

	return commits, nil
}

// Blame annotates every line of path at HEAD.
func (h *Handle) Blame(ctx context.Context, path string) (*model.FileBlame, error) {
	head, err := h.repo.Head()
	if err != nil {
		return nil, err
	}
	commit, err := h.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, err
	}

	if err := checkCancel(ctx); err != nil {
		return nil, err
	}

	result, err := git.Blame(commit, path)
	if err != nil {
		return nil, err
	}

	fb := &model.FileBlame{Path: path, Lines: make([]model.BlameLine, 0, len(result.Lines))}
	for i, line := range result.Lines {
		fb.Lines = append(fb.Lines, model.BlameLine{
			LineNo:  i + 1,
			Hash:    line.Hash.String()[:7],
			Author:  line.AuthorName,
			When:    line.Date,
			Content: line.Text,
		})
	}
	return fb, nil
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
