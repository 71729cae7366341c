// internal/repo/diff.go
package repo

import (
	"context"
	"strconv"
	"strings"

	"github.com/quartzind/lit/internal/model"
)

// DiffFile produces the unified diff of one file. staged selects index vs
// HEAD; otherwise worktree vs index. Exec git is used here because its
// rename and untracked handling is the behavior users expect to see.
func (h *Handle) DiffFile(ctx context.Context, path string, staged bool) (*model.FileDiff, error) {
	args := []string{"diff", "--no-color", "--no-ext-diff"}
	if staged {
		args = append(args, "--cached")
	}
	args = append(args, "--", path)

	out, err := h.run.run(ctx, args...)
	if err != nil {
		return nil, err
	}

	// Untracked files have no diff against the index; synthesize one so
	// the UI can still show the content.
	if strings.TrimSpace(out) == "" && !staged {
		// --no-index exits 1 when the files differ, so runDiff, not run.
		if nout, err := h.run.runDiff(ctx, "diff", "--no-color", "--no-ext-diff", "--no-index", "--", "/dev/null", path); err == nil {
			out = nout
		}
	}

	fd := parseUnifiedDiff(out)
	fd.Path = path
	fd.Staged = staged
	return fd, nil
}

// DiffStats reads numstat summaries for the whole tree.
func (h *Handle) DiffStats(ctx context.Context, staged bool) ([]model.FileDiffStat, error) {
	args := []string{"diff", "--numstat"}
	if staged {
		args = append(args, "--cached")
	}
	out, err := h.run.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	stats, _, _ := parseNumstat(out)
	return stats, nil
}

// parseNumstat parses output of `git diff --numstat`.
// Each line: "added\tdeleted\tfilename" or "-\t-\tfilename" (binary).
func parseNumstat(output string) ([]model.FileDiffStat, int, int) {
	if strings.TrimSpace(output) == "" {
		return nil, 0, 0
	}

	var files []model.FileDiffStat
	totalAdded, totalDeleted := 0, 0

	for line := range strings.SplitSeq(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.SplitN(line, "\t", 3)
		if len(parts) < 3 {
			continue
		}

		fds := model.FileDiffStat{Path: parts[2]}

		if parts[0] == "-" && parts[1] == "-" {
			fds.Binary = true
		} else {
			fds.Added, _ = strconv.Atoi(parts[0])
			fds.Deleted, _ = strconv.Atoi(parts[1])
			totalAdded += fds.Added
			totalDeleted += fds.Deleted
		}

		files = append(files, fds)
	}

	return files, totalAdded, totalDeleted
}

func parseUnifiedDiff(output string) *model.FileDiff {
	fd := &model.FileDiff{}
	var hunk *model.DiffHunk
	oldNo, newNo := 0, 0

	flush := func() {
		if hunk != nil {
			fd.Hunks = append(fd.Hunks, *hunk)
			hunk = nil
		}
	}

	for line := range strings.SplitSeq(output, "\n") {
		switch {
		case strings.HasPrefix(line, "@@"):
			flush()
			oldNo, newNo = parseHunkHeader(line)
			hunk = &model.DiffHunk{Header: line}
			hunk.Lines = append(hunk.Lines, model.DiffLine{Kind: model.DiffHeader, Content: line})

		case strings.HasPrefix(line, "Binary files"):
			fd.Binary = true

		case hunk == nil:
			// file header noise (diff --git, index, ---, +++)

		case strings.HasPrefix(line, "+"):
			hunk.Lines = append(hunk.Lines, model.DiffLine{
				Kind: model.DiffAdded, Content: line[1:], NewNo: newNo,
			})
			newNo++
			fd.Added++

		case strings.HasPrefix(line, "-"):
			hunk.Lines = append(hunk.Lines, model.DiffLine{
				Kind: model.DiffDeleted, Content: line[1:], OldNo: oldNo,
			})
			oldNo++
			fd.Deleted++

		case strings.HasPrefix(line, " "):
			hunk.Lines = append(hunk.Lines, model.DiffLine{
				Kind: model.DiffContext, Content: line[1:], OldNo: oldNo, NewNo: newNo,
			})
			oldNo++
			newNo++
		}
	}
	flush()
	return fd
}

// parseHunkHeader extracts starting line numbers from "@@ -a,b +c,d @@".
func parseHunkHeader(header string) (oldStart, newStart int) {
	fields := strings.Fields(header)
	if len(fields) < 3 {
		return 0, 0
	}
	oldStart = atoiPrefix(strings.TrimPrefix(fields[1], "-"))
	newStart = atoiPrefix(strings.TrimPrefix(fields[2], "+"))
	return oldStart, newStart
}

func atoiPrefix(s string) int {
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[:i]
	}
	n, _ := strconv.Atoi(s)
	return n
}
