// tui/render.go
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/quartzind/lit/internal/engine"
	"github.com/quartzind/lit/internal/model"
)

func (m *Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	if m.showHelp {
		sections = append(sections, m.renderHelp())
		return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top,
			strings.Join(sections, "\n"))
	}

	if m.showBlame {
		sections = append(sections, m.renderBlame())
	} else {
		sections = append(sections, m.renderBody())
	}
	sections = append(sections, m.renderFooter())

	view := lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top,
		strings.Join(sections, "\n"))

	// Overlay toasts on the view (bottom-right with padding)
	if len(m.toasts) > 0 {
		toast := m.renderToasts()
		tw := lipgloss.Width(toast)
		th := lipgloss.Height(toast)
		x := m.width - tw - 2
		y := m.height - th - 2
		view = placeOverlay(x, y, toast, view)
	}

	return view
}

func (m *Model) renderHeader() string {
	title := lipgloss.NewStyle().Foreground(lipgloss.Color("44")).Bold(true).Render("lit")

	left := title
	if s := m.status; s != nil {
		branch := s.Branch
		if branch == "" && s.DetachedHead {
			branch = iconDetached + " " + shortHash(s.CommitHash)
		}
		left += "  " + styleBranch.Render(iconBranch+" "+branch)
		if s.Ahead > 0 {
			left += " " + styleAhead.Render(fmt.Sprintf("%s%d", iconAhead, s.Ahead))
		}
		if s.Behind > 0 {
			left += " " + styleBehind.Render(fmt.Sprintf("%s%d", iconBehind, s.Behind))
		}
		if s.Stashes > 0 {
			left += " " + styleDim.Render(fmt.Sprintf("%s%d", iconStash, s.Stashes))
		}
		if s.HasSpecialState() {
			left += " " + styleConflict.Render(iconConflict+" "+specialStateLabel(s))
		}
	}

	if m.busy() {
		left += "  " + renderSpinner(m.spinFrame)
	}
	for _, kind := range []engine.JobKind{engine.KindFetch, engine.KindPush, engine.KindPull} {
		if f, ok := m.progress[kind]; ok {
			left += "  " + styleDim.Render(kind.String()+" ") + renderProgressBar(f, 16)
			break
		}
	}

	var right string
	if m.statusStale {
		right = styleDim.Render("refreshing…")
	}
	if m.degraded {
		if right != "" {
			right += "  "
		}
		right += styleAmber.Render("polling")
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	line := left + strings.Repeat(" ", gap) + right
	sep := styleDim.Render(strings.Repeat("─", m.width))

	return line + "\n" + sep
}

func (m *Model) renderBody() string {
	h := m.visibleRows()
	switch m.view {
	case ViewStatus:
		return m.renderStatusView(h)
	case ViewLog:
		return m.renderLogView(h)
	case ViewBranches:
		return m.renderBranchesView(h)
	case ViewTags:
		return m.renderTagsView(h)
	case ViewStashes:
		return m.renderStashesView(h)
	}
	return ""
}

// --- Status view: file lists on the left, diff pane on the right ---

func (m *Model) renderStatusView(height int) string {
	listW := m.width * 40 / 100
	if listW < 24 {
		listW = 24
	}
	diffW := m.width - listW - 1

	list := m.renderFileList(listW, height)
	diff := m.renderDiffPane(diffW, height)

	sepLines := make([]string, height)
	for i := range sepLines {
		sepLines[i] = styleDim.Render("│")
	}
	sep := strings.Join(sepLines, "\n")

	return lipgloss.JoinHorizontal(lipgloss.Top, list, sep, diff)
}

func (m *Model) renderFileList(width, height int) string {
	s := m.status
	if s == nil {
		return padLines(styleDim.Render(" Loading status..."), width, height)
	}

	var lines []string

	// Change summary bar: staged / modified / untracked proportions.
	if s.IsDirty() {
		untracked := 0
		for _, f := range s.Unstaged {
			if f.Untracked() {
				untracked++
			}
		}
		modified := len(s.Unstaged) - untracked
		barW := width - 4
		if barW < 4 {
			barW = 4
		}
		lines = append(lines, " "+renderStackedBar(len(s.Staged), modified, untracked, barW), "")
	}

	section := func(header string, files []model.FileStatus, active bool) {
		hdr := styleDim
		if active {
			hdr = styleActiveTab
		}
		count := fmt.Sprintf(" (%d)", len(files))
		lines = append(lines, hdr.Render(" "+header)+styleDim.Render(count))
		for i, f := range files {
			mark := statusMark(f)
			name := truncateWithEllipsis(f.Path, width-6)
			row := "  " + mark + " " + name
			if active && i == m.cursor {
				row = styleSelected.Width(width).Render(row)
			}
			lines = append(lines, row)
		}
		if len(files) == 0 {
			lines = append(lines, styleDim.Render("   none"))
		}
		lines = append(lines, "")
	}

	section("UNSTAGED", s.Unstaged, m.section == SectionUnstaged)
	section("STAGED", s.Staged, m.section == SectionStaged)

	if !s.IsDirty() {
		lines = append(lines, styleCleanTxt.Render(" working tree clean"))
	}

	return padLines(strings.Join(lines, "\n"), width, height)
}

func statusMark(f model.FileStatus) string {
	switch f.Code {
	case 'A', '?':
		return styleDiffAdd.Render(string(f.Code))
	case 'D':
		return styleDiffDel.Render("D")
	case 'U':
		return styleConflict.Render("U")
	case 'R':
		return styleGold.Render("R")
	default:
		return styleAmber.Render(string(f.Code))
	}
}

func (m *Model) renderDiffPane(width, height int) string {
	d := m.diff
	if d == nil {
		msg := " Select a file to see its diff"
		if m.selectedFile() != nil {
			msg = " Loading diff..."
		}
		return padLines(styleDim.Render(msg), width, height)
	}
	if d.Binary {
		return padLines(styleDim.Render(" binary file"), width, height)
	}

	var lines []string
	net := d.Added - d.Deleted
	sign := "+"
	if net < 0 {
		sign = ""
	}
	header := stylePath.Render(" " + truncateWithEllipsis(d.Path, width-30))
	header += "  " + styleDiffAdd.Render(fmt.Sprintf("+%d", d.Added)) +
		" " + styleDiffDel.Render(fmt.Sprintf("-%d", d.Deleted)) +
		" " + styleNetDelta.Render(fmt.Sprintf("net %s%d", sign, net)) +
		"  " + renderDiffBar(d.Added, d.Deleted, 10)
	lines = append(lines, header)

	for _, h := range d.Hunks {
		lines = append(lines, styleDiffHdr.Render(truncateWithEllipsis(h.Header, width)))
		for _, l := range h.Lines {
			text := truncateWithEllipsis(l.Content, width-1)
			switch l.Kind {
			case model.DiffAdded:
				lines = append(lines, styleDiffAdd.Render("+"+text))
			case model.DiffDeleted:
				lines = append(lines, styleDiffDel.Render("-"+text))
			default:
				lines = append(lines, " "+text)
			}
		}
	}

	// Scroll below the file header
	if m.diffScroll > 0 && len(lines) > 1 {
		body := lines[1:]
		off := m.diffScroll
		if off > len(body)-1 {
			off = len(body) - 1
		}
		if off < 0 {
			off = 0
		}
		lines = append(lines[:1], body[off:]...)
	}

	return padLines(strings.Join(lines, "\n"), width, height)
}

// --- List views ---

// window returns the [start,end) slice bounds that keep the cursor visible.
func (m *Model) window(total, height int) (int, int) {
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
	if m.cursor >= m.scrollOffset+height {
		m.scrollOffset = m.cursor - height + 1
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
	end := m.scrollOffset + height
	if end > total {
		end = total
	}
	return m.scrollOffset, end
}

func (m *Model) renderLogView(height int) string {
	if len(m.commits) == 0 {
		return padLines(styleDim.Render(" No commits"), m.width, height)
	}

	start, end := m.window(len(m.commits), height)
	var lines []string
	for i := start; i < end; i++ {
		c := m.commits[i]
		when := c.When.Format("2006-01-02")
		row := " " + styleHash.Render(c.ShortHash) +
			" " + styleDim.Render(when) +
			" " + padRight(truncateWithEllipsis(c.Author, 16), 16) +
			" " + truncateWithEllipsis(c.Summary, m.width-36)
		if i == m.cursor {
			row = styleSelected.Width(m.width).Render(row)
		}
		lines = append(lines, row)
	}
	return padLines(strings.Join(lines, "\n"), m.width, height)
}

func (m *Model) renderBranchesView(height int) string {
	if len(m.branches) == 0 {
		return padLines(styleDim.Render(" No branches"), m.width, height)
	}

	start, end := m.window(len(m.branches), height)
	var lines []string
	for i := start; i < end; i++ {
		b := m.branches[i]
		mark := "  "
		if b.IsHead {
			mark = styleCleanTxt.Render(iconHead) + " "
		}
		name := styleBranch.Render(truncateWithEllipsis(b.Name, 40))
		if b.IsRemote {
			name = styleDim.Render(truncateWithEllipsis(b.Name, 40))
		}
		row := " " + mark + padRight(name, 42) + styleHash.Render(shortHash(b.Hash))
		if b.Upstream != "" {
			row += " " + styleDim.Render("→ "+b.Upstream)
			if b.Ahead > 0 {
				row += " " + styleAhead.Render(fmt.Sprintf("%s%d", iconAhead, b.Ahead))
			}
			if b.Behind > 0 {
				row += " " + styleBehind.Render(fmt.Sprintf("%s%d", iconBehind, b.Behind))
			}
		}
		if i == m.cursor {
			row = styleSelected.Width(m.width).Render(row)
		}
		lines = append(lines, row)
	}
	return padLines(strings.Join(lines, "\n"), m.width, height)
}

func (m *Model) renderTagsView(height int) string {
	if len(m.tags) == 0 {
		return padLines(styleDim.Render(" No tags"), m.width, height)
	}

	start, end := m.window(len(m.tags), height)
	var lines []string
	for i := start; i < end; i++ {
		t := m.tags[i]
		row := " " + styleGold.Render(iconTag+" "+padRight(truncateWithEllipsis(t.Name, 24), 24)) +
			" " + styleHash.Render(shortHash(t.Hash))
		if t.Annotation != "" {
			row += "  " + truncateWithEllipsis(t.Annotation, m.width-40)
		}
		if i == m.cursor {
			row = styleSelected.Width(m.width).Render(row)
		}
		lines = append(lines, row)
	}
	return padLines(strings.Join(lines, "\n"), m.width, height)
}

func (m *Model) renderStashesView(height int) string {
	if len(m.stashes) == 0 {
		return padLines(styleDim.Render(" No stashes"), m.width, height)
	}

	start, end := m.window(len(m.stashes), height)
	var lines []string
	for i := start; i < end; i++ {
		s := m.stashes[i]
		row := " " + styleAmber.Render(fmt.Sprintf("stash@{%d}", s.Index)) +
			" " + styleHash.Render(shortHash(s.Hash)) +
			"  " + truncateWithEllipsis(s.Message, m.width-24)
		if i == m.cursor {
			row = styleSelected.Width(m.width).Render(row)
		}
		lines = append(lines, row)
	}
	return padLines(strings.Join(lines, "\n"), m.width, height)
}

// --- Blame overlay ---

func (m *Model) renderBlame() string {
	height := m.visibleRows()
	b := m.blame
	if b == nil {
		return padLines(styleDim.Render(" Loading blame..."), m.width, height)
	}

	var lines []string
	lines = append(lines, styleTitle.Render(" blame "+b.Path))
	start := m.diffScroll
	if start > len(b.Lines)-1 {
		start = len(b.Lines) - 1
	}
	if start < 0 {
		start = 0
	}
	end := start + height - 1
	if end > len(b.Lines) {
		end = len(b.Lines)
	}
	for _, l := range b.Lines[start:end] {
		row := " " + styleHash.Render(shortHash(l.Hash)) +
			" " + styleDim.Render(padRight(truncateWithEllipsis(l.Author, 12), 12)) +
			styleDim.Render(fmt.Sprintf("%5d ", l.LineNo)) +
			truncateWithEllipsis(l.Content, m.width-28)
		lines = append(lines, row)
	}
	return padLines(strings.Join(lines, "\n"), m.width, height)
}

// --- Footer, toasts, help ---

func (m *Model) renderFooter() string {
	sep := styleDim.Render(strings.Repeat("─", m.width))

	if m.commitMode {
		return sep + "\n " + styleKey.Render("commit:") + " " + m.commitInput.View()
	}

	type viewTab struct {
		key   string
		label string
		view  View
	}
	tabs := []viewTab{
		{"1", "status", ViewStatus},
		{"2", "log", ViewLog},
		{"3", "branches", ViewBranches},
		{"4", "tags", ViewTags},
		{"5", "stashes", ViewStashes},
	}

	var parts []string
	for _, t := range tabs {
		if m.view == t.view {
			parts = append(parts, styleActiveTab.Render(t.key+" "+t.label))
		} else {
			parts = append(parts, styleKey.Render(t.key)+" "+t.label)
		}
	}

	switch m.view {
	case ViewStatus:
		parts = append(parts, styleKey.Render("s")+" stage")
		parts = append(parts, styleKey.Render("u")+" unstage")
		parts = append(parts, styleKey.Render("c")+" commit")
	case ViewBranches:
		parts = append(parts, styleKey.Render("enter")+" checkout")
	case ViewStashes:
		parts = append(parts, styleKey.Render("o")+" pop")
		parts = append(parts, styleKey.Render("D")+" drop")
	}
	parts = append(parts, styleKey.Render("f")+" fetch")
	parts = append(parts, styleKey.Render("?")+" help")
	parts = append(parts, styleKey.Render("q")+" quit")

	return sep + "\n " + truncateWithEllipsis(strings.Join(parts, "  "), m.width-2)
}

func (m *Model) renderToasts() string {
	var toastStrs []string
	for _, t := range m.toasts {
		var bc lipgloss.Color
		var icon string
		switch t.Level {
		case ToastSuccess:
			bc = colorGold
			icon = "✓ "
		case ToastError:
			bc = colorDangerRed
			icon = iconConflict + " "
		default:
			bc = colorCyan
			icon = ""
		}
		box := styleToastBox.BorderForeground(bc).Render(icon + t.Message)
		toastStrs = append(toastStrs, box)
	}
	return strings.Join(toastStrs, "\n")
}

func (m *Model) renderHelp() string {
	content := m.keys.helpText()

	box := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(colorCyan).
		Padding(1, 2).
		Width(50).
		Render(styleTitle.Render("HELP") + "\n\n" + content + "\n\n" + styleDim.Render("press any key to close"))

	availH := m.height - 4
	if availH < 10 {
		availH = 10
	}
	return lipgloss.Place(m.width, availH, lipgloss.Center, lipgloss.Center, box)
}

func specialStateLabel(s *model.StatusSnapshot) string {
	switch {
	case s.MergeHead:
		return "MERGING"
	case s.RebaseHead:
		return "REBASING"
	case s.CherryPick:
		return "CHERRY-PICK"
	case s.Reverting:
		return "REVERTING"
	case s.Bisecting:
		return "BISECTING"
	}
	return ""
}

func shortHash(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	return h
}

// --- Layout utilities ---

// placeOverlay writes fg on top of bg at the given column (x) and row (y).
// It handles ANSI-styled strings correctly using ansi.Cut.
func placeOverlay(x, y int, fg, bg string) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")

	for i, fgLine := range fgLines {
		bgIdx := y + i
		if bgIdx < 0 || bgIdx >= len(bgLines) {
			continue
		}
		bgLine := bgLines[bgIdx]
		fgW := ansi.StringWidth(fgLine)
		bgW := ansi.StringWidth(bgLine)

		if x < 0 {
			x = 0
		}
		if x >= bgW {
			bgLines[bgIdx] = bgLine + strings.Repeat(" ", x-bgW) + fgLine
			continue
		}

		left := ansi.Cut(bgLine, 0, x)
		var right string
		if x+fgW < bgW {
			right = ansi.Cut(bgLine, x+fgW, bgW)
		}
		bgLines[bgIdx] = left + fgLine + right
	}
	return strings.Join(bgLines, "\n")
}

func padLines(content string, width, height int) string {
	lines := strings.Split(content, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		w := lipgloss.Width(line)
		if w < width {
			lines[i] = line + strings.Repeat(" ", width-w)
		}
	}
	return strings.Join(lines, "\n")
}
