// tui/update.go
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/quartzind/lit/internal/engine"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinTickMsg:
		m.spinFrame++
		if m.busy() {
			return m, m.spinTick()
		}
		m.spinRunning = false
		return m, nil

	case notifMsg:
		cmds := []tea.Cmd{m.handleNotification(msg.n)}
		// Drain whatever else is already queued so one tea message covers a
		// burst of completions.
		for {
			select {
			case n, ok := <-m.eng.Notifications():
				if !ok {
					return m, tea.Batch(cmds...)
				}
				cmds = append(cmds, m.handleNotification(n))
			default:
				cmds = append(cmds, m.listenNotifications(), m.ensureSpin())
				return m, tea.Batch(cmds...)
			}
		}

	case tea.KeyMsg:
		return m.handleKey(msg)

	case toastExpiredMsg:
		for i, t := range m.toasts {
			if t.ID == msg.id {
				m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
				break
			}
		}
	}

	return m, nil
}

func (m *Model) ensureSpin() tea.Cmd {
	if m.spinRunning || !m.busy() {
		return nil
	}
	return m.spinTick()
}

func (m *Model) handleNotification(n engine.Notification) tea.Cmd {
	switch n := n.(type) {
	case engine.Updated:
		m.pull(n.Kind)
		m.clampCursor()
		if n.Kind.Remote() {
			delete(m.progress, n.Kind)
		}
		if n.Kind.Mutating() {
			// The mutation invalidated every cached read; refresh what the
			// user is looking at.
			m.refreshView()
			return m.addToast(n.Kind.String()+" done", ToastSuccess)
		}
		return nil

	case engine.FilesystemChanged:
		m.refreshView()
		return nil

	case engine.Progress:
		m.progress[n.Kind] = n.Fraction
		return nil

	case engine.JobError:
		delete(m.progress, n.Kind)
		return m.addToast(n.Kind.String()+": "+firstErrLine(n.Err.Error()), ToastError)

	case engine.WatcherDegraded:
		m.degraded = true
		return m.addToast("watch unavailable, polling instead", ToastInfo)
	}
	return nil
}

func firstErrLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Help overlay: any key closes
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	// Commit message entry
	if m.commitMode {
		switch {
		case key.Matches(msg, m.keys.Escape):
			m.commitMode = false
			m.commitInput.Reset()
			return m, nil
		case key.Matches(msg, m.keys.Enter):
			message := strings.TrimSpace(m.commitInput.Value())
			m.commitMode = false
			m.commitInput.Reset()
			if message == "" {
				return m, m.addToast("empty commit message", ToastError)
			}
			m.eng.Commit(message)
			return m, m.ensureSpin()
		default:
			var cmd tea.Cmd
			m.commitInput, cmd = m.commitInput.Update(msg)
			return m, cmd
		}
	}

	// Blame overlay
	if m.showBlame {
		switch {
		case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Blame):
			m.showBlame = false
			m.blame = nil
		case key.Matches(msg, m.keys.Down), key.Matches(msg, m.keys.DiffDown):
			m.diffScroll++
		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.DiffUp):
			if m.diffScroll > 0 {
				m.diffScroll--
			}
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
		return m, nil
	}

	// Normal mode
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	// Navigation
	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.currentListLen()-1 {
			m.cursor++
			m.afterMove()
		}

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.afterMove()
		}

	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		m.afterMove()

	case key.Matches(msg, m.keys.Bottom):
		if n := m.currentListLen(); n > 0 {
			m.cursor = n - 1
			m.afterMove()
		}

	case key.Matches(msg, m.keys.HalfDown):
		m.cursor += m.visibleRows() / 2
		m.clampCursor()
		m.afterMove()

	case key.Matches(msg, m.keys.HalfUp):
		m.cursor -= m.visibleRows() / 2
		m.clampCursor()
		m.afterMove()

	case key.Matches(msg, m.keys.Tab):
		if m.view == ViewStatus {
			if m.section == SectionUnstaged {
				m.section = SectionStaged
			} else {
				m.section = SectionUnstaged
			}
			m.cursor = 0
			m.afterMove()
		}

	case key.Matches(msg, m.keys.DiffDown):
		m.diffScroll++

	case key.Matches(msg, m.keys.DiffUp):
		if m.diffScroll > 0 {
			m.diffScroll--
		}

	// Worktree actions
	case key.Matches(msg, m.keys.Stage):
		if m.view == ViewStatus && m.section == SectionUnstaged {
			if f := m.selectedFile(); f != nil {
				m.eng.Stage(f.Path)
				return m, m.ensureSpin()
			}
		}

	case key.Matches(msg, m.keys.StageAll):
		if m.view == ViewStatus {
			m.eng.StageAll()
			return m, m.ensureSpin()
		}

	case key.Matches(msg, m.keys.Unstage):
		if m.view == ViewStatus && m.section == SectionStaged {
			if f := m.selectedFile(); f != nil {
				m.eng.Unstage(f.Path)
				return m, m.ensureSpin()
			}
		}

	case key.Matches(msg, m.keys.Discard):
		if m.view == ViewStatus && m.section == SectionUnstaged {
			if f := m.selectedFile(); f != nil {
				m.eng.Discard(f.Path)
				return m, m.ensureSpin()
			}
		}

	case key.Matches(msg, m.keys.Commit):
		if m.view == ViewStatus {
			m.commitMode = true
			m.commitInput.Focus()
			return m, textinput.Blink
		}

	case key.Matches(msg, m.keys.Blame):
		if f := m.selectedFile(); f != nil {
			m.showBlame = true
			m.diffScroll = 0
			m.eng.Blame(f.Path)
			return m, m.ensureSpin()
		}

	// Remote
	case key.Matches(msg, m.keys.Fetch):
		m.progress[engine.KindFetch] = 0
		m.eng.Fetch()
		return m, m.ensureSpin()

	case key.Matches(msg, m.keys.Push):
		m.progress[engine.KindPush] = 0
		m.eng.Push()
		return m, m.ensureSpin()

	case key.Matches(msg, m.keys.Pull):
		m.progress[engine.KindPull] = 0
		m.eng.Pull()
		return m, m.ensureSpin()

	// Stash
	case key.Matches(msg, m.keys.StashSave):
		m.eng.StashSave("")
		return m, m.ensureSpin()

	case key.Matches(msg, m.keys.StashPop):
		if m.view == ViewStashes {
			if m.cursor < len(m.stashes) {
				m.eng.StashPop(m.stashes[m.cursor].Index)
				return m, m.ensureSpin()
			}
		}

	case key.Matches(msg, m.keys.StashDrop):
		if m.view == ViewStashes {
			if m.cursor < len(m.stashes) {
				m.eng.StashDrop(m.stashes[m.cursor].Index)
				return m, m.ensureSpin()
			}
		}

	// Checkout from the branches view
	case key.Matches(msg, m.keys.Enter):
		if m.view == ViewBranches && m.cursor < len(m.branches) {
			m.eng.Checkout(m.branches[m.cursor].Name)
			return m, m.ensureSpin()
		}

	case key.Matches(msg, m.keys.Escape):
		// Abandon the in-flight diff for the previous selection.
		if m.diffKey != (engine.JobKey{}) {
			m.eng.Cancel(m.diffKey)
		}

	// Views
	case key.Matches(msg, m.keys.ViewStatus):
		m.switchView(ViewStatus)
	case key.Matches(msg, m.keys.ViewLog):
		m.switchView(ViewLog)
	case key.Matches(msg, m.keys.ViewBranches):
		m.switchView(ViewBranches)
	case key.Matches(msg, m.keys.ViewTags):
		m.switchView(ViewTags)
	case key.Matches(msg, m.keys.ViewStashes):
		m.switchView(ViewStashes)

	case key.Matches(msg, m.keys.Reload):
		m.refreshView()
		return m, m.ensureSpin()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	}

	return m, nil
}

func (m *Model) switchView(v View) {
	if m.view == v {
		return
	}
	m.view = v
	m.cursor = 0
	m.scrollOffset = 0
	m.diffScroll = 0
	switch v {
	case ViewStatus:
		m.eng.RefreshStatus()
		m.requestDiff()
	case ViewLog:
		m.eng.Log("", 0)
	case ViewBranches:
		m.eng.Branches()
	case ViewTags:
		m.eng.Tags()
	case ViewStashes:
		m.eng.Stashes()
	}
}

// afterMove runs whenever the selection changed.
func (m *Model) afterMove() {
	if m.view == ViewStatus {
		m.requestDiff()
	}
}

func (m *Model) visibleRows() int {
	// header(2) + section line(1) + footer(2) = 5
	avail := m.height - 5
	if avail < 1 {
		avail = 1
	}
	return avail
}
