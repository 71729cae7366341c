// tui/app.go
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/quartzind/lit/internal/config"
	"github.com/quartzind/lit/internal/engine"
	"github.com/quartzind/lit/internal/model"
	"github.com/quartzind/lit/internal/repo"
	"github.com/quartzind/lit/internal/watcher"
)

type View int

const (
	ViewStatus View = iota
	ViewLog
	ViewBranches
	ViewTags
	ViewStashes
)

type Section int

const (
	SectionUnstaged Section = iota
	SectionStaged
)

type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastSuccess
	ToastError
)

type Toast struct {
	ID        int
	Message   string
	Level     ToastLevel
	CreatedAt time.Time
}

// Model is the single UI consumer of the engine: it submits jobs, reads the
// cache, and drains the notification channel once per message. It never
// touches the repository handle.
type Model struct {
	cfg *config.Config
	eng *engine.Engine

	width, height int
	view          View
	cursor        int
	section       Section
	scrollOffset  int
	diffScroll    int

	// Last-known data pulled from the engine cache. The stale flags let the
	// renderer dim content while a refresh is pending.
	status      *model.StatusSnapshot
	statusStale bool
	commits     []model.CommitInfo
	branches    []model.BranchInfo
	tags        []model.TagInfo
	stashes     []model.StashEntry
	diff        *model.FileDiff
	diffKey     engine.JobKey // in-flight/last diff, cancelled on navigation
	blame       *model.FileBlame
	showBlame   bool

	progress    map[engine.JobKind]float64
	spinFrame   int
	spinRunning bool

	commitMode  bool
	commitInput textinput.Model

	toasts      []Toast
	nextToastID int
	showHelp    bool
	degraded    bool

	keys keyMap
}

func NewModel(cfg *config.Config, eng *engine.Engine) *Model {
	ti := textinput.New()
	ti.Placeholder = "commit message..."
	ti.CharLimit = 200

	return &Model{
		cfg:         cfg,
		eng:         eng,
		keys:        newKeyMap(),
		commitInput: ti,
		progress:    make(map[engine.JobKind]float64),
	}
}

func (m *Model) Init() tea.Cmd {
	m.eng.RefreshStatus()
	m.eng.Log("", 0)
	return tea.Batch(m.listenNotifications(), m.spinTick())
}

type notifMsg struct{ n engine.Notification }
type toastExpiredMsg struct{ id int }
type spinTickMsg struct{}

func (m *Model) listenNotifications() tea.Cmd {
	return func() tea.Msg {
		n, ok := <-m.eng.Notifications()
		if !ok {
			return nil
		}
		return notifMsg{n}
	}
}

func (m *Model) spinTick() tea.Cmd {
	m.spinRunning = true
	return tea.Tick(100*time.Millisecond, func(_ time.Time) tea.Msg {
		return spinTickMsg{}
	})
}

func (m *Model) busy() bool {
	return len(m.progress) > 0 ||
		m.eng.InFlight(engine.JobKey{Kind: engine.KindStatus}) ||
		m.statusStale
}

func (m *Model) addToast(msg string, level ToastLevel) tea.Cmd {
	id := m.nextToastID
	m.nextToastID++
	m.toasts = append(m.toasts, Toast{
		ID:        id,
		Message:   msg,
		Level:     level,
		CreatedAt: time.Now(),
	})
	return tea.Tick(3*time.Second, func(_ time.Time) tea.Msg {
		return toastExpiredMsg{id}
	})
}

// pull copies the freshest cached results for the kinds the UI renders.
func (m *Model) pull(kind engine.JobKind) {
	switch kind {
	case engine.KindStatus:
		if v, stale, ok := m.eng.Get(engine.JobKey{Kind: engine.KindStatus}); ok {
			m.status, _ = v.(*model.StatusSnapshot)
			m.statusStale = stale
		}
	case engine.KindLog:
		if v, _, ok := m.eng.Get(engine.JobKey{Kind: engine.KindLog}); ok {
			m.commits, _ = v.([]model.CommitInfo)
		}
	case engine.KindBranches:
		if v, _, ok := m.eng.Get(engine.JobKey{Kind: engine.KindBranches}); ok {
			m.branches, _ = v.([]model.BranchInfo)
		}
	case engine.KindTags:
		if v, _, ok := m.eng.Get(engine.JobKey{Kind: engine.KindTags}); ok {
			m.tags, _ = v.([]model.TagInfo)
		}
	case engine.KindStashes:
		if v, _, ok := m.eng.Get(engine.JobKey{Kind: engine.KindStashes}); ok {
			m.stashes, _ = v.([]model.StashEntry)
		}
	case engine.KindDiff:
		if v, _, ok := m.eng.Get(m.diffKey); ok {
			m.diff, _ = v.(*model.FileDiff)
			m.diffScroll = 0
		}
	case engine.KindBlame:
		if f := m.selectedFile(); f != nil {
			if v, _, ok := m.eng.Get(engine.JobKey{Kind: engine.KindBlame, Arg: f.Path}); ok {
				m.blame, _ = v.(*model.FileBlame)
			}
		}
	}
}

// refreshView resubmits the jobs behind the currently visible view. Called
// after a filesystem change or a completed mutation invalidated the cache.
func (m *Model) refreshView() {
	m.eng.RefreshStatus()
	switch m.view {
	case ViewLog:
		m.eng.Log("", 0)
	case ViewBranches:
		m.eng.Branches()
	case ViewTags:
		m.eng.Tags()
	case ViewStashes:
		m.eng.Stashes()
	case ViewStatus:
		m.requestDiff()
	}
}

// requestDiff submits the diff for the selected file, cancelling the
// previous one when the selection moved.
func (m *Model) requestDiff() {
	f := m.selectedFile()
	if f == nil {
		m.diff = nil
		return
	}
	key := engine.DiffKey(f.Path, f.Stage == model.StageIndex)
	if key != m.diffKey && m.diffKey != (engine.JobKey{}) {
		m.eng.Cancel(m.diffKey)
	}
	m.diffKey = key
	m.eng.Diff(f.Path, f.Stage == model.StageIndex)
}

func (m *Model) selectedFile() *model.FileStatus {
	if m.status == nil {
		return nil
	}
	list := m.status.Unstaged
	if m.section == SectionStaged {
		list = m.status.Staged
	}
	if m.cursor < 0 || m.cursor >= len(list) {
		return nil
	}
	return &list[m.cursor]
}

func (m *Model) currentListLen() int {
	switch m.view {
	case ViewStatus:
		if m.status == nil {
			return 0
		}
		if m.section == SectionStaged {
			return len(m.status.Staged)
		}
		return len(m.status.Unstaged)
	case ViewLog:
		return len(m.commits)
	case ViewBranches:
		return len(m.branches)
	case ViewTags:
		return len(m.tags)
	case ViewStashes:
		return len(m.stashes)
	}
	return 0
}

func (m *Model) clampCursor() {
	if n := m.currentListLen(); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Run opens the repository, wires the engine to the watcher, and runs the
// program until the user quits.
func Run(cfg *config.Config, path string) error {
	handle, err := repo.Open(path)
	if err != nil {
		return err
	}

	var w watcher.RepoWatcher
	if cfg.AutoRefresh {
		w = watcher.New(handle.Path(), handle.GitDir(), cfg.Debounce.Std(), cfg.PollInterval.Std())
	}

	eng := engine.New(handle, engine.Options{
		Workers: cfg.Workers,
		OnMutation: func() {
			if w != nil {
				w.Quiet(cfg.QuietWindow.Std())
			}
		},
	})

	m := NewModel(cfg, eng)

	ctx, cancel := context.WithCancel(context.Background())
	if w != nil {
		go w.Run(ctx)
		go eng.Run(ctx, w.Events())
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, runErr := p.Run()

	cancel()
	if w != nil {
		_ = w.Close()
	}
	eng.Close()

	return runErr
}
