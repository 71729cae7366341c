// tui/keys.go
package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	HalfDown key.Binding
	HalfUp   key.Binding
	Tab      key.Binding
	Escape   key.Binding
	Enter    key.Binding

	// Worktree actions
	Stage    key.Binding
	StageAll key.Binding
	Unstage  key.Binding
	Discard  key.Binding
	Commit   key.Binding
	Blame    key.Binding
	DiffUp   key.Binding
	DiffDown key.Binding

	// Remote
	Fetch key.Binding
	Push  key.Binding
	Pull  key.Binding

	// Stash
	StashSave key.Binding
	StashPop  key.Binding
	StashDrop key.Binding

	// Views
	ViewStatus   key.Binding
	ViewLog      key.Binding
	ViewBranches key.Binding
	ViewTags     key.Binding
	ViewStashes  key.Binding

	// Meta
	Reload key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g/home", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G/end", "bottom"),
		),
		HalfDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("C-d", "½ page down"),
		),
		HalfUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("C-u", "½ page up"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "staged/unstaged"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Stage: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stage"),
		),
		StageAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "stage all"),
		),
		Unstage: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "unstage"),
		),
		Discard: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "discard"),
		),
		Commit: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "commit"),
		),
		Blame: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "blame"),
		),
		DiffUp: key.NewBinding(
			key.WithKeys("K", "pgup"),
			key.WithHelp("K/pgup", "diff up"),
		),
		DiffDown: key.NewBinding(
			key.WithKeys("J", "pgdown"),
			key.WithHelp("J/pgdn", "diff down"),
		),
		Fetch: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fetch"),
		),
		Push: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "push"),
		),
		Pull: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pull"),
		),
		StashSave: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "stash save"),
		),
		StashPop: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "stash pop"),
		),
		StashDrop: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "stash drop"),
		),
		ViewStatus: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "status"),
		),
		ViewLog: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "log"),
		),
		ViewBranches: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "branches"),
		),
		ViewTags: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "tags"),
		),
		ViewStashes: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "stashes"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) helpText() string {
	format := func(b key.Binding) string {
		h := b.Help()
		return "  " + padRight(h.Key, 12) + h.Desc
	}

	return `Navigation
` + format(k.Up) + `
` + format(k.Down) + `
` + format(k.Top) + `
` + format(k.Bottom) + `
` + format(k.HalfDown) + `
` + format(k.HalfUp) + `
` + format(k.Tab) + `
` + format(k.DiffDown) + `
` + format(k.DiffUp) + `

Worktree
` + format(k.Stage) + `
` + format(k.StageAll) + `
` + format(k.Unstage) + `
` + format(k.Discard) + `
` + format(k.Commit) + `
` + format(k.Blame) + `

Remote & Stash
` + format(k.Fetch) + `
` + format(k.Push) + `
` + format(k.Pull) + `
` + format(k.StashSave) + `
` + format(k.StashPop) + `
` + format(k.StashDrop) + `

Views
` + format(k.ViewStatus) + `
` + format(k.ViewLog) + `
` + format(k.ViewBranches) + `
` + format(k.ViewTags) + `
` + format(k.ViewStashes) + `

` + format(k.Reload) + `
` + format(k.Help) + `
` + format(k.Quit)
}
