// tui/theme.go
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ANSI 256 color palette
var (
	colorCleanGreen = lipgloss.Color("71")
	colorDirtyAmber = lipgloss.Color("179")
	colorDangerRed  = lipgloss.Color("167")
	colorCriticalRd = lipgloss.Color("196")

	// Accent
	colorCyan = lipgloss.Color("73")
	colorGold = lipgloss.Color("220")
	colorBlue = lipgloss.Color("69")

	// Text
	colorFg  = lipgloss.Color("253")
	colorDim = lipgloss.Color("242")

	// Selection
	colorSelBg = lipgloss.Color("238")
	colorSelFg = lipgloss.Color("255")

	colorDiffAdd  = lipgloss.Color("71")
	colorDiffDel  = lipgloss.Color("167")
	colorDiffHdr  = lipgloss.Color("139")
	colorBarEmpty = lipgloss.Color("238")
	colorHash     = lipgloss.Color("139")
)

// Braille spinner frames
var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

// Unicode icons
const (
	iconBranch   = "⟫"
	iconAhead    = "↑"
	iconBehind   = "↓"
	iconStash    = "☰"
	iconConflict = "⚠"
	iconTag      = "◈"
	iconHead     = "●"
	iconDetached = "◌"
)

// Lipgloss styles
var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	stylePath     = lipgloss.NewStyle().Foreground(colorFg).Bold(true)
	styleDim      = lipgloss.NewStyle().Foreground(colorDim)
	styleBranch   = lipgloss.NewStyle().Foreground(colorCyan)
	styleAhead    = lipgloss.NewStyle().Foreground(colorDirtyAmber)
	styleBehind   = lipgloss.NewStyle().Foreground(colorDangerRed)
	styleCleanTxt = lipgloss.NewStyle().Foreground(colorCleanGreen)
	styleConflict = lipgloss.NewStyle().Foreground(colorCriticalRd).Bold(true)
	styleAmber    = lipgloss.NewStyle().Foreground(colorDirtyAmber)
	styleGold     = lipgloss.NewStyle().Foreground(colorGold)
	styleHash     = lipgloss.NewStyle().Foreground(colorHash)

	styleDiffAdd  = lipgloss.NewStyle().Foreground(colorDiffAdd)
	styleDiffDel  = lipgloss.NewStyle().Foreground(colorDiffDel)
	styleDiffHdr  = lipgloss.NewStyle().Foreground(colorDiffHdr).Bold(true)
	styleBarEmpty = lipgloss.NewStyle().Foreground(colorBarEmpty)
	styleNetDelta = lipgloss.NewStyle().Foreground(colorBlue)

	styleSelected  = lipgloss.NewStyle().Background(colorSelBg).Foreground(colorSelFg)
	styleKey       = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	styleActiveTab = lipgloss.NewStyle().Foreground(colorCyan).Bold(true).Underline(true)

	styleToastBox = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			Padding(0, 1)
)

func renderSpinner(frame int) string {
	f := spinnerFrames[frame%len(spinnerFrames)]
	return lipgloss.NewStyle().Foreground(colorCyan).Render(f)
}

func truncateWithEllipsis(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	w := lipgloss.Width(s)
	if w <= maxWidth {
		return s
	}
	if maxWidth <= 1 {
		return "…"
	}
	// Truncate rune by rune
	runes := []rune(s)
	for i := len(runes) - 1; i >= 0; i-- {
		candidate := string(runes[:i]) + "…"
		if lipgloss.Width(candidate) <= maxWidth {
			return candidate
		}
	}
	return "…"
}

func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
