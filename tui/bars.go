// tui/bars.go
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHBar renders a single-color horizontal bar.
// Returns: "████░░░░" with value/maxValue proportion filled.
func renderHBar(value, maxValue, width int, fg lipgloss.Color) string {
	if maxValue <= 0 || width <= 0 {
		return ""
	}
	if value < 0 {
		value = 0
	}
	if value > maxValue {
		value = maxValue
	}

	filled := value * width / maxValue
	empty := width - filled

	var b strings.Builder
	if filled > 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(fg).Render(strings.Repeat("█", filled)))
	}
	if empty > 0 {
		b.WriteString(styleBarEmpty.Render(strings.Repeat("░", empty)))
	}
	return b.String()
}

// renderProgressBar renders a transfer-progress bar for a 0..1 fraction.
func renderProgressBar(fraction float64, width int) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	return renderHBar(int(fraction*1000), 1000, width, colorCyan)
}

// renderDiffBar renders a green/red split bar for +added/-deleted lines.
func renderDiffBar(added, deleted, width int) string {
	total := added + deleted
	if total == 0 || width <= 0 {
		return styleBarEmpty.Render(strings.Repeat("░", width))
	}

	addedW := added * width / total
	deletedW := width - addedW
	if addedW == 0 && added > 0 {
		addedW = 1
		deletedW = width - 1
	}

	var b strings.Builder
	if addedW > 0 {
		b.WriteString(styleDiffAdd.Render(strings.Repeat("█", addedW)))
	}
	if deletedW > 0 {
		b.WriteString(styleDiffDel.Render(strings.Repeat("▒", deletedW)))
	}
	return b.String()
}

// renderStackedBar renders a stacked bar with three segments
// (staged, modified, untracked) proportional to their counts.
func renderStackedBar(staged, modified, untracked, width int) string {
	total := staged + modified + untracked
	if total == 0 || width <= 0 {
		return styleBarEmpty.Render(strings.Repeat("░", width))
	}

	stagedW := staged * width / total
	modifiedW := modified * width / total
	untrackedW := untracked * width / total

	// Distribute remainder to largest segment
	remainder := width - stagedW - modifiedW - untrackedW
	if staged >= modified && staged >= untracked {
		stagedW += remainder
	} else if modified >= untracked {
		modifiedW += remainder
	} else {
		untrackedW += remainder
	}

	var b strings.Builder
	if stagedW > 0 {
		b.WriteString(styleDiffAdd.Render(strings.Repeat("█", stagedW)))
	}
	if modifiedW > 0 {
		b.WriteString(styleAmber.Render(strings.Repeat("█", modifiedW)))
	}
	if untrackedW > 0 {
		b.WriteString(styleDim.Render(strings.Repeat("█", untrackedW)))
	}

	return b.String()
}
