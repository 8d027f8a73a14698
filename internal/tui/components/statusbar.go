package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/payback/internal/tui/theme"
)

// Status is the content of the bottom bar.
type Status struct {
	Busy    string // spinner frame plus label while an action runs
	Flash   string
	FlashOK bool
	Right   string
}

// RenderStatusBar renders the bottom status bar padded to width.
func RenderStatusBar(width int, s Status) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	keyStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	flashStyle := lipgloss.NewStyle().Foreground(t.Paid).Background(t.Surface)
	if !s.FlashOK {
		flashStyle = flashStyle.Foreground(t.Danger)
	}

	left := base.Render(" ") + keyStyle.Render("?") + base.Render(" help  ") +
		keyStyle.Render("q") + base.Render(" quit")
	switch {
	case s.Busy != "":
		left += base.Render("  " + s.Busy)
	case s.Flash != "":
		left += base.Render("  ") + flashStyle.Render(s.Flash)
	}

	right := base.Render(s.Right + " ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + base.Render(strings.Repeat(" ", gap)) + right
}
