package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/payback/internal/tui/theme"
)

// Tab is one entry of the tab bar.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // index of Key inside Name, -1 when the key is not part of it
}

// Tabs are the dashboard tabs in display order.
var Tabs = []Tab{
	{Name: "Dashboard", Key: 'd', KeyPos: 0},
	{Name: "Payments", Key: 'p', KeyPos: 0},
	{Name: "Plan", Key: 'l', KeyPos: 1},
	{Name: "Reminders", Key: 'r', KeyPos: 0},
	{Name: "Settings", Key: 'x', KeyPos: -1},
}

// TabVisualWidth is the rendered width of tab in the bar.
func TabVisualWidth(tab Tab, active bool) int {
	w := lipgloss.Width(tab.Name) + 2
	if !active && tab.KeyPos < 0 {
		w += 3 // "[x]"
	}
	return w
}

// RenderTabBar renders a single-line tab bar padded to width.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	bar := lipgloss.NewStyle().Background(t.Surface)
	activeStyle := lipgloss.NewStyle().
		Foreground(t.Background).
		Background(t.Accent).
		Bold(true).
		Padding(0, 1)
	nameStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	keyStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	bracketStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		if i == activeIdx {
			parts[i] = activeStyle.Render(tab.Name)
			continue
		}

		var b strings.Builder
		b.WriteString(bar.Render(" "))
		if tab.KeyPos >= 0 && tab.KeyPos < len(tab.Name) {
			b.WriteString(nameStyle.Render(tab.Name[:tab.KeyPos]))
			b.WriteString(keyStyle.Render(tab.Name[tab.KeyPos : tab.KeyPos+1]))
			b.WriteString(nameStyle.Render(tab.Name[tab.KeyPos+1:]))
		} else {
			b.WriteString(nameStyle.Render(tab.Name))
			b.WriteString(bracketStyle.Render("["))
			b.WriteString(keyStyle.Render(string(tab.Key)))
			b.WriteString(bracketStyle.Render("]"))
		}
		b.WriteString(bar.Render(" "))
		parts[i] = b.String()
	}

	row := strings.Join(parts, bar.Render(" "))
	if gap := width - lipgloss.Width(row); gap > 0 {
		row += bar.Render(strings.Repeat(" ", gap))
	}
	return row
}

// TabIdxByKey returns the tab bound to key, or -1.
func TabIdxByKey(key string) int {
	for i, tab := range Tabs {
		if string(tab.Key) == key {
			return i
		}
	}
	return -1
}
