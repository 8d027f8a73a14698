package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/payback/internal/tui/theme"
)

// ColorForPaid moves from the owed color to the paid color as the debt
// shrinks.
func ColorForPaid(fraction float64) lipgloss.Color {
	t := theme.Active
	switch {
	case fraction >= 1:
		return t.Paid
	case fraction >= 0.5:
		return t.Accent
	case fraction >= 0.25:
		return t.Warn
	default:
		return t.Owed
	}
}

// RepaymentBar renders how much of the debt is paid, followed by the
// percentage.
func RepaymentBar(fraction float64, width int) string {
	t := theme.Active

	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	if width < 4 {
		width = 4
	}

	color := ColorForPaid(fraction)
	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	space := lipgloss.NewStyle().Background(t.Surface)
	pct := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)

	return bar.ViewAs(fraction) + space.Render(" ") + pct.Render(fmt.Sprintf("%5.1f%%", fraction*100))
}
