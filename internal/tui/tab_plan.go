package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/payback/internal/cli"
	"github.com/theirongolddev/payback/internal/ledger"
	"github.com/theirongolddev/payback/internal/payoff"
	"github.com/theirongolddev/payback/internal/tui/components"
	"github.com/theirongolddev/payback/internal/tui/theme"
)

const maxPlanBars = 12

func (a App) renderPlanTab(cw int) string {
	t := theme.Active
	s := a.summary
	f := a.formatter()

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	payoffText := "set a per-payday amount to see it"
	switch {
	case s.PaidOff:
		payoffText = "already paid off"
	case s.HasPayoffDate:
		payoffText = cli.FormatDate(s.PayoffDate.Local()) + "  (" + cli.FormatPeriods(s.PeriodsLeft) + ")"
	}

	rows := []struct{ label, value string }{
		{"Per payday", f.Format(s.PeriodicPayment)},
		{"Paydays", a.app.Calendar.String()},
		{"Balance", f.Format(s.Balance)},
		{"Paid off by", payoffText},
	}
	var plan strings.Builder
	for _, r := range rows {
		plan.WriteString(labelStyle.Render(fmt.Sprintf("%-13s", r.label)))
		plan.WriteString(valueStyle.Render(r.value))
		plan.WriteString("\n")
	}
	plan.WriteString("\n")
	plan.WriteString(accentStyle.Render("+ -"))
	plan.WriteString(dimStyle.Render(fmt.Sprintf(" change by %s, from %s to %s",
		f.Format(ledger.PeriodicPaymentStep), f.Format(decimal.Zero), f.Format(ledger.MaxPeriodicPayment))))

	var b strings.Builder
	b.WriteString(components.ContentCard("Plan", plan.String(), cw))
	b.WriteString("\n")

	if len(a.projection) == 0 {
		return b.String()
	}

	inner := components.CardInnerWidth(cw)
	shown := a.projection
	if len(shown) > maxPlanBars {
		shown = shown[:maxPlanBars]
	}
	bars := make([]components.BarRow, len(shown))
	for i, r := range shown {
		bars[i] = components.BarRow{
			Label: cli.FormatDate(r.Date.Local()),
			Value: r.Remaining.InexactFloat64(),
			Text:  f.Format(r.Remaining),
		}
	}

	var proj strings.Builder
	proj.WriteString(components.HorizontalBars(bars, t.Owed, inner))
	if len(a.projection) > len(shown) {
		proj.WriteString("\n")
		proj.WriteString(dimStyle.Render(fmt.Sprintf("… %d more paydays", len(a.projection)-len(shown))))
	}
	proj.WriteString("\n\n")
	proj.WriteString(labelStyle.Render("Trend  "))
	proj.WriteString(components.Sparkline(remainingSeries(a.projection, inner-8), t.Accent))

	b.WriteString(components.ContentCard("Balance after each payday", proj.String(), cw))
	return b.String()
}

// remainingSeries samples the projected balances down to about width points.
// The last balance is always kept, so the result can be one longer.
func remainingSeries(rows []payoff.Row, width int) []float64 {
	if width < 1 || len(rows) == 0 {
		return nil
	}
	step := (len(rows) + width - 1) / width
	var out []float64
	for i := 0; i < len(rows); i += step {
		out = append(out, rows[i].Remaining.InexactFloat64())
	}
	if last := rows[len(rows)-1]; (len(rows)-1)%step != 0 {
		out = append(out, last.Remaining.InexactFloat64())
	}
	return out
}
