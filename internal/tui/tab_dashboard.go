package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/payback/internal/cli"
	"github.com/theirongolddev/payback/internal/ledger"
	"github.com/theirongolddev/payback/internal/tui/components"
	"github.com/theirongolddev/payback/internal/tui/theme"
)

func (a App) renderDashboardTab(cw int) string {
	t := theme.Active
	s := a.summary
	f := a.formatter()
	now := a.now()

	balance := components.Metric{Label: "Balance", Value: f.Format(s.Balance), Color: t.Owed,
		Note: "of " + f.Format(s.OriginalAmount)}
	if s.PaidOff {
		balance.Color = t.Paid
		balance.Note = "paid off"
	}

	paid := components.Metric{Label: "Paid so far", Value: f.Format(s.TotalPaid), Color: t.Paid,
		Note: fmt.Sprintf("%d payments", s.PaymentCount)}
	if s.PaymentCount == 1 {
		paid.Note = "1 payment"
	}

	plan := components.Metric{Label: "Per payday", Value: f.Format(s.PeriodicPayment), Note: "+/- to change"}

	payoffDate := components.Metric{Label: "Paid off by", Value: "no plan", Color: t.TextDim, Note: "set a per-payday amount"}
	switch {
	case s.PaidOff:
		payoffDate.Value = "done"
		payoffDate.Color = t.Paid
		payoffDate.Note = ""
	case s.HasPayoffDate:
		payoffDate.Value = cli.FormatDate(s.PayoffDate.Local())
		payoffDate.Color = t.Info
		payoffDate.Note = cli.FormatPeriods(s.PeriodsLeft) + " left"
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{balance, paid, plan, payoffDate}, cw))
	b.WriteString("\n")

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	half := components.LayoutRow(cw, 2)

	// Progress card
	var prog strings.Builder
	prog.WriteString(components.RepaymentBar(s.PaidFraction, components.CardInnerWidth(half[0])-7))
	prog.WriteString("\n\n")
	prog.WriteString(labelStyle.Render("Next payday   "))
	prog.WriteString(valueStyle.Render(cli.FormatDateTime(s.NextPayday.Local())))
	prog.WriteString(dimStyle.Render("  in " + cli.FormatCountdown(s.NextPayday.Sub(now))))
	prog.WriteString("\n")
	prog.WriteString(labelStyle.Render("Last payment  "))
	if s.LastPayment != nil {
		prog.WriteString(valueStyle.Render(f.Format(s.LastPayment.Amount)))
		prog.WriteString(dimStyle.Render("  " + cli.FormatDate(s.LastPayment.Date.Local())))
	} else {
		prog.WriteString(dimStyle.Render("none yet"))
	}
	prog.WriteString("\n")
	prog.WriteString(labelStyle.Render("Reminders     "))
	prog.WriteString(a.reminderBadge())

	// Quick pay card
	keyStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	var quick strings.Builder
	if s.PaidOff {
		quick.WriteString(lipgloss.NewStyle().Foreground(t.Paid).Background(t.Surface).Bold(true).
			Render("All paid back. Nice work."))
		quick.WriteString("\n")
	}
	for i, amt := range ledger.QuickAmounts {
		quick.WriteString(keyStyle.Render(fmt.Sprintf("[%d]", i+1)))
		quick.WriteString(valueStyle.Render(" " + f.Format(amt)))
		quick.WriteString("\n")
	}
	quick.WriteString(keyStyle.Render("[n]"))
	quick.WriteString(valueStyle.Render(" other amount"))

	b.WriteString(components.CardRow([]string{
		components.ContentCard("Progress", prog.String(), half[0]),
		components.ContentCard("Record a payment", quick.String(), half[1]),
	}))
	return b.String()
}

// reminderBadge summarizes reminder permission and scheduling.
func (a App) reminderBadge() string {
	t := theme.Active
	style := lipgloss.NewStyle().Background(t.Surface)

	switch {
	case !a.reminders.HasPermission:
		return style.Foreground(t.TextDim).Render("off")
	case a.reminders.Scheduled:
		return style.Foreground(t.Paid).Render(fmt.Sprintf("on, %d scheduled", len(a.upcoming)))
	default:
		return style.Foreground(t.Warn).Render("allowed, none scheduled")
	}
}
