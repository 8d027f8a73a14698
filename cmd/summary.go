package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/payback/internal/app"
	"github.com/theirongolddev/payback/internal/cli"
	"github.com/theirongolddev/payback/internal/model"
	"github.com/theirongolddev/payback/internal/money"
	"github.com/theirongolddev/payback/internal/reminder"
)

var summaryCmd = &cobra.Command{
	Use:     "summary",
	Aliases: []string{"status"},
	Short:   "Balance, progress, next payday, and payoff estimate",
	RunE:    runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	return withApp(func(ctx context.Context, a *app.App) error {
		now := time.Now()
		s := a.Summary(now)
		st := a.Policy.Refresh(ctx)

		fmt.Println()
		fmt.Println(cli.RenderTitle("PAYBACK"))
		fmt.Println()
		fmt.Print(renderSummary(s, a.Formatter, now))
		fmt.Println()
		fmt.Print(cli.RenderKV([]cli.KV{{Label: "Reminders", Value: reminderLabel(st)}}))
		fmt.Println()

		if !s.PaidOff && s.PeriodicPayment.IsZero() {
			hint("Set a per-payday amount with `payback plan set <amount>` to get a payoff date.")
		}
		return nil
	})
}

func renderSummary(s model.Summary, f *money.Formatter, now time.Time) string {
	status := "Paying back"
	if s.PaidOff {
		status = "Paid off"
	}

	pairs := []cli.KV{
		{Label: "Balance", Value: f.Format(s.Balance)},
		{Label: "Status", Value: status},
		{Label: "Progress", Value: cli.RenderProgressBar(s.PaidFraction, 24)},
		{Label: "Paid so far", Value: fmt.Sprintf("%s of %s", f.Format(s.TotalPaid), f.Format(s.OriginalAmount))},
		{Label: "Per payday", Value: f.Format(s.PeriodicPayment)},
		{Label: "Next payday", Value: fmt.Sprintf("%s (in %s)", cli.FormatDateTime(s.NextPayday), cli.FormatCountdown(s.NextPayday.Sub(now)))},
		{Label: "Payoff", Value: payoffLabel(s)},
	}
	if s.LastPayment != nil {
		pairs = append(pairs, cli.KV{
			Label: "Last payment",
			Value: fmt.Sprintf("%s on %s", f.Format(s.LastPayment.Amount), cli.FormatDate(s.LastPayment.Date.Local())),
		})
	}
	return cli.RenderKV(pairs)
}

func payoffLabel(s model.Summary) string {
	switch {
	case s.PaidOff:
		return "done"
	case !s.HasPayoffDate && s.PeriodicPayment.IsPositive():
		return "no estimate (more than 10,000 years out)"
	case !s.HasPayoffDate:
		return "no estimate (per-payday amount is zero)"
	default:
		return fmt.Sprintf("%s (%s)", cli.FormatDate(s.PayoffDate), cli.FormatPeriods(s.PeriodsLeft))
	}
}

func reminderLabel(st reminder.State) string {
	switch {
	case !st.HasPermission:
		return "off (run `payback remind allow`)"
	case st.Scheduled:
		return "scheduled"
	default:
		return "allowed, none scheduled"
	}
}
