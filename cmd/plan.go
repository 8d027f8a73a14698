package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/payback/internal/app"
	"github.com/theirongolddev/payback/internal/cli"
	"github.com/theirongolddev/payback/internal/ledger"
	"github.com/theirongolddev/payback/internal/money"
	"github.com/theirongolddev/payback/internal/payoff"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the payday-by-payday payoff projection",
	Args:  cobra.NoArgs,
	RunE:  runPlan,
}

var planSetCmd = &cobra.Command{
	Use:   "set <amount>",
	Short: "Set the amount paid each payday (0 to 500, steps of 10)",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlanSet,
}

func init() {
	planCmd.AddCommand(planSetCmd)
	rootCmd.AddCommand(planCmd)
}

func runPlan(_ *cobra.Command, _ []string) error {
	return withApp(func(_ context.Context, a *app.App) error {
		now := time.Now()
		s := a.Summary(now)

		fmt.Println()
		fmt.Println(cli.RenderTitle("PAYOFF PLAN"))
		fmt.Println()
		fmt.Print(cli.RenderKV([]cli.KV{
			{Label: "Balance", Value: a.Formatter.Format(s.Balance)},
			{Label: "Per payday", Value: a.Formatter.Format(s.PeriodicPayment)},
			{Label: "Paydays", Value: a.Calendar.String()},
			{Label: "Payoff", Value: payoffLabel(s)},
		}))
		fmt.Println()

		switch {
		case s.PaidOff:
			fmt.Println("  Nothing left to plan.")
			return nil
		case s.PeriodicPayment.IsZero():
			hint("Set a per-payday amount with `payback plan set <amount>`.")
			return nil
		}

		rows := a.Projection(now)
		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"#", "Payday", "Payment", "Remaining"},
			Rows:    projectionRows(rows, a),
		}))
		if len(rows) == payoff.MaxProjectionRows && rows[len(rows)-1].Remaining.IsPositive() {
			hint("Showing the first %d paydays.", payoff.MaxProjectionRows)
		}
		return nil
	})
}

func projectionRows(rows []payoff.Row, a *app.App) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			fmt.Sprintf("%d", i+1),
			cli.FormatDate(r.Date),
			a.Formatter.Format(r.Payment),
			a.Formatter.Format(r.Remaining),
		}
	}
	return out
}

func runPlanSet(_ *cobra.Command, args []string) error {
	amount, err := parsePeriodic(args[0])
	if err != nil {
		return err
	}

	return withApp(func(ctx context.Context, a *app.App) error {
		if err := a.Book.SetPeriodicPayment(ctx, amount); err != nil {
			return err
		}
		s := a.Summary(time.Now())
		fmt.Printf("  Paying %s each payday. Payoff: %s\n", a.Formatter.Format(amount), payoffLabel(s))
		return nil
	})
}

// parsePeriodic accepts zero as well as any positive amount on the step grid.
func parsePeriodic(text string) (decimal.Decimal, error) {
	amount, err := money.ParseAmount(text)
	if err != nil {
		zero, zerr := decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(text), "$"))
		if zerr != nil || !zero.IsZero() {
			return decimal.Zero, err
		}
		amount = decimal.Zero
	}
	if err := ledger.ValidatePeriodic(amount); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}
