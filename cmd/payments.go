package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/payback/internal/app"
	"github.com/theirongolddev/payback/internal/cli"
	"github.com/theirongolddev/payback/internal/ledger"
)

var flagPaymentsLimit int

var paymentsCmd = &cobra.Command{
	Use:     "payments",
	Aliases: []string{"history"},
	Short:   "List recorded payments, newest first",
	Args:    cobra.NoArgs,
	RunE:    runPayments,
}

var paymentsRmCmd = &cobra.Command{
	Use:     "rm <id-prefix>",
	Aliases: []string{"delete"},
	Short:   "Delete a payment by ID or unique ID prefix",
	Args:    cobra.ExactArgs(1),
	RunE:    runPaymentsRm,
}

func init() {
	paymentsCmd.Flags().IntVarP(&flagPaymentsLimit, "limit", "l", 0, "Show at most this many payments (0 for all)")
	paymentsCmd.AddCommand(paymentsRmCmd)
	rootCmd.AddCommand(paymentsCmd)
}

func runPayments(_ *cobra.Command, _ []string) error {
	return withApp(func(_ context.Context, a *app.App) error {
		debt := a.Book.Debt()
		recent := debt.Recent()
		if len(recent) == 0 {
			fmt.Println("\n  No payments recorded yet.")
			hint("Record one with `payback pay <amount>`.")
			return nil
		}

		shown := recent
		if flagPaymentsLimit > 0 && len(shown) > flagPaymentsLimit {
			shown = shown[:flagPaymentsLimit]
		}

		rows := make([][]string, 0, len(shown)+2)
		for _, p := range shown {
			rows = append(rows, []string{p.ShortID(), cli.FormatDateTime(p.Date.Local()), a.Formatter.Format(p.Amount)})
		}
		rows = append(rows,
			[]string{"---"},
			[]string{"Total", fmt.Sprintf("%d payments", len(recent)), a.Formatter.Format(debt.TotalPaid())},
		)

		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:    "Payments",
			Headers:  []string{"ID", "Date", "Amount"},
			Rows:     rows,
			LeftCols: 2,
		}))
		if len(shown) < len(recent) {
			hint("%d older payments not shown.", len(recent)-len(shown))
		}
		return nil
	})
}

func runPaymentsRm(_ *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app.App) error {
		p, err := matchPayment(a.Book.Debt(), args[0])
		if err != nil {
			return err
		}

		removed, err := a.Book.DeletePayment(ctx, p.ID)
		if err != nil {
			return err
		}
		if !removed {
			fmt.Printf("  Payment %s was already gone.\n", p.ShortID())
			return nil
		}

		fmt.Printf("  Deleted %s payment %s. Balance is now %s.\n",
			a.Formatter.Format(p.Amount), p.ShortID(), a.Formatter.Format(a.Book.Debt().CurrentBalance()))
		return nil
	})
}

// matchPayment resolves prefix to exactly one payment.
func matchPayment(debt ledger.Debt, prefix string) (ledger.Payment, error) {
	matches := debt.Match(prefix)
	switch len(matches) {
	case 0:
		return ledger.Payment{}, fmt.Errorf("no payment matches %q", prefix)
	case 1:
		return matches[0], nil
	default:
		return ledger.Payment{}, fmt.Errorf("%q matches %d payments; use more of the ID", prefix, len(matches))
	}
}
