package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/payback/internal/app"
	"github.com/theirongolddev/payback/internal/ledger"
	"github.com/theirongolddev/payback/internal/money"
)

var flagPayQuick int

var payCmd = &cobra.Command{
	Use:   "pay [amount]",
	Short: "Record a payment",
	Long: "Record a payment against the balance. Give an amount such as 75 or $1,200.50, " +
		"or use --quick with one of the quick amounts (20, 50, 100, 200).",
	Args: cobra.MaximumNArgs(1),
	RunE: runPay,
}

func init() {
	payCmd.Flags().IntVar(&flagPayQuick, "quick", 0, "Quick amount: 20, 50, 100, or 200")
	rootCmd.AddCommand(payCmd)
}

func runPay(_ *cobra.Command, args []string) error {
	amount, err := payAmount(args, flagPayQuick)
	if err != nil {
		return err
	}

	return withApp(func(ctx context.Context, a *app.App) error {
		p, err := a.Book.AddPayment(ctx, amount)
		if err != nil {
			return err
		}

		s := a.Summary(time.Now())
		fmt.Printf("\n  Recorded %s (%s)\n\n", a.Formatter.Format(p.Amount), p.ShortID())
		fmt.Print(renderSummary(s, a.Formatter, s.At))
		fmt.Println()
		if s.PaidOff {
			fmt.Println("  Debt paid off.")
			fmt.Println()
		}
		return nil
	})
}

// payAmount resolves the amount from the argument or the quick flag.
func payAmount(args []string, quick int) (decimal.Decimal, error) {
	switch {
	case quick != 0 && len(args) > 0:
		return decimal.Zero, errors.New("give an amount or --quick, not both")
	case quick != 0:
		q := decimal.NewFromInt(int64(quick))
		for _, allowed := range ledger.QuickAmounts {
			if q.Equal(allowed) {
				return q, nil
			}
		}
		return decimal.Zero, fmt.Errorf("--quick %d: %w (choose 20, 50, 100, or 200)", quick, money.ErrInvalidAmount)
	case len(args) == 1:
		return money.ParseAmount(args[0])
	default:
		return decimal.Zero, errors.New("missing amount")
	}
}
