package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/payback/internal/money"
)

// Bounds of the per-payday amount offered by the CLI and dashboard. The
// ledger itself stores any non-negative value.
var (
	MaxPeriodicPayment  = decimal.NewFromInt(500)
	PeriodicPaymentStep = decimal.NewFromInt(10)
)

// ValidatePeriodic checks amount against the 0 to 500 range in steps of 10.
func ValidatePeriodic(amount decimal.Decimal) error {
	if amount.IsNegative() || amount.GreaterThan(MaxPeriodicPayment) {
		return fmt.Errorf("%w: %s is outside 0 to %s", money.ErrInvalidAmount, amount.String(), MaxPeriodicPayment.String())
	}
	if !amount.Mod(PeriodicPaymentStep).IsZero() {
		return fmt.Errorf("%w: %s is not a multiple of %s", money.ErrInvalidAmount, amount.String(), PeriodicPaymentStep.String())
	}
	return nil
}

// StepPeriodic moves current by steps increments of PeriodicPaymentStep,
// snapping to the step grid and clamping to the allowed range.
func StepPeriodic(current decimal.Decimal, steps int) decimal.Decimal {
	snapped := current.Div(PeriodicPaymentStep).Floor()
	if steps < 0 && !current.Mod(PeriodicPaymentStep).IsZero() {
		// Stepping down from an off-grid amount lands on the floor first.
		steps++
	}
	next := snapped.Add(decimal.NewFromInt(int64(steps))).Mul(PeriodicPaymentStep)
	if next.IsNegative() {
		return decimal.Zero
	}
	return decimal.Min(next, MaxPeriodicPayment)
}
