// Package ledger holds the debt aggregate: the original amount, the payments
// logged against it, and the configured periodic payment.
package ledger

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/payback/internal/money"
)

// DefaultOriginalAmount is used when no ledger has been saved yet.
var DefaultOriginalAmount = decimal.RequireFromString("5055.00")

// QuickAmounts are the one-tap payment sizes.
var QuickAmounts = []decimal.Decimal{
	decimal.NewFromInt(20),
	decimal.NewFromInt(50),
	decimal.NewFromInt(100),
	decimal.NewFromInt(200),
}

// Payment is an immutable record of money paid toward the debt.
type Payment struct {
	ID     uuid.UUID       `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
}

// NewPayment creates a payment with a fresh ID. Negative amounts become zero.
func NewPayment(amount decimal.Decimal, at time.Time) Payment {
	return Payment{
		ID:     uuid.New(),
		Amount: money.NonNegative(amount),
		Date:   at,
	}
}

// ShortID is the first eight characters of the payment ID.
func (p Payment) ShortID() string {
	return p.ID.String()[:8]
}

// Debt is the ledger aggregate. Balance values are derived on read.
type Debt struct {
	OriginalAmount  decimal.Decimal `json:"originalAmount"`
	Payments        []Payment       `json:"payments"`
	PeriodicPayment decimal.Decimal `json:"paycheckPaymentAmount"`
}

// NewDebt returns an empty ledger for original.
func NewDebt(original decimal.Decimal) Debt {
	return Debt{
		OriginalAmount:  original,
		Payments:        []Payment{},
		PeriodicPayment: decimal.Zero,
	}
}

// TotalPaid sums payments, counting each one as at least zero.
func (d Debt) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, p := range d.Payments {
		total = total.Add(money.NonNegative(p.Amount))
	}
	return total
}

// CurrentBalance is max(0, original - total paid). Overpayment is absorbed.
func (d Debt) CurrentBalance() decimal.Decimal {
	return money.NonNegative(d.OriginalAmount.Sub(d.TotalPaid()))
}

// IsPaidOff reports whether the balance is zero.
func (d Debt) IsPaidOff() bool {
	return d.CurrentBalance().IsZero()
}

// PaidFraction is the share of the original amount retired, in [0, 1].
func (d Debt) PaidFraction() float64 {
	if !d.OriginalAmount.IsPositive() {
		return 1
	}
	paid := d.OriginalAmount.Sub(d.CurrentBalance())
	f := paid.Div(d.OriginalAmount).InexactFloat64()
	if f > 1 {
		return 1
	}
	return f
}

// Recent returns a copy of the payments, newest first.
func (d Debt) Recent() []Payment {
	out := make([]Payment, len(d.Payments))
	copy(out, d.Payments)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// Match returns payments whose ID starts with prefix (case-insensitive).
func (d Debt) Match(prefix string) []Payment {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil
	}
	var out []Payment
	for _, p := range d.Payments {
		if strings.HasPrefix(p.ID.String(), prefix) {
			out = append(out, p)
		}
	}
	return out
}

func (d Debt) clone() Debt {
	c := d
	c.Payments = make([]Payment, len(d.Payments))
	copy(c.Payments, d.Payments)
	return c
}
