// Package model holds the read models shown by the CLI, TUI, and daemon.
package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/payback/internal/ledger"
)

// Summary is the dashboard view of the ledger at a point in time.
type Summary struct {
	At              time.Time
	OriginalAmount  decimal.Decimal
	TotalPaid       decimal.Decimal
	Balance         decimal.Decimal
	PaidOff         bool
	PaidFraction    float64
	PeriodicPayment decimal.Decimal
	PaymentCount    int
	LastPayment     *ledger.Payment
	NextPayday      time.Time
	PayoffDate      time.Time
	HasPayoffDate   bool
	PeriodsLeft     int
}

// Snapshot is the compact JSON form served by the daemon.
type Snapshot struct {
	At              time.Time  `json:"at"`
	Balance         string     `json:"balance"`
	OriginalAmount  string     `json:"original_amount"`
	TotalPaid       string     `json:"total_paid"`
	PaidOff         bool       `json:"paid_off"`
	PeriodicPayment string     `json:"periodic_payment"`
	Payments        int        `json:"payments"`
	NextPayday      time.Time  `json:"next_payday"`
	PayoffDate      *time.Time `json:"payoff_date,omitempty"`
}

// Snapshot converts s for JSON output.
func (s Summary) Snapshot() Snapshot {
	snap := Snapshot{
		At:              s.At,
		Balance:         s.Balance.StringFixed(2),
		OriginalAmount:  s.OriginalAmount.StringFixed(2),
		TotalPaid:       s.TotalPaid.StringFixed(2),
		PaidOff:         s.PaidOff,
		PeriodicPayment: s.PeriodicPayment.StringFixed(2),
		Payments:        s.PaymentCount,
		NextPayday:      s.NextPayday,
	}
	if s.HasPayoffDate {
		d := s.PayoffDate
		snap.PayoffDate = &d
	}
	return snap
}
