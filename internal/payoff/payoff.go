// Package payoff estimates when a balance is retired by a fixed periodic
// payment and projects the balance across future paydays.
package payoff

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/payback/internal/money"
	"github.com/theirongolddev/payback/internal/payday"
)

// MaxProjectionRows bounds Project when the payment is tiny.
const MaxProjectionRows = 260

// MaxHorizonDays is the furthest out an estimate is reported, about
// 10,000 years. Anything longer counts as no estimate.
const MaxHorizonDays = 10_000 * 365

// Estimate returns the estimated debt-free date using the biweekly cadence.
// The bool is false when periodic <= 0 (no estimate is possible).
func Estimate(balance, periodic decimal.Decimal, start time.Time) (time.Time, bool) {
	return EstimateEvery(balance, periodic, start, payday.DefaultIntervalDays)
}

// EstimateEvery is Estimate with an explicit period length in days. The
// bool is also false when payoff lies beyond MaxHorizonDays.
func EstimateEvery(balance, periodic decimal.Decimal, start time.Time, intervalDays int) (time.Time, bool) {
	if !periodic.IsPositive() {
		return time.Time{}, false
	}
	if !balance.IsPositive() {
		return start, true
	}
	if intervalDays <= 0 {
		intervalDays = payday.DefaultIntervalDays
	}
	periods := money.CeilDivide(balance, periodic)
	if periods > MaxHorizonDays/intervalDays {
		return time.Time{}, false
	}
	return start.AddDate(0, 0, periods*intervalDays), true
}

// Row is one payday in a payoff projection.
type Row struct {
	Date      time.Time
	Payment   decimal.Decimal
	Remaining decimal.Decimal
}

// Project applies periodic to balance on each of the given paydays until the
// balance reaches zero. The final payment is reduced to what remains.
func Project(balance, periodic decimal.Decimal, paydays []time.Time) []Row {
	if !periodic.IsPositive() || !balance.IsPositive() {
		return nil
	}

	remaining := balance
	var rows []Row
	for _, d := range paydays {
		pay := decimal.Min(periodic, remaining)
		remaining = remaining.Sub(pay)
		rows = append(rows, Row{Date: d, Payment: pay, Remaining: remaining})
		if remaining.IsZero() {
			break
		}
	}
	return rows
}

// Schedule projects balance across paydays generated by cal from ref, up to
// MaxProjectionRows rows.
func Schedule(cal payday.Calendar, balance, periodic decimal.Decimal, ref time.Time) []Row {
	if !periodic.IsPositive() || !balance.IsPositive() {
		return nil
	}
	n := money.CeilDivide(balance, periodic)
	if n > MaxProjectionRows {
		n = MaxProjectionRows
	}
	return Project(balance, periodic, cal.NextN(n, ref))
}
