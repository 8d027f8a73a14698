package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/payback/internal/config"
	"github.com/theirongolddev/payback/internal/ledger"
	"github.com/theirongolddev/payback/internal/money"
	"github.com/theirongolddev/payback/internal/notify"
	"github.com/theirongolddev/payback/internal/payday"
)

func wednesdayCalendar() payday.Calendar {
	cal := payday.Default()
	cal.Location = time.UTC
	return cal
}

func TestSummarizeEstimatesFromNextPayday(t *testing.T) {
	debt := ledger.NewDebt(money.MustParse("1000"))
	debt.PeriodicPayment = money.MustParse("300")

	// Thursday 2026-10-15; next payday is Wednesday 2026-10-21.
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	s := Summarize(debt, wednesdayCalendar(), now)

	assert.Equal(t, time.Date(2026, 10, 21, 9, 0, 0, 0, time.UTC), s.NextPayday)
	require.True(t, s.HasPayoffDate)
	assert.Equal(t, 4, s.PeriodsLeft)
	assert.Equal(t, s.NextPayday.AddDate(0, 0, 56), s.PayoffDate)
	assert.False(t, s.PaidOff)
	assert.Nil(t, s.LastPayment)
}

func TestSummarizeWithoutPeriodicPayment(t *testing.T) {
	debt := ledger.NewDebt(money.MustParse("1000"))
	s := Summarize(debt, wednesdayCalendar(), time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC))

	assert.False(t, s.HasPayoffDate)
	assert.Zero(t, s.PeriodsLeft)
	assert.Nil(t, s.Snapshot().PayoffDate)
}

func TestSummarizePaidOff(t *testing.T) {
	debt := ledger.NewDebt(money.MustParse("100"))
	debt.PeriodicPayment = money.MustParse("50")
	debt.Payments = []ledger.Payment{
		ledger.NewPayment(money.MustParse("150"), time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)),
	}
	s := Summarize(debt, wednesdayCalendar(), time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC))

	assert.True(t, s.PaidOff)
	assert.True(t, s.Balance.IsZero())
	require.True(t, s.HasPayoffDate)
	assert.Equal(t, s.NextPayday, s.PayoffDate)
	require.NotNil(t, s.LastPayment)
	assert.Equal(t, "0.00", s.Snapshot().Balance)
}

func TestOpenWiresServices(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.General.DataDir = t.TempDir()
	ctx := context.Background()

	a, err := Open(ctx, cfg, nil)
	require.NoError(t, err)

	_, err = a.Book.AddPayment(ctx, money.MustParse("55"))
	require.NoError(t, err)
	require.NoError(t, a.Close())

	b, err := Open(ctx, cfg, nil)
	require.NoError(t, err)
	defer func() { _ = b.Close() }()

	debt := b.Book.Debt()
	require.Len(t, debt.Payments, 1)
	assert.True(t, debt.CurrentBalance().Equal(money.MustParse("5000")))
}

func TestOpenRejectsBadPayday(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.General.DataDir = t.TempDir()
	cfg.Payday.Time = "25:00"

	_, err := Open(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func openTemp(t *testing.T) *App {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.General.DataDir = t.TempDir()
	a, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestAllowAndDenyReminders(t *testing.T) {
	ctx := context.Background()
	a := openTemp(t)

	n, err := a.AllowReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.True(t, a.Policy.State().Scheduled)
	assert.True(t, a.Policy.Enabled(ctx))

	require.NoError(t, a.DenyReminders(ctx))
	assert.False(t, a.Policy.Enabled(ctx))
	status, err := a.Center.AuthorizationStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, notify.StatusDenied, status)
	pending, err := a.Center.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.Equal(t, 0, a.Policy.Schedule(ctx))

	// Allowing again lifts the earlier deny.
	n, err = a.AllowReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
}

func TestSetCalendarMovesNextPayday(t *testing.T) {
	a := openTemp(t)

	cal := wednesdayCalendar()
	cal.Weekday = time.Friday
	a.SetCalendar(cal)

	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC), a.Summary(now).NextPayday)
}
