package ledger

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/payback/internal/money"
)

type memStore struct {
	data    []byte
	saves   int
	failErr error
}

func (m *memStore) Load(context.Context) ([]byte, error) { return m.data, nil }

func (m *memStore) Save(_ context.Context, data []byte) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.data = append([]byte(nil), data...)
	m.saves++
	return nil
}

func d(s string) decimal.Decimal { return money.MustParse(s) }

func debtWith(original string, payments ...string) Debt {
	debt := NewDebt(d(original))
	for _, p := range payments {
		debt.Payments = append(debt.Payments, Payment{ID: uuid.New(), Amount: d(p)})
	}
	return debt
}

func TestCurrentBalanceScenarios(t *testing.T) {
	tests := []struct {
		name    string
		debt    Debt
		balance string
		paidOff bool
	}{
		{"single payment", debtWith("5055.00", "200.00"), "4855.00", false},
		{"exactly paid", debtWith("100.00", "60.00", "40.00"), "0", true},
		{"overpaid is clamped", debtWith("100.00", "150.00"), "0", true},
		{"no payments", debtWith("100.00"), "100.00", false},
		{"negative payment ignored", debtWith("100.00", "-50", "10"), "90", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.debt.CurrentBalance().Equal(d(tt.balance)), "balance = %s", tt.debt.CurrentBalance())
			assert.Equal(t, tt.paidOff, tt.debt.IsPaidOff())
		})
	}
}

func TestCurrentBalanceProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		original := decimal.New(rng.Int63n(1_000_000), -2)
		debt := NewDebt(original)
		sum := decimal.Zero
		for j := rng.Intn(8); j > 0; j-- {
			amt := decimal.New(rng.Int63n(400_000)-100_000, -2)
			debt.Payments = append(debt.Payments, Payment{ID: uuid.New(), Amount: amt})
			sum = sum.Add(money.NonNegative(amt))
		}

		want := money.NonNegative(original.Sub(sum))
		got := debt.CurrentBalance()
		require.True(t, got.Equal(want), "got %s want %s", got, want)
		require.False(t, got.IsNegative())
		require.Equal(t, got.IsZero(), debt.IsPaidOff())
	}
}

func TestNewPaymentClampsNegative(t *testing.T) {
	p := NewPayment(d("-5"), time.Now())
	assert.True(t, p.Amount.IsZero())
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Len(t, p.ShortID(), 8)
}

func TestOpenCreatesDefault(t *testing.T) {
	st := &memStore{}
	b, err := Open(context.Background(), st, DefaultOriginalAmount, nil)
	require.NoError(t, err)

	debt := b.Debt()
	assert.True(t, debt.OriginalAmount.Equal(d("5055")))
	assert.Empty(t, debt.Payments)
	assert.True(t, debt.PeriodicPayment.IsZero())
	assert.Equal(t, 1, st.saves, "default ledger is persisted immediately")
}

func TestOpenRecoversFromCorruptData(t *testing.T) {
	st := &memStore{data: []byte("{not json")}
	b, err := Open(context.Background(), st, d("750"), nil)
	require.NoError(t, err)
	assert.True(t, b.Debt().OriginalAmount.Equal(d("750")))
	assert.Equal(t, 1, st.saves)

	_, err = Decode(st.data)
	assert.NoError(t, err)
}

func TestBookRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := &memStore{}
	clock := time.Date(2026, time.October, 15, 12, 30, 0, 0, time.UTC)
	b, err := Open(ctx, st, d("5055.00"), nil, WithClock(func() time.Time { return clock }))
	require.NoError(t, err)

	p, err := b.AddPayment(ctx, d("200.00"))
	require.NoError(t, err)
	require.NoError(t, b.SetPeriodicPayment(ctx, d("150")))

	reopened, err := Open(ctx, st, d("1"), nil)
	require.NoError(t, err)
	debt := reopened.Debt()
	require.Len(t, debt.Payments, 1)
	assert.Equal(t, p.ID, debt.Payments[0].ID)
	assert.True(t, debt.Payments[0].Amount.Equal(d("200")))
	assert.True(t, debt.Payments[0].Date.Equal(clock))
	assert.True(t, debt.PeriodicPayment.Equal(d("150")))
	assert.True(t, debt.CurrentBalance().Equal(d("4855")))
}

func TestDeletePayment(t *testing.T) {
	ctx := context.Background()
	st := &memStore{}
	b, err := Open(ctx, st, d("100"), nil)
	require.NoError(t, err)

	keep, err := b.AddPayment(ctx, d("10"))
	require.NoError(t, err)
	drop, err := b.AddPayment(ctx, d("20"))
	require.NoError(t, err)

	saves := st.saves
	removed, err := b.DeletePayment(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, saves, st.saves, "missing id is a no-op")

	removed, err = b.DeletePayment(ctx, drop.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	debt := b.Debt()
	require.Len(t, debt.Payments, 1)
	assert.Equal(t, keep.ID, debt.Payments[0].ID)
	assert.True(t, debt.CurrentBalance().Equal(d("90")))
}

func TestSetPeriodicPaymentClampsNegative(t *testing.T) {
	ctx := context.Background()
	b, err := Open(ctx, &memStore{}, d("100"), nil)
	require.NoError(t, err)
	require.NoError(t, b.SetPeriodicPayment(ctx, d("-40")))
	assert.True(t, b.Debt().PeriodicPayment.IsZero())
}

func TestSaveFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	st := &memStore{}
	b, err := Open(ctx, st, d("100"), nil)
	require.NoError(t, err)

	st.failErr = errors.New("disk full")
	_, err = b.AddPayment(ctx, d("10"))
	require.Error(t, err)
	assert.Empty(t, b.Debt().Payments)
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	b, err := Open(ctx, &memStore{}, d("100"), nil)
	require.NoError(t, err)

	var seen []decimal.Decimal
	cancel := b.Subscribe(func(debt Debt) { seen = append(seen, debt.CurrentBalance()) })

	_, err = b.AddPayment(ctx, d("30"))
	require.NoError(t, err)
	cancel()
	_, err = b.AddPayment(ctx, d("30"))
	require.NoError(t, err)

	require.Len(t, seen, 1)
	assert.True(t, seen[0].Equal(d("70")))
}

func TestRecentAndMatch(t *testing.T) {
	base := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	debt := NewDebt(d("100"))
	for i := 0; i < 3; i++ {
		debt.Payments = append(debt.Payments, NewPayment(d("1"), base.AddDate(0, 0, i)))
	}

	recent := debt.Recent()
	assert.True(t, recent[0].Date.After(recent[1].Date))
	assert.True(t, recent[1].Date.After(recent[2].Date))
	assert.True(t, debt.Payments[0].Date.Equal(base), "Recent does not reorder the ledger")

	target := debt.Payments[1]
	matches := debt.Match(target.ID.String())
	require.Len(t, matches, 1)
	assert.Equal(t, target.ID, matches[0].ID)
	assert.Nil(t, debt.Match(""))
}

func TestPaidFraction(t *testing.T) {
	assert.InDelta(t, 0.5, debtWith("100", "50").PaidFraction(), 1e-9)
	assert.InDelta(t, 1.0, debtWith("100", "500").PaidFraction(), 1e-9)
	assert.InDelta(t, 1.0, debtWith("0").PaidFraction(), 1e-9)
}

func TestReloadPicksUpOtherWriters(t *testing.T) {
	ctx := context.Background()
	st := &memStore{}
	reader, err := Open(ctx, st, d("500"), nil)
	require.NoError(t, err)
	writer, err := Open(ctx, st, d("500"), nil)
	require.NoError(t, err)

	var seen []Debt
	reader.Subscribe(func(debt Debt) { seen = append(seen, debt) })

	changed, err := reader.Reload(ctx)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, seen)

	_, err = writer.AddPayment(ctx, d("125"))
	require.NoError(t, err)

	changed, err = reader.Reload(ctx)
	require.NoError(t, err)
	assert.True(t, changed)
	require.Len(t, seen, 1)
	assert.True(t, reader.Debt().CurrentBalance().Equal(d("375")))

	st.data = []byte("garbage")
	changed, err = reader.Reload(ctx)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.True(t, reader.Debt().CurrentBalance().Equal(d("375")))
}

func TestWritesKeepOtherWritersPayments(t *testing.T) {
	ctx := context.Background()
	st := &memStore{}
	dashboard, err := Open(ctx, st, d("500"), nil)
	require.NoError(t, err)
	cli, err := Open(ctx, st, d("500"), nil)
	require.NoError(t, err)

	_, err = cli.AddPayment(ctx, d("100"))
	require.NoError(t, err)

	// The dashboard writes before it reloads.
	_, err = dashboard.AddPayment(ctx, d("25"))
	require.NoError(t, err)

	assert.Len(t, dashboard.Debt().Payments, 2)
	assert.True(t, dashboard.Debt().CurrentBalance().Equal(d("375")))

	stored, err := Decode(st.data)
	require.NoError(t, err)
	assert.Len(t, stored.Payments, 2)
}

func TestWriteOverUnreadableLedgerUsesMemory(t *testing.T) {
	ctx := context.Background()
	st := &memStore{}
	b, err := Open(ctx, st, d("100"), nil)
	require.NoError(t, err)
	_, err = b.AddPayment(ctx, d("10"))
	require.NoError(t, err)

	st.data = []byte("garbage")
	_, err = b.AddPayment(ctx, d("10"))
	require.NoError(t, err)
	assert.True(t, b.Debt().CurrentBalance().Equal(d("80")))
}
