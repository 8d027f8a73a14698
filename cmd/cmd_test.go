package cmd

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/payback/internal/ledger"
	"github.com/theirongolddev/payback/internal/model"
	"github.com/theirongolddev/payback/internal/money"
	"github.com/theirongolddev/payback/internal/notify"
	"github.com/theirongolddev/payback/internal/reminder"
)

func TestPayAmount(t *testing.T) {
	got, err := payAmount(nil, 50)
	require.NoError(t, err)
	assert.Equal(t, "50", got.String())

	got, err = payAmount([]string{"$1,000.50"}, 0)
	require.NoError(t, err)
	assert.Equal(t, "1000.5", got.String())

	_, err = payAmount(nil, 30)
	assert.ErrorIs(t, err, money.ErrInvalidAmount)

	_, err = payAmount([]string{"5"}, 20)
	assert.Error(t, err)

	_, err = payAmount(nil, 0)
	assert.Error(t, err)

	_, err = payAmount([]string{"-5"}, 0)
	assert.ErrorIs(t, err, money.ErrInvalidAmount)
}

func TestParsePeriodic(t *testing.T) {
	for _, in := range []string{"0", "$0", "0.00"} {
		got, err := parsePeriodic(in)
		require.NoError(t, err, in)
		assert.True(t, got.IsZero(), in)
	}

	got, err := parsePeriodic("120")
	require.NoError(t, err)
	assert.Equal(t, "120", got.String())

	for _, in := range []string{"125", "510", "abc"} {
		_, err := parsePeriodic(in)
		assert.Error(t, err, in)
	}
}

func TestMatchPayment(t *testing.T) {
	at := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	debt := ledger.NewDebt(money.MustParse("100"))
	debt.Payments = []ledger.Payment{
		{ID: uuid.MustParse("aaaa1111-0000-4000-8000-000000000001"), Amount: money.MustParse("10"), Date: at},
		{ID: uuid.MustParse("aaaa2222-0000-4000-8000-000000000002"), Amount: money.MustParse("20"), Date: at},
	}

	p, err := matchPayment(debt, "AAAA2")
	require.NoError(t, err)
	assert.Equal(t, "20", p.Amount.String())

	_, err = matchPayment(debt, "aaaa")
	assert.ErrorContains(t, err, "matches 2 payments")

	_, err = matchPayment(debt, "ffff")
	assert.ErrorContains(t, err, "no payment matches")
}

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"daemon", "--detach", "--addr", "127.0.0.1:1", "--detach=true"})
	assert.Equal(t, []string{"daemon", "--addr", "127.0.0.1:1"}, got)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "done", payoffLabel(model.Summary{PaidOff: true}))
	assert.Contains(t, payoffLabel(model.Summary{}), "per-payday amount is zero")
	assert.Contains(t, payoffLabel(model.Summary{PeriodicPayment: money.MustParse("0.01")}), "10,000 years")

	assert.Contains(t, reminderLabel(reminder.State{}), "payback remind allow")
	assert.Equal(t, "scheduled", reminderLabel(reminder.State{HasPermission: true, Scheduled: true}))
}

func TestReminderNote(t *testing.T) {
	note, warn := reminderNote(notify.StatusDenied, reminder.State{}, false)
	assert.Contains(t, note, "remind allow")
	assert.True(t, warn)

	note, warn = reminderNote(notify.StatusAuthorized, reminder.State{HasPermission: true}, false)
	assert.Contains(t, note, "remind schedule")
	assert.False(t, warn)

	note, _ = reminderNote(notify.StatusAuthorized, reminder.State{HasPermission: true, Scheduled: true}, true)
	assert.Empty(t, note)
}
