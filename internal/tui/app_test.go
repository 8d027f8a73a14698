package tui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/payback/internal/app"
	"github.com/theirongolddev/payback/internal/config"
	"github.com/theirongolddev/payback/internal/money"
	"github.com/theirongolddev/payback/internal/payoff"
	"github.com/theirongolddev/payback/internal/tui/theme"
)

var testNow = time.Date(2026, time.October, 15, 12, 0, 0, 0, time.Local)

func newTestModel(t *testing.T) App {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.General.DataDir = t.TempDir()

	core, err := app.Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = core.Close() })

	m := NewApp(core)
	m.configPath = filepath.Join(t.TempDir(), "config.toml")
	m.now = func() time.Time { return testNow }
	return feed(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
}

func feed(t *testing.T, m App, msg tea.Msg) App {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(App)
	require.True(t, ok)
	return out
}

func press(t *testing.T, m App, key string) (App, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "delete":
		msg = tea.KeyMsg{Type: tea.KeyDelete}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, cmd := m.Update(msg)
	return next.(App), cmd
}

// finish runs the background action started by cmd and feeds its result
// and the resulting ledger update back into the model.
func finish(t *testing.T, m App, cmd tea.Cmd) App {
	t.Helper()
	require.NotNil(t, cmd)

	var done *actionDoneMsg
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c == nil {
				continue
			}
			if d, ok := c().(actionDoneMsg); ok {
				done = &d
			}
		}
	} else if d, ok := msg.(actionDoneMsg); ok {
		done = &d
	}
	require.NotNil(t, done, "command did not run an action")

	m = feed(t, m, *done)
	for {
		select {
		case u := <-m.updates:
			m = feed(t, m, u)
		default:
			return m
		}
	}
}

func TestQuickPayRecordsPayment(t *testing.T) {
	m := newTestModel(t)

	m, cmd := press(t, m, "1")
	assert.Equal(t, "Saving payment", m.busy)

	m = finish(t, m, cmd)
	assert.Empty(t, m.busy)
	assert.True(t, m.flashOK)
	assert.Equal(t, "Paid $20.00", m.flash)
	assert.Equal(t, "5035.00", m.summary.Balance.StringFixed(2))
	assert.Len(t, m.app.Book.Debt().Payments, 1)
}

func TestPlusMinusStepPeriodicPayment(t *testing.T) {
	m := newTestModel(t)

	m, cmd := press(t, m, "+")
	m = finish(t, m, cmd)
	m, cmd = press(t, m, "+")
	m = finish(t, m, cmd)
	assert.Equal(t, "20", m.debt.PeriodicPayment.String())
	require.True(t, m.summary.HasPayoffDate)
	assert.NotEmpty(t, m.projection)

	m, cmd = press(t, m, "-")
	m = finish(t, m, cmd)
	assert.Equal(t, "10", m.app.Book.Debt().PeriodicPayment.String())

	// Already at zero: nothing to do.
	m, cmd = press(t, m, "-")
	m = finish(t, m, cmd)
	_, cmd = press(t, m, "-")
	assert.Nil(t, cmd)
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	m := newTestModel(t)
	ctx := context.Background()
	_, err := m.app.Book.AddPayment(ctx, money.MustParse("75"))
	require.NoError(t, err)
	m = feed(t, m, <-m.updates)

	m, _ = press(t, m, "p")
	require.Equal(t, tabPayments, m.activeTab)

	m, _ = press(t, m, "delete")
	require.True(t, m.payments.confirming())
	assert.Contains(t, m.View(), "[y/N]")

	m, cmd := press(t, m, "n")
	assert.Nil(t, cmd)
	assert.False(t, m.payments.confirming())
	assert.Len(t, m.app.Book.Debt().Payments, 1)

	m, _ = press(t, m, "delete")
	m, cmd = press(t, m, "y")
	m = finish(t, m, cmd)
	assert.Empty(t, m.app.Book.Debt().Payments)
	assert.Equal(t, "Deleted $75.00 payment", m.flash)
	assert.Contains(t, m.View(), "No payments yet")
}

func TestPaymentFormEscCancels(t *testing.T) {
	m := newTestModel(t)

	m, _ = press(t, m, "n")
	require.NotNil(t, m.payForm)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(App)
	assert.Nil(t, m.payForm)
	assert.Empty(t, m.app.Book.Debt().Payments)
}

func TestValidatePaymentAmount(t *testing.T) {
	assert.NoError(t, validatePaymentAmount("$1,250.50"))
	assert.Error(t, validatePaymentAmount("0"))
	assert.Error(t, validatePaymentAmount("abc"))
}

func TestEveryTabRenders(t *testing.T) {
	m := newTestModel(t)
	want := map[string]string{
		"d": "Record a payment",
		"p": "No payments yet",
		"l": "Per payday",
		"r": "Payday reminders",
		"x": "Config file",
	}
	for key, text := range want {
		m, _ = press(t, m, key)
		assert.Contains(t, m.View(), text, "tab %s", key)
	}
}

func TestHelpToggles(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, "?")
	assert.Contains(t, m.View(), "Keyboard Shortcuts")
	m, _ = press(t, m, "j")
	assert.False(t, m.showHelp)
}

func TestRemindersAllow(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, "r")

	m, cmd := press(t, m, "enter")
	m = finish(t, m, cmd)
	assert.Equal(t, "Reminders on: 6 scheduled", m.flash)
	assert.True(t, m.reminders.Scheduled)

	m, cmd = press(t, m, "D")
	m = finish(t, m, cmd)
	assert.Equal(t, "Reminders off", m.flash)
	assert.False(t, m.reminders.HasPermission)

	m, cmd = press(t, m, "s")
	m = finish(t, m, cmd)
	assert.False(t, m.flashOK)
}

func TestSettingsRejectsUnknownTheme(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, "x")
	m, _ = press(t, m, "enter")
	require.True(t, m.settings.editing)

	m.settings.input.SetValue("neon")
	m, _ = press(t, m, "enter")
	assert.False(t, m.settings.editing)
	assert.False(t, m.flashOK)
	assert.Equal(t, theme.FlexokiDark.Name, m.app.Config.Appearance.Theme)
}

func TestSettingsMovesPayday(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, "x")
	m, _ = press(t, m, "j")
	m, _ = press(t, m, "j")
	m, _ = press(t, m, "j")
	require.Equal(t, settingsFieldWeekday, m.settings.cursor)

	m, _ = press(t, m, "enter")
	m.settings.input.SetValue("Friday")
	m, _ = press(t, m, "enter")

	assert.True(t, m.flashOK, m.flash)
	assert.Equal(t, time.Friday, m.app.Calendar.Weekday)
	assert.Equal(t, time.Friday, m.summary.NextPayday.Weekday())

	saved, err := config.LoadFrom(m.configPath)
	require.NoError(t, err)
	assert.Equal(t, "friday", saved.Payday.Weekday)
}

func TestRemainingSeries(t *testing.T) {
	rows := make([]payoff.Row, 10)
	for i := range rows {
		rows[i].Remaining = decimal.NewFromInt(int64(900 - 100*i))
	}
	out := remainingSeries(rows, 4)
	assert.Equal(t, []float64{900, 600, 300, 0}, out)
	assert.Len(t, remainingSeries(rows, 20), 10)
	assert.Nil(t, remainingSeries(nil, 4))
}

func TestCloseStopsSubscriptions(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultConfig()
	cfg.General.DataDir = t.TempDir()
	core, err := app.Open(ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = core.Close() })

	m := NewApp(core)
	_, err = core.Book.AddPayment(ctx, money.MustParse("5"))
	require.NoError(t, err)
	require.Len(t, m.updates, 1)
	<-m.updates

	m.Close()
	_, err = core.Book.AddPayment(ctx, money.MustParse("5"))
	require.NoError(t, err)
	core.Policy.Refresh(ctx)
	assert.Empty(t, m.updates)
}
