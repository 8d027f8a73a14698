// Package app wires the store, ledger, reminder policy, and formatter of one
// payback installation from its configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/theirongolddev/payback/internal/config"
	"github.com/theirongolddev/payback/internal/ledger"
	"github.com/theirongolddev/payback/internal/model"
	"github.com/theirongolddev/payback/internal/money"
	"github.com/theirongolddev/payback/internal/notify"
	"github.com/theirongolddev/payback/internal/payday"
	"github.com/theirongolddev/payback/internal/payoff"
	"github.com/theirongolddev/payback/internal/reminder"
	"github.com/theirongolddev/payback/internal/store"
)

// App bundles the services of one installation.
type App struct {
	Config    config.Config
	Log       *zap.Logger
	DB        *store.DB
	Book      *ledger.Book
	Center    *notify.Local
	Policy    *reminder.Policy
	Calendar  payday.Calendar
	Formatter *money.Formatter
}

// Open wires an App from cfg. The caller must Close it.
func Open(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}

	cal, err := cfg.Calendar()
	if err != nil {
		return nil, err
	}
	original, err := cfg.OriginalAmount()
	if err != nil {
		return nil, err
	}

	db, err := store.Open(cfg.DBPath())
	if err != nil {
		return nil, err
	}

	book, err := ledger.Open(ctx, db.Blob(store.LedgerKey), original, log.Named("ledger"))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	center := notify.NewLocal(db)
	return &App{
		Config:    cfg,
		Log:       log,
		DB:        db,
		Book:      book,
		Center:    center,
		Policy:    reminder.New(center, cal, cfg.ReminderConfig(), log.Named("reminder"), reminder.WithSwitch(center)),
		Calendar:  cal,
		Formatter: cfg.Formatter(),
	}, nil
}

// Close releases the store.
func (a *App) Close() error {
	return a.DB.Close()
}

// Summary computes the dashboard view at now.
func (a *App) Summary(now time.Time) model.Summary {
	return Summarize(a.Book.Debt(), a.Calendar, now)
}

// Projection lists the projected balance on each upcoming payday.
func (a *App) Projection(now time.Time) []payoff.Row {
	debt := a.Book.Debt()
	return payoff.Schedule(a.Calendar, debt.CurrentBalance(), debt.PeriodicPayment, now)
}

// ErrPermissionDenied is returned when reminders could not be turned on.
var ErrPermissionDenied = errors.New("reminder permission was not granted")

// AllowReminders lifts an earlier deny, asks for permission, and schedules
// the next batch. It returns how many reminders were scheduled.
func (a *App) AllowReminders(ctx context.Context) (int, error) {
	status, err := a.Center.AuthorizationStatus(ctx)
	if err != nil {
		return 0, err
	}
	if status == notify.StatusDenied {
		if err := a.Center.SetStatus(ctx, notify.StatusAuthorized); err != nil {
			return 0, err
		}
	}
	if !a.Policy.RequestPermission(ctx) {
		return 0, ErrPermissionDenied
	}
	return a.Policy.Schedule(ctx), nil
}

// DenyReminders withdraws this installation's reminders and records the
// user's refusal.
func (a *App) DenyReminders(ctx context.Context) error {
	a.Policy.Clear(ctx)
	if err := a.Center.SetStatus(ctx, notify.StatusDenied); err != nil {
		return err
	}
	a.Policy.Refresh(ctx)
	return nil
}

// SetCalendar switches to a new payday calendar for summaries and for the
// next reminder batch.
func (a *App) SetCalendar(cal payday.Calendar) {
	a.Calendar = cal
	a.Policy.SetCalendar(cal)
}

// Summarize derives the dashboard view of debt. The payoff estimate counts
// periods from the next payday.
func Summarize(debt ledger.Debt, cal payday.Calendar, now time.Time) model.Summary {
	s := model.Summary{
		At:              now,
		OriginalAmount:  debt.OriginalAmount,
		TotalPaid:       debt.TotalPaid(),
		Balance:         debt.CurrentBalance(),
		PaidOff:         debt.IsPaidOff(),
		PaidFraction:    debt.PaidFraction(),
		PeriodicPayment: debt.PeriodicPayment,
		PaymentCount:    len(debt.Payments),
		NextPayday:      cal.Next(now),
	}

	if recent := debt.Recent(); len(recent) > 0 {
		last := recent[0]
		s.LastPayment = &last
	}

	interval := cal.IntervalDays
	if interval <= 0 {
		interval = payday.DefaultIntervalDays
	}
	s.PayoffDate, s.HasPayoffDate = payoff.EstimateEvery(s.Balance, s.PeriodicPayment, s.NextPayday, interval)
	if s.HasPayoffDate {
		s.PeriodsLeft = money.CeilDivide(s.Balance, s.PeriodicPayment)
	}
	return s
}
