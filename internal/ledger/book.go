package ledger

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/theirongolddev/payback/internal/money"
)

// Store persists the serialized ledger. Load returns (nil, nil) when nothing
// has been saved yet.
type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// Listener is called with the committed ledger after every mutation.
type Listener func(Debt)

// Book owns the single ledger of an installation. Every mutation writes the
// full state through the Store before it becomes visible.
type Book struct {
	store Store
	log   *zap.Logger
	now   func() time.Time

	mu        sync.Mutex
	debt      Debt
	nextSubID int
	subs      map[int]Listener
}

// Option configures a Book.
type Option func(*Book)

// WithClock overrides the timestamp source for new payments.
func WithClock(now func() time.Time) Option {
	return func(b *Book) { b.now = now }
}

// Open loads the ledger from store. A missing or undecodable ledger is
// replaced by a fresh one for original, which is saved immediately.
func Open(ctx context.Context, store Store, original decimal.Decimal, log *zap.Logger, opts ...Option) (*Book, error) {
	if log == nil {
		log = zap.NewNop()
	}
	b := &Book{
		store: store,
		log:   log,
		now:   time.Now,
		subs:  make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(b)
	}

	data, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}

	if data != nil {
		debt, err := Decode(data)
		if err == nil {
			b.debt = debt
			return b, nil
		}
		log.Warn("ledger unreadable, starting fresh", zap.Error(err))
	}

	b.debt = NewDebt(original)
	if err := b.save(ctx, b.debt); err != nil {
		return nil, err
	}
	log.Info("created ledger", zap.String("original_amount", original.StringFixed(2)))
	return b, nil
}

// Debt returns a snapshot of the ledger.
func (b *Book) Debt() Debt {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.debt.clone()
}

// AddPayment records a payment of amount at the current time.
func (b *Book) AddPayment(ctx context.Context, amount decimal.Decimal) (Payment, error) {
	p := NewPayment(amount, b.now())
	err := b.mutate(ctx, func(d *Debt) bool {
		d.Payments = append(d.Payments, p)
		return true
	})
	if err != nil {
		return Payment{}, err
	}
	b.log.Info("payment added", zap.String("id", p.ID.String()), zap.String("amount", p.Amount.StringFixed(2)))
	return p, nil
}

// DeletePayment removes the payment with id. It reports false, and writes
// nothing, when no payment matches.
func (b *Book) DeletePayment(ctx context.Context, id uuid.UUID) (bool, error) {
	removed := false
	err := b.mutate(ctx, func(d *Debt) bool {
		kept := d.Payments[:0]
		for _, p := range d.Payments {
			if p.ID == id {
				removed = true
				continue
			}
			kept = append(kept, p)
		}
		d.Payments = kept
		return removed
	})
	if err != nil {
		return false, err
	}
	if removed {
		b.log.Info("payment deleted", zap.String("id", id.String()))
	}
	return removed, nil
}

// SetPeriodicPayment replaces the target periodic payment. Negative values
// are stored as zero.
func (b *Book) SetPeriodicPayment(ctx context.Context, amount decimal.Decimal) error {
	amount = money.NonNegative(amount)
	err := b.mutate(ctx, func(d *Debt) bool {
		d.PeriodicPayment = amount
		return true
	})
	if err != nil {
		return err
	}
	b.log.Info("periodic payment set", zap.String("amount", amount.StringFixed(2)))
	return nil
}

// Reload re-reads the ledger written by other processes sharing the store.
// It reports whether anything changed; an unreadable copy is ignored.
func (b *Book) Reload(ctx context.Context) (bool, error) {
	data, err := b.store.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("loading ledger: %w", err)
	}
	if data == nil {
		return false, nil
	}
	debt, err := Decode(data)
	if err != nil {
		b.log.Warn("ignoring unreadable ledger on reload", zap.Error(err))
		return false, nil
	}

	b.mu.Lock()
	current, err := Encode(b.debt)
	if err == nil {
		if fresh, encErr := Encode(debt); encErr == nil && bytes.Equal(current, fresh) {
			b.mu.Unlock()
			return false, nil
		}
	}
	b.debt = debt
	b.commitLocked(debt)
	return true, nil
}

// Subscribe registers fn for committed changes. The returned func removes it.
func (b *Book) Subscribe(fn Listener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextSubID++
	id := b.nextSubID
	b.subs[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// mutate applies fn to a copy of the stored ledger, saves it, then commits
// and notifies. Starting from the stored copy keeps payments written by
// another process since the last Reload. fn returns false when nothing
// changed.
func (b *Book) mutate(ctx context.Context, fn func(*Debt) bool) error {
	b.mu.Lock()
	next := b.latestLocked(ctx).clone()
	if !fn(&next) {
		b.mu.Unlock()
		return nil
	}
	if err := b.save(ctx, next); err != nil {
		b.mu.Unlock()
		return err
	}
	b.debt = next
	b.commitLocked(next)
	return nil
}

// latestLocked returns the stored ledger, or the in-memory one when the
// store cannot be read or decoded.
func (b *Book) latestLocked(ctx context.Context) Debt {
	data, err := b.store.Load(ctx)
	if err != nil {
		b.log.Warn("reading ledger before write failed", zap.Error(err))
		return b.debt
	}
	if data == nil {
		return b.debt
	}
	debt, err := Decode(data)
	if err != nil {
		b.log.Warn("ignoring unreadable ledger before write", zap.Error(err))
		return b.debt
	}
	return debt
}

// commitLocked releases b.mu and notifies listeners of d.
func (b *Book) commitLocked(d Debt) {
	listeners := make([]Listener, 0, len(b.subs))
	for _, fn := range b.subs {
		listeners = append(listeners, fn)
	}
	snapshot := d.clone()
	b.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

func (b *Book) save(ctx context.Context, d Debt) error {
	data, err := Encode(d)
	if err != nil {
		return fmt.Errorf("encoding ledger: %w", err)
	}
	if err := b.store.Save(ctx, data); err != nil {
		return fmt.Errorf("saving ledger: %w", err)
	}
	return nil
}
