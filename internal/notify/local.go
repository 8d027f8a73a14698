package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/theirongolddev/payback/internal/store"
)

const (
	authKey    = "notify.authorization"
	enabledKey = "notify.enabled"
)

var _ Center = (*Local)(nil)

// Local is a Center backed by the local store. Reminders wait in the store's
// queue until a daemon delivers them with Due and Cancel.
type Local struct {
	db *store.DB
}

// NewLocal returns a Center over db.
func NewLocal(db *store.DB) *Local {
	return &Local{db: db}
}

// RequestAuthorization grants permission unless the user has denied it.
// The user is at the terminal, so asking is answered by the request itself.
func (l *Local) RequestAuthorization(ctx context.Context) (bool, error) {
	st, err := l.AuthorizationStatus(ctx)
	if err != nil {
		return false, err
	}
	if st == StatusNotDetermined {
		if err := l.SetStatus(ctx, StatusAuthorized); err != nil {
			return false, err
		}
		return true, nil
	}
	return st.Allows(), nil
}

// AuthorizationStatus reads the stored status. Nothing stored means
// not-determined.
func (l *Local) AuthorizationStatus(ctx context.Context) (Status, error) {
	raw, err := l.db.Get(ctx, authKey)
	if err != nil {
		return StatusNotDetermined, err
	}
	if raw == nil {
		return StatusNotDetermined, nil
	}
	return ParseStatus(string(raw))
}

// SetStatus records an explicit allow or deny from the user.
func (l *Local) SetStatus(ctx context.Context, st Status) error {
	if _, err := ParseStatus(string(st)); err != nil {
		return err
	}
	return l.db.Put(ctx, authKey, []byte(st))
}

// Enabled reports whether reminders should be kept queued. Nothing stored
// means off.
func (l *Local) Enabled(ctx context.Context) (bool, error) {
	raw, err := l.db.Get(ctx, enabledKey)
	if err != nil {
		return false, err
	}
	return string(raw) == "on", nil
}

// SetEnabled records whether reminders should be kept queued.
func (l *Local) SetEnabled(ctx context.Context, on bool) error {
	value := "off"
	if on {
		value = "on"
	}
	return l.db.Put(ctx, enabledKey, []byte(value))
}

// Pending lists every queued reminder.
func (l *Local) Pending(ctx context.Context) ([]Request, error) {
	rows, err := l.db.Reminders(ctx)
	if err != nil {
		return nil, err
	}
	return toRequests(rows), nil
}

// Schedule queues req, replacing any reminder with the same ID.
func (l *Local) Schedule(ctx context.Context, req Request) error {
	if req.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidRequest)
	}
	return l.db.PutReminder(ctx, store.Reminder{
		ID:     req.ID,
		FireAt: req.FireAt,
		Title:  req.Title,
		Body:   req.Body,
	})
}

// Cancel removes the given reminders.
func (l *Local) Cancel(ctx context.Context, ids []string) error {
	return l.db.DeleteReminders(ctx, ids)
}

// Due lists reminders whose fire time has passed.
func (l *Local) Due(ctx context.Context, now time.Time) ([]Request, error) {
	rows, err := l.db.DueReminders(ctx, now)
	if err != nil {
		return nil, err
	}
	return toRequests(rows), nil
}

func toRequests(rows []store.Reminder) []Request {
	out := make([]Request, len(rows))
	for i, r := range rows {
		out[i] = Request{ID: r.ID, FireAt: r.FireAt, Title: r.Title, Body: r.Body}
	}
	return out
}
