// Package notify defines the reminder host contract and a local,
// SQLite-backed implementation of it.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRequest is returned for reminders without an ID.
var ErrInvalidRequest = errors.New("invalid reminder request")

// Status is the host's authorization state for this app.
type Status string

const (
	StatusNotDetermined Status = "not-determined"
	StatusDenied        Status = "denied"
	StatusAuthorized    Status = "authorized"
	StatusProvisional   Status = "provisional"
	StatusEphemeral     Status = "ephemeral"
)

// Allows reports whether reminders may be scheduled under s.
func (s Status) Allows() bool {
	switch s {
	case StatusAuthorized, StatusProvisional, StatusEphemeral:
		return true
	default:
		return false
	}
}

// ParseStatus validates a status name.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusNotDetermined, StatusDenied, StatusAuthorized, StatusProvisional, StatusEphemeral:
		return st, nil
	}
	return StatusNotDetermined, fmt.Errorf("unknown authorization status %q", s)
}

// Request is one scheduled reminder.
type Request struct {
	ID     string    `json:"id"`
	FireAt time.Time `json:"fire_at"`
	Title  string    `json:"title"`
	Body   string    `json:"body"`
}

// Center is the host reminder service.
type Center interface {
	RequestAuthorization(ctx context.Context) (bool, error)
	AuthorizationStatus(ctx context.Context) (Status, error)
	Pending(ctx context.Context) ([]Request, error)
	Schedule(ctx context.Context, req Request) error
	Cancel(ctx context.Context, ids []string) error
}
