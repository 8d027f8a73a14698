package daemon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/payback/internal/app"
	"github.com/theirongolddev/payback/internal/config"
	"github.com/theirongolddev/payback/internal/money"
	"github.com/theirongolddev/payback/internal/notify"
)

func openApp(t *testing.T) *app.App {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.General.DataDir = t.TempDir()

	a, err := app.Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func eventTypes(s *Service) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	types := make([]string, len(s.events))
	for i, ev := range s.events {
		types[i] = ev.Type
	}
	return types
}

func TestPollFiresDueRemindersAndReschedules(t *testing.T) {
	ctx := context.Background()
	a := openApp(t)
	require.NoError(t, a.Center.SetStatus(ctx, notify.StatusAuthorized))
	require.NoError(t, a.Center.SetEnabled(ctx, true))

	now := time.Now()
	require.NoError(t, a.Center.Schedule(ctx, notify.Request{
		ID:     "payday-reminder-5",
		FireAt: now.Add(-time.Minute),
		Title:  "Payback time",
	}))
	require.NoError(t, a.Center.Schedule(ctx, notify.Request{
		ID:     "dentist",
		FireAt: now.Add(48 * time.Hour),
	}))

	var delivered []notify.Request
	s := New(Config{}, a,
		WithClock(func() time.Time { return now }),
		WithDeliverer(func(r notify.Request) { delivered = append(delivered, r) }),
	)
	s.pollOnce(ctx)

	require.Len(t, delivered, 1)
	assert.Equal(t, "payday-reminder-5", delivered[0].ID)

	owned, err := a.Policy.Upcoming(ctx)
	require.NoError(t, err)
	assert.Len(t, owned, 6, "a fresh batch replaces the fired one")

	st := s.snapshotStatus()
	assert.Equal(t, int64(1), st.Delivered)
	assert.Len(t, st.Pending, 7)
	assert.True(t, st.Reminders.Scheduled)
	assert.Empty(t, st.LastError)
	assert.Equal(t, []string{EventSnapshot, EventReminder}, eventTypes(s))
}

func TestPollKeepsClearedRemindersCleared(t *testing.T) {
	ctx := context.Background()
	a := openApp(t)
	require.NoError(t, a.Center.SetStatus(ctx, notify.StatusAuthorized))

	require.Equal(t, 6, a.Policy.Schedule(ctx))
	a.Policy.Clear(ctx)

	s := New(Config{}, a)
	s.pollOnce(ctx)
	s.pollOnce(ctx)

	owned, err := a.Policy.Upcoming(ctx)
	require.NoError(t, err)
	assert.Empty(t, owned)

	on, err := a.Center.Enabled(ctx)
	require.NoError(t, err)
	assert.False(t, on)
}

func TestPollRefillsShortBatch(t *testing.T) {
	ctx := context.Background()
	a := openApp(t)
	require.NoError(t, a.Center.SetStatus(ctx, notify.StatusAuthorized))
	require.Equal(t, 6, a.Policy.Schedule(ctx))

	owned, err := a.Policy.Upcoming(ctx)
	require.NoError(t, err)
	require.NoError(t, a.Center.Cancel(ctx, []string{owned[0].ID}))

	s := New(Config{}, a)
	s.pollOnce(ctx)

	owned, err = a.Policy.Upcoming(ctx)
	require.NoError(t, err)
	assert.Len(t, owned, 6)
}

func TestPollDoesNotRescheduleAfterDeny(t *testing.T) {
	ctx := context.Background()
	a := openApp(t)
	_, err := a.AllowReminders(ctx)
	require.NoError(t, err)
	require.NoError(t, a.DenyReminders(ctx))

	New(Config{}, a).pollOnce(ctx)

	owned, err := a.Policy.Upcoming(ctx)
	require.NoError(t, err)
	assert.Empty(t, owned)
}

func TestPollWithoutPermissionSchedulesNothing(t *testing.T) {
	ctx := context.Background()
	a := openApp(t)

	s := New(Config{}, a)
	s.pollOnce(ctx)

	pending, err := a.Center.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.False(t, s.snapshotStatus().Reminders.HasPermission)
}

func TestPollPublishesLedgerUpdates(t *testing.T) {
	ctx := context.Background()
	a := openApp(t)
	s := New(Config{}, a)

	s.pollOnce(ctx)
	s.pollOnce(ctx)
	assert.Equal(t, []string{EventSnapshot}, eventTypes(s), "no event without a change")

	_, err := a.Book.AddPayment(ctx, money.MustParse("55"))
	require.NoError(t, err)
	s.pollOnce(ctx)

	assert.Equal(t, []string{EventSnapshot, EventLedger}, eventTypes(s))
	assert.Equal(t, "5000.00", s.snapshotStatus().Summary.Balance)
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{EventsBuffer: 2}, openApp(t))

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	require.Len(t, s.events, 2)
	assert.Equal(t, int64(2), s.events[0].ID)
	assert.Equal(t, int64(3), s.events[1].ID)
}

func TestStatusEndpoint(t *testing.T) {
	s := New(Config{Interval: 10 * time.Second}, openApp(t))
	s.pollOnce(context.Background())

	rec := httptest.NewRecorder()
	s.handleStatus(rec, httptest.NewRequest(http.MethodGet, "/v1/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var st Status
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&st))
	assert.Equal(t, 10, st.PollIntervalSec)
	assert.Equal(t, "5055.00", st.Summary.Balance)
	assert.Equal(t, int64(1), st.PollCount)
}
