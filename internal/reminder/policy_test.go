package reminder

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/payback/internal/notify"
	"github.com/theirongolddev/payback/internal/payday"
)

// fakeCenter is an in-memory notify.Center with failure injection.
type fakeCenter struct {
	status    notify.Status
	statusErr error
	authErr   error
	pending   map[string]notify.Request
	failIDs   map[string]bool
	calls     []string
}

func newFake(st notify.Status) *fakeCenter {
	return &fakeCenter{status: st, pending: map[string]notify.Request{}, failIDs: map[string]bool{}}
}

func (f *fakeCenter) RequestAuthorization(context.Context) (bool, error) {
	f.calls = append(f.calls, "request")
	if f.authErr != nil {
		return false, f.authErr
	}
	if f.status == notify.StatusNotDetermined {
		f.status = notify.StatusAuthorized
	}
	return f.status.Allows(), nil
}

func (f *fakeCenter) AuthorizationStatus(context.Context) (notify.Status, error) {
	f.calls = append(f.calls, "status")
	return f.status, f.statusErr
}

func (f *fakeCenter) Pending(context.Context) ([]notify.Request, error) {
	f.calls = append(f.calls, "pending")
	out := make([]notify.Request, 0, len(f.pending))
	for _, r := range f.pending {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeCenter) Schedule(_ context.Context, r notify.Request) error {
	f.calls = append(f.calls, "schedule")
	if f.failIDs[r.ID] {
		return errors.New("host rejected request")
	}
	f.pending[r.ID] = r
	return nil
}

func (f *fakeCenter) Cancel(_ context.Context, ids []string) error {
	f.calls = append(f.calls, "cancel")
	for _, id := range ids {
		delete(f.pending, id)
	}
	return nil
}

func (f *fakeCenter) owned(prefix string) []notify.Request {
	var out []notify.Request
	for id, r := range f.pending {
		if strings.HasPrefix(id, prefix) {
			out = append(out, r)
		}
	}
	return out
}

type memSwitch struct{ on bool }

func (m *memSwitch) Enabled(context.Context) (bool, error) { return m.on, nil }

func (m *memSwitch) SetEnabled(_ context.Context, on bool) error {
	m.on = on
	return nil
}

var fixedNow = time.Date(2026, time.October, 15, 10, 0, 0, 0, time.UTC)

func newPolicy(c notify.Center) *Policy {
	cal := payday.Default()
	cal.Location = time.UTC
	return New(c, cal, DefaultConfig(), nil, WithClock(func() time.Time { return fixedNow }))
}

func TestScheduleCreatesSixPaydayReminders(t *testing.T) {
	c := newFake(notify.StatusAuthorized)
	p := newPolicy(c)

	n := p.Schedule(context.Background())
	assert.Equal(t, 6, n)

	owned, err := p.Upcoming(context.Background())
	require.NoError(t, err)
	require.Len(t, owned, 6)
	for i, r := range owned {
		assert.Equal(t, "payday-reminder-"+string(rune('0'+i)), r.ID)
		assert.Equal(t, time.Wednesday, r.FireAt.Weekday())
		assert.True(t, r.FireAt.After(fixedNow))
		assert.Equal(t, "Payback time", r.Title)
	}
	assert.Equal(t, State{HasPermission: true, Scheduled: true}, p.State())
}

func TestScheduleTwiceLeavesOneBatch(t *testing.T) {
	c := newFake(notify.StatusProvisional)
	p := newPolicy(c)

	p.Schedule(context.Background())
	p.Schedule(context.Background())
	assert.Len(t, c.owned("payday-reminder-"), 6)
}

func TestScheduleWithdrawsBeforeScheduling(t *testing.T) {
	c := newFake(notify.StatusAuthorized)
	c.pending["payday-reminder-9"] = notify.Request{ID: "payday-reminder-9"}
	p := newPolicy(c)

	p.Schedule(context.Background())

	cancelAt, firstSchedule := -1, -1
	for i, call := range c.calls {
		if call == "cancel" && cancelAt < 0 {
			cancelAt = i
		}
		if call == "schedule" && firstSchedule < 0 {
			firstSchedule = i
		}
	}
	require.GreaterOrEqual(t, cancelAt, 0)
	assert.Less(t, cancelAt, firstSchedule)
	_, stale := c.pending["payday-reminder-9"]
	assert.False(t, stale)
}

func TestScheduleLeavesForeignReminders(t *testing.T) {
	c := newFake(notify.StatusAuthorized)
	c.pending["other-feature-1"] = notify.Request{ID: "other-feature-1"}
	p := newPolicy(c)

	p.Schedule(context.Background())
	p.Clear(context.Background())

	assert.Contains(t, c.pending, "other-feature-1")
	assert.Empty(t, c.owned("payday-reminder-"))
	assert.False(t, p.State().Scheduled)
}

func TestSwitchFollowsScheduleAndClear(t *testing.T) {
	ctx := context.Background()
	sw := &memSwitch{}
	cal := payday.Default()
	cal.Location = time.UTC
	p := New(newFake(notify.StatusAuthorized), cal, DefaultConfig(), nil,
		WithClock(func() time.Time { return fixedNow }), WithSwitch(sw))

	assert.False(t, p.Enabled(ctx))
	p.Schedule(ctx)
	assert.True(t, p.Enabled(ctx))
	p.Clear(ctx)
	assert.False(t, p.Enabled(ctx))
}

func TestScheduleWithoutPermissionLeavesSwitch(t *testing.T) {
	ctx := context.Background()
	sw := &memSwitch{}
	p := New(newFake(notify.StatusDenied), payday.Default(), DefaultConfig(), nil, WithSwitch(sw))

	p.Schedule(ctx)
	assert.False(t, sw.on)
}

func TestEnabledWithoutSwitch(t *testing.T) {
	p := newPolicy(newFake(notify.StatusAuthorized))
	assert.True(t, p.Enabled(context.Background()))
	assert.Equal(t, 6, p.Count())
}

func TestScheduleWithoutPermission(t *testing.T) {
	for _, st := range []notify.Status{notify.StatusDenied, notify.StatusNotDetermined} {
		c := newFake(st)
		c.pending["payday-reminder-0"] = notify.Request{ID: "payday-reminder-0"}
		p := newPolicy(c)

		assert.Equal(t, 0, p.Schedule(context.Background()))
		assert.Equal(t, State{}, p.State())
		assert.NotContains(t, c.calls, "schedule")
		assert.NotContains(t, c.calls, "cancel")
	}
}

func TestSchedulePermissionErrorCountsAsDenied(t *testing.T) {
	c := newFake(notify.StatusAuthorized)
	c.statusErr = errors.New("host unavailable")
	p := newPolicy(c)

	assert.Equal(t, 0, p.Schedule(context.Background()))
	assert.False(t, p.State().HasPermission)
}

func TestScheduleSkipsFailedRequests(t *testing.T) {
	c := newFake(notify.StatusAuthorized)
	c.failIDs["payday-reminder-2"] = true
	p := newPolicy(c)

	assert.Equal(t, 5, p.Schedule(context.Background()))
	assert.Len(t, c.owned("payday-reminder-"), 5)
	assert.NotContains(t, c.pending, "payday-reminder-2")
	assert.Contains(t, c.pending, "payday-reminder-5")
}

func TestRequestPermission(t *testing.T) {
	c := newFake(notify.StatusNotDetermined)
	p := newPolicy(c)

	assert.True(t, p.RequestPermission(context.Background()))
	assert.True(t, p.State().HasPermission)

	c = newFake(notify.StatusNotDetermined)
	c.authErr = errors.New("boom")
	p = newPolicy(c)
	assert.False(t, p.RequestPermission(context.Background()))
	assert.False(t, p.State().HasPermission)
}

func TestOnChange(t *testing.T) {
	c := newFake(notify.StatusAuthorized)
	p := newPolicy(c)

	var states []State
	cancel := p.OnChange(func(s State) { states = append(states, s) })

	p.Schedule(context.Background())
	require.NotEmpty(t, states)
	assert.True(t, states[len(states)-1].Scheduled)

	seen := len(states)
	cancel()
	p.Clear(context.Background())
	assert.Len(t, states, seen)
}

func TestSetCalendarMovesNextBatch(t *testing.T) {
	c := newFake(notify.StatusAuthorized)
	p := newPolicy(c)

	cal := payday.Default()
	cal.Location = time.UTC
	cal.Weekday = time.Friday
	p.SetCalendar(cal)

	require.Equal(t, 6, p.Schedule(context.Background()))
	owned, err := p.Upcoming(context.Background())
	require.NoError(t, err)
	for _, r := range owned {
		assert.Equal(t, time.Friday, r.FireAt.Weekday())
	}
	assert.Equal(t, time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC), owned[0].FireAt)
}
