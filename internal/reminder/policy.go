// Package reminder decides which paydays get a reminder and keeps the host's
// queue holding exactly one batch of this policy's reminders.
package reminder

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/theirongolddev/payback/internal/notify"
	"github.com/theirongolddev/payback/internal/payday"
)

// Config holds the reminder batch settings.
type Config struct {
	Count    int
	IDPrefix string
	Title    string
	Body     string
}

// DefaultConfig returns six reminders tagged "payday-reminder-".
func DefaultConfig() Config {
	return Config{
		Count:    6,
		IDPrefix: "payday-reminder-",
		Title:    "Payback time",
		Body:     "Payday reminder: make a payment and update the balance.",
	}
}

// State is the cached view of the host. It is for display only; scheduling
// always asks the host again.
type State struct {
	HasPermission bool `json:"has_permission"`
	Scheduled     bool `json:"scheduled"`
}

// Switch persists whether the user wants reminders kept scheduled. It is
// turned on by Schedule and off by Clear.
type Switch interface {
	Enabled(ctx context.Context) (bool, error)
	SetEnabled(ctx context.Context, on bool) error
}

// Policy schedules and withdraws payday reminders.
type Policy struct {
	center notify.Center
	sw     Switch
	cal    payday.Calendar
	cfg    Config
	log    *zap.Logger
	now    func() time.Time

	mu        sync.Mutex
	state     State
	nextSubID int
	listeners map[int]func(State)
}

// Option configures a Policy.
type Option func(*Policy)

// WithClock overrides the reference time used to pick paydays.
func WithClock(now func() time.Time) Option {
	return func(p *Policy) { p.now = now }
}

// WithSwitch records schedule and clear requests in sw.
func WithSwitch(sw Switch) Option {
	return func(p *Policy) { p.sw = sw }
}

// New returns a policy over center.
func New(center notify.Center, cal payday.Calendar, cfg Config, log *zap.Logger, opts ...Option) *Policy {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.IDPrefix == "" {
		cfg.IDPrefix = DefaultConfig().IDPrefix
	}
	if cfg.Count < 0 {
		cfg.Count = 0
	}
	p := &Policy{
		center:    center,
		cal:       cal,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
		listeners: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns the flags from the last refresh.
func (p *Policy) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// OnChange registers fn to run after every refresh. The returned func
// removes it.
func (p *Policy) OnChange(fn func(State)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextSubID++
	id := p.nextSubID
	p.listeners[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.listeners, id)
	}
}

// SetCalendar changes the paydays used by later Schedule calls. Reminders
// already queued are left as they are.
func (p *Policy) SetCalendar(cal payday.Calendar) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cal = cal
}

func (p *Policy) calendar() payday.Calendar {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cal
}

// Owns reports whether id carries this policy's prefix.
func (p *Policy) Owns(id string) bool {
	return strings.HasPrefix(id, p.cfg.IDPrefix)
}

// RequestPermission asks the host for permission. A failed request is
// logged and counts as not granted.
func (p *Policy) RequestPermission(ctx context.Context) bool {
	granted, err := p.center.RequestAuthorization(ctx)
	if err != nil {
		p.log.Warn("requesting reminder permission failed", zap.Error(err))
		granted = false
	}
	st := p.Refresh(ctx)
	return granted && st.HasPermission
}

// Schedule replaces this policy's reminders with one per upcoming payday.
// It returns how many reminders the host accepted. Without live permission
// nothing is touched and 0 is returned.
func (p *Policy) Schedule(ctx context.Context) int {
	if !p.permitted(ctx) {
		p.setState(State{})
		p.log.Info("reminders not scheduled: no permission")
		return 0
	}

	p.withdraw(ctx)

	scheduled := 0
	for i, at := range p.calendar().NextN(p.cfg.Count, p.now()) {
		req := notify.Request{
			ID:     p.id(i),
			FireAt: at,
			Title:  p.cfg.Title,
			Body:   p.cfg.Body,
		}
		if err := p.center.Schedule(ctx, req); err != nil {
			p.log.Warn("scheduling reminder failed",
				zap.String("id", req.ID),
				zap.Time("fire_at", at),
				zap.Error(err))
			continue
		}
		scheduled++
	}

	p.log.Info("reminders scheduled", zap.Int("count", scheduled), zap.Int("wanted", p.cfg.Count))
	p.setEnabled(ctx, true)
	p.Refresh(ctx)
	return scheduled
}

// Clear withdraws every reminder this policy created. Later top-ups stay
// off until Schedule runs again.
func (p *Policy) Clear(ctx context.Context) {
	p.withdraw(ctx)
	p.setEnabled(ctx, false)
	p.Refresh(ctx)
}

// Count is the number of reminders in a full batch.
func (p *Policy) Count() int {
	return p.cfg.Count
}

// Enabled reports whether the user last asked for reminders to be
// scheduled rather than cleared. Without a Switch it is always true.
func (p *Policy) Enabled(ctx context.Context) bool {
	if p.sw == nil {
		return true
	}
	on, err := p.sw.Enabled(ctx)
	if err != nil {
		p.log.Warn("reading reminder switch failed", zap.Error(err))
		return false
	}
	return on
}

func (p *Policy) setEnabled(ctx context.Context, on bool) {
	if p.sw == nil {
		return
	}
	if err := p.sw.SetEnabled(ctx, on); err != nil {
		p.log.Warn("saving reminder switch failed", zap.Bool("enabled", on), zap.Error(err))
	}
}

// Refresh recomputes the cached flags from the host.
func (p *Policy) Refresh(ctx context.Context) State {
	st := State{HasPermission: p.permitted(ctx)}

	owned, err := p.Upcoming(ctx)
	if err != nil {
		p.log.Warn("listing pending reminders failed", zap.Error(err))
	}
	st.Scheduled = len(owned) > 0

	p.setState(st)
	return st
}

// Upcoming returns this policy's pending reminders ordered by fire time.
func (p *Policy) Upcoming(ctx context.Context) ([]notify.Request, error) {
	pending, err := p.center.Pending(ctx)
	if err != nil {
		return nil, err
	}
	var owned []notify.Request
	for _, r := range pending {
		if p.Owns(r.ID) {
			owned = append(owned, r)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].FireAt.Before(owned[j].FireAt) })
	return owned, nil
}

func (p *Policy) permitted(ctx context.Context) bool {
	st, err := p.center.AuthorizationStatus(ctx)
	if err != nil {
		p.log.Warn("reading reminder permission failed", zap.Error(err))
		return false
	}
	return st.Allows()
}

// withdraw cancels pending reminders with this policy's prefix. Other
// reminders in the host queue are left alone.
func (p *Policy) withdraw(ctx context.Context) {
	owned, err := p.Upcoming(ctx)
	if err != nil {
		p.log.Warn("listing reminders to withdraw failed", zap.Error(err))
		return
	}
	if len(owned) == 0 {
		return
	}
	ids := make([]string, len(owned))
	for i, r := range owned {
		ids[i] = r.ID
	}
	if err := p.center.Cancel(ctx, ids); err != nil {
		p.log.Warn("withdrawing reminders failed", zap.Strings("ids", ids), zap.Error(err))
	}
}

func (p *Policy) id(ordinal int) string {
	return fmt.Sprintf("%s%d", p.cfg.IDPrefix, ordinal)
}

func (p *Policy) setState(st State) {
	p.mu.Lock()
	p.state = st
	listeners := make([]func(State), 0, len(p.listeners))
	for _, fn := range p.listeners {
		listeners = append(listeners, fn)
	}
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(st)
	}
}
