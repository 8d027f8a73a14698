// Package daemon provides the long-running reminder delivery service. It
// fires due payday reminders, keeps the reminder batch topped up, and serves
// the ledger status over a small local HTTP API.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/theirongolddev/payback/internal/app"
	"github.com/theirongolddev/payback/internal/model"
	"github.com/theirongolddev/payback/internal/notify"
	"github.com/theirongolddev/payback/internal/reminder"
)

// Event types.
const (
	EventSnapshot = "snapshot"
	EventLedger   = "ledger_update"
	EventReminder = "reminder"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Addr         string
	Interval     time.Duration
	EventsBuffer int
}

// Event is published when a reminder fires or the ledger changes.
type Event struct {
	ID        int64           `json:"id"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Snapshot  model.Snapshot  `json:"snapshot"`
	Reminder  *notify.Request `json:"reminder,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time        `json:"started_at"`
	LastPollAt      time.Time        `json:"last_poll_at"`
	PollIntervalSec int              `json:"poll_interval_sec"`
	PollCount       int64            `json:"poll_count"`
	DataDir         string           `json:"data_dir"`
	Summary         model.Snapshot   `json:"summary"`
	Reminders       reminder.State   `json:"reminders"`
	Pending         []notify.Request `json:"pending"`
	Delivered       int64            `json:"delivered"`
	LastError       string           `json:"last_error,omitempty"`
	EventCount      int              `json:"event_count"`
	SubscriberCount int              `json:"subscriber_count"`
}

// Deliverer shows a fired reminder to the user.
type Deliverer func(notify.Request)

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used to find due reminders.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithDeliverer sets the sink for fired reminders. The default only logs.
func WithDeliverer(fn Deliverer) Option {
	return func(s *Service) { s.deliver = fn }
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg     Config
	app     *app.App
	log     *zap.Logger
	now     func() time.Time
	deliver Deliverer

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	delivered   int64
	lastError   string
	hasSnapshot bool
	snapshot    model.Snapshot
	pending     []notify.Request
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service over a.
func New(cfg Config, a *app.App, opts ...Option) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 30 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8797"
	}

	s := &Service{
		cfg:  cfg,
		app:  a,
		log:  a.Log.Named("daemon"),
		now:  time.Now,
		subs: make(map[int]chan Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.startedAt = s.now()
	return s
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("daemon started", zap.String("addr", s.cfg.Addr), zap.Duration("interval", s.cfg.Interval))

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			s.log.Info("daemon stopping")
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce(ctx)
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

// pollOnce reloads the ledger, fires due reminders, and refills the batch
// whenever it is short, unless the user cleared reminders.
func (s *Service) pollOnce(ctx context.Context) {
	now := s.now()

	if _, err := s.app.Book.Reload(ctx); err != nil {
		s.recordError(now, err)
		return
	}

	due, err := s.app.Center.Due(ctx, now)
	if err != nil {
		s.recordError(now, err)
		return
	}
	fired := s.fire(ctx, due)

	pending, err := s.app.Center.Pending(ctx)
	if err != nil {
		s.recordError(now, err)
		return
	}
	if s.needsTopUp(ctx, pending) {
		if n := s.app.Policy.Schedule(ctx); n > 0 {
			s.log.Info("rescheduled payday reminders", zap.Int("count", n))
			if pending, err = s.app.Center.Pending(ctx); err != nil {
				s.recordError(now, err)
				return
			}
		}
	}

	snap := s.app.Summary(now).Snapshot()

	var events []Event
	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.pending = pending
	s.lastPollAt = now
	s.pollCount++
	s.delivered += int64(len(fired))
	s.lastError = ""

	switch {
	case !prevExists:
		events = append(events, s.newEventLocked(EventSnapshot, now, snap, nil))
	case ledgerChanged(prev, snap):
		events = append(events, s.newEventLocked(EventLedger, now, snap, nil))
	}
	for i := range fired {
		events = append(events, s.newEventLocked(EventReminder, now, snap, &fired[i]))
	}
	s.mu.Unlock()

	for _, ev := range events {
		s.publishEvent(ev)
	}
}

// fire delivers due reminders and removes them from the queue. Reminders
// that were delivered but could not be removed are still reported.
func (s *Service) fire(ctx context.Context, due []notify.Request) []notify.Request {
	if len(due) == 0 {
		return nil
	}

	ids := make([]string, 0, len(due))
	for _, r := range due {
		s.log.Info("reminder fired",
			zap.String("id", r.ID),
			zap.String("title", r.Title),
			zap.Time("fire_at", r.FireAt),
		)
		if s.deliver != nil {
			s.deliver(r)
		}
		ids = append(ids, r.ID)
	}

	if err := s.app.Center.Cancel(ctx, ids); err != nil {
		s.log.Error("removing delivered reminders", zap.Strings("ids", ids), zap.Error(err))
	}
	return due
}

func (s *Service) needsTopUp(ctx context.Context, pending []notify.Request) bool {
	if st := s.app.Policy.Refresh(ctx); !st.HasPermission {
		return false
	}
	if !s.app.Policy.Enabled(ctx) {
		return false
	}
	owned := 0
	for _, r := range pending {
		if s.app.Policy.Owns(r.ID) {
			owned++
		}
	}
	return owned < s.app.Policy.Count()
}

func (s *Service) recordError(at time.Time, err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.lastPollAt = at
	s.pollCount++
	s.mu.Unlock()
	s.log.Error("daemon poll failed", zap.Error(err))
}

func ledgerChanged(prev, curr model.Snapshot) bool {
	return prev.Balance != curr.Balance ||
		prev.OriginalAmount != curr.OriginalAmount ||
		prev.PeriodicPayment != curr.PeriodicPayment ||
		prev.Payments != curr.Payments
}

func (s *Service) newEventLocked(typ string, at time.Time, snap model.Snapshot, r *notify.Request) Event {
	s.nextEventID++
	return Event{
		ID:        s.nextEventID,
		Type:      typ,
		Timestamp: at,
		Snapshot:  snap,
		Reminder:  r,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pending := make([]notify.Request, len(s.pending))
	copy(pending, s.pending)

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		DataDir:         s.app.Config.DataDir(),
		Summary:         s.snapshot,
		Reminders:       s.app.Policy.State(),
		Pending:         pending,
		Delivered:       s.delivered,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	current := Event{
		Type:      EventSnapshot,
		Timestamp: s.now(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
