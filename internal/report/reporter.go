package report

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MikeSquared-Agency/martha/internal/store"
)

// TurnSource reads back a session's persisted turns.
type TurnSource interface {
	TurnsBySession(ctx context.Context, sessionID string) ([]store.Turn, error)
}

// Reporter builds session reports from persisted turns and delivers them.
// Delivery is fire-and-forget: failures are logged and never retried.
// Reports for one session are built and sent one at a time, so a sink never
// receives an older snapshot after a newer one.
type Reporter struct {
	turns   TurnSource
	sinks   []Sink
	timeout time.Duration
	logger  *slog.Logger

	sessions sessionLocks

	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

func NewReporter(turns TurnSource, sinks []Sink, timeout time.Duration, logger *slog.Logger) *Reporter {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Reporter{
		turns:    turns,
		sinks:    sinks,
		timeout:  timeout,
		logger:   logger,
		sessions: sessionLocks{held: make(map[string]*sessionLock)},
	}
}

// Sinks returns the names of the configured sinks.
func (r *Reporter) Sinks() []string {
	names := make([]string, len(r.sinks))
	for i, s := range r.sinks {
		names[i] = s.Name()
	}
	return names
}

// Build loads the session's turns and aggregates them. ok is false when the
// session has no turns.
func (r *Reporter) Build(ctx context.Context, sessionID string) (rep Report, ok bool, err error) {
	turns, err := r.turns.TurnsBySession(ctx, sessionID)
	if err != nil {
		return Report{}, false, fmt.Errorf("load session turns: %w", err)
	}
	rep, ok = Aggregate(sessionID, turns)
	return rep, ok, nil
}

// Deliver sends rep to every sink concurrently. Each failure is logged; the
// first one is returned.
func (r *Reporter) Deliver(ctx context.Context, rep Report) error {
	if len(r.sinks) == 0 {
		r.logger.Debug("no report sinks configured", "session_id", rep.SessionID)
		return nil
	}

	var g errgroup.Group
	for _, sink := range r.sinks {
		g.Go(func() error {
			if err := sink.Deliver(ctx, rep); err != nil {
				r.logger.Error("report delivery failed",
					"sink", sink.Name(),
					"session_id", rep.SessionID,
					"error", err,
				)
				return fmt.Errorf("%s: %w", sink.Name(), err)
			}
			r.logger.Info("report delivered",
				"sink", sink.Name(),
				"session_id", rep.SessionID,
				"turns", rep.TotalTurns,
				"artifacts", rep.Intelligence.Count(),
			)
			return nil
		})
	}
	return g.Wait()
}

// Trigger rebuilds and delivers the session report in the background. Only
// sessions with at least one scam-flagged turn are reported. After Wait has
// been called the report is sent on the caller's goroutine instead.
func (r *Reporter) Trigger(sessionID string) {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		r.logger.Warn("reporter stopping, sending report inline", "session_id", sessionID)
		r.send(sessionID)
		return
	}
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		r.send(sessionID)
	}()
}

func (r *Reporter) send(sessionID string) {
	unlock := r.sessions.lock(sessionID)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	rep, ok, err := r.Build(ctx, sessionID)
	if err != nil {
		r.logger.Error("report build failed", "session_id", sessionID, "error", err)
		return
	}
	if !ok || !rep.ScamDetected {
		return
	}
	_ = r.Deliver(ctx, rep)
}

// Wait stops background triggers and blocks until every queued report has
// finished.
func (r *Reporter) Wait() {
	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()
	r.wg.Wait()
}

type sessionLock struct {
	sync.Mutex
	refs int
}

// sessionLocks is a mutex per session ID, dropped once nobody holds or waits
// on it.
type sessionLocks struct {
	mu   sync.Mutex
	held map[string]*sessionLock
}

func (s *sessionLocks) lock(sessionID string) (unlock func()) {
	s.mu.Lock()
	l, ok := s.held[sessionID]
	if !ok {
		l = &sessionLock{}
		s.held[sessionID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.held, sessionID)
		}
		s.mu.Unlock()
	}
}
