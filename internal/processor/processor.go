// Package processor runs an engage request end to end: engine turn,
// persistence, report trigger and bus events. It is shared by the HTTP API and
// the NATS engage subscription.
package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/MikeSquared-Agency/martha/internal/chat"
	"github.com/MikeSquared-Agency/martha/internal/engage"
	"github.com/MikeSquared-Agency/martha/internal/hermes"
	"github.com/MikeSquared-Agency/martha/internal/inbound"
	"github.com/MikeSquared-Agency/martha/internal/intel"
	"github.com/MikeSquared-Agency/martha/internal/store"
)

// SafeReply keeps the conversation alive when a turn fails outright.
const SafeReply = "I am having trouble hearing you, could you repeat that?"

type Engager interface {
	Engage(ctx context.Context, message string, history []chat.HistoryItem) engage.TurnResult
}

type TurnStore interface {
	SaveTurn(ctx context.Context, t store.Turn) error
}

type ReportTrigger interface {
	Trigger(sessionID string)
}

type Publisher interface {
	Publish(subject string, data any) error
}

// Processor orchestrates Martha's engage pipeline.
type Processor struct {
	engine   Engager
	store    TurnStore
	reporter ReportTrigger
	bus      Publisher
	logger   *slog.Logger
	now      func() time.Time
}

// New wires a processor. bus may be nil when NATS is not configured.
func New(e Engager, s TurnStore, r ReportTrigger, bus Publisher, logger *slog.Logger) *Processor {
	return &Processor{
		engine:   e,
		store:    s,
		reporter: r,
		bus:      bus,
		logger:   logger,
		now:      time.Now,
	}
}

// Handle runs one turn and always returns a reply. Persistence and reporting
// failures are logged and never reach the counterpart.
func (p *Processor) Handle(ctx context.Context, req inbound.Request) (res engage.TurnResult) {
	start := p.now()

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("engage turn panicked", "session_id", req.SessionID, "panic", fmt.Sprint(r))
			res = engage.TurnResult{
				Reply:                 SafeReply,
				Intelligence:          intel.Empty(),
				SuggestedDelaySeconds: engage.SuggestDelay(SafeReply),
			}
		}
	}()

	p.logger.Info("incoming engagement", "session_id", req.SessionID, "history", len(req.History))

	res = p.engine.Engage(ctx, req.Text, req.History)
	elapsed := p.now().Sub(start)

	p.record(context.WithoutCancel(ctx), req, res, elapsed)
	return res
}

func (p *Processor) record(ctx context.Context, req inbound.Request, res engage.TurnResult, elapsed time.Duration) {
	meta := map[string]any{
		"process_time": fmt.Sprintf("%.2fs", elapsed.Seconds()),
		"sender":       req.Sender,
	}
	if len(req.Metadata) > 0 {
		meta["request"] = req.Metadata
	}

	turn := store.Turn{
		ID:              store.NewTurnID(req.SessionID),
		IncomingMessage: req.Text,
		Sender:          req.Sender,
		Reply:           res.Reply,
		IsScam:          res.IsScam,
		Intelligence:    res.Intelligence,
		SuggestedDelay:  res.SuggestedDelaySeconds,
		Metadata:        meta,
	}

	if err := p.store.SaveTurn(ctx, turn); err != nil {
		p.logger.Error("turn persistence failed", "session_id", req.SessionID, "error", err)
		return
	}

	p.logger.Info("turn recorded",
		"session_id", req.SessionID,
		"turn_id", turn.ID,
		"is_scam", res.IsScam,
		"artifacts", res.Intelligence.Count(),
		"process_time", elapsed,
	)

	if res.IsScam && p.reporter != nil {
		p.reporter.Trigger(req.SessionID)
	}

	if p.bus != nil {
		if err := p.bus.Publish(hermes.SubjectTurnRecorded, hermes.TurnRecorded{
			SessionID:  req.SessionID,
			TurnID:     turn.ID,
			IsScam:     res.IsScam,
			Artifacts:  res.Intelligence.Count(),
			RecordedAt: p.now().UTC(),
		}); err != nil {
			p.logger.Error("failed to publish turn recorded", "error", err)
		}
	}
}

// HandleEngageEvent is the NATS handler for swarm.martha.engage. The payload
// accepts the same shapes as the HTTP engage route; the reply goes out on
// swarm.martha.reply.
func (p *Processor) HandleEngageEvent(subject string, data []byte) {
	if !json.Valid(data) {
		p.logger.Warn("ignoring malformed engage event", "subject", subject)
		return
	}

	req := inbound.Normalize(data, p.now())
	res := p.Handle(context.Background(), req)

	if p.bus == nil {
		return
	}
	if err := p.bus.Publish(hermes.SubjectReply, hermes.ReplyEvent{
		SessionID:             req.SessionID,
		Reply:                 res.Reply,
		SuggestedDelaySeconds: res.SuggestedDelaySeconds,
	}); err != nil {
		p.logger.Error("failed to publish reply", "session_id", req.SessionID, "error", err)
	}
}
