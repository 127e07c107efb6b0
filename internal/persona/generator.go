// Package persona produces replies in the voice of Martha, an elderly and
// technically naive target. Replies come from a generative backend when one is
// configured, otherwise (or on any backend failure) from canned fallbacks.
package persona

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/martha/internal/chat"
)

const (
	// Temperature favours varied phrasing across turns.
	Temperature = 0.85

	// MaxHistory is how many trailing history items are sent to the backend.
	MaxHistory = 20

	DefaultTimeout = 15 * time.Second
)

var errEmptyReply = errors.New("empty reply")

// Backend is a generative capability able to continue the conversation.
type Backend interface {
	Complete(ctx context.Context, req chat.Request) (string, error)
}

type Generator struct {
	backend Backend
	rand    Rand
	timeout time.Duration
	logger  *slog.Logger
}

// New returns a generator. A nil backend means the generative path is never
// attempted. A nil rand uses ProcessRand.
func New(backend Backend, r Rand, timeout time.Duration, logger *slog.Logger) *Generator {
	if r == nil {
		r = ProcessRand()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Generator{backend: backend, rand: r, timeout: timeout, logger: logger}
}

// HasBackend reports whether the generative path is enabled.
func (g *Generator) HasBackend() bool {
	return g.backend != nil
}

// Reply returns a humanized persona reply to message. Backend errors are logged
// and never returned.
func (g *Generator) Reply(ctx context.Context, message string, history []chat.HistoryItem) string {
	if g.backend != nil {
		reply, err := g.complete(ctx, message, history)
		if err == nil {
			return Humanize(g.rand, reply)
		}
		g.logger.Warn("generative backend failed, using fallback", "error", err)
	}
	return Humanize(g.rand, Fallback(g.rand, message))
}

func (g *Generator) complete(ctx context.Context, message string, history []chat.HistoryItem) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	reply, err := g.backend.Complete(ctx, BuildRequest(message, history))
	if err != nil {
		return "", fmt.Errorf("backend complete: %w", err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", errEmptyReply
	}

	g.logger.Debug("generative reply",
		"history", len(history),
		"reply_len", len(reply),
		"elapsed", time.Since(start),
	)
	return reply, nil
}

// BuildRequest shapes the backend request: the persona directive, the trailing
// MaxHistory items of history mapped to roles, and message as the final turn.
// Items without a sender or text are skipped.
func BuildRequest(message string, history []chat.HistoryItem) chat.Request {
	if len(history) > MaxHistory {
		history = history[len(history)-MaxHistory:]
	}

	msgs := make([]chat.Message, 0, len(history))
	for _, h := range history {
		if h.Sender == "" || h.Text == "" {
			continue
		}
		msgs = append(msgs, chat.Message{Role: chat.RoleFor(h.Sender), Content: h.Text})
	}

	return chat.Request{
		System:      Directive,
		History:     msgs,
		Message:     message,
		Temperature: Temperature,
	}
}
