// Package engage runs one honeypot turn: classify, extract, reply, and pick a
// human-plausible delay before the reply is sent.
package engage

import (
	"context"
	"strings"

	"github.com/MikeSquared-Agency/martha/internal/chat"
	"github.com/MikeSquared-Agency/martha/internal/intel"
)

const (
	MinDelaySeconds = 2.0
	MaxDelaySeconds = 10.0

	// wordsPerBeat and secondsPerBeat model a slow typist: 12 words every 5 seconds.
	wordsPerBeat   = 12.0
	secondsPerBeat = 5.0
)

// TurnResult is the outcome of one engagement turn.
type TurnResult struct {
	IsScam                bool         `json:"isScam"`
	Reply                 string       `json:"reply"`
	Intelligence          intel.Record `json:"intelligence"`
	SuggestedDelaySeconds float64      `json:"suggestedDelaySeconds"`
}

// Classifier labels a message as scam or not.
type Classifier interface {
	Classify(message string) bool
}

// Replier produces the persona's reply. It must always return a string.
type Replier interface {
	Reply(ctx context.Context, message string, history []chat.HistoryItem) string
}

type Engine struct {
	classifier Classifier
	replier    Replier
}

func New(c Classifier, r Replier) *Engine {
	return &Engine{classifier: c, replier: r}
}

// Engage runs the turn. The reply is produced whatever the verdict.
func (e *Engine) Engage(ctx context.Context, message string, history []chat.HistoryItem) TurnResult {
	isScam := e.classifier.Classify(message)
	found := intel.Extract(message)
	reply := e.replier.Reply(ctx, message, history)

	return TurnResult{
		IsScam:                isScam,
		Reply:                 reply,
		Intelligence:          found,
		SuggestedDelaySeconds: SuggestDelay(reply),
	}
}

// SuggestDelay estimates how long a slow typist needs for reply, clamped to
// [MinDelaySeconds, MaxDelaySeconds].
func SuggestDelay(reply string) float64 {
	words := float64(len(strings.Fields(reply)))
	delay := words / wordsPerBeat * secondsPerBeat
	return min(max(delay, MinDelaySeconds), MaxDelaySeconds)
}
