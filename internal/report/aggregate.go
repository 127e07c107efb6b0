// Package report rolls a session's persisted turns into one intelligence report
// and delivers it to the configured sinks.
package report

import (
	"fmt"

	"github.com/MikeSquared-Agency/martha/internal/intel"
	"github.com/MikeSquared-Agency/martha/internal/store"
)

const (
	notesScam    = "Scam detected via heuristics and conversation analysis."
	notesOngoing = "Ongoing conversation."
)

// Report is the session-level payload sent to case management.
type Report struct {
	SessionID              string       `json:"sessionId"`
	ScamDetected           bool         `json:"scamDetected"`
	TotalTurns             int          `json:"-"`
	TotalMessagesExchanged int          `json:"totalMessagesExchanged"`
	Intelligence           intel.Record `json:"extractedIntelligence"`
	AgentNotes             string       `json:"agentNotes"`
}

// Aggregate folds turns into one report. It returns false when there are no
// turns, since there is nothing to report.
//
// Each persisted turn holds one inbound and one outbound message, so the
// exchanged-message count is twice the turn count.
func Aggregate(sessionID string, turns []store.Turn) (Report, bool) {
	if len(turns) == 0 {
		return Report{}, false
	}

	records := make([]intel.Record, 0, len(turns))
	scam := false
	for _, t := range turns {
		records = append(records, t.Intelligence)
		scam = scam || t.IsScam
	}

	rec := intel.Union(records...)
	notes := notesOngoing
	if scam {
		notes = notesScam
	}
	if n := rec.Count(); n > 0 {
		notes = fmt.Sprintf("%s %d distinct artifacts extracted across %d turns.", notes, n, len(turns))
	}

	return Report{
		SessionID:              sessionID,
		ScamDetected:           scam,
		TotalTurns:             len(turns),
		TotalMessagesExchanged: 2 * len(turns),
		Intelligence:           rec,
		AgentNotes:             notes,
	}, true
}
