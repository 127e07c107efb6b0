package hermes

import "time"

const (
	// SubjectEngage carries inbound counterpart messages from other channels.
	SubjectEngage = "swarm.martha.engage"
	// SubjectReply carries the persona's reply to a SubjectEngage message.
	SubjectReply = "swarm.martha.reply"
	// SubjectTurnRecorded is emitted once per persisted turn.
	SubjectTurnRecorded = "swarm.martha.turn.recorded"
	// SubjectReportFinal carries delivered session reports.
	SubjectReportFinal = "swarm.martha.report.final"
	// SubjectRegistered announces the agent on startup.
	SubjectRegistered = "swarm.agent.martha.registered"
)

// ReplyEvent answers one engage message.
type ReplyEvent struct {
	SessionID             string  `json:"sessionId"`
	Reply                 string  `json:"reply"`
	SuggestedDelaySeconds float64 `json:"suggestedDelaySeconds"`
}

// TurnRecorded summarises a persisted turn without the message bodies.
type TurnRecorded struct {
	SessionID  string    `json:"sessionId"`
	TurnID     string    `json:"turnId"`
	IsScam     bool      `json:"isScam"`
	Artifacts  int       `json:"artifacts"`
	RecordedAt time.Time `json:"recordedAt"`
}

// Registration is published once when the agent comes up.
type Registration struct {
	AgentID   string    `json:"agent_id"`
	Version   string    `json:"version"`
	Subjects  []string  `json:"subjects"`
	StartedAt time.Time `json:"started_at"`
}
