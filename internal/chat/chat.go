// Package chat holds the conversation shapes shared by the persona generator,
// its generative backends and the inbound request normalizer.
package chat

// Sender values as they arrive on the wire.
const (
	SenderScammer = "scammer"
	SenderUser    = "user"
)

// Backend-facing roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// HistoryItem is one earlier message of a conversation, normalized at the boundary.
type HistoryItem struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// Message is a role-tagged turn handed to a generative backend.
// RoleUser is the counterpart (scammer), RoleAssistant is the persona.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is everything a backend needs to produce one persona reply.
type Request struct {
	System      string
	History     []Message
	Message     string
	Temperature float64
}

// Messages returns the history followed by the final counterpart message.
func (r Request) Messages() []Message {
	out := make([]Message, 0, len(r.History)+1)
	out = append(out, r.History...)
	return append(out, Message{Role: RoleUser, Content: r.Message})
}

// RoleFor maps a wire sender to a backend role. Only the scammer is the
// counterpart; every other sender is treated as the persona's own turn.
func RoleFor(sender string) string {
	if sender == SenderScammer {
		return RoleUser
	}
	return RoleAssistant
}
