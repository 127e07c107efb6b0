// Package inbound turns the loosely shaped engage payloads seen in the wild
// into one request shape.
//
// Field precedence, first match wins:
//
//	session id: sessionId, conversation_id, then "gen-<unix seconds>"
//	text:       message.text, message (string), text, incoming_message, content
//	sender:     message.sender, then "scammer"
//	history:    conversationHistory, history
//
// A top-level JSON array is reduced to its last element. Anything that is not
// a JSON object after that is treated as an empty object.
package inbound

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/MikeSquared-Agency/martha/internal/chat"
)

// Request is a normalized engage call.
type Request struct {
	SessionID string
	Text      string
	Sender    string
	History   []chat.HistoryItem
	Metadata  map[string]any
}

// Normalize never fails: malformed input degrades to an empty message on a
// generated session.
func Normalize(body []byte, now time.Time) Request {
	payload := decode(body)

	req := Request{
		SessionID: firstString(payload, "sessionId", "conversation_id"),
		Sender:    chat.SenderScammer,
	}
	if req.SessionID == "" {
		req.SessionID = GeneratedSessionID(now)
	}

	switch msg := payload["message"].(type) {
	case map[string]any:
		req.Text, _ = msg["text"].(string)
		if s, _ := msg["sender"].(string); s != "" {
			req.Sender = s
		}
	case string:
		req.Text = msg
	}
	if req.Text == "" {
		req.Text = firstString(payload, "text", "incoming_message", "content")
	}

	for _, key := range []string{"conversationHistory", "history"} {
		if items, ok := payload[key].([]any); ok && len(items) > 0 {
			req.History = history(items)
			break
		}
	}

	if meta, ok := payload["metadata"].(map[string]any); ok {
		req.Metadata = meta
	}
	return req
}

// GeneratedSessionID is used when the caller supplies no session id.
func GeneratedSessionID(now time.Time) string {
	return fmt.Sprintf("gen-%d", now.Unix())
}

func decode(body []byte) map[string]any {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return map[string]any{}
	}
	if list, ok := raw.([]any); ok {
		if len(list) == 0 {
			return map[string]any{}
		}
		raw = list[len(list)-1]
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return obj
}

func firstString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// history accepts hackathon-style items ({sender, text}), chat-style items
// ({role, content}) and bare strings, which are attributed to the scammer.
// Items without text are dropped.
func history(items []any) []chat.HistoryItem {
	out := make([]chat.HistoryItem, 0, len(items))
	for _, it := range items {
		var h chat.HistoryItem
		switch v := it.(type) {
		case string:
			h = chat.HistoryItem{Sender: chat.SenderScammer, Text: v}
		case map[string]any:
			h.Text = firstString(v, "text", "content")
			h.Sender, _ = v["sender"].(string)
			if h.Sender == "" {
				h.Sender = senderForRole(v["role"])
			}
		}
		if h.Text == "" || h.Sender == "" {
			continue
		}
		out = append(out, h)
	}
	return out
}

// senderForRole reads chat-style roles, where "user" is the counterpart.
func senderForRole(role any) string {
	switch role {
	case chat.RoleUser:
		return chat.SenderScammer
	case chat.RoleAssistant:
		return chat.SenderUser
	default:
		return ""
	}
}
