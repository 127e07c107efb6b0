package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/martha/internal/report"
)

const defaultPostMessageURL = "https://slack.com/api/chat.postMessage"

// Poster sends session report alerts to a Slack channel. It satisfies
// report.Sink.
type Poster struct {
	token   string
	channel string
	client  *http.Client
	logger  *slog.Logger
	apiURL  string
}

func NewPoster(token, channel string, logger *slog.Logger) *Poster {
	return &Poster{
		token:   token,
		channel: channel,
		client:  &http.Client{Timeout: 10 * time.Second},
		apiURL:  defaultPostMessageURL,
		logger:  logger,
	}
}

func (p *Poster) Name() string { return "slack" }

// Deliver posts the alert and threads the full artifact listing under it.
func (p *Poster) Deliver(ctx context.Context, r report.Report) error {
	ts, err := p.PostSessionReport(ctx, r)
	if err != nil {
		return err
	}
	if r.Intelligence.IsEmpty() {
		return nil
	}
	if err := p.PostThread(ctx, ts, formatArtifacts(r)); err != nil {
		p.logger.Warn("slack thread post failed", "ts", ts, "error", err)
	}
	return nil
}

// PostSessionReport posts the report summary for analysts.
// Returns the message timestamp (ts) so follow-ups can be threaded.
func (p *Poster) PostSessionReport(ctx context.Context, r report.Report) (string, error) {
	text := formatReportMessage(r)

	ts, err := p.post(ctx, map[string]any{
		"channel": p.channel,
		"text":    text,
		"blocks": []map[string]any{
			{
				"type": "section",
				"text": map[string]any{
					"type": "mrkdwn",
					"text": text,
				},
			},
			{
				"type": "context",
				"elements": []map[string]any{
					{
						"type": "mrkdwn",
						"text": "Session: `" + r.SessionID + "`",
					},
				},
			},
		},
	})
	if err != nil {
		return "", err
	}

	p.logger.Info("posted session report to slack", "ts", ts, "session_id", r.SessionID)
	return ts, nil
}

// PostThread posts a threaded reply to a message.
func (p *Poster) PostThread(ctx context.Context, threadTS, text string) error {
	_, err := p.post(ctx, map[string]any{
		"channel":   p.channel,
		"thread_ts": threadTS,
		"text":      text,
	})
	return err
}

func (p *Poster) post(ctx context.Context, payload map[string]any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("slack post: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var slackResp struct {
		OK    bool   `json:"ok"`
		TS    string `json:"ts"`
		Error string `json:"error,omitempty"`
	}
	if err := json.Unmarshal(respBody, &slackResp); err != nil {
		return "", fmt.Errorf("parse slack response: %w", err)
	}
	if !slackResp.OK {
		return "", fmt.Errorf("slack error: %s", slackResp.Error)
	}
	return slackResp.TS, nil
}

func formatReportMessage(r report.Report) string {
	var sb strings.Builder

	if r.ScamDetected {
		sb.WriteString(":rotating_light: *Scam session reported*\n")
	} else {
		sb.WriteString("*Session report*\n")
	}
	fmt.Fprintf(&sb, "*Messages exchanged:* %d\n", r.TotalMessagesExchanged)

	in := r.Intelligence
	counts := []struct {
		label string
		n     int
	}{
		{"UPI IDs", len(in.UPIIDs)},
		{"Bank accounts", len(in.BankAccounts)},
		{"Links", len(in.PhishingLinks)},
		{"Phone numbers", len(in.PhoneNumbers)},
		{"Keywords", len(in.SuspiciousKeywords)},
	}
	var parts []string
	for _, c := range counts {
		if c.n > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", c.label, c.n))
		}
	}
	if len(parts) == 0 {
		sb.WriteString("_No intelligence extracted yet._\n")
	} else {
		fmt.Fprintf(&sb, "*Extracted:* %s\n", strings.Join(parts, " | "))
	}

	fmt.Fprintf(&sb, "\n%s", r.AgentNotes)
	return sb.String()
}

func formatArtifacts(r report.Report) string {
	var sb strings.Builder
	section := func(label string, values []string) {
		if len(values) == 0 {
			return
		}
		fmt.Fprintf(&sb, "*%s*\n", label)
		for _, v := range values {
			fmt.Fprintf(&sb, "• `%s`\n", v)
		}
	}
	in := r.Intelligence
	section("UPI IDs", in.UPIIDs)
	section("Bank accounts", in.BankAccounts)
	section("Links", in.PhishingLinks)
	section("Phone numbers", in.PhoneNumbers)
	section("Keywords", in.SuspiciousKeywords)
	return strings.TrimRight(sb.String(), "\n")
}
