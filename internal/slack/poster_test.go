package slack

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/MikeSquared-Agency/martha/internal/intel"
	"github.com/MikeSquared-Agency/martha/internal/report"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func scamReport() report.Report {
	rec := intel.Extract("URGENT: pay to scammer@oksbi or visit http://evil-link.com")
	return report.Report{
		SessionID:              "sess-1",
		ScamDetected:           true,
		TotalTurns:             2,
		TotalMessagesExchanged: 4,
		Intelligence:           rec,
		AgentNotes:             "Scam detected via heuristics and conversation analysis.",
	}
}

func TestFormatReportMessage_WithIntelligence(t *testing.T) {
	msg := formatReportMessage(scamReport())

	checks := []string{
		"Scam session reported",
		"Messages exchanged:* 4",
		"UPI IDs: 1",
		"Links: 1",
		"Scam detected via heuristics",
	}
	for _, check := range checks {
		if !strings.Contains(msg, check) {
			t.Errorf("expected message to contain %q, got %q", check, msg)
		}
	}
	if strings.Contains(msg, "Bank accounts") {
		t.Errorf("empty categories should be omitted, got %q", msg)
	}
}

func TestFormatReportMessage_Empty(t *testing.T) {
	msg := formatReportMessage(report.Report{SessionID: "s", Intelligence: intel.Empty(), AgentNotes: "Ongoing conversation."})

	if !strings.Contains(msg, "No intelligence extracted") {
		t.Errorf("expected empty marker, got %q", msg)
	}
	if strings.Contains(msg, "rotating_light") {
		t.Errorf("non-scam report should not alert, got %q", msg)
	}
}

func TestFormatArtifacts(t *testing.T) {
	out := formatArtifacts(scamReport())
	if !strings.Contains(out, "`scammer@oksbi`") || !strings.Contains(out, "`http://evil-link.com`") {
		t.Errorf("artifacts missing from %q", out)
	}
}

func TestDeliver_PostsSummaryAndThread(t *testing.T) {
	var mu sync.Mutex
	var payloads []map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer xoxb-test" {
			t.Errorf("expected Bearer xoxb-test, got %q", r.Header.Get("Authorization"))
		}

		body, _ := io.ReadAll(r.Body)
		var payload map[string]any
		json.Unmarshal(body, &payload)

		mu.Lock()
		payloads = append(payloads, payload)
		mu.Unlock()

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"ok": true,
			"ts": "1234567890.123456",
		})
	}))
	defer server.Close()

	p := NewPoster("xoxb-test", "C123", discardLogger())
	p.apiURL = server.URL

	if err := p.Deliver(context.Background(), scamReport()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(payloads) != 2 {
		t.Fatalf("expected summary and thread posts, got %d", len(payloads))
	}
	if payloads[0]["channel"] != "C123" {
		t.Errorf("expected channel C123, got %v", payloads[0]["channel"])
	}
	if payloads[1]["thread_ts"] != "1234567890.123456" {
		t.Errorf("expected thread reply, got %v", payloads[1]["thread_ts"])
	}
}

func TestDeliver_EmptyIntelligenceSkipsThread(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(map[string]any{"ok": true, "ts": "1.2"})
	}))
	defer server.Close()

	p := NewPoster("xoxb-test", "C123", discardLogger())
	p.apiURL = server.URL

	if err := p.Deliver(context.Background(), report.Report{SessionID: "s", ScamDetected: true, Intelligence: intel.Empty()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 post, got %d", calls)
	}
}

func TestPostSessionReport_SlackError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"ok":    false,
			"error": "channel_not_found",
		})
	}))
	defer server.Close()

	p := NewPoster("xoxb-test", "C123", discardLogger())
	p.apiURL = server.URL

	_, err := p.PostSessionReport(context.Background(), scamReport())
	if err == nil {
		t.Fatal("expected error for slack error response")
	}
	if err := p.Deliver(context.Background(), scamReport()); err == nil {
		t.Fatal("expected Deliver to surface the summary failure")
	}
}
