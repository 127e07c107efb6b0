package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Sink accepts one delivered report.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, r Report) error
}

// CallbackSink POSTs the report as JSON to a case-management endpoint.
type CallbackSink struct {
	url    string
	client *http.Client
}

func NewCallbackSink(url string, timeout time.Duration) *CallbackSink {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CallbackSink{url: url, client: &http.Client{Timeout: timeout}}
}

func (s *CallbackSink) Name() string { return "callback" }

func (s *CallbackSink) Deliver(ctx context.Context, r Report) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post report: %w", err)
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("callback status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// Publisher is a message bus able to publish JSON payloads.
type Publisher interface {
	Publish(subject string, data any) error
}

// PublisherSink emits the report on a bus subject.
type PublisherSink struct {
	pub     Publisher
	subject string
}

func NewPublisherSink(pub Publisher, subject string) *PublisherSink {
	return &PublisherSink{pub: pub, subject: subject}
}

func (s *PublisherSink) Name() string { return "publish:" + s.subject }

func (s *PublisherSink) Deliver(_ context.Context, r Report) error {
	return s.pub.Publish(s.subject, r)
}
