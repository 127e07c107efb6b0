//go:build integration

package hermes

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"
)

func skipWithoutNATS(t *testing.T) string {
	t.Helper()
	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("NATS_URL not set, skipping integration test")
	}
	return url
}

func TestIntegration_PubSub(t *testing.T) {
	natsURL := skipWithoutNATS(t)
	ctx := context.Background()
	logger := slog.Default()

	client, err := NewClient(ctx, natsURL, os.Getenv("NATS_TOKEN"), logger)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer client.Close()

	received := make(chan map[string]string, 1)

	err = client.Subscribe("swarm.martha.test.>", func(subject string, data []byte) {
		var msg map[string]string
		json.Unmarshal(data, &msg)
		received <- msg
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	// Give subscription time to propagate
	time.Sleep(100 * time.Millisecond)

	err = client.Publish("swarm.martha.test.ping", map[string]string{
		"message": "hello from integration test",
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case msg := <-received:
		if msg["message"] != "hello from integration test" {
			t.Errorf("expected hello message, got %v", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestIntegration_ReplyRoundTrip(t *testing.T) {
	natsURL := skipWithoutNATS(t)
	logger := slog.Default()

	client, err := NewClient(context.Background(), natsURL, os.Getenv("NATS_TOKEN"), logger)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer client.Close()

	replies := make(chan ReplyEvent, 1)
	if err := client.Subscribe(SubjectReply, func(_ string, data []byte) {
		var evt ReplyEvent
		if err := json.Unmarshal(data, &evt); err == nil {
			replies <- evt
		}
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	if err := client.Publish(SubjectReply, ReplyEvent{SessionID: "it-1", Reply: "hello dear", SuggestedDelaySeconds: 2}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case evt := <-replies:
		if evt.SessionID != "it-1" || evt.Reply != "hello dear" {
			t.Errorf("unexpected reply %+v", evt)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reply")
	}
}

func TestIntegration_CloseWaitsForQueuedHandlers(t *testing.T) {
	natsURL := skipWithoutNATS(t)
	logger := slog.Default()

	client, err := NewClient(context.Background(), natsURL, os.Getenv("NATS_TOKEN"), logger)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}

	var started, finished atomic.Int32
	firstStarted := make(chan struct{})
	err = client.Subscribe("swarm.martha.test.slow", func(_ string, _ []byte) {
		if started.Add(1) == 1 {
			close(firstStarted)
		}
		time.Sleep(300 * time.Millisecond)
		finished.Add(1)
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	for i := 0; i < 3; i++ {
		if err := client.Publish("swarm.martha.test.slow", map[string]int{"n": i}); err != nil {
			t.Fatalf("publish failed: %v", err)
		}
	}

	select {
	case <-firstStarted:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for first handler")
	}

	client.Close()

	if got := finished.Load(); got != 3 {
		t.Fatalf("handlers finished when Close returned = %d, want 3 (started %d)", got, started.Load())
	}
	if !client.conn.IsClosed() {
		t.Error("connection still open after Close")
	}

	// second Close is a no-op
	client.Close()
}
