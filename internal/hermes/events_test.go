package hermes

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestSubjectsShareNamespace(t *testing.T) {
	for _, s := range []string{SubjectEngage, SubjectReply, SubjectTurnRecorded, SubjectReportFinal} {
		if !strings.HasPrefix(s, "swarm.martha.") {
			t.Errorf("subject %q outside swarm.martha namespace", s)
		}
	}
	if SubjectRegistered != "swarm.agent.martha.registered" {
		t.Errorf("unexpected registration subject %q", SubjectRegistered)
	}
}

func TestTurnRecordedJSON(t *testing.T) {
	evt := TurnRecorded{
		SessionID:  "s1",
		TurnID:     "s1_abc",
		IsScam:     true,
		Artifacts:  3,
		RecordedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	data, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["sessionId"] != "s1" || got["turnId"] != "s1_abc" || got["isScam"] != true {
		t.Errorf("unexpected payload %s", data)
	}
	if got["recordedAt"] != "2025-01-02T03:04:05Z" {
		t.Errorf("expected RFC3339 timestamp, got %v", got["recordedAt"])
	}
}
