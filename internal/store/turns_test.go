package store

import (
	"strings"
	"testing"

	sq "github.com/Masterminds/squirrel"
)

func TestNewTurnID_RoundTripsSession(t *testing.T) {
	tests := []string{
		"1fc994e9-f4c5-47ee-8806-90aeb969928f",
		"validation_test_1769776085",
		"gen-1769776085",
		"a",
	}
	for _, session := range tests {
		id := NewTurnID(session)
		if !strings.HasPrefix(id, session+Separator) {
			t.Errorf("expected %q to start with %q", id, session+Separator)
		}
		if got := SessionOf(id); got != session {
			t.Errorf("SessionOf(%q) = %q, want %q", id, got, session)
		}
	}
}

func TestNewTurnID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewTurnID("s")
		if seen[id] {
			t.Fatalf("duplicate turn id %q", id)
		}
		seen[id] = true
	}
}

func TestSessionPattern_EscapesWildcards(t *testing.T) {
	tests := []struct {
		session string
		want    string
	}{
		{"abc", `abc\_%`},
		{"50%off", `50\%off\_%`},
		{"a_b", `a\_b\_%`},
		{`back\slash`, `back\\slash\_%`},
	}
	for _, tt := range tests {
		if got := SessionPattern(tt.session); got != tt.want {
			t.Errorf("SessionPattern(%q) = %q, want %q", tt.session, got, tt.want)
		}
	}
}

func TestTurnsBySessionQuery(t *testing.T) {
	query, args, err := psql.Select("id").From("turns").Where(sq.Like{"id": SessionPattern("s1")}).ToSql()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if query != "SELECT id FROM turns WHERE id LIKE $1" {
		t.Errorf("unexpected query %q", query)
	}
	if len(args) != 1 || args[0] != `s1\_%` {
		t.Errorf("unexpected args %v", args)
	}
}
