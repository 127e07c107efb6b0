//go:build integration

package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/MikeSquared-Agency/martha/internal/intel"
)

// setupTestStore uses DATABASE_URL when set, otherwise starts a throwaway
// postgres container. Migrations are applied either way.
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = startPostgres(t)
	}

	_, err := Migrate(ctx, dbURL)
	require.NoError(t, err)

	s, err := New(ctx, dbURL, Options{MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "martha",
				"POSTGRES_PASSWORD": "martha",
				"POSTGRES_DB":       "martha",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://martha:martha@%s:%s/martha?sslmode=disable", host, port.Port())
}

func TestIntegration_SaveAndListBySession(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	session := "it_" + NewTurnID("s")[2:10]

	first := Turn{
		ID:              NewTurnID(session),
		IncomingMessage: "pay me via UPI: scammer@oksbi",
		Sender:          "scammer",
		Reply:           "which upi dear?",
		IsScam:          true,
		Intelligence:    intel.Extract("pay me via UPI: scammer@oksbi"),
		SuggestedDelay:  2,
		Metadata:        map[string]any{"sender": "scammer"},
	}
	second := Turn{
		ID:           NewTurnID(session),
		Reply:        "hello?",
		Intelligence: intel.Record{},
	}
	other := Turn{ID: NewTurnID(session + "x"), Intelligence: intel.Empty()}

	require.NoError(t, s.SaveTurn(ctx, first))
	require.NoError(t, s.SaveTurn(ctx, second))
	require.NoError(t, s.SaveTurn(ctx, other))

	turns, err := s.TurnsBySession(ctx, session)
	require.NoError(t, err)
	require.Len(t, turns, 2, "prefix must not leak into session %q", session+"x")

	got := turns[0]
	if got.ID != first.ID {
		got = turns[1]
	}
	assert.Equal(t, first.ID, got.ID)
	assert.True(t, got.IsScam)
	assert.Equal(t, []string{"scammer@oksbi"}, got.Intelligence.UPIIDs)
	assert.Equal(t, []string{}, got.Intelligence.PhoneNumbers)
	assert.Equal(t, "scammer", got.Metadata["sender"])
	assert.False(t, got.CreatedAt.IsZero())

	scams, err := s.ScamTurns(ctx, 50)
	require.NoError(t, err)
	found := false
	for _, turn := range scams {
		if turn.ID == first.ID {
			found = true
		}
		assert.True(t, turn.IsScam)
	}
	assert.True(t, found)

	t.Cleanup(func() {
		s.pool.Exec(ctx, "DELETE FROM turns WHERE id = ANY($1)", []string{first.ID, second.ID, other.ID})
	})
}

func TestIntegration_MigrateIdempotent(t *testing.T) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}
	_, err := Migrate(context.Background(), dbURL)
	require.NoError(t, err)
	n, err := Migrate(context.Background(), dbURL)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
