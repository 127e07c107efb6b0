package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/MikeSquared-Agency/martha/internal/intel"
)

// Separator joins a session id and the per-turn discriminator in a turn id.
const Separator = "_"

// Turn is one persisted inbound message and the persona's reply to it.
type Turn struct {
	ID              string
	IncomingMessage string
	Sender          string
	Reply           string
	IsScam          bool
	Intelligence    intel.Record
	SuggestedDelay  float64
	Metadata        map[string]any
	CreatedAt       time.Time
}

// NewTurnID returns a fresh turn id scoped to sessionID.
func NewTurnID(sessionID string) string {
	return sessionID + Separator + uuid.NewString()
}

// SessionOf recovers the session id from a turn id made by NewTurnID.
func SessionOf(turnID string) string {
	n := len(Separator) + 36
	if len(turnID) <= n {
		return turnID
	}
	return turnID[:len(turnID)-n]
}

var turnColumns = []string{
	"id", "incoming_message", "sender", "reply_text", "is_scam",
	"upi_ids", "bank_accounts", "phishing_links", "phone_numbers", "suspicious_keywords",
	"suggested_delay", "metadata", "created_at",
}

// SaveTurn inserts a turn. CreatedAt is assigned by the database.
func (s *Store) SaveTurn(ctx context.Context, t Turn) error {
	rec := intel.Union(t.Intelligence)
	meta := t.Metadata
	if meta == nil {
		meta = map[string]any{}
	}

	query, args, err := psql.Insert("turns").
		Columns(turnColumns[:len(turnColumns)-1]...).
		Values(
			t.ID, t.IncomingMessage, t.Sender, t.Reply, t.IsScam,
			rec.UPIIDs, rec.BankAccounts, rec.PhishingLinks, rec.PhoneNumbers, rec.SuspiciousKeywords,
			t.SuggestedDelay, meta,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert turn: %w", err)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert turn: %w", err)
	}
	return nil
}

// TurnsBySession returns every turn whose id starts with sessionID and the
// separator, oldest first.
func (s *Store) TurnsBySession(ctx context.Context, sessionID string) ([]Turn, error) {
	return s.listTurns(ctx, psql.Select(turnColumns...).
		From("turns").
		Where(sq.Like{"id": SessionPattern(sessionID)}).
		OrderBy("created_at ASC", "id ASC"))
}

// ScamTurns returns the most recent scam-flagged turns across all sessions.
func (s *Store) ScamTurns(ctx context.Context, limit uint64) ([]Turn, error) {
	q := psql.Select(turnColumns...).
		From("turns").
		Where(sq.Eq{"is_scam": true}).
		OrderBy("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return s.listTurns(ctx, q)
}

func (s *Store) listTurns(ctx context.Context, b sq.SelectBuilder) ([]Turn, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select turns: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		t, err := scanTurn(rows)
		if err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}
	return turns, nil
}

func scanTurn(row pgx.Row) (Turn, error) {
	var t Turn
	var rec intel.Record
	err := row.Scan(
		&t.ID, &t.IncomingMessage, &t.Sender, &t.Reply, &t.IsScam,
		&rec.UPIIDs, &rec.BankAccounts, &rec.PhishingLinks, &rec.PhoneNumbers, &rec.SuspiciousKeywords,
		&t.SuggestedDelay, &t.Metadata, &t.CreatedAt,
	)
	if err != nil {
		return Turn{}, err
	}
	t.Intelligence = intel.Union(rec)
	return t, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SessionPattern is the LIKE pattern matching all turn ids of sessionID.
func SessionPattern(sessionID string) string {
	return likeEscaper.Replace(sessionID+Separator) + "%"
}
