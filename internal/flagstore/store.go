// Package flagstore provides PostgreSQL-backed storage for moderation
// verdicts. Each scanned message gets one result row (flagged, blocked,
// risk score, redacted text) and one row per detected flag (category,
// severity, matched text, context) for moderator review.
package flagstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gadgetswap/moderation/internal/moderation"
)

// Store manages moderation records in PostgreSQL.
type Store struct {
	db *sql.DB
}

// Record is one persisted moderation outcome. RedactedText is the
// display-safe copy of the message; the raw text is the message store's
// concern, not ours.
type Record struct {
	ID           uuid.UUID
	MessageID    string
	SessionID    string
	SenderID     string
	RedactedText string
	Result       moderation.Result
}

// NewStore creates a new store backed by the given database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Save inserts a moderation record and its flags in one transaction. A new
// record ID is assigned if the caller left it zero. Save is idempotent per
// message: a redelivered message_id leaves the existing record untouched.
func (s *Store) Save(ctx context.Context, rec *Record) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("flagstore: begin tx: %w", err)
	}
	defer tx.Rollback()

	const resultQuery = `
		INSERT INTO moderation_results (id, message_id, session_id, sender_id, flagged, blocked, risk_score, redacted_text)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (message_id) DO NOTHING`

	res, err := tx.ExecContext(ctx, resultQuery,
		rec.ID,
		rec.MessageID,
		rec.SessionID,
		rec.SenderID,
		rec.Result.Flagged,
		rec.Result.Blocked,
		rec.Result.RiskScore,
		rec.RedactedText,
	)
	if err != nil {
		return fmt.Errorf("flagstore: insert result: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("flagstore: insert result: %w", err)
	}
	if inserted == 0 {
		// Redelivery of a message we already recorded.
		return nil
	}

	const flagQuery = `
		INSERT INTO moderation_flags (result_id, category, severity, matched_text, context)
		VALUES ($1, $2, $3, $4, $5)`

	for _, f := range rec.Result.Flags {
		if _, err := tx.ExecContext(ctx, flagQuery,
			rec.ID, string(f.Category), string(f.Severity), f.MatchedText, f.Context,
		); err != nil {
			return fmt.Errorf("flagstore: insert flag %s: %w", f.Category, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("flagstore: commit: %w", err)
	}
	return nil
}

// FlagEntry is one row of the reviewer feed: a detected flag joined with
// the verdict it belongs to.
type FlagEntry struct {
	MessageID   string
	SessionID   string
	SenderID    string
	Category    moderation.Category
	Severity    moderation.Severity
	MatchedText string
	Context     string
	RiskScore   int
	Blocked     bool
	CreatedAt   time.Time
}

// RecentFlags returns the newest detected flags with their verdicts,
// newest first, for the moderator review feed.
func (s *Store) RecentFlags(ctx context.Context, limit int) ([]FlagEntry, error) {
	const query = `
		SELECT r.message_id, r.session_id, r.sender_id,
		       f.category, f.severity, f.matched_text, f.context,
		       r.risk_score, r.blocked, f.created_at
		FROM moderation_flags f
		JOIN moderation_results r ON r.id = f.result_id
		ORDER BY f.created_at DESC, f.id DESC
		LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("flagstore: recent flags: %w", err)
	}
	defer rows.Close()

	var entries []FlagEntry
	for rows.Next() {
		var e FlagEntry
		if err := rows.Scan(
			&e.MessageID, &e.SessionID, &e.SenderID,
			&e.Category, &e.Severity, &e.MatchedText, &e.Context,
			&e.RiskScore, &e.Blocked, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("flagstore: scan flag entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("flagstore: recent flags: %w", err)
	}
	return entries, nil
}

// CountRecentFlagged returns the number of flagged or blocked messages a
// sender produced within the given time window. Useful for escalation
// logic (e.g. repeated evasion attempts warrant a closer look).
func (s *Store) CountRecentFlagged(ctx context.Context, senderID string, window time.Duration) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM moderation_results
		WHERE sender_id = $1
		  AND flagged
		  AND created_at >= NOW() - $2::interval`

	var count int
	err := s.db.QueryRowContext(ctx, query, senderID, window.String()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("flagstore: count recent flagged: %w", err)
	}
	return count, nil
}
