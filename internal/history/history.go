// Package history is an optional PostgreSQL-backed event log of
// mutations and render runs, enabled when DATABASE_URL is set. The edit
// pipeline itself performs no I/O; recording happens from the CLI after
// a successful write-back.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Store persists scenepatch events.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a store over an existing pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Event is one recorded mutation or render run.
type Event struct {
	ID        int64
	Kind      string
	Script    string
	Object    string
	Property  string
	Detail    string
	CreatedAt time.Time
}

// EnsureSchema creates the events table.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS scenepatch_events (
			id         BIGSERIAL PRIMARY KEY,
			kind       TEXT NOT NULL,
			script     TEXT NOT NULL,
			object     TEXT NOT NULL DEFAULT '',
			property   TEXT NOT NULL DEFAULT '',
			detail     TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("create events table: %w", err)
	}

	log.Info().Msg("History schema ensured")
	return nil
}

// RecordMutation logs one successful property edit.
func (s *Store) RecordMutation(ctx context.Context, script, object, property, detail string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO scenepatch_events (kind, script, object, property, detail)
		VALUES ('mutate', $1, $2, $3, $4)
	`, script, object, property, detail)
	if err != nil {
		return fmt.Errorf("record mutation: %w", err)
	}
	return nil
}

// RecordRender logs one render run with its diagnostic count and exit
// status.
func (s *Store) RecordRender(ctx context.Context, script string, diagnostics, exitCode int) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO scenepatch_events (kind, script, detail)
		VALUES ('render', $1, $2)
	`, script, fmt.Sprintf("diagnostics=%d exit=%d", diagnostics, exitCode))
	if err != nil {
		return fmt.Errorf("record render: %w", err)
	}
	return nil
}

// Recent returns the newest events, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Event, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, kind, script, object, property, detail, created_at
		FROM scenepatch_events
		ORDER BY id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Kind, &e.Script, &e.Object, &e.Property, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}
