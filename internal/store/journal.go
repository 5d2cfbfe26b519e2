// Package store provides durable archiving for the journal and a
// snapshot cache, adapted from the teacher's Postgres job store and
// Redis-backed caching layer (SPEC_FULL.md §4.14). Both backends are
// optional: when no DSN/address is configured the server falls back to
// an in-memory store, mirroring the teacher's "Redis unavailable ...
// STANDALONE mode" degradation.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lineforge/shopfloor/internal/model"
)

// JournalArchive durably persists journal entries beyond the in-memory
// engine log, for audit and postmortem queries after a process restart.
type JournalArchive interface {
	Append(ctx context.Context, entry model.JournalEntry) error
	Close()
}

// PostgresJournal archives journal entries to a Postgres table via
// pgx/v5's connection pool, the same driver the teacher's store package
// uses for its job table.
type PostgresJournal struct {
	pool *pgxpool.Pool
}

// NewPostgresJournal connects to dsn and ensures the archive table
// exists.
func NewPostgresJournal(ctx context.Context, dsn string) (*PostgresJournal, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: connect postgres: %w", err)
	}

	const ddl = `
CREATE TABLE IF NOT EXISTS journal_entries (
	id               BIGSERIAL PRIMARY KEY,
	received_at      TIMESTAMPTZ NOT NULL,
	source           TEXT NOT NULL,
	event_type       TEXT NOT NULL,
	status           TEXT NOT NULL,
	reason           TEXT,
	late_applied     BOOLEAN NOT NULL,
	replanned        BOOLEAN NOT NULL,
	engine_now_after TIMESTAMPTZ NOT NULL,
	payload          JSONB NOT NULL
)`
	if _, err := pool.Exec(ctx, ddl); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: create journal_entries table: %w", err)
	}

	return &PostgresJournal{pool: pool}, nil
}

// Append inserts entry as a new archive row.
func (p *PostgresJournal) Append(ctx context.Context, entry model.JournalEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("store: marshal journal entry: %w", err)
	}

	const insert = `
INSERT INTO journal_entries
	(received_at, source, event_type, status, reason, late_applied, replanned, engine_now_after, payload)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = p.pool.Exec(ctx, insert,
		entry.ReceivedAt, entry.Source, string(entry.Type), string(entry.Status),
		entry.Reason, entry.LateApplied, entry.Replanned, entry.EngineNowAfter, payload)
	if err != nil {
		return fmt.Errorf("store: insert journal entry: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (p *PostgresJournal) Close() {
	p.pool.Close()
}

// MemoryJournal is the in-memory fallback used when no Postgres DSN is
// configured, so the server still runs standalone.
type MemoryJournal struct {
	entries []model.JournalEntry
}

// NewMemoryJournal constructs an empty in-memory archive.
func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{}
}

// Append records entry in-process.
func (m *MemoryJournal) Append(_ context.Context, entry model.JournalEntry) error {
	m.entries = append(m.entries, entry)
	return nil
}

// Close is a no-op for the in-memory archive.
func (m *MemoryJournal) Close() {}

// Entries returns every archived entry, for tests and debugging.
func (m *MemoryJournal) Entries() []model.JournalEntry {
	return append([]model.JournalEntry(nil), m.entries...)
}
