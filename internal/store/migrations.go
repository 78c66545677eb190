package store

import (
	"context"
	"database/sql"
	"fmt"
)

func (s *Store) migrate(ctx context.Context) error {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	var version int
	err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if version < 1 {
		if err := migrateV1(ctx, tx); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return tx.Commit()
}

func migrateV1(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		// Append-only notification journal
		`CREATE TABLE IF NOT EXISTS events (
			id         TEXT PRIMARY KEY,
			kind       TEXT NOT NULL CHECK (kind IN ('deposit_successful','withdrawal_successful')),
			account    TEXT NOT NULL,
			amount     INTEGER NOT NULL CHECK (amount > 0),
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_account ON events(account)`,
		`CREATE INDEX IF NOT EXISTS idx_events_created ON events(created_at)`,

		// Outbound transfers issued by the payment channel
		`CREATE TABLE IF NOT EXISTS payouts (
			id         TEXT PRIMARY KEY,
			account    TEXT NOT NULL,
			amount     INTEGER NOT NULL CHECK (amount > 0),
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_payouts_account ON payouts(account)`,

		// Current balance per account, snapshotted after each operation
		`CREATE TABLE IF NOT EXISTS balances (
			account TEXT PRIMARY KEY,
			balance INTEGER NOT NULL CHECK (balance >= 0)
		)`,

		// Single-row operation counters
		`CREATE TABLE IF NOT EXISTS ledger_state (
			id               INTEGER PRIMARY KEY CHECK (id = 1),
			deposit_count    INTEGER NOT NULL DEFAULT 0,
			withdrawal_count INTEGER NOT NULL DEFAULT 0
		)`,
		`INSERT OR IGNORE INTO ledger_state (id) VALUES (1)`,

		// Journal rows are immutable once written
		`CREATE TRIGGER IF NOT EXISTS trg_events_no_update
		BEFORE UPDATE ON events
		BEGIN
			SELECT RAISE(ABORT, 'events are append-only');
		END`,
		`CREATE TRIGGER IF NOT EXISTS trg_events_no_delete
		BEFORE DELETE ON events
		BEGIN
			SELECT RAISE(ABORT, 'events are append-only');
		END`,

		`INSERT INTO schema_version (version) VALUES (1)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:60], err)
		}
	}

	return nil
}
