package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vaultbank/vaultd/internal/vault"
)

func (s *Store) AppendEvent(ctx context.Context, e vault.Event) error {
	_, err := s.writer.ExecContext(ctx,
		`INSERT INTO events (id, kind, account, amount, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.ID, string(e.Kind), e.Account, int64(e.Amount), e.At.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// ApplyEvent records a successful operation atomically: the journal row, the
// account's new balance, and the bumped counter commit together or not at all.
func (s *Store) ApplyEvent(ctx context.Context, e vault.Event) error {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO events (id, kind, account, amount, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.ID, string(e.Kind), e.Account, int64(e.Amount), e.At.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	switch e.Kind {
	case vault.EventDepositSuccessful:
		_, err = tx.ExecContext(ctx,
			`INSERT INTO balances (account, balance) VALUES (?, ?)
			 ON CONFLICT(account) DO UPDATE SET balance = balance + excluded.balance`,
			e.Account, int64(e.Amount),
		)
		if err == nil {
			_, err = tx.ExecContext(ctx,
				`UPDATE ledger_state SET deposit_count = deposit_count + 1 WHERE id = 1`)
		}
	case vault.EventWithdrawalSuccessful:
		_, err = tx.ExecContext(ctx,
			`UPDATE balances SET balance = balance - ? WHERE account = ?`,
			int64(e.Amount), e.Account,
		)
		if err == nil {
			_, err = tx.ExecContext(ctx,
				`UPDATE ledger_state SET withdrawal_count = withdrawal_count + 1 WHERE id = 1`)
		}
	default:
		return fmt.Errorf("unknown event kind %q", e.Kind)
	}
	if err != nil {
		return fmt.Errorf("apply %s: %w", e.Kind, err)
	}

	return tx.Commit()
}

func (s *Store) ListEvents(ctx context.Context, filter EventFilter) ([]vault.Event, error) {
	query := `SELECT id, kind, account, amount, created_at FROM events WHERE 1=1`
	args := []any{}

	if filter.Account != "" {
		query += ` AND account = ?`
		args = append(args, filter.Account)
	}
	if filter.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, filter.Kind)
	}

	query += ` ORDER BY created_at DESC, id DESC`

	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, filter.Limit)
		if filter.Offset > 0 {
			query += fmt.Sprintf(` OFFSET %d`, filter.Offset)
		}
	}

	rows, err := s.reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]vault.Event, error) {
	var events []vault.Event
	for rows.Next() {
		var e vault.Event
		var kind, createdAt string
		var amount int64
		if err := rows.Scan(&e.ID, &kind, &e.Account, &amount, &createdAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Kind = vault.EventKind(kind)
		e.Amount = uint64(amount)
		e.At, _ = time.Parse(time.RFC3339Nano, createdAt)
		events = append(events, e)
	}
	return events, rows.Err()
}
