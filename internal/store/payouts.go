package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Payout is one outbound transfer recorded by the payment channel.
type Payout struct {
	ID        string    `json:"id"`
	Account   string    `json:"account"`
	Amount    uint64    `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Store) RecordPayout(ctx context.Context, account string, amount uint64) error {
	_, err := s.writer.ExecContext(ctx,
		`INSERT INTO payouts (id, account, amount) VALUES (?, ?, ?)`,
		uuid.Must(uuid.NewV7()).String(), account, int64(amount),
	)
	if err != nil {
		return fmt.Errorf("insert payout: %w", err)
	}
	return nil
}

func (s *Store) ListPayouts(ctx context.Context, filter PayoutFilter) ([]Payout, error) {
	query := `SELECT id, account, amount, created_at FROM payouts WHERE 1=1`
	args := []any{}

	if filter.Account != "" {
		query += ` AND account = ?`
		args = append(args, filter.Account)
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
		return nil, fmt.Errorf("list payouts: %w", err)
	}
	defer rows.Close()

	var payouts []Payout
	for rows.Next() {
		var p Payout
		var amount int64
		var createdAt string
		if err := rows.Scan(&p.ID, &p.Account, &amount, &createdAt); err != nil {
			return nil, fmt.Errorf("scan payout: %w", err)
		}
		p.Amount = uint64(amount)
		p.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		payouts = append(payouts, p)
	}
	return payouts, rows.Err()
}
