package store

import (
	"context"
	"fmt"
)

// LedgerState is the persisted snapshot loaded at startup.
type LedgerState struct {
	Balances        map[string]uint64
	DepositCount    uint64
	WithdrawalCount uint64
}

func (s *Store) SaveBalance(ctx context.Context, account string, balance uint64) error {
	_, err := s.writer.ExecContext(ctx,
		`INSERT INTO balances (account, balance) VALUES (?, ?)
		 ON CONFLICT(account) DO UPDATE SET balance = excluded.balance`,
		account, int64(balance),
	)
	if err != nil {
		return fmt.Errorf("save balance: %w", err)
	}
	return nil
}

func (s *Store) SaveCounters(ctx context.Context, deposits, withdrawals uint64) error {
	_, err := s.writer.ExecContext(ctx,
		`UPDATE ledger_state SET deposit_count = ?, withdrawal_count = ? WHERE id = 1`,
		int64(deposits), int64(withdrawals),
	)
	if err != nil {
		return fmt.Errorf("save counters: %w", err)
	}
	return nil
}

func (s *Store) LoadState(ctx context.Context) (*LedgerState, error) {
	state := &LedgerState{Balances: make(map[string]uint64)}

	var deposits, withdrawals int64
	err := s.reader.QueryRowContext(ctx,
		`SELECT deposit_count, withdrawal_count FROM ledger_state WHERE id = 1`,
	).Scan(&deposits, &withdrawals)
	if err != nil {
		return nil, fmt.Errorf("load counters: %w", err)
	}
	state.DepositCount = uint64(deposits)
	state.WithdrawalCount = uint64(withdrawals)

	rows, err := s.reader.QueryContext(ctx, `SELECT account, balance FROM balances`)
	if err != nil {
		return nil, fmt.Errorf("load balances: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var account string
		var balance int64
		if err := rows.Scan(&account, &balance); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		state.Balances[account] = uint64(balance)
	}
	return state, rows.Err()
}
