package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/vaultbank/vaultd/internal/vault"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "vault.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testEvent(kind vault.EventKind, account string, amount uint64) vault.Event {
	return vault.Event{
		ID:      uuid.Must(uuid.NewV7()).String(),
		Kind:    kind,
		Account: account,
		Amount:  amount,
		At:      time.Now().UTC(),
	}
}

func TestAppendAndListEvents(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	e1 := testEvent(vault.EventDepositSuccessful, "alice", 60)
	e2 := testEvent(vault.EventWithdrawalSuccessful, "alice", 10)
	e3 := testEvent(vault.EventDepositSuccessful, "bob", 5)
	for _, e := range []vault.Event{e1, e2, e3} {
		if err := s.AppendEvent(ctx, e); err != nil {
			t.Fatalf("AppendEvent: %v", err)
		}
	}

	all, err := s.ListEvents(ctx, EventFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("events=%d want=3", len(all))
	}

	alice, err := s.ListEvents(ctx, EventFilter{Account: "alice"})
	if err != nil {
		t.Fatal(err)
	}
	if len(alice) != 2 {
		t.Fatalf("alice events=%d want=2", len(alice))
	}
	for _, e := range alice {
		if e.Account != "alice" {
			t.Fatalf("unexpected account %q", e.Account)
		}
	}

	deposits, err := s.ListEvents(ctx, EventFilter{Kind: string(vault.EventDepositSuccessful), Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(deposits) != 1 || deposits[0].Kind != vault.EventDepositSuccessful {
		t.Fatalf("deposits=%+v", deposits)
	}
}

func TestEventsAreAppendOnly(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	e := testEvent(vault.EventDepositSuccessful, "alice", 1)
	if err := s.AppendEvent(ctx, e); err != nil {
		t.Fatal(err)
	}

	if _, err := s.writer.ExecContext(ctx, `UPDATE events SET amount = 999 WHERE id = ?`, e.ID); err == nil {
		t.Fatal("expected update on events to be rejected")
	}
	if _, err := s.writer.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, e.ID); err == nil {
		t.Fatal("expected delete on events to be rejected")
	}
}

func TestRecordAndListPayouts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.RecordPayout(ctx, "alice", 10); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordPayout(ctx, "bob", 7); err != nil {
		t.Fatal(err)
	}

	payouts, err := s.ListPayouts(ctx, PayoutFilter{Account: "alice"})
	if err != nil {
		t.Fatal(err)
	}
	if len(payouts) != 1 || payouts[0].Amount != 10 {
		t.Fatalf("payouts=%+v", payouts)
	}
	if payouts[0].ID == "" {
		t.Fatal("payout id missing")
	}
}

func TestStateRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Fresh store: zero counters, no balances.
	state, err := s.LoadState(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if state.DepositCount != 0 || state.WithdrawalCount != 0 || len(state.Balances) != 0 {
		t.Fatalf("fresh state=%+v", state)
	}

	if err := s.SaveBalance(ctx, "alice", 60); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveBalance(ctx, "alice", 50); err != nil { // upsert
		t.Fatal(err)
	}
	if err := s.SaveBalance(ctx, "bob", 40); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveCounters(ctx, 3, 1); err != nil {
		t.Fatal(err)
	}

	state, err = s.LoadState(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if state.Balances["alice"] != 50 || state.Balances["bob"] != 40 {
		t.Fatalf("balances=%+v", state.Balances)
	}
	if state.DepositCount != 3 || state.WithdrawalCount != 1 {
		t.Fatalf("counters=%+v", state)
	}

	// A restored vault rebuilds from this snapshot.
	v, err := vault.New(100, 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := v.RestoreState(state.Balances, state.DepositCount, state.WithdrawalCount); err != nil {
		t.Fatal(err)
	}
	if st := v.Stats(); st.TotalDeposited != 90 {
		t.Fatalf("restored stats=%+v", st)
	}
}
