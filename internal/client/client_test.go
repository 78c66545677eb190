package client

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vaultbank/vaultd/internal/server"
	"github.com/vaultbank/vaultd/internal/store"
	"github.com/vaultbank/vaultd/internal/vault"
)

func newTestClient(t *testing.T, account string) *Client {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "vault.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	v, err := vault.New(100, 10, nil)
	if err != nil {
		t.Fatal(err)
	}

	ts := httptest.NewServer(server.New(v, st, "").Handler())
	t.Cleanup(ts.Close)
	return New(ts.URL, account)
}

func TestClientRoundTrip(t *testing.T) {
	c := newTestClient(t, "alice")
	ctx := context.Background()

	if err := c.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	bal, err := c.Deposit(ctx, 60)
	if err != nil {
		t.Fatal(err)
	}
	if bal.Balance != 60 || bal.Account != "alice" {
		t.Fatalf("deposit response=%+v", bal)
	}

	bal, err = c.Withdraw(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if bal.Balance != 50 {
		t.Fatalf("withdraw response=%+v", bal)
	}

	st, err := c.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.DepositCount != 1 || st.WithdrawalCount != 1 || st.TotalDeposited != 50 {
		t.Fatalf("stats=%+v", st)
	}

	capacity, err := c.RemainingCapacity(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if capacity != 50 {
		t.Fatalf("capacity=%d want=50", capacity)
	}

	limits, err := c.Limits(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if limits.BankCap != 100 || limits.WithdrawalThreshold != 10 {
		t.Fatalf("limits=%+v", limits)
	}

	events, err := c.ListEvents(ctx, "alice", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("events=%d want=2", len(events))
	}
}

func TestClientSurfacesAPIErrors(t *testing.T) {
	c := newTestClient(t, "alice")
	ctx := context.Background()

	if _, err := c.Deposit(ctx, 0); err == nil || !strings.Contains(err.Error(), "amount") {
		t.Fatalf("deposit 0: err=%v", err)
	}
	if _, err := c.Withdraw(ctx, 1); err == nil || !strings.Contains(err.Error(), "insufficient") {
		t.Fatalf("withdraw without funds: err=%v", err)
	}
}

func TestClientWithoutIdentity(t *testing.T) {
	c := newTestClient(t, "")
	ctx := context.Background()

	if _, err := c.Stats(ctx); err != nil {
		t.Fatalf("public read should not need identity: %v", err)
	}
	if _, err := c.Deposit(ctx, 5); err == nil {
		t.Fatal("deposit without identity should fail")
	}
}
