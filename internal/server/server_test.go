package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/vaultbank/vaultd/internal/store"
	"github.com/vaultbank/vaultd/internal/vault"
)

func newTestServer(t *testing.T, bankCap, threshold uint64, ch vault.PaymentChannel) (*httptest.Server, *vault.Vault) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "vault.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	v, err := vault.New(bankCap, threshold, ch)
	if err != nil {
		t.Fatalf("new vault: %v", err)
	}

	ts := httptest.NewServer(New(v, st, "").Handler())
	t.Cleanup(ts.Close)
	return ts, v
}

func doJSON(t *testing.T, method, url, acct string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if acct != "" {
		req.Header.Set(AccountHeader, acct)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var decoded map[string]any
	json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func TestDepositWithdrawFlow(t *testing.T) {
	ts, v := newTestServer(t, 100, 10, nil)

	// Deposit 60 for alice.
	resp, body := doJSON(t, "POST", ts.URL+"/api/v1/deposit", "alice", map[string]any{"amount": 60})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status=%d body=%v", resp.StatusCode, body)
	}
	if body["balance"].(float64) != 60 {
		t.Fatalf("balance=%v want=60", body["balance"])
	}

	// Second deposit overshoots the cap.
	resp, body = doJSON(t, "POST", ts.URL+"/api/v1/deposit", "alice", map[string]any{"amount": 50})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d body=%v", resp.StatusCode, body)
	}
	if got := v.Balance("alice"); got != 60 {
		t.Fatalf("balance=%d want=60 after rejected deposit", got)
	}

	// Over the per-withdrawal threshold.
	resp, _ = doJSON(t, "POST", ts.URL+"/api/v1/withdraw", "alice", map[string]any{"amount": 15})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d", resp.StatusCode)
	}

	// Valid withdrawal.
	resp, body = doJSON(t, "POST", ts.URL+"/api/v1/withdraw", "alice", map[string]any{"amount": 10})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%v", resp.StatusCode, body)
	}
	if body["balance"].(float64) != 50 {
		t.Fatalf("balance=%v want=50", body["balance"])
	}

	// Stats reflect one deposit and one withdrawal.
	resp, body = doJSON(t, "GET", ts.URL+"/api/v1/stats", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	if body["deposit_count"].(float64) != 1 || body["withdrawal_count"].(float64) != 1 || body["total_deposited"].(float64) != 50 {
		t.Fatalf("stats=%v", body)
	}

	resp, body = doJSON(t, "GET", ts.URL+"/api/v1/capacity", "", nil)
	if resp.StatusCode != http.StatusOK || body["remaining_capacity"].(float64) != 50 {
		t.Fatalf("capacity status=%d body=%v", resp.StatusCode, body)
	}
}

func TestIdentityHeaderRequired(t *testing.T) {
	ts, _ := newTestServer(t, 100, 10, nil)

	for _, tc := range []struct{ method, path string }{
		{"POST", "/api/v1/deposit"},
		{"POST", "/api/v1/withdraw"},
		{"GET", "/api/v1/balance"},
	} {
		resp, _ := doJSON(t, tc.method, ts.URL+tc.path, "", map[string]any{"amount": 1})
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s %s: status=%d want=401", tc.method, tc.path, resp.StatusCode)
		}
	}
}

func TestUnknownAccountBalanceIsZero(t *testing.T) {
	ts, _ := newTestServer(t, 100, 10, nil)

	resp, body := doJSON(t, "GET", ts.URL+"/api/v1/balance", "bob", nil)
	if resp.StatusCode != http.StatusOK || body["balance"].(float64) != 0 {
		t.Fatalf("status=%d body=%v", resp.StatusCode, body)
	}

	resp, _ = doJSON(t, "POST", ts.URL+"/api/v1/withdraw", "bob", map[string]any{"amount": 1})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d want=422", resp.StatusCode)
	}
}

func TestZeroAmountIsBadRequest(t *testing.T) {
	ts, _ := newTestServer(t, 100, 10, nil)

	resp, _ := doJSON(t, "POST", ts.URL+"/api/v1/deposit", "alice", map[string]any{"amount": 0})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("deposit 0: status=%d want=400", resp.StatusCode)
	}
	resp, _ = doJSON(t, "POST", ts.URL+"/api/v1/withdraw", "alice", map[string]any{"amount": 0})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("withdraw 0: status=%d want=400", resp.StatusCode)
	}
}

func TestTransferFailureIsBadGateway(t *testing.T) {
	ch := vault.ChannelFunc(func(string, uint64) error { return fmt.Errorf("channel down") })
	ts, v := newTestServer(t, 100, 10, ch)

	doJSON(t, "POST", ts.URL+"/api/v1/deposit", "alice", map[string]any{"amount": 60})

	resp, _ := doJSON(t, "POST", ts.URL+"/api/v1/withdraw", "alice", map[string]any{"amount": 10})
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status=%d want=502", resp.StatusCode)
	}
	if got := v.Balance("alice"); got != 60 {
		t.Fatalf("balance=%d want=60 after rollback", got)
	}
}

func TestLimitsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t, 100, 10, nil)

	resp, body := doJSON(t, "GET", ts.URL+"/api/v1/limits", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	if body["bank_cap"].(float64) != 100 || body["withdrawal_threshold"].(float64) != 10 {
		t.Fatalf("limits=%v", body)
	}
}

func TestEventsPersistedAndListed(t *testing.T) {
	ts, _ := newTestServer(t, 100, 10, nil)

	doJSON(t, "POST", ts.URL+"/api/v1/deposit", "alice", map[string]any{"amount": 60})
	doJSON(t, "POST", ts.URL+"/api/v1/withdraw", "alice", map[string]any{"amount": 10})
	doJSON(t, "POST", ts.URL+"/api/v1/deposit", "bob", map[string]any{"amount": 5})
	// Failed operation: no event.
	doJSON(t, "POST", ts.URL+"/api/v1/deposit", "bob", map[string]any{"amount": 0})

	req, _ := http.NewRequest("GET", ts.URL+"/api/v1/events?account=alice", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var events []vault.Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("alice events=%d want=2", len(events))
	}
	for _, e := range events {
		if e.Account != "alice" {
			t.Fatalf("unexpected account %q", e.Account)
		}
	}
}
