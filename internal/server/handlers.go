package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/vaultbank/vaultd/internal/store"
	"github.com/vaultbank/vaultd/internal/vault"
)

type amountRequest struct {
	Amount uint64 `json:"amount"`
}

type balanceResponse struct {
	Account string `json:"account"`
	Balance uint64 `json:"balance"`
}

type limitsResponse struct {
	BankCap             uint64 `json:"bank_cap"`
	WithdrawalThreshold uint64 `json:"withdrawal_threshold"`
}

// account extracts the caller identity header; empty means unauthenticated.
func account(r *http.Request) string {
	return r.Header.Get(AccountHeader)
}

func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	acct := account(r)
	if acct == "" {
		writeError(w, http.StatusUnauthorized, "missing "+AccountHeader+" header")
		return
	}

	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	if err := s.vault.Deposit(acct, req.Amount); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, balanceResponse{Account: acct, Balance: s.vault.Balance(acct)})
}

func (s *Server) withdraw(w http.ResponseWriter, r *http.Request) {
	acct := account(r)
	if acct == "" {
		writeError(w, http.StatusUnauthorized, "missing "+AccountHeader+" header")
		return
	}

	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	if err := s.vault.Withdraw(acct, req.Amount); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, balanceResponse{Account: acct, Balance: s.vault.Balance(acct)})
}

func (s *Server) balance(w http.ResponseWriter, r *http.Request) {
	acct := account(r)
	if acct == "" {
		writeError(w, http.StatusUnauthorized, "missing "+AccountHeader+" header")
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{Account: acct, Balance: s.vault.Balance(acct)})
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.vault.Stats())
}

func (s *Server) capacity(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]uint64{"remaining_capacity": s.vault.RemainingCapacity()})
}

func (s *Server) limits(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, limitsResponse{
		BankCap:             s.vault.BankCap(),
		WithdrawalThreshold: s.vault.WithdrawalThreshold(),
	})
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	filter := store.EventFilter{Limit: 100}
	if acct := r.URL.Query().Get("account"); acct != "" {
		filter.Account = acct
	}
	if kind := r.URL.Query().Get("kind"); kind != "" {
		filter.Kind = kind
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n > 0 {
			filter.Limit = n
		}
	}

	// Without a store the journal lives only in memory.
	if s.store == nil {
		events := s.vault.Events()
		if filter.Account != "" {
			filtered := events[:0]
			for _, e := range events {
				if e.Account == filter.Account {
					filtered = append(filtered, e)
				}
			}
			events = filtered
		}
		writeJSON(w, http.StatusOK, events)
		return
	}

	events, err := s.store.ListEvents(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if events == nil {
		events = []vault.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) listPayouts(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusOK, []store.Payout{})
		return
	}

	filter := store.PayoutFilter{Limit: 100}
	if acct := r.URL.Query().Get("account"); acct != "" {
		filter.Account = acct
	}

	payouts, err := s.store.ListPayouts(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if payouts == nil {
		payouts = []store.Payout{}
	}
	writeJSON(w, http.StatusOK, payouts)
}
