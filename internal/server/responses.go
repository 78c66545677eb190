package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vaultbank/vaultd/internal/vault"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func mapError(err error) int {
	switch {
	case errors.Is(err, vault.ErrInvalidAmount),
		errors.Is(err, vault.ErrInvalidConstructorParams):
		return http.StatusBadRequest
	case errors.Is(err, vault.ErrBankCapExceeded),
		errors.Is(err, vault.ErrWithdrawalThresholdExceeded),
		errors.Is(err, vault.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity
	case errors.Is(err, vault.ErrTransferFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
