package vault

import (
	"time"

	"github.com/google/uuid"
)

type EventKind string

const (
	EventDepositSuccessful    EventKind = "deposit_successful"
	EventWithdrawalSuccessful EventKind = "withdrawal_successful"
)

// Event is one entry in the vault's append-only notification journal.
type Event struct {
	ID      string    `json:"id"`
	Kind    EventKind `json:"kind"`
	Account string    `json:"account"`
	Amount  uint64    `json:"amount"`
	At      time.Time `json:"at"`
}

func newEvent(kind EventKind, account string, amount uint64) Event {
	return Event{
		ID:      uuid.Must(uuid.NewV7()).String(),
		Kind:    kind,
		Account: account,
		Amount:  amount,
		At:      time.Now().UTC(),
	}
}
