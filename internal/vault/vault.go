// Package vault implements the custodial value ledger: per-account balances
// held by one custodian, a global cap on total custodied value, and a
// per-operation ceiling on withdrawal size. All state lives behind a single
// mutex; every deposit or withdrawal is one indivisible check-effects-interaction
// step, so no two operations can interleave against the shared totals.
package vault

import "sync"

// Vault is the aggregate root: it owns every balance and counter. The two caps
// are fixed at construction and never change.
type Vault struct {
	mu sync.Mutex

	bankCap             uint64
	withdrawalThreshold uint64

	totalDeposited  uint64
	depositCount    uint64
	withdrawalCount uint64
	balances        map[string]uint64

	channel PaymentChannel
	journal []Event
	sink    func(Event)
}

// Stats is a consistent snapshot of the observability counters.
type Stats struct {
	DepositCount    uint64 `json:"deposit_count"`
	WithdrawalCount uint64 `json:"withdrawal_count"`
	TotalDeposited  uint64 `json:"total_deposited"`
}

// New creates a vault with the given caps. Both must be non-zero.
func New(bankCap, withdrawalThreshold uint64, ch PaymentChannel) (*Vault, error) {
	if bankCap == 0 || withdrawalThreshold == 0 {
		return nil, ErrInvalidConstructorParams
	}
	if ch == nil {
		ch = NullChannel
	}
	return &Vault{
		bankCap:             bankCap,
		withdrawalThreshold: withdrawalThreshold,
		balances:            make(map[string]uint64),
		channel:             ch,
	}, nil
}

// SetSink registers an observer called for every appended event, in journal
// order, inside the operation's critical section. Pass nil to remove it.
func (v *Vault) SetSink(fn func(Event)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sink = fn
}

// Deposit credits amount to account. The amount is the value attached to the
// call; its authenticity is the hosting boundary's responsibility.
func (v *Vault) Deposit(account string, amount uint64) error {
	if amount == 0 {
		return ErrInvalidAmount
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	// totalDeposited <= bankCap always holds, so the subtraction cannot
	// wrap; comparing against the headroom avoids overflowing the sum.
	if amount > v.bankCap-v.totalDeposited {
		return ErrBankCapExceeded
	}

	v.balances[account] += amount
	v.totalDeposited += amount
	v.depositCount++
	v.emit(newEvent(EventDepositSuccessful, account, amount))
	return nil
}

// Withdraw debits amount from account's own balance and hands it to the
// payment channel. Balances and counters are updated before the transfer; if
// the channel reports failure the mutation is rolled back in full and no
// event is emitted.
func (v *Vault) Withdraw(account string, amount uint64) error {
	if amount == 0 {
		return ErrInvalidAmount
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	if amount > v.withdrawalThreshold {
		return ErrWithdrawalThresholdExceeded
	}
	if amount > v.balances[account] {
		return ErrInsufficientBalance
	}

	v.balances[account] -= amount
	v.totalDeposited -= amount
	v.withdrawalCount++

	if err := v.channel.Transfer(account, amount); err != nil {
		v.balances[account] += amount
		v.totalDeposited += amount
		v.withdrawalCount--
		return ErrTransferFailed
	}

	v.emit(newEvent(EventWithdrawalSuccessful, account, amount))
	return nil
}

// Balance returns account's current balance; zero for unknown identities.
func (v *Vault) Balance(account string) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.balances[account]
}

// Stats returns the operation counters and total as of the call.
func (v *Vault) Stats() Stats {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Stats{
		DepositCount:    v.depositCount,
		WithdrawalCount: v.withdrawalCount,
		TotalDeposited:  v.totalDeposited,
	}
}

// RemainingCapacity returns how much more value the vault can accept.
func (v *Vault) RemainingCapacity() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.bankCap - v.totalDeposited
}

func (v *Vault) BankCap() uint64 { return v.bankCap }

func (v *Vault) WithdrawalThreshold() uint64 { return v.withdrawalThreshold }

// Events returns a copy of the notification journal.
func (v *Vault) Events() []Event {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]Event, len(v.journal))
	copy(out, v.journal)
	return out
}

// RestoreState rehydrates a freshly constructed vault from persisted balances
// and counters. It fails if the balances cannot fit under the bank cap, so a
// restart with a smaller cap surfaces the mismatch instead of breaking the
// total-vs-cap invariant silently.
func (v *Vault) RestoreState(balances map[string]uint64, deposits, withdrawals uint64) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	var total uint64
	restored := make(map[string]uint64, len(balances))
	for account, bal := range balances {
		if bal == 0 {
			continue
		}
		if bal > v.bankCap-total {
			return ErrBankCapExceeded
		}
		total += bal
		restored[account] = bal
	}

	v.balances = restored
	v.totalDeposited = total
	v.depositCount = deposits
	v.withdrawalCount = withdrawals
	return nil
}

// emit appends to the journal and notifies the sink. Caller holds v.mu.
func (v *Vault) emit(e Event) {
	v.journal = append(v.journal, e)
	if v.sink != nil {
		v.sink(e)
	}
}
