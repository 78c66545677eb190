package vault

import "errors"

var (
	ErrInvalidAmount               = errors.New("amount must be greater than zero")
	ErrBankCapExceeded             = errors.New("deposit would exceed the bank cap")
	ErrWithdrawalThresholdExceeded = errors.New("amount exceeds the per-withdrawal threshold")
	ErrInsufficientBalance         = errors.New("insufficient balance")
	ErrTransferFailed              = errors.New("outbound transfer failed")
	ErrInvalidConstructorParams    = errors.New("bank cap and withdrawal threshold must be greater than zero")
)
