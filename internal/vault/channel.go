package vault

// PaymentChannel moves withdrawn value out to an account holder. It reports
// success or failure synchronously; retry and queueing behavior belong to the
// implementation, not to the vault.
type PaymentChannel interface {
	Transfer(account string, amount uint64) error
}

// ChannelFunc adapts a plain function to a PaymentChannel.
type ChannelFunc func(account string, amount uint64) error

func (f ChannelFunc) Transfer(account string, amount uint64) error {
	return f(account, amount)
}

// NullChannel accepts every transfer. Useful when withdrawals settle out of
// band and the caller only needs the bookkeeping.
var NullChannel = ChannelFunc(func(string, uint64) error { return nil })
