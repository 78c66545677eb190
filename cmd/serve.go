package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vaultbank/vaultd/internal/server"
	"github.com/vaultbank/vaultd/internal/store"
	"github.com/vaultbank/vaultd/internal/vault"
)

var (
	serveAddr      string
	serveBankCap   uint64
	serveThreshold uint64
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(flagDB)
		if err != nil {
			return err
		}
		defer st.Close()

		v, err := buildVault(st, serveBankCap, serveThreshold)
		if err != nil {
			return err
		}

		srv := server.New(v, st, serveAddr)
		return srv.ListenAndServe()
	},
}

// buildVault constructs the vault with a store-backed payout channel and
// rehydrates it from the persisted snapshot.
func buildVault(st *store.Store, bankCap, threshold uint64) (*vault.Vault, error) {
	channel := vault.ChannelFunc(func(account string, amount uint64) error {
		return st.RecordPayout(context.Background(), account, amount)
	})

	v, err := vault.New(bankCap, threshold, channel)
	if err != nil {
		return nil, err
	}

	state, err := st.LoadState(context.Background())
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	if err := v.RestoreState(state.Balances, state.DepositCount, state.WithdrawalCount); err != nil {
		return nil, fmt.Errorf("restore state: %w", err)
	}
	return v, nil
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8899", "Listen address")
	serveCmd.Flags().Uint64Var(&serveBankCap, "bank-cap", 1_000_000, "Maximum total value the vault may hold")
	serveCmd.Flags().Uint64Var(&serveThreshold, "withdrawal-threshold", 10_000, "Maximum value a single withdrawal may move")
	rootCmd.AddCommand(serveCmd)
}
