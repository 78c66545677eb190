package cmd

import (
	"github.com/spf13/cobra"
)

var (
	flagServer  string
	flagDB      string
	flagAccount string
)

var rootCmd = &cobra.Command{
	Use:   "vaultd",
	Short: "Custodial vault ledger with a bank cap and per-withdrawal threshold",
	Long:  "A custodial value ledger: account holders deposit into balances held by one custodian and withdraw from their own balance only, under a global bank cap and a per-operation withdrawal threshold.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "http://localhost:8899", "Server address")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "vault.db", "SQLite database path")
	rootCmd.PersistentFlags().StringVar(&flagAccount, "account", "", "Account identity for deposits, withdrawals and balance queries")
}

func Execute() error {
	return rootCmd.Execute()
}
