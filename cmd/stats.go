package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vaultbank/vaultd/internal/client"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show vault counters, limits and remaining capacity",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer, flagAccount)
		ctx := context.Background()

		st, err := c.Stats(ctx)
		if err != nil {
			return err
		}
		limits, err := c.Limits(ctx)
		if err != nil {
			return err
		}
		capacity, err := c.RemainingCapacity(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Bank cap:             %d\n", limits.BankCap)
		fmt.Printf("Withdrawal threshold: %d\n", limits.WithdrawalThreshold)
		fmt.Printf("Total deposited:      %d\n", st.TotalDeposited)
		fmt.Printf("Remaining capacity:   %d\n", capacity)
		fmt.Printf("Deposits:             %d\n", st.DepositCount)
		fmt.Printf("Withdrawals:          %d\n", st.WithdrawalCount)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
