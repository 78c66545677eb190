package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/vaultbank/vaultd/internal/client"
)

func requireAccount() error {
	if flagAccount == "" {
		return fmt.Errorf("--account is required")
	}
	return nil
}

func parseAmount(arg string) (uint64, error) {
	amount, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", arg, err)
	}
	return amount, nil
}

var depositCmd = &cobra.Command{
	Use:   "deposit [amount]",
	Short: "Deposit value into your balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAccount(); err != nil {
			return err
		}
		amount, err := parseAmount(args[0])
		if err != nil {
			return err
		}

		c := client.New(flagServer, flagAccount)
		bal, err := c.Deposit(context.Background(), amount)
		if err != nil {
			return err
		}

		fmt.Printf("Deposited %d. Balance of %s is now %d.\n", amount, bal.Account, bal.Balance)
		return nil
	},
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw [amount]",
	Short: "Withdraw value from your balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAccount(); err != nil {
			return err
		}
		amount, err := parseAmount(args[0])
		if err != nil {
			return err
		}

		c := client.New(flagServer, flagAccount)
		bal, err := c.Withdraw(context.Background(), amount)
		if err != nil {
			return err
		}

		fmt.Printf("Withdrew %d. Balance of %s is now %d.\n", amount, bal.Account, bal.Balance)
		return nil
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show your balance",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAccount(); err != nil {
			return err
		}

		c := client.New(flagServer, flagAccount)
		bal, err := c.Balance(context.Background())
		if err != nil {
			return err
		}

		fmt.Printf("Account: %s\n", bal.Account)
		fmt.Printf("Balance: %d\n", bal.Balance)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(depositCmd)
	rootCmd.AddCommand(withdrawCmd)
	rootCmd.AddCommand(balanceCmd)
}
