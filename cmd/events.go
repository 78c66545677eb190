package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vaultbank/vaultd/internal/client"
)

var (
	eventsAccount string
	eventsLimit   int
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List the notification journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer, flagAccount)

		events, err := c.ListEvents(context.Background(), eventsAccount, eventsLimit)
		if err != nil {
			return err
		}

		if len(events) == 0 {
			fmt.Println("No events.")
			return nil
		}

		fmt.Printf("%-24s %-22s %-16s %12s\n", "TIME", "KIND", "ACCOUNT", "AMOUNT")
		fmt.Printf("%-24s %-22s %-16s %12s\n", "----", "----", "-------", "------")
		for _, e := range events {
			acct := e.Account
			if len(acct) > 14 {
				acct = acct[:12] + ".."
			}
			fmt.Printf("%-24s %-22s %-16s %12d\n",
				e.At.Format("2006-01-02 15:04:05"), e.Kind, acct, e.Amount)
		}
		return nil
	},
}

var payoutsCmd = &cobra.Command{
	Use:   "payouts",
	Short: "List outbound transfers issued by withdrawals",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer, flagAccount)

		payouts, err := c.ListPayouts(context.Background(), eventsAccount)
		if err != nil {
			return err
		}

		if len(payouts) == 0 {
			fmt.Println("No payouts.")
			return nil
		}

		fmt.Printf("%-24s %-16s %12s\n", "TIME", "ACCOUNT", "AMOUNT")
		fmt.Printf("%-24s %-16s %12s\n", "----", "-------", "------")
		for _, p := range payouts {
			fmt.Printf("%-24s %-16s %12d\n",
				p.CreatedAt.Format("2006-01-02 15:04:05"), p.Account, p.Amount)
		}
		return nil
	},
}

func init() {
	eventsCmd.Flags().StringVar(&eventsAccount, "for", "", "Filter by account")
	eventsCmd.Flags().IntVar(&eventsLimit, "limit", 50, "Maximum events to list")
	payoutsCmd.Flags().StringVar(&eventsAccount, "for", "", "Filter by account")

	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(payoutsCmd)
}
