package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vaultbank/vaultd/internal/client"
	"github.com/vaultbank/vaultd/internal/vault"
)

type overviewLoadedMsg struct {
	stats    *vault.Stats
	limits   *client.Limits
	capacity uint64
	balance  uint64
	err      error
}

type overviewModel struct {
	account  string
	stats    *vault.Stats
	limits   *client.Limits
	capacity uint64
	balance  uint64
	loading  bool
	err      error
	width    int
	height   int
}

func (m *overviewModel) init(c *client.Client, account string) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		ctx := context.Background()
		msg := overviewLoadedMsg{}

		msg.stats, msg.err = c.Stats(ctx)
		if msg.err != nil {
			return msg
		}
		msg.limits, msg.err = c.Limits(ctx)
		if msg.err != nil {
			return msg
		}
		msg.capacity, msg.err = c.RemainingCapacity(ctx)
		if msg.err != nil {
			return msg
		}
		if account != "" {
			var bal *client.BalanceResponse
			bal, msg.err = c.Balance(ctx)
			if msg.err != nil {
				return msg
			}
			msg.balance = bal.Balance
		}
		return msg
	}
}

func (m overviewModel) update(msg tea.Msg) (overviewModel, tea.Cmd) {
	if loaded, ok := msg.(overviewLoadedMsg); ok {
		m.loading = false
		m.err = loaded.err
		if loaded.err == nil {
			m.stats = loaded.stats
			m.limits = loaded.limits
			m.capacity = loaded.capacity
			m.balance = loaded.balance
		}
	}
	return m, nil
}

func (m *overviewModel) view() string {
	if m.loading {
		return "Loading vault state..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if m.stats == nil || m.limits == nil {
		return dimStyle.Render("No data yet. Press 'r' to refresh.")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Vault Overview"))
	b.WriteString("\n")

	line := func(label string, value uint64) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(fmt.Sprintf("%d\n", value))
	}

	line("Bank cap", m.limits.BankCap)
	line("Withdrawal threshold", m.limits.WithdrawalThreshold)
	line("Total deposited", m.stats.TotalDeposited)
	line("Remaining capacity", m.capacity)
	line("Deposits", m.stats.DepositCount)
	line("Withdrawals", m.stats.WithdrawalCount)

	if m.account != "" {
		b.WriteString("\n")
		b.WriteString(boxStyle.Render(fmt.Sprintf("Balance of %s: %d", m.account, m.balance)))
	} else {
		b.WriteString("\n" + dimStyle.Render("No --account set; own balance hidden."))
	}

	return b.String()
}
