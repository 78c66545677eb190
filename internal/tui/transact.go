package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/vaultbank/vaultd/internal/client"
)

type txnDoneMsg struct {
	kind    string
	amount  uint64
	balance uint64
	err     error
}

type transactModel struct {
	account  string
	input    textinput.Model
	withdraw bool
	busy     bool
	result   string
	err      error
	width    int
}

func newTransactModel(account string) transactModel {
	ti := textinput.New()
	ti.Placeholder = "amount"
	ti.CharLimit = 20
	ti.Width = 24
	ti.Focus()
	return transactModel{account: account, input: ti}
}

func (m transactModel) update(msg tea.Msg, c *client.Client) (transactModel, tea.Cmd) {
	switch msg := msg.(type) {
	case txnDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			m.result = ""
		} else {
			m.err = nil
			m.result = fmt.Sprintf("%s of %d succeeded; balance is now %d", msg.kind, msg.amount, msg.balance)
			m.input.SetValue("")
		}
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "left", "right", "d", "w":
			if msg.String() == "d" {
				m.withdraw = false
			} else if msg.String() == "w" {
				m.withdraw = true
			} else {
				m.withdraw = !m.withdraw
			}
			return m, nil
		case "enter":
			return m.submit(c)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m transactModel) submit(c *client.Client) (transactModel, tea.Cmd) {
	if m.account == "" {
		m.err = fmt.Errorf("no account identity; restart with --account")
		return m, nil
	}
	amount, err := strconv.ParseUint(strings.TrimSpace(m.input.Value()), 10, 64)
	if err != nil {
		m.err = fmt.Errorf("invalid amount %q", m.input.Value())
		return m, nil
	}

	m.busy = true
	m.err = nil
	withdraw := m.withdraw
	return m, func() tea.Msg {
		ctx := context.Background()
		if withdraw {
			bal, err := c.Withdraw(ctx, amount)
			if err != nil {
				return txnDoneMsg{err: err}
			}
			return txnDoneMsg{kind: "Withdrawal", amount: amount, balance: bal.Balance}
		}
		bal, err := c.Deposit(ctx, amount)
		if err != nil {
			return txnDoneMsg{err: err}
		}
		return txnDoneMsg{kind: "Deposit", amount: amount, balance: bal.Balance}
	}
}

func (m *transactModel) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Transact"))
	b.WriteString("\n")

	deposit := inactiveTabStyle.Render("Deposit")
	withdraw := inactiveTabStyle.Render("Withdraw")
	if m.withdraw {
		withdraw = activeTabStyle.Render("Withdraw")
	} else {
		deposit = activeTabStyle.Render("Deposit")
	}
	b.WriteString(deposit + " " + withdraw + "\n\n")

	b.WriteString("  " + m.input.View() + "\n\n")

	switch {
	case m.busy:
		b.WriteString(dimStyle.Render("  Submitting..."))
	case m.err != nil:
		b.WriteString(errorStyle.Render("  " + m.err.Error()))
	case m.result != "":
		b.WriteString(successStyle.Render("  " + m.result))
	default:
		b.WriteString(dimStyle.Render("  d/w to pick operation, enter to submit"))
	}

	return b.String()
}
