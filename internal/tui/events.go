package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/vaultbank/vaultd/internal/client"
	"github.com/vaultbank/vaultd/internal/vault"
)

type eventsLoadedMsg struct {
	events []vault.Event
	err    error
}

type eventListModel struct {
	events  []vault.Event
	cursor  int
	loading bool
	err     error
	width   int
	height  int
}

func (m *eventListModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		events, err := c.ListEvents(context.Background(), "", 100)
		return eventsLoadedMsg{events: events, err: err}
	}
}

func (m eventListModel) update(msg tea.Msg) (eventListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case eventsLoadedMsg:
		m.loading = false
		m.events = msg.events
		m.err = msg.err
		if m.cursor >= len(m.events) {
			m.cursor = 0
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.events)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m *eventListModel) view() string {
	if m.loading {
		return "Loading events..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if len(m.events) == 0 {
		return dimStyle.Render("No events yet.")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Events"))
	b.WriteString("\n")

	header := fmt.Sprintf("  %-20s %-22s %-16s %12s", "TIME", "KIND", "ACCOUNT", "AMOUNT")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	maxRows := m.height - 4
	if maxRows < 1 {
		maxRows = 10
	}

	start := 0
	if m.cursor >= maxRows {
		start = m.cursor - maxRows + 1
	}

	for i := start; i < len(m.events) && i < start+maxRows; i++ {
		e := m.events[i]
		acct := e.Account
		if len(acct) > 14 {
			acct = acct[:12] + ".."
		}
		line := fmt.Sprintf("  %-20s %-22s %-16s %12d",
			e.At.Format("2006-01-02 15:04:05"), e.Kind, acct, e.Amount)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line[2:]))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("\n  %d events", len(m.events)))
	return b.String()
}
