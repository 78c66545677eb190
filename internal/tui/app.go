package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vaultbank/vaultd/internal/client"
)

type mode int

const (
	modeOverview mode = iota
	modeEvents
	modeTransact
)

var tabModes = []mode{modeOverview, modeEvents, modeTransact}

func tabLabel(m mode) string {
	switch m {
	case modeOverview:
		return "Overview"
	case modeEvents:
		return "Events"
	case modeTransact:
		return "Transact"
	default:
		return ""
	}
}

type App struct {
	client        *client.Client
	account       string
	mode          mode
	tabIndex      int
	width, height int

	overview overviewModel
	events   eventListModel
	transact transactModel
}

func NewApp(c *client.Client, account string) *App {
	return &App{
		client:   c,
		account:  account,
		transact: newTransactModel(account),
		overview: overviewModel{account: account},
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.overview.init(a.client, a.account),
		a.events.init(a.client),
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.overview.width = msg.Width
		a.overview.height = msg.Height - 6
		a.events.width = msg.Width
		a.events.height = msg.Height - 6
		a.transact.width = msg.Width
		return a, nil

	case overviewLoadedMsg:
		var cmd tea.Cmd
		a.overview, cmd = a.overview.update(msg)
		return a, cmd

	case eventsLoadedMsg:
		var cmd tea.Cmd
		a.events, cmd = a.events.update(msg)
		return a, cmd

	case txnDoneMsg:
		var cmd tea.Cmd
		a.transact, cmd = a.transact.update(msg, a.client)
		// A successful operation changes stats and the journal.
		if msg.err == nil {
			return a, tea.Batch(cmd,
				a.overview.init(a.client, a.account),
				a.events.init(a.client),
			)
		}
		return a, cmd

	case tea.KeyMsg:
		// The transact tab owns most keys while its input is focused.
		if a.mode == modeTransact && !key.Matches(msg, keys.Quit) && !key.Matches(msg, keys.Tab) {
			var cmd tea.Cmd
			a.transact, cmd = a.transact.update(msg, a.client)
			return a, cmd
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Tab):
			a.tabIndex = (a.tabIndex + 1) % len(tabModes)
			a.mode = tabModes[a.tabIndex]
			return a, nil
		case key.Matches(msg, keys.Refresh):
			return a, tea.Batch(
				a.overview.init(a.client, a.account),
				a.events.init(a.client),
			)
		}
	}

	switch a.mode {
	case modeOverview:
		var cmd tea.Cmd
		a.overview, cmd = a.overview.update(msg)
		return a, cmd
	case modeEvents:
		var cmd tea.Cmd
		a.events, cmd = a.events.update(msg)
		return a, cmd
	case modeTransact:
		var cmd tea.Cmd
		a.transact, cmd = a.transact.update(msg, a.client)
		return a, cmd
	}
	return a, nil
}

func (a *App) View() string {
	var tabs []string
	for i, m := range tabModes {
		if i == a.tabIndex {
			tabs = append(tabs, activeTabStyle.Render(tabLabel(m)))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(tabLabel(m)))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	var body string
	switch a.mode {
	case modeOverview:
		body = a.overview.view()
	case modeEvents:
		body = a.events.view()
	case modeTransact:
		body = a.transact.view()
	}

	status := statusBarStyle.Render("tab: switch  r: refresh  q: quit")

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(status)
	return b.String()
}
