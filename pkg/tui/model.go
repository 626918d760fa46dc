// Package tui is the terminal version of the dashboard: stat cards, the fraud
// trend and risk distribution, the transaction table and the alert list.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chain-guardian/pkg/monitor"
	"github.com/chain-guardian/pkg/wallet"
)

type Tab int

const (
	TabDashboard Tab = iota
	TabTransactions
	TabAlerts
)

var tabNames = [...]string{"dashboard", "transactions", "alerts"}

func (t Tab) String() string { return tabNames[t] }

// Feed is the part of *monitor.Monitor the UI needs.
type Feed interface {
	Current() *monitor.Snapshot
	Refresh(ctx context.Context) (*monitor.Snapshot, error)
	Subscribe() (<-chan *monitor.Snapshot, func())
}

type Wallet interface {
	State() wallet.State
	Connect(ctx context.Context) (wallet.State, error)
}

type (
	// pushed by the monitor subscription
	updateMsg struct{ snap *monitor.Snapshot }
	// result of a manual refresh
	refreshMsg struct {
		snap *monitor.Snapshot
		err  error
	}
	walletMsg struct {
		state wallet.State
		err   error
	}
	feedClosedMsg struct{}
)

const actionTimeout = 30 * time.Second

type Model struct {
	feed    Feed
	wallet  Wallet
	updates <-chan *monitor.Snapshot

	tab        Tab
	snap       *monitor.Snapshot
	account    wallet.State
	connecting bool
	refreshing bool
	status     string
	width      int
}

// NewModel subscribes to feed; call the returned func once the program exits.
func NewModel(feed Feed, w Wallet) (Model, func()) {
	updates, unsubscribe := feed.Subscribe()
	return Model{
		feed:    feed,
		wallet:  w,
		updates: updates,
		snap:    feed.Current(),
		account: w.State(),
	}, unsubscribe
}

func (m Model) Tab() Tab                    { return m.tab }
func (m Model) Snapshot() *monitor.Snapshot { return m.snap }

func (m Model) Init() tea.Cmd {
	return waitForUpdate(m.updates)
}

func waitForUpdate(ch <-chan *monitor.Snapshot) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return feedClosedMsg{}
		}
		return updateMsg{snap: s}
	}
}

func (m Model) refresh() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		s, err := m.feed.Refresh(ctx)
		return refreshMsg{snap: s, err: err}
	}
}

func (m Model) connect() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		st, err := m.wallet.Connect(ctx)
		return walletMsg{state: st, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "1":
			m.tab = TabDashboard
		case "2":
			m.tab = TabTransactions
		case "3":
			m.tab = TabAlerts
		case "tab":
			m.tab = (m.tab + 1) % Tab(len(tabNames))
		case "shift+tab":
			m.tab = (m.tab + Tab(len(tabNames)) - 1) % Tab(len(tabNames))
		case "r":
			if m.refreshing {
				return m, nil
			}
			m.refreshing = true
			m.status = "refreshing..."
			return m, m.refresh()
		case "c":
			if m.connecting || m.account.Connected() {
				return m, nil
			}
			m.connecting = true
			m.status = "connecting wallet..."
			return m, m.connect()
		}
		return m, nil

	case updateMsg:
		m.snap = msg.snap
		return m, waitForUpdate(m.updates)

	case refreshMsg:
		m.refreshing = false
		m.status = ""
		if msg.err != nil {
			m.status = "refresh: " + msg.err.Error()
		}
		if msg.snap != nil {
			m.snap = msg.snap
		}
		return m, nil

	case walletMsg:
		m.connecting = false
		m.status = ""
		m.account = msg.state
		if msg.err != nil {
			m.status = "wallet: " + msg.err.Error()
		}
		return m, nil

	case feedClosedMsg:
		return m, tea.Quit
	}
	return m, nil
}
