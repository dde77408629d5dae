package tui

import (
	"fmt"
	"strings"
	"time"

	"walletwatch/pkg/config"
	"walletwatch/pkg/wallet"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case wallet.Event:
		cmds = append(cmds, listenForWallet(m.sub))
		m.state = m.wallet.Snapshot()
		m.lastUpdate = time.Now()
		if msg.Type == wallet.EventAddressChanged {
			m.txListIdx = 0
			m.showTxDetail = false
		}
		if m.txListIdx >= len(m.filteredTransactions()) {
			m.txListIdx = 0
		}

	case refreshDoneMsg:
		m.statusMessage = "Refreshed"
		cmds = append(cmds, clearStatusAfter(2*time.Second))

	case tokensDoneMsg:
		m.state = m.wallet.Snapshot()

	case tea.KeyMsg:
		if m.editing {
			return m.updateAddressInput(msg)
		}
		if msg.String() == "?" {
			m.showHelp = !m.showHelp
			return m, nil
		}
		if m.showHelp {
			if msg.String() == "q" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.showTxDetail {
			return m.updateTxDetail(msg)
		}
		if m.showTxList {
			return m.updateTxList(msg)
		}
		if m.showTokens || m.showGraph {
			switch msg.String() {
			case "q", "esc":
				m.showTokens = false
				m.showGraph = false
				return m, nil
			case "r":
				if m.showTokens && m.state.Address != "" {
					m.statusMessage = "Loading tokens..."
					return m, tokensCmd(m.ctx, m.wallet, m.state.Address, m.cfg.ChainID)
				}
			}
			return m, nil
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "a", "/":
			m.editing = true
			m.addressInput.SetValue(m.state.Address)
			m.addressInput.Focus()
			return m, nil
		case "r":
			if m.state.Address == "" {
				break
			}
			m.statusMessage = "Refreshing data..."
			cmds = append(cmds, refreshCmd(m.ctx, m.wallet, m.state.Address))
		case "k":
			m.showTokens = true
			if m.state.Address != "" {
				m.statusMessage = "Loading tokens..."
				cmds = append(cmds, tokensCmd(m.ctx, m.wallet, m.state.Address, m.cfg.ChainID))
			}
		case "T":
			m.showTxList = true
			m.txListIdx = 0
		case "g":
			m.showGraph = true
		case "tab", "right", "l":
			if next := cycleAddress(m.cfg.Addresses, m.state.Address, 1); next != "" {
				m.wallet.SetAddress(next)
			}
		case "shift+tab", "left", "h":
			if prev := cycleAddress(m.cfg.Addresses, m.state.Address, -1); prev != "" {
				m.wallet.SetAddress(prev)
			}
		case "b":
			m.statusMessage = m.bookmark()
			cmds = append(cmds, clearStatusAfter(2*time.Second))
		case "c":
			if m.state.Address != "" {
				m.statusMessage = copyStatus(clipboard.WriteAll(m.state.Address), "Full address")
				cmds = append(cmds, clearStatusAfter(2*time.Second))
			}
		}

	case uiTickMsg:
		cmds = append(cmds, tea.Tick(time.Second, func(t time.Time) tea.Msg { return uiTickMsg(t) }))

	case clearStatusMsg:
		m.statusMessage = ""
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m model) updateAddressInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.addressInput.Blur()
		return m, nil
	case "enter":
		m.editing = false
		m.addressInput.Blur()
		m.wallet.SetAddress(strings.TrimSpace(m.addressInput.Value()))
		return m, nil
	}
	var cmd tea.Cmd
	m.addressInput, cmd = m.addressInput.Update(msg)
	return m, cmd
}

func (m model) updateTxList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.showTxList = false
	case "i":
		m.txFilter = "in"
		m.txListIdx = 0
	case "o":
		m.txFilter = "out"
		m.txListIdx = 0
	case "a":
		m.txFilter = "all"
		m.txListIdx = 0
	case "up", "k":
		if m.txListIdx > 0 {
			m.txListIdx--
		}
	case "down", "j":
		if m.txListIdx < len(m.filteredTransactions())-1 {
			m.txListIdx++
		}
	case "enter":
		if len(m.filteredTransactions()) > 0 {
			m.showTxDetail = true
		}
	}
	return m, nil
}

func (m model) updateTxDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	txs := m.filteredTransactions()
	switch msg.String() {
	case "q", "esc", "backspace":
		m.showTxDetail = false
		return m, nil
	case "o":
		if m.txListIdx < len(txs) {
			if err := openBrowser(txURL(txs[m.txListIdx].Hash)); err != nil {
				m.statusMessage = fmt.Sprintf("Failed to open browser: %v", err)
			} else {
				m.statusMessage = "Opened in browser"
			}
			return m, clearStatusAfter(2 * time.Second)
		}
	case "c":
		if m.txListIdx < len(txs) {
			m.statusMessage = copyStatus(clipboard.WriteAll(txs[m.txListIdx].Hash), "Transaction hash")
			return m, clearStatusAfter(2 * time.Second)
		}
	}
	return m, nil
}

// bookmark saves the selected address to the watch list on disk.
func (m *model) bookmark() string {
	if m.state.Address == "" {
		return "No address selected"
	}
	if !m.cfg.AddAddress(m.state.Address, "") {
		return "Address already in watch list"
	}
	if err := config.SaveConfig(m.cfg, m.configPath); err != nil {
		return fmt.Sprintf("Error saving config: %v", err)
	}
	return "Address added to watch list"
}

func copyStatus(err error, what string) string {
	if err != nil {
		return "Failed to copy to clipboard"
	}
	return what + " copied to clipboard!"
}
