package tui

import (
	"fmt"
	"strings"
	"time"

	"walletwatch/pkg/models"
	"walletwatch/pkg/utils"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

func (m model) View() string {
	if m.showHelp {
		return m.viewHelp()
	}
	if m.editing {
		return m.place(boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Select Address"),
			"\n",
			m.addressInput.View(),
			"\n",
			subtleStyle.Render("Enter to load • Esc to cancel"),
		)))
	}
	if m.showTxDetail {
		return m.viewTxDetail()
	}
	if m.showTxList {
		return m.viewTxList()
	}
	if m.showTokens {
		return m.viewTokens()
	}
	if m.showGraph {
		return m.viewGraph()
	}
	return m.viewMain()
}

func (m model) place(content string, extra ...string) string {
	parts := append([]string{content}, extra...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, parts...))
}

func (m model) viewMain() string {
	header := titleStyle.Render(fmt.Sprintf("walletwatch %s", Version))

	if m.state.Address == "" {
		body := "No address selected.\n\nPress 'a' to enter one"
		if len(m.cfg.Addresses) > 0 {
			body += " or Tab to cycle the watch list"
		}
		return m.place(boxStyle.Render(lipgloss.JoinVertical(lipgloss.Center, header, "\n", body)),
			subtleStyle.Render("?: help • q: quit"))
	}

	addrLine := m.state.Address
	if name := watchName(m.cfg.Addresses, m.state.Address); name != "" {
		addrLine = fmt.Sprintf("%s (%s)", name, m.state.Address)
	}

	balance := balanceStyle.Render(fmt.Sprintf("%s ETH", m.state.Balance))
	if m.state.Loading {
		balance = fmt.Sprintf("%s %s", m.spinner.View(), balance)
	}

	lines := []string{
		addrLine,
		"",
		fmt.Sprintf("Balance: %s", balance),
	}
	if m.state.Error != "" {
		lines = append(lines, errStyle.Render(fmt.Sprintf("Error: %s", m.state.Error)))
	}
	lines = append(lines, "", m.renderTxTable(m.state.Transactions, 8))

	updated := "never"
	if !m.lastUpdate.IsZero() {
		updated = m.lastUpdate.Format(time.Kitchen)
	}
	status := subtleStyle.Render(fmt.Sprintf("Updated: %s", updated))
	if m.statusMessage != "" {
		status = statusStyle.Render(m.statusMessage)
	}

	content := boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, "\n", strings.Join(lines, "\n")))
	footer := subtleStyle.Render("a: address • r: refresh • T: txs • k: tokens • g: graph • b: bookmark • ?: help • q: quit")
	return m.place(content, status, footer)
}

func (m model) renderTxTable(rows []models.TransactionRow, limit int) string {
	if len(rows) == 0 {
		return subtleStyle.Render("No transactions found.")
	}
	out := []string{tableHeaderStyle.Render(fmt.Sprintf("%-9s %-15s %-22s %s", "Type", "Object", "Amount", "Time"))}
	for i, row := range rows {
		if limit > 0 && i >= limit {
			out = append(out, subtleStyle.Render(fmt.Sprintf("... %d more (T to view all)", len(rows)-limit)))
			break
		}
		out = append(out, m.renderTxRow(row))
	}
	return strings.Join(out, "\n")
}

func (m model) renderTxRow(row models.TransactionRow) string {
	dir := fmt.Sprintf("%-9s", row.Direction)
	if row.Direction == models.Incoming {
		dir = incomingStyle.Render(dir)
	} else {
		dir = outgoingStyle.Render(dir)
	}
	return fmt.Sprintf("%s %-15s %-22s %s",
		dir,
		utils.ShortAddress(row.Counterparty),
		utils.TruncateString(row.Amount, 22),
		row.Time)
}

func (m model) viewTxList() string {
	filterDisplay := "All"
	switch m.txFilter {
	case "in":
		filterDisplay = "Incoming"
	case "out":
		filterDisplay = "Outgoing"
	}
	header := titleStyle.Render(fmt.Sprintf("Transactions: %s (%s)", utils.ShortAddress(m.state.Address), filterDisplay))

	txs := m.filteredTransactions()
	if len(txs) == 0 {
		content := boxStyle.Render(lipgloss.JoinVertical(lipgloss.Center, header, "\n", "No transactions found."))
		return m.place(content, subtleStyle.Render("i: in • o: out • a: all • q/esc: back"))
	}

	rows := ""
	for i, tx := range txs {
		cursor := "  "
		if i == m.txListIdx {
			cursor = "> "
		}
		rows += fmt.Sprintf("%s%-12s %s\n", cursor, utils.TruncateString(tx.Hash, 10), m.renderTxRow(tx))
	}

	content := boxStyle.Render(lipgloss.JoinVertical(lipgloss.Center, header, "\n", rows))
	footer := subtleStyle.Render("i: in • o: out • a: all • enter: details • q/esc: back")
	return m.place(content, footer)
}

func (m model) viewTxDetail() string {
	txs := m.filteredTransactions()
	if len(txs) == 0 || m.txListIdx >= len(txs) {
		return "No transaction selected."
	}
	tx := txs[m.txListIdx]

	header := titleStyle.Render("Transaction Details")

	lines := []string{
		fmt.Sprintf("Hash:      %s", tx.Hash),
		fmt.Sprintf("Type:      %s", tx.Direction),
		fmt.Sprintf("Block:     %s", tx.Raw.BlockNumber),
		fmt.Sprintf("Time:      %s", tx.Time),
		fmt.Sprintf("From:      %s", tx.Raw.From),
		fmt.Sprintf("To:        %s", tx.Raw.To),
		fmt.Sprintf("Value:     %s", tx.Amount),
		fmt.Sprintf("Gas Limit: %s", tx.Raw.Gas),
		fmt.Sprintf("Gas Price: %s", tx.Raw.GasPrice),
		fmt.Sprintf("Nonce:     %s", tx.Raw.Nonce),
	}
	if tx.Raw.IsError == "1" {
		lines = append(lines, errStyle.Render("Status:    failed"))
	}
	if m.statusMessage != "" {
		lines = append(lines, "", statusStyle.Render(m.statusMessage))
	}

	content := boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, "\n", strings.Join(lines, "\n")))
	footer := subtleStyle.Render("o: open in browser • c: copy hash • q/esc: back")
	return m.place(content, footer)
}

func (m model) viewTokens() string {
	header := titleStyle.Render(fmt.Sprintf("Tokens: %s (chain %d)", utils.ShortAddress(m.state.Address), m.cfg.ChainID))

	var body string
	switch {
	case m.state.Loading && len(m.state.Tokens) == 0:
		body = fmt.Sprintf("%s Loading tokens...", m.spinner.View())
	case len(m.state.Tokens) == 0:
		body = "No tokens found."
	default:
		rows := []string{tableHeaderStyle.Render(fmt.Sprintf("%-10s %-24s %s", "Symbol", "Name", "Balance"))}
		for _, t := range m.state.Tokens {
			rows = append(rows, fmt.Sprintf("%-10s %-24s %s",
				utils.TruncateString(t.Symbol, 10),
				utils.TruncateString(t.Name, 24),
				utils.AddCommas(t.Formatted)))
		}
		body = strings.Join(rows, "\n")
	}

	content := boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, "\n", body))
	return m.place(content, subtleStyle.Render("r: reload • q/esc: back"))
}

func (m model) viewGraph() string {
	header := titleStyle.Render("Transaction Amounts (ETH)")
	values := txAmounts(m.state.Transactions)

	var body string
	if len(values) < 2 {
		body = "Not enough transactions to plot."
	} else {
		width := m.width - 20
		if width < 20 {
			width = 20
		}
		body = asciigraph.Plot(values,
			asciigraph.Height(12),
			asciigraph.Width(width),
			asciigraph.Precision(4),
			asciigraph.Caption("incoming > 0 > outgoing"),
		)
	}

	content := boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, "\n", body))
	return m.place(content, subtleStyle.Render("q/esc: back"))
}

func (m model) viewHelp() string {
	var title string
	var shortcuts []string

	switch {
	case m.showTxDetail:
		title = "Transaction Details"
		shortcuts = []string{"o: Open in Browser", "c: Copy Hash", "q/esc: Back"}
	case m.showTxList:
		title = "Transactions"
		shortcuts = []string{"↑/k: Up", "↓/j: Down", "i/o/a: Filter", "enter: Details", "q/esc: Back"}
	case m.showTokens:
		title = "Tokens"
		shortcuts = []string{"r: Reload", "q/esc: Back"}
	default:
		title = "Main View"
		shortcuts = []string{
			"a or /: Enter Address",
			"r: Refresh Data",
			"T: Transaction List",
			"k: Token Balances",
			"g: Amount Graph",
			"b: Bookmark Address",
			"c: Copy Address",
			"Tab/l/Right: Next Saved Address",
			"S-Tab/h/Left: Prev Saved Address",
			"q: Quit",
			"?: Toggle Help",
		}
	}

	header := titleStyle.Render(fmt.Sprintf("Help: %s", title))
	content := boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, "\n", strings.Join(shortcuts, "\n")))
	return m.place(content, subtleStyle.Render("Press '?' or 'esc' to close"))
}
