package tui

import (
	"context"
	"strconv"
	"strings"

	"walletwatch/pkg/config"
	"walletwatch/pkg/models"
	"walletwatch/pkg/wallet"

	tea "github.com/charmbracelet/bubbletea"
)

func listenForWallet(sub wallet.Subscriber) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-sub
		if !ok {
			return nil
		}
		return ev
	}
}

func refreshCmd(ctx context.Context, w *wallet.Wallet, address string) tea.Cmd {
	return func() tea.Msg {
		w.FetchAll(ctx, address)
		return refreshDoneMsg{}
	}
}

func tokensCmd(ctx context.Context, w *wallet.Wallet, address string, chainID int64) tea.Cmd {
	return func() tea.Msg {
		w.FetchTokens(ctx, address, chainID)
		return tokensDoneMsg{}
	}
}

func filterTransactions(rows []models.TransactionRow, filter string) []models.TransactionRow {
	if filter == "all" || filter == "" {
		return rows
	}
	var filtered []models.TransactionRow
	for _, row := range rows {
		if filter == "in" && row.Direction == models.Incoming {
			filtered = append(filtered, row)
		} else if filter == "out" && row.Direction == models.Outgoing {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

func (m model) filteredTransactions() []models.TransactionRow {
	return filterTransactions(m.state.Transactions, m.txFilter)
}

// watchIndex returns the position of the selected address in the watch
// list, or -1.
func watchIndex(addresses []config.AddressConfig, current string) int {
	for i, a := range addresses {
		if strings.EqualFold(a.Address, current) {
			return i
		}
	}
	return -1
}

// cycleAddress steps through the watch list by delta, wrapping around.
func cycleAddress(addresses []config.AddressConfig, current string, delta int) string {
	if len(addresses) == 0 {
		return ""
	}
	idx := watchIndex(addresses, current)
	if idx < 0 {
		if delta < 0 {
			return addresses[len(addresses)-1].Address
		}
		return addresses[0].Address
	}
	idx = (idx + delta + len(addresses)) % len(addresses)
	return addresses[idx].Address
}

func watchName(addresses []config.AddressConfig, current string) string {
	if idx := watchIndex(addresses, current); idx >= 0 {
		return addresses[idx].Name
	}
	return ""
}

// txAmounts returns signed ETH amounts, negative for outgoing rows, in
// display order. Rows whose amount cannot be read are skipped.
func txAmounts(rows []models.TransactionRow) []float64 {
	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		v, err := strconv.ParseFloat(strings.TrimSuffix(row.Amount, " ETH"), 64)
		if err != nil {
			continue
		}
		if row.Direction == models.Outgoing {
			v = -v
		}
		values = append(values, v)
	}
	return values
}
