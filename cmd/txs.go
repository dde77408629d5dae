package cmd

import (
	"fmt"
	"io"
	"strings"

	"walletwatch/pkg/models"
	"walletwatch/pkg/utils"
	"walletwatch/pkg/wallet"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func newTxsCmd() *cobra.Command {
	txsCmd := &cobra.Command{
		Use:     "txs <address>",
		Aliases: []string{"transactions"},
		Short:   "List the transactions of an address",
		Args:    cobra.ExactArgs(1),
		RunE:    runTxs,
	}
	txsCmd.Flags().String("filter", "all", "show all, in or out transactions")
	txsCmd.Flags().IntP("limit", "n", 0, "show at most n transactions (0 for all)")
	txsCmd.Flags().Bool("json", false, "print rows as JSON")
	return txsCmd
}

func runTxs(cmd *cobra.Command, args []string) error {
	filter, _ := cmd.Flags().GetString("filter")
	filter = strings.ToLower(filter)
	if filter != "all" && filter != "in" && filter != "out" {
		return fmt.Errorf("invalid filter %q: use all, in or out", filter)
	}
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")

	a, err := loadApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.close()

	address := strings.TrimSpace(args[0])
	raw, err := a.dataSource().FetchTransactions(cmd.Context(), address)
	if err != nil {
		return err
	}

	rows := selectRows(wallet.MapTransactions(raw, address), filter, limit)

	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, rows)
	}
	printTxRows(out, rows)
	return nil
}

func selectRows(rows []models.TransactionRow, filter string, limit int) []models.TransactionRow {
	selected := make([]models.TransactionRow, 0, len(rows))
	for _, row := range rows {
		switch {
		case filter == "in" && row.Direction != models.Incoming:
			continue
		case filter == "out" && row.Direction != models.Outgoing:
			continue
		}
		selected = append(selected, row)
		if limit > 0 && len(selected) == limit {
			break
		}
	}
	return selected
}

func printTxRows(out io.Writer, rows []models.TransactionRow) {
	if len(rows) == 0 {
		fmt.Fprintln(out, "No transactions found.")
		return
	}
	in := color.New(color.FgGreen)
	outgoing := color.New(color.FgRed)
	for _, row := range rows {
		c := in
		if row.Direction == models.Outgoing {
			c = outgoing
		}
		c.Fprintf(out, "%-9s", row.Direction)
		fmt.Fprintf(out, " %-15s %-24s %-20s %s\n",
			utils.ShortAddress(row.Counterparty), row.Amount, row.Time, row.Hash)
	}
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
