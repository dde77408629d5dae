package cmd

import (
	"fmt"
	"strings"

	"walletwatch/pkg/utils"
	"walletwatch/pkg/wallet"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newTokensCmd() *cobra.Command {
	tokensCmd := &cobra.Command{
		Use:   "tokens <address>",
		Short: "List the ERC-20 holdings of an address",
		Args:  cobra.ExactArgs(1),
		RunE:  runTokens,
	}
	tokensCmd.Flags().Int64("chain-id", 0, "chain to query (default from config)")
	tokensCmd.Flags().Bool("json", false, "print holdings as JSON")
	return tokensCmd
}

func runTokens(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.close()

	chainID, _ := cmd.Flags().GetInt64("chain-id")
	if chainID <= 0 {
		chainID = a.cfg.ChainID
	}
	asJSON, _ := cmd.Flags().GetBool("json")

	address := strings.TrimSpace(args[0])
	items, err := a.dataSource().FetchTokenBalances(cmd.Context(), chainID, address)
	if err != nil {
		return err
	}
	holdings := wallet.MapTokens(items)

	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, holdings)
	}
	if len(holdings) == 0 {
		fmt.Fprintln(out, "No tokens found.")
		return nil
	}
	header := color.New(color.Bold)
	header.Fprintf(out, "%-10s %-28s %s\n", "SYMBOL", "NAME", "BALANCE")
	for _, h := range holdings {
		fmt.Fprintf(out, "%-10s %-28s %s\n",
			utils.TruncateString(h.Symbol, 10),
			utils.TruncateString(h.Name, 28),
			utils.AddCommas(h.Formatted))
	}
	return nil
}
