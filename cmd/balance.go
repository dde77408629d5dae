package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <address>",
		Short: "Print the ETH balance of an address",
		Args:  cobra.ExactArgs(1),
		RunE:  runBalance,
	}
}

func runBalance(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.close()

	address := strings.TrimSpace(args[0])
	ctx := cmd.Context()
	w := a.newWallet(ctx)
	w.FetchBalance(ctx, address)
	if msg := w.Error(); msg != "" {
		return errors.New(msg)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Address: %s\n", address)
	color.New(color.FgGreen, color.Bold).Fprintf(out, "Balance: %s ETH\n", w.Balance())
	return nil
}
