package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version should be set during build
var Version = "dev"

// NewRootCmd builds the command tree. Without a subcommand the terminal UI starts.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "walletwatch",
		Short: "Watch an Ethereum address from the terminal",
		Long: `walletwatch shows the ETH balance, transaction history and ERC-20
holdings of an Ethereum address.

Data comes from the Etherscan account API and the Covalent balances API.
API keys are read from ETHERSCAN_API_KEY and COVALENT_API_KEY.

Examples:
  walletwatch                          # Start the terminal UI
  walletwatch balance 0xAb58...        # Print the ETH balance
  walletwatch txs 0xAb58... --filter in
  walletwatch tokens 0xAb58... --chain-id 137
  walletwatch serve --port 8080        # Run the HTTP/WebSocket API`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}

	rootCmd.PersistentFlags().String("config", "", "path to configuration file (default ~/.walletwatch.json)")
	rootCmd.PersistentFlags().String("log-level", "", "override the configured log level")

	rootCmd.AddCommand(newTUICmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newBalanceCmd())
	rootCmd.AddCommand(newTxsCmd())
	rootCmd.AddCommand(newTokensCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the root command until it returns or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "walletwatch version %s\n", Version)
		},
	}
}
