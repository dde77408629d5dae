package cmd

import (
	"walletwatch/pkg/tui"

	"github.com/spf13/cobra"
)

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the terminal UI (default)",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	return tui.Start(ctx, a.newWallet(ctx), a.cfg, a.configPath, Version)
}
