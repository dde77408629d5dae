package cmd

import (
	"fmt"
	"strings"

	"walletwatch/pkg/config"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit the configuration file",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with API keys masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, true)
			if err != nil {
				return err
			}
			defer a.close()

			cfg := a.cfg
			cfg.EtherscanAPIKey = maskKey(cfg.EtherscanAPIKey)
			cfg.CovalentAPIKey = maskKey(cfg.CovalentAPIKey)
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", a.configPath)
			return writeJSON(cmd.OutOrStdout(), cfg)
		},
	}

	addCmd := &cobra.Command{
		Use:   "add <address> [name]",
		Short: "Add an address to the watch list",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, true)
			if err != nil {
				return err
			}
			defer a.close()

			name := ""
			if len(args) > 1 {
				name = args[1]
			}
			if !a.cfg.AddAddress(args[0], name) {
				color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "%s is already in the watch list\n", strings.TrimSpace(args[0]))
				return nil
			}
			if err := config.SaveConfig(a.cfg, a.configPath); err != nil {
				return fmt.Errorf("error saving config: %w", err)
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Added %s to %s\n", strings.TrimSpace(args[0]), a.configPath)
			return nil
		},
	}

	restoreCmd := &cobra.Command{
		Use:   "restore",
		Short: "Restore the most recent configuration backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flagPath, _ := cmd.Flags().GetString("config")
			path, err := config.GetConfigPath(flagPath)
			if err != nil {
				return err
			}
			if err := config.RestoreLastBackup(path); err != nil {
				return fmt.Errorf("restore failed: %w", err)
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Configuration restored from backup\n")
			return nil
		},
	}

	configCmd.AddCommand(showCmd, addCmd, restoreCmd)
	return configCmd
}

func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
