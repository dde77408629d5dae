package cmd

import (
	"fmt"
	"strings"

	"walletwatch/pkg/models"
	"walletwatch/pkg/rpc"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and probe the configured RPC endpoints",
		Args:  cobra.NoArgs,
		RunE:  runCheck,
	}
	checkCmd.Flags().Bool("json", false, "output results as JSON")
	return checkCmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	a, err := loadApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.close()

	out := cmd.OutOrStdout()
	say := func(format string, v ...interface{}) {
		if !asJSON {
			fmt.Fprintf(out, format, v...)
		}
	}
	ok := color.New(color.FgGreen).SprintFunc()
	bad := color.New(color.FgRed).SprintFunc()

	report := models.CheckReport{
		ConfigPath:      a.configPath,
		ValidStructure:  true,
		AddressCount:    len(a.cfg.Addresses),
		ChainID:         a.cfg.ChainID,
		EtherscanKeySet: a.cfg.EtherscanAPIKey != "",
		CovalentKeySet:  a.cfg.CovalentAPIKey != "",
	}
	say("Testing configuration at: %s\n", a.configPath)

	if a.cfg.ChainID <= 0 {
		report.StructureErrors = append(report.StructureErrors, fmt.Sprintf("chain_id must be positive, got %d", a.cfg.ChainID))
	}
	for i, addr := range a.cfg.Addresses {
		if !strings.HasPrefix(strings.ToLower(addr.Address), "0x") {
			report.StructureErrors = append(report.StructureErrors, fmt.Sprintf("address at index %d does not start with 0x", i))
		}
	}
	if len(report.StructureErrors) > 0 {
		report.ValidStructure = false
		for _, msg := range report.StructureErrors {
			say("Error: %s\n", bad(msg))
		}
	}

	say("Found %d addresses, chain %d\n", report.AddressCount, report.ChainID)
	if !report.EtherscanKeySet {
		say("Warning: no Etherscan API key; requests may be throttled\n")
	}
	if !report.CovalentKeySet {
		say("Warning: no Covalent API key; token lookups will fail\n")
	}

	var observed int64
	for _, url := range a.cfg.RPCURLs {
		result := models.RPCResult{URL: url}
		say("  RPC: %s ... ", url)
		id, err := rpc.ProbeChainID(cmd.Context(), url)
		switch {
		case err != nil:
			result.Status = "error"
			result.Error = err.Error()
			say("%s: %v\n", bad("Failed"), err)
		case id != a.cfg.ChainID:
			result.Status = "mismatch"
			result.ChainID = id
			result.Error = fmt.Sprintf("expected chain %d", a.cfg.ChainID)
			say("%s (ChainID: %d, expected %d)\n", bad("MISMATCH"), id, a.cfg.ChainID)
		default:
			result.Status = "ok"
			result.ChainID = id
			say("%s (ChainID: %d)\n", ok("OK"), id)
		}
		if result.ChainID != 0 {
			if observed != 0 && observed != result.ChainID {
				report.Inconsistent = true
			}
			observed = result.ChainID
		}
		report.RPCs = append(report.RPCs, result)
	}
	if report.Inconsistent {
		say("\nWARNING: RPC endpoints report conflicting chain IDs\n")
	}

	if asJSON {
		if err := writeJSON(out, report); err != nil {
			return err
		}
	}
	if !report.ValidStructure {
		return fmt.Errorf("configuration at %s is invalid", a.configPath)
	}
	return nil
}
