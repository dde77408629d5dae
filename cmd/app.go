package cmd

import (
	"context"
	"fmt"

	"walletwatch/pkg/config"
	"walletwatch/pkg/explorer"
	"walletwatch/pkg/logging"
	"walletwatch/pkg/rpc"
	"walletwatch/pkg/wallet"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app is the state shared by every subcommand.
type app struct {
	cfg        config.Config
	configPath string
	logger     *zap.Logger
}

// loadApp reads the configuration named by --config. Terminal commands keep
// logs off the screen.
func loadApp(cmd *cobra.Command, terminal bool) (*app, error) {
	flagPath, _ := cmd.Flags().GetString("config")
	path, err := config.GetConfigPath(flagPath)
	if err != nil {
		return nil, fmt.Errorf("error determining config path: %w", err)
	}
	cfg, err := config.LoadConfigFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("error loading config from %s: %w", path, err)
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}

	var logger *zap.Logger
	if terminal {
		logger, err = logging.ForTerminal(cfg.LogLevel, cfg.LogFile)
	} else {
		logger, err = logging.New(cfg.LogLevel, cfg.LogFile)
	}
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, configPath: path, logger: logger}, nil
}

// dataSource builds the explorer client, with balances read from JSON-RPC
// nodes when rpc_urls is configured.
func (a *app) dataSource() wallet.DataSource {
	client := explorer.NewClient(explorer.Options{
		EtherscanURL: a.cfg.EtherscanURL,
		CovalentURL:  a.cfg.CovalentURL,
		EtherscanKey: a.cfg.EtherscanAPIKey,
		CovalentKey:  a.cfg.CovalentAPIKey,
		Timeout:      a.cfg.RequestTimeout(),
		RateLimit:    a.cfg.RateLimitPerSecond,
	}, a.logger)
	if len(a.cfg.RPCURLs) > 0 {
		return rpc.NewBalanceSource(a.cfg.RPCURLs, client, a.logger)
	}
	return client
}

func (a *app) newWallet(ctx context.Context) *wallet.Wallet {
	return wallet.New(a.dataSource(), wallet.WithLogger(a.logger), wallet.WithContext(ctx))
}

func (a *app) close() {
	_ = a.logger.Sync()
}
