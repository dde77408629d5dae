package cmd

import (
	"walletwatch/pkg/server"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket API without the terminal UI",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().IntP("port", "p", 0, "port for the API server (default from config)")
	serveCmd.Flags().String("address", "", "address to select on startup")
	return serveCmd
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.close()

	port, _ := cmd.Flags().GetInt("port")
	if port == 0 {
		port = a.cfg.ServerPort
	}

	ctx := cmd.Context()
	w := a.newWallet(ctx)
	srv := server.NewServer(w, a.cfg.ChainID, a.logger)

	address, _ := cmd.Flags().GetString("address")
	if address == "" && len(a.cfg.Addresses) > 0 {
		address = a.cfg.Addresses[0].Address
	}
	if address != "" {
		a.logger.Info("Selecting address", zap.String("address", address))
		w.SetAddress(address)
	}

	return srv.Start(ctx, port)
}
