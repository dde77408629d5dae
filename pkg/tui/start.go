package tui

import (
	"context"

	"walletwatch/pkg/config"
	"walletwatch/pkg/wallet"

	tea "github.com/charmbracelet/bubbletea"
)

// Start runs the terminal UI until the user quits or ctx is cancelled.
func Start(ctx context.Context, w *wallet.Wallet, cfg config.Config, configPath, version string) error {
	Version = version

	sub := w.Subscribe()
	defer w.Unsubscribe(sub)

	m := initialModel(ctx, w, cfg, configPath)
	m.sub = sub
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	_, err := p.Run()
	return err
}
