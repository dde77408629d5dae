package tui

import (
	"context"
	"time"

	"walletwatch/pkg/config"
	"walletwatch/pkg/models"
	"walletwatch/pkg/wallet"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Version is set by Start()
var Version = "dev"

// --- Messages ---

type clearStatusMsg struct{}
type uiTickMsg time.Time
type refreshDoneMsg struct{}
type tokensDoneMsg struct{}

// --- Model ---

type model struct {
	ctx           context.Context
	wallet        *wallet.Wallet
	sub           wallet.Subscriber
	cfg           config.Config
	configPath    string
	state         models.State
	width         int
	height        int
	spinner       spinner.Model
	addressInput  textinput.Model
	editing       bool
	statusMessage string
	lastUpdate    time.Time
	showHelp      bool
	showTokens    bool
	showGraph     bool
	showTxList    bool
	showTxDetail  bool
	txListIdx     int
	txFilter      string // "all", "in", "out"
}

func initialModel(ctx context.Context, w *wallet.Wallet, cfg config.Config, configPath string) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ti := textinput.New()
	ti.Placeholder = "0x..."
	ti.Width = 44
	ti.CharLimit = 64

	return model{
		ctx:          ctx,
		wallet:       w,
		cfg:          cfg,
		configPath:   configPath,
		state:        w.Snapshot(),
		spinner:      s,
		addressInput: ti,
		txFilter:     "all",
	}
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		listenForWallet(m.sub),
		m.spinner.Tick,
		tea.Tick(time.Second, func(t time.Time) tea.Msg { return uiTickMsg(t) }),
	}
	// Select the first saved address so the screen is not empty on launch.
	if m.state.Address == "" && len(m.cfg.Addresses) > 0 {
		addr := m.cfg.Addresses[0].Address
		w := m.wallet
		cmds = append(cmds, func() tea.Msg {
			w.SetAddress(addr)
			return nil
		})
	}
	return tea.Batch(cmds...)
}
