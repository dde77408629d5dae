package wallet

import (
	"context"
	"sync"

	"walletwatch/pkg/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultChainID is Ethereum mainnet.
const DefaultChainID int64 = 1

// DataSource defines the interface for fetching raw account data.
type DataSource interface {
	// FetchBalance returns the wei balance as an integer string, or "" when
	// the upstream response carried no result.
	FetchBalance(ctx context.Context, address string) (string, error)
	FetchTransactions(ctx context.Context, address string) ([]models.RawTransaction, error)
	FetchTokenBalances(ctx context.Context, chainID int64, address string) ([]models.RawTokenItem, error)
}

// Wallet holds the observable state for one selected address and the
// operations that refresh it.
type Wallet struct {
	address      string
	balance      string
	transactions []models.TransactionRow
	tokens       []models.TokenHolding
	loading      bool
	err          string

	subscribers []Subscriber
	mu          sync.RWMutex
	dataSource  DataSource
	logger      *zap.Logger
	// ctx is handed to fetches started by SetAddress.
	ctx context.Context
}

// Option configures a Wallet.
type Option func(*Wallet)

// WithLogger sets the logger used for fetch diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(w *Wallet) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithContext sets the context for fetches triggered by SetAddress.
func WithContext(ctx context.Context) Option {
	return func(w *Wallet) {
		if ctx != nil {
			w.ctx = ctx
		}
	}
}

// New creates a Wallet with no address selected and a zero balance.
func New(ds DataSource, opts ...Option) *Wallet {
	w := &Wallet{
		balance:      "0",
		transactions: []models.TransactionRow{},
		tokens:       []models.TokenHolding{},
		dataSource:   ds,
		logger:       zap.NewNop(),
		ctx:          context.Background(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named("wallet")
	return w
}

// SetDataSource allows overriding the data source (useful for testing).
func (w *Wallet) SetDataSource(ds DataSource) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dataSource = ds
}

func (w *Wallet) source() DataSource {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.dataSource
}

// Subscribe adds a new subscriber and returns a channel to receive events.
func (w *Wallet) Subscribe() Subscriber {
	w.mu.Lock()
	defer w.mu.Unlock()
	ch := make(Subscriber, 100)
	w.subscribers = append(w.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscriber.
func (w *Wallet) Unsubscribe(ch Subscriber) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, sub := range w.subscribers {
		if sub == ch {
			w.subscribers = append(w.subscribers[:i], w.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

func (w *Wallet) notify(event Event) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, sub := range w.subscribers {
		select {
		case sub <- event:
		default:
			// slow subscriber; drop rather than block a fetch
		}
	}
}

// SetAddress selects address. When the value changes to a non-empty address,
// FetchAll starts in the background. Earlier runs are neither cancelled nor
// de-duplicated, so with rapid changes the run that finishes last wins.
func (w *Wallet) SetAddress(address string) {
	w.mu.Lock()
	changed := w.address != address
	w.address = address
	ctx := w.ctx
	w.mu.Unlock()

	if !changed {
		return
	}
	w.notify(Event{Type: EventAddressChanged, Data: address})
	if address != "" {
		go w.FetchAll(ctx, address)
	}
}

// FetchAll refreshes balance and transactions for address concurrently and
// returns once both are done. Each fetch handles its own failures.
func (w *Wallet) FetchAll(ctx context.Context, address string) {
	var g errgroup.Group
	g.Go(func() error {
		w.FetchBalance(ctx, address)
		return nil
	})
	g.Go(func() error {
		w.FetchTxs(ctx, address)
		return nil
	})
	_ = g.Wait()
	w.notify(Event{Type: EventFetchCompleted, Data: address})
}

// Address returns the selected address, "" when none.
func (w *Wallet) Address() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.address
}

// Balance returns the ETH balance as a display string.
func (w *Wallet) Balance() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.balance
}

// Transactions returns a copy of the current transaction rows.
func (w *Wallet) Transactions() []models.TransactionRow {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]models.TransactionRow{}, w.transactions...)
}

// Tokens returns a copy of the current token holdings.
func (w *Wallet) Tokens() []models.TokenHolding {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]models.TokenHolding{}, w.tokens...)
}

// Loading reports whether a fetch is in flight. With overlapping fetches the
// last one to finish clears it.
func (w *Wallet) Loading() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.loading
}

// Error returns the last balance lookup failure, "" when none.
func (w *Wallet) Error() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.err
}

// Snapshot returns a copy of the whole state.
func (w *Wallet) Snapshot() models.State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return models.State{
		Address:      w.address,
		Balance:      w.balance,
		Transactions: append([]models.TransactionRow{}, w.transactions...),
		Tokens:       append([]models.TokenHolding{}, w.tokens...),
		Loading:      w.loading,
		Error:        w.err,
	}
}

func (w *Wallet) setLoading(v bool) {
	w.mu.Lock()
	w.loading = v
	w.mu.Unlock()
	w.notify(Event{Type: EventLoadingChanged, Data: v})
}

func (w *Wallet) setBalance(v string) {
	w.mu.Lock()
	w.balance = v
	w.mu.Unlock()
	w.notify(Event{Type: EventBalanceUpdated, Data: v})
}

func (w *Wallet) setError(v string) {
	w.mu.Lock()
	w.err = v
	w.mu.Unlock()
	w.notify(Event{Type: EventErrorUpdated, Data: v})
}

func (w *Wallet) setTransactions(rows []models.TransactionRow) {
	w.mu.Lock()
	w.transactions = rows
	w.mu.Unlock()
	w.notify(Event{Type: EventTransactionsUpdated, Data: append([]models.TransactionRow{}, rows...)})
}

func (w *Wallet) setTokens(tokens []models.TokenHolding) {
	w.mu.Lock()
	w.tokens = tokens
	w.mu.Unlock()
	w.notify(Event{Type: EventTokensUpdated, Data: append([]models.TokenHolding{}, tokens...)})
}
