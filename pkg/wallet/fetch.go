package wallet

import (
	"context"
	"time"

	"walletwatch/pkg/metrics"
	"walletwatch/pkg/models"
	"walletwatch/pkg/units"

	"go.uber.org/zap"
)

const (
	opBalance      = "balance"
	opTokens       = "tokens"
	opTransactions = "transactions"
)

// FetchBalance refreshes the ETH balance. An empty address resets the balance
// to "0" without touching the network or the loading flag. A failed lookup
// is recorded in Error and zeroes the balance; it is never returned.
func (w *Wallet) FetchBalance(ctx context.Context, address string) {
	started := time.Now()
	if address == "" {
		w.setBalance("0")
		metrics.Observe(opBalance, metrics.OutcomeSkipped, started)
		return
	}

	w.setLoading(true)
	w.setError("")
	defer w.setLoading(false)

	raw, err := w.source().FetchBalance(ctx, address)
	if err != nil {
		w.logger.Warn("Balance lookup failed", zap.String("address", address), zap.Error(err))
		w.setError(err.Error())
		w.setBalance("0")
		metrics.Observe(opBalance, metrics.OutcomeFailure, started)
		return
	}

	balance := "0"
	if raw != "" {
		balance = units.WeiToDecimal(raw, units.DefaultFractionDigits)
	}
	w.setBalance(balance)
	metrics.Observe(opBalance, metrics.OutcomeSuccess, started)
}

// FetchTokens refreshes the ERC-20 holdings of address on chainID. Failures
// are logged and leave an empty list; Error is not touched.
func (w *Wallet) FetchTokens(ctx context.Context, address string, chainID int64) {
	started := time.Now()
	if address == "" {
		w.setTokens([]models.TokenHolding{})
		metrics.Observe(opTokens, metrics.OutcomeSkipped, started)
		return
	}

	w.setLoading(true)
	defer w.setLoading(false)

	items, err := w.source().FetchTokenBalances(ctx, chainID, address)
	if err != nil {
		w.logger.Error("fetchTokens error",
			zap.String("address", address),
			zap.Int64("chainID", chainID),
			zap.Error(err))
		w.setTokens([]models.TokenHolding{})
		metrics.Observe(opTokens, metrics.OutcomeFailure, started)
		return
	}

	w.setTokens(MapTokens(items))
	metrics.Observe(opTokens, metrics.OutcomeSuccess, started)
}

// FetchTxs refreshes the transaction list of address. Rows are classified
// against the address selected at the time the response arrives. Failures
// are logged and leave an empty list; Error is not touched.
func (w *Wallet) FetchTxs(ctx context.Context, address string) {
	started := time.Now()
	if address == "" {
		w.setTransactions([]models.TransactionRow{})
		metrics.Observe(opTransactions, metrics.OutcomeSkipped, started)
		return
	}

	w.setLoading(true)
	defer w.setLoading(false)

	raw, err := w.source().FetchTransactions(ctx, address)
	if err != nil {
		w.logger.Error("fetchTxs error", zap.String("address", address), zap.Error(err))
		w.setTransactions([]models.TransactionRow{})
		metrics.Observe(opTransactions, metrics.OutcomeFailure, started)
		return
	}

	w.logger.Debug("Fetched transactions", zap.String("address", address), zap.Int("count", len(raw)))
	w.setTransactions(MapTransactions(raw, w.Address()))
	metrics.Observe(opTransactions, metrics.OutcomeSuccess, started)
}
