package rpc

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"walletwatch/pkg/models"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

var BalanceTimeout = 30 * time.Second

var (
	ErrNoRPCURLs      = errors.New("no RPC URLs configured")
	ErrInvalidAddress = errors.New("invalid address")
)

// FetchBalance returns the latest balance of address in wei. RPC URLs are
// tried in order; the URLs that failed are returned alongside the result.
func FetchBalance(ctx context.Context, rpcURLs []string, address string) (*big.Int, []string, error) {
	if len(rpcURLs) == 0 {
		return nil, nil, ErrNoRPCURLs
	}
	if !common.IsHexAddress(address) {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	account := common.HexToAddress(address)

	var failed []string
	var lastErr error
	for _, rpcURL := range rpcURLs {
		callCtx, cancel := context.WithTimeout(ctx, BalanceTimeout)
		client, err := ethclient.DialContext(callCtx, rpcURL)
		if err != nil {
			cancel()
			failed = append(failed, rpcURL)
			lastErr = err
			continue
		}
		balance, err := client.BalanceAt(callCtx, account, nil)
		client.Close()
		cancel()
		if err != nil {
			failed = append(failed, rpcURL)
			lastErr = err
			continue
		}
		return balance, failed, nil
	}
	return nil, failed, fmt.Errorf("all RPC URLs failed: %w", lastErr)
}

// ProbeChainID dials rpcURL and returns the chain ID it reports.
func ProbeChainID(ctx context.Context, rpcURL string) (int64, error) {
	callCtx, cancel := context.WithTimeout(ctx, BalanceTimeout)
	defer cancel()

	client, err := ethclient.DialContext(callCtx, rpcURL)
	if err != nil {
		return 0, err
	}
	defer client.Close()

	id, err := client.ChainID(callCtx)
	if err != nil {
		return 0, fmt.Errorf("failed to get ChainID: %w", err)
	}
	return id.Int64(), nil
}

type historySource interface {
	FetchTransactions(ctx context.Context, address string) ([]models.RawTransaction, error)
	FetchTokenBalances(ctx context.Context, chainID int64, address string) ([]models.RawTokenItem, error)
}

// BalanceSource reads balances from JSON-RPC nodes and leaves transaction
// and token lookups to the wrapped source.
type BalanceSource struct {
	historySource
	rpcURLs []string
	logger  *zap.Logger
}

// NewBalanceSource wraps next so that balances come from rpcURLs.
func NewBalanceSource(rpcURLs []string, next historySource, logger *zap.Logger) *BalanceSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BalanceSource{
		historySource: next,
		rpcURLs:       rpcURLs,
		logger:        logger.Named("rpc"),
	}
}

// FetchBalance returns the wei balance as a decimal string. A malformed
// address yields "" with no error, the same as the explorer's non-numeric
// result for it, so the wallet shows a zero balance either way.
func (s *BalanceSource) FetchBalance(ctx context.Context, address string) (string, error) {
	if !common.IsHexAddress(address) {
		s.logger.Debug("Skipping node lookup for malformed address", zap.String("address", address))
		return "", nil
	}
	balance, failed, err := FetchBalance(ctx, s.rpcURLs, address)
	if len(failed) > 0 {
		s.logger.Warn("RPC endpoints failed during balance lookup", zap.Strings("rpcURLs", failed))
	}
	if err != nil {
		return "", err
	}
	return balance.String(), nil
}
