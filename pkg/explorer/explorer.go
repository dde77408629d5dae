// Package explorer talks to the Etherscan account API and the Covalent
// balances API.
package explorer

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"walletwatch/pkg/models"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	EtherscanBaseURL = "https://api.etherscan.io/api"
	CovalentBaseURL  = "https://api.covalenthq.com"
)

// ErrUnexpectedStatus is wrapped by errors for non-2xx responses.
var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

// Options configures a Client. Empty URLs fall back to the package defaults.
type Options struct {
	EtherscanURL string
	CovalentURL  string
	EtherscanKey string
	CovalentKey  string
	// Timeout bounds each request when the context has no deadline. Zero means no limit.
	Timeout time.Duration
	// RateLimit caps requests per second across both APIs. Zero means unlimited.
	RateLimit float64
}

// Client issues GET requests against the explorer and indexer APIs.
type Client struct {
	client       *fasthttp.Client
	etherscanURL string
	covalentURL  string
	etherscanKey string
	covalentKey  string
	timeout      time.Duration
	limiter      *rate.Limiter
	logger       *zap.Logger
}

// NewClient creates a Client.
func NewClient(opts Options, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	etherscanURL := opts.EtherscanURL
	if etherscanURL == "" {
		etherscanURL = EtherscanBaseURL
	}
	covalentURL := opts.CovalentURL
	if covalentURL == "" {
		covalentURL = CovalentBaseURL
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}
	return &Client{
		client:       &fasthttp.Client{Name: "walletwatch"},
		etherscanURL: etherscanURL,
		covalentURL:  strings.TrimRight(covalentURL, "/"),
		etherscanKey: opts.EtherscanKey,
		covalentKey:  opts.CovalentKey,
		timeout:      opts.Timeout,
		limiter:      limiter,
		logger:       logger.Named("explorer"),
	}
}

type etherscanResponse struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Result  jsoniter.RawMessage `json:"result"`
}

type covalentResponse struct {
	Data *struct {
		Address string                `json:"address"`
		Items   []models.RawTokenItem `json:"items"`
	} `json:"data"`
	Error        bool   `json:"error"`
	ErrorMessage string `json:"error_message"`
}

// FetchBalance returns the latest wei balance of address as a decimal string,
// or "" when the response carries no string result.
func (c *Client) FetchBalance(ctx context.Context, address string) (string, error) {
	args := fasthttp.AcquireArgs()
	defer fasthttp.ReleaseArgs(args)
	args.Add("module", "account")
	args.Add("action", "balance")
	args.Add("address", address)
	args.Add("tag", "latest")
	args.Add("apikey", c.etherscanKey)

	var resp etherscanResponse
	if err := c.getJSON(ctx, "etherscan balance", c.etherscanURL+"?"+args.String(), &resp); err != nil {
		return "", err
	}

	var result string
	if len(resp.Result) == 0 || json.Unmarshal(resp.Result, &result) != nil {
		c.logger.Debug("Balance response has no string result",
			zap.String("address", address),
			zap.String("message", resp.Message))
		return "", nil
	}
	return result, nil
}

// FetchTransactions returns the full normal-transaction history of address,
// newest first. A non-array result (Etherscan reports "No transactions found"
// and rate-limit errors that way) yields an empty list.
func (c *Client) FetchTransactions(ctx context.Context, address string) ([]models.RawTransaction, error) {
	args := fasthttp.AcquireArgs()
	defer fasthttp.ReleaseArgs(args)
	args.Add("module", "account")
	args.Add("action", "txlist")
	args.Add("address", address)
	args.Add("startblock", "0")
	args.Add("endblock", "99999999")
	args.Add("sort", "desc")
	args.Add("apikey", c.etherscanKey)

	var resp etherscanResponse
	if err := c.getJSON(ctx, "etherscan txlist", c.etherscanURL+"?"+args.String(), &resp); err != nil {
		return nil, err
	}

	var txs []models.RawTransaction
	if len(resp.Result) == 0 || json.Unmarshal(resp.Result, &txs) != nil || txs == nil {
		c.logger.Debug("Transaction list result is not an array",
			zap.String("address", address),
			zap.String("message", resp.Message),
			zap.ByteString("result", resp.Result))
		return []models.RawTransaction{}, nil
	}
	return txs, nil
}

// FetchTokenBalances returns the token items Covalent holds for address on chainID.
func (c *Client) FetchTokenBalances(ctx context.Context, chainID int64, address string) ([]models.RawTokenItem, error) {
	args := fasthttp.AcquireArgs()
	defer fasthttp.ReleaseArgs(args)
	args.Add("key", c.covalentKey)

	requestURL := fmt.Sprintf("%s/v1/%s/address/%s/balances_v2/?%s",
		c.covalentURL, strconv.FormatInt(chainID, 10), url.PathEscape(address), args.String())

	var resp covalentResponse
	if err := c.getJSON(ctx, "covalent balances", requestURL, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil || resp.Data.Items == nil {
		return []models.RawTokenItem{}, nil
	}
	return resp.Data.Items, nil
}

// getJSON performs a GET and decodes the body into out. label names the
// endpoint in errors so that API keys in the query never leak into messages.
func (c *Client) getJSON(ctx context.Context, label, requestURL string, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: rate limiter: %w", label, err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	c.logger.Debug("Sending request", zap.String("endpoint", label))

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else if c.timeout > 0 {
		err = c.client.DoTimeout(req, resp, c.timeout)
	} else {
		err = c.client.Do(req, resp)
	}
	if err != nil {
		c.logger.Warn("Request failed", zap.String("endpoint", label), zap.Error(err))
		return fmt.Errorf("%s request failed: %w", label, err)
	}

	body := resp.Body()
	if status := resp.StatusCode(); status < 200 || status >= 300 {
		c.logger.Warn("Unexpected response status",
			zap.String("endpoint", label),
			zap.Int("statusCode", status),
			zap.ByteString("responseBody", body))
		return fmt.Errorf("%s: %w %d", label, ErrUnexpectedStatus, status)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", label, err)
	}
	return nil
}
