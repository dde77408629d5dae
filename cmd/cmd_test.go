package cmd

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"walletwatch/pkg/config"
	"walletwatch/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddress = "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B"

// newUpstream serves canned Etherscan, Covalent and JSON-RPC responses.
func newUpstream(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/api", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("action") {
		case "balance":
			fmt.Fprint(w, `{"status":"1","message":"OK","result":"1500000000000000000"}`)
		case "txlist":
			fmt.Fprintf(w, `{"status":"1","message":"OK","result":[
				{"blockNumber":"1","timeStamp":"","hash":"0xout","from":"%s","to":"0x2222222222222222222222222222222222222222","value":"1000000000000000000"},
				{"blockNumber":"2","timeStamp":"","hash":"0xin","from":"0x3333333333333333333333333333333333333333","to":"%s","value":"500000000000000000"}
			]}`, strings.ToLower(testAddress), testAddress)
		default:
			http.Error(w, "unknown action", http.StatusBadRequest)
		}
	})
	mux.HandleFunc("/v1/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, fmt.Sprintf("/v1/137/address/%s/balances_v2/", testAddress), r.URL.Path)
		fmt.Fprint(w, `{"data":{"items":[
			{"contract_address":"0xusdc","contract_name":"USD Coin","contract_ticker_symbol":"USDC","balance":"1234567890","contract_decimals":6}
		]}}`)
	})
	mux.HandleFunc("/rpc", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     int    `json:"id"`
			Method string `json:"method"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"result":"0x1"}`, req.ID)
	})
	return httptest.NewServer(mux)
}

func writeConfig(t *testing.T, upstream string, extra string) string {
	t.Helper()
	t.Setenv(config.EnvEtherscanKey, "")
	t.Setenv(config.EnvCovalentKey, "")

	path := filepath.Join(t.TempDir(), "walletwatch.json")
	body := fmt.Sprintf(`{
		"chain_id": 1,
		"etherscan_url": "%s/api",
		"covalent_url": "%s"%s
	}`, upstream, upstream, extra)
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "walletwatch version dev\n", out)
}

func TestBalanceCmd(t *testing.T) {
	upstream := newUpstream(t)
	defer upstream.Close()
	path := writeConfig(t, upstream.URL, "")

	out, err := run(t, "--config", path, "balance", testAddress)
	require.NoError(t, err)
	assert.Contains(t, out, "Balance: 1.5 ETH")
}

func TestBalanceCmd_UpstreamFailure(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer broken.Close()
	path := writeConfig(t, broken.URL, "")

	_, err := run(t, "--config", path, "balance", testAddress)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestTxsCmd(t *testing.T) {
	upstream := newUpstream(t)
	defer upstream.Close()
	path := writeConfig(t, upstream.URL, "")

	out, err := run(t, "--config", path, "txs", testAddress, "--json")
	require.NoError(t, err)

	var rows []models.TransactionRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, models.Outgoing, rows[0].Direction)
	assert.Equal(t, "0x2222222222222222222222222222222222222222", rows[0].Counterparty)
	assert.Equal(t, "1 ETH", rows[0].Amount)
	assert.Equal(t, "block 1", rows[0].Time)
	assert.Equal(t, models.Incoming, rows[1].Direction)
	assert.Equal(t, "0.5 ETH", rows[1].Amount)

	out, err = run(t, "--config", path, "txs", testAddress, "--filter", "in", "--json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "0xin", rows[0].Hash)

	out, err = run(t, "--config", path, "txs", testAddress, "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "0xout")
	assert.NotContains(t, out, "0xin")
}

func TestTxsCmd_InvalidFilter(t *testing.T) {
	_, err := run(t, "txs", testAddress, "--filter", "sideways")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter")
}

func TestTokensCmd(t *testing.T) {
	upstream := newUpstream(t)
	defer upstream.Close()
	path := writeConfig(t, upstream.URL, "")

	out, err := run(t, "--config", path, "tokens", testAddress, "--chain-id", "137")
	require.NoError(t, err)
	assert.Contains(t, out, "USDC")
	assert.Contains(t, out, "1,234.56789")
}

func TestConfigAddAndRestore(t *testing.T) {
	upstream := newUpstream(t)
	defer upstream.Close()
	path := writeConfig(t, upstream.URL, "")

	out, err := run(t, "--config", path, "config", "add", testAddress, "main")
	require.NoError(t, err)
	assert.Contains(t, out, "Added")

	out, err = run(t, "--config", path, "config", "add", strings.ToLower(testAddress))
	require.NoError(t, err)
	assert.Contains(t, out, "already in the watch list")

	cfg, err := config.LoadConfigFromFile(path)
	require.NoError(t, err)
	require.Len(t, cfg.Addresses, 1)
	assert.Equal(t, "main", cfg.Addresses[0].Name)

	_, err = run(t, "--config", path, "config", "restore")
	require.NoError(t, err)
	cfg, err = config.LoadConfigFromFile(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Addresses)
}

func TestConfigShow_MasksKeys(t *testing.T) {
	upstream := newUpstream(t)
	defer upstream.Close()
	path := writeConfig(t, upstream.URL, "")
	t.Setenv(config.EnvEtherscanKey, "SECRETKEY1234")

	out, err := run(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.NotContains(t, out, "SECRETKEY1234")
	assert.Contains(t, out, "****1234")
}

func TestCheckCmd(t *testing.T) {
	upstream := newUpstream(t)
	defer upstream.Close()
	path := writeConfig(t, upstream.URL, fmt.Sprintf(`, "rpc_urls": ["%s/rpc"]`, upstream.URL))

	out, err := run(t, "--config", path, "check", "--json")
	require.NoError(t, err)

	var report models.CheckReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.ValidStructure)
	require.Len(t, report.RPCs, 1)
	assert.Equal(t, "ok", report.RPCs[0].Status)
	assert.Equal(t, int64(1), report.RPCs[0].ChainID)
}

func TestCheckCmd_InvalidConfig(t *testing.T) {
	upstream := newUpstream(t)
	defer upstream.Close()
	path := writeConfig(t, upstream.URL, `, "addresses": [{"address": "not-an-address"}]`)

	_, err := run(t, "--config", path, "check")
	require.Error(t, err)
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "", maskKey(""))
	assert.Equal(t, "****", maskKey("abc"))
	assert.Equal(t, "****6789", maskKey("0123456789"))
}
