package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"walletwatch/pkg/wallet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Malformed(t *testing.T) {
	reader := strings.NewReader(`{ "addresses": [`)
	_, err := LoadConfig(reader)
	if err == nil {
		t.Error("Expected error loading malformed config, got nil")
	}
}

func TestLoadConfigFromFile_Missing(t *testing.T) {
	t.Setenv(EnvEtherscanKey, "env-ekey")
	t.Setenv(EnvCovalentKey, "")

	cfg, err := LoadConfigFromFile(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, wallet.DefaultChainID, cfg.ChainID)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultServerPort, cfg.ServerPort)
	assert.Empty(t, cfg.Addresses)
	assert.Equal(t, "env-ekey", cfg.EtherscanAPIKey)
	assert.Equal(t, "", cfg.CovalentAPIKey)
}

func TestLoadConfig_TableDriven(t *testing.T) {
	tests := []struct {
		name        string
		jsonContent string
		expectError bool
		validate    func(*testing.T, Config)
	}{
		{
			name: "Full Config",
			jsonContent: `{
				"addresses": [{"address": "0x123", "name": "Main"}, {"address": "  "}],
				"chain_id": 137,
				"etherscan_url": "http://scan",
				"covalent_url": "http://cov",
				"rpc_urls": ["http://node"],
				"request_timeout_seconds": 15,
				"rate_limit_per_second": 4.5,
				"log_level": "debug",
				"log_file": "/tmp/ww.log",
				"server_port": 9000
			}`,
			validate: func(t *testing.T, cfg Config) {
				require.Len(t, cfg.Addresses, 1)
				assert.Equal(t, AddressConfig{Address: "0x123", Name: "Main"}, cfg.Addresses[0])
				assert.Equal(t, int64(137), cfg.ChainID)
				assert.Equal(t, "http://scan", cfg.EtherscanURL)
				assert.Equal(t, "http://cov", cfg.CovalentURL)
				assert.Equal(t, []string{"http://node"}, cfg.RPCURLs)
				assert.Equal(t, 15*time.Second, cfg.RequestTimeout())
				assert.Equal(t, 4.5, cfg.RateLimitPerSecond)
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.Equal(t, "/tmp/ww.log", cfg.LogFile)
				assert.Equal(t, 9000, cfg.ServerPort)
			},
		},
		{
			name:        "Defaults",
			jsonContent: `{}`,
			validate: func(t *testing.T, cfg Config) {
				assert.Equal(t, wallet.DefaultChainID, cfg.ChainID)
				assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
				assert.Equal(t, DefaultServerPort, cfg.ServerPort)
				assert.Equal(t, time.Duration(0), cfg.RequestTimeout())
			},
		},
		{
			name:        "File Keys",
			jsonContent: `{"etherscan_api_key": "file-e", "covalent_api_key": "file-c"}`,
			validate: func(t *testing.T, cfg Config) {
				assert.Equal(t, "file-e", cfg.EtherscanAPIKey)
				assert.Equal(t, "file-c", cfg.CovalentAPIKey)
			},
		},
		{
			name:        "Wrong Type",
			jsonContent: `{"chain_id": "mainnet"}`,
			expectError: true,
		},
	}

	t.Setenv(EnvEtherscanKey, "")
	t.Setenv(EnvCovalentKey, "")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(strings.NewReader(tt.jsonContent))
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validate(t, cfg)
		})
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	t.Setenv(EnvEtherscanKey, "env-e")
	t.Setenv(EnvCovalentKey, "")

	cfg, err := LoadConfig(strings.NewReader(`{"etherscan_api_key": "file-e", "covalent_api_key": "file-c"}`))
	require.NoError(t, err)
	assert.Equal(t, "env-e", cfg.EtherscanAPIKey)
	assert.Equal(t, "file-c", cfg.CovalentAPIKey)
}

func TestLoadConfigFromFile_YAML(t *testing.T) {
	t.Setenv(EnvEtherscanKey, "")
	path := filepath.Join(t.TempDir(), "walletwatch.yaml")
	content := `
addresses:
  - address: "0xabc"
    name: cold
chain_id: 10
rpc_urls:
  - http://node-a
  - http://node-b
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadConfigFromFile(path)
	require.NoError(t, err)
	require.Len(t, cfg.Addresses, 1)
	assert.Equal(t, "cold", cfg.Addresses[0].Name)
	assert.Equal(t, int64(10), cfg.ChainID)
	assert.Len(t, cfg.RPCURLs, 2)
	assert.Equal(t, DefaultServerPort, cfg.ServerPort)
}

func TestLoadYAMLConfig_Empty(t *testing.T) {
	cfg, err := LoadYAMLConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, wallet.DefaultChainID, cfg.ChainID)
}

func TestSaveConfig(t *testing.T) {
	t.Setenv(EnvEtherscanKey, "secret-from-env")
	tmpPath := filepath.Join(t.TempDir(), "config.json")

	cfg := Default()
	cfg.AddAddress("0x123", "Test")
	cfg.ChainID = 56
	cfg.EtherscanAPIKey = os.Getenv(EnvEtherscanKey)

	require.NoError(t, SaveConfig(cfg, tmpPath))

	raw, err := os.ReadFile(tmpPath)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-from-env")

	loaded, err := LoadConfigFromFile(tmpPath)
	require.NoError(t, err)
	require.Len(t, loaded.Addresses, 1)
	assert.Equal(t, "0x123", loaded.Addresses[0].Address)
	assert.Equal(t, int64(56), loaded.ChainID)
}

func TestSaveConfig_KeepsFileKeys(t *testing.T) {
	t.Setenv(EnvCovalentKey, "")
	t.Setenv(EnvEtherscanKey, "")
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("covalent_api_key: file-c\n"), 0600))

	cfg, err := LoadConfigFromFile(path)
	require.NoError(t, err)
	cfg.AddAddress("0xabc", "")
	require.NoError(t, SaveConfig(cfg, path))

	again, err := LoadConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "file-c", again.CovalentAPIKey)
	assert.Len(t, again.Addresses, 1)
}

func TestSaveConfig_Validation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := Default()
	cfg.Addresses = []AddressConfig{{Address: " "}}
	assert.Error(t, SaveConfig(cfg, path))

	cfg = Default()
	cfg.ChainID = 0
	assert.Error(t, SaveConfig(cfg, path))
}

func TestSaveConfig_BackupAndRestore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	first := Default()
	first.AddAddress("0xfirst", "")
	require.NoError(t, SaveConfig(first, path))

	second := Default()
	second.AddAddress("0xsecond", "")
	require.NoError(t, SaveConfig(second, path))

	backups, err := filepath.Glob(path + ".*.bak")
	require.NoError(t, err)
	require.Len(t, backups, 1)

	require.NoError(t, RestoreLastBackup(path))
	restored, err := LoadConfigFromFile(path)
	require.NoError(t, err)
	require.Len(t, restored.Addresses, 1)
	assert.Equal(t, "0xfirst", restored.Addresses[0].Address)
}

func TestRestoreLastBackup_None(t *testing.T) {
	assert.Error(t, RestoreLastBackup(filepath.Join(t.TempDir(), "config.json")))
}

func TestAddAddress(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.AddAddress("0xAbC", "main"))
	assert.False(t, cfg.AddAddress("0xabc", "dup"))
	assert.False(t, cfg.AddAddress("   ", ""))
	assert.Len(t, cfg.Addresses, 1)
}

func TestGetConfigPath(t *testing.T) {
	p, err := GetConfigPath("/custom/path.json")
	require.NoError(t, err)
	assert.Equal(t, "/custom/path.json", p)

	p, err = GetConfigPath("")
	require.NoError(t, err)
	assert.Equal(t, ConfigFileName, filepath.Base(p))
}

func FuzzLoadConfig(f *testing.F) {
	f.Add(`{"addresses": [{"address": "0x1"}], "chain_id": 1}`)
	f.Add(`{}`)
	f.Add(`[`)
	f.Fuzz(func(t *testing.T, data string) {
		_, _ = LoadConfig(strings.NewReader(data))
	})
}
