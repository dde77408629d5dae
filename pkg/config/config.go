package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"walletwatch/pkg/wallet"

	"gopkg.in/yaml.v3"
)

const ConfigFileName = ".walletwatch.json"

// Environment variables holding API keys. They take precedence over the file.
const (
	EnvEtherscanKey = "ETHERSCAN_API_KEY"
	EnvCovalentKey  = "COVALENT_API_KEY"
)

const (
	DefaultLogLevel   = "info"
	DefaultServerPort = 8080
)

// AddressConfig is a saved address in the watch list.
type AddressConfig struct {
	Address string `json:"address" yaml:"address"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Config holds application settings.
type Config struct {
	Addresses             []AddressConfig `json:"addresses" yaml:"addresses"`
	ChainID               int64           `json:"chain_id" yaml:"chain_id"`
	EtherscanURL          string          `json:"etherscan_url,omitempty" yaml:"etherscan_url,omitempty"`
	CovalentURL           string          `json:"covalent_url,omitempty" yaml:"covalent_url,omitempty"`
	EtherscanAPIKey       string          `json:"etherscan_api_key,omitempty" yaml:"etherscan_api_key,omitempty"`
	CovalentAPIKey        string          `json:"covalent_api_key,omitempty" yaml:"covalent_api_key,omitempty"`
	RPCURLs               []string        `json:"rpc_urls,omitempty" yaml:"rpc_urls,omitempty"`
	RequestTimeoutSeconds int             `json:"request_timeout_seconds,omitempty" yaml:"request_timeout_seconds,omitempty"`
	RateLimitPerSecond    float64         `json:"rate_limit_per_second,omitempty" yaml:"rate_limit_per_second,omitempty"`
	LogLevel              string          `json:"log_level" yaml:"log_level"`
	LogFile               string          `json:"log_file,omitempty" yaml:"log_file,omitempty"`
	ServerPort            int             `json:"server_port" yaml:"server_port"`

	// keys that came from the environment are not written back to disk
	fileEtherscanKey string
	fileCovalentKey  string
}

// RequestTimeout returns the per-request timeout, zero meaning none.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Addresses:  []AddressConfig{},
		ChainID:    wallet.DefaultChainID,
		LogLevel:   DefaultLogLevel,
		ServerPort: DefaultServerPort,
	}
}

type fileConfig struct {
	Addresses             []AddressConfig `json:"addresses" yaml:"addresses"`
	ChainID               *int64          `json:"chain_id" yaml:"chain_id"`
	EtherscanURL          string          `json:"etherscan_url" yaml:"etherscan_url"`
	CovalentURL           string          `json:"covalent_url" yaml:"covalent_url"`
	EtherscanAPIKey       string          `json:"etherscan_api_key" yaml:"etherscan_api_key"`
	CovalentAPIKey        string          `json:"covalent_api_key" yaml:"covalent_api_key"`
	RPCURLs               []string        `json:"rpc_urls" yaml:"rpc_urls"`
	RequestTimeoutSeconds *int            `json:"request_timeout_seconds" yaml:"request_timeout_seconds"`
	RateLimitPerSecond    *float64        `json:"rate_limit_per_second" yaml:"rate_limit_per_second"`
	LogLevel              *string         `json:"log_level" yaml:"log_level"`
	LogFile               string          `json:"log_file" yaml:"log_file"`
	ServerPort            *int            `json:"server_port" yaml:"server_port"`
}

func GetConfigPath(customPath string) (string, error) {
	if customPath != "" {
		return customPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigFileName), nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// LoadConfigFromFile reads path, returning defaults when it does not exist.
// API keys from the environment are applied in both cases.
func LoadConfigFromFile(path string) (Config, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		cfg := Default()
		applyEnv(&cfg)
		return cfg, nil
	}
	if err != nil {
		return Config{}, err
	}
	defer func() { _ = f.Close() }()
	if isYAML(path) {
		return LoadYAMLConfig(f)
	}
	return LoadConfig(f)
}

// LoadConfig decodes a JSON configuration.
func LoadConfig(r io.Reader) (Config, error) {
	var fc fileConfig
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return Config{}, err
	}
	return fc.resolve(), nil
}

// LoadYAMLConfig decodes a YAML configuration.
func LoadYAMLConfig(r io.Reader) (Config, error) {
	var fc fileConfig
	if err := yaml.NewDecoder(r).Decode(&fc); err != nil && err != io.EOF {
		return Config{}, err
	}
	return fc.resolve(), nil
}

func (fc fileConfig) resolve() Config {
	cfg := Default()
	for _, a := range fc.Addresses {
		if clean := strings.TrimSpace(a.Address); clean != "" {
			cfg.Addresses = append(cfg.Addresses, AddressConfig{Address: clean, Name: a.Name})
		}
	}
	if fc.ChainID != nil {
		cfg.ChainID = *fc.ChainID
	}
	cfg.EtherscanURL = fc.EtherscanURL
	cfg.CovalentURL = fc.CovalentURL
	cfg.EtherscanAPIKey = fc.EtherscanAPIKey
	cfg.CovalentAPIKey = fc.CovalentAPIKey
	cfg.fileEtherscanKey = fc.EtherscanAPIKey
	cfg.fileCovalentKey = fc.CovalentAPIKey
	cfg.RPCURLs = fc.RPCURLs
	if fc.RequestTimeoutSeconds != nil {
		cfg.RequestTimeoutSeconds = *fc.RequestTimeoutSeconds
	}
	if fc.RateLimitPerSecond != nil {
		cfg.RateLimitPerSecond = *fc.RateLimitPerSecond
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	cfg.LogFile = fc.LogFile
	if fc.ServerPort != nil {
		cfg.ServerPort = *fc.ServerPort
	}
	applyEnv(&cfg)
	return cfg
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvEtherscanKey); v != "" {
		cfg.EtherscanAPIKey = v
	}
	if v := os.Getenv(EnvCovalentKey); v != "" {
		cfg.CovalentAPIKey = v
	}
}

// AddAddress appends address to the watch list unless it is already present
// (case-insensitive). It reports whether the list changed.
func (c *Config) AddAddress(address, name string) bool {
	address = strings.TrimSpace(address)
	if address == "" {
		return false
	}
	for _, a := range c.Addresses {
		if strings.EqualFold(a.Address, address) {
			return false
		}
	}
	c.Addresses = append(c.Addresses, AddressConfig{Address: address, Name: name})
	return true
}

// SaveConfig validates cfg and writes it to path, keeping a timestamped
// backup of the previous file. Keys supplied through the environment are
// not persisted.
func SaveConfig(cfg Config, path string) error {
	for i, a := range cfg.Addresses {
		if strings.TrimSpace(a.Address) == "" {
			return fmt.Errorf("validation failed: address at index %d is empty", i)
		}
	}
	if cfg.ChainID <= 0 {
		return fmt.Errorf("validation failed: chain_id must be positive, got %d", cfg.ChainID)
	}

	out := cfg
	out.EtherscanAPIKey = cfg.fileEtherscanKey
	out.CovalentAPIKey = cfg.fileCovalentKey

	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(out)
	} else {
		data, err = json.MarshalIndent(out, "", "  ")
	}
	if err != nil {
		return err
	}

	if len(data) == 0 {
		return fmt.Errorf("validation failed: encoded configuration is empty")
	}

	// Create a backup of the existing file
	if _, err := os.Stat(path); err == nil {
		backupPath := fmt.Sprintf("%s.%s.bak", path, time.Now().Format("20060102-150405"))
		input, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read existing config for backup: %w", err)
		}
		if err := os.WriteFile(backupPath, input, 0600); err != nil {
			return fmt.Errorf("failed to write backup config: %w", err)
		}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

func RestoreLastBackup(configPath string) error {
	matches, err := filepath.Glob(configPath + ".*.bak")
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return fmt.Errorf("no backup files found")
	}
	sort.Strings(matches)
	lastBackup := matches[len(matches)-1]

	data, err := os.ReadFile(lastBackup)
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0600)
}
