package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// EVMNetwork holds the connection and signing settings for one EVM chain
type EVMNetwork struct {
	RPCUrl     string  `mapstructure:"rpc_url"`
	ChainID    int64   `mapstructure:"chain_id"`
	PrivateKey string  `mapstructure:"private_key"`
	GasLimit   *uint64 `mapstructure:"gas_limit"` // optional, estimated when unset
	GasPrice   *int64  `mapstructure:"gas_price"` // optional, suggested when unset
}

// Config holds the application configuration
type Config struct {
	APIKey  string
	BaseURL string

	// SlippagePercentage is reported to the status service when polling
	// begins. It defaults to 0 and stays there until slippage becomes a
	// real per-quote setting.
	SlippagePercentage float64

	PollIntervalSec int
	PollMaxAttempts int

	ActivityPath string
	TokensPath   string

	Networks map[string]EVMNetwork
}

var globalConfig *Config

// Load reads configuration from environment variables and config file
func Load() (*Config, error) {
	viper.SetConfigName(".bridge-swap")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME")
	viper.AddConfigPath(".")

	// Set default values
	viper.SetDefault("base_url", "https://api.bridgeswap.exchange")
	viper.SetDefault("slippage_percentage", 0)
	viper.SetDefault("poll_interval_sec", 15)
	viper.SetDefault("poll_max_attempts", 240)

	// Read from environment variables
	viper.SetEnvPrefix("BRIDGE_SWAP")
	viper.AutomaticEnv()

	// Read config file (optional)
	_ = viper.ReadInConfig()

	// Create config struct
	cfg := &Config{
		APIKey:             viper.GetString("api_key"),
		BaseURL:            viper.GetString("base_url"),
		SlippagePercentage: viper.GetFloat64("slippage_percentage"),
		PollIntervalSec:    viper.GetInt("poll_interval_sec"),
		PollMaxAttempts:    viper.GetInt("poll_max_attempts"),
		ActivityPath:       viper.GetString("activity_path"),
		TokensPath:         viper.GetString("tokens_path"),
	}

	if err := viper.UnmarshalKey("networks", &cfg.Networks); err != nil {
		return nil, fmt.Errorf("invalid networks configuration: %w", err)
	}
	if cfg.Networks == nil {
		cfg.Networks = make(map[string]EVMNetwork)
	}

	// Validate API key
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key not found. Please set BRIDGE_SWAP_API_KEY environment variable or create a .bridge-swap.yaml config file")
	}

	globalConfig = cfg
	return cfg, nil
}

// NetworkForChain returns the configured network matching a chain id
func (c *Config) NetworkForChain(chainID uint64) (string, EVMNetwork, error) {
	for name, network := range c.Networks {
		if network.ChainID == int64(chainID) {
			return name, network, nil
		}
	}
	return "", EVMNetwork{}, fmt.Errorf("no network configured for chain id %d", chainID)
}

// Get returns the global configuration
func Get() *Config {
	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}
		return cfg
	}
	return globalConfig
}

// Set updates the global configuration
func Set(cfg *Config) {
	globalConfig = cfg
}
