package config

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/spf13/viper"
)

type Config struct {
	Network  string
	LogLevel int
}

var (
	Network  = "NETWORK"
	LogLevel = "LOG_LEVEL"

	defaultNetwork  = "mainnet"
	defaultLogLevel = 4 // info
)

func LoadConfig() (*Config, error) {
	viper.SetEnvPrefix("DESCRIPTOR")
	viper.AutomaticEnv()

	viper.SetDefault(Network, defaultNetwork)
	viper.SetDefault(LogLevel, defaultLogLevel)

	cfg := &Config{
		Network:  viper.GetString(Network),
		LogLevel: viper.GetInt(LogLevel),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := ChainParams(c.Network); err != nil {
		return err
	}
	return nil
}

// ChainParams maps a network name to its chain parameters.
func ChainParams(network string) (*chaincfg.Params, error) {
	switch network {
	case "mainnet":
		return &chaincfg.MainNetParams, nil
	case "testnet":
		return &chaincfg.TestNet3Params, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	case "simnet":
		return &chaincfg.SimNetParams, nil
	default:
		return nil, fmt.Errorf("invalid network: %s", network)
	}
}
