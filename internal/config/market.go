// Package config loads the simulator's static configuration: which
// markets exist, their lot parameters, and the ambient server/logging/rate
// limit settings.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration document, loaded from a single YAML
// file at startup.
type Config struct {
	System    SystemConfig    `yaml:"system"`
	Server    ServerConfig    `yaml:"server"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Markets   []MarketConfig  `yaml:"markets" validate:"required,min=1,dive"`
}

// SystemConfig holds process-wide settings.
type SystemConfig struct {
	Environment string `yaml:"environment" validate:"oneof=development staging production"`
	LogLevel    string `yaml:"log_level" validate:"oneof=debug info warn error"`
}

// ServerConfig controls the HTTP API (order placement, cancellation and
// book inspection).
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port" validate:"gt=0,lte=65535"`
}

// RateLimitConfig bounds PlaceOrder calls per account.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" validate:"gt=0"`
	Burst             int     `yaml:"burst" validate:"gt=0"`
}

// MarketConfig names a symbol and its lot parameters. The lot fields mirror
// clob.LotParams but are expressed here with validator tags since
// pkg/clob itself never imports a validation library — callers at this
// boundary are responsible for catching bad config before it reaches the
// engine.
type MarketConfig struct {
	Symbol           string `yaml:"symbol" validate:"required"`
	BaseLotSize      uint64 `yaml:"base_lot_size" validate:"required"`
	QuoteLotSize     uint64 `yaml:"quote_lot_size" validate:"required"`
	BaseDenomination uint64 `yaml:"base_denomination" validate:"required"`
}

// DefaultConfig is used when no config file is supplied — a single
// synthetic market for local exploration.
func DefaultConfig() Config {
	return Config{
		System: SystemConfig{Environment: "development", LogLevel: "info"},
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 50,
			Burst:             100,
		},
		Markets: []MarketConfig{
			{Symbol: "AURO-USDC", BaseLotSize: 1e16, QuoteLotSize: 1000, BaseDenomination: 1e18},
		},
	}
}

// Load reads and validates a YAML config file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}
