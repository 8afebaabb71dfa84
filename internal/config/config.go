// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// ErrMisconfigured marks configuration the service cannot verify burns
// with. The server still starts so that /health and /metrics stay up, but
// every verification request is rejected until the config is fixed.
var ErrMisconfigured = errors.New("misconfigured")

// Config holds all service settings.
type Config struct {
	ListenAddr string

	RPCEndpoint string
	WSEndpoint  string // optional, enables the finality waiter
	Commitment  string
	RPCTimeout  time.Duration

	TokenMint     string
	TokenDecimals int

	PostgresDSN   string
	ClickhouseDSN string // optional, enables the audit sink
	UseMemory     bool

	RewardRate int64
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		ListenAddr:    getEnv("LISTEN_ADDR", ":8080"),
		RPCEndpoint:   getEnv("SOLANA_RPC_ENDPOINT", ""),
		WSEndpoint:    getEnv("SOLANA_WS_ENDPOINT", ""),
		Commitment:    getEnv("SOLANA_COMMITMENT", "confirmed"),
		RPCTimeout:    getEnvDuration("SOLANA_RPC_TIMEOUT", 15*time.Second),
		TokenMint:     getEnv("TOKEN_MINT", ""),
		TokenDecimals: getEnvInt("TOKEN_DECIMALS", 9),
		PostgresDSN:   getEnv("POSTGRES_DSN", ""),
		ClickhouseDSN: getEnv("CLICKHOUSE_DSN", ""),
		UseMemory:     getEnvBool("USE_MEMORY", false),
		RewardRate:    int64(getEnvInt("REWARD_RATE_PER_TOKEN", 0)),
	}
}

// Validate checks the settings the verification path depends on. Every
// failure wraps ErrMisconfigured.
func (c *Config) Validate() error {
	if c.TokenMint == "" {
		return fmt.Errorf("%w: token mint is not set", ErrMisconfigured)
	}
	if c.TokenDecimals < 0 || c.TokenDecimals > 18 {
		return fmt.Errorf("%w: token decimals %d out of range", ErrMisconfigured, c.TokenDecimals)
	}
	if c.RPCEndpoint == "" {
		return fmt.Errorf("%w: rpc endpoint is not set", ErrMisconfigured)
	}
	if c.RewardRate < 0 {
		return fmt.Errorf("%w: reward rate must not be negative", ErrMisconfigured)
	}
	if !c.UseMemory && c.PostgresDSN == "" {
		return fmt.Errorf("%w: postgres dsn is not set (or enable in-memory storage)", ErrMisconfigured)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
