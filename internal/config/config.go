// Package config holds environment-backed runtime configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Defaults match the public mainnet endpoint and the balance floor the
// trading commands enforce before submitting anything.
const (
	DefaultAlgodAddress = "https://mainnet-api.algonode.cloud"
	DefaultNetwork      = "mainnet"
	DefaultWalletFile   = ".env"

	// DefaultMinBalanceMicro is the floor below which no transaction is
	// submitted: 0.003 ALGO.
	DefaultMinBalanceMicro uint64 = 3000

	// DefaultFeeReserveMicro is kept aside when sizing amounts: 0.002 ALGO.
	DefaultFeeReserveMicro uint64 = 2000

	DefaultPollInterval   = 2 * time.Second
	DefaultConfirmTimeout = 30 * time.Second
	DefaultMaxRetries     = 3
)

// Config is the validated runtime configuration shared by the commands.
type Config struct {
	Network      string `validate:"required,oneof=mainnet testnet betanet"`
	AlgodAddress string `validate:"required,url"`
	AlgodToken   string // empty for public endpoints
	WalletFile   string `validate:"required"`

	MinBalanceMicro uint64 `validate:"gt=0"`
	FeeReserveMicro uint64 `validate:"gt=0"`

	PollInterval   time.Duration `validate:"gt=0"`
	ConfirmTimeout time.Duration `validate:"gt=0"`
	MaxRetries     int           `validate:"gte=0,lte=10"`

	EnabledProtocols []string `validate:"required,min=1,dive,required"`
}

// FromEnv builds a Config from environment variables, falling back to
// defaults. Validation failures are returned, not logged.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Network:          envOr("ALGORAND_NETWORK", DefaultNetwork),
		AlgodAddress:     envOr("ALGOD_ADDRESS", DefaultAlgodAddress),
		AlgodToken:       os.Getenv("ALGOD_TOKEN"),
		WalletFile:       envOr("ALGORAND_WALLET_FILE", DefaultWalletFile),
		MinBalanceMicro:  DefaultMinBalanceMicro,
		FeeReserveMicro:  DefaultFeeReserveMicro,
		PollInterval:     DefaultPollInterval,
		ConfirmTimeout:   DefaultConfirmTimeout,
		MaxRetries:       DefaultMaxRetries,
		EnabledProtocols: splitList(envOr("ENABLED_PROTOCOLS", "tinyman_v2,folks_finance")),
	}

	if v := os.Getenv("MIN_BALANCE_MICROALGO"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse MIN_BALANCE_MICROALGO: %w", err)
		}
		cfg.MinBalanceMicro = n
	}
	if v := os.Getenv("CONFIRM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse CONFIRM_TIMEOUT: %w", err)
		}
		cfg.ConfirmTimeout = d
	}
	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse POLL_INTERVAL: %w", err)
		}
		cfg.PollInterval = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks structural constraints on the configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
