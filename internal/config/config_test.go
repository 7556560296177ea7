package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Network:          "mainnet",
		AlgodAddress:     "https://mainnet-api.algonode.cloud",
		WalletFile:       ".env",
		MinBalanceMicro:  3000,
		FeeReserveMicro:  2000,
		PollInterval:     2 * time.Second,
		ConfirmTimeout:   30 * time.Second,
		MaxRetries:       3,
		EnabledProtocols: []string{"tinyman_v2"},
	}
}

func TestValidate_OK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestValidate_BadNetwork(t *testing.T) {
	cfg := validConfig()
	cfg.Network = "devnet"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown network")
	}
}

func TestValidate_BadEndpoint(t *testing.T) {
	cfg := validConfig()
	cfg.AlgodAddress = "not-a-url"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for malformed endpoint")
	}
}

func TestValidate_NoProtocols(t *testing.T) {
	cfg := validConfig()
	cfg.EnabledProtocols = nil
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty protocol list")
	}
}

func TestValidate_ZeroTimeout(t *testing.T) {
	cfg := validConfig()
	cfg.ConfirmTimeout = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero confirmation timeout")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("from env: %v", err)
	}

	if cfg.AlgodAddress != DefaultAlgodAddress {
		t.Errorf("expected default endpoint, got %s", cfg.AlgodAddress)
	}
	if cfg.MinBalanceMicro != DefaultMinBalanceMicro {
		t.Errorf("expected min balance %d, got %d", DefaultMinBalanceMicro, cfg.MinBalanceMicro)
	}
	if len(cfg.EnabledProtocols) == 0 {
		t.Error("expected default enabled protocols")
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("MIN_BALANCE_MICROALGO", "5000")
	t.Setenv("CONFIRM_TIMEOUT", "45s")
	t.Setenv("ENABLED_PROTOCOLS", "folks_finance")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("from env: %v", err)
	}

	if cfg.MinBalanceMicro != 5000 {
		t.Errorf("expected min balance 5000, got %d", cfg.MinBalanceMicro)
	}
	if cfg.ConfirmTimeout != 45*time.Second {
		t.Errorf("expected 45s timeout, got %s", cfg.ConfirmTimeout)
	}
	if len(cfg.EnabledProtocols) != 1 || cfg.EnabledProtocols[0] != "folks_finance" {
		t.Errorf("unexpected protocols: %v", cfg.EnabledProtocols)
	}
}

func TestFromEnv_BadOverride(t *testing.T) {
	t.Setenv("MIN_BALANCE_MICROALGO", "not-a-number")

	if _, err := FromEnv(); err == nil {
		t.Error("expected error for malformed balance override")
	}
}
