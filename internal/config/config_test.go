package config

import "testing"

func TestLoadWithNoFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Symbol != "BTCUSDT" {
		t.Errorf("symbol = %q, want BTCUSDT", cfg.Symbol)
	}
	if cfg.Quoting.Gamma != 0.1 || cfg.Quoting.K != 1.5 {
		t.Errorf("quoting defaults = %+v", cfg.Quoting)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.ListenAddr != ":9090" {
		t.Errorf("metrics defaults = %+v", cfg.Metrics)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate on defaults returned error: %v", err)
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	cfg := Defaults()
	cfg.Quoting.Gamma = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected Validate to reject gamma <= 0")
	}
}

func TestValidateRejectsEnabledMetricsWithoutAddr(t *testing.T) {
	cfg := Defaults()
	cfg.Metrics.ListenAddr = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected Validate to reject metrics.enabled with empty listen_addr")
	}
}
