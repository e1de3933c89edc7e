package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("TAX_RATE", "")
	os.Unsetenv("PORT")
	os.Unsetenv("TAX_RATE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("port = %q, want 8080", cfg.Port)
	}
	if cfg.TaxRate != "0.21" {
		t.Fatalf("tax rate = %q, want 0.21", cfg.TaxRate)
	}
	if cfg.Address() != ":8080" {
		t.Fatalf("address = %q", cfg.Address())
	}
}

func TestLoadDoesNotInjectWeakAuthDefaults(t *testing.T) {
	t.Setenv("AUTH_SECRET", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AuthSecret != "" {
		t.Fatalf("expected empty AUTH_SECRET when unset, got %q", cfg.AuthSecret)
	}
}

func TestValidate(t *testing.T) {
	cfg := Config{TaxRate: "0.21", AccessTokenTTLMinutes: 480}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	bad := cfg
	bad.TaxRate = "twenty-one"
	if err := bad.Validate(); err == nil {
		t.Fatalf("invalid tax rate accepted")
	}

	bad = cfg
	bad.InvoicingEnabled = true
	if err := bad.Validate(); err == nil {
		t.Fatalf("invoicing enabled without url accepted")
	}
}

func TestSettings(t *testing.T) {
	cfg := Config{TaxRate: "0.31", InvoicingEnabled: true}
	settings := cfg.Settings()
	if settings.TaxRate.String() != "0.31" {
		t.Fatalf("tax rate = %s", settings.TaxRate)
	}
	if !settings.InvoicingEnabled {
		t.Fatalf("invoicing not enabled")
	}
}
