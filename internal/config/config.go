package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"

	"puntoventa/backend/internal/domain"
)

type Config struct {
	Port          string `envconfig:"PORT" default:"8080"`
	AllowedOrigin string `envconfig:"ALLOWED_ORIGIN" default:"http://127.0.0.1:3000"`

	DatabaseURL    string `envconfig:"DATABASE_URL"`
	RedisAddr      string `envconfig:"REDIS_ADDR"`
	RedisPassword  string `envconfig:"REDIS_PASSWORD"`
	RedisDB        int    `envconfig:"REDIS_DB" default:"0"`
	DisplayChannel string `envconfig:"DISPLAY_CHANNEL" default:"puntoventa:display"`

	InvoicingURL       string `envconfig:"INVOICING_URL"`
	InvoicingToken     string `envconfig:"INVOICING_TOKEN"`
	InvoicingEnabled   bool   `envconfig:"INVOICING_ENABLED" default:"false"`
	InvoicingTimeoutMS int    `envconfig:"INVOICING_TIMEOUT_MS" default:"5000"`

	TaxRate string `envconfig:"TAX_RATE" default:"0.21"`

	AuthSecret            string `envconfig:"AUTH_SECRET"`
	AccessTokenTTLMinutes int    `envconfig:"ACCESS_TOKEN_TTL_MINUTES" default:"480"`

	SeedAdminPassword   string `envconfig:"SEED_ADMIN_PASSWORD"`
	SeedCashierPassword string `envconfig:"SEED_CASHIER_PASSWORD"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	cfg.AuthSecret = strings.TrimSpace(cfg.AuthSecret)
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := decimal.NewFromString(c.TaxRate); err != nil {
		return fmt.Errorf("invalid TAX_RATE %q: %w", c.TaxRate, err)
	}
	if c.InvoicingEnabled && c.InvoicingURL == "" {
		return errors.New("INVOICING_ENABLED requires INVOICING_URL")
	}
	if c.AccessTokenTTLMinutes < 1 {
		return errors.New("ACCESS_TOKEN_TTL_MINUTES must be at least 1")
	}
	return nil
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

func (c Config) InvoicingTimeout() time.Duration {
	if c.InvoicingTimeoutMS < 1 {
		return 5 * time.Second
	}
	return time.Duration(c.InvoicingTimeoutMS) * time.Millisecond
}

// Settings converts the validated config into the ledger's runtime settings.
func (c Config) Settings() domain.Settings {
	rate, err := decimal.NewFromString(c.TaxRate)
	if err != nil {
		rate = decimal.RequireFromString("0.21")
	}
	return domain.Settings{
		TaxRate:          rate,
		InvoicingEnabled: c.InvoicingEnabled,
	}
}
