package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/iho/ledgersync/internal/domain"
)

const dateFormat = "2006-01-02"

// Config holds all application configuration. No other component reads the
// environment directly.
type Config struct {
	// Source platform
	StripeKey string `env:"STRIPE_SK"`

	// Target ledger
	XeroTenantID     string `env:"XERO_TENANT_ID"`
	XeroClientID     string `env:"XERO_CLIENT_ID"`
	XeroClientSecret string `env:"XERO_CLIENT_SECRET"`

	// Contact receiving processor fee bills
	ProcessorContactID string `env:"XERO_STRIPE_CONTACT_ID"`

	// Account codes threaded onto generated records
	SalesAccount    string `env:"XERO_ACCOUNT_STRIPE_SALES"`
	FeesAccount     string `env:"XERO_ACCOUNT_STRIPE_FEES"`
	PaymentsAccount string `env:"XERO_ACCOUNT_STRIPE_PAYMENTS"`

	// Processing window (subscription start/end dates)
	StartDate string `env:"START_DATE" envDefault:"2022-01-01"`
	EndDate   string `env:"END_DATE"   envDefault:"2022-12-31"`

	// Run behavior
	DryRun           bool `env:"DRY_RUN"            envDefault:"false"`
	OnlyPaidInvoices bool `env:"ONLY_PAID_INVOICES" envDefault:"true"`
	MaxEntities      int  `env:"MAX_ENTITIES"       envDefault:"600"`

	// HTTP
	HTTPTimeout       time.Duration `env:"HTTP_TIMEOUT"        envDefault:"30s"`
	OAuthCallbackPort string        `env:"OAUTH_CALLBACK_PORT" envDefault:"54071"`
	MetricsAddr       string        `env:"METRICS_ADDR"        envDefault:""`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`
}

// Load loads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, domain.Fatal(domain.PhaseConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, domain.Fatal(domain.PhaseConfig, err)
	}
	return cfg, nil
}

// Validate checks that every required setting is present and the window is
// sane.
func (c *Config) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"STRIPE_SK", c.StripeKey},
		{"XERO_TENANT_ID", c.XeroTenantID},
		{"XERO_CLIENT_ID", c.XeroClientID},
		{"XERO_CLIENT_SECRET", c.XeroClientSecret},
		{"XERO_STRIPE_CONTACT_ID", c.ProcessorContactID},
		{"XERO_ACCOUNT_STRIPE_SALES", c.SalesAccount},
		{"XERO_ACCOUNT_STRIPE_FEES", c.FeesAccount},
		{"XERO_ACCOUNT_STRIPE_PAYMENTS", c.PaymentsAccount},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("please configure $%s in the environment", r.key)
		}
	}

	if _, _, err := c.Window(); err != nil {
		return err
	}
	return nil
}

// Window returns the processing window as parsed dates.
func (c *Config) Window() (from, to time.Time, err error) {
	from, err = time.Parse(dateFormat, c.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse START_DATE: %w", err)
	}
	to, err = time.Parse(dateFormat, c.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse END_DATE: %w", err)
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, domain.ErrInvalidDateRange
	}
	return from, to, nil
}
