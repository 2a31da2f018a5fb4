// Package config reads lunchtray settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Environment variable names.
const (
	EnvTaxRate        = "LUNCHTRAY_TAX_RATE"
	EnvLocale         = "LUNCHTRAY_LOCALE"
	EnvCurrency       = "LUNCHTRAY_CURRENCY"
	EnvCurrencySymbol = "LUNCHTRAY_CURRENCY_SYMBOL"
	EnvMenuFile       = "LUNCHTRAY_MENU_FILE"
	EnvLogLevel       = "LUNCHTRAY_LOG_LEVEL"
)

type Config struct {
	TaxRate        decimal.Decimal
	Locale         string
	Currency       string
	CurrencySymbol string
	// MenuFile is empty when the built-in menu should be used.
	MenuFile string
	LogLevel string
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		TaxRate:        decimal.RequireFromString("0.08"),
		Locale:         "en-US",
		Currency:       "USD",
		CurrencySymbol: "$",
		LogLevel:       "info",
	}
}

// LoadDotEnv loads KEY=VALUE pairs from files (".env" when none are given)
// into the process environment. Variables already set win. A missing file
// is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("config: load dotenv: %w", err)
	}
	return nil
}

// LoadFromEnv overlays environment variables on Default and validates the result.
func LoadFromEnv() (Config, error) {
	cfg := Default()
	cfg.Locale = getenv(EnvLocale, cfg.Locale)
	cfg.Currency = getenv(EnvCurrency, cfg.Currency)
	cfg.CurrencySymbol = getenv(EnvCurrencySymbol, cfg.CurrencySymbol)
	cfg.MenuFile = getenv(EnvMenuFile, cfg.MenuFile)
	cfg.LogLevel = getenv(EnvLogLevel, cfg.LogLevel)

	if v := os.Getenv(EnvTaxRate); v != "" {
		rate, err := decimal.NewFromString(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s=%q: %w", EnvTaxRate, v, err)
		}
		cfg.TaxRate = rate
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the fields that cannot be checked by the consumers.
func (c Config) Validate() error {
	if c.TaxRate.IsNegative() || c.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("config: tax rate %s must be within [0, 1]", c.TaxRate)
	}
	if c.Locale == "" {
		return errors.New("config: locale is empty")
	}
	if c.Currency == "" {
		return errors.New("config: currency is empty")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log level %q must be debug, info, warn or error", c.LogLevel)
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
