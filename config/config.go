// Package config loads the settings of the hold command from the environment.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/etnz/holdings"
	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	LedgerPath   string // JSONL ledger, used when DatabasePath is empty
	DatabasePath string // SQLite store
	QuotesURL    string
	QuotesFormat string // csv or json
	SymbolsPath  string
	CacheDir     string
	Reference    holdings.Currency
	LogLevel     string
	Listen       string
	Schedule     string // cron schedule of the watch command
}

// Load reads a .env file if there is one, then the environment.
func Load(files ...string) (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load(files...)

	cfg := &Config{
		LedgerPath:   getEnv("HOLDINGS_LEDGER", "transactions.jsonl"),
		DatabasePath: getEnv("HOLDINGS_DB", ""),
		QuotesURL:    getEnv("HOLDINGS_QUOTES_URL", ""),
		QuotesFormat: strings.ToLower(getEnv("HOLDINGS_QUOTES_FORMAT", "csv")),
		SymbolsPath:  getEnv("HOLDINGS_SYMBOLS", "symbols.yaml"),
		CacheDir:     getEnv("HOLDINGS_CACHE_DIR", ""),
		Reference:    holdings.ParseCurrency(getEnv("HOLDINGS_REFERENCE", "TRY")),
		LogLevel:     getEnv("HOLDINGS_LOG_LEVEL", "info"),
		Listen:       getEnv("HOLDINGS_LISTEN", ":8080"),
		Schedule:     getEnv("HOLDINGS_SCHEDULE", "*/15 * * * *"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that have a fixed domain.
func (c *Config) Validate() error {
	if err := holdings.ValidateCurrency(c.Reference); err != nil {
		return fmt.Errorf("HOLDINGS_REFERENCE: %w", err)
	}
	switch c.QuotesFormat {
	case "csv", "json":
	default:
		return fmt.Errorf("HOLDINGS_QUOTES_FORMAT: unknown format %q (want csv or json)", c.QuotesFormat)
	}
	if c.LedgerPath == "" && c.DatabasePath == "" {
		return fmt.Errorf("one of HOLDINGS_LEDGER or HOLDINGS_DB is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
