// Package cmd implements the hold CLI application.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"strings"

	"github.com/etnz/holdings"
	"github.com/etnz/holdings/config"
	"github.com/etnz/holdings/feed"
	"github.com/etnz/holdings/store"
	"github.com/etnz/holdings/symbols"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
)

// Register the subcommands.
// A main package will call Register(), then Setup() once flags are parsed,
// and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&positionsCmd{}, "reports")
	c.Register(&summaryCmd{}, "reports")
	c.Register(&dailyCmd{}, "reports")

	c.Register(&addCmd{}, "transactions")
	c.Register(&fmtCmd{}, "transactions")
	c.Register(&reformatCmd{}, "transactions")

	c.Register(&serveCmd{}, "service")
	c.Register(&watchCmd{}, "service")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	ledgerFlag    = flag.String("ledger", "", "Path to the JSONL ledger. Overrides HOLDINGS_LEDGER.")
	dbFlag        = flag.String("db", "", "Path to a SQLite store, used instead of the ledger. Overrides HOLDINGS_DB.")
	quotesFlag    = flag.String("quotes", "", "URL of the quotes export. Overrides HOLDINGS_QUOTES_URL.")
	symbolsFlag   = flag.String("symbols", "", "Path to the symbols YAML file. Overrides HOLDINGS_SYMBOLS.")
	referenceFlag = flag.String("reference", "", "Reference currency of blended totals. Overrides HOLDINGS_REFERENCE.")
	logLevelFlag  = flag.String("log-level", "", "Log level (debug, info, warn, error). Overrides HOLDINGS_LOG_LEVEL.")
)

var cfg *config.Config

// Setup loads the configuration, applies the global flags and configures
// logging.
func Setup() error {
	c, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	override(&c.LedgerPath, *ledgerFlag)
	override(&c.DatabasePath, *dbFlag)
	override(&c.QuotesURL, *quotesFlag)
	override(&c.SymbolsPath, *symbolsFlag)
	override(&c.LogLevel, *logLevelFlag)
	if *referenceFlag != "" {
		c.Reference = holdings.ParseCurrency(*referenceFlag)
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cfg = c
	setupLogging(cfg.LogLevel)
	return nil
}

func override(dst *string, flagValue string) {
	if flagValue != "" {
		*dst = flagValue
	}
}

// transactionStore is what the commands need from a store.
type transactionStore interface {
	holdings.TransactionStore
	Close() error
}

type jsonlStore struct{ *store.JSONL }

func (jsonlStore) Close() error { return nil }

// openStore opens the SQLite store when configured, the JSONL ledger
// otherwise.
func openStore() (transactionStore, error) {
	if cfg.DatabasePath != "" {
		log.Debug().Str("path", cfg.DatabasePath).Msg("opening sqlite store")
		return store.OpenSQLite(cfg.DatabasePath)
	}
	log.Debug().Str("path", cfg.LedgerPath).Msg("opening ledger")
	return jsonlStore{store.NewJSONL(cfg.LedgerPath)}, nil
}

// collect returns the transactions of a comma separated list of portfolios,
// all of them when empty.
func collect(ctx context.Context, s holdings.TransactionStore, portfolios string) ([]holdings.Transaction, error) {
	ids := []string{""}
	if portfolios != "" {
		ids = strings.Split(portfolios, ",")
	}
	snap, err := holdings.Collect(ctx, s, ids...)
	if err != nil {
		return nil, err
	}
	return snap.Transactions, nil
}

// quotesClient caches quote downloads for the day when a cache directory is
// configured.
func quotesClient() *http.Client {
	if cfg.CacheDir == "" {
		return http.DefaultClient
	}
	return feed.Daily(cfg.CacheDir)
}

// loadFeed fetches the configured quotes. Without a URL every price is
// unknown.
func loadFeed(ctx context.Context, client *http.Client) (holdings.PriceFeed, error) {
	if cfg.QuotesURL == "" {
		log.Warn().Msg("no quotes URL configured, every price is unknown")
		return feed.NewStatic(), nil
	}
	var (
		s   *feed.Static
		err error
	)
	switch cfg.QuotesFormat {
	case "json":
		s, err = feed.DefaultJSON(cfg.QuotesURL, client).Fetch(ctx)
	default:
		s, err = (&feed.CSV{URL: cfg.QuotesURL, Client: client}).Fetch(ctx)
	}
	if err != nil {
		return nil, err
	}
	quotes, rates := s.Len()
	log.Debug().Int("quotes", quotes).Int("rates", rates).Msg("quotes loaded")
	return s, nil
}

// newEngine builds an engine over a fresh feed snapshot.
func newEngine(ctx context.Context, client *http.Client) (*holdings.Engine, error) {
	f, err := loadFeed(ctx, client)
	if err != nil {
		return nil, err
	}
	syms, err := symbols.Load(cfg.SymbolsPath)
	if err != nil {
		return nil, err
	}
	return holdings.NewEngine(f, syms, cfg.Reference)
}

// evaluate is the common path of the report commands.
func evaluate(ctx context.Context, portfolios, by string) (holdings.Report, error) {
	kind, err := holdings.ParseGroupKind(by)
	if err != nil {
		return holdings.Report{}, err
	}
	s, err := openStore()
	if err != nil {
		return holdings.Report{}, err
	}
	defer s.Close()

	txs, err := collect(ctx, s, portfolios)
	if err != nil {
		return holdings.Report{}, err
	}
	e, err := newEngine(ctx, quotesClient())
	if err != nil {
		return holdings.Report{}, err
	}
	return e.Evaluate(txs, kind), nil
}
