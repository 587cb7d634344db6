package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/holdings"
	"github.com/etnz/holdings/date"
	"github.com/etnz/holdings/store"
	"github.com/google/subcommands"
)

type addCmd struct {
	raw holdings.RawTransaction
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a transaction" }
func (*addCmd) Usage() string {
	return `hold add -side <side> -s <symbol> -q <quantity> -price <price> [-cur <currency>] [options]

  Appends a transaction to the ledger, or inserts it in the SQLite store.
  Numbers may be written the spreadsheet way ("1.234,5"). Sides are buy,
  sell, dividend and withholding-tax (alış, satış, temettü and stopaj work too).

Usage Examples:
$ hold add -side buy -s THYAO -q 10 -price "250,5" -cur TRY -platform midas
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.raw.Date, "d", date.Today().String(), "Transaction date.")
	f.StringVar(&c.raw.Side, "side", "buy", "Transaction side.")
	f.StringVar(&c.raw.Symbol, "s", "", "Symbol.")
	f.StringVar(&c.raw.Quantity, "q", "", "Quantity.")
	f.StringVar(&c.raw.UnitPrice, "price", "", "Unit price.")
	f.StringVar(&c.raw.Commission, "commission", "", "Commission, added to the cost.")
	f.StringVar(&c.raw.Currency, "cur", "TRY", "Currency of the transaction.")
	f.StringVar(&c.raw.Cost, "cost", "", "Total cost. Derived from quantity, price and commission when empty.")
	f.StringVar(&c.raw.PortfolioID, "portfolio", "", "Portfolio.")
	f.StringVar(&c.raw.PlatformID, "platform", "", "Platform (broker).")
	f.StringVar(&c.raw.MarketID, "market", "", "Market.")
	f.StringVar(&c.raw.Memo, "memo", "", "Free text.")
}

func (c *addCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := holdings.ValidateCurrency(holdings.ParseCurrency(c.raw.Currency)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	var (
		tx  holdings.Transaction
		err error
	)
	if cfg.DatabasePath != "" {
		var db *store.SQLite
		db, err = store.OpenSQLite(cfg.DatabasePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
			return subcommands.ExitFailure
		}
		defer db.Close()
		tx, err = db.Add(ctx, c.raw)
	} else {
		tx, err = c.raw.Coerce(0)
		if err == nil {
			tx, err = store.NewJSONL(cfg.LedgerPath).Append(tx)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding transaction: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Added %s %s %s of %s (%s) as %s\n", tx.Side, tx.Quantity, tx.Symbol, tx.Cost, tx.Date, tx.ID)
	return subcommands.ExitSuccess
}
