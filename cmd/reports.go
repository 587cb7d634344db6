package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/holdings"
	"github.com/etnz/holdings/renderer"
	"github.com/google/subcommands"
)

// reportFlags are shared by the report commands.
type reportFlags struct {
	by         string
	portfolios string
	json       bool
}

func (r *reportFlags) set(f *flag.FlagSet, by string) {
	f.StringVar(&r.by, "by", by, "Grouping: symbol, platform, portfolio or all.")
	f.StringVar(&r.portfolios, "p", "", "Comma separated portfolios to report on. All by default.")
	f.BoolVar(&r.json, "json", false, "Print the raw report as JSON instead of markdown.")
}

// run evaluates and prints the report with render.
func (r *reportFlags) run(ctx context.Context, render func(holdings.Report) (string, error)) subcommands.ExitStatus {
	report, err := evaluate(ctx, r.portfolios, r.by)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error evaluating portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	if r.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding report: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	md, err := render(report)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering report: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}

type positionsCmd struct{ reportFlags }

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "display every open position with its unrealized P&L" }
func (*positionsCmd) Usage() string {
	return `hold positions [-by <grouping>] [-p <portfolios>] [-json]

  Matches the transactions lot by lot (FIFO) per group and symbol, and values
  each position at the current feed price. Positions without a price show "-"
  instead of a P&L.
`
}
func (c *positionsCmd) SetFlags(f *flag.FlagSet) { c.set(f, "symbol") }
func (c *positionsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, renderer.Positions)
}

type summaryCmd struct{ reportFlags }

func (*summaryCmd) Name() string { return "summary" }
func (*summaryCmd) Synopsis() string {
	return "display totals per group and currency, blended into the reference currency"
}
func (*summaryCmd) Usage() string {
	return `hold summary [-by <grouping>] [-p <portfolios>] [-json]

  Totals positions per group and currency. The blended total converts the
  reference currency and dollars (USD, USDT); other currencies are listed
  but left out of it.
`
}
func (c *summaryCmd) SetFlags(f *flag.FlagSet) { c.set(f, "all") }
func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, renderer.Summary)
}

type dailyCmd struct{ reportFlags }

func (*dailyCmd) Name() string     { return "daily" }
func (*dailyCmd) Synopsis() string { return "display the value weighted change of the day" }
func (*dailyCmd) Usage() string {
	return `hold daily [-by <grouping>] [-p <portfolios>] [-json]

  Uses the daily change published by the feed. Each position weighs its
  current value in the reference currency.
`
}
func (c *dailyCmd) SetFlags(f *flag.FlagSet) { c.set(f, "symbol") }
func (c *dailyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, renderer.Daily)
}
