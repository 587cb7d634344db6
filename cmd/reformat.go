package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/holdings"
	"github.com/etnz/holdings/symbols"
	"github.com/google/subcommands"
)

type reformatCmd struct {
	sample   string
	symbol   string
	currency string
}

func (*reformatCmd) Name() string     { return "reformat" }
func (*reformatCmd) Synopsis() string { return "lay out a raw feed value like a sample" }
func (*reformatCmd) Usage() string {
	return `hold reformat [-sample <sample> | -s <symbol>] [-cur <currency>] <value>...

  Keeps as many digits of each value as the sample has decimals, or as the
  whole sample has when its integer part is at least as wide, and puts the
  decimal comma where the sample has it. With -s the sample comes from the
  symbols file.

Usage Examples:
$ hold reformat -sample "1,312719" -cur USD 123456
1,23456$
`
}

func (c *reformatCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.sample, "sample", "", "Desired layout, e.g. \"1,312719\".")
	f.StringVar(&c.symbol, "s", "", "Take the sample of this symbol from the symbols file.")
	f.StringVar(&c.currency, "cur", "TRY", "Currency whose glyph is appended.")
}

func (c *reformatCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one value is required.")
		return subcommands.ExitUsageError
	}
	sample := c.sample
	if c.symbol != "" {
		syms, err := symbols.Load(cfg.SymbolsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading symbols: %v\n", err)
			return subcommands.ExitFailure
		}
		s, ok := syms.DesiredSample(c.symbol)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: symbol %q has no sample.\n", c.symbol)
			return subcommands.ExitFailure
		}
		sample = s
	}

	cur := holdings.ParseCurrency(c.currency)
	status := subcommands.ExitSuccess
	for _, raw := range f.Args() {
		out, ok := holdings.Reformat(raw, sample, cur)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: %q has no digits.\n", raw)
			status = subcommands.ExitFailure
			continue
		}
		fmt.Println(out)
	}
	return status
}
