package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/holdings"
	"github.com/etnz/holdings/store"
	"github.com/google/subcommands"
	"github.com/google/uuid"
)

type fmtCmd struct {
	output string
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "rewrite the ledger file in its canonical form"
}
func (*fmtCmd) Usage() string {
	return `hold fmt [-o <file>]

  Reads every transaction of the JSONL ledger, sorts them by date (same-day
  transactions keep their order), gives an id to those without one, and
  writes them back one per line. Unreadable lines are dropped with a warning.
  By default the ledger is rewritten in-place.
`
}

func (c *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Write the formatted ledger to this file instead.")
}

func (c *fmtCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	txs, err := store.NewJSONL(cfg.LedgerPath).ListTransactions(ctx, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(txs) == 0 {
		fmt.Fprintf(os.Stderr, "Warning: no transactions to format.\n")
		return subcommands.ExitSuccess
	}

	var buf bytes.Buffer
	for _, tx := range holdings.SortTransactions(txs) {
		if tx.ID == "" {
			tx.ID = uuid.NewString()
		}
		if err := store.EncodeTransaction(&buf, tx); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding transaction: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	output := c.output
	if output == "" {
		output = cfg.LedgerPath
	}
	if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing ledger %q: %v\n", output, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Formatted %d transactions into %s\n", len(txs), output)
	return subcommands.ExitSuccess
}
