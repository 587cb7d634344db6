package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/etnz/holdings"
	"github.com/etnz/holdings/renderer"
	"github.com/google/subcommands"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type watchCmd struct {
	schedule string
	print    bool
	reportFlags
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "recompute the summary on a schedule" }
func (*watchCmd) Usage() string {
	return `hold watch [-schedule <cron>] [-print] [-by <grouping>] [-p <portfolios>]

  Reloads the transactions and the quotes on every tick of the cron schedule
  and logs the blended value and the change of the day. With -print the
  summary is printed too.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.schedule, "schedule", "", "Cron schedule. Overrides HOLDINGS_SCHEDULE.")
	f.BoolVar(&c.print, "print", false, "Print the summary on every tick.")
	c.set(f, "all")
}

func (c *watchCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	override(&cfg.Schedule, c.schedule)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched := cron.New()
	if _, err := sched.AddFunc(cfg.Schedule, func() { c.tick(ctx) }); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid schedule %q: %v\n", cfg.Schedule, err)
		return subcommands.ExitUsageError
	}
	log.Info().Str("schedule", cfg.Schedule).Msg("watching")
	c.tick(ctx)
	sched.Start()

	<-ctx.Done()
	<-sched.Stop().Done()
	return subcommands.ExitSuccess
}

// tick evaluates once. Failures are logged, the next tick tries again.
func (c *watchCmd) tick(ctx context.Context) {
	report, err := evaluate(ctx, c.portfolios, c.by)
	if err != nil {
		log.Error().Err(err).Msg("evaluation failed")
		return
	}
	logReport(log.Logger, report)
	if c.print {
		md, err := renderer.Summary(report)
		if err != nil {
			log.Error().Err(err).Msg("rendering failed")
			return
		}
		printMarkdown(md)
	}
}

// logReport logs the headline figures of r as a single event.
func logReport(l zerolog.Logger, r holdings.Report) {
	unconverted := make([]string, 0, len(r.Blended.Unconverted))
	for _, c := range r.Blended.Unconverted {
		unconverted = append(unconverted, string(c))
	}
	unpriced := 0
	for _, b := range r.Buckets {
		unpriced += b.Unpriced
	}
	l.Info().
		Str("value", r.Blended.CurrentValue.String()).
		Str("pnl", r.Blended.PnL.SignedString()).
		Str("unpricedCost", r.Blended.UnpricedCost.String()).
		Str("day", r.Daily.WeightedPct.SignedString()).
		Strs("unconverted", unconverted).
		Int("unpriced", unpriced).
		Msg("portfolio")
}
