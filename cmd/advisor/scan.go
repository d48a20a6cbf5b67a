package main

import (
	"context"
	"flag"
	"strings"

	"github.com/google/subcommands"
)

type scanCmd struct {
	window    string
	category  string
	minReturn float64
	limit     int
}

func (*scanCmd) Name() string     { return "scan" }
func (*scanCmd) Synopsis() string { return "rank the funds matching a query by their return" }
func (*scanCmd) Usage() string {
	return `advisor scan [-w <window>] [-category <text>] [-min <pct>] [-n <limit>] <query>

  Evaluates every match of <query> in parallel and prints the best ones.
  Flags left unset use the scan section of the configuration.
`
}

func (c *scanCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.window, "w", "", "Lookback window. Defaults to the configured window.")
	f.StringVar(&c.category, "category", "", "Only keep candidates whose category contains this text.")
	f.Float64Var(&c.minReturn, "min", 0, "Minimum return in percent.")
	f.IntVar(&c.limit, "n", 0, "Number of funds to keep.")
}

func (c *scanCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	a, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	window, err := windowFlag(c.window, a.Window)
	if err != nil {
		return fail(err)
	}
	opts := a.ScanOptions(window)
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "category":
			opts.Category = c.category
		case "min":
			opts.MinReturn = c.minReturn
		case "n":
			opts.Limit = c.limit
		}
	})

	rep, err := a.Scan(ctx, strings.Join(f.Args(), " "), opts)
	if err != nil {
		return fail(err)
	}
	printText(a.Formatter.FormatScan(rep))
	for _, s := range rep.Skipped {
		a.Logger.Debug().Str("id", s.Instrument.ID).Err(s.Err).Msg("Skipped")
	}
	return subcommands.ExitSuccess
}
