package main

import (
	"context"
	"flag"
	"strings"

	"github.com/google/subcommands"
)

type signalCmd struct {
	window string
	pick   int
}

func (*signalCmd) Name() string { return "signal" }
func (*signalCmd) Synopsis() string {
	return "compute the return and Buy/Hold/Sell signal of a fund or stock"
}
func (*signalCmd) Usage() string {
	return `advisor signal [-w <window>] [-pick <n>] <query>

  Searches the configured data source for <query>, loads the history of the
  selected match and classifies its return over the lookback window.
`
}

func (c *signalCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.window, "w", "", "Lookback window (1m, 3m, 6m, 1y, 2y, 3y, 5y, max). Defaults to the configured window.")
	f.IntVar(&c.pick, "pick", 0, "Index of the search match to use (0 is the first).")
}

func (c *signalCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	rep, err := a.Signal(ctx, strings.Join(f.Args(), " "), c.pick, window, "cli")
	if err != nil {
		return fail(err)
	}
	printText(a.RenderSignal(rep))
	return subcommands.ExitSuccess
}
