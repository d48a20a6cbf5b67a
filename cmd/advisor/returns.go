package main

import (
	"context"
	"flag"
	"strings"

	"github.com/google/subcommands"
)

type returnsCmd struct {
	pick int
}

func (*returnsCmd) Name() string { return "returns" }
func (*returnsCmd) Synopsis() string {
	return "show the return of a fund or stock over every lookback window"
}
func (*returnsCmd) Usage() string {
	return `advisor returns [-pick <n>] <query>
`
}

func (c *returnsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.pick, "pick", 0, "Index of the search match to use (0 is the first).")
}

func (c *returnsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	a, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	series, results, err := a.Returns(ctx, strings.Join(f.Args(), " "), c.pick)
	if err != nil {
		return fail(err)
	}
	printText(a.Formatter.FormatReturnsTable(series.Instrument, results))
	return subcommands.ExitSuccess
}
