package main

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"SIPAdvisor/internal/model"
)

type sipCmd struct {
	amount   float64
	years    int
	rate     float64
	schedule bool
}

func (*sipCmd) Name() string     { return "sip" }
func (*sipCmd) Synopsis() string { return "project the future value of a monthly SIP" }
func (*sipCmd) Usage() string {
	return `advisor sip -amount <monthly> -years <n> -rate <annual %> [-schedule]

  Contributions are made at the start of each month (annuity due) and
  compound monthly at rate/12.
`
}

func (c *sipCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.amount, "amount", 0, "Monthly contribution.")
	f.IntVar(&c.years, "years", 0, "Duration in years.")
	f.Float64Var(&c.rate, "rate", 0, "Expected annual return in percent.")
	f.BoolVar(&c.schedule, "schedule", false, "Also print the year-end balances.")
}

func (c *sipCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	plan := model.SipPlan{MonthlyAmount: c.amount, Years: c.years, AnnualRatePct: c.rate}
	p, schedule, err := a.SIP(ctx, plan, "cli")
	if err != nil {
		return fail(err)
	}
	if !c.schedule {
		schedule = nil
	}
	printText(a.Formatter.FormatProjection(plan, p, schedule))
	return subcommands.ExitSuccess
}
