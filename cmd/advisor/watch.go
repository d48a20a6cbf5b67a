package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"SIPAdvisor/internal/common"
	"SIPAdvisor/internal/model"
	"SIPAdvisor/internal/notifier"
	"SIPAdvisor/internal/scheduler"
)

type watchCmd struct {
	runOnStart bool
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "run the Telegram bot and the scheduled watchlist report" }
func (*watchCmd) Usage() string {
	return `advisor watch [-now]

  Requires telegram.bot_token and telegram.chat_id. Runs until interrupted.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.runOnStart, "now", false, "Send the watchlist report once at startup.")
}

func (c *watchCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	cfg := a.Config
	if !cfg.TelegramEnabled() {
		return fail(fmt.Errorf("%w: telegram.bot_token and telegram.chat_id are required", model.ErrInvalidConfig))
	}
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, a.Logger)

	sched := scheduler.NewScheduler(ctx, a, tn, cfg.Watchlist)
	if err := sched.Register(cfg.Schedule.WatchlistCron); err != nil {
		return fail(err)
	}
	sched.Start()
	defer sched.Stop()

	if c.runOnStart || cfg.Schedule.RunOnStart {
		go sched.RunWatchlistNow()
	}

	common.PrintBanner([][2]string{
		{"Data source", a.Collector.History.Name()},
		{"Window", a.Window.Label()},
		{"Watchlist", fmt.Sprintf("%d instruments", len(cfg.Watchlist))},
		{"Schedule", cfg.Schedule.WatchlistCron},
		{"Advisor", advisorStatus(a.Advisor != nil)},
	}, a.Logger)

	tn.StartPolling(ctx, sched.HandleCommand)
	common.PrintShutdownBanner(a.Logger)
	return subcommands.ExitSuccess
}

func advisorStatus(enabled bool) string {
	if enabled {
		return "gemini"
	}
	return "disabled"
}
