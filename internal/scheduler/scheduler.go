package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"SIPAdvisor/internal/app"
	"SIPAdvisor/internal/model"
	"SIPAdvisor/internal/notifier"
)

const sendRetries = 3

// retrySender is implemented by senders that can back off on failure.
type retrySender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the periodic watchlist report and answers bot commands.
type Scheduler struct {
	Cron      *cron.Cron
	App       *app.App
	Notifier  notifier.Sender
	Watchlist []string
	Ctx       context.Context
	logger    arbor.ILogger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, a *app.App, sender notifier.Sender, watchlist []string) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		App:       a,
		Notifier:  sender,
		Watchlist: watchlist,
		Ctx:       ctx,
		logger:    a.Logger,
	}
}

// Register adds the watchlist report task.
func (s *Scheduler) Register(watchlistCron string) error {
	if _, err := s.Cron.AddFunc(watchlistCron, s.watchlistTask); err != nil {
		return fmt.Errorf("register watchlist task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info().Int("watchlist", len(s.Watchlist)).Msg("Scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info().Msg("Scheduler stopped")
}

// RunWatchlistNow executes the watchlist task immediately.
func (s *Scheduler) RunWatchlistNow() {
	s.watchlistTask()
}

func (s *Scheduler) watchlistTask() {
	if len(s.Watchlist) == 0 {
		s.logger.Debug().Msg("Watchlist empty, nothing to report")
		return
	}
	s.logger.Info().Msg("Running watchlist task")
	entries := s.App.Watchlist(s.Ctx, s.Watchlist, "watch")
	s.trySend(s.App.Digest(entries))
}

const helpText = "Available commands:\n" +
	"• /signal &lt;query&gt; [window]\n" +
	"• /returns &lt;query&gt;\n" +
	"• /sip &lt;amount&gt; &lt;years&gt; &lt;rate%&gt;\n" +
	"• /scan &lt;query&gt;\n" +
	"• /watchlist"

func (s *Scheduler) help() string {
	if s.App == nil || s.App.Engine == nil {
		return helpText
	}
	return helpText + "\n\nSignals: " + notifier.FormatRules(s.App.Engine.Policy())
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return s.help()
	}
	// Telegram appends the bot name in groups: /signal@SIPAdvisorBot
	name, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")
	args := fields[1:]

	switch name {
	case "/signal":
		return s.handleSignal(ctx, args)
	case "/returns":
		return s.handleReturns(ctx, args)
	case "/sip":
		return s.handleSIP(ctx, args)
	case "/scan":
		return s.handleScan(ctx, args)
	case "/watchlist":
		if len(s.Watchlist) == 0 {
			return "Watchlist is empty."
		}
		return s.App.Digest(s.App.Watchlist(ctx, s.Watchlist, "telegram"))
	default:
		return s.help()
	}
}

func (s *Scheduler) handleSignal(ctx context.Context, args []string) string {
	if len(args) == 0 {
		return "Usage: /signal &lt;query&gt; [window]"
	}
	window := s.App.Window
	if len(args) > 1 {
		if w, err := model.ParseLookbackWindow(args[len(args)-1]); err == nil {
			window = w
			args = args[:len(args)-1]
		}
	}
	rep, err := s.App.Signal(ctx, strings.Join(args, " "), 0, window, "telegram")
	if err != nil {
		return failure(err)
	}
	return s.App.RenderSignal(rep)
}

func (s *Scheduler) handleReturns(ctx context.Context, args []string) string {
	if len(args) == 0 {
		return "Usage: /returns &lt;query&gt;"
	}
	series, results, err := s.App.Returns(ctx, strings.Join(args, " "), 0)
	if err != nil {
		return failure(err)
	}
	return s.App.Formatter.FormatReturnsTable(series.Instrument, results)
}

func (s *Scheduler) handleSIP(ctx context.Context, args []string) string {
	const usage = "Usage: /sip &lt;amount&gt; &lt;years&gt; &lt;rate%&gt;"
	if len(args) != 3 {
		return usage
	}
	amount, err1 := strconv.ParseFloat(args[0], 64)
	years, err2 := strconv.Atoi(args[1])
	rate, err3 := strconv.ParseFloat(strings.TrimSuffix(args[2], "%"), 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return usage
	}
	plan := model.SipPlan{MonthlyAmount: amount, Years: years, AnnualRatePct: rate}
	p, schedule, err := s.App.SIP(ctx, plan, "telegram")
	if err != nil {
		return failure(err)
	}
	return s.App.Formatter.FormatProjection(plan, p, schedule)
}

func (s *Scheduler) handleScan(ctx context.Context, args []string) string {
	if len(args) == 0 {
		return "Usage: /scan &lt;query&gt;"
	}
	rep, err := s.App.Scan(ctx, strings.Join(args, " "), s.App.ScanOptions(s.App.Window))
	if err != nil {
		return failure(err)
	}
	return s.App.Formatter.FormatScan(rep)
}

func failure(err error) string {
	return "❌ " + notifier.EscapeError(err)
}

func (s *Scheduler) trySend(text string) {
	var err error
	if rs, ok := s.Notifier.(retrySender); ok {
		err = rs.SendWithRetry(s.Ctx, text, sendRetries)
	} else {
		err = s.Notifier.Send(s.Ctx, text)
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Send notification failed")
	}
}
