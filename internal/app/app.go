// Package app wires the configured providers, engine and presentation
// components into the operations shared by the CLI and the bot.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"SIPAdvisor/internal/advisor"
	"SIPAdvisor/internal/calculator"
	"SIPAdvisor/internal/collector"
	"SIPAdvisor/internal/config"
	"SIPAdvisor/internal/model"
	"SIPAdvisor/internal/notifier"
	"SIPAdvisor/internal/recorder"
	"SIPAdvisor/internal/scanner"
	"SIPAdvisor/internal/strategy"
)

// App holds all initialized components.
type App struct {
	Config    *config.Config
	Logger    arbor.ILogger
	Collector *collector.Collector
	Engine    *strategy.Engine
	Scanner   *scanner.Scanner
	Advisor   advisor.Advisor // nil when no Gemini key is configured
	Formatter *notifier.Formatter
	Recorder  recorder.Recorder
	Window    model.LookbackWindow
}

// NewApp builds every component from a validated config.
func NewApp(ctx context.Context, cfg *config.Config, logger arbor.ILogger) (*App, error) {
	window, err := cfg.Window()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidConfig, err)
	}
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}
	formatter, err := notifier.NewFormatter(cfg.Display.Currency, cfg.Display.CurrencySymbol)
	if err != nil {
		return nil, err
	}

	var provider collector.Provider
	switch cfg.DataSource.Kind {
	case "yahoo":
		provider = collector.NewYahooClient(cfg.DataSource.YahooBaseURL, cfg.Timeout(), cfg.Proxy)
	default:
		provider = collector.NewMFAPIClient(cfg.DataSource.MFAPIBaseURL, cfg.Timeout(), cfg.Proxy)
	}
	logger.Info().Str("source", provider.Name()).Msg("Data source selected")

	engine := strategy.NewEngine(policy)
	col := collector.NewCollector(provider, provider, logger)

	a := &App{
		Config:    cfg,
		Logger:    logger,
		Collector: col,
		Engine:    engine,
		Scanner:   scanner.NewScanner(col, engine, logger),
		Formatter: formatter,
		Recorder:  recorder.NewNoopRecorder(),
		Window:    window,
	}

	if cfg.Gemini.APIKey != "" {
		adv, err := advisor.NewGeminiAdvisor(ctx, cfg.Gemini.APIKey,
			advisor.WithModel(cfg.Gemini.Model), advisor.WithLogger(logger))
		if err != nil {
			logger.Warn().Err(err).Msg("Gemini advisor unavailable")
		} else {
			a.Advisor = adv
		}
	}

	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("Init sqlite recorder failed, using noop")
		} else {
			a.Recorder = sr
		}
	}
	return a, nil
}

// Close releases the recorder.
func (a *App) Close() error {
	return a.Recorder.Close()
}

// ScanOptions returns the configured scan options for window.
func (a *App) ScanOptions(window model.LookbackWindow) scanner.Options {
	return scanner.Options{
		Window:      window,
		Category:    a.Config.Scan.Category,
		MinReturn:   a.Config.Scan.MinReturn,
		MinPoints:   a.Config.Scan.MinPoints,
		Limit:       a.Config.Scan.Limit,
		Concurrency: a.Config.Scan.Concurrency,
	}
}

// SignalReport is the evaluation of one instrument plus the optional
// advisor opinion.
type SignalReport struct {
	Series    *model.Series
	Result    *model.ReturnResult
	Window    []model.PricePoint
	Advice    string
	AdviceErr error
}

// Signal resolves query, evaluates it over window and asks the advisor when
// one is configured. Advisor failures never fail the evaluation.
func (a *App) Signal(ctx context.Context, query string, pick int, window model.LookbackWindow, source string) (*SignalReport, error) {
	series, err := a.Collector.Resolve(ctx, query, pick)
	if err != nil {
		return nil, err
	}
	return a.evaluate(ctx, series, window, source, true)
}

// SignalFor evaluates a known instrument id without consulting the advisor.
func (a *App) SignalFor(ctx context.Context, id string, window model.LookbackWindow, source string) (*SignalReport, error) {
	series, err := a.Collector.Load(ctx, model.Instrument{ID: id})
	if err != nil {
		return nil, err
	}
	return a.evaluate(ctx, series, window, source, false)
}

func (a *App) evaluate(ctx context.Context, series *model.Series, window model.LookbackWindow, source string, advise bool) (*SignalReport, error) {
	res, sub, err := a.Engine.EvaluateSelected(series, window)
	if err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", series.Instrument.ID, err)
	}
	rep := &SignalReport{Series: series, Result: res, Window: sub}

	if advise && a.Advisor != nil {
		results, _ := a.Engine.EvaluateWindows(series, model.Windows)
		summary := advisor.FactSummary(series.Instrument, results, rep.Window)
		rep.Advice, rep.AdviceErr = a.Advisor.Advise(ctx, summary)
		if rep.AdviceErr != nil {
			a.Logger.Warn().Err(rep.AdviceErr).Str("id", series.Instrument.ID).Msg("Advisor failed")
		}
	}

	if err := a.Recorder.RecordEvaluation(ctx, &recorder.EvaluationEvent{
		Source: source, Instrument: series.Instrument, Result: res,
	}); err != nil {
		a.Logger.Error().Err(err).Msg("Record evaluation failed")
	}
	return rep, nil
}

// RenderSignal formats a SignalReport.
func (a *App) RenderSignal(rep *SignalReport) string {
	var b strings.Builder
	b.WriteString(a.Formatter.FormatSignal(rep.Series.Instrument, rep.Result))
	b.WriteString(a.Formatter.FormatRange(rep.Window))
	if rep.Advice != "" {
		b.WriteString(notifier.FormatAdvice(rep.Result.Signal, rep.Advice))
	}
	return b.String()
}

// Returns evaluates every lookback window for the resolved instrument.
func (a *App) Returns(ctx context.Context, query string, pick int) (*model.Series, []model.WindowResult, error) {
	series, err := a.Collector.Resolve(ctx, query, pick)
	if err != nil {
		return nil, nil, err
	}
	results, err := a.Engine.EvaluateWindows(series, model.Windows)
	if err != nil {
		return nil, nil, fmt.Errorf("evaluate %s: %w", series.Instrument.ID, err)
	}
	return series, results, nil
}

// SIP projects a plan and its yearly schedule.
func (a *App) SIP(ctx context.Context, plan model.SipPlan, source string) (model.Projection, []model.YearBalance, error) {
	p, err := calculator.Project(plan)
	if err != nil {
		return model.Projection{}, nil, err
	}
	schedule, err := calculator.ProjectSchedule(plan)
	if err != nil {
		return model.Projection{}, nil, err
	}
	if err := a.Recorder.RecordProjection(ctx, &recorder.ProjectionEvent{
		Source: source, Plan: plan, Projection: p,
	}); err != nil {
		a.Logger.Error().Err(err).Msg("Record projection failed")
	}
	return p, schedule, nil
}

// Scan ranks the catalog matches for query.
func (a *App) Scan(ctx context.Context, query string, opts scanner.Options) (*scanner.Report, error) {
	rep, err := a.Scanner.Rank(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	evt := &recorder.ScanEvent{
		Query: query, Window: opts.Window,
		Evaluated: rep.Evaluated, Ranked: len(rep.Ranked), Skipped: len(rep.Skipped),
	}
	if len(rep.Ranked) > 0 {
		evt.TopID = rep.Ranked[0].Instrument.ID
		evt.TopReturn = rep.Ranked[0].Result.PctReturn
	}
	if err := a.Recorder.RecordScan(ctx, evt); err != nil {
		a.Logger.Error().Err(err).Msg("Record scan failed")
	}
	return rep, nil
}

// Watchlist evaluates each id over the default window. Each entry carries
// the previously recorded signal so changes can be highlighted.
func (a *App) Watchlist(ctx context.Context, ids []string, source string) []notifier.DigestEntry {
	entries := make([]notifier.DigestEntry, 0, len(ids))
	for _, id := range ids {
		entry := notifier.DigestEntry{Instrument: model.Instrument{ID: id}}
		if prev, ok, err := a.Recorder.LastSignal(ctx, id, a.Window); err != nil {
			a.Logger.Warn().Err(err).Str("id", id).Msg("Read last signal failed")
		} else if ok {
			entry.Previous = prev
		}
		rep, err := a.SignalFor(ctx, id, a.Window, source)
		if err != nil {
			a.Logger.Warn().Err(err).Str("id", id).Msg("Watchlist evaluation failed")
			entry.Err = err
		} else {
			entry.Instrument = rep.Series.Instrument
			entry.Result = rep.Result
		}
		entries = append(entries, entry)
	}
	return entries
}

// Digest formats watchlist entries as of now.
func (a *App) Digest(entries []notifier.DigestEntry) string {
	return a.Formatter.FormatDigest(time.Now(), entries)
}
