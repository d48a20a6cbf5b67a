package scanner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ternarybob/arbor"
	"golang.org/x/sync/errgroup"

	"SIPAdvisor/internal/collector"
	"SIPAdvisor/internal/model"
	"SIPAdvisor/internal/strategy"
)

// Options control a ranking scan.
type Options struct {
	Window      model.LookbackWindow
	Category    string  // case-insensitive substring filter on the scheme category
	MinReturn   float64 // keep candidates with PctReturn >= MinReturn
	MinPoints   int     // skip candidates with fewer raw observations
	Limit       int     // keep the best Limit candidates; 0 keeps all
	Concurrency int
}

// Ranked is one evaluated candidate.
type Ranked struct {
	Instrument model.Instrument
	Result     model.ReturnResult
}

// Skipped records a candidate that could not be ranked and why.
type Skipped struct {
	Instrument model.Instrument
	Err        error
}

// Report is the outcome of a scan.
type Report struct {
	Query     string
	Window    model.LookbackWindow
	Evaluated int
	Ranked    []Ranked
	Skipped   []Skipped
}

// Scanner ranks catalog candidates by their return over a window.
type Scanner struct {
	collector *collector.Collector
	engine    *strategy.Engine
	logger    arbor.ILogger
}

// NewScanner creates a Scanner.
func NewScanner(col *collector.Collector, engine *strategy.Engine, logger arbor.ILogger) *Scanner {
	return &Scanner{collector: col, engine: engine, logger: logger}
}

// Rank searches query and ranks every candidate. Candidates that fail to load
// or evaluate are reported in Skipped rather than scored as 0%.
func (s *Scanner) Rank(ctx context.Context, query string, opts Options) (*Report, error) {
	candidates, err := s.collector.Candidates(ctx, query)
	if err != nil {
		return nil, err
	}
	report, err := s.RankInstruments(ctx, candidates, opts)
	if err != nil {
		return nil, err
	}
	report.Query = query
	return report, nil
}

// RankInstruments evaluates a known list of instruments concurrently.
func (s *Scanner) RankInstruments(ctx context.Context, candidates []model.Instrument, opts Options) (*Report, error) {
	if opts.Window == "" {
		return nil, fmt.Errorf("%w: scan window not set", model.ErrInvalidInput)
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}

	var (
		mu      sync.Mutex
		ranked  []Ranked
		skipped []Skipped
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for _, inst := range candidates {
		g.Go(func() error {
			res, series, err := s.evaluate(gctx, inst, opts)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				s.logger.Warn().Str("id", inst.ID).Err(err).Msg("Skipping candidate")
				skipped = append(skipped, Skipped{Instrument: inst, Err: err})
				return nil
			}
			if res == nil {
				return nil // filtered out
			}
			ranked = append(ranked, Ranked{Instrument: series.Instrument, Result: *res})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Result.PctReturn != ranked[j].Result.PctReturn {
			return ranked[i].Result.PctReturn > ranked[j].Result.PctReturn
		}
		return ranked[i].Instrument.ID < ranked[j].Instrument.ID
	})
	if opts.Limit > 0 && len(ranked) > opts.Limit {
		ranked = ranked[:opts.Limit]
	}
	sort.Slice(skipped, func(i, j int) bool { return skipped[i].Instrument.ID < skipped[j].Instrument.ID })

	s.logger.Info().Str("window", string(opts.Window)).Int("candidates", len(candidates)).
		Int("ranked", len(ranked)).Int("skipped", len(skipped)).Msg("Scan complete")

	return &Report{
		Window:    opts.Window,
		Evaluated: len(candidates),
		Ranked:    ranked,
		Skipped:   skipped,
	}, nil
}

// evaluate returns a nil result without error when the candidate is filtered out.
func (s *Scanner) evaluate(ctx context.Context, inst model.Instrument, opts Options) (*model.ReturnResult, *model.Series, error) {
	series, err := s.collector.Load(ctx, inst)
	if err != nil {
		return nil, nil, err
	}
	if opts.Category != "" && !strings.Contains(strings.ToLower(series.Instrument.Category), strings.ToLower(opts.Category)) {
		return nil, series, nil
	}
	if opts.MinPoints > 0 && series.Len() < opts.MinPoints {
		return nil, nil, fmt.Errorf("%w: %d observations, need %d", model.ErrInsufficientData, series.Len(), opts.MinPoints)
	}
	res, err := s.engine.Evaluate(series, opts.Window)
	if err != nil {
		return nil, nil, err
	}
	if res.PctReturn < opts.MinReturn {
		return nil, series, nil
	}
	return res, series, nil
}
