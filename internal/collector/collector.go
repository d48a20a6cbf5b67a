package collector

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"SIPAdvisor/internal/model"
)

// Collector resolves a user query to an instrument and loads its history.
type Collector struct {
	Catalog CatalogProvider
	History HistoryProvider
	logger  arbor.ILogger
}

// NewCollector creates a new Collector.
func NewCollector(catalog CatalogProvider, history HistoryProvider, logger arbor.ILogger) *Collector {
	return &Collector{Catalog: catalog, History: history, logger: logger}
}

// Candidates returns the catalog matches for query.
func (c *Collector) Candidates(ctx context.Context, query string) ([]model.Instrument, error) {
	found, err := c.Catalog.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	c.logger.Debug().Str("source", c.Catalog.Name()).Str("query", query).Int("matches", len(found)).Msg("Catalog search")
	if len(found) == 0 {
		return nil, fmt.Errorf("search %q: %w: no matching instruments", query, model.ErrDataUnavailable)
	}
	return found, nil
}

// Resolve searches query and loads the series of the pick-th candidate
// (0 is the first match).
func (c *Collector) Resolve(ctx context.Context, query string, pick int) (*model.Series, error) {
	found, err := c.Candidates(ctx, query)
	if err != nil {
		return nil, err
	}
	if pick < 0 || pick >= len(found) {
		return nil, fmt.Errorf("%w: candidate %d requested, %d available", model.ErrInvalidInput, pick, len(found))
	}
	return c.Load(ctx, found[pick])
}

// Load fetches the series for a known instrument. Catalog metadata fills in
// whatever the history provider left empty.
func (c *Collector) Load(ctx context.Context, inst model.Instrument) (*model.Series, error) {
	series, err := c.History.FetchSeries(ctx, inst.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", inst.ID, err)
	}
	if series.Instrument.Name == "" || series.Instrument.Name == inst.ID {
		series.Instrument.Name = inst.Name
	}
	if series.Instrument.Category == "" {
		series.Instrument.Category = inst.Category
	}
	if series.Instrument.Kind == "" {
		series.Instrument.Kind = inst.Kind
	}
	c.logger.Debug().Str("source", c.History.Name()).Str("id", inst.ID).Int("points", series.Len()).Msg("Series loaded")
	return series, nil
}
