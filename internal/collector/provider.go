package collector

import (
	"context"

	"SIPAdvisor/internal/model"
)

// CatalogProvider searches instruments by free text.
type CatalogProvider interface {
	Search(ctx context.Context, query string) ([]model.Instrument, error)
	Name() string
}

// HistoryProvider loads the NAV or close-price history of one instrument.
// Failures wrap model.ErrDataUnavailable or model.ErrInsufficientData.
type HistoryProvider interface {
	FetchSeries(ctx context.Context, id string) (*model.Series, error)
	Name() string
}

// Provider is a data source that serves both search and history.
type Provider interface {
	CatalogProvider
	HistoryProvider
}
