package model

import "time"

// InstrumentKind distinguishes mutual-fund schemes from listed stocks.
type InstrumentKind string

const (
	KindFund  InstrumentKind = "FUND"
	KindStock InstrumentKind = "STOCK"
)

// Instrument is a catalog candidate returned by a search.
type Instrument struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Category string         `json:"category,omitempty"`
	Kind     InstrumentKind `json:"kind"`
}

// PricePoint is one NAV or close-price observation.
type PricePoint struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// Series holds the raw history for one instrument as delivered by a provider.
// Points may arrive unsorted or with duplicate timestamps; the calculator
// normalizes a copy before use.
type Series struct {
	Instrument Instrument
	Points     []PricePoint
	FetchedAt  time.Time
}

// Len returns the number of raw points.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Points)
}
