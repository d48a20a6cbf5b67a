package recorder

import (
	"context"

	"SIPAdvisor/internal/model"
)

// EvaluationEvent is one signal evaluation of an instrument.
type EvaluationEvent struct {
	Source     string // "cli", "watch" or "telegram"
	Instrument model.Instrument
	Result     *model.ReturnResult
}

// ProjectionEvent is one SIP projection.
type ProjectionEvent struct {
	Source     string
	Plan       model.SipPlan
	Projection model.Projection
}

// ScanEvent summarizes one ranking scan.
type ScanEvent struct {
	Query     string
	Window    model.LookbackWindow
	Evaluated int
	Ranked    int
	Skipped   int
	TopID     string
	TopReturn float64
}

// Recorder keeps an append-only history of evaluations. It stores engine
// output only, never user data.
type Recorder interface {
	RecordEvaluation(ctx context.Context, evt *EvaluationEvent) error
	RecordProjection(ctx context.Context, evt *ProjectionEvent) error
	RecordScan(ctx context.Context, evt *ScanEvent) error
	// LastSignal returns the most recently recorded signal for an instrument
	// evaluated over window.
	LastSignal(ctx context.Context, instrumentID string, window model.LookbackWindow) (model.Signal, bool, error)
	Close() error
}
