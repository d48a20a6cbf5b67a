package recorder

import (
	"context"

	"SIPAdvisor/internal/model"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordEvaluation(context.Context, *EvaluationEvent) error { return nil }
func (n *NoopRecorder) RecordProjection(context.Context, *ProjectionEvent) error { return nil }
func (n *NoopRecorder) RecordScan(context.Context, *ScanEvent) error             { return nil }
func (n *NoopRecorder) LastSignal(context.Context, string, model.LookbackWindow) (model.Signal, bool, error) {
	return "", false, nil
}
func (n *NoopRecorder) Close() error { return nil }
