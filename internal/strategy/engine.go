package strategy

import (
	"fmt"

	"SIPAdvisor/internal/calculator"
	"SIPAdvisor/internal/model"
)

// Engine evaluates series against a classification policy. It holds no
// mutable state and may be shared between goroutines.
type Engine struct {
	policy *Policy
}

// NewEngine creates an Engine. A nil policy selects DefaultPolicy.
func NewEngine(policy *Policy) *Engine {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &Engine{policy: policy}
}

// Policy returns the engine's classification policy.
func (e *Engine) Policy() *Policy { return e.policy }

// Evaluate computes the return and signal of series over window.
func (e *Engine) Evaluate(series *model.Series, window model.LookbackWindow) (*model.ReturnResult, error) {
	res, _, err := e.EvaluateSelected(series, window)
	return res, err
}

// EvaluateSelected is Evaluate that also returns the normalized points the
// result was computed from.
func (e *Engine) EvaluateSelected(series *model.Series, window model.LookbackWindow) (*model.ReturnResult, []model.PricePoint, error) {
	if series == nil {
		return nil, nil, fmt.Errorf("%w: nil series", model.ErrInsufficientData)
	}
	points, err := calculator.Normalize(series.Points)
	if err != nil {
		return nil, nil, err
	}
	return e.evaluateNormalized(points, window)
}

// EvaluateWindows evaluates the same series over several windows. A window the
// series cannot cover carries its own error; the others are still computed.
// An error is returned only when the series itself is unusable.
func (e *Engine) EvaluateWindows(series *model.Series, windows []model.LookbackWindow) ([]model.WindowResult, error) {
	if series == nil {
		return nil, fmt.Errorf("%w: nil series", model.ErrInsufficientData)
	}
	points, err := calculator.Normalize(series.Points)
	if err != nil {
		return nil, err
	}
	out := make([]model.WindowResult, 0, len(windows))
	for _, w := range windows {
		res, _, err := e.evaluateNormalized(points, w)
		out = append(out, model.WindowResult{Window: w, Result: res, Err: err})
	}
	return out, nil
}

func (e *Engine) evaluateNormalized(points []model.PricePoint, window model.LookbackWindow) (*model.ReturnResult, []model.PricePoint, error) {
	sub, err := calculator.SelectWindow(points, window)
	if err != nil {
		return nil, nil, err
	}
	res, err := calculator.ComputeReturn(sub)
	if err != nil {
		return nil, nil, err
	}
	res.Window = window
	res.Signal = e.policy.Classify(res.PctReturn)
	return &res, sub, nil
}
