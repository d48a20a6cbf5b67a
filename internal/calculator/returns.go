package calculator

import (
	"fmt"
	"math"
	"sort"

	"SIPAdvisor/internal/model"
)

// Normalize returns a sorted, de-duplicated copy of points. When several points
// share a timestamp the one appearing last in the input wins. Negative or
// non-finite values are rejected, and fewer than 2 distinct timestamps is
// reported as insufficient data.
func Normalize(points []model.PricePoint) ([]model.PricePoint, error) {
	for i, p := range points {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) || p.Value < 0 {
			return nil, fmt.Errorf("%w: point %d (%s) has value %v", model.ErrInvalidInput, i, p.Time.Format("2006-01-02"), p.Value)
		}
	}

	sorted := make([]model.PricePoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	out := sorted[:0]
	for _, p := range sorted {
		if n := len(out); n > 0 && out[n-1].Time.Equal(p.Time) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}

	if len(out) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 distinct timestamps, got %d", model.ErrInsufficientData, len(out))
	}
	return out, nil
}

// SelectWindow returns the contiguous suffix of a normalized series whose
// timestamps fall on or after the window cutoff. The cutoff is anchored at the
// last observation. A series that does not reach back to the cutoff does not
// span the window and is rejected rather than measured over a shorter period.
func SelectWindow(points []model.PricePoint, window model.LookbackWindow) ([]model.PricePoint, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 points, got %d", model.ErrInsufficientData, len(points))
	}

	first := points[0].Time
	last := points[len(points)-1].Time

	cutoff, ok := window.Cutoff(last)
	if !ok {
		if window != model.WindowSinceInception {
			return nil, fmt.Errorf("%w: unknown lookback window %q", model.ErrInvalidInput, window)
		}
		cutoff = first
	}
	if first.After(cutoff) {
		return nil, fmt.Errorf("%w: history starts %s, %s window needs data from %s",
			model.ErrInsufficientData, first.Format("2006-01-02"), window.Label(), cutoff.Format("2006-01-02"))
	}

	start := sort.Search(len(points), func(i int) bool { return !points[i].Time.Before(cutoff) })
	sub := points[start:]
	if len(sub) < 2 {
		return nil, fmt.Errorf("%w: %d point(s) within %s window", model.ErrInsufficientData, len(sub), window.Label())
	}
	return sub, nil
}

// ComputeReturn measures the percentage change from the first to the last point.
// Window and Signal are left for the caller to fill in.
func ComputeReturn(sub []model.PricePoint) (model.ReturnResult, error) {
	if len(sub) < 2 {
		return model.ReturnResult{}, fmt.Errorf("%w: need at least 2 points, got %d", model.ErrInsufficientData, len(sub))
	}
	start, end := sub[0], sub[len(sub)-1]
	if start.Value == 0 {
		return model.ReturnResult{}, fmt.Errorf("%w (%s)", model.ErrDivisionByZero, start.Time.Format("2006-01-02"))
	}
	return model.ReturnResult{
		StartDate:  start.Time,
		EndDate:    end.Time,
		StartValue: start.Value,
		EndValue:   end.Value,
		PctReturn:  (end.Value - start.Value) / start.Value * 100,
	}, nil
}
