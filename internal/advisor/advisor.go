// Package advisor holds the optional AI opinion collaborator. It is consulted
// by the presentation layer after the engine has produced its own signal and
// never feeds back into the engine.
package advisor

import (
	"context"
	"fmt"
	"strings"

	"SIPAdvisor/internal/calculator"
	"SIPAdvisor/internal/model"
)

// Advisor turns a plain-text fact summary into a recommendation label.
type Advisor interface {
	Advise(ctx context.Context, factSummary string) (string, error)
}

// Labels are the answers an advisor is allowed to give.
var Labels = []string{string(model.SignalBuy), string(model.SignalHold), string(model.SignalSell)}

// ParseLabel extracts the first known label from free model output.
func ParseLabel(text string) (string, error) {
	upper := strings.ToUpper(text)
	best, bestAt := "", -1
	for _, l := range Labels {
		if i := strings.Index(upper, l); i >= 0 && (bestAt < 0 || i < bestAt) {
			best, bestAt = l, i
		}
	}
	if bestAt < 0 {
		return "", fmt.Errorf("no recommendation label in advisor output %q", truncate(text, 80))
	}
	return best, nil
}

// FactSummary renders the evaluated facts about one instrument as the prompt
// payload for an Advisor.
func FactSummary(inst model.Instrument, results []model.WindowResult, window []model.PricePoint) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Instrument: %s (%s)\n", inst.Name, inst.ID)
	if inst.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", inst.Category)
	}
	for _, r := range results {
		if r.Err != nil || r.Result == nil {
			fmt.Fprintf(&b, "Return %s: not available\n", r.Window.Label())
			continue
		}
		fmt.Fprintf(&b, "Return %s: %+.2f%% (%s to %s), rule-based signal %s\n",
			r.Window.Label(), r.Result.PctReturn,
			r.Result.StartDate.Format("2006-01-02"), r.Result.EndDate.Format("2006-01-02"),
			r.Result.Signal)
	}
	if high, low, err := calculator.WindowRange(window); err == nil && len(window) > 0 {
		last := window[len(window)-1].Value
		pos, _ := calculator.RangePosition(last, high, low)
		fmt.Fprintf(&b, "Window range: low %.4f, high %.4f, latest %.4f (%.0f%% of range)\n", low, high, last, pos*100)
	}
	if avg, err := calculator.MovingAverage(window, trendPeriod); err == nil {
		fmt.Fprintf(&b, "%d-observation moving average: %.4f\n", trendPeriod, avg)
	}
	if rsi, err := calculator.RSI(window, rsiPeriod); err == nil {
		fmt.Fprintf(&b, "RSI(%d): %.1f\n", rsiPeriod, rsi)
	}
	return b.String()
}

const (
	trendPeriod = 50
	rsiPeriod   = 14
)

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
