package strategy

import (
	"fmt"
	"math"

	"SIPAdvisor/internal/model"
)

const (
	DefaultBuyThreshold  = 14.0
	DefaultHoldThreshold = 10.0
)

// Rule maps returns strictly above Above to Signal.
type Rule struct {
	Above  float64
	Signal model.Signal
}

// Policy is an ordered threshold table. Rules are walked from the highest
// threshold down and the first match wins, so a return sitting exactly on a
// threshold falls to the band below it.
type Policy struct {
	rules    []Rule
	fallback model.Signal
}

// NewPolicy builds the Buy/Hold/Sell table. buy must be strictly greater than hold.
func NewPolicy(buy, hold float64) (*Policy, error) {
	if math.IsNaN(buy) || math.IsInf(buy, 0) || math.IsNaN(hold) || math.IsInf(hold, 0) {
		return nil, fmt.Errorf("%w: thresholds must be finite (buy=%v, hold=%v)", model.ErrInvalidConfig, buy, hold)
	}
	if buy <= hold {
		return nil, fmt.Errorf("%w: buy_threshold (%v) must be greater than hold_threshold (%v)", model.ErrInvalidConfig, buy, hold)
	}
	return &Policy{
		rules: []Rule{
			{Above: buy, Signal: model.SignalBuy},
			{Above: hold, Signal: model.SignalHold},
		},
		fallback: model.SignalSell,
	}, nil
}

// DefaultPolicy returns the policy with the stock 14/10 thresholds.
func DefaultPolicy() *Policy {
	p, err := NewPolicy(DefaultBuyThreshold, DefaultHoldThreshold)
	if err != nil {
		panic(err)
	}
	return p
}

// Classify maps a percentage return to a Signal.
func (p *Policy) Classify(pctReturn float64) model.Signal {
	for _, r := range p.rules {
		if pctReturn > r.Above {
			return r.Signal
		}
	}
	return p.fallback
}

// Rules returns a copy of the table, highest threshold first.
func (p *Policy) Rules() []Rule {
	out := make([]Rule, len(p.rules))
	copy(out, p.rules)
	return out
}

// Fallback is the signal for returns at or below every threshold.
func (p *Policy) Fallback() model.Signal { return p.fallback }
