package strategy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SIPAdvisor/internal/model"
)

func TestClassify_DefaultBands(t *testing.T) {
	p := DefaultPolicy()
	tests := []struct {
		pct  float64
		want model.Signal
	}{
		{30, model.SignalBuy},
		{14.0001, model.SignalBuy},
		{14, model.SignalHold},
		{12, model.SignalHold},
		{10.0001, model.SignalHold},
		{10, model.SignalSell},
		{0, model.SignalSell},
		{-25, model.SignalSell},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.Classify(tt.pct), "pct=%v", tt.pct)
	}
}

func TestNewPolicy_RejectsBadOrdering(t *testing.T) {
	_, err := NewPolicy(10, 10)
	assert.ErrorIs(t, err, model.ErrInvalidConfig)

	_, err = NewPolicy(8, 12)
	assert.ErrorIs(t, err, model.ErrInvalidConfig)

	_, err = NewPolicy(math.NaN(), 1)
	assert.ErrorIs(t, err, model.ErrInvalidConfig)
}

func TestPolicy_RulesDescending(t *testing.T) {
	p, err := NewPolicy(20, -5)
	require.NoError(t, err)
	rules := p.Rules()
	require.Len(t, rules, 2)
	assert.Greater(t, rules[0].Above, rules[1].Above)
	assert.Equal(t, model.SignalHold, p.Classify(0))
	assert.Equal(t, model.SignalSell, p.Classify(-5))

	rules[0].Above = -100
	assert.Equal(t, model.SignalHold, p.Classify(0), "Rules must return a copy")
}
