package strategy

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SIPAdvisor/internal/model"
)

func navSeries(start time.Time, days int, from, to float64) *model.Series {
	pts := make([]model.PricePoint, days)
	for i := range pts {
		frac := float64(i) / float64(days-1)
		pts[i] = model.PricePoint{Time: start.AddDate(0, 0, i), Value: from + (to-from)*frac}
	}
	return &model.Series{Instrument: model.Instrument{ID: "120503", Name: "Test Fund", Kind: model.KindFund}, Points: pts}
}

func TestEvaluate_StrongGainIsBuy(t *testing.T) {
	s := navSeries(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 400, 100, 130)
	res, err := NewEngine(nil).Evaluate(s, model.WindowSinceInception)
	require.NoError(t, err)
	assert.Equal(t, model.WindowSinceInception, res.Window)
	assert.InDelta(t, 30, res.PctReturn, 1e-9)
	assert.Equal(t, model.SignalBuy, res.Signal)
}

func TestEvaluate_ModerateGainIsHold(t *testing.T) {
	s := navSeries(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 400, 100, 112)
	res, err := NewEngine(nil).Evaluate(s, model.WindowSinceInception)
	require.NoError(t, err)
	assert.Equal(t, model.SignalHold, res.Signal)
}

func TestEvaluate_LossIsSell(t *testing.T) {
	s := navSeries(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 400, 100, 80)
	res, err := NewEngine(nil).Evaluate(s, model.Window1Y)
	require.NoError(t, err)
	assert.Less(t, res.PctReturn, 0.0)
	assert.Equal(t, model.SignalSell, res.Signal)
}

func TestEvaluate_FlatIsSell(t *testing.T) {
	s := navSeries(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 100, 50, 50)
	res, err := NewEngine(nil).Evaluate(s, model.Window1M)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.PctReturn)
	assert.Equal(t, model.SignalSell, res.Signal)
}

func TestEvaluate_UnsortedDuplicatedInput(t *testing.T) {
	d := func(m time.Month, dd int) time.Time { return time.Date(2024, m, dd, 0, 0, 0, 0, time.UTC) }
	s := &model.Series{Points: []model.PricePoint{
		{Time: d(3, 1), Value: 120},
		{Time: d(1, 1), Value: 90},
		{Time: d(2, 1), Value: 110},
		{Time: d(1, 1), Value: 100},
	}}
	res, err := NewEngine(nil).Evaluate(s, model.WindowSinceInception)
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.StartValue)
	assert.Equal(t, 120.0, res.EndValue)
	assert.InDelta(t, 20, res.PctReturn, 1e-9)
}

func TestEvaluateSelected_ReturnsEvaluatedPoints(t *testing.T) {
	d := func(m time.Month, dd int) time.Time { return time.Date(2024, m, dd, 0, 0, 0, 0, time.UTC) }
	s := &model.Series{Points: []model.PricePoint{
		{Time: d(6, 1), Value: 130},
		{Time: d(1, 1), Value: 90},
		{Time: d(5, 1), Value: 120},
		{Time: d(4, 1), Value: 100},
	}}
	res, sub, err := NewEngine(nil).EvaluateSelected(s, model.Window1M)
	require.NoError(t, err)
	require.Len(t, sub, 2)
	assert.Equal(t, d(5, 1), sub[0].Time)
	assert.Equal(t, res.StartValue, sub[0].Value)
	assert.Equal(t, res.EndValue, sub[len(sub)-1].Value)

	_, sub, err = NewEngine(nil).EvaluateSelected(&model.Series{}, model.Window1M)
	assert.ErrorIs(t, err, model.ErrInsufficientData)
	assert.Nil(t, sub)
}

func TestEvaluate_SinglePointNeverDefaultsToZero(t *testing.T) {
	s := &model.Series{Points: []model.PricePoint{{Time: time.Now(), Value: 10}}}
	for _, w := range model.Windows {
		res, err := NewEngine(nil).Evaluate(s, w)
		assert.ErrorIs(t, err, model.ErrInsufficientData, string(w))
		assert.Nil(t, res)
	}
}

func TestEvaluate_ZeroStartValue(t *testing.T) {
	s := navSeries(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 40, 0, 10)
	_, err := NewEngine(nil).Evaluate(s, model.WindowSinceInception)
	assert.ErrorIs(t, err, model.ErrDivisionByZero)
}

func TestEvaluate_NilSeries(t *testing.T) {
	_, err := NewEngine(nil).Evaluate(nil, model.Window1M)
	assert.ErrorIs(t, err, model.ErrInsufficientData)
}

func TestEvaluate_CustomPolicy(t *testing.T) {
	p, err := NewPolicy(5, 2)
	require.NoError(t, err)
	s := navSeries(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 400, 100, 106)
	res, err := NewEngine(p).Evaluate(s, model.WindowSinceInception)
	require.NoError(t, err)
	assert.Equal(t, model.SignalBuy, res.Signal)
}

func TestEvaluateWindows_PerWindowErrors(t *testing.T) {
	s := navSeries(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 200, 100, 120)
	results, err := NewEngine(nil).EvaluateWindows(s, model.Windows)
	require.NoError(t, err)
	require.Len(t, results, len(model.Windows))

	byWindow := map[model.LookbackWindow]model.WindowResult{}
	for _, r := range results {
		byWindow[r.Window] = r
	}
	for _, w := range []model.LookbackWindow{model.Window1M, model.Window3M, model.Window6M, model.WindowSinceInception} {
		assert.NoError(t, byWindow[w].Err, string(w))
		assert.NotNil(t, byWindow[w].Result, string(w))
	}
	for _, w := range []model.LookbackWindow{model.Window1Y, model.Window2Y, model.Window3Y, model.Window5Y} {
		assert.ErrorIs(t, byWindow[w].Err, model.ErrInsufficientData, string(w))
		assert.Nil(t, byWindow[w].Result, string(w))
	}
}

func TestEvaluateWindows_UnusableSeries(t *testing.T) {
	s := &model.Series{Points: []model.PricePoint{{Time: time.Now(), Value: 1}}}
	_, err := NewEngine(nil).EvaluateWindows(s, model.Windows)
	assert.ErrorIs(t, err, model.ErrInsufficientData)
}

func TestEvaluate_ConcurrentCallsAgree(t *testing.T) {
	e := NewEngine(nil)
	s := navSeries(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), 900, 40, 55)
	want, err := e.Evaluate(s, model.Window1Y)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*model.ReturnResult, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = e.Evaluate(s, model.Window1Y)
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		assert.Equal(t, want, r)
	}
}
