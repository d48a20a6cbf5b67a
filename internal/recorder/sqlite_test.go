package recorder

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"SIPAdvisor/internal/model"
)

func openTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"), arbor.NewLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func evaluation(id string, pct float64, signal model.Signal) *EvaluationEvent {
	return &EvaluationEvent{
		Source:     "watch",
		Instrument: model.Instrument{ID: id, Name: "Fund " + id, Kind: model.KindFund},
		Result: &model.ReturnResult{
			Window:     model.Window6M,
			StartDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:    time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
			StartValue: 100,
			EndValue:   100 + pct,
			PctReturn:  pct,
			Signal:     signal,
		},
	}
}

func TestSQLiteRecorder_LastSignal(t *testing.T) {
	ctx := context.Background()
	r := openTestRecorder(t)

	_, ok, err := r.LastSignal(ctx, "119551", model.Window6M)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.RecordEvaluation(ctx, evaluation("119551", 12, model.SignalHold)))
	require.NoError(t, r.RecordEvaluation(ctx, evaluation("119551", 15, model.SignalBuy)))
	require.NoError(t, r.RecordEvaluation(ctx, evaluation("120503", 2, model.SignalSell)))

	sig, ok, err := r.LastSignal(ctx, "119551", model.Window6M)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, model.SignalBuy, sig)

	sig, ok, err = r.LastSignal(ctx, "120503", model.Window6M)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, model.SignalSell, sig)
}

func TestSQLiteRecorder_LastSignalIsPerWindow(t *testing.T) {
	ctx := context.Background()
	r := openTestRecorder(t)

	sell := evaluation("119551", -4, model.SignalSell)
	sell.Result.Window = model.WindowSinceInception
	require.NoError(t, r.RecordEvaluation(ctx, sell))

	_, ok, err := r.LastSignal(ctx, "119551", model.Window6M)
	require.NoError(t, err)
	assert.False(t, ok, "a since-inception signal must not answer a 6m lookup")

	require.NoError(t, r.RecordEvaluation(ctx, evaluation("119551", 15, model.SignalBuy)))
	sig, ok, err := r.LastSignal(ctx, "119551", model.WindowSinceInception)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, model.SignalSell, sig)

	sig, ok, err = r.LastSignal(ctx, "119551", model.Window6M)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, model.SignalBuy, sig)
}

func TestSQLiteRecorder_RejectsEmptyEvaluation(t *testing.T) {
	r := openTestRecorder(t)
	err := r.RecordEvaluation(context.Background(), &EvaluationEvent{Instrument: model.Instrument{ID: "1"}})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestSQLiteRecorder_ProjectionAndScan(t *testing.T) {
	ctx := context.Background()
	r := openTestRecorder(t)

	require.NoError(t, r.RecordProjection(ctx, &ProjectionEvent{
		Source:     "cli",
		Plan:       model.SipPlan{MonthlyAmount: 1000, Years: 10, AnnualRatePct: 12},
		Projection: model.Projection{Months: 120, Invested: 120000, FutureValue: 232339.08, Gain: 112339.08},
	}))
	require.NoError(t, r.RecordScan(ctx, &ScanEvent{
		Query: "bluechip", Window: model.Window1Y, Evaluated: 10, Ranked: 3, Skipped: 2, TopID: "119551", TopReturn: 21.5,
	}))

	var fv float64
	require.NoError(t, r.db.QueryRow(`SELECT future_value FROM projections`).Scan(&fv))
	assert.InDelta(t, 232339.08, fv, 0.001)

	var top string
	var skipped int
	require.NoError(t, r.db.QueryRow(`SELECT top_id, skipped FROM scans`).Scan(&top, &skipped))
	assert.Equal(t, "119551", top)
	assert.Equal(t, 2, skipped)
}

func TestSQLiteRecorder_ReopenKeepsHistory(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	r, err := NewSQLiteRecorder(path, arbor.NewLogger())
	require.NoError(t, err)
	require.NoError(t, r.RecordEvaluation(ctx, evaluation("1", 20, model.SignalBuy)))
	require.NoError(t, r.Close())

	r, err = NewSQLiteRecorder(path, arbor.NewLogger())
	require.NoError(t, err)
	defer r.Close()
	sig, ok, err := r.LastSignal(ctx, "1", model.Window6M)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, model.SignalBuy, sig)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	ctx := context.Background()
	assert.NoError(t, r.RecordEvaluation(ctx, evaluation("1", 1, model.SignalSell)))
	_, ok, err := r.LastSignal(ctx, "1", model.Window6M)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, r.Close())
}

func TestSQLiteRecorder_EventIDsAreUnique(t *testing.T) {
	ctx := context.Background()
	r := openTestRecorder(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, r.RecordEvaluation(ctx, evaluation("1", 5, model.SignalSell)))
	}
	var rows, distinct int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*), COUNT(DISTINCT event_id) FROM evaluations`).Scan(&rows, &distinct))
	assert.Equal(t, 5, rows)
	assert.Equal(t, 5, distinct)
}
