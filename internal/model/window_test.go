package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLookbackWindow(t *testing.T) {
	tests := map[string]LookbackWindow{
		"1m":              Window1M,
		"6MO":             Window6M,
		" 1y ":            Window1Y,
		"12m":             Window1Y,
		"5years":          Window5Y,
		"since-inception": WindowSinceInception,
		"max":             WindowSinceInception,
	}
	for in, want := range tests {
		got, err := ParseLookbackWindow(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLookbackWindow("10y")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLookbackWindow_Cutoff(t *testing.T) {
	last := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	c, ok := Window1M.Cutoff(last)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), c)

	c, ok = Window1Y.Cutoff(last)
	require.True(t, ok)
	assert.Equal(t, time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC), c)

	c, ok = Window6M.Cutoff(time.Date(2024, 8, 31, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), c)

	_, ok = WindowSinceInception.Cutoff(last)
	assert.False(t, ok)
}

func TestSubtractMonths_KeepsTimeOfDay(t *testing.T) {
	in := time.Date(2025, 1, 15, 13, 45, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 10, 15, 13, 45, 0, 0, time.UTC), SubtractMonths(in, 3))
}
