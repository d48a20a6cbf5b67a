package collector

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"SIPAdvisor/internal/model"
)

// MockProvider serves fixed instruments and series from memory for
// development and testing.
type MockProvider struct {
	mu          sync.Mutex
	Instruments []model.Instrument
	History     map[string][]model.PricePoint
	Errors      map[string]error // per-id failures returned by FetchSeries
	Calls       int              // FetchSeries call count
}

// NewMockProvider creates an empty MockProvider.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		History: map[string][]model.PricePoint{},
		Errors:  map[string]error{},
	}
}

// Add registers an instrument with its history.
func (m *MockProvider) Add(inst model.Instrument, points []model.PricePoint) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Instruments = append(m.Instruments, inst)
	m.History[inst.ID] = points
	return m
}

func (m *MockProvider) Name() string { return "mock" }

// Search matches query case-insensitively against instrument names.
func (m *MockProvider) Search(_ context.Context, query string) ([]model.Instrument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := strings.ToLower(strings.TrimSpace(query))
	var out []model.Instrument
	for _, inst := range m.Instruments {
		if q == "" || strings.Contains(strings.ToLower(inst.Name), q) {
			out = append(out, inst)
		}
	}
	return out, nil
}

func (m *MockProvider) FetchSeries(ctx context.Context, id string) (*model.Series, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := m.Errors[id]; ok {
		return nil, err
	}
	points, ok := m.History[id]
	if !ok {
		return nil, fmt.Errorf("mock %s: %w", id, model.ErrDataUnavailable)
	}
	inst := model.Instrument{ID: id, Name: id}
	for _, i := range m.Instruments {
		if i.ID == id {
			inst = i
			break
		}
	}
	cp := make([]model.PricePoint, len(points))
	copy(cp, points)
	return &model.Series{Instrument: inst, Points: cp, FetchedAt: time.Now()}, nil
}

// GenerateDaily builds one point per day ending at end, moving linearly from
// startValue to endValue.
func GenerateDaily(end time.Time, days int, startValue, endValue float64) []model.PricePoint {
	points := make([]model.PricePoint, days)
	for i := 0; i < days; i++ {
		frac := 0.0
		if days > 1 {
			frac = float64(i) / float64(days-1)
		}
		points[i] = model.PricePoint{
			Time:  end.AddDate(0, 0, -(days - 1 - i)),
			Value: startValue + (endValue-startValue)*frac,
		}
	}
	return points
}
