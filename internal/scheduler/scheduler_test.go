package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"SIPAdvisor/internal/app"
	"SIPAdvisor/internal/collector"
	"SIPAdvisor/internal/config"
	"SIPAdvisor/internal/model"
	"SIPAdvisor/internal/notifier"
	"SIPAdvisor/internal/recorder"
	"SIPAdvisor/internal/scanner"
	"SIPAdvisor/internal/strategy"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeSender) Send(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return nil
}

func newTestScheduler(t *testing.T, watchlist []string) (*Scheduler, *fakeSender) {
	t.Helper()
	end := time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)
	m := collector.NewMockProvider().
		Add(model.Instrument{ID: "119551", Name: "Axis Bluechip Fund", Kind: model.KindFund},
			collector.GenerateDaily(end, 800, 100, 130)).
		Add(model.Instrument{ID: "120503", Name: "Axis Liquid Fund", Kind: model.KindFund},
			collector.GenerateDaily(end, 800, 100, 103))

	logger := arbor.NewLogger()
	formatter, err := notifier.NewFormatter("INR", "")
	require.NoError(t, err)
	col := collector.NewCollector(m, m, logger)
	engine := strategy.NewEngine(nil)
	a := &app.App{
		Config:    config.Default(),
		Logger:    logger,
		Collector: col,
		Engine:    engine,
		Scanner:   scanner.NewScanner(col, engine, logger),
		Formatter: formatter,
		Recorder:  recorder.NewNoopRecorder(),
		Window:    model.Window6M,
	}
	sender := &fakeSender{}
	return NewScheduler(context.Background(), a, sender, watchlist), sender
}

func TestHandleCommand_SIP(t *testing.T) {
	s, _ := newTestScheduler(t, nil)
	reply := s.HandleCommand(context.Background(), "/sip 1000 10 12%")
	assert.Contains(t, reply, "₹232,339.08")
	assert.Contains(t, reply, "₹120,000.00")

	assert.Contains(t, s.HandleCommand(context.Background(), "/sip 1000 ten 12"), "Usage")
	assert.Contains(t, s.HandleCommand(context.Background(), "/sip 0 10 12"), "invalid input")
}

func TestHandleCommand_Signal(t *testing.T) {
	s, _ := newTestScheduler(t, nil)

	reply := s.HandleCommand(context.Background(), "/signal@SIPAdvisorBot axis bluechip 1y")
	assert.Contains(t, reply, "Axis Bluechip Fund")
	assert.Contains(t, reply, "1 year")

	reply = s.HandleCommand(context.Background(), "/signal liquid")
	assert.Contains(t, reply, "6 months")
	assert.Contains(t, reply, "SELL")

	assert.Contains(t, s.HandleCommand(context.Background(), "/signal nothing-matches"), "❌")
	assert.Contains(t, s.HandleCommand(context.Background(), "/signal"), "Usage")
}

func TestHandleCommand_ReturnsAndScan(t *testing.T) {
	s, _ := newTestScheduler(t, nil)
	reply := s.HandleCommand(context.Background(), "/returns bluechip")
	assert.Contains(t, reply, "since inception")
	assert.Contains(t, reply, "insufficient history")

	reply = s.HandleCommand(context.Background(), "/scan axis")
	assert.Contains(t, reply, "Top funds")
}

func TestHandleCommand_Help(t *testing.T) {
	s, _ := newTestScheduler(t, nil)
	assert.Contains(t, s.HandleCommand(context.Background(), "hello"), "Available commands")
	assert.Contains(t, s.HandleCommand(context.Background(), ""), "Available commands")
	assert.Contains(t, s.HandleCommand(context.Background(), "/unknown"), "Signals: BUY &gt; 14%, HOLD &gt; 10%, else SELL")
	assert.Equal(t, "Watchlist is empty.", s.HandleCommand(context.Background(), "/watchlist"))
}

func TestWatchlistTask_SendsDigest(t *testing.T) {
	s, sender := newTestScheduler(t, []string{"119551", "120503"})
	s.RunWatchlistNow()

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "Watchlist")
	assert.Contains(t, sender.sent[0], "Axis Bluechip Fund")
	assert.Contains(t, sender.sent[0], "Axis Liquid Fund")
}

func TestWatchlistTask_EmptyWatchlistSendsNothing(t *testing.T) {
	s, sender := newTestScheduler(t, nil)
	s.RunWatchlistNow()
	assert.Empty(t, sender.sent)
}

func TestRegister(t *testing.T) {
	s, _ := newTestScheduler(t, nil)
	assert.Error(t, s.Register("not a cron"))
	require.NoError(t, s.Register("0 0 19 * * 1-5"))
	assert.Len(t, s.Cron.Entries(), 1)
}
