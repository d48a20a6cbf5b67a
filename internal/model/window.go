package model

import (
	"fmt"
	"strings"
	"time"
)

// LookbackWindow is the trailing calendar interval a return is measured over.
type LookbackWindow string

const (
	Window1M             LookbackWindow = "1m"
	Window3M             LookbackWindow = "3m"
	Window6M             LookbackWindow = "6m"
	Window1Y             LookbackWindow = "1y"
	Window2Y             LookbackWindow = "2y"
	Window3Y             LookbackWindow = "3y"
	Window5Y             LookbackWindow = "5y"
	WindowSinceInception LookbackWindow = "max"
)

// Windows lists every supported window, shortest first.
var Windows = []LookbackWindow{
	Window1M, Window3M, Window6M, Window1Y, Window2Y, Window3Y, Window5Y, WindowSinceInception,
}

var windowMonths = map[LookbackWindow]int{
	Window1M: 1,
	Window3M: 3,
	Window6M: 6,
	Window1Y: 12,
	Window2Y: 24,
	Window3Y: 36,
	Window5Y: 60,
}

// ParseLookbackWindow accepts the canonical codes plus a few spelled-out aliases.
func ParseLookbackWindow(s string) (LookbackWindow, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1m", "1mo", "1month":
		return Window1M, nil
	case "3m", "3mo", "3months":
		return Window3M, nil
	case "6m", "6mo", "6months":
		return Window6M, nil
	case "1y", "1yr", "1year", "12m":
		return Window1Y, nil
	case "2y", "2yr", "2years":
		return Window2Y, nil
	case "3y", "3yr", "3years":
		return Window3Y, nil
	case "5y", "5yr", "5years":
		return Window5Y, nil
	case "max", "inception", "since-inception", "all":
		return WindowSinceInception, nil
	default:
		return "", fmt.Errorf("%w: unknown lookback window %q", ErrInvalidInput, s)
	}
}

// Months returns the window length in calendar months. ok is false for since-inception.
func (w LookbackWindow) Months() (months int, ok bool) {
	months, ok = windowMonths[w]
	return months, ok
}

// Label is a human readable name for tables and messages.
func (w LookbackWindow) Label() string {
	switch w {
	case Window1M:
		return "1 month"
	case Window3M:
		return "3 months"
	case Window6M:
		return "6 months"
	case Window1Y:
		return "1 year"
	case Window2Y:
		return "2 years"
	case Window3Y:
		return "3 years"
	case Window5Y:
		return "5 years"
	case WindowSinceInception:
		return "since inception"
	default:
		return string(w)
	}
}

// Cutoff returns the earliest timestamp included by the window when anchored at last.
// ok is false for since-inception, where the caller uses the first observation instead.
func (w LookbackWindow) Cutoff(last time.Time) (cutoff time.Time, ok bool) {
	months, ok := w.Months()
	if !ok {
		return time.Time{}, false
	}
	return SubtractMonths(last, months), true
}

// SubtractMonths moves t back by n calendar months, clamping the day to the
// last day of the target month (31 Mar - 1 month = 28/29 Feb).
func SubtractMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	target := first.AddDate(0, -n, 0)
	lastDay := target.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return target.AddDate(0, 0, d-1)
}
