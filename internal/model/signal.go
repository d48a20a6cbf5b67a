package model

import "time"

// Signal is the discrete recommendation derived from a period return.
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalHold Signal = "HOLD"
	SignalSell Signal = "SELL"
)

// ReturnResult is the outcome of one window evaluation.
type ReturnResult struct {
	Window     LookbackWindow `json:"window"`
	StartDate  time.Time      `json:"start_date"`
	EndDate    time.Time      `json:"end_date"`
	StartValue float64        `json:"start_value"`
	EndValue   float64        `json:"end_value"`
	PctReturn  float64        `json:"pct_return"`
	Signal     Signal         `json:"signal"`
}

// WindowResult pairs a window with its evaluation or the reason it failed.
type WindowResult struct {
	Window LookbackWindow
	Result *ReturnResult
	Err    error
}
