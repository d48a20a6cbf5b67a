package model

import "errors"

var (
	// ErrInsufficientData means fewer than 2 usable points cover the requested interval.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrDivisionByZero means the starting value of a return interval is zero.
	ErrDivisionByZero = errors.New("division by zero: start value is 0")
	// ErrInvalidConfig means the classification thresholds or other settings are malformed.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrInvalidInput means a caller-supplied value is out of range.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDataUnavailable is returned by providers when an instrument or its history cannot be loaded.
	ErrDataUnavailable = errors.New("data unavailable")
)
