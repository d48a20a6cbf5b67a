package calculator

import (
	"fmt"

	"SIPAdvisor/internal/model"
)

// MovingAverage returns the simple average of the last period values.
func MovingAverage(points []model.PricePoint, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("%w: period must be positive", model.ErrInvalidInput)
	}
	if len(points) < period {
		return 0, fmt.Errorf("%w: %d points for a %d-point average", model.ErrInsufficientData, len(points), period)
	}
	sum := 0.0
	for _, p := range points[len(points)-period:] {
		sum += p.Value
	}
	return sum / float64(period), nil
}

// RSI computes the Wilder-smoothed relative strength index over period
// changes. It needs at least period+1 points.
func RSI(points []model.PricePoint, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("%w: period must be positive", model.ErrInvalidInput)
	}
	if len(points) < period+1 {
		return 0, fmt.Errorf("%w: %d points for a %d-period RSI", model.ErrInsufficientData, len(points), period)
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := points[i].Value - points[i-1].Value
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(points); i++ {
		change := points[i].Value - points[i-1].Value
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100, nil
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), nil
}
