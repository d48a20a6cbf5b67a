package calculator

import (
	"fmt"
	"math"

	"SIPAdvisor/internal/model"
)

// Project computes the annuity-due future value of a SIP. Contributions are
// made at the start of each month, hence the extra (1+r) factor.
func Project(plan model.SipPlan) (model.Projection, error) {
	if err := validatePlan(plan); err != nil {
		return model.Projection{}, err
	}
	months := plan.Months()
	rate := plan.AnnualRatePct / 100 / 12
	invested := plan.MonthlyAmount * float64(months)
	fv := futureValue(plan.MonthlyAmount, rate, months)
	return model.Projection{
		Months:      months,
		MonthlyRate: rate,
		Invested:    invested,
		FutureValue: fv,
		Gain:        fv - invested,
	}, nil
}

// ProjectSchedule returns the projected balance at the end of every plan year.
func ProjectSchedule(plan model.SipPlan) ([]model.YearBalance, error) {
	if err := validatePlan(plan); err != nil {
		return nil, err
	}
	rate := plan.AnnualRatePct / 100 / 12
	out := make([]model.YearBalance, 0, plan.Years)
	for y := 1; y <= plan.Years; y++ {
		months := y * 12
		out = append(out, model.YearBalance{
			Year:        y,
			Invested:    plan.MonthlyAmount * float64(months),
			FutureValue: futureValue(plan.MonthlyAmount, rate, months),
		})
	}
	return out, nil
}

func futureValue(amount, rate float64, months int) float64 {
	if rate == 0 {
		return amount * float64(months)
	}
	growth := math.Pow(1+rate, float64(months))
	return amount * ((growth - 1) * (1 + rate)) / rate
}

func validatePlan(plan model.SipPlan) error {
	switch {
	case math.IsNaN(plan.MonthlyAmount) || math.IsInf(plan.MonthlyAmount, 0) || plan.MonthlyAmount <= 0:
		return fmt.Errorf("%w: monthly amount must be positive, got %v", model.ErrInvalidInput, plan.MonthlyAmount)
	case plan.Years <= 0:
		return fmt.Errorf("%w: years must be positive, got %d", model.ErrInvalidInput, plan.Years)
	case math.IsNaN(plan.AnnualRatePct) || math.IsInf(plan.AnnualRatePct, 0) || plan.AnnualRatePct < 0:
		return fmt.Errorf("%w: annual rate must not be negative, got %v", model.ErrInvalidInput, plan.AnnualRatePct)
	}
	return nil
}
