package model

// SipPlan describes a systematic investment plan.
type SipPlan struct {
	MonthlyAmount float64 `json:"monthly_amount"`
	Years         int     `json:"years"`
	AnnualRatePct float64 `json:"annual_rate_pct"`
}

// Months is the number of contributions in the plan.
func (p SipPlan) Months() int { return p.Years * 12 }

// Projection holds the values derived from a SipPlan.
type Projection struct {
	Months      int     `json:"months"`
	MonthlyRate float64 `json:"monthly_rate"`
	Invested    float64 `json:"invested"`
	FutureValue float64 `json:"future_value"`
	Gain        float64 `json:"gain"`
}

// YearBalance is the projected plan value at the end of a plan year.
type YearBalance struct {
	Year        int     `json:"year"`
	Invested    float64 `json:"invested"`
	FutureValue float64 `json:"future_value"`
}
