package engine

// Confidence labels how much history backs a forecast.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Projection extrapolates recent pace against a longer baseline.
type Projection struct {
	CurrentPace      float64    `json:"current_pace"`
	ProjectedDaily   float64    `json:"projected_daily"`
	ProjectedWeekly  float64    `json:"projected_weekly"`
	ProjectedMonthly float64    `json:"projected_monthly"`
	Variance         float64    `json:"variance"` // percent deviation from the 30-day baseline
	Confidence       Confidence `json:"confidence"`
}

// Project forecasts near-future earnings pace from a trailing 7-day summary
// and a trailing 30-day baseline. A zero baseline (no history) yields
// variance 0 rather than a division fault.
func Project(weekly, monthly Summary, lifetimeCompleted int) Projection {
	currentPace := weekly.DailyAverage
	historicalPace := monthly.DailyAverage

	variance := 0.0
	if historicalPace != 0 {
		variance = (currentPace - historicalPace) / historicalPace * 100
	}

	confidence := ConfidenceLow
	switch {
	case lifetimeCompleted > 50:
		confidence = ConfidenceHigh
	case lifetimeCompleted > 20:
		confidence = ConfidenceMedium
	}

	return Projection{
		CurrentPace:      currentPace,
		ProjectedDaily:   currentPace,
		ProjectedWeekly:  currentPace * 7,
		ProjectedMonthly: currentPace * 30,
		Variance:         variance,
		Confidence:       confidence,
	}
}
