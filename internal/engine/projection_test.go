package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectZeroHistoryVariance(t *testing.T) {
	weekly := Summary{DailyAverage: 42}
	monthly := Summary{DailyAverage: 0}

	p := Project(weekly, monthly, 3)

	assert.Equal(t, float64(0), p.Variance)
	assert.Equal(t, float64(42), p.CurrentPace)
}

func TestProjectPaceExtrapolation(t *testing.T) {
	weekly := Summary{DailyAverage: 60}
	monthly := Summary{DailyAverage: 50}

	p := Project(weekly, monthly, 100)

	assert.Equal(t, float64(60), p.ProjectedDaily)
	assert.Equal(t, float64(420), p.ProjectedWeekly)
	assert.Equal(t, float64(1800), p.ProjectedMonthly)
	assert.InDelta(t, 20, p.Variance, 1e-9) // 20% above baseline
}

func TestProjectNegativeVariance(t *testing.T) {
	p := Project(Summary{DailyAverage: 40}, Summary{DailyAverage: 80}, 100)
	assert.InDelta(t, -50, p.Variance, 1e-9)
}

func TestProjectConfidenceThresholds(t *testing.T) {
	tests := []struct {
		completed int
		want      Confidence
	}{
		{0, ConfidenceLow},
		{20, ConfidenceLow},
		{21, ConfidenceMedium},
		{50, ConfidenceMedium},
		{51, ConfidenceHigh},
		{500, ConfidenceHigh},
	}

	for _, tt := range tests {
		p := Project(Summary{}, Summary{}, tt.completed)
		assert.Equal(t, tt.want, p.Confidence, "completed=%d", tt.completed)
	}
}
