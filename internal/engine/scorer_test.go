package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/davidm/sidework/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestScoreWorkedExample(t *testing.T) {
	// $45 base + $5 tip + $10 bonus over 90 minutes, 8.5 miles and 15 minutes
	// of travel, due in 50 hours.
	g := models.Gig{
		PayBase:           45,
		TipExpected:       5,
		PayBonus:          10,
		EstimatedDuration: 90,
		TravelDistance:    floatPtr(8.5),
		TravelTime:        intPtr(15),
		DueDate:           testNow.Add(50 * time.Hour),
		Status:            models.StatusAvailable,
	}

	res, err := Score(g, testNow, DefaultWeights())
	require.NoError(t, err)

	// hourly 80*0.4 + travel ~27.15 + urgency 5 + quick 5 => 69
	assert.Equal(t, 69, res.Score)
	assert.Equal(t, models.PriorityMedium, res.Priority)
	assert.InDelta(t, 31.031, res.EarningsPerHour, 0.001)
	assert.InDelta(t, 7.059, res.EarningsPerMile, 0.001)
}

func TestScoreZeroDurationFails(t *testing.T) {
	g := models.Gig{PayBase: 20, DueDate: testNow.Add(time.Hour)}

	_, err := Score(g, testNow, DefaultWeights())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRecord))
}

func TestScoreMissingOptionalFields(t *testing.T) {
	// No travel fields, no tip, no bonus: must not fail, travel sub-score
	// stays at full efficiency.
	g := models.Gig{
		PayBase:           50,
		EstimatedDuration: 60,
		DueDate:           testNow.Add(48 * time.Hour),
	}

	res, err := Score(g, testNow, DefaultWeights())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, res.Score, 0)
	assert.LessOrEqual(t, res.Score, 100)
	assert.Equal(t, float64(0), res.EarningsPerMile)
	assert.Equal(t, float64(50), res.EarningsPerHour)
}

func TestScoreZeroPayGuardsDivision(t *testing.T) {
	g := models.Gig{
		EstimatedDuration: 45,
		TravelDistance:    floatPtr(3),
		DueDate:           testNow.Add(time.Hour),
	}

	res, err := Score(g, testNow, DefaultWeights())
	require.NoError(t, err)
	// hourly 0, travel 0 (guarded), urgency 100*0.2, quick 75*0.1
	assert.Equal(t, 28, res.Score)
	assert.Equal(t, models.PriorityLow, res.Priority)
}

func TestScoreIsDeterministic(t *testing.T) {
	g := models.Gig{
		PayBase:           28.75,
		TipExpected:       3.2,
		EstimatedDuration: 75,
		TravelDistance:    floatPtr(4.3),
		TravelTime:        intPtr(12),
		DueDate:           testNow.Add(5 * time.Hour),
	}

	first, err := Score(g, testNow, DefaultWeights())
	require.NoError(t, err)
	second, err := Score(g, testNow, DefaultWeights())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestScoreRangeAndPriorityThresholds(t *testing.T) {
	tests := []struct {
		name     string
		gig      models.Gig
		priority models.Priority
	}{
		{
			name: "high value quick gig near deadline",
			gig: models.Gig{
				PayBase:           60,
				EstimatedDuration: 30,
				DueDate:           testNow.Add(time.Hour),
			},
			priority: models.PriorityHigh,
		},
		{
			name: "modest gig far out",
			gig: models.Gig{
				PayBase:           20,
				EstimatedDuration: 60,
				DueDate:           testNow.Add(72 * time.Hour),
			},
			priority: models.PriorityMedium,
		},
		{
			name: "long low-pay slog",
			gig: models.Gig{
				PayBase:           8,
				EstimatedDuration: 240,
				TravelDistance:    floatPtr(20),
				DueDate:           testNow.Add(96 * time.Hour),
			},
			priority: models.PriorityLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Score(tt.gig, testNow, DefaultWeights())
			require.NoError(t, err)
			assert.GreaterOrEqual(t, res.Score, 0)
			assert.LessOrEqual(t, res.Score, 100)
			assert.Equal(t, tt.priority, res.Priority)
			assert.Equal(t, PriorityFor(res.Score), res.Priority)
		})
	}
}

func TestUrgencySubScoreSteps(t *testing.T) {
	assert.Equal(t, float64(100), urgencySubScore(-3)) // overdue
	assert.Equal(t, float64(100), urgencySubScore(1.9))
	assert.Equal(t, float64(75), urgencySubScore(2))
	assert.Equal(t, float64(75), urgencySubScore(5.9))
	assert.Equal(t, float64(50), urgencySubScore(6))
	assert.Equal(t, float64(50), urgencySubScore(23.9))
	assert.Equal(t, float64(25), urgencySubScore(24))
	assert.Equal(t, float64(25), urgencySubScore(200))
}
