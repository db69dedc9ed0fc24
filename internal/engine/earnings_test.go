package engine

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/davidm/sidework/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedGig(source string, pay float64, duration int, miles float64, completedAt time.Time) models.Gig {
	return models.Gig{
		SourceID:          source,
		PayBase:           pay,
		EstimatedDuration: duration,
		TravelDistance:    &miles,
		Status:            models.StatusCompleted,
		CompletedAt:       &completedAt,
	}
}

func TestAggregateEarningsEmptyInput(t *testing.T) {
	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 7, 31, 23, 59, 59, 0, time.UTC)

	s, err := AggregateEarnings(nil, nil, start, end)
	require.NoError(t, err)

	assert.Equal(t, float64(0), s.TotalEarnings)
	assert.Equal(t, float64(0), s.NetIncome)
	assert.Equal(t, float64(0), s.AverageHourlyRate)
	assert.Equal(t, float64(0), s.EarningsPerMile)
	assert.Equal(t, float64(0), s.DailyAverage)
	assert.Empty(t, s.TopPlatforms)
}

func TestAggregateEarningsInvalidRange(t *testing.T) {
	start := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	_, err := AggregateEarnings(nil, nil, start, end)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRange))
}

func TestAggregateEarningsTotals(t *testing.T) {
	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 7, 14, 23, 59, 59, 0, time.UTC)
	mid := start.Add(72 * time.Hour)

	completed := []models.Gig{
		completedGig("dashly", 50, 120, 10, mid),
		completedGig("taskhub", 30, 60, 5, mid.Add(24*time.Hour)),
	}
	entries := []models.LedgerEntry{
		{Type: models.EntryEarning, Amount: 20, TransactionDate: mid},
		{Type: models.EntryExpense, Amount: 35, TransactionDate: mid},
		{Type: models.EntryExpense, Amount: 15, TransactionDate: mid.Add(48 * time.Hour)},
	}

	s, err := AggregateEarnings(completed, entries, start, end)
	require.NoError(t, err)

	assert.InDelta(t, 100, s.TotalEarnings, 1e-9) // 50 + 30 gig pay + 20 ledger earning
	assert.InDelta(t, 50, s.TotalExpenses, 1e-9)
	assert.InDelta(t, 50, s.NetIncome, 1e-9)
	assert.InDelta(t, 3, s.TotalHoursWorked, 1e-9)
	assert.InDelta(t, 15, s.TotalMiles, 1e-9)
	assert.InDelta(t, s.NetIncome/s.TotalHoursWorked, s.AverageHourlyRate, 1e-9)
	assert.InDelta(t, s.TotalEarnings/s.TotalMiles, s.EarningsPerMile, 1e-9)

	// net income identity must hold exactly in the returned summary
	assert.Equal(t, s.TotalEarnings-s.TotalExpenses, s.NetIncome)

	// 13 full days in window
	assert.InDelta(t, s.NetIncome/13, s.DailyAverage, 1e-9)
	assert.InDelta(t, s.DailyAverage*7, s.WeeklyProjection, 1e-9)
	assert.InDelta(t, s.DailyAverage*30, s.MonthlyProjection, 1e-9)
}

func TestAggregateEarningsIgnoresOutOfRange(t *testing.T) {
	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 7, 7, 0, 0, 0, 0, time.UTC)

	before := start.Add(-time.Hour)
	after := end.Add(time.Hour)
	inRange := start.Add(24 * time.Hour)

	completed := []models.Gig{
		completedGig("dashly", 100, 60, 0, before),
		completedGig("dashly", 100, 60, 0, after),
		completedGig("dashly", 40, 60, 0, inRange),
	}
	entries := []models.LedgerEntry{
		{Type: models.EntryEarning, Amount: 500, TransactionDate: before},
		{Type: models.EntryExpense, Amount: 500, TransactionDate: after},
	}

	s, err := AggregateEarnings(completed, entries, start, end)
	require.NoError(t, err)

	assert.InDelta(t, 40, s.TotalEarnings, 1e-9)
	assert.InDelta(t, 0, s.TotalExpenses, 1e-9)
	assert.Equal(t, 1, s.CompletedCount)
}

func TestAggregateEarningsSingleDayWindow(t *testing.T) {
	day := time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC)
	completedAt := day.Add(12 * time.Hour)

	s, err := AggregateEarnings(
		[]models.Gig{completedGig("dashly", 26, 60, 0, completedAt)},
		nil, day, day.Add(23*time.Hour))
	require.NoError(t, err)

	// daysBetween < 1 clamps to 1 so the daily average never divides by zero
	assert.InDelta(t, 26, s.DailyAverage, 1e-9)
}

func TestAggregateEarningsTopPlatforms(t *testing.T) {
	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	at := start.Add(time.Hour)

	var completed []models.Gig
	for i, source := range []string{"alpha", "bravo", "carrier", "dashly", "errand", "flexr"} {
		pay := float64(10 * (i + 1))
		completed = append(completed, completedGig(source, pay, 30, 0, at))
		completed = append(completed, completedGig(source, pay, 30, 0, at))
	}

	s, err := AggregateEarnings(completed, nil, start, end)
	require.NoError(t, err)

	// Six platforms, only five kept, highest earners first.
	require.Len(t, s.TopPlatforms, 5)
	assert.Equal(t, "flexr", s.TopPlatforms[0].SourceID)
	assert.Equal(t, float64(120), s.TopPlatforms[0].Earnings)
	assert.Equal(t, 2, s.TopPlatforms[0].Count)
	assert.Equal(t, "bravo", s.TopPlatforms[4].SourceID)
	for i := 1; i < len(s.TopPlatforms); i++ {
		assert.GreaterOrEqual(t, s.TopPlatforms[i-1].Earnings, s.TopPlatforms[i].Earnings)
	}
}

func TestAggregateEarningsDeterministicPlatformTies(t *testing.T) {
	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	at := start.Add(time.Hour)

	completed := []models.Gig{
		completedGig("zeta", 25, 30, 0, at),
		completedGig("alpha", 25, 30, 0, at),
	}

	for i := 0; i < 5; i++ {
		s, err := AggregateEarnings(completed, nil, start, end)
		require.NoError(t, err)
		require.Len(t, s.TopPlatforms, 2)
		assert.Equal(t, "alpha", s.TopPlatforms[0].SourceID, fmt.Sprintf("run %d", i))
	}
}
