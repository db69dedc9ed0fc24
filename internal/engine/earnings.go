package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/davidm/sidework/internal/models"
)

// PlatformEarnings is one row of the per-source breakdown.
type PlatformEarnings struct {
	SourceID string  `json:"source_id"`
	Earnings float64 `json:"earnings"`
	Count    int     `json:"count"`
}

// Summary is the immutable result of aggregating completed gigs and ledger
// entries over a window.
type Summary struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	TotalEarnings     float64 `json:"total_earnings"`
	TotalExpenses     float64 `json:"total_expenses"`
	NetIncome         float64 `json:"net_income"`
	TotalHoursWorked  float64 `json:"total_hours_worked"`
	TotalMiles        float64 `json:"total_miles"`
	AverageHourlyRate float64 `json:"average_hourly_rate"`
	EarningsPerMile   float64 `json:"earnings_per_mile"`
	DailyAverage      float64 `json:"daily_average"`
	WeeklyProjection  float64 `json:"weekly_projection"`
	MonthlyProjection float64 `json:"monthly_projection"`

	CompletedCount int                `json:"completed_count"`
	TopPlatforms   []PlatformEarnings `json:"top_platforms"`
}

// topPlatformLimit caps the per-source breakdown.
const topPlatformLimit = 5

// AggregateEarnings computes summary economics over [start, end], both
// inclusive. Completed gigs outside the window (by completion timestamp) and
// ledger entries outside it (by transaction date) are ignored; the caller
// normally pre-filters via storage, but the engine re-checks so it holds its
// own contract. Empty input yields an all-zero summary, never a failure.
func AggregateEarnings(completed []models.Gig, entries []models.LedgerEntry, start, end time.Time) (Summary, error) {
	if start.After(end) {
		return Summary{}, fmt.Errorf("%w: start %s is after end %s", ErrInvalidRange, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	s := Summary{Start: start, End: end}
	byPlatform := make(map[string]*PlatformEarnings)

	for _, g := range completed {
		if g.CompletedAt == nil || g.CompletedAt.Before(start) || g.CompletedAt.After(end) {
			continue
		}
		pay := g.TotalPay()
		s.TotalEarnings += pay
		s.TotalHoursWorked += float64(g.EstimatedDuration) / 60
		s.TotalMiles += g.TravelMiles()
		s.CompletedCount++

		p, ok := byPlatform[g.SourceID]
		if !ok {
			p = &PlatformEarnings{SourceID: g.SourceID}
			byPlatform[g.SourceID] = p
		}
		p.Earnings += pay
		p.Count++
	}

	for _, e := range entries {
		if e.TransactionDate.Before(start) || e.TransactionDate.After(end) {
			continue
		}
		switch e.Type {
		case models.EntryEarning:
			s.TotalEarnings += e.Amount
		case models.EntryExpense:
			s.TotalExpenses += e.Amount
		}
	}

	s.NetIncome = s.TotalEarnings - s.TotalExpenses

	if s.TotalHoursWorked > 0 {
		s.AverageHourlyRate = s.NetIncome / s.TotalHoursWorked
	}
	if s.TotalMiles > 0 {
		s.EarningsPerMile = s.TotalEarnings / s.TotalMiles
	}

	days := daysBetween(start, end)
	if days < 1 {
		days = 1
	}
	s.DailyAverage = s.NetIncome / float64(days)
	s.WeeklyProjection = s.DailyAverage * 7
	s.MonthlyProjection = s.DailyAverage * 30

	s.TopPlatforms = rankPlatforms(byPlatform)
	return s, nil
}

func daysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

// rankPlatforms sorts descending by earnings, ties by source id, and keeps
// the top five.
func rankPlatforms(byPlatform map[string]*PlatformEarnings) []PlatformEarnings {
	ranked := make([]PlatformEarnings, 0, len(byPlatform))
	for _, p := range byPlatform {
		ranked = append(ranked, *p)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Earnings != ranked[j].Earnings {
			return ranked[i].Earnings > ranked[j].Earnings
		}
		return ranked[i].SourceID < ranked[j].SourceID
	})
	if len(ranked) > topPlatformLimit {
		ranked = ranked[:topPlatformLimit]
	}
	return ranked
}
