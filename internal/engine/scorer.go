package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/davidm/sidework/internal/models"
)

// ScoreResult is what Score computes for a single gig. Callers persist the
// score and priority back onto the record; the engine never writes anything.
type ScoreResult struct {
	Score           int             `json:"score"`
	Priority        models.Priority `json:"priority"`
	EarningsPerHour float64         `json:"earnings_per_hour"`
	EarningsPerMile float64         `json:"earnings_per_mile"`
}

// Score ranks a single gig's economic attractiveness on a 0-100 scale from
// four weighted sub-scores: hourly rate, travel efficiency, urgency against
// the due date, and a quick-turnaround bonus. Missing optional fields count
// as zero; a non-positive duration is the one hard failure.
func Score(g models.Gig, now time.Time, w Weights) (ScoreResult, error) {
	if g.EstimatedDuration <= 0 {
		return ScoreResult{}, fmt.Errorf("%w: gig %s has non-positive duration %d", ErrInvalidRecord, g.ID, g.EstimatedDuration)
	}

	totalPay := g.TotalPay()
	hourlyRate := totalPay / (float64(g.EstimatedDuration) / 60)

	hourlyScore := math.Min(100, hourlyRate/w.SaturationHourly*100)

	// Travel efficiency: how much of the gross pay survives the drive.
	travelCost := g.TravelMiles() * w.MileageRate
	travelScore := 0.0
	if totalPay > 0 {
		travelScore = math.Max(0, (totalPay-travelCost)/totalPay*100)
	}

	urgencyScore := urgencySubScore(g.DueDate.Sub(now).Hours())

	quickScore := 50.0
	switch {
	case g.EstimatedDuration <= 30:
		quickScore = 100
	case g.EstimatedDuration <= 60:
		quickScore = 75
	}

	raw := hourlyScore*w.HourlyRate + travelScore*w.Travel + urgencyScore*w.Urgency + quickScore*w.QuickWin
	score := int(math.Round(raw))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return ScoreResult{
		Score:           score,
		Priority:        PriorityFor(score),
		EarningsPerHour: earningsPerHour(g, w),
		EarningsPerMile: earningsPerMile(g),
	}, nil
}

// PriorityFor maps a score to its tier: >=80 high, >=50 medium, else low.
func PriorityFor(score int) models.Priority {
	switch {
	case score >= 80:
		return models.PriorityHigh
	case score >= 50:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}

// urgencySubScore is a step function of hours remaining until the due date.
// Overdue gigs land in the most urgent bucket.
func urgencySubScore(hoursUntilDue float64) float64 {
	switch {
	case hoursUntilDue < 2:
		return 100
	case hoursUntilDue < 6:
		return 75
	case hoursUntilDue < 24:
		return 50
	default:
		return 25
	}
}

// earningsPerHour nets travel cost out of gross pay and divides by total
// committed time including the drive.
func earningsPerHour(g models.Gig, w Weights) float64 {
	totalMinutes := float64(g.EstimatedDuration + g.TravelMinutes())
	if totalMinutes == 0 {
		return 0
	}
	net := g.TotalPay() - g.TravelMiles()*w.MileageRate
	return net / (totalMinutes / 60)
}

func earningsPerMile(g models.Gig) float64 {
	miles := g.TravelMiles()
	if miles == 0 {
		return 0
	}
	return g.TotalPay() / miles
}
