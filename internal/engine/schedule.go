package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/davidm/sidework/internal/models"
)

// SelectSchedule picks an ordered subset of available gigs whose combined
// work-plus-travel time fits inside hoursBudget, greedily by score. This is a
// deliberate heuristic rather than exact knapsack: it is deterministic, linear
// after the sort, and its behavior (including suboptimality on adversarial
// inputs) is part of the contract.
//
// Candidates with a status other than available are filtered out silently.
// The selection is advisory only: persisting the selected status is the
// caller's job.
func SelectSchedule(gigs []models.Gig, hoursBudget float64, now time.Time, w Weights) ([]models.Gig, error) {
	if hoursBudget <= 0 {
		return nil, fmt.Errorf("%w: hours budget must be positive, got %v", ErrInvalidBudget, hoursBudget)
	}

	candidates := make([]models.Gig, 0, len(gigs))
	for _, g := range gigs {
		if g.Status != models.StatusAvailable {
			continue
		}
		res, err := Score(g, now, w)
		if err != nil {
			return nil, err
		}
		g.Score = res.Score
		g.Priority = res.Priority
		candidates = append(candidates, g)
	}

	// Ties break toward shorter total time, then earlier due date, then id,
	// so identical input always yields identical output.
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.TotalMinutes() != b.TotalMinutes() {
			return a.TotalMinutes() < b.TotalMinutes()
		}
		if !a.DueDate.Equal(b.DueDate) {
			return a.DueDate.Before(b.DueDate)
		}
		return a.ID.String() < b.ID.String()
	})

	budgetMinutes := int(hoursBudget * 60)
	schedule := make([]models.Gig, 0, len(candidates))
	running := 0
	for _, g := range candidates {
		// Skip and keep walking: a later, shorter gig may still fit.
		if running+g.TotalMinutes() > budgetMinutes {
			continue
		}
		running += g.TotalMinutes()
		schedule = append(schedule, g)
	}

	return schedule, nil
}
