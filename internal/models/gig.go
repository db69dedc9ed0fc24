package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a gig. Transitions are monotonic:
// available -> selected -> completed, with expired reachable from
// available or selected only.
type Status string

const (
	StatusAvailable Status = "available"
	StatusSelected  Status = "selected"
	StatusCompleted Status = "completed"
	StatusExpired   Status = "expired"
)

// Priority is the coarse bucket derived from the numeric score.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Gig is one paid, time-boxed task sourced from an external platform or
// manual entry.
type Gig struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	SourceID string    `json:"source_id"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	PayBase     float64 `json:"pay_base"`
	TipExpected float64 `json:"tip_expected"`
	PayBonus    float64 `json:"pay_bonus"`

	Location          string   `json:"location"`
	Latitude          *float64 `json:"latitude,omitempty"`
	Longitude         *float64 `json:"longitude,omitempty"`
	EstimatedDuration int      `json:"estimated_duration"` // minutes
	TravelDistance    *float64 `json:"travel_distance,omitempty"` // miles
	TravelTime        *int     `json:"travel_time,omitempty"`     // minutes

	DueDate     time.Time  `json:"due_date"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Priority Priority `json:"priority"`
	Score    int      `json:"score"`
	Status   Status   `json:"status"`

	// ExternalDedupID is the source notification identifier used to keep
	// re-imports idempotent.
	ExternalDedupID *string `json:"external_dedup_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TotalPay is gross pay including expected tip and bonus.
func (g Gig) TotalPay() float64 {
	return g.PayBase + g.TipExpected + g.PayBonus
}

// TravelMiles returns the travel distance, 0 when unknown.
func (g Gig) TravelMiles() float64 {
	if g.TravelDistance == nil {
		return 0
	}
	return *g.TravelDistance
}

// TravelMinutes returns the travel time, 0 when unknown.
func (g Gig) TravelMinutes() int {
	if g.TravelTime == nil {
		return 0
	}
	return *g.TravelTime
}

// TotalMinutes is the time a gig consumes against a schedule budget:
// work plus travel.
func (g Gig) TotalMinutes() int {
	return g.EstimatedDuration + g.TravelMinutes()
}

// Validate checks the invariants every gig must satisfy before it is
// persisted or scheduled.
func (g Gig) Validate() error {
	if g.EstimatedDuration <= 0 {
		return fmt.Errorf("estimated_duration must be positive, got %d", g.EstimatedDuration)
	}
	if g.PayBase < 0 || g.TipExpected < 0 || g.PayBonus < 0 {
		return fmt.Errorf("pay fields must be non-negative")
	}
	if g.TravelDistance != nil && *g.TravelDistance < 0 {
		return fmt.Errorf("travel_distance must be non-negative")
	}
	if g.TravelTime != nil && *g.TravelTime < 0 {
		return fmt.Errorf("travel_time must be non-negative")
	}
	if g.Title == "" {
		return fmt.Errorf("title is required")
	}
	if g.DueDate.IsZero() {
		return fmt.Errorf("due_date is required")
	}
	return nil
}

// CanTransition reports whether moving a gig from one status to another is
// legal. Completed and expired are terminal.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusAvailable:
		return to == StatusSelected || to == StatusExpired
	case StatusSelected:
		return to == StatusCompleted || to == StatusExpired
	default:
		return false
	}
}
