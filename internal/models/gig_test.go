package models

import (
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"available to selected", StatusAvailable, StatusSelected, true},
		{"available to expired", StatusAvailable, StatusExpired, true},
		{"available to completed skips selection", StatusAvailable, StatusCompleted, false},
		{"selected to completed", StatusSelected, StatusCompleted, true},
		{"selected to expired", StatusSelected, StatusExpired, true},
		{"selected back to available", StatusSelected, StatusAvailable, false},
		{"completed is terminal", StatusCompleted, StatusExpired, false},
		{"expired is terminal", StatusExpired, StatusAvailable, false},
		{"expired cannot complete", StatusExpired, StatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestGigValidate(t *testing.T) {
	due := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	valid := Gig{Title: "Grocery delivery", EstimatedDuration: 45, PayBase: 12, DueDate: due}

	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid gig, got %v", err)
	}

	zeroDuration := valid
	zeroDuration.EstimatedDuration = 0
	if err := zeroDuration.Validate(); err == nil {
		t.Fatal("expected error for zero duration")
	}

	negativePay := valid
	negativePay.TipExpected = -1
	if err := negativePay.Validate(); err == nil {
		t.Fatal("expected error for negative tip")
	}

	negativeTravel := valid
	dist := -2.5
	negativeTravel.TravelDistance = &dist
	if err := negativeTravel.Validate(); err == nil {
		t.Fatal("expected error for negative travel distance")
	}
}

func TestGigTotalMinutes(t *testing.T) {
	travel := 15
	g := Gig{EstimatedDuration: 90, TravelTime: &travel}
	if got := g.TotalMinutes(); got != 105 {
		t.Errorf("TotalMinutes = %d, want 105", got)
	}

	g.TravelTime = nil
	if got := g.TotalMinutes(); got != 90 {
		t.Errorf("TotalMinutes without travel = %d, want 90", got)
	}
}
