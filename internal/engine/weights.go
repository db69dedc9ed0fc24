package engine

// Weights are the scoring knobs. All engine functions take them explicitly so
// callers can tune per deployment without global state.
type Weights struct {
	HourlyRate float64 // weight of the hourly-rate sub-score
	Travel     float64 // weight of the travel-efficiency sub-score
	Urgency    float64 // weight of the due-date urgency sub-score
	QuickWin   float64 // weight of the quick-turnaround sub-score

	// MileageRate is the assumed cost per mile of travel, netted out of
	// gross pay.
	MileageRate float64

	// SaturationHourly is the hourly rate at which the hourly-rate
	// sub-score maxes out.
	SaturationHourly float64
}

// DefaultWeights returns the standard configuration: a $50/hr gig with no
// travel scores 100 on the dominant sub-score.
func DefaultWeights() Weights {
	return Weights{
		HourlyRate:       0.4,
		Travel:           0.3,
		Urgency:          0.2,
		QuickWin:         0.1,
		MileageRate:      0.67,
		SaturationHourly: 50,
	}
}
