package ingest

// RawGig is the untrusted, unnormalized record a producer extracted from a
// source. String fields hold whatever the source gave us; the normalizer
// turns them into a validated gig.
type RawGig struct {
	ExternalID  string // source notification id, used for dedup
	Title       string
	Description string
	Location    string

	PayText      string // "$12.50", "12.50 USD", "12.5"
	TipText      string
	BonusText    string
	DurationText string // "45 min", "1.5 hr", "90"
	DueText      string // RFC3339 or a handful of human formats

	Latitude  *float64
	Longitude *float64

	TravelMilesText   string
	TravelMinutesText string
}

// ImportStats summarizes one batch import.
type ImportStats struct {
	Found   int `json:"found"`
	Saved   int `json:"saved"`
	Skipped int `json:"skipped"` // already imported (dedup) or filtered
	Errors  int `json:"errors"`
}
