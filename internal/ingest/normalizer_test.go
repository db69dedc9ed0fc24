package ingest

import (
	"testing"
	"time"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"$12.50", 12.50, false},
		{"12.50 USD", 12.50, false},
		{"12,50", 12.50, false},
		{"12.5", 12.5, false},
		{"0", 0, false},
		{"", 0, false},
		{"  $8  ", 8, false},
		{"free", 0, true},
		{"-5.00", 0, true},
	}

	for _, tt := range tests {
		got, err := parseMoney(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseMoney(%q): expected error, got %v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseMoney(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseMoney(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseDurationMinutes(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"45 min", 45, false},
		{"45m", 45, false},
		{"1.5 hr", 90, false},
		{"2 hours", 120, false},
		{"1 hr 20 min", 80, false},
		{"90", 90, false},
		{"", 0, true},
		{"soon", 0, true},
		{"0 min", 0, true},
		{"-30", 0, true},
	}

	for _, tt := range tests {
		got, err := parseDurationMinutes(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseDurationMinutes(%q): expected error, got %v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseDurationMinutes(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseDurationMinutes(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseDueDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2026-08-01T17:00:00Z", time.Date(2026, 8, 1, 17, 0, 0, 0, time.UTC)},
		{"2026-08-01 17:00", time.Date(2026, 8, 1, 17, 0, 0, 0, time.UTC)},
		{"2026-08-01", time.Date(2026, 8, 1, 23, 59, 59, 0, time.UTC)},
		{"Aug 1, 2026 5:00 PM", time.Date(2026, 8, 1, 17, 0, 0, 0, time.UTC)},
		{"08/01/2026", time.Date(2026, 8, 1, 23, 59, 59, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, err := parseDueDate(tt.in)
		if err != nil {
			t.Errorf("parseDueDate(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("parseDueDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "tomorrow", "31/31/2026"} {
		if _, err := parseDueDate(bad); err == nil {
			t.Errorf("parseDueDate(%q): expected error", bad)
		}
	}
}

func TestNormalize(t *testing.T) {
	raw := RawGig{
		ExternalID:   "dashly-4471",
		Title:        "  Grocery   delivery  ",
		Location:     "Midtown",
		PayText:      "$18.50",
		TipText:      "$4",
		DurationText: "45 min",
		DueText:      "2026-08-01T17:00:00Z",
	}

	g, err := Normalize(raw, "dashly")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if g.Title != "Grocery delivery" {
		t.Errorf("title = %q, want collapsed whitespace", g.Title)
	}
	if g.SourceID != "dashly" {
		t.Errorf("source = %q, want dashly", g.SourceID)
	}
	if g.PayBase != 18.50 || g.TipExpected != 4 || g.PayBonus != 0 {
		t.Errorf("pay = %v/%v/%v", g.PayBase, g.TipExpected, g.PayBonus)
	}
	if g.EstimatedDuration != 45 {
		t.Errorf("duration = %d, want 45", g.EstimatedDuration)
	}
	if g.ExternalDedupID == nil || *g.ExternalDedupID != "dashly-4471" {
		t.Errorf("dedup id = %v, want dashly-4471", g.ExternalDedupID)
	}
	if g.Status != "available" {
		t.Errorf("status = %q, want available", g.Status)
	}
	if g.Score != 0 {
		t.Errorf("score = %d, want unscored 0", g.Score)
	}
}

func TestNormalizeRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  RawGig
	}{
		{"missing title", RawGig{PayText: "10", DurationText: "30", DueText: "2026-08-01"}},
		{"missing duration", RawGig{Title: "x", PayText: "10", DueText: "2026-08-01"}},
		{"missing due", RawGig{Title: "x", PayText: "10", DurationText: "30"}},
		{"bad pay", RawGig{Title: "x", PayText: "lots", DurationText: "30", DueText: "2026-08-01"}},
	}

	for _, tt := range tests {
		if _, err := Normalize(tt.raw, "errandly"); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestNormalizeTravelOverrides(t *testing.T) {
	raw := RawGig{
		Title:             "Furniture pickup",
		PayText:           "40",
		DurationText:      "1 hr",
		DueText:           "2026-08-02T12:00:00Z",
		TravelMilesText:   "6.5 mi",
		TravelMinutesText: "20 min",
	}

	g, err := Normalize(raw, "taskhub")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if g.TravelDistance == nil || *g.TravelDistance != 6.5 {
		t.Errorf("travel distance = %v, want 6.5", g.TravelDistance)
	}
	if g.TravelTime == nil || *g.TravelTime != 20 {
		t.Errorf("travel time = %v, want 20", g.TravelTime)
	}
}
