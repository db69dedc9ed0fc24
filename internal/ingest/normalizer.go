package ingest

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/davidm/sidework/internal/models"
)

var moneyRe = regexp.MustCompile(`-?\d+(?:[.,]\d{1,2})?`)

// parseMoney extracts a non-negative amount from strings like "$12.50",
// "12,50 EUR" or "12.5". Empty input is 0, not an error.
func parseMoney(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	match := moneyRe.FindString(s)
	if match == "" {
		return 0, fmt.Errorf("no amount in %q", s)
	}
	match = strings.ReplaceAll(match, ",", ".")

	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, fmt.Errorf("bad amount %q: %w", s, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative amount %q", s)
	}
	return v, nil
}

var (
	hoursRe   = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:h|hr|hrs|hour|hours)\b`)
	minutesRe = regexp.MustCompile(`(?i)(\d+)\s*(?:m|min|mins|minute|minutes)\b`)
)

// parseDurationMinutes understands "45 min", "1.5 hr", "1 hr 20 min" and a
// bare number of minutes.
func parseDurationMinutes(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}

	total := 0.0
	matched := false
	if m := hoursRe.FindStringSubmatch(s); m != nil {
		h, _ := strconv.ParseFloat(m[1], 64)
		total += h * 60
		matched = true
	}
	if m := minutesRe.FindStringSubmatch(s); m != nil {
		min, _ := strconv.Atoi(m[1])
		total += float64(min)
		matched = true
	}
	if !matched {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("unparseable duration %q", s)
		}
		total = float64(v)
	}

	minutes := int(math.Round(total))
	if minutes <= 0 {
		return 0, fmt.Errorf("non-positive duration %q", s)
	}
	return minutes, nil
}

// dueFormats are tried in order after RFC3339.
var dueFormats = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006",
	"01/02/2006 15:04",
	"01/02/2006",
}

// parseDueDate parses an absolute timestamp; date-only values become end of
// day UTC so a gig is not considered overdue at midnight.
func parseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty due date")
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range dueFormats {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if layout == "2006-01-02" || layout == "Jan 2, 2006" || layout == "01/02/2006" {
			t = time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, time.UTC)
		}
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unparseable due date %q", s)
}

// normalizeSpace collapses runs of whitespace into single spaces and trims.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Normalize converts a raw record into a validated gig for the given user
// and source. The returned gig is unscored; the pipeline scores it before
// persisting.
func Normalize(raw RawGig, sourceID string) (models.Gig, error) {
	g := models.Gig{
		SourceID:    sourceID,
		Title:       normalizeSpace(raw.Title),
		Description: strings.TrimSpace(raw.Description),
		Location:    normalizeSpace(raw.Location),
		Latitude:    raw.Latitude,
		Longitude:   raw.Longitude,
		Status:      models.StatusAvailable,
	}

	if id := strings.TrimSpace(raw.ExternalID); id != "" {
		g.ExternalDedupID = &id
	}

	var err error
	if g.PayBase, err = parseMoney(raw.PayText); err != nil {
		return g, fmt.Errorf("pay: %w", err)
	}
	if g.TipExpected, err = parseMoney(raw.TipText); err != nil {
		return g, fmt.Errorf("tip: %w", err)
	}
	if g.PayBonus, err = parseMoney(raw.BonusText); err != nil {
		return g, fmt.Errorf("bonus: %w", err)
	}

	if g.EstimatedDuration, err = parseDurationMinutes(raw.DurationText); err != nil {
		return g, err
	}

	if g.DueDate, err = parseDueDate(raw.DueText); err != nil {
		return g, err
	}

	if s := strings.TrimSpace(raw.TravelMilesText); s != "" {
		miles, err := parseMoney(s) // same numeric shape as money
		if err != nil {
			return g, fmt.Errorf("travel miles: %w", err)
		}
		g.TravelDistance = &miles
	}
	if s := strings.TrimSpace(raw.TravelMinutesText); s != "" {
		minutes, err := parseDurationMinutes(s)
		if err != nil {
			return g, fmt.Errorf("travel minutes: %w", err)
		}
		g.TravelTime = &minutes
	}

	if err := g.Validate(); err != nil {
		return g, err
	}
	return g, nil
}
