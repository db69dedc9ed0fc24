package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// csv column aliases, all matched lowercase after trimming.
var csvAliases = map[string]string{
	"external_id":      "external_id",
	"id":               "external_id",
	"title":            "title",
	"name":             "title",
	"description":      "description",
	"notes":            "description",
	"pay":              "pay",
	"pay_base":         "pay",
	"base_pay":         "pay",
	"tip":              "tip",
	"tip_expected":     "tip",
	"bonus":            "bonus",
	"pay_bonus":        "bonus",
	"location":         "location",
	"address":          "location",
	"latitude":         "latitude",
	"lat":              "latitude",
	"longitude":        "longitude",
	"lon":              "longitude",
	"lng":              "longitude",
	"duration":         "duration",
	"duration_minutes": "duration",
	"minutes":          "duration",
	"due":              "due",
	"due_date":         "due",
	"deadline":         "due",
	"travel_miles":     "travel_miles",
	"miles":            "travel_miles",
	"travel_minutes":   "travel_minutes",
}

// ParseCSV reads a header-mapped CSV export into raw gigs. Unknown columns
// are ignored; rows missing a title are skipped.
func ParseCSV(r io.Reader) ([]RawGig, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := make(map[int]string, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if canonical, ok := csvAliases[key]; ok {
			cols[i] = canonical
		}
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("no recognized columns in CSV header %v", header)
	}

	var raws []RawGig
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		var raw RawGig
		for i, value := range record {
			field, ok := cols[i]
			if !ok {
				continue
			}
			value = strings.TrimSpace(value)
			switch field {
			case "external_id":
				raw.ExternalID = value
			case "title":
				raw.Title = value
			case "description":
				raw.Description = value
			case "pay":
				raw.PayText = value
			case "tip":
				raw.TipText = value
			case "bonus":
				raw.BonusText = value
			case "location":
				raw.Location = value
			case "latitude":
				if v, err := strconv.ParseFloat(value, 64); err == nil {
					raw.Latitude = &v
				}
			case "longitude":
				if v, err := strconv.ParseFloat(value, 64); err == nil {
					raw.Longitude = &v
				}
			case "duration":
				raw.DurationText = value
			case "due":
				raw.DueText = value
			case "travel_miles":
				raw.TravelMilesText = value
			case "travel_minutes":
				raw.TravelMinutesText = value
			}
		}

		if raw.Title == "" {
			continue
		}
		raws = append(raws, raw)
	}

	return raws, nil
}
