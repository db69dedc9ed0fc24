package ingest

import (
	"strings"
	"testing"
)

func TestParseCSV(t *testing.T) {
	input := strings.Join([]string{
		"external_id,title,pay,tip,duration_minutes,due_date,miles,ignored_column",
		"e-100,Grocery delivery,18.50,4.00,45,2026-08-01T17:00:00Z,3.4,whatever",
		"e-101,Pharmacy run,11,,30,2026-08-01 19:00,,x",
	}, "\n")

	raws, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(raws) != 2 {
		t.Fatalf("got %d rows, want 2", len(raws))
	}

	first := raws[0]
	if first.ExternalID != "e-100" || first.Title != "Grocery delivery" {
		t.Errorf("row = %+v", first)
	}
	if first.PayText != "18.50" || first.TipText != "4.00" {
		t.Errorf("pay = %q tip = %q", first.PayText, first.TipText)
	}
	if first.DurationText != "45" || first.TravelMilesText != "3.4" {
		t.Errorf("duration = %q miles = %q", first.DurationText, first.TravelMilesText)
	}

	if raws[1].TipText != "" {
		t.Errorf("tip = %q, want empty", raws[1].TipText)
	}
}

func TestParseCSVHeaderAliases(t *testing.T) {
	input := strings.Join([]string{
		"ID,Name,Base_Pay,Minutes,Deadline,Lat,Lng",
		"a1,Dog walk,15,30,2026-08-02,40.71,-74.00",
	}, "\n")

	raws, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(raws) != 1 {
		t.Fatalf("got %d rows, want 1", len(raws))
	}

	raw := raws[0]
	if raw.ExternalID != "a1" || raw.Title != "Dog walk" || raw.PayText != "15" {
		t.Errorf("row = %+v", raw)
	}
	if raw.Latitude == nil || *raw.Latitude != 40.71 {
		t.Errorf("latitude = %v", raw.Latitude)
	}
	if raw.Longitude == nil || *raw.Longitude != -74.00 {
		t.Errorf("longitude = %v", raw.Longitude)
	}
}

func TestParseCSVSkipsTitlelessRows(t *testing.T) {
	input := strings.Join([]string{
		"title,pay,duration,due",
		",10,30,2026-08-01",
		"Real gig,10,30,2026-08-01",
	}, "\n")

	raws, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(raws) != 1 || raws[0].Title != "Real gig" {
		t.Errorf("rows = %+v, want only the titled row", raws)
	}
}

func TestParseCSVRejectsUnknownHeader(t *testing.T) {
	if _, err := ParseCSV(strings.NewReader("foo,bar\n1,2\n")); err == nil {
		t.Error("expected error for header with no recognized columns")
	}
}
