package ingest

import (
	"strings"
	"testing"
)

const sampleEmail = `<html><body>
<div class="offer-card" data-offer-id="dashly-9001">
  <h2 class="offer-title">Grocery delivery</h2>
  <span class="offer-pay">$18.50</span>
  <span class="offer-tip">$4.00</span>
  <span class="offer-duration">45 min</span>
  <span class="offer-location">Midtown</span>
  <time class="offer-due" datetime="2026-08-01T17:00:00Z">today 5pm</time>
  <script>alert("tracking")</script>
</div>
<div class="offer-card" data-offer-id="dashly-9002">
  <h2 class="offer-title">Pharmacy run</h2>
  <span class="offer-pay">$11</span>
  <span class="offer-duration">30 min</span>
  <time class="offer-due">2026-08-01 19:00</time>
</div>
<div class="offer-card">
  <span class="offer-pay">$5</span>
</div>
</body></html>`

var sampleSelectors = EmailSelectors{
	Container: "div.offer-card",
	Title:     ".offer-title",
	Pay:       ".offer-pay",
	Tip:       ".offer-tip",
	Duration:  ".offer-duration",
	Location:  ".offer-location",
	Due:       ".offer-due",
	DedupAttr: "data-offer-id",
}

func TestParseEmail(t *testing.T) {
	raws, err := ParseEmail(strings.NewReader(sampleEmail), sampleSelectors)
	if err != nil {
		t.Fatalf("ParseEmail: %v", err)
	}
	if len(raws) != 2 {
		t.Fatalf("got %d raw gigs, want 2 (titleless container skipped)", len(raws))
	}

	first := raws[0]
	if first.Title != "Grocery delivery" {
		t.Errorf("title = %q", first.Title)
	}
	if first.ExternalID != "dashly-9001" {
		t.Errorf("external id = %q, want dashly-9001", first.ExternalID)
	}
	if first.PayText != "$18.50" || first.TipText != "$4.00" {
		t.Errorf("pay = %q tip = %q", first.PayText, first.TipText)
	}
	if first.DueText != "2026-08-01T17:00:00Z" {
		t.Errorf("due = %q, want datetime attribute preferred", first.DueText)
	}
	if strings.Contains(first.Description, "<script") || strings.Contains(first.Description, "alert(") {
		t.Errorf("description not sanitized: %q", first.Description)
	}

	second := raws[1]
	if second.DueText != "2026-08-01 19:00" {
		t.Errorf("due = %q, want element text fallback", second.DueText)
	}
	if second.TipText != "" {
		t.Errorf("tip = %q, want empty for absent selector match", second.TipText)
	}
}

func TestParseEmailNormalizesEndToEnd(t *testing.T) {
	raws, err := ParseEmail(strings.NewReader(sampleEmail), sampleSelectors)
	if err != nil {
		t.Fatalf("ParseEmail: %v", err)
	}

	g, err := Normalize(raws[0], "dashly")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if g.PayBase != 18.50 || g.TipExpected != 4 {
		t.Errorf("pay = %v tip = %v", g.PayBase, g.TipExpected)
	}
	if g.EstimatedDuration != 45 {
		t.Errorf("duration = %d", g.EstimatedDuration)
	}
}

func TestParseEmailNoMatches(t *testing.T) {
	raws, err := ParseEmail(strings.NewReader("<html><body><p>receipt</p></body></html>"), sampleSelectors)
	if err != nil {
		t.Fatalf("ParseEmail: %v", err)
	}
	if len(raws) != 0 {
		t.Errorf("got %d raw gigs from unrelated email, want 0", len(raws))
	}
}
