package ingest

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// descriptionPolicy keeps basic formatting in gig descriptions while
// stripping scripts and unsafe markup from untrusted email bodies.
var descriptionPolicy = bluemonday.UGCPolicy()

// ParseEmail extracts raw gigs from a platform notification email body
// using the source's configured selectors. One email can carry several
// offers; each container yields one RawGig.
func ParseEmail(r io.Reader, cfg EmailSelectors) ([]RawGig, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse email HTML: %w", err)
	}

	container := cfg.Container
	if container == "" {
		container = "body"
	}

	var raws []RawGig
	doc.Find(container).Each(func(_ int, sel *goquery.Selection) {
		raw := RawGig{
			Title:        selText(sel, cfg.Title),
			PayText:      selText(sel, cfg.Pay),
			TipText:      selText(sel, cfg.Tip),
			BonusText:    selText(sel, cfg.Bonus),
			DurationText: selText(sel, cfg.Duration),
			Location:     selText(sel, cfg.Location),
			DueText:      selDue(sel, cfg.Due),
		}

		if cfg.DedupAttr != "" {
			if id, ok := sel.Attr(cfg.DedupAttr); ok {
				raw.ExternalID = strings.TrimSpace(id)
			}
		}

		if html, err := sel.Html(); err == nil {
			raw.Description = strings.TrimSpace(descriptionPolicy.Sanitize(html))
		}

		if raw.Title == "" {
			return
		}
		raws = append(raws, raw)
	})

	return raws, nil
}

func selText(sel *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return strings.TrimSpace(sel.Find(selector).First().Text())
}

// selDue prefers a machine-readable datetime attribute over the element text.
func selDue(sel *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	node := sel.Find(selector).First()
	if dt, ok := node.Attr("datetime"); ok && strings.TrimSpace(dt) != "" {
		return strings.TrimSpace(dt)
	}
	return strings.TrimSpace(node.Text())
}
