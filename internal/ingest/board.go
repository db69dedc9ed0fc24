package ingest

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

const boardUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// FetchBoard scrapes a gig board's listing pages using the source's
// configured selectors and returns raw gigs. The external id is derived
// from the listing link so re-scrapes dedup cleanly.
func FetchBoard(cfg SourceConfig) ([]RawGig, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("source %q has no base_url", cfg.ID)
	}
	if cfg.Board.Container == "" {
		return nil, fmt.Errorf("source %q: board selector 'container' is required", cfg.ID)
	}

	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	maxPages := cfg.MaxPages
	if maxPages == 0 {
		maxPages = 1
	}

	delay := time.Second
	if cfg.Fetch.RateLimitRPS > 0 {
		delay = time.Duration(float64(time.Second) / cfg.Fetch.RateLimitRPS)
	}
	timeout := 30 * time.Second
	if cfg.Fetch.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second
	}

	collector := colly.NewCollector(
		colly.AllowedDomains(parsed.Host),
		colly.UserAgent(boardUserAgent),
		colly.DetectCharset(),
	)
	collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		Delay:       delay,
		RandomDelay: delay / 2,
	})
	collector.SetRequestTimeout(timeout)

	sel := cfg.Board
	linkAttr := sel.LinkAttr
	if linkAttr == "" {
		linkAttr = "href"
	}

	var raws []RawGig
	pageCount := 0

	collector.OnHTML(sel.Container, func(e *colly.HTMLElement) {
		title := strings.TrimSpace(e.ChildText(sel.Title))
		if title == "" {
			return
		}

		var link string
		if sel.Link == "" || sel.Link == "." {
			link = strings.TrimSpace(e.Attr(linkAttr))
		} else {
			link = strings.TrimSpace(e.ChildAttr(sel.Link, linkAttr))
		}

		raw := RawGig{
			Title:        title,
			PayText:      strings.TrimSpace(e.ChildText(sel.Pay)),
			DurationText: strings.TrimSpace(e.ChildText(sel.Duration)),
			Location:     strings.TrimSpace(e.ChildText(sel.Location)),
			DueText:      dueFromElement(e, sel.Due),
		}

		if link != "" {
			full := e.Request.AbsoluteURL(link)
			hash := sha1.Sum([]byte(full))
			raw.ExternalID = hex.EncodeToString(hash[:])
			raw.Description = full
		}

		raws = append(raws, raw)
	})

	if sel.Next != "" {
		collector.OnHTML(sel.Next, func(e *colly.HTMLElement) {
			if pageCount >= maxPages-1 {
				return
			}
			next := e.Attr("href")
			if next == "" {
				return
			}
			pageCount++
			e.Request.Visit(next)
		})
	}

	if err := collector.Visit(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("board fetch failed: %w", err)
	}
	collector.Wait()

	return raws, nil
}

func dueFromElement(e *colly.HTMLElement, selector string) string {
	if selector == "" {
		return ""
	}
	if dt := strings.TrimSpace(e.ChildAttr(selector, "datetime")); dt != "" {
		return dt
	}
	return strings.TrimSpace(e.ChildText(selector))
}
