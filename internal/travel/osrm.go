package travel

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"
)

const metersPerMile = 1609.344

// OSRMProvider talks to an OSRM-compatible routing server. It retries
// transient failures with backoff; callers bound the whole call with their
// context.
type OSRMProvider struct {
	BaseURL    string
	Client     *http.Client
	MaxRetries int
}

func NewOSRMProvider(baseURL string) *OSRMProvider {
	return &OSRMProvider{
		BaseURL:    baseURL,
		Client:     &http.Client{Timeout: 15 * time.Second},
		MaxRetries: 3,
	}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"` // meters
		Duration float64 `json:"duration"` // seconds
		Legs     []struct {
			Steps []struct {
				Distance float64 `json:"distance"`
				Name     string  `json:"name"`
			} `json:"steps"`
		} `json:"legs"`
	} `json:"routes"`
}

func (p *OSRMProvider) Route(ctx context.Context, origin, destination Point, mode string) (Route, error) {
	if mode == "" {
		mode = "driving"
	}
	url := fmt.Sprintf("%s/route/v1/%s/%f,%f;%f,%f?overview=false&steps=true",
		p.BaseURL, mode,
		origin.Longitude, origin.Latitude,
		destination.Longitude, destination.Latitude,
	)

	var lastErr error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * 500 * time.Millisecond
			select {
			case <-ctx.Done():
				return Route{}, ctx.Err()
			case <-time.After(backoff):
			}
		}

		route, err := p.fetch(ctx, url)
		if err == nil {
			return route, nil
		}
		lastErr = err
	}

	return Route{}, fmt.Errorf("routing failed after %d attempts: %w", p.MaxRetries+1, lastErr)
}

func (p *OSRMProvider) fetch(ctx context.Context, url string) (Route, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Route{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return Route{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Route{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var parsed osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Route{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if parsed.Code != "Ok" || len(parsed.Routes) == 0 {
		return Route{}, fmt.Errorf("no route found (code=%s)", parsed.Code)
	}

	best := parsed.Routes[0]
	route := Route{
		DistanceMiles:   best.Distance / metersPerMile,
		DurationMinutes: int(math.Round(best.Duration / 60)),
	}
	for _, leg := range best.Legs {
		for _, step := range leg.Steps {
			route.Steps = append(route.Steps, Step{
				Instruction: step.Name,
				Miles:       step.Distance / metersPerMile,
			})
		}
	}
	return route, nil
}
