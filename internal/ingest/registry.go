package ingest

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed config/sources.yaml
var sourcesYAML embed.FS

// Registry holds the configuration for all gig sources.
type Registry struct {
	Sources []SourceConfig `yaml:"sources"`
}

// FetchConfig defines HTTP fetching configuration for a board source.
type FetchConfig struct {
	TimeoutSeconds int     `yaml:"timeout_seconds,omitempty"` // Default: 30
	MaxRetries     int     `yaml:"max_retries,omitempty"`     // Default: 3
	RateLimitRPS   float64 `yaml:"rate_limit_rps,omitempty"`  // Requests per second, default: 1.0
}

// SourceConfig defines a single gig platform.
type SourceConfig struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Kind     string `yaml:"kind"` // "email", "csv", "board"
	BaseURL  string `yaml:"base_url,omitempty"`
	MaxPages int    `yaml:"max_pages,omitempty"`

	Fetch FetchConfig `yaml:"fetch,omitempty"`

	// Email holds CSS selectors for parsing notification HTML.
	Email EmailSelectors `yaml:"email,omitempty"`

	// Board holds CSS selectors for scraping a listing page.
	Board BoardSelectors `yaml:"board,omitempty"`
}

// EmailSelectors locate gig fields inside a platform notification email.
type EmailSelectors struct {
	Container string `yaml:"container,omitempty"` // one gig per container, default: body
	Title     string `yaml:"title,omitempty"`
	Pay       string `yaml:"pay,omitempty"`
	Tip       string `yaml:"tip,omitempty"`
	Bonus     string `yaml:"bonus,omitempty"`
	Duration  string `yaml:"duration,omitempty"`
	Location  string `yaml:"location,omitempty"`
	Due       string `yaml:"due,omitempty"`
	// DedupAttr names an attribute on the container carrying the message id.
	DedupAttr string `yaml:"dedup_attr,omitempty"`
}

// BoardSelectors locate gig fields inside a listing page.
type BoardSelectors struct {
	Container string `yaml:"container"`
	Title     string `yaml:"title,omitempty"`
	Pay       string `yaml:"pay,omitempty"`
	Duration  string `yaml:"duration,omitempty"`
	Location  string `yaml:"location,omitempty"`
	Due       string `yaml:"due,omitempty"`
	Link      string `yaml:"link,omitempty"`
	LinkAttr  string `yaml:"link_attr,omitempty"` // default: href
	Next      string `yaml:"next,omitempty"`      // next page link
}

// LoadRegistry reads the embedded sources.yaml, falling back to the given
// path for local development. Environment variables inside the YAML are
// expanded.
func LoadRegistry(path string) (*Registry, error) {
	data, err := sourcesYAML.ReadFile("config/sources.yaml")
	if err != nil {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
	}

	expanded := os.ExpandEnv(string(data))

	var reg Registry
	if err := yaml.Unmarshal([]byte(expanded), &reg); err != nil {
		return nil, err
	}

	return &reg, nil
}

// Find returns the config for a source id.
func (r *Registry) Find(id string) (*SourceConfig, error) {
	for i := range r.Sources {
		if r.Sources[i].ID == id {
			return &r.Sources[i], nil
		}
	}
	return nil, fmt.Errorf("source id %q not found in registry", id)
}
