package ingest

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/davidm/sidework/internal/db"
	"github.com/davidm/sidework/internal/engine"
	"github.com/davidm/sidework/internal/models"
	"github.com/davidm/sidework/internal/travel"
)

// Pipeline carries raw records from a producer to the store: normalize,
// dedup against earlier imports, enrich travel when coordinates allow it,
// score, persist.
type Pipeline struct {
	store   *db.Store
	travel  travel.Provider
	weights engine.Weights

	// home is the travel origin for enrichment. Nil disables enrichment.
	home *travel.Point

	log zerolog.Logger
}

func NewPipeline(store *db.Store, provider travel.Provider, weights engine.Weights, home *travel.Point, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		store:   store,
		travel:  provider,
		weights: weights,
		home:    home,
		log:     log.With().Str("component", "ingest").Logger(),
	}
}

// ImportEmail parses a platform notification email and imports its gigs.
func (p *Pipeline) ImportEmail(ctx context.Context, userID uuid.UUID, cfg *SourceConfig, r io.Reader) (ImportStats, error) {
	raws, err := ParseEmail(r, cfg.Email)
	if err != nil {
		return ImportStats{}, fmt.Errorf("parse email: %w", err)
	}
	return p.ImportBatch(ctx, userID, cfg.ID, raws)
}

// ImportCSV imports a gig export file.
func (p *Pipeline) ImportCSV(ctx context.Context, userID uuid.UUID, sourceID string, r io.Reader) (ImportStats, error) {
	raws, err := ParseCSV(r)
	if err != nil {
		return ImportStats{}, fmt.Errorf("parse csv: %w", err)
	}
	return p.ImportBatch(ctx, userID, sourceID, raws)
}

// ImportBoard scrapes a configured listing page and imports what it finds.
func (p *Pipeline) ImportBoard(ctx context.Context, userID uuid.UUID, cfg *SourceConfig) (ImportStats, error) {
	raws, err := FetchBoard(*cfg)
	if err != nil {
		return ImportStats{}, err
	}
	return p.ImportBatch(ctx, userID, cfg.ID, raws)
}

// ImportBatch runs one batch of raw records through the pipeline and records
// the outcome as an import run. A record that fails to normalize counts as
// an error but never aborts the batch.
func (p *Pipeline) ImportBatch(ctx context.Context, userID uuid.UUID, sourceID string, raws []RawGig) (ImportStats, error) {
	stats := ImportStats{Found: len(raws)}

	runID, err := p.store.CreateImportRun(ctx, userID, sourceID)
	if err != nil {
		return stats, fmt.Errorf("create import run: %w", err)
	}

	seen, err := p.seenIDs(ctx, userID, raws)
	if err != nil {
		p.finishRun(ctx, runID, "failed", stats)
		return stats, err
	}

	for _, raw := range raws {
		if raw.ExternalID != "" && seen[raw.ExternalID] {
			stats.Skipped++
			continue
		}

		gig, err := Normalize(raw, sourceID)
		if err != nil {
			p.log.Warn().Err(err).Str("source", sourceID).Str("title", raw.Title).Msg("record rejected")
			stats.Errors++
			continue
		}
		gig.UserID = userID

		p.enrichTravel(ctx, &gig)

		result, err := engine.Score(gig, time.Now().UTC(), p.weights)
		if err != nil {
			p.log.Warn().Err(err).Str("source", sourceID).Str("title", gig.Title).Msg("scoring failed")
			stats.Errors++
			continue
		}
		gig.Score = result.Score
		gig.Priority = result.Priority

		if err := p.store.CreateGig(ctx, &gig); err != nil {
			p.log.Error().Err(err).Str("source", sourceID).Str("title", gig.Title).Msg("insert failed")
			stats.Errors++
			continue
		}
		stats.Saved++
	}

	runStatus := "completed"
	if stats.Errors > 0 && stats.Saved == 0 && stats.Found > 0 {
		runStatus = "failed"
	}
	p.finishRun(ctx, runID, runStatus, stats)

	p.log.Info().
		Str("source", sourceID).
		Int("found", stats.Found).
		Int("saved", stats.Saved).
		Int("skipped", stats.Skipped).
		Int("errors", stats.Errors).
		Msg("import finished")

	return stats, nil
}

// Cancel marks the gig carrying the given source notification id as expired,
// for platforms that send cancellation notices.
func (p *Pipeline) Cancel(ctx context.Context, userID uuid.UUID, dedupID string) (bool, error) {
	return p.store.ExpireByDedupID(ctx, userID, dedupID)
}

func (p *Pipeline) seenIDs(ctx context.Context, userID uuid.UUID, raws []RawGig) (map[string]bool, error) {
	candidates := make([]string, 0, len(raws))
	for _, raw := range raws {
		if raw.ExternalID != "" {
			candidates = append(candidates, raw.ExternalID)
		}
	}
	if len(candidates) == 0 {
		return map[string]bool{}, nil
	}
	seen, err := p.store.SeenDedupIDs(ctx, userID, candidates)
	if err != nil {
		return nil, fmt.Errorf("dedup lookup: %w", err)
	}
	return seen, nil
}

// enrichTravel fills in missing travel fields from the provider when both
// the gig and the pipeline know their coordinates. Failures degrade to an
// unenriched gig.
func (p *Pipeline) enrichTravel(ctx context.Context, g *models.Gig) {
	if p.home == nil || p.travel == nil {
		return
	}
	if g.TravelDistance != nil && g.TravelTime != nil {
		return
	}
	if g.Latitude == nil || g.Longitude == nil {
		return
	}

	rctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	route, err := p.travel.Route(rctx, *p.home, travel.Point{Latitude: *g.Latitude, Longitude: *g.Longitude}, "driving")
	if err != nil {
		p.log.Debug().Err(err).Str("title", g.Title).Msg("travel lookup failed")
		return
	}

	if g.TravelDistance == nil {
		miles := route.DistanceMiles
		g.TravelDistance = &miles
	}
	if g.TravelTime == nil {
		minutes := route.DurationMinutes
		g.TravelTime = &minutes
	}
}

func (p *Pipeline) finishRun(ctx context.Context, runID uuid.UUID, status string, stats ImportStats) {
	if err := p.store.FinishImportRun(ctx, runID, status, stats.Found, stats.Saved, stats.Skipped, stats.Errors); err != nil {
		p.log.Error().Err(err).Str("run_id", runID.String()).Msg("could not finish import run")
	}
}
