package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/davidm/sidework/internal/db"
	"github.com/davidm/sidework/internal/engine"
)

// OverdueSweep expires available and selected gigs whose due date passed.
type OverdueSweep struct {
	Store *db.Store
	Log   zerolog.Logger
}

func (j *OverdueSweep) Name() string { return "overdue_sweep" }

func (j *OverdueSweep) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := j.Store.ExpireOverdue(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	if n > 0 {
		j.Log.Info().Int("expired", n).Msg("overdue gigs expired")
	}
	return nil
}

// rescoreWorkers bounds concurrent per-user rescoring.
const rescoreWorkers = 4

// Rescore recomputes scores for every available gig. Urgency decays with
// wall-clock time, so stored scores drift between imports.
type Rescore struct {
	Store   *db.Store
	Weights engine.Weights
	Log     zerolog.Logger
}

func (j *Rescore) Name() string { return "rescore" }

func (j *Rescore) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	userIDs, err := j.Store.ListUserIDsWithAvailableGigs(ctx)
	if err != nil {
		return err
	}
	if len(userIDs) == 0 {
		return nil
	}

	now := time.Now().UTC()

	var wg sync.WaitGroup
	sem := make(chan struct{}, rescoreWorkers)
	for _, userID := range userIDs {
		wg.Add(1)
		sem <- struct{}{}
		go func(userID uuid.UUID) {
			defer wg.Done()
			defer func() { <-sem }()
			j.rescoreUser(ctx, userID, now)
		}(userID)
	}
	wg.Wait()

	return nil
}

func (j *Rescore) rescoreUser(ctx context.Context, userID uuid.UUID, now time.Time) {
	gigs, err := j.Store.ListAvailable(ctx, userID)
	if err != nil {
		j.Log.Error().Err(err).Str("user_id", userID.String()).Msg("rescore: list failed")
		return
	}

	updated := 0
	for _, g := range gigs {
		result, err := engine.Score(g, now, j.Weights)
		if err != nil {
			j.Log.Warn().Err(err).Str("gig_id", g.ID.String()).Msg("rescore: skipping gig")
			continue
		}
		if result.Score == g.Score && result.Priority == g.Priority {
			continue
		}
		if err := j.Store.UpdateScore(ctx, g.ID, result.Score, result.Priority); err != nil {
			j.Log.Error().Err(err).Str("gig_id", g.ID.String()).Msg("rescore: update failed")
			continue
		}
		updated++
	}

	if updated > 0 {
		j.Log.Info().Str("user_id", userID.String()).Int("updated", updated).Msg("gigs rescored")
	}
}
