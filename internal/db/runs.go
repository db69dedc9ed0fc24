package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ImportRun is the bookkeeping record for one batch import from a source.
type ImportRun struct {
	RunID        uuid.UUID  `json:"run_id"`
	UserID       uuid.UUID  `json:"user_id"`
	SourceID     string     `json:"source_id"`
	Status       string     `json:"status"` // running, completed, failed
	ItemsFound   int        `json:"items_found"`
	ItemsSaved   int        `json:"items_saved"`
	ItemsSkipped int        `json:"items_skipped"`
	Errors       int        `json:"errors"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

func (s *Store) CreateImportRun(ctx context.Context, userID uuid.UUID, sourceID string) (uuid.UUID, error) {
	var runID uuid.UUID
	err := s.pool.QueryRow(ctx,
		"INSERT INTO import_runs (user_id, source_id, status) VALUES ($1, $2, 'running') RETURNING run_id",
		userID, sourceID,
	).Scan(&runID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create import run failed: %w", err)
	}
	return runID, nil
}

func (s *Store) FinishImportRun(ctx context.Context, runID uuid.UUID, status string, found, saved, skipped, errCount int) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE import_runs SET
			status = $1, items_found = $2, items_saved = $3, items_skipped = $4,
			errors = $5, completed_at = NOW()
		WHERE run_id = $6
	`, status, found, saved, skipped, errCount, runID)
	if err != nil {
		return fmt.Errorf("finish import run failed: %w", err)
	}
	return nil
}

func (s *Store) ListImportRuns(ctx context.Context, userID uuid.UUID, limit int) ([]ImportRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `
		SELECT run_id, user_id, source_id, status, items_found, items_saved, items_skipped, errors, started_at, completed_at
		FROM import_runs WHERE user_id = $1 ORDER BY started_at DESC LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var runs []ImportRun
	for rows.Next() {
		var r ImportRun
		if err := rows.Scan(&r.RunID, &r.UserID, &r.SourceID, &r.Status, &r.ItemsFound, &r.ItemsSaved, &r.ItemsSkipped, &r.Errors, &r.StartedAt, &r.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
