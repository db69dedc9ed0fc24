package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davidm/sidework/internal/models"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

type ListParams struct {
	Status    string // "available", "selected", "completed", "expired", or "all"
	SourceID  string
	Query     string
	DueBefore *time.Time
	DueAfter  *time.Time
	SortBy    string // "due", "score", "pay", "newest"
	Limit     int
	Offset    int
}

type ListResult struct {
	Gigs   []models.Gig `json:"gigs"`
	Total  int          `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

// selectCols is the comprehensive column list for all gig queries.
const selectCols = `id, user_id, source_id, title, description, pay_base, tip_expected, pay_bonus,
	location, latitude, longitude, estimated_duration, travel_distance, travel_time,
	due_date, completed_at, priority, score, status, external_dedup_id, created_at, updated_at`

func scanGig(scan func(dest ...interface{}) error) (models.Gig, error) {
	var g models.Gig
	var description *string

	err := scan(
		&g.ID, &g.UserID, &g.SourceID, &g.Title, &description, &g.PayBase, &g.TipExpected, &g.PayBonus,
		&g.Location, &g.Latitude, &g.Longitude, &g.EstimatedDuration, &g.TravelDistance, &g.TravelTime,
		&g.DueDate, &g.CompletedAt, &g.Priority, &g.Score, &g.Status, &g.ExternalDedupID, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return g, err
	}
	if description != nil {
		g.Description = *description
	}
	return g, nil
}

// CreateGig inserts a new gig. Status is always forced to available; callers
// provide the score and priority they computed through the engine beforehand.
func (s *Store) CreateGig(ctx context.Context, g *models.Gig) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO gigs (
			user_id, source_id, title, description, pay_base, tip_expected, pay_bonus,
			location, latitude, longitude, estimated_duration, travel_distance, travel_time,
			due_date, priority, score, status, external_dedup_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, 'available', $17)
		RETURNING id, status, created_at, updated_at
	`,
		g.UserID, g.SourceID, g.Title, g.Description, g.PayBase, g.TipExpected, g.PayBonus,
		g.Location, g.Latitude, g.Longitude, g.EstimatedDuration, g.TravelDistance, g.TravelTime,
		g.DueDate, g.Priority, g.Score, g.ExternalDedupID,
	).Scan(&g.ID, &g.Status, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert gig failed: %w", err)
	}
	return nil
}

func (s *Store) GetGig(ctx context.Context, userID, id uuid.UUID) (*models.Gig, error) {
	sql := fmt.Sprintf("SELECT %s FROM gigs WHERE id = $1 AND user_id = $2", selectCols)
	row := s.pool.QueryRow(ctx, sql, id, userID)

	g, err := scanGig(row.Scan)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get gig failed: %w", err)
	}
	return &g, nil
}

// UpdateGig persists mutable economics/logistics fields along with the
// score and priority the caller recomputed for them. Scoring never happens
// inside the store.
func (s *Store) UpdateGig(ctx context.Context, g *models.Gig) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE gigs SET
			title = $1, description = $2, pay_base = $3, tip_expected = $4, pay_bonus = $5,
			location = $6, latitude = $7, longitude = $8, estimated_duration = $9,
			travel_distance = $10, travel_time = $11, due_date = $12,
			priority = $13, score = $14, updated_at = NOW()
		WHERE id = $15 AND user_id = $16
	`,
		g.Title, g.Description, g.PayBase, g.TipExpected, g.PayBonus,
		g.Location, g.Latitude, g.Longitude, g.EstimatedDuration,
		g.TravelDistance, g.TravelTime, g.DueDate,
		g.Priority, g.Score, g.ID, g.UserID,
	)
	if err != nil {
		return fmt.Errorf("update gig failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteGig(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM gigs WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return fmt.Errorf("delete gig failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListGigs(ctx context.Context, userID uuid.UUID, params ListParams) (*ListResult, error) {
	where := "WHERE user_id = $1"
	args := []interface{}{userID}
	argIdx := 2

	if params.Status != "" && params.Status != "all" {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, params.Status)
		argIdx++
	}
	if params.SourceID != "" {
		where += fmt.Sprintf(" AND source_id = $%d", argIdx)
		args = append(args, params.SourceID)
		argIdx++
	}
	if params.Query != "" {
		where += fmt.Sprintf(" AND (title ILIKE '%%' || $%d || '%%' OR location ILIKE '%%' || $%d || '%%')", argIdx, argIdx)
		args = append(args, params.Query)
		argIdx++
	}
	if params.DueAfter != nil {
		where += fmt.Sprintf(" AND due_date >= $%d", argIdx)
		args = append(args, *params.DueAfter)
		argIdx++
	}
	if params.DueBefore != nil {
		where += fmt.Sprintf(" AND due_date <= $%d", argIdx)
		args = append(args, *params.DueBefore)
		argIdx++
	}

	var total int
	countSQL := "SELECT COUNT(*) FROM gigs " + where
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count failed: %w", err)
	}

	selectSQL := fmt.Sprintf("SELECT %s FROM gigs %s", selectCols, where)
	switch params.SortBy {
	case "due":
		selectSQL += " ORDER BY due_date ASC, id ASC"
	case "pay":
		selectSQL += " ORDER BY (pay_base + tip_expected + pay_bonus) DESC, id ASC"
	case "newest":
		selectSQL += " ORDER BY created_at DESC, id ASC"
	default: // "score"
		selectSQL += " ORDER BY score DESC, due_date ASC, id ASC"
	}

	limit := params.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	selectSQL += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := s.pool.Query(ctx, selectSQL, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var gigs []models.Gig
	for rows.Next() {
		g, err := scanGig(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		gigs = append(gigs, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	if gigs == nil {
		gigs = []models.Gig{}
	}

	return &ListResult{Gigs: gigs, Total: total, Limit: limit, Offset: offset}, nil
}

// allowedPriorStatuses mirrors models.CanTransition so the monotonic
// transition rule is enforced at the SQL level as well.
func allowedPriorStatuses(to models.Status) []string {
	switch to {
	case models.StatusSelected:
		return []string{string(models.StatusAvailable)}
	case models.StatusCompleted:
		return []string{string(models.StatusSelected)}
	case models.StatusExpired:
		return []string{string(models.StatusAvailable), string(models.StatusSelected)}
	default:
		return nil
	}
}

// UpdateStatus moves a gig to a new lifecycle status, rejecting transitions
// out of terminal states. Completion stamps completed_at.
func (s *Store) UpdateStatus(ctx context.Context, userID, id uuid.UUID, to models.Status) (*models.Gig, error) {
	prior := allowedPriorStatuses(to)
	if prior == nil {
		return nil, fmt.Errorf("%w: no transition into %q", ErrInvalidTransition, to)
	}

	completedAt := "completed_at"
	if to == models.StatusCompleted {
		completedAt = "NOW()"
	}

	sql := fmt.Sprintf(`
		UPDATE gigs SET status = $1, completed_at = %s, updated_at = NOW()
		WHERE id = $2 AND user_id = $3 AND status = ANY($4)
		RETURNING %s
	`, completedAt, selectCols)

	row := s.pool.QueryRow(ctx, sql, to, id, userID, prior)
	g, err := scanGig(row.Scan)
	if err == pgx.ErrNoRows {
		// Either the gig does not exist or it is not in a legal prior state.
		if _, getErr := s.GetGig(ctx, userID, id); getErr != nil {
			return nil, getErr
		}
		return nil, fmt.Errorf("%w: gig %s cannot move to %q", ErrInvalidTransition, id, to)
	}
	if err != nil {
		return nil, fmt.Errorf("update status failed: %w", err)
	}
	return &g, nil
}

// ApplySchedule marks the given gigs selected in one batched transactional
// statement. Only gigs still available are touched; the count of rows moved
// is returned so callers can detect races with concurrent mutations.
func (s *Store) ApplySchedule(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin failed: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE gigs SET status = 'selected', updated_at = NOW()
		WHERE user_id = $1 AND id = ANY($2) AND status = 'available'
	`, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("apply schedule failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit failed: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// ExpireOverdue expires available and selected gigs whose due date has passed.
func (s *Store) ExpireOverdue(ctx context.Context, now time.Time) (int, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE gigs SET status = 'expired', updated_at = NOW()
		WHERE status IN ('available', 'selected') AND due_date < $1
	`, now)
	if err != nil {
		return 0, fmt.Errorf("expire overdue failed: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// ListAvailable returns every available gig for a user, unpaginated, for the
// schedule selector.
func (s *Store) ListAvailable(ctx context.Context, userID uuid.UUID) ([]models.Gig, error) {
	sql := fmt.Sprintf("SELECT %s FROM gigs WHERE user_id = $1 AND status = 'available' ORDER BY created_at ASC", selectCols)
	rows, err := s.pool.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var gigs []models.Gig
	for rows.Next() {
		g, err := scanGig(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		gigs = append(gigs, g)
	}
	return gigs, rows.Err()
}

// ListCompletedBetween returns completed gigs whose completion timestamp
// falls inside [start, end].
func (s *Store) ListCompletedBetween(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.Gig, error) {
	sql := fmt.Sprintf(`
		SELECT %s FROM gigs
		WHERE user_id = $1 AND status = 'completed' AND completed_at >= $2 AND completed_at <= $3
		ORDER BY completed_at ASC
	`, selectCols)
	rows, err := s.pool.Query(ctx, sql, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var gigs []models.Gig
	for rows.Next() {
		g, err := scanGig(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		gigs = append(gigs, g)
	}
	return gigs, rows.Err()
}

// CountCompleted returns the user's lifetime completed gig count, the input
// to forecast confidence.
func (s *Store) CountCompleted(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM gigs WHERE user_id = $1 AND status = 'completed'", userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count completed failed: %w", err)
	}
	return count, nil
}

// SeenDedupIDs returns the subset of candidate external ids the user has
// already imported, in one query, so batch imports stay linear.
func (s *Store) SeenDedupIDs(ctx context.Context, userID uuid.UUID, candidates []string) (map[string]bool, error) {
	seen := make(map[string]bool, len(candidates))
	if len(candidates) == 0 {
		return seen, nil
	}

	rows, err := s.pool.Query(ctx, `
		SELECT external_dedup_id FROM gigs
		WHERE user_id = $1 AND external_dedup_id = ANY($2)
	`, userID, candidates)
	if err != nil {
		return nil, fmt.Errorf("dedup lookup failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		seen[id] = true
	}
	return seen, rows.Err()
}

// ExpireByDedupID marks a previously imported gig expired in response to a
// source cancellation signal. Terminal gigs are left untouched.
func (s *Store) ExpireByDedupID(ctx context.Context, userID uuid.UUID, dedupID string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE gigs SET status = 'expired', updated_at = NOW()
		WHERE user_id = $1 AND external_dedup_id = $2 AND status IN ('available', 'selected')
	`, userID, dedupID)
	if err != nil {
		return false, fmt.Errorf("expire by dedup id failed: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateScore persists a recomputed score/priority pair, used by the nightly
// rescore job.
func (s *Store) UpdateScore(ctx context.Context, id uuid.UUID, score int, priority models.Priority) error {
	_, err := s.pool.Exec(ctx,
		"UPDATE gigs SET score = $1, priority = $2, updated_at = NOW() WHERE id = $3",
		score, priority, id,
	)
	if err != nil {
		return fmt.Errorf("update score failed: %w", err)
	}
	return nil
}

// ListUserIDsWithAvailableGigs feeds the rescore job.
func (s *Store) ListUserIDsWithAvailableGigs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := s.pool.Query(ctx, "SELECT DISTINCT user_id FROM gigs WHERE status = 'available'")
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
