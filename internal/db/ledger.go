package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/davidm/sidework/internal/models"
)

const ledgerCols = `id, user_id, entry_type, category, amount, transaction_date, status, created_at`

func scanEntry(scan func(dest ...interface{}) error) (models.LedgerEntry, error) {
	var e models.LedgerEntry
	err := scan(&e.ID, &e.UserID, &e.Type, &e.Category, &e.Amount, &e.TransactionDate, &e.Status, &e.CreatedAt)
	return e, err
}

func (s *Store) CreateEntry(ctx context.Context, e *models.LedgerEntry) error {
	if e.Status == "" {
		e.Status = models.EntryPending
	}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO ledger_entries (user_id, entry_type, category, amount, transaction_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, e.UserID, e.Type, e.Category, e.Amount, e.TransactionDate, e.Status).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert ledger entry failed: %w", err)
	}
	return nil
}

// ListEntriesBetween returns entries whose transaction date falls inside
// [start, end].
func (s *Store) ListEntriesBetween(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.LedgerEntry, error) {
	sql := fmt.Sprintf(`
		SELECT %s FROM ledger_entries
		WHERE user_id = $1 AND transaction_date >= $2 AND transaction_date <= $3
		ORDER BY transaction_date ASC, id ASC
	`, ledgerCols)
	rows, err := s.pool.Query(ctx, sql, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// UpdateEntryStatus is the only mutation a ledger entry supports.
func (s *Store) UpdateEntryStatus(ctx context.Context, userID, id uuid.UUID, status models.EntryStatus) (*models.LedgerEntry, error) {
	sql := fmt.Sprintf(`
		UPDATE ledger_entries SET status = $1
		WHERE id = $2 AND user_id = $3
		RETURNING %s
	`, ledgerCols)
	row := s.pool.QueryRow(ctx, sql, status, id, userID)

	e, err := scanEntry(row.Scan)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update entry status failed: %w", err)
	}
	return &e, nil
}
