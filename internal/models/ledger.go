package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EntryType distinguishes cash in from cash out.
type EntryType string

const (
	EntryEarning EntryType = "earning"
	EntryExpense EntryType = "expense"
)

// EntryStatus tracks settlement of a ledger entry.
type EntryStatus string

const (
	EntryPending    EntryStatus = "pending"
	EntryProcessing EntryStatus = "processing"
	EntryPaid       EntryStatus = "paid"
)

// LedgerEntry records one cash movement independent of any specific gig.
// Entries are immutable once created except for status updates.
type LedgerEntry struct {
	ID              uuid.UUID   `json:"id"`
	UserID          uuid.UUID   `json:"user_id"`
	Type            EntryType   `json:"type"`
	Category        string      `json:"category"`
	Amount          float64     `json:"amount"`
	TransactionDate time.Time   `json:"transaction_date"`
	Status          EntryStatus `json:"status"`
	CreatedAt       time.Time   `json:"created_at"`
}

func (e LedgerEntry) Validate() error {
	if e.Type != EntryEarning && e.Type != EntryExpense {
		return fmt.Errorf("type must be earning or expense, got %q", e.Type)
	}
	if e.Amount < 0 {
		return fmt.Errorf("amount must be non-negative")
	}
	if e.TransactionDate.IsZero() {
		return fmt.Errorf("transaction_date is required")
	}
	return nil
}

// ValidEntryStatus reports whether s is one of the settlement states.
func ValidEntryStatus(s EntryStatus) bool {
	return s == EntryPending || s == EntryProcessing || s == EntryPaid
}
