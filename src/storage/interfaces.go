package storage

import (
	"github.com/username/haifolio/backend/src/models"
)

// RowStore persists ledger rows. Read-back order must match insertion order:
// the aggregators' tie-breaking depends on first-seen order.
type RowStore interface {
	// InsertRows appends rows, silently skipping ones already present
	// (same hash). Returns how many were inserted and skipped.
	InsertRows(rows []models.LedgerRow) (inserted, skipped int, err error)
	All() ([]models.LedgerRow, error)
	Count() (int, error)
	DeleteAll() error
}

// KV is a string key-value store with last-write-wins semantics. Get returns
// nil when the key is absent (not an error).
type KV interface {
	Get(key string) (*string, error)
	Set(key, value string) error
	Remove(key string) error
}
