package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// Keys stored in the app_settings table. The names match the original
// dashboard's persisted settings.
const (
	KeyExchangeRate = "usdToJpyRate"
	KeyGoalSettings = "goalSettings"
)

// sqliteSettingsStore implements KV on the app_settings table. Stored values
// take precedence over environment defaults, which allows runtime changes
// without restarting the application.
type sqliteSettingsStore struct {
	db *sql.DB
}

// NewSettingsStore creates a KV store backed by the given database. Panics
// on a nil handle: that is a wiring bug, not a runtime condition.
func NewSettingsStore(db *sql.DB) KV {
	if db == nil {
		panic("storage.NewSettingsStore: nil database handle")
	}
	return &sqliteSettingsStore{db: db}
}

func (s *sqliteSettingsStore) Get(key string) (*string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM app_settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return &value, nil
}

func (s *sqliteSettingsStore) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO app_settings (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

func (s *sqliteSettingsStore) Remove(key string) error {
	if _, err := s.db.Exec("DELETE FROM app_settings WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to remove setting %s: %w", key, err)
	}
	return nil
}
