package services

import (
	"errors"
	"io"

	"github.com/username/haifolio/backend/src/models"
)

var (
	// ErrParsingFailed wraps transport-level CSV errors (unreadable input,
	// missing header). Bad cells never produce it; those degrade row-locally.
	ErrParsingFailed = errors.New("csv parsing failed")

	// ErrInvalidRate rejects non-finite or non-positive rate candidates.
	ErrInvalidRate = errors.New("exchange rate must be a positive finite number")
	// ErrRateOutOfRange rejects finite candidates outside the allowed band.
	ErrRateOutOfRange = errors.New("exchange rate outside the allowed range")
	// ErrInvalidGoalTarget rejects monthly targets outside the allowed band.
	ErrInvalidGoalTarget = errors.New("monthly goal target outside the allowed range")
)

// GoalReport bundles the per-year achievements with their summary.
// Summary is nil (JSON null) when the ledger holds no data.
type GoalReport struct {
	Achievements []models.YearlyGoalAchievement `json:"achievements"`
	Summary      *models.GoalAchievementSummary `json:"summary"`
}

// DividendService is the core orchestration: ledger ingestion and every
// dashboard view, recomputed from raw rows at the current rate/target.
type DividendService interface {
	ImportLedger(fileReader io.Reader, source string) (*models.ImportResult, error)
	YearlySeries() ([]models.YearlyDividend, error)
	CumulativeSeries() ([]models.CumulativeDividend, error)
	AvailableYears() ([]int, error)
	Portfolio(year, topN int) (*models.YearlyPortfolio, error)
	GoalReport() (*GoalReport, error)
	RowCount() (int, error)
	DeleteAllRows() error
}

// RateService resolves and mutates the USD->JPY conversion rate.
type RateService interface {
	// Current resolves the effective rate per read: stored override ->
	// environment default -> hard-coded fallback.
	Current() float64
	// Set validates and persists a new rate. Rejected candidates leave the
	// previous value untouched.
	Set(rate float64) error
	// Reset removes any stored override and returns the hard-coded
	// fallback, bypassing the environment default.
	Reset() float64
	// Default returns the hard-coded fallback rate.
	Default() float64
}

// GoalService resolves and mutates the monthly dividend goal.
type GoalService interface {
	Settings() models.GoalSettings
	SetMonthlyTarget(target float64) error
}
