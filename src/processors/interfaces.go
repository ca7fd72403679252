package processors

import (
	"github.com/username/haifolio/backend/src/models"
)

// YearlyProcessor aggregates ledger rows into per-year totals.
type YearlyProcessor interface {
	// AggregateByYear sums converted amounts of eligible rows per year.
	// Values stay unrounded floats; rounding happens once per view.
	AggregateByYear(rows []models.LedgerRow, rate float64) map[string]float64
	// YearlySeries returns the per-year chart series, ascending by year,
	// amounts rounded for display.
	YearlySeries(rows []models.LedgerRow, rate float64) []models.YearlyDividend
	// AvailableYears lists the years present in the ledger, ascending.
	AvailableYears(rows []models.LedgerRow) []int
}

// PortfolioProcessor builds the per-year security breakdown.
type PortfolioProcessor interface {
	CalculateStockDividends(rows []models.LedgerRow, targetYear int, rate float64) []models.StockDividend
	AggregateOthers(stocks []models.StockDividend, topN int) []models.StockDividend
	GeneratePortfolio(rows []models.LedgerRow, targetYear int, rate float64, topN int) models.YearlyPortfolio
}

// CumulativeProcessor turns a year->amount map into a running-total series.
type CumulativeProcessor interface {
	FormatCumulative(yearly map[string]float64) []models.CumulativeDividend
}

// GoalProcessor computes goal-achievement figures from yearly totals.
type GoalProcessor interface {
	CalculateAchievements(yearly map[string]float64, monthlyTarget float64) []models.YearlyGoalAchievement
	Summary(achievements []models.YearlyGoalAchievement) *models.GoalAchievementSummary
}
