package processors

import (
	"sort"
	"strconv"

	"github.com/username/haifolio/backend/src/models"
	"github.com/username/haifolio/backend/src/utils"
)

// yearlyProcessorImpl implements the YearlyProcessor interface.
type yearlyProcessorImpl struct{}

// NewYearlyProcessor creates a new instance of YearlyProcessor.
func NewYearlyProcessor() YearlyProcessor {
	return &yearlyProcessorImpl{}
}

// AggregateByYear walks the rows in input order and accumulates converted
// amounts per year. Ineligible rows (empty date, unparsable year or amount)
// are skipped without failing the aggregation.
func (p *yearlyProcessorImpl) AggregateByYear(rows []models.LedgerRow, rate float64) map[string]float64 {
	totals := make(map[string]float64)
	for _, row := range rows {
		year, yen, ok := eligibleAmount(row, rate)
		if !ok {
			continue
		}
		totals[year] += yen
	}
	return totals
}

func (p *yearlyProcessorImpl) YearlySeries(rows []models.LedgerRow, rate float64) []models.YearlyDividend {
	totals := p.AggregateByYear(rows, rate)

	years := make([]string, 0, len(totals))
	for year := range totals {
		years = append(years, year)
	}
	sort.Strings(years)

	series := make([]models.YearlyDividend, 0, len(years))
	for _, year := range years {
		series = append(series, models.YearlyDividend{
			Year:          year,
			TotalDividend: int64(utils.RoundHalfUp(totals[year])),
		})
	}
	return series
}

// AvailableYears ignores amount cells on purpose: a year with only
// placeholder amounts still appears in the year selector.
func (p *yearlyProcessorImpl) AvailableYears(rows []models.LedgerRow) []int {
	seen := make(map[int]bool)
	for _, row := range rows {
		token, ok := ExtractYear(row.PaymentDate)
		if !ok {
			continue
		}
		year, err := strconv.Atoi(token)
		if err != nil {
			continue
		}
		seen[year] = true
	}

	years := make([]int, 0, len(seen))
	for year := range seen {
		years = append(years, year)
	}
	sort.Ints(years)
	return years
}
