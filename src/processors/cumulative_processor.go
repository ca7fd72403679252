package processors

import (
	"sort"

	"github.com/username/haifolio/backend/src/models"
	"github.com/username/haifolio/backend/src/utils"
)

// cumulativeProcessorImpl implements the CumulativeProcessor interface.
type cumulativeProcessorImpl struct{}

// NewCumulativeProcessor creates a new instance of CumulativeProcessor.
func NewCumulativeProcessor() CumulativeProcessor {
	return &cumulativeProcessorImpl{}
}

// FormatCumulative sorts the years ascending (4-digit year strings sort
// correctly lexicographically) and produces the running total. Each year is
// rounded to an integer first and the cumulative figure sums those integers,
// so the series never drifts from the displayed per-year amounts.
func (p *cumulativeProcessorImpl) FormatCumulative(yearly map[string]float64) []models.CumulativeDividend {
	years := make([]string, 0, len(yearly))
	for year := range yearly {
		years = append(years, year)
	}
	sort.Strings(years)

	series := make([]models.CumulativeDividend, 0, len(years))
	var cumulative int64
	for _, year := range years {
		amount := int64(utils.RoundHalfUp(yearly[year]))
		cumulative += amount
		series = append(series, models.CumulativeDividend{
			Year:               year,
			YearlyDividend:     amount,
			CumulativeDividend: cumulative,
		})
	}
	return series
}
