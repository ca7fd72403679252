package processors

import (
	"sort"
	"strconv"
	"strings"

	"github.com/username/haifolio/backend/src/models"
	"github.com/username/haifolio/backend/src/utils"
)

const (
	// OtherStockName labels the synthetic bucket holding everything beyond
	// the top-N securities.
	OtherStockName = "その他"
	// otherSliceColor distinguishes the bucket from ranked securities.
	otherSliceColor = "#9ca3af"
	// DefaultTopN is the number of securities shown individually.
	DefaultTopN = 10
)

// portfolioProcessorImpl implements the PortfolioProcessor interface.
type portfolioProcessorImpl struct{}

// NewPortfolioProcessor creates a new instance of PortfolioProcessor.
func NewPortfolioProcessor() PortfolioProcessor {
	return &portfolioProcessorImpl{}
}

// CalculateStockDividends groups the target year's rows by security and sums
// converted amounts per group. Identity is the (trimmed code, name) pair:
// same name under different codes stays separate, and empty-code rows only
// collapse with other empty-code rows of the same name.
//
// Each group's sum is rounded before percentages are computed, so percentages
// are shares of the rounded totals. The result is sorted by amount descending
// with ties keeping first-encounter order.
func (p *portfolioProcessorImpl) CalculateStockDividends(rows []models.LedgerRow, targetYear int, rate float64) []models.StockDividend {
	amounts := make(map[models.SecurityKey]float64)
	var order []models.SecurityKey

	for _, row := range rows {
		if row.SecurityName == "" {
			continue
		}
		yearToken, yen, ok := eligibleAmount(row, rate)
		if !ok {
			continue
		}
		year, err := strconv.Atoi(yearToken)
		if err != nil || year != targetYear {
			continue
		}

		key := models.SecurityKey{
			Code: strings.TrimSpace(row.SecurityCode),
			Name: row.SecurityName,
		}
		if _, exists := amounts[key]; !exists {
			order = append(order, key)
		}
		amounts[key] += yen
	}

	stocks := make([]models.StockDividend, 0, len(order))
	var total int64
	for _, key := range order {
		amount := int64(utils.RoundHalfUp(amounts[key]))
		total += amount
		stocks = append(stocks, models.StockDividend{
			StockCode: key.Code,
			StockName: key.Name,
			Amount:    amount,
		})
	}

	for i := range stocks {
		if total != 0 {
			stocks[i].Percentage = float64(stocks[i].Amount) / float64(total) * 100
		}
	}

	sort.SliceStable(stocks, func(i, j int) bool {
		return stocks[i].Amount > stocks[j].Amount
	})
	return stocks
}

// AggregateOthers collapses everything beyond rank topN into one synthetic
// entry. The bucket is always appended last, even when its aggregate amount
// would outrank some of the kept entries.
func (p *portfolioProcessorImpl) AggregateOthers(stocks []models.StockDividend, topN int) []models.StockDividend {
	if len(stocks) <= topN {
		return stocks
	}

	var total int64
	for _, s := range stocks {
		total += s.Amount
	}

	var otherAmount int64
	for _, s := range stocks[topN:] {
		otherAmount += s.Amount
	}
	otherPercentage := 0.0
	if total != 0 {
		otherPercentage = float64(otherAmount) / float64(total) * 100
	}

	result := make([]models.StockDividend, 0, topN+1)
	result = append(result, stocks[:topN]...)
	result = append(result, models.StockDividend{
		StockCode:  "",
		StockName:  OtherStockName,
		Amount:     otherAmount,
		Percentage: otherPercentage,
		Color:      otherSliceColor,
	})
	return result
}

func (p *portfolioProcessorImpl) GeneratePortfolio(rows []models.LedgerRow, targetYear int, rate float64, topN int) models.YearlyPortfolio {
	stocks := p.CalculateStockDividends(rows, targetYear, rate)

	// TotalAmount reflects every security, not just the kept ranks.
	var total int64
	for _, s := range stocks {
		total += s.Amount
	}

	return models.YearlyPortfolio{
		Year:        targetYear,
		Stocks:      p.AggregateOthers(stocks, topN),
		TotalAmount: total,
	}
}
