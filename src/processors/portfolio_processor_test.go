package processors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/haifolio/backend/src/models"
)

func stockRow(date, code, name, currency, net string) models.LedgerRow {
	return models.LedgerRow{
		PaymentDate:  date,
		SecurityCode: code,
		SecurityName: name,
		Currency:     currency,
		NetAmount:    net,
	}
}

func TestCalculateStockDividends(t *testing.T) {
	p := NewPortfolioProcessor()

	rows := []models.LedgerRow{
		stockRow("2024/01/10", "7203", "トヨタ自動車", "円", "3,000"),
		stockRow("2024/03/15", "AAPL", "Apple Inc", "USドル", "10"),
		stockRow("2024/06/10", "7203", "トヨタ自動車", "円", "2000"),
		stockRow("2023/06/10", "7203", "トヨタ自動車", "円", "9999"),
		stockRow("2024/09/01", "", "投信A", "円", "500"),
	}

	stocks := p.CalculateStockDividends(rows, 2024, 150)
	require.Len(t, stocks, 3)

	assert.Equal(t, "トヨタ自動車", stocks[0].StockName)
	assert.Equal(t, int64(5000), stocks[0].Amount)
	assert.Equal(t, "Apple Inc", stocks[1].StockName)
	assert.Equal(t, int64(1500), stocks[1].Amount)
	assert.Equal(t, "投信A", stocks[2].StockName)
	assert.Equal(t, int64(500), stocks[2].Amount)

	var pctSum float64
	for _, s := range stocks {
		pctSum += s.Percentage
	}
	assert.InDelta(t, 100.0, pctSum, 1e-9)
}

func TestCalculateStockDividendsIdentityIsCodeAndName(t *testing.T) {
	p := NewPortfolioProcessor()

	rows := []models.LedgerRow{
		stockRow("2024/01/10", "1111", "同名ファンド", "円", "100"),
		stockRow("2024/02/10", "2222", "同名ファンド", "円", "200"),
		stockRow("2024/03/10", " 1111 ", "同名ファンド", "円", "50"),
		stockRow("2024/04/10", "", "無コード", "円", "10"),
		stockRow("2024/05/10", "", "無コード", "円", "20"),
	}

	stocks := p.CalculateStockDividends(rows, 2024, 150)
	require.Len(t, stocks, 3)

	// Same name under different codes stays separate; code whitespace is
	// trimmed before grouping.
	assert.Equal(t, models.SecurityKey{Code: "2222", Name: "同名ファンド"},
		models.SecurityKey{Code: stocks[0].StockCode, Name: stocks[0].StockName})
	assert.Equal(t, int64(200), stocks[0].Amount)
	assert.Equal(t, "1111", stocks[1].StockCode)
	assert.Equal(t, int64(150), stocks[1].Amount)
	assert.Equal(t, "", stocks[2].StockCode)
	assert.Equal(t, int64(30), stocks[2].Amount)
}

func TestCalculateStockDividendsTieKeepsFirstEncounterOrder(t *testing.T) {
	p := NewPortfolioProcessor()

	// ホンダ appears first in the file despite the later payment date; both
	// raw sums round to 100, so the ranking must fall back to encounter
	// order, not name or code.
	rows := []models.LedgerRow{
		stockRow("2024/02/01", "2222", "ホンダ", "円", "99.6"),
		stockRow("2024/01/10", "1111", "トヨタ自動車", "円", "100.4"),
	}

	stocks := p.CalculateStockDividends(rows, 2024, 150)
	require.Len(t, stocks, 2)
	assert.Equal(t, int64(100), stocks[0].Amount)
	assert.Equal(t, int64(100), stocks[1].Amount)
	assert.Equal(t, "ホンダ", stocks[0].StockName)
	assert.Equal(t, "トヨタ自動車", stocks[1].StockName)
}

func TestCalculateStockDividendsSkipsNamelessRows(t *testing.T) {
	p := NewPortfolioProcessor()
	stocks := p.CalculateStockDividends([]models.LedgerRow{
		stockRow("2024/01/10", "7203", "", "円", "1000"),
	}, 2024, 150)
	assert.Empty(t, stocks)
}

func TestAggregateOthers(t *testing.T) {
	p := NewPortfolioProcessor()

	var stocks []models.StockDividend
	var total int64
	for i := 0; i < 12; i++ {
		amount := int64(1200 - i*100)
		total += amount
		stocks = append(stocks, models.StockDividend{
			StockName: fmt.Sprintf("銘柄%d", i),
			Amount:    amount,
		})
	}
	for i := range stocks {
		stocks[i].Percentage = float64(stocks[i].Amount) / float64(total) * 100
	}

	result := p.AggregateOthers(stocks, 10)
	require.Len(t, result, 11)

	other := result[10]
	assert.Equal(t, OtherStockName, other.StockName)
	assert.Equal(t, "", other.StockCode)
	assert.Equal(t, int64(100+200), other.Amount)
	assert.Equal(t, "#9ca3af", other.Color)
	assert.InDelta(t, float64(300)/float64(total)*100, other.Percentage, 1e-9)
}

func TestAggregateOthersAtOrBelowLimit(t *testing.T) {
	p := NewPortfolioProcessor()

	stocks := []models.StockDividend{
		{StockName: "A", Amount: 100},
		{StockName: "B", Amount: 50},
	}
	assert.Equal(t, stocks, p.AggregateOthers(stocks, 2), "exactly topN entries pass through unchanged")
	assert.Equal(t, stocks, p.AggregateOthers(stocks, 10))
}

func TestGeneratePortfolio(t *testing.T) {
	p := NewPortfolioProcessor()

	var rows []models.LedgerRow
	for i := 0; i < 12; i++ {
		rows = append(rows, stockRow("2024/01/10", fmt.Sprintf("%04d", i),
			fmt.Sprintf("銘柄%d", i), "円", fmt.Sprintf("%d", 1200-i*100)))
	}

	portfolio := p.GeneratePortfolio(rows, 2024, 150, DefaultTopN)
	assert.Equal(t, 2024, portfolio.Year)
	require.Len(t, portfolio.Stocks, DefaultTopN+1)

	// TotalAmount counts every security, including the two collapsed into
	// the bucket.
	var sum int64
	for i := 0; i < 12; i++ {
		sum += int64(1200 - i*100)
	}
	assert.Equal(t, sum, portfolio.TotalAmount)

	// Percentages close to 100 across the kept ranks plus the bucket.
	var pctSum float64
	for _, s := range portfolio.Stocks {
		pctSum += s.Percentage
	}
	assert.InDelta(t, 100.0, pctSum, 1e-9)
	assert.Equal(t, OtherStockName, portfolio.Stocks[DefaultTopN].StockName)
}

func TestGeneratePortfolioEmptyYear(t *testing.T) {
	p := NewPortfolioProcessor()
	portfolio := p.GeneratePortfolio(nil, 2024, 150, DefaultTopN)
	assert.Equal(t, 2024, portfolio.Year)
	assert.Empty(t, portfolio.Stocks)
	assert.Equal(t, int64(0), portfolio.TotalAmount)
}
