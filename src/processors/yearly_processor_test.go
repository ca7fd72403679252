package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/haifolio/backend/src/models"
)

func row(date, name, currency, net string) models.LedgerRow {
	return models.LedgerRow{
		PaymentDate:  date,
		SecurityName: name,
		Currency:     currency,
		NetAmount:    net,
	}
}

func TestAggregateByYear(t *testing.T) {
	p := NewYearlyProcessor()

	rows := []models.LedgerRow{
		row("2025/01/10", "トヨタ", "円", "1,000"),
		row("2024/06/20", "AAPL", "USドル", "10"),
		row("2025/07/05", "トヨタ", "円", "1000"),
		row("2024/12/25", "ホンダ", "円", "1000"),
		row("", "欠損", "円", "500"),
		row("2024/01/01", "プレースホルダ", "円", "-"),
		row("2024/01/01", "壊れた行", "円", ""),
	}

	totals := p.AggregateByYear(rows, 150)
	assert.Equal(t, map[string]float64{
		"2025": 2000,
		"2024": 2500,
	}, totals)
}

func TestYearlySeries(t *testing.T) {
	p := NewYearlyProcessor()

	rows := []models.LedgerRow{
		row("2025/01/10", "A", "円", "2000"),
		row("2024/06/20", "B", "USドル", "10.003"),
		row("2024/12/25", "C", "円", "1000"),
	}

	series := p.YearlySeries(rows, 150)
	require.Len(t, series, 2)
	assert.Equal(t, models.YearlyDividend{Year: "2024", TotalDividend: 2500}, series[0])
	assert.Equal(t, models.YearlyDividend{Year: "2025", TotalDividend: 2000}, series[1])
}

func TestYearlySeriesRoundsHalfUp(t *testing.T) {
	p := NewYearlyProcessor()

	series := p.YearlySeries([]models.LedgerRow{
		row("2024/01/01", "A", "円", "100.5"),
	}, 150)
	require.Len(t, series, 1)
	assert.Equal(t, int64(101), series[0].TotalDividend)
}

func TestAvailableYears(t *testing.T) {
	p := NewYearlyProcessor()

	rows := []models.LedgerRow{
		row("2025/01/10", "A", "円", "1000"),
		row("2023/03/03", "B", "円", ""),
		row("2024/06/20", "C", "円", "-"),
		row("2024/07/01", "D", "円", "200"),
		row("bad-date", "E", "円", "100"),
	}

	// Amount cells are irrelevant here: 2023 appears even though its only
	// row has an empty amount.
	assert.Equal(t, []int{2023, 2024, 2025}, p.AvailableYears(rows))
}

func TestAvailableYearsEmpty(t *testing.T) {
	p := NewYearlyProcessor()
	assert.Empty(t, p.AvailableYears(nil))
}
