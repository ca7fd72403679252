package services

import (
	"strings"
	"testing"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/haifolio/backend/src/models"
)

// fakeRowStore is a slice-backed storage.RowStore keeping insertion order.
type fakeRowStore struct {
	rows     []models.LedgerRow
	allCalls int
}

func (f *fakeRowStore) InsertRows(rows []models.LedgerRow) (int, int, error) {
	seen := make(map[string]bool, len(f.rows))
	for _, r := range f.rows {
		seen[r.HashID] = true
	}
	inserted, skipped := 0, 0
	for _, r := range rows {
		if seen[r.HashID] {
			skipped++
			continue
		}
		seen[r.HashID] = true
		f.rows = append(f.rows, r)
		inserted++
	}
	return inserted, skipped, nil
}

func (f *fakeRowStore) All() ([]models.LedgerRow, error) {
	f.allCalls++
	return f.rows, nil
}

func (f *fakeRowStore) Count() (int, error) { return len(f.rows), nil }

func (f *fakeRowStore) DeleteAll() error {
	f.rows = nil
	return nil
}

func newTestService(rows *fakeRowStore, rateKV, goalKV *fakeKV) DividendService {
	return NewDividendService(rows,
		NewRateService(rateKV, nil),
		NewGoalService(goalKV, nil),
		cache.New(DefaultCacheExpiration, CacheCleanupInterval))
}

const ledgerCSV = `入金日,商品,口座,銘柄コード,銘柄,受取通貨,単価[円/現地通貨],数量[株/口],配当・分配金合計（税引前）[円/現地通貨],税額合計[円/現地通貨],受取金額[円/現地通貨]
2024/03/15,国内株式,特定,7203,トヨタ自動車,円,25,100,2500,500,2000
2024/06/20,米国株式,NISA,AAPL,Apple Inc,USドル,0.25,40,10,0,10
2025/03/14,国内株式,特定,7203,トヨタ自動車,円,30,100,3000,600,2400
`

func TestImportLedger(t *testing.T) {
	store := &fakeRowStore{}
	svc := newTestService(store, newFakeKV(), newFakeKV())

	result, err := svc.ImportLedger(strings.NewReader(ledgerCSV), "sbi")
	require.NoError(t, err)
	assert.Equal(t, &models.ImportResult{RowsParsed: 3, RowsInserted: 3, RowsSkipped: 0}, result)

	// Re-importing the same file is a no-op thanks to the row hashes.
	result, err = svc.ImportLedger(strings.NewReader(ledgerCSV), "sbi")
	require.NoError(t, err)
	assert.Equal(t, &models.ImportResult{RowsParsed: 3, RowsInserted: 0, RowsSkipped: 3}, result)

	count, err := svc.RowCount()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestImportLedgerKeepsRepeatedLines(t *testing.T) {
	store := &fakeRowStore{}
	svc := newTestService(store, newFakeKV(), newFakeKV())

	// Identical ledger lines within one file are separate payments and both
	// count; re-importing the file skips both.
	csv := `入金日,銘柄コード,銘柄,受取通貨,受取金額[円/現地通貨]
2024/06/20,1234,分配金ファンド,円,300
2024/06/20,1234,分配金ファンド,円,300
`
	result, err := svc.ImportLedger(strings.NewReader(csv), "sbi")
	require.NoError(t, err)
	assert.Equal(t, &models.ImportResult{RowsParsed: 2, RowsInserted: 2, RowsSkipped: 0}, result)

	series, err := svc.YearlySeries()
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, int64(600), series[0].TotalDividend)

	result, err = svc.ImportLedger(strings.NewReader(csv), "sbi")
	require.NoError(t, err)
	assert.Equal(t, &models.ImportResult{RowsParsed: 2, RowsInserted: 0, RowsSkipped: 2}, result)
}

func TestImportLedgerUnknownSource(t *testing.T) {
	svc := newTestService(&fakeRowStore{}, newFakeKV(), newFakeKV())

	_, err := svc.ImportLedger(strings.NewReader(ledgerCSV), "rakuten")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParsingFailed)
}

func TestImportLedgerMalformedFile(t *testing.T) {
	svc := newTestService(&fakeRowStore{}, newFakeKV(), newFakeKV())

	_, err := svc.ImportLedger(strings.NewReader("銘柄,受取金額\nno payment date header\n"), "sbi")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParsingFailed)
}

func TestYearlySeriesAppliesCurrentRate(t *testing.T) {
	store := &fakeRowStore{}
	rateKV := newFakeKV()
	svc := newTestService(store, rateKV, newFakeKV())

	_, err := svc.ImportLedger(strings.NewReader(ledgerCSV), "sbi")
	require.NoError(t, err)

	series, err := svc.YearlySeries()
	require.NoError(t, err)
	require.Len(t, series, 2)
	// 2000 JPY + 10 USD * 150.
	assert.Equal(t, models.YearlyDividend{Year: "2024", TotalDividend: 3500}, series[0])
	assert.Equal(t, models.YearlyDividend{Year: "2025", TotalDividend: 2400}, series[1])
}

func TestYearlySeriesCachesPerRate(t *testing.T) {
	store := &fakeRowStore{}
	rateKV := newFakeKV()
	svc := newTestService(store, rateKV, newFakeKV())
	rates := NewRateService(rateKV, nil)

	_, err := svc.ImportLedger(strings.NewReader(ledgerCSV), "sbi")
	require.NoError(t, err)

	_, err = svc.YearlySeries()
	require.NoError(t, err)
	_, err = svc.YearlySeries()
	require.NoError(t, err)
	assert.Equal(t, 1, store.allCalls, "second read at the same rate should be served from cache")

	// Changing the rate changes the cache key, so the next read recomputes
	// without any explicit invalidation.
	require.NoError(t, rates.Set(100))
	series, err := svc.YearlySeries()
	require.NoError(t, err)
	assert.Equal(t, 2, store.allCalls)
	assert.Equal(t, int64(3000), series[0].TotalDividend, "10 USD at rate 100 on top of 2000 JPY")
}

func TestCumulativeSeries(t *testing.T) {
	store := &fakeRowStore{}
	svc := newTestService(store, newFakeKV(), newFakeKV())

	_, err := svc.ImportLedger(strings.NewReader(ledgerCSV), "sbi")
	require.NoError(t, err)

	series, err := svc.CumulativeSeries()
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, int64(3500), series[0].CumulativeDividend)
	assert.Equal(t, int64(5900), series[1].CumulativeDividend)
}

func TestAvailableYears(t *testing.T) {
	store := &fakeRowStore{}
	svc := newTestService(store, newFakeKV(), newFakeKV())

	_, err := svc.ImportLedger(strings.NewReader(ledgerCSV), "sbi")
	require.NoError(t, err)

	years, err := svc.AvailableYears()
	require.NoError(t, err)
	assert.Equal(t, []int{2024, 2025}, years)
}

func TestPortfolio(t *testing.T) {
	store := &fakeRowStore{}
	svc := newTestService(store, newFakeKV(), newFakeKV())

	_, err := svc.ImportLedger(strings.NewReader(ledgerCSV), "sbi")
	require.NoError(t, err)

	portfolio, err := svc.Portfolio(2024, 0)
	require.NoError(t, err)
	assert.Equal(t, 2024, portfolio.Year)
	require.Len(t, portfolio.Stocks, 2)
	assert.Equal(t, "トヨタ自動車", portfolio.Stocks[0].StockName)
	assert.Equal(t, int64(2000), portfolio.Stocks[0].Amount)
	assert.Equal(t, "Apple Inc", portfolio.Stocks[1].StockName)
	assert.Equal(t, int64(1500), portfolio.Stocks[1].Amount)
	assert.Equal(t, int64(3500), portfolio.TotalAmount)
}

func TestGoalReport(t *testing.T) {
	store := &fakeRowStore{}
	goalKV := newFakeKV()
	svc := newTestService(store, newFakeKV(), goalKV)

	_, err := svc.ImportLedger(strings.NewReader(ledgerCSV), "sbi")
	require.NoError(t, err)

	report, err := svc.GoalReport()
	require.NoError(t, err)
	require.Len(t, report.Achievements, 2)
	assert.Equal(t, 2025, report.Achievements[0].Year)
	assert.Equal(t, 360000.0, report.Achievements[0].TargetAmount)
	require.NotNil(t, report.Summary)
	assert.Equal(t, 2, report.Summary.TotalYearsCount)
}

func TestGoalReportEmptyStore(t *testing.T) {
	svc := newTestService(&fakeRowStore{}, newFakeKV(), newFakeKV())

	report, err := svc.GoalReport()
	require.NoError(t, err)
	assert.Empty(t, report.Achievements)
	assert.Nil(t, report.Summary)
}

func TestDeleteAllRowsFlushesCache(t *testing.T) {
	store := &fakeRowStore{}
	svc := newTestService(store, newFakeKV(), newFakeKV())

	_, err := svc.ImportLedger(strings.NewReader(ledgerCSV), "sbi")
	require.NoError(t, err)
	_, err = svc.YearlySeries()
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAllRows())

	series, err := svc.YearlySeries()
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestNewDividendServicePanicsOnNilDependency(t *testing.T) {
	rates := NewRateService(newFakeKV(), nil)
	goals := NewGoalService(newFakeKV(), nil)
	c := cache.New(DefaultCacheExpiration, CacheCleanupInterval)

	assert.Panics(t, func() { NewDividendService(nil, rates, goals, c) })
	assert.Panics(t, func() { NewDividendService(&fakeRowStore{}, nil, goals, c) })
	assert.Panics(t, func() { NewDividendService(&fakeRowStore{}, rates, nil, c) })
	assert.Panics(t, func() { NewDividendService(&fakeRowStore{}, rates, goals, nil) })
}
