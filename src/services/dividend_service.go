package services

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/haifolio/backend/src/logger"
	"github.com/username/haifolio/backend/src/models"
	"github.com/username/haifolio/backend/src/parsers"
	"github.com/username/haifolio/backend/src/processors"
	"github.com/username/haifolio/backend/src/storage"
)

const (
	// Cache keys carry every parameter the report depends on, so a rate or
	// goal change can never serve a stale entry; invalidation on import is
	// just economy.
	ckYearlySeries   = "res_yearly_series_rate_%s"
	ckCumulative     = "res_cumulative_rate_%s"
	ckPortfolio      = "res_portfolio_%d_top%d_rate_%s"
	ckGoalReport     = "res_goal_report_rate_%s_target_%s"
	ckAvailableYears = "res_available_years"

	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

// dividendServiceImpl implements DividendService. Every view is a pure
// function of (rows, rate, target); each call re-derives its result from the
// stored rows, with go-cache memoizing per parameter set.
type dividendServiceImpl struct {
	rows        storage.RowStore
	rates       RateService
	goals       GoalService
	yearly      processors.YearlyProcessor
	portfolio   processors.PortfolioProcessor
	cumulative  processors.CumulativeProcessor
	goal        processors.GoalProcessor
	reportCache *cache.Cache
}

// NewDividendService wires the aggregation pipeline. All dependencies are
// required; a nil argument is a wiring bug and panics immediately rather
// than degrading.
func NewDividendService(rows storage.RowStore, rates RateService, goals GoalService, reportCache *cache.Cache) DividendService {
	if rows == nil || rates == nil || goals == nil || reportCache == nil {
		panic("services.NewDividendService: nil dependency")
	}
	return &dividendServiceImpl{
		rows:        rows,
		rates:       rates,
		goals:       goals,
		yearly:      processors.NewYearlyProcessor(),
		portfolio:   processors.NewPortfolioProcessor(),
		cumulative:  processors.NewCumulativeProcessor(),
		goal:        processors.NewGoalProcessor(),
		reportCache: reportCache,
	}
}

func (s *dividendServiceImpl) ImportLedger(fileReader io.Reader, source string) (*models.ImportResult, error) {
	startTime := time.Now()
	logger.L.Info("ImportLedger START", "source", source)

	parser, err := parsers.GetParser(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}

	ledgerRows, err := parser.Parse(fileReader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}

	inserted, skipped, err := s.rows.InsertRows(ledgerRows)
	if err != nil {
		return nil, err
	}

	s.reportCache.Flush()

	logger.L.Info("ImportLedger END",
		"source", source,
		"parsed", len(ledgerRows),
		"inserted", inserted,
		"skipped", skipped,
		"duration", time.Since(startTime))
	return &models.ImportResult{
		RowsParsed:   len(ledgerRows),
		RowsInserted: inserted,
		RowsSkipped:  skipped,
	}, nil
}

func (s *dividendServiceImpl) YearlySeries() ([]models.YearlyDividend, error) {
	rate := s.rates.Current()
	key := fmt.Sprintf(ckYearlySeries, rateKey(rate))
	if cached, found := s.reportCache.Get(key); found {
		logger.L.Debug("Cache hit for yearly series", "rate", rate)
		return cached.([]models.YearlyDividend), nil
	}

	rows, err := s.rows.All()
	if err != nil {
		return nil, err
	}
	series := s.yearly.YearlySeries(rows, rate)
	s.reportCache.Set(key, series, DefaultCacheExpiration)
	return series, nil
}

func (s *dividendServiceImpl) CumulativeSeries() ([]models.CumulativeDividend, error) {
	rate := s.rates.Current()
	key := fmt.Sprintf(ckCumulative, rateKey(rate))
	if cached, found := s.reportCache.Get(key); found {
		logger.L.Debug("Cache hit for cumulative series", "rate", rate)
		return cached.([]models.CumulativeDividend), nil
	}

	rows, err := s.rows.All()
	if err != nil {
		return nil, err
	}
	series := s.cumulative.FormatCumulative(s.yearly.AggregateByYear(rows, rate))
	s.reportCache.Set(key, series, DefaultCacheExpiration)
	return series, nil
}

func (s *dividendServiceImpl) AvailableYears() ([]int, error) {
	if cached, found := s.reportCache.Get(ckAvailableYears); found {
		return cached.([]int), nil
	}

	rows, err := s.rows.All()
	if err != nil {
		return nil, err
	}
	years := s.yearly.AvailableYears(rows)
	s.reportCache.Set(ckAvailableYears, years, DefaultCacheExpiration)
	return years, nil
}

func (s *dividendServiceImpl) Portfolio(year, topN int) (*models.YearlyPortfolio, error) {
	if topN <= 0 {
		topN = processors.DefaultTopN
	}
	rate := s.rates.Current()
	key := fmt.Sprintf(ckPortfolio, year, topN, rateKey(rate))
	if cached, found := s.reportCache.Get(key); found {
		logger.L.Debug("Cache hit for portfolio", "year", year, "topN", topN, "rate", rate)
		p := cached.(models.YearlyPortfolio)
		return &p, nil
	}

	rows, err := s.rows.All()
	if err != nil {
		return nil, err
	}
	portfolio := s.portfolio.GeneratePortfolio(rows, year, rate, topN)
	s.reportCache.Set(key, portfolio, DefaultCacheExpiration)
	return &portfolio, nil
}

func (s *dividendServiceImpl) GoalReport() (*GoalReport, error) {
	rate := s.rates.Current()
	target := s.goals.Settings().MonthlyTargetAmount
	key := fmt.Sprintf(ckGoalReport, rateKey(rate), rateKey(target))
	if cached, found := s.reportCache.Get(key); found {
		logger.L.Debug("Cache hit for goal report", "rate", rate, "target", target)
		r := cached.(GoalReport)
		return &r, nil
	}

	rows, err := s.rows.All()
	if err != nil {
		return nil, err
	}
	achievements := s.goal.CalculateAchievements(s.yearly.AggregateByYear(rows, rate), target)
	report := GoalReport{
		Achievements: achievements,
		Summary:      s.goal.Summary(achievements),
	}
	s.reportCache.Set(key, report, DefaultCacheExpiration)
	return &report, nil
}

func (s *dividendServiceImpl) RowCount() (int, error) {
	return s.rows.Count()
}

func (s *dividendServiceImpl) DeleteAllRows() error {
	if err := s.rows.DeleteAll(); err != nil {
		return err
	}
	s.reportCache.Flush()
	logger.L.Info("Deleted all ledger rows and flushed report cache")
	return nil
}

func rateKey(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
