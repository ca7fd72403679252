package models

// LedgerRow represents a single data line from the SBI dividend ledger CSV.
// All numeric fields are kept as free-form strings: the source uses comma
// grouping ("10,000"), the placeholder "-" for zero, and occasionally leaves
// cells empty. Parsing happens in the processors, row by row.
type LedgerRow struct {
	PaymentDate  string `json:"payment_date"`  // 入金日 (YYYY/MM/DD)
	Product      string `json:"product"`       // 商品 (e.g. "米国株式")
	Account      string `json:"account"`       // 口座 (e.g. "旧NISA")
	SecurityCode string `json:"security_code"` // 銘柄コード (may be empty)
	SecurityName string `json:"security_name"` // 銘柄
	Currency     string `json:"currency"`      // 受取通貨 ("円" or "USドル")
	UnitPrice    string `json:"unit_price"`    // 単価[円/現地通貨]
	Quantity     string `json:"quantity"`      // 数量[株/口]
	GrossAmount  string `json:"gross_amount"`  // 配当・分配金合計（税引前）[円/現地通貨]
	TaxAmount    string `json:"tax_amount"`    // 税額合計[円/現地通貨]
	NetAmount    string `json:"net_amount"`    // 受取金額[円/現地通貨] (the field aggregated)
	HashID       string `json:"-"`             // dedupe key for idempotent imports
}

// SecurityKey is the composite identity a security is grouped under. Two rows
// with the same name but different codes are different securities; rows with
// an empty code collapse only with other empty-code rows of the same name.
type SecurityKey struct {
	Code string
	Name string
}

// StockDividend is one security's share of a year's dividends.
// Amount is the rounded yen total; Percentage is computed over the sum of the
// rounded per-security totals, not the pre-rounding floats.
type StockDividend struct {
	StockCode  string  `json:"stockCode"`
	StockName  string  `json:"stockName"`
	Amount     int64   `json:"amount"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color,omitempty"`
}

// YearlyPortfolio is the per-year security breakdown after top-N reduction.
// TotalAmount sums the pre-reduction rounded per-security amounts.
type YearlyPortfolio struct {
	Year        int             `json:"year"`
	Stocks      []StockDividend `json:"stocks"`
	TotalAmount int64           `json:"totalAmount"`
}

// YearlyDividend is one bar of the per-year chart.
type YearlyDividend struct {
	Year          string `json:"year"`
	TotalDividend int64  `json:"totalDividend"`
}

// CumulativeDividend is one point of the running-total series. The cumulative
// figure is a sum of already-rounded yearly figures, so it always agrees with
// the displayed per-year amounts.
type CumulativeDividend struct {
	Year               string `json:"year"`
	YearlyDividend     int64  `json:"yearlyDividend"`
	CumulativeDividend int64  `json:"cumulativeDividend"`
}

// GoalSettings is the persisted goal configuration.
type GoalSettings struct {
	MonthlyTargetAmount float64 `json:"monthlyTargetAmount"`
}

// YearlyGoalAchievement compares one year's actual dividends against the
// yearly target (monthly target x 12).
type YearlyGoalAchievement struct {
	Year            int     `json:"year"`
	ActualAmount    int64   `json:"actualAmount"`
	TargetAmount    float64 `json:"targetAmount"`
	AchievementRate float64 `json:"achievementRate"`
	Difference      float64 `json:"difference"`
}

// GoalAchievementSummary aggregates achievement rates across all years.
type GoalAchievementSummary struct {
	AchievedYearsCount     int     `json:"achievedYearsCount"`
	TotalYearsCount        int     `json:"totalYearsCount"`
	AverageAchievementRate float64 `json:"averageAchievementRate"`
	MaxAchievementRate     float64 `json:"maxAchievementRate"`
	MaxAchievementYear     int     `json:"maxAchievementYear"`
	MinAchievementRate     float64 `json:"minAchievementRate"`
	MinAchievementYear     int     `json:"minAchievementYear"`
}

// ImportResult summarizes a CSV import.
type ImportResult struct {
	RowsParsed   int `json:"rowsParsed"`
	RowsInserted int `json:"rowsInserted"`
	RowsSkipped  int `json:"rowsSkipped"`
}
