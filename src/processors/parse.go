package processors

import (
	"math"
	"strconv"
	"strings"

	"github.com/username/haifolio/backend/src/models"
)

const (
	// HomeCurrencyLabel is the 受取通貨 value for yen rows; they pass through
	// conversion unchanged.
	HomeCurrencyLabel = "円"
	// ForeignCurrencyLabel is the 受取通貨 value that triggers conversion at
	// the configured rate.
	ForeignCurrencyLabel = "USドル"
)

// ParseAmount normalizes a raw ledger cell into a yen/dollar amount.
// The placeholder "-" means zero (the ledger prints it for e.g. untaxed
// rows), grouping commas are stripped, and anything that does not parse to a
// finite number reports ok=false so the caller can skip the row.
func ParseAmount(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	if raw == "-" {
		return 0, true
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ExtractYear returns the leading YYYY token of a YYYY/MM/DD date string.
// Malformed or empty dates report ok=false.
func ExtractYear(date string) (string, bool) {
	token := date
	if i := strings.IndexByte(date, '/'); i >= 0 {
		token = date[:i]
	}
	if len(token) != 4 {
		return "", false
	}
	for i := 0; i < len(token); i++ {
		if token[i] < '0' || token[i] > '9' {
			return "", false
		}
	}
	return token, true
}

// ConvertToYen converts an amount to yen. Only the foreign-currency label is
// converted; the home label and anything unrecognized pass through unchanged.
// Rate validation belongs to the rate resolver: a non-finite rate deliberately
// propagates a non-finite product so the aggregators drop the row instead of
// silently corrupting totals.
func ConvertToYen(amount float64, currency string, rate float64) float64 {
	if currency == ForeignCurrencyLabel {
		return amount * rate
	}
	return amount
}

// eligibleAmount applies the row eligibility gate shared by all aggregations:
// the date must carry an extractable year and the net-receipt cell must parse
// (the "-" placeholder counts as zero, an empty cell does not). It returns
// the year token and the converted yen amount.
func eligibleAmount(row models.LedgerRow, rate float64) (string, float64, bool) {
	if row.PaymentDate == "" {
		return "", 0, false
	}
	year, ok := ExtractYear(row.PaymentDate)
	if !ok {
		return "", 0, false
	}
	amount, ok := ParseAmount(row.NetAmount)
	if !ok {
		return "", 0, false
	}
	yen := ConvertToYen(amount, row.Currency, rate)
	if math.IsNaN(yen) || math.IsInf(yen, 0) {
		return "", 0, false
	}
	return year, yen, true
}
