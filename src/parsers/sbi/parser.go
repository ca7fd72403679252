package sbi

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/username/haifolio/backend/src/models"
)

// Column headers of the SBI dividend ledger export.
const (
	colPaymentDate  = "入金日"
	colProduct      = "商品"
	colAccount      = "口座"
	colSecurityCode = "銘柄コード"
	colSecurityName = "銘柄"
	colCurrency     = "受取通貨"
	colUnitPrice    = "単価[円/現地通貨]"
	colQuantity     = "数量[株/口]"
	colGrossAmount  = "配当・分配金合計（税引前）[円/現地通貨]"
	colTaxAmount    = "税額合計[円/現地通貨]"
	colNetAmount    = "受取金額[円/現地通貨]"
)

// SBIParser parses the dividend/distribution list CSV exported by SBI
// Securities. The export is Shift-JIS encoded; UTF-8 copies (e.g. re-saved
// files) are accepted too. The struct is stateless and safe for concurrent
// use.
type SBIParser struct{}

func NewParser() *SBIParser {
	return &SBIParser{}
}

// Parse reads the CSV and returns its rows in file order. Cell-level
// problems (bad amounts, empty dates) are not errors here: rows are carried
// as-is and the processors decide eligibility. Only transport-level problems
// (unreadable input, missing header) fail the parse.
func (p *SBIParser) Parse(file io.Reader) ([]models.LedgerRow, error) {
	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV input: %w", err)
	}
	text, err := decodeToUTF8(raw)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	if _, ok := columns[colPaymentDate]; !ok {
		return nil, fmt.Errorf("CSV header missing %q column; not an SBI dividend export", colPaymentDate)
	}
	if _, ok := columns[colNetAmount]; !ok {
		return nil, fmt.Errorf("CSV header missing %q column; not an SBI dividend export", colNetAmount)
	}

	var rows []models.LedgerRow
	occurrences := make(map[string]int)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		if isBlank(record) {
			continue
		}

		row := models.LedgerRow{
			PaymentDate:  field(record, columns, colPaymentDate),
			Product:      field(record, columns, colProduct),
			Account:      field(record, columns, colAccount),
			SecurityCode: field(record, columns, colSecurityCode),
			SecurityName: field(record, columns, colSecurityName),
			Currency:     field(record, columns, colCurrency),
			UnitPrice:    field(record, columns, colUnitPrice),
			Quantity:     field(record, columns, colQuantity),
			GrossAmount:  field(record, columns, colGrossAmount),
			TaxAmount:    field(record, columns, colTaxAmount),
			NetAmount:    field(record, columns, colNetAmount),
		}
		key := rowKey(row)
		occurrences[key]++
		row.HashID = hashRow(key, occurrences[key])
		rows = append(rows, row)
	}
	return rows, nil
}

// decodeToUTF8 sniffs the encoding: valid UTF-8 passes through (minus any
// BOM), everything else is treated as Shift-JIS.
func decodeToUTF8(raw []byte) (string, error) {
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	decoded, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode Shift-JIS CSV: %w", err)
	}
	return string(decoded), nil
}

func field(record []string, columns map[string]int, name string) string {
	i, ok := columns[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func rowKey(row models.LedgerRow) string {
	return strings.Join([]string{
		row.PaymentDate, row.Product, row.Account,
		row.SecurityCode, row.SecurityName, row.Currency,
		row.UnitPrice, row.Quantity, row.GrossAmount,
		row.TaxAmount, row.NetAmount,
	}, "|")
}

// hashRow includes the line's occurrence index within the file: the ledger
// legitimately repeats identical lines (a security paid twice the same day),
// and those must survive as separate rows. Re-importing the same file still
// produces the same hashes, so cross-import dedupe is unaffected.
func hashRow(key string, occurrence int) string {
	sum := sha256.Sum256([]byte(key + "|" + strconv.Itoa(occurrence)))
	return hex.EncodeToString(sum[:])
}
