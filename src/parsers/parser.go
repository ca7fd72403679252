package parsers

import (
	"io"

	"github.com/username/haifolio/backend/src/models"
)

// Parser turns a raw ledger file into LedgerRows, preserving source order.
// Row order matters downstream: ranking tie-breaks follow first-seen order.
type Parser interface {
	Parse(file io.Reader) ([]models.LedgerRow, error)
}
