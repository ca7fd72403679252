package parsers

import (
	"fmt"

	"github.com/username/haifolio/backend/src/parsers/sbi"
)

// GetParser resolves a ledger source name to its parser.
func GetParser(source string) (Parser, error) {
	switch source {
	case "sbi":
		return sbi.NewParser(), nil
	default:
		return nil, fmt.Errorf("no parser available for source: %s", source)
	}
}
