package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/username/haifolio/backend/src/logger"
	"github.com/username/haifolio/backend/src/models"
)

// sqliteRowStore implements RowStore on the dividend_rows table.
type sqliteRowStore struct {
	db *sql.DB
}

// NewRowStore creates a RowStore backed by the given database. Panics on a
// nil handle: that is a wiring bug, not a runtime condition.
func NewRowStore(db *sql.DB) RowStore {
	if db == nil {
		panic("storage.NewRowStore: nil database handle")
	}
	return &sqliteRowStore{db: db}
}

func (s *sqliteRowStore) InsertRows(rows []models.LedgerRow) (int, int, error) {
	dbTx, err := s.db.Begin()
	if err != nil {
		return 0, 0, fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.Prepare(`INSERT INTO dividend_rows
		(payment_date, product, account, security_code, security_name, currency,
		 unit_price, quantity, gross_amount, tax_amount, net_amount, hash_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, 0, fmt.Errorf("error preparing insert statement: %w", err)
	}
	defer stmt.Close()

	inserted, skipped := 0, 0
	for _, row := range rows {
		_, err := stmt.Exec(row.PaymentDate, row.Product, row.Account,
			row.SecurityCode, row.SecurityName, row.Currency,
			row.UnitPrice, row.Quantity, row.GrossAmount,
			row.TaxAmount, row.NetAmount, row.HashID)
		if err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "unique constraint failed") {
				logger.L.Debug("Skipping duplicate ledger row on import", "hash_id", row.HashID)
				skipped++
				continue
			}
			return 0, 0, fmt.Errorf("error inserting ledger row (date %s, security %s): %w",
				row.PaymentDate, row.SecurityName, err)
		}
		inserted++
	}

	if err := dbTx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("error committing ledger rows: %w", err)
	}
	return inserted, skipped, nil
}

func (s *sqliteRowStore) All() ([]models.LedgerRow, error) {
	rows, err := s.db.Query(`SELECT payment_date, product, account, security_code,
		security_name, currency, unit_price, quantity, gross_amount, tax_amount,
		net_amount, hash_id
		FROM dividend_rows ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error querying ledger rows: %w", err)
	}
	defer rows.Close()

	var out []models.LedgerRow
	for rows.Next() {
		var r models.LedgerRow
		if err := rows.Scan(&r.PaymentDate, &r.Product, &r.Account,
			&r.SecurityCode, &r.SecurityName, &r.Currency,
			&r.UnitPrice, &r.Quantity, &r.GrossAmount,
			&r.TaxAmount, &r.NetAmount, &r.HashID); err != nil {
			return nil, fmt.Errorf("error scanning ledger row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger rows: %w", err)
	}
	return out, nil
}

func (s *sqliteRowStore) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM dividend_rows").Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting ledger rows: %w", err)
	}
	return n, nil
}

func (s *sqliteRowStore) DeleteAll() error {
	if _, err := s.db.Exec("DELETE FROM dividend_rows"); err != nil {
		return fmt.Errorf("error deleting ledger rows: %w", err)
	}
	return nil
}
