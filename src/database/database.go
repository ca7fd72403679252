package database

import (
	"database/sql"
	stdlog "log"

	"github.com/username/haifolio/backend/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	if logger.L != nil {
		logger.L.Info("Checking database migrations", "databasePath", databasePath)
	} else {
		stdlog.Println("Checking database migrations for:", databasePath)
	}
	migrateDividendRows()

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS dividend_rows (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		payment_date TEXT NOT NULL,
		product TEXT,
		account TEXT,
		security_code TEXT,
		security_name TEXT,
		currency TEXT,
		unit_price TEXT,
		quantity TEXT,
		gross_amount TEXT,
		tax_amount TEXT,
		net_amount TEXT,
		hash_id TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(hash_id)
	);

	CREATE TABLE IF NOT EXISTS app_settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`

	_, err = DB.Exec(createTableStatement)
	if err != nil {
		if logger.L != nil {
			logger.L.Error("failed to create tables", "error", err)
		}
		stdlog.Fatalf("failed to create tables: %v", err)
	}
	if logger.L != nil {
		logger.L.Info("Database tables ensured/created.")
	} else {
		stdlog.Println("Database tables ensured/created.")
	}
}

// migrateDividendRows adds columns introduced after the first schema cut.
// Additive only; existing rows keep working.
func migrateDividendRows() {
	var tableName string
	err := DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='dividend_rows'").Scan(&tableName)
	if err != nil {
		if err == sql.ErrNoRows {
			if logger.L != nil {
				logger.L.Info("'dividend_rows' table does not exist, no migration needed as table will be created.")
			} else {
				stdlog.Println("'dividend_rows' table does not exist, no migration needed as table will be created.")
			}
			return
		}
		if logger.L != nil {
			logger.L.Error("Error checking for 'dividend_rows' table", "error", err)
		} else {
			stdlog.Printf("Error checking for 'dividend_rows' table: %v", err)
		}
		return
	}

	rows, err := DB.Query("PRAGMA table_info(dividend_rows)")
	if err != nil {
		if logger.L != nil {
			logger.L.Error("Error querying table schema for 'dividend_rows'", "error", err)
		} else {
			stdlog.Printf("Error querying table schema for 'dividend_rows': %v", err)
		}
		return
	}
	defer rows.Close()

	columnExists := make(map[string]bool)
	for rows.Next() {
		var cid, pk int
		var name, dataType string
		var notnullVal int
		var dfltValue interface{}

		if err := rows.Scan(&cid, &name, &dataType, &notnullVal, &dfltValue, &pk); err != nil {
			if logger.L != nil {
				logger.L.Error("Error scanning column info for 'dividend_rows'", "error", err)
			} else {
				stdlog.Printf("Error scanning column info for 'dividend_rows': %v", err)
			}
			return
		}
		columnExists[name] = true
	}
	if err = rows.Err(); err != nil {
		if logger.L != nil {
			logger.L.Error("Error iterating over column info for 'dividend_rows'", "error", err)
		} else {
			stdlog.Printf("Error iterating over column info for 'dividend_rows': %v", err)
		}
		return
	}

	if _, ok := columnExists["account"]; !ok {
		_, err := DB.Exec("ALTER TABLE dividend_rows ADD COLUMN account TEXT")
		if err != nil {
			logger.L.Error("Error adding 'account' column to 'dividend_rows' table", "error", err)
		} else {
			logger.L.Info("Added 'account' column to 'dividend_rows' table")
		}
	}
	if _, ok := columnExists["unit_price"]; !ok {
		_, err := DB.Exec("ALTER TABLE dividend_rows ADD COLUMN unit_price TEXT")
		if err != nil {
			logger.L.Error("Error adding 'unit_price' column to 'dividend_rows' table", "error", err)
		} else {
			logger.L.Info("Added 'unit_price' column to 'dividend_rows' table")
		}
	}
	if _, ok := columnExists["quantity"]; !ok {
		_, err := DB.Exec("ALTER TABLE dividend_rows ADD COLUMN quantity TEXT")
		if err != nil {
			logger.L.Error("Error adding 'quantity' column to 'dividend_rows' table", "error", err)
		} else {
			logger.L.Info("Added 'quantity' column to 'dividend_rows' table")
		}
	}
}
