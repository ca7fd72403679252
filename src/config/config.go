package config

import (
	"log"
	"math"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Domain bounds and fallbacks. The hard-coded rate fallback is what Reset
// returns to, regardless of any environment override.
const (
	DefaultUSDToJPYRate = 150.0
	MinUSDToJPYRate     = 50.0
	MaxUSDToJPYRate     = 300.0

	DefaultMonthlyGoalTarget = 30000.0
	MinMonthlyGoalTarget     = 1000.0
	MaxMonthlyGoalTarget     = 10000000.0
)

type AppConfig struct {
	Port               string
	LogLevel           string
	DatabasePath       string
	CSVFilePath        string // optional ledger imported at startup when the store is empty
	CSVSource          string // parser to use for imports
	MaxUploadSizeBytes int64

	// Environment-supplied defaults. nil when the variable is unset,
	// non-numeric, or out of bounds; those cases fall back to the constants
	// above.
	EnvDefaultRate          *float64
	EnvDefaultMonthlyTarget *float64
}

var Cfg *AppConfig

// LoadConfig reads the environment (plus an optional .env file) once at
// startup. Nothing reads environment variables at package-init time: the
// resolution order stored-override -> env -> fallback stays testable.
func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	maxUploadSizeBytesStr := getEnv("MAX_UPLOAD_SIZE_BYTES", "10485760")
	maxUploadSizeBytes, err := strconv.ParseInt(maxUploadSizeBytesStr, 10, 64)
	if err != nil {
		log.Printf("WARNING: Invalid MAX_UPLOAD_SIZE_BYTES format '%s'. Using default 10MB. Error: %v", maxUploadSizeBytesStr, err)
		maxUploadSizeBytes = 10 * 1024 * 1024
	}

	Cfg = &AppConfig{
		Port:               getEnv("PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DatabasePath:       getEnv("DATABASE_PATH", "./haifolio.db"),
		CSVFilePath:        getEnv("CSV_FILE_PATH", ""),
		CSVSource:          getEnv("CSV_SOURCE", "sbi"),
		MaxUploadSizeBytes: maxUploadSizeBytes,

		EnvDefaultRate:          getEnvAsBoundedFloat("USD_TO_JPY_RATE", MinUSDToJPYRate, MaxUSDToJPYRate),
		EnvDefaultMonthlyTarget: getEnvAsBoundedFloat("MONTHLY_TARGET", MinMonthlyGoalTarget, MaxMonthlyGoalTarget),
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s, CSVPath=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.DatabasePath, Cfg.CSVFilePath)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

// getEnvAsBoundedFloat returns nil unless the variable is set, numeric, and
// within [min, max]. Out-of-bounds values are treated as absent, not clamped.
func getEnvAsBoundedFloat(key string, min, max float64) *float64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		log.Printf("Invalid float value for %s ('%s'), treating as unset", key, valueStr)
		return nil
	}
	if value < min || value > max {
		log.Printf("Value for %s (%v) outside [%v, %v], treating as unset", key, value, min, max)
		return nil
	}
	return &value
}
