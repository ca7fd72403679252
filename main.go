package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/haifolio/backend/src/config"
	"github.com/username/haifolio/backend/src/database"
	"github.com/username/haifolio/backend/src/handlers"
	"github.com/username/haifolio/backend/src/logger"
	"github.com/username/haifolio/backend/src/services"
	"github.com/username/haifolio/backend/src/storage"
	"golang.org/x/time/rate"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remoteAddr", r.RemoteAddr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"http://localhost:3000": true,
		}

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Requested-With, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "ETag")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			logger.L.Debug("Handling OPTIONS preflight request", "path", r.URL.Path, "origin", origin)
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// importStartupLedger seeds the row store from the configured CSV file when
// the store is still empty. Bundled-ledger behavior: the dashboard is usable
// without ever touching the upload endpoint.
func importStartupLedger(dividendService services.DividendService) {
	if config.Cfg.CSVFilePath == "" {
		return
	}
	count, err := dividendService.RowCount()
	if err != nil {
		logger.L.Error("Failed to check ledger row count before startup import", "error", err)
		return
	}
	if count > 0 {
		logger.L.Info("Ledger store already populated, skipping startup import", "rowCount", count)
		return
	}

	file, err := os.Open(config.Cfg.CSVFilePath)
	if err != nil {
		logger.L.Error("Failed to open startup ledger CSV", "path", config.Cfg.CSVFilePath, "error", err)
		return
	}
	defer file.Close()

	result, err := dividendService.ImportLedger(file, config.Cfg.CSVSource)
	if err != nil {
		logger.L.Error("Failed to import startup ledger CSV", "path", config.Cfg.CSVFilePath, "error", err)
		return
	}
	logger.L.Info("Imported startup ledger CSV",
		"path", config.Cfg.CSVFilePath,
		"parsed", result.RowsParsed,
		"inserted", result.RowsInserted,
		"skipped", result.RowsSkipped)
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Haifolio backend server starting...")

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	logger.L.Info("Database initialized successfully.")

	logger.L.Info("Initializing report cache...")
	reportCache := cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval)

	logger.L.Info("Initializing services and handlers...")
	rowStore := storage.NewRowStore(database.DB)
	settingsStore := storage.NewSettingsStore(database.DB)

	rateService := services.NewRateService(settingsStore, config.Cfg.EnvDefaultRate)
	goalService := services.NewGoalService(settingsStore, config.Cfg.EnvDefaultMonthlyTarget)
	dividendService := services.NewDividendService(rowStore, rateService, goalService, reportCache)

	importStartupLedger(dividendService)

	uploadHandler := handlers.NewUploadHandler(dividendService)
	dividendHandler := handlers.NewDividendHandler(dividendService)
	settingsHandler := handlers.NewSettingsHandler(rateService, goalService)

	logger.L.Info("Configuring routes...")
	rootMux := http.NewServeMux()
	apiRouter := http.NewServeMux()

	apiRouter.HandleFunc("POST /api/upload", uploadHandler.HandleUpload)

	apiRouter.HandleFunc("GET /api/dividends/yearly", dividendHandler.HandleGetYearly)
	apiRouter.HandleFunc("GET /api/dividends/cumulative", dividendHandler.HandleGetCumulative)
	apiRouter.HandleFunc("GET /api/dividends/years", dividendHandler.HandleGetYears)
	apiRouter.HandleFunc("GET /api/portfolio", dividendHandler.HandleGetPortfolio)
	apiRouter.HandleFunc("GET /api/goals/achievements", dividendHandler.HandleGetGoalReport)
	apiRouter.HandleFunc("GET /api/dividends/has-data", dividendHandler.HandleCheckData)
	apiRouter.HandleFunc("DELETE /api/dividends/all", dividendHandler.HandleDeleteAllRows)

	apiRouter.HandleFunc("GET /api/settings/exchange-rate", settingsHandler.HandleGetExchangeRate)
	apiRouter.HandleFunc("PUT /api/settings/exchange-rate", settingsHandler.HandleSetExchangeRate)
	apiRouter.HandleFunc("DELETE /api/settings/exchange-rate", settingsHandler.HandleResetExchangeRate)
	apiRouter.HandleFunc("GET /api/settings/goal", settingsHandler.HandleGetGoalSettings)
	apiRouter.HandleFunc("PUT /api/settings/goal", settingsHandler.HandleSetGoalSettings)

	rootMux.Handle("/api/", apiRouter)

	rootMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "Haifolio backend is running"})
		} else {
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				logger.L.Warn("Root level path not found", "method", r.Method, "path", r.URL.Path)
				http.NotFound(w, r)
			}
		}
	})

	logger.L.Info("Applying global middleware...")
	finalHandler := enableCORS(rateLimitMiddleware(rootMux))

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}
