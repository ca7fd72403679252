package handlers

import (
	"net/http"
	"strconv"

	"github.com/username/haifolio/backend/src/logger"
	"github.com/username/haifolio/backend/src/models"
	"github.com/username/haifolio/backend/src/services"
	"github.com/username/haifolio/backend/src/utils"
)

type DividendHandler struct {
	dividendService services.DividendService
}

func NewDividendHandler(service services.DividendService) *DividendHandler {
	return &DividendHandler{
		dividendService: service,
	}
}

func (h *DividendHandler) HandleGetYearly(w http.ResponseWriter, r *http.Request) {
	logger.L.Debug("Handling GetYearly request")
	series, err := h.dividendService.YearlySeries()
	if err != nil {
		logger.L.Error("Error retrieving yearly dividend series", "error", err)
		utils.SendJSONError(w, "Error retrieving yearly dividend series", http.StatusInternalServerError)
		return
	}
	if series == nil {
		series = []models.YearlyDividend{}
	}
	writeJSONWithETag(w, r, series)
}

func (h *DividendHandler) HandleGetCumulative(w http.ResponseWriter, r *http.Request) {
	logger.L.Debug("Handling GetCumulative request")
	series, err := h.dividendService.CumulativeSeries()
	if err != nil {
		logger.L.Error("Error retrieving cumulative dividend series", "error", err)
		utils.SendJSONError(w, "Error retrieving cumulative dividend series", http.StatusInternalServerError)
		return
	}
	if series == nil {
		series = []models.CumulativeDividend{}
	}
	writeJSONWithETag(w, r, series)
}

func (h *DividendHandler) HandleGetYears(w http.ResponseWriter, r *http.Request) {
	years, err := h.dividendService.AvailableYears()
	if err != nil {
		logger.L.Error("Error retrieving available years", "error", err)
		utils.SendJSONError(w, "Error retrieving available years", http.StatusInternalServerError)
		return
	}
	if years == nil {
		years = []int{}
	}
	writeJSONWithETag(w, r, years)
}

func (h *DividendHandler) HandleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	yearStr := r.URL.Query().Get("year")
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		utils.SendJSONError(w, "query parameter 'year' must be a four-digit year", http.StatusBadRequest)
		return
	}

	topN := 0
	if topNStr := r.URL.Query().Get("topN"); topNStr != "" {
		topN, err = strconv.Atoi(topNStr)
		if err != nil || topN < 1 {
			utils.SendJSONError(w, "query parameter 'topN' must be a positive integer", http.StatusBadRequest)
			return
		}
	}

	logger.L.Debug("Handling GetPortfolio request", "year", year, "topN", topN)
	portfolio, err := h.dividendService.Portfolio(year, topN)
	if err != nil {
		logger.L.Error("Error generating portfolio", "year", year, "error", err)
		utils.SendJSONError(w, "Error generating portfolio", http.StatusInternalServerError)
		return
	}
	if portfolio.Stocks == nil {
		portfolio.Stocks = []models.StockDividend{}
	}
	writeJSONWithETag(w, r, portfolio)
}

func (h *DividendHandler) HandleGetGoalReport(w http.ResponseWriter, r *http.Request) {
	logger.L.Debug("Handling GetGoalReport request")
	report, err := h.dividendService.GoalReport()
	if err != nil {
		logger.L.Error("Error computing goal report", "error", err)
		utils.SendJSONError(w, "Error computing goal report", http.StatusInternalServerError)
		return
	}
	if report.Achievements == nil {
		report.Achievements = []models.YearlyGoalAchievement{}
	}
	writeJSONWithETag(w, r, report)
}

func (h *DividendHandler) HandleCheckData(w http.ResponseWriter, r *http.Request) {
	count, err := h.dividendService.RowCount()
	if err != nil {
		logger.L.Error("Error counting ledger rows", "error", err)
		utils.SendJSONError(w, "Error counting ledger rows", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{"hasData": count > 0, "rowCount": count})
}

func (h *DividendHandler) HandleDeleteAllRows(w http.ResponseWriter, r *http.Request) {
	if err := h.dividendService.DeleteAllRows(); err != nil {
		logger.L.Error("Error deleting ledger rows", "error", err)
		utils.SendJSONError(w, "Error deleting ledger rows", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"message": "all ledger rows deleted"})
}
