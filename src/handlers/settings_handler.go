package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/username/haifolio/backend/src/logger"
	"github.com/username/haifolio/backend/src/services"
	"github.com/username/haifolio/backend/src/utils"
)

// SettingsHandler exposes the exchange-rate and goal settings. Rejected
// values return a field-specific message and leave the stored value as-is;
// values are never silently clamped.
type SettingsHandler struct {
	rateService services.RateService
	goalService services.GoalService
}

func NewSettingsHandler(rateService services.RateService, goalService services.GoalService) *SettingsHandler {
	return &SettingsHandler{
		rateService: rateService,
		goalService: goalService,
	}
}

type exchangeRatePayload struct {
	Rate        float64 `json:"rate"`
	DefaultRate float64 `json:"defaultRate,omitempty"`
}

func (h *SettingsHandler) HandleGetExchangeRate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, exchangeRatePayload{
		Rate:        h.rateService.Current(),
		DefaultRate: h.rateService.Default(),
	})
}

func (h *SettingsHandler) HandleSetExchangeRate(w http.ResponseWriter, r *http.Request) {
	var payload exchangeRatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "request body must be JSON with a numeric 'rate' field", http.StatusBadRequest)
		return
	}

	if err := h.rateService.Set(payload.Rate); err != nil {
		if errors.Is(err, services.ErrInvalidRate) || errors.Is(err, services.ErrRateOutOfRange) {
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.L.Error("Error persisting exchange rate", "error", err)
		utils.SendJSONError(w, "Error persisting exchange rate", http.StatusInternalServerError)
		return
	}
	writeJSON(w, exchangeRatePayload{Rate: h.rateService.Current()})
}

func (h *SettingsHandler) HandleResetExchangeRate(w http.ResponseWriter, r *http.Request) {
	rate := h.rateService.Reset()
	writeJSON(w, exchangeRatePayload{Rate: rate})
}

type goalPayload struct {
	MonthlyTargetAmount float64 `json:"monthlyTargetAmount"`
}

func (h *SettingsHandler) HandleGetGoalSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.goalService.Settings())
}

func (h *SettingsHandler) HandleSetGoalSettings(w http.ResponseWriter, r *http.Request) {
	var payload goalPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "request body must be JSON with a numeric 'monthlyTargetAmount' field", http.StatusBadRequest)
		return
	}

	if err := h.goalService.SetMonthlyTarget(payload.MonthlyTargetAmount); err != nil {
		if errors.Is(err, services.ErrInvalidGoalTarget) {
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.L.Error("Error persisting goal settings", "error", err)
		utils.SendJSONError(w, "Error persisting goal settings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, h.goalService.Settings())
}
