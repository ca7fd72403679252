package services

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/username/haifolio/backend/src/config"
	"github.com/username/haifolio/backend/src/logger"
	"github.com/username/haifolio/backend/src/models"
	"github.com/username/haifolio/backend/src/storage"
)

// goalServiceImpl implements GoalService on top of the settings store.
type goalServiceImpl struct {
	settings   storage.KV
	envDefault *float64
}

// NewGoalService creates a GoalService. envDefault is the validated
// environment default (config.Cfg.EnvDefaultMonthlyTarget), nil when unset.
func NewGoalService(settings storage.KV, envDefault *float64) GoalService {
	if settings == nil {
		panic("services.NewGoalService: nil settings store")
	}
	return &goalServiceImpl{settings: settings, envDefault: envDefault}
}

// Settings loads the stored goal settings. Malformed JSON, wrong types, NaN,
// and out-of-range values are all treated as "nothing stored": the loader
// degrades to the environment default, then the constant.
func (s *goalServiceImpl) Settings() models.GoalSettings {
	stored, err := s.settings.Get(storage.KeyGoalSettings)
	if err != nil {
		logger.L.Warn("Failed to read stored goal settings, falling back", "error", err)
	} else if stored != nil {
		var gs models.GoalSettings
		if err := json.Unmarshal([]byte(*stored), &gs); err == nil && validMonthlyTarget(gs.MonthlyTargetAmount) {
			return gs
		}
		logger.L.Warn("Ignoring invalid stored goal settings", "value", *stored)
	}

	if s.envDefault != nil {
		return models.GoalSettings{MonthlyTargetAmount: *s.envDefault}
	}
	return models.GoalSettings{MonthlyTargetAmount: config.DefaultMonthlyGoalTarget}
}

func (s *goalServiceImpl) SetMonthlyTarget(target float64) error {
	if !validMonthlyTarget(target) {
		return fmt.Errorf("%w: got %v, allowed [%v, %v]",
			ErrInvalidGoalTarget, target, config.MinMonthlyGoalTarget, config.MaxMonthlyGoalTarget)
	}
	payload, err := json.Marshal(models.GoalSettings{MonthlyTargetAmount: target})
	if err != nil {
		return fmt.Errorf("failed to marshal goal settings: %w", err)
	}
	if err := s.settings.Set(storage.KeyGoalSettings, string(payload)); err != nil {
		return fmt.Errorf("failed to persist goal settings: %w", err)
	}
	logger.L.Info("Goal settings updated", "monthlyTarget", target)
	return nil
}

func validMonthlyTarget(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) &&
		v >= config.MinMonthlyGoalTarget && v <= config.MaxMonthlyGoalTarget
}
