package services

import (
	"fmt"
	"math"
	"strconv"

	"github.com/username/haifolio/backend/src/config"
	"github.com/username/haifolio/backend/src/logger"
	"github.com/username/haifolio/backend/src/storage"
)

// rateServiceImpl implements RateService on top of the settings store.
type rateServiceImpl struct {
	settings   storage.KV
	envDefault *float64 // validated environment default, nil when absent
}

// NewRateService creates a RateService. envDefault is the already-validated
// environment default (config.Cfg.EnvDefaultRate), nil when unset. Panics on
// a nil store: missing wiring fails fast.
func NewRateService(settings storage.KV, envDefault *float64) RateService {
	if settings == nil {
		panic("services.NewRateService: nil settings store")
	}
	return &rateServiceImpl{settings: settings, envDefault: envDefault}
}

// Current resolves the effective rate per read. A stored override wins when
// it parses to a positive finite number; a corrupt stored value is treated
// the same as no stored value.
func (s *rateServiceImpl) Current() float64 {
	stored, err := s.settings.Get(storage.KeyExchangeRate)
	if err != nil {
		logger.L.Warn("Failed to read stored exchange rate, falling back", "error", err)
	} else if stored != nil {
		rate, err := strconv.ParseFloat(*stored, 64)
		if err == nil && !math.IsNaN(rate) && !math.IsInf(rate, 0) && rate > 0 {
			return rate
		}
		logger.L.Warn("Ignoring invalid stored exchange rate", "value", *stored)
	}

	if s.envDefault != nil {
		return *s.envDefault
	}
	return config.DefaultUSDToJPYRate
}

func (s *rateServiceImpl) Set(rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidRate, rate)
	}
	if rate < config.MinUSDToJPYRate || rate > config.MaxUSDToJPYRate {
		return fmt.Errorf("%w: got %v, allowed [%v, %v]",
			ErrRateOutOfRange, rate, config.MinUSDToJPYRate, config.MaxUSDToJPYRate)
	}
	if err := s.settings.Set(storage.KeyExchangeRate, strconv.FormatFloat(rate, 'f', -1, 64)); err != nil {
		return fmt.Errorf("failed to persist exchange rate: %w", err)
	}
	logger.L.Info("Exchange rate updated", "rate", rate)
	return nil
}

func (s *rateServiceImpl) Reset() float64 {
	if err := s.settings.Remove(storage.KeyExchangeRate); err != nil {
		logger.L.Warn("Failed to clear stored exchange rate on reset", "error", err)
	}
	logger.L.Info("Exchange rate reset to default", "rate", config.DefaultUSDToJPYRate)
	return config.DefaultUSDToJPYRate
}

func (s *rateServiceImpl) Default() float64 {
	return config.DefaultUSDToJPYRate
}
