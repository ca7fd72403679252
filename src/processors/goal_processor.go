package processors

import (
	"sort"
	"strconv"

	"github.com/username/haifolio/backend/src/models"
	"github.com/username/haifolio/backend/src/utils"
)

// goalProcessorImpl implements the GoalProcessor interface.
type goalProcessorImpl struct{}

// NewGoalProcessor creates a new instance of GoalProcessor.
func NewGoalProcessor() GoalProcessor {
	return &goalProcessorImpl{}
}

// CalculateAchievements compares each year's actual dividends against the
// yearly target (monthly target x 12). Output is sorted newest year first;
// this is the one view that is year-descending, for most-recent-first display.
func (p *goalProcessorImpl) CalculateAchievements(yearly map[string]float64, monthlyTarget float64) []models.YearlyGoalAchievement {
	yearlyTarget := monthlyTarget * 12

	achievements := make([]models.YearlyGoalAchievement, 0, len(yearly))
	for yearStr, raw := range yearly {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			continue
		}
		actual := int64(utils.RoundHalfUp(raw))
		rate := 0.0
		if yearlyTarget != 0 {
			rate = utils.RoundTo1(float64(actual) / yearlyTarget * 100)
		}
		achievements = append(achievements, models.YearlyGoalAchievement{
			Year:            year,
			ActualAmount:    actual,
			TargetAmount:    yearlyTarget,
			AchievementRate: rate,
			Difference:      float64(actual) - yearlyTarget,
		})
	}

	sort.Slice(achievements, func(i, j int) bool {
		return achievements[i].Year > achievements[j].Year
	})
	return achievements
}

// Summary aggregates achievement rates across years. Returns nil when there
// is nothing to summarize. Ties on max/min rate resolve to the first
// occurrence after a stable descending-by-rate sort of the year-descending
// input, matching the dashboard's recency tie-break.
func (p *goalProcessorImpl) Summary(achievements []models.YearlyGoalAchievement) *models.GoalAchievementSummary {
	if len(achievements) == 0 {
		return nil
	}

	achieved := 0
	sum := 0.0
	for _, a := range achievements {
		if a.AchievementRate >= 100 {
			achieved++
		}
		sum += a.AchievementRate
	}

	byRate := make([]models.YearlyGoalAchievement, len(achievements))
	copy(byRate, achievements)
	sort.SliceStable(byRate, func(i, j int) bool {
		return byRate[i].AchievementRate > byRate[j].AchievementRate
	})

	max := byRate[0]
	min := byRate[len(byRate)-1]

	return &models.GoalAchievementSummary{
		AchievedYearsCount:     achieved,
		TotalYearsCount:        len(achievements),
		AverageAchievementRate: utils.RoundTo1(sum / float64(len(achievements))),
		MaxAchievementRate:     max.AchievementRate,
		MaxAchievementYear:     max.Year,
		MinAchievementRate:     min.AchievementRate,
		MinAchievementYear:     min.Year,
	}
}
