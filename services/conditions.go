// services/conditions.go - Achievement condition evaluation
package services

import (
	"log"

	"paddock/models"
)

// The closed metric vocabulary. Catalog conditions refer to snapshot fields
// by these names.
const (
	MetricTotalBets              = "total_bets"
	MetricTotalWins              = "total_wins"
	MetricPoints                 = "points"
	MetricPerfectBets            = "perfect_bets"
	MetricPartialWins            = "partial_wins"
	MetricWinRate                = "win_rate"
	MetricBoostsUsed             = "boosts_used"
	MetricConsecutiveBoostMonths = "consecutive_boost_months"
	MetricHighOddsWins           = "high_odds_wins"
	MetricComebackWins           = "comeback_wins"
	MetricRollingBets            = "rolling_bets"
	MetricRollingWins            = "rolling_wins"
	MetricRollingWinRate         = "rolling_win_rate"
	MetricCurrentMonthlyStreak   = "current_monthly_streak"
	MetricCurrentLifetimeStreak  = "current_lifetime_streak"
	MetricLongestLifetimeStreak  = "longest_lifetime_streak"
	MetricCurrentWinStreak       = "current_win_streak"
	MetricBestWinStreak          = "best_win_streak"
	MetricCurrentRank            = "current_rank"
	MetricBestRank               = "best_rank"
	MetricConsecutiveFirstPlaces = "consecutive_first_places"
	MetricCareerWins             = "career_wins"
	MetricRaceCount              = "race_count"
	MetricRaceWinStreak          = "race_win_streak"
	MetricBestRaceWinStreak      = "best_race_win_streak"
	MetricCurrentPlayStreak      = "current_play_streak"
	MetricBestPlayStreak         = "best_play_streak"
	MetricRating                 = "rating"
	MetricRecentAvgFinish        = "recent_avg_finish"
)

// MetricValue resolves a metric name against a snapshot. Monthly scope
// selects the monthly variant where one exists, otherwise the lifetime
// value. An unknown name resolves to 0 after a warning — absence of data is
// a normal steady state, a bad catalog row must not abort evaluation.
func MetricValue(name, scope string, stats *UserStats) float64 {
	monthly := scope == models.ScopeMonthly

	switch name {
	case MetricTotalBets:
		if monthly {
			return float64(stats.MonthlyBets)
		}
		return float64(stats.TotalBets)
	case MetricTotalWins:
		if monthly {
			return float64(stats.MonthlyWins)
		}
		return float64(stats.TotalWins)
	case MetricPoints:
		if monthly {
			return float64(stats.MonthlyPoints)
		}
		return float64(stats.TotalPoints)
	case MetricPerfectBets:
		if monthly {
			return float64(stats.MonthlyPerfectBets)
		}
		return float64(stats.PerfectBets)
	case MetricWinRate:
		if monthly {
			return stats.MonthlyWinRate
		}
		return stats.WinRate
	case MetricPartialWins:
		return float64(stats.PartialWins)
	case MetricBoostsUsed:
		return float64(stats.BoostsUsed)
	case MetricConsecutiveBoostMonths:
		return float64(stats.ConsecutiveBoostMonths)
	case MetricHighOddsWins:
		return float64(stats.HighOddsWins)
	case MetricComebackWins:
		return float64(stats.ComebackWins)
	case MetricRollingBets:
		return float64(stats.RollingBets)
	case MetricRollingWins:
		return float64(stats.RollingWins)
	case MetricRollingWinRate:
		return stats.RollingWinRate
	case MetricCurrentMonthlyStreak:
		return float64(stats.CurrentMonthlyStreak)
	case MetricCurrentLifetimeStreak:
		return float64(stats.CurrentLifetimeStreak)
	case MetricLongestLifetimeStreak:
		return float64(stats.LongestLifetimeStreak)
	case MetricCurrentWinStreak:
		return float64(stats.CurrentWinStreak)
	case MetricBestWinStreak:
		return float64(stats.BestWinStreak)
	case MetricCurrentRank:
		return float64(stats.CurrentRank)
	case MetricBestRank:
		return float64(stats.BestRank)
	case MetricConsecutiveFirstPlaces:
		return float64(stats.ConsecutiveFirstPlaces)
	case MetricCareerWins:
		return float64(stats.CareerWins)
	case MetricRaceCount:
		return float64(stats.RaceCount)
	case MetricRaceWinStreak:
		return float64(stats.RaceWinStreak)
	case MetricBestRaceWinStreak:
		return float64(stats.BestRaceWinStreak)
	case MetricCurrentPlayStreak:
		return float64(stats.CurrentPlayStreak)
	case MetricBestPlayStreak:
		return float64(stats.BestPlayStreak)
	case MetricRating:
		return stats.Rating
	case MetricRecentAvgFinish:
		return stats.RecentAvgFinish
	}

	log.Printf("Warning: unknown metric %q, resolving to 0", name)
	return 0
}

// EvaluateCondition checks an achievement's condition against a snapshot.
// The secondary minimum-count gate is checked first and short-circuits.
func EvaluateCondition(a *models.Achievement, stats *UserStats) bool {
	if a.MinCountMetric != "" {
		if MetricValue(a.MinCountMetric, models.ScopeLifetime, stats) < a.MinCountValue {
			return false
		}
	}

	value := MetricValue(a.Metric, a.Scope, stats)

	switch a.Operator {
	case models.OpGTE:
		return value >= a.Threshold
	case models.OpLTE:
		return value <= a.Threshold
	case models.OpEQ:
		return value == a.Threshold
	default:
		log.Printf("Warning: unknown operator %q on achievement %s", a.Operator, a.Key)
		return false
	}
}

// ConditionProgress is the linear progress approximation shown to users:
// metric over threshold, clamped to [0, 100]. It deliberately ignores the
// secondary gate and prerequisite state.
func ConditionProgress(a *models.Achievement, stats *UserStats) float64 {
	if a.Threshold <= 0 {
		return 100
	}

	pct := MetricValue(a.Metric, a.Scope, stats) / a.Threshold * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
