package services

import (
	"math"
	"time"

	"gemwheel/config"

	"github.com/shopspring/decimal"
)

// RequiredXPForLevel returns the total XP needed to reach level:
// base × (level-1)^exponent, floored. Level 1 needs nothing.
func RequiredXPForLevel(cfg config.LevelConfig, level int) int64 {
	if level <= 1 {
		return 0
	}
	scaled := math.Pow(float64(level-1), cfg.ScalingExponent)
	return decimal.NewFromInt(cfg.BaseRequirement).Mul(decimal.NewFromFloat(scaled)).Floor().IntPart()
}

// LevelForXP returns the level a given lifetime XP total corresponds to
func LevelForXP(cfg config.LevelConfig, totalXP int64) int {
	level := 1
	for totalXP >= RequiredXPForLevel(cfg, level+1) {
		level++
	}
	return level
}

// LevelUpBonus is the GEM bonus for reaching newLevel
func LevelUpBonus(cfg config.LevelConfig, newLevel int) int64 {
	return int64(newLevel) * cfg.GemBonusPerLevel
}

// utcDay truncates t to midnight UTC
func utcDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NextLoginStreak computes the streak for a claim at now.
// claimedToday is true when a claim already happened on the same UTC day.
func NextLoginStreak(lastClaim *time.Time, currentStreak int, now time.Time) (streak int, claimedToday bool) {
	if lastClaim == nil {
		return 1, false
	}

	today := utcDay(now)
	last := utcDay(*lastClaim)
	switch {
	case last.Equal(today):
		return currentStreak, true
	case last.Equal(today.AddDate(0, 0, -1)):
		return currentStreak + 1, false
	default:
		return 1, false
	}
}

// DailyRewardMultiplier is min(1 + (streak-1) × step, max)
func DailyRewardMultiplier(cfg config.DailyRewardConfig, streak int) decimal.Decimal {
	if streak < 1 {
		streak = 1
	}
	multiplier := decimal.NewFromInt(1).Add(decimal.NewFromInt(int64(streak - 1)).Mul(decimal.NewFromFloat(cfg.StreakStep)))
	return decimal.Min(multiplier, decimal.NewFromFloat(cfg.MaxMultiplier))
}

// DailyRewardAmount is floor(base × multiplier)
func DailyRewardAmount(cfg config.DailyRewardConfig, streak int) int64 {
	return decimal.NewFromInt(cfg.BaseReward).Mul(DailyRewardMultiplier(cfg, streak)).Floor().IntPart()
}

// StreakMultiplier is min(1 + winStreak × step, max) for participation rewards
func StreakMultiplier(cfg config.ParticipationConfig, winStreak int) decimal.Decimal {
	multiplier := decimal.NewFromInt(1).Add(decimal.NewFromInt(int64(winStreak)).Mul(decimal.NewFromFloat(cfg.StreakStep)))
	return decimal.Min(multiplier, decimal.NewFromFloat(cfg.MaxStreakMultiplier))
}
