package services

import (
	"testing"
	"time"

	"gemwheel/config"

	"github.com/stretchr/testify/assert"
)

func TestRequiredXPForLevel(t *testing.T) {
	cfg := config.DefaultEconomy().Level

	assert.Equal(t, int64(0), RequiredXPForLevel(cfg, 1))
	assert.Equal(t, int64(100), RequiredXPForLevel(cfg, 2))
	assert.Equal(t, int64(282), RequiredXPForLevel(cfg, 3))
	assert.Equal(t, int64(519), RequiredXPForLevel(cfg, 4))

	prev := int64(-1)
	for level := 1; level <= 50; level++ {
		required := RequiredXPForLevel(cfg, level)
		assert.Greater(t, required, prev, "curve must be strictly increasing at level %d", level)
		prev = required
	}
}

func TestLevelForXP(t *testing.T) {
	cfg := config.DefaultEconomy().Level

	assert.Equal(t, 1, LevelForXP(cfg, 0))
	assert.Equal(t, 1, LevelForXP(cfg, 99))
	assert.Equal(t, 2, LevelForXP(cfg, 100))
	assert.Equal(t, 3, LevelForXP(cfg, 282))
	assert.Equal(t, 3, LevelForXP(cfg, 518))
}

func TestLevelUpBonus(t *testing.T) {
	cfg := config.DefaultEconomy().Level
	assert.Equal(t, int64(50), LevelUpBonus(cfg, 2))
	assert.Equal(t, int64(250), LevelUpBonus(cfg, 10))
}

func TestNextLoginStreak(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)
	sameDay := time.Date(2024, 3, 10, 0, 5, 0, 0, time.UTC)
	yesterday := time.Date(2024, 3, 9, 23, 59, 0, 0, time.UTC)
	lastWeek := time.Date(2024, 3, 3, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		last        *time.Time
		streak      int
		wantStreak  int
		wantClaimed bool
	}{
		{"first claim", nil, 0, 1, false},
		{"same utc day", &sameDay, 4, 4, true},
		{"consecutive day", &yesterday, 4, 5, false},
		{"gap resets", &lastWeek, 9, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			streak, claimed := NextLoginStreak(tt.last, tt.streak, now)
			assert.Equal(t, tt.wantStreak, streak)
			assert.Equal(t, tt.wantClaimed, claimed)
		})
	}
}

func TestNextLoginStreak_UsesUTCDays(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// 2024-03-10 08:00 JST is still 2024-03-09 in UTC
	last := time.Date(2024, 3, 10, 8, 0, 0, 0, tokyo)
	now := time.Date(2024, 3, 10, 1, 0, 0, 0, time.UTC)

	streak, claimed := NextLoginStreak(&last, 2, now)
	assert.False(t, claimed)
	assert.Equal(t, 3, streak)
}

func TestDailyRewardAmount(t *testing.T) {
	cfg := config.DefaultEconomy().Daily

	assert.Equal(t, int64(50), DailyRewardAmount(cfg, 1))
	assert.Equal(t, int64(70), DailyRewardAmount(cfg, 5))
	assert.Equal(t, "1.4", DailyRewardMultiplier(cfg, 5).String())
	// capped at 2x from streak 11 on
	assert.Equal(t, int64(100), DailyRewardAmount(cfg, 11))
	assert.Equal(t, int64(100), DailyRewardAmount(cfg, 40))
}

func TestStreakMultiplier(t *testing.T) {
	cfg := config.DefaultEconomy().Participation

	assert.Equal(t, "1", StreakMultiplier(cfg, 0).String())
	assert.Equal(t, "1.3", StreakMultiplier(cfg, 3).String())
	assert.Equal(t, "1.5", StreakMultiplier(cfg, 12).String())
}
