package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed economy.yaml
var defaultEconomyYAML []byte

// Economy holds the tunables of the virtual economy
type Economy struct {
	StartingGemBonus int64               `yaml:"starting_gem_bonus"`
	MinBet           int64               `yaml:"min_bet"`
	MaxBet           int64               `yaml:"max_bet"`
	Level            LevelConfig         `yaml:"level"`
	Daily            DailyRewardConfig   `yaml:"daily"`
	Participation    ParticipationConfig `yaml:"participation"`
	Drops            DropConfig          `yaml:"drops"`
	Trades           TradeConfig         `yaml:"trades"`
}

// LevelConfig drives the XP curve: base × (L-1)^exponent
type LevelConfig struct {
	BaseRequirement  int64   `yaml:"base_requirement"`
	ScalingExponent  float64 `yaml:"scaling_exponent"`
	GemBonusPerLevel int64   `yaml:"gem_bonus_per_level"`
}

// DailyRewardConfig drives base × min(1 + (streak-1) × step, max)
type DailyRewardConfig struct {
	BaseReward    int64   `yaml:"base_reward"`
	StreakStep    float64 `yaml:"streak_step"`
	MaxMultiplier float64 `yaml:"max_multiplier"`
}

// ParticipationConfig drives the XP/GEM granted for every spin
type ParticipationConfig struct {
	BaseXP              int64   `yaml:"base_xp"`
	WinXP               int64   `yaml:"win_xp"`
	BaseGems            int64   `yaml:"base_gems"`
	StreakStep          float64 `yaml:"streak_step"`
	MaxStreakMultiplier float64 `yaml:"max_streak_multiplier"`
}

// DropConfig drives random item drops
type DropConfig struct {
	BaseProbability    float64            `yaml:"base_probability"`
	WinStreakThreshold int                `yaml:"win_streak_threshold"`
	WinStreakBoost     float64            `yaml:"win_streak_boost"`
	RarityWeights      map[string]float64 `yaml:"rarity_weights"`
}

// TradeConfig drives peer-to-peer trades
type TradeConfig struct {
	FeeGems           int64 `yaml:"fee_gems"`
	MaxPendingPerUser int   `yaml:"max_pending_per_user"`
	ExpiryHours       int   `yaml:"expiry_hours"`
}

// Expiry returns how long a new trade offer stays open
func (t TradeConfig) Expiry() time.Duration {
	return time.Duration(t.ExpiryHours) * time.Hour
}

// Weight returns the configured probability for a rarity
func (d DropConfig) Weight(rarity string) decimal.Decimal {
	return decimal.NewFromFloat(d.RarityWeights[rarity])
}

// DefaultEconomy parses the embedded defaults. It panics on a broken build.
func DefaultEconomy() *Economy {
	economy, err := parseEconomy(defaultEconomyYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded economy config is invalid: %v", err))
	}
	return economy
}

// LoadEconomy reads tunables from path, or the embedded defaults when path is empty
func LoadEconomy(path string) (*Economy, error) {
	if path == "" {
		return parseEconomy(defaultEconomyYAML)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read economy config %s: %w", path, err)
	}
	return parseEconomy(data)
}

func parseEconomy(data []byte) (*Economy, error) {
	var economy Economy
	if err := yaml.Unmarshal(data, &economy); err != nil {
		return nil, fmt.Errorf("failed to parse economy config: %w", err)
	}
	if err := economy.Validate(); err != nil {
		return nil, err
	}
	return &economy, nil
}

// Validate rejects inconsistent tunables
func (e *Economy) Validate() error {
	if e.StartingGemBonus < 0 {
		return fmt.Errorf("starting_gem_bonus cannot be negative")
	}
	if e.MinBet <= 0 || e.MaxBet < e.MinBet {
		return fmt.Errorf("bet limits must satisfy 0 < min_bet <= max_bet, got %d..%d", e.MinBet, e.MaxBet)
	}
	if e.Level.BaseRequirement <= 0 || e.Level.ScalingExponent < 1 {
		return fmt.Errorf("level curve needs base_requirement > 0 and scaling_exponent >= 1")
	}
	if e.Level.GemBonusPerLevel < 0 {
		return fmt.Errorf("gem_bonus_per_level cannot be negative")
	}
	if e.Daily.BaseReward <= 0 || e.Daily.StreakStep < 0 || e.Daily.MaxMultiplier < 1 {
		return fmt.Errorf("daily reward needs base_reward > 0, streak_step >= 0, max_multiplier >= 1")
	}
	if e.Participation.BaseXP < 0 || e.Participation.WinXP < 0 || e.Participation.BaseGems < 0 {
		return fmt.Errorf("participation rewards cannot be negative")
	}
	if e.Participation.MaxStreakMultiplier < 1 {
		return fmt.Errorf("participation max_streak_multiplier must be >= 1")
	}
	if e.Drops.BaseProbability < 0 || e.Drops.BaseProbability > 1 {
		return fmt.Errorf("drops base_probability must be within [0, 1]")
	}
	if e.Drops.WinStreakBoost < 1 {
		return fmt.Errorf("drops win_streak_boost must be >= 1")
	}
	if len(e.Drops.RarityWeights) == 0 {
		return fmt.Errorf("drops rarity_weights cannot be empty")
	}
	for rarity, weight := range e.Drops.RarityWeights {
		if !knownRarity(rarity) {
			return fmt.Errorf("drops rarity_weights has unknown rarity %q", rarity)
		}
		if weight <= 0 {
			return fmt.Errorf("drops rarity_weights[%s] must be positive", rarity)
		}
	}
	if e.Trades.FeeGems < 0 || e.Trades.MaxPendingPerUser <= 0 || e.Trades.ExpiryHours <= 0 {
		return fmt.Errorf("trades need fee_gems >= 0, max_pending_per_user > 0, expiry_hours > 0")
	}
	return nil
}

// knownRarity mirrors the rarity tiers stored in the catalog
func knownRarity(r string) bool {
	switch r {
	case "COMMON", "UNCOMMON", "RARE", "EPIC", "LEGENDARY":
		return true
	}
	return false
}
