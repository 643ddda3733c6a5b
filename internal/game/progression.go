package game

import (
	"github.com/user/lifequest/internal/types"
)

// Reward and penalty amounts
const (
	XPPerLevel           = 100
	LevelUpCurrencyBonus = 100

	HabitXPReward       = 15
	HabitCurrencyReward = 5

	TaskXPReward       = 40
	TaskOnTimeCurrency = 25
	TaskLateCurrency   = 10

	WorkoutStrengthReward = 150
	WorkoutAgilityReward  = 50
	WorkoutCurrencyReward = 50

	MissedHabitPenalty = 10
	HealthFloor        = 1
	CriticalHealth     = 10
)

// Rank is one step of the rank ladder
type Rank struct {
	Threshold int
	Title     string
}

// Ranks is the ascending rank ladder over total experience
var Ranks = []Rank{
	{Threshold: 0, Title: "E-Rank"},
	{Threshold: 1000, Title: "D-Rank"},
	{Threshold: 2500, Title: "C-Rank"},
	{Threshold: 5000, Title: "B-Rank"},
	{Threshold: 10000, Title: "A-Rank"},
	{Threshold: 20000, Title: "S-Rank"},
	{Threshold: 50000, Title: "Nation-Level"},
}

// RankOf returns the highest rank whose threshold does not exceed totalXP.
func RankOf(totalXP int) string {
	rank := Ranks[0].Title
	for _, r := range Ranks {
		if totalXP >= r.Threshold {
			rank = r.Title
		}
	}
	return rank
}

// LevelOf returns the level of an experience pool, starting at 1.
func LevelOf(xp int) int {
	return xp/XPPerLevel + 1
}

// LevelProgress returns the fraction of the way to the next level.
func LevelProgress(xp int) float64 {
	return float64(xp%XPPerLevel) / XPPerLevel
}

// applyLevelUp grants the level-up bonus when newXP crossed a level boundary
// that oldXP had not. The bonus is flat no matter how many boundaries a single
// grant crossed.
func applyLevelUp(c *types.Character, attribute string, oldXP, newXP int) *types.LevelUp {
	if newXP/XPPerLevel <= oldXP/XPPerLevel {
		return nil
	}

	c.Vitals.Currency += LevelUpCurrencyBonus
	c.Vitals.Health = c.Vitals.MaxHealth

	return &types.LevelUp{
		Attribute:     attribute,
		NewLevel:      LevelOf(newXP),
		CurrencyBonus: LevelUpCurrencyBonus,
		HealthRestore: true,
	}
}

// grantXP adds amount to one attribute and runs the level-up check once.
func grantXP(c *types.Character, attribute string, amount int) *types.LevelUp {
	oldXP := c.Experience[attribute]
	c.Experience[attribute] = oldXP + amount
	return applyLevelUp(c, attribute, oldXP, c.Experience[attribute])
}

// characterStatus builds the dashboard view.
func characterStatus(id, displayName string, c *types.Character) *types.CharacterStatus {
	total := c.TotalXP()

	attributes := make([]types.AttributeStatus, 0, len(types.Attributes))
	for _, attr := range types.Attributes {
		xp := c.Experience[attr]
		attributes = append(attributes, types.AttributeStatus{
			Name:     attr,
			XP:       xp,
			Level:    LevelOf(xp),
			Progress: LevelProgress(xp),
		})
	}

	return &types.CharacterStatus{
		CharacterID:    id,
		DisplayName:    displayName,
		Rank:           RankOf(total),
		TotalXP:        total,
		PlayerLevel:    LevelOf(total),
		Progress:       LevelProgress(total),
		Health:         c.Vitals.Health,
		MaxHealth:      c.Vitals.MaxHealth,
		Currency:       c.Vitals.Currency,
		Critical:       c.Vitals.Health <= CriticalHealth,
		InventoryCount: len(c.Inventory),
		Attributes:     attributes,
	}
}
