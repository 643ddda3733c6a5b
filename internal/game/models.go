package game

import (
	"github.com/user/lifequest/internal/types"
)

// RoleTemplate seeds a new character of one family role
type RoleTemplate struct {
	DisplayName string `yaml:"display_name"`

	// Shop items and their prices
	Shop map[string]int `yaml:"shop"`

	// Habit name to reward attribute
	Habits map[string]string `yaml:"habits"`
}

// SkillTemplate seeds one skill of the shared skill tree
type SkillTemplate struct {
	Attribute string `yaml:"attribute"`
	XP        int    `yaml:"xp"`
}

// Templates holds every role template plus the shared skill tree
type Templates struct {
	// Role used when a character id has no template of its own
	DefaultRole string `yaml:"default_role"`

	Roles map[string]RoleTemplate `yaml:"roles"`

	// Category to skill name to reward
	Skills map[string]map[string]SkillTemplate `yaml:"skills"`
}

// For returns the template for role, falling back to the default role.
func (t *Templates) For(role string) RoleTemplate {
	if tmpl, ok := t.Roles[role]; ok {
		return tmpl
	}
	return t.Roles[t.DefaultRole]
}

// DisplayName returns the role's display name, or the id itself.
func (t *Templates) DisplayName(role string) string {
	if tmpl, ok := t.Roles[role]; ok && tmpl.DisplayName != "" {
		return tmpl.DisplayName
	}
	return role
}

// NewCharacter builds the default state of a character. Every map is a
// fresh copy so characters never share template state.
func (t *Templates) NewCharacter(role string, startingHealth int, today types.Date) *types.Character {
	tmpl := t.For(role)

	experience := make(map[string]int, len(types.Attributes))
	for _, attr := range types.Attributes {
		experience[attr] = 0
	}

	return &types.Character{
		Experience: experience,
		Vitals: types.Vitals{
			Health:    startingHealth,
			MaxHealth: startingHealth,
			Currency:  0,
		},
		Habits:         tmpl.habits(),
		Tasks:          []types.Task{},
		Shop:           tmpl.shop(),
		Inventory:      []string{},
		Skills:         t.skills(),
		History:        []string{},
		WorkoutQueue:   map[string][]types.Exercise{},
		ActiveWorkout:  nil,
		WorkoutHistory: []types.WorkoutSession{},
		WeightLog:      types.WeightLog{Dates: []types.Date{}, Weights: []float64{}},
		LastLoginDate:  today,
	}
}

func (r RoleTemplate) shop() map[string]int {
	shop := make(map[string]int, len(r.Shop))
	for item, price := range r.Shop {
		shop[item] = price
	}
	return shop
}

func (r RoleTemplate) habits() map[string]*types.Habit {
	habits := make(map[string]*types.Habit, len(r.Habits))
	for name, attr := range r.Habits {
		habits[name] = &types.Habit{RewardAttribute: attr}
	}
	return habits
}

func (t *Templates) skills() map[string]map[string]*types.Skill {
	skills := make(map[string]map[string]*types.Skill, len(t.Skills))
	for category, entries := range t.Skills {
		skills[category] = make(map[string]*types.Skill, len(entries))
		for name, tmpl := range entries {
			skills[category][name] = &types.Skill{
				Status:          types.SkillInProgress,
				RewardAttribute: tmpl.Attribute,
				RewardXP:        tmpl.XP,
			}
		}
	}
	return skills
}
