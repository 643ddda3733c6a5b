package game

import (
	"fmt"
	"os"

	"github.com/user/lifequest/internal/types"
	"gopkg.in/yaml.v3"
)

// DefaultTemplates returns the built-in family roles and skill tree
func DefaultTemplates() *Templates {
	return &Templates{
		DefaultRole: "dad",
		Roles: map[string]RoleTemplate{
			"dad": {
				DisplayName: "Dad (Monarch)",
				Shop: map[string]int{
					"Cheat Meal": 150,
					"1hr Gaming": 100,
					"Pick Movie": 300,
					"1hr Nap":    50,
				},
				Habits: map[string]string{
					"Iron Prayer (Gym)": types.Strength,
					"Paleo Diet":        types.Vitality,
					"Legacy Time":       types.Spirit,
					"Gallon Water":      types.Vitality,
				},
			},
			"mom": {
				DisplayName: "Mom (Healer)",
				Shop: map[string]int{
					"Starbucks Run": 100,
					"Spa Hour":      100,
					"Wine":          50,
					"Reading Time":  100,
				},
				Habits: map[string]string{
					"Mana Regen (Yoga)":       types.Agility,
					"Potion Brewing (Health)": types.Vitality,
					"Elixir (Water)":          types.Vitality,
					"Self Healing":            types.Spirit,
				},
			},
			"daughter": {
				DisplayName: "Daughter (Caster)",
				Shop: map[string]int{
					"Gas Money ($10)": 500,
					"Makeup Item":     400,
					"+1 Hr Phone":     50,
					"Curfew +1hr":     200,
				},
				Habits: map[string]string{
					"Swift Cleanse (Dishes)":    types.Agility,
					"Arcane Focus (HW On Time)": types.Intellect,
					"Bardic Training (Band)":    types.Spirit,
					"Battle Ready (Sports)":     types.Strength,
				},
			},
			"son": {
				DisplayName: "Son (Tank)",
				Shop: map[string]int{
					"1 Hr Gaming":      50,
					"$10 Robux":        400,
					"Ice Cream":        100,
					"Late Night (1hr)": 150,
				},
				Habits: map[string]string{
					"Fortify Base (Chores)": types.Spirit,
					"Rations (Clean Eat)":   types.Vitality,
					"War Drums (Band)":      types.Intellect,
					"Training Arc (Gym)":    types.Strength,
				},
			},
		},
		Skills: map[string]map[string]SkillTemplate{
			"Guardian (Safety)": {
				"Situational Awareness": {Attribute: types.Sense, XP: 50},
				"Self Defense Basics":   {Attribute: types.Strength, XP: 100},
			},
			"Merchant (Finance)": {
				"Budgeting/Saving":  {Attribute: types.Sense, XP: 50},
				"Compound Interest": {Attribute: types.Intellect, XP: 75},
			},
			"Artificer (Mechanics)": {
				"Change Flat Tire": {Attribute: types.Strength, XP: 100},
				"Check Oil/Fluids": {Attribute: types.Sense, XP: 50},
			},
			"Survivalist (Outdoors)": {
				"Knot Tying":            {Attribute: types.Agility, XP: 50},
				"Start Fire (No Match)": {Attribute: types.Sense, XP: 100},
			},
		},
	}
}

// LoadTemplatesFromYAML loads role templates from a YAML file
func LoadTemplatesFromYAML(path string) (*Templates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read templates file: %w", err)
	}

	var templates Templates
	if err := yaml.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("failed to parse templates YAML: %w", err)
	}

	if err := templates.validate(); err != nil {
		return nil, err
	}

	return &templates, nil
}

// LoadTemplates returns the built-in templates, or the file at path when set
func LoadTemplates(path string) (*Templates, error) {
	if path == "" {
		return DefaultTemplates(), nil
	}
	return LoadTemplatesFromYAML(path)
}

func (t *Templates) validate() error {
	if _, ok := t.Roles[t.DefaultRole]; !ok {
		return fmt.Errorf("default role %q has no template", t.DefaultRole)
	}
	for role, tmpl := range t.Roles {
		for habit, attr := range tmpl.Habits {
			if !types.IsAttribute(attr) {
				return fmt.Errorf("role %s habit %q: unknown attribute %q", role, habit, attr)
			}
		}
	}
	for category, entries := range t.Skills {
		for name, skill := range entries {
			if !types.IsAttribute(skill.Attribute) {
				return fmt.Errorf("skill %s/%s: unknown attribute %q", category, name, skill.Attribute)
			}
		}
	}
	return nil
}
