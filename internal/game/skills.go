package game

import (
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/user/lifequest/internal/errors"
	"github.com/user/lifequest/internal/types"
)

func masterSkill(c *types.Character, category, name string, today types.Date) (*types.Outcome, error) {
	entries, ok := c.Skills[category]
	if !ok {
		return nil, apperrors.NewNotFound("skill category", category)
	}
	skill, ok := entries[name]
	if !ok {
		return nil, apperrors.NewNotFound("skill", name)
	}
	if skill.Status == types.SkillMastered {
		return nil, apperrors.ErrSkillAlreadyMastered.WithReason("%s already mastered", name)
	}

	skill.Status = types.SkillMastered
	entry := fmt.Sprintf("%s - Mastered: %s", today, name)
	c.History = append(c.History, entry)
	levelUp := grantXP(c, skill.RewardAttribute, skill.RewardXP)

	return &types.Outcome{
		Description:  fmt.Sprintf("Mastered %s", name),
		XPChanges:    map[string]int{skill.RewardAttribute: skill.RewardXP},
		LevelUp:      levelUp,
		HistoryEntry: entry,
	}, nil
}

// addSkill adds an in-progress skill, creating the category if needed.
// An existing skill of the same name is replaced.
func addSkill(c *types.Character, category, name, attribute string, xp int) error {
	category = strings.TrimSpace(category)
	name = strings.TrimSpace(name)
	if category == "" {
		return apperrors.NewValidation("category", "category is required")
	}
	if name == "" {
		return apperrors.NewValidation("name", "skill name is required")
	}
	if !types.IsAttribute(attribute) {
		return apperrors.NewValidation("attribute", "unknown attribute %q", attribute)
	}
	if xp <= 0 {
		return apperrors.NewValidation("xp", "xp reward must be positive, got %d", xp)
	}

	if c.Skills[category] == nil {
		c.Skills[category] = make(map[string]*types.Skill)
	}
	c.Skills[category][name] = &types.Skill{
		Status:          types.SkillInProgress,
		RewardAttribute: attribute,
		RewardXP:        xp,
	}
	return nil
}

func skillTree(c *types.Character) []types.SkillView {
	var views []types.SkillView
	for category, entries := range c.Skills {
		for name, skill := range entries {
			views = append(views, types.SkillView{Category: category, Name: name, Skill: *skill})
		}
	}
	sort.Slice(views, func(i, j int) bool {
		if views[i].Category != views[j].Category {
			return views[i].Category < views[j].Category
		}
		return views[i].Name < views[j].Name
	})
	return views
}
