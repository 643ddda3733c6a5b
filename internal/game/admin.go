package game

import (
	"strings"

	apperrors "github.com/user/lifequest/internal/errors"
	"github.com/user/lifequest/internal/types"
)

func requireAdmin(actor types.Actor) error {
	if !actor.Admin {
		return apperrors.ErrNotPermitted.WithReason("%s may not edit other characters", actor.CharacterID)
	}
	return nil
}

func assignTask(c *types.Character, name, attribute string, due types.Date) (*types.Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidation("name", "task name is required")
	}
	if !types.IsAttribute(attribute) {
		return nil, apperrors.NewValidation("attribute", "unknown attribute %q", attribute)
	}

	c.Tasks = append(c.Tasks, types.Task{
		Name:            name,
		RewardAttribute: attribute,
		DueDate:         due,
	})
	return &c.Tasks[len(c.Tasks)-1], nil
}

func addShopItem(c *types.Character, item string, price int) error {
	item = strings.TrimSpace(item)
	if item == "" {
		return apperrors.NewValidation("item", "item name is required")
	}
	if price <= 0 {
		return apperrors.NewValidation("price", "price must be positive, got %d", price)
	}
	c.Shop[item] = price
	return nil
}

func removeShopItem(c *types.Character, item string) error {
	if _, ok := c.Shop[item]; !ok {
		return apperrors.NewNotFound("shop item", item)
	}
	delete(c.Shop, item)
	return nil
}

// addHabit creates a habit, or resets an existing one of the same name.
func addHabit(c *types.Character, name, attribute string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.NewValidation("name", "habit name is required")
	}
	if !types.IsAttribute(attribute) {
		return apperrors.NewValidation("attribute", "unknown attribute %q", attribute)
	}
	c.Habits[name] = &types.Habit{RewardAttribute: attribute}
	return nil
}

func removeHabit(c *types.Character, name string) error {
	if _, ok := c.Habits[name]; !ok {
		return apperrors.NewNotFound("habit", name)
	}
	delete(c.Habits, name)
	return nil
}
