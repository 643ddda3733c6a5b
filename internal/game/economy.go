package game

import (
	"fmt"
	"sort"

	apperrors "github.com/user/lifequest/internal/errors"
	"github.com/user/lifequest/internal/types"
)

func purchase(c *types.Character, item string, today types.Date) (*types.Outcome, error) {
	price, ok := c.Shop[item]
	if !ok {
		return nil, apperrors.NewNotFound("shop item", item)
	}
	if c.Vitals.Currency < price {
		return nil, apperrors.ErrInsufficientCurrency.WithReason("need %d more gold for %s", price-c.Vitals.Currency, item)
	}

	c.Vitals.Currency -= price
	c.Inventory = append(c.Inventory, item)
	entry := fmt.Sprintf("%s - Bought %s (-%d GP)", today, item, price)
	c.History = append(c.History, entry)

	return &types.Outcome{
		Description:    fmt.Sprintf("Purchased %s", item),
		CurrencyChange: -price,
		HistoryEntry:   entry,
	}, nil
}

// redeem removes the inventory entry at index, leaving other copies of the
// same item in place.
func redeem(c *types.Character, index int, today types.Date) (*types.Outcome, error) {
	if index < 0 || index >= len(c.Inventory) {
		return nil, apperrors.NewNotFound("inventory item", fmt.Sprintf("#%d", index))
	}

	item := c.Inventory[index]
	c.Inventory = append(c.Inventory[:index], c.Inventory[index+1:]...)
	entry := fmt.Sprintf("%s - Redeemed %s", today, item)
	c.History = append(c.History, entry)

	return &types.Outcome{
		Description:  fmt.Sprintf("Redeemed %s", item),
		HistoryEntry: entry,
	}, nil
}

func shopListing(c *types.Character) []types.ShopListing {
	listing := make([]types.ShopListing, 0, len(c.Shop))
	for item, price := range c.Shop {
		entry := types.ShopListing{
			Item:       item,
			Price:      price,
			Affordable: c.Vitals.Currency >= price,
		}
		if !entry.Affordable {
			entry.Shortfall = price - c.Vitals.Currency
		}
		listing = append(listing, entry)
	}
	sort.Slice(listing, func(i, j int) bool { return listing[i].Item < listing[j].Item })
	return listing
}
