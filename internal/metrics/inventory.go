package metrics

import (
	"sort"

	"github.com/julianstephens/theseus/internal/constants"
	"github.com/julianstephens/theseus/internal/models"
)

type InventoryStats struct {
	TotalOwned         int      `json:"total_owned"`
	WishlistCount      int      `json:"wishlist_count"`
	AISuggestedCount   int      `json:"ai_suggested_count"`
	TotalWishlistValue *float64 `json:"total_wishlist_value"`
	CategoriesUsed     int      `json:"categories_used"`
}

// ComputeInventoryStats counts items by status. The wishlist value sums the
// priced wishlist items and is nil when none has a price.
func ComputeInventoryStats(items []models.InventoryItem) InventoryStats {
	var s InventoryStats
	cats := make(map[string]bool)
	var wishCents int64
	priced := false
	for _, it := range items {
		cats[it.Category] = true
		switch it.Status {
		case constants.ItemOwned:
			s.TotalOwned++
		case constants.ItemWishlist:
			s.WishlistCount++
			if it.Price != nil {
				wishCents += ToCents(*it.Price)
				priced = true
			}
		case constants.ItemAISuggested:
			s.AISuggestedCount++
		}
	}
	if priced {
		v := FromCents(wishCents)
		s.TotalWishlistValue = &v
	}
	s.CategoriesUsed = len(cats)
	return s
}

func itemPriorityRank(p *string) int {
	if p == nil {
		return 3
	}
	switch *p {
	case constants.PriorityHigh:
		return 1
	case constants.PriorityMedium:
		return 2
	default:
		return 3
	}
}

// SortInventory orders items high, medium, then low or unset priority, newest
// first within a priority.
func SortInventory(items []models.InventoryItem) []models.InventoryItem {
	out := make([]models.InventoryItem, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := itemPriorityRank(out[i].Priority), itemPriorityRank(out[j].Priority)
		if pi != pj {
			return pi < pj
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
