package models

import "time"

type InventoryItem struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Status       string    `json:"status"`
	Priority     *string   `json:"priority"`
	Price        *float64  `json:"price"`
	Currency     string    `json:"currency"`
	PurchaseDate *string   `json:"purchase_date"`
	Notes        *string   `json:"notes"`
	AIReason     *string   `json:"ai_reason"`
	Tags         *string   `json:"tags"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type InventoryPatch struct {
	Name         *string  `json:"name"`
	Category     *string  `json:"category"`
	Status       *string  `json:"status"`
	Priority     *string  `json:"priority"`
	Price        *float64 `json:"price"`
	Currency     *string  `json:"currency"`
	PurchaseDate *string  `json:"purchase_date"`
	Notes        *string  `json:"notes"`
	AIReason     *string  `json:"ai_reason"`
	Tags         *string  `json:"tags"`
}

func (p InventoryPatch) Apply(it *InventoryItem) {
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.Category != nil {
		it.Category = *p.Category
	}
	if p.Status != nil {
		it.Status = *p.Status
	}
	if p.Priority != nil {
		it.Priority = optional(*p.Priority)
	}
	if p.Price != nil {
		it.Price = p.Price
	}
	if p.Currency != nil {
		it.Currency = *p.Currency
	}
	if p.PurchaseDate != nil {
		it.PurchaseDate = optional(*p.PurchaseDate)
	}
	if p.Notes != nil {
		it.Notes = optional(*p.Notes)
	}
	if p.AIReason != nil {
		it.AIReason = optional(*p.AIReason)
	}
	if p.Tags != nil {
		it.Tags = optional(*p.Tags)
	}
}

type InventoryFilter struct {
	Status   string
	Category string
	Tag      string
}

type InventoryCategory struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Color     *string   `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

type InventoryCategoryPatch struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

func (p InventoryCategoryPatch) Apply(c *InventoryCategory) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Color != nil {
		c.Color = optional(*p.Color)
	}
}
