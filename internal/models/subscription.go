package models

import "time"

type Subscription struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Cost         float64   `json:"cost"`
	BillingCycle string    `json:"billing_cycle"`
	NextRenewal  string    `json:"next_renewal"`
	Category     *string   `json:"category"`
	Active       bool      `json:"active"`
	Notes        *string   `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
}

type SubscriptionPatch struct {
	Name         *string  `json:"name"`
	Cost         *float64 `json:"cost"`
	BillingCycle *string  `json:"billing_cycle"`
	NextRenewal  *string  `json:"next_renewal"`
	Category     *string  `json:"category"`
	Active       *bool    `json:"active"`
	Notes        *string  `json:"notes"`
}

func (p SubscriptionPatch) Apply(s *Subscription) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Cost != nil {
		s.Cost = *p.Cost
	}
	if p.BillingCycle != nil {
		s.BillingCycle = *p.BillingCycle
	}
	if p.NextRenewal != nil {
		s.NextRenewal = *p.NextRenewal
	}
	if p.Category != nil {
		s.Category = optional(*p.Category)
	}
	if p.Active != nil {
		s.Active = *p.Active
	}
	if p.Notes != nil {
		s.Notes = optional(*p.Notes)
	}
}
