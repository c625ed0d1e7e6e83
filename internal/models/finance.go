package models

import "time"

type Transaction struct {
	ID              int64     `json:"id"`
	Date            string    `json:"date"`
	Amount          float64   `json:"amount"`
	Category        string    `json:"category"`
	Description     *string   `json:"description"`
	TransactionType string    `json:"transaction_type"`
	CreatedAt       time.Time `json:"created_at"`
}

// TransactionFilter narrows a transaction listing. Month is YYYY-MM.
type TransactionFilter struct {
	Month    string
	Category string
}

type Budget struct {
	ID           int64     `json:"id"`
	Category     string    `json:"category"`
	MonthlyLimit float64   `json:"monthly_limit"`
	CreatedAt    time.Time `json:"created_at"`
}

type BudgetPatch struct {
	Category     *string  `json:"category"`
	MonthlyLimit *float64 `json:"monthly_limit"`
}

func (p BudgetPatch) Apply(b *Budget) {
	if p.Category != nil {
		b.Category = *p.Category
	}
	if p.MonthlyLimit != nil {
		b.MonthlyLimit = *p.MonthlyLimit
	}
}
