package metrics

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/theseus/internal/constants"
	"github.com/julianstephens/theseus/internal/models"
)

// ToCents converts a decimal amount to integer cents, rounding half away
// from zero.
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FromCents converts integer cents back to a decimal amount.
func FromCents(c int64) float64 {
	return float64(c) / 100
}

// CategoryTotal is the expense total for one category. Budget fields are
// nil when the category has no budget with a positive limit.
type CategoryTotal struct {
	Category       string   `json:"category"`
	Amount         float64  `json:"amount"`
	Cents          int64    `json:"-"`
	PercentOfTotal float64  `json:"pct_of_total"`
	BudgetLimit    *float64 `json:"budget_limit,omitempty"`
	BudgetPercent  *float64 `json:"budget_pct,omitempty"`
	OverBudget     *float64 `json:"over_budget,omitempty"`
}

// BudgetStatus reports spend against one budget, including budgets with no
// spending yet.
type BudgetStatus struct {
	BudgetID     int64    `json:"budget_id"`
	Category     string   `json:"category"`
	MonthlyLimit float64  `json:"monthly_limit"`
	Spent        float64  `json:"spent"`
	Percent      *float64 `json:"pct,omitempty"`
	Over         bool     `json:"over"`
	OverBy       *float64 `json:"over_by,omitempty"`
}

// BudgetRollup is the aggregate over a month of transactions.
type BudgetRollup struct {
	Income     float64            `json:"income"`
	Expenses   float64            `json:"expenses"`
	Net        float64            `json:"net"`
	ByCategory map[string]float64 `json:"by_category"`
	Categories []CategoryTotal    `json:"categories"`
	Budgets    []BudgetStatus     `json:"budgets"`
}

// AggregateBudget rolls a month of transactions up into per-category expense
// totals, ordered by amount descending then by name. Sums are computed in
// integer cents so the category totals add up to Expenses exactly. Budget
// percentages are spent/limit*100 and are not capped. When several budgets
// name the same category the first one wins.
func AggregateBudget(txns []models.Transaction, budgets []models.Budget) BudgetRollup {
	var incomeCents, expenseCents int64
	byCat := make(map[string]int64)
	for _, t := range txns {
		c := ToCents(t.Amount)
		switch t.TransactionType {
		case constants.TransactionIncome:
			incomeCents += c
		case constants.TransactionExpense:
			expenseCents += c
			byCat[t.Category] += c
		}
	}

	limits := make(map[string]models.Budget, len(budgets))
	var order []models.Budget
	for _, b := range budgets {
		if _, seen := limits[b.Category]; seen {
			continue
		}
		limits[b.Category] = b
		order = append(order, b)
	}

	r := BudgetRollup{
		Income:     FromCents(incomeCents),
		Expenses:   FromCents(expenseCents),
		Net:        FromCents(incomeCents - expenseCents),
		ByCategory: make(map[string]float64, len(byCat)),
		Categories: make([]CategoryTotal, 0, len(byCat)),
		Budgets:    make([]BudgetStatus, 0, len(order)),
	}

	for cat, cents := range byCat {
		ct := CategoryTotal{
			Category: cat,
			Amount:   FromCents(cents),
			Cents:    cents,
		}
		if expenseCents != 0 {
			ct.PercentOfTotal = float64(cents) / float64(expenseCents) * 100
		}
		if b, ok := limits[cat]; ok {
			limitCents := ToCents(b.MonthlyLimit)
			if limitCents > 0 {
				limit := FromCents(limitCents)
				pct := float64(cents) / float64(limitCents) * 100
				ct.BudgetLimit = &limit
				ct.BudgetPercent = &pct
				if cents > limitCents {
					over := FromCents(cents - limitCents)
					ct.OverBudget = &over
				}
			}
		}
		r.ByCategory[cat] = ct.Amount
		r.Categories = append(r.Categories, ct)
	}
	sort.Slice(r.Categories, func(i, j int) bool {
		a, b := r.Categories[i], r.Categories[j]
		if a.Cents != b.Cents {
			return a.Cents > b.Cents
		}
		return a.Category < b.Category
	})

	for _, b := range order {
		spent := byCat[b.Category]
		limitCents := ToCents(b.MonthlyLimit)
		st := BudgetStatus{
			BudgetID:     b.ID,
			Category:     b.Category,
			MonthlyLimit: FromCents(limitCents),
			Spent:        FromCents(spent),
		}
		if limitCents > 0 {
			pct := float64(spent) / float64(limitCents) * 100
			st.Percent = &pct
			if spent > limitCents {
				over := FromCents(spent - limitCents)
				st.Over = true
				st.OverBy = &over
			}
		}
		r.Budgets = append(r.Budgets, st)
	}

	return r
}

// FilterMonth keeps the transactions dated within month (YYYY-MM).
func FilterMonth(txns []models.Transaction, month string) []models.Transaction {
	prefix := month + "-"
	var out []models.Transaction
	for _, t := range txns {
		if strings.HasPrefix(t.Date, prefix) {
			out = append(out, t)
		}
	}
	return out
}

// MonthTrend is the income and expense total for one calendar month.
type MonthTrend struct {
	Month    string  `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

// MonthlyTrends totals income and expenses for the trailing months ending
// with the month containing today, oldest first. Months without activity are
// reported as zero.
func MonthlyTrends(txns []models.Transaction, months int, today time.Time) []MonthTrend {
	if months <= 0 {
		return []MonthTrend{}
	}
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	type pair struct{ income, expenses int64 }
	totals := make(map[string]*pair, months)
	keys := make([]string, 0, months)
	for i := 0; i < months; i++ {
		k := first.AddDate(0, i, 0).Format(constants.MonthFormat)
		totals[k] = &pair{}
		keys = append(keys, k)
	}

	for _, t := range txns {
		if len(t.Date) < 7 {
			continue
		}
		p, ok := totals[t.Date[:7]]
		if !ok {
			continue
		}
		switch t.TransactionType {
		case constants.TransactionIncome:
			p.income += ToCents(t.Amount)
		case constants.TransactionExpense:
			p.expenses += ToCents(t.Amount)
		}
	}

	out := make([]MonthTrend, 0, months)
	for _, k := range keys {
		out = append(out, MonthTrend{Month: k, Income: FromCents(totals[k].income), Expenses: FromCents(totals[k].expenses)})
	}
	return out
}
