package trackers

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/theseus/internal/cli"
	"github.com/julianstephens/theseus/internal/constants"
	"github.com/julianstephens/theseus/internal/models"
	"github.com/julianstephens/theseus/internal/validation"
)

type FinanceCmd struct {
	Add     FinanceAddCmd     `cmd:"" help:"Record a transaction."`
	Summary FinanceSummaryCmd `cmd:"" help:"Show the monthly budget roll-up."`
}

type FinanceAddCmd struct {
	Amount      float64 `arg:"" help:"Amount (positive)."`
	Category    string  `arg:"" help:"Category."`
	Income      bool    `help:"Record income instead of an expense."`
	Date        string  `help:"Date in YYYY-MM-DD format (default: today)."`
	Description string  `help:"Optional description."`
}

func (c *FinanceAddCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	t := models.Transaction{
		Date:            c.Date,
		Amount:          c.Amount,
		Category:        strings.TrimSpace(c.Category),
		Description:     optionalString(c.Description),
		TransactionType: constants.TransactionExpense,
	}
	if t.Date == "" {
		t.Date = ctx.Today().Format(constants.DateFormat)
	}
	if c.Income {
		t.TransactionType = constants.TransactionIncome
	}
	if err := validation.Transaction(t); err != nil {
		return err
	}

	saved, err := ctx.Store.CreateTransaction(context.Background(), t)
	if err != nil {
		return err
	}
	fmt.Printf("Recorded %s #%d: %.2f %s on %s\n", saved.TransactionType, saved.ID, saved.Amount, saved.Category, saved.Date)
	return nil
}

type FinanceSummaryCmd struct {
	Month string `help:"Month in YYYY-MM format (default: current month)."`
}

func (c *FinanceSummaryCmd) Run(ctx *cli.Context) error {
	if c.Month != "" {
		if err := validation.Month(c.Month); err != nil {
			return err
		}
	}
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	month := c.Month
	if month == "" {
		month = ctx.Today().Format(constants.MonthFormat)
	}
	r, err := ctx.Local().FinanceSummary(context.Background(), month)
	if err != nil {
		return err
	}

	fmt.Printf("Finance for %s\n", month)
	fmt.Printf("  Income:   %10.2f\n", r.Income)
	fmt.Printf("  Expenses: %10.2f\n", r.Expenses)
	fmt.Printf("  Net:      %10.2f\n", r.Net)

	if len(r.Categories) > 0 {
		fmt.Println("\nSpending by category:")
		for _, cat := range r.Categories {
			fmt.Printf("  %-16s %10.2f  %5.1f%%\n", cat.Category, cat.Amount, cat.PercentOfTotal)
		}
	}

	if len(r.Budgets) > 0 {
		fmt.Println("\nBudgets:")
		for _, b := range r.Budgets {
			line := fmt.Sprintf("  %-16s %10.2f / %.2f", b.Category, b.Spent, b.MonthlyLimit)
			if b.Percent != nil {
				line += fmt.Sprintf("  (%.0f%%)", *b.Percent)
			}
			if b.Over && b.OverBy != nil {
				line += fmt.Sprintf("  ⚠ over by %.2f", *b.OverBy)
			}
			fmt.Println(line)
		}
	}
	return nil
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
