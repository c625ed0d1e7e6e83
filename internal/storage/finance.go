package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/julianstephens/theseus/internal/models"
)

const (
	transactionColumns = `id, date, amount, category, description, transaction_type, created_at`
	budgetColumns      = `id, category, monthly_limit, created_at`
)

func scanTransaction(row scanner) (models.Transaction, error) {
	var t models.Transaction
	var description sql.NullString
	var createdAt string

	if err := row.Scan(&t.ID, &t.Date, &t.Amount, &t.Category, &description, &t.TransactionType, &createdAt); err != nil {
		return models.Transaction{}, err
	}
	t.Description = strPtr(description)
	t.CreatedAt = parseTime(createdAt)
	return t, nil
}

func scanBudget(row scanner) (models.Budget, error) {
	var b models.Budget
	var createdAt string
	if err := row.Scan(&b.ID, &b.Category, &b.MonthlyLimit, &createdAt); err != nil {
		return models.Budget{}, err
	}
	b.CreatedAt = parseTime(createdAt)
	return b, nil
}

func (r *Repo) queryTransactions(ctx context.Context, query string, args ...interface{}) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, r.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	txns := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// ListTransactions filters by calendar month (YYYY-MM) and category
func (r *Repo) ListTransactions(ctx context.Context, f models.TransactionFilter) ([]models.Transaction, error) {
	var where []string
	var args []interface{}
	if f.Month != "" {
		where = append(where, "date LIKE ?")
		args = append(args, f.Month+"-%")
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}

	query := "SELECT " + transactionColumns + " FROM transactions"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date DESC, id DESC"
	return r.queryTransactions(ctx, query, args...)
}

func (r *Repo) TransactionsSince(ctx context.Context, from string) ([]models.Transaction, error) {
	return r.queryTransactions(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE date >= ? ORDER BY date ASC, id ASC", from)
}

func (r *Repo) CreateTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	id, err := r.insert(ctx, r.db, "transaction", `
		INSERT INTO transactions (date, amount, category, description, transaction_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.Date, t.Amount, t.Category, strArg(t.Description), t.TransactionType, r.stamp(),
	)
	if err != nil {
		return models.Transaction{}, err
	}

	row := r.db.QueryRowContext(ctx, r.q("SELECT "+transactionColumns+" FROM transactions WHERE id = ?"), id)
	saved, err := scanTransaction(row)
	if err != nil {
		return models.Transaction{}, notFound(fmt.Sprintf("transaction %d", id), err)
	}
	return saved, nil
}

func (r *Repo) DeleteTransaction(ctx context.Context, id int64) error {
	return r.exec(ctx, r.db, fmt.Sprintf("transaction %d", id), "DELETE FROM transactions WHERE id = ?", id)
}

func (r *Repo) ListBudgets(ctx context.Context) ([]models.Budget, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+budgetColumns+" FROM budgets ORDER BY category ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (r *Repo) GetBudget(ctx context.Context, id int64) (models.Budget, error) {
	row := r.db.QueryRowContext(ctx, r.q("SELECT "+budgetColumns+" FROM budgets WHERE id = ?"), id)
	b, err := scanBudget(row)
	if err != nil {
		return models.Budget{}, notFound(fmt.Sprintf("budget %d", id), err)
	}
	return b, nil
}

func (r *Repo) CreateBudget(ctx context.Context, b models.Budget) (models.Budget, error) {
	id, err := r.insert(ctx, r.db, "budget for "+b.Category, `
		INSERT INTO budgets (category, monthly_limit, created_at) VALUES (?, ?, ?)`,
		b.Category, b.MonthlyLimit, r.stamp(),
	)
	if err != nil {
		return models.Budget{}, err
	}
	return r.GetBudget(ctx, id)
}

func (r *Repo) UpdateBudget(ctx context.Context, b models.Budget) (models.Budget, error) {
	err := r.exec(ctx, r.db, "budget for "+b.Category,
		"UPDATE budgets SET category = ?, monthly_limit = ? WHERE id = ?",
		b.Category, b.MonthlyLimit, b.ID,
	)
	if err != nil {
		return models.Budget{}, err
	}
	return r.GetBudget(ctx, b.ID)
}

func (r *Repo) DeleteBudget(ctx context.Context, id int64) error {
	return r.exec(ctx, r.db, fmt.Sprintf("budget %d", id), "DELETE FROM budgets WHERE id = ?", id)
}
