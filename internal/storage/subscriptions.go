package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/julianstephens/theseus/internal/models"
)

const subscriptionColumns = `id, name, cost, billing_cycle, next_renewal, category, active, notes, created_at`

func scanSubscription(row scanner) (models.Subscription, error) {
	var s models.Subscription
	var category, notes sql.NullString
	var createdAt string

	err := row.Scan(&s.ID, &s.Name, &s.Cost, &s.BillingCycle, &s.NextRenewal, &category, &s.Active, &notes, &createdAt)
	if err != nil {
		return models.Subscription{}, err
	}
	s.Category = strPtr(category)
	s.Notes = strPtr(notes)
	s.CreatedAt = parseTime(createdAt)
	return s, nil
}

func (r *Repo) ListSubscriptions(ctx context.Context, active *bool) ([]models.Subscription, error) {
	query := "SELECT " + subscriptionColumns + " FROM subscriptions"
	var args []interface{}
	if active != nil {
		query += " WHERE active = ?"
		args = append(args, *active)
	}
	query += " ORDER BY name ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, r.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	subs := []models.Subscription{}
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func (r *Repo) GetSubscription(ctx context.Context, id int64) (models.Subscription, error) {
	row := r.db.QueryRowContext(ctx, r.q("SELECT "+subscriptionColumns+" FROM subscriptions WHERE id = ?"), id)
	s, err := scanSubscription(row)
	if err != nil {
		return models.Subscription{}, notFound(fmt.Sprintf("subscription %d", id), err)
	}
	return s, nil
}

func (r *Repo) CreateSubscription(ctx context.Context, s models.Subscription) (models.Subscription, error) {
	id, err := r.insert(ctx, r.db, "subscription", `
		INSERT INTO subscriptions (name, cost, billing_cycle, next_renewal, category, active, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Name, s.Cost, s.BillingCycle, s.NextRenewal, strArg(s.Category), s.Active, strArg(s.Notes), r.stamp(),
	)
	if err != nil {
		return models.Subscription{}, err
	}
	return r.GetSubscription(ctx, id)
}

func (r *Repo) UpdateSubscription(ctx context.Context, s models.Subscription) (models.Subscription, error) {
	err := r.exec(ctx, r.db, fmt.Sprintf("subscription %d", s.ID), `
		UPDATE subscriptions SET name = ?, cost = ?, billing_cycle = ?, next_renewal = ?, category = ?, active = ?, notes = ?
		WHERE id = ?`,
		s.Name, s.Cost, s.BillingCycle, s.NextRenewal, strArg(s.Category), s.Active, strArg(s.Notes), s.ID,
	)
	if err != nil {
		return models.Subscription{}, err
	}
	return r.GetSubscription(ctx, s.ID)
}

func (r *Repo) DeleteSubscription(ctx context.Context, id int64) error {
	return r.exec(ctx, r.db, fmt.Sprintf("subscription %d", id), "DELETE FROM subscriptions WHERE id = ?", id)
}
