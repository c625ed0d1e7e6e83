package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/julianstephens/theseus/internal/models"
)

const (
	goalColumns      = `id, title, description, category, target_date, progress_pct, status, created_at, updated_at`
	milestoneColumns = `id, goal_id, title, completed, target_date, completed_at, sort_order`
)

func scanGoal(row scanner) (models.Goal, error) {
	var g models.Goal
	var description, targetDate sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&g.ID, &g.Title, &description, &g.Category, &targetDate, &g.ProgressPct, &g.Status, &createdAt, &updatedAt)
	if err != nil {
		return models.Goal{}, err
	}
	g.Description = strPtr(description)
	g.TargetDate = strPtr(targetDate)
	g.CreatedAt = parseTime(createdAt)
	g.UpdatedAt = parseTime(updatedAt)
	return g, nil
}

func scanMilestone(row scanner) (models.Milestone, error) {
	var m models.Milestone
	var targetDate, completedAt sql.NullString

	if err := row.Scan(&m.ID, &m.GoalID, &m.Title, &m.Completed, &targetDate, &completedAt, &m.SortOrder); err != nil {
		return models.Milestone{}, err
	}
	m.TargetDate = strPtr(targetDate)
	m.CompletedAt = timePtr(completedAt)
	return m, nil
}

func (r *Repo) ListGoals(ctx context.Context, f models.GoalFilter) ([]models.Goal, error) {
	var where []string
	var args []interface{}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}

	query := "SELECT " + goalColumns + " FROM goals"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, r.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	goals := []models.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (r *Repo) GetGoal(ctx context.Context, id int64) (models.Goal, error) {
	row := r.db.QueryRowContext(ctx, r.q("SELECT "+goalColumns+" FROM goals WHERE id = ?"), id)
	g, err := scanGoal(row)
	if err != nil {
		return models.Goal{}, notFound(fmt.Sprintf("goal %d", id), err)
	}

	rows, err := r.db.QueryContext(ctx,
		r.q("SELECT "+milestoneColumns+" FROM milestones WHERE goal_id = ? ORDER BY sort_order ASC, id ASC"), id)
	if err != nil {
		return models.Goal{}, fmt.Errorf("failed to list milestones: %w", err)
	}
	defer rows.Close()

	g.Milestones = []models.Milestone{}
	for rows.Next() {
		m, err := scanMilestone(rows)
		if err != nil {
			return models.Goal{}, fmt.Errorf("failed to scan milestone: %w", err)
		}
		g.Milestones = append(g.Milestones, m)
	}
	return g, rows.Err()
}

func (r *Repo) CreateGoal(ctx context.Context, g models.Goal) (models.Goal, error) {
	stamp := r.stamp()
	id, err := r.insert(ctx, r.db, "goal", `
		INSERT INTO goals (title, description, category, target_date, progress_pct, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.Title, strArg(g.Description), g.Category, strArg(g.TargetDate), g.ProgressPct, g.Status, stamp, stamp,
	)
	if err != nil {
		return models.Goal{}, err
	}
	return r.GetGoal(ctx, id)
}

func (r *Repo) UpdateGoal(ctx context.Context, g models.Goal) (models.Goal, error) {
	err := r.exec(ctx, r.db, fmt.Sprintf("goal %d", g.ID), `
		UPDATE goals SET title = ?, description = ?, category = ?, target_date = ?, progress_pct = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		g.Title, strArg(g.Description), g.Category, strArg(g.TargetDate), g.ProgressPct, g.Status, r.stamp(), g.ID,
	)
	if err != nil {
		return models.Goal{}, err
	}
	return r.GetGoal(ctx, g.ID)
}

func (r *Repo) DeleteGoal(ctx context.Context, id int64) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, r.q("DELETE FROM milestones WHERE goal_id = ?"), id); err != nil {
			return fmt.Errorf("failed to delete milestones: %w", err)
		}
		return r.exec(ctx, tx, fmt.Sprintf("goal %d", id), "DELETE FROM goals WHERE id = ?", id)
	})
}

func (r *Repo) GetMilestone(ctx context.Context, goalID, id int64) (models.Milestone, error) {
	row := r.db.QueryRowContext(ctx,
		r.q("SELECT "+milestoneColumns+" FROM milestones WHERE id = ? AND goal_id = ?"), id, goalID)
	m, err := scanMilestone(row)
	if err != nil {
		return models.Milestone{}, notFound(fmt.Sprintf("milestone %d", id), err)
	}
	return m, nil
}

func (r *Repo) CreateMilestone(ctx context.Context, m models.Milestone) (models.Milestone, error) {
	var exists int
	err := r.db.QueryRowContext(ctx, r.q("SELECT 1 FROM goals WHERE id = ?"), m.GoalID).Scan(&exists)
	if err != nil {
		return models.Milestone{}, notFound(fmt.Sprintf("goal %d", m.GoalID), err)
	}

	id, err := r.insert(ctx, r.db, "milestone", `
		INSERT INTO milestones (goal_id, title, completed, target_date, completed_at, sort_order)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.GoalID, m.Title, m.Completed, strArg(m.TargetDate), timeArg(m.CompletedAt), m.SortOrder,
	)
	if err != nil {
		return models.Milestone{}, err
	}
	return r.GetMilestone(ctx, m.GoalID, id)
}

func (r *Repo) UpdateMilestone(ctx context.Context, m models.Milestone) (models.Milestone, error) {
	err := r.exec(ctx, r.db, fmt.Sprintf("milestone %d", m.ID), `
		UPDATE milestones SET title = ?, completed = ?, target_date = ?, completed_at = ?, sort_order = ?
		WHERE id = ? AND goal_id = ?`,
		m.Title, m.Completed, strArg(m.TargetDate), timeArg(m.CompletedAt), m.SortOrder, m.ID, m.GoalID,
	)
	if err != nil {
		return models.Milestone{}, err
	}
	return r.GetMilestone(ctx, m.GoalID, m.ID)
}

func (r *Repo) DeleteMilestone(ctx context.Context, goalID, id int64) error {
	return r.exec(ctx, r.db, fmt.Sprintf("milestone %d", id),
		"DELETE FROM milestones WHERE id = ? AND goal_id = ?", id, goalID)
}
