package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/julianstephens/theseus/internal/models"
)

const (
	habitColumns    = `id, name, category, icon, target_frequency, active, created_at`
	habitLogColumns = `id, habit_id, date, completed, value, created_at`
)

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var category, icon sql.NullString
	var createdAt string

	if err := row.Scan(&h.ID, &h.Name, &category, &icon, &h.TargetFrequency, &h.Active, &createdAt); err != nil {
		return models.Habit{}, err
	}
	h.Category = strPtr(category)
	h.Icon = strPtr(icon)
	h.CreatedAt = parseTime(createdAt)
	return h, nil
}

func scanHabitLog(row scanner) (models.HabitLog, error) {
	var l models.HabitLog
	var value sql.NullFloat64
	var createdAt string

	if err := row.Scan(&l.ID, &l.HabitID, &l.Date, &l.Completed, &value, &createdAt); err != nil {
		return models.HabitLog{}, err
	}
	l.Value = floatPtr(value)
	l.CreatedAt = parseTime(createdAt)
	return l, nil
}

func (r *Repo) ListHabits(ctx context.Context, f models.HabitFilter) ([]models.Habit, error) {
	var where []string
	var args []interface{}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.Active != nil {
		where = append(where, "active = ?")
		args = append(args, *f.Active)
	}

	query := "SELECT " + habitColumns + " FROM habits"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, r.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (r *Repo) GetHabit(ctx context.Context, id int64) (models.Habit, error) {
	row := r.db.QueryRowContext(ctx, r.q("SELECT "+habitColumns+" FROM habits WHERE id = ?"), id)
	h, err := scanHabit(row)
	if err != nil {
		return models.Habit{}, notFound(fmt.Sprintf("habit %d", id), err)
	}
	return h, nil
}

func (r *Repo) CreateHabit(ctx context.Context, h models.Habit) (models.Habit, error) {
	id, err := r.insert(ctx, r.db, "habit", `
		INSERT INTO habits (name, category, icon, target_frequency, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		h.Name, strArg(h.Category), strArg(h.Icon), h.TargetFrequency, h.Active, r.stamp(),
	)
	if err != nil {
		return models.Habit{}, err
	}
	return r.GetHabit(ctx, id)
}

func (r *Repo) UpdateHabit(ctx context.Context, h models.Habit) (models.Habit, error) {
	err := r.exec(ctx, r.db, fmt.Sprintf("habit %d", h.ID), `
		UPDATE habits SET name = ?, category = ?, icon = ?, target_frequency = ?, active = ?
		WHERE id = ?`,
		h.Name, strArg(h.Category), strArg(h.Icon), h.TargetFrequency, h.Active, h.ID,
	)
	if err != nil {
		return models.Habit{}, err
	}
	return r.GetHabit(ctx, h.ID)
}

func (r *Repo) DeleteHabit(ctx context.Context, id int64) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, r.q("DELETE FROM habit_logs WHERE habit_id = ?"), id); err != nil {
			return fmt.Errorf("failed to delete habit logs: %w", err)
		}
		return r.exec(ctx, tx, fmt.Sprintf("habit %d", id), "DELETE FROM habits WHERE id = ?", id)
	})
}

func (r *Repo) LogHabit(ctx context.Context, l models.HabitLog) (models.HabitLog, error) {
	if _, err := r.GetHabit(ctx, l.HabitID); err != nil {
		return models.HabitLog{}, err
	}

	id, err := r.insert(ctx, r.db, "habit log", `
		INSERT INTO habit_logs (habit_id, date, completed, value, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (habit_id, date) DO UPDATE SET completed = excluded.completed, value = excluded.value`,
		l.HabitID, l.Date, l.Completed, floatArg(l.Value), r.stamp(),
	)
	if err != nil {
		return models.HabitLog{}, err
	}

	row := r.db.QueryRowContext(ctx, r.q("SELECT "+habitLogColumns+" FROM habit_logs WHERE id = ?"), id)
	saved, err := scanHabitLog(row)
	if err != nil {
		return models.HabitLog{}, notFound("habit log", err)
	}
	return saved, nil
}

func (r *Repo) queryHabitLogs(ctx context.Context, query string, args ...interface{}) ([]models.HabitLog, error) {
	rows, err := r.db.QueryContext(ctx, r.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list habit logs: %w", err)
	}
	defer rows.Close()

	logs := []models.HabitLog{}
	for rows.Next() {
		l, err := scanHabitLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan habit log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (r *Repo) HabitLogs(ctx context.Context, habitID int64, from string) ([]models.HabitLog, error) {
	if _, err := r.GetHabit(ctx, habitID); err != nil {
		return nil, err
	}
	return r.queryHabitLogs(ctx,
		"SELECT "+habitLogColumns+" FROM habit_logs WHERE habit_id = ? AND date >= ? ORDER BY date DESC",
		habitID, from,
	)
}

func (r *Repo) LogsSince(ctx context.Context, from string) ([]models.HabitLog, error) {
	return r.queryHabitLogs(ctx,
		"SELECT "+habitLogColumns+" FROM habit_logs WHERE date >= ? ORDER BY date ASC, habit_id ASC",
		from,
	)
}
