package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/julianstephens/theseus/internal/models"
)

const taskColumns = `id, title, description, status, priority, due_date, category,
	recurring, recurring_pattern, completed_at, created_at, updated_at`

func scanTask(row scanner) (models.Task, error) {
	var t models.Task
	var description, dueDate, category, pattern, completedAt sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(
		&t.ID, &t.Title, &description, &t.Status, &t.Priority, &dueDate, &category,
		&t.Recurring, &pattern, &completedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return models.Task{}, err
	}

	t.Description = strPtr(description)
	t.DueDate = strPtr(dueDate)
	t.Category = strPtr(category)
	t.RecurringPattern = strPtr(pattern)
	t.CompletedAt = timePtr(completedAt)
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)
	return t, nil
}

func (r *Repo) ListTasks(ctx context.Context, f models.TaskFilter) ([]models.Task, error) {
	var where []string
	var args []interface{}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if f.Priority != "" {
		where = append(where, "priority = ?")
		args = append(args, f.Priority)
	}
	if f.DueDate != "" {
		where = append(where, "due_date = ?")
		args = append(args, f.DueDate)
	}

	query := "SELECT " + taskColumns + " FROM tasks"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, r.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *Repo) GetTask(ctx context.Context, id int64) (models.Task, error) {
	row := r.db.QueryRowContext(ctx, r.q("SELECT "+taskColumns+" FROM tasks WHERE id = ?"), id)
	t, err := scanTask(row)
	if err != nil {
		return models.Task{}, notFound(fmt.Sprintf("task %d", id), err)
	}
	return t, nil
}

func (r *Repo) CreateTask(ctx context.Context, t models.Task) (models.Task, error) {
	now := r.now()
	t.SyncCompletion(now)
	stamp := formatTime(now)

	id, err := r.insert(ctx, r.db, "task", `
		INSERT INTO tasks (title, description, status, priority, due_date, category,
			recurring, recurring_pattern, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Title, strArg(t.Description), t.Status, t.Priority, strArg(t.DueDate), strArg(t.Category),
		t.Recurring, strArg(t.RecurringPattern), timeArg(t.CompletedAt), stamp, stamp,
	)
	if err != nil {
		return models.Task{}, err
	}
	return r.GetTask(ctx, id)
}

func (r *Repo) UpdateTask(ctx context.Context, t models.Task) (models.Task, error) {
	now := r.now()
	t.SyncCompletion(now)

	err := r.exec(ctx, r.db, fmt.Sprintf("task %d", t.ID), `
		UPDATE tasks SET title = ?, description = ?, status = ?, priority = ?, due_date = ?,
			category = ?, recurring = ?, recurring_pattern = ?, completed_at = ?, updated_at = ?
		WHERE id = ?`,
		t.Title, strArg(t.Description), t.Status, t.Priority, strArg(t.DueDate),
		strArg(t.Category), t.Recurring, strArg(t.RecurringPattern), timeArg(t.CompletedAt), formatTime(now),
		t.ID,
	)
	if err != nil {
		return models.Task{}, err
	}
	return r.GetTask(ctx, t.ID)
}

func (r *Repo) DeleteTask(ctx context.Context, id int64) error {
	return r.exec(ctx, r.db, fmt.Sprintf("task %d", id), "DELETE FROM tasks WHERE id = ?", id)
}
