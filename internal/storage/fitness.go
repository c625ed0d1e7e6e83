package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/julianstephens/theseus/internal/models"
)

const (
	workoutColumns  = `id, date, workout_type, name, duration_minutes, notes, created_at`
	exerciseColumns = `id, workout_id, name, sets, reps, weight, created_at`
	templateColumns = `id, name, workout_type, exercises_json, created_at`
)

func scanWorkout(row scanner) (models.Workout, error) {
	var w models.Workout
	var duration sql.NullInt64
	var notes sql.NullString
	var createdAt string

	if err := row.Scan(&w.ID, &w.Date, &w.WorkoutType, &w.Name, &duration, &notes, &createdAt); err != nil {
		return models.Workout{}, err
	}
	w.DurationMinutes = intPtr(duration)
	w.Notes = strPtr(notes)
	w.CreatedAt = parseTime(createdAt)
	w.Exercises = []models.Exercise{}
	return w, nil
}

func scanExercise(row scanner) (models.Exercise, error) {
	var e models.Exercise
	var weight sql.NullFloat64
	var createdAt string

	if err := row.Scan(&e.ID, &e.WorkoutID, &e.Name, &e.Sets, &e.Reps, &weight, &createdAt); err != nil {
		return models.Exercise{}, err
	}
	e.Weight = floatPtr(weight)
	e.CreatedAt = parseTime(createdAt)
	return e, nil
}

func scanTemplate(row scanner) (models.WorkoutTemplate, error) {
	var t models.WorkoutTemplate
	var createdAt string
	if err := row.Scan(&t.ID, &t.Name, &t.WorkoutType, &t.ExercisesJSON, &createdAt); err != nil {
		return models.WorkoutTemplate{}, err
	}
	t.CreatedAt = parseTime(createdAt)
	return t, nil
}

func (r *Repo) ListWorkouts(ctx context.Context, limit int) ([]models.Workout, error) {
	query, args := limitClause("SELECT "+workoutColumns+" FROM workouts ORDER BY date DESC, created_at DESC, id DESC", limit, nil)
	rows, err := r.db.QueryContext(ctx, r.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	defer rows.Close()

	workouts := []models.Workout{}
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workout: %w", err)
		}
		workouts = append(workouts, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachExercises(ctx, workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

// attachExercises loads exercises for every workout in a single query
func (r *Repo) attachExercises(ctx context.Context, workouts []models.Workout) error {
	if len(workouts) == 0 {
		return nil
	}

	index := make(map[int64]int, len(workouts))
	placeholders := make([]string, len(workouts))
	args := make([]interface{}, len(workouts))
	for i, w := range workouts {
		index[w.ID] = i
		placeholders[i] = "?"
		args[i] = w.ID
	}

	query := "SELECT " + exerciseColumns + " FROM exercises WHERE workout_id IN (" +
		strings.Join(placeholders, ", ") + ") ORDER BY id ASC"
	rows, err := r.db.QueryContext(ctx, r.q(query), args...)
	if err != nil {
		return fmt.Errorf("failed to list exercises: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return fmt.Errorf("failed to scan exercise: %w", err)
		}
		if i, ok := index[e.WorkoutID]; ok {
			workouts[i].Exercises = append(workouts[i].Exercises, e)
		}
	}
	return rows.Err()
}

func (r *Repo) GetWorkout(ctx context.Context, id int64) (models.Workout, error) {
	row := r.db.QueryRowContext(ctx, r.q("SELECT "+workoutColumns+" FROM workouts WHERE id = ?"), id)
	w, err := scanWorkout(row)
	if err != nil {
		return models.Workout{}, notFound(fmt.Sprintf("workout %d", id), err)
	}
	one := []models.Workout{w}
	if err := r.attachExercises(ctx, one); err != nil {
		return models.Workout{}, err
	}
	return one[0], nil
}

// CreateWorkout stores the workout and its exercises atomically
func (r *Repo) CreateWorkout(ctx context.Context, w models.Workout) (models.Workout, error) {
	stamp := r.stamp()
	var id int64
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = r.insert(ctx, tx, "workout", `
			INSERT INTO workouts (date, workout_type, name, duration_minutes, notes, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			w.Date, w.WorkoutType, w.Name, intArg(w.DurationMinutes), strArg(w.Notes), stamp,
		)
		if err != nil {
			return err
		}
		for _, e := range w.Exercises {
			_, err := r.insert(ctx, tx, "exercise", `
				INSERT INTO exercises (workout_id, name, sets, reps, weight, created_at)
				VALUES (?, ?, ?, ?, ?, ?)`,
				id, e.Name, e.Sets, e.Reps, floatArg(e.Weight), stamp,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Workout{}, err
	}
	return r.GetWorkout(ctx, id)
}

func (r *Repo) DeleteWorkout(ctx context.Context, id int64) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, r.q("DELETE FROM exercises WHERE workout_id = ?"), id); err != nil {
			return fmt.Errorf("failed to delete exercises: %w", err)
		}
		return r.exec(ctx, tx, fmt.Sprintf("workout %d", id), "DELETE FROM workouts WHERE id = ?", id)
	})
}

// ExerciseHistory returns every logged set of the named exercise, oldest first
func (r *Repo) ExerciseHistory(ctx context.Context, name string) ([]models.ExerciseHistory, error) {
	rows, err := r.db.QueryContext(ctx, r.q(`
		SELECT w.date, e.sets, e.reps, e.weight
		FROM exercises e JOIN workouts w ON e.workout_id = w.id
		WHERE e.name = ?
		ORDER BY w.date ASC, e.id ASC`), name)
	if err != nil {
		return nil, fmt.Errorf("failed to read exercise history: %w", err)
	}
	defer rows.Close()

	history := []models.ExerciseHistory{}
	for rows.Next() {
		var h models.ExerciseHistory
		var weight sql.NullFloat64
		if err := rows.Scan(&h.Date, &h.Sets, &h.Reps, &weight); err != nil {
			return nil, fmt.Errorf("failed to scan exercise history: %w", err)
		}
		h.Weight = floatPtr(weight)
		history = append(history, h)
	}
	return history, rows.Err()
}

func (r *Repo) ListTemplates(ctx context.Context) ([]models.WorkoutTemplate, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+templateColumns+" FROM workout_templates ORDER BY name ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list workout templates: %w", err)
	}
	defer rows.Close()

	templates := []models.WorkoutTemplate{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workout template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (r *Repo) CreateTemplate(ctx context.Context, t models.WorkoutTemplate) (models.WorkoutTemplate, error) {
	id, err := r.insert(ctx, r.db, "workout template", `
		INSERT INTO workout_templates (name, workout_type, exercises_json, created_at) VALUES (?, ?, ?, ?)`,
		t.Name, t.WorkoutType, t.ExercisesJSON, r.stamp(),
	)
	if err != nil {
		return models.WorkoutTemplate{}, err
	}

	row := r.db.QueryRowContext(ctx, r.q("SELECT "+templateColumns+" FROM workout_templates WHERE id = ?"), id)
	saved, err := scanTemplate(row)
	if err != nil {
		return models.WorkoutTemplate{}, notFound(fmt.Sprintf("workout template %d", id), err)
	}
	return saved, nil
}

func (r *Repo) DeleteTemplate(ctx context.Context, id int64) error {
	return r.exec(ctx, r.db, fmt.Sprintf("workout template %d", id), "DELETE FROM workout_templates WHERE id = ?", id)
}
