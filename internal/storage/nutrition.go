package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/julianstephens/theseus/internal/models"
)

const (
	mealColumns  = `id, date, meal_type, description, calories, protein_g, carbs_g, fat_g, created_at`
	waterColumns = `id, date, glasses, target, created_at`
)

func scanMeal(row scanner) (models.Meal, error) {
	var m models.Meal
	var calories sql.NullInt64
	var protein, carbs, fat sql.NullFloat64
	var createdAt string

	err := row.Scan(&m.ID, &m.Date, &m.MealType, &m.Description, &calories, &protein, &carbs, &fat, &createdAt)
	if err != nil {
		return models.Meal{}, err
	}
	m.Calories = intPtr(calories)
	m.ProteinG = floatPtr(protein)
	m.CarbsG = floatPtr(carbs)
	m.FatG = floatPtr(fat)
	m.CreatedAt = parseTime(createdAt)
	return m, nil
}

func scanWater(row scanner) (models.WaterIntake, error) {
	var w models.WaterIntake
	var createdAt string
	if err := row.Scan(&w.ID, &w.Date, &w.Glasses, &w.Target, &createdAt); err != nil {
		return models.WaterIntake{}, err
	}
	w.CreatedAt = parseTime(createdAt)
	return w, nil
}

func (r *Repo) queryMeals(ctx context.Context, query string, args ...interface{}) ([]models.Meal, error) {
	rows, err := r.db.QueryContext(ctx, r.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	defer rows.Close()

	meals := []models.Meal{}
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		meals = append(meals, m)
	}
	return meals, rows.Err()
}

func (r *Repo) ListMeals(ctx context.Context, date string) ([]models.Meal, error) {
	if date == "" {
		return r.queryMeals(ctx, "SELECT "+mealColumns+" FROM meals ORDER BY date DESC, created_at DESC, id DESC")
	}
	return r.queryMeals(ctx, "SELECT "+mealColumns+" FROM meals WHERE date = ? ORDER BY created_at DESC, id DESC", date)
}

func (r *Repo) MealsSince(ctx context.Context, from string) ([]models.Meal, error) {
	return r.queryMeals(ctx, "SELECT "+mealColumns+" FROM meals WHERE date >= ? ORDER BY date ASC, id ASC", from)
}

func (r *Repo) CreateMeal(ctx context.Context, m models.Meal) (models.Meal, error) {
	id, err := r.insert(ctx, r.db, "meal", `
		INSERT INTO meals (date, meal_type, description, calories, protein_g, carbs_g, fat_g, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Date, m.MealType, m.Description, intArg(m.Calories), floatArg(m.ProteinG), floatArg(m.CarbsG),
		floatArg(m.FatG), r.stamp(),
	)
	if err != nil {
		return models.Meal{}, err
	}

	row := r.db.QueryRowContext(ctx, r.q("SELECT "+mealColumns+" FROM meals WHERE id = ?"), id)
	saved, err := scanMeal(row)
	if err != nil {
		return models.Meal{}, notFound(fmt.Sprintf("meal %d", id), err)
	}
	return saved, nil
}

func (r *Repo) GetWater(ctx context.Context, date string) (models.WaterIntake, error) {
	row := r.db.QueryRowContext(ctx, r.q("SELECT "+waterColumns+" FROM water_intake WHERE date = ?"), date)
	w, err := scanWater(row)
	if err != nil {
		return models.WaterIntake{}, notFound("water intake for "+date, err)
	}
	return w, nil
}

func (r *Repo) UpsertWater(ctx context.Context, w models.WaterIntake) (models.WaterIntake, error) {
	_, err := r.insert(ctx, r.db, "water intake", `
		INSERT INTO water_intake (date, glasses, target, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (date) DO UPDATE SET glasses = excluded.glasses, target = excluded.target`,
		w.Date, w.Glasses, w.Target, r.stamp(),
	)
	if err != nil {
		return models.WaterIntake{}, err
	}
	return r.GetWater(ctx, w.Date)
}

func (r *Repo) UpdateWater(ctx context.Context, w models.WaterIntake) (models.WaterIntake, error) {
	err := r.exec(ctx, r.db, "water intake for "+w.Date,
		"UPDATE water_intake SET glasses = ?, target = ? WHERE date = ?",
		w.Glasses, w.Target, w.Date,
	)
	if err != nil {
		return models.WaterIntake{}, err
	}
	return r.GetWater(ctx, w.Date)
}
