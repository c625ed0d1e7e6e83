package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/julianstephens/theseus/internal/constants"
	"github.com/julianstephens/theseus/internal/metrics"
	"github.com/julianstephens/theseus/internal/models"
	"github.com/julianstephens/theseus/internal/storage"
	"github.com/julianstephens/theseus/internal/validation"
)

func (s *Server) nutritionRoutes(r chi.Router) {
	r.Get("/", s.listMeals)
	r.Post("/", s.createMeal)
	r.Get("/daily-totals", s.dailyTotals)
	r.Get("/trends", s.nutritionTrends)
	r.Get("/water", s.getWater)
	r.Post("/water", s.upsertWater)
	r.Put("/water/{date}", s.updateWater)
}

type mealRequest struct {
	Date        string   `json:"date"`
	MealType    string   `json:"meal_type"`
	Description string   `json:"description"`
	Calories    *int     `json:"calories"`
	ProteinG    *float64 `json:"protein_g"`
	CarbsG      *float64 `json:"carbs_g"`
	FatG        *float64 `json:"fat_g"`
}

type waterRequest struct {
	Date    string `json:"date"`
	Glasses int    `json:"glasses"`
	Target  *int   `json:"target"`
}

// queryDay reads ?date, defaulting to today.
func (s *Server) queryDay(r *http.Request) (string, error) {
	date, err := queryDate(r, "date")
	if err != nil || date != "" {
		return date, err
	}
	return s.today().Format(constants.DateFormat), nil
}

func (s *Server) listMeals(w http.ResponseWriter, r *http.Request) {
	date, err := queryDate(r, "date")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	meals, err := s.store.ListMeals(r.Context(), date)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, meals)
}

func (s *Server) createMeal(w http.ResponseWriter, r *http.Request) {
	var req mealRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	m := models.Meal{
		Date:        req.Date,
		MealType:    req.MealType,
		Description: req.Description,
		Calories:    req.Calories,
		ProteinG:    req.ProteinG,
		CarbsG:      req.CarbsG,
		FatG:        req.FatG,
	}
	if err := validation.Meal(m); err != nil {
		s.fail(w, r, err)
		return
	}
	created, err := s.store.CreateMeal(r.Context(), m)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) dailyTotals(w http.ResponseWriter, r *http.Request) {
	date, err := s.queryDay(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	meals, err := s.store.ListMeals(r.Context(), date)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics.SumMeals(meals))
}

// nutritionTrends averages intake per logged day over the last N days.
func (s *Server) nutritionTrends(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", 7, 1, 366)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	meals, err := s.store.MealsSince(r.Context(), s.daysAgo(days))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics.NutritionByDay(meals))
}

// getWater returns the day's intake, or an empty record against the default
// target when nothing was logged.
func (s *Server) getWater(w http.ResponseWriter, r *http.Request) {
	date, err := s.queryDay(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	water, err := s.store.GetWater(r.Context(), date)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusOK, models.WaterIntake{
			Date:      date,
			Target:    constants.DefaultWaterTarget,
			CreatedAt: s.now(),
		})
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, water)
}

func (s *Server) upsertWater(w http.ResponseWriter, r *http.Request) {
	var req waterRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	water := models.WaterIntake{Date: req.Date, Glasses: req.Glasses, Target: constants.DefaultWaterTarget}
	if req.Target != nil {
		water.Target = *req.Target
	}
	if water.Date == "" {
		water.Date = s.today().Format(constants.DateFormat)
	}
	if err := validation.Water(water); err != nil {
		s.fail(w, r, err)
		return
	}
	saved, err := s.store.UpsertWater(r.Context(), water)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// updateWater changes an existing day's row and answers 404 when there is none.
func (s *Server) updateWater(w http.ResponseWriter, r *http.Request) {
	date, err := dateParam(r, "date")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var patch models.WaterPatch
	if err := decode(w, r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	water, err := s.store.GetWater(r.Context(), date)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	patch.Apply(&water)
	if err := validation.Water(water); err != nil {
		s.fail(w, r, err)
		return
	}
	updated, err := s.store.UpdateWater(r.Context(), water)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
