package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/julianstephens/theseus/internal/metrics"
	"github.com/julianstephens/theseus/internal/models"
	"github.com/julianstephens/theseus/internal/validation"
)

func (s *Server) fitnessRoutes(r chi.Router) {
	r.Get("/workouts", s.listWorkouts)
	r.Post("/workouts", s.createWorkout)
	r.Get("/workouts/{id}", s.getWorkout)
	r.Delete("/workouts/{id}", s.deleteWorkout)
	r.Get("/exercises/{name}/history", s.exerciseHistory)
	r.Get("/templates", s.listTemplates)
	r.Post("/templates", s.createTemplate)
	r.Delete("/templates/{id}", s.deleteTemplate)
	r.Get("/stats", s.fitnessStats)
}

type exerciseRequest struct {
	Name   string   `json:"name"`
	Sets   int      `json:"sets"`
	Reps   int      `json:"reps"`
	Weight *float64 `json:"weight"`
}

type workoutRequest struct {
	Date            string            `json:"date"`
	WorkoutType     string            `json:"workout_type"`
	Name            string            `json:"name"`
	DurationMinutes *int              `json:"duration_minutes"`
	Notes           *string           `json:"notes"`
	Exercises       []exerciseRequest `json:"exercises"`
}

type templateRequest struct {
	Name          string `json:"name"`
	WorkoutType   string `json:"workout_type"`
	ExercisesJSON string `json:"exercises_json"`
}

func (s *Server) listWorkouts(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 20, 1, 1000)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	workouts, err := s.store.ListWorkouts(r.Context(), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, workouts)
}

// createWorkout stores the workout and its exercises together.
func (s *Server) createWorkout(w http.ResponseWriter, r *http.Request) {
	var req workoutRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	wo := models.Workout{
		Date:            req.Date,
		WorkoutType:     req.WorkoutType,
		Name:            req.Name,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
		Exercises:       make([]models.Exercise, 0, len(req.Exercises)),
	}
	for _, ex := range req.Exercises {
		wo.Exercises = append(wo.Exercises, models.Exercise{
			Name:   ex.Name,
			Sets:   ex.Sets,
			Reps:   ex.Reps,
			Weight: ex.Weight,
		})
	}
	if err := validation.Workout(wo); err != nil {
		s.fail(w, r, err)
		return
	}
	created, err := s.store.CreateWorkout(r.Context(), wo)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) getWorkout(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	wo, err := s.store.GetWorkout(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wo)
}

func (s *Server) deleteWorkout(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.DeleteWorkout(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) exerciseHistory(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, r, badRequest("invalid exercise name"))
		return
	}
	name = strings.TrimSpace(name)
	if name == "" {
		s.fail(w, r, badRequest("exercise name is required"))
		return
	}
	history, err := s.store.ExerciseHistory(r.Context(), name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) listTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.store.ListTemplates(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, templates)
}

func (s *Server) createTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	t := models.WorkoutTemplate{Name: req.Name, WorkoutType: req.WorkoutType, ExercisesJSON: req.ExercisesJSON}
	if err := validation.WorkoutTemplate(t); err != nil {
		s.fail(w, r, err)
		return
	}
	created, err := s.store.CreateTemplate(r.Context(), t)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) deleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.DeleteTemplate(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) fitnessStats(w http.ResponseWriter, r *http.Request) {
	workouts, err := s.store.ListWorkouts(r.Context(), 0)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics.ComputeFitnessStats(workouts, s.today()))
}
