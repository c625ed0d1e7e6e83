package api

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/julianstephens/theseus/internal/constants"
	"github.com/julianstephens/theseus/internal/metrics"
	"github.com/julianstephens/theseus/internal/models"
	"github.com/julianstephens/theseus/internal/validation"
)

func (s *Server) habitRoutes(r chi.Router) {
	r.Get("/", s.listHabits)
	r.Post("/", s.createHabit)
	r.Get("/heatmap", s.habitHeatmap)
	r.Get("/heatmap/grid", s.habitHeatmapGrid)
	r.Get("/stats", s.habitStats)
	r.Get("/{id}", s.getHabit)
	r.Patch("/{id}", s.updateHabit)
	r.Delete("/{id}", s.deleteHabit)
	r.Post("/{id}/log", s.logHabit)
	r.Get("/{id}/logs", s.habitLogs)
	r.Get("/{id}/streak", s.habitStreak)
}

type habitRequest struct {
	Name            string  `json:"name"`
	Category        *string `json:"category"`
	Icon            *string `json:"icon"`
	TargetFrequency string  `json:"target_frequency"`
	Active          *bool   `json:"active"`
}

type habitLogRequest struct {
	Date      string   `json:"date"`
	Completed *bool    `json:"completed"`
	Value     *float64 `json:"value"`
}

type streakResponse struct {
	HabitID int64 `json:"habit_id"`
	metrics.Streak
}

func (s *Server) listHabits(w http.ResponseWriter, r *http.Request) {
	active, err := queryBool(r, "active")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	habits, err := s.store.ListHabits(r.Context(), models.HabitFilter{
		Category: r.URL.Query().Get("category"),
		Active:   active,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, habits)
}

func (s *Server) createHabit(w http.ResponseWriter, r *http.Request) {
	var req habitRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	h := models.Habit{
		Name:            req.Name,
		Category:        req.Category,
		Icon:            req.Icon,
		TargetFrequency: req.TargetFrequency,
		Active:          req.Active == nil || *req.Active,
	}
	if h.TargetFrequency == "" {
		h.TargetFrequency = constants.FrequencyDaily
	}
	if err := validation.Habit(h); err != nil {
		s.fail(w, r, err)
		return
	}
	created, err := s.store.CreateHabit(r.Context(), h)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) getHabit(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	h, err := s.store.GetHabit(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) updateHabit(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var patch models.HabitPatch
	if err := decode(w, r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	h, err := s.store.GetHabit(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	patch.Apply(&h)
	if err := validation.Habit(h); err != nil {
		s.fail(w, r, err)
		return
	}
	updated, err := s.store.UpdateHabit(r.Context(), h)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteHabit(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.DeleteHabit(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// logHabit records a day, replacing any earlier log for the same date.
func (s *Server) logHabit(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req habitLogRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	l := models.HabitLog{
		HabitID:   id,
		Date:      req.Date,
		Completed: req.Completed == nil || *req.Completed,
		Value:     req.Value,
	}
	if l.Date == "" {
		l.Date = s.today().Format(constants.DateFormat)
	}
	if err := validation.HabitLog(l); err != nil {
		s.fail(w, r, err)
		return
	}
	logged, err := s.store.LogHabit(r.Context(), l)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, logged)
}

func (s *Server) habitLogs(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	days, err := queryInt(r, "days", 30, 1, 3660)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	logs, err := s.store.HabitLogs(r.Context(), id, s.daysAgo(days))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) habitStreak(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	logs, err := s.store.HabitLogs(r.Context(), id, "")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, streakResponse{
		HabitID: id,
		Streak:  metrics.CalculateStreak(logs, s.today()),
	})
}

// habitHeatmap returns sparse per-day completion counts, oldest first.
func (s *Server) habitHeatmap(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", constants.HeatmapDays, 1, 3660)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	logs, err := s.store.LogsSince(r.Context(), s.daysAgo(days))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sortedCounts(logs))
}

// habitHeatmapGrid returns the full week-by-weekday grid for the past year.
func (s *Server) habitHeatmapGrid(w http.ResponseWriter, r *http.Request) {
	logs, err := s.store.LogsSince(r.Context(), s.daysAgo(constants.HeatmapDays-1))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics.BuildHeatmap(metrics.HeatmapCounts(logs), s.today()))
}

func (s *Server) habitStats(w http.ResponseWriter, r *http.Request) {
	habits, err := s.store.ListHabits(r.Context(), models.HabitFilter{})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	logs, err := s.store.LogsSince(r.Context(), s.daysAgo(30))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics.ComputeHabitStats(habits, logs, s.today()))
}

func sortedCounts(logs []models.HabitLog) []models.DayCount {
	counts := metrics.HeatmapCounts(logs)
	sort.Slice(counts, func(i, j int) bool { return counts[i].Date < counts[j].Date })
	return counts
}
