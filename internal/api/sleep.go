package api

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/julianstephens/theseus/internal/constants"
	"github.com/julianstephens/theseus/internal/metrics"
	"github.com/julianstephens/theseus/internal/models"
	"github.com/julianstephens/theseus/internal/validation"
)

func (s *Server) sleepRoutes(r chi.Router) {
	r.Get("/", s.listSleep)
	r.Post("/", s.createSleep)
	r.Get("/stats/weekly", s.sleepWeekly)
	r.Get("/chart-data", s.sleepChart)
	r.Get("/score", s.sleepScore)
	r.Get("/target", s.getSleepTarget)
	r.Put("/target", s.putSleepTarget)
	r.Get("/{date}", s.getSleep)
	r.Patch("/{date}", s.updateSleep)
}

// daysAgo formats the date n days before today.
func (s *Server) daysAgo(n int) string {
	return s.today().AddDate(0, 0, -n).Format(constants.DateFormat)
}

type sleepRequest struct {
	Date          string     `json:"date"`
	Bedtime       *time.Time `json:"bedtime"`
	WakeTime      *time.Time `json:"wake_time"`
	DurationHours *float64   `json:"duration_hours"`
	Quality       *int       `json:"quality"`
	Notes         *string    `json:"notes"`
}

func (s *Server) listSleep(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 30, 1, 1000)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	entries, err := s.store.ListSleep(r.Context(), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// createSleep logs a night. The duration is derived from bedtime and wake
// time when not given.
func (s *Server) createSleep(w http.ResponseWriter, r *http.Request) {
	var req sleepRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	e := models.SleepEntry{
		Date:          req.Date,
		Bedtime:       req.Bedtime,
		WakeTime:      req.WakeTime,
		DurationHours: req.DurationHours,
		Quality:       req.Quality,
		Notes:         req.Notes,
	}
	e.DeriveDuration()
	if err := validation.SleepEntry(e); err != nil {
		s.fail(w, r, err)
		return
	}
	created, err := s.store.CreateSleep(r.Context(), e)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) getSleep(w http.ResponseWriter, r *http.Request) {
	date, err := dateParam(r, "date")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	e, err := s.store.GetSleep(r.Context(), date)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) updateSleep(w http.ResponseWriter, r *http.Request) {
	date, err := dateParam(r, "date")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var patch models.SleepPatch
	if err := decode(w, r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	e, err := s.store.GetSleep(r.Context(), date)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	patch.Apply(&e)
	if err := validation.SleepEntry(e); err != nil {
		s.fail(w, r, err)
		return
	}
	updated, err := s.store.UpdateSleep(r.Context(), e)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

type sleepWeeklyResponse struct {
	Entries     int                 `json:"entries"`
	AvgDuration *float64            `json:"avg_duration"`
	AvgQuality  *float64            `json:"avg_quality"`
	Data        []models.SleepEntry `json:"data"`
}

// sleepWeekly averages the nights logged in the past week.
func (s *Server) sleepWeekly(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.SleepSince(r.Context(), s.daysAgo(7))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	summary := metrics.SummarizeSleep(entries)
	writeJSON(w, http.StatusOK, sleepWeeklyResponse{
		Entries:     len(summary.Entries),
		AvgDuration: summary.AvgDuration,
		AvgQuality:  summary.AvgQuality,
		Data:        summary.Entries,
	})
}

func (s *Server) sleepChart(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", 30, 1, 366)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	entries, err := s.store.SleepSince(r.Context(), s.daysAgo(days-1))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rows := metrics.SleepChartRows(entries, days, s.today())
	writeJSON(w, http.StatusOK, metrics.FormatTrend(rows, metrics.Daily))
}

// sleepScore scores the trailing week against the configured target.
func (s *Server) sleepScore(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.LoadSettings(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	entries, err := s.store.SleepSince(r.Context(), s.daysAgo(constants.SleepScoreWindowDays-1))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics.ComposeSleepScore(entries, settings.SleepTargetHours))
}

func (s *Server) getSleepTarget(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.LoadSettings(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.SleepTarget{TargetHours: settings.SleepTargetHours})
}

func (s *Server) putSleepTarget(w http.ResponseWriter, r *http.Request) {
	var req models.SleepTarget
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if math.IsNaN(req.TargetHours) || req.TargetHours <= 0 || req.TargetHours > 24 {
		s.fail(w, r, validation.Errors{{Field: "target_hours", Message: "must be greater than 0 and at most 24"}})
		return
	}
	value := strconv.FormatFloat(req.TargetHours, 'f', -1, 64)
	if _, err := s.store.PutSetting(r.Context(), constants.SettingSleepTargetHours, &value); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}
