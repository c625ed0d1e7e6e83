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

func (s *Server) dailyRoutes(r chi.Router) {
	r.Get("/", s.listDaily)
	r.Post("/", s.createDaily)
	r.Get("/today", s.dailyToday)
	r.Get("/trends", s.dailyTrends)
	r.Get("/{date}", s.getDaily)
	r.Patch("/{date}", s.updateDaily)
}

type dailyRequest struct {
	Date       string  `json:"date"`
	Mood       *int    `json:"mood"`
	Energy     *int    `json:"energy"`
	Note       *string `json:"note"`
	Highlights *string `json:"highlights"`
}

func (s *Server) listDaily(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 30, 1, 1000)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	notes, err := s.store.ListDaily(r.Context(), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

func (s *Server) createDaily(w http.ResponseWriter, r *http.Request) {
	var req dailyRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	n := models.DailyNote{
		Date:       req.Date,
		Mood:       req.Mood,
		Energy:     req.Energy,
		Note:       req.Note,
		Highlights: req.Highlights,
	}
	if err := validation.DailyNote(n); err != nil {
		s.fail(w, r, err)
		return
	}
	created, err := s.store.CreateDaily(r.Context(), n)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// dailyToday returns today's note, or null when none was written yet.
func (s *Server) dailyToday(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.GetDaily(r.Context(), s.today().Format(constants.DateFormat))
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) getDaily(w http.ResponseWriter, r *http.Request) {
	date, err := dateParam(r, "date")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	n, err := s.store.GetDaily(r.Context(), date)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) updateDaily(w http.ResponseWriter, r *http.Request) {
	date, err := dateParam(r, "date")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var patch models.DailyPatch
	if err := decode(w, r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	n, err := s.store.GetDaily(r.Context(), date)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	patch.Apply(&n)
	if err := validation.DailyNote(n); err != nil {
		s.fail(w, r, err)
		return
	}
	updated, err := s.store.UpdateDaily(r.Context(), n)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// dailyTrends charts mood and energy for each of the last N days.
func (s *Server) dailyTrends(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", 30, 1, 366)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	notes, err := s.store.DailySince(r.Context(), s.daysAgo(days-1))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rows := metrics.MoodEnergyRows(notes, days, s.today())
	writeJSON(w, http.StatusOK, metrics.FormatTrend(rows, metrics.Daily))
}
