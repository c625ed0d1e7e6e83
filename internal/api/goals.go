package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/julianstephens/theseus/internal/constants"
	"github.com/julianstephens/theseus/internal/metrics"
	"github.com/julianstephens/theseus/internal/models"
	"github.com/julianstephens/theseus/internal/validation"
)

func (s *Server) goalRoutes(r chi.Router) {
	r.Get("/", s.listGoals)
	r.Post("/", s.createGoal)
	r.Get("/stats", s.goalStats)
	r.Get("/{id}", s.getGoal)
	r.Put("/{id}", s.updateGoal)
	r.Patch("/{id}", s.updateGoal)
	r.Delete("/{id}", s.deleteGoal)
	r.Post("/{id}/milestones", s.createMilestone)
	r.Put("/{id}/milestones/{mid}", s.updateMilestone)
	r.Patch("/{id}/milestones/{mid}", s.updateMilestone)
	r.Delete("/{id}/milestones/{mid}", s.deleteMilestone)
}

type goalRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Category    string  `json:"category"`
	TargetDate  *string `json:"target_date"`
	ProgressPct int     `json:"progress_pct"`
	Status      string  `json:"status"`
}

type milestoneRequest struct {
	Title      string  `json:"title"`
	TargetDate *string `json:"target_date"`
	SortOrder  int     `json:"sort_order"`
}

// goalDetail is a goal with its milestones and their completion share.
type goalDetail struct {
	models.Goal
	Milestones        []models.Milestone `json:"milestones"`
	MilestoneProgress *int               `json:"milestone_progress"`
}

func (s *Server) listGoals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	goals, err := s.store.ListGoals(r.Context(), models.GoalFilter{
		Status:   q.Get("status"),
		Category: q.Get("category"),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

func (s *Server) goalStats(w http.ResponseWriter, r *http.Request) {
	goals, err := s.store.ListGoals(r.Context(), models.GoalFilter{})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics.ComputeGoalStats(goals))
}

func (s *Server) createGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	g := models.Goal{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		TargetDate:  req.TargetDate,
		ProgressPct: req.ProgressPct,
		Status:      req.Status,
	}
	if g.Status == "" {
		g.Status = constants.GoalStatusActive
	}
	if err := validation.Goal(g); err != nil {
		s.fail(w, r, err)
		return
	}
	created, err := s.store.CreateGoal(r.Context(), g)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) getGoal(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	g, err := s.store.GetGoal(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	milestones := g.Milestones
	if milestones == nil {
		milestones = []models.Milestone{}
	}
	writeJSON(w, http.StatusOK, goalDetail{
		Goal:              g,
		Milestones:        milestones,
		MilestoneProgress: metrics.MilestoneProgress(milestones),
	})
}

func (s *Server) updateGoal(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var patch models.GoalPatch
	if err := decode(w, r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	g, err := s.store.GetGoal(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	patch.Apply(&g)
	if err := validation.Goal(g); err != nil {
		s.fail(w, r, err)
		return
	}
	updated, err := s.store.UpdateGoal(r.Context(), g)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.DeleteGoal(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createMilestone(w http.ResponseWriter, r *http.Request) {
	goalID, err := idParam(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req milestoneRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	m := models.Milestone{
		GoalID:     goalID,
		Title:      req.Title,
		TargetDate: req.TargetDate,
		SortOrder:  req.SortOrder,
	}
	if err := validation.Milestone(m); err != nil {
		s.fail(w, r, err)
		return
	}
	created, err := s.store.CreateMilestone(r.Context(), m)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// updateMilestone applies a partial update; completed_at follows the
// completed flag.
func (s *Server) updateMilestone(w http.ResponseWriter, r *http.Request) {
	goalID, err := idParam(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	id, err := idParam(r, "mid")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var patch models.MilestonePatch
	if err := decode(w, r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	m, err := s.store.GetMilestone(r.Context(), goalID, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	patch.Apply(&m, s.now())
	if err := validation.Milestone(m); err != nil {
		s.fail(w, r, err)
		return
	}
	updated, err := s.store.UpdateMilestone(r.Context(), m)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteMilestone(w http.ResponseWriter, r *http.Request) {
	goalID, err := idParam(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	id, err := idParam(r, "mid")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.DeleteMilestone(r.Context(), goalID, id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
