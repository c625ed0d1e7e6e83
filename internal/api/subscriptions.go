package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/julianstephens/theseus/internal/constants"
	"github.com/julianstephens/theseus/internal/metrics"
	"github.com/julianstephens/theseus/internal/models"
	"github.com/julianstephens/theseus/internal/validation"
)

func (s *Server) subscriptionRoutes(r chi.Router) {
	r.Get("/", s.listSubscriptions)
	r.Post("/", s.createSubscription)
	r.Get("/stats", s.subscriptionStats)
	r.Put("/{id}", s.updateSubscription)
	r.Patch("/{id}", s.updateSubscription)
	r.Delete("/{id}", s.deleteSubscription)
}

type subscriptionRequest struct {
	Name         string  `json:"name"`
	Cost         float64 `json:"cost"`
	BillingCycle string  `json:"billing_cycle"`
	NextRenewal  string  `json:"next_renewal"`
	Category     *string `json:"category"`
	Active       *bool   `json:"active"`
	Notes        *string `json:"notes"`
}

func (s *Server) listSubscriptions(w http.ResponseWriter, r *http.Request) {
	active, err := queryBool(r, "active")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	subs, err := s.store.ListSubscriptions(r.Context(), active)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

func (s *Server) createSubscription(w http.ResponseWriter, r *http.Request) {
	var req subscriptionRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	sub := models.Subscription{
		Name:         req.Name,
		Cost:         req.Cost,
		BillingCycle: req.BillingCycle,
		NextRenewal:  req.NextRenewal,
		Category:     req.Category,
		Active:       req.Active == nil || *req.Active,
		Notes:        req.Notes,
	}
	if sub.BillingCycle == "" {
		sub.BillingCycle = constants.BillingMonthly
	}
	if err := validation.Subscription(sub); err != nil {
		s.fail(w, r, err)
		return
	}
	created, err := s.store.CreateSubscription(r.Context(), sub)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// updateSubscription applies a partial update for both PUT and PATCH.
func (s *Server) updateSubscription(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var patch models.SubscriptionPatch
	if err := decode(w, r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	sub, err := s.store.GetSubscription(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	patch.Apply(&sub)
	if err := validation.Subscription(sub); err != nil {
		s.fail(w, r, err)
		return
	}
	updated, err := s.store.UpdateSubscription(r.Context(), sub)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteSubscription(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.DeleteSubscription(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) subscriptionStats(w http.ResponseWriter, r *http.Request) {
	subs, err := s.store.ListSubscriptions(r.Context(), nil)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics.ComputeSubscriptionStats(subs, constants.RenewalWindowDays, s.today()))
}
