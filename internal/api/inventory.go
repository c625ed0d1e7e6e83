package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/julianstephens/theseus/internal/constants"
	"github.com/julianstephens/theseus/internal/metrics"
	"github.com/julianstephens/theseus/internal/models"
	"github.com/julianstephens/theseus/internal/validation"
)

func (s *Server) inventoryRoutes(r chi.Router) {
	r.Get("/", s.listInventory)
	r.Post("/", s.createInventoryItem)
	r.Get("/stats", s.inventoryStats)
	r.Get("/categories", s.listInventoryCategories)
	r.Post("/categories", s.createInventoryCategory)
	r.Patch("/categories/{id}", s.updateInventoryCategory)
	r.Delete("/categories/{id}", s.deleteInventoryCategory)
	r.Patch("/{id}", s.updateInventoryItem)
	r.Delete("/{id}", s.deleteInventoryItem)
}

type inventoryRequest struct {
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Status       string   `json:"status"`
	Priority     *string  `json:"priority"`
	Price        *float64 `json:"price"`
	Currency     string   `json:"currency"`
	PurchaseDate *string  `json:"purchase_date"`
	Notes        *string  `json:"notes"`
	AIReason     *string  `json:"ai_reason"`
	Tags         *string  `json:"tags"`
}

type categoryRequest struct {
	Name  string  `json:"name"`
	Color *string `json:"color"`
}

// listInventory returns items ordered high, medium, low, then unprioritized,
// newest first within each rank.
func (s *Server) listInventory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := s.store.ListInventory(r.Context(), models.InventoryFilter{
		Status:   q.Get("status"),
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics.SortInventory(items))
}

func (s *Server) createInventoryItem(w http.ResponseWriter, r *http.Request) {
	var req inventoryRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	it := models.InventoryItem{
		Name:         req.Name,
		Category:     req.Category,
		Status:       req.Status,
		Priority:     req.Priority,
		Price:        req.Price,
		Currency:     req.Currency,
		PurchaseDate: req.PurchaseDate,
		Notes:        req.Notes,
		AIReason:     req.AIReason,
		Tags:         req.Tags,
	}
	if it.Status == "" {
		it.Status = constants.ItemOwned
	}
	if it.Currency == "" {
		it.Currency = constants.DefaultCurrency
	}
	if err := validation.InventoryItem(it); err != nil {
		s.fail(w, r, err)
		return
	}
	created, err := s.store.CreateInventoryItem(r.Context(), it)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateInventoryItem(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var patch models.InventoryPatch
	if err := decode(w, r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	it, err := s.store.GetInventoryItem(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	patch.Apply(&it)
	if err := validation.InventoryItem(it); err != nil {
		s.fail(w, r, err)
		return
	}
	updated, err := s.store.UpdateInventoryItem(r.Context(), it)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteInventoryItem(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.DeleteInventoryItem(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) inventoryStats(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListInventory(r.Context(), models.InventoryFilter{})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics.ComputeInventoryStats(items))
}

func (s *Server) listInventoryCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.store.ListInventoryCategories(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

func (s *Server) createInventoryCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	c := models.InventoryCategory{Name: req.Name, Color: req.Color}
	if err := validation.InventoryCategory(c); err != nil {
		s.fail(w, r, err)
		return
	}
	created, err := s.store.CreateInventoryCategory(r.Context(), c)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateInventoryCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var patch models.InventoryCategoryPatch
	if err := decode(w, r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.store.GetInventoryCategory(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	patch.Apply(&c)
	if err := validation.InventoryCategory(c); err != nil {
		s.fail(w, r, err)
		return
	}
	updated, err := s.store.UpdateInventoryCategory(r.Context(), c)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// deleteInventoryCategory answers 409 while items still use the category.
func (s *Server) deleteInventoryCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.DeleteInventoryCategory(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
