package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/julianstephens/theseus/internal/constants"
	"github.com/julianstephens/theseus/internal/metrics"
	"github.com/julianstephens/theseus/internal/models"
	"github.com/julianstephens/theseus/internal/validation"
)

func (s *Server) financeRoutes(r chi.Router) {
	r.Get("/transactions", s.listTransactions)
	r.Post("/transactions", s.createTransaction)
	r.Delete("/transactions/{id}", s.deleteTransaction)
	r.Get("/summary", s.financeSummary)
	r.Get("/trends", s.financeTrends)
	r.Get("/budgets", s.listBudgets)
	r.Post("/budgets", s.createBudget)
	r.Put("/budgets/{id}", s.updateBudget)
	r.Patch("/budgets/{id}", s.updateBudget)
	r.Delete("/budgets/{id}", s.deleteBudget)
}

type transactionRequest struct {
	Date            string  `json:"date"`
	Amount          float64 `json:"amount"`
	Category        string  `json:"category"`
	Description     *string `json:"description"`
	TransactionType string  `json:"transaction_type"`
}

type budgetRequest struct {
	Category     string  `json:"category"`
	MonthlyLimit float64 `json:"monthly_limit"`
}

type summaryResponse struct {
	Month string `json:"month"`
	metrics.BudgetRollup
}

// queryMonth reads ?month=YYYY-MM, defaulting to the current month.
func (s *Server) queryMonth(r *http.Request) (string, error) {
	month := r.URL.Query().Get("month")
	if month == "" {
		return s.today().Format(constants.MonthFormat), nil
	}
	if err := validation.Month(month); err != nil {
		return "", badRequest("Invalid month format. Use YYYY-MM")
	}
	return month, nil
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	f := models.TransactionFilter{Category: r.URL.Query().Get("category")}
	if month := r.URL.Query().Get("month"); month != "" {
		if err := validation.Month(month); err != nil {
			s.fail(w, r, badRequest("Invalid month format. Use YYYY-MM"))
			return
		}
		f.Month = month
	}
	txns, err := s.store.ListTransactions(r.Context(), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txns)
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	t := models.Transaction{
		Date:            req.Date,
		Amount:          req.Amount,
		Category:        req.Category,
		Description:     req.Description,
		TransactionType: req.TransactionType,
	}
	if t.TransactionType == "" {
		t.TransactionType = constants.TransactionExpense
	}
	if err := validation.Transaction(t); err != nil {
		s.fail(w, r, err)
		return
	}
	created, err := s.store.CreateTransaction(r.Context(), t)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.DeleteTransaction(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// financeSummary rolls up one month of transactions against the budgets.
func (s *Server) financeSummary(w http.ResponseWriter, r *http.Request) {
	month, err := s.queryMonth(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	txns, err := s.store.ListTransactions(r.Context(), models.TransactionFilter{Month: month})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	budgets, err := s.store.ListBudgets(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		Month:        month,
		BudgetRollup: metrics.AggregateBudget(txns, budgets),
	})
}

// financeTrends charts income and expenses for the trailing months.
func (s *Server) financeTrends(w http.ResponseWriter, r *http.Request) {
	months, err := queryInt(r, "months", 6, 1, 120)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	today := s.today()
	from := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)
	txns, err := s.store.TransactionsSince(r.Context(), from.Format(constants.DateFormat))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rows := metrics.MonthTrendRows(metrics.MonthlyTrends(txns, months, today))
	writeJSON(w, http.StatusOK, metrics.FormatTrend(rows, metrics.Monthly))
}

func (s *Server) listBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.store.ListBudgets(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, budgets)
}

func (s *Server) createBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	b := models.Budget{Category: req.Category, MonthlyLimit: req.MonthlyLimit}
	if err := validation.Budget(b); err != nil {
		s.fail(w, r, err)
		return
	}
	created, err := s.store.CreateBudget(r.Context(), b)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateBudget(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var patch models.BudgetPatch
	if err := decode(w, r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	b, err := s.store.GetBudget(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	patch.Apply(&b)
	if err := validation.Budget(b); err != nil {
		s.fail(w, r, err)
		return
	}
	updated, err := s.store.UpdateBudget(r.Context(), b)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteBudget(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.DeleteBudget(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
