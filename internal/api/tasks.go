package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/julianstephens/theseus/internal/constants"
	"github.com/julianstephens/theseus/internal/metrics"
	"github.com/julianstephens/theseus/internal/models"
	"github.com/julianstephens/theseus/internal/validation"
)

func (s *Server) taskRoutes(r chi.Router) {
	r.Get("/", s.listTasks)
	r.Post("/", s.createTask)
	r.Get("/overdue", s.overdueTasks)
	r.Get("/agenda", s.taskAgenda)
	r.Get("/{id}", s.getTask)
	r.Patch("/{id}", s.updateTask)
	r.Delete("/{id}", s.deleteTask)
}

type taskRequest struct {
	Title            string  `json:"title"`
	Description      *string `json:"description"`
	Status           string  `json:"status"`
	Priority         string  `json:"priority"`
	DueDate          *string `json:"due_date"`
	Category         *string `json:"category"`
	Recurring        bool    `json:"recurring"`
	RecurringPattern *string `json:"recurring_pattern"`
}

func (req taskRequest) task() models.Task {
	t := models.Task{
		Title:            req.Title,
		Description:      req.Description,
		Status:           req.Status,
		Priority:         req.Priority,
		DueDate:          req.DueDate,
		Category:         req.Category,
		Recurring:        req.Recurring,
		RecurringPattern: req.RecurringPattern,
	}
	if t.Status == "" {
		t.Status = constants.TaskStatusTodo
	}
	if t.Priority == "" {
		t.Priority = constants.PriorityMedium
	}
	return t
}

// listTasks returns tasks newest first, or by priority with sort=priority.
func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dueDate, err := queryDate(r, "due_date")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	tasks, err := s.store.ListTasks(r.Context(), models.TaskFilter{
		Status:   q.Get("status"),
		Priority: q.Get("priority"),
		DueDate:  dueDate,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	switch q.Get("sort") {
	case "", "created":
	case "priority":
		tasks = metrics.SortTasks(tasks)
	default:
		s.fail(w, r, badRequest("sort must be created or priority"))
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) overdueTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.ListTasks(r.Context(), models.TaskFilter{})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	overdue := metrics.Overdue(tasks, s.today())
	if overdue == nil {
		overdue = []models.Task{}
	}
	writeJSON(w, http.StatusOK, overdue)
}

// taskAgenda lists unfinished tasks in priority order with a due label.
func (s *Server) taskAgenda(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.ListTasks(r.Context(), models.TaskFilter{})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	open := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status != constants.TaskStatusDone {
			open = append(open, t)
		}
	}
	writeJSON(w, http.StatusOK, metrics.Agenda(open, s.today()))
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	t := req.task()
	t.SyncCompletion(s.now())
	if err := validation.Task(t); err != nil {
		s.fail(w, r, err)
		return
	}
	created, err := s.store.CreateTask(r.Context(), t)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	t, err := s.store.GetTask(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// updateTask applies a partial update; completed_at follows the status.
func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var patch models.TaskPatch
	if err := decode(w, r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	t, err := s.store.GetTask(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	patch.Apply(&t, s.now())
	if err := validation.Task(t); err != nil {
		s.fail(w, r, err)
		return
	}
	updated, err := s.store.UpdateTask(r.Context(), t)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.DeleteTask(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
