package models

import (
	"time"

	"github.com/julianstephens/theseus/internal/constants"
)

type Task struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	Description      *string    `json:"description"`
	Status           string     `json:"status"`
	Priority         string     `json:"priority"`
	DueDate          *string    `json:"due_date"` // YYYY-MM-DD format
	Category         *string    `json:"category"`
	Recurring        bool       `json:"recurring"`
	RecurringPattern *string    `json:"recurring_pattern"`
	CompletedAt      *time.Time `json:"completed_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TaskPatch carries the writable task fields. Nil fields are left unchanged;
// an empty string clears an optional field.
type TaskPatch struct {
	Title            *string `json:"title"`
	Description      *string `json:"description"`
	Status           *string `json:"status"`
	Priority         *string `json:"priority"`
	DueDate          *string `json:"due_date"`
	Category         *string `json:"category"`
	Recurring        *bool   `json:"recurring"`
	RecurringPattern *string `json:"recurring_pattern"`
}

// TaskFilter narrows a task listing. Empty fields match everything.
type TaskFilter struct {
	Status   string
	Priority string
	DueDate  string
}

// Apply merges the patch into t. completed_at follows status: it is stamped
// with now when the task becomes done and cleared when it leaves done.
func (p TaskPatch) Apply(t *Task, now time.Time) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = optional(*p.Description)
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = optional(*p.DueDate)
	}
	if p.Category != nil {
		t.Category = optional(*p.Category)
	}
	if p.Recurring != nil {
		t.Recurring = *p.Recurring
	}
	if p.RecurringPattern != nil {
		t.RecurringPattern = optional(*p.RecurringPattern)
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	t.SyncCompletion(now)
}

// SyncCompletion keeps CompletedAt set exactly when the task is done.
func (t *Task) SyncCompletion(now time.Time) {
	if t.Status == constants.TaskStatusDone {
		if t.CompletedAt == nil {
			ts := now.UTC()
			t.CompletedAt = &ts
		}
		return
	}
	t.CompletedAt = nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// String returns a pointer to s, for building optional fields.
func String(s string) *string {
	return &s
}
