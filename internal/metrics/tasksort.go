package metrics

import (
	"sort"
	"time"

	"github.com/julianstephens/theseus/internal/constants"
	"github.com/julianstephens/theseus/internal/models"
)

// DueClass labels a task's due date relative to today for display.
type DueClass string

const (
	DueOverdue DueClass = "overdue"
	DueToday   DueClass = "due_today"
	DueFuture  DueClass = "future"
	DueNone    DueClass = "none"
)

// PriorityRank orders priorities: urgent first, unknown values last.
func PriorityRank(p string) int {
	switch p {
	case constants.PriorityUrgent:
		return 0
	case constants.PriorityHigh:
		return 1
	case constants.PriorityMedium:
		return 2
	case constants.PriorityLow:
		return 3
	default:
		return 4
	}
}

// SortTasks returns a new slice ordered by priority, then by due date
// ascending with undated tasks after dated ones. The sort is stable and the
// input is left untouched.
func SortTasks(tasks []models.Task) []models.Task {
	out := make([]models.Task, len(tasks))
	copy(out, tasks)

	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := PriorityRank(out[i].Priority), PriorityRank(out[j].Priority)
		if pi != pj {
			return pi < pj
		}
		di, iok := dueDay(out[i])
		dj, jok := dueDay(out[j])
		switch {
		case iok && jok:
			return di < dj
		case iok != jok:
			return iok
		default:
			return false
		}
	})
	return out
}

// ClassifyDue labels a task overdue (due before today and not done), due
// today, or future. Tasks without a usable due date, and finished tasks past
// their date, are DueNone.
func ClassifyDue(t models.Task, today time.Time) DueClass {
	d, ok := dueDay(t)
	if !ok {
		return DueNone
	}
	now := dayOf(today)
	switch {
	case d < now:
		if t.Status == constants.TaskStatusDone {
			return DueNone
		}
		return DueOverdue
	case d == now:
		return DueToday
	default:
		return DueFuture
	}
}

func dueDay(t models.Task) (day, bool) {
	if t.DueDate == nil {
		return 0, false
	}
	return parseDay(*t.DueDate)
}

// AgendaItem pairs a task with its due classification.
type AgendaItem struct {
	models.Task
	Due DueClass `json:"due"`
}

// Agenda sorts tasks and classifies each against today.
func Agenda(tasks []models.Task, today time.Time) []AgendaItem {
	sorted := SortTasks(tasks)
	out := make([]AgendaItem, len(sorted))
	for i, t := range sorted {
		out[i] = AgendaItem{Task: t, Due: ClassifyDue(t, today)}
	}
	return out
}

// Overdue returns the unfinished tasks due before today, earliest first.
func Overdue(tasks []models.Task, today time.Time) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if ClassifyDue(t, today) == DueOverdue {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, _ := dueDay(out[i])
		dj, _ := dueDay(out[j])
		return di < dj
	})
	return out
}
