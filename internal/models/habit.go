package models

import "time"

type Habit struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Category        *string   `json:"category"`
	Icon            *string   `json:"icon"`
	TargetFrequency string    `json:"target_frequency"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
}

type HabitPatch struct {
	Name            *string `json:"name"`
	Category        *string `json:"category"`
	Icon            *string `json:"icon"`
	TargetFrequency *string `json:"target_frequency"`
	Active          *bool   `json:"active"`
}

func (p HabitPatch) Apply(h *Habit) {
	if p.Name != nil {
		h.Name = *p.Name
	}
	if p.Category != nil {
		h.Category = optional(*p.Category)
	}
	if p.Icon != nil {
		h.Icon = optional(*p.Icon)
	}
	if p.TargetFrequency != nil {
		h.TargetFrequency = *p.TargetFrequency
	}
	if p.Active != nil {
		h.Active = *p.Active
	}
}

// HabitFilter narrows a habit listing.
type HabitFilter struct {
	Category string
	Active   *bool
}

// HabitLog records whether a habit was done on a day. At most one row exists
// per (habit_id, date); logging again replaces it.
type HabitLog struct {
	ID        int64     `json:"id"`
	HabitID   int64     `json:"habit_id"`
	Date      string    `json:"date"`
	Completed bool      `json:"completed"`
	Value     *float64  `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

// DayCount is a sparse activity sample.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}
