package models

import (
	"math"
	"time"
)

type SleepEntry struct {
	ID            int64      `json:"id"`
	Date          string     `json:"date"`
	Bedtime       *time.Time `json:"bedtime"`
	WakeTime      *time.Time `json:"wake_time"`
	DurationHours *float64   `json:"duration_hours"`
	Quality       *int       `json:"quality"`
	Notes         *string    `json:"notes"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type SleepPatch struct {
	Bedtime       *time.Time `json:"bedtime"`
	WakeTime      *time.Time `json:"wake_time"`
	DurationHours *float64   `json:"duration_hours"`
	Quality       *int       `json:"quality"`
	Notes         *string    `json:"notes"`
}

// DeriveDuration fills DurationHours from the bedtime/wake pair when it is missing.
func (e *SleepEntry) DeriveDuration() {
	if e.DurationHours != nil {
		return
	}
	e.recomputeDuration()
}

func (e *SleepEntry) recomputeDuration() {
	if e.Bedtime == nil || e.WakeTime == nil {
		return
	}
	hours := math.Round(e.WakeTime.Sub(*e.Bedtime).Hours()*100) / 100
	e.DurationHours = &hours
}

// Apply merges the patch into e. Changing either clock time recomputes the
// duration unless the patch supplies one explicitly.
func (p SleepPatch) Apply(e *SleepEntry) {
	if p.Bedtime != nil {
		e.Bedtime = p.Bedtime
	}
	if p.WakeTime != nil {
		e.WakeTime = p.WakeTime
	}
	if p.Quality != nil {
		e.Quality = p.Quality
	}
	if p.Notes != nil {
		e.Notes = optional(*p.Notes)
	}
	if p.DurationHours != nil {
		e.DurationHours = p.DurationHours
		return
	}
	if p.Bedtime != nil || p.WakeTime != nil {
		e.recomputeDuration()
	}
}

// SleepTarget is the nightly goal in hours.
type SleepTarget struct {
	TargetHours float64 `json:"target_hours"`
}
