package metrics

import (
	"time"

	"github.com/julianstephens/theseus/internal/models"
)

type FitnessStats struct {
	TotalWorkouts int `json:"total_workouts"`
	ThisWeek      int `json:"this_week"`
	Streak        int `json:"streak"`
}

// ComputeFitnessStats counts workouts overall and since Monday of the current
// week, and the run of consecutive workout days ending today or yesterday.
func ComputeFitnessStats(workouts []models.Workout, today time.Time) FitnessStats {
	s := FitnessStats{TotalWorkouts: len(workouts)}

	now := dayOf(today)
	monday := now - day((now.weekday()+6)%7)

	trained := make(map[day]bool)
	for _, w := range workouts {
		d, ok := parseDay(w.Date)
		if !ok {
			continue
		}
		trained[d] = true
		if d >= monday && d <= now {
			s.ThisWeek++
		}
	}

	anchor := now
	if !trained[now] {
		anchor = now - 1
	}
	for d := anchor; trained[d]; d-- {
		s.Streak++
	}
	return s
}
