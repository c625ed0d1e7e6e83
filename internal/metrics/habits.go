package metrics

import (
	"time"

	"github.com/julianstephens/theseus/internal/models"
)

type HabitStats struct {
	TotalHabits       int      `json:"total_habits"`
	ActiveHabits      int      `json:"active_habits"`
	CompletionRate7d  *float64 `json:"completion_rate_7d"`
	CompletionRate30d *float64 `json:"completion_rate_30d"`
	ActiveStreaks     int      `json:"active_streaks"`
}

// ComputeHabitStats reports completion rates for active habits over the
// trailing 7 and 30 days (completed habit-days over possible habit-days, as a
// percentage with one decimal) and how many active habits have a live streak.
// Rates are nil when no habit is active.
func ComputeHabitStats(habits []models.Habit, logs []models.HabitLog, today time.Time) HabitStats {
	s := HabitStats{TotalHabits: len(habits)}

	active := make(map[int64]bool)
	for _, h := range habits {
		if h.Active {
			active[h.ID] = true
		}
	}
	s.ActiveHabits = len(active)
	if len(active) == 0 {
		return s
	}

	byHabit := make(map[int64][]models.HabitLog)
	for _, l := range logs {
		if active[l.HabitID] {
			byHabit[l.HabitID] = append(byHabit[l.HabitID], l)
		}
	}

	s.CompletionRate7d = completionRate(byHabit, len(active), 7, today)
	s.CompletionRate30d = completionRate(byHabit, len(active), 30, today)

	for id := range active {
		if CalculateStreak(byHabit[id], today).Current > 0 {
			s.ActiveStreaks++
		}
	}
	return s
}

// completionRate covers exactly days dates ending today, so it never exceeds 100.
func completionRate(byHabit map[int64][]models.HabitLog, activeCount, days int, today time.Time) *float64 {
	end := dayOf(today)
	start := end - day(days) + 1

	done := 0
	for _, logs := range byHabit {
		seen := make(map[day]bool)
		for _, l := range logs {
			d, ok := parseDay(l.Date)
			if !ok || !l.Completed || d < start || d > end || seen[d] {
				continue
			}
			seen[d] = true
			done++
		}
	}
	rate := round(float64(done)/float64(activeCount*days)*100, 1)
	return &rate
}

// HeatmapCounts totals completed habit-days per date across all habits,
// counting each (habit, date) once.
func HeatmapCounts(logs []models.HabitLog) []models.DayCount {
	type key struct {
		habit int64
		date  string
	}
	seen := make(map[key]bool)
	counts := make(map[string]int)
	var order []string
	for _, l := range logs {
		k := key{l.HabitID, l.Date}
		if !l.Completed || seen[k] {
			continue
		}
		seen[k] = true
		if _, ok := counts[l.Date]; !ok {
			order = append(order, l.Date)
		}
		counts[l.Date]++
	}

	out := make([]models.DayCount, 0, len(order))
	for _, d := range order {
		out = append(out, models.DayCount{Date: d, Count: counts[d]})
	}
	return out
}
