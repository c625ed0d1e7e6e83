package metrics

import (
	"sort"
	"time"

	"github.com/julianstephens/theseus/internal/models"
)

// Streak is the current and longest run of consecutive completed days.
type Streak struct {
	Current int `json:"current_streak"`
	Longest int `json:"longest_streak"`
}

// CalculateStreak counts consecutive completed calendar days in logs for a
// single daily habit. The current run is anchored at today when today is
// completed; when today has no log yet it is anchored at yesterday. An explicit
// completed=false log for today ends the current run. Several logs for the same
// date are collapsed by OR-ing their completed flags. Logs after today and logs
// with unparsable dates are ignored.
func CalculateStreak(logs []models.HabitLog, today time.Time) Streak {
	t := dayOf(today)

	status := make(map[day]bool, len(logs))
	for _, l := range logs {
		d, ok := parseDay(l.Date)
		if !ok || d > t {
			continue
		}
		status[d] = status[d] || l.Completed
	}

	var done []day
	for d, completed := range status {
		if completed {
			done = append(done, d)
		}
	}
	if len(done) == 0 {
		return Streak{}
	}
	sort.Slice(done, func(i, j int) bool { return done[i] < done[j] })

	var s Streak
	run := 0
	for i, d := range done {
		if i > 0 && d == done[i-1]+1 {
			run++
		} else {
			run = 1
		}
		if run > s.Longest {
			s.Longest = run
		}
	}

	anchor := t
	if completed, logged := status[t]; !completed {
		if logged {
			return s
		}
		anchor = t - 1
	}
	for d := anchor; status[d]; d-- {
		s.Current++
	}

	if s.Current > s.Longest {
		s.Longest = s.Current
	}
	return s
}
