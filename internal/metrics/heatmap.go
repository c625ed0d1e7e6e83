package metrics

import (
	"time"

	"github.com/julianstephens/theseus/internal/constants"
	"github.com/julianstephens/theseus/internal/models"
)

// HeatmapLevels is the number of intensity buckets.
const HeatmapLevels = 4

// Cell is one slot in the heatmap grid. Padding cells precede the first real
// day so that it lands in its weekday row; they carry no date.
type Cell struct {
	Date    string `json:"date,omitempty"`
	Count   int    `json:"count"`
	Level   int    `json:"level"`
	Padding bool   `json:"padding,omitempty"`
}

// MonthLabel marks the week column where a new calendar month begins.
type MonthLabel struct {
	Week  int    `json:"week"`
	Label string `json:"label"`
}

// Heatmap is a week-major grid covering the trailing year. Each week holds up
// to seven cells indexed by weekday, 0 being Sunday.
type Heatmap struct {
	Start  string       `json:"start"`
	End    string       `json:"end"`
	Weeks  [][]Cell     `json:"weeks"`
	Months []MonthLabel `json:"months"`
	Total  int          `json:"total"`
}

// IntensityLevel buckets a daily count: 0 is level 0, 1 is level 1, 2-3 is
// level 2 and 4 or more is level 3.
func IntensityLevel(count int) int {
	switch {
	case count <= 0:
		return 0
	case count == 1:
		return 1
	case count <= 3:
		return 2
	default:
		return 3
	}
}

// BuildHeatmap lays the sparse samples onto a grid containing every day in
// [today-364, today] exactly once. Missing days count as zero, samples outside
// the window are dropped and samples sharing a date are summed.
func BuildHeatmap(entries []models.DayCount, today time.Time) Heatmap {
	end := dayOf(today)
	start := end - constants.HeatmapDays + 1

	counts := make(map[day]int)
	for _, e := range entries {
		d, ok := parseDay(e.Date)
		if !ok || d < start || d > end || e.Count <= 0 {
			continue
		}
		counts[d] += e.Count
	}

	h := Heatmap{Start: start.String(), End: end.String()}

	week := make([]Cell, 0, 7)
	for i := 0; i < start.weekday(); i++ {
		week = append(week, Cell{Padding: true})
	}

	lastMonth := time.Month(0)
	labelWeek := func(d day) {
		m := d.time().Month()
		if m != lastMonth {
			h.Months = append(h.Months, MonthLabel{Week: len(h.Weeks), Label: m.String()[:3]})
			lastMonth = m
		}
	}

	for d := start; d <= end; d++ {
		if len(week) == 0 || d == start {
			labelWeek(d)
		}
		c := counts[d]
		h.Total += c
		week = append(week, Cell{Date: d.String(), Count: c, Level: IntensityLevel(c)})
		if len(week) == 7 {
			h.Weeks = append(h.Weeks, week)
			week = make([]Cell, 0, 7)
		}
	}
	if len(week) > 0 {
		h.Weeks = append(h.Weeks, week)
	}
	return h
}

// Days returns the real (non-padding) cells in date order.
func (h Heatmap) Days() []Cell {
	var out []Cell
	for _, w := range h.Weeks {
		for _, c := range w {
			if !c.Padding {
				out = append(out, c)
			}
		}
	}
	return out
}
