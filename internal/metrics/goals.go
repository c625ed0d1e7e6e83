package metrics

import (
	"sort"

	"github.com/julianstephens/theseus/internal/constants"
	"github.com/julianstephens/theseus/internal/models"
)

type GoalStats struct {
	Total      int            `json:"total"`
	Completed  int            `json:"completed"`
	Active     int            `json:"active"`
	ByCategory map[string]int `json:"by_category"`
}

func ComputeGoalStats(goals []models.Goal) GoalStats {
	s := GoalStats{Total: len(goals), ByCategory: map[string]int{}}
	for _, g := range goals {
		switch g.Status {
		case constants.GoalStatusCompleted:
			s.Completed++
		case constants.GoalStatusActive:
			s.Active++
		}
		s.ByCategory[g.Category]++
	}
	return s
}

// MilestoneProgress is the share of completed milestones as a whole
// percentage, or nil when the goal has none.
func MilestoneProgress(ms []models.Milestone) *int {
	if len(ms) == 0 {
		return nil
	}
	done := 0
	for _, m := range ms {
		if m.Completed {
			done++
		}
	}
	pct := int(round(float64(done)/float64(len(ms))*100, 0))
	return &pct
}

// SortMilestones orders milestones by sort_order, then id.
func SortMilestones(ms []models.Milestone) {
	sort.SliceStable(ms, func(i, j int) bool {
		if ms[i].SortOrder != ms[j].SortOrder {
			return ms[i].SortOrder < ms[j].SortOrder
		}
		return ms[i].ID < ms[j].ID
	})
}
