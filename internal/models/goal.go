package models

import "time"

type Goal struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description *string     `json:"description"`
	Category    string      `json:"category"`
	TargetDate  *string     `json:"target_date"`
	ProgressPct int         `json:"progress_pct"`
	Status      string      `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Milestones  []Milestone `json:"milestones,omitempty"`
}

type GoalPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	TargetDate  *string `json:"target_date"`
	ProgressPct *int    `json:"progress_pct"`
	Status      *string `json:"status"`
}

func (p GoalPatch) Apply(g *Goal) {
	if p.Title != nil {
		g.Title = *p.Title
	}
	if p.Description != nil {
		g.Description = optional(*p.Description)
	}
	if p.Category != nil {
		g.Category = *p.Category
	}
	if p.TargetDate != nil {
		g.TargetDate = optional(*p.TargetDate)
	}
	if p.ProgressPct != nil {
		g.ProgressPct = *p.ProgressPct
	}
	if p.Status != nil {
		g.Status = *p.Status
	}
}

type GoalFilter struct {
	Status   string
	Category string
}

type Milestone struct {
	ID          int64      `json:"id"`
	GoalID      int64      `json:"goal_id"`
	Title       string     `json:"title"`
	Completed   bool       `json:"completed"`
	TargetDate  *string    `json:"target_date"`
	CompletedAt *time.Time `json:"completed_at"`
	SortOrder   int        `json:"sort_order"`
}

type MilestonePatch struct {
	Title      *string `json:"title"`
	Completed  *bool   `json:"completed"`
	TargetDate *string `json:"target_date"`
	SortOrder  *int    `json:"sort_order"`
}

// Apply merges the patch into m. completed_at follows the completed flag.
func (p MilestonePatch) Apply(m *Milestone, now time.Time) {
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.TargetDate != nil {
		m.TargetDate = optional(*p.TargetDate)
	}
	if p.SortOrder != nil {
		m.SortOrder = *p.SortOrder
	}
	if p.Completed != nil {
		m.Completed = *p.Completed
		if m.Completed && m.CompletedAt == nil {
			ts := now.UTC()
			m.CompletedAt = &ts
		} else if !m.Completed {
			m.CompletedAt = nil
		}
	}
}
