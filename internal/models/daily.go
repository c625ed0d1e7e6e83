package models

import "time"

// DailyNote is one journal entry per calendar day.
type DailyNote struct {
	ID         int64     `json:"id"`
	Date       string    `json:"date"`
	Mood       *int      `json:"mood"`
	Energy     *int      `json:"energy"`
	Note       *string   `json:"note"`
	Highlights *string   `json:"highlights"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type DailyPatch struct {
	Mood       *int    `json:"mood"`
	Energy     *int    `json:"energy"`
	Note       *string `json:"note"`
	Highlights *string `json:"highlights"`
}

func (p DailyPatch) Apply(n *DailyNote) {
	if p.Mood != nil {
		n.Mood = p.Mood
	}
	if p.Energy != nil {
		n.Energy = p.Energy
	}
	if p.Note != nil {
		n.Note = optional(*p.Note)
	}
	if p.Highlights != nil {
		n.Highlights = optional(*p.Highlights)
	}
}
