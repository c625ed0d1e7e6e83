package models

import "time"

type Meal struct {
	ID          int64     `json:"id"`
	Date        string    `json:"date"`
	MealType    string    `json:"meal_type"`
	Description string    `json:"description"`
	Calories    *int      `json:"calories"`
	ProteinG    *float64  `json:"protein_g"`
	CarbsG      *float64  `json:"carbs_g"`
	FatG        *float64  `json:"fat_g"`
	CreatedAt   time.Time `json:"created_at"`
}

// WaterIntake holds at most one row per date.
type WaterIntake struct {
	ID        int64     `json:"id"`
	Date      string    `json:"date"`
	Glasses   int       `json:"glasses"`
	Target    int       `json:"target"`
	CreatedAt time.Time `json:"created_at"`
}

type WaterPatch struct {
	Glasses *int `json:"glasses"`
	Target  *int `json:"target"`
}

func (p WaterPatch) Apply(w *WaterIntake) {
	if p.Glasses != nil {
		w.Glasses = *p.Glasses
	}
	if p.Target != nil {
		w.Target = *p.Target
	}
}
