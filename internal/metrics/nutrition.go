package metrics

import (
	"sort"

	"github.com/julianstephens/theseus/internal/models"
)

type NutritionTotals struct {
	TotalCalories int     `json:"total_calories"`
	TotalProtein  float64 `json:"total_protein"`
	TotalCarbs    float64 `json:"total_carbs"`
	TotalFat      float64 `json:"total_fat"`
}

// SumMeals adds up the reported macros; missing values count as zero.
func SumMeals(meals []models.Meal) NutritionTotals {
	var t NutritionTotals
	for _, m := range meals {
		if m.Calories != nil {
			t.TotalCalories += *m.Calories
		}
		if m.ProteinG != nil {
			t.TotalProtein += *m.ProteinG
		}
		if m.CarbsG != nil {
			t.TotalCarbs += *m.CarbsG
		}
		if m.FatG != nil {
			t.TotalFat += *m.FatG
		}
	}
	t.TotalProtein = round(t.TotalProtein, 2)
	t.TotalCarbs = round(t.TotalCarbs, 2)
	t.TotalFat = round(t.TotalFat, 2)
	return t
}

// DailyNutrition is the per-date sum of meals.
type DailyNutrition struct {
	Date string `json:"date"`
	NutritionTotals
}

// NutritionByDay groups meals by date, ascending.
func NutritionByDay(meals []models.Meal) []DailyNutrition {
	groups := make(map[string][]models.Meal)
	for _, m := range meals {
		groups[m.Date] = append(groups[m.Date], m)
	}
	out := make([]DailyNutrition, 0, len(groups))
	for d, ms := range groups {
		out = append(out, DailyNutrition{Date: d, NutritionTotals: SumMeals(ms)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
