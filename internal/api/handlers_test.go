package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/julianstephens/theseus/internal/metrics"
	"github.com/julianstephens/theseus/internal/models"
)

func TestTaskLifecycle(t *testing.T) {
	h := setupTestServer(t)

	var task models.Task
	mustDo(t, h, "POST", "/api/tasks", map[string]interface{}{"title": "Write report", "due_date": "2024-03-14"}, http.StatusCreated, &task)
	if task.Status != "todo" || task.Priority != "medium" || task.CompletedAt != nil {
		t.Fatalf("created task = %+v", task)
	}

	path := fmt.Sprintf("/api/tasks/%d", task.ID)
	mustDo(t, h, "PATCH", path, map[string]string{"status": "done"}, http.StatusOK, &task)
	if task.CompletedAt == nil || !task.CompletedAt.Equal(testNow) {
		t.Errorf("completed_at = %v, want %v", task.CompletedAt, testNow)
	}

	mustDo(t, h, "PATCH", path, map[string]string{"status": "in_progress"}, http.StatusOK, &task)
	if task.CompletedAt != nil {
		t.Errorf("completed_at = %v after leaving done", task.CompletedAt)
	}

	var overdue []models.Task
	mustDo(t, h, "GET", "/api/tasks/overdue", nil, http.StatusOK, &overdue)
	if len(overdue) != 1 || overdue[0].ID != task.ID {
		t.Errorf("overdue = %+v", overdue)
	}

	mustDo(t, h, "DELETE", path, nil, http.StatusNoContent, nil)
	mustDo(t, h, "GET", path, nil, http.StatusNotFound, nil)
	mustDo(t, h, "DELETE", path, nil, http.StatusNotFound, nil)
}

func TestTaskListSort(t *testing.T) {
	h := setupTestServer(t)

	for _, p := range []string{"low", "urgent", "medium"} {
		mustDo(t, h, "POST", "/api/tasks", map[string]string{"title": p, "priority": p}, http.StatusCreated, nil)
	}

	var tasks []models.Task
	mustDo(t, h, "GET", "/api/tasks?sort=priority", nil, http.StatusOK, &tasks)
	var got []string
	for _, task := range tasks {
		got = append(got, task.Priority)
	}
	if fmt.Sprint(got) != "[urgent medium low]" {
		t.Errorf("priority order = %v", got)
	}

	mustDo(t, h, "GET", "/api/tasks?sort=bogus", nil, http.StatusBadRequest, nil)
	mustDo(t, h, "GET", "/api/tasks?priority=low", nil, http.StatusOK, &tasks)
	if len(tasks) != 1 {
		t.Errorf("filtered tasks = %d, want 1", len(tasks))
	}
}

func TestSleepEndpoints(t *testing.T) {
	h := setupTestServer(t)

	var score metrics.SleepScore
	mustDo(t, h, "GET", "/api/sleep/score", nil, http.StatusOK, &score)
	if score != (metrics.SleepScore{}) {
		t.Errorf("empty score = %+v", score)
	}

	var entry models.SleepEntry
	mustDo(t, h, "POST", "/api/sleep", map[string]interface{}{
		"date":      "2024-03-15",
		"bedtime":   "2024-03-14T23:00:00Z",
		"wake_time": "2024-03-15T07:00:00Z",
		"quality":   5,
	}, http.StatusCreated, &entry)
	if entry.DurationHours == nil || *entry.DurationHours != 8 {
		t.Errorf("derived duration = %v, want 8", entry.DurationHours)
	}

	mustDo(t, h, "POST", "/api/sleep", map[string]string{"date": "2024-03-15"}, http.StatusConflict, nil)
	mustDo(t, h, "POST", "/api/sleep", map[string]interface{}{"date": "2024-03-13", "quality": 9}, http.StatusUnprocessableEntity, nil)

	mustDo(t, h, "GET", "/api/sleep/score", nil, http.StatusOK, &score)
	if score.Nights != 1 || score.Components.Duration != 100 || score.Components.Quality != 100 {
		t.Errorf("score = %+v", score)
	}

	var target models.SleepTarget
	mustDo(t, h, "PUT", "/api/sleep/target", map[string]float64{"target_hours": 7.5}, http.StatusOK, &target)
	mustDo(t, h, "GET", "/api/sleep/target", nil, http.StatusOK, &target)
	if target.TargetHours != 7.5 {
		t.Errorf("target = %v, want 7.5", target.TargetHours)
	}
	mustDo(t, h, "PUT", "/api/sleep/target", map[string]float64{"target_hours": 0}, http.StatusUnprocessableEntity, nil)

	var chart []map[string]interface{}
	mustDo(t, h, "GET", "/api/sleep/chart-data?days=7", nil, http.StatusOK, &chart)
	if len(chart) != 7 {
		t.Errorf("chart rows = %d, want 7", len(chart))
	}
}

func TestDailyToday(t *testing.T) {
	h := setupTestServer(t)

	rec := do(t, h, "GET", "/api/daily/today", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "null\n" {
		t.Fatalf("today before writing = %d %q", rec.Code, rec.Body.String())
	}

	mustDo(t, h, "POST", "/api/daily", map[string]interface{}{"date": "2024-03-15", "mood": 4}, http.StatusCreated, nil)

	var note models.DailyNote
	mustDo(t, h, "PATCH", "/api/daily/2024-03-15", map[string]int{"energy": 2}, http.StatusOK, &note)
	if note.Mood == nil || *note.Mood != 4 || note.Energy == nil || *note.Energy != 2 {
		t.Errorf("patched note = %+v", note)
	}
	mustDo(t, h, "GET", "/api/daily/today", nil, http.StatusOK, &note)
	if note.Date != "2024-03-15" {
		t.Errorf("today = %+v", note)
	}
	mustDo(t, h, "GET", "/api/daily/2024-13-01", nil, http.StatusUnprocessableEntity, nil)
}

func TestHabitStreakAndHeatmap(t *testing.T) {
	h := setupTestServer(t)

	var habit models.Habit
	mustDo(t, h, "POST", "/api/habits", map[string]string{"name": "Read"}, http.StatusCreated, &habit)
	if !habit.Active || habit.TargetFrequency != "daily" {
		t.Fatalf("habit defaults = %+v", habit)
	}

	logPath := fmt.Sprintf("/api/habits/%d/log", habit.ID)
	var logged models.HabitLog
	mustDo(t, h, "POST", logPath, map[string]interface{}{}, http.StatusCreated, &logged)
	if logged.Date != "2024-03-15" || !logged.Completed {
		t.Errorf("default log = %+v", logged)
	}
	for _, d := range []string{"2024-03-14", "2024-03-13", "2024-03-10"} {
		mustDo(t, h, "POST", logPath, map[string]string{"date": d}, http.StatusCreated, nil)
	}
	// Logging the same day again replaces it.
	mustDo(t, h, "POST", logPath, map[string]interface{}{"date": "2024-03-10", "completed": true}, http.StatusCreated, nil)

	var streak struct {
		HabitID int64 `json:"habit_id"`
		Current int   `json:"current_streak"`
		Longest int   `json:"longest_streak"`
	}
	mustDo(t, h, "GET", fmt.Sprintf("/api/habits/%d/streak", habit.ID), nil, http.StatusOK, &streak)
	if streak.HabitID != habit.ID || streak.Current != 3 || streak.Longest != 3 {
		t.Errorf("streak = %+v, want current 3 longest 3", streak)
	}

	var counts []models.DayCount
	mustDo(t, h, "GET", "/api/habits/heatmap", nil, http.StatusOK, &counts)
	if len(counts) != 4 || counts[0].Date != "2024-03-10" || counts[3].Date != "2024-03-15" {
		t.Errorf("heatmap = %+v", counts)
	}

	mustDo(t, h, "POST", "/api/habits/999/log", map[string]string{}, http.StatusNotFound, nil)
	mustDo(t, h, "DELETE", fmt.Sprintf("/api/habits/%d", habit.ID), nil, http.StatusNoContent, nil)
	mustDo(t, h, "GET", "/api/habits/heatmap", nil, http.StatusOK, &counts)
	if len(counts) != 0 {
		t.Errorf("logs survived habit delete: %+v", counts)
	}
}

func TestGoalMilestones(t *testing.T) {
	h := setupTestServer(t)

	var goal models.Goal
	mustDo(t, h, "POST", "/api/goals", map[string]string{"title": "Run a marathon", "category": "health"}, http.StatusCreated, &goal)
	if goal.Status != "active" {
		t.Errorf("status = %q, want active", goal.Status)
	}

	var detail goalDetail
	mustDo(t, h, "GET", fmt.Sprintf("/api/goals/%d", goal.ID), nil, http.StatusOK, &detail)
	if detail.Milestones == nil || detail.MilestoneProgress != nil {
		t.Errorf("detail without milestones = %+v", detail)
	}

	var first models.Milestone
	msPath := fmt.Sprintf("/api/goals/%d/milestones", goal.ID)
	mustDo(t, h, "POST", msPath, map[string]interface{}{"title": "10k", "sort_order": 1}, http.StatusCreated, &first)
	mustDo(t, h, "POST", msPath, map[string]interface{}{"title": "Half", "sort_order": 2}, http.StatusCreated, nil)

	mustDo(t, h, "PATCH", fmt.Sprintf("%s/%d", msPath, first.ID), map[string]bool{"completed": true}, http.StatusOK, &first)
	if first.CompletedAt == nil {
		t.Error("completed milestone has no completed_at")
	}

	mustDo(t, h, "GET", fmt.Sprintf("/api/goals/%d", goal.ID), nil, http.StatusOK, &detail)
	if len(detail.Milestones) != 2 || detail.MilestoneProgress == nil || *detail.MilestoneProgress != 50 {
		t.Errorf("detail = %+v", detail)
	}

	mustDo(t, h, "PUT", fmt.Sprintf("/api/goals/%d", goal.ID), map[string]int{"progress_pct": 101}, http.StatusUnprocessableEntity, nil)
	mustDo(t, h, "POST", "/api/goals/999/milestones", map[string]string{"title": "x"}, http.StatusNotFound, nil)
}

func TestFinanceSummary(t *testing.T) {
	h := setupTestServer(t)

	txns := []map[string]interface{}{
		{"date": "2024-03-01", "amount": 1000, "category": "salary", "transaction_type": "income"},
		{"date": "2024-03-05", "amount": 200, "category": "groceries"},
		{"date": "2024-02-10", "amount": 50, "category": "groceries"},
	}
	for _, tx := range txns {
		mustDo(t, h, "POST", "/api/finance/transactions", tx, http.StatusCreated, nil)
	}
	mustDo(t, h, "POST", "/api/finance/budgets", map[string]interface{}{"category": "groceries", "monthly_limit": 150}, http.StatusCreated, nil)
	mustDo(t, h, "POST", "/api/finance/budgets", map[string]interface{}{"category": "groceries", "monthly_limit": 10}, http.StatusConflict, nil)

	var summary summaryResponse
	mustDo(t, h, "GET", "/api/finance/summary", nil, http.StatusOK, &summary)
	if summary.Month != "2024-03" || summary.Income != 1000 || summary.Expenses != 200 || summary.Net != 800 {
		t.Errorf("summary = %+v", summary)
	}
	if len(summary.Budgets) != 1 || !summary.Budgets[0].Over {
		t.Errorf("budgets = %+v", summary.Budgets)
	}

	mustDo(t, h, "GET", "/api/finance/summary?month=2024-02", nil, http.StatusOK, &summary)
	if summary.Expenses != 50 || summary.Income != 0 {
		t.Errorf("february = %+v", summary)
	}

	mustDo(t, h, "GET", "/api/finance/summary?month=March", nil, http.StatusBadRequest, nil)
	mustDo(t, h, "GET", "/api/finance/transactions?month=2024-3-1", nil, http.StatusBadRequest, nil)

	var listed []models.Transaction
	mustDo(t, h, "GET", "/api/finance/transactions?month=2024-03&category=groceries", nil, http.StatusOK, &listed)
	if len(listed) != 1 || listed[0].Amount != 200 {
		t.Errorf("filtered transactions = %+v", listed)
	}

	var trend []map[string]interface{}
	mustDo(t, h, "GET", "/api/finance/trends?months=3", nil, http.StatusOK, &trend)
	if len(trend) != 3 {
		t.Errorf("trend months = %d, want 3", len(trend))
	}
}

func TestSubscriptionStats(t *testing.T) {
	h := setupTestServer(t)

	subs := []map[string]interface{}{
		{"name": "Music", "cost": 100, "billing_cycle": "monthly", "next_renewal": "2024-03-20"},
		{"name": "Cloud", "cost": 1200, "billing_cycle": "yearly", "next_renewal": "2024-06-01"},
		{"name": "Paper", "cost": 12, "billing_cycle": "weekly", "next_renewal": "2024-03-15"},
		{"name": "Old", "cost": 99, "next_renewal": "2024-03-16", "active": false},
	}
	for _, s := range subs {
		mustDo(t, h, "POST", "/api/subscriptions", s, http.StatusCreated, nil)
	}

	var stats metrics.SubscriptionStats
	mustDo(t, h, "GET", "/api/subscriptions/stats", nil, http.StatusOK, &stats)
	if stats.Count != 3 || stats.MonthlyTotal != 252 || stats.YearlyTotal != 3024 {
		t.Errorf("stats = %+v", stats)
	}
	if len(stats.UpcomingRenewals) != 2 || stats.UpcomingRenewals[0].Name != "Paper" || stats.UpcomingRenewals[1].DaysUntil != 5 {
		t.Errorf("renewals = %+v", stats.UpcomingRenewals)
	}

	var active []models.Subscription
	mustDo(t, h, "GET", "/api/subscriptions?active=true", nil, http.StatusOK, &active)
	if len(active) != 3 {
		t.Errorf("active = %d, want 3", len(active))
	}

	var updated models.Subscription
	mustDo(t, h, "PUT", fmt.Sprintf("/api/subscriptions/%d", active[0].ID), map[string]float64{"cost": 1}, http.StatusOK, &updated)
	if updated.Cost != 1 || updated.Name != active[0].Name {
		t.Errorf("partial update = %+v", updated)
	}
}

func TestInventory(t *testing.T) {
	h := setupTestServer(t)

	var cat models.InventoryCategory
	mustDo(t, h, "POST", "/api/inventory/categories", map[string]string{"name": "tech"}, http.StatusCreated, &cat)
	mustDo(t, h, "POST", "/api/inventory/categories", map[string]string{"name": "tech"}, http.StatusConflict, nil)

	var item models.InventoryItem
	mustDo(t, h, "POST", "/api/inventory", map[string]interface{}{"name": "Laptop", "category": "tech"}, http.StatusCreated, &item)
	if item.Status != "owned" || item.Currency != "DKK" {
		t.Errorf("item defaults = %+v", item)
	}
	mustDo(t, h, "POST", "/api/inventory", map[string]interface{}{
		"name": "Camera", "category": "tech", "status": "wishlist", "priority": "high", "price": 4000,
	}, http.StatusCreated, nil)

	var items []models.InventoryItem
	mustDo(t, h, "GET", "/api/inventory", nil, http.StatusOK, &items)
	if len(items) != 2 || items[0].Name != "Camera" {
		t.Errorf("ordering = %+v", items)
	}

	var stats metrics.InventoryStats
	mustDo(t, h, "GET", "/api/inventory/stats", nil, http.StatusOK, &stats)
	if stats.TotalOwned != 1 || stats.WishlistCount != 1 || stats.TotalWishlistValue == nil || *stats.TotalWishlistValue != 4000 {
		t.Errorf("stats = %+v", stats)
	}

	catPath := fmt.Sprintf("/api/inventory/categories/%d", cat.ID)
	mustDo(t, h, "DELETE", catPath, nil, http.StatusConflict, nil)
	for _, it := range items {
		mustDo(t, h, "DELETE", fmt.Sprintf("/api/inventory/%d", it.ID), nil, http.StatusNoContent, nil)
	}
	mustDo(t, h, "DELETE", catPath, nil, http.StatusNoContent, nil)
}

func TestNutritionWater(t *testing.T) {
	h := setupTestServer(t)

	var water models.WaterIntake
	mustDo(t, h, "GET", "/api/nutrition/water", nil, http.StatusOK, &water)
	if water.ID != 0 || water.Glasses != 0 || water.Target != 8 || water.Date != "2024-03-15" {
		t.Errorf("default water = %+v", water)
	}

	mustDo(t, h, "PUT", "/api/nutrition/water/2024-03-15", map[string]int{"glasses": 2}, http.StatusNotFound, nil)
	mustDo(t, h, "POST", "/api/nutrition/water", map[string]interface{}{"date": "2024-03-15", "glasses": 3}, http.StatusCreated, &water)
	mustDo(t, h, "POST", "/api/nutrition/water", map[string]interface{}{"date": "2024-03-15", "glasses": 4}, http.StatusCreated, &water)
	mustDo(t, h, "PUT", "/api/nutrition/water/2024-03-15", map[string]int{"glasses": 6}, http.StatusOK, &water)
	if water.Glasses != 6 || water.Target != 8 {
		t.Errorf("updated water = %+v", water)
	}

	for _, m := range []map[string]interface{}{
		{"date": "2024-03-15", "meal_type": "lunch", "description": "Salad", "calories": 400, "protein_g": 20.5},
		{"date": "2024-03-15", "meal_type": "dinner", "description": "Pasta", "calories": 700},
	} {
		mustDo(t, h, "POST", "/api/nutrition", m, http.StatusCreated, nil)
	}
	mustDo(t, h, "POST", "/api/nutrition", map[string]string{"date": "2024-03-15", "meal_type": "brunch", "description": "x"}, http.StatusUnprocessableEntity, nil)

	var totals metrics.NutritionTotals
	mustDo(t, h, "GET", "/api/nutrition/daily-totals", nil, http.StatusOK, &totals)
	if totals.TotalCalories != 1100 || totals.TotalProtein != 20.5 {
		t.Errorf("totals = %+v", totals)
	}
}

func TestFitness(t *testing.T) {
	h := setupTestServer(t)

	var wo models.Workout
	mustDo(t, h, "POST", "/api/fitness/workouts", map[string]interface{}{
		"date": "2024-03-15", "workout_type": "strength", "name": "Push",
		"exercises": []map[string]interface{}{{"name": "Bench Press", "sets": 3, "reps": 5, "weight": 80}},
	}, http.StatusCreated, &wo)
	if len(wo.Exercises) != 1 || wo.Exercises[0].WorkoutID != wo.ID {
		t.Fatalf("workout = %+v", wo)
	}
	mustDo(t, h, "POST", "/api/fitness/workouts", map[string]interface{}{
		"date": "2024-03-14", "workout_type": "cardio", "name": "Run",
	}, http.StatusCreated, nil)

	var stats metrics.FitnessStats
	mustDo(t, h, "GET", "/api/fitness/stats", nil, http.StatusOK, &stats)
	if stats.TotalWorkouts != 2 || stats.ThisWeek != 2 || stats.Streak != 2 {
		t.Errorf("stats = %+v", stats)
	}

	var history []models.ExerciseHistory
	mustDo(t, h, "GET", "/api/fitness/exercises/Bench%20Press/history", nil, http.StatusOK, &history)
	if len(history) != 1 || history[0].Sets != 3 {
		t.Errorf("history = %+v", history)
	}

	mustDo(t, h, "POST", "/api/fitness/templates", map[string]string{"name": "Legs", "workout_type": "strength", "exercises_json": "not json"}, http.StatusUnprocessableEntity, nil)
	var tpl models.WorkoutTemplate
	mustDo(t, h, "POST", "/api/fitness/templates", map[string]string{"name": "Legs", "workout_type": "strength", "exercises_json": "[]"}, http.StatusCreated, &tpl)
	mustDo(t, h, "DELETE", fmt.Sprintf("/api/fitness/templates/%d", tpl.ID), nil, http.StatusNoContent, nil)

	mustDo(t, h, "DELETE", fmt.Sprintf("/api/fitness/workouts/%d", wo.ID), nil, http.StatusNoContent, nil)
	mustDo(t, h, "GET", "/api/fitness/exercises/Bench%20Press/history", nil, http.StatusOK, &history)
	if len(history) != 0 {
		t.Errorf("exercises survived workout delete: %+v", history)
	}
}

func TestSettings(t *testing.T) {
	h := setupTestServer(t)

	var all map[string]*string
	mustDo(t, h, "GET", "/api/settings", nil, http.StatusOK, &all)
	if all["timezone"] == nil || *all["timezone"] != "UTC" {
		t.Errorf("settings = %v", all)
	}

	mustDo(t, h, "PUT", "/api/settings", map[string]interface{}{"theme": "dark", "compact": true, "note": nil}, http.StatusOK, &all)
	if all["theme"] == nil || *all["theme"] != "dark" || all["compact"] == nil || *all["compact"] != "true" || all["note"] != nil {
		t.Errorf("bulk update = %v", all)
	}

	var one settingValue
	mustDo(t, h, "PUT", "/api/settings/timezone", map[string]string{"value": "Europe/Copenhagen"}, http.StatusOK, &one)
	mustDo(t, h, "GET", "/api/settings/timezone", nil, http.StatusOK, &one)
	if one.Value == nil || *one.Value != "Europe/Copenhagen" {
		t.Errorf("timezone = %+v", one)
	}
	mustDo(t, h, "GET", "/api/settings/unknown", nil, http.StatusNotFound, nil)
}
