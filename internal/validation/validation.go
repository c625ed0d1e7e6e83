package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/julianstephens/theseus/internal/constants"
	"github.com/julianstephens/theseus/internal/models"
)

// FieldError describes one invalid field of a record
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors collects every problem found in a record
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return strings.Join(parts, "; ")
}

// checker accumulates field errors
type checker struct {
	errs Errors
}

func (c *checker) fail(field, format string, args ...interface{}) {
	c.errs = append(c.errs, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (c *checker) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		c.fail(field, "is required")
	}
}

func (c *checker) oneOf(field, value string, allowed ...string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	c.fail(field, "must be one of %s", strings.Join(allowed, ", "))
}

func (c *checker) optionalOneOf(field string, value *string, allowed ...string) {
	if value != nil {
		c.oneOf(field, *value, allowed...)
	}
}

func (c *checker) date(field, value string) {
	if _, err := time.Parse(constants.DateFormat, value); err != nil {
		c.fail(field, "must be a date in YYYY-MM-DD format")
	}
}

func (c *checker) optionalDate(field string, value *string) {
	if value != nil {
		c.date(field, *value)
	}
}

func (c *checker) intRange(field string, value *int, lo, hi int) {
	if value != nil && (*value < lo || *value > hi) {
		c.fail(field, "must be between %d and %d", lo, hi)
	}
}

func (c *checker) positive(field string, value float64) {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		c.fail(field, "must be greater than 0")
	}
}

func (c *checker) nonNegative(field string, value float64) {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		c.fail(field, "must not be negative")
	}
}

func (c *checker) result() error {
	if len(c.errs) == 0 {
		return nil
	}
	return c.errs
}

// Date checks a YYYY-MM-DD string
func Date(s string) error {
	var c checker
	c.date("date", s)
	return c.result()
}

// Month checks a YYYY-MM string
func Month(s string) error {
	if _, err := time.Parse(constants.MonthFormat, s); err != nil {
		return Errors{{Field: "month", Message: "must be in YYYY-MM format"}}
	}
	return nil
}

func Task(t models.Task) error {
	var c checker
	c.required("title", t.Title)
	c.oneOf("status", t.Status, constants.TaskStatusTodo, constants.TaskStatusInProgress, constants.TaskStatusDone)
	c.oneOf("priority", t.Priority, constants.PriorityLow, constants.PriorityMedium, constants.PriorityHigh, constants.PriorityUrgent)
	c.optionalDate("due_date", t.DueDate)
	c.optionalOneOf("recurring_pattern", t.RecurringPattern, constants.RecurringDaily, constants.RecurringWeekly, constants.RecurringMonthly)
	if t.Recurring && t.RecurringPattern == nil {
		c.fail("recurring_pattern", "is required for recurring tasks")
	}
	if (t.Status == constants.TaskStatusDone) != (t.CompletedAt != nil) {
		c.fail("completed_at", "must be set exactly when status is done")
	}
	return c.result()
}

func SleepEntry(e models.SleepEntry) error {
	var c checker
	c.date("date", e.Date)
	c.intRange("quality", e.Quality, 1, 5)
	if e.DurationHours != nil {
		if *e.DurationHours < 0 || *e.DurationHours > 24 {
			c.fail("duration_hours", "must be between 0 and 24")
		}
	}
	if e.Bedtime != nil && e.WakeTime != nil && e.WakeTime.Before(*e.Bedtime) {
		c.fail("wake_time", "must not be before bedtime")
	}
	return c.result()
}

func DailyNote(n models.DailyNote) error {
	var c checker
	c.date("date", n.Date)
	c.intRange("mood", n.Mood, 1, 5)
	c.intRange("energy", n.Energy, 1, 5)
	return c.result()
}

func Habit(h models.Habit) error {
	var c checker
	c.required("name", h.Name)
	c.oneOf("target_frequency", h.TargetFrequency, constants.FrequencyDaily, constants.FrequencyWeekly)
	return c.result()
}

func HabitLog(l models.HabitLog) error {
	var c checker
	c.date("date", l.Date)
	return c.result()
}

func Goal(g models.Goal) error {
	var c checker
	c.required("title", g.Title)
	c.required("category", g.Category)
	c.optionalDate("target_date", g.TargetDate)
	c.intRange("progress_pct", &g.ProgressPct, 0, 100)
	c.oneOf("status", g.Status, constants.GoalStatusActive, constants.GoalStatusCompleted, constants.GoalStatusPaused)
	return c.result()
}

func Milestone(m models.Milestone) error {
	var c checker
	c.required("title", m.Title)
	c.optionalDate("target_date", m.TargetDate)
	return c.result()
}

func Transaction(t models.Transaction) error {
	var c checker
	c.date("date", t.Date)
	c.positive("amount", t.Amount)
	c.required("category", t.Category)
	c.oneOf("transaction_type", t.TransactionType, constants.TransactionIncome, constants.TransactionExpense)
	return c.result()
}

func Budget(b models.Budget) error {
	var c checker
	c.required("category", b.Category)
	c.nonNegative("monthly_limit", b.MonthlyLimit)
	return c.result()
}

func Subscription(s models.Subscription) error {
	var c checker
	c.required("name", s.Name)
	c.nonNegative("cost", s.Cost)
	c.oneOf("billing_cycle", s.BillingCycle, constants.BillingMonthly, constants.BillingYearly, constants.BillingWeekly)
	c.date("next_renewal", s.NextRenewal)
	return c.result()
}

func InventoryItem(it models.InventoryItem) error {
	var c checker
	c.required("name", it.Name)
	c.required("category", it.Category)
	c.oneOf("status", it.Status, constants.ItemOwned, constants.ItemWishlist, constants.ItemAISuggested)
	c.optionalOneOf("priority", it.Priority, constants.PriorityLow, constants.PriorityMedium, constants.PriorityHigh)
	if it.Price != nil {
		c.nonNegative("price", *it.Price)
	}
	c.required("currency", it.Currency)
	c.optionalDate("purchase_date", it.PurchaseDate)
	return c.result()
}

func InventoryCategory(cat models.InventoryCategory) error {
	var c checker
	c.required("name", cat.Name)
	return c.result()
}

func Meal(m models.Meal) error {
	var c checker
	c.date("date", m.Date)
	c.oneOf("meal_type", m.MealType, constants.MealBreakfast, constants.MealLunch, constants.MealDinner, constants.MealSnack)
	c.required("description", m.Description)
	if m.Calories != nil && *m.Calories < 0 {
		c.fail("calories", "must not be negative")
	}
	for field, v := range map[string]*float64{"protein_g": m.ProteinG, "carbs_g": m.CarbsG, "fat_g": m.FatG} {
		if v != nil {
			c.nonNegative(field, *v)
		}
	}
	return c.result()
}

func Water(w models.WaterIntake) error {
	var c checker
	c.date("date", w.Date)
	if w.Glasses < 0 {
		c.fail("glasses", "must not be negative")
	}
	if w.Target <= 0 {
		c.fail("target", "must be greater than 0")
	}
	return c.result()
}

func Workout(w models.Workout) error {
	var c checker
	c.date("date", w.Date)
	c.required("name", w.Name)
	c.oneOf("workout_type", w.WorkoutType, constants.WorkoutStrength, constants.WorkoutCardio, constants.WorkoutFlexibility, constants.WorkoutOther)
	c.intRange("duration_minutes", w.DurationMinutes, 0, 24*60)
	for i, ex := range w.Exercises {
		field := fmt.Sprintf("exercises[%d]", i)
		c.required(field+".name", ex.Name)
		if ex.Sets < 0 || ex.Reps < 0 {
			c.fail(field, "sets and reps must not be negative")
		}
	}
	return c.result()
}

func WorkoutTemplate(t models.WorkoutTemplate) error {
	var c checker
	c.required("name", t.Name)
	c.oneOf("workout_type", t.WorkoutType, constants.WorkoutStrength, constants.WorkoutCardio, constants.WorkoutFlexibility, constants.WorkoutOther)
	if !json.Valid([]byte(t.ExercisesJSON)) {
		c.fail("exercises_json", "must be valid JSON")
	}
	return c.result()
}

// SettingKey rejects empty or oversized keys
func SettingKey(key string) error {
	var c checker
	c.required("key", key)
	if len(key) > 100 {
		c.fail("key", "must be at most 100 characters")
	}
	return c.result()
}
