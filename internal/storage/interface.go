package storage

import (
	"context"
	"errors"

	"github.com/julianstephens/theseus/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write would break a uniqueness rule or
	// remove a record that is still referenced
	ErrConflict = errors.New("conflict")
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error
	// Migrate applies pending schema migrations and returns how many ran
	Migrate(logFn func(string)) (int, error)
	// SchemaVersion reports the applied and the newest known schema version
	SchemaVersion() (current int, latest int, err error)

	TaskStore
	SleepStore
	DailyStore
	HabitStore
	GoalStore
	FinanceStore
	SubscriptionStore
	InventoryStore
	NutritionStore
	FitnessStore
	SettingsStore

	// Utils
	GetConfigPath() string
}

type TaskStore interface {
	ListTasks(ctx context.Context, f models.TaskFilter) ([]models.Task, error)
	GetTask(ctx context.Context, id int64) (models.Task, error)
	CreateTask(ctx context.Context, t models.Task) (models.Task, error)
	UpdateTask(ctx context.Context, t models.Task) (models.Task, error)
	DeleteTask(ctx context.Context, id int64) error
}

type SleepStore interface {
	// ListSleep returns the newest entries first. limit <= 0 means no limit.
	ListSleep(ctx context.Context, limit int) ([]models.SleepEntry, error)
	// SleepSince returns entries dated on or after from, newest first
	SleepSince(ctx context.Context, from string) ([]models.SleepEntry, error)
	GetSleep(ctx context.Context, date string) (models.SleepEntry, error)
	CreateSleep(ctx context.Context, e models.SleepEntry) (models.SleepEntry, error)
	UpdateSleep(ctx context.Context, e models.SleepEntry) (models.SleepEntry, error)
}

type DailyStore interface {
	ListDaily(ctx context.Context, limit int) ([]models.DailyNote, error)
	DailySince(ctx context.Context, from string) ([]models.DailyNote, error)
	GetDaily(ctx context.Context, date string) (models.DailyNote, error)
	CreateDaily(ctx context.Context, n models.DailyNote) (models.DailyNote, error)
	UpdateDaily(ctx context.Context, n models.DailyNote) (models.DailyNote, error)
}

type HabitStore interface {
	ListHabits(ctx context.Context, f models.HabitFilter) ([]models.Habit, error)
	GetHabit(ctx context.Context, id int64) (models.Habit, error)
	CreateHabit(ctx context.Context, h models.Habit) (models.Habit, error)
	UpdateHabit(ctx context.Context, h models.Habit) (models.Habit, error)
	// DeleteHabit removes the habit together with its logs
	DeleteHabit(ctx context.Context, id int64) error

	// LogHabit inserts or replaces the log for (habit_id, date)
	LogHabit(ctx context.Context, l models.HabitLog) (models.HabitLog, error)
	// HabitLogs returns one habit's logs dated on or after from, newest
	// first. An empty from returns every log.
	HabitLogs(ctx context.Context, habitID int64, from string) ([]models.HabitLog, error)
	// LogsSince returns logs for every habit dated on or after from
	LogsSince(ctx context.Context, from string) ([]models.HabitLog, error)
}

type GoalStore interface {
	ListGoals(ctx context.Context, f models.GoalFilter) ([]models.Goal, error)
	// GetGoal returns the goal with its milestones in display order
	GetGoal(ctx context.Context, id int64) (models.Goal, error)
	CreateGoal(ctx context.Context, g models.Goal) (models.Goal, error)
	UpdateGoal(ctx context.Context, g models.Goal) (models.Goal, error)
	DeleteGoal(ctx context.Context, id int64) error

	GetMilestone(ctx context.Context, goalID, id int64) (models.Milestone, error)
	CreateMilestone(ctx context.Context, m models.Milestone) (models.Milestone, error)
	UpdateMilestone(ctx context.Context, m models.Milestone) (models.Milestone, error)
	DeleteMilestone(ctx context.Context, goalID, id int64) error
}

type FinanceStore interface {
	ListTransactions(ctx context.Context, f models.TransactionFilter) ([]models.Transaction, error)
	TransactionsSince(ctx context.Context, from string) ([]models.Transaction, error)
	CreateTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error

	ListBudgets(ctx context.Context) ([]models.Budget, error)
	GetBudget(ctx context.Context, id int64) (models.Budget, error)
	CreateBudget(ctx context.Context, b models.Budget) (models.Budget, error)
	UpdateBudget(ctx context.Context, b models.Budget) (models.Budget, error)
	DeleteBudget(ctx context.Context, id int64) error
}

type SubscriptionStore interface {
	ListSubscriptions(ctx context.Context, active *bool) ([]models.Subscription, error)
	GetSubscription(ctx context.Context, id int64) (models.Subscription, error)
	CreateSubscription(ctx context.Context, s models.Subscription) (models.Subscription, error)
	UpdateSubscription(ctx context.Context, s models.Subscription) (models.Subscription, error)
	DeleteSubscription(ctx context.Context, id int64) error
}

type InventoryStore interface {
	ListInventory(ctx context.Context, f models.InventoryFilter) ([]models.InventoryItem, error)
	GetInventoryItem(ctx context.Context, id int64) (models.InventoryItem, error)
	CreateInventoryItem(ctx context.Context, it models.InventoryItem) (models.InventoryItem, error)
	UpdateInventoryItem(ctx context.Context, it models.InventoryItem) (models.InventoryItem, error)
	DeleteInventoryItem(ctx context.Context, id int64) error

	ListInventoryCategories(ctx context.Context) ([]models.InventoryCategory, error)
	GetInventoryCategory(ctx context.Context, id int64) (models.InventoryCategory, error)
	CreateInventoryCategory(ctx context.Context, c models.InventoryCategory) (models.InventoryCategory, error)
	UpdateInventoryCategory(ctx context.Context, c models.InventoryCategory) (models.InventoryCategory, error)
	// DeleteInventoryCategory refuses with ErrConflict while items use it
	DeleteInventoryCategory(ctx context.Context, id int64) error
}

type NutritionStore interface {
	// ListMeals returns meals for one date, or all meals when date is empty
	ListMeals(ctx context.Context, date string) ([]models.Meal, error)
	MealsSince(ctx context.Context, from string) ([]models.Meal, error)
	CreateMeal(ctx context.Context, m models.Meal) (models.Meal, error)

	GetWater(ctx context.Context, date string) (models.WaterIntake, error)
	// UpsertWater inserts or replaces the row for w.Date
	UpsertWater(ctx context.Context, w models.WaterIntake) (models.WaterIntake, error)
	UpdateWater(ctx context.Context, w models.WaterIntake) (models.WaterIntake, error)
}

type FitnessStore interface {
	// ListWorkouts returns the newest workouts with their exercises.
	// limit <= 0 means no limit.
	ListWorkouts(ctx context.Context, limit int) ([]models.Workout, error)
	GetWorkout(ctx context.Context, id int64) (models.Workout, error)
	CreateWorkout(ctx context.Context, w models.Workout) (models.Workout, error)
	DeleteWorkout(ctx context.Context, id int64) error
	ExerciseHistory(ctx context.Context, name string) ([]models.ExerciseHistory, error)

	ListTemplates(ctx context.Context) ([]models.WorkoutTemplate, error)
	CreateTemplate(ctx context.Context, t models.WorkoutTemplate) (models.WorkoutTemplate, error)
	DeleteTemplate(ctx context.Context, id int64) error
}

type SettingsStore interface {
	ListSettings(ctx context.Context) ([]models.Setting, error)
	GetSetting(ctx context.Context, key string) (models.Setting, error)
	PutSetting(ctx context.Context, key string, value *string) (models.Setting, error)
	// PutSettings upserts every pair in one transaction
	PutSettings(ctx context.Context, values map[string]*string) error
	// LoadSettings returns the typed view with defaults applied
	LoadSettings(ctx context.Context) (models.Settings, error)
}
