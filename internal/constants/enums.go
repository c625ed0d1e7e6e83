package constants

// Task status values
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

// Task priority values
const (
	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Recurrence patterns for tasks
const (
	RecurringDaily   = "daily"
	RecurringWeekly  = "weekly"
	RecurringMonthly = "monthly"
)

// Habit frequencies
const (
	FrequencyDaily  = "daily"
	FrequencyWeekly = "weekly"
)

// Goal status values
const (
	GoalStatusActive    = "active"
	GoalStatusCompleted = "completed"
	GoalStatusPaused    = "paused"
)

// Transaction types
const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

// Billing cycles
const (
	BillingMonthly = "monthly"
	BillingYearly  = "yearly"
	BillingWeekly  = "weekly"
)

// Inventory item status values
const (
	ItemOwned       = "owned"
	ItemWishlist    = "wishlist"
	ItemAISuggested = "ai_suggested"
)

// Meal types
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

// Workout types
const (
	WorkoutStrength    = "strength"
	WorkoutCardio      = "cardio"
	WorkoutFlexibility = "flexibility"
	WorkoutOther       = "other"
)

// FinanceCategories is the fixed palette offered by clients.
var FinanceCategories = []string{"Food", "Transport", "Entertainment", "Shopping", "Bills", "Health", "Other"}
