package dashboard

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/julianstephens/theseus/internal/client"
	"github.com/julianstephens/theseus/internal/constants"
	"github.com/julianstephens/theseus/internal/metrics"
	"github.com/julianstephens/theseus/internal/models"
	"github.com/julianstephens/theseus/internal/storage"
	"github.com/julianstephens/theseus/internal/validation"
)

// LocalSource computes the overview straight from a store, for when no
// server is running.
type LocalSource struct {
	Store storage.Provider
	// Now defaults to time.Now.
	Now func() time.Time
}

func (l LocalSource) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

func (l LocalSource) today() time.Time {
	n := l.now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

func (l LocalSource) daysAgo(n int) string {
	return l.today().AddDate(0, 0, -n).Format(constants.DateFormat)
}

func (l LocalSource) Agenda(ctx context.Context) ([]metrics.AgendaItem, error) {
	tasks, err := l.Store.ListTasks(ctx, models.TaskFilter{})
	if err != nil {
		return nil, err
	}
	open := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status != constants.TaskStatusDone {
			open = append(open, t)
		}
	}
	return metrics.Agenda(open, l.today()), nil
}

func (l LocalSource) HabitStats(ctx context.Context) (metrics.HabitStats, error) {
	habits, err := l.Store.ListHabits(ctx, models.HabitFilter{})
	if err != nil {
		return metrics.HabitStats{}, err
	}
	logs, err := l.Store.LogsSince(ctx, l.daysAgo(30))
	if err != nil {
		return metrics.HabitStats{}, err
	}
	return metrics.ComputeHabitStats(habits, logs, l.today()), nil
}

func (l LocalSource) HabitHeatmap(ctx context.Context) ([]models.DayCount, error) {
	logs, err := l.Store.LogsSince(ctx, l.daysAgo(constants.HeatmapDays-1))
	if err != nil {
		return nil, err
	}
	counts := metrics.HeatmapCounts(logs)
	sort.Slice(counts, func(i, j int) bool { return counts[i].Date < counts[j].Date })
	return counts, nil
}

func (l LocalSource) SleepScore(ctx context.Context) (metrics.SleepScore, error) {
	settings, err := l.Store.LoadSettings(ctx)
	if err != nil {
		return metrics.SleepScore{}, err
	}
	entries, err := l.Store.SleepSince(ctx, l.daysAgo(constants.SleepScoreWindowDays-1))
	if err != nil {
		return metrics.SleepScore{}, err
	}
	return metrics.ComposeSleepScore(entries, settings.SleepTargetHours), nil
}

func (l LocalSource) SleepChart(ctx context.Context, days int) ([]metrics.Point, error) {
	entries, err := l.Store.SleepSince(ctx, l.daysAgo(days-1))
	if err != nil {
		return nil, err
	}
	return metrics.FormatTrend(metrics.SleepChartRows(entries, days, l.today()), metrics.Daily), nil
}

func (l LocalSource) DailyToday(ctx context.Context) (*models.DailyNote, error) {
	n, err := l.Store.GetDaily(ctx, l.today().Format(constants.DateFormat))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (l LocalSource) FinanceSummary(ctx context.Context, month string) (metrics.BudgetRollup, error) {
	if month == "" {
		month = l.today().Format(constants.MonthFormat)
	}
	txns, err := l.Store.ListTransactions(ctx, models.TransactionFilter{Month: month})
	if err != nil {
		return metrics.BudgetRollup{}, err
	}
	budgets, err := l.Store.ListBudgets(ctx)
	if err != nil {
		return metrics.BudgetRollup{}, err
	}
	return metrics.AggregateBudget(txns, budgets), nil
}

func (l LocalSource) SubscriptionStats(ctx context.Context) (metrics.SubscriptionStats, error) {
	subs, err := l.Store.ListSubscriptions(ctx, nil)
	if err != nil {
		return metrics.SubscriptionStats{}, err
	}
	return metrics.ComputeSubscriptionStats(subs, constants.RenewalWindowDays, l.today()), nil
}

// CreateTask applies the same defaults and checks as the API.
func (l LocalSource) CreateTask(ctx context.Context, nt client.NewTask) (models.Task, error) {
	t := models.Task{
		Title:    nt.Title,
		Status:   constants.TaskStatusTodo,
		Priority: nt.Priority,
		DueDate:  nt.DueDate,
		Category: nt.Category,
	}
	if t.Priority == "" {
		t.Priority = constants.PriorityMedium
	}
	if err := validation.Task(t); err != nil {
		return models.Task{}, err
	}
	return l.Store.CreateTask(ctx, t)
}

func (l LocalSource) UpdateTask(ctx context.Context, id int64, p models.TaskPatch) (models.Task, error) {
	t, err := l.Store.GetTask(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	p.Apply(&t, l.now())
	if err := validation.Task(t); err != nil {
		return models.Task{}, err
	}
	return l.Store.UpdateTask(ctx, t)
}
