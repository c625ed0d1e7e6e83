package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/julianstephens/theseus/internal/metrics"
	"github.com/julianstephens/theseus/internal/models"
)

// TaskQuery filters ListTasks. Empty fields are not sent.
type TaskQuery struct {
	Status   string
	Priority string
	Sort     string
}

// NewTask is the body of a task creation request.
type NewTask struct {
	Title    string  `json:"title"`
	Priority string  `json:"priority,omitempty"`
	DueDate  *string `json:"due_date,omitempty"`
	Category *string `json:"category,omitempty"`
}

func (c *Client) Ping(ctx context.Context) error {
	return c.get(ctx, "/ping", nil, nil)
}

func (c *Client) ListTasks(ctx context.Context, q TaskQuery) ([]models.Task, error) {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.Priority != "" {
		v.Set("priority", q.Priority)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	var tasks []models.Task
	err := c.get(ctx, "/tasks", v, &tasks)
	return tasks, err
}

// Agenda returns unfinished tasks in priority order with their due class.
func (c *Client) Agenda(ctx context.Context) ([]metrics.AgendaItem, error) {
	var items []metrics.AgendaItem
	err := c.get(ctx, "/tasks/agenda", nil, &items)
	return items, err
}

func (c *Client) OverdueTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	err := c.get(ctx, "/tasks/overdue", nil, &tasks)
	return tasks, err
}

func (c *Client) CreateTask(ctx context.Context, t NewTask) (models.Task, error) {
	var created models.Task
	err := c.post(ctx, "/tasks", t, &created)
	return created, err
}

func (c *Client) UpdateTask(ctx context.Context, id int64, p models.TaskPatch) (models.Task, error) {
	var updated models.Task
	err := c.patch(ctx, fmt.Sprintf("/tasks/%d", id), p, &updated)
	return updated, err
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/tasks/%d", id))
}

func (c *Client) ListHabits(ctx context.Context) ([]models.Habit, error) {
	var habits []models.Habit
	err := c.get(ctx, "/habits", nil, &habits)
	return habits, err
}

// LogHabit marks a habit completed on date, or today when date is empty.
func (c *Client) LogHabit(ctx context.Context, id int64, date string) (models.HabitLog, error) {
	body := map[string]interface{}{"completed": true}
	if date != "" {
		body["date"] = date
	}
	var logged models.HabitLog
	err := c.post(ctx, fmt.Sprintf("/habits/%d/log", id), body, &logged)
	return logged, err
}

func (c *Client) HabitStreak(ctx context.Context, id int64) (metrics.Streak, error) {
	var s metrics.Streak
	err := c.get(ctx, fmt.Sprintf("/habits/%d/streak", id), nil, &s)
	return s, err
}

func (c *Client) HabitStats(ctx context.Context) (metrics.HabitStats, error) {
	var s metrics.HabitStats
	err := c.get(ctx, "/habits/stats", nil, &s)
	return s, err
}

// HabitHeatmap returns the sparse per-day completion counts for the past year.
func (c *Client) HabitHeatmap(ctx context.Context) ([]models.DayCount, error) {
	var counts []models.DayCount
	err := c.get(ctx, "/habits/heatmap", nil, &counts)
	return counts, err
}

func (c *Client) SleepScore(ctx context.Context) (metrics.SleepScore, error) {
	var s metrics.SleepScore
	err := c.get(ctx, "/sleep/score", nil, &s)
	return s, err
}

func (c *Client) SleepChart(ctx context.Context, days int) ([]metrics.Point, error) {
	var points []metrics.Point
	v := url.Values{"days": {strconv.Itoa(days)}}
	err := c.get(ctx, "/sleep/chart-data", v, &points)
	return points, err
}

// DailyToday returns today's note, or nil when none was written.
func (c *Client) DailyToday(ctx context.Context) (*models.DailyNote, error) {
	var note *models.DailyNote
	err := c.get(ctx, "/daily/today", nil, &note)
	return note, err
}

// FinanceSummary rolls up a YYYY-MM month; an empty month means the
// server's current month.
func (c *Client) FinanceSummary(ctx context.Context, month string) (metrics.BudgetRollup, error) {
	var v url.Values
	if month != "" {
		v = url.Values{"month": {month}}
	}
	var resp struct {
		Month string `json:"month"`
		metrics.BudgetRollup
	}
	err := c.get(ctx, "/finance/summary", v, &resp)
	return resp.BudgetRollup, err
}

func (c *Client) SubscriptionStats(ctx context.Context) (metrics.SubscriptionStats, error) {
	var s metrics.SubscriptionStats
	err := c.get(ctx, "/subscriptions/stats", nil, &s)
	return s, err
}

// Settings returns every setting with defaults merged in.
func (c *Client) Settings(ctx context.Context) (map[string]*string, error) {
	var all map[string]*string
	err := c.get(ctx, "/settings", nil, &all)
	return all, err
}

func (c *Client) PutSetting(ctx context.Context, key string, value *string) error {
	body := map[string]*string{"value": value}
	return c.put(ctx, "/settings/"+url.PathEscape(key), body, nil)
}
