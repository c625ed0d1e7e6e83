package trackers

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/julianstephens/theseus/internal/cli"
	"github.com/julianstephens/theseus/internal/constants"
	"github.com/julianstephens/theseus/internal/metrics"
	"github.com/julianstephens/theseus/internal/models"
	"github.com/julianstephens/theseus/internal/tui"
	"github.com/julianstephens/theseus/internal/validation"
)

type HabitCmd struct {
	Add     HabitAddCmd     `cmd:"" help:"Add a new habit."`
	List    HabitListCmd    `cmd:"" help:"List habits with their streaks."`
	Log     HabitLogCmd     `cmd:"" help:"Log a habit for a day."`
	Streak  HabitStreakCmd  `cmd:"" help:"Show the current and longest streak of a habit."`
	Heatmap HabitHeatmapCmd `cmd:"" help:"Show a year of habit activity."`
}

type HabitAddCmd struct {
	Name      string `arg:"" help:"Habit name."`
	Frequency string `help:"Target frequency." default:"daily" enum:"daily,weekly"`
	Category  string `help:"Optional category."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	bg := context.Background()

	name := strings.TrimSpace(c.Name)
	if _, err := findHabit(bg, ctx, name); err == nil {
		return fmt.Errorf("habit with name %q already exists", name)
	}

	h := models.Habit{
		Name:            name,
		Category:        optionalString(c.Category),
		TargetFrequency: c.Frequency,
		Active:          true,
	}
	if err := validation.Habit(h); err != nil {
		return err
	}
	saved, err := ctx.Store.CreateHabit(bg, h)
	if err != nil {
		return err
	}

	fmt.Printf("Added habit #%d: %s\n", saved.ID, saved.Name)
	return nil
}

type HabitListCmd struct {
	Inactive bool `help:"Include inactive habits."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	bg := context.Background()

	f := models.HabitFilter{}
	if !c.Inactive {
		active := true
		f.Active = &active
	}
	habits, err := ctx.Store.ListHabits(bg, f)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	today := ctx.Today()
	for _, h := range habits {
		logs, err := ctx.Store.HabitLogs(bg, h.ID, "")
		if err != nil {
			return err
		}
		streak := metrics.CalculateStreak(logs, today)
		status := ""
		if !h.Active {
			status = " [INACTIVE]"
		}
		fmt.Printf("#%-4d %s%s  🔥 %d (best %d)\n", h.ID, h.Name, status, streak.Current, streak.Longest)
	}
	return nil
}

type HabitLogCmd struct {
	Habit  string `arg:"" help:"Habit name or ID."`
	Date   string `help:"Date in YYYY-MM-DD format (default: today)."`
	Missed bool   `help:"Record the day as not done."`
}

func (c *HabitLogCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	bg := context.Background()

	habit, err := findHabit(bg, ctx, c.Habit)
	if err != nil {
		return err
	}

	day := c.Date
	if day == "" {
		day = ctx.Today().Format(constants.DateFormat)
	}
	l := models.HabitLog{HabitID: habit.ID, Date: day, Completed: !c.Missed}
	if err := validation.HabitLog(l); err != nil {
		return err
	}
	if _, err := ctx.Store.LogHabit(bg, l); err != nil {
		return err
	}

	mark := "✓"
	if c.Missed {
		mark = "✗"
	}
	fmt.Printf("%s %s on %s\n", mark, habit.Name, day)
	return nil
}

type HabitStreakCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
}

func (c *HabitStreakCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	bg := context.Background()

	habit, err := findHabit(bg, ctx, c.Habit)
	if err != nil {
		return err
	}
	logs, err := ctx.Store.HabitLogs(bg, habit.ID, "")
	if err != nil {
		return err
	}

	streak := metrics.CalculateStreak(logs, ctx.Today())
	fmt.Printf("%s\n", habit.Name)
	fmt.Printf("  Current streak: %d day(s)\n", streak.Current)
	fmt.Printf("  Longest streak: %d day(s)\n", streak.Longest)
	return nil
}

type HabitHeatmapCmd struct {
	Habit string `arg:"" optional:"" help:"Habit name or ID (default: all habits)."`
}

func (c *HabitHeatmapCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	bg := context.Background()

	today := ctx.Today()
	from := today.AddDate(0, 0, -(constants.HeatmapDays - 1)).Format(constants.DateFormat)

	var logs []models.HabitLog
	if c.Habit == "" {
		all, err := ctx.Store.LogsSince(bg, from)
		if err != nil {
			return err
		}
		logs = all
	} else {
		habit, err := findHabit(bg, ctx, c.Habit)
		if err != nil {
			return err
		}
		one, err := ctx.Store.HabitLogs(bg, habit.ID, from)
		if err != nil {
			return err
		}
		logs = one
	}

	counts := metrics.HeatmapCounts(logs)
	sort.Slice(counts, func(i, j int) bool { return counts[i].Date < counts[j].Date })
	fmt.Println(tui.RenderHeatmap(metrics.BuildHeatmap(counts, today)))
	return nil
}

// findHabit resolves a numeric ID or an exact, case-insensitive name.
func findHabit(ctx context.Context, c *cli.Context, ref string) (models.Habit, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return c.Store.GetHabit(ctx, id)
	}
	habits, err := c.Store.ListHabits(ctx, models.HabitFilter{})
	if err != nil {
		return models.Habit{}, err
	}
	for _, h := range habits {
		if strings.EqualFold(h.Name, ref) {
			return h, nil
		}
	}
	return models.Habit{}, fmt.Errorf("habit %q not found", ref)
}
