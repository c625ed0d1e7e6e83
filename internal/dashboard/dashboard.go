// Package dashboard assembles the overview snapshot shown by the terminal
// client. Every section is fetched concurrently and settles on its own: a
// failed fetch leaves an empty default and a warning, never a failed load.
package dashboard

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/theseus/internal/constants"
	"github.com/julianstephens/theseus/internal/logger"
	"github.com/julianstephens/theseus/internal/metrics"
	"github.com/julianstephens/theseus/internal/models"
)

// SleepChartDays is the width of the sleep chart on the overview.
const SleepChartDays = 7

// Source supplies the raw records and server-side aggregates. *client.Client
// and LocalSource both satisfy it.
type Source interface {
	Agenda(ctx context.Context) ([]metrics.AgendaItem, error)
	HabitStats(ctx context.Context) (metrics.HabitStats, error)
	HabitHeatmap(ctx context.Context) ([]models.DayCount, error)
	SleepScore(ctx context.Context) (metrics.SleepScore, error)
	SleepChart(ctx context.Context, days int) ([]metrics.Point, error)
	DailyToday(ctx context.Context) (*models.DailyNote, error)
	FinanceSummary(ctx context.Context, month string) (metrics.BudgetRollup, error)
	SubscriptionStats(ctx context.Context) (metrics.SubscriptionStats, error)
}

// Section names used in warnings.
const (
	SectionAgenda        = "agenda"
	SectionHabits        = "habits"
	SectionHeatmap       = "heatmap"
	SectionSleepScore    = "sleep score"
	SectionSleepChart    = "sleep chart"
	SectionToday         = "today"
	SectionFinance       = "finance"
	SectionSubscriptions = "subscriptions"
)

// Warning records a section that fell back to its default.
type Warning struct {
	Section string
	Err     error
}

func (w Warning) String() string {
	return fmt.Sprintf("%s unavailable: %v", w.Section, w.Err)
}

// Snapshot is one load of the overview.
type Snapshot struct {
	LoadedAt      time.Time
	Agenda        []metrics.AgendaItem
	HabitStats    metrics.HabitStats
	Heatmap       metrics.Heatmap
	SleepScore    metrics.SleepScore
	SleepChart    []metrics.Point
	Today         *models.DailyNote
	Finance       metrics.BudgetRollup
	Subscriptions metrics.SubscriptionStats
	Warnings      []Warning
}

// OK reports whether every section loaded.
func (s Snapshot) OK() bool {
	return len(s.Warnings) == 0
}

// Empty returns the snapshot every section falls back to.
func Empty(now time.Time) Snapshot {
	return Snapshot{
		LoadedAt:      now,
		Agenda:        []metrics.AgendaItem{},
		Heatmap:       metrics.BuildHeatmap(nil, now),
		SleepChart:    []metrics.Point{},
		Finance:       metrics.AggregateBudget(nil, nil),
		Subscriptions: metrics.ComputeSubscriptionStats(nil, constants.RenewalWindowDays, now),
	}
}

// Load fetches the snapshot as of now.
func Load(ctx context.Context, src Source) Snapshot {
	return LoadAt(ctx, src, time.Now())
}

// LoadAt fetches every section concurrently. The heatmap grid is built
// locally from the sparse counts, anchored at now.
func LoadAt(ctx context.Context, src Source, now time.Time) Snapshot {
	snap := Empty(now)

	var mu sync.Mutex
	warn := func(section string, err error) {
		logger.Warn("Dashboard section failed", "section", section, "error", err)
		mu.Lock()
		snap.Warnings = append(snap.Warnings, Warning{Section: section, Err: err})
		mu.Unlock()
	}

	var g errgroup.Group
	g.Go(func() error {
		if v, err := src.Agenda(ctx); err != nil {
			warn(SectionAgenda, err)
		} else if v != nil {
			snap.Agenda = v
		}
		return nil
	})
	g.Go(func() error {
		if v, err := src.HabitStats(ctx); err != nil {
			warn(SectionHabits, err)
		} else {
			snap.HabitStats = v
		}
		return nil
	})
	g.Go(func() error {
		if v, err := src.HabitHeatmap(ctx); err != nil {
			warn(SectionHeatmap, err)
		} else {
			snap.Heatmap = metrics.BuildHeatmap(v, now)
		}
		return nil
	})
	g.Go(func() error {
		if v, err := src.SleepScore(ctx); err != nil {
			warn(SectionSleepScore, err)
		} else {
			snap.SleepScore = v
		}
		return nil
	})
	g.Go(func() error {
		if v, err := src.SleepChart(ctx, SleepChartDays); err != nil {
			warn(SectionSleepChart, err)
		} else if v != nil {
			snap.SleepChart = v
		}
		return nil
	})
	g.Go(func() error {
		if v, err := src.DailyToday(ctx); err != nil {
			warn(SectionToday, err)
		} else {
			snap.Today = v
		}
		return nil
	})
	g.Go(func() error {
		if v, err := src.FinanceSummary(ctx, ""); err != nil {
			warn(SectionFinance, err)
		} else {
			snap.Finance = v
		}
		return nil
	})
	g.Go(func() error {
		if v, err := src.SubscriptionStats(ctx); err != nil {
			warn(SectionSubscriptions, err)
		} else {
			snap.Subscriptions = v
		}
		return nil
	})
	_ = g.Wait()

	sort.Slice(snap.Warnings, func(i, j int) bool {
		return snap.Warnings[i].Section < snap.Warnings[j].Section
	})
	return snap
}
