package dashboard

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/theseus/internal/client"
	"github.com/julianstephens/theseus/internal/metrics"
	"github.com/julianstephens/theseus/internal/models"
	"github.com/julianstephens/theseus/internal/storage/sqlite"
)

var (
	_ Source = (*client.Client)(nil)
	_ Source = LocalSource{}
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

// stubSource fails the sections named in fail and returns fixed data for
// the rest.
type stubSource struct {
	fail map[string]bool
}

var errDown = errors.New("connection refused")

func (s stubSource) err(section string) error {
	if s.fail[section] {
		return errDown
	}
	return nil
}

func (s stubSource) Agenda(ctx context.Context) ([]metrics.AgendaItem, error) {
	if err := s.err(SectionAgenda); err != nil {
		return nil, err
	}
	return []metrics.AgendaItem{{Task: models.Task{ID: 1, Title: "Pay rent"}, Due: metrics.DueToday}}, nil
}

func (s stubSource) HabitStats(ctx context.Context) (metrics.HabitStats, error) {
	return metrics.HabitStats{TotalHabits: 2, ActiveHabits: 2}, s.err(SectionHabits)
}

func (s stubSource) HabitHeatmap(ctx context.Context) ([]models.DayCount, error) {
	if err := s.err(SectionHeatmap); err != nil {
		return nil, err
	}
	return []models.DayCount{{Date: "2024-06-15", Count: 3}}, nil
}

func (s stubSource) SleepScore(ctx context.Context) (metrics.SleepScore, error) {
	return metrics.SleepScore{Score: 81, Nights: 7}, s.err(SectionSleepScore)
}

func (s stubSource) SleepChart(ctx context.Context, days int) ([]metrics.Point, error) {
	if err := s.err(SectionSleepChart); err != nil {
		return nil, err
	}
	return make([]metrics.Point, days), nil
}

func (s stubSource) DailyToday(ctx context.Context) (*models.DailyNote, error) {
	if err := s.err(SectionToday); err != nil {
		return nil, err
	}
	mood := 4
	return &models.DailyNote{Date: "2024-06-15", Mood: &mood}, nil
}

func (s stubSource) FinanceSummary(ctx context.Context, month string) (metrics.BudgetRollup, error) {
	return metrics.BudgetRollup{Income: 100, Expenses: 40, Net: 60}, s.err(SectionFinance)
}

func (s stubSource) SubscriptionStats(ctx context.Context) (metrics.SubscriptionStats, error) {
	return metrics.SubscriptionStats{Count: 3, MonthlyTotal: 30}, s.err(SectionSubscriptions)
}

func TestLoadAllSections(t *testing.T) {
	snap := LoadAt(context.Background(), stubSource{}, testNow)

	if !snap.OK() {
		t.Fatalf("warnings = %v", snap.Warnings)
	}
	if len(snap.Agenda) != 1 || snap.HabitStats.TotalHabits != 2 || snap.SleepScore.Score != 81 {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.Today == nil || *snap.Today.Mood != 4 {
		t.Errorf("today = %+v", snap.Today)
	}
	if snap.Heatmap.Total != 3 || snap.Heatmap.End != "2024-06-15" {
		t.Errorf("heatmap total = %d end = %s", snap.Heatmap.Total, snap.Heatmap.End)
	}
	if len(snap.SleepChart) != SleepChartDays || snap.Finance.Net != 60 || snap.Subscriptions.Count != 3 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestLoadSettlesIndependently(t *testing.T) {
	tests := []struct {
		name  string
		fail  []string
		check func(t *testing.T, s Snapshot)
	}{
		{
			name: "agenda down",
			fail: []string{SectionAgenda},
			check: func(t *testing.T, s Snapshot) {
				if s.Agenda == nil || len(s.Agenda) != 0 {
					t.Errorf("agenda = %v, want empty", s.Agenda)
				}
				if s.SleepScore.Score != 81 {
					t.Errorf("sleep score lost: %+v", s.SleepScore)
				}
			},
		},
		{
			name: "heatmap and today down",
			fail: []string{SectionToday, SectionHeatmap},
			check: func(t *testing.T, s Snapshot) {
				if s.Today != nil {
					t.Errorf("today = %+v, want nil", s.Today)
				}
				if s.Heatmap.Total != 0 || len(s.Heatmap.Weeks) == 0 {
					t.Errorf("heatmap default = total %d, %d weeks", s.Heatmap.Total, len(s.Heatmap.Weeks))
				}
				if len(s.Agenda) != 1 {
					t.Errorf("agenda lost: %v", s.Agenda)
				}
			},
		},
		{
			name: "everything down",
			fail: []string{SectionAgenda, SectionHabits, SectionHeatmap, SectionSleepScore, SectionSleepChart, SectionToday, SectionFinance, SectionSubscriptions},
			check: func(t *testing.T, s Snapshot) {
				if s.Finance.Categories == nil || s.Subscriptions.UpcomingRenewals == nil {
					t.Errorf("defaults not initialized: %+v %+v", s.Finance, s.Subscriptions)
				}
				if s.Finance.Net != 0 || s.SleepScore.Score != 0 || s.HabitStats.TotalHabits != 0 {
					t.Errorf("failed sections kept partial data: %+v", s)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fail := map[string]bool{}
			for _, f := range tt.fail {
				fail[f] = true
			}
			snap := LoadAt(context.Background(), stubSource{fail: fail}, testNow)

			if len(snap.Warnings) != len(tt.fail) {
				t.Fatalf("warnings = %v, want %d", snap.Warnings, len(tt.fail))
			}
			for i := 1; i < len(snap.Warnings); i++ {
				if snap.Warnings[i-1].Section > snap.Warnings[i].Section {
					t.Errorf("warnings not sorted: %v", snap.Warnings)
				}
			}
			for _, w := range snap.Warnings {
				if !fail[w.Section] || !errors.Is(w.Err, errDown) {
					t.Errorf("unexpected warning %v", w)
				}
			}
			tt.check(t, snap)
		})
	}
}

func TestLocalSource(t *testing.T) {
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "theseus.db"))
	store.SetMigrationLog(nil)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	due := "2024-06-10"
	if _, err := store.CreateTask(ctx, models.Task{Title: "Late", Status: "todo", Priority: "high", DueDate: &due}); err != nil {
		t.Fatal(err)
	}
	habit, err := store.CreateHabit(ctx, models.Habit{Name: "Walk", TargetFrequency: "daily", Active: true})
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range []string{"2024-06-14", "2024-06-15"} {
		if _, err := store.LogHabit(ctx, models.HabitLog{HabitID: habit.ID, Date: d, Completed: true}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := store.CreateTransaction(ctx, models.Transaction{Date: "2024-06-02", Amount: 12.5, Category: "food", TransactionType: "expense"}); err != nil {
		t.Fatal(err)
	}

	snap := LoadAt(ctx, LocalSource{Store: store, Now: func() time.Time { return testNow }}, testNow)
	if !snap.OK() {
		t.Fatalf("warnings = %v", snap.Warnings)
	}
	if len(snap.Agenda) != 1 || snap.Agenda[0].Due != metrics.DueOverdue {
		t.Errorf("agenda = %+v", snap.Agenda)
	}
	if snap.Heatmap.Total != 2 || snap.HabitStats.ActiveStreaks != 1 {
		t.Errorf("habits = %+v, heatmap total %d", snap.HabitStats, snap.Heatmap.Total)
	}
	if snap.Today != nil {
		t.Errorf("today = %+v, want nil", snap.Today)
	}
	if snap.Finance.Expenses != 12.5 || len(snap.SleepChart) != SleepChartDays {
		t.Errorf("finance = %+v, chart = %d", snap.Finance, len(snap.SleepChart))
	}
}
