package metrics

import (
	"testing"

	"github.com/julianstephens/theseus/internal/models"
)

func TestIntensityLevel(t *testing.T) {
	tests := []struct {
		count int
		want  int
	}{
		{-1, 0},
		{0, 0},
		{1, 1},
		{2, 2},
		{3, 2},
		{4, 3},
		{10, 3},
	}
	for _, tt := range tests {
		if got := IntensityLevel(tt.count); got != tt.want {
			t.Errorf("IntensityLevel(%d) = %d, want %d", tt.count, got, tt.want)
		}
	}
}

func TestBuildHeatmapCoversEveryDayOnce(t *testing.T) {
	for _, today := range []string{"2024-12-31", "2023-03-01", "2024-02-29", "2026-10-15"} {
		t.Run(today, func(t *testing.T) {
			h := BuildHeatmap(nil, mustDate(t, today))
			days := h.Days()
			if len(days) != 365 {
				t.Fatalf("got %d real cells, want 365", len(days))
			}

			end := mustDate(t, today)
			seen := make(map[string]bool)
			for i, c := range days {
				want := end.AddDate(0, 0, i-364).Format("2006-01-02")
				if c.Date != want {
					t.Fatalf("cell %d date = %s, want %s", i, c.Date, want)
				}
				if seen[c.Date] {
					t.Fatalf("date %s appears twice", c.Date)
				}
				seen[c.Date] = true
			}

			for wi, w := range h.Weeks {
				if len(w) > 7 {
					t.Fatalf("week %d has %d cells", wi, len(w))
				}
				if wi < len(h.Weeks)-1 && len(w) != 7 {
					t.Fatalf("inner week %d has %d cells, want 7", wi, len(w))
				}
			}
		})
	}
}

func TestBuildHeatmapWeekdayAlignment(t *testing.T) {
	// 2024-01-02 is a Tuesday, so two padding cells precede it.
	h := BuildHeatmap(nil, mustDate(t, "2024-12-31"))
	first := h.Weeks[0]
	if !first[0].Padding || !first[1].Padding {
		t.Fatalf("expected two padding cells, got %+v", first[:3])
	}
	if first[2].Padding || first[2].Date != "2024-01-02" {
		t.Errorf("first real cell = %+v, want 2024-01-02", first[2])
	}
	if len(h.Weeks) != 53 {
		t.Errorf("got %d weeks, want 53", len(h.Weeks))
	}
	if last := h.Weeks[len(h.Weeks)-1]; len(last) != 3 {
		t.Errorf("last week has %d cells, want 3", len(last))
	}

	for wi, w := range h.Weeks {
		for di, c := range w {
			if c.Padding {
				continue
			}
			if wd := int(mustDate(t, c.Date).Weekday()); wd != di {
				t.Fatalf("week %d: %s sits in column %d, weekday is %d", wi, c.Date, di, wd)
			}
		}
	}
}

func TestBuildHeatmapSingleEntry(t *testing.T) {
	entries := []models.DayCount{{Date: "2024-06-15", Count: 3}}
	h := BuildHeatmap(entries, mustDate(t, "2024-12-31"))

	zero, hits := 0, 0
	for _, c := range h.Days() {
		switch {
		case c.Date == "2024-06-15":
			hits++
			if c.Count != 3 {
				t.Errorf("count = %d, want 3", c.Count)
			}
			if c.Level != 2 {
				t.Errorf("level = %d, want 2 (third bucket)", c.Level)
			}
		case c.Count == 0:
			zero++
		}
	}
	if hits != 1 {
		t.Errorf("2024-06-15 found %d times, want 1", hits)
	}
	if zero != 364 {
		t.Errorf("zero cells = %d, want 364", zero)
	}
	if h.Total != 3 {
		t.Errorf("Total = %d, want 3", h.Total)
	}
}

func TestBuildHeatmapSumsAndDropsOutOfRange(t *testing.T) {
	entries := []models.DayCount{
		{Date: "2024-06-15", Count: 2},
		{Date: "2024-06-15", Count: 2},
		{Date: "2023-12-31", Count: 9},
		{Date: "2025-01-01", Count: 9},
		{Date: "not-a-date", Count: 9},
	}
	h := BuildHeatmap(entries, mustDate(t, "2024-12-31"))
	if h.Total != 4 {
		t.Errorf("Total = %d, want 4", h.Total)
	}
	for _, c := range h.Days() {
		if c.Date == "2024-06-15" && (c.Count != 4 || c.Level != 3) {
			t.Errorf("merged cell = %+v, want count 4 level 3", c)
		}
	}
}

func TestBuildHeatmapMonthLabels(t *testing.T) {
	h := BuildHeatmap(nil, mustDate(t, "2024-12-31"))
	if len(h.Months) == 0 || h.Months[0].Week != 0 || h.Months[0].Label != "Jan" {
		t.Fatalf("first label = %+v, want Jan at week 0", h.Months)
	}
	if len(h.Months) != 12 {
		t.Errorf("got %d month labels, want 12", len(h.Months))
	}
	for i := 1; i < len(h.Months); i++ {
		if h.Months[i].Week <= h.Months[i-1].Week {
			t.Errorf("labels out of order: %+v", h.Months)
		}
		if h.Months[i].Label == h.Months[i-1].Label {
			t.Errorf("repeated label %s", h.Months[i].Label)
		}
	}
}
