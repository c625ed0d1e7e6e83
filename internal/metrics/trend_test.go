package metrics

import (
	"encoding/json"
	"testing"

	"github.com/julianstephens/theseus/internal/models"
)

func TestFormatTrendDaily(t *testing.T) {
	rows := []Row{
		{Date: "2024-03-03", Values: map[string]*float64{"calories": Float(1800)}},
		{Date: "2024-03-01", Values: map[string]*float64{"calories": nil}},
		{Date: "garbage", Values: map[string]*float64{"calories": Float(0)}},
	}
	got := FormatTrend(rows, Daily)
	if len(got) != len(rows) {
		t.Fatalf("len = %d, want %d", len(got), len(rows))
	}

	wantLabels := []string{"Mar 3", "Mar 1", "garbage"}
	for i, p := range got {
		if p.Date != rows[i].Date {
			t.Errorf("point %d date = %s, order changed", i, p.Date)
		}
		if p.Label != wantLabels[i] {
			t.Errorf("point %d label = %q, want %q", i, p.Label, wantLabels[i])
		}
	}
	if got[1].Values["calories"] != nil {
		t.Errorf("null value was coerced to %v", *got[1].Values["calories"])
	}
	if v := got[2].Values["calories"]; v == nil || *v != 0 {
		t.Errorf("zero value lost: %v", v)
	}

	*got[0].Values["calories"] = 1
	if *rows[0].Values["calories"] != 1800 {
		t.Errorf("output aliases input values")
	}
}

func TestFormatTrendMonthly(t *testing.T) {
	got := FormatTrend(MonthTrendRows([]MonthTrend{{Month: "2024-11", Income: 10}}), Monthly)
	if got[0].Label != "Nov '24" {
		t.Errorf("label = %q, want \"Nov '24\"", got[0].Label)
	}
}

func TestPointMarshalJSON(t *testing.T) {
	p := Point{Date: "2024-03-01", Label: "Mar 1", Values: map[string]*float64{"mood": nil, "energy": Float(4)}}
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"date":"2024-03-01","label":"Mar 1","energy":4,"mood":null}`
	if string(b) != want {
		t.Errorf("got %s, want %s", b, want)
	}

	var back Point
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	mood, hasMood := back.Values["mood"]
	if back.Label != "Mar 1" || !hasMood || mood != nil || *back.Values["energy"] != 4 {
		t.Errorf("decoded = %+v", back)
	}
}

func TestMoodEnergyRows(t *testing.T) {
	mood := 4
	notes := []models.DailyNote{{Date: "2024-03-02", Mood: &mood}}
	rows := MoodEnergyRows(notes, 3, mustDate(t, "2024-03-03"))
	if len(rows) != 3 {
		t.Fatalf("len = %d, want 3", len(rows))
	}
	if rows[0].Date != "2024-03-01" || rows[2].Date != "2024-03-03" {
		t.Errorf("window = %s..%s", rows[0].Date, rows[2].Date)
	}
	if v := rows[1].Values["mood"]; v == nil || *v != 4 {
		t.Errorf("mood = %v, want 4", v)
	}
	if rows[1].Values["energy"] != nil || rows[0].Values["mood"] != nil {
		t.Errorf("missing values should stay nil")
	}
}
