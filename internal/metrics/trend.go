package metrics

import (
	"bytes"
	"encoding/json"
	"sort"
	"time"

	"github.com/julianstephens/theseus/internal/constants"
	"github.com/julianstephens/theseus/internal/models"
)

// Granularity selects the axis label style.
type Granularity int

const (
	Daily Granularity = iota
	Monthly
)

// Row is one raw time-series sample. Date is YYYY-MM-DD for daily rows and
// YYYY-MM for monthly rows. A nil value is a gap.
type Row struct {
	Date   string
	Values map[string]*float64
}

// Point is a chart-ready row with a short axis label.
type Point struct {
	Date   string
	Label  string
	Values map[string]*float64
}

// MarshalJSON flattens the values next to date and label so a point encodes
// as {"date": ..., "label": ..., "<series>": number|null}.
func (p Point) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(p.Values))
	for k := range p.Values {
		if k == "date" || k == "label" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteString(`{"date":`)
	b, _ := json.Marshal(p.Date)
	buf.Write(b)
	buf.WriteString(`,"label":`)
	b, _ = json.Marshal(p.Label)
	buf.Write(b)
	for _, k := range keys {
		buf.WriteByte(',')
		b, _ = json.Marshal(k)
		buf.Write(b)
		buf.WriteByte(':')
		if v := p.Values[k]; v != nil {
			b, err := json.Marshal(*v)
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		} else {
			buf.WriteString("null")
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reverses MarshalJSON; every key other than date and label
// becomes a series value.
func (p *Point) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Point{Values: make(map[string]*float64, len(raw))}
	for k, v := range raw {
		var err error
		switch k {
		case "date":
			err = json.Unmarshal(v, &p.Date)
		case "label":
			err = json.Unmarshal(v, &p.Label)
		default:
			var f *float64
			err = json.Unmarshal(v, &f)
			p.Values[k] = f
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// FormatTrend labels each row for a chart axis ("Jan 2" for daily rows,
// "Jan '06" for monthly rows). Order and length are preserved, nil values are
// passed through and a date that does not parse is used as its own label.
func FormatTrend(rows []Row, g Granularity) []Point {
	out := make([]Point, len(rows))
	for i, r := range rows {
		values := make(map[string]*float64, len(r.Values))
		for k, v := range r.Values {
			if v != nil {
				cp := *v
				v = &cp
			}
			values[k] = v
		}
		out[i] = Point{Date: r.Date, Label: trendLabel(r.Date, g), Values: values}
	}
	return out
}

func trendLabel(date string, g Granularity) string {
	switch g {
	case Monthly:
		if t, err := time.Parse(constants.MonthFormat, date); err == nil {
			return t.Format("Jan '06")
		}
	default:
		if t, err := time.Parse(constants.DateFormat, date); err == nil {
			return t.Format("Jan 2")
		}
	}
	return date
}

// Float returns a pointer to v, for building rows.
func Float(v float64) *float64 {
	return &v
}

// MoodEnergyRows yields one row per day in [today-days+1, today] with the
// mood and energy recorded that day, or nil where nothing was recorded.
func MoodEnergyRows(notes []models.DailyNote, days int, today time.Time) []Row {
	if days <= 0 {
		return []Row{}
	}
	byDate := make(map[string]models.DailyNote, len(notes))
	for _, n := range notes {
		byDate[n.Date] = n
	}

	end := dayOf(today)
	rows := make([]Row, 0, days)
	for d := end - day(days) + 1; d <= end; d++ {
		r := Row{Date: d.String(), Values: map[string]*float64{"mood": nil, "energy": nil}}
		if n, ok := byDate[r.Date]; ok {
			if n.Mood != nil {
				r.Values["mood"] = Float(float64(*n.Mood))
			}
			if n.Energy != nil {
				r.Values["energy"] = Float(float64(*n.Energy))
			}
		}
		rows = append(rows, r)
	}
	return rows
}

// SleepChartRows yields one row per day in the window with hours slept and
// quality, nil where no entry exists.
func SleepChartRows(entries []models.SleepEntry, days int, today time.Time) []Row {
	if days <= 0 {
		return []Row{}
	}
	byDate := make(map[string]models.SleepEntry, len(entries))
	for _, e := range entries {
		byDate[e.Date] = e
	}

	end := dayOf(today)
	rows := make([]Row, 0, days)
	for d := end - day(days) + 1; d <= end; d++ {
		r := Row{Date: d.String(), Values: map[string]*float64{"duration": nil, "quality": nil}}
		if e, ok := byDate[r.Date]; ok {
			if h, ok := NightHours(e); ok {
				r.Values["duration"] = Float(round(h, 2))
			}
			if e.Quality != nil {
				r.Values["quality"] = Float(float64(*e.Quality))
			}
		}
		rows = append(rows, r)
	}
	return rows
}

// MonthTrendRows converts monthly finance totals into trend rows.
func MonthTrendRows(trends []MonthTrend) []Row {
	rows := make([]Row, len(trends))
	for i, t := range trends {
		rows[i] = Row{Date: t.Month, Values: map[string]*float64{
			"income":   Float(t.Income),
			"expenses": Float(t.Expenses),
		}}
	}
	return rows
}
