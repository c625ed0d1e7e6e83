package metrics

import (
	"math"
	"time"

	"github.com/julianstephens/theseus/internal/constants"
)

// A day is a calendar date counted from the Unix epoch. Working in whole
// days keeps the calculations free of DST and time-of-day effects.
type day int64

func dayOf(t time.Time) day {
	y, m, d := t.Date()
	return day(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

func parseDay(s string) (day, bool) {
	t, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		return 0, false
	}
	return dayOf(t), true
}

func (d day) time() time.Time {
	return time.Unix(int64(d)*86400, 0).UTC()
}

func (d day) String() string {
	return d.time().Format(constants.DateFormat)
}

// weekday returns 0 for Sunday through 6 for Saturday.
func (d day) weekday() int {
	return int(d.time().Weekday())
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
