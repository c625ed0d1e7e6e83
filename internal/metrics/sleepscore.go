package metrics

import (
	"math"

	"github.com/julianstephens/theseus/internal/constants"
	"github.com/julianstephens/theseus/internal/models"
)

// Sleep score policy. The weights sum to one; the penalties are expressed in
// score points.
const (
	DurationWeight    = 0.40
	QualityWeight     = 0.35
	ConsistencyWeight = 0.25

	// DurationPenaltyPerHour is subtracted from 100 for every hour a night
	// deviates from the target, in either direction.
	DurationPenaltyPerHour = 25.0

	// ConsistencyZeroMinutes is the clock-time standard deviation at which
	// the consistency score reaches zero.
	ConsistencyZeroMinutes = 120.0

	// NeutralScore stands in for a component that has no data.
	NeutralScore = 50
)

// SleepComponents are the 0-100 sub-scores.
type SleepComponents struct {
	Duration    int `json:"duration_score"`
	Quality     int `json:"quality_score"`
	Consistency int `json:"consistency_score"`
}

// SleepScore is the composite 0-100 score for a window of nights.
type SleepScore struct {
	Score      int             `json:"score"`
	Components SleepComponents `json:"components"`
	Nights     int             `json:"nights"`
}

// ComposeSleepScore scores a window of sleep entries against targetHours.
// An empty window scores 0 in every component. Within a non-empty window a
// component without usable data is neutral (50); consistency needs at least
// two nights with clock times. A non-positive target falls back to 8 hours.
func ComposeSleepScore(entries []models.SleepEntry, targetHours float64) SleepScore {
	if len(entries) == 0 {
		return SleepScore{}
	}
	if targetHours <= 0 || math.IsNaN(targetHours) || math.IsInf(targetHours, 0) {
		targetHours = constants.DefaultSleepTarget
	}

	c := SleepComponents{
		Duration:    durationScore(entries, targetHours),
		Quality:     qualityScore(entries),
		Consistency: consistencyScore(entries),
	}

	total := DurationWeight*float64(c.Duration) +
		QualityWeight*float64(c.Quality) +
		ConsistencyWeight*float64(c.Consistency)

	return SleepScore{
		Score:      int(math.Round(clamp(total, 0, 100))),
		Components: c,
		Nights:     len(entries),
	}
}

// NightHours returns the slept hours for an entry, deriving them from the
// clock times when no duration was recorded.
func NightHours(e models.SleepEntry) (float64, bool) {
	if e.DurationHours != nil {
		h := *e.DurationHours
		if math.IsNaN(h) || h < 0 {
			return 0, false
		}
		return h, true
	}
	if e.Bedtime != nil && e.WakeTime != nil {
		h := e.WakeTime.Sub(*e.Bedtime).Hours()
		if h >= 0 {
			return h, true
		}
	}
	return 0, false
}

func durationScore(entries []models.SleepEntry, target float64) int {
	var sum float64
	n := 0
	for _, e := range entries {
		h, ok := NightHours(e)
		if !ok {
			continue
		}
		sum += math.Max(0, 100-math.Abs(h-target)*DurationPenaltyPerHour)
		n++
	}
	if n == 0 {
		return NeutralScore
	}
	return int(math.Round(sum / float64(n)))
}

func qualityScore(entries []models.SleepEntry) int {
	var sum float64
	n := 0
	for _, e := range entries {
		if e.Quality == nil {
			continue
		}
		sum += clamp(float64(*e.Quality), 1, 5)
		n++
	}
	if n == 0 {
		return NeutralScore
	}
	mean := sum / float64(n)
	return int(math.Round((mean - 1) / 4 * 100))
}

// consistencyScore averages the spread of bedtimes and wake times. Bedtimes
// are measured from noon so a schedule straddling midnight stays contiguous.
func consistencyScore(entries []models.SleepEntry) int {
	var bed, wake []float64
	for _, e := range entries {
		if e.Bedtime != nil {
			m := e.Bedtime.Hour()*60 + e.Bedtime.Minute()
			bed = append(bed, float64((m-12*60+24*60)%(24*60)))
		}
		if e.WakeTime != nil {
			wake = append(wake, float64(e.WakeTime.Hour()*60+e.WakeTime.Minute()))
		}
	}

	var spreads []float64
	if len(bed) >= 2 {
		spreads = append(spreads, stddev(bed))
	}
	if len(wake) >= 2 {
		spreads = append(spreads, stddev(wake))
	}
	if len(spreads) == 0 {
		return NeutralScore
	}

	var mean float64
	for _, s := range spreads {
		mean += s
	}
	mean /= float64(len(spreads))
	return int(math.Round(clamp(100-mean*100/ConsistencyZeroMinutes, 0, 100)))
}

func stddev(xs []float64) float64 {
	var mean float64
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	var v float64
	for _, x := range xs {
		v += (x - mean) * (x - mean)
	}
	return math.Sqrt(v / float64(len(xs)))
}

// SleepWeekly summarizes a window of nights.
type SleepWeekly struct {
	Entries     []models.SleepEntry `json:"entries"`
	AvgDuration *float64            `json:"avg_duration"`
	AvgQuality  *float64            `json:"avg_quality"`
}

// SummarizeSleep averages duration (2 places) and quality (1 place) over the
// entries that report them. Averages are null when nothing reports them.
func SummarizeSleep(entries []models.SleepEntry) SleepWeekly {
	w := SleepWeekly{Entries: entries}
	if w.Entries == nil {
		w.Entries = []models.SleepEntry{}
	}

	var dSum, qSum float64
	var dN, qN int
	for _, e := range entries {
		if e.DurationHours != nil {
			dSum += *e.DurationHours
			dN++
		}
		if e.Quality != nil {
			qSum += float64(*e.Quality)
			qN++
		}
	}
	if dN > 0 {
		v := round(dSum/float64(dN), 2)
		w.AvgDuration = &v
	}
	if qN > 0 {
		v := round(qSum/float64(qN), 1)
		w.AvgQuality = &v
	}
	return w
}
