package dataset

import (
	"fmt"
	"math"

	"github.com/healthboard/healthboard/internal/actions"
	"github.com/healthboard/healthboard/internal/score"
)

// summaryWindow is the number of most recent days averaged into the summary.
const summaryWindow = 7

// Metric keys used in trends and timeseries output.
var metricKeys = []string{"steps", "heart_rate", "sleep", "water"}

// Anomaly detection thresholds.
const (
	anomalyHeartRateOver = 100.0
	anomalySleepUnder    = 5.0
	anomalyWaterUnder    = 1.0

	// anomalyStepsFraction flags a day whose steps fall below this fraction
	// of the dataset mean.
	anomalyStepsFraction = 0.40
)

// stableTrendPct is the relative change below which a trend is "stable".
const stableTrendPct = 5.0

// Summary holds the rolling averages rendered on the dashboard header.
type Summary struct {
	StepsAvg7d     float64 `json:"steps_avg_7d"`
	HeartRateAvg7d float64 `json:"heart_rate_avg_7d"`
	SleepAvg7d     float64 `json:"sleep_avg_7d"`
	WaterAvg7d     float64 `json:"water_avg_7d"`
	Days           int     `json:"days"`
}

// Trend describes the direction of one metric across the dataset.
type Trend struct {
	Metric    string  `json:"metric"`
	Direction string  `json:"direction"` // "up" | "down" | "stable"
	ChangePct float64 `json:"change_pct"`
}

// Point is one sample in a per-metric chart series.
type Point struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Summary averages the most recent summaryWindow records.
func (d *Dataset) Summary() Summary {
	recs := d.Records
	if len(recs) > summaryWindow {
		recs = recs[len(recs)-summaryWindow:]
	}

	var s Summary
	for _, r := range recs {
		s.StepsAvg7d += r.Steps
		s.HeartRateAvg7d += r.HeartRate
		s.SleepAvg7d += r.Sleep
		s.WaterAvg7d += r.Water
	}
	n := float64(len(recs))
	if n > 0 {
		s.StepsAvg7d /= n
		s.HeartRateAvg7d /= n
		s.SleepAvg7d /= n
		s.WaterAvg7d /= n
	}
	s.Days = len(recs)
	return s
}

// Metrics converts the dataset summary into the scoring input shape.
func (d *Dataset) Metrics() score.Metrics {
	s := d.Summary()
	return score.Metrics{
		AvgSteps:     s.StepsAvg7d,
		AvgHeartRate: s.HeartRateAvg7d,
		AvgSleep:     s.SleepAvg7d,
		AvgWater:     s.WaterAvg7d,
	}
}

// Trends compares the mean of the first and second halves of the dataset for
// each metric. Datasets shorter than two days report every metric as stable.
func (d *Dataset) Trends() []Trend {
	out := make([]Trend, 0, len(metricKeys))
	for _, key := range metricKeys {
		out = append(out, d.trendFor(key))
	}
	return out
}

func (d *Dataset) trendFor(key string) Trend {
	t := Trend{Metric: key, Direction: "stable"}
	n := len(d.Records)
	if n < 2 {
		return t
	}

	half := n / 2
	first := meanOf(d.Records[:half], key)
	second := meanOf(d.Records[n-half:], key)
	if first == 0 {
		if second > 0 {
			t.Direction = "up"
			t.ChangePct = 100
		}
		return t
	}

	t.ChangePct = (second - first) / first * 100
	switch {
	case t.ChangePct > stableTrendPct:
		t.Direction = "up"
	case t.ChangePct < -stableTrendPct:
		t.Direction = "down"
	}
	return t
}

// Anomalies scans every record for out-of-band values. Heart rate spikes are
// tagged with the urgent marker so the alert classifier escalates them.
func (d *Dataset) Anomalies() []actions.Anomaly {
	var out []actions.Anomaly
	stepsMean := meanOf(d.Records, "steps")

	for _, r := range d.Records {
		day := r.Date.Format("2006-01-02")

		if r.HeartRate > anomalyHeartRateOver {
			out = append(out, actions.Anomaly{
				Reason: fmt.Sprintf("Urgent: resting heart rate %.0f bpm on %s", r.HeartRate, day),
				Metric: "heart_rate",
				Date:   day,
				Value:  r.HeartRate,
			})
		}
		if r.Sleep > 0 && r.Sleep < anomalySleepUnder {
			out = append(out, actions.Anomaly{
				Reason: fmt.Sprintf("Only %.1f hours of sleep on %s", r.Sleep, day),
				Metric: "sleep",
				Date:   day,
				Value:  r.Sleep,
			})
		}
		if stepsMean > 0 && r.Steps < stepsMean*anomalyStepsFraction {
			out = append(out, actions.Anomaly{
				Reason: fmt.Sprintf("Step count dropped to %.0f on %s", r.Steps, day),
				Metric: "steps",
				Date:   day,
				Value:  r.Steps,
			})
		}
		if r.Water > 0 && r.Water < anomalyWaterUnder {
			out = append(out, actions.Anomaly{
				Reason: fmt.Sprintf("Low water intake (%.1fL) on %s", r.Water, day),
				Metric: "water",
				Date:   day,
				Value:  r.Water,
			})
		}
	}
	return out
}

// Timeseries reshapes the row-major records into per-metric chart series,
// one ordered []Point per metric key.
func (d *Dataset) Timeseries() map[string][]Point {
	out := make(map[string][]Point, len(metricKeys))
	for _, key := range metricKeys {
		series := make([]Point, 0, len(d.Records))
		for _, r := range d.Records {
			series = append(series, Point{
				Date:  r.Date.Format("2006-01-02"),
				Value: valueOf(r, key),
			})
		}
		out[key] = series
	}
	return out
}

func valueOf(r Record, key string) float64 {
	switch key {
	case "steps":
		return r.Steps
	case "heart_rate":
		return r.HeartRate
	case "sleep":
		return r.Sleep
	case "water":
		return r.Water
	default:
		return math.NaN()
	}
}

func meanOf(recs []Record, key string) float64 {
	if len(recs) == 0 {
		return 0
	}
	var total float64
	for _, r := range recs {
		total += valueOf(r, key)
	}
	return total / float64(len(recs))
}
