package score

import (
	"errors"
	"fmt"
	"math"
)

// Weight constants for the wellness score formula.
// They must sum to 1.0.
const (
	weightSteps = 0.30
	weightSleep = 0.30
	weightHeart = 0.20
	weightWater = 0.20
)

// Reference values each metric is scaled against. Steps, sleep, and water
// are "more is better" up to the reference; heart rate is centred on a
// target instead, since it has a healthy band rather than a direction.
const (
	refSteps        = 10000.0
	refSleepHours   = 8.0
	refWaterLiters  = 2.5
	targetHeartRate = 70.0
)

// Status constants returned by the score calculator. The string values are
// the wire representation rendered by the dashboard badge.
const (
	StatusExcellent      = "Excellent"
	StatusGood           = "Good"
	StatusFair           = "Fair"
	StatusNeedsAttention = "Needs Attention"
)

// Color constants; each status maps 1:1 to a color tag.
const (
	ColorEmerald = "emerald"
	ColorBlue    = "blue"
	ColorYellow  = "yellow"
	ColorRed     = "red"
)

// Thresholds that map the raw score fraction to a status, evaluated in
// descending order with first match winning.
const (
	ThresholdExcellent = 0.80
	ThresholdGood      = 0.60
	ThresholdFair      = 0.40
)

// ErrInvalidMetrics is returned by Validate when a metric field is negative
// or not a number. Compute itself never validates; callers normalise at the
// boundary.
var ErrInvalidMetrics = errors.New("invalid metrics")

// Metrics holds the four daily health averages fed into the score formula.
// Missing values must be normalised to zero by the caller before scoring.
type Metrics struct {
	// AvgSteps is the average step count per day.
	AvgSteps float64 `json:"avgSteps"`

	// AvgHeartRate is the average resting heart rate in beats per minute.
	AvgHeartRate float64 `json:"avgHeartRate"`

	// AvgSleep is the average sleep duration in hours.
	AvgSleep float64 `json:"avgSleep"`

	// AvgWater is the average water intake in liters per day.
	AvgWater float64 `json:"avgWater"`
}

// Result is the output of the wellness score calculation.
type Result struct {
	// Score is the composite wellness score, rounded and clamped to 0–100.
	Score int `json:"score"`

	// Status is one of the Status* constants, derived from the raw fraction.
	Status string `json:"status"`

	// Color is the badge color tag paired 1:1 with Status.
	Color string `json:"color"`

	// Raw is the unclamped score fraction. Nominally in [0, 1] but can
	// exceed 1 when steps/sleep/water exceed their reference values, and
	// can go negative when heart rate deviates from target by more than
	// 100 bpm. Status is always derived from Raw, not from Score.
	Raw float64 `json:"-"`

	// The four weighted terms that sum to Raw. Useful for rendering
	// per-dimension breakdowns in the UI.
	StepsTerm float64 `json:"-"`
	SleepTerm float64 `json:"-"`
	HeartTerm float64 `json:"-"`
	WaterTerm float64 `json:"-"`
}

// Compute calculates the composite wellness score from the given metrics.
//
// Formula:
//
//	raw = (avgSteps/10000)                  * 0.30 +
//	      (avgSleep/8)                      * 0.30 +
//	      ((100 - |avgHeartRate - 70|)/100) * 0.20 +
//	      (avgWater/2.5)                    * 0.20
//
// The reported Score is round(raw*100) clamped to [0, 100]; the status
// thresholds are applied to the unclamped raw fraction. Compute is a pure
// function, total over its numeric domain.
func Compute(m Metrics) Result {
	stepsTerm := m.AvgSteps / refSteps * weightSteps
	sleepTerm := m.AvgSleep / refSleepHours * weightSleep
	heartTerm := (100 - math.Abs(m.AvgHeartRate-targetHeartRate)) / 100 * weightHeart
	waterTerm := m.AvgWater / refWaterLiters * weightWater

	raw := stepsTerm + sleepTerm + heartTerm + waterTerm
	status := statusFromRaw(raw)

	return Result{
		Score:     clampScore(int(math.Round(raw * 100))),
		Status:    status,
		Color:     ColorFor(status),
		Raw:       raw,
		StepsTerm: stepsTerm,
		SleepTerm: sleepTerm,
		HeartTerm: heartTerm,
		WaterTerm: waterTerm,
	}
}

// Validate checks that every metric field is a non-negative number.
// It is intended for the HTTP boundary; Compute does not call it.
func Validate(m Metrics) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"avgSteps", m.AvgSteps},
		{"avgHeartRate", m.AvgHeartRate},
		{"avgSleep", m.AvgSleep},
		{"avgWater", m.AvgWater},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) {
			return fmt.Errorf("%w: %s is not a number", ErrInvalidMetrics, f.name)
		}
		if f.value < 0 {
			return fmt.Errorf("%w: %s must be non-negative, got %g", ErrInvalidMetrics, f.name, f.value)
		}
	}
	return nil
}

// ColorFor returns the badge color paired with a status. Unknown statuses
// map to red so a broken upstream value is rendered conservatively.
func ColorFor(status string) string {
	switch status {
	case StatusExcellent:
		return ColorEmerald
	case StatusGood:
		return ColorBlue
	case StatusFair:
		return ColorYellow
	default:
		return ColorRed
	}
}

// statusFromRaw maps a raw score fraction to a named status.
func statusFromRaw(raw float64) string {
	switch {
	case raw >= ThresholdExcellent:
		return StatusExcellent
	case raw >= ThresholdGood:
		return StatusGood
	case raw >= ThresholdFair:
		return StatusFair
	default:
		return StatusNeedsAttention
	}
}

// clampScore restricts the reported integer score to [0, 100].
func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
