package alerts

import (
	"strconv"
	"strings"
)

// evalCondition evaluates a rule condition string against a Snapshot.
//
// Supported expressions (field operator value):
//
//	score < 40
//	avg_steps < 3000
//	avg_heart_rate > 100
//	avg_sleep < 5
//	avg_water < 1
//	anomaly_count > 3
//	status == Excellent
//	status == Needs Attention
//
// Returns (fires bool, triggering value float64).
// Returns (false, 0) if the expression cannot be parsed or the field is unknown.
func evalCondition(cond string, snap Snapshot) (bool, float64) {
	parts := strings.Fields(cond)
	if len(parts) < 3 {
		return false, 0
	}
	// Status values may contain spaces ("Needs Attention"), so the right-hand
	// side is everything after the operator.
	field, op, rhs := parts[0], parts[1], strings.Join(parts[2:], " ")

	if field == "status" {
		if op == "==" {
			return strings.EqualFold(snap.Status, rhs), snap.Score
		}
		return false, 0
	}

	v, ok := numericField(field, snap)
	if !ok {
		return false, 0
	}
	threshold, err := strconv.ParseFloat(rhs, 64)
	if err != nil {
		return false, 0
	}
	return compareFloat(v, op, threshold), v
}

// numericField maps a field name to its value in the snapshot.
func numericField(field string, snap Snapshot) (float64, bool) {
	switch field {
	case "score":
		return snap.Score, true
	case "avg_steps":
		return snap.AvgSteps, true
	case "avg_heart_rate":
		return snap.AvgHeartRate, true
	case "avg_sleep":
		return snap.AvgSleep, true
	case "avg_water":
		return snap.AvgWater, true
	case "anomaly_count":
		return float64(snap.AnomalyCount), true
	default:
		return 0, false
	}
}

// compareFloat applies a comparison operator to two float64 values.
func compareFloat(v float64, op string, threshold float64) bool {
	switch op {
	case ">":
		return v > threshold
	case ">=":
		return v >= threshold
	case "<":
		return v < threshold
	case "<=":
		return v <= threshold
	case "==":
		return v == threshold
	default:
		return false
	}
}
