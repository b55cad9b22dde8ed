package actions

import (
	"github.com/healthboard/healthboard/internal/score"
)

// Urgency levels carried on each action item.
const (
	UrgencyHigh   = "high"
	UrgencyMedium = "medium"
	UrgencyLow    = "low"
)

// Trigger thresholds for the rule set. Fixed constants, not configurable.
const (
	lowStepsThreshold     = 5000.0
	lowSleepThreshold     = 6.5
	elevatedHeartRateOver = 85.0
	lowWaterThreshold     = 1.5
)

// Dashboard routes an item's action navigates to.
const (
	routeHome      = "/"
	routeInsights  = "/insights"
	routeAssistant = "/health-assistant"
	routeWellness  = "/wellness-center"
)

// Item is one prioritized suggestion surfaced to the user.
type Item struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Urgency string `json:"urgency"`

	// Action is the dashboard route activated when the item is clicked.
	Action string `json:"action"`
}

// Classify evaluates the fixed trigger rules against the metrics and returns
// the matching action items, highest display priority first. Each rule
// contributes at most one item; rule order — not urgency — determines the
// display order. The result is never empty: when no rule triggers, a single
// low-urgency reinforcement item is returned.
func Classify(m score.Metrics) []Item {
	var items []Item

	if m.AvgSteps < lowStepsThreshold {
		items = append(items, Item{
			Title:   "Low Activity",
			Message: "Try taking a 15-minute walk",
			Urgency: UrgencyHigh,
			Action:  routeWellness,
		})
	}

	if m.AvgSleep < lowSleepThreshold {
		items = append(items, Item{
			Title:   "Inadequate Sleep",
			Message: "Aim for 7-9 hours tonight",
			Urgency: UrgencyHigh,
			Action:  routeInsights,
		})
	}

	if m.AvgHeartRate > elevatedHeartRateOver {
		items = append(items, Item{
			Title:   "Elevated Heart Rate",
			Message: "Practice some relaxation techniques",
			Urgency: UrgencyMedium,
			Action:  routeAssistant,
		})
	}

	if m.AvgWater < lowWaterThreshold {
		items = append(items, Item{
			Title:   "Low Hydration",
			Message: "Increase water intake today",
			Urgency: UrgencyMedium,
			Action:  routeWellness,
		})
	}

	if len(items) == 0 {
		items = append(items, Item{
			Title:   "Keep it Up!",
			Message: "Your health metrics look great",
			Urgency: UrgencyLow,
			Action:  routeHome,
		})
	}

	return items
}
