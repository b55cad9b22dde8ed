package navbar

import (
	"fmt"
	"time"

	"github.com/healthboard/healthboard/internal/score"
)

// fallbackGreeting builds the deterministic greeting: time-of-day salutation
// plus a steps encouragement band.
func fallbackGreeting(m score.Metrics, timestamp string) string {
	var stepsStatus string
	switch {
	case m.AvgSteps >= 8000:
		stepsStatus = "Great job with your steps"
	case m.AvgSteps >= 5000:
		stepsStatus = "Keep moving"
	default:
		stepsStatus = "Time to get active"
	}
	return fmt.Sprintf("Good %s! %s.", timeOfDay(timestamp), stepsStatus)
}

// timeOfDay buckets an RFC3339 timestamp into morning/afternoon/evening.
// Unparseable timestamps default to afternoon.
func timeOfDay(timestamp string) string {
	hour := 12
	if t, err := time.Parse(time.RFC3339, timestamp); err == nil {
		hour = t.Hour()
	}
	switch {
	case hour < 12:
		return "morning"
	case hour < 17:
		return "afternoon"
	default:
		return "evening"
	}
}

// fallbackRecommendations maps the current page to two fixed navigation
// suggestions. Unknown pages get the dashboard's defaults.
func fallbackRecommendations(currentPage string) []Recommendation {
	switch currentPage {
	case "/trends":
		return []Recommendation{
			{Label: "Check Forecast", Icon: "Zap", Path: "/forecast"},
			{Label: "View Dashboard", Icon: "BarChart3", Path: "/"},
		}
	case "/insights":
		return []Recommendation{
			{Label: "Chat with AI", Icon: "MessageCircle", Path: "/health-assistant"},
			{Label: "Wellness Hub", Icon: "Heart", Path: "/wellness-center"},
		}
	default:
		return []Recommendation{
			{Label: "View Trends", Icon: "TrendingUp", Path: "/trends"},
			{Label: "Get Insights", Icon: "Lightbulb", Path: "/insights"},
		}
	}
}
