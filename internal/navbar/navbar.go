package navbar

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/healthboard/healthboard/internal/actions"
	"github.com/healthboard/healthboard/internal/dataset"
	"github.com/healthboard/healthboard/internal/llm"
	"github.com/healthboard/healthboard/internal/obs"
	"github.com/healthboard/healthboard/internal/score"
)

// maxGreetingLen caps LLM greetings before they reach the navbar.
const maxGreetingLen = 100

// defaultTimeout bounds each LLM call when no timeout is configured.
const defaultTimeout = 15 * time.Second

// chatUnavailable is returned when no provider is configured or the call fails.
const chatUnavailable = "AI chat is not available right now."

// Recommendation is one suggested navigation target.
type Recommendation struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Path  string `json:"path"`
}

// Generator produces navbar content. Every method tries the LLM provider
// first and falls back to the deterministic local rules on any failure —
// missing provider, transport error, or unusable output. The fallbacks are
// the contract; the LLM only ever improves the wording.
type Generator struct {
	provider llm.Provider // nil means fallback-only
	settings llm.Settings
	timeout  time.Duration
	counters *obs.Counters
}

// New creates a Generator. provider may be nil; counters may be nil.
func New(provider llm.Provider, settings llm.Settings, timeout time.Duration, counters *obs.Counters) *Generator {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Generator{provider: provider, settings: settings, timeout: timeout, counters: counters}
}

// HasProvider reports whether an LLM provider is configured.
func (g *Generator) HasProvider() bool { return g.provider != nil }

// Greeting returns a short personalized greeting for the navbar.
func (g *Generator) Greeting(ctx context.Context, m score.Metrics, timestamp string) string {
	prompt := fmt.Sprintf(`Generate a brief, friendly greeting (max 20 words) for a health tracking app based on these metrics:
- Steps today: %.0f
- Heart rate: %.0f bpm
- Sleep last night: %.1f hours
- Water intake: %.1fL

Time: %s

Keep it encouraging and personalized. No JSON, just the greeting text.`,
		m.AvgSteps, m.AvgHeartRate, m.AvgSleep, m.AvgWater, timestamp)

	text, err := g.generate(ctx, prompt)
	if err != nil {
		return g.fellBack("greeting", err, fallbackGreeting(m, timestamp))
	}

	greeting := strings.Trim(strings.TrimSpace(text), `"`)
	if greeting == "" {
		return g.fellBack("greeting", fmt.Errorf("empty response"), fallbackGreeting(m, timestamp))
	}
	// Truncate on rune boundaries; providers are free to answer in any script.
	if runes := []rune(greeting); len(runes) > maxGreetingLen {
		greeting = string(runes[:maxGreetingLen-3]) + "..."
	}
	g.generated()
	return greeting
}

// StatusBadge returns the health status badge. The LLM's answer is accepted
// only if it is a valid status with an in-range score; the color is always
// re-derived from the status so the 1:1 pairing holds.
func (g *Generator) StatusBadge(ctx context.Context, m score.Metrics) score.Result {
	prompt := fmt.Sprintf(`Assess the health status based on these metrics:
- Steps: %.0f steps/day
- Heart Rate: %.0f bpm
- Sleep: %.1f hours
- Water: %.1fL/day

Provide JSON response with:
- status: One of "Excellent", "Good", "Fair", "Needs Attention"
- color: One of "emerald", "blue", "yellow", "red"
- score: 0-100 health score

Example: {"status": "Good", "color": "blue", "score": 78}`,
		m.AvgSteps, m.AvgHeartRate, m.AvgSleep, m.AvgWater)

	text, err := g.generate(ctx, prompt)
	if err != nil {
		return g.badgeFellBack(err, m)
	}

	raw, ok := extractObject(text)
	if !ok {
		return g.badgeFellBack(fmt.Errorf("no JSON object in response"), m)
	}
	var badge struct {
		Status string `json:"status"`
		Score  int    `json:"score"`
	}
	if err := json.Unmarshal([]byte(raw), &badge); err != nil {
		return g.badgeFellBack(err, m)
	}
	if !validStatus(badge.Status) || badge.Score < 0 || badge.Score > 100 {
		return g.badgeFellBack(fmt.Errorf("invalid badge %+v", badge), m)
	}

	g.generated()
	return score.Result{
		Score:  badge.Score,
		Status: badge.Status,
		Color:  score.ColorFor(badge.Status),
		Raw:    float64(badge.Score) / 100,
	}
}

// Recommendations returns up to two suggested navigation targets for the
// current page.
func (g *Generator) Recommendations(ctx context.Context, m score.Metrics, currentPage string) []Recommendation {
	prompt := fmt.Sprintf(`Based on health metrics, suggest 2 next actions for a health tracking app user:
- Steps: %.0f/day
- Heart Rate: %.0f bpm
- Sleep: %.1f hours
- Water: %.1fL
- Current page: %s

Respond with JSON array of 2 recommendations with "label" and "path" fields.
Paths should be: /trends, /insights, /forecast, /health-assistant, /wellness-center, /

Example: [{"label": "View Sleep Trends", "icon": "TrendingUp", "path": "/trends"}, ...]`,
		m.AvgSteps, m.AvgHeartRate, m.AvgSleep, m.AvgWater, currentPage)

	text, err := g.generate(ctx, prompt)
	if err != nil {
		return g.recsFellBack(err, currentPage)
	}

	raw, ok := extractArray(text)
	if !ok {
		return g.recsFellBack(fmt.Errorf("no JSON array in response"), currentPage)
	}
	var recs []Recommendation
	if err := json.Unmarshal([]byte(raw), &recs); err != nil {
		return g.recsFellBack(err, currentPage)
	}
	if len(recs) == 0 {
		return g.recsFellBack(fmt.Errorf("empty recommendations"), currentPage)
	}
	if len(recs) > 2 {
		recs = recs[:2]
	}
	for _, r := range recs {
		if r.Label == "" || !validPath(r.Path) {
			return g.recsFellBack(fmt.Errorf("invalid recommendation %+v", r), currentPage)
		}
	}

	g.generated()
	return recs
}

// ActionItems returns prioritized health suggestions. Invalid or empty LLM
// output falls back to the deterministic classifier.
func (g *Generator) ActionItems(ctx context.Context, m score.Metrics) []actions.Item {
	prompt := fmt.Sprintf(`Generate 1-2 actionable health recommendations based on these metrics:
- Steps: %.0f/day
- Heart Rate: %.0f bpm
- Sleep: %.1f hours
- Water: %.1fL

Respond with JSON array with fields: title, message, urgency (high/medium/low), action (route path).

Example: [{"title": "Low Activity", "message": "Try a 15-minute walk", "urgency": "high", "action": "/wellness-center"}]`,
		m.AvgSteps, m.AvgHeartRate, m.AvgSleep, m.AvgWater)

	text, err := g.generate(ctx, prompt)
	if err != nil {
		return g.itemsFellBack(err, m)
	}

	raw, ok := extractArray(text)
	if !ok {
		return g.itemsFellBack(fmt.Errorf("no JSON array in response"), m)
	}
	var items []actions.Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return g.itemsFellBack(err, m)
	}
	if len(items) == 0 {
		return g.itemsFellBack(fmt.Errorf("empty items"), m)
	}
	for i := range items {
		if items[i].Title == "" || items[i].Message == "" || !validUrgency(items[i].Urgency) {
			return g.itemsFellBack(fmt.Errorf("invalid item %+v", items[i]), m)
		}
		if items[i].Action == "" {
			items[i].Action = "/"
		}
	}

	g.generated()
	return items
}

// HealthAlert summarizes anomalies into a single alert, or nil when there
// are none. The anomaly gate runs before any LLM call.
func (g *Generator) HealthAlert(ctx context.Context, anomalies []actions.Anomaly) *actions.Alert {
	if len(anomalies) == 0 {
		return nil
	}

	var reasons strings.Builder
	for _, a := range anomalies {
		reason := a.Reason
		if reason == "" {
			reason = "Unknown issue"
		}
		fmt.Fprintf(&reasons, "- %s\n", reason)
	}

	prompt := fmt.Sprintf(`Create a brief health alert based on these anomalies:
%s
Respond with JSON: {"type": "critical" or "warning", "message": "...", "details": "..."}
Keep message under 60 chars, details under 100 chars.`, reasons.String())

	text, err := g.generate(ctx, prompt)
	if err != nil {
		return g.alertFellBack(err, anomalies)
	}

	raw, ok := extractObject(text)
	if !ok {
		return g.alertFellBack(fmt.Errorf("no JSON object in response"), anomalies)
	}
	var alert actions.Alert
	if err := json.Unmarshal([]byte(raw), &alert); err != nil {
		return g.alertFellBack(err, anomalies)
	}
	if (alert.Type != actions.AlertCritical && alert.Type != actions.AlertWarning) || alert.Message == "" {
		return g.alertFellBack(fmt.Errorf("invalid alert %+v", alert), anomalies)
	}

	g.generated()
	return &alert
}

// Chat answers a free-form question, optionally grounded in an uploaded
// dataset's summary. Unlike the navbar methods there is no deterministic
// equivalent; the fallback is a fixed unavailable message.
func (g *Generator) Chat(ctx context.Context, message string, summary *dataset.Summary) string {
	var contextPrompt string
	if summary != nil {
		contextPrompt = fmt.Sprintf(`User's Health Data:
- Steps: %.0f/day
- Heart Rate: %.0f bpm
- Sleep: %.1f hours
- Water: %.1fL

`, summary.StepsAvg7d, summary.HeartRateAvg7d, summary.SleepAvg7d, summary.WaterAvg7d)
	}

	prompt := fmt.Sprintf(`You are a helpful health assistant. %s
User Question: %s

Provide a helpful, personalized response.`, contextPrompt, message)

	text, err := g.generate(ctx, prompt)
	if err != nil {
		slog.Warn("navbar: chat generation failed", "err", err)
		if g.counters != nil {
			g.counters.IncFallback()
		}
		return chatUnavailable
	}
	g.generated()
	return strings.TrimSpace(text)
}

// --- internal ---------------------------------------------------------------

// generate runs one provider call under the configured timeout.
func (g *Generator) generate(ctx context.Context, prompt string) (string, error) {
	if g.provider == nil {
		return "", llm.ErrNoProvider
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return g.provider.Generate(ctx, prompt, g.settings)
}

func (g *Generator) generated() {
	if g.counters != nil {
		g.counters.IncGeneration()
	}
}

// fellBack logs the failure, bumps the fallback counter, and returns v.
func (g *Generator) fellBack(kind string, err error, v string) string {
	g.noteFallback(kind, err)
	return v
}

func (g *Generator) badgeFellBack(err error, m score.Metrics) score.Result {
	g.noteFallback("status-badge", err)
	return score.Compute(m)
}

func (g *Generator) recsFellBack(err error, currentPage string) []Recommendation {
	g.noteFallback("recommendations", err)
	return fallbackRecommendations(currentPage)
}

func (g *Generator) itemsFellBack(err error, m score.Metrics) []actions.Item {
	g.noteFallback("action-items", err)
	return actions.Classify(m)
}

func (g *Generator) alertFellBack(err error, anomalies []actions.Anomaly) *actions.Alert {
	g.noteFallback("health-alert", err)
	return actions.ClassifyAlert(anomalies)
}

func (g *Generator) noteFallback(kind string, err error) {
	// A missing provider is the normal degraded mode — not worth a log line
	// per request.
	if g.provider != nil {
		slog.Warn("navbar: generation fell back", "kind", kind, "provider", g.provider.Name(), "err", err)
	}
	if g.counters != nil {
		g.counters.IncFallback()
	}
}

func validStatus(s string) bool {
	switch s {
	case score.StatusExcellent, score.StatusGood, score.StatusFair, score.StatusNeedsAttention:
		return true
	}
	return false
}

func validUrgency(u string) bool {
	switch u {
	case actions.UrgencyHigh, actions.UrgencyMedium, actions.UrgencyLow:
		return true
	}
	return false
}

func validPath(p string) bool {
	switch p {
	case "/", "/trends", "/insights", "/forecast", "/health-assistant", "/wellness-center":
		return true
	}
	return false
}
