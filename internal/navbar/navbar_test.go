package navbar

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/healthboard/healthboard/internal/actions"
	"github.com/healthboard/healthboard/internal/llm"
	"github.com/healthboard/healthboard/internal/obs"
	"github.com/healthboard/healthboard/internal/score"
)

var (
	goodMetrics = score.Metrics{AvgSteps: 9000, AvgHeartRate: 70, AvgSleep: 7.5, AvgWater: 2.2}
	poorMetrics = score.Metrics{AvgSteps: 3000, AvgHeartRate: 90, AvgSleep: 5, AvgWater: 1.0}
)

func fallbackOnly() *Generator {
	return New(nil, llm.Settings{}, time.Second, nil)
}

func withMock(response string, err error) *Generator {
	return New(&llm.Mock{Response: response, Err: err}, llm.Settings{}, time.Second, nil)
}

// --- Greeting ---

func TestGreeting_Fallback(t *testing.T) {
	tests := []struct {
		name      string
		metrics   score.Metrics
		timestamp string
		want      string
	}{
		{"high steps, evening", goodMetrics, "2025-03-01T19:30:00Z", "Good evening! Great job with your steps."},
		{"mid steps, morning", score.Metrics{AvgSteps: 6000}, "2025-03-01T08:00:00Z", "Good morning! Keep moving."},
		{"low steps, afternoon", poorMetrics, "2025-03-01T14:00:00Z", "Good afternoon! Time to get active."},
		{"unparseable timestamp defaults to afternoon", poorMetrics, "not-a-time", "Good afternoon! Time to get active."},
	}
	g := fallbackOnly()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := g.Greeting(context.Background(), tc.metrics, tc.timestamp)
			if got != tc.want {
				t.Errorf("Greeting = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestGreeting_FromProvider(t *testing.T) {
	g := withMock(`"You're crushing it today!"`, nil)
	got := g.Greeting(context.Background(), goodMetrics, "2025-03-01T10:00:00Z")
	if got != "You're crushing it today!" {
		t.Errorf("Greeting = %q", got)
	}
}

func TestGreeting_TruncatesLongResponses(t *testing.T) {
	g := withMock(strings.Repeat("x", 150), nil)
	got := g.Greeting(context.Background(), goodMetrics, "2025-03-01T10:00:00Z")
	if len(got) != 100 || !strings.HasSuffix(got, "...") {
		t.Errorf("len = %d, suffix ok = %v", len(got), strings.HasSuffix(got, "..."))
	}
}

func TestGreeting_TruncatesOnRuneBoundaries(t *testing.T) {
	// 150 two-byte runes; a byte-indexed cut would split one in half.
	g := withMock(strings.Repeat("é", 150), nil)
	got := g.Greeting(context.Background(), goodMetrics, "2025-03-01T10:00:00Z")

	if !utf8.ValidString(got) {
		t.Fatalf("Greeting produced invalid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 100 {
		t.Errorf("rune count = %d, want 100", n)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("missing ellipsis suffix: %q", got)
	}
}

func TestGreeting_ProviderErrorFallsBack(t *testing.T) {
	g := withMock("", errors.New("boom"))
	got := g.Greeting(context.Background(), goodMetrics, "2025-03-01T19:00:00Z")
	if got != "Good evening! Great job with your steps." {
		t.Errorf("Greeting = %q, want fallback", got)
	}
}

// --- StatusBadge ---

func TestStatusBadge_FallbackEqualsCompute(t *testing.T) {
	g := fallbackOnly()
	got := g.StatusBadge(context.Background(), goodMetrics)
	want := score.Compute(goodMetrics)
	if got != want {
		t.Errorf("StatusBadge = %+v, want %+v", got, want)
	}
}

func TestStatusBadge_FromProvider(t *testing.T) {
	g := withMock(`Here you go: {"status": "Good", "color": "blue", "score": 78}`, nil)
	got := g.StatusBadge(context.Background(), goodMetrics)
	if got.Status != score.StatusGood || got.Score != 78 || got.Color != score.ColorBlue {
		t.Errorf("StatusBadge = %+v", got)
	}
}

func TestStatusBadge_ColorReDerivedFromStatus(t *testing.T) {
	// LLM answers with a mismatched color; the 1:1 pairing must win.
	g := withMock(`{"status": "Excellent", "color": "red", "score": 91}`, nil)
	got := g.StatusBadge(context.Background(), goodMetrics)
	if got.Color != score.ColorEmerald {
		t.Errorf("Color = %q, want emerald", got.Color)
	}
}

func TestStatusBadge_InvalidJSONFallsBack(t *testing.T) {
	tests := []string{
		"no json here",
		`{"status": "Superb", "score": 90}`, // unknown status
		`{"status": "Good", "score": 150}`,  // score out of range
	}
	for _, resp := range tests {
		g := withMock(resp, nil)
		got := g.StatusBadge(context.Background(), goodMetrics)
		want := score.Compute(goodMetrics)
		if got != want {
			t.Errorf("response %q: StatusBadge = %+v, want fallback %+v", resp, got, want)
		}
	}
}

// --- Recommendations ---

func TestRecommendations_FallbackByPage(t *testing.T) {
	g := fallbackOnly()
	tests := []struct {
		page      string
		wantPaths []string
	}{
		{"/", []string{"/trends", "/insights"}},
		{"/trends", []string{"/forecast", "/"}},
		{"/insights", []string{"/health-assistant", "/wellness-center"}},
		{"/unknown-page", []string{"/trends", "/insights"}},
	}
	for _, tc := range tests {
		recs := g.Recommendations(context.Background(), goodMetrics, tc.page)
		if len(recs) != 2 {
			t.Fatalf("page %q: got %d recs", tc.page, len(recs))
		}
		for i, want := range tc.wantPaths {
			if recs[i].Path != want {
				t.Errorf("page %q: recs[%d].Path = %q, want %q", tc.page, i, recs[i].Path, want)
			}
		}
	}
}

func TestRecommendations_FromProvider(t *testing.T) {
	g := withMock(`[{"label": "See Sleep Trends", "icon": "TrendingUp", "path": "/trends"},
		{"label": "Ask the Assistant", "icon": "MessageCircle", "path": "/health-assistant"}]`, nil)
	recs := g.Recommendations(context.Background(), goodMetrics, "/")
	if len(recs) != 2 || recs[0].Label != "See Sleep Trends" {
		t.Errorf("recs = %+v", recs)
	}
}

func TestRecommendations_InvalidPathFallsBack(t *testing.T) {
	g := withMock(`[{"label": "Phishing", "path": "https://evil.example"}]`, nil)
	recs := g.Recommendations(context.Background(), goodMetrics, "/")
	if recs[0].Path != "/trends" {
		t.Errorf("recs = %+v, want page fallback", recs)
	}
}

// --- ActionItems ---

func TestActionItems_FallbackEqualsClassify(t *testing.T) {
	g := fallbackOnly()
	got := g.ActionItems(context.Background(), poorMetrics)
	want := actions.Classify(poorMetrics)
	if len(got) != len(want) {
		t.Fatalf("got %d items, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("items[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestActionItems_FromProvider(t *testing.T) {
	g := withMock(`[{"title": "Stretch", "message": "Take a stretch break", "urgency": "low", "action": "/wellness-center"}]`, nil)
	got := g.ActionItems(context.Background(), goodMetrics)
	if len(got) != 1 || got[0].Title != "Stretch" {
		t.Errorf("items = %+v", got)
	}
}

func TestActionItems_BadUrgencyFallsBack(t *testing.T) {
	g := withMock(`[{"title": "X", "message": "Y", "urgency": "apocalyptic", "action": "/"}]`, nil)
	got := g.ActionItems(context.Background(), goodMetrics)
	if len(got) != 1 || got[0].Title != "Keep it Up!" {
		t.Errorf("items = %+v, want classifier fallback", got)
	}
}

// --- HealthAlert ---

func TestHealthAlert_NilOnNoAnomalies(t *testing.T) {
	// Must be nil even with a provider configured — the gate runs first.
	g := withMock(`{"type": "critical", "message": "should not be used", "details": "x"}`, nil)
	if got := g.HealthAlert(context.Background(), nil); got != nil {
		t.Errorf("HealthAlert(nil) = %+v, want nil", got)
	}
}

func TestHealthAlert_FallbackEqualsClassifyAlert(t *testing.T) {
	anomalies := []actions.Anomaly{{Reason: "Urgent: heart rate spike"}, {Reason: "low water"}}
	g := fallbackOnly()
	got := g.HealthAlert(context.Background(), anomalies)
	want := actions.ClassifyAlert(anomalies)
	if got == nil || *got != *want {
		t.Errorf("HealthAlert = %+v, want %+v", got, want)
	}
}

func TestHealthAlert_FromProvider(t *testing.T) {
	g := withMock(`{"type": "warning", "message": "Hydration slipping", "details": "2 low-water days"}`, nil)
	got := g.HealthAlert(context.Background(), []actions.Anomaly{{Reason: "low water"}})
	if got == nil || got.Message != "Hydration slipping" {
		t.Errorf("HealthAlert = %+v", got)
	}
}

// --- Chat ---

func TestChat_NoProvider(t *testing.T) {
	g := fallbackOnly()
	got := g.Chat(context.Background(), "how am I doing?", nil)
	if got != chatUnavailable {
		t.Errorf("Chat = %q", got)
	}
}

func TestChat_FromProvider(t *testing.T) {
	g := withMock("You're doing great — keep the streak going.", nil)
	got := g.Chat(context.Background(), "how am I doing?", nil)
	if got != "You're doing great — keep the streak going." {
		t.Errorf("Chat = %q", got)
	}
}

// --- counters ---

func TestCountersTrackFallbacks(t *testing.T) {
	var c obs.Counters
	g := New(nil, llm.Settings{}, time.Second, &c)
	g.Greeting(context.Background(), goodMetrics, "2025-03-01T10:00:00Z")
	g.StatusBadge(context.Background(), goodMetrics)
	if c.Fallbacks() != 2 {
		t.Errorf("Fallbacks = %d, want 2", c.Fallbacks())
	}
	if c.Generations() != 0 {
		t.Errorf("Generations = %d, want 0", c.Generations())
	}
}
