package api

import (
	"github.com/healthboard/healthboard/internal/actions"
	"github.com/healthboard/healthboard/internal/dataset"
	"github.com/healthboard/healthboard/internal/navbar"
	"github.com/healthboard/healthboard/internal/score"
)

// MetricsRequest is the common body for the AI endpoints that evaluate a
// set of daily averages.
type MetricsRequest struct {
	Metrics score.Metrics `json:"metrics"`
}

// GreetingRequest is the body for POST /ai/navbar-greeting.
type GreetingRequest struct {
	Metrics   score.Metrics `json:"metrics"`
	Timestamp string        `json:"timestamp"` // RFC3339; optional
}

// RecommendationsRequest is the body for POST /ai/nav-recommendations.
type RecommendationsRequest struct {
	Metrics     score.Metrics `json:"metrics"`
	CurrentPage string        `json:"currentPage"`
}

// AlertRequest is the body for POST /ai/health-alert.
type AlertRequest struct {
	Anomalies []actions.Anomaly `json:"anomalies"`
}

// ChatRequest is the body for POST /chat. DataID optionally grounds the
// answer in a previously uploaded dataset.
type ChatRequest struct {
	Message string `json:"message"`
	DataID  string `json:"data_id,omitempty"`
}

// UploadResponse is the payload for POST /upload.
type UploadResponse struct {
	Status     string          `json:"status"`
	DataID     string          `json:"data_id"`
	Summary    dataset.Summary `json:"summary"`
	AIEnhanced bool            `json:"ai_enhanced"`
}

// SummaryResponse is the payload for GET /data/{id}/summary.
type SummaryResponse struct {
	DataID  string          `json:"data_id"`
	UserID  string          `json:"user_id,omitempty"`
	Summary dataset.Summary `json:"summary"`
	Score   score.Result    `json:"score"`
}

// TrendsResponse is the payload for GET /data/{id}/trends.
type TrendsResponse struct {
	DataID     string                     `json:"data_id"`
	Trends     []dataset.Trend            `json:"trends"`
	Timeseries map[string][]dataset.Point `json:"timeseries"`
}

// AnomaliesResponse is the payload for GET /data/{id}/anomalies.
type AnomaliesResponse struct {
	DataID    string            `json:"data_id"`
	Anomalies []actions.Anomaly `json:"anomalies"`
	Alert     *actions.Alert    `json:"alert"`
}

// GreetingResponse is the payload for POST /ai/navbar-greeting.
type GreetingResponse struct {
	Greeting string `json:"greeting"`
}

// RecommendationsResponse is the payload for POST /ai/nav-recommendations.
type RecommendationsResponse struct {
	Recommendations []navbar.Recommendation `json:"recommendations"`
}

// ActionItemsResponse is the payload for POST /ai/action-items.
type ActionItemsResponse struct {
	ActionItems []actions.Item `json:"action_items"`
}

// AlertResponse is the payload for POST /ai/health-alert. Alert is null when
// no anomalies were supplied.
type AlertResponse struct {
	Alert *actions.Alert `json:"alert"`
}

// ChatResponse is the payload for POST /chat.
type ChatResponse struct {
	Response string `json:"response"`
}

// SessionsResponse is the payload for GET /sessions/{user_id}.
type SessionsResponse struct {
	UserID   string   `json:"user_id"`
	Sessions []string `json:"sessions"`
}

// HealthResponse is the payload for GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Datasets  int    `json:"datasets"`
	AIEnabled bool   `json:"ai_enabled"`
}

// SnapshotResponse is the envelope broadcast to WebSocket dashboard clients
// and reused by the live snapshot builder.
type SnapshotResponse struct {
	DataID      string          `json:"data_id,omitempty"`
	Summary     dataset.Summary `json:"summary"`
	Score       score.Result    `json:"score"`
	ActionItems []actions.Item  `json:"action_items"`
	Anomalies   int             `json:"anomalies"`
	GeneratedAt string          `json:"generated_at"` // RFC3339
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
