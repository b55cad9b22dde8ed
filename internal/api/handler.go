package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/healthboard/healthboard/internal/actions"
	"github.com/healthboard/healthboard/internal/alerts"
	"github.com/healthboard/healthboard/internal/dataset"
	"github.com/healthboard/healthboard/internal/navbar"
	"github.com/healthboard/healthboard/internal/obs"
	"github.com/healthboard/healthboard/internal/score"
	"github.com/healthboard/healthboard/internal/store"
)

// maxUploadBytes caps the size of one uploaded CSV.
const maxUploadBytes = 10 << 20 // 10 MiB

// Handler is the HTTP handler for all dashboard endpoints. It reads and
// writes the dataset store, computes scores on demand, and proxies the AI
// navbar surfaces through the generator.
type Handler struct {
	store    *store.Store
	gen      *navbar.Generator
	engine   *alerts.Engine
	counters *obs.Counters

	// notify is called after each successful upload so the WebSocket hub can
	// push the new snapshot immediately. May be nil.
	notify func()

	router *mux.Router
}

// New creates a Handler and registers all routes. engine, counters, and
// notify may be nil.
func New(st *store.Store, gen *navbar.Generator, engine *alerts.Engine, counters *obs.Counters, notify func()) http.Handler {
	h := &Handler{
		store:    st,
		gen:      gen,
		engine:   engine,
		counters: counters,
		notify:   notify,
		router:   mux.NewRouter(),
	}

	r := h.router
	r.HandleFunc("/upload", h.upload).Methods(http.MethodPost)
	r.HandleFunc("/data/{id}/summary", h.dataSummary).Methods(http.MethodGet)
	r.HandleFunc("/data/{id}/trends", h.dataTrends).Methods(http.MethodGet)
	r.HandleFunc("/data/{id}/anomalies", h.dataAnomalies).Methods(http.MethodGet)

	r.HandleFunc("/ai/score", h.aiScore).Methods(http.MethodPost)
	r.HandleFunc("/ai/action-items", h.aiActionItems).Methods(http.MethodPost)
	r.HandleFunc("/ai/health-alert", h.aiHealthAlert).Methods(http.MethodPost)
	r.HandleFunc("/ai/navbar-greeting", h.aiGreeting).Methods(http.MethodPost)
	r.HandleFunc("/ai/health-status-badge", h.aiStatusBadge).Methods(http.MethodPost)
	r.HandleFunc("/ai/nav-recommendations", h.aiRecommendations).Methods(http.MethodPost)

	r.HandleFunc("/chat", h.chat).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{user_id}", h.sessions).Methods(http.MethodGet)
	r.HandleFunc("/health", h.health).Methods(http.MethodGet)
	r.HandleFunc("/api/alerts", h.listAlerts).Methods(http.MethodGet)

	if counters != nil {
		r.Handle("/metrics", counters.Handler()).Methods(http.MethodGet)
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		jsonErr(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// BuildSnapshot assembles the live dashboard snapshot from the most recent
// dataset. With no live data it returns a zero-metric snapshot so clients
// always receive a well-formed payload.
func BuildSnapshot(st *store.Store) SnapshotResponse {
	snap := SnapshotResponse{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}

	e := st.Latest()
	if e == nil {
		m := score.Metrics{}
		snap.Score = score.Compute(m)
		snap.ActionItems = actions.Classify(m)
		return snap
	}

	p := e.Processed
	m := score.Metrics{
		AvgSteps:     p.Summary.StepsAvg7d,
		AvgHeartRate: p.Summary.HeartRateAvg7d,
		AvgSleep:     p.Summary.SleepAvg7d,
		AvgWater:     p.Summary.WaterAvg7d,
	}
	snap.DataID = p.ID
	snap.Summary = p.Summary
	snap.Score = score.Compute(m)
	snap.ActionItems = actions.Classify(m)
	snap.Anomalies = len(p.Anomalies)
	return snap
}

// --- upload and dataset reads ------------------------------------------------

// upload handles POST /upload: a multipart CSV in the "file" field.
func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		jsonErr(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonErr(w, http.StatusBadRequest, `missing "file" field`)
		return
	}
	defer file.Close()

	ds, err := dataset.ParseCSV(file)
	if err != nil {
		jsonErr(w, http.StatusBadRequest, err.Error())
		return
	}

	userID := strings.TrimSpace(r.FormValue("user_id"))
	if userID == "" {
		userID = ds.UserID
	}

	p := &store.Processed{
		ID:         uuid.NewString(),
		UserID:     userID,
		Filename:   header.Filename,
		Summary:    ds.Summary(),
		Trends:     ds.Trends(),
		Anomalies:  ds.Anomalies(),
		Timeseries: ds.Timeseries(),
	}
	h.store.Put(p)

	if h.counters != nil {
		h.counters.IncUpload(time.Now().Unix())
	}
	if h.engine != nil {
		res := score.Compute(ds.Metrics())
		h.engine.Evaluate(alerts.Snapshot{
			DatasetID:    p.ID,
			UserID:       p.UserID,
			Score:        float64(res.Score),
			Status:       res.Status,
			AvgSteps:     p.Summary.StepsAvg7d,
			AvgHeartRate: p.Summary.HeartRateAvg7d,
			AvgSleep:     p.Summary.SleepAvg7d,
			AvgWater:     p.Summary.WaterAvg7d,
			AnomalyCount: len(p.Anomalies),
		})
	}
	if h.notify != nil {
		h.notify()
	}

	jsonResp(w, http.StatusOK, UploadResponse{
		Status:     "success",
		DataID:     p.ID,
		Summary:    p.Summary,
		AIEnhanced: h.gen.HasProvider(),
	})
}

// lookup returns the live entry for the route's {id}, or writes a 404.
func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*store.Entry, bool) {
	id := mux.Vars(r)["id"]
	e, ok := h.store.Get(id)
	if !ok {
		jsonErr(w, http.StatusNotFound, "dataset not found")
		return nil, false
	}
	return e, true
}

func (h *Handler) dataSummary(w http.ResponseWriter, r *http.Request) {
	e, ok := h.lookup(w, r)
	if !ok {
		return
	}
	p := e.Processed
	jsonResp(w, http.StatusOK, SummaryResponse{
		DataID:  p.ID,
		UserID:  p.UserID,
		Summary: p.Summary,
		Score: score.Compute(score.Metrics{
			AvgSteps:     p.Summary.StepsAvg7d,
			AvgHeartRate: p.Summary.HeartRateAvg7d,
			AvgSleep:     p.Summary.SleepAvg7d,
			AvgWater:     p.Summary.WaterAvg7d,
		}),
	})
}

func (h *Handler) dataTrends(w http.ResponseWriter, r *http.Request) {
	e, ok := h.lookup(w, r)
	if !ok {
		return
	}
	p := e.Processed
	jsonResp(w, http.StatusOK, TrendsResponse{
		DataID:     p.ID,
		Trends:     p.Trends,
		Timeseries: p.Timeseries,
	})
}

func (h *Handler) dataAnomalies(w http.ResponseWriter, r *http.Request) {
	e, ok := h.lookup(w, r)
	if !ok {
		return
	}
	p := e.Processed
	jsonResp(w, http.StatusOK, AnomaliesResponse{
		DataID:    p.ID,
		Anomalies: p.Anomalies,
		Alert:     actions.ClassifyAlert(p.Anomalies),
	})
}

// --- AI endpoints ------------------------------------------------------------

// decodeMetrics decodes a MetricsRequest-shaped body into dst and validates
// the metrics. Returns false after writing the error response.
func decodeMetrics(w http.ResponseWriter, r *http.Request, dst any, m *score.Metrics) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		jsonErr(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	if err := score.Validate(*m); err != nil {
		jsonErr(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// aiScore handles POST /ai/score. Scoring is a pure derivation; no LLM call.
func (h *Handler) aiScore(w http.ResponseWriter, r *http.Request) {
	var req MetricsRequest
	if !decodeMetrics(w, r, &req, &req.Metrics) {
		return
	}
	jsonResp(w, http.StatusOK, score.Compute(req.Metrics))
}

func (h *Handler) aiActionItems(w http.ResponseWriter, r *http.Request) {
	var req MetricsRequest
	if !decodeMetrics(w, r, &req, &req.Metrics) {
		return
	}
	jsonResp(w, http.StatusOK, ActionItemsResponse{
		ActionItems: h.gen.ActionItems(r.Context(), req.Metrics),
	})
}

func (h *Handler) aiHealthAlert(w http.ResponseWriter, r *http.Request) {
	var req AlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonErr(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	jsonResp(w, http.StatusOK, AlertResponse{
		Alert: h.gen.HealthAlert(r.Context(), req.Anomalies),
	})
}

func (h *Handler) aiGreeting(w http.ResponseWriter, r *http.Request) {
	var req GreetingRequest
	if !decodeMetrics(w, r, &req, &req.Metrics) {
		return
	}
	jsonResp(w, http.StatusOK, GreetingResponse{
		Greeting: h.gen.Greeting(r.Context(), req.Metrics, req.Timestamp),
	})
}

func (h *Handler) aiStatusBadge(w http.ResponseWriter, r *http.Request) {
	var req MetricsRequest
	if !decodeMetrics(w, r, &req, &req.Metrics) {
		return
	}
	jsonResp(w, http.StatusOK, h.gen.StatusBadge(r.Context(), req.Metrics))
}

func (h *Handler) aiRecommendations(w http.ResponseWriter, r *http.Request) {
	var req RecommendationsRequest
	if !decodeMetrics(w, r, &req, &req.Metrics) {
		return
	}
	jsonResp(w, http.StatusOK, RecommendationsResponse{
		Recommendations: h.gen.Recommendations(r.Context(), req.Metrics, req.CurrentPage),
	})
}

// --- chat, sessions, health, alerts ------------------------------------------

func (h *Handler) chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonErr(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		jsonErr(w, http.StatusBadRequest, "message is required")
		return
	}

	var summary *dataset.Summary
	if req.DataID != "" {
		if e, ok := h.store.Get(req.DataID); ok {
			s := e.Processed.Summary
			summary = &s
		}
	}

	if h.counters != nil {
		h.counters.IncChat()
	}
	jsonResp(w, http.StatusOK, ChatResponse{
		Response: h.gen.Chat(r.Context(), req.Message, summary),
	})
}

func (h *Handler) sessions(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]
	jsonResp(w, http.StatusOK, SessionsResponse{
		UserID:   userID,
		Sessions: h.store.Sessions(userID),
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	jsonResp(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Datasets:  h.store.Count(),
		AIEnabled: h.gen.HasProvider(),
	})
}

func (h *Handler) listAlerts(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		jsonResp(w, http.StatusOK, []struct{}{})
		return
	}
	jsonResp(w, http.StatusOK, h.engine.Active())
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
