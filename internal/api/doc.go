// Package api implements the HTTP surface of the health dashboard.
//
// Routes:
//
//	POST /upload                    multipart CSV ingest
//	GET  /data/{id}/summary         rolling averages and wellness score
//	GET  /data/{id}/trends          per-metric trend directions and series
//	GET  /data/{id}/anomalies       detected anomalies plus summary alert
//	POST /ai/score                  deterministic wellness score
//	POST /ai/action-items           prioritized suggestions (LLM-first)
//	POST /ai/health-alert           anomaly summary alert (LLM-first)
//	POST /ai/navbar-greeting        personalized greeting (LLM-first)
//	POST /ai/health-status-badge    status badge (LLM-first)
//	POST /ai/nav-recommendations    navigation suggestions (LLM-first)
//	POST /chat                      free-form health assistant chat
//	GET  /sessions/{user_id}        dataset IDs uploaded by a user
//	GET  /health                    liveness and dataset count
//	GET  /api/alerts                firing and recently resolved rule alerts
//	GET  /metrics                   Prometheus text exposition
//
// Every response is JSON. Validation failures return 400 with an error body;
// unknown or expired dataset IDs return 404.
package api
