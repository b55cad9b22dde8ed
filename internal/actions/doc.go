// Package actions turns health metrics and anomaly reports into prioritized
// user-facing guidance: a rule-based action item list and a summarized
// critical/warning alert. Both classifiers are pure functions; the same
// rules serve as the deterministic fallback when LLM generation fails.
package actions
