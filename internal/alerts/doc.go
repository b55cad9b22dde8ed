// Package alerts implements a threshold rule engine over wellness
// snapshots. Rules are defined in the server configuration, deduplicated
// per rule and dataset, rate-limited by a per-rule cooldown, and delivered
// to Slack, Teams, or generic HTTP webhooks.
package alerts
