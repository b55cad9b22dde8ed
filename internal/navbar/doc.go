// Package navbar generates the dashboard navigation shell's dynamic content:
// greeting, status badge, navigation recommendations, action items, and
// health alerts. Generation is LLM-first with a deterministic fallback for
// every surface, so the navbar renders identically structured data whether
// or not a provider is reachable.
package navbar
