// Package dataset parses uploaded health CSV files and derives the products
// the dashboard renders: rolling-average summaries, per-metric trends,
// anomaly records, and per-metric chart series.
package dataset
