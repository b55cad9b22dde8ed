// Package llm defines the provider interface and implementations for LLM
// text generation, plus the mock fallback used in tests.
package llm

import (
	"context"
	"errors"
)

// ErrNoProvider is returned by Resolve when no provider is configured.
// Callers treat it as "run deterministic fallbacks only".
var ErrNoProvider = errors.New("no LLM provider configured")

// Settings configures a single generation request.
type Settings struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Provider generates text from a prompt using an LLM.
type Provider interface {
	Generate(ctx context.Context, prompt string, settings Settings) (string, error)
	Name() string
}
