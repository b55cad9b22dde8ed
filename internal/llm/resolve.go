package llm

import (
	"fmt"
	"os"
)

// Resolve selects an LLM provider. An explicit name ("gemini", "openai")
// requires the matching API key; an empty name auto-detects from the
// environment, preferring Gemini. Returns ErrNoProvider when nothing is
// configured so callers can degrade to deterministic fallbacks.
func Resolve(name string) (Provider, error) {
	switch name {
	case "gemini":
		return NewGemini()
	case "openai":
		return NewOpenAI()
	case "":
	default:
		return nil, fmt.Errorf("llm: unknown provider %q: want gemini|openai", name)
	}

	// Auto-detect from environment.
	if os.Getenv("GEMINI_API_KEY") != "" {
		return NewGemini()
	}
	if os.Getenv("OPENAI_API_KEY") != "" {
		return NewOpenAI()
	}

	return nil, ErrNoProvider
}
