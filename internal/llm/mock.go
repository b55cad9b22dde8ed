package llm

import "context"

// Mock is a test double that returns canned responses.
type Mock struct {
	Response string
	Err      error
}

func (m *Mock) Name() string { return "mock" }

func (m *Mock) Generate(_ context.Context, _ string, _ Settings) (string, error) {
	return m.Response, m.Err
}
