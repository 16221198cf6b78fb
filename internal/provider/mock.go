package provider

import "context"

// Mock is a mock provider for testing.
type Mock struct {
	Suggestions []Suggestion
	Handler     func(ctx context.Context) ([]Suggestion, error)
}

// NewMock creates a new mock provider with a fixed list.
func NewMock(suggestions ...Suggestion) *Mock {
	return &Mock{Suggestions: suggestions}
}

// NewMockHandler creates a mock provider with a custom handler.
func NewMockHandler(handler func(ctx context.Context) ([]Suggestion, error)) *Mock {
	return &Mock{Handler: handler}
}

// Fetch returns the mock list or calls the handler.
func (m *Mock) Fetch(ctx context.Context) ([]Suggestion, error) {
	if m.Handler != nil {
		return m.Handler(ctx)
	}
	out := make([]Suggestion, len(m.Suggestions))
	copy(out, m.Suggestions)
	return out, nil
}
