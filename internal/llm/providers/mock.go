package providers

import (
	"context"
	"sync"

	"github.com/chaosmibu-blip/mibu/internal/types"
)

// MockProvider implements llm.Provider with canned responses, for tests and
// offline development. Responses are returned in order; the last one repeats.
type MockProvider struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	calls     int

	// LastSystem and LastUser capture the most recent prompt for assertions.
	LastSystem string
	LastUser   string
}

// NewMockProvider creates a mock returning the given responses in order.
func NewMockProvider(responses []string) *MockProvider {
	return &MockProvider{responses: responses}
}

// NewFailingMockProvider creates a mock returning the given errors in order.
func NewFailingMockProvider(errs []error) *MockProvider {
	return &MockProvider{errs: errs}
}

// Name returns the provider name.
func (p *MockProvider) Name() string {
	return "mock"
}

// Complete returns the next canned response or error.
func (p *MockProvider) Complete(_ context.Context, system, user string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.LastSystem = system
	p.LastUser = user
	call := p.calls
	p.calls++

	if len(p.errs) > 0 {
		idx := call
		if idx >= len(p.errs) {
			idx = len(p.errs) - 1
		}
		if err := p.errs[idx]; err != nil {
			return "", err
		}
	}

	if len(p.responses) == 0 {
		return "", types.NewError(types.ADVISOR_UNAVAILABLE, "mock has no responses")
	}
	idx := call
	if idx >= len(p.responses) {
		idx = len(p.responses) - 1
	}
	return p.responses[idx], nil
}

// Calls returns how many completions were requested.
func (p *MockProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
