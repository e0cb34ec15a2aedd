// Package llm abstracts the advisory text-generation service. The engine
// only ever needs a single blocking completion; everything else about the
// upstream model is hidden behind Provider.
package llm

import "context"

// Provider is the interface all advisory providers implement.
type Provider interface {
	// Name returns the provider name (e.g. "openai", "anthropic", "ollama").
	Name() string

	// Complete sends one system+user prompt pair and returns the raw
	// response text. This is a blocking call bounded by ctx.
	Complete(ctx context.Context, system, user string) (string, error)
}

// ProviderConfig configures a provider instance.
type ProviderConfig struct {
	// Type selects the provider implementation.
	Type string

	// Model is the model identifier, provider-specific.
	Model string

	// APIKey overrides the provider's environment credential when set.
	APIKey string

	// BaseURL overrides the provider endpoint (proxies, self-hosted).
	BaseURL string
}

// Provider type identifiers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
	ProviderMock      = "mock"
)
