package providers

import (
	"context"

	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/chaosmibu-blip/mibu/internal/llm"
)

// defaultOllamaURL is the local Ollama daemon endpoint.
const defaultOllamaURL = "http://localhost:11434"

// OllamaProvider implements llm.Provider for local Ollama models.
type OllamaProvider struct {
	client *ollama.LLM
	config llm.ProviderConfig
}

// NewOllamaProvider creates a new Ollama provider.
func NewOllamaProvider(cfg llm.ProviderConfig) (*OllamaProvider, error) {
	serverURL := cfg.BaseURL
	if serverURL == "" {
		serverURL = defaultOllamaURL
	}

	opts := []ollama.Option{
		ollama.WithServerURL(serverURL),
	}
	if cfg.Model != "" {
		opts = append(opts, ollama.WithModel(cfg.Model))
	}

	client, err := ollama.New(opts...)
	if err != nil {
		return nil, llm.TranslateError(llm.ProviderOllama, err)
	}

	return &OllamaProvider{client: client, config: cfg}, nil
}

// Name returns the provider name.
func (p *OllamaProvider) Name() string {
	return llm.ProviderOllama
}

// Complete sends a completion request.
func (p *OllamaProvider) Complete(ctx context.Context, system, user string) (string, error) {
	return complete(ctx, llm.ProviderOllama, p.client, system, user)
}
