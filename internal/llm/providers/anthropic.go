package providers

import (
	"context"
	"os"

	"github.com/tmc/langchaingo/llms/anthropic"

	"github.com/chaosmibu-blip/mibu/internal/llm"
)

// AnthropicProvider implements llm.Provider for Anthropic models.
type AnthropicProvider struct {
	client *anthropic.LLM
	config llm.ProviderConfig
}

// NewAnthropicProvider creates a new Anthropic provider.
func NewAnthropicProvider(cfg llm.ProviderConfig) (*AnthropicProvider, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, llm.NewAuthError(llm.ProviderAnthropic, nil)
	}

	opts := []anthropic.Option{
		anthropic.WithToken(apiKey),
	}
	if cfg.Model != "" {
		opts = append(opts, anthropic.WithModel(cfg.Model))
	}

	client, err := anthropic.New(opts...)
	if err != nil {
		return nil, llm.TranslateError(llm.ProviderAnthropic, err)
	}

	return &AnthropicProvider{client: client, config: cfg}, nil
}

// Name returns the provider name.
func (p *AnthropicProvider) Name() string {
	return llm.ProviderAnthropic
}

// Complete sends a completion request.
func (p *AnthropicProvider) Complete(ctx context.Context, system, user string) (string, error) {
	return complete(ctx, llm.ProviderAnthropic, p.client, system, user)
}
