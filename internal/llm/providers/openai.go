package providers

import (
	"context"
	"os"

	"github.com/tmc/langchaingo/llms/openai"

	"github.com/chaosmibu-blip/mibu/internal/llm"
)

// OpenAIProvider implements llm.Provider for OpenAI models.
type OpenAIProvider struct {
	client *openai.LLM
	config llm.ProviderConfig
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg llm.ProviderConfig) (*OpenAIProvider, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, llm.NewAuthError(llm.ProviderOpenAI, nil)
	}

	opts := []openai.Option{
		openai.WithToken(apiKey),
	}
	if cfg.Model != "" {
		opts = append(opts, openai.WithModel(cfg.Model))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, llm.TranslateError(llm.ProviderOpenAI, err)
	}

	return &OpenAIProvider{client: client, config: cfg}, nil
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return llm.ProviderOpenAI
}

// Complete sends a completion request.
func (p *OpenAIProvider) Complete(ctx context.Context, system, user string) (string, error) {
	return complete(ctx, llm.ProviderOpenAI, p.client, system, user)
}
