package providers

import (
	"fmt"

	"github.com/chaosmibu-blip/mibu/internal/llm"
	"github.com/chaosmibu-blip/mibu/internal/types"
)

// NewProvider creates an advisory provider from configuration.
func NewProvider(cfg llm.ProviderConfig) (llm.Provider, error) {
	switch cfg.Type {
	case llm.ProviderOpenAI:
		return NewOpenAIProvider(cfg)

	case llm.ProviderAnthropic:
		return NewAnthropicProvider(cfg)

	case llm.ProviderOllama:
		return NewOllamaProvider(cfg)

	case llm.ProviderMock:
		return NewMockProvider([]string{"{}"}), nil

	default:
		return nil, types.NewError(types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("unknown advisor provider type: %s", cfg.Type))
	}
}
