// Package providers holds the concrete advisory provider implementations.
package providers

import (
	"context"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"

	"github.com/chaosmibu-blip/mibu/internal/llm"
	"github.com/chaosmibu-blip/mibu/internal/types"
)

// completer is what a langchaingo model exposes for a single completion.
type completer interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// complete runs one system+user exchange against a langchaingo model and
// extracts the first choice's text.
func complete(ctx context.Context, provider string, client completer, system, user string) (string, error) {
	messages := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(system)},
		},
		{
			Role:  schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(user)},
		},
	}

	resp, err := client.GenerateContent(ctx, messages)
	if err != nil {
		return "", llm.TranslateError(provider, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", types.NewError(types.ADVISOR_PARSE_FAILED, provider+" returned no choices")
	}
	return resp.Choices[0].Content, nil
}
