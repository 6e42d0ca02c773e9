package llmprovider

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/playgolfspainnow/chat-api/internal/domain/llm"
)

const webSearchSystemPrompt = "You are a golf information assistant. Provide accurate, current information about golf courses, prices, availability and conditions in Spain. Be concise."

// WebSearchAdapter answers free-form queries through a search-capable
// chat backend (Perplexity) by draining one full completion.
type WebSearchAdapter struct {
	provider llm.Provider
	model    string
}

// NewWebSearchAdapter wraps a provider for one-shot search answers.
func NewWebSearchAdapter(provider llm.Provider, model string) *WebSearchAdapter {
	return &WebSearchAdapter{provider: provider, model: model}
}

// SearchGolfInfo runs the query and returns the accumulated answer text.
func (a *WebSearchAdapter) SearchGolfInfo(ctx context.Context, query string) (string, error) {
	maxTokens := 1024
	stream, err := a.provider.StreamChatCompletion(ctx, llm.ChatCompletionRequest{
		Model: a.model,
		Messages: []llm.ChatMessage{
			{Role: llm.RoleSystem, Content: webSearchSystemPrompt},
			{Role: llm.RoleUser, Content: query},
		},
		MaxTokens: &maxTokens,
	})
	if err != nil {
		return "", err
	}
	defer stream.Close()

	var answer strings.Builder
	for {
		delta, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		for _, choice := range delta.Choices {
			if choice.Index == 0 {
				answer.WriteString(choice.Delta.Content)
			}
		}
	}

	if answer.Len() == 0 {
		return "", errors.New("empty search response")
	}
	return answer.String(), nil
}
