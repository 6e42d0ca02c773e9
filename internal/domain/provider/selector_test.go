package provider_test

import (
	"context"
	"testing"

	"github.com/playgolfspainnow/chat-api/internal/domain/llm"
	"github.com/playgolfspainnow/chat-api/internal/domain/provider"
)

type nopProvider struct{}

func (nopProvider) StreamChatCompletion(context.Context, llm.ChatCompletionRequest) (llm.Stream, error) {
	return nil, nil
}

func TestSelectorSelect(t *testing.T) {
	openai := provider.Backend{Kind: provider.KindOpenAI, Model: "gpt-4o", SupportsTools: true, Client: nopProvider{}}
	perplexity := provider.Backend{Kind: provider.KindPerplexity, Model: "sonar", Client: nopProvider{}}

	tests := []struct {
		name     string
		backends []provider.Backend
		hint     provider.Kind
		want     provider.Kind
		wantOK   bool
	}{
		{
			name:     "tool backend preferred without hint",
			backends: []provider.Backend{perplexity, openai},
			want:     provider.KindOpenAI,
			wantOK:   true,
		},
		{
			name:     "hint overrides preference",
			backends: []provider.Backend{openai, perplexity},
			hint:     provider.KindPerplexity,
			want:     provider.KindPerplexity,
			wantOK:   true,
		},
		{
			name:     "unconfigured hint falls back",
			backends: []provider.Backend{openai},
			hint:     provider.KindPerplexity,
			want:     provider.KindOpenAI,
			wantOK:   true,
		},
		{
			name:     "search-only fallback",
			backends: []provider.Backend{perplexity},
			want:     provider.KindPerplexity,
			wantOK:   true,
		},
		{
			name:   "nothing configured",
			wantOK: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			selector := provider.NewSelector(tc.backends...)
			backend, ok := selector.Select(tc.hint)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if !ok {
				return
			}
			if backend.Kind != tc.want {
				t.Errorf("selected %s, want %s", backend.Kind, tc.want)
			}
		})
	}
}

func TestSelectorHas(t *testing.T) {
	selector := provider.NewSelector(provider.Backend{Kind: provider.KindOpenAI, Client: nopProvider{}})

	if !selector.Has(provider.KindOpenAI) {
		t.Error("expected openai to be configured")
	}
	if selector.Has(provider.KindPerplexity) {
		t.Error("perplexity must not be reported as configured")
	}
}
