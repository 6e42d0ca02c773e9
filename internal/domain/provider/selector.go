package provider

import "github.com/playgolfspainnow/chat-api/internal/domain/llm"

// Kind identifies a configured model backend.
type Kind string

const (
	// KindOpenAI is the tool-calling capable backend driving the booking flow.
	KindOpenAI Kind = "openai"
	// KindPerplexity is the search-only backend kept as a degraded mode.
	KindPerplexity Kind = "perplexity"
)

// Backend describes one usable model backend.
type Backend struct {
	Kind          Kind
	Model         string
	SupportsTools bool
	Client        llm.Provider
}

// Selector picks a backend per turn. It is built once at startup from the
// configured credentials and performs no I/O.
type Selector struct {
	backends []Backend
}

// NewSelector builds a selector over the configured backends.
func NewSelector(backends ...Backend) *Selector {
	return &Selector{backends: backends}
}

// Select returns the backend for a turn. An explicit hint wins when that
// backend is configured; otherwise the tool-calling backend is preferred so
// the booking flow stays available, with the search-only backend as
// fallback. The second return is false when nothing is configured.
func (s *Selector) Select(hint Kind) (*Backend, bool) {
	if hint != "" {
		for i := range s.backends {
			if s.backends[i].Kind == hint {
				return &s.backends[i], true
			}
		}
	}

	for i := range s.backends {
		if s.backends[i].SupportsTools {
			return &s.backends[i], true
		}
	}

	if len(s.backends) > 0 {
		return &s.backends[0], true
	}
	return nil, false
}

// Has reports whether a backend of the given kind is configured.
func (s *Selector) Has(kind Kind) bool {
	for i := range s.backends {
		if s.backends[i].Kind == kind {
			return true
		}
	}
	return false
}
