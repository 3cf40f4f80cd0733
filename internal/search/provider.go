package search

import (
	"context"
	"strings"
)

// ProviderType identifies one of the supported search providers
type ProviderType string

const (
	// ProviderTavily is the Tavily search REST API
	ProviderTavily ProviderType = "tavily"

	// ProviderApify is the Apify RAG Web Browser actor
	ProviderApify ProviderType = "apify"
)

// KnownProviders returns every supported provider in declared (fallback) order
func KnownProviders() []ProviderType {
	return []ProviderType{ProviderTavily, ProviderApify}
}

// ParseProviderType matches a provider name case-insensitively.
// The second return value is false for unknown or empty names.
func ParseProviderType(name string) (ProviderType, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, t := range KnownProviders() {
		if string(t) == name {
			return t, true
		}
	}
	return "", false
}

// Result is one normalized search hit, whatever provider produced it
type Result struct {
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	Content       string   `json:"content"`
	Markdown      string   `json:"markdown"`
	PublishedDate *string  `json:"publishedDate,omitempty"`
	Score         *float64 `json:"score,omitempty"`
}

// Descriptor reports whether a provider can be used with the current configuration
type Descriptor struct {
	Type      ProviderType `json:"type"`
	Available bool         `json:"available"`
	Reason    string       `json:"reason,omitempty"`
}

// Provider is the interface all search adapters must implement.
// Implementations are shared across goroutines and hold no per-call state.
type Provider interface {
	// Name returns the provider identifier (e.g., "tavily", "apify")
	Name() string

	// SearchWeb runs a single upstream search and normalizes the hits.
	// maxResults is passed upstream as a hint; results are not truncated locally.
	SearchWeb(ctx context.Context, query string, maxResults int) ([]Result, error)
}
