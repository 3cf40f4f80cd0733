package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/amityadav/ragweb/internal/markdown"
	"github.com/amityadav/ragweb/internal/search"
)

// DefaultBaseURL is the public Tavily API
const DefaultBaseURL = "https://api.tavily.com"

// untitled replaces an empty upstream title
const untitled = "Untitled"

// maxErrorBody caps how much of an error response ends up in the error message
const maxErrorBody = 512

// ExcludedDomains are social networks left out of every search
var ExcludedDomains = []string{
	"facebook.com",
	"instagram.com",
	"twitter.com",
	"x.com",
	"linkedin.com",
	"tiktok.com",
	"pinterest.com",
}

// Client is a Tavily Search API client
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at a different API root
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if strings.TrimSpace(baseURL) != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// NewClient creates a new Tavily API client. Request deadlines come from the
// caller's context.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchRequest represents the Tavily search request payload
type SearchRequest struct {
	Query             string   `json:"query"`
	APIKey            string   `json:"api_key"`
	SearchDepth       string   `json:"search_depth,omitempty"` // "basic" or "advanced"
	MaxResults        int      `json:"max_results,omitempty"`
	IncludeRawContent bool     `json:"include_raw_content"`
	ExcludeDomains    []string `json:"exclude_domains,omitempty"`
}

// SearchResult represents a single search result from Tavily
type SearchResult struct {
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	Content       string   `json:"content"` // Snippet
	Score         *float64 `json:"score,omitempty"`
	RawContent    string   `json:"raw_content,omitempty"`
	PublishedDate string   `json:"published_date,omitempty"`
}

// SearchResponse represents the Tavily search response
type SearchResponse struct {
	Query        string         `json:"query"`
	Results      []SearchResult `json:"results"`
	ResponseTime float64        `json:"response_time"`
}

// Name returns the provider identifier
func (c *Client) Name() string {
	return string(search.ProviderTavily)
}

// Search performs one POST against the Tavily search endpoint
func (c *Client) Search(ctx context.Context, query string, maxResults int) (*SearchResponse, error) {
	reqBody := SearchRequest{
		Query:             query,
		APIKey:            c.apiKey,
		SearchDepth:       "basic",
		MaxResults:        maxResults,
		IncludeRawContent: true,
		ExcludeDomains:    ExcludedDomains,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	log.Printf("[Tavily] Searching for: %q (max %d results)", query, maxResults)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &search.UpstreamError{Provider: c.Name(), Err: err}
	}
	defer resp.Body.Close()

	log.Printf("[Tavily] Response status: %d", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &search.UpstreamError{
			Provider:   c.Name(),
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			Body:       strings.TrimSpace(string(bodyBytes)),
		}
	}

	var searchResp SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	log.Printf("[Tavily] Found %d results for query: %s", len(searchResp.Results), query)
	return &searchResp, nil
}

// SearchWeb implements the search.Provider interface
func (c *Client) SearchWeb(ctx context.Context, query string, maxResults int) ([]search.Result, error) {
	resp, err := c.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	return normalize(resp.Results), nil
}

func normalize(hits []SearchResult) []search.Result {
	results := make([]search.Result, len(hits))
	for i, h := range hits {
		title := h.Title
		if strings.TrimSpace(title) == "" {
			title = untitled
		}

		source := h.RawContent
		if strings.TrimSpace(source) == "" {
			source = h.Content
		}

		results[i] = search.Result{
			Title:    title,
			URL:      h.URL,
			Content:  h.Content,
			Markdown: markdown.FromHTML(source),
			Score:    h.Score,
		}
		if h.PublishedDate != "" {
			published := h.PublishedDate
			results[i].PublishedDate = &published
		}
	}
	return results
}
