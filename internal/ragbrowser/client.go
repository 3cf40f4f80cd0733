// Package ragbrowser talks to the Apify RAG Web Browser actor, which runs a
// Google search and returns the crawled result pages.
package ragbrowser

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/amityadav/ragweb/internal/search"
)

// DefaultBaseURL is the standby URL of the public actor
const DefaultBaseURL = "https://rag-web-browser.apify.actor"

// outputFormat asks the actor to render crawled pages as Markdown
const outputFormat = "markdown"

// maxErrorBody caps how much of an error response ends up in the error message
const maxErrorBody = 512

// Client calls the RAG Web Browser search endpoint
type Client struct {
	token   string
	baseURL string
	client  *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at a different actor URL
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

// NewClient creates a client authenticated with an Apify API token
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		token:   token,
		baseURL: DefaultBaseURL,
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the provider identifier
func (c *Client) Name() string {
	return string(search.ProviderApify)
}

// SearchWeb implements the search.Provider interface. A response body that
// is not valid JSON yields an empty result list rather than an error.
func (c *Client) SearchWeb(ctx context.Context, query string, maxResults int) ([]search.Result, error) {
	body, err := c.fetch(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}

	results := Normalize(body)
	log.Printf("[RAGBrowser] Found %d results for query: %s", len(results), query)
	return results, nil
}

func (c *Client) fetch(ctx context.Context, query string, maxResults int) ([]byte, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("outputFormats", outputFormat)

	endpoint := c.baseURL + "/search?" + params.Encode()
	log.Printf("[RAGBrowser] Calling: %s", endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &search.UpstreamError{Provider: c.Name(), Err: err}
	}
	defer resp.Body.Close()

	log.Printf("[RAGBrowser] Response status: %d", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &search.UpstreamError{
			Provider:   c.Name(),
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			Body:       strings.TrimSpace(string(bodyBytes)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &search.UpstreamError{Provider: c.Name(), Err: fmt.Errorf("read response: %w", err)}
	}
	return body, nil
}
