package core

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/amityadav/ragweb/internal/config"
	"github.com/amityadav/ragweb/internal/search"
)

// SearchRequest is a front-end search call before defaults are applied
type SearchRequest struct {
	Query      string
	MaxResults int           // zero means the configured default
	Timeout    time.Duration // zero means the configured default
}

// SearchResponse is the result of a successful search
type SearchResponse struct {
	Query    string          `json:"query"`
	Provider string          `json:"provider"`
	Results  []search.Result `json:"results"`
}

// SearchCore validates requests and runs them against the active provider
type SearchCore struct {
	provider       search.Provider
	defaultResults int
	maxResults     int
	timeout        time.Duration
}

// NewSearchCore creates the search business logic around provider
func NewSearchCore(provider search.Provider, cfg config.Config) *SearchCore {
	return &SearchCore{
		provider:       provider,
		defaultResults: cfg.DefaultMaxResults,
		maxResults:     cfg.MaxResultsLimit,
		timeout:        cfg.RequestTimeout,
	}
}

// ProviderName returns the identifier of the active provider
func (c *SearchCore) ProviderName() string {
	return c.provider.Name()
}

// DefaultMaxResults returns the result count used when a request gives none
func (c *SearchCore) DefaultMaxResults() int {
	return c.defaultResults
}

// MaxResultsLimit returns the largest accepted result count
func (c *SearchCore) MaxResultsLimit() int {
	return c.maxResults
}

// Validate applies defaults and checks bounds
func (c *SearchCore) Validate(req SearchRequest) (SearchRequest, error) {
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return req, fmt.Errorf("%w: query is required", search.ErrInvalidRequest)
	}

	if req.MaxResults == 0 {
		req.MaxResults = c.defaultResults
	}
	if req.MaxResults < 1 || req.MaxResults > c.maxResults {
		return req, fmt.Errorf("%w: maxResults must be between 1 and %d", search.ErrInvalidRequest, c.maxResults)
	}

	if req.Timeout < 0 {
		return req, fmt.Errorf("%w: timeout must not be negative", search.ErrInvalidRequest)
	}
	if req.Timeout == 0 {
		req.Timeout = c.timeout
	}
	return req, nil
}

// Search runs one provider call bounded by the request timeout
func (c *SearchCore) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	req, err := c.Validate(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, req.Timeout)
	defer cancel()

	start := time.Now()
	results, err := c.provider.SearchWeb(ctx, req.Query, req.MaxResults)
	if err != nil {
		log.Printf("[Search] %s failed after %s: %v", c.provider.Name(), time.Since(start).Round(time.Millisecond), err)
		return nil, err
	}
	if results == nil {
		results = []search.Result{}
	}

	log.Printf("[Search] %s returned %d results in %s", c.provider.Name(), len(results), time.Since(start).Round(time.Millisecond))
	return &SearchResponse{
		Query:    req.Query,
		Provider: c.provider.Name(),
		Results:  results,
	}, nil
}
