package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amityadav/ragweb/internal/config"
	"github.com/amityadav/ragweb/internal/search"
)

type recordingProvider struct {
	query      string
	maxResults int
	deadline   time.Time
	results    []search.Result
	err        error
}

func (p *recordingProvider) Name() string { return "fake" }

func (p *recordingProvider) SearchWeb(ctx context.Context, query string, maxResults int) ([]search.Result, error) {
	p.query = query
	p.maxResults = maxResults
	p.deadline, _ = ctx.Deadline()
	return p.results, p.err
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.DefaultMaxResults = 2
	cfg.MaxResultsLimit = 10
	cfg.RequestTimeout = 30 * time.Second
	return cfg
}

func TestSearch_AppliesDefaults(t *testing.T) {
	p := &recordingProvider{results: []search.Result{{Title: "a"}}}
	c := NewSearchCore(p, testConfig())

	before := time.Now()
	resp, err := c.Search(context.Background(), SearchRequest{Query: "  golang  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.query != "golang" || p.maxResults != 2 {
		t.Errorf("provider called with (%q, %d)", p.query, p.maxResults)
	}
	if p.deadline.IsZero() || p.deadline.Before(before.Add(29*time.Second)) {
		t.Errorf("expected ~30s deadline, got %v", p.deadline)
	}
	if resp.Provider != "fake" || resp.Query != "golang" || len(resp.Results) != 1 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestSearch_RequestTimeout(t *testing.T) {
	p := &recordingProvider{}
	c := NewSearchCore(p, testConfig())

	before := time.Now()
	if _, err := c.Search(context.Background(), SearchRequest{Query: "q", Timeout: 2 * time.Second}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.deadline.After(before.Add(3 * time.Second)) {
		t.Errorf("request timeout not applied, deadline %v", p.deadline)
	}
}

func TestSearch_NilResultsBecomeEmpty(t *testing.T) {
	resp, err := NewSearchCore(&recordingProvider{}, testConfig()).Search(context.Background(), SearchRequest{Query: "q"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Results == nil {
		t.Error("results should be an empty slice, not nil")
	}
}

func TestSearch_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  SearchRequest
	}{
		{"empty query", SearchRequest{Query: "   "}},
		{"negative max", SearchRequest{Query: "q", MaxResults: -1}},
		{"above limit", SearchRequest{Query: "q", MaxResults: 11}},
		{"negative timeout", SearchRequest{Query: "q", Timeout: -time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &recordingProvider{}
			_, err := NewSearchCore(p, testConfig()).Search(context.Background(), tt.req)
			if !errors.Is(err, search.ErrInvalidRequest) {
				t.Errorf("expected ErrInvalidRequest, got %v", err)
			}
			if p.query != "" {
				t.Error("provider should not be called for invalid requests")
			}
		})
	}
}

func TestSearch_PropagatesProviderError(t *testing.T) {
	upErr := &search.UpstreamError{Provider: "fake", StatusCode: 503}
	_, err := NewSearchCore(&recordingProvider{err: upErr}, testConfig()).Search(context.Background(), SearchRequest{Query: "q"})
	if !errors.Is(err, upErr) {
		t.Errorf("expected upstream error, got %v", err)
	}
}
