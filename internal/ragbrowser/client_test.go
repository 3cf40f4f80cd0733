package ragbrowser

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amityadav/ragweb/internal/search"
)

func TestSearchWeb_Request(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/search" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("query") != "web browser for Anthropic" || q.Get("maxResults") != "2" || q.Get("outputFormats") != "markdown" {
			t.Errorf("unexpected query %v", q)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer apify-test" {
			t.Errorf("unexpected Authorization header %q", auth)
		}
		w.Write([]byte(`[
			{"metadata": {"title": "One", "url": "https://one"}, "text": "first", "markdown": "# One"},
			{"metadata": {"title": "Two", "url": "https://two"}, "text": "second", "markdown": "# Two"}
		]`))
	}))
	defer srv.Close()

	c := NewClient("apify-test", WithBaseURL(srv.URL+"/"))
	results, err := c.SearchWeb(context.Background(), "web browser for Anthropic", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 || results[0].Title != "One" || results[1].URL != "https://two" {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestSearchWeb_MalformedBodyIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway page</html>`))
	}))
	defer srv.Close()

	results, err := NewClient("t", WithBaseURL(srv.URL)).SearchWeb(context.Background(), "q", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestSearchWeb_UpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient("t", WithBaseURL(srv.URL)).SearchWeb(context.Background(), "q", 1)
	var upErr *search.UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected *search.UpstreamError, got %T (%v)", err, err)
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("error %q should include the status", err)
	}
}

func TestSearchWeb_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient("bad", WithBaseURL(srv.URL)).SearchWeb(context.Background(), "q", 1)
	var upErr *search.UpstreamError
	if !errors.As(err, &upErr) || upErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 upstream error, got %v", err)
	}
	if !strings.Contains(upErr.Body, "invalid token") {
		t.Errorf("body not captured: %q", upErr.Body)
	}
}
