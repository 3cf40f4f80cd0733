package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/amityadav/ragweb/internal/core"
	"github.com/amityadav/ragweb/internal/search"
	"github.com/amityadav/ragweb/internal/token"
)

// maxRequestBody caps POST /api/search bodies
const maxRequestBody = 64 << 10

// Services groups all dependencies of the REST handlers
type Services struct {
	SearchCore   *core.SearchCore
	Selector     *search.Selector
	TokenManager *token.Manager
	APIKey       string
}

// searchBody is the POST /api/search payload. Timeout is in seconds.
type searchBody struct {
	Query      string   `json:"query"`
	MaxResults *float64 `json:"maxResults"`
	Timeout    *float64 `json:"timeout"`
}

// CreateRESTHandler creates REST API endpoints
func CreateRESTHandler(services Services) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/healthz":
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		case "/api/search":
			if !authorize(w, r, services) {
				return
			}
			handleSearch(w, r, services.SearchCore)
		case "/api/providers":
			if !authorize(w, r, services) {
				return
			}
			handleProviders(w, r, services)
		default:
			writeError(w, http.StatusNotFound, "not found")
		}
	}
}

// authorize accepts a matching X-API-Key or a valid bearer token. With
// neither an API key nor a JWT secret configured, the API is open.
func authorize(w http.ResponseWriter, r *http.Request, services Services) bool {
	keyEnabled := services.APIKey != ""
	jwtEnabled := services.TokenManager.Enabled()
	if !keyEnabled && !jwtEnabled {
		return true
	}

	if keyEnabled {
		if key := r.Header.Get("X-API-Key"); key != "" &&
			subtle.ConstantTimeCompare([]byte(key), []byte(services.APIKey)) == 1 {
			return true
		}
	}

	if jwtEnabled {
		authHeader := r.Header.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			subject, err := services.TokenManager.Verify(strings.TrimPrefix(authHeader, "Bearer "))
			if err == nil {
				log.Printf("[REST] %s %s authorized for %s", r.Method, r.URL.Path, subject)
				return true
			}
			log.Printf("[REST] token validation failed: %v", err)
		}
	}

	writeError(w, http.StatusUnauthorized, "unauthorized - missing or invalid credentials")
	return false
}

func handleSearch(w http.ResponseWriter, r *http.Request, searchCore *core.SearchCore) {
	var (
		req core.SearchRequest
		err error
	)
	switch r.Method {
	case http.MethodGet:
		req, err = parseSearchQuery(r)
	case http.MethodPost:
		req, err = parseSearchBody(r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	requestID := r.Header.Get(RequestIDHeader)
	log.Printf("[REST] search %q (max %d, request %s)", req.Query, req.MaxResults, requestID)

	resp, err := searchCore.Search(r.Context(), req)
	if err != nil {
		status := statusForError(err)
		log.Printf("[REST] search failed with %d (request %s): %v", status, requestID, err)
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func handleProviders(w http.ResponseWriter, r *http.Request, services Services) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"active":    services.SearchCore.ProviderName(),
		"providers": services.Selector.ListAvailable(),
	})
}

func parseSearchQuery(r *http.Request) (core.SearchRequest, error) {
	q := r.URL.Query()
	req := core.SearchRequest{Query: q.Get("query")}

	if v := q.Get("maxResults"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("maxResults must be an integer")
		}
		if n < 1 {
			return req, fmt.Errorf("maxResults must be positive")
		}
		req.MaxResults = n
	}

	if v := q.Get("timeout"); v != "" {
		secs, err := strconv.ParseFloat(v, 64)
		if err != nil || secs <= 0 {
			return req, fmt.Errorf("timeout must be a positive number of seconds")
		}
		req.Timeout = time.Duration(secs * float64(time.Second))
	}
	return req, nil
}

func parseSearchBody(r *http.Request) (core.SearchRequest, error) {
	var body searchBody
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	if err := dec.Decode(&body); err != nil {
		return core.SearchRequest{}, fmt.Errorf("invalid JSON body: %v", err)
	}

	req := core.SearchRequest{Query: body.Query}
	if body.MaxResults != nil {
		n := *body.MaxResults
		if n != float64(int(n)) || n < 1 {
			return req, fmt.Errorf("maxResults must be a positive integer")
		}
		req.MaxResults = int(n)
	}
	if body.Timeout != nil {
		if *body.Timeout <= 0 {
			return req, fmt.Errorf("timeout must be a positive number of seconds")
		}
		req.Timeout = time.Duration(*body.Timeout * float64(time.Second))
	}
	return req, nil
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, search.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case search.IsUpstreamError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[REST] failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
