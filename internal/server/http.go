package server

import (
	"log"
	"net/http"
	"runtime/debug"

	"github.com/google/uuid"
)

// RequestIDHeader carries the per-request correlation ID
const RequestIDHeader = "X-Request-ID"

// CreateCORSHandler adds CORS headers and answers preflight requests
func CreateCORSHandler(handler http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key, Authorization, X-Request-ID")
		w.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Max-Age", "1728000")
			w.WriteHeader(http.StatusNoContent)
			return
		}

		handler.ServeHTTP(w, r)
	}
}

// CreateRequestIDHandler assigns a request ID when the caller did not send one
func CreateRequestIDHandler(handler http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(RequestIDHeader, id)
		}
		w.Header().Set(RequestIDHeader, id)
		handler.ServeHTTP(w, r)
	}
}

// CreateRecoveryHandler wraps handler with panic recovery
func CreateRecoveryHandler(handler http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("[PANIC RECOVERED] %s %s (request %s): %v\n%s", r.Method, r.URL.Path, r.Header.Get(RequestIDHeader), err, debug.Stack())
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		handler.ServeHTTP(w, r)
	}
}

// NewHandler assembles the full middleware chain around the REST API
func NewHandler(services Services) http.Handler {
	return CreateRequestIDHandler(CreateRecoveryHandler(CreateCORSHandler(CreateRESTHandler(services))))
}
