package search

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest marks a request rejected before reaching any provider
var ErrInvalidRequest = errors.New("invalid search request")

// ConfigurationError means no provider can be built from the current configuration
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// UpstreamError is a failed provider call: either a non-success HTTP status
// or a transport failure (Err set, StatusCode zero).
type UpstreamError struct {
	Provider   string
	StatusCode int
	Status     string
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
	}
	msg := fmt.Sprintf("%s api error: %d %s", e.Provider, e.StatusCode, e.Status)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err is (or wraps) a *ConfigurationError
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// IsUpstreamError reports whether err is (or wraps) an *UpstreamError
func IsUpstreamError(err error) bool {
	var upErr *UpstreamError
	return errors.As(err, &upErr)
}
