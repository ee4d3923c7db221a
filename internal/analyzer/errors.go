package analyzer

import (
	"errors"
	"fmt"
)

// Common analyzer errors.
var (
	// ErrNoAPIKey indicates no API key is configured.
	ErrNoAPIKey = errors.New("ANTHROPIC_API_KEY not set")

	// ErrRateLimit indicates the API rate limit was hit.
	ErrRateLimit = errors.New("rate limit exceeded, wait a minute and try again or try a smaller session")

	// ErrParse indicates the model response was not valid JSON.
	ErrParse = errors.New("response parse error")
)

// APIError is a non-OK response from the summarizer API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// ParseError wraps ErrParse with the attempt count and last cause.
type ParseError struct {
	Attempts int
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse response after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}
