package domain

import (
	"errors"
	"fmt"
)

// ErrModelNotFound indicates the requested model is not known to the host.
var ErrModelNotFound = errors.New("model not found")

// ConnectionError indicates the inference host was unreachable or refused the
// connection. Fatal to the invocation; no retry.
type ConnectionError struct {
	Host string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection to %s failed: %v", e.Host, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// APIError indicates the host answered with a non-success status or an in-band
// error payload.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("api error: %s", e.Body)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Body)
}

// ParseError indicates a malformed line in the response stream. Output emitted
// before the bad line stands; the invocation continues degraded.
type ParseError struct {
	Line string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed stream line %q: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ContextOverflowError indicates the prompt plus generation budget exceeds the
// model's context window.
type ContextOverflowError struct {
	Model     string
	Tokens    int
	MaxTokens int
}

func (e *ContextOverflowError) Error() string {
	return fmt.Sprintf("context overflow for model %s: %d tokens > %d max", e.Model, e.Tokens, e.MaxTokens)
}
