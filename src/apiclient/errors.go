package apiclient

import (
	"fmt"
	"strings"
)

// NetworkError is a transport-level failure: connection refused, DNS, reset, context cancelled.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("GET %s: %v", e.URL, e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPStatusError reports a non-2xx response. Body holds a short prefix of the response for logs.
type HTTPStatusError struct {
	URL  string
	Code int
	Body string
}

func (e *HTTPStatusError) Error() string {
	if strings.TrimSpace(e.Body) == "" {
		return fmt.Sprintf("GET %s: status %d", e.URL, e.Code)
	}
	return fmt.Sprintf("GET %s: status %d: %s", e.URL, e.Code, e.Body)
}

// ParseError reports a 2xx response whose body is not valid JSON.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("GET %s: parse body: %v", e.URL, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }
