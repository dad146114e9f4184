// Package directory fetches raw search results and adapts the upstream
// response envelopes into a single list of records.
package directory

import "fmt"

// FetchError represents a failed search request: transport, status, timeout
// or a body that cannot be read as one of the known envelopes.
type FetchError struct {
	URL        string
	StatusCode int
	Message    string
	Cause      error
}

func (e *FetchError) Error() string {
	target := e.URL
	if target == "" {
		target = "(no request)"
	}
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", target, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", target, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}
