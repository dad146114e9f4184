// Package endpoint discovers the versioned search-data endpoint of the directory site.
package endpoint

import "fmt"

// EndpointDiscoveryError means the versioned endpoint could not be derived from the root page.
type EndpointDiscoveryError struct {
	Origin  string
	Message string
	Cause   error
}

func (e *EndpointDiscoveryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("endpoint discovery failed for %s: %s: %v", e.Origin, e.Message, e.Cause)
	}
	return fmt.Sprintf("endpoint discovery failed for %s: %s", e.Origin, e.Message)
}

func (e *EndpointDiscoveryError) Unwrap() error {
	return e.Cause
}
