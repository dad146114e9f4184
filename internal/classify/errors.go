// Package classify decides which upstream result pool a query belongs to.
package classify

import "fmt"

// ClassificationError represents a failed classification request (transport, status, timeout).
// An inconclusive classification answer is not an error; it yields types.KindUnknown.
type ClassificationError struct {
	Query   string
	Message string
	Cause   error
}

func (e *ClassificationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("classification error for %q: %s: %v", e.Query, e.Message, e.Cause)
	}
	return fmt.Sprintf("classification error for %q: %s", e.Query, e.Message)
}

func (e *ClassificationError) Unwrap() error {
	return e.Cause
}
