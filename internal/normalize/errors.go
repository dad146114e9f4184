package normalize

import "fmt"

// RecordError represents a raw record that cannot be turned into a SearchResult.
type RecordError struct {
	Message string
	Cause   error
}

func (e *RecordError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("record error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("record error: %s", e.Message)
}

func (e *RecordError) Unwrap() error {
	return e.Cause
}
