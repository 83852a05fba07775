package summarizer

import (
	"errors"
	"fmt"
)

var ErrInvalidCompressionRate = errors.New("compression rate must be between 0.1 and 1.0")

// ValidationError reports a request the summarizer refuses to run.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
