// ============================================================================
// internal/academics/errors.go
// Error taxonomy for the academic record engine
// ============================================================================

package academics

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStudentNotFound is returned when the referenced student does not exist.
	ErrStudentNotFound = errors.New("student not found")

	// ErrConflict is returned when the optimistic version check failed on
	// every retry; the caller should resubmit the whole operation.
	ErrConflict = errors.New("student record was modified concurrently")
)

// FieldError pinpoints a single failed validation: which field, on which
// subject entry if applicable, and why.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// InvalidInputError rejects an upload before any state is mutated. It
// carries every failed field so the caller can correct and resubmit.
type InvalidInputError struct {
	Fields []FieldError `json:"fields"`
}

func (e *InvalidInputError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid input"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// newInvalidInput builds an InvalidInputError for a single field.
func newInvalidInput(field, message string) *InvalidInputError {
	return &InvalidInputError{Fields: []FieldError{{Field: field, Message: message}}}
}
