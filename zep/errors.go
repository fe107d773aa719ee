package zep

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrSchemaValidation reports that a record failed its required-field or
// type checks. Concrete failures are *ValidationError values carrying the
// offending field; errors.Is(err, ErrSchemaValidation) matches all of them.
var ErrSchemaValidation = errors.New("schema validation failed")

// ErrNotFound is returned when the server reports 404 for a session or its
// memory.
var ErrNotFound = errors.New("not found")

// ValidationError identifies the missing or invalid field that failed
// validation. It satisfies errors.Is(_, ErrSchemaValidation).
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrSchemaValidation }

// APIError carries a non-2xx status returned by the memory service.
type APIError struct {
	Op         string // the operation, e.g. "get memory"
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
}

// Is maps 404 responses onto ErrNotFound so callers can test with errors.Is
// without inspecting status codes.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}
