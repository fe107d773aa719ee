package zep

import (
	"errors"
	"net/http"
	"testing"
)

func TestValidationErrorMatchesSentinel(t *testing.T) {
	var err error = &ValidationError{Field: "role", Reason: "is required"}
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("ValidationError should match ErrSchemaValidation")
	}
	if errors.Is(errors.New("other"), ErrSchemaValidation) {
		t.Fatalf("unrelated error matched ErrSchemaValidation")
	}
}

func TestAPIErrorNotFound(t *testing.T) {
	notFound := &APIError{Op: "get memory", StatusCode: http.StatusNotFound}
	if !errors.Is(notFound, ErrNotFound) {
		t.Fatalf("404 APIError should match ErrNotFound")
	}
	serverErr := &APIError{Op: "get memory", StatusCode: http.StatusInternalServerError}
	if errors.Is(serverErr, ErrNotFound) {
		t.Fatalf("500 APIError should not match ErrNotFound")
	}
	if serverErr.Error() != "get memory: status 500" {
		t.Fatalf("unexpected message %q", serverErr.Error())
	}
}
