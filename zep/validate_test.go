package zep

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateSessionID(t *testing.T) {
	tests := []struct {
		name      string
		sessionID string
		wantErr   bool
		errMsg    string
	}{
		{"empty sessionID", "", true, "session_id is required"},
		{"valid simple", "session1", false, ""},
		{"valid with hyphen", "session-1", false, ""},
		{"valid with underscore", "user_session_42", false, ""},
		{"valid uuid-shaped", "550e8400-e29b-41d4-a716-446655440000", false, ""},
		{"spaces not allowed", "session 1", true, "no whitespace"},
		{"slash not allowed", "a/b", true, "no whitespace or slashes"},
		{"too long", strings.Repeat("a", 251), true, "1-250 characters"},
		{"max length ok", strings.Repeat("a", 250), false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSessionID(tt.sessionID)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ValidateSessionID() expected error for %q", tt.sessionID)
				} else if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("ValidateSessionID() error = %v, want to contain %q", err, tt.errMsg)
				}
			} else {
				if err != nil {
					t.Errorf("ValidateSessionID() unexpected error for %q: %v", tt.sessionID, err)
				}
			}
		})
	}
}

func TestValidateUUID(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		fieldName string
		wantErr   bool
		errMsg    string
	}{
		{"empty UUID", "", "uuid", true, "uuid is required"},
		{"valid UUID v4", "550e8400-e29b-41d4-a716-446655440000", "uuid", false, ""},
		{"valid UUID v1", "6ba7b810-9dad-11d1-80b4-00c04fd430c8", "recent_message_uuid", false, ""},
		{"invalid format", "not-a-uuid", "uuid", true, "uuid must be a valid UUID"},
		{"truncated", "550e8400-e29b-41d4", "uuid", true, "uuid must be a valid UUID"},
		{"bad characters", "550e8400-g29b-41d4-a716-446655440000", "recent_message_uuid", true, "recent_message_uuid must be a valid UUID"},
		{"without hyphens", "550e8400e29b41d4a716446655440000", "uuid", false, ""}, // Go UUID parser accepts this format
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUUID(tt.id, tt.fieldName)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ValidateUUID() expected error for %q", tt.id)
				} else if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("ValidateUUID() error = %v, want to contain %q", err, tt.errMsg)
				}
			} else {
				if err != nil {
					t.Errorf("ValidateUUID() unexpected error for %q: %v", tt.id, err)
				}
			}
		})
	}
}

func TestMessageValidate(t *testing.T) {
	tests := []struct {
		name    string
		msg     Message
		wantErr string // empty means valid
	}{
		{"valid", Message{Role: "user", Content: "hi"}, ""},
		{"missing role", Message{Content: "hi"}, "role"},
		{"missing content", Message{Role: "user"}, "content"},
		{"missing both reports role first", Message{}, "role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !errors.Is(err, ErrSchemaValidation) {
				t.Fatalf("error %v should match ErrSchemaValidation", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error %v should be a *ValidationError", err)
			}
			if verr.Field != tt.wantErr {
				t.Fatalf("field = %q, want %q", verr.Field, tt.wantErr)
			}
		})
	}
}

func TestSummaryValidate(t *testing.T) {
	valid := Summary{
		UUID:              "550e8400-e29b-41d4-a716-446655440000",
		CreatedAt:         mustTime(t, "2024-01-01T00:00:00Z"),
		Content:           "recap",
		RecentMessageUUID: "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		TokenCount:        42,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid summary rejected: %v", err)
	}

	missing := valid
	missing.UUID = ""
	if err := missing.Validate(); !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected schema validation error, got %v", err)
	}

	noTimestamp := valid
	noTimestamp.CreatedAt = nil
	if err := noTimestamp.Validate(); err == nil {
		t.Fatalf("expected error for missing created_at")
	}

	// A zero token count is representable and accepted.
	zeroTokens := valid
	zeroTokens.TokenCount = 0
	if err := zeroTokens.Validate(); err != nil {
		t.Fatalf("zero token count rejected: %v", err)
	}
}

func TestMemoryValidate(t *testing.T) {
	ok := Memory{Messages: []Message{{Role: "user", Content: "hi"}}}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid memory rejected: %v", err)
	}

	bad := Memory{Messages: []Message{{Role: "user", Content: "hi"}, {Role: "assistant"}}}
	err := bad.Validate()
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected schema validation error, got %v", err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "content" {
		t.Fatalf("expected content field failure, got %v", err)
	}

	empty := Memory{}
	if err := empty.Validate(); err != nil {
		t.Fatalf("empty memory should validate: %v", err)
	}
}
