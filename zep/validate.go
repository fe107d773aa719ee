package zep

import (
	"regexp"

	"github.com/google/uuid"
)

// sessionIDRegex validates session IDs: 1-250 characters, no whitespace or
// path separators (the ID is used verbatim as a URL path segment).
var sessionIDRegex = regexp.MustCompile(`^[^\s/]{1,250}$`)

// ValidateSessionID validates a caller-chosen session identifier.
func ValidateSessionID(sessionID string) error {
	if sessionID == "" {
		return &ValidationError{Field: "session_id", Reason: "is required"}
	}
	if !sessionIDRegex.MatchString(sessionID) {
		return &ValidationError{Field: "session_id", Reason: "must be 1-250 characters with no whitespace or slashes"}
	}
	return nil
}

// ValidateUUID validates that a string is a well-formed UUID.
// Used for message, summary, and memory identifiers returned by the server.
func ValidateUUID(id, fieldName string) error {
	if id == "" {
		return &ValidationError{Field: fieldName, Reason: "is required"}
	}
	if _, err := uuid.Parse(id); err != nil {
		return &ValidationError{Field: fieldName, Reason: "must be a valid UUID"}
	}
	return nil
}

// Validate checks the caller-settable required fields of a session.
func (s Session) Validate() error {
	return ValidateSessionID(s.SessionID)
}

// Validate checks the required fields of a message.
func (m Message) Validate() error {
	if m.Role == "" {
		return &ValidationError{Field: "role", Reason: "is required"}
	}
	if m.Content == "" {
		return &ValidationError{Field: "content", Reason: "is required"}
	}
	return nil
}

// Validate checks the required fields of a summary. Summaries are always
// server-generated, so every field except token_count must be present
// (a zero token count is representable and accepted).
func (s Summary) Validate() error {
	if err := ValidateUUID(s.UUID, "uuid"); err != nil {
		return err
	}
	if s.CreatedAt == nil {
		return &ValidationError{Field: "created_at", Reason: "is required"}
	}
	if s.Content == "" {
		return &ValidationError{Field: "content", Reason: "is required"}
	}
	if err := ValidateUUID(s.RecentMessageUUID, "recent_message_uuid"); err != nil {
		return err
	}
	return nil
}

// Validate checks a memory prior to submission: every message must carry
// role and content, and the summary, when present, must be complete.
func (m Memory) Validate() error {
	for _, msg := range m.Messages {
		if err := msg.Validate(); err != nil {
			return err
		}
	}
	if m.Summary != nil {
		return m.Summary.Validate()
	}
	return nil
}
