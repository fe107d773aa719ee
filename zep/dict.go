package zep

import "time"

// ToDict conversions produce the canonical string-keyed mapping serialized
// to the wire. Unlike plain JSON marshaling, every declared field appears
// in the output, with nil standing in for unset optionals, so a dict is
// the exact field-for-field inverse of construction. Timestamps are
// rendered as RFC-3339 UTC strings.

func timeVal(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func strVal(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func intVal(i *int) interface{} {
	if i == nil {
		return nil
	}
	return *i
}

func int64Val(i *int64) interface{} {
	if i == nil {
		return nil
	}
	return *i
}

func floatVal(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}

func metaVal(m map[string]interface{}) interface{} {
	if m == nil {
		return nil
	}
	return m
}

// ToDict returns the session as a plain string-keyed mapping.
func (s Session) ToDict() map[string]interface{} {
	return map[string]interface{}{
		"uuid":       strVal(s.UUID),
		"id":         int64Val(s.ID),
		"created_at": timeVal(s.CreatedAt),
		"updated_at": timeVal(s.UpdatedAt),
		"deleted_at": timeVal(s.DeletedAt),
		"session_id": s.SessionID,
		"user_id":    strVal(s.UserID),
		"metadata":   metaVal(s.Metadata),
	}
}

// ToDict returns the message as a plain string-keyed mapping.
func (m Message) ToDict() map[string]interface{} {
	return map[string]interface{}{
		"uuid":        strVal(m.UUID),
		"created_at":  timeVal(m.CreatedAt),
		"role":        m.Role,
		"content":     m.Content,
		"token_count": intVal(m.TokenCount),
		"metadata":    metaVal(m.Metadata),
	}
}

// ToDict returns the summary as a plain string-keyed mapping.
func (s Summary) ToDict() map[string]interface{} {
	return map[string]interface{}{
		"uuid":                s.UUID,
		"created_at":          timeVal(s.CreatedAt),
		"content":             s.Content,
		"recent_message_uuid": s.RecentMessageUUID,
		"token_count":         s.TokenCount,
	}
}

// ToDict returns the memory as a plain string-keyed mapping, expanding each
// message and the summary recursively. Messages is always a slice, [] when
// the memory holds none.
func (m Memory) ToDict() map[string]interface{} {
	msgs := make([]map[string]interface{}, 0, len(m.Messages))
	for _, msg := range m.Messages {
		msgs = append(msgs, msg.ToDict())
	}
	var summary interface{}
	if m.Summary != nil {
		summary = m.Summary.ToDict()
	}
	return map[string]interface{}{
		"messages":    msgs,
		"metadata":    metaVal(m.Metadata),
		"summary":     summary,
		"uuid":        strVal(m.UUID),
		"created_at":  timeVal(m.CreatedAt),
		"token_count": intVal(m.TokenCount),
	}
}

// ToDict returns the search payload as a plain string-keyed mapping.
func (p MemorySearchPayload) ToDict() map[string]interface{} {
	return map[string]interface{}{
		"text":         strVal(p.Text),
		"metadata":     metaVal(p.Metadata),
		"search_scope": string(p.SearchScope),
		"search_type":  string(p.SearchType),
		"mmr_lambda":   floatVal(p.MMRLambda),
	}
}

// ToDict returns the search result as a plain string-keyed mapping.
func (r MemorySearchResult) ToDict() map[string]interface{} {
	var summary interface{}
	if r.Summary != nil {
		summary = r.Summary.ToDict()
	}
	var message interface{}
	if r.Message != nil {
		message = r.Message
	}
	return map[string]interface{}{
		"message":  message,
		"summary":  summary,
		"metadata": metaVal(r.Metadata),
		"dist":     floatVal(r.Dist),
	}
}
