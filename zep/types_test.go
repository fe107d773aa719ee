package zep

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"
)

func mustTime(t *testing.T, s string) *time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse time %q: %v", s, err)
	}
	return &ts
}

func TestMessageToDict(t *testing.T) {
	msg := Message{Role: "user", Content: "hi"}
	got := msg.ToDict()
	want := map[string]interface{}{
		"role":        "user",
		"content":     "hi",
		"uuid":        nil,
		"created_at":  nil,
		"token_count": nil,
		"metadata":    nil,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ToDict() = %#v, want %#v", got, want)
	}
}

func TestMessageToDictRoundTrip(t *testing.T) {
	tc := 12
	msg := Message{
		UUID:       "550e8400-e29b-41d4-a716-446655440000",
		CreatedAt:  mustTime(t, "2024-01-01T00:00:00Z"),
		Role:       "assistant",
		Content:    "hello there",
		TokenCount: &tc,
		Metadata:   map[string]interface{}{"lang": "en"},
	}
	d := msg.ToDict()
	if d["uuid"] != msg.UUID || d["role"] != "assistant" || d["content"] != "hello there" {
		t.Fatalf("unexpected dict %#v", d)
	}
	if d["created_at"] != "2024-01-01T00:00:00Z" {
		t.Fatalf("created_at = %v", d["created_at"])
	}
	if d["token_count"] != 12 {
		t.Fatalf("token_count = %v", d["token_count"])
	}
	if !reflect.DeepEqual(d["metadata"], msg.Metadata) {
		t.Fatalf("metadata = %v", d["metadata"])
	}
}

func TestMessageEquality(t *testing.T) {
	a := Message{Role: "user", Content: "hi", Metadata: map[string]interface{}{"k": "v"}}
	b := Message{Role: "user", Content: "hi", Metadata: map[string]interface{}{"k": "v"}}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("identical field values should be equal")
	}
	b.Content = "bye"
	if reflect.DeepEqual(a, b) {
		t.Fatalf("differing content should not be equal")
	}
}

func TestSummaryToDictExactKeys(t *testing.T) {
	s := Summary{
		UUID:              "s1",
		CreatedAt:         mustTime(t, "2024-01-01T00:00:00Z"),
		Content:           "recap",
		RecentMessageUUID: "m9",
		TokenCount:        42,
	}
	got := s.ToDict()
	want := map[string]interface{}{
		"uuid":                "s1",
		"created_at":          "2024-01-01T00:00:00Z",
		"content":             "recap",
		"recent_message_uuid": "m9",
		"token_count":         42,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ToDict() = %#v, want %#v", got, want)
	}
	if len(got) != 5 {
		t.Fatalf("expected exactly 5 keys, got %d", len(got))
	}
}

func TestMemoryToDictEmptyMessages(t *testing.T) {
	m := Memory{}
	d := m.ToDict()
	msgs, ok := d["messages"].([]map[string]interface{})
	if !ok {
		t.Fatalf("messages has type %T", d["messages"])
	}
	if msgs == nil || len(msgs) != 0 {
		t.Fatalf("messages = %v, want empty non-nil slice", msgs)
	}
}

func TestMemoryMarshalEmptyMessagesAsArray(t *testing.T) {
	b, err := json.Marshal(Memory{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"messages":[]`) {
		t.Fatalf("serialized form %s should carry messages:[]", b)
	}
}

func TestMemoryToDictExpandsNested(t *testing.T) {
	m := Memory{
		Messages: []Message{
			{Role: "user", Content: "hi"},
			{Role: "assistant", Content: "hello"},
		},
		Summary: &Summary{
			UUID:              "s1",
			CreatedAt:         mustTime(t, "2024-01-01T00:00:00Z"),
			Content:           "recap",
			RecentMessageUUID: "m9",
			TokenCount:        42,
		},
	}
	d := m.ToDict()
	msgs := d["messages"].([]map[string]interface{})
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	// Insertion order is conversation order; the dict must preserve it.
	if msgs[0]["content"] != "hi" || msgs[1]["content"] != "hello" {
		t.Fatalf("message order lost: %v", msgs)
	}
	summary, ok := d["summary"].(map[string]interface{})
	if !ok || summary["uuid"] != "s1" {
		t.Fatalf("summary not expanded: %v", d["summary"])
	}
}

func TestNewMemorySearchPayloadDefaults(t *testing.T) {
	p := NewMemorySearchPayload("hello")
	if p.SearchScope != SearchScopeMessages {
		t.Fatalf("search_scope = %q, want messages", p.SearchScope)
	}
	if p.SearchType != SearchTypeSimilarity {
		t.Fatalf("search_type = %q, want similarity", p.SearchType)
	}
	if p.Metadata != nil || p.MMRLambda != nil {
		t.Fatalf("metadata/mmr_lambda should default to nil")
	}
	d := p.ToDict()
	if d["text"] != "hello" || d["search_scope"] != "messages" || d["search_type"] != "similarity" {
		t.Fatalf("unexpected dict %#v", d)
	}
	if d["metadata"] != nil || d["mmr_lambda"] != nil {
		t.Fatalf("unset optionals should be nil in dict: %#v", d)
	}
}

func TestSessionToDictRoundTrip(t *testing.T) {
	id := int64(7)
	s := Session{
		UUID:      "abc",
		ID:        &id,
		CreatedAt: mustTime(t, "2024-02-02T10:00:00Z"),
		SessionID: "sess-1",
		UserID:    "user-1",
		Metadata:  map[string]interface{}{"plan": "pro"},
	}
	d := s.ToDict()
	if d["session_id"] != "sess-1" || d["uuid"] != "abc" || d["user_id"] != "user-1" {
		t.Fatalf("unexpected dict %#v", d)
	}
	if d["id"] != int64(7) {
		t.Fatalf("id = %v", d["id"])
	}
	if d["updated_at"] != nil || d["deleted_at"] != nil {
		t.Fatalf("unset timestamps should be nil")
	}
}

func TestMemorySearchResultMessageStaysUntyped(t *testing.T) {
	raw := `{"message":{"role":"user","content":"hi"},"dist":0.42}`
	var r MemorySearchResult
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.Message["role"] != "user" {
		t.Fatalf("message = %v", r.Message)
	}
	if r.Dist == nil || *r.Dist != 0.42 {
		t.Fatalf("dist = %v", r.Dist)
	}
	d := r.ToDict()
	if d["summary"] != nil || d["metadata"] != nil {
		t.Fatalf("unset optionals should be nil in dict: %#v", d)
	}
}

func TestRecordJSONRoundTrip(t *testing.T) {
	tc := 3
	orig := Memory{
		Messages: []Message{{Role: "user", Content: "hi", TokenCount: &tc}},
		Metadata: map[string]interface{}{"topic": "greetings"},
	}
	b, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Memory
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(orig, back) {
		t.Fatalf("round trip mismatch:\n  orig %#v\n  back %#v", orig, back)
	}
}
