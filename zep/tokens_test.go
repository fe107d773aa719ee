package zep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateTokensPrefersServerCount(t *testing.T) {
	// A server-assigned count is authoritative; no tokenizer involved.
	tc := 7
	msg := Message{Role: "user", Content: "hi", TokenCount: &tc}
	got, err := msg.EstimateTokens()
	require.NoError(t, err)
	assert.Equal(t, 7, got)

	mem := Memory{TokenCount: &tc}
	got, err = mem.EstimateTokens()
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestCountTokens(t *testing.T) {
	n, err := CountTokens("hello world")
	if err != nil {
		// The cl100k_base table may be unavailable offline.
		t.Skipf("tokenizer unavailable: %v", err)
	}
	assert.Greater(t, n, 0)

	empty, err := CountTokens("")
	require.NoError(t, err)
	assert.Equal(t, 0, empty)
}

func TestMemoryEstimateTokensSumsParts(t *testing.T) {
	if _, err := CountTokens("warmup"); err != nil {
		t.Skipf("tokenizer unavailable: %v", err)
	}

	mem := Memory{
		Messages: []Message{
			{Role: "user", Content: "hello there"},
			{Role: "assistant", Content: "hi"},
		},
		Summary: &Summary{Content: "greeting exchange", TokenCount: 3},
	}
	total, err := mem.EstimateTokens()
	require.NoError(t, err)

	first, err := mem.Messages[0].EstimateTokens()
	require.NoError(t, err)
	second, err := mem.Messages[1].EstimateTokens()
	require.NoError(t, err)

	assert.Equal(t, first+second+3, total)
}
