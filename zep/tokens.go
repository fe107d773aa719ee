package zep

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// Client-side token estimation for composing payloads under a budget.
// Counts use the cl100k_base encoding; the server's token_count fields
// remain authoritative once assigned.

var (
	tokenizerOnce sync.Once
	tokenizer     *tiktoken.Tiktoken
	tokenizerErr  error
)

func getTokenizer() (*tiktoken.Tiktoken, error) {
	tokenizerOnce.Do(func() {
		tokenizer, tokenizerErr = tiktoken.GetEncoding("cl100k_base")
	})
	if tokenizerErr != nil {
		return nil, fmt.Errorf("load tokenizer: %w", tokenizerErr)
	}
	return tokenizer, nil
}

// CountTokens returns the number of cl100k_base tokens in text.
func CountTokens(text string) (int, error) {
	tk, err := getTokenizer()
	if err != nil {
		return 0, err
	}
	return len(tk.Encode(text, nil, nil)), nil
}

// EstimateTokens estimates the token footprint of the message (role plus
// content). When the server has already assigned a count, that count is
// returned instead.
func (m Message) EstimateTokens() (int, error) {
	if m.TokenCount != nil {
		return *m.TokenCount, nil
	}
	roleTokens, err := CountTokens(m.Role)
	if err != nil {
		return 0, err
	}
	contentTokens, err := CountTokens(m.Content)
	if err != nil {
		return 0, err
	}
	return roleTokens + contentTokens, nil
}

// EstimateTokens estimates the token footprint of the whole memory: every
// message plus the summary, when present.
func (m Memory) EstimateTokens() (int, error) {
	if m.TokenCount != nil {
		return *m.TokenCount, nil
	}
	total := 0
	for _, msg := range m.Messages {
		n, err := msg.EstimateTokens()
		if err != nil {
			return 0, err
		}
		total += n
	}
	if m.Summary != nil {
		if m.Summary.TokenCount > 0 {
			total += m.Summary.TokenCount
		} else {
			n, err := CountTokens(m.Summary.Content)
			if err != nil {
				return 0, err
			}
			total += n
		}
	}
	return total, nil
}
