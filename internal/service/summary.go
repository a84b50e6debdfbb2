package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/timmy/pvhub/internal/prompts"
)

// Summary input bounds, in runes.
const (
	MinSummaryContentLen = 50
	MaxSummaryContentLen = 2000
)

// ErrEmptyLLMResponse is returned when the model answers with no content.
var ErrEmptyLLMResponse = errors.New("empty response from LLM")

// NewsSummary is a generated summary with keywords.
type NewsSummary struct {
	Summary  string   `json:"summary"`
	Keywords []string `json:"keywords"`
}

// SummaryService generates article summaries.
type SummaryService struct {
	llm LLMInvoker
}

// NewSummaryService creates a SummaryService.
func NewSummaryService(llm LLMInvoker) *SummaryService {
	return &SummaryService{llm: llm}
}

// GenerateSummary summarizes one article. Only the first
// MaxSummaryContentLen runes of content are sent.
func (s *SummaryService) GenerateSummary(ctx context.Context, title, content string) (*NewsSummary, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(content) < MinSummaryContentLen {
		return nil, fmt.Errorf("%w: content must be at least %d characters", ErrInvalidInput, MinSummaryContentLen)
	}
	content = truncateRunes(content, MaxSummaryContentLen)

	schema := prompts.NewsSummarySchema()
	resp, err := s.llm.Invoke(ctx, ChatRequest{
		Messages: systemUser(prompts.NewsSummarySystemPrompt, fmt.Sprintf(prompts.NewsSummaryUserPrompt, title, content)),
		Schema:   &schema,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate summary: %w", err)
	}

	raw := strings.TrimSpace(resp.FirstContent())
	if raw == "" {
		return nil, ErrEmptyLLMResponse
	}
	var out NewsSummary
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("failed to decode summary: %w", err)
	}
	if out.Keywords == nil {
		out.Keywords = []string{}
	}
	return &out, nil
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
