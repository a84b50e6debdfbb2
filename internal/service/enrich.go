package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/timmy/pvhub/internal/logger"
	"github.com/timmy/pvhub/internal/prompts"
	"github.com/timmy/pvhub/internal/source"
)

// DefaultParseLimit is how many raw items are sent to the parse call.
const DefaultParseLimit = 10

const dateLayout = "2006-01-02"

// Enricher turns raw scraped items into candidates of type T, and generates
// candidates from model knowledge when scraping comes up short. It never
// returns an error: every failure collapses to zero candidates.
type Enricher[T candidate] struct {
	llm        LLMInvoker
	tmpl       prompts.Template
	parseLimit int
	now        func() time.Time
}

// NewEnricher creates an Enricher for tmpl. A non-positive parseLimit uses DefaultParseLimit.
func NewEnricher[T candidate](llm LLMInvoker, tmpl prompts.Template, parseLimit int, now func() time.Time) *Enricher[T] {
	if parseLimit <= 0 {
		parseLimit = DefaultParseLimit
	}
	if now == nil {
		now = time.Now
	}
	return &Enricher[T]{llm: llm, tmpl: tmpl, parseLimit: parseLimit, now: now}
}

// Parse structures at most parseLimit items. Zero items skip the LLM call.
func (e *Enricher[T]) Parse(ctx context.Context, items []source.RawItem) []T {
	if len(items) == 0 {
		return nil
	}
	if len(items) > e.parseLimit {
		items = items[:e.parseLimit]
	}

	system, user := e.tmpl.ParseMessages(items, e.today())
	schema := e.tmpl.ParseSchema()
	out := e.call(ctx, "parse", ChatRequest{Messages: systemUser(system, user), Schema: &schema})
	logger.With(logger.Fields{"input": len(items), logger.FieldCount: len(out)}).
		Info(ctx, "LLM parse produced %d candidates", len(out))
	return out
}

// Fallback asks for count candidates without scraped input.
func (e *Enricher[T]) Fallback(ctx context.Context, count int) []T {
	if count <= 0 {
		return nil
	}

	system, user := e.tmpl.FallbackMessages(count, e.today())
	schema := e.tmpl.FallbackSchema()
	out := e.call(ctx, "fallback", ChatRequest{Messages: systemUser(system, user), Schema: &schema})
	logger.With(logger.Fields{"requested": count, logger.FieldCount: len(out)}).
		Info(ctx, "LLM fallback produced %d candidates", len(out))
	return out
}

func (e *Enricher[T]) call(ctx context.Context, step string, req ChatRequest) []T {
	start := time.Now()
	resp, err := e.llm.Invoke(ctx, req)
	if err != nil {
		logger.With(logger.Fields{"step": step}).Since(start).
			Warn(ctx, "LLM %s call failed: %v", step, err)
		return nil
	}

	items, err := decodeItems[T](resp.FirstContent())
	if err != nil {
		logger.With(logger.Fields{"step": step}).
			Warn(ctx, "LLM %s response is not valid JSON: %v", step, err)
		return nil
	}
	return items
}

func (e *Enricher[T]) today() string {
	return e.now().UTC().Format(dateLayout)
}

// decodeItems parses {"items": [...]}. Empty content is an empty list.
func decodeItems[T any](content string) ([]T, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil
	}
	var envelope struct {
		Items []T `json:"items"`
	}
	if err := json.Unmarshal([]byte(content), &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode items: %w", err)
	}
	return envelope.Items, nil
}
