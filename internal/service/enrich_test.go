package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/timmy/pvhub/internal/domain"
	"github.com/timmy/pvhub/internal/prompts"
	"github.com/timmy/pvhub/internal/source"
)

func rawItems(n int) []source.RawItem {
	items := make([]source.RawItem, n)
	for i := range items {
		items[i] = source.RawItem{
			Title:    fmt.Sprintf("钙钛矿资讯%d", i+1),
			URL:      fmt.Sprintf("https://example.com/%d", i+1),
			Platform: "北极星光伏网",
		}
	}
	return items
}

func TestEnricherParse(t *testing.T) {
	tests := []struct {
		name      string
		raw       int
		content   string
		err       error
		wantCalls int
		wantItems int
	}{
		{name: "no raw items skips the call", raw: 0, wantCalls: 0, wantItems: 0},
		{name: "valid response", raw: 2, content: `{"items":[{"title":"a"},{"title":"b"}]}`, wantCalls: 1, wantItems: 2},
		{name: "empty content", raw: 2, content: "", wantCalls: 1, wantItems: 0},
		{name: "malformed json", raw: 2, content: `{"items":[`, wantCalls: 1, wantItems: 0},
		{name: "transport error", raw: 2, err: errors.New("timeout"), wantCalls: 1, wantItems: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &fakeLLM{responses: map[string]string{"news_parse_result": tt.content}, err: tt.err}
			e := NewEnricher[NewsCandidate](llm, prompts.MustLookup(domain.RecordKindNews), 0, clock)

			got := e.Parse(context.Background(), rawItems(tt.raw))
			if len(got) != tt.wantItems {
				t.Errorf("Parse() returned %d items, want %d", len(got), tt.wantItems)
			}
			if len(llm.requests) != tt.wantCalls {
				t.Errorf("LLM calls = %d, want %d", len(llm.requests), tt.wantCalls)
			}
		})
	}
}

func TestEnricherParseCapsInput(t *testing.T) {
	llm := &fakeLLM{responses: map[string]string{}}
	e := NewEnricher[TenderCandidate](llm, prompts.MustLookup(domain.RecordKindTender), 10, clock)

	e.Parse(context.Background(), rawItems(12))

	calls := llm.calls("tender_parse_result")
	if len(calls) != 1 {
		t.Fatalf("parse calls = %d, want 1", len(calls))
	}
	system, user := calls[0].Messages[0].Content, calls[0].Messages[1].Content
	if !strings.HasPrefix(user, "请解析以下10条招标信息") {
		t.Errorf("user prompt = %q", user[:40])
	}
	if !strings.Contains(user, "[10] 标题: 钙钛矿资讯10") || strings.Contains(user, "[11]") {
		t.Error("expected exactly the first 10 items in the prompt")
	}
	if !strings.Contains(user, "\n摘要: ") {
		t.Error("tender prompt should carry the snippet line")
	}
	if !strings.HasSuffix(system, "今天日期：2026-03-14") {
		t.Errorf("system prompt should end with today's date, got %q", system[len(system)-30:])
	}
	if !calls[0].Schema.Strict {
		t.Error("parse schema must be strict")
	}
}

func TestEnricherFallback(t *testing.T) {
	llm := &fakeLLM{responses: map[string]string{
		"tender_list": `{"items":[{"title":"x","projectType":"research","status":"open"}]}`,
	}}
	e := NewEnricher[TenderCandidate](llm, prompts.MustLookup(domain.RecordKindTender), 0, clock)

	if got := e.Fallback(context.Background(), 0); got != nil {
		t.Errorf("Fallback(0) = %v, want nil", got)
	}
	if len(llm.requests) != 0 {
		t.Fatalf("Fallback(0) must not call the LLM")
	}

	got := e.Fallback(context.Background(), 3)
	if len(got) != 1 || got[0].ProjectType != "research" {
		t.Errorf("Fallback(3) = %+v", got)
	}
	user := llm.requests[0].Messages[1].Content
	if user != "今天是2026-03-14，请生成3条近期钙钛矿光伏招投标信息，要求来源可信、内容真实。" {
		t.Errorf("user prompt = %q", user)
	}
}

func TestDecodeItems(t *testing.T) {
	tests := []struct {
		content string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"   ", 0, false},
		{`{"items":[]}`, 0, false},
		{`{"items":[{"title":"a"}]}`, 1, false},
		{`{}`, 0, false},
		{`not json`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			got, err := decodeItems[NewsCandidate](tt.content)
			if (err != nil) != tt.wantErr {
				t.Fatalf("decodeItems() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != tt.want {
				t.Errorf("decodeItems() = %d items, want %d", len(got), tt.want)
			}
		})
	}
}
