package prompts

import (
	"fmt"
	"strings"

	"github.com/timmy/pvhub/internal/domain"
	"github.com/timmy/pvhub/internal/source"
)

// JSONSchema is a named strict structured-output schema.
type JSONSchema struct {
	Name   string
	Strict bool
	Schema map[string]interface{}
}

// Template holds the prompts and schemas for one record kind. Parse and
// fallback share the same item schema.
type Template struct {
	Kind domain.RecordKind

	parseSystem    string
	parseUser      string
	fallbackSystem string
	fallbackUser   string
	withSnippet    bool

	parseSchemaName    string
	fallbackSchemaName string
	itemSchema         map[string]interface{}
}

// ParseMessages returns the system and user prompts for structuring items.
func (t Template) ParseMessages(items []source.RawItem, today string) (system, user string) {
	return fmt.Sprintf(t.parseSystem, today),
		fmt.Sprintf(t.parseUser, len(items), FormatRawItems(items, t.withSnippet))
}

// FallbackMessages returns the system and user prompts for generating count
// records without scraped input.
func (t Template) FallbackMessages(count int, today string) (system, user string) {
	return fmt.Sprintf(t.fallbackSystem, count), fmt.Sprintf(t.fallbackUser, today, count)
}

// ParseSchema returns the response schema for the parse call.
func (t Template) ParseSchema() JSONSchema {
	return t.listSchema(t.parseSchemaName)
}

// FallbackSchema returns the response schema for the fallback call.
func (t Template) FallbackSchema() JSONSchema {
	return t.listSchema(t.fallbackSchemaName)
}

func (t Template) listSchema(name string) JSONSchema {
	return JSONSchema{
		Name:   name,
		Strict: true,
		Schema: object(map[string]interface{}{
			"items": map[string]interface{}{
				"type":  "array",
				"items": t.itemSchema,
			},
		}, "items"),
	}
}

// FormatRawItems renders items as the numbered block the parse prompts expect.
func FormatRawItems(items []source.RawItem, withSnippet bool) string {
	blocks := make([]string, 0, len(items))
	for i, item := range items {
		b := fmt.Sprintf("[%d] 标题: %s\n来源: %s\n链接: %s", i+1, item.Title, item.Platform, item.URL)
		if withSnippet {
			b += "\n摘要: " + item.Snippet
		}
		blocks = append(blocks, b)
	}
	return strings.Join(blocks, "\n\n")
}

var registry = map[domain.RecordKind]Template{
	domain.RecordKindNews: {
		Kind:               domain.RecordKindNews,
		parseSystem:        NewsParseSystemPrompt,
		parseUser:          NewsParseUserPrompt,
		fallbackSystem:     NewsFallbackSystemPrompt,
		fallbackUser:       NewsFallbackUserPrompt,
		parseSchemaName:    "news_parse_result",
		fallbackSchemaName: "news_list",
		itemSchema: object(map[string]interface{}{
			"title":       str(),
			"summary":     str(),
			"sourceName":  str(),
			"sourceUrl":   str(),
			"category":    str(),
			"isImportant": boolean(),
		}, "title", "summary", "sourceName", "sourceUrl", "category", "isImportant"),
	},
	domain.RecordKindTender: {
		Kind:               domain.RecordKindTender,
		parseSystem:        TenderParseSystemPrompt,
		parseUser:          TenderParseUserPrompt,
		fallbackSystem:     TenderFallbackSystemPrompt,
		fallbackUser:       TenderFallbackUserPrompt,
		withSnippet:        true,
		parseSchemaName:    "tender_parse_result",
		fallbackSchemaName: "tender_list",
		itemSchema: object(map[string]interface{}{
			"title":          str(),
			"description":    str(),
			"projectType":    str(),
			"budget":         str(),
			"region":         str(),
			"publisherName":  str(),
			"isImportant":    boolean(),
			"status":         str(),
			"sourceUrl":      str(),
			"sourcePlatform": str(),
		}, "title", "description", "projectType", "budget", "region", "publisherName",
			"isImportant", "status", "sourceUrl", "sourcePlatform"),
	},
}

// Lookup returns the template for kind.
func Lookup(kind domain.RecordKind) (Template, bool) {
	t, ok := registry[kind]
	return t, ok
}

// MustLookup is Lookup for kinds known at compile time.
func MustLookup(kind domain.RecordKind) Template {
	t, ok := registry[kind]
	if !ok {
		panic("prompts: no template for kind " + string(kind))
	}
	return t
}

// NewsSummarySchema is the response schema for article summaries.
func NewsSummarySchema() JSONSchema {
	return JSONSchema{
		Name:   "news_summary",
		Strict: true,
		Schema: object(map[string]interface{}{
			"summary":  str(),
			"keywords": map[string]interface{}{"type": "array", "items": str()},
		}, "summary", "keywords"),
	}
}

func object(props map[string]interface{}, required ...string) map[string]interface{} {
	return map[string]interface{}{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

func str() map[string]interface{}     { return map[string]interface{}{"type": "string"} }
func boolean() map[string]interface{} { return map[string]interface{}{"type": "boolean"} }
