package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/timmy/pvhub/internal/prompts"
)

// LLMInvoker sends one chat completion. Implementations must honor ctx.
type LLMInvoker interface {
	Invoke(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// ChatMessage is a role-tagged message.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a chat completion with an optional strict JSON schema.
type ChatRequest struct {
	Messages []ChatMessage
	Schema   *prompts.JSONSchema
}

// ChatResponse carries the choices returned by the model.
type ChatResponse struct {
	Choices []ChatChoice `json:"choices"`
}

// ChatChoice is one completion alternative.
type ChatChoice struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

// FirstContent returns the first choice's content, or "" when there is none.
func (r *ChatResponse) FirstContent() string {
	if r == nil || len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// LLMClient talks to an OpenAI-compatible chat completion endpoint.
type LLMClient struct {
	client    *resty.Client
	model     string
	maxTokens int
	endpoint  string
}

// LLMClientConfig holds configuration for LLMClient.
type LLMClientConfig struct {
	Model     string
	APIKey    string
	BaseURL   string
	Timeout   time.Duration
	MaxTokens int
}

// NewLLMClient creates a chat completion client.
func NewLLMClient(cfg *LLMClientConfig) *LLMClient {
	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	client.SetTimeout(timeout)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &LLMClient{
		client:    client,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		endpoint:  baseURL + "/chat/completions",
	}
}

// GetModel returns the model name being used.
func (c *LLMClient) GetModel() string {
	return c.model
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []ChatMessage   `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type       string          `json:"type"`
	JSONSchema *jsonSchemaSpec `json:"json_schema,omitempty"`
}

type jsonSchemaSpec struct {
	Name   string                 `json:"name"`
	Strict bool                   `json:"strict"`
	Schema map[string]interface{} `json:"schema"`
}

type chatCompletionResponse struct {
	ChatResponse
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Invoke sends req and returns the decoded response. Non-2xx statuses and
// API-level errors are returned as errors; an empty choice list is not.
func (c *LLMClient) Invoke(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	body := chatCompletionRequest{
		Model:     c.model,
		Messages:  req.Messages,
		MaxTokens: c.maxTokens,
	}
	if req.Schema != nil {
		body.ResponseFormat = &responseFormat{
			Type: "json_schema",
			JSONSchema: &jsonSchemaSpec{
				Name:   req.Schema.Name,
				Strict: req.Schema.Strict,
				Schema: req.Schema.Schema,
			},
		}
	}

	var resp chatCompletionResponse
	httpResp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&resp).
		SetError(&resp).
		Post(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to call LLM API: %w", err)
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		errorMsg := fmt.Sprintf("HTTP %d: %s", httpResp.StatusCode(), string(httpResp.Body()))
		if resp.Error != nil {
			errorMsg = fmt.Sprintf("HTTP %d: %s", httpResp.StatusCode(), resp.Error.Message)
		}
		return nil, fmt.Errorf("LLM API returned error: %s", errorMsg)
	}

	if resp.Error != nil {
		return nil, fmt.Errorf("LLM API error: %s", resp.Error.Message)
	}

	return &resp.ChatResponse, nil
}

func systemUser(system, user string) []ChatMessage {
	return []ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}
}
