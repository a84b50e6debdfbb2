package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// WebhookNotifier posts {title, content} as JSON to an HTTP endpoint.
type WebhookNotifier struct {
	client *resty.Client
	url    string
}

// NewWebhookNotifier creates a webhook notifier. token, when set, is sent as a bearer token.
func NewWebhookNotifier(url, token string) *WebhookNotifier {
	client := resty.New()
	client.SetTimeout(10 * time.Second)
	client.SetHeader("Content-Type", "application/json")
	if token != "" {
		client.SetAuthToken(token)
	}
	return &WebhookNotifier{client: client, url: url}
}

type webhookPayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// NotifyOwner posts the notification.
func (n *WebhookNotifier) NotifyOwner(ctx context.Context, title, content string) error {
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(webhookPayload{Title: title, Content: content}).
		Post(n.url)
	if err != nil {
		return fmt.Errorf("failed to call notification webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("notification webhook returned HTTP %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
