package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// TelegramNotifier sends notifications to a chat through the Bot API.
type TelegramNotifier struct {
	client   *resty.Client
	botToken string
	chatID   string
	baseURL  string
}

// NewTelegramNotifier registers bot token and chat identifier. An empty
// baseURL uses the public Bot API.
func NewTelegramNotifier(botToken, chatID, baseURL string) *TelegramNotifier {
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}
	client := resty.New()
	client.SetTimeout(5 * time.Second)
	return &TelegramNotifier{
		client:   client,
		botToken: botToken,
		chatID:   chatID,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// NotifyOwner posts title and content as one plain-text message.
func (n *TelegramNotifier) NotifyOwner(ctx context.Context, title, content string) error {
	if n.botToken == "" || n.chatID == "" {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	resp, err := n.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"chat_id": n.chatID,
			"text":    title + "\n\n" + content,
		}).
		Post(endpoint)
	if err != nil {
		return fmt.Errorf("failed to call telegram: %w", err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("telegram error: %s", resp.Status())
	}
	return nil
}
