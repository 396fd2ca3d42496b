package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/adiwidodo/gerai/internal/port"
)

type webhookPayload struct {
	RecipientID string `json:"recipient_id"`
	Text        string `json:"text"`
}

// WebhookClient posts one message per recipient to the chat channel's
// webhook endpoint. It never retries; the dispatcher owns retry policy.
type WebhookClient struct {
	url    string
	client *http.Client
}

func NewWebhookClient(url string) *WebhookClient {
	return &WebhookClient{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *WebhookClient) Send(ctx context.Context, recipientID, text string) error {
	body, err := json.Marshal(webhookPayload{
		RecipientID: recipientID,
		Text:        text,
	})
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("client.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned %s", resp.Status)
	}

	return nil
}

var _ port.Notifier = (*WebhookClient)(nil)
