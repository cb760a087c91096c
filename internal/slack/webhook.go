package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var httpClient = &http.Client{Timeout: 10 * time.Second}

type payload struct {
	Text string `json:"text"`
}

// SendWebhook posts a text message to the given Slack webhook URL.
func SendWebhook(webhookURL, message string) error {
	return send(context.Background(), webhookURL, message)
}

func send(ctx context.Context, webhookURL, message string) error {
	body, err := json.Marshal(payload{Text: message})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("slack returned %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// VerifyWebhook checks that a webhook URL is live without posting a
// visible message. Slack answers an empty payload with 400 "no_text"
// (or "missing_text_or_fallback_or_attachments") when the hook exists.
func VerifyWebhook(webhookURL string) error {
	resp, err := httpClient.Post(webhookURL, "application/json", strings.NewReader(`{}`))
	if err != nil {
		return fmt.Errorf("webhook unreachable: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	text := strings.TrimSpace(string(respBody))

	switch {
	case resp.StatusCode == http.StatusBadRequest &&
		(text == "no_text" || text == "missing_text_or_fallback_or_attachments"):
		return nil
	case resp.StatusCode == http.StatusOK:
		return nil
	default:
		return fmt.Errorf("webhook rejected with %d: %s", resp.StatusCode, text)
	}
}

// Notifier posts event notifications to a fixed webhook.
type Notifier struct {
	WebhookURL string
}

// Notify sends message to the webhook.
func (n Notifier) Notify(ctx context.Context, message string) error {
	return send(ctx, n.WebhookURL, message)
}
