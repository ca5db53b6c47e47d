// services/notifier.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// WhatsAppNotifier posts messages to the external WhatsApp gateway. It is a
// best-effort side channel: callers log failures and move on, a delivery
// failure must never fail the business operation that triggered it.
type WhatsAppNotifier struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewWhatsAppNotifierFromEnv returns nil when WHATSAPP_GATEWAY_URL is unset,
// which disables announcement dispatch.
func NewWhatsAppNotifierFromEnv() *WhatsAppNotifier {
	baseURL := os.Getenv("WHATSAPP_GATEWAY_URL")
	if baseURL == "" {
		return nil
	}
	return &WhatsAppNotifier{
		BaseURL: baseURL,
		Token:   os.Getenv("WHATSAPP_GATEWAY_TOKEN"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SendMessage delivers one message to one phone number.
func (n *WhatsAppNotifier) SendMessage(ctx context.Context, phone, message string) error {
	payload, _ := json.Marshal(map[string]string{
		"phone":   phone,
		"message": message,
	})

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/api/v1/messages", n.BaseURL), bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Service-Token", n.Token)

	resp, err := n.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp gateway request failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("whatsapp gateway returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
