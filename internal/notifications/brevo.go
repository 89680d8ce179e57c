package notifications

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

const brevoEndpoint = "https://api.brevo.com/v3/smtp/email"

// BrevoClient sends transactional mail through the Brevo HTTP API.
type BrevoClient struct {
	apiKey   string
	sender   brevoContact
	sandbox  bool
	endpoint string
	http     *http.Client
}

// NewBrevoClient returns nil unless both the API key and sender address are
// set, so callers can hand the result straight to NewFallback.
func NewBrevoClient(apiKey, senderEmail, senderName string, sandbox bool) *BrevoClient {
	apiKey, senderEmail = strings.TrimSpace(apiKey), strings.TrimSpace(senderEmail)
	if apiKey == "" || senderEmail == "" {
		return nil
	}
	if strings.TrimSpace(senderName) == "" {
		senderName = senderEmail
	}
	return &BrevoClient{
		apiKey:   apiKey,
		sender:   brevoContact{Email: senderEmail, Name: senderName},
		sandbox:  sandbox,
		endpoint: brevoEndpoint,
		http:     &http.Client{Timeout: 8 * time.Second},
	}
}

func (c *BrevoClient) Name() string { return "brevo" }

// BrevoError is a non-2xx answer from the API.
type BrevoError struct {
	Status  int
	Code    string
	Message string
}

func (e *BrevoError) Error() string {
	if e.Code == "" && e.Message == "" {
		return fmt.Sprintf("brevo: status=%d", e.Status)
	}
	return fmt.Sprintf("brevo: status=%d code=%s: %s", e.Status, e.Code, e.Message)
}

// Send delivers msg and returns Brevo's message id.
func (c *BrevoClient) Send(ctx context.Context, msg Message) (string, error) {
	if c == nil {
		return "", ErrNotConfigured
	}
	if err := msg.validate(); err != nil {
		return "", err
	}

	raw, err := json.Marshal(c.payload(msg))
	if err != nil {
		return "", fmt.Errorf("brevo: encode: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("brevo: request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("brevo: send: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("brevo: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &BrevoError{Status: resp.StatusCode}
		_ = json.Unmarshal(body, apiErr)
		return "", apiErr
	}

	var out struct {
		MessageID string `json:"messageId"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("brevo: decode response: %w", err)
	}
	if out.MessageID == "" {
		return "", fmt.Errorf("brevo: response without messageId")
	}
	return out.MessageID, nil
}

func (c *BrevoClient) payload(msg Message) brevoRequest {
	p := brevoRequest{
		Sender:      c.sender,
		To:          []brevoContact{{Email: msg.ToEmail, Name: msg.ToName}},
		Subject:     msg.Subject,
		HTMLContent: msg.HTML,
		TextContent: msg.Text,
	}
	if msg.ReplyTo != "" {
		p.ReplyTo = &brevoContact{Email: msg.ReplyTo}
	}
	if msg.Tag != "" {
		p.Tags = []string{msg.Tag}
	}
	if c.sandbox {
		p.Headers = map[string]string{"X-Sib-Sandbox": "drop"}
	}
	return p
}

type brevoRequest struct {
	Sender      brevoContact      `json:"sender"`
	To          []brevoContact    `json:"to"`
	ReplyTo     *brevoContact     `json:"replyTo,omitempty"`
	Subject     string            `json:"subject"`
	HTMLContent string            `json:"htmlContent,omitempty"`
	TextContent string            `json:"textContent,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
}

type brevoContact struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}
