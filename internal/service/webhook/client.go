package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/guru-ai/coursechat/backend/internal/logger"
	"github.com/guru-ai/coursechat/backend/internal/model/chat"
)

// Variant selects the wire format spoken with the webhook.
type Variant string

const (
	// VariantSession sends {chatInput, sessionId} and normalizes the reply.
	VariantSession Variant = "session"
	// VariantLegacy sends {message} and reads {message} back.
	VariantLegacy Variant = "legacy"
)

// ParseVariant maps a configuration value to a Variant.
func ParseVariant(raw string) (Variant, error) {
	switch Variant(raw) {
	case "", VariantSession:
		return VariantSession, nil
	case VariantLegacy:
		return VariantLegacy, nil
	default:
		return "", fmt.Errorf("unknown webhook variant %q", raw)
	}
}

const maxResponseBytes = 1 << 20

// StatusError is returned when the webhook answers outside the 2xx range.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook responded with status %d", e.Code)
}

// Client posts one request per user message to the webhook.
type Client struct {
	url        string
	variant    Variant
	httpClient *http.Client
}

// NewClient builds a Client. A nil httpClient uses http.DefaultClient.
func NewClient(url string, variant Variant, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if variant == "" {
		variant = VariantSession
	}
	return &Client{url: url, variant: variant, httpClient: httpClient}
}

type sessionBody struct {
	ChatInput string `json:"chatInput"`
	SessionID string `json:"sessionId"`
}

type legacyBody struct {
	Message string `json:"message"`
}

// Reply sends req.Text and returns the normalized answer. Transport failures
// and non-2xx statuses are returned as errors; unrecognized bodies are not.
func (c *Client) Reply(ctx context.Context, req chat.ReplyRequest) (string, error) {
	var body any = sessionBody{ChatInput: req.Text, SessionID: req.SessionID}
	if c.variant == VariantLegacy {
		body = legacyBody{Message: req.Text}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode webhook request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build webhook request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read webhook response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Code: resp.StatusCode}
	}

	var reply Reply
	if c.variant == VariantLegacy {
		reply = NormalizeLegacy(data)
	} else {
		reply = Normalize(data)
	}
	if reply.Defaulted() {
		logger.Log.Warn("webhook_reply_unrecognized",
			zap.String("session", req.SessionID),
			zap.Int("bytes", len(data)),
		)
	} else {
		logger.Log.Debug("webhook_reply",
			zap.String("session", req.SessionID),
			zap.Stringer("source", reply.Source),
		)
	}
	return reply.Text, nil
}
