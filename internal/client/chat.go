package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Invincible1602/AyurYoga/pkg/config"
	"github.com/Invincible1602/AyurYoga/pkg/telemetry"
	"go.opentelemetry.io/otel/codes"
)

// ChatClient talks to the external yoga chatbot service
type ChatClient struct {
	baseURL string
	http    *http.Client
}

// NewChatClient creates a ChatClient for the configured service
func NewChatClient(cfg config.ServiceConfig) *ChatClient {
	return &ChatClient{
		baseURL: cfg.BaseURL,
		http:    newHTTPClient(cfg.Timeout),
	}
}

// Ask sends the visitor's message and returns the bot's reply
func (c *ChatClient) Ask(ctx context.Context, message string) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "client.chat.ask")
	defer span.End()

	raw, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/get_response", bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("chat service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := decodeUpstreamError(resp)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	var payload struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid chat response")
		return "", fmt.Errorf("decode chat response: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return payload.Response, nil
}
