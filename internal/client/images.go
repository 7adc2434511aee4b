package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Invincible1602/AyurYoga/pkg/config"
	"github.com/Invincible1602/AyurYoga/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ImagesClient talks to the yoga pose image search service
type ImagesClient struct {
	baseURL string
	http    *http.Client
}

// NewImagesClient creates an ImagesClient for the configured service
func NewImagesClient(cfg config.ServiceConfig) *ImagesClient {
	return &ImagesClient{
		baseURL: cfg.BaseURL,
		http:    newHTTPClient(cfg.Timeout),
	}
}

// Search returns image URLs matching the prompt. The caller's bearer
// token is forwarded as-is.
func (c *ImagesClient) Search(ctx context.Context, token, prompt string) ([]string, error) {
	ctx, span := telemetry.StartSpan(ctx, "client.images.search")
	defer span.End()
	span.SetAttributes(attribute.String("images.prompt", prompt))

	endpoint := c.baseURL + "/search-images?" + url.Values{"prompt": {prompt}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("images service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := decodeUpstreamError(resp)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var urls []string
	if err := json.NewDecoder(resp.Body).Decode(&urls); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid images response")
		return nil, fmt.Errorf("decode images response: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return urls, nil
}
