package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Invincible1602/AyurYoga/pkg/config"
	"github.com/Invincible1602/AyurYoga/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// AuthClient talks to the external authentication service. The session
// store is handed a token only after this client reports success, so an
// upstream failure can never install an invalid token.
type AuthClient struct {
	baseURL string
	http    *http.Client
}

// NewAuthClient creates an AuthClient for the configured service
func NewAuthClient(cfg config.ServiceConfig) *AuthClient {
	return &AuthClient{
		baseURL: cfg.BaseURL,
		http:    newHTTPClient(cfg.Timeout),
	}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token
func (c *AuthClient) Login(ctx context.Context, username, password string) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "client.auth.login")
	defer span.End()

	span.SetAttributes(attribute.String("username", username))

	resp, err := c.postJSON(ctx, "/login/", credentials{Username: username, Password: password})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := decodeUpstreamError(resp)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid login response")
		return "", fmt.Errorf("decode login response: %w", err)
	}
	if payload.AccessToken == "" {
		span.SetStatus(codes.Error, "empty access token")
		return "", fmt.Errorf("login response carried no access token")
	}

	span.SetStatus(codes.Ok, "")
	return payload.AccessToken, nil
}

// Register creates a new account. The visitor still logs in afterwards.
func (c *AuthClient) Register(ctx context.Context, username, password string) error {
	ctx, span := telemetry.StartSpan(ctx, "client.auth.register")
	defer span.End()

	span.SetAttributes(attribute.String("username", username))

	resp, err := c.postJSON(ctx, "/register/", credentials{Username: username, Password: password})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		err := decodeUpstreamError(resp)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func (c *AuthClient) postJSON(ctx context.Context, path string, body interface{}) (*http.Response, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth service unreachable: %w", err)
	}
	return resp, nil
}
