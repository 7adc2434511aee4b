package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// sharedTransport is reused by every service client so connections pool
// across the delegated backends.
var sharedTransport = &http.Transport{
	DialContext: (&net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
	MaxIdleConns:          100,
	MaxIdleConnsPerHost:   100,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   5 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
	ForceAttemptHTTP2:     true,
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Transport: sharedTransport,
		Timeout:   timeout,
	}
}

// UpstreamError carries a backend service's error response. The detail
// message is the service's human-readable explanation and is safe to
// show to the visitor.
type UpstreamError struct {
	StatusCode int
	Detail     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Detail)
}

// decodeUpstreamError reads an error body in the backends' wire shape
// ({"detail": "..."}) and falls back to the HTTP status text.
func decodeUpstreamError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var payload struct {
		Detail string `json:"detail"`
	}
	detail := http.StatusText(resp.StatusCode)
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		detail = payload.Detail
	}

	return &UpstreamError{
		StatusCode: resp.StatusCode,
		Detail:     detail,
	}
}
