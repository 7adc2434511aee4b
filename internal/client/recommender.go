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

// Asana is one recommended posture with its contraindications.
// Field tags follow the recommendation service's wire shape.
type Asana struct {
	Name     string   `json:"Asana Name"`
	Cautions []string `json:"Reasons Not to Perform"`
}

// RecommenderClient talks to the external disease-to-asana service
type RecommenderClient struct {
	baseURL string
	http    *http.Client
}

// NewRecommenderClient creates a RecommenderClient for the configured service
func NewRecommenderClient(cfg config.ServiceConfig) *RecommenderClient {
	return &RecommenderClient{
		baseURL: cfg.BaseURL,
		http:    newHTTPClient(cfg.Timeout),
	}
}

// Recommend fetches asana suggestions for a disease on the visitor's
// behalf, presenting their bearer token.
func (c *RecommenderClient) Recommend(ctx context.Context, token, disease string) ([]Asana, error) {
	ctx, span := telemetry.StartSpan(ctx, "client.recommender.recommend")
	defer span.End()

	span.SetAttributes(attribute.String("disease", disease))

	u := fmt.Sprintf("%s/recommend/?%s", c.baseURL, url.Values{"disease": {disease}}.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("recommender service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := decodeUpstreamError(resp)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var asanas []Asana
	if err := json.NewDecoder(resp.Body).Decode(&asanas); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid recommend response")
		return nil, fmt.Errorf("decode recommend response: %w", err)
	}

	span.SetAttributes(attribute.Int("asana_count", len(asanas)))
	span.SetStatus(codes.Ok, "")
	return asanas, nil
}
