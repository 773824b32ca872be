package web

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/okian/stride/internal/domain/model"
	"github.com/okian/stride/internal/domain/types"
)

// recommendRequest mirrors the API's POST /recommend schema.
type recommendRequest struct {
	model.Preferences
	NumRecommendations int `json:"num_recommendations"`
}

// recommendResponse mirrors the API's response shape.
type recommendResponse struct {
	Results []types.ScoredResult `json:"results"`
	Notes   []string             `json:"notes"`
}

// catalogSummary mirrors GET /catalog.
type catalogSummary struct {
	Count    int      `json:"count"`
	Brands   []string `json:"brands"`
	MaxPrice float64  `json:"max_price"`
}

// apiClient is a small HTTP client for the recommendation API.
type apiClient struct {
	baseURL string
	client  *http.Client
}

func newAPIClient(baseURL string, timeout time.Duration) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *apiClient) catalog(ctx context.Context) (catalogSummary, error) {
	var out catalogSummary
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/catalog", nil)
	if err != nil {
		return out, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return out, fmt.Errorf("catalog request failed: http status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

func (c *apiClient) recommend(ctx context.Context, payload recommendRequest) (recommendResponse, error) {
	var out recommendResponse
	body, err := json.Marshal(payload)
	if err != nil {
		return out, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/recommend", bytes.NewReader(body))
	if err != nil {
		return out, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return out, fmt.Errorf("recommend request failed: http status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}
