// Package smoke exercises a running recommendation server with randomized
// preference payloads and checks the responses against the contract every
// recommendation must honor.
package smoke

import (
	"time"

	"github.com/okian/stride/internal/domain/model"
	"github.com/okian/stride/internal/domain/types"
)

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL     string        // Base URL of the service
	NumRequests int           // Number of randomized requests to send
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	Verbose     bool          // Enable verbose logging
}

// recommendRequest is the payload sent to POST /recommend.
type recommendRequest struct {
	model.Preferences
	NumRecommendations int `json:"num_recommendations"`
}

// recommendResponse is the response from POST /recommend.
type recommendResponse struct {
	Results []types.ScoredResult `json:"results"`
	Notes   []string             `json:"notes,omitempty"`
}

// catalogSummary is the response from GET /catalog.
type catalogSummary struct {
	Count    int       `json:"count"`
	Brands   []string  `json:"brands"`
	MaxPrice float64   `json:"max_price"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Stats holds smoke run statistics.
type Stats struct {
	RequestsSent     int
	RequestsOK       int
	RequestsFailed   int
	EmptyResults     int
	ContractFailures int
	StartTime        time.Time
	Duration         time.Duration
}
