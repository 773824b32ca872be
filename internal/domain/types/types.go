// Package types contains common types used across the application
package types

// ScoredResult is one ranked recommendation returned to callers.
type ScoredResult struct {
	Brand       string   `json:"brand"`
	Model       string   `json:"model"`
	Categories  []string `json:"category"`
	PriceUSD    float64  `json:"price_usd"`
	Plate       string   `json:"plate"`
	DropMM      float64  `json:"drop_mm"`
	WeightG     int      `json:"weight_g"`
	Score       int      `json:"score"`
	Reasons     []string `json:"reasons"`
	Explanation string   `json:"explanation,omitempty"`
}
