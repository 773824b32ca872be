package smoke

import (
	"fmt"
	"strings"

	"github.com/okian/stride/internal/domain/model"
	"github.com/okian/stride/internal/domain/types"
)

// verifyResponse checks a response against the guarantees the recommender
// makes for every request: results stay within the requested limit, scores
// arrive in descending order within range, every shoe respects the budget
// ceiling and brand preferences, and every result carries reasons.
func verifyResponse(req recommendRequest, resp recommendResponse) error {
	if len(resp.Results) > req.NumRecommendations {
		return fmt.Errorf("got %d results, requested at most %d", len(resp.Results), req.NumRecommendations)
	}

	for i, r := range resp.Results {
		if r.Score < 0 || r.Score > 100 {
			return fmt.Errorf("result %d (%s %s): score %d out of range", i, r.Brand, r.Model, r.Score)
		}
		if i > 0 && r.Score > resp.Results[i-1].Score {
			return fmt.Errorf("results not sorted: %d ranked below score %d", r.Score, resp.Results[i-1].Score)
		}
		if len(r.Reasons) == 0 {
			return fmt.Errorf("result %d (%s %s): no reasons attached", i, r.Brand, r.Model)
		}
		if err := verifyConstraints(req.Preferences, r); err != nil {
			return fmt.Errorf("result %d: %w", i, err)
		}
	}
	return nil
}

// verifyConstraints checks the hard filters against a single result.
func verifyConstraints(prefs model.Preferences, r types.ScoredResult) error {
	if prefs.CostLimiter.Enabled && r.PriceUSD > prefs.CostLimiter.MaxUSD {
		return fmt.Errorf("%s %s at $%.2f exceeds budget $%.2f", r.Brand, r.Model, r.PriceUSD, prefs.CostLimiter.MaxUSD)
	}
	if !prefs.WantsBrand(r.Brand) {
		return fmt.Errorf("%s %s violates brand preferences %v", r.Brand, r.Model, prefs.BrandPreferences)
	}
	if !prefs.IntendedUse.Trail && trailOnly(r.Categories) {
		return fmt.Errorf("%s %s is trail-only but trail was not requested", r.Brand, r.Model)
	}
	return nil
}

func trailOnly(categories []string) bool {
	if len(categories) == 0 {
		return false
	}
	for _, c := range categories {
		if c != model.CategoryTrail {
			return false
		}
	}
	return true
}

// verifyDeterminism checks that repeating a request yields an identical
// ranking. Explanations are free text and excluded from the comparison.
func verifyDeterminism(first, second recommendResponse) error {
	if len(first.Results) != len(second.Results) {
		return fmt.Errorf("repeat returned %d results, first returned %d", len(second.Results), len(first.Results))
	}
	for i := range first.Results {
		a, b := first.Results[i], second.Results[i]
		if a.Brand != b.Brand || a.Model != b.Model || a.Score != b.Score {
			return fmt.Errorf("rank %d differs on repeat: %s %s (%d) vs %s %s (%d)",
				i, a.Brand, a.Model, a.Score, b.Brand, b.Model, b.Score)
		}
	}
	return nil
}

// describeRequest renders a one-line summary of a request for logging.
func describeRequest(req recommendRequest) string {
	var parts []string
	if len(req.BrandPreferences) > 0 {
		parts = append(parts, "brands="+strings.Join(req.BrandPreferences, ","))
	}
	if req.CostLimiter.Enabled {
		parts = append(parts, fmt.Sprintf("budget=$%.0f", req.CostLimiter.MaxUSD))
	}
	if len(req.IntendedUse.Races) > 0 {
		parts = append(parts, "races="+strings.Join(req.IntendedUse.Races, ","))
	}
	if req.IntendedUse.Trail {
		parts = append(parts, "trail")
	}
	if len(parts) == 0 {
		parts = append(parts, "unconstrained")
	}
	parts = append(parts, fmt.Sprintf("limit=%d", req.NumRecommendations))
	return strings.Join(parts, " ")
}
