package model

import (
	"errors"
	"fmt"
	"strings"
)

// Recognized race distance tags, mirroring the frontend form options.
var knownRaceTags = map[string]struct{}{
	"5k":            {},
	"10k":           {},
	"half_marathon": {},
	"marathon":      {},
	"ultra":         {},
}

// ErrInvalidPreferences is the kind wrapped by all payload validation failures.
var ErrInvalidPreferences = errors.New("invalid preferences")

// IntendedUse holds the activities a runner wants the shoe for.
type IntendedUse struct {
	EasyRuns  bool     `json:"easy_runs"`
	TempoRuns bool     `json:"tempo_runs"`
	LongRuns  bool     `json:"long_runs"`
	Races     []string `json:"races"`
	Trail     bool     `json:"trail"`
}

// Any reports whether at least one use was requested.
func (u IntendedUse) Any() bool {
	return u.EasyRuns || u.TempoRuns || u.LongRuns || u.Trail || len(u.Races) > 0
}

// CostLimiter is the budget constraint. MaxUSD is only enforced when
// Enabled is true.
type CostLimiter struct {
	Enabled bool    `json:"enabled"`
	MaxUSD  float64 `json:"max_usd"`
}

// Preferences is the caller-supplied payload for one recommendation
// request. It owns no catalog state and is discarded after the response.
type Preferences struct {
	BrandPreferences []string    `json:"brand_preferences"`
	IntendedUse      IntendedUse `json:"intended_use"`
	CostLimiter      CostLimiter `json:"cost_limiter"`
}

// Validate rejects malformed payloads eagerly, naming the offending
// field. A valid payload may still match nothing.
func (p Preferences) Validate() error {
	if p.CostLimiter.Enabled && p.CostLimiter.MaxUSD <= 0 {
		return fmt.Errorf("%w: cost_limiter.max_usd must be positive when enabled", ErrInvalidPreferences)
	}
	for _, r := range p.IntendedUse.Races {
		if _, ok := knownRaceTags[r]; !ok {
			return fmt.Errorf("%w: unknown race tag %q in intended_use.races", ErrInvalidPreferences, r)
		}
	}
	for _, b := range p.BrandPreferences {
		if b == "" {
			return fmt.Errorf("%w: empty string in brand_preferences", ErrInvalidPreferences)
		}
	}
	return nil
}

// WantsBrand reports whether the brand is acceptable under the payload's
// brand preferences. An empty preference set accepts every brand; the
// match is case-insensitive.
func (p Preferences) WantsBrand(brand string) bool {
	if len(p.BrandPreferences) == 0 {
		return true
	}
	for _, b := range p.BrandPreferences {
		if strings.EqualFold(b, brand) {
			return true
		}
	}
	return false
}
