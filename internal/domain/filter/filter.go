// Package filter implements the hard-constraint stage of the
// recommendation pipeline. A record that fails any constraint is
// eliminated outright; soft preferences are handled by scoring.
package filter

import (
	"github.com/okian/stride/internal/domain/model"
)

// Apply returns the subset of catalog records that satisfy every hard
// constraint in prefs, preserving catalog order. An empty survivor set
// is reported as ErrNoMatches so callers can distinguish "no match"
// from a system error. Applying the same preferences to an already
// filtered set yields the same set.
func Apply(shoes []model.Shoe, prefs model.Preferences) ([]model.Shoe, error) {
	out := make([]model.Shoe, 0, len(shoes))
	for _, s := range shoes {
		if !passes(s, prefs) {
			continue
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, ErrNoMatches
	}
	return out, nil
}

// passes evaluates all hard constraints for a single record.
func passes(s model.Shoe, prefs model.Preferences) bool {
	// Budget ceiling.
	if prefs.CostLimiter.Enabled && s.PriceUSD > prefs.CostLimiter.MaxUSD {
		return false
	}

	// Brand restriction (case-insensitive).
	if !prefs.WantsBrand(s.Brand) {
		return false
	}

	// Pure trail shoes are excluded from road-only searches.
	if !prefs.IntendedUse.Trail && s.TrailOnly() {
		return false
	}

	// A race request requires a race-oriented shoe.
	if len(prefs.IntendedUse.Races) > 0 && !s.HasCategory(model.CategoryRace) {
		return false
	}

	return true
}
