package rank

import (
	"fmt"

	"github.com/okian/stride/internal/domain/model"
)

// Reasons derives the ordered rule-based reason list for a record. Each
// reason is emitted only when its triggering condition holds, and the
// list depends on nothing but the record and the payload; it never
// waits on the free-text explainer.
func Reasons(shoe model.Shoe, prefs model.Preferences) []string {
	var reasons []string
	use := prefs.IntendedUse

	if len(prefs.BrandPreferences) > 0 && prefs.WantsBrand(shoe.Brand) {
		reasons = append(reasons, "Matches preferred brand")
	}

	switch {
	case len(use.Races) > 0 && shoe.HasCategory(model.CategoryRace):
		reasons = append(reasons, "Race-focused design")
	case use.TempoRuns && shoe.HasAnyCategory(model.CategoryTempo, model.CategoryRace):
		reasons = append(reasons, "Built for tempo work")
	case use.EasyRuns && shoe.HasAnyCategory(model.CategoryDaily, model.CategoryEasy):
		reasons = append(reasons, "Suited to daily training")
	case use.LongRuns && shoe.HasAnyCategory(model.CategoryLong, model.CategoryDaily):
		reasons = append(reasons, "Holds up over long runs")
	}

	if use.Trail && shoe.HasCategory(model.CategoryTrail) {
		reasons = append(reasons, "Trail-ready outsole")
	}

	switch shoe.Plate {
	case model.PlateCarbon:
		if len(use.Races) > 0 {
			reasons = append(reasons, "Carbon plate suited to race pace")
		}
	case model.PlateNylon:
		if use.TempoRuns {
			reasons = append(reasons, "Nylon plate adds tempo snap")
		}
	}

	if prefs.CostLimiter.Enabled && shoe.PriceUSD <= prefs.CostLimiter.MaxUSD {
		margin := prefs.CostLimiter.MaxUSD - shoe.PriceUSD
		if margin > 0 {
			reasons = append(reasons, fmt.Sprintf("Within budget by $%.0f", margin))
		} else {
			reasons = append(reasons, "Right at your budget")
		}
	}

	if shoe.WeightG < 200 && (len(use.Races) > 0 || use.TempoRuns) {
		reasons = append(reasons, "Lightweight for fast efforts")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "Matches your criteria")
	}
	return reasons
}
