package smoke

import (
	"crypto/rand"
	"math/big"

	"github.com/okian/stride/internal/domain/model"
)

// Request shape distribution constants.
const (
	shapeDivisor       = 6
	caseNoConstraints  = 0
	caseBrandOnly      = 1
	caseBudgetOnly     = 2
	caseRacesAndBudget = 3
	caseTrailMix       = 4
	caseEverything     = 5

	budgetMin   = 80
	budgetRange = 220
	limitMax    = 8
)

var raceTags = []string{"5k", "10k", "half_marathon", "marathon", "ultra"}

// randomInt returns a random int in [0, n) using crypto/rand.
func randomInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// randomBool flips a fair coin.
func randomBool() bool {
	return randomInt(2) == 1
}

// pickBrands selects up to two brands from the catalog's brand list.
func pickBrands(brands []string) []string {
	if len(brands) == 0 {
		return nil
	}
	picked := []string{brands[randomInt(len(brands))]}
	if randomBool() && len(brands) > 1 {
		other := brands[randomInt(len(brands))]
		if other != picked[0] {
			picked = append(picked, other)
		}
	}
	return picked
}

// generateRequest builds one randomized request. Shapes are drawn from a
// fixed distribution so brand-only, budget-only, and fully-constrained
// payloads all appear in every run.
func generateRequest(brands []string) recommendRequest {
	var prefs model.Preferences

	switch randomInt(shapeDivisor) {
	case caseNoConstraints:
		// Empty payload; the server must still return something.
	case caseBrandOnly:
		prefs.BrandPreferences = pickBrands(brands)
	case caseBudgetOnly:
		prefs.CostLimiter = model.CostLimiter{
			Enabled: true,
			MaxUSD:  float64(budgetMin + randomInt(budgetRange)),
		}
	case caseRacesAndBudget:
		prefs.IntendedUse.Races = []string{raceTags[randomInt(len(raceTags))]}
		prefs.CostLimiter = model.CostLimiter{
			Enabled: true,
			MaxUSD:  float64(budgetMin + randomInt(budgetRange)),
		}
	case caseTrailMix:
		prefs.IntendedUse.Trail = true
		prefs.IntendedUse.EasyRuns = randomBool()
		prefs.IntendedUse.LongRuns = randomBool()
	case caseEverything:
		prefs.BrandPreferences = pickBrands(brands)
		prefs.IntendedUse.EasyRuns = randomBool()
		prefs.IntendedUse.TempoRuns = randomBool()
		prefs.IntendedUse.LongRuns = randomBool()
		if randomBool() {
			prefs.IntendedUse.Races = []string{raceTags[randomInt(len(raceTags))]}
		}
		prefs.CostLimiter = model.CostLimiter{
			Enabled: true,
			MaxUSD:  float64(budgetMin + randomInt(budgetRange)),
		}
	}

	return recommendRequest{
		Preferences:        prefs,
		NumRecommendations: 1 + randomInt(limitMax),
	}
}
