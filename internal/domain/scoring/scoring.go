// Package scoring computes the match score for catalog records that
// survived filtering. The score is a weighted sum of independently
// normalized sub-scores, each in [0,1], scaled to [0,100]. Identical
// inputs always yield the identical score.
package scoring

import (
	"math"

	"github.com/okian/stride/internal/domain/model"
)

// Default scoring constants.
const (
	maxScoreValue = 100

	// neutralScore is the sub-score when a signal has nothing to say
	// about a record: it neither gains nor loses.
	neutralScore = 0.5
)

// Weights holds the configurable weights for the four sub-scores.
// They must sum to 1.
type Weights struct {
	Brand  float64 `koanf:"brand"`
	Use    float64 `koanf:"use"`
	Budget float64 `koanf:"budget"`
	Spec   float64 `koanf:"spec"`
}

// DefaultWeights returns the weights used when the config supplies none.
func DefaultWeights() Weights {
	return Weights{Brand: 0.25, Use: 0.40, Budget: 0.20, Spec: 0.15}
}

// Valid reports whether the weights are non-negative and sum to 1
// within floating-point tolerance.
func (w Weights) Valid() bool {
	if w.Brand < 0 || w.Use < 0 || w.Budget < 0 || w.Spec < 0 {
		return false
	}
	sum := w.Brand + w.Use + w.Budget + w.Spec
	return math.Abs(sum-1.0) < 1e-9
}

// Option applies a configuration option to the WeightedScorer.
type Option func(*WeightedScorer)

// WithWeights overrides the default sub-score weights. Invalid weights
// are ignored and the defaults kept.
func WithWeights(w Weights) Option {
	return func(s *WeightedScorer) {
		if w.Valid() {
			s.weights = w
		}
	}
}

// Breakdown carries the normalized sub-scores alongside the final
// value, so explanations can be derived from the same signals.
type Breakdown struct {
	Brand  float64
	Use    float64
	Budget float64
	Spec   float64
	Total  int // round(100 * weighted sum)
}

// Scorer computes a score for a catalog record against a payload.
type Scorer interface {
	Score(shoe model.Shoe, prefs model.Preferences) Breakdown
}

// WeightedScorer implements Scorer with a fixed weighted sum.
type WeightedScorer struct {
	weights Weights
}

// NewWeightedScorer creates a scorer with configuration options.
func NewWeightedScorer(opts ...Option) *WeightedScorer {
	s := &WeightedScorer{weights: DefaultWeights()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Weights returns the weights in effect.
func (s *WeightedScorer) Weights() Weights { return s.weights }

// Score computes the weighted match score for a single record.
func (s *WeightedScorer) Score(shoe model.Shoe, prefs model.Preferences) Breakdown {
	b := Breakdown{
		Brand:  brandScore(shoe, prefs),
		Use:    useScore(shoe, prefs.IntendedUse),
		Budget: budgetScore(shoe, prefs.CostLimiter),
		Spec:   specScore(shoe, prefs.IntendedUse),
	}
	total := s.weights.Brand*b.Brand +
		s.weights.Use*b.Use +
		s.weights.Budget*b.Budget +
		s.weights.Spec*b.Spec
	b.Total = int(math.Round(maxScoreValue * clamp01(total)))
	return b
}

// brandScore is 1 for an explicitly preferred brand, neutral when no
// preference was given, and 0 when preferences exist but exclude the
// brand. The last case should not survive filtering.
func brandScore(shoe model.Shoe, prefs model.Preferences) float64 {
	if len(prefs.BrandPreferences) == 0 {
		return neutralScore
	}
	if prefs.WantsBrand(shoe.Brand) {
		return 1.0
	}
	return 0
}

// useScore is the fraction of requested use flags the record's
// categories satisfy. With no flags requested, daily/easy trainers
// score full and everything else neutral, matching the catalog's
// default-recommendation behavior.
func useScore(shoe model.Shoe, use model.IntendedUse) float64 {
	if !use.Any() {
		if shoe.HasAnyCategory(model.CategoryDaily, model.CategoryEasy) {
			return 1.0
		}
		return neutralScore
	}

	requested, satisfied := 0, 0
	count := func(ok bool) {
		requested++
		if ok {
			satisfied++
		}
	}
	if use.EasyRuns {
		count(shoe.HasAnyCategory(model.CategoryDaily, model.CategoryEasy))
	}
	if use.TempoRuns {
		count(shoe.HasAnyCategory(model.CategoryTempo, model.CategoryRace))
	}
	if use.LongRuns {
		count(shoe.HasAnyCategory(model.CategoryLong, model.CategoryDaily))
	}
	if len(use.Races) > 0 {
		count(shoe.HasCategory(model.CategoryRace))
	}
	if use.Trail {
		count(shoe.HasCategory(model.CategoryTrail))
	}
	return float64(satisfied) / float64(requested)
}

// budgetScore gives full credit to every record at or under the budget
// ceiling: the ceiling is a hard constraint enforced by the filter, not
// a soft preference against spending. With the limiter disabled every
// record scores full. Prices above the ceiling only reach here when the
// filter was bypassed; they lose credit linearly with the overshoot,
// floored at 0.
func budgetScore(shoe model.Shoe, limiter model.CostLimiter) float64 {
	if !limiter.Enabled {
		return 1.0
	}
	if limiter.MaxUSD <= 0 {
		return 0
	}
	if shoe.PriceUSD <= limiter.MaxUSD {
		return 1.0
	}
	return clamp01(1.0 - (shoe.PriceUSD-limiter.MaxUSD)/limiter.MaxUSD)
}

// specScore is a fixed desirability lookup over plate type and drop,
// keyed to whether the request is race- or tempo-oriented. It is a
// deterministic table, not a learned value.
func specScore(shoe model.Shoe, use model.IntendedUse) float64 {
	fast := len(use.Races) > 0 || use.TempoRuns

	var plate float64
	switch shoe.Plate {
	case model.PlateCarbon:
		if fast {
			plate = 1.0
		} else {
			plate = 0.4 // stiff plates work against easy mileage
		}
	case model.PlateNylon:
		if fast {
			plate = 0.8
		} else {
			plate = 0.6
		}
	default:
		if fast {
			plate = 0.3
		} else {
			plate = 0.8
		}
	}

	// Moderate drops (4-10mm) suit the widest range of runners.
	var drop float64
	switch {
	case shoe.DropMM >= 4 && shoe.DropMM <= 10:
		drop = 1.0
	case shoe.DropMM < 4:
		drop = 0.6
	default:
		drop = 0.7
	}

	return (plate + drop) / 2
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
