// Package rank orders scored candidates and derives the rule-based
// explanation attached to each one.
package rank

import (
	"sort"

	"github.com/okian/stride/internal/domain/model"
	"github.com/okian/stride/internal/domain/scoring"
	"github.com/okian/stride/internal/domain/types"
)

// Candidate pairs a surviving catalog record with its score breakdown.
type Candidate struct {
	Shoe  model.Shoe
	Score scoring.Breakdown
}

// Order sorts candidates by score descending. Ties keep catalog
// insertion order so identical inputs always produce identical output.
// A limit below 1 returns all survivors.
func Order(candidates []Candidate, limit int) []Candidate {
	out := make([]Candidate, len(candidates))
	copy(out, candidates)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score.Total > out[j].Score.Total
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

// Results converts ordered candidates into the wire shape, attaching
// rule-based reasons. The free-text explanation field is left empty
// here; it is filled in later, best effort, by the explainer.
func Results(candidates []Candidate, prefs model.Preferences) []types.ScoredResult {
	out := make([]types.ScoredResult, len(candidates))
	for i, c := range candidates {
		out[i] = types.ScoredResult{
			Brand:      c.Shoe.Brand,
			Model:      c.Shoe.Model,
			Categories: c.Shoe.Categories,
			PriceUSD:   c.Shoe.PriceUSD,
			Plate:      string(c.Shoe.Plate),
			DropMM:     c.Shoe.DropMM,
			WeightG:    c.Shoe.WeightG,
			Score:      c.Score.Total,
			Reasons:    Reasons(c.Shoe, prefs),
		}
	}
	return out
}
