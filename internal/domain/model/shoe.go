// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// Plate identifies the stiffening insert built into a shoe's midsole.
type Plate string

// Recognized plate types.
const (
	PlateCarbon Plate = "carbon"
	PlateNylon  Plate = "nylon"
	PlateNone   Plate = "none"
)

// Category tags describe the use cases a shoe is built for.
const (
	CategoryDaily = "daily"
	CategoryEasy  = "easy"
	CategoryTempo = "tempo"
	CategoryLong  = "long"
	CategoryRace  = "race"
	CategoryTrail = "trail"
)

// knownCategories is the closed set of category tags the catalog accepts.
var knownCategories = map[string]struct{}{
	CategoryDaily: {},
	CategoryEasy:  {},
	CategoryTempo: {},
	CategoryLong:  {},
	CategoryRace:  {},
	CategoryTrail: {},
}

// ErrInvalidShoe is the kind wrapped by all Shoe validation failures.
var ErrInvalidShoe = errors.New("invalid shoe record")

// Shoe is a single catalog record. Records are immutable after load.
type Shoe struct {
	Brand      string   `json:"brand"`
	Model      string   `json:"model"`
	Categories []string `json:"category"`
	PriceUSD   float64  `json:"price_usd"`
	Plate      Plate    `json:"plate"`
	DropMM     float64  `json:"drop_mm"`
	WeightG    int      `json:"weight_g"`
}

// Validate checks every field against its declared range. It returns an
// error naming the first offending field, wrapped with ErrInvalidShoe.
func (s Shoe) Validate() error {
	switch {
	case strings.TrimSpace(s.Brand) == "":
		return fmt.Errorf("%w: missing brand", ErrInvalidShoe)
	case strings.TrimSpace(s.Model) == "":
		return fmt.Errorf("%w: missing model", ErrInvalidShoe)
	case len(s.Categories) == 0:
		return fmt.Errorf("%w: %s %s has no categories", ErrInvalidShoe, s.Brand, s.Model)
	case s.PriceUSD < 0:
		return fmt.Errorf("%w: %s %s has negative price_usd", ErrInvalidShoe, s.Brand, s.Model)
	case s.DropMM < 0:
		return fmt.Errorf("%w: %s %s has negative drop_mm", ErrInvalidShoe, s.Brand, s.Model)
	case s.WeightG <= 0:
		return fmt.Errorf("%w: %s %s has non-positive weight_g", ErrInvalidShoe, s.Brand, s.Model)
	}
	switch s.Plate {
	case PlateCarbon, PlateNylon, PlateNone:
	default:
		return fmt.Errorf("%w: %s %s has unknown plate %q", ErrInvalidShoe, s.Brand, s.Model, s.Plate)
	}
	for _, c := range s.Categories {
		if _, ok := knownCategories[c]; !ok {
			return fmt.Errorf("%w: %s %s has unknown category %q", ErrInvalidShoe, s.Brand, s.Model, c)
		}
	}
	return nil
}

// HasCategory reports whether the shoe carries the given category tag.
func (s Shoe) HasCategory(tag string) bool {
	for _, c := range s.Categories {
		if c == tag {
			return true
		}
	}
	return false
}

// HasAnyCategory reports whether the shoe carries any of the given tags.
func (s Shoe) HasAnyCategory(tags ...string) bool {
	for _, t := range tags {
		if s.HasCategory(t) {
			return true
		}
	}
	return false
}

// TrailOnly reports whether trail is the shoe's only category. Pure
// trail shoes are excluded from road-only searches.
func (s Shoe) TrailOnly() bool {
	if len(s.Categories) == 0 {
		return false
	}
	for _, c := range s.Categories {
		if c != CategoryTrail {
			return false
		}
	}
	return true
}
