package ollama

import (
	"fmt"
	"strings"

	"github.com/okian/stride/internal/domain/model"
)

const systemPrompt = "You are a running-shoe fitting assistant. " +
	"Given a runner's preferences and a candidate shoe, write one short " +
	"paragraph (2-3 sentences) explaining why the shoe suits them. " +
	"Mention concrete specs (plate, drop, weight, price) where relevant. " +
	"No markdown, no lists."

// buildPrompt renders the system and user messages for one candidate.
func buildPrompt(shoe model.Shoe, prefs model.Preferences) (string, string) {
	var b strings.Builder

	b.WriteString("Runner preferences:\n")
	if len(prefs.BrandPreferences) > 0 {
		fmt.Fprintf(&b, "- preferred brands: %s\n", strings.Join(prefs.BrandPreferences, ", "))
	}
	use := prefs.IntendedUse
	var uses []string
	if use.EasyRuns {
		uses = append(uses, "easy runs")
	}
	if use.TempoRuns {
		uses = append(uses, "tempo runs")
	}
	if use.LongRuns {
		uses = append(uses, "long runs")
	}
	if use.Trail {
		uses = append(uses, "trail")
	}
	if len(use.Races) > 0 {
		uses = append(uses, "races: "+strings.Join(use.Races, ", "))
	}
	if len(uses) == 0 {
		uses = append(uses, "general running")
	}
	fmt.Fprintf(&b, "- intended use: %s\n", strings.Join(uses, "; "))
	if prefs.CostLimiter.Enabled {
		fmt.Fprintf(&b, "- budget: up to $%.0f\n", prefs.CostLimiter.MaxUSD)
	} else {
		b.WriteString("- budget: no limit\n")
	}

	fmt.Fprintf(&b, "\nCandidate shoe:\n- %s %s | cat=%s | price=$%.2f | plate=%s | drop=%.0fmm | weight=%dg\n",
		shoe.Brand, shoe.Model,
		strings.Join(shoe.Categories, ","),
		shoe.PriceUSD, shoe.Plate, shoe.DropMM, shoe.WeightG,
	)

	return systemPrompt, b.String()
}
