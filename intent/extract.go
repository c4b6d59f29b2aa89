package intent

import (
	"strings"

	"github.com/poiesic/rendezvous/core"
)

const (
	explicitScore    = 40.0
	explicitBaseConf = 50
	explicitStepConf = 15
	explicitMaxConf  = 75
	textConfPerMatch = 12
	textMaxConf      = 60
)

// FromExplicitIntents scores self-reported intent selections.
// Values outside the intent key set are ignored and duplicates count once.
// No valid selection yields the uniform estimate with confidence 0.
func FromExplicitIntents(selected []string) core.IntentEstimate {
	var raw core.IntentVector
	seen := make(map[core.IntentKey]struct{}, len(selected))
	for _, s := range selected {
		k, ok := core.ParseIntentKey(strings.TrimSpace(s))
		if !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		raw.Add(k, explicitScore)
	}

	n := len(seen)
	if n == 0 {
		return core.UniformEstimate()
	}
	return core.IntentEstimate{
		Vector:     raw.Normalize(),
		Confidence: min(explicitBaseConf+(n-1)*explicitStepConf, explicitMaxConf),
	}
}

// FromTextSignals runs the title table over title and the body table over bio.
// Matching is case-insensitive. companyName is accepted but does not score.
func FromTextSignals(title, bio, companyName string) core.IntentEstimate {
	_ = companyName

	var raw core.IntentVector
	matched := applyPatterns(titlePatterns, normalizeText(title), &raw)
	matched += applyPatterns(bodyPatterns, normalizeText(bio), &raw)

	if matched == 0 {
		return core.UniformEstimate()
	}
	return core.IntentEstimate{
		Vector:     raw.Normalize(),
		Confidence: min(matched*textConfPerMatch, textMaxConf),
	}
}

// LookingForOfferingText joins the looking-for and offering fields into one
// body for FromTextSignals. Empty fields are left out.
func LookingForOfferingText(lookingFor, offering string) string {
	var parts []string
	if s := strings.TrimSpace(lookingFor); s != "" {
		parts = append(parts, "looking for "+s)
	}
	if s := strings.TrimSpace(offering); s != "" {
		parts = append(parts, "we offer "+s)
	}
	return strings.Join(parts, ". ")
}
