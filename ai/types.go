package ai

import "github.com/poiesic/rendezvous/core"

// IntentDescriptions describes each intent to a classifier model.
var IntentDescriptions = map[core.IntentKey]string{
	core.IntentBuying:     "wants to purchase products or services",
	core.IntentSelling:    "wants to sell or promote products or services",
	core.IntentInvesting:  "wants to fund companies or find deals",
	core.IntentPartnering: "wants strategic partners, integrations or co-founders",
	core.IntentLearning:   "wants to learn, research or find mentors",
	core.IntentNetworking: "wants to meet people and grow connections",
}

// ClassifiedIntent is one intent reported by a classifier with its strength from 0 to 1.
type ClassifiedIntent struct {
	Intent   core.IntentKey
	Strength float64
}

// EstimateFromClassified turns classifier output into an intent estimate.
// Unknown keys and non-positive strengths are ignored. Confidence is the
// model's self-reported confidence clamped to 0..100; with no usable intents
// the estimate is uniform with zero confidence.
func EstimateFromClassified(intents []ClassifiedIntent, confidence int) core.IntentEstimate {
	var raw core.IntentVector
	for _, ci := range intents {
		if !ci.Intent.Valid() || ci.Strength <= 0 {
			continue
		}
		raw.Add(ci.Intent, ci.Strength)
	}
	if raw.IsZero() {
		return core.UniformEstimate()
	}
	confidence = max(0, min(confidence, 100))
	return core.IntentEstimate{Vector: raw.Normalize(), Confidence: confidence}
}
