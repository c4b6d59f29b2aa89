package intent

import (
	"math"

	"github.com/poiesic/rendezvous/core"
)

// Source weights for ComputeParticipantVector.
const (
	ExplicitWeight   = 3.0
	TextWeight       = 1.5
	LookingForWeight = 2.0
)

// MaxConfidence caps any fused confidence.
const MaxConfidence = 95

// MergeSignals fuses signals into one normalized estimate.
//
// Signals with zero confidence are skipped. Each remaining signal contributes
// its vector scaled by Weight*Confidence/100. The fused confidence is the
// average of input confidences weighted by source weight, rounded and capped
// at MaxConfidence.
func MergeSignals(signals []core.Signal) core.IntentEstimate {
	var (
		acc         core.IntentVector
		totalEff    float64
		confWeight  float64
		totalWeight float64
	)

	for _, s := range signals {
		if s.Confidence <= 0 {
			continue
		}
		eff := s.Weight * float64(s.Confidence) / 100
		for i := range acc {
			acc[i] += eff * s.Vector[i]
		}
		totalEff += eff
		confWeight += float64(s.Confidence) * s.Weight
		totalWeight += s.Weight
	}

	if totalEff == 0 {
		return core.UniformEstimate()
	}

	for i := range acc {
		acc[i] /= totalEff
	}

	conf := int(math.Round(confWeight / totalWeight))
	return core.IntentEstimate{
		Vector:     acc.Normalize(),
		Confidence: min(conf, MaxConfidence),
	}
}

// ComputeParticipantVector builds the explicit, title/bio and
// looking-for/offering signals for p and merges them.
func ComputeParticipantVector(p *core.Participant) core.IntentEstimate {
	if p == nil {
		return core.UniformEstimate()
	}
	explicit := FromExplicitIntents(p.ExplicitIntents)
	text := FromTextSignals(p.Title, p.Bio, p.CompanyName)
	needs := FromTextSignals("", LookingForOfferingText(p.LookingFor, p.Offering), "")

	return MergeSignals([]core.Signal{
		{Vector: explicit.Vector, Confidence: explicit.Confidence, Weight: ExplicitWeight},
		{Vector: text.Vector, Confidence: text.Confidence, Weight: TextWeight},
		{Vector: needs.Vector, Confidence: needs.Confidence, Weight: LookingForWeight},
	})
}

// ResolveVector returns p's cached estimate when it has one with positive
// confidence. Otherwise it computes a fresh estimate and reports recomputed
// so the caller can persist it.
func ResolveVector(p *core.Participant) (est core.IntentEstimate, recomputed bool) {
	if p != nil && p.Intent != nil && p.Intent.Confidence > 0 {
		return *p.Intent, false
	}
	return ComputeParticipantVector(p), true
}
