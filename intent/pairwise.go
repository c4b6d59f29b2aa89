package intent

import (
	"math"

	"github.com/poiesic/rendezvous/core"
)

const (
	peakShare = 0.6
	baseShare = 0.4
	dampFloor = 0.5
)

// PairScore is the intent compatibility of two estimates.
type PairScore struct {
	// Peak is the single strongest a_i * M[i][j] * b_j term.
	Peak float64
	// Base is the full bilinear sum over all intent pairs.
	Base float64
	// Confidence is the lower of the two input confidences.
	Confidence int
	// Final blends peak and base, damped toward half strength at low confidence.
	Final float64
}

// ComputeIntentCompatibility scores vector a (confidence confA) against b (confB).
// Callers evaluate pairs in canonical order.
func ComputeIntentCompatibility(a core.IntentVector, confA int, b core.IntentVector, confB int) PairScore {
	var peak, base float64
	for i := 0; i < core.NumIntents; i++ {
		if a[i] == 0 {
			continue
		}
		for j := 0; j < core.NumIntents; j++ {
			term := a[i] * compatibility[i][j] * b[j]
			base += term
			if term > peak {
				peak = term
			}
		}
	}

	k := float64(min(confA, confB)) / 100
	final := (peakShare*peak + baseShare*base) * (dampFloor + (1-dampFloor)*k)

	return PairScore{
		Peak:       core.Round(peak, 2),
		Base:       core.Round(base, 2),
		Confidence: int(math.Round(k * 100)),
		Final:      core.Round(final, 2),
	}
}
