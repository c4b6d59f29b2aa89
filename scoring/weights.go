package scoring

import (
	"fmt"

	"github.com/poiesic/rendezvous/core"
)

// EffectiveWeights renormalizes w to sum to 1. The embedding weight is
// dropped when the run has no similarity data.
func EffectiveWeights(w core.Weights, hasEmbeddings bool) (core.Weights, error) {
	if !hasEmbeddings {
		w.Embedding = 0
	}
	total := w.Sum()
	if total <= 0 {
		return core.Weights{}, fmt.Errorf("%w: %+v", ErrZeroWeights, w)
	}
	return core.Weights{
		Intent:          w.Intent / total,
		Industry:        w.Industry / total,
		Interest:        w.Interest / total,
		Complementarity: w.Complementarity / total,
		Embedding:       w.Embedding / total,
	}, nil
}

// Composite blends sub-scores with already normalized weights, rounded to 2 decimals.
func Composite(s core.SubScores, w core.Weights) float64 {
	sum := w.Intent*s.Intent +
		w.Industry*s.Industry +
		w.Interest*s.Interest +
		w.Complementarity*s.Complementarity +
		w.Embedding*s.Embedding
	return core.Round(sum, 2)
}
