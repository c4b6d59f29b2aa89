package ai

import (
	"testing"

	"github.com/poiesic/rendezvous/core"
	"github.com/stretchr/testify/assert"
)

func TestEstimateFromClassified(t *testing.T) {
	t.Run("normalizes strengths", func(t *testing.T) {
		est := EstimateFromClassified([]ClassifiedIntent{
			{Intent: core.IntentBuying, Strength: 0.6},
			{Intent: core.IntentLearning, Strength: 0.2},
		}, 80)

		assert.Equal(t, 80, est.Confidence)
		assert.Equal(t, 0.75, est.Vector.Get(core.IntentBuying))
		assert.Equal(t, 0.25, est.Vector.Get(core.IntentLearning))
		assert.Equal(t, 0.0, est.Vector.Get(core.IntentSelling))
	})

	t.Run("ignores unknown and non-positive intents", func(t *testing.T) {
		est := EstimateFromClassified([]ClassifiedIntent{
			{Intent: "hiring", Strength: 1},
			{Intent: core.IntentSelling, Strength: -1},
			{Intent: core.IntentInvesting, Strength: 0.5},
		}, 60)

		assert.Equal(t, 1.0, est.Vector.Get(core.IntentInvesting))
		assert.Equal(t, 60, est.Confidence)
	})

	t.Run("clamps confidence", func(t *testing.T) {
		est := EstimateFromClassified([]ClassifiedIntent{{Intent: core.IntentBuying, Strength: 1}}, 250)
		assert.Equal(t, 100, est.Confidence)
	})

	t.Run("nothing usable is uniform", func(t *testing.T) {
		est := EstimateFromClassified(nil, 90)
		assert.Equal(t, core.UniformEstimate(), est)
	})
}

func TestIntentDescriptions_CoverEveryIntent(t *testing.T) {
	for _, k := range core.IntentKeys {
		assert.NotEmpty(t, IntentDescriptions[k], k)
	}
}
