package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poiesic/rendezvous/core"
)

func TestStrongestIntentPair(t *testing.T) {
	i, j := strongestIntentPair(core.IntentVector{0, 1, 0, 0, 0, 0}, core.IntentVector{1, 0, 0, 0, 0, 0})
	assert.Equal(t, core.IntentSelling, i)
	assert.Equal(t, core.IntentBuying, j)

	// ties keep the first maximum in key order
	i, j = strongestIntentPair(core.UniformVector(), core.UniformVector())
	assert.Equal(t, core.IntentBuying, i)
	assert.Equal(t, core.IntentBuying, j)

	i, j = strongestIntentPair(core.IntentVector{0, 0.5, 0, 0.5, 0, 0}, core.IntentVector{0, 0, 0, 0, 0.5, 0.5})
	assert.Equal(t, core.IntentSelling, i)
	assert.Equal(t, core.IntentLearning, j)
}

func TestBuildReasons(t *testing.T) {
	selling := core.IntentVector{0, 1, 0, 0, 0, 0}

	tests := []struct {
		name string
		view pairView
		want []string
	}{
		{
			name: "fallback",
			view: pairView{
				a: &core.Participant{ID: "a"}, b: &core.Participant{ID: "b"},
				scores: core.SubScores{Intent: 39.99, Industry: 50, Embedding: 50},
			},
			want: []string{FallbackReason},
		},
		{
			name: "same intent",
			view: pairView{
				a: &core.Participant{ID: "a"}, b: &core.Participant{ID: "b"},
				va: selling, vb: selling,
				scores: core.SubScores{Intent: 40},
			},
			want: []string{"Both are looking to sell"},
		},
		{
			name: "shared expertise lists at most three",
			view: pairView{
				a:      &core.Participant{ID: "a", Expertise: []string{"AI", "Cloud", "Data", "Security"}},
				b:      &core.Participant{ID: "b", Expertise: []string{"Security", "Data", "Cloud", "AI"}},
				scores: core.SubScores{Industry: 40},
			},
			want: []string{"Shared expertise: AI, Cloud, Data"},
		},
		{
			name: "needs align both ways with long tokens only",
			view: pairView{
				a: &core.Participant{ID: "a", Name: "Ann", LookingFor: "seed capital", Offering: "design help"},
				b: &core.Participant{ID: "b", Name: "Ben", LookingFor: "ux design", Offering: "Capital for startups"},
			},
			want: []string{
				"Ann's needs align with Ben's offerings",
				"Ben's needs align with Ann's offerings",
			},
		},
		{
			name: "short tokens ignored",
			view: pairView{
				a: &core.Participant{ID: "a", LookingFor: "ai ml"},
				b: &core.Participant{ID: "b", Offering: "ai and ml consulting"},
			},
			want: []string{FallbackReason},
		},
		{
			name: "embedding needs run data",
			view: pairView{
				a: &core.Participant{ID: "a"}, b: &core.Participant{ID: "b"},
				scores: core.SubScores{Embedding: 80},
			},
			want: []string{FallbackReason},
		},
		{
			name: "full order",
			view: pairView{
				a: &core.Participant{ID: "a", Name: "Ann", Industry: "Fintech", Expertise: []string{"Payments"},
					LookingFor: "distribution partners"},
				b: &core.Participant{ID: "b", Name: "Ben", Industry: "Fintech", Expertise: []string{"Payments"},
					Interests: []string{"Payments"}, Offering: "channel partners"},
				va: selling, vb: core.IntentVector{0, 0, 0, 1, 0, 0},
				scores:        core.SubScores{Intent: 60, Industry: 100, Embedding: 75},
				hasEmbeddings: true,
			},
			want: []string{
				"Ann is looking to sell, Ben is seeking partners",
				"Both in Fintech",
				"Shared expertise: Payments",
				"Ann has expertise Ben is interested in",
				"Ann's needs align with Ben's offerings",
				"High AI profile similarity",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildReasons(tt.view))
		})
	}
}
