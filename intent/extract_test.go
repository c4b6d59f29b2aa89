package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poiesic/rendezvous/core"
)

func TestFromExplicitIntents(t *testing.T) {
	tests := []struct {
		name     string
		selected []string
		wantConf int
		wantKeys []core.IntentKey
	}{
		{name: "none", selected: nil, wantConf: 0},
		{name: "one", selected: []string{"selling"}, wantConf: 50, wantKeys: []core.IntentKey{core.IntentSelling}},
		{name: "two", selected: []string{"selling", "buying"}, wantConf: 65, wantKeys: []core.IntentKey{core.IntentSelling, core.IntentBuying}},
		{name: "three", selected: []string{"selling", "buying", "learning"}, wantConf: 75, wantKeys: []core.IntentKey{core.IntentSelling, core.IntentBuying, core.IntentLearning}},
		{name: "four caps at 75", selected: []string{"selling", "buying", "learning", "investing"}, wantConf: 75, wantKeys: []core.IntentKey{core.IntentSelling, core.IntentBuying, core.IntentLearning, core.IntentInvesting}},
		{name: "invalid values dropped", selected: []string{"hiring", "selling", "SELLING"}, wantConf: 50, wantKeys: []core.IntentKey{core.IntentSelling}},
		{name: "only invalid values", selected: []string{"hiring", ""}, wantConf: 0},
		{name: "duplicates count once", selected: []string{"buying", "buying"}, wantConf: 50, wantKeys: []core.IntentKey{core.IntentBuying}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromExplicitIntents(tt.selected)
			assert.Equal(t, tt.wantConf, got.Confidence)
			assert.InDelta(t, 1.0, got.Vector.Sum(), 0.001)

			if len(tt.wantKeys) == 0 {
				assert.Equal(t, core.UniformVector(), got.Vector)
				return
			}
			share := core.Round(1.0/float64(len(tt.wantKeys)), 3)
			for _, k := range core.IntentKeys {
				want := 0.0
				for _, wk := range tt.wantKeys {
					if wk == k {
						want = share
					}
				}
				assert.InDelta(t, want, got.Vector.Get(k), 0.001, "key %s", k)
			}
		})
	}
}

func TestFromTextSignals(t *testing.T) {
	t.Run("sales title", func(t *testing.T) {
		got := FromTextSignals("VP of Sales", "", "")
		assert.Equal(t, 12, got.Confidence)
		assert.Equal(t, 1.0, got.Vector.Get(core.IntentSelling))
	})

	t.Run("one rule per table entry", func(t *testing.T) {
		got := FromTextSignals("Angel Investor", "", "")
		assert.Equal(t, 12, got.Confidence)
		assert.Equal(t, 1.0, got.Vector.Get(core.IntentInvesting))
	})

	t.Run("case insensitive", func(t *testing.T) {
		got := FromTextSignals("HEAD OF PROCUREMENT", "", "")
		assert.Equal(t, 12, got.Confidence)
		assert.Equal(t, core.IntentBuying, got.Vector.Dominant())
	})

	t.Run("compatibility forms are folded", func(t *testing.T) {
		got := FromTextSignals("ＳＡＬＥＳ", "", "")
		assert.Equal(t, 12, got.Confidence)
		assert.Equal(t, 1.0, got.Vector.Get(core.IntentSelling))
	})

	t.Run("bio accumulates", func(t *testing.T) {
		got := FromTextSignals("", "We sell our platform to customers and want to partner with resellers", "")
		assert.Equal(t, 48, got.Confidence)
		assert.Equal(t, 0.484, got.Vector.Get(core.IntentSelling))
		assert.Equal(t, 0.516, got.Vector.Get(core.IntentPartnering))
		assert.Equal(t, 0.0, got.Vector.Get(core.IntentBuying))
	})

	t.Run("confidence caps at 60", func(t *testing.T) {
		got := FromTextSignals(
			"Founder & CEO, Sales",
			"We provide integrations, are hiring, want to learn best practices and invest in startups",
			"",
		)
		assert.Equal(t, 60, got.Confidence)
		assert.InDelta(t, 1.0, got.Vector.Sum(), 0.001)
	})

	t.Run("company name does not score", func(t *testing.T) {
		got := FromTextSignals("", "", "Sales Investors Partners LLC")
		assert.Equal(t, core.UniformEstimate(), got)
	})

	t.Run("no text", func(t *testing.T) {
		assert.Equal(t, core.UniformEstimate(), FromTextSignals("", "", ""))
	})
}

func TestLookingForOfferingText(t *testing.T) {
	assert.Equal(t, "looking for investors. we offer consulting", LookingForOfferingText("investors", "consulting"))
	assert.Equal(t, "looking for investors", LookingForOfferingText("investors", " "))
	assert.Equal(t, "we offer consulting", LookingForOfferingText("", "consulting"))
	assert.Equal(t, "", LookingForOfferingText("", ""))

	got := FromTextSignals("", LookingForOfferingText("investors", "consulting"), "")
	assert.Equal(t, 24, got.Confidence)
	assert.Greater(t, got.Vector.Get(core.IntentInvesting), got.Vector.Get(core.IntentSelling))
}
