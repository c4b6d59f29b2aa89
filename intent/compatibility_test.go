package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poiesic/rendezvous/core"
)

func TestCompatibility_Symmetric(t *testing.T) {
	for _, a := range core.IntentKeys {
		for _, b := range core.IntentKeys {
			assert.Equal(t, Compatibility(a, b), Compatibility(b, a), "M[%s][%s] != M[%s][%s]", a, b, b, a)
		}
	}
}

func TestCompatibility_Values(t *testing.T) {
	tests := []struct {
		a, b core.IntentKey
		want float64
	}{
		{core.IntentBuying, core.IntentSelling, 100},
		{core.IntentSelling, core.IntentBuying, 100},
		{core.IntentSelling, core.IntentSelling, 60},
		{core.IntentInvesting, core.IntentPartnering, 100},
		{core.IntentLearning, core.IntentNetworking, 100},
		{core.IntentSelling, core.IntentInvesting, 80},
		{core.IntentNetworking, core.IntentBuying, 30},
		{core.IntentKey("bogus"), core.IntentBuying, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Compatibility(tt.a, tt.b), "%s/%s", tt.a, tt.b)
	}
}

func TestCompatibility_Range(t *testing.T) {
	for _, a := range core.IntentKeys {
		for _, b := range core.IntentKeys {
			v := Compatibility(a, b)
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 100.0)
		}
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "looking to buy", Label(core.IntentBuying))
	assert.Equal(t, "looking to sell", Label(core.IntentSelling))
	assert.Equal(t, "looking to invest", Label(core.IntentInvesting))
	assert.Equal(t, "seeking partners", Label(core.IntentPartnering))
	assert.Equal(t, "here to learn", Label(core.IntentLearning))
	assert.Equal(t, "here to network", Label(core.IntentNetworking))
	assert.Equal(t, "hiring", Label(core.IntentKey("hiring")))
}
