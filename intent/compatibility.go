package intent

import "github.com/poiesic/rendezvous/core"

// compatibility[i][j] is how well intent i on one side pairs with intent j on
// the other, indexed by core.IntentKeys order.
var compatibility = [core.NumIntents][core.NumIntents]float64{
	{60, 100, 30, 30, 30, 30}, // buying
	{100, 60, 80, 80, 60, 30}, // selling
	{30, 80, 60, 100, 30, 30}, // investing
	{30, 80, 100, 60, 60, 60}, // partnering
	{30, 60, 30, 60, 60, 100}, // learning
	{30, 30, 30, 60, 100, 60}, // networking
}

// Compatibility returns the 0-100 compatibility of intent a with intent b.
// Unknown keys score 0.
func Compatibility(a, b core.IntentKey) float64 {
	i, j := a.Index(), b.Index()
	if i < 0 || j < 0 {
		return 0
	}
	return compatibility[i][j]
}

var labels = [core.NumIntents]string{
	"looking to buy",
	"looking to sell",
	"looking to invest",
	"seeking partners",
	"here to learn",
	"here to network",
}

// Label returns the short phrase used for k in match reasons.
func Label(k core.IntentKey) string {
	if i := k.Index(); i >= 0 {
		return labels[i]
	}
	return string(k)
}
