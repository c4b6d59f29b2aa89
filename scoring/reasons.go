package scoring

import (
	"fmt"
	"strings"

	"github.com/poiesic/rendezvous/core"
	"github.com/poiesic/rendezvous/intent"
)

// Reason thresholds and limits.
const (
	intentReasonMin    = 40.0
	industryReasonMin  = 90.0
	embeddingReasonMin = 75.0
	maxSharedListed    = 3
	needsTokenMinLen   = 3
)

// FallbackReason is attached when no other rule fires.
const FallbackReason = "Complementary profiles"

// pairView carries what reason generation needs about one canonical pair.
type pairView struct {
	a, b          *core.Participant
	va, vb        core.IntentVector
	scores        core.SubScores
	hasEmbeddings bool
}

// buildReasons lists why a and b were matched, in a fixed rule order.
// The result is never empty.
func buildReasons(p pairView) []string {
	var reasons []string
	nameA, nameB := p.a.DisplayName(), p.b.DisplayName()

	if p.scores.Intent >= intentReasonMin {
		i, j := strongestIntentPair(p.va, p.vb)
		if i == j {
			reasons = append(reasons, "Both are "+intent.Label(i))
		} else {
			reasons = append(reasons, fmt.Sprintf("%s is %s, %s is %s", nameA, intent.Label(i), nameB, intent.Label(j)))
		}
	}

	if p.scores.Industry >= industryReasonMin {
		reasons = append(reasons, "Both in "+strings.TrimSpace(p.a.Industry))
	}

	aExp := newSet(p.a.Expertise)
	if shared := aExp.common(newSet(p.b.Expertise)); len(shared) > 0 {
		if len(shared) > maxSharedListed {
			shared = shared[:maxSharedListed]
		}
		reasons = append(reasons, "Shared expertise: "+strings.Join(shared, ", "))
	}

	if aExp.intersect(newSet(p.b.Interests)) > 0 {
		reasons = append(reasons, fmt.Sprintf("%s has expertise %s is interested in", nameA, nameB))
	}

	if needsMet(p.a.LookingFor, p.b.Offering, needsTokenMinLen) {
		reasons = append(reasons, fmt.Sprintf("%s's needs align with %s's offerings", nameA, nameB))
	}
	if needsMet(p.b.LookingFor, p.a.Offering, needsTokenMinLen) {
		reasons = append(reasons, fmt.Sprintf("%s's needs align with %s's offerings", nameB, nameA))
	}

	if p.hasEmbeddings && p.scores.Embedding >= embeddingReasonMin {
		reasons = append(reasons, "High AI profile similarity")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, FallbackReason)
	}
	return reasons
}

// strongestIntentPair returns the (i, j) maximizing a[i]*b[j]. The first
// maximum in key order wins.
func strongestIntentPair(a, b core.IntentVector) (core.IntentKey, core.IntentKey) {
	bi, bj := 0, 0
	best := a[0] * b[0]
	for i := 0; i < core.NumIntents; i++ {
		for j := 0; j < core.NumIntents; j++ {
			if v := a[i] * b[j]; v > best {
				best, bi, bj = v, i, j
			}
		}
	}
	return core.IntentKeys[bi], core.IntentKeys[bj]
}
