package scoring

import (
	"math"
	"strings"

	"github.com/poiesic/rendezvous/core"
)

// Neutral is the score used when a dimension has no data.
const Neutral = 50.0

const (
	industryMatch    = 100.0
	industryMismatch = 40.0

	sharedExpertiseScale = 80.0

	roleBonus  = 20.0
	needsBonus = 15.0
)

// IndustryScore is 100 for equal industries, 40 for different ones and
// Neutral when either side is missing.
func IndustryScore(a, b *core.Participant) float64 {
	x, y := strings.TrimSpace(a.Industry), strings.TrimSpace(b.Industry)
	if x == "" || y == "" {
		return Neutral
	}
	if x == y {
		return industryMatch
	}
	return industryMismatch
}

// InterestScore averages the factors that apply:
//
//   - share of B's interests covered by A's expertise, scaled to 100
//   - share of A's interests covered by B's expertise, scaled to 100
//   - overlap of both expertise lists over their union, scaled to 80,
//     only when both lists are non-empty
//
// With no applicable factor it returns Neutral.
func InterestScore(a, b *core.Participant) float64 {
	aExp, bExp := newSet(a.Expertise), newSet(b.Expertise)
	aInt, bInt := newSet(a.Interests), newSet(b.Interests)

	var sum float64
	var n int
	if bInt.len() > 0 {
		sum += float64(aExp.intersect(bInt)) / float64(bInt.len()) * 100
		n++
	}
	if aInt.len() > 0 {
		sum += float64(bExp.intersect(aInt)) / float64(aInt.len()) * 100
		n++
	}
	if aExp.len() > 0 && bExp.len() > 0 {
		shared := aExp.intersect(bExp)
		union := aExp.len() + bExp.len() - shared
		sum += float64(shared) / float64(union) * sharedExpertiseScale
		n++
	}
	if n == 0 {
		return Neutral
	}
	return sum / float64(n)
}

// ComplementarityScore starts at Neutral, adds 20 when both roles are set and
// differ, and 15 for each direction in which a looking-for token appears in
// the other side's offering. The result is capped at 100.
func ComplementarityScore(a, b *core.Participant) float64 {
	score := Neutral
	ra, rb := strings.TrimSpace(a.Role), strings.TrimSpace(b.Role)
	if ra != "" && rb != "" && ra != rb {
		score += roleBonus
	}
	if needsMet(a.LookingFor, b.Offering, 0) {
		score += needsBonus
	}
	if needsMet(b.LookingFor, a.Offering, 0) {
		score += needsBonus
	}
	return math.Min(score, 100)
}

// EmbeddingScore converts a similarity in [0,1] to 0-100, or Neutral when absent.
func EmbeddingScore(sim float64, ok bool) float64 {
	if !ok {
		return Neutral
	}
	return math.Round(math.Max(0, math.Min(1, sim)) * 100)
}

// needsMet reports whether any whitespace token of lookingFor longer than
// minLen runes appears inside offering. Comparison is case-insensitive.
func needsMet(lookingFor, offering string, minLen int) bool {
	offer := strings.ToLower(offering)
	if offer == "" {
		return false
	}
	for _, tok := range strings.Fields(strings.ToLower(lookingFor)) {
		if len([]rune(tok)) <= minLen {
			continue
		}
		if strings.Contains(offer, tok) {
			return true
		}
	}
	return false
}

// stringSet is a deduplicated, order-preserving set of non-empty strings.
type stringSet struct {
	items []string
	index map[string]struct{}
}

func newSet(values []string) stringSet {
	s := stringSet{index: make(map[string]struct{}, len(values))}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := s.index[v]; ok {
			continue
		}
		s.index[v] = struct{}{}
		s.items = append(s.items, v)
	}
	return s
}

func (s stringSet) len() int { return len(s.items) }

func (s stringSet) has(v string) bool {
	_, ok := s.index[v]
	return ok
}

// intersect counts the members of s also in other.
func (s stringSet) intersect(other stringSet) int {
	n := 0
	for _, v := range s.items {
		if other.has(v) {
			n++
		}
	}
	return n
}

// common returns the members of s also in other, in s order.
func (s stringSet) common(other stringSet) []string {
	var out []string
	for _, v := range s.items {
		if other.has(v) {
			out = append(out, v)
		}
	}
	return out
}
