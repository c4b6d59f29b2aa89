package similarity

import (
	"strings"

	"github.com/poiesic/rendezvous/core"
)

// BuildIndex computes the similarity of every pair of participants that both
// have an embedding of the same length. Cosine values are clamped to [0, 1];
// pairs without usable embeddings are absent from the result.
func BuildIndex(participants []*core.Participant) core.Similarities {
	sims := make(core.Similarities)
	for i, a := range participants {
		if a == nil || len(a.Embedding) == 0 {
			continue
		}
		for _, b := range participants[i+1:] {
			if b == nil || len(b.Embedding) != len(a.Embedding) || a.ID == b.ID {
				continue
			}
			sims[core.NewPairKey(a.ID, b.ID)] = max(0, Cosine(a.Embedding, b.Embedding))
		}
	}
	return sims
}

// ProfileText is the text embedded for a participant: the free-text profile
// fields, one per line, skipping the empty ones.
func ProfileText(p *core.Participant) string {
	if p == nil {
		return ""
	}
	var lines []string
	add := func(label, value string) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		if label != "" {
			value = label + ": " + value
		}
		lines = append(lines, value)
	}

	add("", p.Title)
	add("Company", p.CompanyName)
	add("Industry", p.Industry)
	add("", p.Bio)
	add("Looking for", p.LookingFor)
	add("Offering", p.Offering)
	add("Expertise", strings.Join(p.Expertise, ", "))
	add("Interests", strings.Join(p.Interests, ", "))
	return strings.Join(lines, "\n")
}
