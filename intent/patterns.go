package intent

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/poiesic/rendezvous/core"
)

// pattern is one keyword rule: a match anywhere in the text adds weight to intent.
type pattern struct {
	re     *regexp.Regexp
	intent core.IntentKey
	weight float64
}

type rawPattern struct {
	expr   string
	intent core.IntentKey
	weight float64
}

// Title rules look at job titles.
var titlePatterns = compilePatterns([]rawPattern{
	{`\b(procurement|purchasing|buyer|sourcing)\b`, core.IntentBuying, 20},
	{`\b(cio|cto|it director|head of it|operations manager)\b`, core.IntentBuying, 12},
	{`\b(sales|account executive|business development|bdr|sdr)\b`, core.IntentSelling, 20},
	{`\b(account manager|customer success|growth)\b`, core.IntentSelling, 12},
	{`\b(investor|venture capital|vc|angel|fund manager)\b`, core.IntentInvesting, 25},
	{`\b(principal|portfolio|limited partner|lp)\b`, core.IntentInvesting, 12},
	{`\b(partnerships?|alliances?|channel)\b`, core.IntentPartnering, 20},
	{`\b(founder|co-founder|ceo)\b`, core.IntentPartnering, 10},
	{`\b(student|researcher|phd|intern|graduate)\b`, core.IntentLearning, 20},
	{`\b(junior|trainee|apprentice)\b`, core.IntentLearning, 10},
	{`\b(consultant|advisor|community|evangelist|advocate)\b`, core.IntentNetworking, 15},
	{`\b(freelance|freelancer|recruiter)\b`, core.IntentNetworking, 8},
})

// Body rules look at free text such as a bio.
var bodyPatterns = compilePatterns([]rawPattern{
	{`\b(looking to (buy|purchase|acquire)|in the market for|evaluating (vendors|solutions|tools))\b`, core.IntentBuying, 20},
	{`\b(vendors?|suppliers?|rfps?|procure)\b`, core.IntentBuying, 12},
	{`\b(we (sell|offer|provide)|our (product|platform|solution|services?)|selling)\b`, core.IntentSelling, 20},
	{`\b(customers|clients|demos?)\b`, core.IntentSelling, 10},
	{`\b(invest(ing|or|ors|ment|ments)?|funding rounds?|portfolio compan(y|ies)|deal ?flow)\b`, core.IntentInvesting, 25},
	{`\b(seed|series [a-d]|startups?)\b`, core.IntentInvesting, 10},
	{`\b(partner(s|ship|ships)?|collaborat(e|ion|ors?)|joint ventures?|integrations?)\b`, core.IntentPartnering, 20},
	{`\b(co-?marketing|resellers?|distribution)\b`, core.IntentPartnering, 12},
	{`\b(learn(ing)?|research(ing)?|study(ing)?|curious|explore|understand)\b`, core.IntentLearning, 20},
	{`\b(best practices|workshops?|insights?)\b`, core.IntentLearning, 10},
	{`\b(network(ing)?|connect(ing)? with|meet (new )?people|community)\b`, core.IntentNetworking, 15},
	{`\b(hiring|recruit(ing)?|talent)\b`, core.IntentNetworking, 10},
	{`\b(mentor(s|ing|ship)?|introductions?)\b`, core.IntentNetworking, 8},
})

func compilePatterns(raws []rawPattern) []pattern {
	out := make([]pattern, len(raws))
	for i, r := range raws {
		out[i] = pattern{
			re:     regexp.MustCompile(r.expr),
			intent: r.intent,
			weight: r.weight,
		}
	}
	return out
}

// applyPatterns adds every matching rule's weight into raw and returns the
// number of rules that matched. text must already be normalized.
func applyPatterns(patterns []pattern, text string, raw *core.IntentVector) int {
	if text == "" {
		return 0
	}
	matched := 0
	for _, p := range patterns {
		if p.re.MatchString(text) {
			raw.Add(p.intent, p.weight)
			matched++
		}
	}
	return matched
}

// normalizeText folds compatibility forms, drops control characters and lowercases.
func normalizeText(s string) string {
	s = norm.NFKC.String(s)
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.ToLower(strings.TrimSpace(s))
}
