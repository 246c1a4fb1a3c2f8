// Package rank orders matched offers by dispatch priority.
package rank

import (
	"sort"
	"strings"

	"github.com/tenderwatch/tenderwatch/internal/tender"
)

// BonusRule grants a fixed priority bonus when its pattern occurs in the
// offer text. The table keeps the special-tag heuristics declarative
// instead of scattering literals through control flow.
type BonusRule struct {
	Pattern string
	Bonus   int
}

// SpecialTagBonus is the bump applied for each default special tag.
const SpecialTagBonus = 100

// DefaultBonusRules tags the subjects and locations that should jump the
// dispatch queue.
func DefaultBonusRules() []BonusRule {
	return []BonusRule{
		{Pattern: "intelligence artificielle", Bonus: SpecialTagBonus},
		{Pattern: "big data", Bonus: SpecialTagBonus},
		{Pattern: "rabat", Bonus: SpecialTagBonus},
		{Pattern: "casablanca", Bonus: SpecialTagBonus},
	}
}

// Ranker computes priorities and sorts candidates before dispatch. It only
// determines order, never inclusion.
type Ranker struct {
	rules []BonusRule
}

// New builds a Ranker over a bonus rule table.
func New(rules []BonusRule) *Ranker {
	return &Ranker{rules: rules}
}

// Rank fills in each candidate's priority (keyword score plus matched
// bonuses) and sorts descending. Ties keep encounter order.
func (r *Ranker) Rank(candidates []tender.Candidate) []tender.Candidate {
	for i := range candidates {
		candidates[i].Priority = candidates[i].Classification.Score + r.bonus(candidates[i].Offer.RawText)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority > candidates[j].Priority
	})
	return candidates
}

func (r *Ranker) bonus(rawText string) int {
	text := strings.ToLower(rawText)
	total := 0
	for _, rule := range r.rules {
		if strings.Contains(text, rule.Pattern) {
			total += rule.Bonus
		}
	}
	return total
}
