// Package classify scores tender text against the configured keyword rules.
package classify

import (
	"fmt"
	"strings"

	"github.com/tenderwatch/tenderwatch/internal/tender"
)

// RejectionNoMatch is reported when no category keyword hits at all.
const RejectionNoMatch = "no matching keywords"

// Classifier evaluates exclusion and category rules against raw card text.
// It is a pure function of the text; the rule set is fixed at construction.
type Classifier struct {
	rules Rules
}

// New builds a Classifier from an immutable rule set.
func New(rules Rules) *Classifier {
	return &Classifier{rules: rules}
}

// Classify normalizes the text and applies the rules in precedence order:
// exclusions, contextual exclusions, combination exclusions, then the
// ordered category scan. The score counts distinct matched keywords from
// the first matching category, not total occurrences.
func (c *Classifier) Classify(rawText string) tender.Classification {
	text := strings.ToLower(rawText)

	for _, term := range c.rules.Exclusions {
		if strings.Contains(text, term) {
			return rejected(fmt.Sprintf("excluded term %q", term))
		}
	}

	for _, rule := range c.rules.ContextRules {
		if strings.Contains(text, rule.Term) && !containsAny(text, rule.Qualifiers) {
			return rejected(fmt.Sprintf("ambiguous term %q without qualifier", rule.Term))
		}
	}

	for _, rule := range c.rules.ComboRules {
		if strings.Contains(text, rule.Term) && !containsAny(text, rule.Companions) {
			return rejected(fmt.Sprintf("term %q without companion terms", rule.Term))
		}
	}

	for _, cat := range c.rules.Categories {
		hits := 0
		for _, keyword := range cat.Keywords {
			if strings.Contains(text, keyword) {
				hits++
			}
		}
		if hits > 0 {
			return tender.Classification{Score: hits, Category: cat.Name}
		}
	}

	return rejected(RejectionNoMatch)
}

func rejected(reason string) tender.Classification {
	return tender.Classification{RejectionReason: reason}
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
