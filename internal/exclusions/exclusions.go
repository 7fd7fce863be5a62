// Package exclusions filters inventory records against operator-configured
// ignore rules before they are submitted for categorization.
//
// Rules come from two config lists, one matched against record display
// names and one against publishers. Matching is case-insensitive using
// Unicode case folding. A pattern containing * ? or [ is a whole-string
// glob (path.Match semantics); any other pattern is a substring test.
// Empty or whitespace-only patterns are inert and dropped at construction.
package exclusions

import (
	"path"
	"strings"

	"golang.org/x/text/cases"

	"curator/internal/catalog"
)

// Field identifies which record attribute a rule applies to.
type Field string

const (
	FieldTitle     Field = "title"
	FieldPublisher Field = "publisher"
)

// Rule is one configured exclusion pattern.
type Rule struct {
	Pattern string
	Field   Field

	folded string
	glob   bool
}

// RuleSet evaluates exclusion rules in configuration order, title rules
// before publisher rules. Duplicate patterns are kept; each rule is an
// independent predicate.
type RuleSet struct {
	rules []Rule
}

// NewRuleSet builds a rule set from the two config lists.
func NewRuleSet(titles, publishers []string) *RuleSet {
	fold := cases.Fold()
	rules := make([]Rule, 0, len(titles)+len(publishers))
	appendRules := func(patterns []string, field Field) {
		for _, pattern := range patterns {
			trimmed := strings.TrimSpace(pattern)
			if trimmed == "" {
				continue
			}
			rules = append(rules, Rule{
				Pattern: trimmed,
				Field:   field,
				folded:  fold.String(trimmed),
				glob:    strings.ContainsAny(trimmed, "*?["),
			})
		}
	}
	appendRules(titles, FieldTitle)
	appendRules(publishers, FieldPublisher)
	return &RuleSet{rules: rules}
}

// Len returns the number of active rules.
func (s *RuleSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}

// Match reports whether any rule excludes the record and returns the first
// rule that did, so callers can name it in diagnostics. The predicate never
// logs and never mutates state.
func (s *RuleSet) Match(rec catalog.Record) (Rule, bool) {
	if s == nil || len(s.rules) == 0 {
		return Rule{}, false
	}
	fold := cases.Fold()
	title := fold.String(rec.DisplayName)
	publisher := fold.String(rec.Publisher)
	for _, rule := range s.rules {
		value := title
		if rule.Field == FieldPublisher {
			value = publisher
		}
		if rule.matches(value) {
			return rule, true
		}
	}
	return Rule{}, false
}

func (r Rule) matches(folded string) bool {
	if r.glob {
		matched, err := path.Match(r.folded, folded)
		if err != nil {
			return false
		}
		return matched
	}
	return strings.Contains(folded, r.folded)
}
