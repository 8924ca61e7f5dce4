// Package suggest provides lightweight hints for import diagnostics: a
// keyword engine that proposes a category for rows whose category column is
// missing, and fuzzy "did you mean" ranking for unmatched reference names.
// Suggestions are informational only; they never change row outcomes.
package suggest

import (
	"strings"
	"sync"

	"github.com/cloudflare/ahocorasick"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Rule maps description keywords to a category proposal.
type Rule struct {
	Keywords []string // matched case-insensitively as substrings
	Category string   // proposed sub-category name
	Group    string   // proposed main-category name, may be empty
}

// Engine matches thousands of keywords in a single pass using the
// Aho-Corasick algorithm; matching cost is independent of the rule count.
type Engine struct {
	matcher  *ahocorasick.Matcher
	keywords []string
	rules    []Rule // parallel to keywords: rules[i] owns keywords[i]
	mu       sync.RWMutex
}

// NewEngine builds an engine from rules.
func NewEngine(rules []Rule) *Engine {
	e := &Engine{}
	e.Build(rules)
	return e
}

// Build reconstructs the matcher. Call it again when rules change.
func (e *Engine) Build(rules []Rule) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var keywords []string
	var flat []Rule
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			kw = strings.ToUpper(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			keywords = append(keywords, kw)
			flat = append(flat, rule)
		}
	}

	e.keywords = keywords
	e.rules = flat
	if len(keywords) == 0 {
		e.matcher = nil
		return
	}

	patterns := make([][]byte, len(keywords))
	for i, kw := range keywords {
		patterns[i] = []byte(kw)
	}
	e.matcher = ahocorasick.NewMatcher(patterns)
}

// Category proposes a category for a free-text description. When several
// keywords match, the longest keyword wins. Returns ok=false when nothing
// matches.
func (e *Engine) Category(description string) (Rule, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.matcher == nil || description == "" {
		return Rule{}, false
	}

	matches := e.matcher.Match([]byte(strings.ToUpper(description)))
	if len(matches) == 0 {
		return Rule{}, false
	}

	best := -1
	for _, idx := range matches {
		if idx < 0 || idx >= len(e.rules) {
			continue
		}
		if best == -1 || len(e.keywords[idx]) > len(e.keywords[best]) {
			best = idx
		}
	}
	if best == -1 {
		return Rule{}, false
	}
	return e.rules[best], true
}

// DefaultRules returns the built-in keyword rules. They cover the most
// common merchants and spending words seen in exported statements.
func DefaultRules() []Rule {
	return []Rule{
		{Keywords: []string{"netflix", "spotify", "disney", "hbo", "cinema"}, Category: "Streaming", Group: "Entertainment"},
		{Keywords: []string{"uber", "bolt", "taxi", "fuel", "petrol", "gas station", "parking"}, Category: "Fuel", Group: "Transport"},
		{Keywords: []string{"lidl", "aldi", "tesco", "supermarket", "grocery", "groceries"}, Category: "Supermarket", Group: "Groceries"},
		{Keywords: []string{"restaurant", "pizza", "burger", "coffee", "cafe"}, Category: "Eating Out", Group: "Food & Drink"},
		{Keywords: []string{"pharmacy", "clinic", "dentist", "doctor"}, Category: "Medical", Group: "Health"},
		{Keywords: []string{"rent", "mortgage", "electricity", "water bill", "internet"}, Category: "Bills", Group: "Home"},
	}
}

// Closest returns the candidate most similar to the input, for "did you
// mean" hints on unmatched payment methods and income sources. Ranking uses
// normalized Levenshtein distance; ok=false when nothing is close enough.
func Closest(input string, candidates []string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" || len(candidates) == 0 {
		return "", false
	}

	best := ""
	bestDistance := -1
	for _, candidate := range candidates {
		d := fuzzy.LevenshteinDistance(strings.ToLower(input), strings.ToLower(candidate))
		if bestDistance == -1 || d < bestDistance {
			best = candidate
			bestDistance = d
		}
	}

	// A distance beyond half the input length is noise, not a near miss.
	if bestDistance < 0 || bestDistance > len(input)/2+1 {
		return "", false
	}
	return best, true
}
