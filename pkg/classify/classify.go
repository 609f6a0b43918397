package classify

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

//go:embed rules/default.yaml
var defaultRulesYAML []byte

var spacePattern = regexp.MustCompile(`\s+`)

// Normalize collapses whitespace and upper-cases a name. Section text prints
// names in this form.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(spacePattern.ReplaceAllString(s, " ")))
}

// Fold normalizes a name and strips its accents ("ÁREA" becomes "AREA"), so
// ASCII word boundaries in rule patterns behave on Portuguese names.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, Normalize(s))
	if err != nil {
		return Normalize(s)
	}
	return folded
}

// Classifier applies an ordered rule set. It is safe for concurrent use.
type Classifier struct {
	set *RuleSet
}

// NewClassifier wraps a rule set, compiling it when needed.
func NewClassifier(set *RuleSet) (*Classifier, error) {
	if set == nil {
		return nil, fmt.Errorf("rule set cannot be nil")
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	if !set.IsCompiled() {
		if err := set.Compile(); err != nil {
			return nil, err
		}
	}
	return &Classifier{set: set}, nil
}

// FromRegistry returns a classifier over the named set of a registry.
func FromRegistry(r *Registry, name string) (*Classifier, error) {
	set, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("rule set %q not found", name)
	}
	return NewClassifier(set)
}

// DefaultRules returns a fresh copy of the built-in rule set.
func DefaultRules() *RuleSet {
	set, err := ParseRuleSet(defaultRulesYAML)
	if err != nil {
		panic(fmt.Sprintf("classify: built-in rules: %v", err))
	}
	return set
}

var defaultClassifier = mustClassifier(DefaultRules())

func mustClassifier(set *RuleSet) *Classifier {
	c, err := NewClassifier(set)
	if err != nil {
		panic(fmt.Sprintf("classify: built-in rules: %v", err))
	}
	return c
}

// Default returns the classifier over the built-in rules.
func Default() *Classifier {
	return defaultClassifier
}

// RuleSet returns the rules the classifier applies.
func (c *Classifier) RuleSet() *RuleSet {
	return c.set
}

// Classify returns the category and section title of an item name. Names no
// rule matches fall into Outros; classification never fails.
func (c *Classifier) Classify(name string) (Category, string) {
	r := c.Match(name)
	if r == nil {
		return Outros, OtherTitle
	}
	return r.Category, r.Title
}

// Match returns the first rule matching name, or nil.
func (c *Classifier) Match(name string) *Rule {
	folded := Fold(name)
	for i := range c.set.Rules {
		if c.set.Rules[i].Match(folded) {
			return &c.set.Rules[i]
		}
	}
	return nil
}

// Classify applies the built-in rules.
func Classify(name string) (Category, string) {
	return defaultClassifier.Classify(name)
}
