// Package classify assigns named survey items to description sections and
// orders them inside each section.
package classify

import (
	"fmt"
	"regexp"
)

// Category is a description section bucket.
type Category string

const (
	Viario           Category = "viario"
	Verde            Category = "verde"
	VerdePreservacao Category = "verde_preservacao"
	APP              Category = "app"
	Institucional    Category = "institucional"
	ReservaTecnica   Category = "reserva_tecnica"
	Remanescente     Category = "remanescente"
	Condominial      Category = "condominial"
	Quadras          Category = "quadras"
	Outros           Category = "outros"
)

// OtherTitle heads the catch-all section.
const OtherTitle = "DESCRIÇÃO DE OUTRAS ÁREAS"

var knownCategories = map[Category]bool{
	Viario: true, Verde: true, VerdePreservacao: true, APP: true, Institucional: true,
	ReservaTecnica: true, Remanescente: true, Condominial: true, Quadras: true, Outros: true,
}

// Rule maps item names to a category and section title. Patterns run against
// the folded name (upper case, accents removed, single spaces). When Also is
// set it must match too.
type Rule struct {
	ID       string   `yaml:"id" json:"id"`
	Category Category `yaml:"category" json:"category"`
	Title    string   `yaml:"title" json:"title"`
	Pattern  string   `yaml:"pattern" json:"pattern"`
	Also     string   `yaml:"also,omitempty" json:"also,omitempty"`

	compiled *regexp.Regexp
	also     *regexp.Regexp
}

// Validate checks the rule's required fields.
func (r *Rule) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("rule id is required")
	}
	if !knownCategories[r.Category] {
		return fmt.Errorf("rule %q: unknown category %q", r.ID, r.Category)
	}
	if r.Title == "" {
		return fmt.Errorf("rule %q: title is required", r.ID)
	}
	if r.Pattern == "" {
		return fmt.Errorf("rule %q: pattern is required", r.ID)
	}
	return nil
}

// Compile compiles the rule's patterns.
func (r *Rule) Compile() error {
	compiled, err := regexp.Compile(r.Pattern)
	if err != nil {
		return fmt.Errorf("compiling rule %q pattern %q: %w", r.ID, r.Pattern, err)
	}
	r.compiled = compiled

	r.also = nil
	if r.Also != "" {
		also, err := regexp.Compile(r.Also)
		if err != nil {
			return fmt.Errorf("compiling rule %q also %q: %w", r.ID, r.Also, err)
		}
		r.also = also
	}
	return nil
}

// IsCompiled returns true if the rule has been compiled.
func (r *Rule) IsCompiled() bool {
	return r.compiled != nil
}

// Match reports whether a folded name satisfies the rule.
func (r *Rule) Match(folded string) bool {
	if r.compiled == nil || !r.compiled.MatchString(folded) {
		return false
	}
	return r.also == nil || r.also.MatchString(folded)
}

// RuleSet is an ordered list of rules loaded from one YAML file. Order is
// priority: the first matching rule wins.
type RuleSet struct {
	Name    string `yaml:"name" json:"name"`
	Version string `yaml:"version" json:"version"`
	Rules   []Rule `yaml:"rules" json:"rules"`
}

// Validate checks the set and every rule in it.
func (s *RuleSet) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("rule set name is required")
	}
	if len(s.Rules) == 0 {
		return fmt.Errorf("rule set %q has no rules", s.Name)
	}
	seen := make(map[string]bool, len(s.Rules))
	for i := range s.Rules {
		if err := s.Rules[i].Validate(); err != nil {
			return err
		}
		if seen[s.Rules[i].ID] {
			return fmt.Errorf("rule set %q: duplicate rule id %q", s.Name, s.Rules[i].ID)
		}
		seen[s.Rules[i].ID] = true
	}
	return nil
}

// Compile compiles every rule in the set.
func (s *RuleSet) Compile() error {
	for i := range s.Rules {
		if err := s.Rules[i].Compile(); err != nil {
			return err
		}
	}
	return nil
}

// IsCompiled returns true if every rule has been compiled.
func (s *RuleSet) IsCompiled() bool {
	for i := range s.Rules {
		if !s.Rules[i].IsCompiled() {
			return false
		}
	}
	return len(s.Rules) > 0
}
