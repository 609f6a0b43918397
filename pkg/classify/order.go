package classify

import (
	"cmp"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/coolbeans/memorial/pkg/survey"
)

// NoNumber sorts names without a number after every numbered name.
const NoNumber = math.MaxInt32

var (
	roadBasePattern    = regexp.MustCompile(`^(RUA|AVENIDA|RODOVIA|PEATONAL|ACESSO|CANTEIRO)\s+([A-Z0-9\-\/ ]+?)\s*(?:\-|–|—|\(|$)`)
	roadSegmentPattern = regexp.MustCompile(`TRECHO[^\d]*(\d+)`)
	firstIntPattern    = regexp.MustCompile(`\d+`)
	blockTokenPattern  = regexp.MustCompile(`(?i)QUADRA\s+([A-Z0-9]+)`)
	lettersPattern     = regexp.MustCompile(`^[A-Z]+$`)
	digitsPattern      = regexp.MustCompile(`^[0-9]+$`)
)

// RoadKey orders road-system items by street and then by the "TRECHO n"
// segment number, zero when absent.
type RoadKey struct {
	Base    string
	Segment int
}

// RoadKeyOf computes the road ordering key of a name.
func RoadKeyOf(name string) RoadKey {
	n := Fold(name)
	base := n
	if m := roadBasePattern.FindStringSubmatch(n); m != nil {
		base = m[1] + " " + strings.TrimSpace(m[2])
	}
	var seg int
	if m := roadSegmentPattern.FindStringSubmatch(n); m != nil {
		seg, _ = strconv.Atoi(m[1])
	}
	return RoadKey{Base: strings.TrimSpace(base), Segment: seg}
}

// Compare orders road keys.
func (k RoadKey) Compare(o RoadKey) int {
	if c := strings.Compare(k.Base, o.Base); c != 0 {
		return c
	}
	return cmp.Compare(k.Segment, o.Segment)
}

// NumberedKey orders items by the first number in their name, then by name.
type NumberedKey struct {
	Number int
	Name   string
}

// NumberedKeyOf computes the numbered ordering key of a name.
func NumberedKeyOf(name string) NumberedKey {
	n := Normalize(name)
	return NumberedKey{Number: LotNumber(n), Name: n}
}

// Compare orders numbered keys.
func (k NumberedKey) Compare(o NumberedKey) int {
	if c := cmp.Compare(k.Number, o.Number); c != 0 {
		return c
	}
	return strings.Compare(k.Name, o.Name)
}

// BlockKey orders block labels: letter blocks first by length then
// alphabetically (A, B, ..., Z, AA), then numeric blocks by value, then
// anything else by text.
type BlockKey struct {
	Class  int
	Length int
	Number int
	Token  string
}

// BlockKeyOf computes the ordering key of a label such as "QUADRA B".
func BlockKeyOf(label string) BlockKey {
	tok := strings.ToUpper(strings.TrimSpace(label))
	if m := blockTokenPattern.FindStringSubmatch(label); m != nil {
		tok = strings.ToUpper(m[1])
	}
	switch {
	case lettersPattern.MatchString(tok):
		return BlockKey{Class: 0, Length: len(tok), Token: tok}
	case digitsPattern.MatchString(tok):
		n, err := strconv.Atoi(tok)
		if err != nil {
			n = NoNumber
		}
		return BlockKey{Class: 1, Number: n, Token: tok}
	}
	return BlockKey{Class: 2, Token: tok}
}

// Compare orders block keys.
func (k BlockKey) Compare(o BlockKey) int {
	if c := cmp.Compare(k.Class, o.Class); c != 0 {
		return c
	}
	if c := cmp.Compare(k.Length, o.Length); c != 0 {
		return c
	}
	if c := cmp.Compare(k.Number, o.Number); c != 0 {
		return c
	}
	return strings.Compare(k.Token, o.Token)
}

// CompareBlocks orders two block labels.
func CompareBlocks(a, b string) int {
	return BlockKeyOf(a).Compare(BlockKeyOf(b))
}

// SortBlocks sorts block labels in place.
func SortBlocks(labels []string) {
	slices.SortStableFunc(labels, CompareBlocks)
}

// LotNumber returns the first integer in s, or NoNumber.
func LotNumber(s string) int {
	m := firstIntPattern.FindString(s)
	if m == "" {
		return NoNumber
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return NoNumber
	}
	return n
}

// Section is one heading of an areas description with its ordered items.
type Section struct {
	Category Category      `json:"category"`
	Title    string        `json:"title"`
	Items    []survey.Item `json:"items"`
}

// SectionOrder is the order categories appear in a description. Blocks come
// last; lots are described apart from the civil report areas.
var SectionOrder = []Category{
	Remanescente, Institucional, ReservaTecnica, APP, Verde, VerdePreservacao,
	Viario, Condominial, Outros, Quadras,
}

// Classified is an item with the category and title it was assigned.
type Classified struct {
	Category Category    `json:"category"`
	Title    string      `json:"title"`
	Item     survey.Item `json:"item"`
}

// ClassifyAll classifies each item.
func (c *Classifier) ClassifyAll(items []survey.Item) []Classified {
	out := make([]Classified, 0, len(items))
	for _, it := range items {
		cat, title := c.Classify(it.Name)
		out = append(out, Classified{Category: cat, Title: title, Item: it})
	}
	return out
}

// Group classifies and sorts items into sections following SectionOrder.
// Road items sort by RoadKey, all others by NumberedKey. Preservation items
// get one section per distinct title, in the order the titles first appear.
// Empty categories produce no section.
func (c *Classifier) Group(items []survey.Item) []Section {
	byCat := make(map[Category][]Classified)
	for _, ci := range c.ClassifyAll(items) {
		byCat[ci.Category] = append(byCat[ci.Category], ci)
	}

	var sections []Section
	for _, cat := range SectionOrder {
		group := byCat[cat]
		if len(group) == 0 {
			continue
		}
		if cat == Viario {
			slices.SortStableFunc(group, func(a, b Classified) int {
				return RoadKeyOf(a.Item.Name).Compare(RoadKeyOf(b.Item.Name))
			})
		} else {
			slices.SortStableFunc(group, func(a, b Classified) int {
				return NumberedKeyOf(a.Item.Name).Compare(NumberedKeyOf(b.Item.Name))
			})
		}

		if cat != APP {
			sec := Section{Category: cat, Title: group[0].Title}
			for _, ci := range group {
				sec.Items = append(sec.Items, ci.Item)
			}
			sections = append(sections, sec)
			continue
		}

		index := make(map[string]int)
		for _, ci := range group {
			i, ok := index[ci.Title]
			if !ok {
				i = len(sections)
				index[ci.Title] = i
				sections = append(sections, Section{Category: cat, Title: ci.Title})
			}
			sections[i].Items = append(sections[i].Items, ci.Item)
		}
	}
	return sections
}

// Group applies the built-in rules.
func Group(items []survey.Item) []Section {
	return defaultClassifier.Group(items)
}
