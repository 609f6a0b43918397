package describe

import (
	"regexp"
	"unicode/utf8"
)

// Token is a run of text with uniform styling.
type Token struct {
	Text      string `json:"text"`
	Bold      bool   `json:"bold,omitempty"`
	Highlight bool   `json:"highlight,omitempty"`
}

type tokenKind int

// Kinds in precedence order: when two matches start at the same offset the
// lower kind wins.
const (
	kindCoordinate tokenKind = iota
	kindMarker
	kindBold
	kindPlaceholder
)

// Tokenizer splits marked-up description text into styled runs.
//
// Coordinates and azimuths always render plain. Text between [[B]] and [[/B]]
// renders bold, as do lot headers and lengths or areas written with a comma
// decimal and a trailing unit, unless they directly follow "Y= " or "X= ".
// The placeholder XXXX renders highlighted. Scanning is left to right: the
// match starting first is consumed whole, ties going to the kind listed
// first.
type Tokenizer struct {
	coordinate  *regexp.Regexp
	marker      *regexp.Regexp
	bold        *regexp.Regexp
	measurement *regexp.Regexp
	placeholder *regexp.Regexp
}

// NewTokenizer compiles the markup patterns.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{
		coordinate: regexp.MustCompile(`(?i)` +
			`(?:Y=\s*\d{1,3}(?:\.\d{3})*,\d+m|X=\s*\d{1,3}(?:\.\d{3})*,\d+m)` +
			`|(?:Lat\.\s*-?\d+\.\d+°\s*,\s*Long\.\s*-?\d+\.\d+°)` +
			`|(?:Lat\.\s*-?\d+°\d{2}'\d{2}(?:,\d+)?"\s*,\s*Long\.\s*-?\d+°\d{2}'\d{2}(?:,\d+)?")` +
			`|(?:\d{1,3}°\d{2}'\d{2}(?:,\d{1,3})?")`),
		marker: regexp.MustCompile(`(?is)\[\[B\]\](.*?)\[\[/B\]\]`),
		bold: regexp.MustCompile(`(?i)` +
			`(?:LOTE\s+\d+\s*–\s*QUADRA\s+[A-Z0-9]+:)` +
			`|(?:LOTE\s+\d+\s+da\s+QUADRA\s+[A-Z0-9]+)`),
		measurement: regexp.MustCompile(`(?i)\d{1,3}(?:\.\d{3})*,\d+m²?`),
		placeholder: regexp.MustCompile(`(?i)XXXX`),
	}
}

var defaultTokenizer = NewTokenizer()

// Tokenize splits text with the default tokenizer.
func Tokenize(text string) []Token {
	return defaultTokenizer.Tokenize(text)
}

type match struct {
	kind       tokenKind
	start, end int
	inner      string
}

// Tokenize splits text into runs. Concatenating the Text of every token
// yields the input with the bold markers removed.
func (t *Tokenizer) Tokenize(text string) []Token {
	var tokens []Token
	plain := func(s string) {
		if s == "" {
			return
		}
		if n := len(tokens); n > 0 && !tokens[n-1].Bold && !tokens[n-1].Highlight {
			tokens[n-1].Text += s
			return
		}
		tokens = append(tokens, Token{Text: s})
	}

	for pos := 0; pos < len(text); {
		m, ok := t.next(text, pos)
		if !ok {
			plain(text[pos:])
			break
		}
		plain(text[pos:m.start])

		switch m.kind {
		case kindCoordinate:
			plain(text[m.start:m.end])
		case kindMarker:
			if m.inner != "" {
				tokens = append(tokens, Token{Text: m.inner, Bold: true})
			}
		case kindBold:
			tokens = append(tokens, Token{Text: text[m.start:m.end], Bold: true})
		case kindPlaceholder:
			tokens = append(tokens, Token{Text: text[m.start:m.end], Highlight: true})
		}
		pos = m.end
	}
	return tokens
}

// next returns the earliest match at or after pos.
func (t *Tokenizer) next(text string, pos int) (match, bool) {
	var best match
	found := false
	consider := func(m match, ok bool) {
		if !ok {
			return
		}
		if !found || m.start < best.start || (m.start == best.start && m.kind < best.kind) {
			best, found = m, true
		}
	}

	consider(find(t.coordinate, kindCoordinate, text, pos))
	if loc := t.marker.FindStringSubmatchIndex(text[pos:]); loc != nil {
		consider(match{
			kind:  kindMarker,
			start: pos + loc[0],
			end:   pos + loc[1],
			inner: text[pos+loc[2] : pos+loc[3]],
		}, true)
	}
	consider(t.findBold(text, pos))
	consider(find(t.placeholder, kindPlaceholder, text, pos))
	return best, found
}

func find(re *regexp.Regexp, kind tokenKind, text string, pos int) (match, bool) {
	loc := re.FindStringIndex(text[pos:])
	if loc == nil {
		return match{}, false
	}
	return match{kind: kind, start: pos + loc[0], end: pos + loc[1]}, true
}

// findBold returns the earliest lot header or measurement. Measurements
// directly after a coordinate label are skipped.
func (t *Tokenizer) findBold(text string, pos int) (match, bool) {
	header, headerOK := find(t.bold, kindBold, text, pos)

	for from := pos; from < len(text); {
		m, ok := find(t.measurement, kindBold, text, from)
		if !ok || (headerOK && header.start <= m.start) {
			break
		}
		if !afterCoordinateLabel(text, m.start) {
			return m, true
		}
		_, size := utf8.DecodeRuneInString(text[m.start:])
		from = m.start + size
	}
	return header, headerOK
}

// afterCoordinateLabel reports whether the three bytes before i read "Y= "
// or "X= " with any single whitespace byte.
func afterCoordinateLabel(text string, i int) bool {
	if i < 3 {
		return false
	}
	switch text[i-3] {
	case 'X', 'x', 'Y', 'y':
	default:
		return false
	}
	if text[i-2] != '=' {
		return false
	}
	switch text[i-1] {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
