// Package report reads land-survey reports exported by civil design software
// into survey items. Two dialects are supported: the plain text parcel report
// and the HTML civil report.
package report

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/coolbeans/memorial/pkg/bearing"
	"github.com/coolbeans/memorial/pkg/locale"
	"github.com/coolbeans/memorial/pkg/survey"
)

// Dialect identifies a report layout.
type Dialect string

const (
	// DialectText is the "Name: <n>" parcel report.
	DialectText Dialect = "text"
	// DialectHTML is the civil report with one table per named parcel.
	DialectHTML Dialect = "html"
	// DialectNumberedHTML is the civil report with items numbered from
	// their names, used for lots.
	DialectNumberedHTML Dialect = "numbered-html"
)

// ErrUnknownDialect is returned when a dialect name or input cannot be
// recognized.
var ErrUnknownDialect = errors.New("unknown report dialect")

// ParseDialect reads a dialect name.
func ParseDialect(s string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(strings.TrimSpace(s))); d {
	case DialectText, DialectHTML, DialectNumberedHTML:
		return d, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownDialect)
}

// Parser holds the compiled patterns of both dialects. A Parser has no
// mutable state and may be shared.
type Parser struct {
	// Text dialect
	blockPattern  *regexp.Regexp
	originPattern *regexp.Regexp
	areaPattern   *regexp.Regexp
	linePattern   *regexp.Regexp
	curvePattern  *regexp.Regexp

	// HTML dialect
	htmlOriginPattern *regexp.Regexp
	htmlAreaPattern   *regexp.Regexp
	htmlLinePattern   *regexp.Regexp
	htmlCurvePattern  *regexp.Regexp

	// Item names
	firstIntPattern *regexp.Regexp
}

// NewParser compiles the report patterns.
func NewParser() *Parser {
	return &Parser{
		blockPattern:  regexp.MustCompile(`(?:^|\n)\s*Name:\s*(\d+)\s*(?:\n|$)`),
		originPattern: regexp.MustCompile(`(?i)Point of Beginning\s*:\s*North:\s*([\d\.,]+)m\s*East:\s*([\d\.,]+)m`),
		areaPattern:   regexp.MustCompile(`(?i)Area:\s*([\d\.,]+)\s*sq\.m`),
		linePattern:   regexp.MustCompile(`(?i)Segment\s*#\d+.*?Line[\s\S]*?Course:\s*([NS].*?[EW])\s*Length:\s*([\d\.,]+)m`),
		curvePattern:  regexp.MustCompile(`(?i)Segment\s*#\d+.*?Curve[\s\S]*?Length:\s*([\d\.,]+)m[\s\S]*?Radius:\s*([\d\.,]+)m[\s\S]*?Course:\s*([NS].*?[EW])`),

		htmlOriginPattern: regexp.MustCompile(`(?i)Point\s+whose\s+Northing\s+is\s*([\d\.,]+)\s+and\s+whose\s+Easting\s*is\s*([\d\.,]+)`),
		htmlAreaPattern:   regexp.MustCompile(`(?is)Area.*?\n.*?Square meters\s*\n\s*([\d\.,]+)`),
		htmlLinePattern:   regexp.MustCompile(`(?i)Bearing:\s*([NS].*?[EW])\s*Length:\s*([\d\.,]+)`),
		htmlCurvePattern:  regexp.MustCompile(`(?is)Curve.*?Curve Length:\s*([\d\.,]+).*?Radius Length:\s*([\d\.,]+).*?Chord Direction:\s*([NS].*?[EW])`),

		firstIntPattern: regexp.MustCompile(`\d+`),
	}
}

var defaultParser = NewParser()

// Parse reads b in the given dialect.
func Parse(b []byte, d Dialect) ([]survey.Item, error) {
	return defaultParser.Parse(b, d)
}

// Parse reads b in the given dialect.
func (p *Parser) Parse(b []byte, d Dialect) ([]survey.Item, error) {
	switch d {
	case DialectText:
		return p.ParseText(b), nil
	case DialectHTML:
		return p.ParseHTML(b)
	case DialectNumberedHTML:
		items, err := p.ParseHTML(b)
		if err != nil {
			return nil, err
		}
		return p.Number(items), nil
	}
	return nil, fmt.Errorf("%q: %w", d, ErrUnknownDialect)
}

// ParseText reads the text dialect. See Parser.ParseText.
func ParseText(b []byte) []survey.Item {
	return defaultParser.ParseText(b)
}

// ParseHTML reads the HTML dialect. See Parser.ParseHTML.
func ParseHTML(b []byte) ([]survey.Item, error) {
	return defaultParser.ParseHTML(b)
}

// Number assigns item numbers. See Parser.Number.
func Number(items []survey.Item) []survey.Item {
	return defaultParser.Number(items)
}

// parseOrNil returns nil when s is not a number.
func parseOrNil(s string) *float64 {
	v, err := locale.ParseNumber(s)
	if err != nil {
		return nil
	}
	return &v
}

func parseOrZero(s string) float64 {
	v, _ := locale.ParseNumber(s)
	return v
}

func azimuthOf(b string) survey.Azimuth {
	return survey.NewAzimuth(bearing.ToAzimuth(strings.TrimSpace(b)))
}

// origin reads a (northing, easting) pair. Either coordinate failing to parse
// drops the origin.
func origin(northing, easting string) *survey.Point {
	y, errY := locale.ParseNumber(northing)
	x, errX := locale.ParseNumber(easting)
	if errY != nil || errX != nil {
		return nil
	}
	return &survey.Point{X: x, Y: y}
}

// positioned is a segment found at an offset of the source text.
type positioned struct {
	at  int
	seg survey.Segment
}

// segments reads line and curve matches and returns them in the order they
// appear in text.
func segments(text string, linePattern, curvePattern *regexp.Regexp) []survey.Segment {
	var found []positioned
	for _, m := range linePattern.FindAllStringSubmatchIndex(text, -1) {
		bearingText := text[m[2]:m[3]]
		length := parseOrZero(text[m[4]:m[5]])
		found = append(found, positioned{at: m[0], seg: survey.Line{Length: length, Azimuth: azimuthOf(bearingText)}})
	}
	for _, m := range curvePattern.FindAllStringSubmatchIndex(text, -1) {
		c := survey.Curve{
			ArcLength: parseOrZero(text[m[2]:m[3]]),
			Radius:    parseOrZero(text[m[4]:m[5]]),
			Azimuth:   azimuthOf(text[m[6]:m[7]]),
		}
		found = append(found, positioned{at: m[0], seg: c})
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].at < found[j].at })

	segs := make([]survey.Segment, 0, len(found))
	for _, f := range found {
		segs = append(segs, f.seg)
	}
	return segs
}
