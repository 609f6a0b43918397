// Package locale provides pt-BR number parsing, formatting and spelling used
// throughout cadastral descriptions.
package locale

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Placeholder marks a value a human must fill in before the document is final.
const Placeholder = "XXXX"

// ErrNotANumber is returned when a value cannot be read as a number.
var ErrNotANumber = errors.New("not a number")

// ParseNumber reads a number written with either a comma or a point as the
// decimal mark.
//
// When both separators appear, the last one is the decimal mark and the other
// is thousands grouping. A single comma is a decimal mark. A separator that
// repeats with no other separator present is grouping ("1.234.567").
func ParseNumber(text string) (float64, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, fmt.Errorf("parsing %q: %w", text, ErrNotANumber)
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case lastDot >= 0:
		if strings.Count(s, ".") > 1 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("parsing %q: %w", text, ErrNotANumber)
	}
	return v, nil
}

// FormatNumber renders v with a fixed number of decimals using the pt-BR
// convention: comma decimal mark and dot thousands grouping ("1.234,56").
func FormatNumber(v float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	// Printers carry formatting state, so each call gets its own.
	p := message.NewPrinter(language.BrazilianPortuguese)
	return p.Sprint(number.Decimal(v, number.Scale(decimals)))
}

// FormatMeters renders a length as "12,34m".
func FormatMeters(v float64) string {
	return FormatNumber(v, 2) + "m"
}

// FormatSquareMeters renders an area as "1.234,56m²".
func FormatSquareMeters(v float64) string {
	return FormatNumber(v, 2) + "m²"
}

// Hectares converts square meters to hectares.
func Hectares(squareMeters float64) float64 {
	return squareMeters / 10000.0
}

// Round2 rounds to two decimal places, the precision of every measurement
// printed in a description.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
