package locale

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Prepositions kept lowercase inside street and place names.
var streetPrepositions = map[string]bool{"de": true, "da": true, "do": true, "das": true, "dos": true}

// Neighborhood names also keep the article "a" and the conjunction "e" lowercase.
var neighborhoodPrepositions = map[string]bool{
	"de": true, "da": true, "do": true, "das": true, "dos": true, "a": true, "e": true,
}

var (
	withoutNumberPattern = regexp.MustCompile(`(?i)\s*,?\s*\bS\s*/\s*N(?:[º°]|\b)`)
	registrationSplit    = regexp.MustCompile(`\s*(?:,|;| e )\s*`)
)

var months = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

func titleCase(s string) string {
	return cases.Title(language.BrazilianPortuguese).String(strings.ToLower(s))
}

// lowerWords lowercases every word found in words except the first one.
func lowerWords(s string, words map[string]bool) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		if i > 0 && words[strings.ToLower(f)] {
			fields[i] = strings.ToLower(f)
		}
	}
	return strings.Join(fields, " ")
}

// TitleKeepPreps title-cases a street address, keeps connecting prepositions
// lowercase and normalizes "S/N" (no number) to "s/nº".
func TitleKeepPreps(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	t := lowerWords(titleCase(s), streetPrepositions)
	t = withoutNumberPattern.ReplaceAllStringFunc(t, func(m string) string {
		if strings.Contains(m, ",") {
			return ", s/nº"
		}
		return " s/nº"
	})
	return strings.TrimSpace(t)
}

// FormatCityUF renders "porto alegre/rs" as "Porto Alegre/RS".
func FormatCityUF(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	city, uf, found := strings.Cut(s, "/")
	if !found {
		return TitleKeepPreps(s)
	}
	return TitleKeepPreps(city) + "/" + strings.ToUpper(strings.TrimSpace(uf))
}

// CityWithoutUF drops the "/UF" suffix of a city field.
func CityWithoutUF(s string) string {
	city, _, _ := strings.Cut(strings.TrimSpace(s), "/")
	city = strings.TrimSpace(city)
	if city == "" {
		return Placeholder
	}
	return city
}

// FormatNeighborhood title-cases a neighborhood name.
func FormatNeighborhood(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return lowerWords(titleCase(s), neighborhoodPrepositions)
}

// TitleCaseName capitalizes each word of a development or person name.
func TitleCaseName(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	return titleCase(s)
}

// OrPlaceholder returns s, or the placeholder when s is blank.
func OrPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

// JoinWithAnd joins items as "a, b e c". Blank items are skipped; an empty
// list yields the placeholder.
func JoinWithAnd(items []string) string {
	var kept []string
	for _, it := range items {
		if strings.TrimSpace(it) != "" {
			kept = append(kept, it)
		}
	}
	switch len(kept) {
	case 0:
		return Placeholder
	case 1:
		return kept[0]
	}
	return strings.Join(kept[:len(kept)-1], ", ") + " e " + kept[len(kept)-1]
}

// SplitRegistrations splits a free-text list of property registration numbers
// separated by commas, semicolons or " e ".
func SplitRegistrations(raw string) []string {
	var parts []string
	for _, p := range registrationSplit.Split(strings.TrimSpace(raw), -1) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// Registrations returns the noun ("matrícula" or "matrículas") and the joined
// list of registration numbers found in raw.
func Registrations(raw string) (string, string) {
	parts := SplitRegistrations(raw)
	if len(parts) <= 1 {
		if len(parts) == 0 {
			return "matrícula", Placeholder
		}
		return "matrícula", parts[0]
	}
	return "matrículas", JoinWithAnd(parts)
}

// LongDate renders "Porto Alegre, 5 de março de 2026".
func LongDate(city string, t time.Time) string {
	return fmt.Sprintf("%s, %d de %s de %d", city, t.Day(), months[t.Month()-1], t.Year())
}
