package locale

import (
	"math"
	"strings"
)

var unitWords = [...]string{
	"zero", "um", "dois", "três", "quatro", "cinco", "seis", "sete", "oito", "nove",
	"dez", "onze", "doze", "treze", "quatorze", "quinze", "dezesseis", "dezessete", "dezoito", "dezenove",
}

var tensWords = [...]string{
	"", "", "vinte", "trinta", "quarenta", "cinquenta", "sessenta", "setenta", "oitenta", "noventa",
}

var hundredWords = [...]string{
	"", "cento", "duzentos", "trezentos", "quatrocentos", "quinhentos",
	"seiscentos", "setecentos", "oitocentos", "novecentos",
}

type scale struct {
	value    int64
	singular string
	plural   string
}

var scales = []scale{
	{1_000_000_000_000, "trilhão", "trilhões"},
	{1_000_000_000, "bilhão", "bilhões"},
	{1_000_000, "milhão", "milhões"},
	{1_000, "mil", "mil"},
}

// NumberToWords spells out an integer in Brazilian Portuguese
// (1234 → "mil duzentos e trinta e quatro").
func NumberToWords(n int64) string {
	if n == 0 {
		return unitWords[0]
	}
	if n < 0 {
		return "menos " + NumberToWords(-n)
	}

	type group struct {
		value int64
		words string
	}
	var groups []group

	rest := n
	for _, sc := range scales {
		g := rest / sc.value
		rest %= sc.value
		if g == 0 {
			continue
		}
		var w string
		switch {
		case sc.value == 1_000 && g == 1:
			w = "mil"
		case g == 1:
			w = "um " + sc.singular
		default:
			w = NumberToWords(g) + " " + sc.plural
		}
		groups = append(groups, group{value: g, words: w})
	}
	if rest > 0 {
		groups = append(groups, group{value: rest, words: belowThousand(int(rest))})
	}

	var sb strings.Builder
	for i, g := range groups {
		if i > 0 {
			// The last group takes "e" when it is a round hundred or below one
			// hundred: "mil e cem", "mil e um", but "mil duzentos e dez".
			if i == len(groups)-1 && (g.value < 100 || g.value%100 == 0) {
				sb.WriteString(" e ")
			} else {
				sb.WriteString(" ")
			}
		}
		sb.WriteString(g.words)
	}
	return sb.String()
}

func belowThousand(n int) string {
	if n == 100 {
		return "cem"
	}

	var parts []string
	if h := n / 100; h > 0 {
		parts = append(parts, hundredWords[h])
	}
	r := n % 100
	switch {
	case r == 0:
	case r < 20:
		parts = append(parts, unitWords[r])
	default:
		parts = append(parts, tensWords[r/10])
		if r%10 > 0 {
			parts = append(parts, unitWords[r%10])
		}
	}
	return strings.Join(parts, " e ")
}

// splitCents separates a measurement into its integer part and hundredths,
// rounding to two decimals first.
func splitCents(v float64) (int64, int64) {
	cents := int64(math.Round(math.Abs(v) * 100))
	return cents / 100, cents % 100
}

// MetersToWords spells out a length: "doze metros e trinta e quatro centímetros".
func MetersToWords(v float64) string {
	m, cm := splitCents(v)

	var parts []string
	if m > 0 {
		parts = append(parts, NumberToWords(m)+plural(m, " metro", " metros"))
	}
	if cm > 0 {
		parts = append(parts, NumberToWords(cm)+plural(cm, " centímetro", " centímetros"))
	}
	if len(parts) == 0 {
		return "zero metro"
	}
	return strings.Join(parts, " e ")
}

// AreaToWords spells out an area: "trezentos metros quadrados e cinquenta centésimos".
func AreaToWords(v float64) string {
	m2, cent := splitCents(v)

	text := NumberToWords(m2) + plural(m2, " metro quadrado", " metros quadrados")
	if cent == 0 {
		return text
	}
	return text + " e " + NumberToWords(cent) + plural(cent, " centésimo", " centésimos")
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
