package locale

import (
	"testing"
	"time"
)

func TestNumberToWords(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "zero"},
		{1, "um"},
		{14, "quatorze"},
		{21, "vinte e um"},
		{100, "cem"},
		{101, "cento e um"},
		{360, "trezentos e sessenta"},
		{1000, "mil"},
		{1001, "mil e um"},
		{1100, "mil e cem"},
		{1234, "mil duzentos e trinta e quatro"},
		{2000, "dois mil"},
		{1000000, "um milhão"},
		{2500000, "dois milhões e quinhentos mil"},
		{-5, "menos cinco"},
	}

	for _, tt := range tests {
		if got := NumberToWords(tt.n); got != tt.want {
			t.Errorf("NumberToWords(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestMetersToWords(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, "zero metro"},
		{1, "um metro"},
		{12.34, "doze metros e trinta e quatro centímetros"},
		{0.01, "um centímetro"},
		{50, "cinquenta metros"},
	}

	for _, tt := range tests {
		if got := MetersToWords(tt.v); got != tt.want {
			t.Errorf("MetersToWords(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestAreaToWords(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{360, "trezentos e sessenta metros quadrados"},
		{1, "um metro quadrado"},
		{360.5, "trezentos e sessenta metros quadrados e cinquenta centésimos"},
		{2.01, "dois metros quadrados e um centésimo"},
	}

	for _, tt := range tests {
		if got := AreaToWords(tt.v); got != tt.want {
			t.Errorf("AreaToWords(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestAddressFormatting(t *testing.T) {
	if got := TitleKeepPreps("RUA DAS FLORES"); got != "Rua das Flores" {
		t.Errorf("TitleKeepPreps = %q, want %q", got, "Rua das Flores")
	}
	if got := FormatCityUF("porto alegre/rs"); got != "Porto Alegre/RS" {
		t.Errorf("FormatCityUF = %q, want %q", got, "Porto Alegre/RS")
	}
	if got := FormatNeighborhood("VILA DA SERRA E MAR"); got != "Vila da Serra e Mar" {
		t.Errorf("FormatNeighborhood = %q, want %q", got, "Vila da Serra e Mar")
	}
	if got := TitleCaseName("  residencial   bela vista "); got != "Residencial Bela Vista" {
		t.Errorf("TitleCaseName = %q, want %q", got, "Residencial Bela Vista")
	}
	if got := CityWithoutUF("Canoas/RS"); got != "Canoas" {
		t.Errorf("CityWithoutUF = %q, want %q", got, "Canoas")
	}
	if got := CityWithoutUF(""); got != Placeholder {
		t.Errorf("CityWithoutUF(\"\") = %q, want placeholder", got)
	}
}

func TestRegistrations(t *testing.T) {
	tests := []struct {
		raw      string
		wantNoun string
		wantList string
	}{
		{"", "matrícula", Placeholder},
		{"12.345", "matrícula", "12.345"},
		{"100, 200; 300", "matrículas", "100, 200 e 300"},
		{"100 e 200", "matrículas", "100 e 200"},
	}

	for _, tt := range tests {
		noun, list := Registrations(tt.raw)
		if noun != tt.wantNoun || list != tt.wantList {
			t.Errorf("Registrations(%q) = (%q, %q), want (%q, %q)", tt.raw, noun, list, tt.wantNoun, tt.wantList)
		}
	}
}

func TestJoinWithAnd(t *testing.T) {
	if got := JoinWithAnd(nil); got != Placeholder {
		t.Errorf("JoinWithAnd(nil) = %q", got)
	}
	if got := JoinWithAnd([]string{"residencial", " ", "comercial"}); got != "residencial e comercial" {
		t.Errorf("JoinWithAnd = %q", got)
	}
}

func TestLongDate(t *testing.T) {
	d := time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)
	if got := LongDate("Porto Alegre", d); got != "Porto Alegre, 5 de março de 2026" {
		t.Errorf("LongDate = %q", got)
	}
}
