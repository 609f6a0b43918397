package report

import (
	"errors"
	"testing"
)

func TestInferBlock(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"QUADRA_B.txt", "QUADRA B"},
		{"/uploads/quadra-12.html", "QUADRA 12"},
		{"QD07.txt", "QUADRA 07"},
		{"site a.htm", "QUADRA A"},
		{"lotes_C.txt", "QUADRA C"},
		{"lotes.txt", UnknownBlock},
	}

	for _, tt := range tests {
		if got := InferBlock(tt.filename); got != tt.want {
			t.Errorf("InferBlock(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestIsUnification(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"ÁREA DE UNIFICAÇÃO", true},
		{"unificacao 01", true},
		{"Unificaçao", true},
		{"AREA VERDE", false},
		{"REUNIFICACAO", false},
	}

	for _, tt := range tests {
		if got := IsUnification(tt.name); got != tt.want {
			t.Errorf("IsUnification(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDetectDialect(t *testing.T) {
	tests := []struct {
		filename string
		content  string
		want     Dialect
	}{
		{"parcels.TXT", "", DialectText},
		{"CivilReport_01.html", "", DialectHTML},
		{"lotes_quadra_a.htm", "", DialectNumberedHTML},
		{"export", "<html><table></table></html>", DialectNumberedHTML},
		{"export", "Name: 1\nArea: 1 sq.m", DialectText},
	}

	for _, tt := range tests {
		got, err := DetectDialect(tt.filename, []byte(tt.content))
		if err != nil {
			t.Errorf("DetectDialect(%q) error = %v", tt.filename, err)
			continue
		}
		if got != tt.want {
			t.Errorf("DetectDialect(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}

	if _, err := DetectDialect("data.bin", []byte{0, 1, 2}); !errors.Is(err, ErrUnknownDialect) {
		t.Errorf("DetectDialect(binary) error = %v, want ErrUnknownDialect", err)
	}
}

func TestIsCivilReport(t *testing.T) {
	if !IsCivilReport("/tmp/CivilReport (3).html") {
		t.Error("IsCivilReport(CivilReport) = false")
	}
	if IsCivilReport("lotes.html") {
		t.Error("IsCivilReport(lotes) = true")
	}
}
