package classify

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/coolbeans/memorial/pkg/survey"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		wantCat   Category
		wantTitle string
	}{
		{"RUA A - TRECHO 1", Viario, "DESCRIÇÃO DE SISTEMA VIÁRIO"},
		{"Avenida Principal", Viario, "DESCRIÇÃO DE SISTEMA VIÁRIO"},
		{"ACESSO DE SERVIÇO 2", Viario, "DESCRIÇÃO DE SISTEMA VIÁRIO"},
		{"ÁREA VERDE 01", Verde, "DESCRIÇÃO DE ÁREAS VERDES"},
		{"AV 3", Verde, "DESCRIÇÃO DE ÁREAS VERDES"},
		{"ÁREA VERDE DE PRESERVAÇÃO 1", VerdePreservacao, "DESCRIÇÃO DE ÁREA VERDE DE PRESERVAÇÃO"},
		{"ÁREA DE RESTRIÇÃO AMBIENTAL", APP, "DESCRIÇÃO DE RESTRIÇÕES"},
		{"ÁREA DE PRESERVAÇÃO AMBIENTAL", APP, "DESCRIÇÃO DE ÁREA DE PRESERVAÇÃO AMBIENTAL"},
		{"APP 2", APP, "DESCRIÇÃO DE ÁREA DE PRESERVAÇÃO PERMANENTE"},
		{"ÁREA DE PRESERVAÇÃO PERMANENTE", APP, "DESCRIÇÃO DE ÁREA DE PRESERVAÇÃO PERMANENTE"},
		{"ÁREA INSTITUCIONAL 1", Institucional, "DESCRIÇÃO DE ÁREAS INSTITUCIONAIS"},
		{"AI 02", Institucional, "DESCRIÇÃO DE ÁREAS INSTITUCIONAIS"},
		{"ETE", ReservaTecnica, "DESCRIÇÃO DE RESERVA TÉCNICA"},
		{"Estação de Bombeamento", ReservaTecnica, "DESCRIÇÃO DE RESERVA TÉCNICA"},
		{"ÁREA REMANESCENTE", Remanescente, "DESCRIÇÃO DE ÁREA REMANESCENTE"},
		{"AC 5", Condominial, "DESCRIÇÃO DE ÁREAS CONDOMINIAIS"},
		{"ÁREAS CONDOMINIAIS", Condominial, "DESCRIÇÃO DE ÁREAS CONDOMINIAIS"},
		{"QUADRA B", Quadras, "DESCRIÇÃO DE QUADRAS"},
		{"GLEBA 7", Outros, OtherTitle},
		{"", Outros, OtherTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, title := Classify(tt.name)
			if cat != tt.wantCat || title != tt.wantTitle {
				t.Errorf("Classify(%q) = (%q, %q), want (%q, %q)", tt.name, cat, title, tt.wantCat, tt.wantTitle)
			}
		})
	}
}

func TestRestrictionBeatsPermanentPreservation(t *testing.T) {
	r := Default().Match("ÁREA DE RESTRIÇÃO AMBIENTAL")
	if r == nil || r.ID != "app_restricao" {
		t.Fatalf("Match() = %+v, want app_restricao", r)
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  área   de  preservação ", "AREA DE PRESERVACAO"},
		{"Estação", "ESTACAO"},
		{"RUA A – TRECHO 2", "RUA A – TRECHO 2"},
	}
	for _, tt := range tests {
		if got := Fold(tt.in); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSortBlocks(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{
			[]string{"QUADRA B", "QUADRA 2", "QUADRA A"},
			[]string{"QUADRA A", "QUADRA B", "QUADRA 2"},
		},
		{
			[]string{"QUADRA 10", "QUADRA AA", "QUADRA 2", "QUADRA Z", "QUADRA (DESCONHECIDA)", "quadra c"},
			[]string{"quadra c", "QUADRA Z", "QUADRA AA", "QUADRA 2", "QUADRA 10", "QUADRA (DESCONHECIDA)"},
		},
	}

	for _, tt := range tests {
		got := append([]string(nil), tt.in...)
		SortBlocks(got)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("SortBlocks(%v) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestRoadKeyOf(t *testing.T) {
	tests := []struct {
		name string
		want RoadKey
	}{
		{"RUA A - TRECHO 2", RoadKey{"RUA A", 2}},
		{"Rua A – Trecho 10", RoadKey{"RUA A", 10}},
		{"AVENIDA BRASIL (TRECHO 1)", RoadKey{"AVENIDA BRASIL", 1}},
		{"RODOVIA ESTADUAL", RoadKey{"RODOVIA ESTADUAL", 0}},
		{"ALARGAMENTO VIÁRIO", RoadKey{"ALARGAMENTO VIARIO", 0}},
	}

	for _, tt := range tests {
		if got := RoadKeyOf(tt.name); got != tt.want {
			t.Errorf("RoadKeyOf(%q) = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestLotNumber(t *testing.T) {
	if got := LotNumber("LOTE 15"); got != 15 {
		t.Errorf("LotNumber(LOTE 15) = %d", got)
	}
	if got := LotNumber("SEM NOME"); got != NoNumber {
		t.Errorf("LotNumber(SEM NOME) = %d, want NoNumber", got)
	}
}

func TestGroup(t *testing.T) {
	items := []survey.Item{
		{Name: "RUA A - TRECHO 2"},
		{Name: "ÁREA VERDE 10"},
		{Name: "ÁREA DE RESTRIÇÃO 1"},
		{Name: "RUA A - TRECHO 1"},
		{Name: "APP 1"},
		{Name: "ÁREA VERDE 2"},
		{Name: "ÁREA REMANESCENTE"},
		{Name: "ÁREA DE RESTRIÇÃO 2"},
		{Name: "GLEBA X"},
	}

	type section struct {
		Title string
		Names []string
	}
	var got []section
	for _, s := range Group(items) {
		sec := section{Title: s.Title}
		for _, it := range s.Items {
			sec.Names = append(sec.Names, it.Name)
		}
		got = append(got, sec)
	}

	want := []section{
		{"DESCRIÇÃO DE ÁREA REMANESCENTE", []string{"ÁREA REMANESCENTE"}},
		{"DESCRIÇÃO DE ÁREA DE PRESERVAÇÃO PERMANENTE", []string{"APP 1"}},
		{"DESCRIÇÃO DE RESTRIÇÕES", []string{"ÁREA DE RESTRIÇÃO 1", "ÁREA DE RESTRIÇÃO 2"}},
		{"DESCRIÇÃO DE ÁREAS VERDES", []string{"ÁREA VERDE 2", "ÁREA VERDE 10"}},
		{"DESCRIÇÃO DE SISTEMA VIÁRIO", []string{"RUA A - TRECHO 1", "RUA A - TRECHO 2"}},
		{"DESCRIÇÃO DE OUTRAS ÁREAS", []string{"GLEBA X"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Group() mismatch (-want +got):\n%s", diff)
	}
}
