package memorial

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"go.uber.org/goleak"

	"github.com/coolbeans/memorial/pkg/config"
	"github.com/coolbeans/memorial/pkg/crs"
	"github.com/coolbeans/memorial/pkg/report"
	"github.com/coolbeans/memorial/pkg/survey"
)

var fixedID = uuid.MustParse("6f1c2b9e-3a41-4c1e-9d2f-7b8a0c5e4d31")

func testProject() config.Project {
	width := 5.0
	p := config.Project{
		Name:          "aurora",
		Condominium:   true,
		Address:       "rua das flores",
		Neighborhood:  "centro",
		City:          "porto alegre/rs",
		Registrations: "1.234 e 5.678",
		Area:          1000,
		Perimeter:     480,
		CommonArea:    2500,
		NonBuildable:  config.NonBuildable{Enabled: true, Width: &width},
	}
	p.DevelopmentType = config.TypeCondominium
	p.Coordinates.Format = "utm"
	return p
}

func testEngine(p config.Project) *Engine {
	return New(p, WithIDGenerator(func() uuid.UUID { return fixedID }))
}

// lotReport writes a text dialect report with one square-ish lot per area.
func lotReport(areas map[int]float64, order ...int) []byte {
	var sb strings.Builder
	sb.WriteString("Parcel Report\n\n")
	for _, n := range order {
		sb.WriteString(fmt.Sprintf("Name: %d\n", n))
		sb.WriteString(fmt.Sprintf("Area: %.2f sq.m\n", areas[n]))
		sb.WriteString("Point of Beginning: North: 6670000.000m East: 480000.000m\n\n")
		sb.WriteString("Segment #1 : Line\nCourse: N 90-00-00 E Length: 10.000m\n\n")
	}
	return []byte(sb.String())
}

func civilTable(name, area string) string {
	return `<table><tr><td colspan="3">Parcel ` + name + `</td></tr>` +
		`<tr><td>Area:</td></tr><tr><td>Square meters</td></tr><tr><td>` + area + `</td></tr>` +
		`<tr><td colspan="3">Point whose Northing is 6670000.00 and whose Easting is 480000.00</td></tr>` +
		`<tr><td>Bearing: N 00-00-00 E</td><td>Length: 10.00</td></tr></table>`
}

func civilReport(tables ...string) []byte {
	return []byte("<html><body>" + strings.Join(tables, "") + "</body></html>")
}

func lotsInputs() []Input {
	return []Input{
		{Name: "QUADRA_B.txt", Data: lotReport(map[int]float64{1: 300, 2: 200}, 2, 1)},
		{Name: "CivilReport_areas.html", Data: civilReport(
			civilTable("QUADRA A", "600.00"),
			civilTable("RUA A", "400.00"),
			civilTable("AREA VERDE 2", "150.00"),
			civilTable("AREA VERDE 1", "250.00"),
		)},
		{Name: "QUADRA_A.txt", Data: lotReport(map[int]float64{1: 500}, 1)},
	}
}

func headings(doc *Document) []string {
	var out []string
	for _, s := range doc.Sections {
		out = append(out, s.Heading)
	}
	return out
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"lots", ModeLots, false},
		{" Unify-Dismember ", ModeUnifyDismember, false},
		{"areas", ModeAreas, false},
		{"condominio", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnknownMode) {
			t.Errorf("ParseMode(%q) error = %v, want ErrUnknownMode", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseFilesKeepsOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	e := New(config.Default(), WithWorkers(2))
	files, err := e.ParseFiles(context.Background(), lotsInputs())
	if err != nil {
		t.Fatalf("ParseFiles() error = %v", err)
	}

	type summary struct {
		Name    string
		Dialect report.Dialect
		Block   string
		Civil   bool
		Items   int
	}
	var got []summary
	for _, f := range files {
		got = append(got, summary{f.Name, f.Dialect, f.Block, f.Civil, len(f.Items)})
	}
	want := []summary{
		{"QUADRA_B.txt", report.DialectText, "QUADRA B", false, 2},
		{"CivilReport_areas.html", report.DialectHTML, "", true, 4},
		{"QUADRA_A.txt", report.DialectText, "QUADRA A", false, 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseFiles() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFilesErrors(t *testing.T) {
	defer goleak.VerifyNone(t)

	e := New(config.Default())

	_, err := e.ParseFiles(context.Background(), []Input{
		{Name: "QUADRA_A.txt", Data: lotReport(map[int]float64{1: 10}, 1)},
		{Name: "notes.csv", Data: []byte("a;b;c")},
	})
	if !errors.Is(err, report.ErrUnknownDialect) {
		t.Errorf("ParseFiles() error = %v, want ErrUnknownDialect", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.ParseFiles(ctx, []Input{{Name: "QUADRA_A.txt", Data: lotReport(map[int]float64{1: 10}, 1)}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ParseFiles(canceled) error = %v, want context.Canceled", err)
	}
}

func TestBlocks(t *testing.T) {
	files := []ParsedFile{
		{Name: "lotes_c.txt", Block: "QUADRA C", Items: []survey.Item{{Number: 3}, {Number: 0}, {Number: 1}}},
		{Name: "CivilReport.html", Civil: true, Items: []survey.Item{{Name: "RUA A"}}},
		{Name: "QUADRA_2.txt", Block: "QUADRA 2", Items: []survey.Item{{Number: 1}}},
		{Name: "x.txt", Items: []survey.Item{{Number: 1}}},
		{Name: "QUADRA_A.txt", Block: "QUADRA A", Items: []survey.Item{{Number: 1}}},
	}

	got := Blocks(files)
	var labels []string
	for _, b := range got {
		labels = append(labels, b.Label)
	}
	want := []string{"QUADRA A", "QUADRA C", "QUADRA 2", report.UnknownBlock}
	if diff := cmp.Diff(want, labels); diff != "" {
		t.Errorf("Blocks() labels mismatch (-want +got):\n%s", diff)
	}

	var nums []int
	for _, lot := range got[1].Lots {
		nums = append(nums, lot.Number)
	}
	if diff := cmp.Diff([]int{1, 3, 0}, nums); diff != "" {
		t.Errorf("Blocks() lot order mismatch (-want +got):\n%s", diff)
	}
	if files[0].Items[0].Number != 3 {
		t.Error("Blocks() reordered the input items")
	}
}

func TestLotsDocument(t *testing.T) {
	e := testEngine(testProject())
	files, err := e.ParseFiles(context.Background(), lotsInputs())
	if err != nil {
		t.Fatalf("ParseFiles() error = %v", err)
	}
	doc := e.LotsDocument(files)

	if doc.ID != fixedID || doc.Mode != ModeLots || doc.Title != TitleMemorial {
		t.Errorf("LotsDocument() header = %v %q %q", doc.ID, doc.Mode, doc.Title)
	}

	wantHeadings := []string{"", "DESCRIÇÃO DE ÁREAS VERDES", "DESCRIÇÃO DE SISTEMA VIÁRIO", HeadingBlocks, HeadingLots}
	if diff := cmp.Diff(wantHeadings, headings(doc)); diff != "" {
		t.Fatalf("LotsDocument() headings mismatch (-want +got):\n%s", diff)
	}

	opening := `O presente memorial tem por finalidade descrever o parcelamento de solo de acordo com o projeto denominado ` +
		`[[B]]Condomínio Fechado de Lotes Residenciais "Aurora"[[/B]] em uma gleba de terras situada frente à Rua das Flores, ` +
		`bairro Centro no município de Porto Alegre/RS, com área superficial de 1.000,00m² (mil metros quadrados) - 0,10ha ` +
		`e perímetro de 480,00m (quatrocentos e oitenta metros), objeto referente às matrículas nºs 1.234 e 5.678 ` +
		`do registro geral de imóveis desta cidade.`
	if got := doc.Sections[0].Paragraphs[0]; got != opening {
		t.Errorf("opening mismatch (-want +got):\n%s", cmp.Diff(opening, got))
	}
	if got := doc.Sections[0].Paragraphs[1]; !strings.Contains(got, "MC 51W, coordenadas Plano Retangulares, sistema UTM.") {
		t.Errorf("coordinates paragraph = %q, want MC 51W", got)
	}

	green := doc.Sections[1].Paragraphs
	if len(green) != 2 || !strings.HasPrefix(green[0], "[[B]]AREA VERDE 1[[/B]]: ") || !strings.HasPrefix(green[1], "[[B]]AREA VERDE 2[[/B]]: ") {
		t.Errorf("green section = %q, want AREA VERDE 1 then 2", green)
	}
	for _, p := range green {
		if strings.Contains(p, "faixa não edificante") {
			t.Errorf("area paragraph has the strip clause: %q", p)
		}
		if strings.Contains(p, "situado entre terras") {
			t.Errorf("condominium area paragraph has the adjoining-land clause: %q", p)
		}
	}
	if blocks := doc.Sections[3].Paragraphs; len(blocks) != 1 || !strings.HasPrefix(blocks[0], "[[B]]QUADRA A[[/B]]: ") {
		t.Errorf("blocks section = %q, want QUADRA A", blocks)
	}

	lots := doc.Sections[4].Paragraphs
	wantPrefixes := []string{"LOTE 1 – QUADRA A: ", "LOTE 1 – QUADRA B: ", "LOTE 2 – QUADRA B: "}
	if len(lots) != len(wantPrefixes) {
		t.Fatalf("lots = %d paragraphs, want %d", len(lots), len(wantPrefixes))
	}
	for i, prefix := range wantPrefixes {
		if !strings.HasPrefix(lots[i], prefix) {
			t.Errorf("lot %d = %q, want prefix %q", i, lots[i], prefix)
		}
		if !strings.Contains(lots[i], "faixa não edificante") {
			t.Errorf("lot %d has no strip clause", i)
		}
	}
	if !strings.Contains(lots[0], "correspondendo-lhe a fração ideal de 0.5000000.") {
		t.Errorf("lot 0 = %q, want fraction 0.5 of the summed private area", lots[0])
	}

	var cells [][]string
	for _, row := range doc.Fractions {
		cells = append(cells, row.Cells())
	}
	wantCells := [][]string{
		{"1", "A", "500,00", "1.250,00", "1.750,00", "0.5000000"},
		{"1", "B", "300,00", "750,00", "1.050,00", "0.3000000"},
		{"2", "B", "200,00", "500,00", "700,00", "0.2000000"},
	}
	if diff := cmp.Diff(wantCells, cells); diff != "" {
		t.Errorf("Fractions mismatch (-want +got):\n%s", diff)
	}
}

func TestLotsDocumentSubdivision(t *testing.T) {
	p := testProject()
	p.Condominium = false
	p.DevelopmentType = "Loteamento"
	p.Name = ""
	p.Registrations = ""
	p.Area = 0
	p.Coordinates.Format = "dms"

	e := testEngine(p)
	files, err := e.ParseFiles(context.Background(), lotsInputs()[:1])
	if err != nil {
		t.Fatalf("ParseFiles() error = %v", err)
	}
	doc := e.LotsDocument(files)

	if len(doc.Fractions) != 0 {
		t.Errorf("Fractions = %v, want none outside a condominium", doc.Fractions)
	}
	wantHeadings := []string{"", HeadingBlocks, HeadingLots}
	if diff := cmp.Diff(wantHeadings, headings(doc)); diff != "" {
		t.Errorf("headings mismatch (-want +got):\n%s", diff)
	}
	if got := doc.Sections[1].Paragraphs; !cmp.Equal(got, []string{"XXXX"}) {
		t.Errorf("blocks section = %q, want the placeholder", got)
	}

	opening := doc.Sections[0].Paragraphs[0]
	for _, want := range []string{
		`[[B]]Loteamento "[[/B]]XXXX[[B]]"[[/B]] em uma gleba`,
		"área superficial de XXXXm² (XXXX) - XXXXha",
		"objeto referente à matrícula nº XXXX do registro",
	} {
		if !strings.Contains(opening, want) {
			t.Errorf("opening = %q, want it to contain %q", opening, want)
		}
	}
	if got := doc.Sections[0].Paragraphs[1]; !strings.HasSuffix(got, "em graus, minutos e segundos.") {
		t.Errorf("coordinates paragraph = %q", got)
	}
	for _, lot := range doc.Sections[2].Paragraphs {
		if !strings.Contains(lot, "situado entre terras") || strings.Contains(lot, "fração ideal") {
			t.Errorf("subdivision lot = %q", lot)
		}
	}
}

func TestAreasDocument(t *testing.T) {
	e := testEngine(testProject())

	doc := e.AreasDocument(nil)
	if diff := cmp.Diff([]Section{{Heading: "DESCRIÇÃO DE OUTRAS ÁREAS", Paragraphs: []string{"XXXX"}}}, doc.Sections); diff != "" {
		t.Errorf("AreasDocument(nil) mismatch (-want +got):\n%s", diff)
	}

	files := []ParsedFile{{Civil: true, Items: []survey.Item{{Name: "ETE 1"}, {Name: "Área Institucional 1"}}}}
	doc = e.AreasDocument(files)
	want := []string{"DESCRIÇÃO DE ÁREAS INSTITUCIONAIS", "DESCRIÇÃO DE RESERVA TÉCNICA"}
	if diff := cmp.Diff(want, headings(doc)); diff != "" {
		t.Errorf("AreasDocument() headings mismatch (-want +got):\n%s", diff)
	}
}

func TestUnificationDocument(t *testing.T) {
	files := []ParsedFile{
		{Name: "CivilReport_unif.html", Civil: true, Items: []survey.Item{
			{Name: "RUA A"},
			{Name: "Unificação", Area: survey.Float(1000), Origin: &survey.Point{X: 480000, Y: 6670000},
				Segments: []survey.Segment{survey.Line{Length: 10, Azimuth: survey.NewAzimuth(0, true)}}},
		}},
		{Name: "glebas.html", Items: []survey.Item{
			{Name: "2", Number: 2, Area: survey.Float(400)},
			{Name: "1", Number: 1, Area: survey.Float(600)},
		}},
	}

	tests := []struct {
		mode     Mode
		title    string
		headings []string
	}{
		{ModeUnification, "MEMORIAL DESCRITIVO DE UNIFICAÇÃO",
			[]string{"", "SITUAÇÃO ATUAL DAS MATRÍCULAS 1.234, 5.678", HeadingUnified}},
		{ModeDismemberment, "MEMORIAL DESCRITIVO DE DESMEMBRAMENTO",
			[]string{"", "SITUAÇÃO ATUAL DAS MATRÍCULAS 1.234, 5.678", HeadingDismembered}},
		{ModeUnifyDismember, "MEMORIAL DESCRITIVO DE UNIFICAÇÃO E DESMEMBRAMENTO",
			[]string{"", "SITUAÇÃO ATUAL DAS MATRÍCULAS 1.234, 5.678", HeadingUnified, HeadingDismembered}},
	}

	e := testEngine(testProject())
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			doc := e.UnificationDocument(files, tt.mode)
			if doc.Title != tt.title {
				t.Errorf("Title = %q, want %q", doc.Title, tt.title)
			}
			if diff := cmp.Diff(tt.headings, headings(doc)); diff != "" {
				t.Errorf("headings mismatch (-want +got):\n%s", diff)
			}
		})
	}

	doc := e.UnificationDocument(files, ModeUnifyDismember)
	opening := doc.Sections[0].Paragraphs[0]
	wantOpening := "O presente memorial tem por finalidade descrever a unificação e desmembramento de uma área de terras, " +
		"situadas frente Rua das Flores, no bairro Centro, nesta comarca e cidade de Porto Alegre/RS com área total de " +
		"1.000,00m² (mil metros quadrados), objeto referente às matrículas sob 1.234, 5.678 do registro geral de imóveis desta cidade."
	if opening != wantOpening {
		t.Errorf("opening mismatch (-want +got):\n%s", cmp.Diff(wantOpening, opening))
	}
	if got := doc.Sections[0].Paragraphs[1]; strings.HasPrefix(got, "Segue abaixo") {
		t.Errorf("coordinates paragraph = %q, want no lead-in", got)
	}

	situation := doc.Sections[1].Paragraphs
	if len(situation) != 4 || situation[0] != "[[B]]Imóvel:[[/B]] Matrícula 1.234, Município de Porto Alegre/RS, com área total de XXXXm²." {
		t.Errorf("situation = %q", situation)
	}

	unified := doc.Sections[2].Paragraphs
	if unified[0] != "[[B]]Imóvel:[[/B]] UNIFICAÇÃO, com área total de 1.000,00m² (mil metros quadrados)." {
		t.Errorf("unified header = %q", unified[0])
	}
	if !strings.HasPrefix(unified[1], "[[B]]Descrição do Imóvel:[[/B]] Um terreno urbano, irregular, sem benfeitorias, situado entre terras") {
		t.Errorf("unified description = %q", unified[1])
	}
	if strings.Contains(unified[1], "faixa não edificante") {
		t.Errorf("unified description has the strip clause: %q", unified[1])
	}

	glebes := doc.Sections[3].Paragraphs
	if len(glebes) != 4 || !strings.HasPrefix(glebes[0], "[[B]]Imóvel:[[/B]] GLEBA 1, com área total de 600,00m²") ||
		!strings.HasPrefix(glebes[2], "[[B]]Imóvel:[[/B]] GLEBA 2, ") {
		t.Errorf("glebes = %q", glebes)
	}
}

func TestUnificationDocumentMissingParcels(t *testing.T) {
	p := testProject()
	p.Registrations = ""
	e := testEngine(p)

	doc := e.UnificationDocument(nil, ModeUnifyDismember)
	want := []Section{
		{Heading: "SITUAÇÃO ATUAL DA MATRÍCULA XXXX", Paragraphs: []string{
			"[[B]]Imóvel:[[/B]] Matrícula XXXX, Município de Porto Alegre/RS, com área total de XXXXm².",
			"[[B]]Descrição do Imóvel:[[/B]] XXXX",
		}},
		{Heading: HeadingUnified, Paragraphs: missingParcel()},
		{Heading: HeadingDismembered, Paragraphs: missingParcel()},
	}
	if diff := cmp.Diff(want, doc.Sections[1:]); diff != "" {
		t.Errorf("UnificationDocument() mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(doc.Sections[0].Paragraphs[0], "objeto referente à matrícula sob XXXX do registro") {
		t.Errorf("opening = %q", doc.Sections[0].Paragraphs[0])
	}
}

func TestGlebes(t *testing.T) {
	files := []ParsedFile{
		{Items: []survey.Item{{Name: "b"}, {Name: "10", Number: 10}, {Name: "a"}}},
		{Civil: true, Items: []survey.Item{{Name: "GLEBA 0"}}},
		{Items: []survey.Item{{Name: "2", Number: 2}}},
	}
	var names []string
	for _, g := range Glebes(files) {
		names = append(names, g.Name)
	}
	want := []string{"GLEBA 2", "GLEBA 10", "a", "b"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("Glebes() mismatch (-want +got):\n%s", diff)
	}
}

func TestVertexTables(t *testing.T) {
	items := []survey.Item{
		{Name: "sem origem", Segments: []survey.Segment{survey.Line{Length: 1}}},
		{Name: "lote 1", Origin: &survey.Point{X: 1000, Y: 2000}, Segments: []survey.Segment{
			survey.Line{Length: 10, Azimuth: survey.NewAzimuth(90, true)},
			survey.Curve{ArcLength: 15.708, Radius: 10, Azimuth: survey.NewAzimuth(180, true)},
		}},
	}

	tables := VertexTables(items, crs.Projected, crs.DefaultZone)
	if len(tables) != 1 || tables[0].Name != "LOTE 1" {
		t.Fatalf("VertexTables() = %+v, want only LOTE 1", tables)
	}

	var got [][]string
	for _, row := range tables[0].Rows {
		got = append(got, VertexCells(row))
	}
	want := [][]string{
		{"P1", "P2", "1.010,00", "2.000,00", "90°00'00\"", "10,00", "", ""},
		{"P2", "P3", "1.010,00", "1.985,86", "180°00'00\"", "15,71", "10,00", ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("VertexCells() mismatch (-want +got):\n%s", diff)
	}

	if h := VertexHeaders(crs.DecimalDegrees); h[2] != "Longitude" || h[3] != "Latitude" {
		t.Errorf("VertexHeaders(dec) = %v", h)
	}
}

func TestBuild(t *testing.T) {
	e := testEngine(testProject())

	doc, err := e.Build(context.Background(), ModeAreas, lotsInputs())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if doc.Placeholders() == 0 {
		t.Error("Placeholders() = 0, want the adjoining XXXX markers")
	}

	if _, err := e.Build(context.Background(), Mode("plan"), nil); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("Build(plan) error = %v, want ErrUnknownMode", err)
	}
}

func TestReadDir(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"QUADRA_B.txt":     "Name: 1\n",
		"CivilReport.HTML": "<table></table>",
		"notes.md":         "ignored",
		"QUADRA_A.txt":     "Name: 2\n",
		"sub/QUADRA_C.txt": "",
	} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	inputs, err := ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	var names []string
	for _, in := range inputs {
		names = append(names, in.Name)
	}
	want := []string{"CivilReport.HTML", "QUADRA_A.txt", "QUADRA_B.txt"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("ReadDir() mismatch (-want +got):\n%s", diff)
	}

	if _, err := ReadDir(filepath.Join(dir, "missing")); err == nil {
		t.Error("ReadDir(missing) should return error")
	}
}
