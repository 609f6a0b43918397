package memorial

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/coolbeans/memorial/pkg/classify"
	"github.com/coolbeans/memorial/pkg/config"
	"github.com/coolbeans/memorial/pkg/crs"
	"github.com/coolbeans/memorial/pkg/describe"
	"github.com/coolbeans/memorial/pkg/locale"
	"github.com/coolbeans/memorial/pkg/report"
	"github.com/coolbeans/memorial/pkg/survey"
)

// Document headings.
const (
	TitleMemorial      = "MEMORIAL DESCRITIVO"
	HeadingBlocks      = "DESCRIÇÃO DE QUADRAS"
	HeadingLots        = "DESCRIÇÃO DE LOTES"
	HeadingUnified     = "UNIFICAÇÃO"
	HeadingDismembered = "DESMEMBRAMENTO"
)

// Document is an outline of headed sections whose paragraphs carry the
// [[B]] markup of package describe.
type Document struct {
	ID       uuid.UUID `json:"id"`
	Mode     Mode      `json:"mode"`
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
	// Fractions is the ideal fraction table of a condominium.
	Fractions []FractionRow `json:"fractions,omitempty"`
}

// Section is a heading and its paragraphs. The opening section has no
// heading.
type Section struct {
	Heading    string   `json:"heading,omitempty"`
	Paragraphs []string `json:"paragraphs"`
}

// Placeholders counts the XXXX markers left for a human to fill.
func (d *Document) Placeholders() int {
	n := strings.Count(d.Title, locale.Placeholder)
	for _, s := range d.Sections {
		n += strings.Count(s.Heading, locale.Placeholder)
		for _, p := range s.Paragraphs {
			n += strings.Count(p, locale.Placeholder)
		}
	}
	return n
}

func (e *Engine) newDocument(mode Mode, title string) *Document {
	return &Document{ID: e.newID(), Mode: mode, Title: title}
}

func (d *Document) add(heading string, paragraphs ...string) {
	if len(paragraphs) == 0 {
		paragraphs = []string{locale.Placeholder}
	}
	d.Sections = append(d.Sections, Section{Heading: heading, Paragraphs: paragraphs})
}

// Block is a lot report's block label with its lots ordered by number.
type Block struct {
	Label string        `json:"label"`
	Lots  []survey.Item `json:"lots"`
}

// Blocks collects the lot reports among files, one Block per file, sorted
// by block label. Lots without a number sort last.
func Blocks(files []ParsedFile) []Block {
	var blocks []Block
	for _, f := range files {
		if f.Civil {
			continue
		}
		lots := slices.Clone(f.Items)
		slices.SortStableFunc(lots, func(a, b survey.Item) int {
			return cmp.Compare(lotKey(a), lotKey(b))
		})
		label := f.Block
		if label == "" {
			label = report.UnknownBlock
		}
		blocks = append(blocks, Block{Label: label, Lots: lots})
	}
	slices.SortStableFunc(blocks, func(a, b Block) int {
		return classify.CompareBlocks(a.Label, b.Label)
	})
	return blocks
}

func lotKey(it survey.Item) int {
	if it.Number <= 0 {
		return math.MaxInt
	}
	return it.Number
}

// civilItems returns the items of every civil report in file order.
func civilItems(files []ParsedFile) []survey.Item {
	var items []survey.Item
	for _, f := range files {
		if f.Civil {
			items = append(items, f.Items...)
		}
	}
	return items
}

// privateArea sums the areas of every lot.
func privateArea(blocks []Block) float64 {
	var total float64
	for _, b := range blocks {
		for _, lot := range b.Lots {
			total += lot.AreaOr(0)
		}
	}
	return total
}

// lotsContext is the project context for lot text. A condominium without a
// configured private area uses the sum of its lots.
func (e *Engine) lotsContext(blocks []Block) describe.Context {
	ctx := e.project.Context()
	if ctx.Condominium && ctx.TotalPrivateArea <= 0 {
		ctx.TotalPrivateArea = privateArea(blocks)
	}
	return ctx
}

// LotsDocument describes a condominium or a subdivision. Civil report items
// fill the area sections; lot reports fill the lot section grouped by block.
// The non-buildable strip clause only applies to lots.
func (e *Engine) LotsDocument(files []ParsedFile) *Document {
	doc := e.newDocument(ModeLots, TitleMemorial)
	blocks := Blocks(files)
	lotCtx := e.lotsContext(blocks)
	areaCtx := lotCtx
	areaCtx.StripWidth = nil

	doc.add("", e.lotsOpening(), coordinatesParagraph(lotCtx, true))

	var blockItems []survey.Item
	for _, sec := range e.classifier.Group(civilItems(files)) {
		if sec.Category == classify.Quadras {
			blockItems = append(blockItems, sec.Items...)
			continue
		}
		doc.add(sec.Title, describeItems(sec.Items, areaCtx)...)
	}
	doc.add(HeadingBlocks, describeItems(blockItems, areaCtx)...)

	var lots []string
	for _, b := range blocks {
		for _, lot := range b.Lots {
			lots = append(lots, describe.Lot(lot, b.Label, lotCtx))
		}
	}
	doc.add(HeadingLots, lots...)

	if lotCtx.Condominium {
		doc.Fractions = IdealFractions(blocks, lotCtx)
	}
	return doc
}

// AreasDocument describes only the named areas of civil reports, one section
// per classification title.
func (e *Engine) AreasDocument(files []ParsedFile) *Document {
	doc := e.newDocument(ModeAreas, TitleMemorial)
	ctx := e.project.Context()
	ctx.StripWidth = nil
	for _, sec := range e.classifier.Group(civilItems(files)) {
		doc.add(sec.Title, describeItems(sec.Items, ctx)...)
	}
	if len(doc.Sections) == 0 {
		doc.add(classify.OtherTitle)
	}
	return doc
}

func describeItems(items []survey.Item, ctx describe.Context) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, describe.Item(it, ctx))
	}
	return out
}

func (e *Engine) lotsOpening() string {
	p := e.project

	name := `"[[/B]]XXXX[[B]]"`
	if n := locale.TitleCaseName(p.Name); n != "" {
		name = `"` + n + `"`
	}

	var sb strings.Builder
	sb.WriteString("O presente memorial tem por finalidade descrever o parcelamento de solo de acordo com o projeto denominado ")
	sb.WriteString(fmt.Sprintf("[[B]]%s %s[[/B]] ", lotsDevelopmentType(p), name))
	sb.WriteString(fmt.Sprintf("em uma gleba de terras situada frente à %s, bairro %s no município de %s, ",
		locale.OrPlaceholder(locale.TitleKeepPreps(p.Address)),
		locale.OrPlaceholder(locale.FormatNeighborhood(p.Neighborhood)),
		locale.OrPlaceholder(locale.FormatCityUF(p.City))))

	area, areaWords := areaPhrase(p.Area)
	hectares := locale.Placeholder
	if p.Area > 0 {
		hectares = locale.FormatNumber(locale.Hectares(p.Area), 2)
	}
	perimeter, perimeterWords := lengthPhrase(p.Perimeter)
	sb.WriteString(fmt.Sprintf("com área superficial de %sm² (%s) - %sha e perímetro de %sm (%s), ",
		area, areaWords, hectares, perimeter, perimeterWords))

	sb.WriteString(registrationsObject(p.Registrations))
	sb.WriteString(" do registro geral de imóveis desta cidade.")
	return sb.String()
}

func lotsDevelopmentType(p config.Project) string {
	switch {
	case strings.TrimSpace(p.DevelopmentType) != "":
		return strings.TrimSpace(p.DevelopmentType)
	case p.Condominium:
		return config.TypeCondominium
	}
	return config.TypeControlledAccess
}

// registrationsObject renders "objeto referente à matrícula nº 1.234" or the
// plural form with the raw list.
func registrationsObject(raw string) string {
	raw = strings.TrimSpace(raw)
	switch parts := locale.SplitRegistrations(raw); {
	case len(parts) == 0:
		return "objeto referente à matrícula nº XXXX"
	case len(parts) > 1:
		return "objeto referente às matrículas nºs " + raw
	}
	return "objeto referente à matrícula nº " + raw
}

func areaPhrase(v float64) (string, string) {
	if v <= 0 {
		return locale.Placeholder, locale.Placeholder
	}
	return locale.FormatNumber(v, 2), locale.AreaToWords(v)
}

func lengthPhrase(v float64) (string, string) {
	if v <= 0 {
		return locale.Placeholder, locale.Placeholder
	}
	return locale.FormatNumber(v, 2), locale.MetersToWords(v)
}

// coordinatesParagraph states the reference system of the coordinates. The
// lots document opens it with a lead-in sentence.
func coordinatesParagraph(ctx describe.Context, leadIn bool) string {
	var sb strings.Builder
	if leadIn {
		sb.WriteString("Segue abaixo a descrição completa deste empreendimento. ")
	}
	switch ctx.Format {
	case crs.DecimalDegrees:
		sb.WriteString("Coordenadas georreferenciadas ao Sistema Geodésico Brasileiro, referidas ao Datum SIRGAS 2000, " +
			"expressas em coordenadas geográficas (latitude e longitude) em graus decimais.")
	case crs.DegreesMinutesSeconds:
		sb.WriteString("Coordenadas georreferenciadas ao Sistema Geodésico Brasileiro, referidas ao Datum SIRGAS 2000, " +
			"expressas em coordenadas geográficas (latitude e longitude) em graus, minutos e segundos.")
	default:
		mc := int(math.Abs(crs.CentralMeridian(ctx.Zone)))
		sb.WriteString(fmt.Sprintf("Coordenadas georreferenciadas no Sistema Geodésico Brasileiro, Datum - SIRGAS 2000, "+
			"MC %dW, coordenadas Plano Retangulares, sistema UTM.", mc))
	}
	return sb.String()
}
