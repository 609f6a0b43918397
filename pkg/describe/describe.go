// Package describe renders survey items as pt-BR cadastral description text
// with inline markup.
//
// Generated text marks bold spans with [[B]]...[[/B]] and leaves the literal
// placeholder XXXX wherever a human has to fill in a value. Tokenize splits
// such text into styled runs.
package describe

import (
	"fmt"
	"strings"

	"github.com/coolbeans/memorial/pkg/bearing"
	"github.com/coolbeans/memorial/pkg/classify"
	"github.com/coolbeans/memorial/pkg/crs"
	"github.com/coolbeans/memorial/pkg/geometry"
	"github.com/coolbeans/memorial/pkg/locale"
	"github.com/coolbeans/memorial/pkg/survey"
)

// DefaultIdentLabel opens a description that names no item.
const DefaultIdentLabel = "Descrição do Imóvel:"

const opening = "Um terreno urbano, irregular, sem benfeitorias, "

// Development types whose parcels are described without the adjoining-land
// clause. Compared lower-cased.
var enclosedTypes = map[string]bool{
	"condomínio fechado de lotes residenciais": true,
	"condomínio fechado de lotes":              true,
	"loteamento de acesso controlado":          true,
}

// Context carries everything a description needs besides the item itself.
// Blank text fields render as the placeholder.
type Context struct {
	Format crs.Format
	Zone   crs.Zone

	// DevelopmentType names the project kind, e.g. "Loteamento de Acesso
	// Controlado".
	DevelopmentType string
	Address         string
	Neighborhood    string
	City            string

	// StripWidth is the width in meters of the non-buildable strip. Nil
	// omits the strip clause.
	StripWidth *float64

	// IdentPrefix is printed before the bold item name.
	IdentPrefix string
	// IdentLabelOnly replaces the item name in the opening with IdentLabel.
	IdentLabelOnly bool
	IdentLabel     string

	// Condominium enables the private, common and total area sentence of lot
	// descriptions. TotalPrivateArea is the sum of every lot's area and
	// TotalCommonArea the area of the shared parts.
	Condominium      bool
	TotalPrivateArea float64
	TotalCommonArea  float64
}

// Enclosed reports whether the development type is a gated condominium or a
// controlled-access subdivision.
func (c Context) Enclosed() bool {
	return enclosedTypes[strings.ToLower(strings.TrimSpace(c.DevelopmentType))]
}

func (c Context) location() string {
	return fmt.Sprintf("localizado na %s, no bairro %s, na cidade de %s, ",
		locale.OrPlaceholder(c.Address), locale.OrPlaceholder(c.Neighborhood), locale.OrPlaceholder(c.City))
}

func (c Context) identLabel() string {
	if strings.TrimSpace(c.IdentLabel) == "" {
		return DefaultIdentLabel
	}
	return c.IdentLabel
}

// Item describes a named area such as a green area or a road segment. It
// never fails: missing data degrades to placeholders.
func Item(item survey.Item, ctx Context) string {
	name := classify.Normalize(item.Name)
	if name == "" {
		name = locale.Placeholder
	}

	var sb strings.Builder
	switch {
	case ctx.IdentLabelOnly:
		sb.WriteString(fmt.Sprintf("[[B]]%s[[/B]] ", ctx.identLabel()))
	case ctx.IdentPrefix != "":
		sb.WriteString(fmt.Sprintf("%s [[B]]%s[[/B]]: ", ctx.IdentPrefix, name))
	default:
		sb.WriteString(fmt.Sprintf("[[B]]%s[[/B]]: ", name))
	}
	sb.WriteString(opening)
	if !ctx.Enclosed() {
		sb.WriteString("situado entre terras que são ou foram de XXXX, ")
	}
	sb.WriteString(ctx.location())
	sb.WriteString(fmt.Sprintf("constituído como [[B]]%s[[/B]], ", name))

	writeBody(&sb, item, ctx)
	return sb.String()
}

// Lot describes a numbered lot of a block. When the context is a condominium
// with a known total private area, the text ends with the lot's private,
// common and total areas and its ideal fraction.
func Lot(item survey.Item, block string, ctx Context) string {
	if strings.TrimSpace(block) == "" {
		block = locale.Placeholder
	}
	num := locale.Placeholder
	if item.Number > 0 {
		num = fmt.Sprintf("%d", item.Number)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("LOTE %s – %s: ", num, block))
	sb.WriteString(opening)
	if !ctx.Enclosed() {
		sb.WriteString("situado entre terras que são ou foram de XXXX, ")
	}
	sb.WriteString(ctx.location())
	sb.WriteString(fmt.Sprintf("constituído como LOTE %s da %s, ", num, block))

	writeBody(&sb, item, ctx)

	if f, ok := Fraction(item.AreaOr(0), ctx); ok {
		sb.WriteString(f.sentence())
	}
	return sb.String()
}

// writeBody appends the origin clause, the segment clauses, the closing and
// the optional strip clause.
func writeBody(sb *strings.Builder, item survey.Item, ctx Context) {
	if item.Origin != nil {
		sb.WriteString(fmt.Sprintf("inicia-se a descrição no %s; ", originPoint(*item.Origin, ctx)))
	}

	rows := geometry.Propagate(item.Origin, item.Segments, ctx.Format, ctx.Zone)
	var body strings.Builder
	for i, seg := range item.Segments {
		dest := ""
		if i < len(rows) {
			dest = destination(rows[i], ctx.Format)
		}
		body.WriteString(segmentClause(seg, dest))
	}
	text := body.String()
	if strings.HasSuffix(text, "; ") {
		text = strings.TrimSuffix(text, "; ") + ", "
	}
	sb.WriteString(text)

	sb.WriteString("chegando ao final da descrição do perímetro.")
	sb.WriteString(" Dista XXXXm da esquina da Rua XXXX.")

	if ctx.StripWidth != nil {
		sb.WriteString(StripClause(*ctx.StripWidth))
	}
}

func originPoint(p survey.Point, ctx Context) string {
	x, y := locale.Round2(p.X), locale.Round2(p.Y)
	if !ctx.Format.Geographic() {
		return fmt.Sprintf("ponto de coordenadas Y= %s e X= %s", locale.FormatMeters(y), locale.FormatMeters(x))
	}
	lat, lon := crs.ToGeographic(x, y, ctx.Zone)
	return "ponto de coordenadas geográficas " + crs.FormatGeographic(lat, lon, ctx.Format)
}

func destination(row geometry.VertexRow, f crs.Format) string {
	if !f.Geographic() {
		return fmt.Sprintf(" até o ponto de coordenadas Y= %sm e X= %sm", row.Coord2, row.Coord1)
	}
	return fmt.Sprintf(" até o ponto de coordenadas %s / %s", row.Coord2, row.Coord1)
}

func segmentClause(seg survey.Segment, dest string) string {
	az := seg.Direction()
	card := bearing.Cardinal8Or(az.Degrees, az.Valid)
	dms := locale.Placeholder
	if az.Valid {
		dms = bearing.ToDMS(az.Degrees)
	}

	switch s := seg.(type) {
	case survey.Curve:
		arc, r := locale.Round2(s.ArcLength), locale.Round2(s.Radius)
		return fmt.Sprintf("daí segue, por curva, sentido %s, medindo %s (%s) e raio de %s (%s), "+
			"confrontando ao XXXX com XXXX%s, seguindo por um azimute de %s; ",
			card, locale.FormatMeters(arc), locale.MetersToWords(arc),
			locale.FormatMeters(r), locale.MetersToWords(r), dest, dms)
	default:
		length := locale.Round2(seg.Measured())
		return fmt.Sprintf("daí segue, por reta, sentido %s, medindo %s (%s), "+
			"confrontando ao XXXX com XXXX%s, seguindo por um azimute de %s; ",
			card, locale.FormatMeters(length), locale.MetersToWords(length), dest, dms)
	}
}

// StripClause is the sentence declaring a non-buildable strip. The zero
// width space keeps the width out of the bold length pattern.
func StripClause(width float64) string {
	return fmt.Sprintf(" Existe uma faixa não edificante com largura de %s\u200Bm (%s), "+
		"conforme definido no projeto urbanístico e nas restrições de uso do terreno.",
		locale.FormatNumber(width, 2), locale.MetersToWords(width))
}

// LotFraction is a condominium lot's share of the common area.
type LotFraction struct {
	Private  float64 `json:"private"`
	Common   float64 `json:"common"`
	Total    float64 `json:"total"`
	Fraction float64 `json:"fraction"`
}

// Fraction computes the ideal fraction of a lot with the given private area.
// It reports false outside a condominium, for an empty lot, or when the total
// private area is unknown.
func Fraction(area float64, ctx Context) (LotFraction, bool) {
	if !ctx.Condominium || area <= 0 || ctx.TotalPrivateArea <= 0 {
		return LotFraction{}, false
	}
	fr := area / ctx.TotalPrivateArea
	common := fr * ctx.TotalCommonArea
	return LotFraction{
		Private:  area,
		Common:   common,
		Total:    area + common,
		Fraction: fr,
	}, true
}

func (f LotFraction) sentence() string {
	const m2 = "\u200Bm²"
	return fmt.Sprintf(" Possui área real privativa de %s%s, área de uso comum de %s%s, "+
		"área real total de %s%s, correspondendo-lhe a fração ideal de %.7f.",
		locale.FormatNumber(f.Private, 2), m2,
		locale.FormatNumber(f.Common, 2), m2,
		locale.FormatNumber(f.Total, 2), m2,
		f.Fraction)
}
