package memorial

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/coolbeans/memorial/pkg/classify"
	"github.com/coolbeans/memorial/pkg/crs"
	"github.com/coolbeans/memorial/pkg/describe"
	"github.com/coolbeans/memorial/pkg/geometry"
	"github.com/coolbeans/memorial/pkg/locale"
	"github.com/coolbeans/memorial/pkg/survey"
)

// FractionHeaders are the column titles of the ideal fraction table.
var FractionHeaders = []string{
	"Lote", "Quadra", "Área Priv. (m²)", "Área Uso Comum (m²)", "Área Real Total (m²)", "Fração Ideal",
}

// FractionRow is one lot of the ideal fraction table.
type FractionRow struct {
	Lot   int    `json:"lot"`
	Block string `json:"block"`
	describe.LotFraction
}

// Cells renders the row in pt-BR notation. The block loses its "QUADRA "
// prefix and the fraction keeps seven decimals.
func (r FractionRow) Cells() []string {
	return []string{
		strconv.Itoa(r.Lot),
		strings.TrimSpace(strings.TrimPrefix(r.Block, "QUADRA ")),
		locale.FormatNumber(r.Private, 2),
		locale.FormatNumber(r.Common, 2),
		locale.FormatNumber(r.Total, 2),
		fmt.Sprintf("%.7f", r.Fraction),
	}
}

// IdealFractions lists every lot with a known area, ordered by block and lot
// number. It is empty unless ctx is a condominium with a private area total.
func IdealFractions(blocks []Block, ctx describe.Context) []FractionRow {
	var rows []FractionRow
	for _, b := range blocks {
		for _, lot := range b.Lots {
			if lot.Area == nil {
				continue
			}
			f, ok := describe.Fraction(*lot.Area, ctx)
			if !ok {
				continue
			}
			rows = append(rows, FractionRow{Lot: lot.Number, Block: b.Label, LotFraction: f})
		}
	}
	slices.SortStableFunc(rows, func(a, b FractionRow) int {
		if c := classify.CompareBlocks(a.Block, b.Block); c != 0 {
			return c
		}
		return cmp.Compare(a.Lot, b.Lot)
	})
	return rows
}

// VertexTable is the vertex listing of one item.
type VertexTable struct {
	Name string               `json:"name"`
	Rows []geometry.VertexRow `json:"rows"`
}

// VertexHeaders returns the column titles of a vertex table. Geographic
// formats list longitude before latitude, matching VertexRow.
func VertexHeaders(f crs.Format) []string {
	c1, c2 := "E (m)", "N (m)"
	if f.Geographic() {
		c1, c2 = "Longitude", "Latitude"
	}
	return []string{"De", "Para", c1, c2, "Azimute", "Distância (m)", "Raio (m)", "Confrontante"}
}

// VertexCells renders a row under VertexHeaders.
func VertexCells(r geometry.VertexRow) []string {
	radius := ""
	if r.Radius != nil {
		radius = locale.FormatNumber(*r.Radius, 2)
	}
	return []string{
		r.From, r.To, r.Coord1, r.Coord2, r.Azimuth,
		locale.FormatNumber(r.Distance, 2), radius, r.Confronting,
	}
}

// VertexTables propagates the vertices of every item that has an origin.
// Items without one cannot be located and are skipped.
func VertexTables(items []survey.Item, f crs.Format, z crs.Zone) []VertexTable {
	var tables []VertexTable
	for _, it := range items {
		if it.Origin == nil {
			continue
		}
		name := classify.Normalize(it.Name)
		if name == "" {
			name = locale.Placeholder
		}
		tables = append(tables, VertexTable{
			Name: name,
			Rows: geometry.Propagate(it.Origin, it.Segments, f, z),
		})
	}
	return tables
}
