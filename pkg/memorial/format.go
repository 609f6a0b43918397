package memorial

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/coolbeans/memorial/pkg/crs"
)

// OutputFormat selects how a table is written.
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatCSV   OutputFormat = "csv"
)

// Table is a header row and string cells, the shape shared by vertex
// listings and the ideal fraction table.
type Table struct {
	Title   string     `json:"title,omitempty"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// NewVertexTable lays out a vertex listing.
func NewVertexTable(vt VertexTable, f crs.Format) Table {
	t := Table{Title: vt.Name, Headers: VertexHeaders(f)}
	for _, r := range vt.Rows {
		t.Rows = append(t.Rows, VertexCells(r))
	}
	return t
}

// NewFractionTable lays out the ideal fraction table.
func NewFractionTable(rows []FractionRow) Table {
	t := Table{Headers: FractionHeaders}
	for _, r := range rows {
		t.Rows = append(t.Rows, r.Cells())
	}
	return t
}

// Format writes the table in the given format.
func (t Table) Format(format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return t.FormatJSON()
	case FormatCSV:
		return t.FormatCSV()
	case FormatTable:
		return t.FormatTable(), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// FormatTable formats the table as ASCII with columns padded to their
// display width.
func (t Table) FormatTable() string {
	if len(t.Headers) == 0 || len(t.Rows) == 0 {
		return fmt.Sprintf("No rows (%d)\n", len(t.Rows))
	}

	var sb strings.Builder
	if t.Title != "" {
		sb.WriteString(t.Title + "\n")
	}

	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i := range widths {
			if i < len(row) && lipgloss.Width(row[i]) > widths[i] {
				widths[i] = lipgloss.Width(row[i])
			}
		}
	}

	var sep strings.Builder
	sep.WriteString("+")
	for _, w := range widths {
		sep.WriteString(strings.Repeat("-", w+2))
		sep.WriteString("+")
	}
	sep.WriteString("\n")

	writeRow := func(cells []string) {
		sb.WriteString("|")
		for i, w := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			sb.WriteString(" " + cell + strings.Repeat(" ", w-lipgloss.Width(cell)) + " |")
		}
		sb.WriteString("\n")
	}

	sb.WriteString(sep.String())
	writeRow(t.Headers)
	sb.WriteString(sep.String())
	for _, row := range t.Rows {
		writeRow(row)
	}
	sb.WriteString(sep.String())
	return sb.String()
}

// FormatJSON formats the table as indented JSON.
func (t Table) FormatJSON() (string, error) {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FormatCSV formats the header and rows as CSV. The title is dropped.
func (t Table) FormatCSV() (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	if err := writer.Write(t.Headers); err != nil {
		return "", err
	}
	for _, row := range t.Rows {
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}
