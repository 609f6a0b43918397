package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/coolbeans/memorial/pkg/describe"
	"github.com/coolbeans/memorial/pkg/memorial"
)

// Palette
var (
	Primary = lipgloss.Color("#101F38") // Dark Blue
	Accent  = lipgloss.Color("#8BC34A") // Lime Green
	Warning = lipgloss.Color("#FFC107") // Yellow
)

// Styles colors a document for the terminal.
type Styles struct {
	Title       lipgloss.Style
	Heading     lipgloss.Style
	Bold        lipgloss.Style
	Placeholder lipgloss.Style
}

// DefaultStyles returns the terminal styles.
func DefaultStyles() Styles {
	return Styles{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(Accent),
		Heading:     lipgloss.NewStyle().Bold(true).Underline(true),
		Bold:        lipgloss.NewStyle().Bold(true),
		Placeholder: lipgloss.NewStyle().Bold(true).Foreground(Primary).Background(Warning),
	}
}

// RenderStyled renders a document like memorial.RenderText with bold runs
// and placeholders styled.
func RenderStyled(doc *memorial.Document, s Styles) string {
	if doc == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(s.Title.Render(doc.Title) + "\n\n")
	for _, sec := range doc.Sections {
		if sec.Heading != "" {
			sb.WriteString(s.Heading.Render(sec.Heading) + "\n\n")
		}
		for _, p := range sec.Paragraphs {
			sb.WriteString(styleParagraph(p, s) + "\n\n")
		}
	}

	if len(doc.Fractions) > 0 {
		sb.WriteString(memorial.NewFractionTable(doc.Fractions).FormatTable())
	}
	return strings.TrimRight(sb.String(), "\n") + "\n"
}

func styleParagraph(p string, s Styles) string {
	var sb strings.Builder
	for _, tok := range describe.Tokenize(p) {
		switch {
		case tok.Highlight:
			sb.WriteString(s.Placeholder.Render(tok.Text))
		case tok.Bold:
			sb.WriteString(s.Bold.Render(tok.Text))
		default:
			sb.WriteString(tok.Text)
		}
	}
	return sb.String()
}
