package memorial

import (
	"fmt"
	"strings"

	"github.com/coolbeans/memorial/pkg/describe"
)

// PlainText strips markup from a paragraph.
func PlainText(paragraph string) string {
	var sb strings.Builder
	for _, tok := range describe.Tokenize(paragraph) {
		sb.WriteString(tok.Text)
	}
	return sb.String()
}

// RenderText renders a document as plain text: headings on their own lines
// and paragraphs separated by blank lines.
func RenderText(doc *Document) string {
	if doc == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(doc.Title + "\n\n")
	for _, sec := range doc.Sections {
		if sec.Heading != "" {
			sb.WriteString(sec.Heading + "\n\n")
		}
		for _, p := range sec.Paragraphs {
			sb.WriteString(PlainText(p) + "\n\n")
		}
	}

	if len(doc.Fractions) > 0 {
		sb.WriteString(strings.Join(FractionHeaders, "\t") + "\n")
		for _, row := range doc.Fractions {
			sb.WriteString(strings.Join(row.Cells(), "\t") + "\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// MarkdownParagraph renders one paragraph with bold runs as **text** and
// placeholders wrapped in <mark>.
func MarkdownParagraph(paragraph string) string {
	var sb strings.Builder
	for _, tok := range describe.Tokenize(paragraph) {
		switch {
		case tok.Highlight:
			sb.WriteString("<mark>" + tok.Text + "</mark>")
		case tok.Bold:
			// Emphasis markers must hug non-space text.
			trimmed := strings.TrimSpace(tok.Text)
			if trimmed == "" {
				sb.WriteString(tok.Text)
				continue
			}
			lead := tok.Text[:strings.Index(tok.Text, trimmed)]
			trail := tok.Text[len(lead)+len(trimmed):]
			sb.WriteString(lead + "**" + trimmed + "**" + trail)
		default:
			sb.WriteString(tok.Text)
		}
	}
	return sb.String()
}

// RenderMarkdown renders a document as GitHub-flavored Markdown.
func RenderMarkdown(doc *Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("document is nil")
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", doc.Title))
	for _, sec := range doc.Sections {
		if sec.Heading != "" {
			sb.WriteString(fmt.Sprintf("## %s\n\n", sec.Heading))
		}
		for _, p := range sec.Paragraphs {
			sb.WriteString(MarkdownParagraph(p) + "\n\n")
		}
	}

	if len(doc.Fractions) > 0 {
		sb.WriteString("| " + strings.Join(FractionHeaders, " | ") + " |\n")
		sb.WriteString(strings.Repeat("|---", len(FractionHeaders)) + "|\n")
		for _, row := range doc.Fractions {
			sb.WriteString("| " + strings.Join(row.Cells(), " | ") + " |\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("---\n\n*Documento %s*\n", doc.ID))
	return sb.String(), nil
}
