package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/coolbeans/memorial/pkg/survey"
)

// Unnamed is the name given to a parcel table with an empty caption.
const Unnamed = "SEM NOME"

// ParseHTML reads the HTML civil report. Every table whose first three-column
// cell starts with "Parcel" is one item; the rest of that caption is its name.
// Fields are read from the table's text nodes joined by newlines.
func (p *Parser) ParseHTML(b []byte) ([]survey.Item, error) {
	doc, err := html.Parse(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("parsing html report: %w", err)
	}

	var items []survey.Item
	for _, table := range findAll(doc, "table") {
		head := findFirst(table, func(n *html.Node) bool {
			return n.Type == html.ElementNode && n.Data == "td" && getAttr(n, "colspan") == "3"
		})
		if head == nil {
			continue
		}
		title := strippedText(head)
		if !strings.HasPrefix(strings.ToUpper(title), "PARCEL") {
			continue
		}
		name := strings.TrimSpace(title[len("Parcel"):])
		if name == "" {
			name = Unnamed
		}

		text := joinedText(table, "\n")
		item := survey.Item{Name: name}
		if m := p.htmlOriginPattern.FindStringSubmatch(text); m != nil {
			item.Origin = origin(m[1], m[2])
		}
		if m := p.htmlAreaPattern.FindStringSubmatch(text); m != nil {
			item.Area = parseOrNil(m[1])
		}
		item.Segments = segments(text, p.htmlLinePattern, p.htmlCurvePattern)
		items = append(items, item)
	}
	return items, nil
}

// Number assigns each item the first integer in its name, or its 1-based
// position when the name has none. The input is not modified.
func (p *Parser) Number(items []survey.Item) []survey.Item {
	out := make([]survey.Item, len(items))
	for i, it := range items {
		it.Number = i + 1
		if m := p.firstIntPattern.FindString(it.Name); m != "" {
			if n, err := strconv.Atoi(m); err == nil {
				it.Number = n
			}
		}
		out[i] = it
	}
	return out
}

// findAll returns every element named tag in document order, nested ones
// included.
func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if match(c) {
			return c
		}
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func textNodes(n *html.Node, visit func(string)) {
	if n.Type == html.TextNode {
		visit(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		textNodes(c, visit)
	}
}

// strippedText concatenates the trimmed text nodes under n.
func strippedText(n *html.Node) string {
	var sb strings.Builder
	textNodes(n, func(s string) {
		sb.WriteString(strings.TrimSpace(s))
	})
	return sb.String()
}

// joinedText joins the raw text nodes under n with sep.
func joinedText(n *html.Node, sep string) string {
	var parts []string
	textNodes(n, func(s string) {
		parts = append(parts, s)
	})
	return strings.Join(parts, sep)
}
