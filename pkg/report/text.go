package report

import (
	"strconv"
	"strings"

	"github.com/coolbeans/memorial/pkg/survey"
)

// ParseText reads the text dialect. Each "Name: <n>" line opens a block that
// runs to the next one; the block supplies the point of beginning, the area
// and the boundary segments in document order.
//
// Missing fields never fail the parse: the item keeps a nil origin or area
// and segments with unreadable bearings carry an invalid azimuth.
func (p *Parser) ParseText(b []byte) []survey.Item {
	text := strings.ReplaceAll(strings.ToValidUTF8(string(b), ""), "\r", "")

	heads := p.blockPattern.FindAllStringSubmatchIndex(text, -1)
	items := make([]survey.Item, 0, len(heads))
	for i, h := range heads {
		end := len(text)
		if i+1 < len(heads) {
			end = heads[i+1][0]
		}
		block := text[h[1]:end]
		num, _ := strconv.Atoi(text[h[2]:h[3]])

		item := survey.Item{Name: strconv.Itoa(num), Number: num}
		if m := p.originPattern.FindStringSubmatch(block); m != nil {
			item.Origin = origin(m[1], m[2])
		}
		if m := p.areaPattern.FindStringSubmatch(block); m != nil {
			item.Area = parseOrNil(m[1])
		}
		item.Segments = segments(block, p.linePattern, p.curvePattern)
		items = append(items, item)
	}
	return items
}
