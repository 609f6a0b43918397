// Package geometry reconstructs parcel vertices from an origin point and a
// sequence of boundary segments.
package geometry

import (
	"fmt"
	"math"

	"github.com/coolbeans/memorial/pkg/bearing"
	"github.com/coolbeans/memorial/pkg/crs"
	"github.com/coolbeans/memorial/pkg/locale"
	"github.com/coolbeans/memorial/pkg/survey"
)

// VertexRow is one row of a vertex table: the course from one vertex to the
// next, with the destination already formatted.
//
// Coord1 is the easting or longitude and Coord2 the northing or latitude.
type VertexRow struct {
	From        string   `json:"from"`
	To          string   `json:"to"`
	Coord1      string   `json:"coord1"`
	Coord2      string   `json:"coord2"`
	Azimuth     string   `json:"azimuth"`
	Distance    float64  `json:"distance"`
	Radius      *float64 `json:"radius,omitempty"`
	Confronting string   `json:"confronting"`
}

// Chord returns the straight distance between the ends of a circular arc.
// A non-positive radius gives zero.
func Chord(arcLength, radius float64) float64 {
	if radius <= 0 {
		return 0
	}
	theta := arcLength / radius
	return 2 * radius * math.Sin(theta/2)
}

// Displacement returns the (dx, dy) a segment moves the running point.
// Azimuths are clockwise from north, so dx uses the sine. Invalid azimuths
// are treated as north.
func Displacement(s survey.Segment) (dx, dy float64) {
	var dist float64
	switch v := s.(type) {
	case survey.Line:
		dist = v.Length
	case survey.Curve:
		dist = Chord(v.ArcLength, v.Radius)
	}
	var az float64
	if d := s.Direction(); d.Valid {
		az = d.Degrees
	}
	rad := az * math.Pi / 180
	return math.Sin(rad) * dist, math.Cos(rad) * dist
}

// Destinations returns the vertex reached after each segment. It returns nil
// when origin is nil.
func Destinations(origin *survey.Point, segs []survey.Segment) []survey.Point {
	if origin == nil || len(segs) == 0 {
		return nil
	}
	out := make([]survey.Point, 0, len(segs))
	x, y := origin.X, origin.Y
	for _, s := range segs {
		dx, dy := Displacement(s)
		x, y = x+dx, y+dy
		out = append(out, survey.Point{X: x, Y: y})
	}
	return out
}

// Propagate walks the segments from origin and returns one row per segment,
// labeled P1→P2, P2→P3 and so on. The destination is formatted as projected
// meters, or reprojected to geographic coordinates in zone z for the decimal
// and DMS formats. A nil origin or an empty segment list yields no rows.
func Propagate(origin *survey.Point, segs []survey.Segment, f crs.Format, z crs.Zone) []VertexRow {
	dests := Destinations(origin, segs)
	if dests == nil {
		return nil
	}

	rows := make([]VertexRow, 0, len(segs))
	for i, s := range segs {
		c1, c2 := FormatVertex(dests[i], f, z)
		row := VertexRow{
			From:     fmt.Sprintf("P%d", i+1),
			To:       fmt.Sprintf("P%d", i+2),
			Coord1:   c1,
			Coord2:   c2,
			Azimuth:  locale.Placeholder,
			Distance: locale.Round2(s.Measured()),
		}
		if d := s.Direction(); d.Valid {
			row.Azimuth = bearing.ToDMS(d.Degrees)
		}
		if c, ok := s.(survey.Curve); ok && c.Radius != 0 {
			r := locale.Round2(c.Radius)
			row.Radius = &r
		}
		rows = append(rows, row)
	}
	return rows
}

// FormatVertex renders a projected point as (easting, northing) meters or
// as (longitude, latitude) in the requested geographic notation.
func FormatVertex(p survey.Point, f crs.Format, z crs.Zone) (string, string) {
	switch f {
	case crs.DecimalDegrees:
		lat, lon := crs.ToGeographic(p.X, p.Y, z)
		return crs.FormatDecimalCoord(lon), crs.FormatDecimalCoord(lat)
	case crs.DegreesMinutesSeconds:
		lat, lon := crs.ToGeographic(p.X, p.Y, z)
		return crs.FormatDMSCoord(lon), crs.FormatDMSCoord(lat)
	}
	return locale.FormatNumber(p.X, 2), locale.FormatNumber(p.Y, 2)
}

// Perimeter sums the measured lengths of the segments, arc length for curves.
func Perimeter(segs []survey.Segment) float64 {
	var total float64
	for _, s := range segs {
		total += s.Measured()
	}
	return total
}

// Closure returns the distance between the last vertex and the origin. A
// closed boundary has a closure near zero. It returns zero when there is
// nothing to walk.
func Closure(origin *survey.Point, segs []survey.Segment) float64 {
	dests := Destinations(origin, segs)
	if len(dests) == 0 {
		return 0
	}
	last := dests[len(dests)-1]
	return math.Hypot(last.X-origin.X, last.Y-origin.Y)
}
