// Package survey defines the canonical parcel geometry shared by the report
// parsers, the vertex reconstructor and the description generator.
package survey

import (
	"encoding/json"
	"fmt"
)

// Point is a projected coordinate. X is the easting, Y the northing.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Azimuth is a direction in degrees clockwise from north. A zero Azimuth is
// invalid and renders as a placeholder.
type Azimuth struct {
	Degrees float64
	Valid   bool
}

// NewAzimuth wraps a value already normalized to [0,360).
func NewAzimuth(deg float64, ok bool) Azimuth {
	return Azimuth{Degrees: deg, Valid: ok}
}

// MarshalJSON writes the degrees, or null for an invalid azimuth.
func (a Azimuth) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(a.Degrees)
}

// UnmarshalJSON accepts a number or null.
func (a *Azimuth) UnmarshalJSON(b []byte) error {
	var v *float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if v == nil {
		*a = Azimuth{}
		return nil
	}
	*a = Azimuth{Degrees: *v, Valid: true}
	return nil
}

// Segment is one boundary course: a Line or a Curve.
type Segment interface {
	// Direction returns the course azimuth.
	Direction() Azimuth
	// Measured returns the length written in the description: the straight
	// length of a line or the arc length of a curve.
	Measured() float64
	segment()
}

// Line is a straight course.
type Line struct {
	Length  float64 `json:"length"`
	Azimuth Azimuth `json:"azimuth"`
}

func (l Line) Direction() Azimuth { return l.Azimuth }
func (l Line) Measured() float64  { return l.Length }
func (Line) segment()             {}

// Curve is a circular arc. Azimuth is the chord direction.
type Curve struct {
	ArcLength float64 `json:"arc_length"`
	Radius    float64 `json:"radius"`
	Azimuth   Azimuth `json:"azimuth"`
}

func (c Curve) Direction() Azimuth { return c.Azimuth }
func (c Curve) Measured() float64  { return c.ArcLength }
func (Curve) segment()             {}

// Item is a named parcel, lot, block or area read from a survey report.
type Item struct {
	Name     string
	Number   int
	Origin   *Point
	Segments []Segment
	Area     *float64
}

type segmentJSON struct {
	Type      string   `json:"type"`
	Length    float64  `json:"length,omitempty"`
	ArcLength float64  `json:"arc_length,omitempty"`
	Radius    float64  `json:"radius,omitempty"`
	Azimuth   *float64 `json:"azimuth"`
}

type itemJSON struct {
	Name     string        `json:"name"`
	Number   int           `json:"number,omitempty"`
	Origin   *Point        `json:"origin"`
	Area     *float64      `json:"area"`
	Segments []segmentJSON `json:"segments"`
}

// MarshalJSON tags each segment with its kind.
func (it Item) MarshalJSON() ([]byte, error) {
	out := itemJSON{
		Name:     it.Name,
		Number:   it.Number,
		Origin:   it.Origin,
		Area:     it.Area,
		Segments: make([]segmentJSON, 0, len(it.Segments)),
	}
	for _, s := range it.Segments {
		var sj segmentJSON
		switch v := s.(type) {
		case Line:
			sj = segmentJSON{Type: "line", Length: v.Length}
		case Curve:
			sj = segmentJSON{Type: "curve", ArcLength: v.ArcLength, Radius: v.Radius}
		}
		if az := s.Direction(); az.Valid {
			d := az.Degrees
			sj.Azimuth = &d
		}
		out.Segments = append(out.Segments, sj)
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the form written by MarshalJSON.
func (it *Item) UnmarshalJSON(b []byte) error {
	var in itemJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*it = Item{Name: in.Name, Number: in.Number, Origin: in.Origin, Area: in.Area}
	for i, sj := range in.Segments {
		var az Azimuth
		if sj.Azimuth != nil {
			az = Azimuth{Degrees: *sj.Azimuth, Valid: true}
		}
		switch sj.Type {
		case "line":
			it.Segments = append(it.Segments, Line{Length: sj.Length, Azimuth: az})
		case "curve":
			it.Segments = append(it.Segments, Curve{ArcLength: sj.ArcLength, Radius: sj.Radius, Azimuth: az})
		default:
			return fmt.Errorf("segment %d: unknown type %q", i, sj.Type)
		}
	}
	return nil
}

// AreaOr returns the area, or def when the report had none.
func (it Item) AreaOr(def float64) float64 {
	if it.Area == nil {
		return def
	}
	return *it.Area
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }
