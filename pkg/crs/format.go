package crs

import (
	"fmt"
	"math"
	"strings"
)

// Format selects how coordinates are written in descriptions and tables.
type Format int

const (
	// Projected writes UTM easting and northing in meters.
	Projected Format = iota
	// DecimalDegrees writes latitude and longitude as signed decimals.
	DecimalDegrees
	// DegreesMinutesSeconds writes latitude and longitude as D°MM'SS,sss".
	DegreesMinutesSeconds
)

var formatNames = map[Format]string{
	Projected:             "utm",
	DecimalDegrees:        "dec",
	DegreesMinutesSeconds: "dms",
}

func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Geographic reports whether the format requires reprojection to latitude
// and longitude.
func (f Format) Geographic() bool {
	return f == DecimalDegrees || f == DegreesMinutesSeconds
}

// ParseFormat reads "utm", "dec" or "dms". Anything else is Projected and
// false.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "utm", "":
		return Projected, true
	case "dec", "decimal":
		return DecimalDegrees, true
	case "dms":
		return DegreesMinutesSeconds, true
	}
	return Projected, false
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(b []byte) error {
	v, ok := ParseFormat(string(b))
	if !ok {
		return fmt.Errorf("unknown coordinate format %q", string(b))
	}
	*f = v
	return nil
}

// FormatGeographic renders a point for the opening of a description:
// "Lat. -29.123456°, Long. -51.123456°" in decimal form, or sign-aware
// D°MM'SS,sss" per axis. Projected falls back to the decimal form.
func FormatGeographic(lat, lon float64, f Format) string {
	if f == DegreesMinutesSeconds {
		return fmt.Sprintf("Lat. %s, Long. %s", dmsToken(lat, "%06.3f"), dmsToken(lon, "%06.3f"))
	}
	return fmt.Sprintf("Lat. %.6f°, Long. %.6f°", lat, lon)
}

// FormatDecimalCoord renders one axis for a vertex table: "-29,123456°".
func FormatDecimalCoord(v float64) string {
	return strings.Replace(fmt.Sprintf("%.6f", v), ".", ",", 1) + "°"
}

// FormatDMSCoord renders one axis for a vertex table: -29°07'24,444".
func FormatDMSCoord(v float64) string {
	return dmsToken(v, "%.3f")
}

// dmsToken places the sign in front of the whole token so values between
// -1° and 0° keep it.
func dmsToken(v float64, secondsVerb string) string {
	sign := ""
	if v < 0 {
		sign = "-"
	}
	a := math.Abs(v)
	d := int(a)
	m := int((a - float64(d)) * 60)
	s := (a - float64(d) - float64(m)/60) * 3600

	if math.Round(s*1000) >= 60000 {
		s = 0
		m++
	}
	if m >= 60 {
		m -= 60
		d++
	}
	secs := strings.Replace(fmt.Sprintf(secondsVerb, s), ".", ",", 1)
	return fmt.Sprintf("%s%d°%02d'%s\"", sign, d, m, secs)
}
