// Package crs resolves SIRGAS 2000 / UTM projection zones from Brazilian
// state codes and converts between projected and geographic coordinates.
package crs

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Zone identifies a UTM zone and hemisphere.
type Zone struct {
	Number     int  `json:"number" yaml:"number"`
	Hemisphere byte `json:"hemisphere" yaml:"hemisphere"`
}

// DefaultZone is used whenever a region code cannot be resolved.
var DefaultZone = Zone{Number: 22, Hemisphere: 'S'}

// String renders the zone as "22S".
func (z Zone) String() string {
	return fmt.Sprintf("%d%c", z.Number, z.hemisphere())
}

// South reports whether the zone uses the southern false northing.
func (z Zone) South() bool {
	return z.hemisphere() == 'S'
}

func (z Zone) hemisphere() byte {
	if z.Hemisphere == 'N' || z.Hemisphere == 'n' {
		return 'N'
	}
	return 'S'
}

// Zone per federal unit. RR and AP lie north of the equator.
var regionZones = map[string]Zone{
	"RS": {22, 'S'}, "SC": {22, 'S'}, "PR": {22, 'S'},
	"SP": {23, 'S'}, "RJ": {23, 'S'}, "MG": {23, 'S'}, "DF": {23, 'S'},
	"MS": {21, 'S'}, "ES": {24, 'S'}, "BA": {23, 'S'}, "GO": {22, 'S'},
	"MT": {21, 'S'}, "TO": {22, 'S'}, "MA": {23, 'S'}, "PA": {22, 'S'},
	"RO": {20, 'S'}, "AC": {19, 'S'}, "AM": {20, 'S'}, "RR": {20, 'N'},
	"AP": {22, 'N'}, "RN": {24, 'S'}, "PB": {24, 'S'}, "PE": {24, 'S'},
	"AL": {24, 'S'}, "SE": {24, 'S'}, "CE": {24, 'S'}, "PI": {23, 'S'},
}

var (
	ufSuffixPattern = regexp.MustCompile(`(?i)/\s*([A-Z]{2})\b`)
	zonePattern     = regexp.MustCompile(`^(\d{1,2})([NS])$`)
)

// RegionZone returns the zone for a two-letter state code. Unknown codes
// resolve to DefaultZone; the lookup never fails.
func RegionZone(code string) Zone {
	if z, ok := regionZones[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return z
	}
	return DefaultZone
}

// ZoneFromCity resolves the zone from a "City/UF" field.
func ZoneFromCity(field string) Zone {
	m := ufSuffixPattern.FindStringSubmatch(strings.TrimSpace(field))
	if m == nil {
		return DefaultZone
	}
	return RegionZone(m[1])
}

// ParseZone reads "22S" or "23 s". Malformed input yields DefaultZone and
// false.
func ParseZone(s string) (Zone, bool) {
	s = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	m := zonePattern.FindStringSubmatch(s)
	if m == nil {
		return DefaultZone, false
	}
	n, _ := strconv.Atoi(m[1])
	if n < 1 || n > 60 {
		return DefaultZone, false
	}
	return Zone{Number: n, Hemisphere: m[2][0]}, true
}

// CRS describes a projected reference system either by EPSG code or, when no
// registered code exists, by a PROJ string.
type CRS struct {
	EPSG  int    `json:"epsg,omitempty"`
	Proj4 string `json:"proj4,omitempty"`
}

// String returns "EPSG:31982" or the PROJ string.
func (c CRS) String() string {
	if c.EPSG != 0 {
		return fmt.Sprintf("EPSG:%d", c.EPSG)
	}
	return c.Proj4
}

// GeographicCRS is SIRGAS 2000 geographic 2D.
var GeographicCRS = CRS{EPSG: 4674}

// ProjectedCRS returns the SIRGAS 2000 / UTM system for the zone. Southern zones
// 18 to 25 have registered EPSG codes 31978 to 31985.
func ProjectedCRS(z Zone) CRS {
	if z.South() && z.Number >= 18 && z.Number <= 25 {
		return CRS{EPSG: 31960 + z.Number}
	}
	south := ""
	if z.South() {
		south = "+south "
	}
	return CRS{Proj4: fmt.Sprintf("+proj=utm +zone=%d %s+datum=SIRGAS2000 +type=crs", z.Number, south)}
}

// CentralMeridian returns the longitude of the zone's central meridian in
// degrees.
func CentralMeridian(z Zone) float64 {
	return float64(6*z.Number - 183)
}
