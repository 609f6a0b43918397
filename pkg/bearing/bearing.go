// Package bearing converts between quadrant bearings, azimuths,
// degree-minute-second text and cardinal direction words.
package bearing

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/coolbeans/memorial/pkg/locale"
)

var (
	strictPattern = regexp.MustCompile(`^([NS])\s*([0-9]+)-([0-9]+)-([0-9]+(?:\.[0-9]+)?)\s*([EW])`)
	loosePattern  = regexp.MustCompile(`(\d+)[^\d]+(\d+)[^\d]+(\d+(?:\.\d+)?)`)
	dmsPattern    = regexp.MustCompile(`^\s*(-?)(\d+)°(\d+)'(\d+(?:[.,]\d+)?)"\s*$`)
	spacePattern  = regexp.MustCompile(`\s+`)
)

var separatorReplacer = strings.NewReplacer(
	"–", "-",
	"°", "-",
	"'", "-",
	`"`, "",
)

// Cardinal direction words, clockwise from north.
var cardinals = [8]string{"norte", "nordeste", "leste", "sudeste", "sul", "sudoeste", "oeste", "noroeste"}

// ToAzimuth converts a quadrant bearing such as "N 45-30-00 E" or
// `S45°30'15"W` to an azimuth in [0,360).
//
// When the quadrant form does not match, the first three numbers found are
// read as degrees, minutes and seconds with no quadrant applied. The second
// result is false when neither form matches.
func ToAzimuth(b string) (float64, bool) {
	s := strings.TrimSpace(b)
	if s == "" {
		return 0, false
	}
	s = separatorReplacer.Replace(strings.ToUpper(s))
	s = spacePattern.ReplaceAllString(s, " ")

	m := strictPattern.FindStringSubmatch(s)
	if m == nil {
		lm := loosePattern.FindStringSubmatch(s)
		if lm == nil {
			return 0, false
		}
		return normalize(dmsToDecimal(lm[1], lm[2], lm[3])), true
	}

	theta := dmsToDecimal(m[2], m[3], m[4])
	var az float64
	switch m[1] + m[5] {
	case "NE":
		az = theta
	case "SE":
		az = 180 - theta
	case "SW":
		az = 180 + theta
	case "NW":
		az = 360 - theta
	}
	return normalize(az), true
}

func dmsToDecimal(d, m, s string) float64 {
	dv, _ := strconv.ParseFloat(d, 64)
	mv, _ := strconv.ParseFloat(m, 64)
	sv, _ := strconv.ParseFloat(s, 64)
	return dv + mv/60 + sv/3600
}

func normalize(az float64) float64 {
	az = math.Mod(az, 360)
	if az < 0 {
		az += 360
	}
	return az
}

// ToDMS renders an azimuth as D°MM'SS" rounded to the whole second.
func ToDMS(az float64) string {
	az = normalize(az)
	d := int(az)
	m := int((az - float64(d)) * 60)
	s := int(math.Round((az - float64(d) - float64(m)/60) * 3600))
	if s >= 60 {
		s -= 60
		m++
	}
	if m >= 60 {
		m -= 60
		d++
	}
	if d >= 360 {
		d -= 360
	}
	return fmt.Sprintf("%d°%02d'%02d\"", d, m, s)
}

// ParseDMS reads text produced by ToDMS, or any D°M'S" value with an optional
// sign and fractional seconds, back into decimal degrees.
func ParseDMS(s string) (float64, bool) {
	m := dmsPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v := dmsToDecimal(m[2], m[3], strings.Replace(m[4], ",", ".", 1))
	if m[1] == "-" {
		v = -v
	}
	return v, true
}

// Cardinal8 maps an azimuth to one of eight Portuguese direction words, each
// covering a 45° sector centered on its direction.
func Cardinal8(az float64) string {
	idx := int(math.Floor(normalize(az+22.5) / 45))
	return cardinals[idx%8]
}

// Cardinal8Or returns Cardinal8 for a valid azimuth and the placeholder
// otherwise.
func Cardinal8Or(az float64, ok bool) string {
	if !ok {
		return locale.Placeholder
	}
	return Cardinal8(az)
}
