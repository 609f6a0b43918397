package crs

import "math"

// GRS80 ellipsoid, shared by SIRGAS 2000.
const (
	semiMajor    = 6378137.0
	flattening   = 1 / 298.257222101
	scaleFactor  = 0.9996
	falseEasting = 500000.0
	southNorth   = 10000000.0
)

// Series coefficients of the Krüger transverse Mercator expansion to third
// order in the third flattening tf.
var (
	tf      = flattening / (2 - flattening)
	rectA   = semiMajor / (1 + tf) * (1 + tf*tf/4 + tf*tf*tf*tf/64)
	alpha   = [3]float64{tf/2 - 2*tf*tf/3 + 5*tf*tf*tf/16, 13*tf*tf/48 - 3*tf*tf*tf/5, 61 * tf * tf * tf / 240}
	beta    = [3]float64{tf/2 - 2*tf*tf/3 + 37*tf*tf*tf/96, tf*tf/48 + tf*tf*tf/15, 17 * tf * tf * tf / 480}
	delta   = [3]float64{2*tf - 2*tf*tf/3 - 2*tf*tf*tf, 7*tf*tf/3 - 8*tf*tf*tf/5, 56 * tf * tf * tf / 15}
	confTwo = 2 * math.Sqrt(tf) / (1 + tf)
)

func falseNorthing(z Zone) float64 {
	if z.South() {
		return southNorth
	}
	return 0
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
func degrees(rad float64) float64 { return rad * 180 / math.Pi }

// ToGeographic converts UTM easting x and northing y in zone z to SIRGAS 2000
// latitude and longitude in decimal degrees.
func ToGeographic(x, y float64, z Zone) (lat, lon float64) {
	xi := (y - falseNorthing(z)) / (scaleFactor * rectA)
	eta := (x - falseEasting) / (scaleFactor * rectA)

	xiP, etaP := xi, eta
	for j := 1; j <= 3; j++ {
		k := 2 * float64(j)
		xiP -= beta[j-1] * math.Sin(k*xi) * math.Cosh(k*eta)
		etaP -= beta[j-1] * math.Cos(k*xi) * math.Sinh(k*eta)
	}

	chi := math.Asin(math.Sin(xiP) / math.Cosh(etaP))
	phi := chi
	for j := 1; j <= 3; j++ {
		phi += delta[j-1] * math.Sin(2*float64(j)*chi)
	}

	lambda := math.Atan2(math.Sinh(etaP), math.Cos(xiP))
	return degrees(phi), CentralMeridian(z) + degrees(lambda)
}

// FromGeographic converts latitude and longitude in decimal degrees to UTM
// easting and northing in zone z.
func FromGeographic(lat, lon float64, z Zone) (x, y float64) {
	phi := radians(lat)
	dl := radians(lon - CentralMeridian(z))

	sinPhi := math.Sin(phi)
	t := math.Sinh(math.Atanh(sinPhi) - confTwo*math.Atanh(confTwo*sinPhi))
	xiP := math.Atan2(t, math.Cos(dl))
	etaP := math.Atanh(math.Sin(dl) / math.Sqrt(1+t*t))

	xi, eta := xiP, etaP
	for j := 1; j <= 3; j++ {
		k := 2 * float64(j)
		xi += alpha[j-1] * math.Sin(k*xiP) * math.Cosh(k*etaP)
		eta += alpha[j-1] * math.Cos(k*xiP) * math.Sinh(k*etaP)
	}

	x = falseEasting + scaleFactor*rectA*eta
	y = falseNorthing(z) + scaleFactor*rectA*xi
	return x, y
}
