// math/haversine.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"
)

// EarthRadiusNM is the mean radius of the Earth (6371km) in nautical
// miles.
const EarthRadiusNM = 6371 / 1.852

///////////////////////////////////////////////////////////////////////////
// LLTrig

// LLTrig holds a latitude-longitude position in radians along with the
// sines and cosines of both angles, so that great-circle computations
// between two LLTrigs don't need to evaluate any transcendentals to
// decide whether they are within a given distance of each other.
type LLTrig struct {
	Lat, Lon       float64 // radians
	SinLat, CosLat float64
	SinLon, CosLon float64
}

// NewLLTrig returns the LLTrig for the given latitude and longitude,
// specified in degrees.
func NewLLTrig(lat, lon float64) LLTrig {
	t := LLTrig{Lat: Radians(lat), Lon: Radians(lon)}
	t.SinLat, t.CosLat = gomath.Sincos(t.Lat)
	t.SinLon, t.CosLon = gomath.Sincos(t.Lon)
	return t
}

// Haversine returns hav(θ) = sin²(θ/2) for the central angle θ between
// a and b. The haversine formula's
//
//	sin²(Δφ/2) + cosφ₁cosφ₂sin²(Δλ/2)
//
// is equal to (1 - cosθ)/2 and cosθ is the dot product of the two
// points' unit vectors, which only needs the precomputed sines and
// cosines. hav is monotonic in θ over [0, π].
func Haversine(a, b LLTrig) float64 {
	cosDLon := a.CosLon*b.CosLon + a.SinLon*b.SinLon
	cosTheta := a.SinLat*b.SinLat + a.CosLat*b.CosLat*cosDLon
	return Clamp(0.5*(1-cosTheta), 0, 1)
}

// HavThreshold returns the value of hav for the central angle
// corresponding to a great-circle distance of nm nautical miles; a
// point is within nm of another iff their Haversine is <= the
// threshold. Negative distances give a threshold nothing satisfies and
// distances at or past the antipode give one everything does.
func HavThreshold(nm float64) float64 {
	if nm < 0 {
		return -1
	} else if nm >= gomath.Pi*EarthRadiusNM {
		return 1
	}
	return Sqr(gomath.Sin(nm / (2 * EarthRadiusNM)))
}

// WithinRadius reports whether a and b are no further apart than the
// distance that threshold was computed for with HavThreshold.
func WithinRadius(a, b LLTrig, threshold float64) bool {
	return Haversine(a, b) <= threshold
}

// DistanceNM returns the great-circle distance in nautical miles between
// a and b using the standard haversine formula.
// https://www.movable-type.co.uk/scripts/latlong.html
func DistanceNM(a, b LLTrig) float64 {
	dlat, dlon := b.Lat-a.Lat, b.Lon-a.Lon

	x := Sqr(gomath.Sin(dlat/2)) + a.CosLat*b.CosLat*Sqr(gomath.Sin(dlon/2))
	x = Clamp(x, 0, 1)
	c := 2 * gomath.Atan2(gomath.Sqrt(x), gomath.Sqrt(1-x))

	return EarthRadiusNM * c
}
