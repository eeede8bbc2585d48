// math/latlong.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"fmt"
	gomath "math"
	"regexp"
	"strconv"
)

// NMPerLatitude is the conventional number of nautical miles per degree
// of latitude. It is slightly less than the true value for a sphere of
// radius EarthRadiusNM, so degree windows derived from it never
// undershoot.
const NMPerLatitude = 60

const MetersToFeet = 3.28084

///////////////////////////////////////////////////////////////////////////
// Point2LL

// Point2LL represents a 2D point on the Earth in latitude-longitude.
// Important: 0 (x) is longitude, 1 (y) is latitude
type Point2LL [2]float32

// DDString returns the position in decimal degrees, e.g.:
// (39.860901, -75.274864)
func (p Point2LL) DDString() string {
	return fmt.Sprintf("(%f, %f)", p[1], p[0]) // latitude, longitude
}

// pair of floats, latitude first (no exponents)
var reLatLongFloat = regexp.MustCompile(`^\(?\s*(\-?[0-9]+(?:\.[0-9]+)?)\s*,\s*(\-?[0-9]+(?:\.[0-9]+)?)\s*\)?$`)

// ParseLatLong parses positions of the form "40.6328888, -73.771385"
// (optionally parenthesized, as DDString prints them).
func ParseLatLong(s string) (Point2LL, error) {
	strs := reLatLongFloat.FindStringSubmatch(s)
	if len(strs) != 3 {
		return Point2LL{}, fmt.Errorf("%s: invalid latlong string", s)
	}

	lat, err := strconv.ParseFloat(strs[1], 32)
	if err != nil {
		return Point2LL{}, err
	}
	lon, err := strconv.ParseFloat(strs[2], 32)
	if err != nil {
		return Point2LL{}, err
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return Point2LL{}, fmt.Errorf("%s: latlong out of range", s)
	}
	return Point2LL{float32(lon), float32(lat)}, nil
}

// NMPerLongitudeAt returns the number of nautical miles per degree of
// longitude at the given latitude.
func NMPerLongitudeAt(lat float32) float32 {
	return float32(NMPerLatitude * gomath.Cos(Radians(float64(lat))))
}

///////////////////////////////////////////////////////////////////////////
// Extent2D

// Extent2D represents a 2D bounding box with the two vertices at its
// opposite minimum and maximum corners.
type Extent2D struct {
	P0, P1 [2]float32
}

func (e Extent2D) Inside(p [2]float32) bool {
	return p[0] >= e.P0[0] && p[0] <= e.P1[0] && p[1] >= e.P0[1] && p[1] <= e.P1[1]
}
