// routes/spatial.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package routes

import (
	"iter"
	gomath "math"

	"github.com/fplanner/fplanner/math"
)

// boxSlackDegrees pads the query boxes to cover float32 rounding of the
// airport locations stored in the tree.
const boxSlackDegrees = 1e-3

// SpatialIndex answers "which airports are within a given distance of a
// point" using a k-d tree over the airport locations. The tree's indices
// are indices into the airport table.
type SpatialIndex struct {
	tree  *math.KDTree
	table []CachedAirport
}

func NewSpatialIndex(table []CachedAirport) *SpatialIndex {
	pts := make([]math.Point2LL, len(table))
	for i, c := range table {
		pts[i] = c.Airport.Location()
	}
	return &SpatialIndex{tree: math.BuildKDTree(pts), table: table}
}

func (s *SpatialIndex) Len() int {
	if s == nil {
		return 0
	}
	return s.tree.Len()
}

// QueryRadius returns an iterator over the table indices of all airports
// whose great-circle distance from center is at most maxNM, in no
// particular order.
func (s *SpatialIndex) QueryRadius(center math.LLTrig, maxNM float64) iter.Seq[int] {
	threshold := math.HavThreshold(maxNM)
	return func(yield func(int) bool) {
		if maxNM < 0 {
			return
		}
		for _, box := range queryBoxes(center, maxNM) {
			for idx := range s.tree.InBox(box) {
				if math.WithinRadius(center, s.table[idx].Trig, threshold) && !yield(idx) {
					return
				}
			}
		}
	}
}

// Nearest returns the table index of the airport closest to p, or -1 if
// there are no airports.
func (s *SpatialIndex) Nearest(p math.Point2LL) int {
	return s.tree.Nearest(p)
}

// queryBoxes returns one or two disjoint lat-long boxes that together
// contain the spherical cap of radius nm around center. The longitude
// extent follows from the bounding-coordinates derivation in
// http://janmatuschek.de/LatitudeLongitudeBoundingCoordinates; if the cap
// contains a pole, all longitudes are included.
func queryBoxes(center math.LLTrig, nm float64) []math.Extent2D {
	delta := nm / math.EarthRadiusNM // angular radius
	lat, lon := math.Degrees(center.Lat), math.Degrees(center.Lon)
	dlat := math.Degrees(delta) + boxSlackDegrees

	minLat, maxLat := float32(max(-90, lat-dlat)), float32(min(90, lat+dlat))

	if math.Abs(center.Lat)+delta >= gomath.Pi/2 {
		return []math.Extent2D{{P0: [2]float32{-180, minLat}, P1: [2]float32{180, maxLat}}}
	}

	dlon := math.Degrees(gomath.Asin(gomath.Sin(delta)/center.CosLat)) + boxSlackDegrees
	if dlon >= 180 {
		return []math.Extent2D{{P0: [2]float32{-180, minLat}, P1: [2]float32{180, maxLat}}}
	}

	lon0, lon1 := lon-dlon, lon+dlon
	switch {
	case lon0 < -180:
		return []math.Extent2D{
			{P0: [2]float32{-180, minLat}, P1: [2]float32{float32(lon1), maxLat}},
			{P0: [2]float32{float32(lon0 + 360), minLat}, P1: [2]float32{180, maxLat}},
		}
	case lon1 > 180:
		return []math.Extent2D{
			{P0: [2]float32{float32(lon0), minLat}, P1: [2]float32{180, maxLat}},
			{P0: [2]float32{-180, minLat}, P1: [2]float32{float32(lon1 - 360), maxLat}},
		}
	default:
		return []math.Extent2D{{P0: [2]float32{float32(lon0), minLat}, P1: [2]float32{float32(lon1), maxLat}}}
	}
}
