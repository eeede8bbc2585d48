// routes/band.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package routes

import (
	"cmp"
	"slices"
	"sort"

	"github.com/fplanner/fplanner/math"
)

// LatitudeBands orders the airport table by latitude so that the airports
// in a horizontal strip of the globe form a contiguous range that can be
// found with a binary search.
type LatitudeBands struct {
	order []int32   // table indices, ascending latitude
	lats  []float64 // lats[i] is the latitude of table[order[i]]
}

func NewLatitudeBands(table []CachedAirport) *LatitudeBands {
	b := &LatitudeBands{order: make([]int32, len(table))}
	for i := range table {
		b.order[i] = int32(i)
	}
	slices.SortFunc(b.order, func(i, j int32) int {
		if c := cmp.Compare(table[i].Airport.Latitude, table[j].Airport.Latitude); c != 0 {
			return c
		}
		return cmp.Compare(i, j)
	})

	b.lats = make([]float64, len(b.order))
	for i, idx := range b.order {
		b.lats[i] = table[idx].Airport.Latitude
	}
	return b
}

func (b *LatitudeBands) Len() int {
	if b == nil {
		return 0
	}
	return len(b.order)
}

// At returns the table index of the ith airport in latitude order.
func (b *LatitudeBands) At(i int) int {
	return int(b.order[i])
}

// LowerBound returns the first position whose latitude is >= lat.
func (b *LatitudeBands) LowerBound(lat float64) int {
	i, _ := slices.BinarySearch(b.lats, lat)
	return i
}

// upperBound returns the first position whose latitude is > lat.
func (b *LatitudeBands) upperBound(lat float64) int {
	return sort.Search(len(b.lats), func(i int) bool { return b.lats[i] > lat })
}

// BandFor returns the range [lo,hi) of positions for the airports whose
// latitude is within halfWidthNM of centerLat. A degree of latitude is
// slightly longer than NMPerLatitude nautical miles, so the band is a
// superset of the airports that could be within halfWidthNM of a point
// at centerLat.
func (b *LatitudeBands) BandFor(centerLat, halfWidthNM float64) (lo, hi int) {
	if halfWidthNM < 0 {
		return 0, 0
	}
	dlat := halfWidthNM / math.NMPerLatitude
	return b.LowerBound(centerLat - dlat), b.upperBound(centerLat + dlat)
}
