// routes/table.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package routes

import (
	"github.com/fplanner/fplanner/aviation"
	"github.com/fplanner/fplanner/math"
)

// CachedAirport is the read-only companion of an Airport that holds what
// route selection needs to evaluate it quickly. CachedAirports are built
// once per dataset by BuildTable and share its index space: entry i
// corresponds to airports[i].
type CachedAirport struct {
	Airport       *aviation.Airport
	Trig          math.LLTrig
	LongestRunway int // feet; 0 if the airport has no runways
	Label         string
}

func BuildTable(airports []*aviation.Airport) []CachedAirport {
	table := make([]CachedAirport, len(airports))
	for i, ap := range airports {
		table[i] = CachedAirport{
			Airport:       ap,
			Trig:          math.NewLLTrig(ap.Latitude, ap.Longitude),
			LongestRunway: ap.LongestRunway(),
			Label:         ap.Label(),
		}
	}
	return table
}

func (c *CachedAirport) DistanceNM(o *CachedAirport) float64 {
	return math.DistanceNM(c.Trig, o.Trig)
}

// WithinRadius reports whether o is within the distance that threshold
// was computed for by math.HavThreshold.
func (c *CachedAirport) WithinRadius(o *CachedAirport, threshold float64) bool {
	return math.WithinRadius(c.Trig, o.Trig, threshold)
}
