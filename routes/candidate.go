// routes/candidate.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package routes

import (
	"fmt"
	"strconv"

	"github.com/fplanner/fplanner/aviation"
	"github.com/fplanner/fplanner/math"

	"github.com/brunoga/deep"
)

// Request describes the routes that are wanted for a batch of aircraft.
type Request struct {
	// DepartureID, if set, fixes the departure airport.
	DepartureID *int
	// Unflown limits destinations to airports the aircraft hasn't flown
	// to before.
	Unflown bool
	// Strategy forces a selection strategy; StrategyAuto chooses one
	// based on the aircraft's range.
	Strategy Strategy
}

// CandidateAircraft holds what route selection needs to know about an
// aircraft, computed once per batch by Prepare. It is read-only after
// Prepare returns.
type CandidateAircraft struct {
	Aircraft aviation.Aircraft
	Label    string

	RangeNM     float64
	Threshold   float64 // math.HavThreshold(RangeNM)
	TakeoffFeet int
	LandingFeet int

	req Request
	// departure is the table index of the fixed departure or -1. When
	// it is set, [bandLo, bandHi) is its latitude band for RangeNM.
	departure      int
	bandLo, bandHi int

	snap *Snapshot
}

// Departure returns the table index of the fixed departure airport, if
// there is one.
func (ca *CandidateAircraft) Departure() (int, bool) {
	return ca.departure, ca.departure >= 0
}

// Prepare validates the aircraft and precomputes their per-aircraft
// selection state for a batch of requests against snap. It fails with a
// *ValidationError if any aircraft has an invalid range or runway
// requirement or if the requested departure airport isn't in snap.
func Prepare(fleet []aviation.Aircraft, snap *Snapshot, req Request) ([]CandidateAircraft, error) {
	if err := snap.consistent(); err != nil {
		return nil, err
	}

	departure := -1
	if req.DepartureID != nil {
		idx, ok := snap.Lookup(*req.DepartureID)
		if !ok {
			return nil, &ValidationError{
				Subject: "departure airport " + strconv.Itoa(*req.DepartureID),
				Err:     aviation.ErrUnknownAirport,
			}
		}
		departure = idx
	}

	cas := make([]CandidateAircraft, 0, len(fleet))
	for i := range fleet {
		ac := &fleet[i]
		if err := ac.Validate(); err != nil {
			return nil, &ValidationError{Subject: fmt.Sprintf("aircraft %d", ac.ID), Err: err}
		}

		ca := CandidateAircraft{
			// Copy so that later changes to the caller's fleet (e.g.,
			// marking an aircraft as flown) aren't seen mid-batch.
			Aircraft:    deep.MustCopy(*ac),
			Label:       ac.Name(),
			RangeNM:     float64(ac.Range),
			Threshold:   math.HavThreshold(float64(ac.Range)),
			TakeoffFeet: ac.TakeoffRunwayFeet(),
			LandingFeet: ac.LandingRunwayFeet(),
			req:         req,
			departure:   departure,
			snap:        snap,
		}
		if departure >= 0 {
			ca.bandLo, ca.bandHi = snap.Bands.BandFor(snap.Table[departure].Airport.Latitude, ca.RangeNM)
		}
		cas = append(cas, ca)
	}

	return cas, nil
}
