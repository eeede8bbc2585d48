// routes/selector.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package routes

import (
	"fmt"
	"log/slog"

	"github.com/fplanner/fplanner/aviation"
	"github.com/fplanner/fplanner/log"
	"github.com/fplanner/fplanner/math"
	"github.com/fplanner/fplanner/rand"
)

// HistoryPredicate reports whether an aircraft has already flown to an
// airport; *aviation.FlightLog implements it.
type HistoryPredicate interface {
	HasFlown(aircraftID, airportID int) bool
}

// RouteCandidate is a departure/destination pair that an aircraft can
// fly.
type RouteCandidate struct {
	Aircraft          *aviation.Aircraft
	DepartureID       int
	DestinationID     int
	DistanceNM        float64
	Departure         *aviation.Airport
	Destination       *aviation.Airport
	DepartureRunway   int // longest runway, feet
	DestinationRunway int
	Strategy          Strategy
}

func (rc RouteCandidate) String() string {
	return fmt.Sprintf("%s: %s -> %s, %.2fnm", rc.Aircraft.Name(), rc.Departure.Label(),
		rc.Destination.Label(), rc.DistanceNM)
}

// Selector picks routes for prepared aircraft from a Snapshot. It holds
// no mutable state and may be shared by goroutines, each of which must
// use its own *rand.Rand.
type Selector struct {
	snap    *Snapshot
	tuning  Tuning
	history HistoryPredicate
	lg      *log.Logger
}

// NewSelector returns a Selector for snap. history may be nil if
// unflown-destination requests won't be made.
func NewSelector(snap *Snapshot, tuning Tuning, history HistoryPredicate, lg *log.Logger) *Selector {
	return &Selector{snap: snap, tuning: tuning, history: history, lg: lg}
}

// Select returns a random valid route for ca, which must have been
// prepared against the Selector's Snapshot. The result depends only on
// the state of r, ca, and the snapshot. If no route satisfies the
// constraints, the returned error is ErrNoRoute.
func (s *Selector) Select(r *rand.Rand, ca *CandidateAircraft) (RouteCandidate, error) {
	if ca.snap != s.snap {
		return RouteCandidate{}, fmt.Errorf("aircraft %d prepared for a different airport snapshot: %w",
			ca.Aircraft.ID, ErrInconsistentDataset)
	}
	if err := s.snap.consistent(); err != nil {
		return RouteCandidate{}, err
	}
	if s.snap.Len() < 2 {
		return RouteCandidate{}, ErrNoRoute
	}
	if dep, ok := ca.Departure(); ok && !s.departureOK(ca, dep) {
		return RouteCandidate{}, ErrNoRoute
	}

	radius, threshold := s.drawRadius(r, ca)

	strategy := ca.req.Strategy
	if strategy == StrategyAuto {
		strategy = ChooseStrategy(radius, s.tuning)
	}

	var dep, dst int
	ok := false
	switch strategy {
	case StrategyGlobal:
		dep, dst, ok = s.selectGlobal(r, ca, threshold)
	case StrategyBand:
		dep, dst, ok = s.selectBand(r, ca, radius, threshold)
	}
	if !ok {
		if strategy != StrategySpatial {
			s.lg.Debug("falling back to spatial index", slog.String("strategy", strategy.String()),
				slog.Int("aircraft", ca.Aircraft.ID), slog.Float64("radius", radius))
			strategy = StrategySpatial
		}
		if dep, dst, ok = s.selectSpatial(r, ca, radius, threshold); !ok {
			return RouteCandidate{}, ErrNoRoute
		}
	}

	return s.makeCandidate(ca, dep, dst, strategy), nil
}

// drawRadius returns the search radius for one draw and its haversine
// threshold. It never exceeds the aircraft's range.
func (s *Selector) drawRadius(r *rand.Rand, ca *CandidateAircraft) (float64, float64) {
	if s.tuning.MinRangeFraction >= 1 {
		return ca.RangeNM, ca.Threshold
	}
	radius := ca.RangeNM * math.Lerp(r.Float64(), s.tuning.MinRangeFraction, 1)
	return radius, math.HavThreshold(radius)
}

func (s *Selector) departureOK(ca *CandidateAircraft, dep int) bool {
	return s.snap.Table[dep].LongestRunway >= ca.TakeoffFeet
}

// destinationOK checks everything about a pair except the departure's
// runway.
func (s *Selector) destinationOK(ca *CandidateAircraft, dep, dst int, threshold float64) bool {
	if dep == dst {
		return false
	}
	d := &s.snap.Table[dst]
	if d.LongestRunway < ca.LandingFeet {
		return false
	}
	if !s.snap.Table[dep].WithinRadius(d, threshold) {
		return false
	}
	if ca.req.Unflown && s.history != nil && s.history.HasFlown(ca.Aircraft.ID, d.Airport.ID) {
		return false
	}
	return true
}

// randomDeparture returns the fixed departure or a uniformly random
// airport; ok is false if the random airport's runways are too short.
func (s *Selector) randomDeparture(r *rand.Rand, ca *CandidateAircraft) (int, bool) {
	if dep, ok := ca.Departure(); ok {
		return dep, true
	}
	dep := r.Intn(s.snap.Len())
	return dep, s.departureOK(ca, dep)
}

// selectGlobal draws departure and destination uniformly from the whole
// table.
func (s *Selector) selectGlobal(r *rand.Rand, ca *CandidateAircraft, threshold float64) (int, int, bool) {
	n := s.snap.Len()
	for range s.tuning.MaxAttempts {
		dep, ok := s.randomDeparture(r, ca)
		if !ok {
			continue
		}
		if dst := r.Intn(n); s.destinationOK(ca, dep, dst, threshold) {
			return dep, dst, true
		}
	}
	return 0, 0, false
}

// selectBand draws destinations from the departure's latitude band. Each
// band is visited in random order without repetition, so small bands
// are searched exhaustively.
func (s *Selector) selectBand(r *rand.Rand, ca *CandidateAircraft, radius, threshold float64) (int, int, bool) {
	bands := s.snap.Bands
	attempts := 0
	for attempts < s.tuning.MaxAttempts {
		dep, ok := s.randomDeparture(r, ca)
		attempts++
		if !ok {
			continue
		}

		var lo, hi int
		if fixed, ok := ca.Departure(); ok && fixed == dep && radius == ca.RangeNM {
			lo, hi = ca.bandLo, ca.bandHi
		} else {
			lo, hi = bands.BandFor(s.snap.Table[dep].Airport.Latitude, radius)
		}

		tries := 0
		for i := range rand.Permutation(r, hi-lo) {
			if dst := bands.At(lo + i); s.destinationOK(ca, dep, dst, threshold) {
				return dep, dst, true
			}
			tries++
			if tries == s.tuning.BandAttemptsPerDeparture || attempts+tries >= s.tuning.MaxAttempts {
				break
			}
		}
		attempts += tries

		if _, fixed := ca.Departure(); fixed && tries == hi-lo {
			// The band has been searched exhaustively; there's no
			// point in trying it again.
			break
		}
	}
	return 0, 0, false
}

// selectSpatial chooses uniformly among the valid destinations found by
// a range query around the departure.
func (s *Selector) selectSpatial(r *rand.Rand, ca *CandidateAircraft, radius, threshold float64) (int, int, bool) {
	from := func(dep int) (int, int, bool) {
		var neighbors []int
		if radius == ca.RangeNM {
			neighbors = s.snap.Neighbors(dep, radius)
		} else {
			// A drawn radius is unlikely to recur; don't let it push
			// full-range lists out of the cache.
			neighbors = s.snap.QueryNeighbors(dep, radius)
		}
		i := rand.SampleFiltered(r, neighbors, func(dst int) bool {
			return s.destinationOK(ca, dep, dst, threshold)
		})
		if i == -1 {
			return 0, 0, false
		}
		return dep, neighbors[i], true
	}

	if dep, ok := ca.Departure(); ok {
		return from(dep)
	}

	for range s.tuning.SpatialDepartureAttempts {
		if dep, ok := s.randomDeparture(r, ca); ok {
			if dep, dst, ok := from(dep); ok {
				return dep, dst, true
			}
		}
	}

	// Finally walk every departure with a long enough runway in random
	// order, so that no route is reported only when none exists.
	for dep := range rand.Permutation(r, s.snap.Len()) {
		if !s.departureOK(ca, dep) {
			continue
		}
		if dep, dst, ok := from(dep); ok {
			return dep, dst, true
		}
	}
	return 0, 0, false
}

func (s *Selector) makeCandidate(ca *CandidateAircraft, dep, dst int, strategy Strategy) RouteCandidate {
	d, a := &s.snap.Table[dep], &s.snap.Table[dst]
	return RouteCandidate{
		Aircraft:          &ca.Aircraft,
		DepartureID:       d.Airport.ID,
		DestinationID:     a.Airport.ID,
		DistanceNM:        d.DistanceNM(a),
		Departure:         d.Airport,
		Destination:       a.Airport,
		DepartureRunway:   d.LongestRunway,
		DestinationRunway: a.LongestRunway,
		Strategy:          strategy,
	}
}
