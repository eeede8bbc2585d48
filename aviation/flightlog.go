// aviation/flightlog.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import "strings"

// FlightLog answers whether an aircraft has previously flown to an
// airport. A nil *FlightLog reports that nothing has been flown.
type FlightLog struct {
	flown map[flownKey]struct{}
}

type flownKey struct {
	aircraftID, airportID int
}

// NewFlightLog indexes the arrivals in entries by (aircraft, airport).
// Entries whose arrival airport isn't in airports are ignored since such
// an airport can never be offered as a destination.
func NewFlightLog(entries []FlightLogEntry, airports []*Airport) *FlightLog {
	ids := make(map[string]int, len(airports))
	for _, ap := range airports {
		ids[strings.ToUpper(ap.ICAO)] = ap.ID
	}

	fl := &FlightLog{flown: make(map[flownKey]struct{})}
	for _, e := range entries {
		if id, ok := ids[strings.ToUpper(e.ArrivalICAO)]; ok {
			fl.flown[flownKey{aircraftID: e.AircraftID, airportID: id}] = struct{}{}
		}
	}
	return fl
}

func (fl *FlightLog) HasFlown(aircraftID, airportID int) bool {
	if fl == nil {
		return false
	}
	_, ok := fl.flown[flownKey{aircraftID: aircraftID, airportID: airportID}]
	return ok
}

// Len returns the number of distinct (aircraft, destination) pairs.
func (fl *FlightLog) Len() int {
	if fl == nil {
		return 0
	}
	return len(fl.flown)
}
