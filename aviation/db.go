// aviation/db.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"fmt"
	gomath "math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fplanner/fplanner/util"
)

// AirportDatabase is the on-disk form of the airport dataset. Runways may
// either be given inline with each airport or in the separate Runways
// list, in which case they are attached to their airport via AirportID
// when the database is loaded.
type AirportDatabase struct {
	Airports []*Airport `json:"airports"`
	Runways  []Runway   `json:"runways,omitempty"`
}

// LoadAirports reads an airport database from a .json or .msgpack file
// (optionally zstd compressed), resolves runways, and validates the
// result. All problems found are reported together in the returned
// error.
func LoadAirports(path string) ([]*Airport, error) {
	var db AirportDatabase
	var e util.ErrorLogger
	if err := util.DecodeDataFile(path, &db, &e); err != nil {
		return nil, err
	}

	e.Push(filepath.Base(path))
	db.resolveRunways(&e)
	ValidateAirports(db.Airports, &e)
	e.Pop()

	if err := e.Err(); err != nil {
		return nil, err
	}
	return db.Airports, nil
}

// SaveAirports writes the airports to path in the format given by its
// extension; runways are stored inline.
func SaveAirports(path string, airports []*Airport) error {
	return util.EncodeDataFile(path, AirportDatabase{Airports: airports})
}

func (db *AirportDatabase) resolveRunways(e *util.ErrorLogger) {
	if len(db.Runways) == 0 {
		return
	}

	byID := make(map[int]*Airport, len(db.Airports))
	for _, ap := range db.Airports {
		if ap != nil {
			byID[ap.ID] = ap
		}
	}

	for _, rwy := range db.Runways {
		if ap, ok := byID[rwy.AirportID]; ok {
			ap.Runways = append(ap.Runways, rwy)
		} else {
			e.Error(fmt.Errorf("runway %q: airport id %d: %w", rwy.Ident, rwy.AirportID, ErrUnknownAirport))
		}
	}
	db.Runways = nil
}

func validLatLong(lat, lon float64) bool {
	return !gomath.IsNaN(lat) && !gomath.IsNaN(lon) && lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// ValidateAirports checks the airports for problems that would make route
// selection misbehave: missing entries, duplicate ids or ICAO codes,
// out-of-range coordinates, and bogus runways.
func ValidateAirports(airports []*Airport, e *util.ErrorLogger) {
	defer e.CheckDepth(e.CurrentDepth())

	ids := make(map[int]string)
	icaos := make(map[string]int)
	for i, ap := range airports {
		if ap == nil {
			e.ErrorString("airport #%d: missing entry", i)
			continue
		}

		name := ap.ICAO
		if name == "" {
			name = "#" + strconv.Itoa(ap.ID)
		}
		e.Push(name)

		if other, ok := ids[ap.ID]; ok {
			e.Error(fmt.Errorf("id %d also used by %s: %w", ap.ID, other, ErrDuplicateAirport))
		}
		ids[ap.ID] = name

		if ap.ICAO != "" {
			icao := strings.ToUpper(ap.ICAO)
			if other, ok := icaos[icao]; ok {
				e.Error(fmt.Errorf("ICAO also used by airport id %d: %w", other, ErrDuplicateAirport))
			}
			icaos[icao] = ap.ID
		}

		if !validLatLong(ap.Latitude, ap.Longitude) {
			e.Error(fmt.Errorf("(%f, %f): %w", ap.Latitude, ap.Longitude, ErrInvalidLocation))
		}

		for _, rwy := range ap.Runways {
			e.Push("Runway " + rwy.Ident)
			if rwy.Length < 0 {
				e.Error(fmt.Errorf("length %d: %w", rwy.Length, ErrInvalidRunway))
			}
			if rwy.AirportID != 0 && rwy.AirportID != ap.ID {
				e.Error(fmt.Errorf("belongs to airport id %d: %w", rwy.AirportID, ErrInvalidRunway))
			}
			e.Pop()
		}

		e.Pop()
	}
}

// LoadFleet reads the aircraft fleet from path. Aircraft ids must be
// unique; performance numbers are checked later, when routes are
// requested for an aircraft.
func LoadFleet(path string) ([]Aircraft, error) {
	var fleet []Aircraft
	var e util.ErrorLogger
	if err := util.DecodeDataFile(path, &fleet, &e); err != nil {
		return nil, err
	}

	e.Push(filepath.Base(path))
	seen := make(map[int]bool)
	for _, ac := range fleet {
		if seen[ac.ID] {
			e.Error(fmt.Errorf("%d: %w", ac.ID, ErrDuplicateAircraft))
		}
		seen[ac.ID] = true
	}
	e.Pop()

	if err := e.Err(); err != nil {
		return nil, err
	}
	return fleet, nil
}

// LoadFlightLog reads previously flown flights from path.
func LoadFlightLog(path string) ([]FlightLogEntry, error) {
	var entries []FlightLogEntry
	var e util.ErrorLogger
	if err := util.DecodeDataFile(path, &entries, &e); err != nil {
		return nil, err
	}
	return entries, nil
}
