// aviation/aviation.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"fmt"
	gomath "math"
	"strings"

	"github.com/fplanner/fplanner/math"
)

///////////////////////////////////////////////////////////////////////////
// Airport

// Airport is an entry in the airport database. Airports are loaded once
// and are not modified afterward; route selection only ever holds
// pointers to them.
type Airport struct {
	ID        int      `json:"id"`
	ICAO      string   `json:"icao"`
	Name      string   `json:"name"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Elevation int      `json:"elevation"` // feet
	Runways   []Runway `json:"runways,omitempty"`
}

type Runway struct {
	ID          int     `json:"id"`
	AirportID   int     `json:"airport_id"`
	Ident       string  `json:"ident"`
	TrueHeading float64 `json:"true_heading"`
	Length      int     `json:"length"` // feet
	Width       int     `json:"width"`  // feet
	Surface     string  `json:"surface"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Elevation   int     `json:"elevation"`
}

func (ap *Airport) Location() math.Point2LL {
	return math.Point2LL{float32(ap.Longitude), float32(ap.Latitude)}
}

// LongestRunway returns the length in feet of the airport's longest
// runway, or 0 if it has none.
func (ap *Airport) LongestRunway() int {
	l := 0
	for _, rwy := range ap.Runways {
		l = max(l, rwy.Length)
	}
	return l
}

// Label returns the airport's name and ICAO code in the form used in
// route listings, e.g. "Amsterdam Airport Schiphol (EHAM)".
func (ap *Airport) Label() string {
	return fmt.Sprintf("%s (%s)", ap.Name, ap.ICAO)
}

func (ap *Airport) String() string {
	return fmt.Sprintf("%s, altitude: %d", ap.Label(), ap.Elevation)
}

func (r Runway) String() string {
	return fmt.Sprintf("Runway: %s, heading: %.2f, length: %d, width: %d, surface: %s, elevation: %dft",
		r.Ident, r.TrueHeading, r.Length, r.Width, r.Surface, r.Elevation)
}

///////////////////////////////////////////////////////////////////////////
// Aircraft

// Aircraft is an entry in the user's fleet. Takeoff and landing distances
// are in meters, as published by manufacturers; nil means that the
// distance is unknown and no runway requirement is imposed.
type Aircraft struct {
	ID              int    `json:"id"`
	Manufacturer    string `json:"manufacturer"`
	Variant         string `json:"variant"`
	ICAOCode        string `json:"icao_code"`
	Flown           bool   `json:"flown"`
	Range           int    `json:"range"` // nm
	Category        string `json:"category"`
	CruiseSpeed     int    `json:"cruise_speed"` // knots
	TakeoffDistance *int   `json:"takeoff_distance,omitempty"`
	LandingDistance *int   `json:"landing_distance,omitempty"`
	DateFlown       string `json:"date_flown,omitempty"` // YYYY-MM-DD
}

// Validate checks the aircraft's performance numbers; the returned error
// wraps ErrInvalidRange or ErrInvalidRunwayRequirement.
func (ac *Aircraft) Validate() error {
	if ac.Range <= 0 {
		return fmt.Errorf("%d nm: %w", ac.Range, ErrInvalidRange)
	}
	if ac.TakeoffDistance != nil && *ac.TakeoffDistance < 0 {
		return fmt.Errorf("takeoff distance %d m: %w", *ac.TakeoffDistance, ErrInvalidRunwayRequirement)
	}
	if ac.LandingDistance != nil && *ac.LandingDistance < 0 {
		return fmt.Errorf("landing distance %d m: %w", *ac.LandingDistance, ErrInvalidRunwayRequirement)
	}
	return nil
}

// TakeoffRunwayFeet returns the runway length in feet needed for
// departure, or 0 if the aircraft has no known takeoff distance.
func (ac *Aircraft) TakeoffRunwayFeet() int {
	return metersToFeet(ac.TakeoffDistance)
}

// LandingRunwayFeet returns the runway length in feet needed at the
// destination. Aircraft without a separate landing distance use their
// takeoff distance.
func (ac *Aircraft) LandingRunwayFeet() int {
	if ac.LandingDistance == nil {
		return ac.TakeoffRunwayFeet()
	}
	return metersToFeet(ac.LandingDistance)
}

func metersToFeet(m *int) int {
	if m == nil {
		return 0
	}
	// A runway is long enough iff length >= m*MetersToFeet; with integer
	// runway lengths that's the same as comparing against the ceiling.
	return int(gomath.Ceil(float64(*m) * math.MetersToFeet))
}

// Name returns e.g. "Boeing 737-800 (B738)".
func (ac *Aircraft) Name() string {
	var sb strings.Builder
	sb.WriteString(ac.Manufacturer)
	if ac.Variant != "" {
		sb.WriteString(" " + ac.Variant)
	}
	if ac.ICAOCode != "" {
		sb.WriteString(" (" + ac.ICAOCode + ")")
	}
	return sb.String()
}

func (ac *Aircraft) String() string {
	takeoff := "unknown"
	if ac.TakeoffDistance != nil {
		takeoff = fmt.Sprintf("%d m", *ac.TakeoffDistance)
	}
	return fmt.Sprintf("id: %d, %s, range: %d, category: %s, cruise speed: %d knots, takeoff distance: %s",
		ac.ID, ac.Name(), ac.Range, ac.Category, ac.CruiseSpeed, takeoff)
}

///////////////////////////////////////////////////////////////////////////
// Flight log

// FlightLogEntry records a flight that has been flown with an aircraft
// from the fleet.
type FlightLogEntry struct {
	ID            int     `json:"id"`
	DepartureICAO string  `json:"departure"`
	ArrivalICAO   string  `json:"arrival"`
	AircraftID    int     `json:"aircraft_id"`
	Date          string  `json:"date"` // YYYY-MM-DD
	Distance      float64 `json:"distance"`
}
