// routes/tuning.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package routes

import (
	"fmt"
	"strings"
)

// Tuning holds the constants that decide which selection strategy is
// used and how hard each one tries. The defaults were chosen for
// datasets of tens of thousands of airports; they only affect speed, not
// which routes are valid.
type Tuning struct {
	// Radii above LargeRadiusNM use global rejection sampling; radii
	// above SmallRadiusNM (and up to LargeRadiusNM) sample within a
	// latitude band. Smaller radii go straight to the spatial index.
	LargeRadiusNM float64 `json:"large_radius_nm"`
	SmallRadiusNM float64 `json:"small_radius_nm"`
	// MaxAttempts bounds the candidate draws of the global and band
	// strategies before falling back to the spatial index.
	MaxAttempts int `json:"max_attempts"`
	// BandAttemptsPerDeparture bounds the destinations tried from one
	// random departure in the band strategy before picking another.
	BandAttemptsPerDeparture int `json:"band_attempts_per_departure"`
	// SpatialDepartureAttempts is the number of random departures the
	// spatial strategy tries before choosing one from all eligible
	// airports.
	SpatialDepartureAttempts int `json:"spatial_departure_attempts"`
	NeighborCacheSize        int `json:"neighbor_cache_size"`
	// MinRangeFraction in (0,1] scales each draw's search radius by a
	// random factor in [MinRangeFraction, 1] to vary route lengths.
	MinRangeFraction float64 `json:"min_range_fraction"`
}

func DefaultTuning() Tuning {
	return Tuning{
		LargeRadiusNM:            500,
		SmallRadiusNM:            100,
		MaxAttempts:              128,
		BandAttemptsPerDeparture: 32,
		SpatialDepartureAttempts: 32,
		NeighborCacheSize:        4096,
		MinRangeFraction:         1,
	}
}

func (t Tuning) Validate() error {
	switch {
	case t.SmallRadiusNM < 0:
		return fmt.Errorf("small radius %f: %w", t.SmallRadiusNM, ErrInvalidTuning)
	case t.LargeRadiusNM < t.SmallRadiusNM:
		return fmt.Errorf("large radius %f less than small radius %f: %w", t.LargeRadiusNM, t.SmallRadiusNM,
			ErrInvalidTuning)
	case t.MaxAttempts < 1:
		return fmt.Errorf("max attempts %d: %w", t.MaxAttempts, ErrInvalidTuning)
	case t.BandAttemptsPerDeparture < 1:
		return fmt.Errorf("band attempts per departure %d: %w", t.BandAttemptsPerDeparture, ErrInvalidTuning)
	case t.SpatialDepartureAttempts < 0:
		return fmt.Errorf("spatial departure attempts %d: %w", t.SpatialDepartureAttempts, ErrInvalidTuning)
	case t.NeighborCacheSize < 0:
		return fmt.Errorf("neighbor cache size %d: %w", t.NeighborCacheSize, ErrInvalidTuning)
	case !(t.MinRangeFraction > 0 && t.MinRangeFraction <= 1):
		return fmt.Errorf("min range fraction %f: %w", t.MinRangeFraction, ErrInvalidTuning)
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////
// Strategy

type Strategy int

const (
	// StrategyAuto chooses a strategy from the search radius.
	StrategyAuto Strategy = iota
	StrategyGlobal
	StrategyBand
	StrategySpatial
)

func (s Strategy) String() string {
	switch s {
	case StrategyAuto:
		return "auto"
	case StrategyGlobal:
		return "global"
	case StrategyBand:
		return "band"
	case StrategySpatial:
		return "spatial"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Strategy) UnmarshalText(b []byte) error {
	var err error
	*s, err = ParseStrategy(string(b))
	return err
}

func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return StrategyAuto, nil
	case "global":
		return StrategyGlobal, nil
	case "band":
		return StrategyBand, nil
	case "spatial":
		return StrategySpatial, nil
	default:
		return StrategyAuto, fmt.Errorf("%s: unknown strategy; expected auto, global, band, or spatial", s)
	}
}

// ChooseStrategy returns the cheapest strategy for the given search
// radius.
func ChooseStrategy(radiusNM float64, t Tuning) Strategy {
	switch {
	case radiusNM > t.LargeRadiusNM:
		return StrategyGlobal
	case radiusNM > t.SmallRadiusNM:
		return StrategyBand
	default:
		return StrategySpatial
	}
}
