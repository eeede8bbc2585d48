// aviation/errors.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import "errors"

var (
	ErrDuplicateAircraft        = errors.New("Duplicate aircraft id")
	ErrDuplicateAirport         = errors.New("Duplicate airport")
	ErrInvalidLocation          = errors.New("Invalid latitude/longitude")
	ErrInvalidRange             = errors.New("Aircraft range must be positive")
	ErrInvalidRunway            = errors.New("Invalid runway")
	ErrInvalidRunwayRequirement = errors.New("Invalid runway length requirement")
	ErrUnknownAircraft          = errors.New("Unknown aircraft")
	ErrUnknownAirport           = errors.New("Unknown airport")
)
