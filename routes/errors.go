// routes/errors.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package routes

import (
	"errors"
	"fmt"
)

var (
	ErrInconsistentDataset = errors.New("Inconsistent airport dataset")
	ErrInvalidTuning       = errors.New("Invalid route selection tuning")
	ErrNoAircraft          = errors.New("No aircraft available")
	ErrNoRoute             = errors.New("No suitable route found")
)

// ValidationError is returned when a request can't be satisfied because
// of bad input, as opposed to there not being a route that meets its
// constraints. Err is one of the aviation package's sentinel errors.
type ValidationError struct {
	Subject string // e.g. "aircraft 12"
	Err     error
}

func (v *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", v.Subject, v.Err)
}

func (v *ValidationError) Unwrap() error {
	return v.Err
}
