// routes/generator.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package routes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/fplanner/fplanner/aviation"
	"github.com/fplanner/fplanner/log"
	"github.com/fplanner/fplanner/rand"

	"golang.org/x/sync/errgroup"
)

// DefaultGenerateCount is the number of routes Generate returns when no
// count is given.
const DefaultGenerateCount = 50

type GenerateOptions struct {
	Count int
	// OnlyUnflownAircraft restricts the batch to aircraft that haven't
	// been flown yet.
	OnlyUnflownAircraft bool
	// DepartureICAO, if non-empty, fixes the departure airport.
	DepartureICAO string
	// Unflown restricts destinations to airports each aircraft hasn't
	// flown to.
	Unflown  bool
	Strategy Strategy
	Seed     int64
}

// Generator produces batches of routes for randomly chosen aircraft
// using the current Snapshot in a Store.
type Generator struct {
	store   *Store
	tuning  Tuning
	history HistoryPredicate
	lg      *log.Logger
}

func NewGenerator(store *Store, tuning Tuning, history HistoryPredicate, lg *log.Logger) *Generator {
	return &Generator{store: store, tuning: tuning, history: history, lg: lg}
}

// Generate returns up to opts.Count routes, each for an aircraft chosen
// at random from fleet. Each route slot draws from its own random stream
// derived from opts.Seed, so the result is the same however the slots
// are scheduled. Slots for which no route is found are dropped; if
// that's all of them, ErrNoRoute is returned.
//
// Aircraft with invalid performance data are skipped with a warning; if
// no valid aircraft remain, the first validation error is returned.
func (g *Generator) Generate(ctx context.Context, fleet []aviation.Aircraft, opts GenerateOptions) ([]RouteCandidate, error) {
	start := time.Now()
	lg := g.lg.With(slog.Int64("seed", opts.Seed))

	snap := g.store.Load()
	if err := snap.consistent(); err != nil {
		return nil, err
	}

	count := opts.Count
	if count <= 0 {
		count = DefaultGenerateCount
	}

	req := Request{Unflown: opts.Unflown, Strategy: opts.Strategy}
	if opts.DepartureICAO != "" {
		idx, ok := snap.LookupICAO(opts.DepartureICAO)
		if !ok {
			return nil, &ValidationError{Subject: "departure " + opts.DepartureICAO, Err: aviation.ErrUnknownAirport}
		}
		req.DepartureID = &snap.Airports[idx].ID
	}

	var eligible []aviation.Aircraft
	var firstErr error
	for _, ac := range fleet {
		if opts.OnlyUnflownAircraft && ac.Flown {
			continue
		}
		if err := ac.Validate(); err != nil {
			lg.Warnf("%s: skipping aircraft %d: %v", ac.Name(), ac.ID, err)
			if firstErr == nil {
				firstErr = &ValidationError{Subject: fmt.Sprintf("aircraft %d", ac.ID), Err: err}
			}
			continue
		}
		eligible = append(eligible, ac)
	}
	if len(eligible) == 0 {
		if firstErr != nil {
			return nil, firstErr
		}
		return nil, ErrNoAircraft
	}

	cas, err := Prepare(eligible, snap, req)
	if err != nil {
		return nil, err
	}

	sel := NewSelector(snap, g.tuning, g.history, lg)
	slots := make([]RouteCandidate, count)
	found := make([]bool, count)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for slot := range count {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			r := rand.Make()
			r.SeedStream(opts.Seed, uint64(slot))
			ca := &cas[r.Intn(len(cas))]

			rc, err := sel.Select(r, ca)
			if errors.Is(err, ErrNoRoute) {
				lg.Debug("no route found", slog.Int("slot", slot), slog.Int("aircraft", ca.Aircraft.ID))
				return nil
			} else if err != nil {
				return err
			}
			slots[slot], found[slot] = rc, true
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var result []RouteCandidate
	for i, rc := range slots {
		if found[i] {
			result = append(result, rc)
		}
	}

	lg.Info("Generated routes", slog.Int("routes", len(result)), slog.Int("requested", count),
		slog.Duration("elapsed", time.Since(start)))

	if len(result) == 0 {
		return nil, ErrNoRoute
	}
	return result, nil
}
