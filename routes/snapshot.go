// routes/snapshot.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package routes

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fplanner/fplanner/aviation"
	"github.com/fplanner/fplanner/log"
	"github.com/fplanner/fplanner/math"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Snapshot bundles an airport dataset with the structures that route
// selection uses to search it. A Snapshot is never modified after
// NewSnapshot returns, so any number of goroutines may select routes
// from it concurrently; to switch to a new dataset, build a new Snapshot
// and swap it into a Store.
type Snapshot struct {
	Airports []*aviation.Airport
	Table    []CachedAirport
	Bands    *LatitudeBands
	Spatial  *SpatialIndex

	byID   map[int]int
	byICAO map[string]int

	// Airports within a given radius of a departure, memoized for
	// repeated small-radius draws. The lists are exactly what
	// QueryRadius returns, so caching doesn't affect the results.
	neighbors *lru.Cache[neighborKey, []int]
}

type neighborKey struct {
	departure int
	radiusNM  float64
}

// NewSnapshot builds the airport table and both indices for airports.
// neighborCacheSize bounds the number of memoized neighbor lists; 0
// disables memoization.
func NewSnapshot(airports []*aviation.Airport, neighborCacheSize int, lg *log.Logger) *Snapshot {
	start := time.Now()

	table := BuildTable(airports)
	s := &Snapshot{
		Airports: airports,
		Table:    table,
		Bands:    NewLatitudeBands(table),
		Spatial:  NewSpatialIndex(table),
		byID:     make(map[int]int, len(airports)),
		byICAO:   make(map[string]int, len(airports)),
	}
	if s.Bands.Len() != len(s.Table) || s.Spatial.Len() != len(s.Table) {
		panic(fmt.Sprintf("airport table has %d entries but latitude bands have %d and spatial index %d",
			len(s.Table), s.Bands.Len(), s.Spatial.Len()))
	}

	for i, ap := range airports {
		s.byID[ap.ID] = i
		if ap.ICAO != "" {
			s.byICAO[strings.ToUpper(ap.ICAO)] = i
		}
	}

	if neighborCacheSize > 0 {
		// lru.New only fails for non-positive sizes.
		s.neighbors, _ = lru.New[neighborKey, []int](neighborCacheSize)
	}

	lg.Info("Built airport snapshot", slog.Int("airports", len(airports)),
		slog.Duration("elapsed", time.Since(start)))

	return s
}

func (s *Snapshot) Len() int {
	return len(s.Table)
}

// Lookup returns the table index of the airport with the given id.
func (s *Snapshot) Lookup(id int) (int, bool) {
	idx, ok := s.byID[id]
	return idx, ok
}

// LookupICAO returns the table index of the airport with the given ICAO
// code; the lookup is case-insensitive.
func (s *Snapshot) LookupICAO(icao string) (int, bool) {
	idx, ok := s.byICAO[strings.ToUpper(icao)]
	return idx, ok
}

// Nearest returns the table index of the airport closest to p, or -1 if
// the snapshot is empty.
func (s *Snapshot) Nearest(p math.Point2LL) int {
	return s.Spatial.Nearest(p)
}

// Neighbors returns the table indices of the airports within radiusNM of
// the airport at table index dep, including dep itself, sorted by index.
// The returned slice may be shared and must not be modified.
func (s *Snapshot) Neighbors(dep int, radiusNM float64) []int {
	key := neighborKey{departure: dep, radiusNM: radiusNM}
	if s.neighbors != nil {
		if n, ok := s.neighbors.Get(key); ok {
			return n
		}
	}

	n := s.QueryNeighbors(dep, radiusNM)

	if s.neighbors != nil {
		s.neighbors.Add(key, n)
	}
	return n
}

// QueryNeighbors is Neighbors without memoization; the result is a new
// slice owned by the caller.
func (s *Snapshot) QueryNeighbors(dep int, radiusNM float64) []int {
	return slices.Sorted(s.Spatial.QueryRadius(s.Table[dep].Trig, radiusNM))
}

// consistent checks that the indices still describe the table; it guards
// against Snapshots that weren't built with NewSnapshot.
func (s *Snapshot) consistent() error {
	if s == nil {
		return fmt.Errorf("no airport snapshot: %w", ErrInconsistentDataset)
	}
	if n := len(s.Table); s.Bands.Len() != n || s.Spatial.Len() != n || len(s.Airports) != n {
		return fmt.Errorf("%d airports, %d table entries, %d in latitude bands, %d in spatial index: %w",
			len(s.Airports), n, s.Bands.Len(), s.Spatial.Len(), ErrInconsistentDataset)
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////
// Store

// Store holds the current Snapshot. Loading and replacing it are atomic,
// so a reload never exposes a partially built dataset to readers.
type Store struct {
	snap atomic.Pointer[Snapshot]
}

func NewStore(s *Snapshot) *Store {
	st := &Store{}
	st.snap.Store(s)
	return st
}

func (st *Store) Load() *Snapshot {
	return st.snap.Load()
}

// Swap installs s as the current Snapshot and returns the previous one.
func (st *Store) Swap(s *Snapshot) *Snapshot {
	return st.snap.Swap(s)
}
