// routes/routes_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package routes

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/fplanner/fplanner/aviation"
	"github.com/fplanner/fplanner/log"
	"github.com/fplanner/fplanner/math"
	"github.com/fplanner/fplanner/rand"
)

func makeAirport(id int, icao string, lat, lon float64, runwayFeet ...int) *aviation.Airport {
	ap := &aviation.Airport{ID: id, ICAO: icao, Name: icao + " Airport", Latitude: lat, Longitude: lon}
	for i, l := range runwayFeet {
		ap.Runways = append(ap.Runways, aviation.Runway{ID: 100*id + i, AirportID: id,
			Ident: fmt.Sprintf("%02d", i+1), Length: l})
	}
	return ap
}

// randomAirports returns n airports scattered over the globe, including
// some right at the date line and near the poles; about a tenth have no
// runways.
func randomAirports(r *rand.Rand, n int) []*aviation.Airport {
	airports := make([]*aviation.Airport, n)
	for i := range airports {
		lat := -85 + 170*r.Float64()
		lon := -180 + 360*r.Float64()
		switch i % 50 {
		case 0:
			lon = 179.9 + 0.1*r.Float64()
		case 1:
			lon = -180 + 0.1*r.Float64()
		case 2:
			lat = 89 + r.Float64()
		}

		var rwys []int
		if r.Intn(10) != 0 {
			for range 1 + r.Intn(3) {
				rwys = append(rwys, 1500+r.Intn(12000))
			}
		}
		airports[i] = makeAirport(i+1, fmt.Sprintf("A%04d", i+1), lat, lon, rwys...)
	}
	return airports
}

func numTestAirports() int {
	if log.RaceEnabled {
		return 1500
	}
	return 6000
}

func TestBuildTable(t *testing.T) {
	airports := []*aviation.Airport{
		makeAirport(1, "EHAM", 52.3086, 4.7639, 12467, 6608, 11483),
		makeAirport(2, "EHRD", 51.9561, 4.4397, 7218),
		makeAirport(3, "XXXX", 0, 0),
	}
	table := BuildTable(airports)

	if len(table) != len(airports) {
		t.Fatalf("expected %d entries, got %d", len(airports), len(table))
	}
	for i, c := range table {
		if c.Airport != airports[i] {
			t.Errorf("%d: table entry refers to the wrong airport", i)
		}
	}
	if table[0].LongestRunway != 12467 || table[1].LongestRunway != 7218 || table[2].LongestRunway != 0 {
		t.Errorf("unexpected longest runways %d %d %d", table[0].LongestRunway, table[1].LongestRunway,
			table[2].LongestRunway)
	}
	if table[0].Label != "EHAM Airport (EHAM)" {
		t.Errorf("unexpected label %q", table[0].Label)
	}

	if d := table[0].DistanceNM(&table[1]); math.Abs(d-24.30) > 0.01 {
		t.Errorf("EHAM-EHRD distance %f, expected ~24.30", d)
	}
	if !table[0].WithinRadius(&table[1], math.HavThreshold(25)) {
		t.Errorf("EHRD should be within 25nm of EHAM")
	}
	if table[0].WithinRadius(&table[1], math.HavThreshold(23)) {
		t.Errorf("EHRD should not be within 23nm of EHAM")
	}
}

func TestLatitudeBands(t *testing.T) {
	r := rand.Make()
	r.Seed(11)
	table := BuildTable(randomAirports(r, 2000))
	bands := NewLatitudeBands(table)

	if bands.Len() != len(table) {
		t.Fatalf("expected %d entries, got %d", len(table), bands.Len())
	}
	seen := make([]bool, len(table))
	for i := range bands.Len() {
		seen[bands.At(i)] = true
		if i > 0 && bands.lats[i] < bands.lats[i-1] {
			t.Fatalf("latitudes not sorted at %d", i)
		}
	}
	if slices.Contains(seen, false) {
		t.Errorf("not every airport appears in the bands")
	}

	for range 300 {
		center := -90 + 180*r.Float64()
		halfWidth := 3000 * r.Float64()
		lo, hi := bands.BandFor(center, halfWidth)

		dlat := halfWidth / math.NMPerLatitude
		for i := range bands.Len() {
			lat := table[bands.At(i)].Airport.Latitude
			inside := lat >= center-dlat && lat <= center+dlat
			if inside != (i >= lo && i < hi) {
				t.Fatalf("center %f half width %f: position %d lat %f inside=%v but band is [%d,%d)",
					center, halfWidth, i, lat, inside, lo, hi)
			}
		}

		if lb := bands.LowerBound(center); lb < bands.Len() && bands.lats[lb] < center {
			t.Errorf("LowerBound(%f) = %d has latitude %f", center, lb, bands.lats[lb])
		} else if lb > 0 && bands.lats[lb-1] >= center {
			t.Errorf("LowerBound(%f) = %d but %d has latitude %f", center, lb, lb-1, bands.lats[lb-1])
		}
	}

	if lo, hi := bands.BandFor(10, -1); lo != hi {
		t.Errorf("negative width should give an empty band")
	}
}

func TestLatitudeBandsContainRadius(t *testing.T) {
	r := rand.Make()
	r.Seed(12)
	table := BuildTable(randomAirports(r, 2000))
	bands := NewLatitudeBands(table)

	for range 200 {
		dep := r.Intn(len(table))
		radius := 5 + 2000*r.Float64()
		lo, hi := bands.BandFor(table[dep].Airport.Latitude, radius)
		inBand := make(map[int]bool)
		for i := lo; i < hi; i++ {
			inBand[bands.At(i)] = true
		}

		th := math.HavThreshold(radius)
		for i := range table {
			if table[dep].WithinRadius(&table[i], th) && !inBand[i] {
				t.Fatalf("airport %d is within %fnm of %d but not in its band", i, radius, dep)
			}
		}
	}
}

func TestSpatialQueryRadius(t *testing.T) {
	r := rand.Make()
	r.Seed(13)
	table := BuildTable(randomAirports(r, numTestAirports()))
	spatial := NewSpatialIndex(table)

	for _, radius := range []float64{0, 5, 50, 100, 250, 500, 1500, 5000, 10000, 11000} {
		for range 40 {
			center := table[r.Intn(len(table))].Trig
			th := math.HavThreshold(radius)

			var expected []int
			for i := range table {
				if math.WithinRadius(center, table[i].Trig, th) {
					expected = append(expected, i)
				}
			}

			got := slices.Sorted(spatial.QueryRadius(center, radius))
			if !slices.Equal(got, expected) {
				t.Fatalf("radius %f around (%f,%f): got %d airports, expected %d", radius,
					math.Degrees(center.Lat), math.Degrees(center.Lon), len(got), len(expected))
			}
		}
	}

	if n := len(slices.Collect(spatial.QueryRadius(table[0].Trig, -1))); n != 0 {
		t.Errorf("negative radius returned %d airports", n)
	}
}

func TestSpatialQueryDateLine(t *testing.T) {
	airports := []*aviation.Airport{
		makeAirport(1, "EAST", 0, 179.9, 5000),
		makeAirport(2, "WEST", 0, -179.9, 5000),
		makeAirport(3, "FARW", 0, -170, 5000),
		makeAirport(4, "POLE", 89.9, 0, 5000),
		makeAirport(5, "OPPO", 89.9, 180, 5000),
	}
	table := BuildTable(airports)
	spatial := NewSpatialIndex(table)

	got := slices.Sorted(spatial.QueryRadius(table[0].Trig, 20))
	if !slices.Equal(got, []int{0, 1}) {
		t.Errorf("expected airports on both sides of the date line, got %v", got)
	}

	got = slices.Sorted(spatial.QueryRadius(table[3].Trig, 15))
	if !slices.Equal(got, []int{3, 4}) {
		t.Errorf("expected both airports near the pole, got %v", got)
	}
}

func TestSnapshot(t *testing.T) {
	airports := []*aviation.Airport{
		makeAirport(10, "EHAM", 52.3086, 4.7639, 12467),
		makeAirport(20, "EHRD", 51.9561, 4.4397, 7218),
		makeAirport(30, "EGLL", 51.4700, -0.4543, 12799),
	}
	snap := NewSnapshot(airports, 16, nil)

	if idx, ok := snap.Lookup(20); !ok || idx != 1 {
		t.Errorf("Lookup(20) = %d, %v", idx, ok)
	}
	if _, ok := snap.Lookup(40); ok {
		t.Errorf("Lookup(40) succeeded")
	}
	if idx, ok := snap.LookupICAO("egll"); !ok || idx != 2 {
		t.Errorf("LookupICAO(egll) = %d, %v", idx, ok)
	}
	if idx := snap.Nearest(math.Point2LL{4.5, 52}); idx != 1 {
		t.Errorf("expected EHRD nearest, got %d", idx)
	}

	n := snap.Neighbors(0, 30)
	if !slices.Equal(n, []int{0, 1}) {
		t.Errorf("Neighbors(EHAM, 30) = %v", n)
	}
	if snap.neighbors.Len() != 1 {
		t.Errorf("expected neighbor list to be cached")
	}
	if n2 := snap.Neighbors(0, 30); !slices.Equal(n, n2) {
		t.Errorf("cached neighbors %v differ from %v", n2, n)
	}

	if err := snap.consistent(); err != nil {
		t.Errorf("unexpected error %v", err)
	}
	bad := *snap
	bad.Table = bad.Table[:2]
	if err := bad.consistent(); !errors.Is(err, ErrInconsistentDataset) {
		t.Errorf("expected ErrInconsistentDataset, got %v", err)
	}
	var nilSnap *Snapshot
	if err := nilSnap.consistent(); !errors.Is(err, ErrInconsistentDataset) {
		t.Errorf("expected ErrInconsistentDataset for nil snapshot, got %v", err)
	}
}

func TestStoreSwap(t *testing.T) {
	a := NewSnapshot([]*aviation.Airport{makeAirport(1, "AAAA", 0, 0)}, 0, nil)
	b := NewSnapshot([]*aviation.Airport{makeAirport(1, "AAAA", 0, 0), makeAirport(2, "BBBB", 1, 1)}, 0, nil)
	st := NewStore(a)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				s := st.Load()
				if err := s.consistent(); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	if old := st.Swap(b); old != a {
		t.Errorf("Swap didn't return the previous snapshot")
	}
	wg.Wait()

	if st.Load() != b {
		t.Errorf("Load didn't return the new snapshot")
	}
}

func TestTuning(t *testing.T) {
	if err := DefaultTuning().Validate(); err != nil {
		t.Errorf("default tuning invalid: %v", err)
	}

	for _, mod := range []func(*Tuning){
		func(t *Tuning) { t.SmallRadiusNM = -1 },
		func(t *Tuning) { t.LargeRadiusNM = 50 },
		func(t *Tuning) { t.MaxAttempts = 0 },
		func(t *Tuning) { t.BandAttemptsPerDeparture = 0 },
		func(t *Tuning) { t.SpatialDepartureAttempts = -1 },
		func(t *Tuning) { t.NeighborCacheSize = -1 },
		func(t *Tuning) { t.MinRangeFraction = 0 },
		func(t *Tuning) { t.MinRangeFraction = 1.5 },
	} {
		tu := DefaultTuning()
		mod(&tu)
		if err := tu.Validate(); !errors.Is(err, ErrInvalidTuning) {
			t.Errorf("%+v: expected ErrInvalidTuning, got %v", tu, err)
		}
	}
}

func TestChooseStrategy(t *testing.T) {
	tu := DefaultTuning()
	for radius, s := range map[float64]Strategy{
		5000: StrategyGlobal,
		501:  StrategyGlobal,
		500:  StrategyBand,
		101:  StrategyBand,
		100:  StrategySpatial,
		10:   StrategySpatial,
	} {
		if got := ChooseStrategy(radius, tu); got != s {
			t.Errorf("radius %f: got %s, expected %s", radius, got, s)
		}
	}

	for _, s := range []Strategy{StrategyAuto, StrategyGlobal, StrategyBand, StrategySpatial} {
		if p, err := ParseStrategy(s.String()); err != nil || p != s {
			t.Errorf("%s: parsed as %s (%v)", s, p, err)
		}
	}
	if _, err := ParseStrategy("rtree"); err == nil {
		t.Errorf("expected error for unknown strategy")
	}
}

func BenchmarkSpatialQueryRadius(b *testing.B) {
	r := rand.Make()
	table := BuildTable(randomAirports(r, 40000))
	spatial := NewSpatialIndex(table)

	b.ResetTimer()
	n := 0
	for i := 0; i < b.N; i++ {
		for range spatial.QueryRadius(table[i%len(table)].Trig, 100) {
			n++
		}
	}
	_ = n
}
