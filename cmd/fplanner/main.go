// cmd/fplanner/main.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

// fplanner suggests random flights for aircraft in a fleet, choosing
// departure and destination airports that the aircraft has the range
// and runway performance to fly between.

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	av "github.com/fplanner/fplanner/aviation"
	"github.com/fplanner/fplanner/log"
	"github.com/fplanner/fplanner/math"
	"github.com/fplanner/fplanner/routes"
	"github.com/fplanner/fplanner/util"

	"github.com/apenwarr/fixconsole"
	"github.com/goforj/godump"
	"github.com/iancoleman/orderedmap"
)

var (
	airportsFile    = flag.String("airports", "", "airport database (.json or .msgpack, optionally .zst compressed)")
	fleetFile       = flag.String("fleet", "", "aircraft fleet file")
	historyFile     = flag.String("history", "", "flight log of previously flown routes")
	aircraftID      = flag.Int("aircraft", 0, "only suggest routes for the aircraft with this id")
	departure       = flag.String("departure", "", "ICAO code of the departure airport")
	near            = flag.String("near", "", "depart from the airport closest to this latitude, longitude")
	unflown         = flag.Bool("unflown", false, "only suggest destinations the aircraft hasn't flown to")
	unflownAircraft = flag.Bool("unflown-aircraft", false, "only suggest routes for aircraft that haven't been flown")
	count           = flag.Int("count", 0, "number of routes to suggest")
	seed            = flag.Int64("seed", 0, "random seed (0: use the current time)")
	strategy        = flag.String("strategy", "", "route selection strategy: auto, global, band, or spatial")
	jsonOutput      = flag.Bool("json", false, "print routes as JSON")
	dumpOutput      = flag.Bool("dump", false, "dump the full route records")
	configFile      = flag.String("config", "", "config file (default: FPlanner/config.json in the user config directory)")
	saveConfig      = flag.Bool("saveconfig", false, "save the effective settings to the config file and exit")
	check           = flag.Bool("check", false, "check the airport, fleet, and history files for errors and exit")
	convert         = flag.String("convert", "", "write the airport database to this file, converting formats by extension, and exit")
	cpuprofile      = flag.String("cpuprofile", "", "write CPU profile to file")
	memprofile      = flag.String("memprofile", "", "write memory profile to this file")
	logLevel        = flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir          = flag.String("logdir", "", "log file directory")
)

func main() {
	flag.Parse()

	if err := fixconsole.FixConsoleIfNeeded(); err != nil {
		fmt.Printf("FixConsole: %v\n", err)
	}

	lg := log.New(*logLevel, *logDir)

	profiler, err := util.CreateProfiler(*cpuprofile, *memprofile, lg)
	if err != nil {
		lg.Errorf("%v", err)
	}

	code := run(lg)
	profiler.Cleanup()
	os.Exit(code)
}

func run(lg *log.Logger) int {
	fail := func(err error) int {
		lg.Errorf("%v", err)
		fmt.Fprintf(os.Stderr, "fplanner: %v\n", err)
		return 1
	}

	fn := *configFile
	if fn == "" {
		fn = configFilePath(lg)
	}
	config, err := LoadOrMakeDefaultConfig(fn, lg)
	if err != nil {
		return fail(err)
	}
	if err := applyFlags(config); err != nil {
		return fail(err)
	}

	if *saveConfig {
		if err := config.Save(fn, lg); err != nil {
			return fail(err)
		}
		return 0
	}

	if *check {
		var e util.ErrorLogger
		checkDataFiles(config, &e)
		if e.HaveErrors() {
			e.PrintErrors(lg)
			return 1
		}
		fmt.Println("No errors found")
		return 0
	}

	if config.AirportsFile == "" {
		return fail(errors.New("no airport database given; use -airports or set airports_file in the config"))
	}
	airports, err := av.LoadAirports(config.AirportsFile)
	if err != nil {
		return fail(err)
	}
	lg.Infof("%s: loaded %d airports", config.AirportsFile, len(airports))

	if *convert != "" {
		if err := av.SaveAirports(*convert, airports); err != nil {
			return fail(err)
		}
		return 0
	}

	if config.FleetFile == "" {
		return fail(errors.New("no fleet given; use -fleet or set fleet_file in the config"))
	}
	fleet, err := av.LoadFleet(config.FleetFile)
	if err != nil {
		return fail(err)
	}
	if *aircraftID != 0 {
		if fleet, err = selectAircraft(fleet, *aircraftID); err != nil {
			return fail(err)
		}
	}

	var history routes.HistoryPredicate
	if config.HistoryFile != "" {
		entries, err := av.LoadFlightLog(config.HistoryFile)
		if err != nil {
			return fail(err)
		}
		fl := av.NewFlightLog(entries, airports)
		lg.Infof("%s: %d flights, %d flown aircraft destinations", config.HistoryFile, len(entries), fl.Len())
		history = fl
	} else if *unflown {
		lg.Warn("-unflown given without a flight log; all destinations are unflown")
	}

	store := routes.NewStore(routes.NewSnapshot(airports, config.Tuning.NeighborCacheSize, lg))

	opts := routes.GenerateOptions{
		Count:               config.Count,
		OnlyUnflownAircraft: *unflownAircraft,
		DepartureICAO:       *departure,
		Unflown:             *unflown,
		Strategy:            config.Strategy,
		Seed:                *seed,
	}
	if opts.Seed == 0 {
		opts.Seed = lg.Start.UnixNano()
	}
	if *near != "" {
		if opts.DepartureICAO != "" {
			return fail(errors.New("only one of -departure and -near may be given"))
		}
		if opts.DepartureICAO, err = nearestAirport(store.Load(), *near, lg); err != nil {
			return fail(err)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	gen := routes.NewGenerator(store, config.Tuning, history, lg)
	rcs, err := gen.Generate(ctx, fleet, opts)
	if errors.Is(err, routes.ErrNoRoute) {
		fmt.Fprintln(os.Stderr, "fplanner: no routes found that satisfy the aircraft's range and runway requirements")
		return 2
	} else if err != nil {
		return fail(err)
	}

	if err := printRoutes(os.Stdout, rcs); err != nil {
		return fail(err)
	}
	return 0
}

// applyFlags overrides config with the settings given on the command line.
func applyFlags(config *Config) error {
	if *airportsFile != "" {
		config.AirportsFile = *airportsFile
	}
	if *fleetFile != "" {
		config.FleetFile = *fleetFile
	}
	if *historyFile != "" {
		config.HistoryFile = *historyFile
	}
	if *count > 0 {
		config.Count = *count
	}
	if *strategy != "" {
		s, err := routes.ParseStrategy(*strategy)
		if err != nil {
			return err
		}
		config.Strategy = s
	}
	return nil
}

// checkDataFiles loads all of the configured data files and reports every
// problem found through e, including aircraft whose performance data
// would keep them from being given routes.
func checkDataFiles(config *Config, e *util.ErrorLogger) {
	if config.AirportsFile == "" {
		e.ErrorString("no airport database given")
	} else if _, err := av.LoadAirports(config.AirportsFile); err != nil {
		e.Error(err)
	}

	if config.FleetFile == "" {
		e.ErrorString("no fleet given")
	} else if fleet, err := av.LoadFleet(config.FleetFile); err != nil {
		e.Error(err)
	} else {
		e.Push(filepath.Base(config.FleetFile))
		for _, ac := range fleet {
			if err := ac.Validate(); err != nil {
				e.Push(fmt.Sprintf("aircraft %d", ac.ID))
				e.Error(err)
				e.Pop()
			}
		}
		e.Pop()
	}

	if config.HistoryFile != "" {
		if _, err := av.LoadFlightLog(config.HistoryFile); err != nil {
			e.Error(err)
		}
	}
}

func selectAircraft(fleet []av.Aircraft, id int) ([]av.Aircraft, error) {
	for _, ac := range fleet {
		if ac.ID == id {
			return []av.Aircraft{ac}, nil
		}
	}
	return nil, fmt.Errorf("aircraft %d: %w", id, av.ErrUnknownAircraft)
}

func nearestAirport(snap *routes.Snapshot, loc string, lg *log.Logger) (string, error) {
	p, err := math.ParseLatLong(loc)
	if err != nil {
		return "", err
	}
	idx := snap.Nearest(p)
	if idx == -1 || snap.Airports[idx].ICAO == "" {
		return "", fmt.Errorf("%s: no airport with an ICAO code found nearby", loc)
	}
	lg.Infof("%s: departing from nearest airport %s", p.DDString(), snap.Airports[idx].Label())
	return snap.Airports[idx].ICAO, nil
}

func printRoutes(w io.Writer, rcs []routes.RouteCandidate) error {
	switch {
	case *dumpOutput:
		godump.Fdump(w, rcs)
		return nil

	case *jsonOutput:
		return writeRoutesJSON(w, rcs)

	default:
		for _, rc := range rcs {
			fmt.Fprintln(w, rc.String())
			fmt.Fprintf(w, "    Aircraft:    %s\n", rc.Aircraft)
			fmt.Fprintf(w, "    Departure:   %s, longest runway %d ft\n", rc.Departure, rc.DepartureRunway)
			fmt.Fprintf(w, "    Destination: %s, longest runway %d ft\n", rc.Destination, rc.DestinationRunway)
		}
		return nil
	}
}

// writeRoutesJSON writes the routes as an array of objects whose keys are
// in a fixed, human-friendly order.
func writeRoutesJSON(w io.Writer, rcs []routes.RouteCandidate) error {
	var objs []*orderedmap.OrderedMap
	for _, rc := range rcs {
		o := orderedmap.New()
		o.Set("aircraft_id", rc.Aircraft.ID)
		o.Set("aircraft", rc.Aircraft.Name())
		o.Set("departure", strings.ToUpper(rc.Departure.ICAO))
		o.Set("departure_name", rc.Departure.Name)
		o.Set("destination", strings.ToUpper(rc.Destination.ICAO))
		o.Set("destination_name", rc.Destination.Name)
		o.Set("distance_nm", rc.DistanceNM)
		o.Set("departure_runway_ft", rc.DepartureRunway)
		o.Set("destination_runway_ft", rc.DestinationRunway)
		o.Set("strategy", rc.Strategy)
		objs = append(objs, o)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(objs)
}
