// cmd/fplanner/config.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fplanner/fplanner/log"
	"github.com/fplanner/fplanner/routes"
	"github.com/fplanner/fplanner/util"
)

// Config holds the settings that persist between runs. Command-line
// flags take precedence over anything given here.
type Config struct {
	AirportsFile string          `json:"airports_file,omitempty"`
	FleetFile    string          `json:"fleet_file,omitempty"`
	HistoryFile  string          `json:"history_file,omitempty"`
	Count        int             `json:"count,omitempty"`
	Strategy     routes.Strategy `json:"strategy"`
	Tuning       routes.Tuning   `json:"tuning"`
}

func getDefaultConfig() *Config {
	return &Config{
		Count:  routes.DefaultGenerateCount,
		Tuning: routes.DefaultTuning(),
	}
}

func configFilePath(lg *log.Logger) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		lg.Errorf("Unable to find user config dir: %v", err)
		dir = "."
	}
	return filepath.Join(dir, "FPlanner", "config.json")
}

// LoadOrMakeDefaultConfig reads the config file at fn. A missing file
// isn't an error; the defaults are returned instead. Settings that the
// file doesn't mention keep their default values.
func LoadOrMakeDefaultConfig(fn string, lg *log.Logger) (*Config, error) {
	config := getDefaultConfig()

	if _, err := os.Stat(fn); errors.Is(err, fs.ErrNotExist) {
		lg.Infof("%s: no config file; using defaults", fn)
		return config, nil
	}

	lg.Infof("Loading config from: %s", fn)
	var e util.ErrorLogger
	if err := util.DecodeDataFile(fn, config, &e); err != nil {
		return getDefaultConfig(), err
	}
	if err := config.Tuning.Validate(); err != nil {
		return getDefaultConfig(), err
	}
	return config, nil
}

func (c *Config) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(c)
}

func (c *Config) Save(fn string, lg *log.Logger) error {
	lg.Infof("Saving config to: %s", fn)
	if err := os.MkdirAll(filepath.Dir(fn), 0o700); err != nil {
		return err
	}

	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer f.Close()

	return c.Encode(f)
}
