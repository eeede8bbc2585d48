// util/util_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestErrorLogger(t *testing.T) {
	var e ErrorLogger
	if e.HaveErrors() || e.Err() != nil {
		t.Fatalf("fresh ErrorLogger reports errors")
	}

	errBad := errors.New("bad runway")
	e.Push("EHAM")
	e.Push("18R/36L")
	e.Error(errBad)
	e.Pop()
	e.ErrorString("elevation %d out of range", 99999)
	e.Pop()
	e.ErrorString("top level")

	expected := []string{
		"EHAM / 18R/36L: bad runway",
		"EHAM: elevation 99999 out of range",
		"top level",
	}
	if !reflect.DeepEqual(e.Errors(), expected) {
		t.Errorf("got errors %q, expected %q", e.Errors(), expected)
	}
	if e.CurrentDepth() != 0 {
		t.Errorf("expected depth 0, got %d", e.CurrentDepth())
	}

	err := e.Err()
	if !errors.Is(err, errBad) {
		t.Errorf("errors.Is failed to find wrapped error in %v", err)
	}
	if err.Error() != strings.Join(expected, "\n") {
		t.Errorf("unexpected error message %q", err.Error())
	}
}

func TestUnmarshalJSONErrors(t *testing.T) {
	var v struct {
		Elevation int `json:"elevation"`
	}
	err := UnmarshalJSON([]byte("{\n  \"elevation\": \"high\"\n}"), &v)
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("expected type error on line 2, got %v", err)
	}

	err = UnmarshalJSON([]byte("{\n\n  \"elevation\": 12,,\n}"), &v)
	if err == nil || !strings.Contains(err.Error(), "line 3") {
		t.Errorf("expected syntax error on line 3, got %v", err)
	}
}

type testRunway struct {
	Length int `json:"length_ft"`
}

type testAirport struct {
	ICAO    string       `json:"icao"`
	Runways []testRunway `json:"runways,omitempty"`
}

func TestCheckJSON(t *testing.T) {
	var e ErrorLogger
	CheckJSON[[]testAirport]([]byte(`[{"icao": "EHAM", "runways": [{"length_ft": 12000}]}]`), &e)
	if e.HaveErrors() {
		t.Errorf("unexpected errors: %s", e.String())
	}

	CheckJSON[[]testAirport]([]byte(`[{"icao": "EHAM", "runways": [{"lenght_ft": 12000}]}]`), &e)
	if !e.HaveErrors() {
		t.Fatalf("misspelled key not reported")
	}
	if msg := e.String(); !strings.Contains(msg, "[0] / runways / [0]") || !strings.Contains(msg, "lenght_ft") {
		t.Errorf("error lacks context: %s", msg)
	}

	e = ErrorLogger{}
	CheckJSON[testRunway]([]byte(`{"rate%d": 1}`), &e)
	if msg := e.String(); !strings.Contains(msg, `"rate%d"`) || strings.Contains(msg, "%!") {
		t.Errorf("misspelled key not reported verbatim: %s", msg)
	}
}

func TestFormatForPath(t *testing.T) {
	for path, f := range map[string]FileFormat{
		"airports.json":        {},
		"fleet.msgpack":        {MsgPack: true},
		"dir/history.json.zst": {Compressed: true},
		"AIRPORTS.MSGPACK.ZST": {MsgPack: true, Compressed: true},
	} {
		got, err := FormatForPath(path)
		if err != nil {
			t.Errorf("%s: unexpected error %v", path, err)
		} else if got != f {
			t.Errorf("%s: got %+v, expected %+v", path, got, f)
		}
	}

	for _, path := range []string{"airports.csv", "fleet", "x.zst"} {
		if _, err := FormatForPath(path); !errors.Is(err, ErrUnknownFileFormat) {
			t.Errorf("%s: expected ErrUnknownFileFormat, got %v", path, err)
		}
	}
}

func TestDataFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	airports := []testAirport{
		{ICAO: "EHAM", Runways: []testRunway{{Length: 12467}, {Length: 11483}}},
		{ICAO: "EHRD", Runways: []testRunway{{Length: 7218}}},
	}

	for _, name := range []string{"a.json", "a.json.zst", "a.msgpack", "a.msgpack.zst"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := EncodeDataFile(path, airports); err != nil {
				t.Fatal(err)
			}

			var e ErrorLogger
			var got []testAirport
			if err := DecodeDataFile(path, &got, &e); err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, airports) {
				t.Errorf("got %+v, expected %+v", got, airports)
			}
		})
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 4 {
		t.Errorf("expected 4 files with temporaries cleaned up, found %d", len(entries))
	}
}

func TestDecodeDataFileReportsMisspelling(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`[{"icoa": "EHAM"}]`), 0o600); err != nil {
		t.Fatal(err)
	}

	var e ErrorLogger
	var got []testAirport
	err := DecodeDataFile(path, &got, &e)
	if err == nil || !strings.Contains(err.Error(), "bad.json") || !strings.Contains(err.Error(), "icoa") {
		t.Errorf("expected misspelling error with file context, got %v", err)
	}
}

func TestNilProfilerCleanup(t *testing.T) {
	var p *Profiler
	p.Cleanup()

	p, err := CreateProfiler("", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	p.Cleanup()
	p.Cleanup()
}

func TestProfilerCleanup(t *testing.T) {
	dir := t.TempDir()
	cpu, mem := filepath.Join(dir, "cpu.prof"), filepath.Join(dir, "mem.prof")

	p, err := CreateProfiler(cpu, mem, nil)
	if err != nil {
		t.Fatal(err)
	}
	p.Cleanup()
	p.Cleanup()

	for _, fn := range []string{cpu, mem} {
		if fi, err := os.Stat(fn); err != nil {
			t.Errorf("%s: %v", fn, err)
		} else if fi.Size() == 0 {
			t.Errorf("%s: empty profile", fn)
		}
	}

	// Cleanup must have stopped CPU profiling so that it can start again.
	p, err = CreateProfiler(filepath.Join(dir, "cpu2.prof"), "", nil)
	if err != nil {
		t.Fatalf("CPU profiling still running: %v", err)
	}
	p.Cleanup()
}
