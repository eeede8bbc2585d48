// util/prof.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"fmt"
	"os"
	"runtime/pprof"
	"sync"

	"github.com/fplanner/fplanner/log"
)

// Profiler manages optional CPU and heap profiles for a command-line run.
// Profiles are written when Cleanup is called, so the caller must run it
// on every exit path, including interruption.
type Profiler struct {
	cpu, mem *os.File
	lg       *log.Logger
	once     sync.Once
}

func CreateProfiler(cpu, mem string, lg *log.Logger) (*Profiler, error) {
	p := &Profiler{lg: lg}

	var err error
	if cpu != "" {
		if p.cpu, err = os.Create(cpu); err != nil {
			return nil, fmt.Errorf("%s: unable to create CPU profile file: %w", cpu, err)
		} else if err = pprof.StartCPUProfile(p.cpu); err != nil {
			p.cpu.Close()
			return nil, fmt.Errorf("unable to start CPU profile: %w", err)
		}
	}

	if mem != "" {
		if p.mem, err = os.Create(mem); err != nil {
			if p.cpu != nil {
				pprof.StopCPUProfile()
				p.cpu.Close()
			}
			return nil, fmt.Errorf("%s: unable to create memory profile file: %w", mem, err)
		}
	}

	return p, nil
}

// Cleanup stops CPU profiling and writes the heap profile; it is safe to
// call more than once and on a nil *Profiler.
func (p *Profiler) Cleanup() {
	if p == nil {
		return
	}
	p.once.Do(func() {
		if p.cpu != nil {
			pprof.StopCPUProfile()
			p.cpu.Close()
			p.lg.Infof("%s: wrote CPU profile", p.cpu.Name())
		}
		if p.mem != nil {
			if err := pprof.WriteHeapProfile(p.mem); err != nil {
				p.lg.Errorf("%s: unable to write memory profile file: %v", p.mem.Name(), err)
			} else {
				p.lg.Infof("%s: wrote memory profile", p.mem.Name())
			}
			p.mem.Close()
		}
	})
}
