// rand/rand.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package rand

import (
	"iter"

	"github.com/MichaelTJones/pcg"
)

///////////////////////////////////////////////////////////////////////////
// Random numbers.

// Rand is a PCG32 pseudo-random number generator. There is deliberately
// no package-level generator: everything that needs randomness takes a
// *Rand so that results are a function of the seed alone. A Rand must
// not be used concurrently from multiple goroutines.
type Rand struct {
	r *pcg.PCG32
}

const defaultStream = 0xda3e39cb94b95bdb

// Make returns a new generator with PCG's default state; call Seed to
// get a different sequence.
func Make() *Rand {
	return &Rand{r: pcg.NewPCG32()}
}

func (r *Rand) Seed(s int64) {
	r.r.Seed(uint64(s), defaultStream)
}

// SeedStream seeds the generator and selects one of PCG's 2^63
// independent streams, so that e.g. workers that share a base seed
// still get uncorrelated sequences.
func (r *Rand) SeedStream(s int64, stream uint64) {
	// PCG discards the high bit of the stream selector.
	r.r.Seed(uint64(s), defaultStream^stream)
}

func (r *Rand) Intn(n int) int {
	return int(r.r.Bounded(uint32(n)))
}

func (r *Rand) Float32() float32 {
	return float32(r.r.Random()) / (1<<32 - 1)
}

// Float64 returns a value in [0,1).
func (r *Rand) Float64() float64 {
	v := uint64(r.r.Random())<<32 | uint64(r.r.Random())
	return float64(v>>11) / (1 << 53)
}

func (r *Rand) Uint32() uint32 {
	return r.r.Random()
}

// PermutationElement returns the ith element of a random permutation of the
// set of integers [0...,n-1].
// i/n, p is hash, via Andrew Kensler
func PermutationElement(i int, n int, p uint32) int {
	ui, l := uint32(i), uint32(n)
	w := l - 1
	w |= w >> 1
	w |= w >> 2
	w |= w >> 4
	w |= w >> 8
	w |= w >> 16
	for {
		ui ^= p
		ui *= 0xe170893d
		ui ^= p >> 16
		ui ^= (ui & w) >> 4
		ui ^= p >> 8
		ui *= 0x0929eb3f
		ui ^= p >> 23
		ui ^= (ui & w) >> 1
		ui *= 1 | p>>27
		ui *= 0x6935fa69
		ui ^= (ui & w) >> 11
		ui *= 0x74dcb303
		ui ^= (ui & w) >> 2
		ui *= 0x9e501cc3
		ui ^= (ui & w) >> 2
		ui *= 0xc860a3df
		ui &= w
		ui ^= ui >> 5
		if ui < l {
			break
		}
	}
	return int((ui + p) % l)
}

// Permutation returns an iterator over a random permutation of
// [0,...,n-1]; each value is produced exactly once.
func Permutation(r *Rand, n int) iter.Seq[int] {
	return func(yield func(int) bool) {
		if n <= 0 {
			return
		}
		p := r.Uint32()
		for i := range n {
			if !yield(PermutationElement(i, n, p)) {
				return
			}
		}
	}
}

// SampleFiltered uniformly randomly samples a slice, returning the index
// of the sampled item, using provided predicate function to filter the
// items that may be sampled.  An index of -1 is returned if the slice is
// empty or the predicate returns false for all items.
func SampleFiltered[T any](r *Rand, slice []T, pred func(T) bool) int {
	idx := -1
	candidates := 0
	for i, v := range slice {
		if pred(v) {
			candidates++
			if r.Intn(candidates) == 0 {
				idx = i
			}
		}
	}
	return idx
}
