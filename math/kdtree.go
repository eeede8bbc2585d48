// math/kdtree.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"cmp"
	"iter"
	gomath "math"
	"slices"
)

// KDTree is a static balanced 2D k-d tree over Point2LLs. Rather than
// allocating nodes, the points are stored in a flat slice in tree order:
// the subtree for nodes[lo:hi] has its splitting point at the midpoint
// (lo+hi)/2, with the left subtree before it and the right subtree after
// it. Each point remembers the index it had in the slice given to
// BuildKDTree so that callers can keep their own parallel tables.
type KDTree struct {
	nodes []kdNode
}

type kdNode struct {
	Location Point2LL
	Index    int32
}

// BuildKDTree constructs a balanced KD-tree from a slice of points; the
// provided slice is not modified.  The tree alternates splitting by X
// (longitude) and Y (latitude) at each level.
func BuildKDTree(points []Point2LL) *KDTree {
	t := &KDTree{nodes: make([]kdNode, len(points))}
	for i, p := range points {
		t.nodes[i] = kdNode{Location: p, Index: int32(i)}
	}
	t.build(0, len(t.nodes), 0)
	return t
}

func (t *KDTree) build(lo, hi, depth int) {
	if hi-lo <= 1 {
		return
	}

	// Sort by the splitting axis; ties are broken by index so that the
	// layout is a pure function of the input.
	axis := depth % 2
	slices.SortFunc(t.nodes[lo:hi], func(a, b kdNode) int {
		if c := cmp.Compare(a.Location[axis], b.Location[axis]); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})

	mid := (lo + hi) / 2
	t.build(lo, mid, depth+1)
	t.build(mid+1, hi, depth+1)
}

// Len returns the number of points stored in the tree.
func (t *KDTree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.nodes)
}

// InBox returns an iterator over the indices of all of the points inside
// the given extent (inclusive). The order of the indices is determined
// by the tree's layout and is the same across calls.
func (t *KDTree) InBox(e Extent2D) iter.Seq[int] {
	return func(yield func(int) bool) {
		if t != nil {
			t.inBox(0, len(t.nodes), 0, e, yield)
		}
	}
}

func (t *KDTree) inBox(lo, hi, depth int, e Extent2D, yield func(int) bool) bool {
	if lo >= hi {
		return true
	}

	mid := (lo + hi) / 2
	n := &t.nodes[mid]
	axis := depth % 2
	v := n.Location[axis]

	if e.P0[axis] <= v && !t.inBox(lo, mid, depth+1, e, yield) {
		return false
	}
	if e.Inside(n.Location) && !yield(int(n.Index)) {
		return false
	}
	if e.P1[axis] >= v && !t.inBox(mid+1, hi, depth+1, e, yield) {
		return false
	}
	return true
}

// Nearest returns the index of the point closest to p, or -1 if the tree
// is empty. Distances are measured in a flat-earth nautical mile frame
// centered at p's latitude, which is fine for picking the closest of a
// set of nearby points but doesn't account for the date line.
func (t *KDTree) Nearest(p Point2LL) int {
	if t.Len() == 0 {
		return -1
	}

	scale := [2]float32{NMPerLongitudeAt(p[1]), NMPerLatitude}
	best, bestDist := -1, float32(gomath.MaxFloat32)

	var search func(lo, hi, depth int)
	search = func(lo, hi, depth int) {
		if lo >= hi {
			return
		}

		mid := (lo + hi) / 2
		n := &t.nodes[mid]
		d := Sqr((n.Location[0]-p[0])*scale[0]) + Sqr((n.Location[1]-p[1])*scale[1])
		if d < bestDist || (d == bestDist && int(n.Index) < best) {
			best, bestDist = int(n.Index), d
		}

		axis := depth % 2
		diff := (p[axis] - n.Location[axis]) * scale[axis]
		if diff < 0 {
			search(lo, mid, depth+1)
			if Sqr(diff) <= bestDist {
				search(mid+1, hi, depth+1)
			}
		} else {
			search(mid+1, hi, depth+1)
			if Sqr(diff) <= bestDist {
				search(lo, mid, depth+1)
			}
		}
	}
	search(0, len(t.nodes), 0)

	return best
}
