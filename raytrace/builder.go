// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package raytrace

import "sort"

// builder.go: the SAH tree builder shared by every concrete
// acceleration structure: three axis-sorted primitive views, the
// surface-area-heuristic and mean object splits, and the stable
// partition that keeps all three views aligned after a split.

type primEntry struct {
	handle Handle
	bb     Box
	cost   float64
}

// Builder collects primitives and, once Done, holds three axis-sorted
// permutations of the same multiset. A zero Builder is ready to use.
type Builder struct {
	entries []primEntry
	sorted  [3][]int
	done    bool

	index map[ownerKey]*Primitive

	// cancel is polled by Done (and, for trees with their own
	// multi-pass build, by those passes too) so a long build can be
	// aborted mid-way. Wired by the package-level Done entry point via
	// the cancellable interface, never set directly by callers.
	cancel func() bool
}

// ownerKey identifies a primitive by its caller-supplied (object, face)
// owner pair, used to recover the origin face's geometry for the
// near-hit re-test. The handles are otherwise opaque; this assumes they
// are comparable (pointers, ints, or other hashable values), which is
// how callers identify mesh elements in practice.
type ownerKey struct{ object, face any }

// Add appends a primitive to the builder. Valid only before Done.
// A handle whose bounding box has a non-finite coordinate, an inverted
// axis, or zero extent on all three axes is dropped silently: upstream
// geometry pipelines occasionally emit such degenerates and the tracer
// tolerates them rather than indexing them.
func (b *Builder) Add(h Handle) {
	bb := h.BB()
	if !bb.Finite() || bb.Degenerate() {
		return
	}
	b.entries = append(b.entries, primEntry{handle: h, bb: bb, cost: h.Cost()})
	if p, ok := h.Primitive(); ok {
		if b.index == nil {
			b.index = map[ownerKey]*Primitive{}
		}
		b.index[ownerKey{p.Object, p.Face}] = p
	}
}

// Reserve preallocates the entry slice for n primitives, matching the
// capacity the public Create* entry points accept.
func (b *Builder) Reserve(n int) {
	if n > 0 {
		b.entries = make([]primEntry, 0, n)
	}
}

// lookup recovers the *Primitive added under (object, face), used to
// wire Ray.OriginLookup for the near-hit re-test.
func (b *Builder) lookup(object, face any) (*Primitive, bool) {
	p, ok := b.index[ownerKey{object, face}]
	return p, ok
}

// Len reports how many primitives have been added.
func (b *Builder) Len() int { return len(b.entries) }

// BB returns the union bounding box of everything added so far.
func (b *Builder) BB() Box {
	bb := EmptyBox()
	for _, e := range b.entries {
		bb.Union(e.bb)
	}
	return bb
}

// Done stable-sorts each of the three axis views on its own axis using
// (min-coord, insertion-index) as key. The insertion-index tiebreaker
// gives the same
// determinism guarantee (identical coordinates always sort the same
// way) without relying on Go's non-deterministic pointer identity.
// cancel is polled between axes; if it reports true the build aborts
// and Done returns ErrCancelled.
func (b *Builder) Done(cancel func() bool) error {
	n := len(b.entries)
	for axis := 0; axis < 3; axis++ {
		if cancel != nil && cancel() {
			return ErrCancelled
		}
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(i, j int) bool {
			return minCoord(b.entries[idx[i]].bb, axis) < minCoord(b.entries[idx[j]].bb, axis)
		})
		b.sorted[axis] = idx
	}
	b.done = true
	return nil
}

func minCoord(bb Box, axis int) float64 {
	switch axis {
	case 0:
		return bb.MinX
	case 1:
		return bb.MinY
	default:
		return bb.MinZ
	}
}

// view is a sub-range of a finished Builder's three sorted arrays,
// referencing the same backing entries without copying them: a
// contiguous window of all three axis-sorted arrays handed to a
// recursive child build.
type view struct {
	entries []primEntry
	axis    [3][]int
}

// Root returns the whole-tree view, valid only after Done.
func (b *Builder) Root() view {
	return view{entries: b.entries, axis: b.sorted}
}

// Len reports how many primitives are in this view.
func (v view) Len() int { return len(v.axis[0]) }

// At returns the i-th primitive of v in the given axis's order.
func (v view) At(axis, i int) Handle { return v.entries[v.axis[axis][i]].handle }

// BB returns the union bounding box of every primitive in v.
func (v view) BB() Box {
	bb := EmptyBox()
	for _, i := range v.axis[0] {
		bb.Union(v.entries[i].bb)
	}
	return bb
}

// split is the outcome of an SAH or mean object split: the view
// narrowed to [0, at) is the left child, [at, Len()) is the right
// child, both still windows into the same backing arrays.
type split struct {
	axis int
	at   int
}

// children returns v narrowed to the left and right sides of s.
func (v view) children(s split) (left, right view) {
	left.entries, right.entries = v.entries, v.entries
	for ax := 0; ax < 3; ax++ {
		left.axis[ax] = v.axis[ax][:s.at]
		right.axis[ax] = v.axis[ax][s.at:]
	}
	return left, right
}

// sahSplit picks the 2-way object split minimizing
// area(left)*cost(left) + area(right)*cost(right), scanning all three
// axes: a right-to-left suffix sweep accumulating box/cost, then a
// left-to-right prefix sweep evaluating the heuristic at every
// position, tie-breaking on the lower axis index and short-circuiting
// an axis once its prefix cost alone exceeds the best total found so
// far.
func (v view) sahSplit() split {
	n := v.Len()
	if n == 2 {
		return split{axis: 0, at: 1}
	}

	best := split{axis: 0, at: 1}
	bestCost := infCost
	for ax := 0; ax < 3; ax++ {
		idx := v.axis[ax]
		sufBB := make([]Box, n+1)
		sufCost := make([]float64, n+1)
		sufBB[n] = EmptyBox()
		for i := n - 1; i >= 0; i-- {
			sufBB[i] = sufBB[i+1]
			sufBB[i].Union(v.entries[idx[i]].bb)
			sufCost[i] = sufCost[i+1] + v.entries[idx[i]].cost
		}

		preBB := EmptyBox()
		preCost := 0.0
		for k := 1; k < n; k++ {
			preBB.Union(v.entries[idx[k-1]].bb)
			preCost += v.entries[idx[k-1]].cost
			if preCost > bestCost {
				break
			}
			cost := preBB.Area()*preCost + sufBB[k].Area()*sufCost[k]
			if cost < bestCost {
				bestCost = cost
				best = split{axis: ax, at: k}
			}
		}
	}
	return best
}

const infCost = 1e300

// meanSplit distributes primitives k-at-a-time onto the left child
// along the longest axis, used when the caller does not want an SAH
// pass: every k-th primitive goes left, the remainder fills the left
// bucket first.
func (v view) meanSplit(k int) split {
	n := v.Len()
	if k < 1 {
		k = 1
	}
	at := (n + k - 1) / k
	if at < 1 {
		at = 1
	}
	if at >= n {
		at = n - 1
	}
	return split{axis: v.BB().LargestAxis(), at: at}
}

// partition reorders every axis array of v in place so that the first
// s.at entries (in s.axis's order) come first across all three arrays,
// each array otherwise stable (its own relative order preserved). The
// selection mask is computed once from the winning axis, then applied
// independently to all three sorted views.
func (v view) partition(s split) {
	selected := make(map[int]bool, s.at)
	for _, i := range v.axis[s.axis][:s.at] {
		selected[i] = true
	}
	for ax := 0; ax < 3; ax++ {
		src := v.axis[ax]
		out := make([]int, 0, len(src))
		for _, i := range src {
			if selected[i] {
				out = append(out, i)
			}
		}
		for _, i := range src {
			if !selected[i] {
				out = append(out, i)
			}
		}
		copy(src, out)
	}
}
