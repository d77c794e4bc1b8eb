// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package raytrace

import (
	"log/slog"
	"math"
)

// bih.go: the 4-way bounding-interval hierarchy. Each node stores a
// split axis and, per child, an interval (min, max) along that axis;
// traversal intersects the running [tmin, tmax] range against each
// child's interval and recurses only into children with non-empty
// overlap.
//
// Each bihNode is built by two nested 2-way mean splits on the same
// axis, reusing the builder's existing partition machinery to reach
// the 4-way shape without a bespoke quad-partition routine.

type bihNode struct {
	bb        Box
	axis      int
	children  [4]Handle
	intervals [4][2]float64 // (min, max) along axis for each child's subtree.
}

// BIH is a 4-way bounding-interval hierarchy built with mean splits.
type BIH struct {
	builder Builder
	root    Handle
	done    bool
}

// NewBIH returns an empty BIH ready for Add.
func NewBIH() *BIH { return &BIH{} }

func (t *BIH) Add(p Handle) {
	if t.done {
		slog.Error("raytrace: Add called after Done", "tree", "bih")
		return
	}
	t.builder.Add(p)
}

func (t *BIH) Done() error {
	if t.done {
		return nil
	}
	if err := t.builder.Done(t.builder.cancel); err != nil {
		return err
	}
	if t.builder.Len() == 0 {
		t.root = Empty
	} else {
		t.root = bihBuild(t.builder.Root())
	}
	t.done = true
	return nil
}

func (t *BIH) setCancel(c func() bool) { t.builder.cancel = c }

func (t *BIH) BB() Box {
	if !t.done {
		return t.builder.BB()
	}
	return t.root.BB()
}

func (t *BIH) Cost() float64 {
	if t.root.IsEmpty() {
		return 0
	}
	return t.root.Cost()
}

func (t *BIH) Raycast(r *Ray) bool {
	if !t.done || t.root.IsEmpty() {
		return false
	}
	return t.root.Raycast(r)
}

func (t *BIH) Intersect(r *Ray) bool {
	if !t.done || t.root.IsEmpty() {
		return false
	}
	return t.root.Intersect(r)
}

func (t *BIH) lookup(object, face any) (*Primitive, bool) { return t.builder.lookup(object, face) }

// halfSplit returns a 2-way split position roughly bisecting n items,
// the even distribution the 2-level quad split below needs.
func halfSplit(n int) int {
	at := n / 2
	if at < 1 {
		at = 1
	}
	if at >= n {
		at = n - 1
	}
	return at
}

// bihBuild recursively builds a bihNode with up to 4 children by
// bisecting v on its largest axis twice: once to get a left/right pair,
// then once more on each half to reach 4 quarters. Leafs at size 1.
func bihBuild(v view) Handle {
	n := v.Len()
	if n == 0 {
		return Empty
	}
	if n == 1 {
		return v.At(0, 0)
	}
	s1 := v.meanSplit(2)
	axis := s1.axis
	v.partition(s1)
	left, right := v.children(s1)

	var quarters [4]view
	if left.Len() > 1 {
		s2 := split{axis: axis, at: halfSplit(left.Len())}
		left.partition(s2)
		quarters[0], quarters[1] = left.children(s2)
	} else {
		quarters[0] = left
	}
	if right.Len() > 1 {
		s3 := split{axis: axis, at: halfSplit(right.Len())}
		right.partition(s3)
		quarters[2], quarters[3] = right.children(s3)
	} else {
		quarters[2] = right
	}

	node := &bihNode{axis: axis, bb: v.BB()}
	for i, q := range quarters {
		if q.Len() == 0 {
			node.children[i] = Empty
			node.intervals[i] = [2]float64{math.Inf(1), math.Inf(-1)}
			continue
		}
		node.children[i] = bihBuild(q)
		node.intervals[i] = axisInterval(q.BB(), axis)
	}
	return HandleForObject(node)
}

func axisInterval(bb Box, axis int) [2]float64 {
	switch axis {
	case 0:
		return [2]float64{bb.MinX, bb.MaxX}
	case 1:
		return [2]float64{bb.MinY, bb.MaxY}
	default:
		return [2]float64{bb.MinZ, bb.MaxZ}
	}
}

func (n *bihNode) BB() Box            { return n.bb }
func (n *bihNode) Add(Handle)         {}
func (n *bihNode) Done() error        { return nil }
func (n *bihNode) hintKids() []Handle { return n.children[:] }

func (n *bihNode) Cost() float64 {
	sum := 0.0
	for _, c := range n.children {
		sum += c.Cost()
	}
	return sum
}

func asBihNode(h Handle) (*bihNode, bool) {
	obj, ok := h.Object()
	if !ok {
		return nil, false
	}
	n, ok := obj.(*bihNode)
	return n, ok
}

// Raycast descends depth-first: the running [tmin, tmax] range is
// clipped against each child's axis interval, and once a sibling
// produces a hit the range is narrowed by the ray's new (closer)
// distance before testing the remaining siblings.
func (n *bihNode) Raycast(r *Ray) bool {
	if !r.hitsBox(n.bb) {
		return false
	}
	return n.raycast(r, 0, r.Dist)
}

// childTRange converts child i's axis-coordinate interval into the
// ray-parameter range where the ray is inside that interval, clipped
// against the running [tmin, tmax] window. A ray travelling parallel to
// the split axis has no crossing t values: it overlaps the child iff
// its own axis coordinate lies inside the interval, and the window is
// passed through unchanged.
func (n *bihNode) childTRange(r *Ray, i int, tmin, tmax float64) (lo, hi float64, ok bool) {
	min, max := n.intervals[i][0], n.intervals[i][1]
	o := startAxis(r, n.axis)
	inv := [3]float64{r.invDir.X, r.invDir.Y, r.invDir.Z}[n.axis]
	if math.IsInf(inv, 0) {
		if o < min || o > max {
			return 0, 0, false
		}
		return tmin, tmax, true
	}
	t0 := (min - o) * inv
	t1 := (max - o) * inv
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	lo = math.Max(tmin, t0)
	hi = math.Min(tmax, t1)
	if lo > hi {
		return 0, 0, false
	}
	return lo, hi, true
}

func (n *bihNode) raycast(r *Ray, tmin, tmax float64) bool {
	hit := false
	for i := 0; i < 4; i++ {
		if n.children[i].IsEmpty() {
			continue
		}
		tmax = math.Min(tmax, r.Dist)
		lo, hi, ok := n.childTRange(r, i, tmin, tmax)
		if !ok {
			continue
		}
		var h bool
		if child, ok := asBihNode(n.children[i]); ok {
			h = child.raycast(r, lo, hi)
		} else {
			h = n.children[i].Raycast(r)
		}
		if h {
			hit = true
			if r.Mode == Shadow {
				return true
			}
		}
	}
	return hit
}

func (n *bihNode) Intersect(r *Ray) bool {
	if !r.hitsBox(n.bb) {
		return false
	}
	for i := 0; i < 4; i++ {
		if n.children[i].IsEmpty() {
			continue
		}
		if _, _, ok := n.childTRange(r, i, 0, r.Dist); !ok {
			continue
		}
		if child, ok := asBihNode(n.children[i]); ok {
			if child.Intersect(r) {
				return true
			}
			continue
		}
		if n.children[i].Intersect(r) {
			return true
		}
	}
	return false
}
