// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package raytrace

import "log/slog"

// bvh.go: the builder-driven two-child bounding volume hierarchy.
// Nodes remember the axis they were split on so traversal can visit
// the near child first.

type bvhNode struct {
	bb       Box
	axis     int
	children [2]Handle
}

// BVH is a two-child, builder-driven bounding volume hierarchy.
type BVH struct {
	builder Builder
	root    Handle
	done    bool
}

// NewBVH returns an empty BVH ready for Add.
func NewBVH() *BVH { return &BVH{} }

func (t *BVH) Add(p Handle) {
	if t.done {
		slog.Error("raytrace: Add called after Done", "tree", "bvh")
		return
	}
	t.builder.Add(p)
}

func (t *BVH) Done() error {
	if t.done {
		return nil
	}
	if err := t.builder.Done(t.builder.cancel); err != nil {
		return err
	}
	if t.builder.Len() == 0 {
		t.root = Empty
	} else {
		t.root = bvhBuild(t.builder.Root())
	}
	t.done = true
	return nil
}

func (t *BVH) setCancel(c func() bool) { t.builder.cancel = c }

// bvhBuild recursively splits view with the SAH heuristic, leafing at
// size 1.
func bvhBuild(v view) Handle {
	if v.Len() == 1 {
		return v.At(0, 0)
	}
	s := v.sahSplit()
	v.partition(s)
	left, right := v.children(s)

	n := &bvhNode{bb: v.BB(), axis: s.axis}
	n.children[0] = bvhBuild(left)
	n.children[1] = bvhBuild(right)
	return HandleForObject(n)
}

func (t *BVH) BB() Box {
	if !t.done {
		return t.builder.BB()
	}
	return t.root.BB()
}

func (t *BVH) Cost() float64 {
	if t.root.IsEmpty() {
		return 0
	}
	return t.root.Cost()
}

func (t *BVH) Raycast(r *Ray) bool {
	if !t.done || t.root.IsEmpty() {
		return false
	}
	return t.root.Raycast(r)
}

func (t *BVH) Intersect(r *Ray) bool {
	if !t.done || t.root.IsEmpty() {
		return false
	}
	return t.root.Intersect(r)
}

// lookup satisfies originLookupProvider so api.go can wire
// Ray.OriginLookup while querying this tree.
func (t *BVH) lookup(object, face any) (*Primitive, bool) { return t.builder.lookup(object, face) }

func (n *bvhNode) BB() Box     { return n.bb }
func (n *bvhNode) Cost() float64 {
	return n.children[0].Cost() + n.children[1].Cost()
}
func (n *bvhNode) Add(Handle)  {}
func (n *bvhNode) Done() error { return nil }

// Raycast pushes children front-to-back by the sign of the ray's
// inverse direction along n.axis: the
// near child is tried first so a shadow ray can terminate without ever
// visiting the far child.
func (n *bvhNode) Raycast(r *Ray) bool {
	if !r.hitsBox(n.bb) {
		return false
	}
	first, second := n.order(r)
	hit := first.Raycast(r)
	if hit && r.Mode == Shadow {
		return true
	}
	if second.Raycast(r) {
		hit = true
	}
	return hit
}

func (n *bvhNode) Intersect(r *Ray) bool {
	if !r.hitsBox(n.bb) {
		return false
	}
	first, second := n.order(r)
	if first.Intersect(r) {
		return true
	}
	return second.Intersect(r)
}

// hintKids satisfies hintChildren for the traversal hint's populate DFS.
func (n *bvhNode) hintKids() []Handle { return n.children[:] }

func (n *bvhNode) order(r *Ray) (first, second Handle) {
	inv := [3]float64{r.invDir.X, r.invDir.Y, r.invDir.Z}
	if inv[n.axis] >= 0 {
		return n.children[0], n.children[1]
	}
	return n.children[1], n.children[0]
}
