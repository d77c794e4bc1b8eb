// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package raytrace

import (
	"log/slog"
	"math"
)

// svbvh.go: the SIMD-style packed conversion of a finished VBVH.
// Children are regrouped into lanes of 4 with their six box
// coordinates laid out contiguously per group, so a slab test can be
// issued per group of 4 children instead of per child.
//
// Go has no portable SIMD intrinsic surface without unsafe/assembly,
// so the four lanes are tested as four unrolled calls to Ray.hitsBox
// per group; the data layout and the group-of-4/sentinel-padding/
// scalar-tail traversal shape stay as a 4-wide SIMD unit would
// consume them.

// svbvhGroup is one 4-wide lane of child boxes plus the Handles those
// lanes correspond to. A lane past the real child count holds a
// sentinel box that can never be hit and the zero (empty) Handle.
type svbvhGroup struct {
	boxes   [4]Box
	handles [4]Handle
}

type svbvhNode struct {
	bb     Box
	groups []svbvhGroup
	tail   []Handle // 1 or 2 leftover children when n%4 isn't padded to a full group.
}

// sentinelBox is an inverted, maximally-far-apart box: every slab test
// against it misses unconditionally, the never-hit padding for a
// partial lane group.
func sentinelBox() Box {
	return Box{
		MinX: math.MaxFloat64, MinY: math.MaxFloat64, MinZ: math.MaxFloat64,
		MaxX: -math.MaxFloat64, MaxY: -math.MaxFloat64, MaxZ: -math.MaxFloat64,
	}
}

// buildSVBVHNode packs children (already-converted Handles, in the
// VBVH's sibling order) into groups of 4. A remainder of 3 is padded
// out to a full group with sentinel boxes; a remainder of 1 or 2 is
// cheaper to leave as a scalar tail.
func buildSVBVHNode(bb Box, children []Handle) *svbvhNode {
	n := len(children)
	full := n / 4
	rem := n % 4

	node := &svbvhNode{bb: bb, groups: make([]svbvhGroup, 0, full+1)}
	i := 0
	for g := 0; g < full; g++ {
		var grp svbvhGroup
		for lane := 0; lane < 4; lane++ {
			grp.handles[lane] = children[i]
			grp.boxes[lane] = children[i].BB()
			i++
		}
		node.groups = append(node.groups, grp)
	}

	if rem > 2 {
		var grp svbvhGroup
		for lane := 0; lane < rem; lane++ {
			grp.handles[lane] = children[i]
			grp.boxes[lane] = children[i].BB()
			i++
		}
		for lane := rem; lane < 4; lane++ {
			grp.handles[lane] = Empty
			grp.boxes[lane] = sentinelBox()
		}
		node.groups = append(node.groups, grp)
	} else if rem > 0 {
		node.tail = append(node.tail, children[i:]...)
	}
	return node
}

// svbvhConvert walks a built VBVH (or any tree sharing its node type)
// and replaces every vbvhNode with an equivalent svbvhNode. Leaves
// (primitives, or api-nodes of any other concrete kind, e.g. a nested
// instance) pass through unchanged.
func svbvhConvert(h Handle) Handle {
	obj, ok := h.Object()
	if !ok {
		return h
	}
	vn, ok := obj.(*vbvhNode)
	if !ok {
		return h
	}
	links := vn.children()
	converted := make([]Handle, len(links))
	for i, l := range links {
		converted[i] = svbvhConvert(l.handle)
	}
	return HandleForObject(buildSVBVHNode(vn.bb, converted))
}

// SVBVH is a VBVH built and optimized normally, then packed into the
// 4-wide lane layout for traversal.
type SVBVH struct {
	builder Builder
	root    Handle
	done    bool
}

// NewSVBVH returns an empty SVBVH ready for Add.
func NewSVBVH() *SVBVH { return &SVBVH{} }

func (t *SVBVH) Add(p Handle) {
	if t.done {
		slog.Error("raytrace: Add called after Done", "tree", "svbvh")
		return
	}
	t.builder.Add(p)
}

func (t *SVBVH) Done() error {
	if t.done {
		return nil
	}
	if err := t.builder.Done(t.builder.cancel); err != nil {
		return err
	}
	if t.builder.Len() == 0 {
		t.root = Empty
	} else {
		root := vbvhBuild(t.builder.Root())
		root = reorganize(root)
		root = removeUseless(root)
		root = pushUp(root)
		root = pushDown(root)
		t.root = svbvhConvert(root)
	}
	t.done = true
	return nil
}

func (t *SVBVH) setCancel(c func() bool) { t.builder.cancel = c }

func (t *SVBVH) BB() Box {
	if !t.done {
		return t.builder.BB()
	}
	return t.root.BB()
}

func (t *SVBVH) Cost() float64 {
	if t.root.IsEmpty() {
		return 0
	}
	return t.root.Cost()
}

func (t *SVBVH) Raycast(r *Ray) bool {
	if !t.done || t.root.IsEmpty() {
		return false
	}
	return t.root.Raycast(r)
}

func (t *SVBVH) Intersect(r *Ray) bool {
	if !t.done || t.root.IsEmpty() {
		return false
	}
	return t.root.Intersect(r)
}

func (t *SVBVH) lookup(object, face any) (*Primitive, bool) { return t.builder.lookup(object, face) }

func (n *svbvhNode) BB() Box     { return n.bb }
func (n *svbvhNode) Add(Handle)  {}
func (n *svbvhNode) Done() error { return nil }

func (n *svbvhNode) Cost() float64 {
	sum := 0.0
	for _, g := range n.groups {
		for _, h := range g.handles {
			if !h.IsEmpty() {
				sum += h.Cost()
			}
		}
	}
	for _, h := range n.tail {
		sum += h.Cost()
	}
	return sum
}

func (n *svbvhNode) hintKids() []Handle {
	var out []Handle
	for _, g := range n.groups {
		for _, h := range g.handles {
			if !h.IsEmpty() {
				out = append(out, h)
			}
		}
	}
	return append(out, n.tail...)
}

// Raycast tests each group's 4 lanes, then the scalar tail. A lane
// only gets dispatched into when its own slab test passes, the
// comparison-mask idiom of a packed traversal.
func (n *svbvhNode) Raycast(r *Ray) bool {
	if !r.hitsBox(n.bb) {
		return false
	}
	hit := false
	for _, g := range n.groups {
		var mask [4]bool
		mask[0] = r.hitsBox(g.boxes[0])
		mask[1] = r.hitsBox(g.boxes[1])
		mask[2] = r.hitsBox(g.boxes[2])
		mask[3] = r.hitsBox(g.boxes[3])
		for lane := 0; lane < 4; lane++ {
			if !mask[lane] || g.handles[lane].IsEmpty() {
				continue
			}
			if g.handles[lane].Raycast(r) {
				hit = true
				if r.Mode == Shadow {
					return true
				}
			}
		}
	}
	for _, h := range n.tail {
		if h.Raycast(r) {
			hit = true
			if r.Mode == Shadow {
				return true
			}
		}
	}
	return hit
}

func (n *svbvhNode) Intersect(r *Ray) bool {
	if !r.hitsBox(n.bb) {
		return false
	}
	for _, g := range n.groups {
		for lane := 0; lane < 4; lane++ {
			if g.handles[lane].IsEmpty() || !r.hitsBox(g.boxes[lane]) {
				continue
			}
			if g.handles[lane].Intersect(r) {
				return true
			}
		}
	}
	for _, h := range n.tail {
		if h.Intersect(r) {
			return true
		}
	}
	return false
}
