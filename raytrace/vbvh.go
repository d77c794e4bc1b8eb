// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package raytrace

import "log/slog"

// vbvh.go: the variable-arity, left-child/sibling BVH and its four
// post-build optimization passes (reorganize, remove-useless, push-up,
// push-down), run once each between build and first query.
//
// reorganize searches the full ancestor chain for a tighter box fit;
// push-down considers immediate siblings only, the common case it
// exists to catch. Every pass preserves two invariants: the set of
// reachable primitives is unchanged, and every node's box still
// contains everything in its subtree (a box may become looser, never
// tighter-than-correct).

// vbvhLink is one slot in a node's child chain.
type vbvhLink struct {
	handle  Handle
	sibling *vbvhLink
}

// vbvhNode is a left-child/sibling BVH node: its children are found by
// walking child, child.sibling, child.sibling.sibling, ...
type vbvhNode struct {
	bb    Box
	axis  int
	child *vbvhLink
}

// VBVH is a variable-arity BVH built with the standard 2-way SAH split
// and then optimized by the four post-build passes.
type VBVH struct {
	builder Builder
	root    Handle
	done    bool
}

func NewVBVH() *VBVH { return &VBVH{} }

func (t *VBVH) Add(p Handle) {
	if t.done {
		slog.Error("raytrace: Add called after Done", "tree", "vbvh")
		return
	}
	t.builder.Add(p)
}

func (t *VBVH) Done() error {
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
		if t.builder.cancel != nil && t.builder.cancel() {
			t.root = Empty
			t.done = true
			return ErrCancelled
		}
		root = reorganize(root)
		root = removeUseless(root)
		root = pushUp(root)
		root = pushDown(root)
		t.root = root
	}
	t.done = true
	return nil
}

func (t *VBVH) setCancel(c func() bool) { t.builder.cancel = c }

func vbvhBuild(v view) Handle {
	if v.Len() == 1 {
		return v.At(0, 0)
	}
	s := v.sahSplit()
	v.partition(s)
	left, right := v.children(s)

	n := &vbvhNode{bb: v.BB(), axis: s.axis}
	n.child = &vbvhLink{handle: vbvhBuild(left), sibling: &vbvhLink{handle: vbvhBuild(right)}}
	return HandleForObject(n)
}

func (t *VBVH) BB() Box {
	if !t.done {
		return t.builder.BB()
	}
	return t.root.BB()
}

func (t *VBVH) Cost() float64 {
	if t.root.IsEmpty() {
		return 0
	}
	return t.root.Cost()
}

func (t *VBVH) Raycast(r *Ray) bool {
	if !t.done || t.root.IsEmpty() {
		return false
	}
	return t.root.Raycast(r)
}

func (t *VBVH) Intersect(r *Ray) bool {
	if !t.done || t.root.IsEmpty() {
		return false
	}
	return t.root.Intersect(r)
}

// lookup satisfies originLookupProvider so api.go can wire
// Ray.OriginLookup while querying this tree.
func (t *VBVH) lookup(object, face any) (*Primitive, bool) { return t.builder.lookup(object, face) }

func (n *vbvhNode) BB() Box { return n.bb }

func (n *vbvhNode) Cost() float64 {
	sum := 0.0
	for l := n.child; l != nil; l = l.sibling {
		sum += l.handle.Cost()
	}
	return sum
}

func (n *vbvhNode) Add(Handle)  {}
func (n *vbvhNode) Done() error { return nil }

func (n *vbvhNode) Raycast(r *Ray) bool {
	if !r.hitsBox(n.bb) {
		return false
	}
	hit := false
	for l := n.child; l != nil; l = l.sibling {
		if l.handle.Raycast(r) {
			hit = true
			if r.Mode == Shadow {
				return true
			}
		}
	}
	return hit
}

func (n *vbvhNode) Intersect(r *Ray) bool {
	if !r.hitsBox(n.bb) {
		return false
	}
	for l := n.child; l != nil; l = l.sibling {
		if l.handle.Intersect(r) {
			return true
		}
	}
	return false
}

// hintKids satisfies hintChildren for the traversal hint's populate DFS.
func (n *vbvhNode) hintKids() []Handle {
	links := n.children()
	out := make([]Handle, len(links))
	for i, l := range links {
		out[i] = l.handle
	}
	return out
}

func (n *vbvhNode) children() []*vbvhLink {
	var out []*vbvhLink
	for l := n.child; l != nil; l = l.sibling {
		out = append(out, l)
	}
	return out
}

func (n *vbvhNode) setChildren(links []*vbvhLink) {
	if len(links) == 0 {
		n.child = nil
		return
	}
	for i := 0; i < len(links)-1; i++ {
		links[i].sibling = links[i+1]
	}
	links[len(links)-1].sibling = nil
	n.child = links[0]
}

// reorganize walks the tree top-down with an ancestor stack and moves
// each node under the nearest ancestor (skipping its immediate parent)
// whose box already fits it, if that ancestor's box is strictly
// smaller than the immediate parent's — a greedy BB-fit re-parenting.
func reorganize(root Handle) Handle {
	obj, ok := root.Object()
	if !ok {
		return root
	}
	n, ok := obj.(*vbvhNode)
	if !ok {
		return root
	}
	reorganizeNode(n, nil)
	return root
}

func reorganizeNode(n *vbvhNode, ancestors []*vbvhNode) {
	links := n.children()
	kept := links[:0]
	for _, l := range links {
		if target := bestAncestorFit(l.handle, n.bb, ancestors); target != nil {
			target.child = &vbvhLink{handle: l.handle, sibling: target.child}
			continue
		}
		kept = append(kept, l)
	}
	n.setChildren(kept)

	next := append(append([]*vbvhNode{}, ancestors...), n)
	for _, l := range n.children() {
		if child, ok := asVBVHNode(l.handle); ok {
			reorganizeNode(child, next)
		}
	}
}

// bestAncestorFit returns the tightest ancestor (other than the
// immediate parent, whose box is parentBB) whose box contains h's box
// more tightly than parentBB, or nil if none does.
func bestAncestorFit(h Handle, parentBB Box, ancestors []*vbvhNode) *vbvhNode {
	hb := h.BB()
	var best *vbvhNode
	bestArea := parentBB.Area()
	for _, a := range ancestors {
		if hb.FitsInside(a.bb) && a.bb.Area() < bestArea {
			best = a
			bestArea = a.bb.Area()
		}
	}
	return best
}

func asVBVHNode(h Handle) (*vbvhNode, bool) {
	obj, ok := h.Object()
	if !ok {
		return nil, false
	}
	n, ok := obj.(*vbvhNode)
	return n, ok
}

// removeUseless collapses an internal node with exactly one child that
// is itself internal, splicing the grandchild chain directly into the
// node's place.
func removeUseless(root Handle) Handle {
	n, ok := asVBVHNode(root)
	if !ok {
		return root
	}
	links := n.children()
	for _, l := range links {
		l.handle = removeUseless(l.handle)
	}

	if len(links) == 1 {
		if _, ok := asVBVHNode(links[0].handle); ok {
			return links[0].handle
		}
	}
	return root
}

// pushUp promotes the grandchildren of a single internal child into
// the node's own chain whenever doing so does not increase the summed
// child-box area, matching "child cost exceeds a flat-list cost".
func pushUp(root Handle) Handle {
	n, ok := asVBVHNode(root)
	if !ok {
		return root
	}
	links := n.children()
	var out []*vbvhLink
	for _, l := range links {
		l.handle = pushUp(l.handle)
		child, ok := asVBVHNode(l.handle)
		if !ok {
			out = append(out, l)
			continue
		}
		grandLinks := child.children()
		flatCost := l.handle.BB().Area()
		promotedCost := 0.0
		for _, g := range grandLinks {
			promotedCost += g.handle.BB().Area()
		}
		if promotedCost <= flatCost && len(grandLinks) > 0 {
			out = append(out, grandLinks...)
		} else {
			out = append(out, l)
		}
	}
	n.setChildren(out)
	return root
}

// pushDown moves a child under an immediate sibling whose box fully
// contains it, when that sibling is itself an internal node, the
// mirror operation of reorganize restricted to sibling scope.
func pushDown(root Handle) Handle {
	n, ok := asVBVHNode(root)
	if !ok {
		return root
	}
	links := n.children()
	for _, l := range links {
		l.handle = pushDown(l.handle)
	}

	moved := map[*vbvhLink]bool{}
	var kept []*vbvhLink
	for _, l := range links {
		sank := false
		for _, sib := range links {
			if sib == l || moved[sib] {
				continue
			}
			sibNode, ok := asVBVHNode(sib.handle)
			if !ok {
				continue
			}
			if l.handle.BB().FitsInside(sibNode.bb) && sibNode.bb.Area() < n.bb.Area() {
				sibNode.child = &vbvhLink{handle: l.handle, sibling: sibNode.child}
				moved[l] = true
				sank = true
				break
			}
		}
		if !sank {
			kept = append(kept, l)
		}
	}
	n.setChildren(kept)
	return root
}
