// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package raytrace

// libbvh.go: an adapter exposing the builder-driven BVH behind a thin
// forwarding surface: add/done/raycast delegation plus a per-leaf
// callback observing each primitive as it is added. Callers that want
// to mirror the index into a structure of their own (a debug overlay,
// an id table) hook the leaf stream instead of re-walking the tree.

// LibBVH adapts a *BVH behind a forwarding surface: every method is a
// one-line delegation, plus an optional LeafHook invoked as primitives
// are added.
type LibBVH struct {
	bvh *BVH

	// LeafHook, if set, is invoked once per primitive as it is added,
	// observing each accepted Handle.
	LeafHook func(p Handle)
}

// NewLibBVH returns an empty LibBVH ready for Add.
func NewLibBVH() *LibBVH { return &LibBVH{bvh: NewBVH()} }

func (t *LibBVH) Add(p Handle) {
	before := t.bvh.builder.Len()
	t.bvh.Add(p)
	if t.LeafHook != nil && t.bvh.builder.Len() > before {
		t.LeafHook(p)
	}
}

func (t *LibBVH) Done() error { return t.bvh.Done() }

func (t *LibBVH) setCancel(c func() bool) { t.bvh.setCancel(c) }

func (t *LibBVH) BB() Box { return t.bvh.BB() }

func (t *LibBVH) Cost() float64 { return t.bvh.Cost() }

func (t *LibBVH) Raycast(r *Ray) bool { return t.bvh.Raycast(r) }

func (t *LibBVH) Intersect(r *Ray) bool { return t.bvh.Intersect(r) }

// lookup satisfies originLookupProvider by forwarding to the wrapped
// BVH's builder index.
func (t *LibBVH) lookup(object, face any) (*Primitive, bool) { return t.bvh.lookup(object, face) }
