// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package raytrace

// hint.go: the optional traversal hint stack: a fixed-capacity stack
// of ray-object handles recording where previous nearby rays started
// descent, populated by a bounding-box-driven DFS and consumed by the
// next ray cast instead of a full root descent.
//
// The hint is optional: a nil Ray.Hint or an empty one changes only
// traversal order, never the hit set.

// HintCapacity is the traversal hint's fixed stack depth.
const HintCapacity = 256

// Hint is a fixed-capacity stack of ray-object handles. Populate walks
// a tree once (typically per shot, not per ray), descending through
// nodes that contain the box of interest and pushing the rest as
// accepted entries.
type Hint struct {
	entries []Handle
}

// NewHint returns an empty hint stack ready for Populate.
func NewHint() *Hint { return &Hint{entries: make([]Handle, 0, HintCapacity)} }

// Reset clears h for reuse.
func (h *Hint) Reset() { h.entries = h.entries[:0] }

// Len reports how many entries h currently holds.
func (h *Hint) Len() int { return len(h.entries) }

func (h *Hint) push(han Handle) error {
	if len(h.entries) >= HintCapacity {
		return ErrCapacityExceeded
	}
	h.entries = append(h.entries, han)
	return nil
}

// hintChildren is implemented by node types whose children Populate can
// usefully descend into. Ray-objects that don't implement it (the
// octree, an instance wrapper, or a tree passed whole rather than its
// root node) are simply recorded whole as a single accepted entry,
// which only gives up an optimization, never correctness.
type hintChildren interface {
	hintKids() []Handle
}

// Populate rebuilds h by descending from root, recursing into any node
// that fully contains box and recording every other node reached as an
// accepted leaf. The
// resulting entries, tested in order on the next cast, together cover
// exactly the primitives reachable from root: every call either
// recurses into all of a node's children or accepts the node whole, so
// nothing is skipped.
func (h *Hint) Populate(root Handle, box Box) error {
	h.Reset()
	return h.populate(root, box)
}

func (h *Hint) populate(han Handle, box Box) error {
	if han.IsEmpty() {
		return nil
	}
	obj, ok := han.Object()
	if !ok {
		return h.push(han)
	}
	hc, ok := obj.(hintChildren)
	if !ok {
		return h.push(han)
	}
	if !box.FitsInside(han.BB()) {
		return h.push(han)
	}
	for _, c := range hc.hintKids() {
		if err := h.populate(c, box); err != nil {
			return err
		}
	}
	return nil
}

// raycast intersects every entry of h in turn instead of descending
// from the root. Returns false, false if h is empty so the caller
// knows to fall back to a normal root descent.
func (h *Hint) raycast(r *Ray) (hit bool, used bool) {
	if h == nil || len(h.entries) == 0 {
		return false, false
	}
	for _, e := range h.entries {
		if e.Raycast(r) {
			hit = true
			if r.Mode == Shadow {
				return true, true
			}
		}
	}
	return hit, true
}
