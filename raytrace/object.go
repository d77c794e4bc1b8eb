// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package raytrace

// object.go: the polymorphic ray-object dispatch. Handle is a small
// tagged-union value: the tag selects a primitive, an api-node with its
// own vtable, or the empty sentinel, and every concrete tree routes its
// queries through it. Go has no pointer bit-stealing outside unsafe, so
// the tag lives in a field rather than in a pointer's alignment slack.

// kind distinguishes what a Handle currently holds.
type kind int

const (
	kindEmpty kind = iota // the always-miss sentinel; zero value.
	kindPrimitive
	kindObject
)

// RayObject is the api-node vtable: raycast, add, build-done,
// bounding-box, and traversal cost. Every concrete acceleration
// structure (octree, BIH, BVH, VBVH, SVBVH, libbvh wrapper, instance)
// implements it.
type RayObject interface {
	// Add inserts a primitive handle into the structure being built.
	// Valid only before Done is called; calling it after Done is a
	// caller error reported via slog and ignored.
	Add(p Handle)

	// Done finalizes the structure, after which Add must not be called
	// again and Raycast/Intersect become valid. Returns ErrCancelled if
	// the build was cancelled, or ErrNotBuildable for a ray-object that
	// has nothing to build.
	Done() error

	// Raycast finds the nearest (or, in Shadow mode, any) hit along r,
	// updating r.Hit and r.Dist on success.
	Raycast(r *Ray) bool

	// Intersect reports whether r hits this structure without
	// necessarily finding the nearest hit or populating r.Hit fully;
	// used by the shadow-ray last-hit fast path.
	Intersect(r *Ray) bool

	// BB returns the object-space bounding box of everything added so
	// far (or, after Done, of the finished structure).
	BB() Box

	// Cost estimates the traversal cost of descending into this
	// ray-object, used by the SAH builder when this object is itself
	// a primitive-like leaf (an instance wrapping a built subtree).
	Cost() float64
}

// Handle is a tagged reference to either nothing, a Primitive, or a
// RayObject. The zero Handle is the empty sentinel: every structure
// starts empty and any Raycast/Intersect against it reports no hit.
type Handle struct {
	kind kind
	prim *Primitive
	obj  RayObject
}

// Empty is the always-miss sentinel handle: a leaf that exists so
// traversal code never has to special-case "no children" as a nil
// pointer.
var Empty = Handle{kind: kindEmpty}

// HandleFor wraps a primitive as a Handle. The handle is also cached on
// p itself, so a successful hit can report exactly this Handle back to
// Ray.markHit for the last-hit shadow optimization.
func HandleFor(p *Primitive) Handle {
	if p == nil {
		return Empty
	}
	h := Handle{kind: kindPrimitive, prim: p}
	p.selfHandle = h
	return h
}

// HandleForObject wraps an api-node as a Handle.
func HandleForObject(o RayObject) Handle {
	if o == nil {
		return Empty
	}
	return Handle{kind: kindObject, obj: o}
}

// IsEmpty reports whether h is the sentinel handle.
func (h Handle) IsEmpty() bool { return h.kind == kindEmpty }

// Primitive returns the wrapped primitive and true, or (nil, false) if
// h does not hold one.
func (h Handle) Primitive() (*Primitive, bool) {
	if h.kind != kindPrimitive {
		return nil, false
	}
	return h.prim, true
}

// Object returns the wrapped api-node and true, or (nil, false) if h
// does not hold one.
func (h Handle) Object() (RayObject, bool) {
	if h.kind != kindObject {
		return nil, false
	}
	return h.obj, true
}

// Cost dispatches to the wrapped value's traversal cost: a primitive
// always costs 1, an api-node reports its own Cost(), and the empty
// sentinel costs 0.
func (h Handle) Cost() float64 {
	switch h.kind {
	case kindPrimitive:
		return 1
	case kindObject:
		return h.obj.Cost()
	default:
		return 0
	}
}

// BB dispatches to the wrapped value's bounding box. The empty
// sentinel returns a degenerate box so it never grows a parent's bounds.
func (h Handle) BB() Box {
	switch h.kind {
	case kindPrimitive:
		return h.prim.BB()
	case kindObject:
		return h.obj.BB()
	default:
		return EmptyBox()
	}
}

// Raycast dispatches a nearest-hit query to whatever h wraps.
func (h Handle) Raycast(r *Ray) bool {
	switch h.kind {
	case kindPrimitive:
		return h.prim.intersect(r)
	case kindObject:
		return h.obj.Raycast(r)
	default:
		return false
	}
}

// Intersect dispatches a hit-test query, used by the shadow fast path
// and by Handle.Raycast's callers that only need a boolean answer.
func (h Handle) Intersect(r *Ray) bool {
	switch h.kind {
	case kindPrimitive:
		return h.prim.intersect(r)
	case kindObject:
		return h.obj.Intersect(r)
	default:
		return false
	}
}

// originLookupProvider is implemented by trees that can recover a
// *Primitive from its owner (object, face) pair. It is deliberately not
// part of RayObject: it is an internal wiring detail for the near-hit
// re-test, not a public capability.
type originLookupProvider interface {
	lookup(object, face any) (*Primitive, bool)
}

// wireOriginLookup points r.OriginLookup at tree's lookup (if it has
// one) for the duration of a query, returning a function that restores
// whatever was wired in before. Used by the package-level Raycast and
// Intersect entry points, and by the instance wrapper while it
// dispatches into its target.
//
// The lookup is wired per call rather than held globally so two
// goroutines racing on different trees never clobber each other.
func wireOriginLookup(tree Handle, r *Ray) (restore func()) {
	obj, ok := tree.Object()
	if !ok {
		return func() {}
	}
	p, ok := obj.(originLookupProvider)
	if !ok {
		return func() {}
	}
	prev := r.OriginLookup
	r.OriginLookup = p.lookup
	return func() { r.OriginLookup = prev }
}

// cancellable is implemented by every builder-backed tree so the
// package-level Done entry point can thread a cancel token into a
// build without the token being part of the public RayObject vtable.
type cancellable interface {
	setCancel(func() bool)
}

func wireCancel(tree Handle, cancel func() bool) {
	obj, ok := tree.Object()
	if !ok {
		return
	}
	if c, ok := obj.(cancellable); ok {
		c.setCancel(cancel)
	}
}

// Equal reports whether h and o refer to the same underlying value,
// used by the last-hit shadow optimization to recognize a repeated hit.
func (h Handle) Equal(o Handle) bool {
	if h.kind != o.kind {
		return false
	}
	switch h.kind {
	case kindPrimitive:
		return h.prim == o.prim
	case kindObject:
		return h.obj == o.obj
	default:
		return true
	}
}
