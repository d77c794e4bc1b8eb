// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package raytrace

import (
	"log/slog"

	"github.com/gazed/raybvh/math/lin"
)

// api.go: the package entry points: a handful of Create* constructors
// producing an opaque handle, plus Add/Done/Raycast/Intersect/BB/Free
// operating uniformly on that handle however it was created.

// CreateOctree returns a handle to a new, empty octree of the given
// resolution, reserving builder storage for capacity primitives.
// resolution must be one of OctreeResolutions.
func CreateOctree(resolution, capacity int) (Handle, error) {
	t, err := NewOctree(resolution)
	if err != nil {
		return Empty, err
	}
	t.builder.Reserve(capacity)
	return HandleForObject(t), nil
}

// CreateBVH returns a handle to a new, empty builder-driven N-ary BVH.
func CreateBVH(capacity int) Handle {
	t := NewBVH()
	t.builder.Reserve(capacity)
	return HandleForObject(t)
}

// CreateVBVH returns a handle to a new, empty variable-arity BVH.
func CreateVBVH(capacity int) Handle {
	t := NewVBVH()
	t.builder.Reserve(capacity)
	return HandleForObject(t)
}

// CreateSVBVH returns a handle to a new, empty SIMD-packed VBVH.
func CreateSVBVH(capacity int) Handle {
	t := NewSVBVH()
	t.builder.Reserve(capacity)
	return HandleForObject(t)
}

// CreateBIH returns a handle to a new, empty 4-way bounding-interval
// hierarchy.
func CreateBIH(capacity int) Handle {
	t := NewBIH()
	t.builder.Reserve(capacity)
	return HandleForObject(t)
}

// CreateLibBVH returns a handle to a new, empty library-BVH adapter.
func CreateLibBVH(capacity int) Handle {
	t := NewLibBVH()
	t.bvh.builder.Reserve(capacity)
	return HandleForObject(t)
}

// CreateInstance returns a handle wrapping target with a local<->world
// transform. ownerObject is reported on a hit in place of target's own
// owner object; ownerTargetObject is substituted into the ray's origin
// while dispatching into target, so a ray leaving the instance does not
// self-intersect the instance's own root.
func CreateInstance(target Handle, local2world lin.M4, ownerObject, ownerTargetObject any) Handle {
	in := NewInstance(target, local2world, ownerObject, ownerTargetObject)
	h := HandleForObject(in)
	in.self = h
	return h
}

// CreateInstanceT wraps target using a lin.T rigid transform
// (translation + rotation) as the local->world placement, the transform
// representation scene graphs built on math/lin already carry.
func CreateInstanceT(target Handle, local2world *lin.T, ownerObject, ownerTargetObject any) Handle {
	var m lin.M4
	m.SetQ(local2world.Rot)
	m.Wx, m.Wy, m.Wz = local2world.Loc.X, local2world.Loc.Y, local2world.Loc.Z
	return CreateInstance(target, m, ownerObject, ownerTargetObject)
}

// CreateEmpty returns the always-miss sentinel handle.
func CreateEmpty() Handle { return Empty }

// Add inserts a primitive handle into tree. Valid only before Done;
// Add after Done is a caller error, logged and ignored rather than
// surfaced on the query path.
func Add(tree Handle, p Handle) {
	obj, ok := tree.Object()
	if !ok {
		slog.Error("raytrace: Add called on a non-buildable handle")
		return
	}
	obj.Add(p)
}

// Done finalizes tree, after which Add must not be called again and
// Raycast/Intersect become valid. cancel, if non-nil, is polled during
// the build and aborts it early with ErrCancelled.
func Done(tree Handle, cancel func() bool) error {
	obj, ok := tree.Object()
	if !ok {
		return ErrNotBuildable
	}
	wireCancel(tree, cancel)
	return obj.Done()
}

// Raycast finds the nearest hit (or, in Shadow mode, any hit) of r
// against tree, consulting r.LastHit and r.Hint before falling back to
// a full descent from tree's root. On a shadow-mode hit, r.LastHit is
// updated to the ray-object that produced it, so the next Raycast
// sharing this Ray can try it first.
func Raycast(tree Handle, r *Ray) bool {
	r.Dir.Unit()
	r.prime()
	restore := wireOriginLookup(tree, r)
	defer restore()

	if r.Mode == Shadow && !r.LastHit.IsEmpty() {
		if r.LastHit.Intersect(r) {
			return true
		}
	}

	if hit, used := r.Hint.raycast(r); used {
		if hit && r.Mode == Shadow {
			r.LastHit = r.hitLeaf
		}
		return hit
	}

	hit := tree.Raycast(r)
	if hit && r.Mode == Shadow {
		r.LastHit = r.hitLeaf
	}
	return hit
}

// Intersect reports whether r hits tree, without the last-hit or hint
// fast paths: it is itself the primitive the fast paths consult.
func Intersect(tree Handle, r *Ray) bool {
	r.Dir.Unit()
	r.prime()
	restore := wireOriginLookup(tree, r)
	defer restore()
	return tree.Intersect(r)
}

// BB returns tree's bounding box, valid both mid-build and after Done.
func BB(tree Handle) Box { return tree.BB() }

// Free releases tree's resources. The Go garbage collector reclaims
// everything reachable from tree once it is no longer referenced, so
// Free is a no-op kept for callers pairing every create with a free.
func Free(tree Handle) {}
