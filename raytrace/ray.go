// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package raytrace

import (
	"math"

	"github.com/gazed/raybvh/math/lin"
)

// ray.go: the mutable ray-cast state shared by every tree's traversal
// code, along with the cached inverse-direction and slab-entry indices
// the box test depends on.

// Mode selects how a ray cast behaves once it finds a hit.
type Mode int

// Ray modes.
const (
	Shadow            Mode = iota // may stop at the first hit.
	Mirror                        // must find the nearest hit.
	ShadowTransparent             // shadow ray that still wants color data.
)

// Skip flags gate primitive tests before the numeric intersection runs.
const (
	SkipCullFace  = 1 << iota // discard primitives facing away from the ray.
	SkipNeighbour             // re-test near-hits that left the origin face.
)

// Check selects the caller-supplied predicate applied to a primitive's
// owning object before the numeric test.
type Check int

// Check kinds.
const (
	CheckNone     Check = iota
	CheckRender         // defers to Ray.RenderCheck.
	CheckNonSolid       // defers to Ray.SolidCheck.
)

// Epsilon is the machine epsilon used to widen the barycentric and
// distance comparisons in the triangle test.
const Epsilon = 1.1920929e-7

// MaxDistance is a large finite sentinel distance. Kept finite, not
// +Inf, to avoid precision collapse in the slab and triangle tests.
const MaxDistance = 1e15

// NeighbourEpsilon is the world-space distance threshold the near-hit
// re-test uses to decide a hit is close enough to the origin face to be
// numerical bleed-through. Scene-scale dependent: it assumes scene
// geometry on the order of unit scale.
const NeighbourEpsilon = 0.1

// Origin identifies the (object, face) a ray departs from, used to
// suppress self-intersection.
type Origin struct {
	Object any
	Face   any
}

// Hit records the result of a successful ray cast.
type Hit struct {
	Dist     float64 // distance from Ray.Start to the hit point.
	U, V     float64 // barycentric coordinates of the hit.
	QuadHalf int     // 0 for a triangle; 1 or 2 selects which half of a quad.
	Object   any
	Face     any
}

// Ray is the mutable state threaded through a single ray cast. A Ray
// is never shared between concurrently executing casts: each goroutine
// owns its own Ray, so finished trees can serve any number of casts
// at once.
type Ray struct {
	Start lin.V3 // ray origin.
	Dir   lin.V3 // ray direction; normalized before every cast.
	Dist  float64 // current max travel distance; shrinks monotonically on hit.

	Mode  Mode
	Layer int // layer bitmask; <= 0 matches every layer.
	Skip  int // bitwise-or of Skip* flags.
	Check Check

	// RenderCheck answers "is this object traceable" for CheckRender.
	RenderCheck func(object any) bool
	// SolidCheck answers "is this object's material solid" for CheckNonSolid.
	SolidCheck func(object any) bool

	UserData any

	From Origin // the (object, face) this ray departs from.
	Hit  Hit    // populated on a successful hit.

	// LastHit is the ray-object that satisfied the previous shadow ray
	// cast against this Ray's owner. Consulted first by Raycast.
	LastHit Handle

	// Hint is an optional traversal hint stack. A nil Hint has no
	// effect on the hit set, only on traversal order.
	Hint *Hint

	// OriginLookup recovers the *Primitive backing From's (object, face)
	// pair, used only by the near-hit re-test. Wired
	// per-call by the package-level Raycast/Intersect entry points (and
	// re-wired by an instance wrapper while it dispatches into its
	// target) rather than held globally, so that two goroutines racing
	// on different trees never clobber each other's lookup.
	OriginLookup func(object, face any) (*Primitive, bool)

	invDir  lin.V3 // cached per-axis 1/Dir, refreshed by prime().
	bvIndex [6]int // cached slab entry indices, refreshed by prime().

	// hitLeaf is the ray-object Handle that last accepted a hit on r:
	// either a primitive's own handle or an instance's own handle. The
	// package-level Raycast entry point copies this into LastHit after
	// a successful shadow-mode cast.
	hitLeaf Handle
}

// markHit records h as the ray-object that just accepted a hit on r,
// the bookkeeping that feeds the next call's last-hit fast path.
func (r *Ray) markHit(h Handle) { r.hitLeaf = h }

// prime recomputes the inverse-direction cache and bv_index table from
// the current Dir. Must be called whenever Dir changes: the outer
// Raycast/Intersect entry points call it once, and instance.go calls it
// again after transforming Dir into the target's local space.
func (r *Ray) prime() {
	r.invDir.X, r.invDir.Y, r.invDir.Z = 1/r.Dir.X, 1/r.Dir.Y, 1/r.Dir.Z
	inv := [3]float64{r.invDir.X, r.invDir.Y, r.invDir.Z}
	for i := 0; i < 3; i++ {
		near := 0
		if inv[i] < 0.0 {
			near = 1
		}
		far := 1 - near
		r.bvIndex[2*i] = i + 3*near
		r.bvIndex[2*i+1] = i + 3*far
	}
}

// hitsBox returns true if the ray segment [0, r.Dist] intersects bb.
// Addresses the "near" and "far" corner of each slab via bvIndex
// without branching on the sign of the ray direction.
func (r *Ray) hitsBox(bb Box) bool {
	a := bb.Array()
	start := [3]float64{r.Start.X, r.Start.Y, r.Start.Z}
	inv := [3]float64{r.invDir.X, r.invDir.Y, r.invDir.Z}

	t1x := (a[r.bvIndex[0]] - start[0]) * inv[0]
	t2x := (a[r.bvIndex[1]] - start[0]) * inv[0]
	t1y := (a[r.bvIndex[2]] - start[1]) * inv[1]
	t2y := (a[r.bvIndex[3]] - start[1]) * inv[1]
	t1z := (a[r.bvIndex[4]] - start[2]) * inv[2]
	t2z := (a[r.bvIndex[5]] - start[2]) * inv[2]

	if t1x > t2y || t2x < t1y || t1x > t2z || t2x < t1z || t1y > t2z || t2y < t1z {
		return false
	}
	if t2x < 0 || t2y < 0 || t2z < 0 {
		return false
	}
	if t1x > r.Dist || t1y > r.Dist || t1z > r.Dist {
		return false
	}
	return true
}

// reset clears hit state before a fresh cast while preserving the
// caller's configuration (mode, flags, predicates, last-hit, hint).
func (r *Ray) reset(maxDist float64) {
	r.Dist = maxDist
	r.Hit = Hit{}
}

func isFiniteV3(v lin.V3) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}
