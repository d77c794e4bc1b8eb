// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package raytrace

import "github.com/gazed/raybvh/math/lin"

// instance.go: the transform-wrapping instance: save the ray,
// transform it into the target's local space, dispatch, convert a
// local hit back to world space, then restore the ray regardless of
// outcome.
//
// world2local is this instance's own computed affine inverse of the
// caller-supplied local2world, since a general (possibly
// non-uniformly-scaled) instance transform needs a real matrix
// inverse, not just a rotation/translation math/lin.T.

// Instance wraps target with a local<->world transform. Add, Done, and
// hint population are all disabled: the wrapper is not buildable, it
// only places an already built target.
type Instance struct {
	target      Handle
	local2world lin.M4
	world2local lin.M4

	ownerObject       any // recorded on a hit as the instance's own object handle.
	ownerTargetObject any // substituted as From.Object while dispatching into target.

	self Handle // this instance's own Handle, set by CreateInstance.
}

// NewInstance builds an instance wrapping target by local2world. Only
// CreateInstance (api.go) should call this, since it also needs to set
// the returned RayObject's self handle.
func NewInstance(target Handle, local2world lin.M4, ownerObject, ownerTargetObject any) *Instance {
	return &Instance{
		target:            target,
		local2world:       local2world,
		world2local:       invertAffine(local2world),
		ownerObject:       ownerObject,
		ownerTargetObject: ownerTargetObject,
	}
}

// m3Of extracts the upper-left 3x3 (rotation and/or scale) of m.
func m3Of(m lin.M4) lin.M3 {
	var r lin.M3
	r.SetM4(&m)
	return r
}

// invertAffine computes the inverse of an affine (rotation/scale plus
// translation) 4x4 matrix: invert the upper-left 3x3 with M3.Inv, then
// recover the translation row as -(T * Rinv), matching the row-vector
// convention documented in the math/lin package comment (lin.go).
func invertAffine(m lin.M4) lin.M4 {
	r := m3Of(m)
	var rInv lin.M3
	rInv.Inv(&r)

	var t, tInv lin.V3
	t = lin.V3{X: m.Wx, Y: m.Wy, Z: m.Wz}
	tInv.MultvM(&t, &rInv)
	tInv.Scale(&tInv, -1)

	return lin.M4{
		Xx: rInv.Xx, Xy: rInv.Xy, Xz: rInv.Xz, Xw: 0,
		Yx: rInv.Yx, Yy: rInv.Yy, Yz: rInv.Yz, Yw: 0,
		Zx: rInv.Zx, Zy: rInv.Zy, Zz: rInv.Zz, Zw: 0,
		Wx: tInv.X, Wy: tInv.Y, Wz: tInv.Z, Ww: 1,
	}
}

// appPoint applies m (with translation) to point p, row-vector style.
func appPoint(m lin.M4, p lin.V3) lin.V3 {
	r := m3Of(m)
	var out lin.V3
	out.MultvM(&p, &r)
	out.X += m.Wx
	out.Y += m.Wy
	out.Z += m.Wz
	return out
}

// appVec applies m's linear part only (no translation) to vector v,
// used for directions and for converting a local-space displacement
// back to world space.
func appVec(m lin.M4, v lin.V3) lin.V3 {
	r := m3Of(m)
	var out lin.V3
	out.MultvM(&v, &r)
	return out
}

// Add and Done are no-ops returning ErrNotBuildable: an instance has no
// primitives of its own to collect, only a transform and a target that
// is already built.
func (in *Instance) Add(Handle)  {}
func (in *Instance) Done() error { return ErrNotBuildable }

func (in *Instance) BB() Box {
	tb := in.target.BB()
	out := EmptyBox()
	for i := 0; i < 8; i++ {
		x, y, z := tb.Corner(i)
		w := appPoint(in.local2world, lin.V3{X: x, Y: y, Z: z})
		out.Grow(w.X, w.Y, w.Z)
	}
	return out
}

// Cost adds a flat per-instance overhead on top of the target's own
// cost.
const instanceOverheadCost = 1.0

func (in *Instance) Cost() float64 { return instanceOverheadCost + in.target.Cost() }

func (in *Instance) Raycast(r *Ray) bool { return in.cast(r, false) }
func (in *Instance) Intersect(r *Ray) bool { return in.cast(r, true) }

// cast: save the ray, rewrite the self-intersection origin when the
// ray departed from this instance, transform into local space,
// recompute the slab cache, dispatch, convert a hit's distance back to
// world space, and restore the ray's origin-dependent state
// unconditionally.
func (in *Instance) cast(r *Ray, boolOnly bool) bool {
	savedStart, savedDir := r.Start, r.Dir
	savedInvDir, savedBVIndex := r.invDir, r.bvIndex
	savedDist := r.Dist
	savedFrom := r.From

	restoreLookup := wireOriginLookup(in.target, r)
	defer restoreLookup()

	// Only a ray that departed from this instance's own object gets its
	// origin rewritten to the target's object. Rewriting unconditionally
	// would suppress genuine hits for rays from unrelated objects whose
	// origin face id happens to collide with a face id inside the target.
	if savedFrom.Object == in.ownerObject {
		r.From.Object = in.ownerTargetObject
	}

	localStart := appPoint(in.world2local, savedStart)
	localDirUnscaled := appVec(in.world2local, savedDir)
	preLen := localDirUnscaled.Len()
	localDir := localDirUnscaled
	if preLen != 0 {
		localDir.Div(preLen)
	}

	r.Start = localStart
	r.Dir = localDir
	if preLen != 0 {
		r.Dist = savedDist * preLen
	}
	r.prime()

	var hit bool
	if boolOnly {
		hit = in.target.Intersect(r)
	} else {
		hit = in.target.Raycast(r)
	}

	if hit && !boolOnly {
		localHitDist := r.Hit.Dist
		var localPoint lin.V3
		localPoint.Scale(&localDir, localHitDist)
		worldVec := appVec(in.local2world, localPoint)
		r.Dist = worldVec.Len()
		r.Hit.Dist = r.Dist
		r.Hit.Object = in.ownerObject
		r.markHit(in.self)
	}

	r.Start, r.Dir = savedStart, savedDir
	r.invDir, r.bvIndex = savedInvDir, savedBVIndex
	r.From = savedFrom
	if !hit || boolOnly {
		r.Dist = savedDist
	}
	return hit
}
