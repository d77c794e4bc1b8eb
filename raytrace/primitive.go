// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package raytrace

import "github.com/gazed/raybvh/math/lin"

// primitive.go: the triangle/quad leaf geometry every tree indexes,
// and the skip/check gated ray-primitive intersection test.

// Primitive is a triangle (V3 unused when Quad is false) or a
// co-planar quad. It carries two opaque owner handles recovered by
// callers on a hit: Object identifies the owning mesh instance, Face
// identifies the mesh element, and both together identify the origin
// for self-intersection suppression.
type Primitive struct {
	V0, V1, V2, V3 lin.V3
	Quad           bool
	Object         any
	Face           any

	// Layer is the owning object's render-layer bitmask. Zero means the
	// primitive is on every layer.
	Layer int

	// selfHandle is the Handle HandleFor wrapped this primitive in,
	// recorded so a successful hit can feed Ray.markHit for the
	// last-hit shadow optimization without the caller having to track
	// the mapping itself.
	selfHandle Handle
}

// NewTriangle builds a triangle primitive. Returns nil if the triangle
// is degenerate (zero area) or any vertex is non-finite; build code
// silently drops a nil primitive rather than indexing it. Upstream
// geometry pipelines occasionally emit such degenerates.
func NewTriangle(v0, v1, v2 lin.V3, object, face any) *Primitive {
	p := &Primitive{V0: v0, V1: v1, V2: v2, Object: object, Face: face}
	if !p.valid() {
		return nil
	}
	return p
}

// NewQuad builds a quad primitive from four co-planar vertices wound
// consistently (v0,v1,v2 and v0,v2,v3 must each be a valid triangle).
// Returns nil under the same degeneracy rule as NewTriangle.
func NewQuad(v0, v1, v2, v3 lin.V3, object, face any) *Primitive {
	p := &Primitive{V0: v0, V1: v1, V2: v2, V3: v3, Quad: true, Object: object, Face: face}
	if !p.valid() {
		return nil
	}
	return p
}

// valid reports whether every vertex is finite and the primitive has
// non-zero area. A quad is valid if its first triangle half is valid;
// the second half is allowed to be degenerate (a triangle masquerading
// as a quad with V2==V3).
func (p *Primitive) valid() bool {
	if !isFiniteV3(p.V0) || !isFiniteV3(p.V1) || !isFiniteV3(p.V2) {
		return false
	}
	if p.Quad && !isFiniteV3(p.V3) {
		return false
	}
	var e1, e2, n lin.V3
	e1.Sub(&p.V1, &p.V0)
	e2.Sub(&p.V2, &p.V0)
	n.Cross(&e1, &e2)
	return n.Dot(&n) > Epsilon*Epsilon
}

// BB returns the object-space bounding box of p.
func (p *Primitive) BB() Box {
	bb := EmptyBox()
	bb.Grow(p.V0.X, p.V0.Y, p.V0.Z)
	bb.Grow(p.V1.X, p.V1.Y, p.V1.Z)
	bb.Grow(p.V2.X, p.V2.Y, p.V2.Z)
	if p.Quad {
		bb.Grow(p.V3.X, p.V3.Y, p.V3.Z)
	}
	return bb
}

// intersect runs the full skip/check gated ray-primitive test,
// updating r.Hit and r.Dist on success. Gating order: self-intersection,
// layer mask, render check, non-solid-material check, each independently
// before the numeric test, followed by the near-hit re-test. The render
// check goes first among the predicates as the cheapest and most likely
// to reject.
func (p *Primitive) intersect(r *Ray) bool {
	if r.From.Object != nil && r.From.Object == p.Object && r.From.Face == p.Face {
		return false
	}
	if r.Layer > 0 && p.Layer > 0 && r.Layer&p.Layer == 0 {
		return false
	}
	if r.Check == CheckRender && r.RenderCheck != nil && !r.RenderCheck(p.Object) {
		return false
	}
	if r.Check == CheckNonSolid && r.SolidCheck != nil && !r.SolidCheck(p.Object) {
		return false
	}

	if hit, dist, u, v, half := p.raycastTri(r, 0); hit {
		return p.accept(r, dist, u, v, half)
	}
	if p.Quad {
		if hit, dist, u, v, half := p.raycastTri(r, 1); hit {
			return p.accept(r, dist, u, v, half)
		}
	}
	return false
}

// accept applies the near-hit re-test to a numeric candidate hit, then
// commits it to r on success.
func (p *Primitive) accept(r *Ray, dist, u, v float64, half int) bool {
	if r.Skip&SkipNeighbour != 0 && r.From.Object == p.Object && dist < NeighbourEpsilon {
		if !p.confirmNeighbour(r, dist) {
			return false
		}
	}
	r.Dist = dist
	r.Hit = Hit{Dist: dist, U: u, V: v, QuadHalf: half, Object: p.Object, Face: p.Face}
	r.markHit(p.selfHandle)
	return true
}

// confirmNeighbour re-casts a reversed probe from the tentative hit
// point back at the ray's origin face to decide whether a near-zero
// distance hit is real geometry or numerical bleed-through from a
// shared edge/vertex with the origin face. Since this package has no
// mesh topology of its own, the origin face is recovered through
// r.OriginLookup from the ray's (object, face) origin pair; without a
// lookup, or when the pair is unknown, the hit is kept.
func (p *Primitive) confirmNeighbour(r *Ray, dist float64) bool {
	if r.OriginLookup == nil {
		return true
	}
	origin, ok := r.OriginLookup(r.From.Object, r.From.Face)
	if !ok {
		return true
	}
	var hit lin.V3
	hit.Scale(&r.Dir, dist)
	hit.Add(&hit, &r.Start)

	probe := Ray{Start: hit, Dist: NeighbourEpsilon * 2}
	probe.Dir.Neg(&r.Dir)
	probe.prime()
	h, _, _, _, _ := origin.raycastTri(&probe, 0)
	if !h && origin.Quad {
		h, _, _, _, _ = origin.raycastTri(&probe, 1)
	}
	return h
}

// raycastTri runs a Moller-Trumbore intersection against triangle half
// (0 for V0,V1,V2, or 1 for V0,V2,V3 on a quad) and reports the
// candidate hit without applying any skip/check gating or committing
// it to r. half is echoed back as the QuadHalf the caller should record
// (0 for a plain triangle, 1 or 2 for a quad half).
func (p *Primitive) raycastTri(r *Ray, half int) (hit bool, dist, u, v float64, quadHalf int) {
	v0, v1, v2 := p.V0, p.V1, p.V2
	quadHalf = 0
	if half == 1 {
		v0, v1, v2 = p.V0, p.V2, p.V3
		quadHalf = 2
	} else if p.Quad {
		quadHalf = 1
	}

	var e1, e2, pvec, tvec, qvec lin.V3
	e1.Sub(&v1, &v0)
	e2.Sub(&v2, &v0)
	pvec.Cross(&r.Dir, &e2)
	det := e1.Dot(&pvec)

	if r.Skip&SkipCullFace != 0 && det < Epsilon {
		return false, 0, 0, 0, 0
	}
	if det > -Epsilon && det < Epsilon {
		return false, 0, 0, 0, 0
	}
	invDet := 1 / det

	tvec.Sub(&r.Start, &v0)
	u = tvec.Dot(&pvec) * invDet
	if u < -Epsilon || u > 1+Epsilon {
		return false, 0, 0, 0, 0
	}

	qvec.Cross(&tvec, &e1)
	v = r.Dir.Dot(&qvec) * invDet
	if v < -Epsilon || u+v > 1+Epsilon {
		return false, 0, 0, 0, 0
	}

	t := e2.Dot(&qvec) * invDet
	if t <= Epsilon || t > r.Dist {
		return false, 0, 0, 0, 0
	}
	return true, t, u, v, quadHalf
}
