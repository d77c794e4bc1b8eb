// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package raytrace

import "math"

// bbox.go: axis-aligned bounding box utilities shared by every tree
// builder and traversal routine.

// Box is an axis-aligned bounding box: Min holds the smallest corner,
// Max the largest. A Box is degenerate if any Min component exceeds
// the corresponding Max component.
type Box struct {
	MinX, MinY, MinZ float64
	MaxX, MaxY, MaxZ float64
}

// EmptyBox returns a box initialized so that the first Grow call
// establishes real bounds.
func EmptyBox() Box {
	return Box{
		MinX: math.MaxFloat64, MinY: math.MaxFloat64, MinZ: math.MaxFloat64,
		MaxX: -math.MaxFloat64, MaxY: -math.MaxFloat64, MaxZ: -math.MaxFloat64,
	}
}

// Grow extends b so that point (x, y, z) is contained within it.
func (b *Box) Grow(x, y, z float64) {
	b.MinX, b.MinY, b.MinZ = math.Min(b.MinX, x), math.Min(b.MinY, y), math.Min(b.MinZ, z)
	b.MaxX, b.MaxY, b.MaxZ = math.Max(b.MaxX, x), math.Max(b.MaxY, y), math.Max(b.MaxZ, z)
}

// Union grows b so that it also contains box o.
func (b *Box) Union(o Box) {
	b.MinX, b.MinY, b.MinZ = math.Min(b.MinX, o.MinX), math.Min(b.MinY, o.MinY), math.Min(b.MinZ, o.MinZ)
	b.MaxX, b.MaxY, b.MaxZ = math.Max(b.MaxX, o.MaxX), math.Max(b.MaxY, o.MaxY), math.Max(b.MaxZ, o.MaxZ)
}

// Area returns the surface area of b, used by the SAH cost heuristic.
// Returns 0 rather than a negative number for an inverted or
// degenerate box; build must tolerate such inputs.
func (b Box) Area() float64 {
	dx, dy, dz := b.MaxX-b.MinX, b.MaxY-b.MinY, b.MaxZ-b.MinZ
	if dx < 0 || dy < 0 || dz < 0 {
		return 0
	}
	return (dx*dy + dx*dz + dy*dz) * 2
}

// Volume returns the volume of b.
func (b Box) Volume() float64 {
	return (b.MaxX - b.MinX) * (b.MaxY - b.MinY) * (b.MaxZ - b.MinZ)
}

// LargestAxis returns 0, 1, or 2 for the axis (x, y, z) along which b
// has its greatest extent. Ties favor the higher axis index.
func (b Box) LargestAxis() int {
	dx, dy, dz := b.MaxX-b.MinX, b.MaxY-b.MinY, b.MaxZ-b.MinZ
	if dx > dy {
		if dx > dz {
			return 0
		}
		return 2
	}
	if dy > dz {
		return 1
	}
	return 2
}

// FitsInside returns true if b is fully contained within outer.
// Used by the traversal hint's containment test and the VBVH
// reorganize pass.
func (b Box) FitsInside(outer Box) bool {
	return outer.MinX <= b.MinX && outer.MinY <= b.MinY && outer.MinZ <= b.MinZ &&
		outer.MaxX >= b.MaxX && outer.MaxY >= b.MaxY && outer.MaxZ >= b.MaxZ
}

// Degenerate returns true if b has zero extent on every axis, or is
// inverted (a Min past the matching Max) on any axis.
func (b Box) Degenerate() bool {
	if b.MinX > b.MaxX || b.MinY > b.MaxY || b.MinZ > b.MaxZ {
		return true
	}
	return b.MinX == b.MaxX && b.MinY == b.MaxY && b.MinZ == b.MaxZ
}

// Finite returns true if every component of b is a finite float.
func (b Box) Finite() bool {
	vs := [6]float64{b.MinX, b.MinY, b.MinZ, b.MaxX, b.MaxY, b.MaxZ}
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Corner returns one of the 8 corners of b, selected the way the
// instance wrapper enumerates them: bit 0 picks X, bit 1 picks Y,
// bit 2 picks Z, a set bit selecting the Max side.
func (b Box) Corner(i int) (x, y, z float64) {
	if i&1 != 0 {
		x = b.MaxX
	} else {
		x = b.MinX
	}
	if i&2 != 0 {
		y = b.MaxY
	} else {
		y = b.MinY
	}
	if i&4 != 0 {
		z = b.MaxZ
	} else {
		z = b.MinZ
	}
	return x, y, z
}

// Array returns b as the [minX,minY,minZ,maxX,maxY,maxZ] layout used
// by the slab test and the SIMD-packed node arrays.
func (b Box) Array() [6]float64 {
	return [6]float64{b.MinX, b.MinY, b.MinZ, b.MaxX, b.MaxY, b.MaxZ}
}
