// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

import "math"

// Q is a unit quaternion representing an orientation. The zero
// rotation is {0, 0, 0, 1}.
type Q struct {
	X, Y, Z, W float64
}

// Unit updates q to have length 1. A zero length quaternion is left
// unchanged. The updated quaternion q is returned.
func (q *Q) Unit() *Q {
	l := math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if l != 0 {
		q.X, q.Y, q.Z, q.W = q.X/l, q.Y/l, q.Z/l, q.W/l
	}
	return q
}

// T is a rigid transform: a location and an orientation. It is the
// placement scene code carries for an object instance.
type T struct {
	Loc *V3 // Location (translation, origin).
	Rot *Q  // Rotation (direction, orientation).
}

// NewT returns a transform at the origin with no rotation.
func NewT() *T {
	return &T{Loc: &V3{}, Rot: &Q{W: 1}}
}

// SetLoc updates the transform location to lx, ly, lz. The updated
// transform t is returned.
func (t *T) SetLoc(lx, ly, lz float64) *T {
	t.Loc.X, t.Loc.Y, t.Loc.Z = lx, ly, lz
	return t
}
