// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

import "math"

// V3 is a 3 element vector. It doubles as a point when the context is
// a location rather than a direction.
type V3 struct {
	X, Y, Z float64
}

// Add updates v to be the sum a+b. The updated vector v is returned.
func (v *V3) Add(a, b *V3) *V3 {
	v.X, v.Y, v.Z = a.X+b.X, a.Y+b.Y, a.Z+b.Z
	return v
}

// Sub updates v to be the difference a-b. The updated vector v is
// returned.
func (v *V3) Sub(a, b *V3) *V3 {
	v.X, v.Y, v.Z = a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return v
}

// Neg updates v to be the negation of a. The updated vector v is
// returned.
func (v *V3) Neg(a *V3) *V3 {
	v.X, v.Y, v.Z = -a.X, -a.Y, -a.Z
	return v
}

// Scale updates v to be vector a scaled by s. The updated vector v is
// returned.
func (v *V3) Scale(a *V3, s float64) *V3 {
	v.X, v.Y, v.Z = a.X*s, a.Y*s, a.Z*s
	return v
}

// Div updates v to be itself divided by scalar s. Expected to be
// non-zero; divide by zero results in +/-Inf components. The updated
// vector v is returned.
func (v *V3) Div(s float64) *V3 {
	v.X, v.Y, v.Z = v.X/s, v.Y/s, v.Z/s
	return v
}

// Dot returns the dot (inner) product of v with a.
func (v *V3) Dot(a *V3) float64 { return v.X*a.X + v.Y*a.Y + v.Z*a.Z }

// Len returns the length (magnitude) of v.
func (v *V3) Len() float64 { return math.Sqrt(v.Dot(v)) }

// Unit updates v to have length 1. A zero length vector is left
// unchanged. The updated vector v is returned.
func (v *V3) Unit() *V3 {
	if l := v.Len(); l != 0 {
		return v.Div(l)
	}
	return v
}

// Cross updates v to be the cross product a x b. Vector v may be used
// as one of the inputs. The updated vector v is returned.
func (v *V3) Cross(a, b *V3) *V3 {
	x := a.Y*b.Z - a.Z*b.Y
	y := a.Z*b.X - a.X*b.Z
	z := a.X*b.Y - a.Y*b.X
	v.X, v.Y, v.Z = x, y, z
	return v
}

// MultvM updates v to be the row vector rv multiplied by matrix m.
// Vector v may be used as the input vector rv. The updated vector v
// is returned.
//
//	                [ Xx Xy Xz ]
//	[ vx vy vz ] x  [ Yx Yy Yz ] = [ vx' vy' vz' ]
//	                [ Zx Zy Zz ]
func (v *V3) MultvM(rv *V3, m *M3) *V3 {
	x := rv.X*m.Xx + rv.Y*m.Yx + rv.Z*m.Zx
	y := rv.X*m.Xy + rv.Y*m.Yy + rv.Z*m.Zy
	z := rv.X*m.Xz + rv.Y*m.Yz + rv.Z*m.Zz
	v.X, v.Y, v.Z = x, y, z
	return v
}
