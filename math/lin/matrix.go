// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

// M3 is a 3x3 matrix. Field Yx is the first element of the second row.
type M3 struct {
	Xx, Xy, Xz float64
	Yx, Yy, Yz float64
	Zx, Zy, Zz float64
}

// M4 is a 4x4 matrix. An affine transform keeps its translation in the
// bottom row at Wx, Wy, Wz with Ww == 1.
type M4 struct {
	Xx, Xy, Xz, Xw float64
	Yx, Yy, Yz, Yw float64
	Zx, Zy, Zz, Zw float64
	Wx, Wy, Wz, Ww float64
}

// M4I is a reference identity matrix. Read only.
var M4I = &M4{
	Xx: 1,
	Yy: 1,
	Zz: 1,
	Ww: 1,
}

// SetM4 updates m to be the top left 3x3 of matrix a, the rotation and
// scale of an affine transform. The updated matrix m is returned.
func (m *M3) SetM4(a *M4) *M3 {
	m.Xx, m.Xy, m.Xz = a.Xx, a.Xy, a.Xz
	m.Yx, m.Yy, m.Yz = a.Yx, a.Yy, a.Yz
	m.Zx, m.Zy, m.Zz = a.Zx, a.Zy, a.Zz
	return m
}

// Det returns the determinant of matrix m.
func (m *M3) Det() float64 {
	return m.Xx*(m.Yy*m.Zz-m.Yz*m.Zy) -
		m.Xy*(m.Yx*m.Zz-m.Yz*m.Zx) +
		m.Xz*(m.Yx*m.Zy-m.Yy*m.Zx)
}

// Inv updates m to be the inverse of matrix a. Matrix m is left
// unchanged if a has no inverse. The updated matrix m is returned.
func (m *M3) Inv(a *M3) *M3 {
	det := a.Det()
	if det == 0 {
		return m
	}
	s := 1 / det
	xx := (a.Yy*a.Zz - a.Yz*a.Zy) * s
	xy := (a.Xz*a.Zy - a.Xy*a.Zz) * s
	xz := (a.Xy*a.Yz - a.Xz*a.Yy) * s
	yx := (a.Yz*a.Zx - a.Yx*a.Zz) * s
	yy := (a.Xx*a.Zz - a.Xz*a.Zx) * s
	yz := (a.Xz*a.Yx - a.Xx*a.Yz) * s
	zx := (a.Yx*a.Zy - a.Yy*a.Zx) * s
	zy := (a.Xy*a.Zx - a.Xx*a.Zy) * s
	zz := (a.Xx*a.Yy - a.Xy*a.Yx) * s
	m.Xx, m.Xy, m.Xz = xx, xy, xz
	m.Yx, m.Yy, m.Yz = yx, yy, yz
	m.Zx, m.Zy, m.Zz = zx, zy, zz
	return m
}

// SetQ updates m to be the rotation matrix for unit quaternion q.
// Translation is zeroed and Ww is set to 1. The parameter q is
// unchanged. The updated matrix m is returned.
func (m *M4) SetQ(q *Q) *M4 {
	xx, yy, zz := q.X*q.X, q.Y*q.Y, q.Z*q.Z
	xy, xz, yz := q.X*q.Y, q.X*q.Z, q.Y*q.Z
	wx, wy, wz := q.W*q.X, q.W*q.Y, q.W*q.Z
	m.Xx, m.Xy, m.Xz, m.Xw = 1-2*(yy+zz), 2*(xy+wz), 2*(xz-wy), 0
	m.Yx, m.Yy, m.Yz, m.Yw = 2*(xy-wz), 1-2*(xx+zz), 2*(yz+wx), 0
	m.Zx, m.Zy, m.Zz, m.Zw = 2*(xz+wy), 2*(yz-wx), 1-2*(xx+yy), 0
	m.Wx, m.Wy, m.Wz, m.Ww = 0, 0, 0, 1
	return m
}
