// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

import (
	"math"
	"testing"
)

func TestSetM4(t *testing.T) {
	a := &M4{
		Xx: 1, Xy: 2, Xz: 3, Xw: 4,
		Yx: 5, Yy: 6, Yz: 7, Yw: 8,
		Zx: 9, Zy: 10, Zz: 11, Zw: 12,
		Wx: 13, Wy: 14, Wz: 15, Ww: 16,
	}
	var m M3
	m.SetM4(a)
	want := M3{Xx: 1, Xy: 2, Xz: 3, Yx: 5, Yy: 6, Yz: 7, Zx: 9, Zy: 10, Zz: 11}
	if m != want {
		t.Errorf("SetM4 gave %+v, want %+v", m, want)
	}
}

func TestDet(t *testing.T) {
	scale := &M3{Xx: 2, Yy: 3, Zz: 4}
	if got := scale.Det(); got != 24 {
		t.Errorf("Det gave %v, want 24", got)
	}
	singular := &M3{Xx: 1, Xy: 2, Xz: 3, Yx: 2, Yy: 4, Yz: 6, Zz: 1}
	if got := singular.Det(); got != 0 {
		t.Errorf("Det of a singular matrix gave %v, want 0", got)
	}
}

func TestInv(t *testing.T) {
	a := &M3{Xx: 2, Xy: 0, Xz: 1, Yx: 0, Yy: 3, Yz: 0, Zx: 1, Zy: 0, Zz: 1}
	var inv, id M3
	inv.Inv(a)

	// a times its inverse must be identity.
	id.Xx = a.Xx*inv.Xx + a.Xy*inv.Yx + a.Xz*inv.Zx
	id.Xy = a.Xx*inv.Xy + a.Xy*inv.Yy + a.Xz*inv.Zy
	id.Xz = a.Xx*inv.Xz + a.Xy*inv.Yz + a.Xz*inv.Zz
	id.Yx = a.Yx*inv.Xx + a.Yy*inv.Yx + a.Yz*inv.Zx
	id.Yy = a.Yx*inv.Xy + a.Yy*inv.Yy + a.Yz*inv.Zy
	id.Yz = a.Yx*inv.Xz + a.Yy*inv.Yz + a.Yz*inv.Zz
	id.Zx = a.Zx*inv.Xx + a.Zy*inv.Yx + a.Zz*inv.Zx
	id.Zy = a.Zx*inv.Xy + a.Zy*inv.Yy + a.Zz*inv.Zy
	id.Zz = a.Zx*inv.Xz + a.Zy*inv.Yz + a.Zz*inv.Zz
	want := M3{Xx: 1, Yy: 1, Zz: 1}
	got := [9]float64{id.Xx, id.Xy, id.Xz, id.Yx, id.Yy, id.Yz, id.Zx, id.Zy, id.Zz}
	ref := [9]float64{want.Xx, want.Xy, want.Xz, want.Yx, want.Yy, want.Yz, want.Zx, want.Zy, want.Zz}
	for i := range got {
		if math.Abs(got[i]-ref[i]) > 1e-12 {
			t.Fatalf("a * Inv(a) gave %+v, want identity", id)
		}
	}
}

func TestInvSingularUnchanged(t *testing.T) {
	singular := &M3{Xx: 1, Yx: 2, Zx: 3}
	m := M3{Xx: 7}
	m.Inv(singular)
	if m != (M3{Xx: 7}) {
		t.Errorf("Inv of a singular matrix changed the receiver to %+v", m)
	}
}

func TestSetQ(t *testing.T) {
	var m M4
	m.SetQ(&Q{W: 1}) // zero rotation.
	if m != *M4I {
		t.Errorf("SetQ of the identity quaternion gave %+v, want identity", m)
	}

	// 90 degrees about z: sin(45)=cos(45)=sqrt(2)/2.
	s := math.Sqrt2 / 2
	m.SetQ(&Q{Z: s, W: s})
	var v V3
	var r M3
	r.SetM4(&m)
	v.MultvM(&V3{X: 1}, &r)
	if math.Abs(v.X) > 1e-12 || math.Abs(v.Y-1) > 1e-12 {
		t.Errorf("quaternion z rotation mapped x to %+v, want +y", v)
	}
}
