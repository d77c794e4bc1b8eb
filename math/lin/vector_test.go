// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

import (
	"math"
	"testing"
)

func TestAddSubNeg(t *testing.T) {
	a, b := &V3{X: 1, Y: 2, Z: 3}, &V3{X: 4, Y: 5, Z: 6}
	var v V3
	if v.Add(a, b); v != (V3{X: 5, Y: 7, Z: 9}) {
		t.Errorf("Add gave %+v", v)
	}
	if v.Sub(b, a); v != (V3{X: 3, Y: 3, Z: 3}) {
		t.Errorf("Sub gave %+v", v)
	}
	if v.Neg(a); v != (V3{X: -1, Y: -2, Z: -3}) {
		t.Errorf("Neg gave %+v", v)
	}
}

func TestScaleDiv(t *testing.T) {
	v := V3{X: 1, Y: -2, Z: 4}
	if v.Scale(&v, 2); v != (V3{X: 2, Y: -4, Z: 8}) {
		t.Errorf("Scale gave %+v", v)
	}
	if v.Div(2); v != (V3{X: 1, Y: -2, Z: 4}) {
		t.Errorf("Div gave %+v", v)
	}
}

func TestDotLen(t *testing.T) {
	a, b := &V3{X: 1, Y: 2, Z: 3}, &V3{X: 4, Y: -5, Z: 6}
	if got := a.Dot(b); got != 12 {
		t.Errorf("Dot gave %v, want 12", got)
	}
	v := &V3{X: 3, Y: 4, Z: 0}
	if got := v.Len(); got != 5 {
		t.Errorf("Len gave %v, want 5", got)
	}
}

func TestUnit(t *testing.T) {
	v := &V3{X: 0, Y: 3, Z: 4}
	v.Unit()
	if math.Abs(v.Len()-1) > 1e-12 {
		t.Errorf("Unit length %v, want 1", v.Len())
	}
	zero := &V3{}
	zero.Unit()
	if *zero != (V3{}) {
		t.Errorf("Unit of a zero vector changed it to %+v", zero)
	}
}

func TestCross(t *testing.T) {
	x, y := &V3{X: 1}, &V3{Y: 1}
	var v V3
	if v.Cross(x, y); v != (V3{Z: 1}) {
		t.Errorf("x cross y gave %+v, want z", v)
	}
	// The receiver may alias an input.
	a := V3{X: 1}
	a.Cross(&a, y)
	if a != (V3{Z: 1}) {
		t.Errorf("aliased cross gave %+v, want z", a)
	}
}

func TestMultvM(t *testing.T) {
	// A 90 degree rotation about z maps x to y.
	rot := &M3{Xy: 1, Yx: -1, Zz: 1}
	v := &V3{X: 1}
	v.MultvM(v, rot)
	if math.Abs(v.X) > 1e-12 || math.Abs(v.Y-1) > 1e-12 || math.Abs(v.Z) > 1e-12 {
		t.Errorf("row vector rotation gave %+v, want +y", v)
	}
}
