// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package raytrace

import (
	"math"
	"testing"
)

func TestBoxGrowUnion(t *testing.T) {
	b := EmptyBox()
	b.Grow(1, 2, 3)
	b.Grow(-1, 0, 5)
	if b.MinX != -1 || b.MaxX != 1 || b.MinY != 0 || b.MaxY != 2 || b.MinZ != 3 || b.MaxZ != 5 {
		t.Errorf("unexpected grown box %+v", b)
	}

	o := Box{MinX: -5, MinY: -5, MinZ: -5, MaxX: 0, MaxY: 0, MaxZ: 0}
	b.Union(o)
	if b.MinX != -5 || b.MaxZ != 5 {
		t.Errorf("unexpected union box %+v", b)
	}
}

func TestBoxArea(t *testing.T) {
	b := Box{MinX: 0, MinY: 0, MinZ: 0, MaxX: 2, MaxY: 3, MaxZ: 4}
	// 2*(2*3 + 2*4 + 3*4) = 52
	if b.Area() != 52 {
		t.Errorf("Area = %v, want 52", b.Area())
	}
	if EmptyBox().Area() != 0 {
		t.Errorf("an inverted box must report area 0, got %v", EmptyBox().Area())
	}
}

func TestBoxVolume(t *testing.T) {
	b := Box{MaxX: 2, MaxY: 3, MaxZ: 4}
	if b.Volume() != 24 {
		t.Errorf("Volume = %v, want 24", b.Volume())
	}
}

func TestBoxLargestAxis(t *testing.T) {
	cases := []struct {
		b    Box
		want int
	}{
		{Box{MaxX: 5, MaxY: 1, MaxZ: 1}, 0},
		{Box{MaxX: 1, MaxY: 5, MaxZ: 1}, 1},
		{Box{MaxX: 1, MaxY: 1, MaxZ: 5}, 2},
		{Box{MaxX: 1, MaxY: 1, MaxZ: 1}, 2}, // all equal: dx > dy fails, dy > dz fails.
	}
	for _, c := range cases {
		if got := c.b.LargestAxis(); got != c.want {
			t.Errorf("LargestAxis(%+v) = %d, want %d", c.b, got, c.want)
		}
	}
}

func TestBoxFitsInside(t *testing.T) {
	outer := Box{MinX: 0, MinY: 0, MinZ: 0, MaxX: 10, MaxY: 10, MaxZ: 10}
	inner := Box{MinX: 1, MinY: 1, MinZ: 1, MaxX: 9, MaxY: 9, MaxZ: 9}
	if !inner.FitsInside(outer) {
		t.Error("expected inner to fit inside outer")
	}
	if outer.FitsInside(inner) {
		t.Error("expected outer not to fit inside inner")
	}
	if !inner.FitsInside(inner) {
		t.Error("a box fits inside itself")
	}
}

func TestBoxDegenerate(t *testing.T) {
	if (Box{MaxX: 1, MaxY: 1, MaxZ: 1}).Degenerate() {
		t.Error("a proper box is not degenerate")
	}
	if !(Box{}).Degenerate() {
		t.Error("a zero-extent-everywhere box is degenerate")
	}
	if !(Box{MinX: 2, MaxX: 1, MaxY: 1, MaxZ: 1}).Degenerate() {
		t.Error("an inverted box is degenerate")
	}
	// Zero extent on one axis only (a planar quad's box) is fine.
	if (Box{MaxX: 1, MaxY: 1}).Degenerate() {
		t.Error("a flat box with extent on other axes is not degenerate")
	}
}

func TestBoxFinite(t *testing.T) {
	if !(Box{MaxX: 1}).Finite() {
		t.Error("expected a plain box to be finite")
	}
	if (Box{MaxX: math.NaN()}).Finite() {
		t.Error("expected a NaN component to be non-finite")
	}
	if (Box{MinZ: math.Inf(-1)}).Finite() {
		t.Error("expected an infinite component to be non-finite")
	}
}

func TestBoxCorner(t *testing.T) {
	b := Box{MinX: 0, MinY: 0, MinZ: 0, MaxX: 1, MaxY: 2, MaxZ: 3}
	if x, y, z := b.Corner(0); x != 0 || y != 0 || z != 0 {
		t.Errorf("corner 0 = (%v, %v, %v), want the min corner", x, y, z)
	}
	if x, y, z := b.Corner(7); x != 1 || y != 2 || z != 3 {
		t.Errorf("corner 7 = (%v, %v, %v), want the max corner", x, y, z)
	}
	if x, _, z := b.Corner(5); x != 1 || z != 3 {
		t.Errorf("corner 5: expected max x and max z, got (%v, _, %v)", x, z)
	}
}

func TestBoxArray(t *testing.T) {
	b := Box{MinX: 1, MinY: 2, MinZ: 3, MaxX: 4, MaxY: 5, MaxZ: 6}
	want := [6]float64{1, 2, 3, 4, 5, 6}
	if b.Array() != want {
		t.Errorf("Array = %v, want %v", b.Array(), want)
	}
}
