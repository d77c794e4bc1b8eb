// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package raytrace

import (
	"testing"

	"github.com/gazed/raybvh/math/lin"
)

func TestPrimeBVIndex(t *testing.T) {
	r := &Ray{Dir: lin.V3{X: 1, Y: -1, Z: 1}}
	r.Dir.Unit()
	r.prime()

	// A positive direction component enters its slab at the min corner
	// (array index axis), a negative one at the max corner (axis + 3).
	want := [6]int{0, 3, 4, 1, 2, 5}
	if r.bvIndex != want {
		t.Errorf("bvIndex = %v, want %v", r.bvIndex, want)
	}
}

func TestHitsBox(t *testing.T) {
	box := Box{MinX: -1, MinY: -1, MinZ: 4, MaxX: 1, MaxY: 1, MaxZ: 6}
	cases := []struct {
		name string
		ray  *Ray
		want bool
	}{
		{"straight through", rayDownZ(0, 0, 0), true},
		{"offset miss", rayDownZ(5, 0, 0), false},
		{"behind the origin", rayDownZ(0, 0, 10), false},
		{"inside the box", rayDownZ(0, 0, 5), true},
	}
	for _, c := range cases {
		if got := c.ray.hitsBox(box); got != c.want {
			t.Errorf("%s: hitsBox = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestHitsBoxRespectsDistance(t *testing.T) {
	box := Box{MinX: -1, MinY: -1, MinZ: 4, MaxX: 1, MaxY: 1, MaxZ: 6}
	r := rayDownZ(0, 0, 0)
	r.Dist = 2 // stops before the box's near plane at z = 4.
	if r.hitsBox(box) {
		t.Error("expected the slab test to respect the ray's max distance")
	}
}

func TestHitsBoxAxisParallel(t *testing.T) {
	// A ray with a zero direction component divides by zero into ±Inf;
	// the slab test must still answer correctly.
	box := Box{MinX: -1, MinY: -1, MinZ: -1, MaxX: 1, MaxY: 1, MaxZ: 1}
	inside := rayDownZ(0, 0, -5)
	if !inside.hitsBox(box) {
		t.Error("expected a hit for an axis-parallel ray through the box")
	}
	outside := rayDownZ(3, 0, -5)
	if outside.hitsBox(box) {
		t.Error("expected a miss for an axis-parallel ray beside the box")
	}
}

func TestRayDistShrinksMonotonically(t *testing.T) {
	tree := NewBVH()
	if err := buildScene(tree, 3); err != nil {
		t.Fatal(err)
	}
	r := rayDownZ(0, 0, -1)
	before := r.Dist
	if !tree.Raycast(r) {
		t.Fatal("expected a hit")
	}
	if r.Dist >= before {
		t.Errorf("a hit must shrink the ray's distance: %v -> %v", before, r.Dist)
	}
	if r.Dist != r.Hit.Dist {
		t.Errorf("the ray's distance %v must match the recorded hit %v", r.Dist, r.Hit.Dist)
	}
}
