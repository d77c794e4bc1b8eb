// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package raytrace

import "testing"

func TestBIHFindsNearestHit(t *testing.T) {
	tree := NewBIH()
	if err := buildScene(tree, 6); err != nil {
		t.Fatal(err)
	}
	r := rayDownZ(0, 0, -1)
	if !tree.Raycast(r) {
		t.Fatal("expected a hit")
	}
	if r.Hit.Object != 0 || r.Hit.Dist != 1 {
		t.Errorf("expected nearest quad at distance 1, got object %v dist %v", r.Hit.Object, r.Hit.Dist)
	}
}

func TestBIHMiss(t *testing.T) {
	tree := NewBIH()
	if err := buildScene(tree, 4); err != nil {
		t.Fatal(err)
	}
	r := rayDownZ(100, 100, -1)
	if tree.Raycast(r) {
		t.Fatal("expected a miss")
	}
}

func TestBIHShadowStopsAtFirstHit(t *testing.T) {
	tree := NewBIH()
	if err := buildScene(tree, 6); err != nil {
		t.Fatal(err)
	}
	r := rayDownZ(0, 0, -1)
	r.Mode = Shadow
	if !tree.Raycast(r) {
		t.Fatal("expected a hit")
	}
}

func TestBIHEmptyTree(t *testing.T) {
	tree := NewBIH()
	if err := tree.Done(); err != nil {
		t.Fatal(err)
	}
	r := rayDownZ(0, 0, -1)
	if tree.Raycast(r) {
		t.Error("expected an empty tree to never report a hit")
	}
}

// TestBIHPreservesReachability exercises all four quadrants of the
// node's fixed 4-wide children array. rayDownZ leaves Mode at its zero
// value, Shadow, so each probe stops at the first hit it finds.
func TestBIHPreservesReachability(t *testing.T) {
	tree := NewBIH()
	const n = 9
	if err := buildScene(tree, n); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < n; i++ {
		r := rayDownZ(0, 0, float64(i)-0.5)
		if !tree.Raycast(r) {
			t.Errorf("quad %d unreachable", i)
			continue
		}
		if r.Hit.Object != i {
			t.Errorf("quad %d: expected hit object %d, got %v", i, i, r.Hit.Object)
		}
		if r.Hit.Dist != 0.5 {
			t.Errorf("quad %d: expected hit distance 0.5, got %v", i, r.Hit.Dist)
		}
	}
}

func TestBIHIntersectBoolOnly(t *testing.T) {
	tree := NewBIH()
	if err := buildScene(tree, 3); err != nil {
		t.Fatal(err)
	}
	r := rayDownZ(0, 0, -1)
	if !tree.Intersect(r) {
		t.Fatal("expected a hit")
	}
}

func TestHalfSplit(t *testing.T) {
	cases := []struct{ n, want int }{
		{2, 1},
		{3, 1},
		{4, 2},
		{5, 2},
	}
	for _, c := range cases {
		if got := halfSplit(c.n); got != c.want {
			t.Errorf("halfSplit(%d) = %d, want %d", c.n, got, c.want)
		}
	}
}
