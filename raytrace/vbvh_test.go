// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package raytrace

import "testing"

func TestVBVHFindsNearestHit(t *testing.T) {
	tree := NewVBVH()
	if err := buildScene(tree, 8); err != nil {
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

func TestVBVHMiss(t *testing.T) {
	tree := NewVBVH()
	if err := buildScene(tree, 4); err != nil {
		t.Fatal(err)
	}
	r := rayDownZ(100, 100, -1)
	if tree.Raycast(r) {
		t.Fatal("expected a miss")
	}
}

func TestVBVHPreservesReachability(t *testing.T) {
	tree := NewVBVH()
	const n = 12
	if err := buildScene(tree, n); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < n; i++ {
		r := rayDownZ(0, 0, float64(i)-0.5) // start just short of quad i
		if !tree.Raycast(r) {
			t.Errorf("quad %d unreachable after the optimization passes", i)
			continue
		}
		if r.Hit.Object != i {
			t.Errorf("quad %d: expected hit object %d, got %v", i, i, r.Hit.Object)
		}
	}
}

// countLeaves walks a vbvhNode tree (or a single primitive leaf) and
// counts the primitives reachable from h.
func countLeaves(h Handle) int {
	if h.IsEmpty() {
		return 0
	}
	if _, ok := h.Primitive(); ok {
		return 1
	}
	n, ok := asVBVHNode(h)
	if !ok {
		return 1 // some other concrete leaf kind (e.g. an instance).
	}
	count := 0
	for _, l := range n.children() {
		count += countLeaves(l.handle)
	}
	return count
}

func TestOptimizationPassesPreserveLeafCount(t *testing.T) {
	var b Builder
	const n = 9
	for i := 0; i < n; i++ {
		b.Add(HandleFor(quadAt(float64(i), 0, 0, i, 0)))
	}
	if err := b.Done(nil); err != nil {
		t.Fatal(err)
	}
	root := vbvhBuild(b.Root())
	if got := countLeaves(root); got != n {
		t.Fatalf("unoptimized tree: expected %d leaves, got %d", n, got)
	}
	optimized := pushDown(pushUp(removeUseless(reorganize(root))))
	if got := countLeaves(optimized); got != n {
		t.Errorf("optimized tree: expected %d leaves, got %d", n, got)
	}
}
