// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package raytrace

import "testing"

func TestHintEmptyFallsBack(t *testing.T) {
	var h *Hint
	r := rayDownZ(0, 0, 0)
	if hit, used := h.raycast(r); hit || used {
		t.Error("a nil hint must report unused")
	}
	h = NewHint()
	if hit, used := h.raycast(r); hit || used {
		t.Error("an empty hint must report unused")
	}
}

func TestHintPopulate(t *testing.T) {
	tree := NewBVH()
	if err := buildScene(tree, 8); err != nil {
		t.Fatal(err)
	}
	root := HandleForObject(tree)

	h := NewHint()
	// A box of interest covering the whole scene: the DFS recurses past
	// the root (which contains it) and accepts the root's children.
	if err := h.Populate(tree.root, BB(root)); err != nil {
		t.Fatal(err)
	}
	if h.Len() == 0 {
		t.Fatal("expected Populate to record at least one entry")
	}
}

// TestHintPreservesHitSet: casting through a populated hint must agree
// with a plain root descent for hits and misses alike; the hint changes
// traversal order only.
func TestHintPreservesHitSet(t *testing.T) {
	tree := NewBVH()
	if err := buildScene(tree, 8); err != nil {
		t.Fatal(err)
	}
	root := HandleForObject(tree)
	h := NewHint()
	if err := h.Populate(tree.root, BB(root)); err != nil {
		t.Fatal(err)
	}

	probes := [][3]float64{{0, 0, -1}, {0, 0, 3.5}, {100, 100, -1}}
	for _, p := range probes {
		hinted := rayDownZ(p[0], p[1], p[2])
		hinted.Hint = h
		plain := rayDownZ(p[0], p[1], p[2])
		gotH := Raycast(root, hinted)
		gotP := Raycast(root, plain)
		if gotH != gotP {
			t.Errorf("probe %v: hinted answer %v, plain answer %v", p, gotH, gotP)
			continue
		}
		if gotH && hinted.Hit != plain.Hit {
			t.Errorf("probe %v: hinted hit %+v, plain hit %+v", p, hinted.Hit, plain.Hit)
		}
	}
}

func TestHintCapacity(t *testing.T) {
	h := NewHint()
	p := HandleFor(quadAt(0, 0, 0, 1, 0))
	for i := 0; i < HintCapacity; i++ {
		if err := h.push(p); err != nil {
			t.Fatalf("push %d: unexpected error %v", i, err)
		}
	}
	if err := h.push(p); err != ErrCapacityExceeded {
		t.Fatalf("expected ErrCapacityExceeded past %d entries, got %v", HintCapacity, err)
	}
	h.Reset()
	if h.Len() != 0 {
		t.Errorf("Reset must empty the stack, got %d", h.Len())
	}
}
