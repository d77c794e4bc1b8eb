// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package raytrace

import "github.com/gazed/raybvh/math/lin"

// helpers_test.go: scene-building helpers shared by every tree's tests.
// Each tree is exercised against the same kind of scene: a grid of unit
// quads lying in the XY plane at different Z depths, probed by rays
// travelling straight down the Z axis, so every tree's expected nearest
// hit is easy to state by hand.

// quadAt returns a unit quad centered at (cx, cy, cz), facing +Z.
func quadAt(cx, cy, cz float64, object, face any) *Primitive {
	return NewQuad(
		lin.V3{X: cx - 0.5, Y: cy - 0.5, Z: cz},
		lin.V3{X: cx + 0.5, Y: cy - 0.5, Z: cz},
		lin.V3{X: cx + 0.5, Y: cy + 0.5, Z: cz},
		lin.V3{X: cx - 0.5, Y: cy + 0.5, Z: cz},
		object, face,
	)
}

// rayDownZ returns a ready-to-cast ray starting at (x, y, z0) aimed
// down the +Z axis.
func rayDownZ(x, y, z0 float64) *Ray {
	r := &Ray{Start: lin.V3{X: x, Y: y, Z: z0}, Dir: lin.V3{X: 0, Y: 0, Z: 1}, Dist: MaxDistance}
	r.Dir.Unit()
	r.prime()
	return r
}

// buildScene adds n quads at z = 0, 1, 2, ... n-1, all centered at
// (0, 0), to tree via Add, then calls Done.
func buildScene(tree RayObject, n int) error {
	for i := 0; i < n; i++ {
		p := quadAt(0, 0, float64(i), i, 0)
		tree.Add(HandleFor(p))
	}
	return tree.Done()
}
