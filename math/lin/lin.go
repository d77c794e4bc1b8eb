// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package lin supplies the small amount of linear algebra the ray
// tracing structures need: a 3 element vector, 3x3 and 4x4 matrices,
// a quaternion, and a location+rotation transform.
//
// Matrices are laid out row-major and vectors multiply on the left as
// row vectors:
//
//	x' = x*Xx + y*Yx + z*Zx + Tx
//
// so an affine 4x4 carries its translation in the bottom (W) row.
// Method receivers are destinations: v.Sub(a, b) stores a-b in v and
// returns v so calls can chain. A receiver may alias any operand.
package lin
