// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package raytrace implements a ray-tracing spatial acceleration
// subsystem: a family of interchangeable hierarchical indices (octree,
// BIH, BVH, VBVH, SVBVH, a library-BVH wrapper and transform-wrapping
// instances) built once over triangle/quad primitives and then queried
// many times by concurrent ray casts.
//
// Every concrete index is reached through Handle, a small tagged-union
// value: a handle is either a Primitive, a RayObject (an api-node with
// its own vtable), or the zero Handle, which behaves as an internal
// sentinel to the structure that holds it.
package raytrace
