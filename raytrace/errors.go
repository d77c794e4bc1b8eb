// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package raytrace

import "errors"

// errors.go: the build/setup error taxonomy. Query-path functions
// never return error, a miss is not an error, so these sentinels only
// ever surface from Done, CreateOctree, Config and Hint.Populate.

var (
	// ErrCancelled is returned by Done when the caller's cancel
	// function reported true mid-build.
	ErrCancelled = errors.New("raytrace: build cancelled")

	// ErrTreeDone names the Add-after-Done misuse. Add has no error
	// result: the trees log such a call via slog and ignore it, so no
	// function in this package returns ErrTreeDone.
	ErrTreeDone = errors.New("raytrace: tree already built")

	// ErrTreeNotDone names a query made before Done. Raycast, Intersect
	// and BB have no error result: before Done a tree reports a miss and
	// BB returns the bounds added so far, so no function in this package
	// returns ErrTreeNotDone.
	ErrTreeNotDone = errors.New("raytrace: tree not built yet")

	// ErrCapacityExceeded is returned by Hint.Populate when the traversal
	// hint stack would overflow its fixed depth. Tree builds have no
	// capacity limit and never return it.
	ErrCapacityExceeded = errors.New("raytrace: capacity exceeded")

	// ErrBadResolution is returned by CreateOctree for a resolution
	// outside {32, 64, 128, 256, 512}.
	ErrBadResolution = errors.New("raytrace: invalid octree resolution")

	// ErrNotBuildable is returned by Add/Done against a ray-object that
	// has nothing to build, e.g. an instance wrapper or the empty
	// sentinel: both already dispatch straight to a target with no
	// builder-backed state of their own.
	ErrNotBuildable = errors.New("raytrace: ray-object is not buildable")
)
