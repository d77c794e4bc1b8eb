// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package raytrace

import (
	"log/slog"
	"math"

	"github.com/gazed/raybvh/math/lin"
)

// octree.go: the fixed-resolution, 8-way-branching spatial hash.
// Build computes global bounds enlarged by an epsilon, a per-axis cell
// scale, then for every primitive the set of voxel cells its bounding
// box overlaps, refined by a triangle-plane-vs-cell-corners test.
// Traversal is a 3-D DDA that steps cell to cell along the smallest-t
// axis until a hit is confirmed closer than the next cell boundary.
// Each cell chains any number of entries in a growable slice.

// OctreeResolutions lists the only resolutions CreateOctree accepts.
var OctreeResolutions = [5]int{32, 64, 128, 256, 512}

func validOctreeResolution(r int) bool {
	for _, v := range OctreeResolutions {
		if v == r {
			return true
		}
	}
	return false
}

// octreeOcvalBits is the per-axis sub-cell resolution of the ocval
// exclusion bitmask.
const octreeOcvalBits = 15

type octreeEntry struct {
	handle Handle
	ocval  [3]uint32 // bit i set: primitive's bbox reaches sub-cell i on that axis.
}

type octreeCell struct {
	entries []octreeEntry
}

// Octree is an 8-way-branching, fixed-resolution spatial hash over
// triangle/quad primitives.
type Octree struct {
	res     int
	builder Builder
	bb      Box // enlarged global bounds, valid only after Done.
	cellLen lin.V3
	cells   map[[3]int]*octreeCell
	done    bool
}

// NewOctree returns an empty octree of the given resolution, or
// ErrBadResolution if resolution isn't one of {32,64,128,256,512}.
func NewOctree(resolution int) (*Octree, error) {
	if !validOctreeResolution(resolution) {
		return nil, ErrBadResolution
	}
	return &Octree{res: resolution}, nil
}

func (t *Octree) Add(p Handle) {
	if t.done {
		slog.Error("raytrace: Add called after Done", "tree", "octree")
		return
	}
	t.builder.Add(p)
}

func (t *Octree) setCancel(c func() bool) { t.builder.cancel = c }

func (t *Octree) Done() error {
	if t.done {
		return nil
	}
	t.done = true
	if t.builder.Len() == 0 {
		return nil
	}
	bb := t.builder.BB()
	const eps = 1e-4
	bb.MinX, bb.MinY, bb.MinZ = bb.MinX-eps, bb.MinY-eps, bb.MinZ-eps
	bb.MaxX, bb.MaxY, bb.MaxZ = bb.MaxX+eps, bb.MaxY+eps, bb.MaxZ+eps
	t.bb = bb

	dx, dy, dz := bb.MaxX-bb.MinX, bb.MaxY-bb.MinY, bb.MaxZ-bb.MinZ
	t.cellLen = lin.V3{X: dx / float64(t.res), Y: dy / float64(t.res), Z: dz / float64(t.res)}
	t.cells = map[[3]int]*octreeCell{}

	for i := range t.builder.entries {
		if t.builder.cancel != nil && t.builder.cancel() {
			t.cells = nil
			t.bb = Box{}
			return ErrCancelled
		}
		t.insert(&t.builder.entries[i])
	}
	return nil
}

// cellIndex returns the voxel cell containing world point (x,y,z),
// clamped to [0,res).
func (t *Octree) cellIndex(x, y, z float64) [3]int {
	ix := int((x - t.bb.MinX) / t.cellLen.X)
	iy := int((y - t.bb.MinY) / t.cellLen.Y)
	iz := int((z - t.bb.MinZ) / t.cellLen.Z)
	return [3]int{clampCell(ix, t.res), clampCell(iy, t.res), clampCell(iz, t.res)}
}

func clampCell(i, res int) int {
	if i < 0 {
		return 0
	}
	if i >= res {
		return res - 1
	}
	return i
}

// insert finds every cell e's bounding box overlaps, refines each
// candidate by a triangle-plane-vs-corners test, and for every
// accepted cell appends e with its ocval sub-range mask.
func (t *Octree) insert(e *primEntry) {
	lo := t.cellIndex(e.bb.MinX, e.bb.MinY, e.bb.MinZ)
	hi := t.cellIndex(e.bb.MaxX, e.bb.MaxY, e.bb.MaxZ)
	p, isPrim := e.handle.Primitive()

	for cx := lo[0]; cx <= hi[0]; cx++ {
		for cy := lo[1]; cy <= hi[1]; cy++ {
			for cz := lo[2]; cz <= hi[2]; cz++ {
				key := [3]int{cx, cy, cz}
				cellBB := t.cellBox(key)
				if isPrim && !planeCrossesBox(p, cellBB) {
					continue
				}
				cell := t.cells[key]
				if cell == nil {
					cell = &octreeCell{}
					t.cells[key] = cell
				}
				cell.entries = append(cell.entries, octreeEntry{
					handle: e.handle,
					ocval:  t.ocval(e.bb, cellBB),
				})
			}
		}
	}
}

func (t *Octree) cellBox(key [3]int) Box {
	return Box{
		MinX: t.bb.MinX + float64(key[0])*t.cellLen.X,
		MinY: t.bb.MinY + float64(key[1])*t.cellLen.Y,
		MinZ: t.bb.MinZ + float64(key[2])*t.cellLen.Z,
		MaxX: t.bb.MinX + float64(key[0]+1)*t.cellLen.X,
		MaxY: t.bb.MinY + float64(key[1]+1)*t.cellLen.Y,
		MaxZ: t.bb.MinZ + float64(key[2]+1)*t.cellLen.Z,
	}
}

// planeCrossesBox reports whether p's plane separates cellBB's 8
// corners (the primitive's surface could plausibly pass through this
// cell), matching the refine step in rayobject_octree.cpp. Accepts the
// cell whenever corners don't all fall strictly on one side.
func planeCrossesBox(p *Primitive, cellBB Box) bool {
	var e1, e2, n lin.V3
	e1.Sub(&p.V1, &p.V0)
	e2.Sub(&p.V2, &p.V0)
	n.Cross(&e1, &e2)
	d := -n.Dot(&p.V0)

	neg, pos := false, false
	for i := 0; i < 8; i++ {
		x, y, z := cellBB.Corner(i)
		s := n.X*x + n.Y*y + n.Z*z + d
		if s < 0 {
			neg = true
		} else if s > 0 {
			pos = true
		} else {
			return true
		}
	}
	return neg && pos
}

// ocval computes, per axis, a 15-bit mask of which sub-cells of cellBB
// the primitive's own bounding box (e.g bb) reaches. Using the
// primitive's full bbox (a superset of what it actually occupies
// within this one cell) guarantees the mask can only over-include,
// never under-include, so the traversal short-circuit below can never
// produce a false miss.
func (t *Octree) ocval(bb, cellBB Box) [3]uint32 {
	return [3]uint32{
		axisOcval(bb.MinX, bb.MaxX, cellBB.MinX, cellBB.MaxX),
		axisOcval(bb.MinY, bb.MaxY, cellBB.MinY, cellBB.MaxY),
		axisOcval(bb.MinZ, bb.MaxZ, cellBB.MinZ, cellBB.MaxZ),
	}
}

func axisOcval(pMin, pMax, cMin, cMax float64) uint32 {
	span := cMax - cMin
	if span <= 0 {
		return (1 << octreeOcvalBits) - 1
	}
	lo := int(math.Floor((pMin - cMin) / span * octreeOcvalBits))
	hi := int(math.Floor((pMax - cMin) / span * octreeOcvalBits))
	if lo < 0 {
		lo = 0
	}
	if hi >= octreeOcvalBits {
		hi = octreeOcvalBits - 1
	}
	if hi < lo {
		hi = lo
	}
	var mask uint32
	for b := lo; b <= hi; b++ {
		mask |= 1 << uint(b)
	}
	return mask
}

func (t *Octree) BB() Box {
	if !t.done {
		return t.builder.BB()
	}
	return t.bb
}

func (t *Octree) Cost() float64 {
	return float64(t.builder.Len())
}

func (t *Octree) lookup(object, face any) (*Primitive, bool) { return t.builder.lookup(object, face) }

// Raycast walks the octree with a 3-D DDA, visiting cells from nearest
// to farthest and testing every entry in each cell (after the ocval
// short-circuit) until a hit is confirmed closer than the next cell's
// near-t. Shadow rays return on the first confirmed hit.
func (t *Octree) Raycast(r *Ray) bool {
	return t.cast(r, false)
}

func (t *Octree) Intersect(r *Ray) bool {
	return t.cast(r, true)
}

func (t *Octree) cast(r *Ray, boolOnly bool) bool {
	if !t.done || len(t.cells) == 0 {
		return false
	}
	tEnter, tExit, ok := t.clip(r)
	if !ok {
		return false
	}
	tEnter = math.Max(tEnter, 0)
	tExit = math.Min(tExit, r.Dist)
	if tEnter > tExit {
		return false
	}

	entry := r.Start
	entry.X += r.Dir.X * tEnter
	entry.Y += r.Dir.Y * tEnter
	entry.Z += r.Dir.Z * tEnter
	idx := t.cellIndex(entry.X, entry.Y, entry.Z)

	step := [3]int{1, 1, 1}
	dirv := [3]float64{r.Dir.X, r.Dir.Y, r.Dir.Z}
	cellLen := [3]float64{t.cellLen.X, t.cellLen.Y, t.cellLen.Z}
	origin := [3]float64{t.bb.MinX, t.bb.MinY, t.bb.MinZ}
	var tMax, tDelta [3]float64
	for ax := 0; ax < 3; ax++ {
		if dirv[ax] > 0 {
			step[ax] = 1
			next := origin[ax] + float64(idx[ax]+1)*cellLen[ax]
			tMax[ax] = (next - startAxis(r, ax)) / dirv[ax]
			tDelta[ax] = cellLen[ax] / dirv[ax]
		} else if dirv[ax] < 0 {
			step[ax] = -1
			next := origin[ax] + float64(idx[ax])*cellLen[ax]
			tMax[ax] = (next - startAxis(r, ax)) / dirv[ax]
			tDelta[ax] = -cellLen[ax] / dirv[ax]
		} else {
			tMax[ax] = math.Inf(1)
			tDelta[ax] = math.Inf(1)
		}
	}

	hit := false
	for {
		if idx[0] < 0 || idx[0] >= t.res || idx[1] < 0 || idx[1] >= t.res || idx[2] < 0 || idx[2] >= t.res {
			break
		}
		nextT := math.Min(tMax[0], math.Min(tMax[1], tMax[2]))
		if cell, ok := t.cells[idx]; ok {
			rayRange := [3]uint32{
				t.rayOcval(r, 0, idx),
				t.rayOcval(r, 1, idx),
				t.rayOcval(r, 2, idx),
			}
			for _, e := range cell.entries {
				if e.ocval[0]&rayRange[0] == 0 || e.ocval[1]&rayRange[1] == 0 || e.ocval[2]&rayRange[2] == 0 {
					continue
				}
				var got bool
				if boolOnly {
					got = e.handle.Intersect(r)
				} else {
					got = e.handle.Raycast(r)
				}
				if got {
					hit = true
					if boolOnly || r.Mode == Shadow {
						return true
					}
				}
			}
		}
		if hit && r.Dist <= nextT {
			return true
		}
		if nextT > tExit {
			break
		}
		axis := 0
		if tMax[1] < tMax[axis] {
			axis = 1
		}
		if tMax[2] < tMax[axis] {
			axis = 2
		}
		idx[axis] += step[axis]
		tMax[axis] += tDelta[axis]
	}
	return hit
}

func startAxis(r *Ray, axis int) float64 {
	switch axis {
	case 0:
		return r.Start.X
	case 1:
		return r.Start.Y
	default:
		return r.Start.Z
	}
}

// rayOcval computes the same style of 15-bit sub-cell mask as ocval,
// but for the ray's own path through cell idx on the given axis: a
// conservative (superset) range covering the ray's full travel
// distance, clamped to the cell, so the AND-test in cast can only ever
// skip an entry that truly cannot overlap the ray within this cell.
func (t *Octree) rayOcval(r *Ray, axis int, idx [3]int) uint32 {
	cellBB := t.cellBox(idx)
	var cMin, cMax, a0, a1 float64
	switch axis {
	case 0:
		cMin, cMax = cellBB.MinX, cellBB.MaxX
	case 1:
		cMin, cMax = cellBB.MinY, cellBB.MaxY
	default:
		cMin, cMax = cellBB.MinZ, cellBB.MaxZ
	}
	a0 = rayAxisAt(r, axis, 0)
	a1 = rayAxisAt(r, axis, r.Dist)
	lo, hi := a0, a1
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo < cMin {
		lo = cMin
	}
	if hi > cMax {
		hi = cMax
	}
	return axisOcval(lo, hi, cMin, cMax)
}

func rayAxisAt(r *Ray, axis int, t float64) float64 {
	switch axis {
	case 0:
		return r.Start.X + r.Dir.X*t
	case 1:
		return r.Start.Y + r.Dir.Y*t
	default:
		return r.Start.Z + r.Dir.Z*t
	}
}

// clip intersects the ray with the octree's own enlarged cube,
// reporting the [tEnter, tExit] range the DDA should walk.
func (t *Octree) clip(r *Ray) (tEnter, tExit float64, ok bool) {
	a := t.bb.Array()
	start := [3]float64{r.Start.X, r.Start.Y, r.Start.Z}
	inv := [3]float64{r.invDir.X, r.invDir.Y, r.invDir.Z}

	tEnter, tExit = math.Inf(-1), math.Inf(1)
	mins := [3]float64{a[0], a[1], a[2]}
	maxs := [3]float64{a[3], a[4], a[5]}
	for ax := 0; ax < 3; ax++ {
		t1 := (mins[ax] - start[ax]) * inv[ax]
		t2 := (maxs[ax] - start[ax]) * inv[ax]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tEnter = math.Max(tEnter, t1)
		tExit = math.Min(tExit, t2)
	}
	if tEnter > tExit {
		return 0, 0, false
	}
	return tEnter, tExit, true
}
