// Package collision implements C3, swept-AABB resolution of an entity's
// proposed per-substep motion against the grid. Grounded on the teacher's
// systems/physics.go (wall-slide + step handling shape) and
// systems/terrain.go (solid-cell query + "find nearest open position"
// pattern), re-expressed as pure axis-aligned rectangle math against
// grid.Grid instead of the teacher's pixel-grained TerrainSystem.
package collision

import (
	"math"

	"github.com/holdline-games/warden/config"
	"github.com/holdline-games/warden/grid"
)

// AABB is an axis-aligned bounding box in world units.
type AABB struct {
	MinX, MinY, MaxX, MaxY float64
}

// NewAABB builds an AABB from a center point and half-extents.
func NewAABB(centerX, centerY, halfWidth, halfHeight float64) AABB {
	return AABB{
		MinX: centerX - halfWidth,
		MaxX: centerX + halfWidth,
		MinY: centerY - halfHeight,
		MaxY: centerY + halfHeight,
	}
}

// Width and Height report the box's extents.
func (b AABB) Width() float64  { return b.MaxX - b.MinX }
func (b AABB) Height() float64 { return b.MaxY - b.MinY }

// Center returns the box's midpoint.
func (b AABB) Center() (x, y float64) {
	return (b.MinX + b.MaxX) / 2, (b.MinY + b.MaxY) / 2
}

// StepTier records which step-up tier (if any) fired during a horizontal
// resolution, so PhysicsStep (C6) can apply the right velocity rule
// (§8 property 6: Tier 1 never reduces |vx|, Tier 2 reduces it by exactly
// 1-ENTITY_STEP_TIER2_HORIZONTAL_FRICTION).
type StepTier int

const (
	StepNone StepTier = iota
	StepTier1
	StepTier2
)

// Result reports what happened during one Resolve call.
type Result struct {
	CollidedX bool
	CollidedY bool
	OnGround  bool
	InWater   bool
	Step      StepTier
}

// Resolver resolves AABB motion against a grid using a fixed cell-to-world
// scale.
type Resolver struct {
	g           *grid.Grid
	blockWidth  float64
	blockHeight float64
	cfg         config.PhysicsConfig
}

// NewResolver constructs a Resolver against the given grid and block scale.
func NewResolver(g *grid.Grid, blockWidth, blockHeight float64, cfg config.PhysicsConfig) *Resolver {
	return &Resolver{g: g, blockWidth: blockWidth, blockHeight: blockHeight, cfg: cfg}
}

// Resolve moves box by (dx,dy), resolving X then Y independently against
// solid cells (§4.3), and reports the resulting box plus collision flags.
// NaN or infinite deltas are rejected and treated as zero motion on that
// axis (§7 InvalidInputState: never propagate NaN into state).
func (r *Resolver) Resolve(box AABB, dx, dy float64) (AABB, Result) {
	if math.IsNaN(dx) || math.IsInf(dx, 0) {
		dx = 0
	}
	if math.IsNaN(dy) || math.IsInf(dy, 0) {
		dy = 0
	}

	var res Result
	box, res.CollidedX, res.Step = r.resolveX(box, dx)
	box, res.CollidedY, res.OnGround = r.resolveY(box, dy)

	cx, cy := box.Center()
	res.InWater = r.g.IsWater(r.worldToCell(cx, r.blockWidth), r.worldToCell(cy, r.blockHeight))

	return box, res
}

func (r *Resolver) worldToCell(w, blockSize float64) int {
	return int(math.Floor(w / blockSize))
}

// ColAt converts a world-space X coordinate to its containing column.
func (r *Resolver) ColAt(x float64) int { return r.worldToCell(x, r.blockWidth) }

// RowAt converts a world-space Y coordinate to its containing row.
func (r *Resolver) RowAt(y float64) int { return r.worldToCell(y, r.blockHeight) }

// BlockWidth reports the resolver's cell-to-world horizontal scale.
func (r *Resolver) BlockWidth() float64 { return r.blockWidth }

// BlockHeight reports the resolver's cell-to-world vertical scale.
func (r *Resolver) BlockHeight() float64 { return r.blockHeight }

// cellRange returns the inclusive [min,max] cell index range spanned by a
// world-space interval.
func (r *Resolver) cellRange(minW, maxW, blockSize float64) (int, int) {
	minIdx := int(math.Floor(minW / blockSize))
	maxIdx := int(math.Floor((maxW - 1e-9) / blockSize))
	if maxIdx < minIdx {
		maxIdx = minIdx
	}
	return minIdx, maxIdx
}

// overlapsSolid reports whether any cell overlapping box is solid.
func (r *Resolver) overlapsSolid(box AABB) bool {
	minCol, maxCol := r.cellRange(box.MinX, box.MaxX, r.blockWidth)
	minRow, maxRow := r.cellRange(box.MinY, box.MaxY, r.blockHeight)
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			if r.g.IsSolid(col, row) {
				return true
			}
		}
	}
	return false
}

// firstSolidRow scans rows [rowMin,rowMax] (inclusive) across columns
// [colMin,colMax], in increasing order if ascending else decreasing, and
// returns the first row containing a solid cell.
func (r *Resolver) firstSolidRow(colMin, colMax, rowMin, rowMax int, ascending bool) (int, bool) {
	if rowMin > rowMax {
		return 0, false
	}
	step := 1
	start, end := rowMin, rowMax
	if !ascending {
		step = -1
		start, end = rowMax, rowMin
	}
	for row := start; ascending && row <= end || !ascending && row >= end; row += step {
		for col := colMin; col <= colMax; col++ {
			if r.g.IsSolid(col, row) {
				return row, true
			}
		}
	}
	return 0, false
}

// firstSolidCol is firstSolidRow's column-axis counterpart, used by
// horizontal resolution.
func (r *Resolver) firstSolidCol(rowMin, rowMax, colMin, colMax int, ascending bool) (int, bool) {
	if colMin > colMax {
		return 0, false
	}
	step := 1
	start, end := colMin, colMax
	if !ascending {
		step = -1
		start, end = colMax, colMin
	}
	for col := start; ascending && col <= end || !ascending && col >= end; col += step {
		for row := rowMin; row <= rowMax; row++ {
			if r.g.IsSolid(col, row) {
				return col, true
			}
		}
	}
	return 0, false
}

func (r *Resolver) resolveX(box AABB, dx float64) (AABB, bool, StepTier) {
	if dx == 0 {
		return box, false, StepNone
	}

	moved := box
	moved.MinX += dx
	moved.MaxX += dx

	if !r.overlapsSolid(moved) {
		return moved, false, StepNone
	}

	rowMin, rowMax := r.cellRange(box.MinY, box.MaxY, r.blockHeight)
	origColMin, origColMax := r.cellRange(box.MinX, box.MaxX, r.blockWidth)
	movedColMin, movedColMax := r.cellRange(moved.MinX, moved.MaxX, r.blockWidth)

	var obstacleCol int
	var found bool
	entityHeight := box.Height()
	feetY := box.MaxY

	if dx > 0 {
		obstacleCol, found = r.firstSolidCol(rowMin, rowMax, origColMax+1, movedColMax, true)
	} else {
		obstacleCol, found = r.firstSolidCol(rowMin, rowMax, movedColMin, origColMin-1, false)
	}

	if found {
		if top, hasTop := r.firstSolidRow(obstacleCol, obstacleCol, rowMin, rowMax, true); hasTop {
			obstacleHeight := feetY - float64(top)*r.blockHeight
			if obstacleHeight >= 0 {
				if obstacleHeight <= r.cfg.StepTier1MaxHeightFactor*entityHeight {
					raised := moved
					raised.MaxY = float64(top)*r.blockHeight - r.cfg.Epsilon
					raised.MinY = raised.MaxY - entityHeight
					if !r.overlapsSolid(raised) {
						return raised, false, StepTier1
					}
				} else if obstacleHeight <= r.cfg.StepTier2MaxHeightFactor*entityHeight {
					raised := moved
					raised.MaxY = float64(top)*r.blockHeight - r.cfg.Epsilon
					raised.MinY = raised.MaxY - entityHeight
					if !r.overlapsSolid(raised) {
						return raised, false, StepTier2
					}
				}
			}
		}

		clamped := box
		if dx > 0 {
			wall := float64(obstacleCol) * r.blockWidth
			clamped.MaxX = wall - r.cfg.Epsilon
			clamped.MinX = clamped.MaxX - box.Width()
		} else {
			wall := float64(obstacleCol+1) * r.blockWidth
			clamped.MinX = wall + r.cfg.Epsilon
			clamped.MaxX = clamped.MinX + box.Width()
		}
		return clamped, true, StepNone
	}

	// overlapsSolid(moved) was true but the swept-range search found
	// nothing new (degenerate/zero-area box at a boundary); reject the
	// move defensively rather than risk a penetrating position.
	return box, true, StepNone
}

func (r *Resolver) resolveY(box AABB, dy float64) (AABB, bool, bool) {
	if dy == 0 {
		return box, false, false
	}

	moved := box
	moved.MinY += dy
	moved.MaxY += dy

	if !r.overlapsSolid(moved) {
		return moved, false, false
	}

	colMin, colMax := r.cellRange(box.MinX, box.MaxX, r.blockWidth)
	origRowMin, origRowMax := r.cellRange(box.MinY, box.MaxY, r.blockHeight)
	movedRowMin, movedRowMax := r.cellRange(moved.MinY, moved.MaxY, r.blockHeight)

	clamped := box
	onGround := false

	if dy > 0 {
		row, found := r.firstSolidRow(colMin, colMax, origRowMax+1, movedRowMax, true)
		if !found {
			return box, true, false
		}
		floorTop := float64(row) * r.blockHeight
		clamped.MaxY = floorTop - r.cfg.Epsilon
		clamped.MinY = clamped.MaxY - box.Height()
		onGround = true
	} else {
		row, found := r.firstSolidRow(colMin, colMax, movedRowMin, origRowMin-1, false)
		if !found {
			return box, true, false
		}
		ceilBottom := float64(row+1) * r.blockHeight
		clamped.MinY = ceilBottom + r.cfg.Epsilon
		clamped.MaxY = clamped.MinY + box.Height()
	}
	return clamped, true, onGround
}
